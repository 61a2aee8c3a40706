// Copyright 2025 Tom Barlow
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package docstore

import (
	"encoding/json"
	"fmt"
)

// Marshaler is implemented by documents that control their own
// serialization to the request body. Every other value is serialized
// with encoding/json.
type Marshaler interface {
	MarshalDocument() ([]byte, error)
}

// marshalDocument converts a caller-supplied document into a body
// payload. A nil document (read, delete, list) yields no body. Raw byte
// payloads pass through untouched.
func marshalDocument(doc any) ([]byte, error) {
	switch d := doc.(type) {
	case nil:
		return nil, nil
	case Marshaler:
		body, err := d.MarshalDocument()
		if err != nil {
			return nil, &Error{
				Kind:    KindSerialization,
				Message: "document serialization failed",
				Cause:   err,
			}
		}
		return body, nil
	case []byte:
		return d, nil
	case json.RawMessage:
		return d, nil
	default:
		body, err := json.Marshal(d)
		if err != nil {
			return nil, &Error{
				Kind:    KindSerialization,
				Message: fmt.Sprintf("document of type %T is not JSON-serializable", d),
				Cause:   err,
			}
		}
		return body, nil
	}
}
