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

package httpcall

import (
	"bytes"
	"compress/gzip"
)

// DefaultCompressionThreshold is the body size in bytes above which
// compression is applied when a call enables it. Bodies at or below the
// threshold are sent uncompressed; gzip overhead dominates for small
// payloads.
const DefaultCompressionThreshold = 1400

// contentEncodingHeader accompanies compressed bodies so the receiving
// service can decompress.
const contentEncodingHeader = "Content-Encoding"

// compressBody gzip-compresses the given payload.
func compressBody(body []byte) ([]byte, error) {
	var buf bytes.Buffer

	w := gzip.NewWriter(&buf)
	if _, err := w.Write(body); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
