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
	"errors"
	"fmt"
	"net/http"

	"github.com/tombee/beacon/pkg/httpcall"
)

// ErrorKind classifies store errors for caller decisions.
type ErrorKind string

const (
	// KindAuthentication indicates the token was rejected (401/403).
	// Callers refresh the token and resubmit the logical operation.
	KindAuthentication ErrorKind = "authentication"

	// KindNotFound indicates the document does not exist (404). Terminal.
	KindNotFound ErrorKind = "not_found"

	// KindConflict indicates a write conflict such as a duplicate id on
	// create (409). Terminal.
	KindConflict ErrorKind = "conflict"

	// KindSerialization indicates the document could not be serialized
	// or the response body could not be deserialized. Terminal.
	KindSerialization ErrorKind = "serialization"

	// KindTransport indicates a connectivity or backend failure that
	// survived the engine's retry policy.
	KindTransport ErrorKind = "transport"

	// KindCancelled indicates the operation was cancelled, either by
	// disabling the engine mid-flight or by the caller's context.
	KindCancelled ErrorKind = "cancelled"

	// KindDisabled indicates the engine rejected the operation because
	// it is disabled.
	KindDisabled ErrorKind = "disabled"

	// KindInvalid indicates the operation was malformed (missing token,
	// bad request shape).
	KindInvalid ErrorKind = "invalid"
)

// Error is a classified document-store error.
type Error struct {
	// Kind classifies the error.
	Kind ErrorKind

	// StatusCode is the backend HTTP status code if applicable.
	StatusCode int

	// Message is a user-facing description.
	Message string

	// Cause is the underlying error.
	Cause error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("docstore %s error (status %d): %s", e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("docstore %s error: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying error for error chain inspection.
func (e *Error) Unwrap() error {
	return e.Cause
}

// IsAuthentication reports whether err is an authorization failure that
// a token refresh may resolve.
func IsAuthentication(err error) bool {
	return isKind(err, KindAuthentication)
}

// IsNotFound reports whether err indicates a missing document.
func IsNotFound(err error) bool {
	return isKind(err, KindNotFound)
}

// IsConflict reports whether err indicates a write conflict.
func IsConflict(err error) bool {
	return isKind(err, KindConflict)
}

// IsSerialization reports whether err is a document encode/decode failure.
func IsSerialization(err error) bool {
	return isKind(err, KindSerialization)
}

func isKind(err error, kind ErrorKind) bool {
	var se *Error
	return errors.As(err, &se) && se.Kind == kind
}

// fromCallError maps an engine error onto the store taxonomy.
func fromCallError(err error) *Error {
	var ce *httpcall.CallError
	if !errors.As(err, &ce) {
		return &Error{Kind: KindTransport, Message: err.Error(), Cause: err}
	}

	kind := KindTransport
	switch {
	case ce.Type == httpcall.ErrorTypeAuth:
		kind = KindAuthentication
	case ce.StatusCode == http.StatusNotFound:
		kind = KindNotFound
	case ce.StatusCode == http.StatusConflict:
		kind = KindConflict
	case ce.Type == httpcall.ErrorTypeCancelled:
		kind = KindCancelled
	case ce.Type == httpcall.ErrorTypeDisabled:
		kind = KindDisabled
	case ce.Type == httpcall.ErrorTypeInvalidReq:
		kind = KindInvalid
	}

	return &Error{
		Kind:       kind,
		StatusCode: ce.StatusCode,
		Message:    ce.Message,
		Cause:      err,
	}
}
