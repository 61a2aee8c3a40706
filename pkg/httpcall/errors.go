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
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
)

// ErrorType classifies call errors for retry decisions and error routing.
type ErrorType string

const (
	// ErrorTypeConnection indicates network or DNS errors
	ErrorTypeConnection ErrorType = "connection"

	// ErrorTypeTimeout indicates request timeout or deadline exceeded
	ErrorTypeTimeout ErrorType = "timeout"

	// ErrorTypeAuth indicates authentication failure (401, 403)
	ErrorTypeAuth ErrorType = "auth"

	// ErrorTypeRateLimit indicates rate limiting (429 Too Many Requests)
	ErrorTypeRateLimit ErrorType = "rate_limit"

	// ErrorTypeServer indicates server errors (5xx)
	ErrorTypeServer ErrorType = "server"

	// ErrorTypeClient indicates client errors (4xx, non-retryable)
	ErrorTypeClient ErrorType = "client"

	// ErrorTypeInvalidReq indicates request validation error (invalid method, URL, etc.)
	ErrorTypeInvalidReq ErrorType = "invalid_request"

	// ErrorTypeCancelled indicates the call was cancelled by disabling the client
	ErrorTypeCancelled ErrorType = "cancelled"

	// ErrorTypeDisabled indicates the call was rejected because the client is disabled
	ErrorTypeDisabled ErrorType = "disabled"
)

// CallError represents a classified error from call execution. Every
// failed call delivers a *CallError to its completion callback to
// enable consistent error handling above the engine.
type CallError struct {
	// Type classifies the error for routing and retry decisions
	Type ErrorType

	// StatusCode is the HTTP status code if applicable
	// Zero for non-HTTP errors (connection, timeout, cancellation)
	StatusCode int

	// Message is a user-facing error message
	Message string

	// Retryable indicates whether the engine may retry the attempt
	Retryable bool

	// Cause is the underlying error
	Cause error
}

// Error implements the error interface.
func (e *CallError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s error (status %d): %s", e.Type, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error for error chain inspection.
func (e *CallError) Unwrap() error {
	return e.Cause
}

// IsRetryable returns true if the engine may retry after this error.
func (e *CallError) IsRetryable() bool {
	return e.Retryable
}

// IsType returns true if the error is of the given type.
func (e *CallError) IsType(t ErrorType) bool {
	return e.Type == t
}

// IsStatusCode returns true if the error has the given HTTP status code.
func (e *CallError) IsStatusCode(code int) bool {
	return e.StatusCode == code
}

// IsCancelled reports whether err is a cancellation error produced by
// disabling the client while the call was pending or in flight.
func IsCancelled(err error) bool {
	var ce *CallError
	return errors.As(err, &ce) && ce.Type == ErrorTypeCancelled
}

// IsDisabled reports whether err indicates the call was rejected
// because the client was disabled at submission time.
func IsDisabled(err error) bool {
	var ce *CallError
	return errors.As(err, &ce) && ce.Type == ErrorTypeDisabled
}

// errDisabled builds the rejection error for calls submitted while the
// client is disabled.
func errDisabled() *CallError {
	return &CallError{
		Type:      ErrorTypeDisabled,
		Message:   "client is disabled",
		Retryable: false,
	}
}

// errCancelled builds the terminal error for calls cancelled by
// SetEnabled(false).
func errCancelled() *CallError {
	return &CallError{
		Type:      ErrorTypeCancelled,
		Message:   "call cancelled",
		Retryable: false,
	}
}

// classifyNetworkError classifies transport-level errors into CallError
// types. Network-level failures are retry-eligible except for context
// cancellation.
func classifyNetworkError(err error) *CallError {
	if errors.Is(err, context.Canceled) {
		return &CallError{
			Type:      ErrorTypeCancelled,
			Message:   "call cancelled",
			Retryable: false,
			Cause:     err,
		}
	}

	// Per-attempt client timeouts satisfy errors.Is(err,
	// context.DeadlineExceeded); they are timeouts, not cancellations.
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) ||
		(errors.As(err, &netErr) && netErr.Timeout()) {
		return &CallError{
			Type:      ErrorTypeTimeout,
			Message:   "request timeout",
			Retryable: true,
			Cause:     err,
		}
	}

	return &CallError{
		Type:      ErrorTypeConnection,
		Message:   connectionMessage(err),
		Retryable: true,
		Cause:     err,
	}
}

// connectionMessage strips the url.Error wrapper so logs carry the
// underlying failure rather than the full request URL.
func connectionMessage(err error) string {
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil {
		return urlErr.Err.Error()
	}
	return err.Error()
}

// classifyStatusError classifies non-2xx HTTP status codes. 408, 429
// and 5xx are retry-eligible; 401/403 are auth failures; every other
// 4xx is a terminal client error.
func classifyStatusError(statusCode int, body []byte) *CallError {
	var errorType ErrorType
	var retryable bool

	switch {
	case statusCode == 401 || statusCode == 403:
		errorType = ErrorTypeAuth
		retryable = false
	case statusCode == 408:
		errorType = ErrorTypeTimeout
		retryable = true
	case statusCode == 429:
		errorType = ErrorTypeRateLimit
		retryable = true
	case statusCode >= 500:
		errorType = ErrorTypeServer
		retryable = true
	default:
		errorType = ErrorTypeClient
		retryable = false
	}

	message := fmt.Sprintf("HTTP %d", statusCode)
	if len(body) > 0 && len(body) < 500 {
		// Include small error responses in the message
		message = fmt.Sprintf("HTTP %d: %s", statusCode, strings.TrimSpace(string(body)))
	}

	return &CallError{
		Type:       errorType,
		StatusCode: statusCode,
		Message:    message,
		Retryable:  retryable,
	}
}
