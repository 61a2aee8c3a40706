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

package log

import (
	"log/slog"
)

// CallAttempt describes one transmission attempt of an HTTP call for
// logging purposes.
type CallAttempt struct {
	// CallID is the unique ID of the logical call.
	CallID string

	// Method is the HTTP method of the request.
	Method string

	// URL is the target of the request. Callers are responsible for
	// passing a URL that is safe to log.
	URL string

	// Attempt is the zero-based attempt counter.
	Attempt int
}

// CallOutcome describes the terminal result of an HTTP call for logging
// purposes.
type CallOutcome struct {
	// CallID is the unique ID of the logical call.
	CallID string

	// Status is the final HTTP status code, zero when the call never
	// produced a response.
	Status int

	// Error is the terminal error message if the call failed.
	Error string

	// DurationMs is the total duration of the call in milliseconds,
	// including retries and backoff waits.
	DurationMs int64

	// Attempts is the number of transmission attempts made.
	Attempts int
}

// LogCallAttempt logs a single transmission attempt at debug level.
func LogCallAttempt(logger *slog.Logger, a *CallAttempt) {
	logger.Debug("sending request",
		EventKey, "call_attempt",
		CallIDKey, a.CallID,
		"method", a.Method,
		"url", a.URL,
		AttemptKey, a.Attempt,
	)
}

// LogCallOutcome logs the terminal result of a call. Successful calls
// log at debug level, failures at warn level.
func LogCallOutcome(logger *slog.Logger, o *CallOutcome) {
	attrs := []any{
		EventKey, "call_complete",
		CallIDKey, o.CallID,
		AttemptKey, o.Attempts,
		DurationKey, o.DurationMs,
	}

	if o.Status != 0 {
		attrs = append(attrs, StatusKey, o.Status)
	}

	if o.Error != "" {
		attrs = append(attrs, "error", o.Error)
		logger.Warn("request failed", attrs...)
		return
	}

	logger.Debug("request complete", attrs...)
}
