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
	"net/url"
	"testing"
)

func TestClassifyStatusError(t *testing.T) {
	tests := []struct {
		status        int
		wantType      ErrorType
		wantRetryable bool
	}{
		{400, ErrorTypeClient, false},
		{401, ErrorTypeAuth, false},
		{403, ErrorTypeAuth, false},
		{404, ErrorTypeClient, false},
		{408, ErrorTypeTimeout, true},
		{409, ErrorTypeClient, false},
		{429, ErrorTypeRateLimit, true},
		{500, ErrorTypeServer, true},
		{502, ErrorTypeServer, true},
		{503, ErrorTypeServer, true},
		{504, ErrorTypeServer, true},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("status_%d", tt.status), func(t *testing.T) {
			err := classifyStatusError(tt.status, nil)

			if err.Type != tt.wantType {
				t.Errorf("Type = %q, want %q", err.Type, tt.wantType)
			}
			if err.Retryable != tt.wantRetryable {
				t.Errorf("Retryable = %v, want %v", err.Retryable, tt.wantRetryable)
			}
			if err.StatusCode != tt.status {
				t.Errorf("StatusCode = %d, want %d", err.StatusCode, tt.status)
			}
		})
	}
}

func TestClassifyStatusError_IncludesSmallBody(t *testing.T) {
	err := classifyStatusError(400, []byte("  bad partition key  "))
	if err.Message != "HTTP 400: bad partition key" {
		t.Errorf("Message = %q", err.Message)
	}

	large := make([]byte, 600)
	err = classifyStatusError(500, large)
	if err.Message != "HTTP 500" {
		t.Errorf("large bodies must be omitted, got %q", err.Message)
	}
}

func TestClassifyNetworkError(t *testing.T) {
	t.Run("context cancellation is terminal", func(t *testing.T) {
		err := classifyNetworkError(&url.Error{Op: "Post", URL: "https://x", Err: context.Canceled})
		if err.Type != ErrorTypeCancelled {
			t.Errorf("Type = %q, want cancelled", err.Type)
		}
		if err.Retryable {
			t.Error("cancellation must not be retryable")
		}
	})

	t.Run("generic failure is a retryable connection error", func(t *testing.T) {
		err := classifyNetworkError(fmt.Errorf("connection refused"))
		if err.Type != ErrorTypeConnection {
			t.Errorf("Type = %q, want connection", err.Type)
		}
		if !err.Retryable {
			t.Error("connection errors must be retryable")
		}
	})
}

func TestCallError_ErrorAndUnwrap(t *testing.T) {
	cause := fmt.Errorf("underlying")
	err := &CallError{Type: ErrorTypeServer, StatusCode: 503, Message: "HTTP 503", Cause: cause}

	if err.Error() != "server error (status 503): HTTP 503" {
		t.Errorf("Error() = %q", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Error("Unwrap must expose the cause")
	}

	noStatus := &CallError{Type: ErrorTypeCancelled, Message: "call cancelled"}
	if noStatus.Error() != "cancelled error: call cancelled" {
		t.Errorf("Error() = %q", noStatus.Error())
	}
}

func TestIsCancelledAndIsDisabled(t *testing.T) {
	if !IsCancelled(errCancelled()) {
		t.Error("IsCancelled(errCancelled()) = false")
	}
	if !IsDisabled(errDisabled()) {
		t.Error("IsDisabled(errDisabled()) = false")
	}
	if IsCancelled(errDisabled()) || IsDisabled(errCancelled()) {
		t.Error("predicates must not cross-match")
	}
	if IsCancelled(fmt.Errorf("plain")) || IsDisabled(nil) {
		t.Error("predicates must reject non-CallError values")
	}

	wrapped := fmt.Errorf("operation failed: %w", errCancelled())
	if !IsCancelled(wrapped) {
		t.Error("IsCancelled must unwrap error chains")
	}
}
