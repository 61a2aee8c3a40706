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
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Request describes one logical HTTP call submitted to the engine.
type Request struct {
	// URL is the absolute target address (required).
	URL string

	// Method is the HTTP verb (required; GET, POST, PUT, PATCH, DELETE,
	// HEAD or OPTIONS).
	Method string

	// Headers are request headers. Keys are treated case-insensitively
	// by the underlying transport.
	Headers map[string]string

	// Body is the optional request payload.
	Body []byte

	// RetryPolicy is the ordered delay sequence for transient failures.
	// Nil or empty means no retries.
	RetryPolicy RetryPolicy

	// Compress enables gzip compression when Body exceeds the client's
	// compression threshold.
	Compress bool
}

// Response is the structured result delivered to a completion callback
// on success.
type Response struct {
	// StatusCode is the HTTP status code (always 2xx on success).
	StatusCode int

	// Headers are the response headers.
	Headers http.Header

	// Body is the response payload, possibly empty.
	Body []byte
}

// CompletionFunc receives the terminal outcome of a call. Exactly one
// of resp or err is non-nil, and the callback fires exactly once per
// call. Callbacks may run on the call's goroutine or, for cancellation,
// on the goroutine that disabled the client; they must not block for
// long.
type CompletionFunc func(resp *Response, err error)

// Call is the registered handle for one logical request. It tracks the
// retry attempt counter and the cancellation flag, and guarantees its
// completion callback is invoked at most once. Calls are created by the
// engine and mutated only by the engine's retry loop or by
// SetEnabled(false).
type Call struct {
	id       string
	url      string
	method   string
	headers  map[string]string
	body     []byte
	policy   RetryPolicy
	compress bool
	complete CompletionFunc

	// attempt counts transmission attempts already failed; owned by the
	// run loop.
	attempt int

	started   time.Time
	cancelled atomic.Bool
	once      sync.Once

	// ctx is cancelled when the call is cancelled, aborting in-flight
	// transport activity and pending backoff waits.
	ctx    context.Context
	cancel context.CancelFunc
}

// newCall constructs a registered call from a request.
func newCall(req Request, complete CompletionFunc) *Call {
	ctx, cancel := context.WithCancel(context.Background())

	headers := make(map[string]string, len(req.Headers))
	for k, v := range req.Headers {
		headers[k] = v
	}

	return &Call{
		id:       uuid.NewString(),
		url:      req.URL,
		method:   req.Method,
		headers:  headers,
		body:     req.Body,
		policy:   req.RetryPolicy,
		compress: req.Compress,
		complete: complete,
		started:  time.Now(),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// ID returns the unique identifier of the call.
func (c *Call) ID() string {
	return c.id
}

// Cancelled reports whether the call has been cancelled by disabling
// the client.
func (c *Call) Cancelled() bool {
	return c.cancelled.Load()
}

// markCancelled sets the cancellation flag and aborts in-flight
// transport activity and backoff waits.
func (c *Call) markCancelled() {
	c.cancelled.Store(true)
	c.cancel()
}

// finish delivers the terminal outcome. The sync.Once guards the
// exactly-once completion invariant against the race between the run
// loop and SetEnabled(false).
func (c *Call) finish(resp *Response, err error) {
	c.once.Do(func() {
		c.cancel()
		if c.complete != nil {
			c.complete(resp, err)
		}
	})
}
