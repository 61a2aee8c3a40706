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
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tombee/beacon/internal/log"
)

// Client is the resilient outbound HTTP call engine. It owns the
// registry of live calls, executes the send/retry loop for each call on
// its own goroutine, and enforces the cancel-on-disable invariant: when
// the client is disabled, every registered call finalizes with a
// cancellation error and no further network attempts are scheduled.
//
// A Client is safe for concurrent use.
type Client struct {
	mu      sync.Mutex
	enabled bool
	calls   map[string]*Call

	http   *http.Client
	cfg    Config
	logger *slog.Logger
	tracer trace.Tracer
}

// New creates a call engine with the given configuration. The engine
// starts enabled.
func New(cfg Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	transport := cfg.Transport
	if transport == nil {
		transport = &http.Transport{
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
				MaxVersion: tls.VersionTLS13,
			},

			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,

			DialContext: (&net.Dialer{
				Timeout:   10 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			TLSHandshakeTimeout:   10 * time.Second,
			ResponseHeaderTimeout: cfg.Timeout,
			ExpectContinueTimeout: 1 * time.Second,
		}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Client{
		enabled: true,
		calls:   make(map[string]*Call),
		http: &http.Client{
			Transport: transport,
			Timeout:   cfg.Timeout,
		},
		cfg:    cfg,
		logger: log.WithComponent(logger, "httpcall"),
		tracer: otel.Tracer("github.com/tombee/beacon/pkg/httpcall"),
	}, nil
}

// SendAsync submits a logical HTTP call. The returned handle is usable
// only for cancellation lookups; the outcome arrives through complete,
// which fires exactly once.
//
// Invalid requests and submissions while the client is disabled invoke
// complete synchronously with no network activity and return a nil
// handle.
func (c *Client) SendAsync(req Request, complete CompletionFunc) *Call {
	if err := validateRequest(req); err != nil {
		if complete != nil {
			complete(nil, &CallError{
				Type:      ErrorTypeInvalidReq,
				Message:   err.Error(),
				Retryable: false,
				Cause:     err,
			})
		}
		return nil
	}

	call := newCall(req, complete)

	c.mu.Lock()
	if !c.enabled {
		c.mu.Unlock()
		call.finish(nil, errDisabled())
		return nil
	}
	c.calls[call.id] = call
	c.mu.Unlock()

	go c.run(call)
	return call
}

// SetEnabled enables or disables the client. Disabling atomically
// rejects subsequent submissions, cancels every registered call, and
// fires each cancelled call's completion with a cancellation error.
// In-flight network activity is discarded once it returns. Enabling
// permits new submissions and has no effect on cancelled calls.
// SetEnabled is idempotent and safe to call concurrently with SendAsync.
func (c *Client) SetEnabled(enabled bool) {
	c.mu.Lock()
	if c.enabled == enabled {
		c.mu.Unlock()
		return
	}
	c.enabled = enabled
	if enabled {
		c.mu.Unlock()
		c.logger.Info("client enabled")
		return
	}

	cancelled := make([]*Call, 0, len(c.calls))
	for _, call := range c.calls {
		cancelled = append(cancelled, call)
	}
	c.calls = make(map[string]*Call)
	c.mu.Unlock()

	c.logger.Info("client disabled, cancelling pending calls", "pending", len(cancelled))

	for _, call := range cancelled {
		call.markCancelled()
		call.finish(nil, errCancelled())
	}
}

// Enabled reports whether the client currently accepts new calls.
func (c *Client) Enabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.enabled
}

// PendingCalls returns the number of registered calls that have not yet
// completed.
func (c *Client) PendingCalls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.calls)
}

// unregister removes a call from the registry. Calls already drained by
// SetEnabled(false) are gone; removal is a no-op then.
func (c *Client) unregister(id string) {
	c.mu.Lock()
	delete(c.calls, id)
	c.mu.Unlock()
}

// run drives one call to its terminal outcome.
func (c *Client) run(call *Call) {
	ctx, span := c.tracer.Start(call.ctx, "httpcall.send",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", call.method),
			attribute.String("http.url", call.url),
		),
	)
	defer span.End()

	body := call.body
	if call.compress && len(body) > c.cfg.CompressionThreshold {
		compressed, err := compressBody(body)
		if err != nil {
			// Compression is a bandwidth optimization, never a
			// correctness requirement; fall back to the raw body.
			c.logger.Debug("compression failed, sending uncompressed",
				log.CallIDKey, call.id, "error", err)
		} else {
			body = compressed
			call.headers[contentEncodingHeader] = "gzip"
		}
	}

	resp, cerr := c.execute(ctx, call, body)

	c.unregister(call.id)

	outcome := &log.CallOutcome{
		CallID:     call.id,
		Attempts:   call.attempt + 1,
		DurationMs: time.Since(call.started).Milliseconds(),
	}
	if cerr != nil {
		outcome.Status = cerr.StatusCode
		outcome.Error = cerr.Message
		span.SetStatus(codes.Error, cerr.Message)
	} else {
		outcome.Status = resp.StatusCode
		span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
		span.SetStatus(codes.Ok, "")
	}
	log.LogCallOutcome(c.logger, outcome)

	if cerr != nil {
		call.finish(nil, cerr)
		return
	}
	call.finish(resp, nil)
}

// execute is the send/retry loop. It returns a response on success or
// the classified terminal error.
func (c *Client) execute(ctx context.Context, call *Call, body []byte) (*Response, *CallError) {
	for {
		if call.Cancelled() {
			return nil, errCancelled()
		}

		if c.cfg.RateLimiter != nil {
			if err := c.cfg.RateLimiter.Wait(ctx); err != nil {
				return nil, errCancelled()
			}
		}

		log.LogCallAttempt(c.logger, &log.CallAttempt{
			CallID:  call.id,
			Method:  call.method,
			URL:     call.url,
			Attempt: call.attempt,
		})

		resp, cerr := c.attempt(ctx, call.method, call.url, call.headers, body)
		if cerr == nil {
			return resp, nil
		}

		// A cancellation observed after the attempt returns discards
		// the in-flight result and never schedules a retry.
		if call.Cancelled() {
			return nil, errCancelled()
		}

		if !cerr.Retryable || !call.policy.ShouldRetry(call.attempt) {
			return nil, cerr
		}

		delay := call.policy.Delay(call.attempt)
		call.attempt++

		c.logger.Debug("retrying after backoff",
			log.CallIDKey, call.id, log.AttemptKey, call.attempt, "delay", delay)

		// Timer-based wait: the goroutine parks on the timer and
		// cancellation preempts it instead of firing the retry.
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, errCancelled()
		}
	}
}

// attempt performs a single transmission and classifies the outcome.
func (c *Client) attempt(ctx context.Context, method, target string, headers map[string]string, body []byte) (*Response, *CallError) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, &CallError{
			Type:      ErrorTypeInvalidReq,
			Message:   fmt.Sprintf("failed to build HTTP request: %s", err.Error()),
			Retryable: false,
			Cause:     err,
		}
	}

	for key, value := range headers {
		httpReq.Header.Set(key, value)
	}
	if httpReq.Header.Get("User-Agent") == "" {
		httpReq.Header.Set("User-Agent", c.cfg.UserAgent)
	}

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, classifyNetworkError(err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, &CallError{
			Type:      ErrorTypeConnection,
			Message:   fmt.Sprintf("failed to read response body: %s", err.Error()),
			Retryable: true,
			Cause:     err,
		}
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return nil, classifyStatusError(httpResp.StatusCode, respBody)
	}

	return &Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
		Body:       respBody,
	}, nil
}

// validateRequest checks the submission preconditions.
func validateRequest(req Request) error {
	if req.Method == "" {
		return fmt.Errorf("method is required")
	}

	validMethods := map[string]bool{
		"GET": true, "POST": true, "PUT": true, "DELETE": true,
		"PATCH": true, "HEAD": true, "OPTIONS": true,
	}
	if !validMethods[strings.ToUpper(req.Method)] {
		return fmt.Errorf("invalid HTTP method: %q", req.Method)
	}

	if req.URL == "" {
		return fmt.Errorf("URL is required")
	}

	parsed, err := url.Parse(req.URL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("URL scheme must be http or https, got %q", parsed.Scheme)
	}
	if parsed.Host == "" {
		return fmt.Errorf("URL must include host")
	}

	if err := req.RetryPolicy.Validate(); err != nil {
		return fmt.Errorf("invalid retry policy: %w", err)
	}

	return nil
}
