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
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/tombee/beacon/internal/log"
	"github.com/tombee/beacon/pkg/httpcall"
)

// Required headers on every backend request. Caller-supplied headers
// never override them.
const (
	// PartitionKeyHeader carries the token's partition identifier as a
	// single-element JSON array, the shape the backend expects.
	PartitionKeyHeader = "x-ms-documentdb-partitionkey"

	authorizationScheme = "Bearer"
	contentTypeJSON     = "application/json"
)

// HTTPClient is the engine capability set the store client depends on:
// submit-with-retry and set-enabled. Production *httpcall.Client and
// test doubles implement the same interface.
type HTTPClient interface {
	SendAsync(req httpcall.Request, complete httpcall.CompletionFunc) *httpcall.Call
	SetEnabled(enabled bool)
}

// Result is a successful backend response.
type Result struct {
	// StatusCode is the backend status code (2xx).
	StatusCode int

	// Headers are the response headers.
	Headers http.Header

	// Body is the raw response payload, possibly empty (e.g. 204).
	Body []byte
}

// DecodeInto deserializes the response body into v. A decode failure is
// a serialization error, distinct from transport errors.
func (r *Result) DecodeInto(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return &Error{
			Kind:    KindSerialization,
			Message: "response body is not a valid document",
			Cause:   err,
		}
	}
	return nil
}

// CompletionFunc receives the terminal outcome of a store operation.
// Exactly one of res or err is non-nil.
type CompletionFunc func(res *Result, err error)

// Option configures a Client.
type Option func(*Client)

// WithRetryPolicy overrides the backend retry policy.
func WithRetryPolicy(policy httpcall.RetryPolicy) Option {
	return func(c *Client) { c.policy = policy }
}

// WithLogger sets the logger for operation logs.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = log.WithComponent(logger, "docstore") }
}

// WithCompression toggles request body compression. Enabled by default;
// large documents benefit, and the engine skips bodies below its
// threshold either way.
func WithCompression(enabled bool) Option {
	return func(c *Client) { c.compress = enabled }
}

// Client performs CRUD operations against the document backend through
// an httpcall engine. It holds no per-operation state beyond the
// engine's own call registry.
type Client struct {
	http     HTTPClient
	policy   httpcall.RetryPolicy
	logger   *slog.Logger
	compress bool
}

// New creates a store client on top of the given engine.
func New(hc HTTPClient, opts ...Option) *Client {
	c := &Client{
		http:     hc,
		policy:   httpcall.DefaultRetryPolicy(),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		compress: true,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// PerformOperation builds and submits one backend request: URL from the
// token's collection coordinates plus documentID and additionalPath,
// required headers from the token, body from document (nil document
// means no body). The completion fires exactly once with either a 2xx
// Result or a classified store error. Accepts any document value;
// values implementing Marshaler control their own serialization.
func (c *Client) PerformOperation(token *TokenResult, documentID, method string, document any, additionalHeaders map[string]string, additionalPath string, complete CompletionFunc) {
	if token == nil || token.Token == "" {
		complete(nil, &Error{Kind: KindInvalid, Message: "missing token result"})
		return
	}

	body, err := marshalDocument(document)
	if err != nil {
		complete(nil, err)
		return
	}

	headers := make(map[string]string, len(additionalHeaders)+3)
	for k, v := range additionalHeaders {
		headers[k] = v
	}
	headers["Authorization"] = authorizationScheme + " " + token.Token
	headers[PartitionKeyHeader] = fmt.Sprintf("[%q]", token.Partition)
	headers["Content-Type"] = contentTypeJSON

	target := buildDocumentURL(token, documentID, additionalPath)

	c.logger.Debug("submitting operation",
		log.OperationKey, method,
		log.DocumentIDKey, documentID,
		"partition", token.Partition,
	)

	c.http.SendAsync(httpcall.Request{
		URL:         target,
		Method:      method,
		Headers:     headers,
		Body:        body,
		RetryPolicy: c.policy,
		Compress:    c.compress && body != nil,
	}, func(resp *httpcall.Response, err error) {
		if err != nil {
			complete(nil, fromCallError(err))
			return
		}
		complete(&Result{
			StatusCode: resp.StatusCode,
			Headers:    resp.Headers,
			Body:       resp.Body,
		}, nil)
	})
}

// Read fetches the document with the given id.
func (c *Client) Read(ctx context.Context, token *TokenResult, documentID string) (*Result, error) {
	return c.do(ctx, token, documentID, http.MethodGet, nil, nil, "")
}

// Create stores a new document. The backend responds 409 when the
// document id already exists.
func (c *Client) Create(ctx context.Context, token *TokenResult, document any) (*Result, error) {
	return c.do(ctx, token, "", http.MethodPost, document, nil, "")
}

// Replace overwrites the document with the given id.
func (c *Client) Replace(ctx context.Context, token *TokenResult, documentID string, document any) (*Result, error) {
	return c.do(ctx, token, documentID, http.MethodPut, document, nil, "")
}

// Delete removes the document with the given id.
func (c *Client) Delete(ctx context.Context, token *TokenResult, documentID string) (*Result, error) {
	return c.do(ctx, token, documentID, http.MethodDelete, nil, nil, "")
}

// List fetches the collection's document feed.
func (c *Client) List(ctx context.Context, token *TokenResult) (*Result, error) {
	return c.do(ctx, token, "", http.MethodGet, nil, nil, "")
}

// do is the synchronous wrapper over PerformOperation used by the typed
// helpers. The caller's context bounds the wait, not the engine's retry
// schedule; an abandoned operation still finalizes inside the engine.
func (c *Client) do(ctx context.Context, token *TokenResult, documentID, method string, document any, additionalHeaders map[string]string, additionalPath string) (*Result, error) {
	type outcome struct {
		res *Result
		err error
	}
	ch := make(chan outcome, 1)

	c.PerformOperation(token, documentID, method, document, additionalHeaders, additionalPath, func(res *Result, err error) {
		ch <- outcome{res, err}
	})

	select {
	case o := <-ch:
		return o.res, o.err
	case <-ctx.Done():
		return nil, &Error{Kind: KindCancelled, Message: "operation cancelled", Cause: ctx.Err()}
	}
}

// buildDocumentURL assembles {collectionBase}/docs[/{id}][/{extra}].
func buildDocumentURL(token *TokenResult, documentID, additionalPath string) string {
	var b strings.Builder
	b.WriteString(strings.TrimSuffix(token.CollectionURL(), "/"))
	b.WriteString("/docs")
	if documentID != "" {
		b.WriteString("/")
		b.WriteString(url.PathEscape(documentID))
	}
	if additionalPath != "" {
		b.WriteString("/")
		b.WriteString(strings.TrimPrefix(additionalPath, "/"))
	}
	return b.String()
}
