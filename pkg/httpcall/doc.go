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

// Package httpcall provides a resilient asynchronous HTTP call engine
// with per-call retry policies, optional payload compression, and an
// atomic enable/disable switch that cancels all outstanding calls.
//
// Each call submitted through SendAsync runs on its own goroutine and
// reports its terminal outcome through a completion callback that fires
// exactly once: with a successful response, a classified terminal
// error, or a cancellation error.
//
// Example usage:
//
//	client, err := httpcall.New(httpcall.DefaultConfig())
//	if err != nil {
//	    return err
//	}
//
//	client.SendAsync(httpcall.Request{
//	    URL:         "https://ingest.example.com/logs",
//	    Method:      http.MethodPost,
//	    Body:        payload,
//	    RetryPolicy: httpcall.DefaultRetryPolicy(),
//	    Compress:    true,
//	}, func(resp *httpcall.Response, err error) {
//	    // fires exactly once
//	})
//
// # Retry behavior
//
// A call's RetryPolicy is an ordered sequence of delays; attempt i
// (zero-based) after a transient failure waits RetryPolicy[i] before
// resubmission, and the call fails with the last observed error once
// the sequence is exhausted. Only transport-level failures and the
// retry-eligible status codes (408, 429, 5xx) are retried; all other
// failures are terminal on first occurrence. Retry waits park on a
// timer select and never block an OS thread.
//
// # Enable/disable
//
// SetEnabled(false) atomically rejects new calls and cancels every
// registered call: each outstanding completion fires with a
// cancellation error, and in-flight network activity is discarded when
// it returns. SetEnabled(true) re-admits new calls; it never resurrects
// cancelled ones.
//
// # Compression
//
// When Compress is set and the body exceeds the configured threshold,
// the body is gzip-compressed and a Content-Encoding header is added.
// Compression failure is never surfaced; the call proceeds with the
// uncompressed body.
package httpcall
