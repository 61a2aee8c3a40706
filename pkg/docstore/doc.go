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

// Package docstore provides a CRUD client for a partitioned,
// token-authenticated document backend, layered on the httpcall engine.
//
// The client is a request builder and response mapper: it derives the
// document URL and required headers (authorization, partition key,
// content type) from a TokenResult, serializes the caller's document,
// submits through the engine with a backend retry policy, and maps the
// backend's status codes onto a small error taxonomy.
//
// Authorization expiry (401/403) surfaces as an authentication error
// with no engine retries; callers are expected to acquire a fresh token
// from their TokenProvider and resubmit the logical operation. The
// client never loops on token refresh itself.
//
// Example usage:
//
//	engine, _ := httpcall.New(httpcall.DefaultConfig())
//	store := docstore.New(engine)
//
//	res, err := store.Read(ctx, token, "doc1")
//	if docstore.IsAuthentication(err) {
//	    token, _ = provider.AcquireToken(ctx, token.Partition)
//	    res, err = store.Read(ctx, token, "doc1")
//	}
package docstore
