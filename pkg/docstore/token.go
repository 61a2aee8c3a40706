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
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenResult carries a short-lived bearer token scoped to a backend
// partition, together with the coordinates of the collection the token
// grants access to. The client treats it as immutable.
type TokenResult struct {
	// Token is the bearer token value.
	Token string

	// Partition is the backend partition identifier the token is scoped
	// to; it becomes the partition-key header on every request.
	Partition string

	// Endpoint is the backend base URL, e.g. "https://acme.documents.example.com".
	Endpoint string

	// Database is the database name within the account.
	Database string

	// Collection is the document collection name.
	Collection string

	// ExpiresOn marks when the token stops being valid. Zero means
	// unknown; Expired then falls back to the token's own exp claim.
	ExpiresOn time.Time

	// Status is the provider's issuance status, informational only.
	Status string
}

// CollectionURL returns the collection base URL documents hang off of.
func (t *TokenResult) CollectionURL() string {
	return fmt.Sprintf("%s/dbs/%s/colls/%s",
		strings.TrimSuffix(t.Endpoint, "/"), t.Database, t.Collection)
}

// Expired reports whether the token is no longer valid at the given
// instant. When ExpiresOn is unset and the token is a JWT, the token's
// exp claim is consulted; the claim is read without signature
// verification and is used for expiry hinting only, never for
// authentication. Tokens with no discoverable expiry are treated as
// valid.
func (t *TokenResult) Expired(now time.Time) bool {
	if !t.ExpiresOn.IsZero() {
		return !now.Before(t.ExpiresOn)
	}

	parsed, _, err := jwt.NewParser().ParseUnverified(t.Token, jwt.MapClaims{})
	if err != nil {
		return false
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !now.Before(exp.Time)
}

// TokenProvider supplies partition-scoped tokens. It is an external
// collaborator: the store client consumes tokens but never refreshes
// them on its own.
type TokenProvider interface {
	// AcquireToken returns a token valid for the given partition.
	AcquireToken(ctx context.Context, partition string) (*TokenResult, error)
}

// StaticTokenProvider returns a fixed token. Useful for tests and for
// CLI usage where the token is supplied out of band.
type StaticTokenProvider struct {
	Result *TokenResult
}

// AcquireToken implements TokenProvider.
func (p *StaticTokenProvider) AcquireToken(ctx context.Context, partition string) (*TokenResult, error) {
	if p.Result == nil {
		return nil, fmt.Errorf("no token configured")
	}
	return p.Result, nil
}
