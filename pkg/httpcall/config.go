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
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// Config configures the call engine.
type Config struct {
	// Timeout is the per-attempt request timeout.
	// Default: 30s. Must be > 0.
	Timeout time.Duration

	// UserAgent is the User-Agent header value applied when the request
	// does not carry its own. Required.
	UserAgent string

	// CompressionThreshold is the body size in bytes above which
	// compression-enabled calls gzip their payload.
	// Default: DefaultCompressionThreshold. Must be >= 0.
	CompressionThreshold int

	// Transport overrides the underlying round tripper. Nil uses a
	// pooled TLS 1.2+ transport. Intended for tests and custom stacks.
	Transport http.RoundTripper

	// RateLimiter, when set, throttles transmission attempts across all
	// calls. Nil disables throttling.
	RateLimiter *rate.Limiter

	// Logger receives structured engine logs. Nil discards them.
	Logger *slog.Logger
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Timeout:              30 * time.Second,
		UserAgent:            "beacon-http-client/1.0",
		CompressionThreshold: DefaultCompressionThreshold,
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be > 0, got %v", c.Timeout)
	}

	if c.CompressionThreshold < 0 {
		return fmt.Errorf("compression_threshold must be >= 0, got %d", c.CompressionThreshold)
	}

	if c.UserAgent == "" {
		return fmt.Errorf("user_agent is required and must be non-empty")
	}

	return nil
}
