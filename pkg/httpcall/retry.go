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
	"time"
)

// RetryPolicy is an ordered sequence of backoff delays. Attempt i
// (zero-based) after a transient failure waits RetryPolicy[i] before
// resubmission; once i >= len(policy) no further retry is attempted and
// the last error is surfaced. An empty or nil policy means no retries.
type RetryPolicy []time.Duration

// DefaultRetryPolicy returns a short sequence of increasing delays
// suitable for interactive backend calls.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		500 * time.Millisecond,
		2 * time.Second,
		10 * time.Second,
	}
}

// ExponentialRetryPolicy builds a policy of the given length where each
// delay is the previous one multiplied by factor, starting at initial.
func ExponentialRetryPolicy(initial time.Duration, factor float64, attempts int) RetryPolicy {
	if attempts <= 0 {
		return nil
	}

	policy := make(RetryPolicy, attempts)
	delay := float64(initial)
	for i := range policy {
		policy[i] = time.Duration(delay)
		delay *= factor
	}
	return policy
}

// Validate checks if the policy is valid.
func (p RetryPolicy) Validate() error {
	for i, d := range p {
		if d < 0 {
			return fmt.Errorf("retry delay %d must be non-negative, got %v", i, d)
		}
	}
	return nil
}

// ShouldRetry reports whether another attempt is permitted after the
// given zero-based attempt count.
func (p RetryPolicy) ShouldRetry(attempt int) bool {
	return attempt >= 0 && attempt < len(p)
}

// Delay returns the backoff delay before retry attempt i (zero-based).
// Out-of-range attempts yield zero.
func (p RetryPolicy) Delay(attempt int) time.Duration {
	if attempt < 0 || attempt >= len(p) {
		return 0
	}
	return p[attempt]
}
