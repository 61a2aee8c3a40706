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
	"testing"
	"time"
)

func TestRetryPolicy_Validate(t *testing.T) {
	tests := []struct {
		name    string
		policy  RetryPolicy
		wantErr bool
	}{
		{"nil policy", nil, false},
		{"empty policy", RetryPolicy{}, false},
		{"increasing delays", RetryPolicy{time.Second, 2 * time.Second}, false},
		{"zero delay allowed", RetryPolicy{0}, false},
		{"negative delay", RetryPolicy{time.Second, -time.Millisecond}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.policy.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRetryPolicy_ShouldRetry(t *testing.T) {
	policy := RetryPolicy{time.Second, 2 * time.Second}

	tests := []struct {
		attempt int
		want    bool
	}{
		{-1, false},
		{0, true},
		{1, true},
		{2, false},
		{10, false},
	}

	for _, tt := range tests {
		if got := policy.ShouldRetry(tt.attempt); got != tt.want {
			t.Errorf("ShouldRetry(%d) = %v, want %v", tt.attempt, got, tt.want)
		}
	}

	if RetryPolicy(nil).ShouldRetry(0) {
		t.Error("nil policy must never permit a retry")
	}
}

func TestRetryPolicy_Delay(t *testing.T) {
	policy := RetryPolicy{500 * time.Millisecond, 2 * time.Second}

	if got := policy.Delay(0); got != 500*time.Millisecond {
		t.Errorf("Delay(0) = %v, want 500ms", got)
	}
	if got := policy.Delay(1); got != 2*time.Second {
		t.Errorf("Delay(1) = %v, want 2s", got)
	}
	if got := policy.Delay(2); got != 0 {
		t.Errorf("Delay(2) = %v, want 0 for out-of-range attempt", got)
	}
	if got := policy.Delay(-1); got != 0 {
		t.Errorf("Delay(-1) = %v, want 0", got)
	}
}

func TestDefaultRetryPolicy(t *testing.T) {
	policy := DefaultRetryPolicy()

	if len(policy) == 0 {
		t.Fatal("default policy must permit at least one retry")
	}
	if err := policy.Validate(); err != nil {
		t.Errorf("default policy invalid: %v", err)
	}
	for i := 1; i < len(policy); i++ {
		if policy[i] <= policy[i-1] {
			t.Errorf("default delays must increase, got %v", policy)
		}
	}
}

func TestExponentialRetryPolicy(t *testing.T) {
	policy := ExponentialRetryPolicy(100*time.Millisecond, 2.0, 3)

	want := RetryPolicy{100 * time.Millisecond, 200 * time.Millisecond, 400 * time.Millisecond}
	if len(policy) != len(want) {
		t.Fatalf("len = %d, want %d", len(policy), len(want))
	}
	for i := range want {
		if policy[i] != want[i] {
			t.Errorf("policy[%d] = %v, want %v", i, policy[i], want[i])
		}
	}

	if got := ExponentialRetryPolicy(time.Second, 2.0, 0); got != nil {
		t.Errorf("zero attempts should yield nil policy, got %v", got)
	}
}
