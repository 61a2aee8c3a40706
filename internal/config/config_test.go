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

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_FullFile(t *testing.T) {
	path := writeConfig(t, `
backend:
  endpoint: https://acme.documents.example.com
  database: appdb
  collection: users
  partition: p1
  token: file-token
http:
  timeout: 10s
  retry_intervals: [1s, 5s, 30s]
  compression: false
  user_agent: beacon-cli/2.0
log:
  level: debug
  format: json
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://acme.documents.example.com", cfg.Backend.Endpoint)
	assert.Equal(t, "file-token", cfg.Backend.Token)
	assert.Equal(t, 10*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, []time.Duration{time.Second, 5 * time.Second, 30 * time.Second}, cfg.HTTP.RetryIntervals)
	assert.False(t, cfg.CompressionEnabled())
	assert.Equal(t, "debug", cfg.Log.Level)

	policy := cfg.RetryPolicy()
	require.Len(t, policy, 3)
	assert.Equal(t, time.Second, policy[0])
}

func TestLoad_MissingExplicitFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_EnvTokenOverridesFile(t *testing.T) {
	path := writeConfig(t, `
backend:
  token: file-token
`)
	t.Setenv("BEACON_TOKEN", "env-token")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "env-token", cfg.Backend.Token)
}

func TestLoad_DefaultsApplied(t *testing.T) {
	path := writeConfig(t, `
backend:
  partition: p1
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 30*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.True(t, cfg.CompressionEnabled())
	assert.NotEmpty(t, cfg.RetryPolicy(), "default retry policy expected")
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"negative retry interval", "http:\n  retry_intervals: [-1s]\n"},
		{"bad log format", "log:\n  format: xml\n"},
		{"malformed yaml", "backend: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestTokenResult(t *testing.T) {
	cfg := Default()
	cfg.Backend = BackendConfig{
		Endpoint:   "https://acme.documents.example.com",
		Database:   "appdb",
		Collection: "users",
		Partition:  "p1",
		Token:      "tok",
	}

	token, err := cfg.TokenResult()
	require.NoError(t, err)
	assert.Equal(t, "p1", token.Partition)
	assert.Equal(t, "https://acme.documents.example.com/dbs/appdb/colls/users", token.CollectionURL())
}

func TestTokenResult_ReportsAllMissingFields(t *testing.T) {
	cfg := Default()
	_, err := cfg.TokenResult()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "backend.endpoint")
	assert.Contains(t, err.Error(), "backend.token")
}
