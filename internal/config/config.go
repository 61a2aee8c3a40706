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

// Package config loads the beacon CLI configuration from a YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/tombee/beacon/pkg/docstore"
	"github.com/tombee/beacon/pkg/httpcall"
)

// ErrInvalidConfig is returned when configuration validation fails.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config represents the complete beacon CLI configuration.
type Config struct {
	Backend BackendConfig `yaml:"backend"`
	HTTP    HTTPConfig    `yaml:"http"`
	Log     LogConfig     `yaml:"log"`
}

// BackendConfig locates the document backend and the credentials used
// against it.
type BackendConfig struct {
	// Endpoint is the backend base URL, e.g. "https://acme.documents.example.com".
	Endpoint string `yaml:"endpoint"`

	// Database is the database name within the account.
	Database string `yaml:"database"`

	// Collection is the document collection name.
	Collection string `yaml:"collection"`

	// Partition is the partition identifier operations are scoped to.
	Partition string `yaml:"partition"`

	// Token is the bearer token. Environment: BEACON_TOKEN (takes
	// precedence over the file value).
	Token string `yaml:"token,omitempty"`
}

// HTTPConfig tunes the call engine.
type HTTPConfig struct {
	// Timeout is the per-attempt request timeout.
	// Default: 30s
	Timeout time.Duration `yaml:"timeout,omitempty"`

	// RetryIntervals is the ordered backoff delay sequence for
	// transient failures. Empty means the default policy.
	RetryIntervals []time.Duration `yaml:"retry_intervals,omitempty"`

	// Compression disables request body compression when set to false.
	// Default: true
	Compression *bool `yaml:"compression,omitempty"`

	// UserAgent overrides the User-Agent header.
	UserAgent string `yaml:"user_agent,omitempty"`
}

// LogConfig configures CLI logging.
type LogConfig struct {
	// Level sets the minimum log level (trace, debug, info, warn, error).
	// Default: info
	Level string `yaml:"level,omitempty"`

	// Format sets the output format (json, text).
	// Default: text for the CLI
	Format string `yaml:"format,omitempty"`
}

// Default returns a Config with CLI defaults applied.
func Default() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout: 30 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// DefaultPath returns the default config file location,
// ~/.config/beacon/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".config", "beacon", "config.yaml"), nil
}

// Load reads the configuration from path. An empty path falls back to
// DefaultPath; a missing file at the default location yields defaults,
// while an explicitly named file must exist. BEACON_TOKEN overrides the
// file's token value.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		defaultPath, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = defaultPath
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("%w: parsing %s: %v", ErrInvalidConfig, path, err)
		}
	case os.IsNotExist(err) && !explicit:
		// No config file is fine; flags and environment still apply.
	default:
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	if token := os.Getenv("BEACON_TOKEN"); token != "" {
		cfg.Backend.Token = token
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.HTTP.Timeout == 0 {
		c.HTTP.Timeout = 30 * time.Second
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks if the configuration is well formed. Backend
// coordinates are validated lazily by the doc commands that need them.
func (c *Config) Validate() error {
	if c.HTTP.Timeout <= 0 {
		return fmt.Errorf("%w: http.timeout must be > 0, got %v", ErrInvalidConfig, c.HTTP.Timeout)
	}
	for i, d := range c.HTTP.RetryIntervals {
		if d < 0 {
			return fmt.Errorf("%w: http.retry_intervals[%d] must be non-negative, got %v", ErrInvalidConfig, i, d)
		}
	}
	switch strings.ToLower(c.Log.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("%w: log.format must be json or text, got %q", ErrInvalidConfig, c.Log.Format)
	}
	return nil
}

// RetryPolicy returns the configured backoff sequence, or the default
// backend policy when none is set.
func (c *Config) RetryPolicy() httpcall.RetryPolicy {
	if len(c.HTTP.RetryIntervals) == 0 {
		return httpcall.DefaultRetryPolicy()
	}
	return httpcall.RetryPolicy(c.HTTP.RetryIntervals)
}

// CompressionEnabled reports whether request compression is on.
func (c *Config) CompressionEnabled() bool {
	return c.HTTP.Compression == nil || *c.HTTP.Compression
}

// TokenResult assembles the static token result used by the doc
// commands. It errors when backend coordinates are incomplete.
func (c *Config) TokenResult() (*docstore.TokenResult, error) {
	b := c.Backend
	var missing []string
	if b.Endpoint == "" {
		missing = append(missing, "backend.endpoint")
	}
	if b.Database == "" {
		missing = append(missing, "backend.database")
	}
	if b.Collection == "" {
		missing = append(missing, "backend.collection")
	}
	if b.Partition == "" {
		missing = append(missing, "backend.partition")
	}
	if b.Token == "" {
		missing = append(missing, "backend.token (or BEACON_TOKEN)")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing %s", ErrInvalidConfig, strings.Join(missing, ", "))
	}

	return &docstore.TokenResult{
		Token:      b.Token,
		Partition:  b.Partition,
		Endpoint:   b.Endpoint,
		Database:   b.Database,
		Collection: b.Collection,
	}, nil
}
