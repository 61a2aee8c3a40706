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

package shared

import (
	"log/slog"

	"github.com/tombee/beacon/internal/config"
	"github.com/tombee/beacon/internal/log"
)

// LoadConfig loads the CLI configuration, honoring the --config flag.
func LoadConfig() (*config.Config, error) {
	cfg, err := config.Load(GetConfigPath())
	if err != nil {
		return nil, NewConfigError("failed to load config", err)
	}
	return cfg, nil
}

// NewLogger builds the CLI logger from the loaded config,
// with --verbose and --quiet taking precedence over the file.
func NewLogger(cfg *config.Config) *slog.Logger {
	logCfg := log.DefaultConfig()
	logCfg.Format = log.FormatText
	if cfg != nil {
		if cfg.Log.Level != "" {
			logCfg.Level = cfg.Log.Level
		}
		if cfg.Log.Format != "" {
			logCfg.Format = log.Format(cfg.Log.Format)
		}
	}
	if GetVerbose() {
		logCfg.Level = "debug"
	}
	if GetQuiet() {
		logCfg.Level = "error"
	}
	return log.New(logCfg)
}
