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

// Package doc provides CLI commands for working with document store collections.
package doc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tombee/beacon/internal/commands/shared"
	"github.com/tombee/beacon/pkg/docstore"
	"github.com/tombee/beacon/pkg/httpcall"
)

// NewCommand creates the doc command group.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doc",
		Short: "Read and write partitioned documents",
		Long: `Read and write JSON documents in a token-authenticated document store.

The backend endpoint, database, collection, partition, and token come from
the config file (or the BEACON_TOKEN environment variable).

Examples:
  # Read a document
  beacon doc read device-42

  # Create a document from a file
  beacon doc create --body @device.json

  # Replace a document
  beacon doc replace device-42 --body '{"id":"device-42","value":7}'

  # Delete a document
  beacon doc delete device-42

  # List documents in the collection
  beacon doc list`,
	}

	cmd.AddCommand(NewReadCommand())
	cmd.AddCommand(NewCreateCommand())
	cmd.AddCommand(NewReplaceCommand())
	cmd.AddCommand(NewDeleteCommand())
	cmd.AddCommand(NewListCommand())

	return cmd
}

// newStore builds the document store client and token from the CLI config.
func newStore() (*docstore.Client, *docstore.TokenResult, error) {
	cfg, err := shared.LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	logger := shared.NewLogger(cfg)

	token, err := cfg.TokenResult()
	if err != nil {
		return nil, nil, shared.NewConfigError("incomplete backend configuration", err)
	}

	ecfg := httpcall.DefaultConfig()
	if cfg.HTTP.Timeout > 0 {
		ecfg.Timeout = cfg.HTTP.Timeout
	}
	if cfg.HTTP.UserAgent != "" {
		ecfg.UserAgent = cfg.HTTP.UserAgent
	}
	ecfg.Logger = logger

	engine, err := httpcall.New(ecfg)
	if err != nil {
		return nil, nil, shared.NewConfigError("failed to create call engine", err)
	}

	store := docstore.New(engine,
		docstore.WithRetryPolicy(cfg.RetryPolicy()),
		docstore.WithLogger(logger),
		docstore.WithCompression(cfg.CompressionEnabled()),
	)

	return store, token, nil
}

// readDocumentBody resolves a --body flag value: literal JSON, @file, or @- for stdin.
func readDocumentBody(body string) (json.RawMessage, error) {
	var data []byte
	var err error
	switch {
	case body == "":
		return nil, fmt.Errorf("--body is required")
	case body == "@-":
		data, err = io.ReadAll(os.Stdin)
	case strings.HasPrefix(body, "@"):
		data, err = os.ReadFile(strings.TrimPrefix(body, "@"))
	default:
		data = []byte(body)
	}
	if err != nil {
		return nil, err
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("body is not valid JSON")
	}
	return json.RawMessage(data), nil
}

// printResult renders an operation result: raw encoding in JSON mode,
// pretty-printed body otherwise.
func printResult(res *docstore.Result, okMessage string) error {
	if shared.GetJSON() {
		out := map[string]any{
			"status_code": res.StatusCode,
		}
		if len(res.Body) > 0 {
			out["document"] = json.RawMessage(res.Body)
		}
		return json.NewEncoder(os.Stdout).Encode(out)
	}

	if okMessage != "" && !shared.GetQuiet() {
		fmt.Println(shared.RenderOK(okMessage))
	}
	if len(res.Body) > 0 {
		var buf bytes.Buffer
		if err := json.Indent(&buf, res.Body, "", "  "); err == nil {
			fmt.Println(buf.String())
			return nil
		}
		os.Stdout.Write(res.Body)
		fmt.Println()
	}
	return nil
}

// backendError wraps a document store failure with the right exit code.
func backendError(op string, err error) error {
	return shared.NewBackendError(fmt.Sprintf("doc %s failed", op), err)
}
