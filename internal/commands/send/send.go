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

package send

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/tombee/beacon/internal/commands/shared"
	"github.com/tombee/beacon/pkg/httpcall"
)

// NewSendCommand creates the send command.
func NewSendCommand() *cobra.Command {
	var (
		method   string
		body     string
		headers  []string
		retries  []time.Duration
		compress bool
	)

	cmd := &cobra.Command{
		Use:   "send <url>",
		Short: "Send a resilient HTTP request",
		Long: `Send an HTTP request with retry, cancellation, and optional payload
compression. Transient failures (network errors, 408, 429, 5xx) are retried
following the configured delay sequence; terminal failures surface immediately.

Examples:
  beacon send https://ingest.example.com/logs \
    --method POST \
    --body @events.json \
    --header "X-Api-Key: abc123" \
    --retry 500ms --retry 2s --retry 10s \
    --compress

A body of "@path" reads the request body from a file; "@-" reads stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSend(args[0], method, body, headers, retries, compress)
		},
	}

	cmd.Flags().StringVarP(&method, "method", "X", "GET", "HTTP method")
	cmd.Flags().StringVarP(&body, "body", "d", "", "Request body (use @file to read from a file, @- for stdin)")
	cmd.Flags().StringArrayVarP(&headers, "header", "H", []string{}, "Request header \"Name: value\" (can be specified multiple times)")
	cmd.Flags().DurationSliceVar(&retries, "retry", nil, "Retry delay (can be specified multiple times, ordered)")
	cmd.Flags().BoolVar(&compress, "compress", false, "Gzip-compress the request body when large enough")

	return cmd
}

func runSend(target, method, body string, headers []string, retries []time.Duration, compress bool) error {
	cfg, err := shared.LoadConfig()
	if err != nil {
		return err
	}
	logger := shared.NewLogger(cfg)

	payload, err := readBody(body)
	if err != nil {
		return shared.NewInvalidInputError("failed to read request body", err)
	}

	headerMap, err := parseHeaders(headers)
	if err != nil {
		return shared.NewInvalidInputError("invalid header", err)
	}

	policy := httpcall.RetryPolicy(retries)
	if retries == nil {
		policy = cfg.RetryPolicy()
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
		return shared.NewConfigError("failed to create call engine", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		resp    *httpcall.Response
		callErr error
	)
	done := make(chan struct{})
	engine.SendAsync(httpcall.Request{
		URL:         target,
		Method:      strings.ToUpper(method),
		Headers:     headerMap,
		Body:        payload,
		RetryPolicy: policy,
		Compress:    compress,
	}, func(r *httpcall.Response, err error) {
		resp = r
		callErr = err
		close(done)
	})

	select {
	case <-done:
	case <-ctx.Done():
		// Interrupt cancels every outstanding call; the completion
		// callback still fires, with a cancellation error.
		engine.SetEnabled(false)
		<-done
	}

	if callErr != nil {
		return shared.NewCallError(fmt.Sprintf("%s %s failed", strings.ToUpper(method), target), callErr)
	}

	return printResponse(resp)
}

// readBody resolves the --body flag value: literal text, @file, or @- for stdin.
func readBody(body string) ([]byte, error) {
	switch {
	case body == "":
		return nil, nil
	case body == "@-":
		return io.ReadAll(os.Stdin)
	case strings.HasPrefix(body, "@"):
		return os.ReadFile(strings.TrimPrefix(body, "@"))
	default:
		return []byte(body), nil
	}
}

func parseHeaders(headers []string) (map[string]string, error) {
	if len(headers) == 0 {
		return nil, nil
	}
	m := make(map[string]string, len(headers))
	for _, h := range headers {
		parts := strings.SplitN(h, ":", 2)
		if len(parts) != 2 || strings.TrimSpace(parts[0]) == "" {
			return nil, fmt.Errorf("invalid header format %q, expected \"Name: value\"", h)
		}
		m[strings.TrimSpace(parts[0])] = strings.TrimSpace(parts[1])
	}
	return m, nil
}

func printResponse(resp *httpcall.Response) error {
	if shared.GetJSON() {
		out := map[string]any{
			"status_code": resp.StatusCode,
			"headers":     resp.Headers,
			"body":        string(resp.Body),
		}
		return json.NewEncoder(os.Stdout).Encode(out)
	}

	if !shared.GetQuiet() {
		fmt.Println(shared.RenderOK(fmt.Sprintf("%d %s", resp.StatusCode, shared.RenderLabel(fmt.Sprintf("(%d bytes)", len(resp.Body))))))
	}
	if len(resp.Body) > 0 {
		os.Stdout.Write(resp.Body)
		if resp.Body[len(resp.Body)-1] != '\n' {
			fmt.Println()
		}
	}
	return nil
}
