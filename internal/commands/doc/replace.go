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

package doc

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"github.com/tombee/beacon/internal/commands/shared"
)

// NewReplaceCommand creates the doc replace command.
func NewReplaceCommand() *cobra.Command {
	var body string

	cmd := &cobra.Command{
		Use:   "replace <document-id>",
		Short: "Replace a document",
		Long:  `Replace an existing document in the configured collection and partition.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplace(args[0], body)
		},
	}

	cmd.Flags().StringVarP(&body, "body", "d", "", "Document body (use @file to read from a file, @- for stdin)")

	return cmd
}

func runReplace(documentID, body string) error {
	document, err := readDocumentBody(body)
	if err != nil {
		return shared.NewInvalidInputError("invalid document body", err)
	}

	store, token, err := newStore()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	res, err := store.Replace(ctx, token, documentID, document)
	if err != nil {
		return backendError("replace", err)
	}

	return printResult(res, "Document replaced")
}
