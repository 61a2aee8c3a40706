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
)

// NewReadCommand creates the doc read command.
func NewReadCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "read <document-id>",
		Short: "Read a document",
		Long:  `Fetch a single document from the configured collection and partition.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRead(args[0])
		},
	}
}

func runRead(documentID string) error {
	store, token, err := newStore()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	res, err := store.Read(ctx, token, documentID)
	if err != nil {
		return backendError("read", err)
	}

	return printResult(res, "")
}
