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
	"os"
	"path/filepath"
	"testing"
)

func TestReadDocumentBody(t *testing.T) {
	t.Run("literal JSON", func(t *testing.T) {
		got, err := readDocumentBody(`{"id":"doc1","value":7}`)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(got) != `{"id":"doc1","value":7}` {
			t.Errorf("body = %s", got)
		}
	})

	t.Run("from file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "doc.json")
		if err := os.WriteFile(path, []byte(`{"id":"doc1"}`), 0o644); err != nil {
			t.Fatal(err)
		}

		got, err := readDocumentBody("@" + path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(got) != `{"id":"doc1"}` {
			t.Errorf("body = %s", got)
		}
	})

	t.Run("empty", func(t *testing.T) {
		if _, err := readDocumentBody(""); err == nil {
			t.Fatal("expected error for empty body")
		}
	})

	t.Run("invalid JSON", func(t *testing.T) {
		if _, err := readDocumentBody("{not json"); err == nil {
			t.Fatal("expected error for invalid JSON")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := readDocumentBody("@/nonexistent/doc.json"); err == nil {
			t.Fatal("expected error for missing file")
		}
	})
}
