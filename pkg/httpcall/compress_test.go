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
	"bytes"
	"compress/gzip"
	"io"
	"strings"
	"testing"
)

func TestCompressBody_RoundTrip(t *testing.T) {
	original := []byte(strings.Repeat("beacon log entry ", 500))

	compressed, err := compressBody(original)
	if err != nil {
		t.Fatalf("compressBody: %v", err)
	}
	if len(compressed) >= len(original) {
		t.Errorf("compressed %d bytes >= original %d bytes for compressible input",
			len(compressed), len(original))
	}

	zr, err := gzip.NewReader(bytes.NewReader(compressed))
	if err != nil {
		t.Fatalf("gzip.NewReader: %v", err)
	}
	decompressed, err := io.ReadAll(zr)
	if err != nil {
		t.Fatalf("decompress: %v", err)
	}
	if !bytes.Equal(decompressed, original) {
		t.Error("round trip does not reproduce the original body")
	}
}

func TestCompressBody_EmptyInput(t *testing.T) {
	compressed, err := compressBody(nil)
	if err != nil {
		t.Fatalf("compressBody(nil): %v", err)
	}

	zr, err := gzip.NewReader(bytes.NewReader(compressed))
	if err != nil {
		t.Fatalf("gzip.NewReader: %v", err)
	}
	out, err := io.ReadAll(zr)
	if err != nil {
		t.Fatalf("decompress: %v", err)
	}
	if len(out) != 0 {
		t.Errorf("expected empty payload, got %d bytes", len(out))
	}
}
