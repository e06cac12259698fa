// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/klauspost/compress/zip"
)

// Module types understood by the manifest reader.
const (
	ModuleData      = "data"
	ModuleResources = "resources"
)

// Manifest renders a minimal pack manifest.json.
func Manifest(name, id, moduleType string, version [3]int) string {
	return fmt.Sprintf(`{
  "format_version": 2,
  "header": {
    "name": %q,
    "description": "test pack",
    "uuid": %q,
    "version": [%d, %d, %d],
    "min_engine_version": [1, 20, 0]
  },
  "modules": [
    {"type": %q, "uuid": "00000000-0000-4000-8000-000000000000", "version": [1, 0, 0]}
  ]
}`, name, id, version[0], version[1], version[2], moduleType)
}

// ZipBytes builds an in-memory ZIP archive from a map of slash-separated
// entry names to contents. Entries are written in sorted order.
func ZipBytes(t testing.TB, files map[string]string) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		f, err := w.Create(name)
		if err != nil {
			t.Fatalf("failed to add %s to zip: %v", name, err)
		}
		if _, err := f.Write([]byte(files[name])); err != nil {
			t.Fatalf("failed to write %s to zip: %v", name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("failed to finish zip: %v", err)
	}
	return buf.Bytes()
}

// WriteZip writes an archive built by ZipBytes to path.
func WriteZip(t testing.TB, path string, files map[string]string) {
	t.Helper()
	MustMkdirAll(t, filepath.Dir(path))
	if err := os.WriteFile(path, ZipBytes(t, files), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}
