// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/text/encoding/unicode"
)

const behaviorManifest = `{
  "format_version": 2,
  "header": {
    "name": "Better Mobs",
    "description": "Smarter zombies",
    "uuid": "6f4b6893-1bb6-42fd-b458-7fa3d0c89616",
    "version": [1, 2, 0]
  },
  "modules": [{"type": "data", "uuid": "a1b2", "version": [1, 2, 0]}]
}`

func writeManifest(t *testing.T, content []byte) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, FileName), content, 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	return dir
}

func TestReadDir(t *testing.T) {
	t.Parallel()

	dir := writeManifest(t, []byte(behaviorManifest))
	d, err := ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}

	if d.Name != "Better Mobs" {
		t.Errorf("Name = %q, want %q", d.Name, "Better Mobs")
	}
	if d.Description != "Smarter zombies" {
		t.Errorf("Description = %q", d.Description)
	}
	if d.ID != "6f4b6893-1bb6-42fd-b458-7fa3d0c89616" {
		t.Errorf("ID = %q", d.ID)
	}
	if d.Version != (Version{1, 2, 0}) {
		t.Errorf("Version = %v, want 1.2.0", d.Version)
	}
	if d.Kind != KindBehavior {
		t.Errorf("Kind = %q, want %q", d.Kind, KindBehavior)
	}
	if !d.HasValidID() {
		t.Error("HasValidID() = false, want true")
	}
}

func TestParse_Classification(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		modules string
		want    Kind
	}{
		{"data module", `[{"type":"data"}]`, KindBehavior},
		{"resources module", `[{"type":"resources"}]`, KindResource},
		{"first module wins", `[{"type":"resources"},{"type":"data"}]`, KindResource},
		{"script module", `[{"type":"script"}]`, KindUnknown},
		{"no modules", `[]`, KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			d, err := Parse([]byte(`{"header":{"name":"x","uuid":"u"},"modules":` + tt.modules + `}`))
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if d.Kind != tt.want {
				t.Errorf("Kind = %q, want %q", d.Kind, tt.want)
			}
		})
	}
}

func TestParse_Defaults(t *testing.T) {
	t.Parallel()

	d, err := Parse([]byte(`{}`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if d.Name != "" || d.Description != "" || d.ID != "" {
		t.Errorf("expected empty strings, got %+v", d)
	}
	if d.Version != DefaultVersion {
		t.Errorf("Version = %v, want %v", d.Version, DefaultVersion)
	}
	if d.Kind != KindUnknown {
		t.Errorf("Kind = %q, want unknown", d.Kind)
	}
	if d.HasValidID() {
		t.Error("HasValidID() = true for empty id")
	}
}

func TestParse_VersionForms(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		want Version
	}{
		{`[2, 1, 3]`, Version{2, 1, 3}},
		{`[4]`, Version{4, 0, 0}},
		{`"1.20.5"`, Version{1, 20, 5}},
		{`"nonsense"`, DefaultVersion},
		{`[]`, DefaultVersion},
		{`{"major": 1}`, DefaultVersion},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			t.Parallel()
			d, err := Parse([]byte(`{"header":{"version":` + tt.raw + `}}`))
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if d.Version != tt.want {
				t.Errorf("Version = %v, want %v", d.Version, tt.want)
			}
		})
	}
}

func TestParse_UTF8BOM(t *testing.T) {
	t.Parallel()

	raw := append([]byte{0xEF, 0xBB, 0xBF}, behaviorManifest...)
	d, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if d.Name != "Better Mobs" {
		t.Errorf("Name = %q", d.Name)
	}
}

func TestParse_UTF16WithBOM(t *testing.T) {
	t.Parallel()

	enc := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder()
	raw, err := enc.String(behaviorManifest)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	d, err := Parse([]byte(raw))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if d.Kind != KindBehavior || d.Name != "Better Mobs" {
		t.Errorf("got %+v", d)
	}
}

func TestParse_LegacyCharsetFallback(t *testing.T) {
	t.Parallel()

	// "Café crème brûlée" in ISO-8859-1, which is not valid UTF-8.
	latin1 := []byte("{\"header\":{\"name\":\"Caf\xe9 cr\xe8me br\xfbl\xe9e et g\xe2teau fran\xe7ais\",\"uuid\":\"u\"},\"modules\":[{\"type\":\"resources\"}]}")

	d, err := Parse(latin1)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if !strings.HasPrefix(d.Name, "Caf") {
		t.Errorf("Name = %q", d.Name)
	}
	if d.Kind != KindResource {
		t.Errorf("Kind = %q, want resource", d.Kind)
	}
}

func TestParse_LenientSyntax(t *testing.T) {
	t.Parallel()

	raw := `{
  // copied from the template
  "header": {
    "name": "Comments Pack",
    "uuid": "1d2c9f0e-3ee4-4f7a-9a55-3c9a0b1f2e11",
    "version": [1, 0, 1],
  },
  "modules": [
    {"type": "resources"},
  ],
}`
	d, err := Parse([]byte(raw))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if d.Name != "Comments Pack" || d.Kind != KindResource || d.Version != (Version{1, 0, 1}) {
		t.Errorf("got %+v", d)
	}
}

func TestParse_Malformed(t *testing.T) {
	t.Parallel()

	_, err := Parse([]byte(`{"header": {"name": `))
	if !errors.Is(err, ErrMalformed) {
		t.Fatalf("Parse() error = %v, want ErrMalformed", err)
	}
}

func TestRead_Missing(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	_, err := ReadDir(dir)
	if err == nil {
		t.Fatal("ReadDir() error = nil, want error")
	}
	var readErr *ReadError
	if !errors.As(err, &readErr) {
		t.Fatalf("error type = %T, want *ReadError", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("errors.Is(err, os.ErrNotExist) = false")
	}
	if Exists(dir) {
		t.Error("Exists() = true for empty dir")
	}
}

func TestKindValidate(t *testing.T) {
	t.Parallel()

	for _, k := range []Kind{KindBehavior, KindResource} {
		if err := k.Validate(); err != nil {
			t.Errorf("%q.Validate() = %v", k, err)
		}
	}
	for _, k := range []Kind{KindUnknown, "", "skin"} {
		if err := k.Validate(); !errors.Is(err, ErrInvalidKind) {
			t.Errorf("%q.Validate() = %v, want ErrInvalidKind", k, err)
		}
	}
}
