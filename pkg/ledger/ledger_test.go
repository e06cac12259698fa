// SPDX-License-Identifier: MPL-2.0

package ledger

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/addonhelper/addonhelper/pkg/manifest"

	"github.com/google/go-cmp/cmp"
)

func sampleLedger() *Ledger {
	l := New()
	l.AddBundle(Bundle{
		Name:           "Bar",
		BehaviorFolder: "Bar_BP",
		BehaviorID:     "b-uuid",
		ResourceFolder: "Bar_RP",
		ResourceID:     "r-uuid",
	})
	l.AddBundle(Bundle{Name: "Only Behavior", BehaviorFolder: "OB", BehaviorID: "ob-uuid"})
	l.AddPack(Pack{Name: "Foo", Folder: "Foo", ID: "f-uuid", Kind: manifest.KindResource})
	return l
}

func TestStore_RoundTrip(t *testing.T) {
	t.Parallel()

	store := NewStore(filepath.Join(t.TempDir(), ".cache", "enable.json"))
	want := sampleLedger()

	if err := store.Save(want); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ledger mismatch (-want +got):\n%s", diff)
	}
}

func TestStore_LoadMissing(t *testing.T) {
	t.Parallel()

	got, err := NewStore(filepath.Join(t.TempDir(), "enable.json")).Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(got.Bundles) != 0 || len(got.Packs) != 0 {
		t.Errorf("expected empty ledger, got %+v", got)
	}
}

func TestStore_LoadCorrupt(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "enable.json")
	if err := os.WriteFile(path, []byte(`{"addons": [`), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := NewStore(path).Load()
	if err == nil {
		t.Fatal("Load() error = nil, want parse error")
	}
	if got == nil || len(got.Bundles) != 0 || len(got.Packs) != 0 {
		t.Errorf("expected non-nil empty ledger, got %+v", got)
	}
}

func TestStore_LoadNullSections(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "enable.json")
	if err := os.WriteFile(path, []byte(`{"addons": null}`), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := NewStore(path).Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.Bundles == nil || got.Packs == nil {
		t.Errorf("sections must be non-nil, got %+v", got)
	}
}

func TestEncode_Format(t *testing.T) {
	t.Parallel()

	l := New()
	l.AddPack(Pack{Name: "Café 🎮", Folder: "cafe", ID: "id", Kind: manifest.KindBehavior})

	data, err := Encode(l)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	text := string(data)

	for _, b := range data {
		if b >= 0x80 {
			t.Fatalf("encoded ledger contains non-ASCII byte 0x%x:\n%s", b, text)
		}
	}
	if !strings.Contains(text, `"Caf\u00e9 \ud83c\udfae"`) {
		t.Errorf("expected escaped name, got:\n%s", text)
	}
	if !strings.Contains(text, "\n  \"addons\": []") {
		t.Errorf("expected two-space indentation, got:\n%s", text)
	}
	if !strings.Contains(text, `"type": "behavior"`) {
		t.Errorf("expected pack type, got:\n%s", text)
	}
}

func TestEncode_BundleWithoutResource(t *testing.T) {
	t.Parallel()

	l := New()
	l.AddBundle(Bundle{Name: "B", BehaviorFolder: "B_BP", BehaviorID: "id"})
	data, err := Encode(l)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	text := string(data)
	if strings.Contains(text, "resource_folder") || strings.Contains(text, "resource_uuid") {
		t.Errorf("absent half must not be written:\n%s", text)
	}
	if !strings.Contains(text, `"type": "addon"`) {
		t.Errorf("bundle type missing:\n%s", text)
	}
}

func TestSanitize(t *testing.T) {
	t.Parallel()

	// "\xed\xa0\x80" is the WTF-8 form of a lone high surrogate.
	in := map[string]any{
		"na\xffme": "ok\xed\xa0\x80",
		"list":     []any{"a\xfeb", 3.0, true, nil},
		"nested":   map[string]any{"k": "v\xc3"},
	}
	want := map[string]any{
		"name":   "ok",
		"list":   []any{"ab", 3.0, true, nil},
		"nested": map[string]any{"k": "v"},
	}
	if diff := cmp.Diff(want, Sanitize(in)); diff != "" {
		t.Errorf("Sanitize() mismatch (-want +got):\n%s", diff)
	}
}

func TestLedger_IndexLookup(t *testing.T) {
	t.Parallel()

	l := sampleLedger()

	b, err := l.Bundle(2)
	if err != nil {
		t.Fatalf("Bundle(2) error = %v", err)
	}
	if b.Name != "Only Behavior" {
		t.Errorf("Bundle(2).Name = %q", b.Name)
	}

	for _, idx := range []int{0, -1, 3} {
		_, err := l.Bundle(idx)
		if !errors.Is(err, ErrInvalidIndex) {
			t.Errorf("Bundle(%d) error = %v, want ErrInvalidIndex", idx, err)
		}
	}

	_, err = New().Pack(1)
	var idxErr *IndexError
	if !errors.As(err, &idxErr) || idxErr.Len != 0 {
		t.Errorf("Pack(1) on empty ledger error = %v", err)
	}
}

func TestLedger_RemoveByValue(t *testing.T) {
	t.Parallel()

	l := sampleLedger()
	first := l.Bundles[0]

	if err := l.RemoveBundle(first); err != nil {
		t.Fatalf("RemoveBundle() error = %v", err)
	}
	if len(l.Bundles) != 1 || l.Bundles[0].Name != "Only Behavior" {
		t.Errorf("unexpected bundles after removal: %+v", l.Bundles)
	}
	if err := l.RemoveBundle(first); !errors.Is(err, ErrEntryNotFound) {
		t.Errorf("second RemoveBundle() error = %v, want ErrEntryNotFound", err)
	}

	p := l.Packs[0]
	if err := l.RemovePack(p); err != nil {
		t.Fatalf("RemovePack() error = %v", err)
	}
	if len(l.Packs) != 0 {
		t.Errorf("packs not empty: %+v", l.Packs)
	}
}

func TestLedger_Validate(t *testing.T) {
	t.Parallel()

	if err := sampleLedger().Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}

	l := New()
	l.AddBundle(Bundle{Name: "no uuid", BehaviorFolder: "BP"})
	l.AddPack(Pack{Name: "no uuid", Folder: "NoID", Kind: manifest.KindBehavior})
	if err := l.Validate(); err != nil {
		t.Errorf("Validate() with empty ids = %v, want nil", err)
	}

	l.AddBundle(Bundle{Name: "broken", ResourceID: "33333333-3333-4333-8333-333333333333"})
	l.AddPack(Pack{Name: "rootless", ID: "x", Kind: manifest.KindBehavior})
	l.AddPack(Pack{Name: "odd", Folder: "odd", ID: "x", Kind: manifest.KindUnknown})
	err := l.Validate()
	if !errors.Is(err, ErrMissingFolder) {
		t.Errorf("Validate() error = %v, want ErrMissingFolder", err)
	}
	if !errors.Is(err, manifest.ErrInvalidKind) {
		t.Errorf("Validate() error = %v, want ErrInvalidKind", err)
	}
}

func TestLedger_Clone(t *testing.T) {
	t.Parallel()

	l := sampleLedger()
	c := l.Clone()
	c.Bundles[0].Name = "changed"
	if l.Bundles[0].Name == "changed" {
		t.Error("Clone() shares backing array")
	}
}
