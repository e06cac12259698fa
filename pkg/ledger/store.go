// SPDX-License-Identifier: MPL-2.0

package ledger

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"unicode/utf16"

	"github.com/addonhelper/addonhelper/pkg/fspath"
)

// Store loads and saves a ledger at a fixed path.
type Store struct {
	path string
}

// NewStore returns a store backed by the file at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file path.
func (s *Store) Path() string { return s.path }

// Load reads the persisted ledger. The returned ledger is never nil: a missing
// file yields an empty ledger and no error, and an unreadable or corrupt file
// yields an empty ledger together with the error so the caller can log it.
func (s *Store) Load() (*Ledger, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return New(), nil
		}
		return New(), fmt.Errorf("failed to read ledger: %w", err)
	}

	var l Ledger
	if err := json.Unmarshal(data, &l); err != nil {
		return New(), fmt.Errorf("failed to parse ledger %s: %w", s.path, err)
	}
	if l.Bundles == nil {
		l.Bundles = []Bundle{}
	}
	if l.Packs == nil {
		l.Packs = []Pack{}
	}
	return &l, nil
}

// Save overwrites the backing file with l.
func (s *Store) Save(l *Ledger) error {
	data, err := Encode(l)
	if err != nil {
		return err
	}
	return fspath.WriteAtomic(s.path, data)
}

// Encode renders l in the on-disk format: every string sanitized to valid
// UTF-8, two-space indentation and non-ASCII escaped as \uXXXX.
func Encode(l *Ledger) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(Sanitize(l.toValue())); err != nil {
		return nil, fmt.Errorf("failed to encode ledger: %w", err)
	}
	return escapeNonASCII(buf.Bytes()), nil
}

func (l *Ledger) toValue() map[string]any {
	addons := make([]any, 0, len(l.Bundles))
	for _, b := range l.Bundles {
		addons = append(addons, b.toValue())
	}
	packs := make([]any, 0, len(l.Packs))
	for _, p := range l.Packs {
		packs = append(packs, p.toValue())
	}
	return map[string]any{"addons": addons, "packs": packs}
}

func (b Bundle) toValue() map[string]any {
	typ := b.Type
	if typ == "" {
		typ = BundleType
	}
	v := map[string]any{"name": b.Name, "type": typ}
	if b.HasBehavior() {
		v["behavior_folder"] = b.BehaviorFolder
		v["behavior_uuid"] = b.BehaviorID
	}
	if b.HasResource() {
		v["resource_folder"] = b.ResourceFolder
		v["resource_uuid"] = b.ResourceID
	}
	return v
}

func (p Pack) toValue() map[string]any {
	return map[string]any{
		"name":   p.Name,
		"folder": p.Folder,
		"uuid":   p.ID,
		"type":   p.Kind.String(),
	}
}

// Sanitize walks a generic JSON value and drops every byte sequence in a
// string (keys included) that is not valid UTF-8, such as lone surrogates.
// Values that are not maps, slices or strings are returned unchanged.
func Sanitize(v any) any {
	switch x := v.(type) {
	case string:
		return strings.ToValidUTF8(x, "")
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[strings.ToValidUTF8(k, "")] = Sanitize(e)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = Sanitize(e)
		}
		return out
	default:
		return v
	}
}

// escapeNonASCII rewrites every non-ASCII rune of valid JSON text as a
// \uXXXX escape. Outside strings JSON is pure ASCII, so no tokenizing is needed.
func escapeNonASCII(data []byte) []byte {
	var out bytes.Buffer
	out.Grow(len(data))
	for _, r := range string(data) {
		if r < 0x80 {
			out.WriteByte(byte(r))
			continue
		}
		if r > 0xFFFF {
			hi, lo := utf16.EncodeRune(r)
			fmt.Fprintf(&out, `\u%04x\u%04x`, hi, lo)
			continue
		}
		fmt.Fprintf(&out, `\u%04x`, r)
	}
	return out.Bytes()
}
