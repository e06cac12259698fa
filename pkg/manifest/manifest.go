// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/addonhelper/addonhelper/pkg/cueutil"

	"github.com/google/uuid"
)

// FileName is the descriptor file expected at the root of every pack.
const FileName = "manifest.json"

var (
	// ErrUndecodable is returned when the manifest bytes cannot be decoded to text.
	ErrUndecodable = errors.New("manifest text cannot be decoded")
	// ErrMalformed is returned when the decoded text is neither JSON nor lenient JSON.
	ErrMalformed = errors.New("manifest is malformed")
)

type (
	// Descriptor is the subset of a pack manifest that installation relies on.
	Descriptor struct {
		Name        string
		Description string
		ID          string
		Version     Version
		Kind        Kind
	}

	// ReadError describes a failure to read a manifest file.
	ReadError struct {
		Path string
		Err  error
	}

	rawManifest struct {
		Header  rawHeader   `json:"header"`
		Modules []rawModule `json:"modules"`
	}

	rawHeader struct {
		Name        string          `json:"name"`
		Description string          `json:"description"`
		UUID        string          `json:"uuid"`
		Version     json.RawMessage `json:"version"`
	}

	rawModule struct {
		Type string `json:"type"`
	}
)

// Error implements the error interface.
func (e *ReadError) Error() string {
	return fmt.Sprintf("read manifest %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying cause.
func (e *ReadError) Unwrap() error { return e.Err }

// HasValidID reports whether the pack id is a well-formed UUID.
// Bedrock itself refuses packs with malformed ids, but installation proceeds
// regardless so the operator can see the pack on disk.
func (d *Descriptor) HasValidID() bool {
	_, err := uuid.Parse(d.ID)
	return err == nil
}

// Exists reports whether dir contains a manifest file.
func Exists(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, FileName))
	return err == nil && !info.IsDir()
}

// ReadDir reads the manifest located at the root of dir.
func ReadDir(dir string) (*Descriptor, error) {
	return Read(filepath.Join(dir, FileName))
}

// Read loads and interprets the manifest at path.
func Read(path string) (*Descriptor, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &ReadError{Path: path, Err: err}
	}
	d, err := Parse(raw)
	if err != nil {
		return nil, &ReadError{Path: path, Err: err}
	}
	return d, nil
}

// Parse interprets raw manifest bytes.
func Parse(raw []byte) (*Descriptor, error) {
	text, err := decodeText(raw)
	if err != nil {
		return nil, err
	}

	var m rawManifest
	if err := json.Unmarshal(text, &m); err != nil {
		lenient, lerr := normalizeLenient(text)
		if lerr != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
		}
		m = rawManifest{}
		if err := json.Unmarshal(lenient, &m); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
		}
	}

	d := &Descriptor{
		Name:        m.Header.Name,
		Description: m.Header.Description,
		ID:          m.Header.UUID,
		Version:     DefaultVersion,
		Kind:        KindUnknown,
	}
	if len(m.Header.Version) > 0 {
		if v, ok := parseVersion(m.Header.Version); ok {
			d.Version = v
		}
	}
	if len(m.Modules) > 0 {
		d.Kind = classify(m.Modules[0].Type)
	}
	return d, nil
}

// lenientSchema types only the fields installation reads; everything else stays open.
const lenientSchema = `
#Manifest: {
	header?: {
		name?:        string
		description?: string
		uuid?:        string
		version?:     _
		...
	}
	modules?: [...{
		type?: string
		...
	}]
	...
}
`

// normalizeLenient compiles text as CUE and re-emits it as strict JSON.
// CUE is a superset of JSON that tolerates // comments and trailing commas.
func normalizeLenient(text []byte) ([]byte, error) {
	v, err := cueutil.Unify([]byte(lenientSchema), bytes.TrimSpace(text), "#Manifest",
		cueutil.WithFilename(FileName))
	if err != nil {
		return nil, err
	}
	return v.MarshalJSON()
}
