// SPDX-License-Identifier: MPL-2.0

package activation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/addonhelper/addonhelper/pkg/manifest"
)

const (
	// TableBehavior selects world_behavior_packs.json.
	TableBehavior Table = "behavior"
	// TableResource selects world_resource_packs.json.
	TableResource Table = "resource"

	keyPackID  = "pack_id"
	keyVersion = "version"
)

// ErrInvalidTable is the sentinel error wrapped by InvalidTableError.
var ErrInvalidTable = errors.New("invalid activation table")

type (
	// Table names one of the two activation files of a world.
	Table string

	// InvalidTableError is returned when a Table is neither behavior nor resource.
	InvalidTableError struct {
		Value Table
	}

	// Entry is one activated pack within a table.
	Entry struct {
		PackID  string
		Version manifest.Version

		// extra keeps fields this tool does not interpret, such as "subpack".
		extra map[string]json.RawMessage
	}
)

// TableFor maps a pack kind to the table it is activated in.
func TableFor(kind manifest.Kind) (Table, error) {
	switch kind {
	case manifest.KindBehavior:
		return TableBehavior, nil
	case manifest.KindResource:
		return TableResource, nil
	default:
		return "", &manifest.InvalidKindError{Value: kind}
	}
}

// Error implements the error interface.
func (e *InvalidTableError) Error() string {
	return fmt.Sprintf("invalid activation table %q (expected behavior or resource)", e.Value)
}

// Unwrap returns ErrInvalidTable so callers can use errors.Is for programmatic detection.
func (e *InvalidTableError) Unwrap() error { return ErrInvalidTable }

// String returns the string representation of the Table.
func (t Table) String() string { return string(t) }

// Validate returns an error if the Table is not a known value.
func (t Table) Validate() error {
	if t != TableBehavior && t != TableResource {
		return &InvalidTableError{Value: t}
	}
	return nil
}

// FileName returns the world file backing the table.
func (t Table) FileName() string {
	return "world_" + string(t) + "_packs.json"
}

// MarshalJSON writes pack_id and version alongside any preserved fields.
func (e Entry) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(e.extra)+2)
	for k, v := range e.extra {
		out[k] = v
	}
	out[keyPackID] = e.PackID
	if _, kept := e.extra[keyVersion]; !kept {
		out[keyVersion] = e.Version
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(out); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// UnmarshalJSON reads an entry, keeping unknown fields and any version
// value that is not a recognizable triple verbatim.
func (e *Entry) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	var id string
	if raw, ok := fields[keyPackID]; ok {
		if err := json.Unmarshal(raw, &id); err != nil {
			return fmt.Errorf("pack_id: %w", err)
		}
		delete(fields, keyPackID)
	}

	var v manifest.Version
	if raw, ok := fields[keyVersion]; ok {
		if err := v.UnmarshalJSON(raw); err == nil {
			delete(fields, keyVersion)
		}
	}

	*e = Entry{PackID: id, Version: v}
	if len(fields) > 0 {
		e.extra = fields
	}
	return nil
}
