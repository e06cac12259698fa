// SPDX-License-Identifier: MPL-2.0

package activation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/addonhelper/addonhelper/pkg/fspath"
	"github.com/addonhelper/addonhelper/pkg/manifest"

	"github.com/charmbracelet/log"
)

// Registry edits the activation files of a single world directory.
type Registry struct {
	worldDir string
	logger   *log.Logger
}

// New returns a registry for worldDir. A nil logger discards output.
func New(worldDir string, logger *log.Logger) *Registry {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Registry{worldDir: worldDir, logger: logger}
}

// WorldDir returns the world directory the registry edits.
func (r *Registry) WorldDir() string { return r.worldDir }

// Path returns the file backing table t.
func (r *Registry) Path(t Table) string {
	return filepath.Join(r.worldDir, t.FileName())
}

// Activate appends {id, version} to table t unless an entry with id already
// exists, in which case the file is left untouched and the recorded version
// is kept. A missing or unparsable file is treated as an empty list. It
// reports whether an entry was added.
func (r *Registry) Activate(t Table, id string, version manifest.Version) bool {
	if err := t.Validate(); err != nil {
		r.logger.Error("activation skipped", "pack_id", id, "err", err)
		return false
	}

	path := r.Path(t)
	entries, err := read(path)
	if err != nil {
		r.logger.Warn("replacing unreadable activation file", "path", path, "err", err)
		entries = nil
	}

	for _, e := range entries {
		if e.PackID == id {
			r.logger.Debug("pack already active", "table", t, "pack_id", id)
			return false
		}
	}

	entries = append(entries, Entry{PackID: id, Version: version})
	if err := write(path, entries); err != nil {
		r.logger.Error("failed to activate pack", "table", t, "pack_id", id, "err", err)
		return false
	}
	r.logger.Debug("pack activated", "table", t, "pack_id", id, "version", version)
	return true
}

// Deactivate removes every entry with id from table t and rewrites the file,
// even when nothing matched. A missing file is left missing. It returns the
// number of removed entries.
func (r *Registry) Deactivate(t Table, id string) int {
	if err := t.Validate(); err != nil {
		r.logger.Error("deactivation skipped", "pack_id", id, "err", err)
		return 0
	}

	path := r.Path(t)
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return 0
	}

	entries, err := read(path)
	if err != nil {
		r.logger.Error("failed to read activation file", "path", path, "err", err)
		return 0
	}

	kept := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.PackID != id {
			kept = append(kept, e)
		}
	}

	if err := write(path, kept); err != nil {
		r.logger.Error("failed to deactivate pack", "table", t, "pack_id", id, "err", err)
		return 0
	}
	removed := len(entries) - len(kept)
	r.logger.Debug("pack deactivated", "table", t, "pack_id", id, "removed", removed)
	return removed
}

// Entries returns the current contents of table t. A missing file yields an empty list.
func (r *Registry) Entries(t Table) ([]Entry, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return read(r.Path(t))
}

// IsActive reports whether id is present in table t.
func (r *Registry) IsActive(t Table, id string) bool {
	entries, err := r.Entries(t)
	if err != nil {
		return false
	}
	for _, e := range entries {
		if e.PackID == id {
			return true
		}
	}
	return false
}

func read(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []Entry{}, nil
		}
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return []Entry{}, nil
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	if entries == nil {
		entries = []Entry{}
	}
	return entries, nil
}

func write(path string, entries []Entry) error {
	if entries == nil {
		entries = []Entry{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(entries); err != nil {
		return err
	}
	return fspath.WriteAtomic(path, buf.Bytes())
}
