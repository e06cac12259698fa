// SPDX-License-Identifier: MPL-2.0

// Package fspath holds the small filesystem helpers shared by the ledger,
// the activation registry and the installer: atomic rewrites, tolerant
// removal and archive stem handling.
package fspath

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const (
	// DirPerm is the permission used for every directory the tool creates.
	DirPerm fs.FileMode = 0o755
	// FilePerm is the permission used for every file the tool writes.
	FilePerm fs.FileMode = 0o644
)

// WriteAtomic replaces path with data. Parent directories are created as
// needed and the content is written to a sibling temp file first, so readers
// never observe a truncated file.
func WriteAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), DirPerm); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, FilePerm); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath) // Best-effort cleanup of temp file
		return fmt.Errorf("failed to rename %s: %w", filepath.Base(path), err)
	}

	return nil
}

// RemoveTree deletes path and everything below it. A missing path is not an error.
func RemoveTree(path string) error {
	if err := os.RemoveAll(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// Stem returns the file name of path without directory and final extension.
// "plugins/Foo.mcpack" becomes "Foo".
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// IsDir reports whether path exists and is a directory.
func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
