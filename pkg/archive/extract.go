// SPDX-License-Identifier: MPL-2.0

package archive

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/addonhelper/addonhelper/pkg/fspath"
	"github.com/addonhelper/addonhelper/pkg/platform"

	"github.com/charmbracelet/log"
	"github.com/gabriel-vasile/mimetype"
	"github.com/klauspost/compress/zip"
)

const zipMIME = "application/zip"

var (
	// ErrNotZip is returned when the source file is not a ZIP archive.
	ErrNotZip = errors.New("not a zip archive")
	// ErrUnsafePath is returned when an entry would be written outside the destination.
	ErrUnsafePath = errors.New("archive entry escapes destination")
)

type (
	// ExtractOptions configures Extract.
	ExtractOptions struct {
		// Source is the archive to read.
		Source string
		// DestDir receives the archive contents. Existing content is removed first.
		DestDir string
		// Logger receives warnings about skipped entries. Nil discards them.
		Logger *log.Logger
	}

	// ExtractResult summarizes a successful extraction.
	ExtractResult struct {
		Files   int
		Skipped []string
	}
)

// IsZip reports whether the file at path is a ZIP archive or a ZIP-based format.
func IsZip(path string) (bool, error) {
	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return false, err
	}
	for m := mt; m != nil; m = m.Parent() {
		if m.Is(zipMIME) {
			return true, nil
		}
	}
	return false, nil
}

// Extract unpacks opts.Source into a fresh opts.DestDir.
func Extract(opts ExtractOptions) (result ExtractResult, err error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	ok, err := IsZip(opts.Source)
	if err != nil {
		return result, fmt.Errorf("failed to inspect %s: %w", filepath.Base(opts.Source), err)
	}
	if !ok {
		return result, fmt.Errorf("%s: %w", filepath.Base(opts.Source), ErrNotZip)
	}

	absDestDir, err := filepath.Abs(opts.DestDir)
	if err != nil {
		return result, fmt.Errorf("failed to resolve destination directory: %w", err)
	}
	if err = fspath.RemoveTree(absDestDir); err != nil {
		return result, fmt.Errorf("failed to clear destination directory: %w", err)
	}
	if err = os.MkdirAll(absDestDir, fspath.DirPerm); err != nil {
		return result, fmt.Errorf("failed to create destination directory: %w", err)
	}

	zipReader, err := zip.OpenReader(opts.Source)
	if err != nil {
		return result, fmt.Errorf("failed to open ZIP file: %w", err)
	}
	defer func() {
		if closeErr := zipReader.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	for _, file := range zipReader.File {
		// Some tools write Windows separators into entry names.
		name := strings.ReplaceAll(file.Name, `\`, "/")
		destPath := filepath.Join(absDestDir, filepath.FromSlash(name))

		relPath, relErr := filepath.Rel(absDestDir, destPath)
		if relErr != nil || relPath == ".." || strings.HasPrefix(relPath, ".."+string(filepath.Separator)) {
			return result, fmt.Errorf("%w: %s", ErrUnsafePath, file.Name)
		}
		if relPath == "." {
			continue
		}

		if platform.HasWindowsReservedComponent(name) {
			logger.Warn("skipping archive entry with reserved name", "archive", filepath.Base(opts.Source), "entry", file.Name)
			result.Skipped = append(result.Skipped, file.Name)
			continue
		}

		if file.FileInfo().IsDir() || strings.HasSuffix(name, "/") {
			if err = os.MkdirAll(destPath, fspath.DirPerm); err != nil {
				return result, fmt.Errorf("failed to create directory: %w", err)
			}
			continue
		}

		if err = os.MkdirAll(filepath.Dir(destPath), fspath.DirPerm); err != nil {
			return result, fmt.Errorf("failed to create parent directory: %w", err)
		}
		if err = extractFile(file, destPath); err != nil {
			return result, fmt.Errorf("failed to extract %s: %w", file.Name, err)
		}
		result.Files++
	}

	return result, nil
}

func extractFile(file *zip.File, destPath string) (err error) {
	rc, err := file.Open()
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := rc.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	destFile, err := os.OpenFile(destPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, fspath.FilePerm)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := destFile.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	//nolint:gosec // G110: archives are placed in the staging directory by the server operator
	_, err = io.Copy(destFile, rc)
	return err
}
