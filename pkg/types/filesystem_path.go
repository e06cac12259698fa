// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidFilesystemPath is the sentinel error wrapped by InvalidFilesystemPathError.
	ErrInvalidFilesystemPath = errors.New("invalid filesystem path")
	// ErrInvalidFolderName is the sentinel error wrapped by InvalidFolderNameError.
	ErrInvalidFolderName = errors.New("invalid folder name")
)

type (
	// FilesystemPath is a configured directory or file location. Blank values
	// are rejected: a location left unset must be derived, not used as "".
	FilesystemPath string

	// FolderName is a single path element joined under a configured
	// directory, such as a world name under worlds/. It must not be able to
	// climb out of that directory.
	FolderName string

	// InvalidFilesystemPathError explains why a FilesystemPath was rejected.
	InvalidFilesystemPathError struct {
		Value  FilesystemPath
		Reason string
	}

	// InvalidFolderNameError explains why a FolderName was rejected.
	InvalidFolderNameError struct {
		Value  FolderName
		Reason string
	}
)

func (p FilesystemPath) String() string { return string(p) }

// IsValid reports whether the path can be used, with one error per problem.
func (p FilesystemPath) IsValid() (bool, []error) {
	var errs []error
	if strings.TrimSpace(string(p)) == "" {
		errs = append(errs, &InvalidFilesystemPathError{Value: p, Reason: "must be non-empty"})
	}
	if strings.ContainsRune(string(p), 0) {
		errs = append(errs, &InvalidFilesystemPathError{Value: p, Reason: "must not contain NUL bytes"})
	}
	return len(errs) == 0, errs
}

func (e *InvalidFilesystemPathError) Error() string {
	return fmt.Sprintf("filesystem path %q %s", e.Value, e.Reason)
}

func (e *InvalidFilesystemPathError) Unwrap() error { return ErrInvalidFilesystemPath }

func (n FolderName) String() string { return string(n) }

// IsValid reports whether n is a single usable path element.
func (n FolderName) IsValid() (bool, []error) {
	s := string(n)
	var reason string
	switch {
	case strings.TrimSpace(s) == "":
		reason = "must be non-empty"
	case s == "." || s == "..":
		reason = "must not be a relative directory reference"
	case strings.ContainsAny(s, `/\`):
		reason = "must not contain path separators"
	case strings.ContainsRune(s, 0):
		reason = "must not contain NUL bytes"
	default:
		return true, nil
	}
	return false, []error{&InvalidFolderNameError{Value: n, Reason: reason}}
}

func (e *InvalidFolderNameError) Error() string {
	return fmt.Sprintf("folder name %q %s", e.Value, e.Reason)
}

func (e *InvalidFolderNameError) Unwrap() error { return ErrInvalidFolderName }
