// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"errors"
	"fmt"
)

const (
	// KindBehavior marks a pack whose first module is of type "data".
	KindBehavior Kind = "behavior"
	// KindResource marks a pack whose first module is of type "resources".
	KindResource Kind = "resource"
	// KindUnknown marks a pack that cannot be classified. Unknown packs are never installed.
	KindUnknown Kind = "unknown"

	moduleTypeData      = "data"
	moduleTypeResources = "resources"
)

// ErrInvalidKind is the sentinel error wrapped by InvalidKindError.
var ErrInvalidKind = errors.New("invalid pack kind")

type (
	// Kind classifies a pack by the type of its first module.
	Kind string

	// InvalidKindError is returned when a Kind is not one of the known values.
	InvalidKindError struct {
		Value Kind
	}
)

// Error implements the error interface.
func (e *InvalidKindError) Error() string {
	return fmt.Sprintf("invalid pack kind %q (expected behavior or resource)", e.Value)
}

// Unwrap returns ErrInvalidKind so callers can use errors.Is for programmatic detection.
func (e *InvalidKindError) Unwrap() error { return ErrInvalidKind }

// String returns the string representation of the Kind.
func (k Kind) String() string { return string(k) }

// IsInstallable reports whether packs of this kind can be installed.
func (k Kind) IsInstallable() bool { return k == KindBehavior || k == KindResource }

// Validate returns an error unless the Kind is behavior or resource.
// KindUnknown is deliberately rejected: it only exists to describe a manifest.
func (k Kind) Validate() error {
	if !k.IsInstallable() {
		return &InvalidKindError{Value: k}
	}
	return nil
}

func classify(moduleType string) Kind {
	switch moduleType {
	case moduleTypeData:
		return KindBehavior
	case moduleTypeResources:
		return KindResource
	default:
		return KindUnknown
	}
}
