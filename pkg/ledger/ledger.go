// SPDX-License-Identifier: MPL-2.0

package ledger

import (
	"errors"
	"fmt"
	"slices"

	"github.com/addonhelper/addonhelper/pkg/manifest"
)

// BundleType is the fixed "type" value written for bundle entries.
const BundleType = "addon"

var (
	// ErrInvalidIndex is returned when an operator index does not address an entry.
	ErrInvalidIndex = errors.New("invalid index")
	// ErrMissingFolder is returned by Validate when a pack id is recorded without its folder.
	ErrMissingFolder = errors.New("pack id recorded without folder")
	// ErrEntryNotFound is returned when removing an entry the ledger does not hold.
	ErrEntryNotFound = errors.New("entry not found")
)

type (
	// Ledger is the ordered record of installed bundles and standalone packs.
	Ledger struct {
		Bundles []Bundle `json:"addons"`
		Packs   []Pack   `json:"packs"`
	}

	// Bundle records one installed .mcaddon. Either half may be absent, but a
	// recorded folder always comes with the id that was activated for it.
	Bundle struct {
		Name           string `json:"name"`
		Type           string `json:"type"`
		BehaviorFolder string `json:"behavior_folder,omitempty"`
		BehaviorID     string `json:"behavior_uuid,omitempty"`
		ResourceFolder string `json:"resource_folder,omitempty"`
		ResourceID     string `json:"resource_uuid,omitempty"`
	}

	// Pack records one installed standalone .mcpack.
	Pack struct {
		Name   string        `json:"name"`
		Folder string        `json:"folder"`
		ID     string        `json:"uuid"`
		Kind   manifest.Kind `json:"type"`
	}

	// IndexError reports an operator index outside 1..Len.
	IndexError struct {
		Index int
		Len   int
	}
)

// New returns an empty ledger.
func New() *Ledger {
	return &Ledger{Bundles: []Bundle{}, Packs: []Pack{}}
}

// Error implements the error interface.
func (e *IndexError) Error() string {
	if e.Len == 0 {
		return fmt.Sprintf("invalid index %d: nothing is installed", e.Index)
	}
	return fmt.Sprintf("invalid index %d: expected 1..%d", e.Index, e.Len)
}

// Unwrap returns ErrInvalidIndex so callers can use errors.Is for programmatic detection.
func (e *IndexError) Unwrap() error { return ErrInvalidIndex }

// HasBehavior reports whether the bundle installed a behavior pack.
func (b Bundle) HasBehavior() bool { return b.BehaviorFolder != "" }

// HasResource reports whether the bundle installed a resource pack.
func (b Bundle) HasResource() bool { return b.ResourceFolder != "" }

// Validate checks that every recorded id belongs to a recorded folder. The id
// itself may be empty when the manifest carried none; the store still writes
// the id key next to its folder.
func (b Bundle) Validate() error {
	if !b.HasBehavior() && b.BehaviorID != "" {
		return fmt.Errorf("bundle %q behavior id %q: %w", b.Name, b.BehaviorID, ErrMissingFolder)
	}
	if !b.HasResource() && b.ResourceID != "" {
		return fmt.Errorf("bundle %q resource id %q: %w", b.Name, b.ResourceID, ErrMissingFolder)
	}
	return nil
}

// Validate checks that the pack has a folder and an installable kind.
func (p Pack) Validate() error {
	if p.Folder == "" {
		return fmt.Errorf("pack %q: %w", p.Name, ErrMissingFolder)
	}
	return p.Kind.Validate()
}

// Validate checks every entry and returns all violations joined.
func (l *Ledger) Validate() error {
	var errs []error
	for _, b := range l.Bundles {
		errs = append(errs, b.Validate())
	}
	for _, p := range l.Packs {
		errs = append(errs, p.Validate())
	}
	return errors.Join(errs...)
}

// AddBundle appends a bundle entry.
func (l *Ledger) AddBundle(b Bundle) {
	if b.Type == "" {
		b.Type = BundleType
	}
	l.Bundles = append(l.Bundles, b)
}

// AddPack appends a standalone pack entry.
func (l *Ledger) AddPack(p Pack) {
	l.Packs = append(l.Packs, p)
}

// Bundle returns the bundle at the 1-based operator index.
func (l *Ledger) Bundle(index int) (Bundle, error) {
	if index < 1 || index > len(l.Bundles) {
		return Bundle{}, &IndexError{Index: index, Len: len(l.Bundles)}
	}
	return l.Bundles[index-1], nil
}

// Pack returns the standalone pack at the 1-based operator index.
func (l *Ledger) Pack(index int) (Pack, error) {
	if index < 1 || index > len(l.Packs) {
		return Pack{}, &IndexError{Index: index, Len: len(l.Packs)}
	}
	return l.Packs[index-1], nil
}

// RemoveBundle removes the first entry equal to b.
func (l *Ledger) RemoveBundle(b Bundle) error {
	i := slices.Index(l.Bundles, b)
	if i < 0 {
		return fmt.Errorf("bundle %q: %w", b.Name, ErrEntryNotFound)
	}
	l.Bundles = slices.Delete(l.Bundles, i, i+1)
	return nil
}

// RemovePack removes the first entry equal to p.
func (l *Ledger) RemovePack(p Pack) error {
	i := slices.Index(l.Packs, p)
	if i < 0 {
		return fmt.Errorf("pack %q: %w", p.Name, ErrEntryNotFound)
	}
	l.Packs = slices.Delete(l.Packs, i, i+1)
	return nil
}

// Clone returns a deep copy of the ledger.
func (l *Ledger) Clone() *Ledger {
	return &Ledger{
		Bundles: append([]Bundle{}, l.Bundles...),
		Packs:   append([]Pack{}, l.Packs...),
	}
}
