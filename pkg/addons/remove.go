// SPDX-License-Identifier: MPL-2.0

package addons

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/addonhelper/addonhelper/pkg/activation"
	"github.com/addonhelper/addonhelper/pkg/fspath"
	"github.com/addonhelper/addonhelper/pkg/ledger"
	"github.com/addonhelper/addonhelper/pkg/manifest"
)

var (
	// ErrInvalidIndex is returned for operator indexes that are not numbers
	// or do not address an installed entry. It is a user error and nothing changes.
	ErrInvalidIndex = ledger.ErrInvalidIndex

	// ErrUnsafeFolder is returned when a ledger folder would resolve outside its packs directory.
	ErrUnsafeFolder = errors.New("folder escapes packs directory")
)

// RemovalError reports a system failure while removing an installed entry.
// The ledger is left unchanged.
type RemovalError struct {
	Name string
	Path string
	Err  error
}

// Error implements the error interface.
func (e *RemovalError) Error() string {
	return fmt.Sprintf("failed to remove %q (%s): %v", e.Name, e.Path, e.Err)
}

// Unwrap returns the underlying cause.
func (e *RemovalError) Unwrap() error { return e.Err }

// ParseIndex converts operator input into a 1-based index.
func ParseIndex(arg string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidIndex, arg)
	}
	return n, nil
}

// RemoveBundle uninstalls the bundle at the 1-based index: its pack folders
// are deleted, its ids deactivated and its ledger entry removed.
func (s *Service) RemoveBundle(index int) (ledger.Bundle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := s.ledger.Bundle(index)
	if err != nil {
		return ledger.Bundle{}, err
	}

	type half struct {
		kind   manifest.Kind
		folder string
		id     string
	}
	var halves []half
	if b.HasBehavior() {
		halves = append(halves, half{manifest.KindBehavior, b.BehaviorFolder, b.BehaviorID})
	}
	if b.HasResource() {
		halves = append(halves, half{manifest.KindResource, b.ResourceFolder, b.ResourceID})
	}

	for _, h := range halves {
		if err := s.deletePackFolder(b.Name, h.kind, h.folder); err != nil {
			return b, err
		}
	}
	for _, h := range halves {
		s.deactivate(h.kind, h.id)
	}

	if err := s.ledger.RemoveBundle(b); err != nil {
		return b, err
	}
	s.persist()
	s.logger.Info("bundle removed", "name", b.Name)
	return b, nil
}

// RemovePack uninstalls the standalone pack at the 1-based index.
func (s *Service) RemovePack(index int) (ledger.Pack, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.ledger.Pack(index)
	if err != nil {
		return ledger.Pack{}, err
	}

	if p.Folder != "" {
		if err := s.deletePackFolder(p.Name, p.Kind, p.Folder); err != nil {
			return p, err
		}
	}
	s.deactivate(p.Kind, p.ID)

	if err := s.ledger.RemovePack(p); err != nil {
		return p, err
	}
	s.persist()
	s.logger.Info("pack removed", "name", p.Name)
	return p, nil
}

// deletePackFolder removes an installed pack folder. A missing folder is fine.
func (s *Service) deletePackFolder(name string, kind manifest.Kind, folder string) error {
	packsDir, err := s.layout.PacksDir(kind)
	if err != nil {
		return &RemovalError{Name: name, Path: folder, Err: err}
	}
	if folder == "." || folder == ".." || strings.ContainsAny(folder, `/\`) {
		return &RemovalError{Name: name, Path: folder, Err: ErrUnsafeFolder}
	}

	dir := filepath.Join(packsDir, folder)
	if err := fspath.RemoveTree(dir); err != nil {
		s.logger.Error("failed to delete pack folder, entry kept", "name", name, "dir", dir, "err", err)
		return &RemovalError{Name: name, Path: dir, Err: err}
	}
	s.logger.Info("deleted pack folder", "kind", kind, "dir", dir)
	return nil
}

func (s *Service) deactivate(kind manifest.Kind, id string) {
	table, err := activation.TableFor(kind)
	if err != nil {
		s.logger.Warn("cannot deactivate pack of unknown kind", "pack_id", id, "kind", kind)
		return
	}
	s.registry.Deactivate(table, id)
}
