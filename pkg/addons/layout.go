// SPDX-License-Identifier: MPL-2.0

package addons

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/addonhelper/addonhelper/pkg/manifest"
	"github.com/addonhelper/addonhelper/pkg/types"
)

const (
	// DefaultWorldName is the world Bedrock creates when level-name is unset.
	DefaultWorldName = "Bedrock level"

	defaultStagingRel = "plugins/addonshelper"
	scratchDirName    = "temp"
	cacheDirName      = ".cache"
	ledgerFileName    = "enable.json"
)

var (
	// DefaultBundlePatterns match bundle archives in the staging directory.
	DefaultBundlePatterns = []string{"*.mcaddon"}
	// DefaultPackPatterns match standalone pack archives in the staging directory.
	DefaultPackPatterns = []string{"*.mcpack"}

	// ErrInvalidLayout is returned when a Layout is missing a required directory.
	ErrInvalidLayout = errors.New("invalid server layout")
)

// Layout lists every location the service reads or writes.
type Layout struct {
	ServerDir        string
	StagingDir       string
	ScratchDir       string
	LedgerPath       string
	BehaviorPacksDir string
	ResourcePacksDir string
	WorldsDir        string
	WorldName        string

	BundlePatterns []string
	PackPatterns   []string
}

// DefaultLayout returns the conventional layout of a Bedrock server rooted at serverDir.
func DefaultLayout(serverDir, worldName string) Layout {
	staging := filepath.Join(serverDir, filepath.FromSlash(defaultStagingRel))
	if worldName == "" {
		worldName = DefaultWorldName
	}
	return Layout{
		ServerDir:        serverDir,
		StagingDir:       staging,
		ScratchDir:       filepath.Join(staging, scratchDirName),
		LedgerPath:       filepath.Join(staging, cacheDirName, ledgerFileName),
		BehaviorPacksDir: filepath.Join(serverDir, "behavior_packs"),
		ResourcePacksDir: filepath.Join(serverDir, "resource_packs"),
		WorldsDir:        filepath.Join(serverDir, "worlds"),
		WorldName:        worldName,
		BundlePatterns:   DefaultBundlePatterns,
		PackPatterns:     DefaultPackPatterns,
	}
}

// WithStagingDir moves the staging directory and everything derived from it.
func (l Layout) WithStagingDir(dir string) Layout {
	l.StagingDir = dir
	l.ScratchDir = filepath.Join(dir, scratchDirName)
	l.LedgerPath = filepath.Join(dir, cacheDirName, ledgerFileName)
	return l
}

// WorldDir returns the directory holding the active world's activation files.
func (l Layout) WorldDir() string {
	return filepath.Join(l.WorldsDir, l.WorldName)
}

// PacksDir returns the permanent directory for packs of the given kind.
func (l Layout) PacksDir(kind manifest.Kind) (string, error) {
	switch kind {
	case manifest.KindBehavior:
		return l.BehaviorPacksDir, nil
	case manifest.KindResource:
		return l.ResourcePacksDir, nil
	default:
		return "", &manifest.InvalidKindError{Value: kind}
	}
}

// Validate checks that every directory is set and that at least one archive pattern exists.
func (l Layout) Validate() error {
	fields := []struct {
		name  string
		value string
	}{
		{"staging directory", l.StagingDir},
		{"scratch directory", l.ScratchDir},
		{"ledger path", l.LedgerPath},
		{"behavior packs directory", l.BehaviorPacksDir},
		{"resource packs directory", l.ResourcePacksDir},
		{"worlds directory", l.WorldsDir},
	}

	var errs []error
	for _, f := range fields {
		if ok, fieldErrs := types.FilesystemPath(f.value).IsValid(); !ok {
			errs = append(errs, fmt.Errorf("%w: %s: %w", ErrInvalidLayout, f.name, errors.Join(fieldErrs...)))
		}
	}
	if ok, nameErrs := types.FolderName(l.WorldName).IsValid(); !ok {
		errs = append(errs, fmt.Errorf("%w: world name: %w", ErrInvalidLayout, errors.Join(nameErrs...)))
	}
	if len(l.BundlePatterns)+len(l.PackPatterns) == 0 {
		errs = append(errs, fmt.Errorf("%w: no archive patterns configured", ErrInvalidLayout))
	}
	return errors.Join(errs...)
}
