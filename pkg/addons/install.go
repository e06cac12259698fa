// SPDX-License-Identifier: MPL-2.0

package addons

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/addonhelper/addonhelper/pkg/activation"
	"github.com/addonhelper/addonhelper/pkg/archive"
	"github.com/addonhelper/addonhelper/pkg/fspath"
	"github.com/addonhelper/addonhelper/pkg/ledger"
	"github.com/addonhelper/addonhelper/pkg/manifest"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"
)


// unit is one classified pack inside an extracted archive.
type unit struct {
	dir        string
	folder     string
	descriptor *manifest.Descriptor
}

// InstallPending installs every archive currently in the staging directory.
// Bundles are processed before standalone packs, each group in name order.
// Cancelling ctx stops the run before the next archive.
func (s *Service) InstallPending(ctx context.Context) InstallReport {
	report := s.installPending(ctx)
	if report.RestartRequired && s.onRestart != nil {
		s.onRestart(ctx, report)
	}
	return report
}

func (s *Service) installPending(ctx context.Context) InstallReport {
	s.mu.Lock()
	defer s.mu.Unlock()

	bundles, packs, err := s.scanStaging()
	if err != nil {
		s.logger.Error("failed to scan staging directory", "dir", s.layout.StagingDir, "err", err)
		return InstallReport{}
	}
	if len(bundles) == 0 && len(packs) == 0 {
		return InstallReport{}
	}

	s.logger.Info("found staged archives", "bundles", len(bundles), "packs", len(packs))
	report := InstallReport{RestartRequired: true}

	for _, path := range bundles {
		if ctx.Err() != nil {
			break
		}
		report.Results = append(report.Results, s.installBundle(ctx, path))
	}
	for _, path := range packs {
		if ctx.Err() != nil {
			break
		}
		report.Results = append(report.Results, s.installPack(ctx, path))
	}
	if err := ctx.Err(); err != nil {
		s.logger.Warn("install run interrupted", "err", err)
	}

	s.logger.Warn("pack installation finished, restart the server to apply the changes")
	return report
}

// scanStaging lists staged archives. os.ReadDir returns entries sorted by name.
func (s *Service) scanStaging() (bundles, packs []string, err error) {
	entries, err := os.ReadDir(s.layout.StagingDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil, nil
		}
		return nil, nil, err
	}

	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		path := filepath.Join(s.layout.StagingDir, e.Name())
		if !matchAny(s.layout.BundlePatterns, e.Name()) && !matchAny(s.layout.PackPatterns, e.Name()) {
			continue
		}
		if !usableStem(e.Name()) {
			s.logger.Warn("staged archive has no usable name, skipping", "file", e.Name())
			continue
		}
		switch {
		case matchAny(s.layout.BundlePatterns, e.Name()):
			bundles = append(bundles, path)
		case matchAny(s.layout.PackPatterns, e.Name()):
			packs = append(packs, path)
		}
	}
	return bundles, packs, nil
}

// usableStem reports whether the archive name leaves a folder name once its
// extension is removed. ".mcpack" would otherwise install into the packs root.
func usableStem(name string) bool {
	switch fspath.Stem(name) {
	case "", ".", "..":
		return false
	}
	return true
}

// matchAny matches name against patterns, ignoring case.
func matchAny(patterns []string, name string) bool {
	lower := strings.ToLower(name)
	for _, p := range patterns {
		if ok, err := doublestar.Match(strings.ToLower(p), lower); err == nil && ok {
			return true
		}
	}
	return false
}

func (s *Service) installBundle(ctx context.Context, path string) (res ArchiveResult) {
	res = ArchiveResult{Path: path, Kind: ArchiveBundle, State: StateDiscovered}
	stem := fspath.Stem(path)
	scratch := filepath.Join(s.layout.ScratchDir, stem)
	logger := s.logger.With("archive", filepath.Base(path))
	defer s.discardOnFailure(&res, scratch, logger)

	logger.Info("processing bundle")
	if err := s.extract(path, scratch, logger); err != nil {
		return s.fail(res, err, logger)
	}
	res.State = StateExtracted

	s.expandNestedPacks(scratch, logger)
	units, err := s.classifyUnits(scratch, logger)
	if err != nil {
		return s.fail(res, err, logger)
	}
	res.State = StateClassified

	// Only a behavior pack renames the bundle; otherwise it keeps the archive stem.
	bundle := ledger.Bundle{Name: stem, Type: ledger.BundleType}
	for _, u := range units {
		d := u.descriptor
		if err := s.installUnit(ctx, u.dir, u.folder, d, logger); err != nil {
			return s.fail(res, err, logger)
		}

		switch d.Kind {
		case manifest.KindBehavior:
			if bundle.BehaviorFolder != "" {
				logger.Warn("bundle holds more than one behavior pack, recording the last one",
					"replaced", bundle.BehaviorFolder, "folder", u.folder)
			}
			bundle.BehaviorFolder = u.folder
			bundle.BehaviorID = d.ID
			bundle.Name = displayName(d, u.folder)
		case manifest.KindResource:
			if bundle.ResourceFolder != "" {
				logger.Warn("bundle holds more than one resource pack, recording the last one",
					"replaced", bundle.ResourceFolder, "folder", u.folder)
			}
			bundle.ResourceFolder = u.folder
			bundle.ResourceID = d.ID
		}
	}
	if len(units) == 0 {
		logger.Warn("bundle contains no installable packs")
	}
	res.State = StateInstalled

	s.ledger.AddBundle(bundle)
	res.Bundle = &bundle
	res.State = StateRegistered
	s.persist()

	return s.cleanup(res, scratch, logger)
}

func (s *Service) installPack(ctx context.Context, path string) (res ArchiveResult) {
	res = ArchiveResult{Path: path, Kind: ArchivePack, State: StateDiscovered}
	stem := fspath.Stem(path)
	scratch := filepath.Join(s.layout.ScratchDir, stem)
	logger := s.logger.With("archive", filepath.Base(path))
	defer s.discardOnFailure(&res, scratch, logger)

	logger.Info("processing pack")
	if err := s.extract(path, scratch, logger); err != nil {
		return s.fail(res, err, logger)
	}
	res.State = StateExtracted

	d, err := readInstallable(scratch)
	res.State = StateClassified
	if err != nil {
		logger.Warn("archive holds no installable pack, removing it", "err", err)
		res.Ignored = true
		return s.cleanup(res, scratch, logger)
	}

	if err := s.installUnit(ctx, scratch, stem, d, logger); err != nil {
		return s.fail(res, err, logger)
	}
	res.State = StateInstalled

	pack := ledger.Pack{Name: displayName(d, stem), Folder: stem, ID: d.ID, Kind: d.Kind}
	s.ledger.AddPack(pack)
	res.Pack = &pack
	res.State = StateRegistered
	s.persist()

	return s.cleanup(res, scratch, logger)
}

func (s *Service) extract(src, dest string, logger *log.Logger) error {
	res, err := archive.Extract(archive.ExtractOptions{Source: src, DestDir: dest, Logger: logger})
	if err != nil {
		return fmt.Errorf("extract: %w", err)
	}
	logger.Debug("archive extracted", "files", res.Files, "skipped", len(res.Skipped))
	return nil
}

// expandNestedPacks unpacks pack archives found at the root of an extracted
// bundle into sibling directories, the way many .mcaddon files are built.
func (s *Service) expandNestedPacks(scratch string, logger *log.Logger) {
	entries, err := os.ReadDir(scratch)
	if err != nil {
		return
	}
	for _, e := range entries {
		if !e.Type().IsRegular() || !matchAny(s.layout.PackPatterns, e.Name()) {
			continue
		}
		nested := filepath.Join(scratch, e.Name())
		target := filepath.Join(scratch, fspath.Stem(e.Name()))
		if !usableStem(e.Name()) || fspath.IsDir(target) {
			logger.Warn("nested pack collides with an extracted folder, skipping", "nested", e.Name())
			continue
		}
		if _, err := archive.Extract(archive.ExtractOptions{Source: nested, DestDir: target, Logger: logger}); err != nil {
			logger.Warn("failed to expand nested pack", "nested", e.Name(), "err", err)
			fspath.RemoveTree(target) //nolint:errcheck // best-effort cleanup
			continue
		}
		os.Remove(nested) //nolint:errcheck // best-effort cleanup
		logger.Debug("expanded nested pack", "nested", e.Name())
	}
}

// classifyUnits reads the manifest of every immediate subdirectory of root,
// in name order. Unreadable or unclassifiable units are logged and skipped.
func (s *Service) classifyUnits(root string, logger *log.Logger) ([]unit, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("read extracted bundle: %w", err)
	}

	var units []unit
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		dir := filepath.Join(root, e.Name())
		if !manifest.Exists(dir) {
			continue
		}
		d, err := readInstallable(dir)
		if err != nil {
			logger.Warn("skipping pack", "folder", e.Name(), "err", err)
			continue
		}
		units = append(units, unit{dir: dir, folder: e.Name(), descriptor: d})
	}
	return units, nil
}

// installUnit copies a pack folder into its permanent directory and activates it.
func (s *Service) installUnit(ctx context.Context, src, folder string, d *manifest.Descriptor, logger *log.Logger) error {
	packsDir, err := s.layout.PacksDir(d.Kind)
	if err != nil {
		return err
	}
	files, err := archive.CopyTree(ctx, src, filepath.Join(packsDir, folder))
	if err != nil {
		return fmt.Errorf("install %s pack %q: %w", d.Kind, folder, err)
	}

	table, err := activation.TableFor(d.Kind)
	if err != nil {
		return err
	}
	s.registry.Activate(table, d.ID, d.Version)

	switch {
	case strings.TrimSpace(d.ID) == "":
		logger.Warn("pack manifest has no uuid, the server may ignore it", "folder", folder)
	case !d.HasValidID():
		logger.Warn("pack uuid is not a valid UUID, the server may ignore it", "pack_id", d.ID)
	}
	logger.Info("installed and activated pack",
		"kind", d.Kind, "name", displayName(d, folder), "folder", folder, "version", d.Version, "files", files)
	return nil
}

// cleanup removes scratch space and the source archive of a handled archive.
func (s *Service) cleanup(res ArchiveResult, scratch string, logger *log.Logger) ArchiveResult {
	s.discardScratch(scratch, logger)
	if err := os.Remove(res.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Error("failed to delete source archive", "err", err)
		res.Err = err
		return res
	}
	logger.Debug("source archive removed")
	res.State = StateCleaned
	return res
}

func (s *Service) fail(res ArchiveResult, err error, logger *log.Logger) ArchiveResult {
	res.State = StateFailed
	res.Err = err
	logger.Error("failed to install archive, leaving it in staging", "state", "failed", "err", err)
	return res
}

func (s *Service) discardOnFailure(res *ArchiveResult, scratch string, logger *log.Logger) {
	if res.State == StateFailed {
		s.discardScratch(scratch, logger)
	}
}

func (s *Service) discardScratch(scratch string, logger *log.Logger) {
	if err := fspath.RemoveTree(scratch); err != nil {
		logger.Warn("failed to remove scratch directory", "dir", scratch, "err", err)
	}
}

// readInstallable reads the manifest in dir and rejects packs that cannot be installed.
func readInstallable(dir string) (*manifest.Descriptor, error) {
	d, err := manifest.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	if err := d.Kind.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// displayName prefers the manifest name and falls back to the folder name.
func displayName(d *manifest.Descriptor, fallback string) string {
	if strings.TrimSpace(d.Name) == "" {
		return fallback
	}
	return d.Name
}
