// SPDX-License-Identifier: MPL-2.0

package addons

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/addonhelper/addonhelper/pkg/activation"
	"github.com/addonhelper/addonhelper/pkg/fspath"
	"github.com/addonhelper/addonhelper/pkg/ledger"

	"github.com/charmbracelet/log"
)

type (
	// Options configures a Service.
	Options struct {
		// Logger receives progress and failure details. Nil discards them.
		Logger *log.Logger
		// OnRestartRequired runs after an install run that found at least one
		// archive. It is called without the service lock held.
		OnRestartRequired func(ctx context.Context, report InstallReport)
	}

	// Service installs and removes packs for a single server layout.
	// All public methods are safe for concurrent use; they are serialized.
	Service struct {
		mu sync.Mutex

		layout    Layout
		store     *ledger.Store
		ledger    *ledger.Ledger
		registry  *activation.Registry
		logger    *log.Logger
		onRestart func(ctx context.Context, report InstallReport)
	}
)

// New prepares the staging directory and loads the ledger. A corrupt ledger
// is logged and replaced by an empty one.
func New(layout Layout, opts Options) (*Service, error) {
	if err := layout.Validate(); err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	if err := os.MkdirAll(layout.StagingDir, fspath.DirPerm); err != nil {
		return nil, fmt.Errorf("failed to create staging directory: %w", err)
	}

	store := ledger.NewStore(layout.LedgerPath)
	l, err := store.Load()
	if err != nil {
		logger.Error("failed to load ledger, starting empty", "path", store.Path(), "err", err)
	}

	return &Service{
		layout:    layout,
		store:     store,
		ledger:    l,
		registry:  activation.New(layout.WorldDir(), logger),
		logger:    logger,
		onRestart: opts.OnRestartRequired,
	}, nil
}

// Layout returns the directories the service operates on.
func (s *Service) Layout() Layout { return s.layout }

// Registry returns the activation registry of the configured world.
func (s *Service) Registry() *activation.Registry { return s.registry }

// Bundles returns a snapshot of the installed bundles in operator order.
func (s *Service) Bundles() []ledger.Bundle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ledger.Bundle{}, s.ledger.Bundles...)
}

// Packs returns a snapshot of the installed standalone packs in operator order.
func (s *Service) Packs() []ledger.Pack {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ledger.Pack{}, s.ledger.Packs...)
}

// persist writes the ledger. Failures are logged; the in-memory ledger stays authoritative.
func (s *Service) persist() {
	if err := s.store.Save(s.ledger); err != nil {
		s.logger.Error("failed to save ledger", "path", s.store.Path(), "err", err)
	}
}
