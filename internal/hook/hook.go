// SPDX-License-Identifier: MPL-2.0

// Package hook runs the operator's restart hook after an install pass that changed
// server content. Scripts are POSIX shell executed in-process by mvdan.cc/sh, so the
// hook behaves the same on every platform the server runs on.
package hook

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/addonhelper/addonhelper/pkg/addons"

	"github.com/charmbracelet/log"
	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

const (
	// EnvInstalled holds the number of archives the triggering pass installed.
	EnvInstalled = "ADDONHELPER_INSTALLED"
	// EnvServerDir holds the server directory, which is also the working directory.
	EnvServerDir = "ADDONHELPER_SERVER_DIR"
)

// ErrEmptyScript is returned by New for a blank script.
var ErrEmptyScript = errors.New("restart hook script is empty")

type (
	// Hook is a parsed restart hook bound to a server directory.
	Hook struct {
		prog   *syntax.File
		dir    string
		stdout io.Writer
		stderr io.Writer
		logger *log.Logger
	}

	// ExitError reports a hook that ran to completion with a non-zero status.
	ExitError struct {
		Status uint8
	}

	// Option configures a Hook.
	Option func(*Hook)
)

func (e *ExitError) Error() string {
	return "restart hook exited with status " + strconv.Itoa(int(e.Status))
}

// WithOutput sends the script's standard output and error to the given writers.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(h *Hook) {
		h.stdout = stdout
		h.stderr = stderr
	}
}

// WithLogger logs every external command the script executes at debug level.
func WithLogger(logger *log.Logger) Option {
	return func(h *Hook) {
		h.logger = logger
	}
}

// New parses script so syntax errors surface at startup rather than after an install.
func New(script, serverDir string, opts ...Option) (*Hook, error) {
	if strings.TrimSpace(script) == "" {
		return nil, ErrEmptyScript
	}
	prog, err := syntax.NewParser().Parse(strings.NewReader(script), "restart_hook")
	if err != nil {
		return nil, fmt.Errorf("restart hook syntax error: %w", err)
	}

	h := &Hook{prog: prog, dir: serverDir, stdout: io.Discard, stderr: io.Discard}
	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

// Run executes the hook with the install count exported as ADDONHELPER_INSTALLED.
func (h *Hook) Run(ctx context.Context, installed int) error {
	env := append(os.Environ(),
		EnvInstalled+"="+strconv.Itoa(installed),
		EnvServerDir+"="+h.dir,
	)

	runner, err := interp.New(
		interp.Dir(h.dir),
		interp.Env(expand.ListEnviron(env...)),
		interp.StdIO(nil, h.stdout, h.stderr),
		interp.ExecHandlers(h.execHandler),
	)
	if err != nil {
		return fmt.Errorf("failed to create interpreter: %w", err)
	}

	if err := runner.Run(ctx, h.prog); err != nil {
		var status interp.ExitStatus
		if errors.As(err, &status) {
			return &ExitError{Status: uint8(status)}
		}
		return fmt.Errorf("restart hook failed: %w", err)
	}
	return nil
}

// OnRestartRequired adapts the hook to addons.Options. Failures are logged and
// never reach the install pass.
func (h *Hook) OnRestartRequired(logger *log.Logger) func(context.Context, addons.InstallReport) {
	return func(ctx context.Context, report addons.InstallReport) {
		installed := report.Installed()
		logger.Info("running restart hook", "installed", installed)
		if err := h.Run(ctx, installed); err != nil {
			logger.Error("restart hook failed", "err", err)
		}
	}
}

func (h *Hook) execHandler(next interp.ExecHandlerFunc) interp.ExecHandlerFunc {
	return func(ctx context.Context, args []string) error {
		if h.logger != nil {
			h.logger.Debug("restart hook exec", "args", args)
		}
		return next(ctx, args)
	}
}
