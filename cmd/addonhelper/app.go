// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/addonhelper/addonhelper/internal/config"
	"github.com/addonhelper/addonhelper/internal/hook"
	"github.com/addonhelper/addonhelper/internal/issue"
	"github.com/addonhelper/addonhelper/pkg/addons"
	"github.com/addonhelper/addonhelper/pkg/fspath"
	"github.com/addonhelper/addonhelper/pkg/types"

	"github.com/charmbracelet/log"
)

type (
	// App wires CLI services and shared dependencies. It is the composition root
	// for the CLI layer; every Cobra handler receives an App reference.
	App struct {
		Config config.Provider
		stdout io.Writer
		stderr io.Writer
	}

	// Dependencies defines the injection points for building an App. Nil fields
	// are replaced with production defaults by NewApp.
	Dependencies struct {
		Config config.Provider
		Stdout io.Writer
		Stderr io.Writer
	}

	// rootFlagValues holds the persistent flags shared by every command.
	rootFlagValues struct {
		configPath string
		verbose    bool
		serverDir  string
		world      string
	}

	// session is everything one command invocation needs to talk to the server.
	session struct {
		cfg      *config.Config
		layout   addons.Layout
		logger   *log.Logger
		service  *addons.Service
		commands *addons.Commands
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) *App {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	return &App{Config: deps.Config, stdout: deps.Stdout, stderr: deps.Stderr}
}

// loadConfig loads configuration and applies command-line overrides on top.
func (a *App) loadConfig(ctx context.Context, flags *rootFlagValues) (*config.Config, error) {
	cfg, err := a.Config.Load(ctx, config.LoadOptions{ConfigFilePath: flags.configPath})
	if err != nil {
		a.renderIssue(issue.ConfigLoadFailedId, config.ColorSchemeAuto)
		return nil, err
	}
	if flags.serverDir != "" {
		cfg.ServerDir = flags.serverDir
	}
	if flags.world != "" {
		cfg.WorldName = flags.world
	}
	if flags.verbose {
		cfg.UI.Verbose = true
	}
	// The error handler reads flags.verbose after RunE returns.
	flags.verbose = cfg.UI.Verbose
	return cfg, nil
}

func (a *App) newLogger(cfg *config.Config) *log.Logger {
	level := cfg.LogLevel.Level()
	if cfg.UI.Verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(a.stderr, log.Options{
		Prefix: config.AppName,
		Level:  level,
	})
}

// openSession loads configuration, resolves the server layout and opens the
// installer service, with the restart hook attached when one is configured.
func (a *App) openSession(ctx context.Context, flags *rootFlagValues) (*session, error) {
	cfg, err := a.loadConfig(ctx, flags)
	if err != nil {
		return nil, err
	}
	logger := a.newLogger(cfg)

	layout, err := cfg.Layout(logger)
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("resolve server layout").
			WithResource(cfg.ServerDir).
			WithSuggestion("Pass --server-dir or set server_dir in the configuration").
			Wrap(err).
			BuildError()
	}
	if !fspath.IsDir(layout.WorldDir()) {
		logger.Warn("world directory does not exist yet", "world", layout.WorldName, "dir", layout.WorldDir())
		if cfg.UI.Verbose {
			a.renderIssue(issue.WorldNotFoundId, cfg.UI.ColorScheme)
		}
	}

	opts := addons.Options{Logger: logger}
	if cfg.RestartHook != "" {
		h, err := hook.New(cfg.RestartHook, layout.ServerDir,
			hook.WithOutput(a.stdout, a.stderr),
			hook.WithLogger(logger))
		if err != nil {
			return nil, issue.NewErrorContext().
				WithOperation("parse restart hook").
				WithSuggestion("Check the restart_hook value in the configuration").
				Wrap(err).
				BuildError()
		}
		opts.OnRestartRequired = h.OnRestartRequired(logger)
	}

	svc, err := addons.New(layout, opts)
	if err != nil {
		id := issue.StagingDirUnavailableId
		if errors.Is(err, fs.ErrPermission) {
			id = issue.PermissionDeniedId
		}
		a.renderIssue(id, cfg.UI.ColorScheme)
		return nil, issue.NewErrorContext().
			WithOperation("open staging directory").
			WithResource(layout.StagingDir).
			WithSuggestion("Check that the directory is writable by the server user").
			Wrap(err).
			BuildError()
	}

	return &session{
		cfg:      cfg,
		layout:   layout,
		logger:   logger,
		service:  svc,
		commands: addons.NewCommands(svc),
	}, nil
}

// runVerb opens a session and hands verb to addons.Commands.
func (a *App) runVerb(ctx context.Context, flags *rootFlagValues, verb string, args []string) error {
	sess, err := a.openSession(ctx, flags)
	if err != nil {
		return err
	}
	return a.handle(ctx, sess, verb, args)
}

func (a *App) handle(ctx context.Context, sess *session, verb string, args []string) error {
	sink := newTerminalSink(a.stdout)
	if !sess.commands.Handle(ctx, verb, args, sink) {
		return fmt.Errorf("unknown command %q", verb)
	}
	if !sink.failed {
		return nil
	}
	if sess.cfg.UI.Verbose {
		a.renderIssue(issueForFailure(verb, sink.lastErr), sess.cfg.UI.ColorScheme)
	}
	return &ExitError{Code: exitCodeForFailure(sink.lastErr)}
}

// renderIssue prints the markdown help page for id. Rendering problems are not
// worth failing the command over.
func (a *App) renderIssue(id issue.Id, scheme config.ColorScheme) {
	iss := issue.Get(id)
	if iss == nil {
		return
	}
	rendered, err := iss.Render(string(scheme))
	if err != nil {
		return
	}
	fmt.Fprint(a.stderr, rendered)
}

func issueForFailure(verb, msg string) issue.Id {
	switch verb {
	case addons.VerbReloadPacks:
		return issue.InstallFailedId
	case addons.VerbDeleteAddon, addons.VerbDeletePack:
		if isUsageMessage(msg) {
			return issue.InvalidIndexId
		}
		return issue.RemovalFailedId
	default:
		return issue.InstallFailedId
	}
}

func exitCodeForFailure(msg string) types.ExitCode {
	if isUsageMessage(msg) {
		return types.ExitUsage
	}
	return types.ExitFailure
}

func isUsageMessage(msg string) bool {
	return msg == addons.MsgInvalidIndex ||
		msg == addons.MsgNotANumber ||
		strings.HasPrefix(msg, "Specify the number of the ")
}
