// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/addonhelper/addonhelper/internal/issue"
	"github.com/addonhelper/addonhelper/pkg/addons"
	"github.com/addonhelper/addonhelper/pkg/types"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// newRootCommand builds the command tree around app.
func newRootCommand(app *App, flags *rootFlagValues) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "addonhelper",
		Short: "Install behavior and resource packs on a Bedrock dedicated server",
		Long: TitleStyle.Render("addonhelper") + SubtitleStyle.Render(" - add-on installer for Bedrock dedicated servers") + `

Drop .mcaddon and .mcpack archives into the staging directory
(plugins/addonshelper by default) and run 'addonhelper install'.
Packs are copied into behavior_packs/ and resource_packs/ and
activated for the configured world.

` + SubtitleStyle.Render("Examples:") + `
  addonhelper install           Install every staged archive
  addonhelper addon list        List installed add-ons
  addonhelper pack remove 2     Remove the second standalone pack
  addonhelper watch             Install automatically when archives arrive`,
		SilenceUsage: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "config file (default is <config dir>/addonhelper/config.cue)")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "enable verbose output")
	pf.StringVar(&flags.serverDir, "server-dir", "", "Bedrock server directory (default is the working directory)")
	pf.StringVar(&flags.world, "world", "", "world to activate packs in (default is level-name from server.properties)")

	rootCmd.AddCommand(
		newInstallCommand(app, flags),
		newAddonCommand(app, flags),
		newPackCommand(app, flags),
		newWatchCommand(app, flags),
		newConfigCommand(app, flags),
	)
	for _, verb := range addons.Verbs() {
		rootCmd.AddCommand(newVerbCommand(app, flags, verb))
	}

	return rootCmd
}

// newVerbCommand exposes a raw operator verb (addonlist, delepack, ...) for
// scripts written against the in-game command names.
func newVerbCommand(app *App, flags *rootFlagValues, verb string) *cobra.Command {
	return &cobra.Command{
		Use:    verb + " [args]",
		Short:  "Run the " + verb + " operator command",
		Hidden: true,
		Args:   cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.runVerb(cmd.Context(), flags, verb, args)
		},
	}
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Main runs the CLI with the process arguments and returns the exit code.
func Main() int {
	app := NewApp(Dependencies{})
	flags := &rootFlagValues{}

	err := fang.Execute(
		context.Background(),
		newRootCommand(app, flags),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(errorHandler(flags)),
	)
	if err == nil {
		return int(types.ExitSuccess)
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return int(exitErr.Code)
	}
	return int(types.ExitFailure)
}

// Execute is called by main.main.
func Execute() {
	os.Exit(Main())
}

// errorHandler prints actionable errors with their suggestions and stays quiet
// for failures the operator already saw through the message sink.
func errorHandler(flags *rootFlagValues) func(io.Writer, fang.Styles, error) {
	return func(w io.Writer, styles fang.Styles, err error) {
		var exitErr *ExitError
		if errors.As(err, &exitErr) && exitErr.Err == nil {
			return
		}
		var ae *issue.ActionableError
		if errors.As(err, &ae) {
			fmt.Fprintln(w, ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, flags.verbose))
			return
		}
		fang.DefaultErrorHandler(w, styles, err)
	}
}

// formatErrorForDisplay formats an error for user display.
// ActionableErrors include their suggestions, and the full chain in verbose mode.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
