// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/addonhelper/addonhelper/internal/config"

	"github.com/spf13/cobra"
)

// newConfigCommand creates the `addonhelper config` command tree.
func newConfigCommand(app *App, flags *rootFlagValues) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and create the addonhelper configuration",
		Long: `Inspect and create the addonhelper configuration.

Configuration is read from, in order: the --config flag,
<config dir>/addonhelper/config.cue, then ./addonhelper.cue.
Environment variables prefixed with ADDONHELPER_ override file values.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	configCmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Show the effective configuration and server layout",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return app.showConfig(cmd, flags)
			},
		},
		&cobra.Command{
			Use:   "path",
			Short: "Print the configuration file path",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				path, err := app.Config.Resolve(config.LoadOptions{ConfigFilePath: flags.configPath})
				if err != nil {
					return err
				}
				if path == "" {
					dir, err := config.ConfigDir()
					if err != nil {
						return err
					}
					fmt.Fprintln(app.stdout, WarningStyle.Render("No configuration file, defaults apply. Create one with 'addonhelper config init' at:"))
					path = filepath.Join(dir, config.ConfigFileName)
				}
				fmt.Fprintln(app.stdout, path)
				return nil
			},
		},
		&cobra.Command{
			Use:   "init",
			Short: "Write a default configuration file",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				dir, err := config.ConfigDir()
				if err != nil {
					return err
				}
				path, created, err := config.CreateDefaultConfig(dir)
				if err != nil {
					return err
				}
				if !created {
					fmt.Fprintln(app.stdout, WarningStyle.Render("Configuration already exists: ")+path)
					return nil
				}
				fmt.Fprintln(app.stdout, SuccessStyle.Render("Created configuration: ")+path)
				return nil
			},
		},
		&cobra.Command{
			Use:   "dump",
			Short: "Print the effective configuration as CUE",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				cfg, err := app.loadConfig(cmd.Context(), flags)
				if err != nil {
					return err
				}
				fmt.Fprint(app.stdout, config.GenerateCUE(cfg))
				return nil
			},
		},
	)

	return configCmd
}

func (a *App) showConfig(cmd *cobra.Command, flags *rootFlagValues) error {
	cfg, err := a.loadConfig(cmd.Context(), flags)
	if err != nil {
		return err
	}
	path, err := a.Config.Resolve(config.LoadOptions{ConfigFilePath: flags.configPath})
	if err != nil {
		return err
	}
	if path == "" {
		path = "(defaults)"
	}

	layout, err := cfg.Layout(a.newLogger(cfg))
	if err != nil {
		return err
	}

	out := a.stdout
	fmt.Fprintln(out, TitleStyle.Render("Configuration"))
	fmt.Fprintf(out, "  %s %s\n", KeyStyle.Render("file:"), path)
	fmt.Fprintf(out, "  %s %s\n", KeyStyle.Render("log level:"), cfg.LogLevel)
	fmt.Fprintf(out, "  %s %s\n", KeyStyle.Render("color scheme:"), cfg.UI.ColorScheme)
	fmt.Fprintf(out, "  %s %v\n", KeyStyle.Render("verbose:"), cfg.UI.Verbose)
	fmt.Fprintf(out, "  %s %s\n", KeyStyle.Render("watch debounce:"), cfg.Watch.Debounce)
	fmt.Fprintf(out, "  %s %v\n", KeyStyle.Render("install on start:"), cfg.Watch.InstallOnStart)
	if cfg.RestartHook != "" {
		fmt.Fprintf(out, "  %s %s\n", KeyStyle.Render("restart hook:"), cfg.RestartHook)
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, TitleStyle.Render("Server layout"))
	for _, row := range []struct{ key, value string }{
		{"server:", layout.ServerDir},
		{"staging:", layout.StagingDir},
		{"ledger:", layout.LedgerPath},
		{"behavior packs:", layout.BehaviorPacksDir},
		{"resource packs:", layout.ResourcePacksDir},
		{"world:", layout.WorldDir()},
	} {
		fmt.Fprintf(out, "  %s %s\n", KeyStyle.Render(row.key), row.value)
	}
	fmt.Fprintf(out, "  %s %v\n", KeyStyle.Render("bundle patterns:"), layout.BundlePatterns)
	fmt.Fprintf(out, "  %s %v\n", KeyStyle.Render("pack patterns:"), layout.PackPatterns)
	return nil
}
