// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"github.com/addonhelper/addonhelper/pkg/addons"

	"github.com/spf13/cobra"
)

func newPackCommand(app *App, flags *rootFlagValues) *cobra.Command {
	packCmd := &cobra.Command{
		Use:   "pack",
		Short: "Manage installed standalone packs (.mcpack)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	packCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List installed standalone packs with their numbers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.runVerb(cmd.Context(), flags, addons.VerbPackList, nil)
		},
	})

	packCmd.AddCommand(&cobra.Command{
		Use:     "remove <number>",
		Short:   "Remove a standalone pack by its number",
		Aliases: []string{"rm"},
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.runVerb(cmd.Context(), flags, addons.VerbDeletePack, args)
		},
	})

	return packCmd
}
