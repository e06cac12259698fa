// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"github.com/addonhelper/addonhelper/pkg/addons"

	"github.com/spf13/cobra"
)

// newAddonCommand creates the `addonhelper addon` command tree for installed bundles.
func newAddonCommand(app *App, flags *rootFlagValues) *cobra.Command {
	addonCmd := &cobra.Command{
		Use:   "addon",
		Short: "Manage installed add-ons (.mcaddon bundles)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	addonCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List installed add-ons with their numbers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.runVerb(cmd.Context(), flags, addons.VerbAddonList, nil)
		},
	})

	addonCmd.AddCommand(&cobra.Command{
		Use:   "remove <number>",
		Short: "Remove an add-on and both of its packs",
		Long: `Remove an add-on by the number shown in 'addonhelper addon list'.

The behavior and resource pack folders are deleted, the packs are
deactivated in the world and the add-on is removed from the list.`,
		Aliases: []string{"rm"},
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.runVerb(cmd.Context(), flags, addons.VerbDeleteAddon, args)
		},
	})

	return addonCmd
}
