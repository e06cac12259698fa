// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"github.com/addonhelper/addonhelper/pkg/addons"

	"github.com/spf13/cobra"
)

func newInstallCommand(app *App, flags *rootFlagValues) *cobra.Command {
	return &cobra.Command{
		Use:     "install",
		Aliases: []string{"reload"},
		Short:   "Install every archive waiting in the staging directory",
		Long: `Install every archive waiting in the staging directory.

Bundles (.mcaddon) are installed first, then standalone packs (.mcpack).
Installed archives are deleted; archives that fail stay in place and the
reason is logged. Restart the server afterwards to load the new packs.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.runVerb(cmd.Context(), flags, addons.VerbReloadPacks, nil)
		},
	}
}
