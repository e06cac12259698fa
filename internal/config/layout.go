// SPDX-License-Identifier: MPL-2.0

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/addonhelper/addonhelper/internal/serverprops"
	"github.com/addonhelper/addonhelper/pkg/addons"

	"github.com/charmbracelet/log"
)

// Layout builds the server layout described by cfg. An empty server_dir means the
// working directory, relative directories are resolved against the server directory,
// and an empty world_name is read from server.properties.
func (c *Config) Layout(logger *log.Logger) (addons.Layout, error) {
	serverDir := c.ServerDir
	if serverDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return addons.Layout{}, fmt.Errorf("failed to resolve server directory: %w", err)
		}
		serverDir = wd
	}
	serverDir, err := filepath.Abs(serverDir)
	if err != nil {
		return addons.Layout{}, fmt.Errorf("failed to resolve server directory: %w", err)
	}

	worldName := c.WorldName
	if worldName == "" {
		worldName = serverprops.WorldName(serverDir, logger)
	}

	layout := addons.DefaultLayout(serverDir, worldName)
	if c.StagingDir != "" {
		layout = layout.WithStagingDir(under(serverDir, c.StagingDir))
	}
	if c.BehaviorPacksDir != "" {
		layout.BehaviorPacksDir = under(serverDir, c.BehaviorPacksDir)
	}
	if c.ResourcePacksDir != "" {
		layout.ResourcePacksDir = under(serverDir, c.ResourcePacksDir)
	}
	if c.WorldsDir != "" {
		layout.WorldsDir = under(serverDir, c.WorldsDir)
	}
	if c.BundlePatterns != nil {
		layout.BundlePatterns = c.BundlePatterns
	}
	if c.PackPatterns != nil {
		layout.PackPatterns = c.PackPatterns
	}

	if err := layout.Validate(); err != nil {
		return addons.Layout{}, err
	}
	return layout, nil
}

func under(base, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(base, p)
}
