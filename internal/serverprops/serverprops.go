// SPDX-License-Identifier: MPL-2.0

// Package serverprops reads the Bedrock dedicated server's server.properties file.
package serverprops

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/magiconair/properties"
)

const (
	// FileName is the server configuration file at the root of the server directory.
	FileName = "server.properties"

	levelNameKey     = "level-name"
	defaultLevelName = "Bedrock level"
)

// Load parses server.properties in serverDir.
func Load(serverDir string) (*properties.Properties, error) {
	return properties.LoadFile(filepath.Join(serverDir, FileName), properties.UTF8)
}

// WorldName returns the level-name the server loads, or "Bedrock level" when the
// file is missing, unreadable or leaves the key empty. Unreadable files are logged.
func WorldName(serverDir string, logger *log.Logger) string {
	props, err := Load(serverDir)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) && logger != nil {
			logger.Warn("cannot read server properties, using the default world",
				"path", filepath.Join(serverDir, FileName), "err", err)
		}
		return defaultLevelName
	}
	if name := strings.TrimSpace(props.GetString(levelNameKey, "")); name != "" {
		return name
	}
	return defaultLevelName
}
