// SPDX-License-Identifier: MPL-2.0

// Package config loads addonhelper settings using Viper with CUE as the file format.
//
// The file is looked up at the --config path, then <config-dir>/config.cue
// (XDG_CONFIG_HOME on Linux, ~/Library/Application Support on macOS, %APPDATA% on
// Windows), then ./addonhelper.cue. Every key can be overridden with an
// ADDONHELPER_ environment variable. Files are validated against the embedded
// config_schema.cue before they reach Viper.
package config
