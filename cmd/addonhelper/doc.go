// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the addonhelper command-line interface.
//
// Every operator command is a thin wrapper around addons.Commands, so the
// terminal sees the same verbs and messages as any other host of the installer.
package cmd
