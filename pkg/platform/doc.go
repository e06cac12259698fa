// SPDX-License-Identifier: MPL-2.0

// Package platform holds the little OS-specific knowledge addonhelper needs:
// GOOS names for picking the configuration directory, and the device names
// Windows refuses as file names. Archive entries are checked against the
// latter so a pack installed on Linux can still be copied to a Windows host.
package platform
