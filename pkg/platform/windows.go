// SPDX-License-Identifier: MPL-2.0

package platform

import (
	"path"
	"strings"
)

// runtime.GOOS values that change where configuration lives.
const (
	Windows = "windows"
	Darwin  = "darwin"
)

// reservedNames are device names Windows refuses as file names, with or without extension.
var reservedNames = map[string]bool{
	"CON": true, "PRN": true, "AUX": true, "NUL": true,
	"COM1": true, "COM2": true, "COM3": true, "COM4": true,
	"COM5": true, "COM6": true, "COM7": true, "COM8": true, "COM9": true,
	"LPT1": true, "LPT2": true, "LPT3": true, "LPT4": true,
	"LPT5": true, "LPT6": true, "LPT7": true, "LPT8": true, "LPT9": true,
}

// IsWindowsReservedName reports whether name, ignoring case and a trailing
// extension, is a Windows device name such as "con" or "LPT1.txt".
func IsWindowsReservedName(name string) bool {
	upper := strings.ToUpper(name)
	if idx := strings.LastIndex(upper, "."); idx != -1 {
		upper = upper[:idx]
	}
	return reservedNames[upper]
}

// HasWindowsReservedComponent reports whether any element of the
// slash-separated archive path is a Windows reserved name.
func HasWindowsReservedComponent(slashPath string) bool {
	for _, part := range strings.Split(path.Clean(slashPath), "/") {
		if IsWindowsReservedName(part) {
			return true
		}
	}
	return false
}
