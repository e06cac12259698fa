// SPDX-License-Identifier: MPL-2.0

//go:build windows

package watch

import "syscall"

// Win32 codes from ReadDirectoryChangesW that leave the directory handle unusable.
var fatalErrnos = []syscall.Errno{
	syscall.Errno(4), // ERROR_TOO_MANY_OPEN_FILES
	syscall.Errno(6), // ERROR_INVALID_HANDLE: staging directory deleted or unmounted
	syscall.Errno(8), // ERROR_NOT_ENOUGH_MEMORY
}
