// SPDX-License-Identifier: MPL-2.0

//go:build !windows

package watch

import "syscall"

// inotify watch limit (ENOSPC, fs.inotify.max_user_watches) and descriptor
// exhaustion per process (EMFILE) or system-wide (ENFILE).
var fatalErrnos = []syscall.Errno{
	syscall.ENOSPC,
	syscall.EMFILE,
	syscall.ENFILE,
}
