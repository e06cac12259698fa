// SPDX-License-Identifier: MPL-2.0

package watch

import (
	"errors"
	"fmt"
	"syscall"
	"testing"
)

func TestIsFatalFsnotifyError(t *testing.T) {
	t.Parallel()

	for _, errno := range fatalErrnos {
		if !isFatalFsnotifyError(errno) {
			t.Errorf("%v should be fatal", errno)
		}
		if !isFatalFsnotifyError(fmt.Errorf("fsnotify: %w", errno)) {
			t.Errorf("wrapped %v should be fatal", errno)
		}
	}

	for _, err := range []error{
		syscall.EPERM,
		syscall.EACCES,
		errors.New("queue overflow"),
		nil,
	} {
		if isFatalFsnotifyError(err) {
			t.Errorf("%v should not be fatal", err)
		}
	}
}
