// SPDX-License-Identifier: MPL-2.0

package cmd

import "github.com/addonhelper/addonhelper/pkg/types"

// ExitError carries a process exit code out of a RunE handler so Main can
// return it instead of calling os.Exit mid-command.
//
// Err is nil when the failure was already printed through the message sink;
// the error handler then prints nothing more.
type ExitError struct {
	Code types.ExitCode
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return "exit status " + e.Code.String()
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error { return e.Err }
