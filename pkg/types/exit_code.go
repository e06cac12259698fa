// SPDX-License-Identifier: MPL-2.0

package types

import "strconv"

// Process exit codes returned by the addonhelper binary. Scripts that drive
// installs from cron rely on usage mistakes being distinguishable from
// failed installs.
const (
	// ExitSuccess means every requested operation completed.
	ExitSuccess ExitCode = 0
	// ExitFailure means an install or removal reported an error.
	ExitFailure ExitCode = 1
	// ExitUsage means the command line was wrong, for example a bad index.
	ExitUsage ExitCode = 2
)

// ExitCode is a process exit status.
type ExitCode int

// IsSuccess reports whether c is ExitSuccess.
func (c ExitCode) IsSuccess() bool { return c == ExitSuccess }

// String names the well-known codes and prints any other value as a number.
func (c ExitCode) String() string {
	switch c {
	case ExitSuccess:
		return "success"
	case ExitFailure:
		return "failure"
	case ExitUsage:
		return "usage"
	default:
		return strconv.Itoa(int(c))
	}
}
