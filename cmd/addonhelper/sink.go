// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"

	"github.com/addonhelper/addonhelper/pkg/addons"
)

// terminalSink prints addons messages with the CLI palette and remembers the
// last error so the command can choose an exit code.
type terminalSink struct {
	w       io.Writer
	lastErr string
	failed  bool
}

func newTerminalSink(w io.Writer) *terminalSink {
	return &terminalSink{w: w}
}

func (s *terminalSink) Send(m addons.Message) {
	var line string
	switch m.Level {
	case addons.LevelItem:
		line = itemStyle.Render(m.Text)
	case addons.LevelSuccess:
		line = SuccessStyle.Render(m.Text)
	case addons.LevelWarn:
		line = WarningStyle.Render(m.Text)
	case addons.LevelError:
		s.failed = true
		s.lastErr = m.Text
		line = ErrorStyle.Render(m.Text)
	default:
		line = m.Text
	}
	fmt.Fprintln(s.w, line)
}
