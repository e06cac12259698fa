// SPDX-License-Identifier: MPL-2.0

package addons

import (
	"context"
	"errors"
	"fmt"
)

// Operator verbs understood by Commands.Handle.
const (
	VerbAddonList   = "addonlist"
	VerbPackList    = "packlist"
	VerbDeleteAddon = "deleaddon"
	VerbDeletePack  = "delepack"
	VerbReloadPacks = "reloadpacks"
)

// Operator mistakes reported by Handle. Hosts may match on them to tell
// usage errors from failed operations.
const (
	MsgNotANumber   = "Enter a valid numeric index"
	MsgInvalidIndex = "Invalid index"
)

// Message levels, used by hosts to pick a color or prefix.
const (
	LevelInfo Level = iota
	LevelItem
	LevelSuccess
	LevelWarn
	LevelError
)

type (
	// Level classifies a user-facing message.
	Level int

	// Message is one line of user-facing output.
	Message struct {
		Level Level
		Text  string
	}

	// Sink receives user-facing output of a command.
	Sink interface {
		Send(Message)
	}

	// SinkFunc adapts a function to the Sink interface.
	SinkFunc func(Message)

	// Commands adapts a Service to a verb-and-arguments command surface.
	Commands struct {
		svc *Service
	}
)

// Send calls f(m).
func (f SinkFunc) Send(m Message) { f(m) }

// NewCommands returns a command adapter for svc.
func NewCommands(svc *Service) *Commands {
	return &Commands{svc: svc}
}

// Verbs lists the verbs Handle understands.
func Verbs() []string {
	return []string{VerbAddonList, VerbPackList, VerbDeleteAddon, VerbDeletePack, VerbReloadPacks}
}

// Handle runs verb with args, writing terse status lines to sink. It returns
// false only for verbs it does not know; operator mistakes and failures are
// reported through the sink.
func (c *Commands) Handle(ctx context.Context, verb string, args []string, sink Sink) bool {
	switch verb {
	case VerbAddonList:
		c.listBundles(sink)
	case VerbPackList:
		c.listPacks(sink)
	case VerbDeleteAddon:
		c.removeBundle(args, sink)
	case VerbDeletePack:
		c.removePack(args, sink)
	case VerbReloadPacks:
		c.reload(ctx, sink)
	default:
		return false
	}
	return true
}

func (c *Commands) listBundles(sink Sink) {
	bundles := c.svc.Bundles()
	if len(bundles) == 0 {
		sink.Send(Message{LevelWarn, "No addons are installed"})
		return
	}
	sink.Send(Message{LevelSuccess, "Installed addons:"})
	for i, b := range bundles {
		sink.Send(Message{LevelItem, fmt.Sprintf("%d. %s", i+1, b.Name)})
	}
}

func (c *Commands) listPacks(sink Sink) {
	packs := c.svc.Packs()
	if len(packs) == 0 {
		sink.Send(Message{LevelWarn, "No packs are installed"})
		return
	}
	sink.Send(Message{LevelSuccess, "Installed packs:"})
	for i, p := range packs {
		sink.Send(Message{LevelItem, fmt.Sprintf("%d. %s", i+1, p.Name)})
	}
}

func (c *Commands) removeBundle(args []string, sink Sink) {
	index, ok := indexArg(args, "addon", sink)
	if !ok {
		return
	}
	b, err := c.svc.RemoveBundle(index)
	if err != nil {
		reportRemoval(err, "addon", sink)
		return
	}
	sink.Send(Message{LevelSuccess, "Removed addon: " + b.Name})
}

func (c *Commands) removePack(args []string, sink Sink) {
	index, ok := indexArg(args, "pack", sink)
	if !ok {
		return
	}
	p, err := c.svc.RemovePack(index)
	if err != nil {
		reportRemoval(err, "pack", sink)
		return
	}
	sink.Send(Message{LevelSuccess, "Removed pack: " + p.Name})
}

func (c *Commands) reload(ctx context.Context, sink Sink) {
	sink.Send(Message{LevelInfo, "Reloading staged packs..."})
	report := c.svc.InstallPending(ctx)

	if report.Found() == 0 {
		sink.Send(Message{LevelInfo, "No staged archives found"})
		return
	}
	if failed := report.Failed(); len(failed) > 0 {
		sink.Send(Message{LevelError, fmt.Sprintf("%d of %d archives failed to install, check the log", len(failed), report.Found())})
	}
	sink.Send(Message{LevelSuccess, "Reload finished. Restart the server to apply the changes"})
}

func indexArg(args []string, what string, sink Sink) (int, bool) {
	if len(args) == 0 {
		sink.Send(Message{LevelError, fmt.Sprintf("Specify the number of the %s to remove", what)})
		return 0, false
	}
	index, err := ParseIndex(args[0])
	if err != nil {
		sink.Send(Message{LevelError, MsgNotANumber})
		return 0, false
	}
	return index, true
}

func reportRemoval(err error, what string, sink Sink) {
	if errors.Is(err, ErrInvalidIndex) {
		sink.Send(Message{LevelError, MsgInvalidIndex})
		return
	}
	sink.Send(Message{LevelError, fmt.Sprintf("Failed to remove %s, check the log", what)})
}
