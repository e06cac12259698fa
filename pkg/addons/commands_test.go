// SPDX-License-Identifier: MPL-2.0

package addons

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/addonhelper/addonhelper/internal/testutil"

	"github.com/google/go-cmp/cmp"
)

type recorder struct {
	msgs []Message
}

func (r *recorder) Send(m Message) { r.msgs = append(r.msgs, m) }

func (r *recorder) texts() []string {
	out := make([]string, 0, len(r.msgs))
	for _, m := range r.msgs {
		out = append(out, m.Text)
	}
	return out
}

func TestCommands_Lifecycle(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, Options{})
	cmds := NewCommands(svc)
	ctx := context.Background()

	run := func(verb string, args ...string) []string {
		t.Helper()
		rec := &recorder{}
		if !cmds.Handle(ctx, verb, args, rec) {
			t.Fatalf("Handle(%q) = false", verb)
		}
		return rec.texts()
	}

	if diff := cmp.Diff([]string{"No addons are installed"}, run(VerbAddonList)); diff != "" {
		t.Errorf("addonlist (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Reloading staged packs...", "No staged archives found"}, run(VerbReloadPacks)); diff != "" {
		t.Errorf("empty reload (-want +got):\n%s", diff)
	}

	stageBar(t, svc)
	stageFoo(t, svc)
	want := []string{"Reloading staged packs...", "Reload finished. Restart the server to apply the changes"}
	if diff := cmp.Diff(want, run(VerbReloadPacks)); diff != "" {
		t.Errorf("reload (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff([]string{"Installed addons:", "1. Bar"}, run(VerbAddonList)); diff != "" {
		t.Errorf("addonlist (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Installed packs:", "1. Foo"}, run(VerbPackList)); diff != "" {
		t.Errorf("packlist (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff([]string{"Invalid index"}, run(VerbDeleteAddon, "5")); diff != "" {
		t.Errorf("deleaddon 5 (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Enter a valid numeric index"}, run(VerbDeletePack, "one")); diff != "" {
		t.Errorf("delepack one (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Specify the number of the pack to remove"}, run(VerbDeletePack)); diff != "" {
		t.Errorf("delepack (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff([]string{"Removed addon: Bar"}, run(VerbDeleteAddon, "1")); diff != "" {
		t.Errorf("deleaddon 1 (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Removed pack: Foo"}, run(VerbDeletePack, "1")); diff != "" {
		t.Errorf("delepack 1 (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"No packs are installed"}, run(VerbPackList)); diff != "" {
		t.Errorf("packlist (-want +got):\n%s", diff)
	}
}

func TestCommands_ReloadReportsFailures(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, Options{})
	stage(t, svc, "Good.mcpack", map[string]string{
		"manifest.json": `{"header":{"name":"Good","uuid":"` + fooID + `"},"modules":[{"type":"data"}]}`,
	})
	testutil.MustWriteFile(t, filepath.Join(svc.Layout().StagingDir, "Bad.mcaddon"), "garbage")

	rec := &recorder{}
	NewCommands(svc).Handle(context.Background(), VerbReloadPacks, nil, rec)

	levels := make([]Level, 0, len(rec.msgs))
	for _, m := range rec.msgs {
		levels = append(levels, m.Level)
	}
	if diff := cmp.Diff([]Level{LevelInfo, LevelError, LevelSuccess}, levels); diff != "" {
		t.Errorf("levels (-want +got):\n%s\nmessages: %v", diff, rec.texts())
	}
	if rec.msgs[1].Text != "1 of 2 archives failed to install, check the log" {
		t.Errorf("failure line = %q", rec.msgs[1].Text)
	}
}

func TestCommands_UnknownVerb(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	if NewCommands(newTestService(t, Options{})).Handle(context.Background(), "explode", nil, rec) {
		t.Error("Handle() = true for unknown verb")
	}
	if len(rec.msgs) != 0 {
		t.Errorf("unexpected output: %v", rec.texts())
	}
}

func TestSinkFunc(t *testing.T) {
	t.Parallel()

	var got Message
	SinkFunc(func(m Message) { got = m }).Send(Message{LevelWarn, "hi"})
	if got.Text != "hi" || got.Level != LevelWarn {
		t.Errorf("got %+v", got)
	}
}
