// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"strings"
	"testing"
)

func TestId_Constants(t *testing.T) {
	t.Parallel()

	ids := []Id{
		ConfigLoadFailedId,
		StagingDirUnavailableId,
		InvalidIndexId,
		InstallFailedId,
		RemovalFailedId,
		WorldNotFoundId,
		PermissionDeniedId,
		WatchFailedId,
	}

	seen := make(map[Id]bool)
	for _, id := range ids {
		if seen[id] {
			t.Errorf("duplicate ID: %d", id)
		}
		seen[id] = true

		if Get(id) == nil {
			t.Errorf("Get(%d) returned nil", id)
		}
	}

	if ConfigLoadFailedId != 1 {
		t.Errorf("ConfigLoadFailedId = %d, want 1", ConfigLoadFailedId)
	}
	if got := len(Values()); got != len(ids) {
		t.Errorf("len(Values()) = %d, want %d", got, len(ids))
	}
}

func TestGet_Unknown(t *testing.T) {
	t.Parallel()

	if got := Get(Id(0)); got != nil {
		t.Errorf("Get(0) = %v, want nil", got)
	}
	if got := Get(Id(999)); got != nil {
		t.Errorf("Get(999) = %v, want nil", got)
	}
}

func TestIssue_Content(t *testing.T) {
	t.Parallel()

	for _, iss := range Values() {
		msg := strings.TrimSpace(string(iss.MarkdownMsg()))
		if msg == "" {
			t.Errorf("issue %d has an empty message", iss.Id())
			continue
		}
		if !strings.HasPrefix(msg, "# ") {
			t.Errorf("issue %d message should start with a heading, got %q", iss.Id(), msg[:min(len(msg), 20)])
		}
	}
}

func TestIssue_LinksAreCopies(t *testing.T) {
	t.Parallel()

	iss := Get(WatchFailedId)
	links := iss.ExtLinks()
	if len(links) == 0 {
		t.Fatal("WatchFailed issue should carry an external link")
	}
	links[0] = "mutated"
	if iss.ExtLinks()[0] == "mutated" {
		t.Error("ExtLinks() must return a copy")
	}
}

// Not parallel: swaps the package-level renderer.
func TestIssue_Render(t *testing.T) {
	orig := render
	t.Cleanup(func() { render = orig })

	var gotMarkdown, gotStyle string
	render = func(in, stylePath string) (string, error) {
		gotMarkdown, gotStyle = in, stylePath
		return "rendered", nil
	}

	out, err := Get(WatchFailedId).Render("notty")
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if out != "rendered" {
		t.Errorf("Render() = %q, want %q", out, "rendered")
	}
	if gotStyle != "notty" {
		t.Errorf("style = %q, want notty", gotStyle)
	}
	if !strings.Contains(gotMarkdown, "## See also") || !strings.Contains(gotMarkdown, "fsnotify") {
		t.Errorf("rendered markdown lacks the link section:\n%s", gotMarkdown)
	}

	gotMarkdown = ""
	if _, err = Get(InvalidIndexId).Render("dark"); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if strings.Contains(gotMarkdown, "## See also") {
		t.Error("issue without links should not render a link section")
	}

	render = func(string, string) (string, error) { return "", errors.New("boom") }
	if _, err = Get(InvalidIndexId).Render("dark"); err == nil {
		t.Error("Render() should propagate renderer errors")
	}
}
