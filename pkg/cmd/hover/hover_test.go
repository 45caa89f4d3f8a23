package hover

import (
	"bytes"
	"testing"

	"github.com/Paintersrp/hoverlink/internal/fzf"
	tuihover "github.com/Paintersrp/hoverlink/internal/tui/hover"
	"github.com/Paintersrp/hoverlink/pkg/cmd/cmdtest"
)

func TestHoverOpensNamedNote(t *testing.T) {
	var got tuihover.Options
	called := false
	orig := runHover
	runHover = func(opts tuihover.Options) error {
		got, called = opts, true
		return nil
	}
	t.Cleanup(func() { runHover = orig })

	s := cmdtest.NewState(t, cmdtest.DefaultNotes)
	cmd := NewCmdHover(s)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"ml/Gradients.md"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("hover returned error: %v", err)
	}

	if !called {
		t.Fatalf("expected hover view to run")
	}
	if got.DocumentID != "ml/Gradients.md" || got.Content != cmdtest.DefaultNotes["ml/Gradients.md"] {
		t.Fatalf("unexpected options %+v", got)
	}
	if got.Watcher == nil || got.Watcher != s.Watcher {
		t.Fatalf("expected the state watcher to be passed to the view")
	}
	if got.Debouncer == nil || got.Debouncer.Delay != s.Config.HoverDelay() {
		t.Fatalf("expected debouncer using the configured delay")
	}
}

func TestHoverPicksNoteWithoutArgument(t *testing.T) {
	var got tuihover.Options
	origRun, origPick := runHover, pickNote
	runHover = func(opts tuihover.Options) error {
		got = opts
		return nil
	}
	var offered []string
	var query string
	pickNote = func(vault, q string, docs []string) (string, error) {
		offered, query = docs, q
		return "Journal.md", nil
	}
	t.Cleanup(func() { runHover, pickNote = origRun, origPick })

	s := cmdtest.NewState(t, cmdtest.DefaultNotes)
	cmd := NewCmdHover(s)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"--query", "jour"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("hover returned error: %v", err)
	}

	if len(offered) != 3 || query != "jour" {
		t.Fatalf("unexpected picker input %q %q", offered, query)
	}
	if got.DocumentID != "Journal.md" {
		t.Fatalf("expected picked note to open, got %q", got.DocumentID)
	}
}

func TestHoverDismissedPicker(t *testing.T) {
	origRun, origPick := runHover, pickNote
	runHover = func(tuihover.Options) error {
		t.Fatalf("hover view should not open")
		return nil
	}
	pickNote = func(string, string, []string) (string, error) {
		return "", fzf.ErrNoSelection
	}
	t.Cleanup(func() { runHover, pickNote = origRun, origPick })

	s := cmdtest.NewState(t, cmdtest.DefaultNotes)
	cmd := NewCmdHover(s)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("expected dismissal to be silent, got %v", err)
	}
}
