package highlight

import (
	"bytes"
	"strings"
	"testing"

	"github.com/Paintersrp/hoverlink/pkg/cmd/cmdtest"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	s := cmdtest.NewState(t, cmdtest.DefaultNotes)

	var out bytes.Buffer
	cmd := NewCmdHighlight(s)
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestHighlightWrapsPhrases(t *testing.T) {
	out, err := execute(t, "Journal.md")
	if err != nil {
		t.Fatalf("highlight returned error: %v", err)
	}
	want := "Read [Deep Work] today. Keep #[focus] and note the [Rituals].\n"
	if out != want {
		t.Fatalf("unexpected output:\n got %q\nwant %q", out, want)
	}
}

func TestHighlightList(t *testing.T) {
	out, err := execute(t, "Journal.md", "--list")
	if err != nil {
		t.Fatalf("highlight returned error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected three spans, got %q", lines)
	}
	if lines[0] != "1:6-14\tnote\tDeep Work" {
		t.Fatalf("unexpected first span %q", lines[0])
	}
	if lines[2] != "1:48-54\theading\tRituals" {
		t.Fatalf("unexpected last span %q", lines[2])
	}
}

func TestHighlightRequiresFile(t *testing.T) {
	if _, err := execute(t); err == nil {
		t.Fatalf("expected error without FILE")
	}
	if _, err := execute(t, "Missing.md"); err == nil {
		t.Fatalf("expected error for missing note")
	}
}
