package lookup

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
	cmd := NewCmdLookup(s)
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestLookupTag(t *testing.T) {
	out, err := execute(t, "tags", "FOCUS")
	if err != nil {
		t.Fatalf("lookup returned error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected a record per tag occurrence, got %q", lines)
	}
	for _, line := range lines {
		if !strings.HasPrefix(line, "#focus\t") {
			t.Fatalf("unexpected record line %q", line)
		}
	}
}

func TestLookupHeading(t *testing.T) {
	out, err := execute(t, "heading", "backprop")
	if err != nil {
		t.Fatalf("lookup returned error: %v", err)
	}
	if out != "[[Gradients#Backprop]]\tml/Gradients.md\n" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestLookupMissingKey(t *testing.T) {
	out, err := execute(t, "note", "nowhere")
	if err != nil {
		t.Fatalf("lookup returned error: %v", err)
	}
	if !strings.Contains(out, `No note records for "nowhere"`) {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestLookupPromptsForCategory(t *testing.T) {
	orig := selectCategory
	selectCategory = func() (string, error) { return "note", nil }
	t.Cleanup(func() { selectCategory = orig })

	out, err := execute(t, "deep work")
	if err != nil {
		t.Fatalf("lookup returned error: %v", err)
	}
	if !strings.HasPrefix(out, "[[Deep Work]]\tDeep Work.md") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestLookupUnknownCategory(t *testing.T) {
	if _, err := execute(t, "colour", "blue"); err == nil {
		t.Fatalf("expected error for unknown category")
	}
}
