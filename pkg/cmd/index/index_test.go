package index

import (
	"bytes"
	"strings"
	"testing"

	"github.com/Paintersrp/hoverlink/pkg/cmd/cmdtest"
)

func TestIndexPrintsCategoryCounts(t *testing.T) {
	s := cmdtest.NewState(t, cmdtest.DefaultNotes)

	var out bytes.Buffer
	cmd := NewCmdIndex(s)
	cmd.SetOut(&out)
	cmd.SetArgs([]string{})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("index returned error: %v", err)
	}

	got := out.String()
	if !strings.HasPrefix(got, "Indexed 3 notes in ") {
		t.Fatalf("unexpected summary line:\n%s", got)
	}
	lines := strings.Split(strings.TrimRight(got, "\n"), "\n")
	if len(lines) != 6 {
		t.Fatalf("expected summary, header and four category rows:\n%s", got)
	}
	if lines[1] != "CATEGORY  KEYS  RECORDS" {
		t.Fatalf("unexpected header %q", lines[1])
	}
	for i, want := range []string{"note", "heading", "tag", "property"} {
		if fields := strings.Fields(lines[i+2]); len(fields) != 3 || fields[0] != want {
			t.Fatalf("expected %q row, got %q", want, lines[i+2])
		}
	}
}

func TestRenderTableKeepsFullCells(t *testing.T) {
	got := renderTable(
		[]string{"CATEGORY", "KEYS", "RECORDS"},
		[][]string{{"note", "3", "3"}, {"property", "2", "2"}},
	)

	for _, want := range []string{"CATEGORY", "RECORDS", "property"} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected %q in table:\n%s", want, got)
		}
	}
	if strings.Contains(got, "…") {
		t.Fatalf("expected no truncated cells:\n%s", got)
	}
}

func TestIndexRejectsArguments(t *testing.T) {
	s := cmdtest.NewState(t, nil)

	cmd := NewCmdIndex(s)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"extra"})
	if err := cmd.Execute(); err == nil {
		t.Fatalf("expected error for unexpected argument")
	}
}
