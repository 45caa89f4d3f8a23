package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/Paintersrp/hoverlink/internal/entity"
	"github.com/Paintersrp/hoverlink/internal/match"
	"github.com/Paintersrp/hoverlink/internal/services/index"
)

var sampleSpans = []match.Span{
	{Phrase: "Go", Category: entity.Note, Start: 0, End: 2, Words: 1},
	{Phrase: "Rust Lang", Category: entity.Tag, Start: 7, End: 16, Words: 2},
}

func TestIsPlainForNonTerminals(t *testing.T) {
	var buf bytes.Buffer
	if !IsPlain(&buf, false) {
		t.Fatalf("expected a buffer to be treated as plain output")
	}
	if !IsPlain(&buf, true) {
		t.Fatalf("expected no-color to force plain output")
	}
}

func TestHighlightPlainWrapsSpans(t *testing.T) {
	h := New(&bytes.Buffer{}, false)

	got := h.Highlight("Go and Rust Lang, not C.", sampleSpans)
	if want := "[Go] and [Rust Lang], not C."; got != want {
		t.Fatalf("Highlight = %q, want %q", got, want)
	}
}

func TestHighlightActivePlain(t *testing.T) {
	h := New(&bytes.Buffer{}, true)

	got := h.HighlightActive("Go and Rust Lang, not C.", sampleSpans, 7, 16)
	if want := "[Go] and [>Rust Lang<], not C."; got != want {
		t.Fatalf("HighlightActive = %q, want %q", got, want)
	}
}

func TestHighlightStyledKeepsText(t *testing.T) {
	r := lipgloss.NewRenderer(&bytes.Buffer{})
	r.SetColorProfile(termenv.Ascii)
	h := NewWithRenderer(r, false)

	text := "Go and Rust Lang, not C."
	if got := h.Highlight(text, sampleSpans); got != text {
		t.Fatalf("expected ascii profile to leave text unchanged, got %q", got)
	}
	if h.Plain() {
		t.Fatalf("expected styled highlighter")
	}
}

func TestPopupListsSections(t *testing.T) {
	h := New(&bytes.Buffer{}, true)

	popup := index.Popup{
		Phrase: "Draft",
		Sections: []index.PopupSection{
			{
				Category: entity.Heading,
				Records: []entity.Record{
					entity.HeadingRecord{DocumentID: "a.md", DisplayName: "a", Heading: "Draft", Line: 3},
				},
				Total: 4,
			},
			{
				Category: entity.Tag,
				Records:  []entity.Record{entity.TagRecord{DocumentID: "b.md", Tag: "draft", Line: 1}},
				Total:    1,
			},
		},
	}

	got := h.Popup(popup)
	for _, want := range []string{"Draft", "Headings (1 of 4)", "[[a#Draft]]", "Tags (1)", "#draft", "b.md"} {
		if !strings.Contains(got, want) {
			t.Fatalf("popup %q missing %q", got, want)
		}
	}
}

func TestPopupEmpty(t *testing.T) {
	h := New(&bytes.Buffer{}, true)

	got := h.Popup(index.Popup{Phrase: "nothing"})
	if !strings.Contains(got, "no linked entities") {
		t.Fatalf("unexpected empty popup %q", got)
	}
}
