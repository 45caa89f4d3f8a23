// Package render draws matched spans and link popups for the terminal.
package render

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/Paintersrp/hoverlink/internal/entity"
	"github.com/Paintersrp/hoverlink/internal/match"
	"github.com/Paintersrp/hoverlink/internal/services/index"
)

var categoryColors = map[entity.Category]lipgloss.Color{
	entity.Note:     lipgloss.Color("#0AF"),
	entity.Heading:  lipgloss.Color("#cba6f7"),
	entity.Tag:      lipgloss.Color("#a6e3a1"),
	entity.Property: lipgloss.Color("#f9e2af"),
}

var sectionTitles = map[entity.Category]string{
	entity.Note:     "Notes",
	entity.Heading:  "Headings",
	entity.Tag:      "Tags",
	entity.Property: "Properties",
}

// Highlighter renders spans either with a style per category or, in plain
// mode, wrapped in brackets.
type Highlighter struct {
	plain    bool
	renderer *lipgloss.Renderer
	styles   map[entity.Category]lipgloss.Style
	active   lipgloss.Style
	title    lipgloss.Style
	section  lipgloss.Style
	muted    lipgloss.Style
	box      lipgloss.Style
}

// IsPlain reports whether output to w should carry no styling: either color
// was turned off or w is not a terminal.
func IsPlain(w io.Writer, noColor bool) bool {
	if noColor {
		return true
	}
	f, ok := w.(*os.File)
	return !ok || !term.IsTerminal(int(f.Fd()))
}

// New returns a Highlighter writing for w.
func New(w io.Writer, noColor bool) *Highlighter {
	return NewWithRenderer(lipgloss.NewRenderer(w), IsPlain(w, noColor))
}

// NewWithRenderer builds a Highlighter on an existing renderer. Plain mode
// forces the renderer to the Ascii profile.
func NewWithRenderer(r *lipgloss.Renderer, plain bool) *Highlighter {
	if plain {
		r.SetColorProfile(termenv.Ascii)
	}

	h := &Highlighter{
		plain:    plain,
		renderer: r,
		styles:   make(map[entity.Category]lipgloss.Style, len(categoryColors)),
		active: r.NewStyle().
			Bold(true).
			Background(lipgloss.Color("#0AF")).
			Foreground(lipgloss.Color("#FFF")),
		title: r.NewStyle().
			Foreground(lipgloss.Color("#0AF")).
			Bold(true),
		section: r.NewStyle().
			Foreground(lipgloss.Color("#cba6f7")),
		muted: r.NewStyle().
			Foreground(lipgloss.Color("#888")),
		box: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#334455")).
			Padding(0, 1),
	}
	for c, color := range categoryColors {
		h.styles[c] = r.NewStyle().Foreground(color).Underline(true)
	}
	return h
}

func (h *Highlighter) Plain() bool {
	return h.plain
}

// Span renders a single span.
func (h *Highlighter) Span(span match.Span) string {
	if h.plain {
		return "[" + span.Phrase + "]"
	}
	return h.styles[span.Category].Render(span.Phrase)
}

// Highlight rebuilds text with every span rendered. Text outside spans is
// passed through verbatim.
func (h *Highlighter) Highlight(text string, spans []match.Span) string {
	return match.Replace(text, spans, h.Span)
}

// HighlightActive is Highlight with the span covering [start, end) drawn as
// the hover target.
func (h *Highlighter) HighlightActive(text string, spans []match.Span, start, end int) string {
	return match.Replace(text, spans, func(span match.Span) string {
		if span.Start == start && span.End == end {
			if h.plain {
				return "[>" + span.Phrase + "<]"
			}
			return h.active.Render(span.Phrase)
		}
		return h.Span(span)
	})
}

// Popup renders the records a phrase links to, one section per category.
func (h *Highlighter) Popup(p index.Popup) string {
	var b strings.Builder
	b.WriteString(h.title.Render(p.Phrase))

	if p.Empty() {
		b.WriteString("\n")
		b.WriteString(h.muted.Render("no linked entities"))
		return h.frame(b.String())
	}

	for _, section := range p.Sections {
		heading := sectionTitles[section.Category]
		if section.Total > len(section.Records) {
			heading = fmt.Sprintf("%s (%d of %d)", heading, len(section.Records), section.Total)
		} else {
			heading = fmt.Sprintf("%s (%d)", heading, section.Total)
		}
		b.WriteString("\n")
		b.WriteString(h.section.Render(heading))

		for _, record := range section.Records {
			b.WriteString("\n  ")
			b.WriteString(record.Link())
			b.WriteString(h.muted.Render("  " + record.SourceID()))
		}
	}
	return h.frame(b.String())
}

func (h *Highlighter) frame(content string) string {
	if h.plain {
		return content
	}
	return h.box.Render(content)
}
