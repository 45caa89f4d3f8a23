package fzf

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/ktr0731/go-fuzzyfinder"
	"github.com/muesli/termenv"

	"github.com/Paintersrp/hoverlink/internal/parser"
	"github.com/Paintersrp/hoverlink/internal/pathutil"
)

// ErrNoSelection is returned when the picker is dismissed.
var ErrNoSelection = errors.New("no note selected")

// FuzzyFinder picks a note from the indexed documents of a vault.
type FuzzyFinder struct {
	vaultDir string
	Header   string
	docs     []string
}

func NewFuzzyFinder(vaultDir, header string, docs []string) *FuzzyFinder {
	return &FuzzyFinder{vaultDir: vaultDir, Header: header, docs: docs}
}

// Run shows the picker and returns the selected document id.
func (f *FuzzyFinder) Run(query string) (string, error) {
	if len(f.docs) == 0 {
		return "", fmt.Errorf("no notes indexed under %s", f.vaultDir)
	}

	options := []fuzzyfinder.Option{
		fuzzyfinder.WithPreviewWindow(f.renderMarkdownPreview),
	}
	if query != "" {
		options = append(options, fuzzyfinder.WithQuery(query))
	}
	if f.Header != "" {
		options = append(options, fuzzyfinder.WithHeader(f.Header))
	}

	labels := make([]string, len(f.docs))
	for i, id := range f.docs {
		content, err := os.ReadFile(f.path(i))
		if err != nil {
			content = nil
		}
		labels[i] = Label(id, content)
	}

	idx, err := fuzzyfinder.Find(f.docs, func(i int) string {
		return labels[i]
	}, options...)
	if errors.Is(err, fuzzyfinder.ErrAbort) {
		return "", ErrNoSelection
	}
	if err != nil {
		return "", fmt.Errorf("error selecting note: %w", err)
	}
	return f.docs[idx], nil
}

// Label formats a picker row: the note's display name followed by its tags.
func Label(id string, content []byte) string {
	title := pathutil.DisplayName(id)
	if dir := filepath.ToSlash(filepath.Dir(id)); dir != "." {
		title = fmt.Sprintf("%s (%s)", title, dir)
	}

	var tags []string
	if meta, err := parser.Parse(content); err == nil {
		seen := make(map[string]struct{}, len(meta.Tags))
		for _, tag := range meta.Tags {
			if _, ok := seen[tag.Tag]; ok {
				continue
			}
			seen[tag.Tag] = struct{}{}
			tags = append(tags, tag.Tag)
		}
	}

	if len(tags) == 0 {
		return fmt.Sprintf("%s [No tags] ", title)
	}
	return fmt.Sprintf("%s [Tags: %s] ", title, strings.Join(tags, ", "))
}

func (f *FuzzyFinder) path(i int) string {
	return filepath.Join(f.vaultDir, filepath.FromSlash(f.docs[i]))
}

func (f *FuzzyFinder) renderMarkdownPreview(
	i, w, h int,
) string {
	if i == -1 {
		return ""
	}

	content, err := os.ReadFile(f.path(i))
	if err != nil {
		return "Error reading file"
	}

	r, _ := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dracula"),
		glamour.WithWordWrap(max(20, w-4)),
		glamour.WithColorProfile(termenv.ANSI256),
	)

	markdown, err := r.Render(string(content))
	if err != nil {
		return "Error rendering markdown"
	}

	return markdown
}
