package match

import (
	"sort"
	"strings"

	"github.com/Paintersrp/hoverlink/internal/entity"
	"github.com/Paintersrp/hoverlink/internal/tokenize"
)

// Span is a matched phrase inside a block of text.
type Span struct {
	Phrase   string
	Category entity.Category
	Start    int
	End      int
	Words    int
}

// Len is the byte length of the span.
func (s Span) Len() int {
	return s.End - s.Start
}

// SelectSpans finds every indexed phrase in text and keeps a non-overlapping
// subset, preferring longer spans. Equal-length spans are taken in the order
// they were found: leftmost start first. The result is ordered by Start.
func (m *Matcher) SelectSpans(text string) []Span {
	tokens := tokenize.Tokenize(text)
	if len(tokens) == 0 {
		return nil
	}

	var candidates []Span
	for i := range tokens {
		longest := min(m.cfg.MaxPhraseWords, len(tokens)-i)
		for length := longest; length >= 1; length-- {
			first, last := tokens[i], tokens[i+length-1]
			phrase := text[first.Start:last.End]
			c, ok := m.Classify(phrase, length)
			if !ok {
				continue
			}
			candidates = append(candidates, Span{
				Phrase:   phrase,
				Category: c,
				Start:    first.Start,
				End:      last.End,
				Words:    length,
			})
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Len() > candidates[j].Len()
	})

	claimed := make([]bool, len(text))
	accepted := make([]Span, 0, len(candidates))
	for _, span := range candidates {
		if anyClaimed(claimed[span.Start:span.End]) {
			continue
		}
		for i := span.Start; i < span.End; i++ {
			claimed[i] = true
		}
		accepted = append(accepted, span)
	}

	sort.Slice(accepted, func(i, j int) bool {
		return accepted[i].Start < accepted[j].Start
	})
	return accepted
}

func anyClaimed(positions []bool) bool {
	for _, taken := range positions {
		if taken {
			return true
		}
	}
	return false
}

// Replace rebuilds text with every span substituted by fn(span). Spans must be
// ordered by Start; a span overlapping an earlier one is passed through.
func Replace(text string, spans []Span, fn func(Span) string) string {
	if len(spans) == 0 {
		return text
	}

	var b strings.Builder
	b.Grow(len(text))
	cursor := 0
	for _, span := range spans {
		if span.Start < cursor || span.End > len(text) || span.Start > span.End {
			continue
		}
		b.WriteString(text[cursor:span.Start])
		b.WriteString(fn(span))
		cursor = span.End
	}
	b.WriteString(text[cursor:])
	return b.String()
}
