package match

import (
	"github.com/Paintersrp/hoverlink/internal/entity"
	"github.com/Paintersrp/hoverlink/internal/tokenize"
)

// WindowRadius is how many bytes either side of the hovered word are scanned
// for candidate phrases.
const WindowRadius = 100

// Match is a phrase found around a point. Start and End are byte offsets into
// the text passed to Resolve.
type Match struct {
	Phrase   string
	Category entity.Category
	Start    int
	End      int
	Words    int
}

// Resolve returns the longest indexed phrase that contains the word at offset.
// Among phrases of the same length, the one starting closest to the hovered
// word wins.
func (m *Matcher) Resolve(text string, offset int) (Match, bool) {
	word, ok := tokenize.WordAt(text, offset)
	if !ok {
		return Match{}, false
	}

	lo, hi := tokenize.ExpandWord(text, word.Start-WindowRadius, word.End+WindowRadius)
	window := text[lo:hi]
	tokens := tokenize.Tokenize(window)

	pivot := -1
	for i, tok := range tokens {
		if tok.Start == word.Start-lo {
			pivot = i
			break
		}
	}
	if pivot < 0 {
		return Match{}, false
	}

	candidate := func(start, length int) (Match, bool) {
		first, last := tokens[start], tokens[start+length-1]
		phrase := window[first.Start:last.End]
		c, ok := m.Classify(phrase, length)
		if !ok {
			return Match{}, false
		}
		return Match{
			Phrase:   phrase,
			Category: c,
			Start:    lo + first.Start,
			End:      lo + last.End,
			Words:    length,
		}, true
	}

	for length := m.cfg.MaxPhraseWords; length >= 2; length-- {
		for off := 0; off < length; off++ {
			start := pivot - off
			if start < 0 || start+length > len(tokens) {
				continue
			}
			if found, ok := candidate(start, length); ok {
				return found, true
			}
		}
	}

	return candidate(pivot, 1)
}
