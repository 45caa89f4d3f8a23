// Package match finds phrases in text that name indexed entities. Resolve
// finds the longest phrase around a single point; SelectSpans finds a
// non-overlapping set of phrases across a block of text.
package match

import (
	"unicode/utf8"

	"github.com/Paintersrp/hoverlink/internal/entity"
)

// Index is the read side of the entity index used while matching.
type Index interface {
	Has(c entity.Category, key string) bool
}

// Matcher classifies phrases against an index under a fixed configuration.
// It never mutates the index.
type Matcher struct {
	idx Index
	cfg Config
}

// NewMatcher binds idx to a normalized copy of cfg.
func NewMatcher(idx Index, cfg Config) *Matcher {
	return &Matcher{idx: idx, cfg: cfg.Normalize()}
}

func (m *Matcher) Config() Config {
	return m.cfg
}

// Classify returns the highest-priority enabled category whose index holds
// phrase. words is the number of tokens phrase spans; the exclusion list only
// applies when it is 1.
func (m *Matcher) Classify(phrase string, words int) (entity.Category, bool) {
	if m == nil || m.idx == nil {
		return 0, false
	}
	if words == 1 && m.cfg.Excludes(phrase) {
		return 0, false
	}
	if utf8.RuneCountInString(phrase) < m.cfg.MinMatchLength {
		return 0, false
	}

	for _, c := range entity.Priority {
		if m.cfg.Detect.Enabled(c) && m.idx.Has(c, phrase) {
			return c, true
		}
	}
	return 0, false
}
