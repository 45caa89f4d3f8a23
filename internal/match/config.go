package match

import (
	"strings"

	"github.com/Paintersrp/hoverlink/internal/entity"
)

const (
	// MaxPhraseWordsLimit bounds Config.MaxPhraseWords from above.
	MaxPhraseWordsLimit = 10

	DefaultMaxPhraseWords = 3
	DefaultMinMatchLength = 3
)

// Detection toggles matching per category.
type Detection struct {
	Notes      bool
	Headings   bool
	Tags       bool
	Properties bool
}

// AllCategories enables every category.
func AllCategories() Detection {
	return Detection{Notes: true, Headings: true, Tags: true, Properties: true}
}

// Enabled reports whether matches for c are reported.
func (d Detection) Enabled(c entity.Category) bool {
	switch c {
	case entity.Note:
		return d.Notes
	case entity.Heading:
		return d.Headings
	case entity.Tag:
		return d.Tags
	case entity.Property:
		return d.Properties
	default:
		return false
	}
}

// Config is held for the duration of a query and never mutated by it.
type Config struct {
	MaxPhraseWords int
	MinMatchLength int
	// ExcludedWords holds normalized words that never match on their own.
	ExcludedWords map[string]struct{}
	Detect        Detection
}

// DefaultConfig returns the configuration used when nothing is persisted.
func DefaultConfig() Config {
	return Config{
		MaxPhraseWords: DefaultMaxPhraseWords,
		MinMatchLength: DefaultMinMatchLength,
		Detect:         AllCategories(),
	}
}

// Normalize clamps out-of-range values to the nearest valid one and
// normalizes the excluded words.
func (c Config) Normalize() Config {
	if c.MaxPhraseWords < 1 {
		c.MaxPhraseWords = 1
	}
	if c.MaxPhraseWords > MaxPhraseWordsLimit {
		c.MaxPhraseWords = MaxPhraseWordsLimit
	}
	if c.MinMatchLength < 1 {
		c.MinMatchLength = 1
	}

	excluded := make(map[string]struct{}, len(c.ExcludedWords))
	for word := range c.ExcludedWords {
		if key := entity.Normalize(word); key != "" {
			excluded[key] = struct{}{}
		}
	}
	c.ExcludedWords = excluded
	return c
}

// Excludes reports whether word is on the exclusion list.
func (c Config) Excludes(word string) bool {
	_, ok := c.ExcludedWords[entity.Normalize(word)]
	return ok
}

// ExcludedWords builds an exclusion set from words, trimming and lowercasing
// each one. Blank entries are dropped.
func ExcludedWords(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		if key := entity.Normalize(w); key != "" {
			set[key] = struct{}{}
		}
	}
	return set
}

// ParseExcludedWords splits a comma-separated list.
func ParseExcludedWords(csv string) map[string]struct{} {
	return ExcludedWords(strings.Split(csv, ",")...)
}
