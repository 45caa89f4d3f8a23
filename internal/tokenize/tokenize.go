// Package tokenize splits text into word tokens with byte offsets.
package tokenize

import (
	"iter"
	"unicode"
	"unicode/utf8"
)

// Token is a maximal run of word characters. Start and End are half-open byte
// offsets into the string the token was read from.
type Token struct {
	Text  string
	Start int
	End   int
}

// IsWordRune reports whether r is a letter, digit or underscore.
func IsWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// All returns a lazy sequence over the tokens of text. Every range over the
// sequence scans text again from the start.
func All(text string) iter.Seq[Token] {
	return func(yield func(Token) bool) {
		start := -1
		for i, r := range text {
			if IsWordRune(r) {
				if start < 0 {
					start = i
				}
				continue
			}
			if start >= 0 {
				if !yield(Token{Text: text[start:i], Start: start, End: i}) {
					return
				}
				start = -1
			}
		}
		if start >= 0 {
			yield(Token{Text: text[start:], Start: start, End: len(text)})
		}
	}
}

// Tokenize materializes All(text).
func Tokenize(text string) []Token {
	var tokens []Token
	for tok := range All(text) {
		tokens = append(tokens, tok)
	}
	return tokens
}

// WordAt returns the token that contains offset. When offset sits just past
// the end of a word (for example a cursor right after the last letter), that
// word is returned instead. Offsets outside text or away from any word yield
// false.
func WordAt(text string, offset int) (Token, bool) {
	if offset < 0 || offset > len(text) {
		return Token{}, false
	}

	anchor := -1
	if offset < len(text) {
		if r, _ := utf8.DecodeRuneInString(text[offset:]); IsWordRune(r) {
			anchor = offset
		}
	}
	if anchor < 0 && offset > 0 {
		if r, size := utf8.DecodeLastRuneInString(text[:offset]); IsWordRune(r) {
			anchor = offset - size
		}
	}
	if anchor < 0 {
		return Token{}, false
	}

	start, end := ExpandWord(text, anchor, anchor)
	return Token{Text: text[start:end], Start: start, End: end}, true
}

// ExpandWord widens the byte range [start, end) outward over word characters.
// Offsets that fall inside a multi-byte rune are first moved to its boundary.
func ExpandWord(text string, start, end int) (int, int) {
	start = clamp(start, 0, len(text))
	end = clamp(end, start, len(text))
	for start > 0 && !utf8.RuneStart(text[start]) {
		start--
	}
	for end < len(text) && !utf8.RuneStart(text[end]) {
		end++
	}

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(text[:start])
		if !IsWordRune(r) {
			break
		}
		start -= size
	}
	for end < len(text) {
		r, size := utf8.DecodeRuneInString(text[end:])
		if !IsWordRune(r) {
			break
		}
		end += size
	}
	return start, end
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
