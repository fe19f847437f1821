package tokenizer

import (
	"unicode"

	"golang.org/x/text/width"
)

// Kind is the lexical class of a token.
type Kind uint8

const (
	Chinese Kind = iota
	English
	Number
	Punctuation
	Symbol
	Space
	Newline
	Period
	Other
)

var kindNames = [...]string{
	Chinese:     "chinese",
	English:     "english",
	Number:      "number",
	Punctuation: "punctuation",
	Symbol:      "symbol",
	Space:       "space",
	Newline:     "newline",
	Period:      "period",
	Other:       "other",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// IsBlank reports whether tokens of this kind carry no lexical content.
func (k Kind) IsBlank() bool {
	return k == Space || k == Newline
}

// fold maps fullwidth and halfwidth forms to their canonical width so that
// "１２" classifies like "12" and "ｈｉ" like "hi". The surface text is never
// rewritten, only the class decision uses the folded rune.
func fold(r rune) rune {
	if f := width.LookupRune(r).Folded(); f != 0 {
		return f
	}
	return r
}

// Fold returns s with every rune width-folded. Feature extractors use it to
// share weights between fullwidth and ASCII spellings.
func Fold(s string) string {
	return width.Fold.String(s)
}

func isDigit(r rune) bool {
	r = fold(r)
	return r >= '0' && r <= '9'
}

func isPeriod(r rune) bool {
	switch r {
	case '。', '!', '?', ';', '…', '.':
		return true
	}
	return false
}

// classify returns the kind of a single rune.
func classify(r rune) Kind {
	if r == '\n' || r == '\r' {
		return Newline
	}
	if unicode.Is(unicode.Han, r) {
		return Chinese
	}

	f := fold(r)
	switch {
	case f >= '0' && f <= '9':
		return Number
	case unicode.Is(unicode.Latin, f):
		return English
	case unicode.IsSpace(r):
		return Space
	case isPeriod(f):
		return Period
	case unicode.IsPunct(f):
		return Punctuation
	case unicode.IsSymbol(f):
		return Symbol
	default:
		return Other
	}
}
