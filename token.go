package milkcat

import (
	"fmt"

	"github.com/jamesainslie/go-milkcat/tokenizer"
)

// WordType is the lexical class of a token.
type WordType int

const (
	ChineseWord WordType = iota
	EnglishWord
	Number
	Symbol
	Punctuation
	Other
	Space
)

var wordTypeNames = [...]string{
	ChineseWord: "CN",
	EnglishWord: "EN",
	Number:      "NUM",
	Symbol:      "SYM",
	Punctuation: "PU",
	Other:       "OTHER",
	Space:       "SPACE",
}

func (w WordType) String() string {
	if w >= 0 && int(w) < len(wordTypeNames) {
		return wordTypeNames[w]
	}
	return fmt.Sprintf("WordType(%d)", int(w))
}

func wordType(k tokenizer.Kind) WordType {
	switch k {
	case tokenizer.Chinese:
		return ChineseWord
	case tokenizer.English:
		return EnglishWord
	case tokenizer.Number:
		return Number
	case tokenizer.Symbol:
		return Symbol
	case tokenizer.Punctuation, tokenizer.Period:
		return Punctuation
	case tokenizer.Space, tokenizer.Newline:
		return Space
	}
	return Other
}

// Token is one segmented word.
type Token struct {
	Word string

	// Tag is the POS tag, empty for CRFSegmentOnly processors.
	Tag string

	Type WordType

	// Start and End are byte offsets into the processed text.
	Start int
	End   int
}

// HasTag reports whether the token carries a POS tag.
func (t Token) HasTag() bool { return t.Tag != "" }
