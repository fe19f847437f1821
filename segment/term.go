// Package segment groups the tokens of a sentence into words.
//
// Three segmenters are provided: Dictionary resolves words by longest match
// against the lexicon and falls back to a bigram lattice where dictionary
// words overlap, CharSegmenter groups characters by the labels of a
// statistical character tagger, and Recognizer runs Dictionary and then
// re-segments runs of unknown single characters with a character tagger.
//
// Segmenters are immutable and safe for concurrent use.
package segment

import (
	"github.com/jamesainslie/go-milkcat/lexicon"
	"github.com/jamesainslie/go-milkcat/tokenizer"
)

// Term is one segmented word spanning tokens [From, To) of its sentence.
type Term struct {
	Text  string
	Start int // byte offset in the processed text
	End   int // byte offset in the processed text
	From  int
	To    int
	Kind  tokenizer.Kind
	ID    lexicon.TermID
}

// Tokens returns the number of tokens in the term.
func (t Term) Tokens() int { return t.To - t.From }

// Segmenter splits a sentence into terms that tile it.
type Segmenter interface {
	Segment(s tokenizer.Sentence) []Term
}

// newTerm builds the term over tokens [from, to). Multi-token terms are
// Chinese words; single tokens keep their kind.
func newTerm(s tokenizer.Sentence, from, to int, id lexicon.TermID) Term {
	kind := s.Tokens[from].Kind
	if to-from > 1 {
		kind = tokenizer.Chinese
	}
	return Term{
		Text:  s.Slice(from, to),
		Start: s.Tokens[from].Start,
		End:   s.Tokens[to-1].End,
		From:  from,
		To:    to,
		Kind:  kind,
		ID:    id,
	}
}
