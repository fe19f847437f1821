package segment

import (
	"github.com/jamesainslie/go-milkcat/crf"
	"github.com/jamesainslie/go-milkcat/hmm"
	"github.com/jamesainslie/go-milkcat/lexicon"
	"github.com/jamesainslie/go-milkcat/tokenizer"
)

// nonHanObservation stands in for every token that is not a Han character.
const nonHanObservation = "。"

// CharTagger assigns a word-position label (B, B1, B2, M, E or S) to every
// character observation.
type CharTagger interface {
	TagChars(obs []string) []string
}

// CRFChars tags characters with a CRF model over one observation column.
type CRFChars struct {
	Model *crf.Model
}

// TagChars implements CharTagger.
func (c CRFChars) TagChars(obs []string) []string {
	return c.Model.DecodeLabels(crf.Single(obs))
}

// HMMChars tags characters with an HMM whose states are the labels.
type HMMChars struct {
	Model *hmm.Model
}

// TagChars implements CharTagger.
func (h HMMChars) TagChars(obs []string) []string {
	return h.Model.StateNames(h.Model.DecodeObservations(obs))
}

func endsWord(label string) bool {
	return label == "E" || label == "S"
}

func observations(tokens []tokenizer.Token) []string {
	obs := make([]string, len(tokens))
	for i, tok := range tokens {
		if tok.Kind == tokenizer.Chinese {
			obs[i] = tok.Text
		} else {
			obs[i] = nonHanObservation
		}
	}
	return obs
}

// CharSegmenter segments a sentence by character tagging alone. Han
// characters are grouped into words by the tagger labels; every other token
// is a term of its own.
type CharSegmenter struct {
	tagger CharTagger
	lex    *lexicon.Lexicon
}

// NewCharSegmenter returns a character segmenter. When lex is non-nil the
// resulting words are looked up to fill Term.ID.
func NewCharSegmenter(tagger CharTagger, lex *lexicon.Lexicon) *CharSegmenter {
	return &CharSegmenter{tagger: tagger, lex: lex}
}

// Segment implements Segmenter.
func (c *CharSegmenter) Segment(s tokenizer.Sentence) []Term {
	if s.Len() == 0 {
		return nil
	}
	labels := c.tagger.TagChars(observations(s.Tokens))
	return group(s, 0, s.Len(), labels, c.lex, nil)
}

// group appends to dst the terms of tokens [from, to) given one label per
// token. A word ends at E or S, at a non-Han token and at the range end.
func group(s tokenizer.Sentence, from, to int, labels []string, lex *lexicon.Lexicon, dst []Term) []Term {
	emit := func(a, b int) {
		id := lexicon.OOV
		if lex != nil {
			id = lex.Lookup(s.Slice(a, b))
		}
		dst = append(dst, newTerm(s, a, b, id))
	}

	start := from
	for i := from; i < to; i++ {
		if s.Tokens[i].Kind != tokenizer.Chinese {
			if start < i {
				emit(start, i)
			}
			emit(i, i+1)
			start = i + 1
			continue
		}
		if endsWord(labels[i-from]) {
			emit(start, i+1)
			start = i + 1
		}
	}
	if start < to {
		emit(start, to)
	}
	return dst
}
