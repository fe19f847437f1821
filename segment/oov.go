package segment

import (
	"github.com/jamesainslie/go-milkcat/lexicon"
	"github.com/jamesainslie/go-milkcat/tokenizer"
)

// Recognizer segments with a Dictionary and then re-segments runs of
// single Han characters, which usually mark an unknown word the dictionary
// broke apart, with a character tagger.
//
// A character with the Filtered property never joins a run. A BeginOfWord
// character joins and also pulls the following multi-character word in.
type Recognizer struct {
	dict  *Dictionary
	chars CharTagger
	props *lexicon.Properties
	lex   *lexicon.Lexicon
}

// NewRecognizer returns an OOV recognizing segmenter. props may be nil.
func NewRecognizer(dict *Dictionary, chars CharTagger, props *lexicon.Properties) *Recognizer {
	return &Recognizer{dict: dict, chars: chars, props: props, lex: dict.lex}
}

// Segment implements Segmenter.
func (r *Recognizer) Segment(s tokenizer.Sentence) []Term {
	terms := r.dict.Segment(s)
	if len(terms) == 0 {
		return nil
	}

	out := make([]Term, 0, len(terms))
	runStart := -1
	pullNext := false

	flush := func(end int) {
		switch {
		case runStart < 0:
			return
		case end-runStart > 1:
			from, to := terms[runStart].From, terms[end-1].To
			labels := r.chars.TagChars(observations(s.Tokens[from:to]))
			out = group(s, from, to, labels, r.lex, out)
		default:
			out = append(out, terms[runStart])
		}
		runStart = -1
	}

	for i, t := range terms {
		inRun := false
		switch {
		case t.Tokens() > 1:
			inRun = pullNext
			pullNext = false
		case t.Kind != tokenizer.Chinese:
			pullNext = false
		default:
			switch r.props.Of(t.Text) {
			case lexicon.BeginOfWord:
				inRun, pullNext = true, true
			case lexicon.Filtered:
				pullNext = false
			default:
				inRun, pullNext = true, false
			}
		}

		if inRun {
			if runStart < 0 {
				runStart = i
			}
			continue
		}
		flush(i)
		out = append(out, t)
	}
	flush(len(terms))

	return out
}
