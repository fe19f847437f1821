package postag

import (
	"fmt"

	"github.com/jamesainslie/go-milkcat/hmm"
	"github.com/jamesainslie/go-milkcat/lexicon"
	"github.com/jamesainslie/go-milkcat/segment"
	"github.com/jamesainslie/go-milkcat/tokenizer"
)

// HMM tags with a tag transition model. Dictionary words emit their listed
// tags; any other word emits only the default tag of its kind.
type HMM struct {
	model    *hmm.Model
	lex      *lexicon.Lexicon
	defaults DefaultTags

	// byTerm[id] holds the candidates of dictionary word id.
	byTerm [][]hmm.Candidate
}

// NewHMM builds an HMM tagger. Every dictionary and default tag must be a
// state of model.
func NewHMM(model *hmm.Model, lex *lexicon.Lexicon, defaults DefaultTags) (*HMM, error) {
	for _, tag := range defaults.All() {
		if model.StateID(tag) < 0 {
			return nil, fmt.Errorf("%w: default tag %q", ErrUnknownTag, tag)
		}
	}

	h := &HMM{
		model:    model,
		lex:      lex,
		defaults: defaults,
		byTerm:   make([][]hmm.Candidate, lex.Len()+1),
	}
	for i, e := range lex.Entries() {
		cands := make([]hmm.Candidate, 0, len(e.Tags))
		for _, tc := range e.Tags {
			state := model.StateID(tc.Tag)
			if state < 0 {
				return nil, fmt.Errorf("%w: %q of word %q", ErrUnknownTag, tc.Tag, e.Word)
			}
			cands = append(cands, hmm.Candidate{State: state, Cost: tc.Cost})
		}
		h.byTerm[i+1] = cands
	}
	return h, nil
}

// Tag implements Tagger.
func (h *HMM) Tag(terms []segment.Term) []string {
	tags, _ := h.TagOOV(terms)
	return tags
}

// TagOOV tags terms and reports which Chinese words had no dictionary
// emissions and were tagged with the default.
func (h *HMM) TagOOV(terms []segment.Term) (tags []string, oov []bool) {
	if len(terms) == 0 {
		return nil, nil
	}

	lattice := make([][]hmm.Candidate, len(terms))
	oov = make([]bool, len(terms))
	for i, t := range terms {
		if cands := h.candidates(t); len(cands) > 0 {
			lattice[i] = cands
			continue
		}
		lattice[i] = []hmm.Candidate{{State: h.model.StateID(h.defaults.For(t.Kind))}}
		oov[i] = t.Kind == tokenizer.Chinese
	}

	path := h.model.Decode(lattice)
	tags = make([]string, len(terms))
	for i, c := range path {
		tags[i] = h.model.States[lattice[i][c].State]
	}
	return tags, oov
}

func (h *HMM) candidates(t segment.Term) []hmm.Candidate {
	if t.ID <= lexicon.OOV || int(t.ID) >= len(h.byTerm) {
		return nil
	}
	return h.byTerm[t.ID]
}
