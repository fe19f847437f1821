package postag

import (
	"unicode/utf8"

	"github.com/jamesainslie/go-milkcat/crf"
	"github.com/jamesainslie/go-milkcat/segment"
	"github.com/jamesainslie/go-milkcat/tokenizer"
)

// CRF tags with a linear-chain CRF over three observation columns: the word,
// its first character and its last character. Non-Chinese words collapse to
// a class marker in all three columns.
type CRF struct {
	model *crf.Model
}

// NewCRF returns a CRF tagger.
func NewCRF(model *crf.Model) *CRF {
	return &CRF{model: model}
}

// Tag implements Tagger.
func (c *CRF) Tag(terms []segment.Term) []string {
	if len(terms) == 0 {
		return nil
	}
	obs := make([][]string, len(terms))
	for i, t := range terms {
		obs[i] = wordFeatures(t)
	}
	return c.model.DecodeLabels(obs)
}

func wordFeatures(t segment.Term) []string {
	switch t.Kind {
	case tokenizer.Chinese:
		first, _ := utf8.DecodeRuneInString(t.Text)
		last, _ := utf8.DecodeLastRuneInString(t.Text)
		return []string{t.Text, string(first), string(last)}
	case tokenizer.English, tokenizer.Symbol:
		return []string{"A", "A", "A"}
	case tokenizer.Number:
		return []string{"1", "1", "1"}
	default:
		return []string{".", ".", "."}
	}
}
