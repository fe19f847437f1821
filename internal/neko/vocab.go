package neko

import (
	"context"
	"math"

	milkcat "github.com/jamesainslie/go-milkcat"
)

// NotChinese stands in for every word that is not a Chinese word, so
// foreign words still separate their neighbours.
const NotChinese = "-NOT-CJK-"

// Analyzer segments text into tokens.
type Analyzer interface {
	Analyze(ctx context.Context, text string) ([]milkcat.Token, error)
}

// Vocabulary counts the words of a segmented corpus.
type Vocabulary struct {
	Counts map[string]int
	Total  int
}

func newVocabulary() *Vocabulary {
	return &Vocabulary{Counts: make(map[string]int)}
}

func (v *Vocabulary) add(word string) {
	v.Counts[word]++
	v.Total++
}

// Cost returns the negative log relative frequency of word. Unseen words
// count once.
func (v *Vocabulary) Cost(word string) float64 {
	n := max(v.Counts[word], 1)
	return -math.Log(float64(n) / float64(max(v.Total, 1)))
}

// CountWords segments every line with a and counts the words. Whitespace
// tokens are not counted.
func CountWords(ctx context.Context, a Analyzer, lines []string) (*Vocabulary, error) {
	v := newVocabulary()
	for _, line := range lines {
		tokens, err := a.Analyze(ctx, line)
		if err != nil {
			return nil, err
		}
		for _, tok := range tokens {
			switch tok.Type {
			case milkcat.Space:
			case milkcat.ChineseWord:
				v.add(tok.Word)
			default:
				v.add(NotChinese)
			}
		}
	}
	return v, nil
}
