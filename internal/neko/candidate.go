package neko

import (
	"math"

	"github.com/jamesainslie/go-milkcat/lexicon"
)

// Threshold returns the default minimum frequency of a candidate for a
// corpus of total words. It grows slowly with corpus size.
func Threshold(total int) int {
	return int(math.Atan(1e-7*float64(total))*50) + 2
}

// Candidates returns the words of v seen more than threshold times that
// lex does not know, mapped to their unigram cost. When names is not nil,
// words it classifies as person names are dropped and counted in filtered.
func Candidates(v *Vocabulary, lex *lexicon.Lexicon, names *Maxent, threshold int) (candidates map[string]float64, filtered int) {
	candidates = make(map[string]float64)
	for word, n := range v.Counts {
		if n <= threshold || word == NotChinese || lex.Lookup(word) != lexicon.OOV {
			continue
		}
		if names != nil && names.Classify(NameFeatures(word)) != NotName {
			filtered++
			continue
		}
		candidates[word] = v.Cost(word)
	}
	return candidates, filtered
}
