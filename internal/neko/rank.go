package neko

import (
	"math"
	"sort"
)

// MutualInformation returns, for every candidate of two or more
// characters, the weakest association between the two sides of any split
// point: min over splits of log p(word) / (p(left) p(right)), with
// probabilities taken from v.
func MutualInformation(v *Vocabulary, candidates map[string]float64) map[string]float64 {
	mi := make(map[string]float64, len(candidates))
	for word := range candidates {
		if v.Counts[word] == 0 {
			continue
		}
		runes := []rune(word)
		if len(runes) < 2 {
			continue
		}

		best := math.Inf(1)
		for i := 1; i < len(runes); i++ {
			left, right := string(runes[:i]), string(runes[i:])
			// Costs are negative logs, so the ratio becomes a difference.
			m := v.Cost(left) + v.Cost(right) - v.Cost(word)
			best = math.Min(best, m)
		}
		mi[word] = best
	}
	return mi
}

// Scored is a ranked new word.
type Scored struct {
	Word    string
	Entropy float64
	MI      float64
	Score   float64
}

// Rank scores the words present in both entropy and mi by the sum of their
// min-max normalized values and returns them best first. Equal scores are
// ordered by word.
func Rank(entropy, mi map[string]float64) []Scored {
	var out []Scored
	for w, m := range mi {
		e, ok := entropy[w]
		if !ok {
			continue
		}
		out = append(out, Scored{Word: w, Entropy: e, MI: m})
	}
	if len(out) == 0 {
		return nil
	}

	eLo, eHi := bounds(out, func(s Scored) float64 { return s.Entropy })
	mLo, mHi := bounds(out, func(s Scored) float64 { return s.MI })
	for i := range out {
		out[i].Score = normalize(out[i].Entropy, eLo, eHi) + normalize(out[i].MI, mLo, mHi)
	}

	sort.Slice(out, func(a, b int) bool {
		if out[a].Score != out[b].Score {
			return out[a].Score > out[b].Score
		}
		return out[a].Word < out[b].Word
	})
	return out
}

func bounds(ss []Scored, value func(Scored) float64) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, s := range ss {
		lo = math.Min(lo, value(s))
		hi = math.Max(hi, value(s))
	}
	return lo, hi
}

// normalize maps x from [lo, hi] to [0, 1]. A degenerate range maps to 0.
func normalize(x, lo, hi float64) float64 {
	if hi <= lo {
		return 0
	}
	return (x - lo) / (hi - lo)
}
