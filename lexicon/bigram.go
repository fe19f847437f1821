package lexicon

import "fmt"

// Bigram is the joint cost of two adjacent words.
type Bigram struct {
	Left  string
	Right string
	Cost  float64
}

// Bigrams is a bigram cost table keyed by term ids.
type Bigrams struct {
	costs map[uint64]float64
}

func bigramKey(left, right TermID) uint64 {
	return uint64(uint32(left))<<32 | uint64(uint32(right))
}

// NewBigrams resolves pairs against lex.
func NewBigrams(lex *Lexicon, pairs []Bigram) (*Bigrams, error) {
	b := &Bigrams{
		costs: make(map[uint64]float64, len(pairs)),
	}

	for _, p := range pairs {
		left := lex.Lookup(p.Left)
		if left == OOV {
			return nil, fmt.Errorf("%w: %q", ErrUnknownWord, p.Left)
		}
		right := lex.Lookup(p.Right)
		if right == OOV {
			return nil, fmt.Errorf("%w: %q", ErrUnknownWord, p.Right)
		}
		b.costs[bigramKey(left, right)] = p.Cost
	}

	return b, nil
}

// Cost returns the joint cost of left followed by right. A nil table has no
// entries.
func (b *Bigrams) Cost(left, right TermID) (float64, bool) {
	if b == nil {
		return 0, false
	}
	c, ok := b.costs[bigramKey(left, right)]
	return c, ok
}

// Len returns the number of pairs.
func (b *Bigrams) Len() int {
	if b == nil {
		return 0
	}
	return len(b.costs)
}
