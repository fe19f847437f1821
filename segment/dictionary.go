package segment

import (
	"slices"
	"sort"

	"github.com/jamesainslie/go-milkcat/lexicon"
	"github.com/jamesainslie/go-milkcat/tokenizer"
)

const (
	// DefaultBeamSize is the number of partial paths kept per lattice position.
	DefaultBeamSize = 3

	// DefaultOOVCost is the cost of a single unknown token in the lattice.
	DefaultOOVCost = 20.0
)

// Dictionary segments by longest dictionary match. Where a word starting
// inside the match reaches past its end, the overlapping region is decoded
// as a lattice of dictionary words scored by unigram and bigram costs.
type Dictionary struct {
	lex      *lexicon.Lexicon
	bigrams  *lexicon.Bigrams
	beamSize int
	oovCost  float64
}

// NewDictionary returns a dictionary segmenter. bigrams may be nil.
// A beamSize below 1 is treated as 1.
func NewDictionary(lex *lexicon.Lexicon, bigrams *lexicon.Bigrams, beamSize int, oovCost float64) *Dictionary {
	if beamSize < 1 {
		beamSize = 1
	}
	return &Dictionary{
		lex:      lex,
		bigrams:  bigrams,
		beamSize: beamSize,
		oovCost:  oovCost,
	}
}

type match struct {
	end int
	id  lexicon.TermID
}

// node is a lattice path ending at the position of the beam holding it.
type node struct {
	cost  float64
	id    lexicon.TermID
	start int // token index where the last term starts, -1 for the region head
	back  int // index of the predecessor in the beam at start
}

// Segment implements Segmenter.
func (d *Dictionary) Segment(s tokenizer.Sentence) []Term {
	n := s.Len()
	if n == 0 {
		return nil
	}

	keys := lookupKeys(s)
	matches := make([][]match, n)
	for i := range matches {
		matches[i] = d.matchesAt(s, keys, i)
	}

	terms := make([]Term, 0, n)
	prev := lexicon.OOV
	for i := 0; i < n; {
		m := matches[i]
		if len(m) == 0 {
			terms = append(terms, newTerm(s, i, i+1, lexicon.OOV))
			prev = lexicon.OOV
			i++
			continue
		}

		longest := m[len(m)-1]
		regionEnd := longest.end
		crossed := false
		for j := i + 1; j < regionEnd; j++ {
			if mj := matches[j]; len(mj) > 0 && mj[len(mj)-1].end > regionEnd {
				regionEnd = mj[len(mj)-1].end
				crossed = true
			}
		}

		if !crossed {
			terms = append(terms, newTerm(s, i, longest.end, longest.id))
			prev = longest.id
			i = longest.end
			continue
		}

		region := d.decode(s, matches, i, regionEnd, prev)
		terms = append(terms, region...)
		prev = region[len(region)-1].ID
		i = regionEnd
	}

	return terms
}

// lookupKeys returns the trie key of every token. Non-Han tokens are width
// folded so fullwidth spellings find their ASCII dictionary entries.
func lookupKeys(s tokenizer.Sentence) []string {
	keys := make([]string, s.Len())
	for i, tok := range s.Tokens {
		if tok.Kind == tokenizer.Chinese {
			keys[i] = tok.Text
			continue
		}
		keys[i] = tokenizer.Fold(tok.Text)
	}
	return keys
}

// matchesAt returns the dictionary words starting at token i, shortest first.
func (d *Dictionary) matchesAt(s tokenizer.Sentence, keys []string, i int) []match {
	var out []match
	n := d.lex.Root()
	for j := i; j < s.Len(); j++ {
		if s.Tokens[j].Kind.IsBlank() {
			break
		}
		var ok bool
		n, ok = d.lex.Walk(n, keys[j])
		if !ok {
			break
		}
		if id := d.lex.TermAt(n); id != lexicon.OOV {
			out = append(out, match{end: j + 1, id: id})
		}
	}
	return out
}

// decode resolves tokens [from, to) with a beam lattice. prev is the term
// preceding the region and takes part in the first bigram.
func (d *Dictionary) decode(s tokenizer.Sentence, matches [][]match, from, to int, prev lexicon.TermID) []Term {
	beams := make([][]node, to-from+1)
	beams[0] = []node{{id: prev, start: -1, back: -1}}

	for j := from; j < to; j++ {
		beam := d.shrink(beams, from, j)
		beams[j-from] = beam

		single := false
		for _, m := range matches[j] {
			if m.end > to {
				break
			}
			if m.end == j+1 {
				single = true
			}
			cost, back := d.extend(beam, m.id)
			beams[m.end-from] = append(beams[m.end-from], node{cost: cost, id: m.id, start: j, back: back})
		}

		// An unknown token keeps every position reachable.
		if !single {
			beams[j+1-from] = append(beams[j+1-from], node{
				cost:  beam[0].cost + d.oovCost,
				id:    lexicon.OOV,
				start: j,
				back:  0,
			})
		}
	}

	final := d.shrink(beams, from, to)
	var out []Term
	end := to
	for cur := final[0]; cur.start >= 0; cur = beams[cur.start-from][cur.back] {
		out = append(out, newTerm(s, cur.start, end, cur.id))
		end = cur.start
	}

	for l, r := 0, len(out)-1; l < r; l, r = l+1, r-1 {
		out[l], out[r] = out[r], out[l]
	}
	return out
}

// shrink orders the beam at token position at by cost and keeps the best
// beamSize paths. Equal costs prefer the path whose first differing word
// is longer.
func (d *Dictionary) shrink(beams [][]node, from, at int) []node {
	beam := beams[at-from]
	ends := make([][]int, len(beam))
	for k, nd := range beam {
		ends[k] = pathEnds(beams, from, at, nd)
	}

	order := make([]int, len(beam))
	for k := range order {
		order[k] = k
	}
	sort.SliceStable(order, func(a, b int) bool {
		x, y := order[a], order[b]
		if beam[x].cost != beam[y].cost {
			return beam[x].cost < beam[y].cost
		}
		return longerFirst(ends[x], ends[y])
	})

	if len(order) > d.beamSize {
		order = order[:d.beamSize]
	}
	out := make([]node, len(order))
	for k, idx := range order {
		out[k] = beam[idx]
	}
	return out
}

// pathEnds returns the token positions where the words of the path ending
// in nd at position at end, left to right.
func pathEnds(beams [][]node, from, at int, nd node) []int {
	var ends []int
	for cur, end := nd, at; cur.start >= 0; cur = beams[cur.start-from][cur.back] {
		ends = append(ends, end)
		end = cur.start
	}
	slices.Reverse(ends)
	return ends
}

// longerFirst reports whether the first word where a and b differ ends
// later in a.
func longerFirst(a, b []int) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] > b[i]
		}
	}
	return false
}

// extend returns the cheapest way to append word id to a path in beam.
func (d *Dictionary) extend(beam []node, id lexicon.TermID) (float64, int) {
	best, back := 0.0, -1
	for k, left := range beam {
		c := d.pathCost(left, id)
		if back < 0 || c < best {
			best, back = c, k
		}
	}
	return best, back
}

// pathCost scores word right after left. A known bigram replaces the
// unigram cost of left with the joint cost of the pair.
func (d *Dictionary) pathCost(left node, right lexicon.TermID) float64 {
	if c, ok := d.bigrams.Cost(left.id, right); ok {
		return left.cost + c - d.lex.Cost(left.id)
	}
	return left.cost + d.lex.Cost(right)
}
