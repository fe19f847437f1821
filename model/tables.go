package model

import (
	"fmt"
	"sort"

	"github.com/jamesainslie/go-milkcat/crf"
	"github.com/jamesainslie/go-milkcat/hmm"
	"github.com/jamesainslie/go-milkcat/lexicon"
	"github.com/jamesainslie/go-milkcat/postag"
)

// Table stems of a bundle. Each is stored as <stem>.bin, <stem>.bin.zst,
// <stem>.txt or <stem>.txt.zst.
const (
	StemDict        = "dict"
	StemBigram      = "bigram"
	StemCRFSegment  = "crf_seg"
	StemCRFPOS      = "crf_pos"
	StemHMMSegment  = "hmm_seg"
	StemHMMPOS      = "hmm_pos"
	StemOOVProperty = "oov_property"
	StemDefaultTag  = "default_tag"
)

// Stems lists every table stem in compile order.
var Stems = []string{
	StemDict, StemBigram, StemCRFSegment, StemCRFPOS,
	StemHMMSegment, StemHMMPOS, StemOOVProperty, StemDefaultTag,
}

type dictTable struct {
	entries []lexicon.Entry
}

type bigramTable struct {
	pairs []lexicon.Bigram
}

type crfTransition struct {
	from, to string
	weight   float64
}

type crfTable struct {
	columns     int
	labels      []string
	templates   []string
	transitions []crfTransition
	// features maps an expanded feature to one weight per label.
	features map[string][]float64
}

type hmmArc struct {
	from, to string
	cost     float64
}

type hmmEmission struct {
	state, obs string
	cost       float64
}

type hmmTable struct {
	states  []string
	start   map[string]float64
	trans   []hmmArc
	emit    []hmmEmission
	unknown float64
	missing float64
}

type propertyTable struct {
	props map[string]lexicon.Property
}

type keyValue struct {
	key, value string
}

type defaultTagTable struct {
	pairs []keyValue
}

func (t *crfTable) build() (*crf.Model, error) {
	var trans [][]float64
	if len(t.transitions) > 0 {
		index := make(map[string]int, len(t.labels))
		for i, l := range t.labels {
			index[l] = i
		}
		trans = make([][]float64, len(t.labels))
		for i := range trans {
			trans[i] = make([]float64, len(t.labels))
		}
		for _, tr := range t.transitions {
			from, ok := index[tr.from]
			if !ok {
				return nil, fmt.Errorf("%w: transition from unknown label %q", ErrCorruptFormat, tr.from)
			}
			to, ok := index[tr.to]
			if !ok {
				return nil, fmt.Errorf("%w: transition to unknown label %q", ErrCorruptFormat, tr.to)
			}
			trans[from][to] = tr.weight
		}
	}

	m, err := crf.New(t.labels, t.columns, t.templates, t.features, trans)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptFormat, err)
	}
	return m, nil
}

// build resolves state names. Start costs and transitions the table does
// not list cost t.missing.
func (t *hmmTable) build() (*hmm.Model, error) {
	n := len(t.states)
	index := make(map[string]int, n)
	for i, s := range t.states {
		index[s] = i
	}
	lookup := func(s string) (int, error) {
		i, ok := index[s]
		if !ok {
			return 0, fmt.Errorf("%w: unknown state %q", ErrCorruptFormat, s)
		}
		return i, nil
	}

	start := make([]float64, n)
	for i := range start {
		start[i] = t.missing
	}
	for s, c := range t.start {
		i, err := lookup(s)
		if err != nil {
			return nil, err
		}
		start[i] = c
	}

	trans := make([][]float64, n)
	for i := range trans {
		trans[i] = make([]float64, n)
		for j := range trans[i] {
			trans[i][j] = t.missing
		}
	}
	for _, a := range t.trans {
		from, err := lookup(a.from)
		if err != nil {
			return nil, err
		}
		to, err := lookup(a.to)
		if err != nil {
			return nil, err
		}
		trans[from][to] = a.cost
	}

	emit := make([]map[string]float64, n)
	for i := range emit {
		emit[i] = make(map[string]float64)
	}
	for _, e := range t.emit {
		s, err := lookup(e.state)
		if err != nil {
			return nil, err
		}
		emit[s][e.obs] = e.cost
	}

	m, err := hmm.New(t.states, start, trans, emit, t.unknown)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptFormat, err)
	}
	return m, nil
}

func (t *defaultTagTable) build() (postag.DefaultTags, error) {
	d := postag.StandardDefaultTags()
	for _, kv := range t.pairs {
		if err := d.Set(kv.key, kv.value); err != nil {
			return postag.DefaultTags{}, fmt.Errorf("%w: %w", ErrCorruptFormat, err)
		}
	}
	return d, nil
}

// sortedStarts returns the start costs sorted by state name.
func (t *hmmTable) sortedStarts() []keyCost {
	out := make([]keyCost, 0, len(t.start))
	for s, c := range t.start {
		out = append(out, keyCost{key: s, cost: c})
	}
	sort.Slice(out, func(a, b int) bool { return out[a].key < out[b].key })
	return out
}

type keyCost struct {
	key  string
	cost float64
}
