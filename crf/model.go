// Package crf implements linear-chain conditional random field decoding with
// CRF++ style unigram feature templates and a label transition matrix.
package crf

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidModel indicates inconsistent model dimensions or templates.
var ErrInvalidModel = errors.New("crf: invalid model")

// Model is a trained linear-chain CRF. Scores are weights: higher is better.
// A Model is immutable after New and safe for concurrent use.
type Model struct {
	// Labels are the output labels, indexed by label id.
	Labels []string

	// Columns is the number of observation columns per position.
	Columns int

	// Templates are the unigram feature templates, e.g. "U00:%x[0,0]".
	Templates []string

	// Features maps an expanded feature string to one weight per label.
	Features map[string][]float64

	// Transitions holds the weight of moving from label i to label j.
	Transitions [][]float64

	compiled []template
	labelIDs map[string]int
}

// New validates and compiles a model. A nil transitions matrix means no
// transition features.
func New(labels []string, columns int, templates []string, features map[string][]float64, transitions [][]float64) (*Model, error) {
	if len(labels) == 0 {
		return nil, fmt.Errorf("%w: no labels", ErrInvalidModel)
	}
	if columns <= 0 {
		return nil, fmt.Errorf("%w: columns must be positive, got %d", ErrInvalidModel, columns)
	}

	m := &Model{
		Labels:      labels,
		Columns:     columns,
		Templates:   templates,
		Features:    features,
		Transitions: transitions,
		labelIDs:    make(map[string]int, len(labels)),
	}
	if m.Features == nil {
		m.Features = make(map[string][]float64)
	}

	for i, l := range labels {
		if _, dup := m.labelIDs[l]; dup {
			return nil, fmt.Errorf("%w: duplicate label %q", ErrInvalidModel, l)
		}
		m.labelIDs[l] = i
	}

	for _, raw := range templates {
		t, err := parseTemplate(raw, columns)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidModel, err)
		}
		m.compiled = append(m.compiled, t)
	}

	for key, w := range m.Features {
		if len(w) != len(labels) {
			return nil, fmt.Errorf("%w: feature %q has %d weights, want %d", ErrInvalidModel, key, len(w), len(labels))
		}
	}

	if m.Transitions == nil {
		m.Transitions = make([][]float64, len(labels))
		for i := range m.Transitions {
			m.Transitions[i] = make([]float64, len(labels))
		}
	}
	if len(m.Transitions) != len(labels) {
		return nil, fmt.Errorf("%w: transition matrix has %d rows, want %d", ErrInvalidModel, len(m.Transitions), len(labels))
	}
	for i, row := range m.Transitions {
		if len(row) != len(labels) {
			return nil, fmt.Errorf("%w: transition row %d has %d columns, want %d", ErrInvalidModel, i, len(row), len(labels))
		}
	}

	return m, nil
}

// LabelID returns the id of label, or -1.
func (m *Model) LabelID(label string) int {
	if id, ok := m.labelIDs[label]; ok {
		return id
	}
	return -1
}

// Label returns the name of label id.
func (m *Model) Label(id int) string {
	return m.Labels[id]
}

// unary returns the emission score of every label at pos into scores.
func (m *Model) unary(b *strings.Builder, obs [][]string, pos int, scores []float64) {
	for y := range scores {
		scores[y] = 0
	}
	for _, t := range m.compiled {
		w, ok := m.Features[t.expand(b, obs, pos)]
		if !ok {
			continue
		}
		for y := range scores {
			scores[y] += w[y]
		}
	}
}
