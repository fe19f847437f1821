// Package hmm implements first-order hidden Markov model decoding over
// negative log-probability costs. Lower cost is better.
package hmm

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidModel indicates inconsistent model dimensions.
var ErrInvalidModel = errors.New("hmm: invalid model")

// Impossible is the cost of a transition or start the model never saw.
var Impossible = math.Inf(1)

// Model is a trained HMM. It is immutable after New and safe for concurrent use.
type Model struct {
	States []string

	// Start is the cost of starting in each state.
	Start []float64

	// Trans holds the cost of moving from state i to state j.
	Trans [][]float64

	// Emit holds per-state observation costs.
	Emit []map[string]float64

	// Unknown is the emission cost of an observation missing from Emit.
	Unknown float64

	stateIDs map[string]int
}

// Candidate is one allowed state at a lattice position together with its
// emission cost.
type Candidate struct {
	State int
	Cost  float64
}

// New validates a model. Nil start, trans or emit default to zero costs and
// empty emission tables.
func New(states []string, start []float64, trans [][]float64, emit []map[string]float64, unknown float64) (*Model, error) {
	n := len(states)
	if n == 0 {
		return nil, fmt.Errorf("%w: no states", ErrInvalidModel)
	}

	m := &Model{
		States:   states,
		Start:    start,
		Trans:    trans,
		Emit:     emit,
		Unknown:  unknown,
		stateIDs: make(map[string]int, n),
	}
	for i, s := range states {
		if _, dup := m.stateIDs[s]; dup {
			return nil, fmt.Errorf("%w: duplicate state %q", ErrInvalidModel, s)
		}
		m.stateIDs[s] = i
	}

	if m.Start == nil {
		m.Start = make([]float64, n)
	}
	if len(m.Start) != n {
		return nil, fmt.Errorf("%w: %d start costs for %d states", ErrInvalidModel, len(m.Start), n)
	}

	if m.Trans == nil {
		m.Trans = make([][]float64, n)
		for i := range m.Trans {
			m.Trans[i] = make([]float64, n)
		}
	}
	if len(m.Trans) != n {
		return nil, fmt.Errorf("%w: transition matrix has %d rows, want %d", ErrInvalidModel, len(m.Trans), n)
	}
	for i, row := range m.Trans {
		if len(row) != n {
			return nil, fmt.Errorf("%w: transition row %d has %d columns, want %d", ErrInvalidModel, i, len(row), n)
		}
	}

	if m.Emit == nil {
		m.Emit = make([]map[string]float64, n)
	}
	if len(m.Emit) != n {
		return nil, fmt.Errorf("%w: %d emission tables for %d states", ErrInvalidModel, len(m.Emit), n)
	}

	return m, nil
}

// StateID returns the id of state, or -1.
func (m *Model) StateID(state string) int {
	if id, ok := m.stateIDs[state]; ok {
		return id
	}
	return -1
}

// Emission returns the cost of state emitting obs, falling back to Unknown.
func (m *Model) Emission(state int, obs string) float64 {
	if c, ok := m.Emit[state][obs]; ok {
		return c
	}
	return m.Unknown
}

// Decode returns the cheapest path through lattice, one chosen candidate
// index per position. Every position must hold at least one candidate.
// Equal costs resolve to the earlier candidate.
func (m *Model) Decode(lattice [][]Candidate) []int {
	n := len(lattice)
	if n == 0 {
		return nil
	}

	cost := make([][]float64, n)
	back := make([][]int, n)

	cost[0] = make([]float64, len(lattice[0]))
	back[0] = make([]int, len(lattice[0]))
	for c, cand := range lattice[0] {
		cost[0][c] = m.Start[cand.State] + cand.Cost
	}

	for i := 1; i < n; i++ {
		prev := lattice[i-1]
		cost[i] = make([]float64, len(lattice[i]))
		back[i] = make([]int, len(lattice[i]))
		for c, cand := range lattice[i] {
			best := math.Inf(1)
			bestPrev := 0
			for p, pc := range prev {
				s := cost[i-1][p] + m.Trans[pc.State][cand.State]
				if s < best {
					best = s
					bestPrev = p
				}
			}
			cost[i][c] = best + cand.Cost
			back[i][c] = bestPrev
		}
	}

	last := cost[n-1]
	best := 0
	for c := 1; c < len(last); c++ {
		if last[c] < last[best] {
			best = c
		}
	}

	path := make([]int, n)
	for i := n - 1; i >= 0; i-- {
		path[i] = best
		best = back[i][best]
	}
	return path
}

// DecodeObservations decodes obs over every state and returns state ids.
func (m *Model) DecodeObservations(obs []string) []int {
	lattice := make([][]Candidate, len(obs))
	for i, o := range obs {
		row := make([]Candidate, len(m.States))
		for s := range m.States {
			row[s] = Candidate{State: s, Cost: m.Emission(s, o)}
		}
		lattice[i] = row
	}

	// Candidate index equals state id in a full lattice.
	return m.Decode(lattice)
}

// StateNames maps state ids to names.
func (m *Model) StateNames(ids []int) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = m.States[id]
	}
	return out
}
