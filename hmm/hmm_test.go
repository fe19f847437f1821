package hmm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// weather is the textbook two-state model with costs in place of probabilities.
func weather(t *testing.T) *Model {
	t.Helper()
	m, err := New(
		[]string{"rain", "sun"},
		[]float64{1, 2},
		[][]float64{
			{1, 4},
			{4, 1},
		},
		[]map[string]float64{
			{"umbrella": 0, "walk": 4},
			{"umbrella": 4, "walk": 0},
		},
		10,
	)
	require.NoError(t, err)
	return m
}

func TestNew_Errors(t *testing.T) {
	_, err := New(nil, nil, nil, nil, 0)
	assert.ErrorIs(t, err, ErrInvalidModel)

	_, err = New([]string{"a", "a"}, nil, nil, nil, 0)
	assert.ErrorIs(t, err, ErrInvalidModel)

	_, err = New([]string{"a", "b"}, []float64{0}, nil, nil, 0)
	assert.ErrorIs(t, err, ErrInvalidModel)

	_, err = New([]string{"a", "b"}, nil, [][]float64{{0, 0}, {0}}, nil, 0)
	assert.ErrorIs(t, err, ErrInvalidModel)
}

func TestDecodeObservations(t *testing.T) {
	m := weather(t)

	got := m.StateNames(m.DecodeObservations([]string{"umbrella", "umbrella", "walk", "walk"}))
	assert.Equal(t, []string{"rain", "rain", "sun", "sun"}, got)

	assert.Nil(t, m.DecodeObservations(nil))
}

func TestDecodeObservations_StickyTransitions(t *testing.T) {
	m := weather(t)

	// A single contrary observation is not worth two expensive switches.
	got := m.StateNames(m.DecodeObservations([]string{"walk", "walk", "umbrella", "walk", "walk"}))
	assert.Equal(t, []string{"sun", "sun", "sun", "sun", "sun"}, got)
}

func TestEmission_Unknown(t *testing.T) {
	m := weather(t)

	assert.Equal(t, 0.0, m.Emission(0, "umbrella"))
	assert.Equal(t, 10.0, m.Emission(0, "snow"))
}

func TestDecode_ConstrainedLattice(t *testing.T) {
	m := weather(t)

	// Position 1 may only be rain; the path must route through it.
	path := m.Decode([][]Candidate{
		{{State: 0, Cost: 4}, {State: 1, Cost: 0}},
		{{State: 0, Cost: 0}},
		{{State: 0, Cost: 4}, {State: 1, Cost: 0}},
	})
	require.Len(t, path, 3)
	assert.Equal(t, 0, path[1])
}

func TestDecode_TiesPickFirstCandidate(t *testing.T) {
	m, err := New([]string{"x", "y"}, nil, nil, nil, 0)
	require.NoError(t, err)

	path := m.Decode([][]Candidate{
		{{State: 1, Cost: 1}, {State: 0, Cost: 1}},
		{{State: 0, Cost: 0}, {State: 1, Cost: 0}},
	})
	assert.Equal(t, []int{0, 0}, path)
}

func TestDecode_ImpossibleTransitions(t *testing.T) {
	m, err := New(
		[]string{"B", "E", "S"},
		[]float64{0, Impossible, 0},
		[][]float64{
			{Impossible, 0, Impossible},
			{Impossible, Impossible, 0},
			{0, Impossible, 0},
		},
		[]map[string]float64{{"a": 0}, {"b": 0}, {}},
		5,
	)
	require.NoError(t, err)

	got := m.StateNames(m.DecodeObservations([]string{"a", "b", "c"}))
	assert.Equal(t, []string{"B", "E", "S"}, got)
}
