package crf

import (
	"math"
	"strings"
)

// Decode returns the highest scoring label sequence for obs, where obs[i]
// holds the observation columns of position i. Equal scores resolve to the
// lower label id, so decoding is deterministic.
func (m *Model) Decode(obs [][]string) []int {
	n := len(obs)
	if n == 0 {
		return nil
	}
	k := len(m.Labels)

	// score[i*k+y] = best score of a path ending in label y at position i
	score := make([]float64, n*k)
	// back[i*k+y] = label at i-1 on that path
	back := make([]int, n*k)
	unary := make([]float64, k)

	var b strings.Builder
	m.unary(&b, obs, 0, unary)
	copy(score[:k], unary)

	for i := 1; i < n; i++ {
		m.unary(&b, obs, i, unary)
		prev := score[(i-1)*k : i*k]
		for y := 0; y < k; y++ {
			best := math.Inf(-1)
			bestPrev := 0
			for yp := 0; yp < k; yp++ {
				s := prev[yp] + m.Transitions[yp][y]
				if s > best {
					best = s
					bestPrev = yp
				}
			}
			score[i*k+y] = best + unary[y]
			back[i*k+y] = bestPrev
		}
	}

	last := score[(n-1)*k:]
	bestLabel := 0
	for y := 1; y < k; y++ {
		if last[y] > last[bestLabel] {
			bestLabel = y
		}
	}

	labels := make([]int, n)
	for i := n - 1; i >= 0; i-- {
		labels[i] = bestLabel
		bestLabel = back[i*k+bestLabel]
	}
	return labels
}

// DecodeLabels is Decode returning label names.
func (m *Model) DecodeLabels(obs [][]string) []string {
	ids := m.Decode(obs)
	if ids == nil {
		return nil
	}
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = m.Labels[id]
	}
	return out
}

// Single wraps one-column observations (one string per position) for Decode.
func Single(values []string) [][]string {
	obs := make([][]string, len(values))
	for i, v := range values {
		obs[i] = []string{v}
	}
	return obs
}
