package bench

import (
	"context"
	"errors"
	"fmt"
	"sort"

	milkcat "github.com/jamesainslie/go-milkcat"
)

// ErrNoLattice indicates a beam sweep over a processor type that segments
// without the dictionary lattice, where beam size has no effect.
var ErrNoLattice = errors.New("bench: processor type has no dictionary lattice")

// SweepResult holds metrics for one beam size.
type SweepResult struct {
	BeamSize int
	Metrics  Metrics
}

// SweepBeamSizes generates beam sizes from min to max inclusive with given step.
func SweepBeamSizes(min, max, step int) []int {
	if step <= 0 {
		step = 1
	}
	var sizes []int
	for b := min; b <= max; b += step {
		if b > 0 {
			sizes = append(sizes, b)
		}
	}
	return sizes
}

// Sweep evaluates the dictionary lattice at several beam sizes and returns
// results sorted by weighted score, smaller beams first on ties.
func Sweep(ctx context.Context, docs []*Document, model *milkcat.Model, typ milkcat.ProcessorType, cfg Config, sizes []int, opts ...milkcat.Option) ([]SweepResult, error) {
	if typ == milkcat.CRFSegmentOnly || typ == milkcat.CRFSegmentTag {
		return nil, fmt.Errorf("%w: %s", ErrNoLattice, typ)
	}

	var results []SweepResult
	for _, size := range sizes {
		procOpts := append([]milkcat.Option{milkcat.WithBeamSize(size)}, opts...)
		proc, err := milkcat.NewWithModel(model, typ, procOpts...)
		if err != nil {
			return nil, err
		}

		m, err := EvaluateCorpus(ctx, proc, docs, cfg)
		_ = proc.Close()
		if err != nil {
			return nil, err
		}

		results = append(results, SweepResult{
			BeamSize: size,
			Metrics:  m,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Metrics.WeightedScore != results[j].Metrics.WeightedScore {
			return results[i].Metrics.WeightedScore > results[j].Metrics.WeightedScore
		}
		return results[i].BeamSize < results[j].BeamSize
	})

	return results, nil
}
