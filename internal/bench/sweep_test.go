package bench

import (
	"context"
	"errors"
	"reflect"
	"testing"

	milkcat "github.com/jamesainslie/go-milkcat"
)

func TestSweepBeamSizes(t *testing.T) {
	tests := []struct {
		min, max, step int
		want           []int
	}{
		{1, 5, 2, []int{1, 3, 5}},
		{0, 3, 1, []int{1, 2, 3}},
		{2, 4, 0, []int{2, 3, 4}},
		{5, 1, 1, nil},
	}

	for _, tt := range tests {
		got := SweepBeamSizes(tt.min, tt.max, tt.step)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("SweepBeamSizes(%d, %d, %d) = %v, want %v", tt.min, tt.max, tt.step, got, tt.want)
		}
	}
}

func TestSweep(t *testing.T) {
	model, err := milkcat.OpenModel(testModelPath)
	if err != nil {
		t.Fatalf("OpenModel() error = %v", err)
	}
	docs, err := LoadCorpus("../../testdata/corpus")
	if err != nil {
		t.Fatalf("LoadCorpus() error = %v", err)
	}

	results, err := Sweep(context.Background(), docs, model, milkcat.HMMSegmentTag, DefaultConfig(), []int{3, 1})
	if err != nil {
		t.Fatalf("Sweep() error = %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	first, second := results[0], results[1]
	if first.Metrics.WeightedScore < second.Metrics.WeightedScore {
		t.Errorf("results not sorted by score: %+v", results)
	}
	if first.Metrics.WeightedScore == second.Metrics.WeightedScore && first.BeamSize != 1 {
		t.Errorf("tie should list the smaller beam first, got %d", first.BeamSize)
	}
}

func TestSweep_RejectsCharacterTypes(t *testing.T) {
	model, err := milkcat.OpenModel(testModelPath)
	if err != nil {
		t.Fatalf("OpenModel() error = %v", err)
	}

	for _, typ := range []milkcat.ProcessorType{milkcat.CRFSegmentOnly, milkcat.CRFSegmentTag} {
		results, err := Sweep(context.Background(), nil, model, typ, DefaultConfig(), []int{1, 2})
		if !errors.Is(err, ErrNoLattice) {
			t.Errorf("Sweep(%s) error = %v, want ErrNoLattice", typ, err)
		}
		if results != nil {
			t.Errorf("Sweep(%s) = %v, want no results", typ, results)
		}
	}
}
