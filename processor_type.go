package milkcat

import (
	"fmt"
	"strings"
)

// ProcessorType selects the pipeline a Processor runs.
type ProcessorType int

const (
	// PlainSegmentTag segments by dictionary and bigram lattice, recognizes
	// unknown words with the CRF and tags with the HMM, falling back to the
	// CRF tagger for unknown words.
	PlainSegmentTag ProcessorType = iota

	// CRFSegmentOnly segments with the character CRF and does not tag.
	CRFSegmentOnly

	// CRFSegmentTag segments with the character CRF and tags with the POS CRF.
	CRFSegmentTag

	// HMMSegmentTag segments by dictionary, recognizes unknown words with the
	// character HMM and tags with the HMM.
	HMMSegmentTag
)

var processorTypeNames = [...]string{
	PlainSegmentTag: "plain",
	CRFSegmentOnly:  "crf-seg",
	CRFSegmentTag:   "crf",
	HMMSegmentTag:   "hmm",
}

func (t ProcessorType) String() string {
	if t.valid() {
		return processorTypeNames[t]
	}
	return fmt.Sprintf("ProcessorType(%d)", int(t))
}

func (t ProcessorType) valid() bool {
	return t >= PlainSegmentTag && t <= HMMSegmentTag
}

// Tags reports whether processors of this type produce POS tags.
func (t ProcessorType) Tags() bool {
	return t != CRFSegmentOnly
}

// ParseProcessorType parses a name as returned by String.
func ParseProcessorType(s string) (ProcessorType, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for t, n := range processorTypeNames {
		if n == name {
			return ProcessorType(t), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownProcessorType, s)
}
