package postag

import "github.com/jamesainslie/go-milkcat/segment"

// Mixed tags with the HMM and replaces the tags of unknown Chinese words
// with the CRF tags of the same sentence.
type Mixed struct {
	hmm *HMM
	crf *CRF
}

// NewMixed returns a mixed tagger.
func NewMixed(h *HMM, c *CRF) *Mixed {
	return &Mixed{hmm: h, crf: c}
}

// Tag implements Tagger.
func (m *Mixed) Tag(terms []segment.Term) []string {
	tags, oov := m.hmm.TagOOV(terms)

	var fallback []string
	for i, unknown := range oov {
		if !unknown {
			continue
		}
		if fallback == nil {
			fallback = m.crf.Tag(terms)
		}
		tags[i] = fallback[i]
	}
	return tags
}
