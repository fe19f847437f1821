package postag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamesainslie/go-milkcat/crf"
	"github.com/jamesainslie/go-milkcat/hmm"
	"github.com/jamesainslie/go-milkcat/lexicon"
	"github.com/jamesainslie/go-milkcat/segment"
	"github.com/jamesainslie/go-milkcat/tokenizer"
)

var tagSet = []string{"NN", "VV", "PN", "PU", "CD"}

func testLexicon(t *testing.T) *lexicon.Lexicon {
	t.Helper()
	lex, err := lexicon.New([]lexicon.Entry{
		{Word: "我", Cost: 5, Tags: []lexicon.TagCost{{Tag: "PN", Cost: 0}}},
		{Word: "爱", Cost: 6, Tags: []lexicon.TagCost{{Tag: "NN", Cost: 3}, {Tag: "VV", Cost: 0}}},
		{Word: "北京", Cost: 8, Tags: []lexicon.TagCost{{Tag: "NN", Cost: 0}}},
	})
	require.NoError(t, err)
	return lex
}

func testHMM(t *testing.T) *hmm.Model {
	t.Helper()
	m, err := hmm.New(tagSet, nil, nil, nil, 0)
	require.NoError(t, err)
	return m
}

func testCRF(t *testing.T) *crf.Model {
	t.Helper()
	m, err := crf.New(tagSet, 3, []string{"U00:%x[0,0]", "U01:%x[0,2]"}, map[string][]float64{
		"U00:龘": {0, 5, 0, 0, 0},
		"U01:京": {5, 0, 0, 0, 0},
		"U00:.":  {0, 0, 0, 5, 0},
		"U00:1":  {0, 0, 0, 0, 5},
	}, nil)
	require.NoError(t, err)
	return m
}

func terms(t *testing.T, lex *lexicon.Lexicon, text string) []segment.Term {
	t.Helper()
	ss := tokenizer.Split(text)
	require.Len(t, ss, 1)
	return segment.NewDictionary(lex, nil, segment.DefaultBeamSize, segment.DefaultOOVCost).Segment(ss[0])
}

func TestDefaultTags(t *testing.T) {
	d := StandardDefaultTags()
	assert.Equal(t, "CD", d.For(tokenizer.Number))
	assert.Equal(t, "PU", d.For(tokenizer.Period))
	assert.Equal(t, "NN", d.For(tokenizer.Chinese))

	require.NoError(t, d.Set("number", "M"))
	assert.Equal(t, "M", d.For(tokenizer.Number))
	assert.Error(t, d.Set("adverb", "AD"))
}

func TestNewHMM_UnknownTags(t *testing.T) {
	lex, err := lexicon.New([]lexicon.Entry{
		{Word: "的", Tags: []lexicon.TagCost{{Tag: "DEG"}}},
	})
	require.NoError(t, err)

	_, err = NewHMM(testHMM(t), lex, StandardDefaultTags())
	assert.ErrorIs(t, err, ErrUnknownTag)

	defaults := StandardDefaultTags()
	defaults.Other = "X"
	_, err = NewHMM(testHMM(t), testLexicon(t), defaults)
	assert.ErrorIs(t, err, ErrUnknownTag)
}

func TestHMM_Tag(t *testing.T) {
	lex := testLexicon(t)
	h, err := NewHMM(testHMM(t), lex, StandardDefaultTags())
	require.NoError(t, err)

	tags, oov := h.TagOOV(terms(t, lex, "我爱北京龘3。"))
	assert.Equal(t, []string{"PN", "VV", "NN", "NN", "CD", "PU"}, tags)
	assert.Equal(t, []bool{false, false, false, true, false, false}, oov)

	assert.Nil(t, h.Tag(nil))
}

func TestHMM_TransitionsChooseTag(t *testing.T) {
	lex := testLexicon(t)
	trans := make([][]float64, len(tagSet))
	for i := range trans {
		trans[i] = make([]float64, len(tagSet))
	}
	// PN -> VV is expensive enough to prefer the NN reading of 爱.
	trans[2][1] = 10
	m, err := hmm.New(tagSet, nil, trans, nil, 0)
	require.NoError(t, err)

	h, err := NewHMM(m, lex, StandardDefaultTags())
	require.NoError(t, err)
	assert.Equal(t, []string{"PN", "NN"}, h.Tag(terms(t, lex, "我爱")))
}

func TestCRF_Tag(t *testing.T) {
	lex := testLexicon(t)
	c := NewCRF(testCRF(t))

	assert.Equal(t, []string{"VV", "NN", "CD", "PU"}, c.Tag(terms(t, lex, "龘北京3。")))
	assert.Nil(t, c.Tag(nil))
}

func TestWordFeatures(t *testing.T) {
	lex := testLexicon(t)
	ts := terms(t, lex, "北京hello3，")
	require.Len(t, ts, 4)

	assert.Equal(t, []string{"北京", "北", "京"}, wordFeatures(ts[0]))
	assert.Equal(t, []string{"A", "A", "A"}, wordFeatures(ts[1]))
	assert.Equal(t, []string{"1", "1", "1"}, wordFeatures(ts[2]))
	assert.Equal(t, []string{".", ".", "."}, wordFeatures(ts[3]))
}

func TestMixed_Tag(t *testing.T) {
	lex := testLexicon(t)
	h, err := NewHMM(testHMM(t), lex, StandardDefaultTags())
	require.NoError(t, err)

	m := NewMixed(h, NewCRF(testCRF(t)))
	assert.Equal(t, []string{"PN", "VV", "VV", "PU"}, m.Tag(terms(t, lex, "我爱龘。")))
	assert.Equal(t, []string{"PN", "VV", "NN"}, m.Tag(terms(t, lex, "我爱北京")), "no unknown words, HMM only")
}
