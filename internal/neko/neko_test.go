package neko

import (
	"context"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	milkcat "github.com/jamesainslie/go-milkcat"
	"github.com/jamesainslie/go-milkcat/lexicon"
	"github.com/jamesainslie/go-milkcat/segment"
)

const fixture = "../../testdata/model"

const namesModel = `# label feature weight
F E:京 1
T B:王 2
F B:王 0.5
T M:小 1
`

func testNames(t *testing.T) *Maxent {
	t.Helper()
	m, err := LoadMaxent(strings.NewReader(namesModel))
	require.NoError(t, err)
	return m
}

func testLexicon(t *testing.T, words ...string) *lexicon.Lexicon {
	t.Helper()
	entries := make([]lexicon.Entry, len(words))
	for i, w := range words {
		entries[i] = lexicon.Entry{Word: w, Cost: 5}
	}
	lex, err := lexicon.New(entries)
	require.NoError(t, err)
	return lex
}

func TestMaxent_Classify(t *testing.T) {
	m := testNames(t)

	assert.Equal(t, "T", m.Classify(NameFeatures("王小明")))
	assert.Equal(t, "F", m.Classify(NameFeatures("北京")))
	assert.Equal(t, "F", m.Classify(NameFeatures("新词")), "unknown features tie to the first label")
	assert.Equal(t, "F", m.Classify(nil))
}

func TestLoadMaxent_Corrupt(t *testing.T) {
	for _, text := range []string{
		"T B:王\n",
		"T B:王 heavy\n",
		"# comments only\n\n",
	} {
		_, err := LoadMaxent(strings.NewReader(text))
		assert.ErrorIs(t, err, ErrCorruptMaxent, "model %q", text)
	}
}

func TestNameFeatures(t *testing.T) {
	assert.Equal(t, []string{"B:王", "E:明", "M:小"}, NameFeatures("王小明"))
	assert.Equal(t, []string{"B:王", "E:王"}, NameFeatures("王"))
	assert.Nil(t, NameFeatures(""))
}

func TestThreshold(t *testing.T) {
	assert.Equal(t, 2, Threshold(0))
	assert.Equal(t, 41, Threshold(10_000_000))
}

func TestCandidates(t *testing.T) {
	v := &Vocabulary{
		Counts: map[string]int{"王小明": 3, "北京": 5, "新词": 4, "罕见": 1, NotChinese: 9},
		Total:  22,
	}
	lex := testLexicon(t, "北京")

	got, filtered := Candidates(v, lex, testNames(t), 2)
	assert.Equal(t, 1, filtered)
	require.Len(t, got, 1)
	assert.InDelta(t, -math.Log(4.0/22), got["新词"], 1e-9)

	got, filtered = Candidates(v, lex, nil, 2)
	assert.Equal(t, 0, filtered)
	assert.ElementsMatch(t, []string{"王小明", "新词"}, sortedKeys(got))
}

type fixedAnalyzer map[string][]milkcat.Token

func (f fixedAnalyzer) Analyze(_ context.Context, text string) ([]milkcat.Token, error) {
	return f[text], nil
}

func TestCountWords(t *testing.T) {
	a := fixedAnalyzer{
		"我 go": {
			{Word: "我", Type: milkcat.ChineseWord},
			{Word: " ", Type: milkcat.Space},
			{Word: "go", Type: milkcat.EnglishWord},
		},
		"我们": {{Word: "我们", Type: milkcat.ChineseWord}},
	}

	v, err := CountWords(context.Background(), a, []string{"我 go", "我们", "我 go"})
	require.NoError(t, err)
	assert.Equal(t, 5, v.Total)
	assert.Equal(t, map[string]int{"我": 2, NotChinese: 2, "我们": 1}, v.Counts)
}

func TestAdjacentEntropy(t *testing.T) {
	lex := testLexicon(t, "我", "爱", "你", "新词")
	seg := segment.NewDictionary(lex, nil, segment.DefaultBeamSize, segment.DefaultOOVCost)
	lines := []string{"我新词", "你新词爱", "新词我", "hello 我"}
	candidates := map[string]float64{"新词": 1, "没见过": 1}

	entropy, v, err := AdjacentEntropy(context.Background(), seg, lines, candidates, 2)
	require.NoError(t, err)

	assert.InDelta(t, math.Log(2), entropy["新词"], 1e-9)
	assert.Equal(t, 0.0, entropy["没见过"])
	assert.Equal(t, 9, v.Total)
	assert.Equal(t, 3, v.Counts["新词"])
	assert.Equal(t, 1, v.Counts[NotChinese])

	mi := MutualInformation(v, candidates)
	assert.InDelta(t, 2*math.Log(9)-math.Log(9.0/3), mi["新词"], 1e-9)
	assert.NotContains(t, mi, "没见过")
}

func TestAdjacentEntropy_Cancelled(t *testing.T) {
	seg := segment.NewDictionary(testLexicon(t, "我"), nil, 1, segment.DefaultOOVCost)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := AdjacentEntropy(ctx, seg, []string{"我", "我"}, nil, 1)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRank(t *testing.T) {
	entropy := map[string]float64{"甲": 1, "乙": 0, "丙": 2}
	mi := map[string]float64{"甲": 1, "乙": 3, "丁": 5}

	got := Rank(entropy, mi)
	require.Len(t, got, 2)
	assert.Equal(t, Scored{Word: "乙", Entropy: 0, MI: 3, Score: 1}, got[0])
	assert.Equal(t, Scored{Word: "甲", Entropy: 1, MI: 1, Score: 1}, got[1])

	assert.Nil(t, Rank(entropy, nil))
}

func TestDiscover(t *testing.T) {
	lines := []string{"王小明", "王小明", "北京上海", "王小明"}

	res, err := Discover(context.Background(), fixture, lines, WithThreshold(2), WithWorkers(2))
	require.NoError(t, err)

	assert.Equal(t, 2, res.Threshold)
	assert.Equal(t, 5, res.CRFVocabulary.Total)
	assert.Equal(t, []string{"王小明"}, sortedKeys(res.Candidates))
	assert.InDelta(t, 0.0, res.Entropy["王小明"], 1e-9)
	assert.InDelta(t, 2*math.Log(5)-math.Log(5.0/3), res.MI["王小明"], 1e-9)
	require.Len(t, res.Ranked, 1)
	assert.Equal(t, "王小明", res.Ranked[0].Word)
}

func TestDiscover_FiltersNames(t *testing.T) {
	lines := []string{"王小明", "王小明", "王小明"}

	res, err := Discover(context.Background(), fixture, lines,
		WithThreshold(2), WithNameClassifier(testNames(t)))
	require.NoError(t, err)

	assert.Empty(t, res.Candidates)
	assert.Equal(t, 1, res.NamesFiltered)
	assert.Empty(t, res.Ranked)
}

func TestDiscover_MissingModel(t *testing.T) {
	_, err := Discover(context.Background(), t.TempDir(), []string{"我"})
	assert.ErrorIs(t, err, milkcat.ErrMissingFile)
}
