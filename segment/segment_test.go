package segment

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamesainslie/go-milkcat/crf"
	"github.com/jamesainslie/go-milkcat/hmm"
	"github.com/jamesainslie/go-milkcat/lexicon"
	"github.com/jamesainslie/go-milkcat/tokenizer"
)

func testLexicon(t *testing.T) *lexicon.Lexicon {
	t.Helper()
	lex, err := lexicon.New([]lexicon.Entry{
		{Word: "北京", Cost: 8},
		{Word: "北京大学", Cost: 10},
		{Word: "大学", Cost: 7},
		{Word: "大学生", Cost: 9},
		{Word: "学生", Cost: 6},
		{Word: "生", Cost: 12},
		{Word: "上海", Cost: 8},
		{Word: "hello", Cost: 5},
		{Word: "world", Cost: 5},
		{Word: "hello world", Cost: 1},
		{Word: "我", Cost: 5},
	})
	require.NoError(t, err)
	return lex
}

// sentence returns the single sentence of text.
func sentence(t *testing.T, text string) tokenizer.Sentence {
	t.Helper()
	ss := tokenizer.Split(text)
	require.Len(t, ss, 1)
	return ss[0]
}

func texts(terms []Term) []string {
	out := make([]string, len(terms))
	for i, term := range terms {
		out[i] = term.Text
	}
	return out
}

// assertTiles checks the terms cover the sentence without gaps or overlaps.
func assertTiles(t *testing.T, s tokenizer.Sentence, terms []Term) {
	t.Helper()
	var b strings.Builder
	pos, tok := s.Start, 0
	for _, term := range terms {
		assert.Equal(t, pos, term.Start, "term %q start", term.Text)
		assert.Equal(t, tok, term.From, "term %q first token", term.Text)
		pos, tok = term.End, term.To
		b.WriteString(term.Text)
	}
	assert.Equal(t, s.End, pos)
	assert.Equal(t, s.Len(), tok)
	assert.Equal(t, s.Text, b.String())
}

func TestDictionary_Segment(t *testing.T) {
	lex := testLexicon(t)
	d := NewDictionary(lex, nil, DefaultBeamSize, DefaultOOVCost)

	tests := []struct {
		name string
		text string
		want []string
	}{
		{"single english word", "hello", []string{"hello"}},
		{"two known words", "北京上海", []string{"北京", "上海"}},
		{"longest match wins without overlap", "北京大学", []string{"北京大学"}},
		{"overlap resolved by cost", "北京大学生", []string{"北京", "大学生"}},
		{"single unknown character", "龘", []string{"龘"}},
		{"unknown and known mixed", "我有3个apple", []string{"我", "有", "3", "个", "apple"}},
		{"spaces never match", "hello world", []string{"hello", " ", "world"}},
		{"fullwidth folds to dictionary", "ｈｅｌｌｏ", []string{"ｈｅｌｌｏ"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := sentence(t, tt.text)
			terms := d.Segment(s)
			assert.Equal(t, tt.want, texts(terms))
			assertTiles(t, s, terms)
		})
	}
}

func TestDictionary_TermIDs(t *testing.T) {
	lex := testLexicon(t)
	d := NewDictionary(lex, nil, DefaultBeamSize, DefaultOOVCost)

	terms := d.Segment(sentence(t, "ｈｅｌｌｏ龘"))
	require.Len(t, terms, 2)
	assert.Equal(t, lex.Lookup("hello"), terms[0].ID)
	assert.Equal(t, tokenizer.English, terms[0].Kind)
	assert.Equal(t, lexicon.OOV, terms[1].ID)
	assert.Equal(t, tokenizer.Chinese, terms[1].Kind)
}

func TestDictionary_BigramChangesResult(t *testing.T) {
	lex := testLexicon(t)
	bigrams, err := lexicon.NewBigrams(lex, []lexicon.Bigram{
		{Left: "北京大学", Right: "生", Cost: 1},
	})
	require.NoError(t, err)

	d := NewDictionary(lex, bigrams, DefaultBeamSize, DefaultOOVCost)
	assert.Equal(t, []string{"北京大学", "生"}, texts(d.Segment(sentence(t, "北京大学生"))))
}

func TestDictionary_Empty(t *testing.T) {
	d := NewDictionary(testLexicon(t), nil, 0, DefaultOOVCost)
	assert.Nil(t, d.Segment(tokenizer.Sentence{}))
}

func TestDictionary_Deterministic(t *testing.T) {
	d := NewDictionary(testLexicon(t), nil, 1, DefaultOOVCost)
	s := sentence(t, "北京大学生在上海学生")

	first := d.Segment(s)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, d.Segment(s))
	}
}

func TestDictionary_TiePrefersLongerFirstWord(t *testing.T) {
	lex, err := lexicon.New([]lexicon.Entry{
		{Word: "甲乙", Cost: 5},
		{Word: "乙丙", Cost: 5},
		{Word: "甲", Cost: 5},
		{Word: "丙", Cost: 5},
	})
	require.NoError(t, err)

	for _, beam := range []int{1, 2, 3, 8} {
		d := NewDictionary(lex, nil, beam, DefaultOOVCost)
		s := sentence(t, "甲乙丙")
		terms := d.Segment(s)
		assert.Equal(t, []string{"甲乙", "丙"}, texts(terms), "beam %d", beam)
		assertTiles(t, s, terms)
	}
}

func TestDictionary_TieInsideLongerRegion(t *testing.T) {
	lex, err := lexicon.New([]lexicon.Entry{
		{Word: "我", Cost: 1},
		{Word: "甲乙", Cost: 5},
		{Word: "乙丙", Cost: 5},
		{Word: "甲", Cost: 5},
		{Word: "丙", Cost: 5},
	})
	require.NoError(t, err)

	d := NewDictionary(lex, nil, DefaultBeamSize, DefaultOOVCost)
	terms := d.Segment(sentence(t, "我甲乙丙我"))
	assert.Equal(t, []string{"我", "甲乙", "丙", "我"}, texts(terms))
}

// fixedTagger returns preset labels, truncated to the observation count.
type fixedTagger struct {
	labels []string
	calls  int
}

func (f *fixedTagger) TagChars(obs []string) []string {
	f.calls++
	return f.labels[:len(obs)]
}

// oneWord labels every observation as part of a single word.
type oneWord struct{ calls int }

func (o *oneWord) TagChars(obs []string) []string {
	o.calls++
	labels := make([]string, len(obs))
	for i := range labels {
		labels[i] = "M"
	}
	labels[0] = "B"
	labels[len(labels)-1] = "E"
	return labels
}

func TestCharSegmenter_Segment(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		labels []string
		want   []string
	}{
		{"bmes", "我爱北京。", []string{"S", "S", "B", "E", "S"}, []string{"我", "爱", "北京", "。"}},
		{"trailing open word", "我爱北京", []string{"S", "S", "B", "M"}, []string{"我", "爱", "北京"}},
		{"b1 b2 labels", "中华人民", []string{"B", "B1", "B2", "E"}, []string{"中华人民"}},
		{"non han splits words", "第3名", []string{"B", "M", "E"}, []string{"第", "3", "名"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := sentence(t, tt.text)
			terms := NewCharSegmenter(&fixedTagger{labels: tt.labels}, nil).Segment(s)
			assert.Equal(t, tt.want, texts(terms))
			assertTiles(t, s, terms)
		})
	}
}

func TestCharSegmenter_LooksUpIDs(t *testing.T) {
	lex := testLexicon(t)
	s := sentence(t, "北京上海")
	terms := NewCharSegmenter(&fixedTagger{labels: []string{"B", "E", "B", "E"}}, lex).Segment(s)

	require.Len(t, terms, 2)
	assert.Equal(t, lex.Lookup("北京"), terms[0].ID)
	assert.Equal(t, lex.Lookup("上海"), terms[1].ID)
}

func TestCRFChars(t *testing.T) {
	m, err := crf.New([]string{"B", "E", "S"}, 1, []string{"U00:%x[0,0]"}, map[string][]float64{
		"U00:北": {5, 0, 0},
		"U00:京": {0, 5, 0},
		"U00:。": {0, 0, 5},
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"B", "E", "S"}, CRFChars{Model: m}.TagChars([]string{"北", "京", "。"}))
}

func TestHMMChars(t *testing.T) {
	m, err := hmm.New(
		[]string{"B", "E", "S"},
		[]float64{0, hmm.Impossible, 0},
		[][]float64{
			{hmm.Impossible, 0, hmm.Impossible},
			{0, hmm.Impossible, 0},
			{0, hmm.Impossible, 0},
		},
		[]map[string]float64{{"上": 0}, {"海": 0}, {"。": 0}},
		5,
	)
	require.NoError(t, err)

	assert.Equal(t, []string{"B", "E", "S"}, HMMChars{Model: m}.TagChars([]string{"上", "海", "。"}))
}

func TestRecognizer_Segment(t *testing.T) {
	lex := testLexicon(t)
	props := lexicon.NewProperties(map[string]lexicon.Property{
		"王": lexicon.BeginOfWord,
		"张": lexicon.BeginOfWord,
		"的": lexicon.Filtered,
	})
	dict := NewDictionary(lex, nil, DefaultBeamSize, DefaultOOVCost)

	tests := []struct {
		name  string
		text  string
		want  []string
		calls int
	}{
		{"run of unknown characters", "王小明的北京", []string{"王小明", "的", "北京"}, 1},
		{"begin pulls next word", "张北京", []string{"张北京"}, 1},
		{"single character is kept", "好北京", []string{"好", "北京"}, 0},
		{"filtered characters stay apart", "的的北京", []string{"的", "的", "北京"}, 0},
		{"non han breaks runs", "小3明", []string{"小", "3", "明"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tagger := &oneWord{}
			s := sentence(t, tt.text)
			terms := NewRecognizer(dict, tagger, props).Segment(s)

			assert.Equal(t, tt.want, texts(terms))
			assert.Equal(t, tt.calls, tagger.calls)
			assertTiles(t, s, terms)
		})
	}
}

func TestRecognizer_NilProperties(t *testing.T) {
	dict := NewDictionary(testLexicon(t), nil, DefaultBeamSize, DefaultOOVCost)
	terms := NewRecognizer(dict, &oneWord{}, nil).Segment(sentence(t, "小明上海"))

	assert.Equal(t, []string{"小明", "上海"}, texts(terms))
}
