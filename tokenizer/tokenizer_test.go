package tokenizer

import (
	"strings"
	"testing"
)

func TestSplit_Empty(t *testing.T) {
	if got := Split(""); got != nil {
		t.Errorf("expected nil for empty text, got %v", got)
	}
}

func TestSplit_Kinds(t *testing.T) {
	tests := []struct {
		name  string
		input string
		texts []string
		kinds []Kind
	}{
		{"han characters", "我们", []string{"我", "们"}, []Kind{Chinese, Chinese}},
		{"english run", "hello", []string{"hello"}, []Kind{English}},
		{"number with decimal", "3.14", []string{"3.14"}, []Kind{Number}},
		{"fullwidth digits", "１２", []string{"１２"}, []Kind{Number}},
		{"fullwidth letters", "ｈｉ", []string{"ｈｉ"}, []Kind{English}},
		{"space run", "a  b", []string{"a", "  ", "b"}, []Kind{English, Space, English}},
		{"mixed", "我有3个apple", []string{"我", "有", "3", "个", "apple"}, []Kind{Chinese, Chinese, Number, Chinese, English}},
		{"punctuation", "好，", []string{"好", "，"}, []Kind{Chinese, Punctuation}},
		{"symbol", "1+1", []string{"1", "+", "1"}, []Kind{Number, Symbol, Number}},
		{"trailing dot is period", "3.", []string{"3", "."}, []Kind{Number, Period}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var tokens []Token
			for _, s := range Split(tc.input) {
				tokens = append(tokens, s.Tokens...)
			}
			if len(tokens) != len(tc.texts) {
				t.Fatalf("Split(%q) produced %d tokens, want %d: %v", tc.input, len(tokens), len(tc.texts), tokens)
			}
			for i, tok := range tokens {
				if tok.Text != tc.texts[i] {
					t.Errorf("token %d text = %q, want %q", i, tok.Text, tc.texts[i])
				}
				if tok.Kind != tc.kinds[i] {
					t.Errorf("token %d kind = %v, want %v", i, tok.Kind, tc.kinds[i])
				}
			}
		})
	}
}

func TestSplit_Sentences(t *testing.T) {
	text := "今天很好。明天呢？\r\n再见"
	sentences := Split(text)
	if len(sentences) != 4 {
		t.Fatalf("expected 4 sentences, got %d", len(sentences))
	}

	want := []string{"今天很好。", "明天呢？", "\r\n", "再见"}
	for i, s := range sentences {
		if got := s.Text; got != want[i] {
			t.Errorf("sentence %d = %q, want %q", i, got, want[i])
		}
	}
}

func TestSentence_Slice(t *testing.T) {
	s := Split("我有3个apple")[0]
	if got := s.Slice(1, 4); got != "有3个" {
		t.Errorf("Slice(1, 4) = %q, want %q", got, "有3个")
	}
	if got := s.Slice(0, s.Len()); got != s.Text {
		t.Errorf("Slice(0, Len) = %q, want %q", got, s.Text)
	}
}

func TestSplit_TilesInput(t *testing.T) {
	inputs := []string{
		"Hello world. 你好，世界！",
		"  leading and trailing  ",
		"数字１２３.４５和English混合…\n第二行",
	}

	for _, input := range inputs {
		var b strings.Builder
		prevEnd := 0
		for _, s := range Split(input) {
			for _, tok := range s.Tokens {
				if tok.Start != prevEnd {
					t.Errorf("%q: token %q starts at %d, want %d", input, tok.Text, tok.Start, prevEnd)
				}
				if input[tok.Start:tok.End] != tok.Text {
					t.Errorf("%q: token %q does not match its offsets", input, tok.Text)
				}
				prevEnd = tok.End
				b.WriteString(tok.Text)
			}
		}
		if b.String() != input {
			t.Errorf("reassembled %q, want %q", b.String(), input)
		}
	}
}

func TestSplit_MaxSentenceTokens(t *testing.T) {
	text := strings.Repeat("字", MaxSentenceTokens+10)
	sentences := Split(text)
	if len(sentences) != 2 {
		t.Fatalf("expected 2 sentences, got %d", len(sentences))
	}
	if sentences[0].Len() != MaxSentenceTokens {
		t.Errorf("first sentence has %d tokens, want %d", sentences[0].Len(), MaxSentenceTokens)
	}
	if sentences[1].Len() != 10 {
		t.Errorf("second sentence has %d tokens, want 10", sentences[1].Len())
	}
}

func TestFold(t *testing.T) {
	if got := Fold("ＡＢＣ１２"); got != "ABC12" {
		t.Errorf("Fold = %q, want %q", got, "ABC12")
	}
}
