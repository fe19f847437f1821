package inference

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jamesainslie/go-milkcat/segment"
	"github.com/jamesainslie/go-milkcat/tokenizer"
)

// tokenSegmenter makes every token a term.
type tokenSegmenter struct{}

func (tokenSegmenter) Segment(s tokenizer.Sentence) []segment.Term {
	terms := make([]segment.Term, len(s.Tokens))
	for i, tok := range s.Tokens {
		terms[i] = segment.Term{
			Text:  tok.Text,
			Start: tok.Start,
			End:   tok.End,
			From:  i,
			To:    i + 1,
			Kind:  tok.Kind,
		}
	}
	return terms
}

// kindTagger tags every term with its kind.
type kindTagger struct{}

func (kindTagger) Tag(terms []segment.Term) []string {
	tags := make([]string, len(terms))
	for i, t := range terms {
		tags[i] = t.Kind.String()
	}
	return tags
}

func firstSentence(t *testing.T, text string) tokenizer.Sentence {
	t.Helper()
	sents := tokenizer.Split(text)
	if len(sents) == 0 {
		t.Fatalf("no sentence in %q", text)
	}
	return sents[0]
}

func TestNewSession_NoSegmenter(t *testing.T) {
	_, err := NewSession(Stage{Tagger: kindTagger{}})
	if !errors.Is(err, ErrNoSegmenter) {
		t.Errorf("expected ErrNoSegmenter, got: %v", err)
	}
}

func TestSession_Decode(t *testing.T) {
	tests := []struct {
		name     string
		stage    Stage
		wantTags []string
	}{
		{
			name:     "segment only",
			stage:    Stage{Segmenter: tokenSegmenter{}},
			wantTags: []string{"", "", ""},
		},
		{
			name:     "segment and tag",
			stage:    Stage{Segmenter: tokenSegmenter{}, Tagger: kindTagger{}},
			wantTags: []string{"chinese", "space", "english"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session, err := NewSession(tt.stage)
			if err != nil {
				t.Fatalf("NewSession failed: %v", err)
			}
			defer func() { _ = session.Close() }()

			words, err := session.Decode(context.Background(), firstSentence(t, "我 go"))
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if len(words) != len(tt.wantTags) {
				t.Fatalf("got %d words, want %d", len(words), len(tt.wantTags))
			}
			for i, w := range words {
				if w.Tag != tt.wantTags[i] {
					t.Errorf("word %d (%q) tag = %q, want %q", i, w.Text, w.Tag, tt.wantTags[i])
				}
			}
		})
	}
}

func TestSession_Decode_Empty(t *testing.T) {
	session, err := NewSession(Stage{Segmenter: tokenSegmenter{}, Tagger: kindTagger{}})
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}

	words, err := session.Decode(context.Background(), tokenizer.Sentence{})
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(words) != 0 {
		t.Errorf("expected no words, got %d", len(words))
	}
}

func TestSession_Decode_ContextCancellation(t *testing.T) {
	session, err := NewSession(Stage{Segmenter: tokenSegmenter{}})
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}
	defer func() { _ = session.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = session.Decode(ctx, firstSentence(t, "我"))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled error, got: %v", err)
	}
}

func TestSession_Decode_ContextTimeout(t *testing.T) {
	session, err := NewSession(Stage{Segmenter: tokenSegmenter{}})
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}
	defer func() { _ = session.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), -time.Second)
	defer cancel()

	_, err = session.Decode(ctx, firstSentence(t, "我"))
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected context.DeadlineExceeded error, got: %v", err)
	}
}

func TestSession_Close_Idempotent(t *testing.T) {
	session, err := NewSession(Stage{Segmenter: tokenSegmenter{}})
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}

	if err := session.Close(); err != nil {
		t.Errorf("first Close failed: %v", err)
	}
	if err := session.Close(); err != nil {
		t.Errorf("second Close failed: %v", err)
	}
}

func TestSession_Decode_AfterClose(t *testing.T) {
	session, err := NewSession(Stage{Segmenter: tokenSegmenter{}})
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}
	if err := session.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	_, err = session.Decode(context.Background(), firstSentence(t, "我"))
	if !errors.Is(err, ErrSessionClosed) {
		t.Errorf("expected ErrSessionClosed, got: %v", err)
	}
}
