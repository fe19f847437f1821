package bench

import (
	"context"
	"fmt"

	milkcat "github.com/jamesainslie/go-milkcat"
)

// Analyzer segments text into tokens. *milkcat.Processor implements it.
type Analyzer interface {
	Analyze(ctx context.Context, text string) ([]milkcat.Token, error)
}

// Spans converts tokens to spans, dropping whitespace tokens.
func Spans(tokens []milkcat.Token) []Span {
	spans := make([]Span, 0, len(tokens))
	for _, t := range tokens {
		if t.Type == milkcat.Space {
			continue
		}
		spans = append(spans, Span{Start: t.Start, End: t.End, Tag: t.Tag})
	}
	return spans
}

// GoldSpans returns the gold words of s as spans.
func GoldSpans(s Sentence) []Span {
	spans := make([]Span, len(s.Words))
	for i, w := range s.Words {
		spans[i] = Span{Start: w.Start, End: w.End, Tag: w.Tag}
	}
	return spans
}

// EvaluateDocument analyzes every sentence of doc and aggregates the metrics.
func EvaluateDocument(ctx context.Context, a Analyzer, doc *Document, cfg Config) (Metrics, error) {
	var total Metrics
	for i, s := range doc.Sentences {
		tokens, err := a.Analyze(ctx, s.Text)
		if err != nil {
			return Metrics{}, fmt.Errorf("%s sentence %d: %w", doc.ID, i+1, err)
		}
		total.Add(Evaluate(Spans(tokens), GoldSpans(s), cfg), cfg)
	}
	return total, nil
}

// EvaluateCorpus aggregates EvaluateDocument over docs.
func EvaluateCorpus(ctx context.Context, a Analyzer, docs []*Document, cfg Config) (Metrics, error) {
	var total Metrics
	for _, doc := range docs {
		m, err := EvaluateDocument(ctx, a, doc, cfg)
		if err != nil {
			return Metrics{}, err
		}
		total.Add(m, cfg)
	}
	return total, nil
}
