// Package neko discovers new words in a raw corpus.
//
// The corpus is first segmented by the CRF character model, which happily
// proposes words the dictionary does not know. Frequent unknown words that
// are not person names become candidates. The corpus is then segmented
// again by the dictionary extended with the candidates, and every candidate
// is ranked by how freely it combines with its neighbours (adjacent
// entropy) and how tightly its own characters stick together (mutual
// information).
package neko

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	milkcat "github.com/jamesainslie/go-milkcat"
	"github.com/jamesainslie/go-milkcat/model"
)

// Option configures Discover.
type Option func(*config)

type config struct {
	logger    *slog.Logger
	names     *Maxent
	threshold int
	workers   int
}

func defaultConfig() config {
	return config{logger: slog.Default()}
}

// WithLogger sets the logger (default: slog.Default()).
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithNameClassifier drops candidates m classifies as person names.
func WithNameClassifier(m *Maxent) Option {
	return func(c *config) {
		c.names = m
	}
}

// WithThreshold sets the candidate frequency threshold (default: Threshold
// of the corpus size).
func WithThreshold(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.threshold = n
		}
	}
}

// WithWorkers sets the number of lines segmented in parallel (default:
// runtime.NumCPU()).
func WithWorkers(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.workers = n
		}
	}
}

// Result holds every stage of a discovery run.
type Result struct {
	Threshold     int
	CRFVocabulary *Vocabulary
	Candidates    map[string]float64
	NamesFiltered int
	Entropy       map[string]float64
	MI            map[string]float64
	Ranked        []Scored
}

// Discover runs new word discovery over lines with the bundle at modelDir.
func Discover(ctx context.Context, modelDir string, lines []string, opts ...Option) (*Result, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	start := time.Now()

	proc, err := milkcat.New(milkcat.CRFSegmentOnly, modelDir,
		milkcat.WithLogger(cfg.logger), milkcat.WithPoolSize(cfg.workers))
	if err != nil {
		return nil, err
	}
	crfVocab, err := CountWords(ctx, proc, lines)
	_ = proc.Close()
	if err != nil {
		return nil, fmt.Errorf("crf segmentation: %w", err)
	}

	threshold := cfg.threshold
	if threshold == 0 {
		threshold = Threshold(crfVocab.Total)
	}

	store, err := model.Open(modelDir, model.WithLogger(cfg.logger))
	if err != nil {
		return nil, err
	}
	lex, err := store.Lexicon()
	if err != nil {
		return nil, err
	}
	candidates, filtered := Candidates(crfVocab, lex, cfg.names, threshold)
	cfg.logger.Info("candidates selected",
		"words", crfVocab.Total,
		"vocabulary", len(crfVocab.Counts),
		"threshold", threshold,
		"candidates", len(candidates),
		"names", filtered)

	seg, err := DictionarySegmenter(store, candidates)
	if err != nil {
		return nil, err
	}
	entropy, vocab, err := AdjacentEntropy(ctx, seg, lines, candidates, cfg.workers)
	if err != nil {
		return nil, fmt.Errorf("dictionary segmentation: %w", err)
	}
	mi := MutualInformation(vocab, candidates)

	res := &Result{
		Threshold:     threshold,
		CRFVocabulary: crfVocab,
		Candidates:    candidates,
		NamesFiltered: filtered,
		Entropy:       entropy,
		MI:            mi,
		Ranked:        Rank(entropy, mi),
	}
	cfg.logger.Info("new words ranked", "ranked", len(res.Ranked), "elapsed", time.Since(start))
	return res, nil
}
