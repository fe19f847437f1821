// Package inference runs the decoding stages of a processor: segmentation
// followed by optional part-of-speech tagging.
package inference

import (
	"context"
	"errors"
	"sync"

	"github.com/jamesainslie/go-milkcat/postag"
	"github.com/jamesainslie/go-milkcat/segment"
	"github.com/jamesainslie/go-milkcat/tokenizer"
)

var (
	// ErrSessionClosed indicates a decode on a closed session.
	ErrSessionClosed = errors.New("inference: session is closed")

	// ErrNoSegmenter indicates a stage set without a segmenter.
	ErrNoSegmenter = errors.New("inference: stage has no segmenter")

	// ErrPoolClosed indicates an acquire on a closed pool.
	ErrPoolClosed = errors.New("inference: pool is closed")
)

// Stage is the decoding pipeline of one processor type.
type Stage struct {
	Segmenter segment.Segmenter

	// Tagger is nil for segmentation only.
	Tagger postag.Tagger
}

// Word is a segmented term and its tag. Tag is empty when the stage has no
// tagger.
type Word struct {
	segment.Term
	Tag string
}

// Session decodes one sentence at a time.
type Session struct {
	stage  Stage
	mu     sync.Mutex
	closed bool
}

// NewSession creates a session over stage.
func NewSession(stage Stage) (*Session, error) {
	if stage.Segmenter == nil {
		return nil, ErrNoSegmenter
	}
	return &Session{stage: stage}, nil
}

// Decode segments and tags one sentence.
func (s *Session) Decode(ctx context.Context, sent tokenizer.Sentence) ([]Word, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrSessionClosed
	}

	terms := s.stage.Segmenter.Segment(sent)
	var tags []string
	if s.stage.Tagger != nil && len(terms) > 0 {
		tags = s.stage.Tagger.Tag(terms)
	}

	words := make([]Word, len(terms))
	for i, t := range terms {
		words[i].Term = t
		if tags != nil {
			words[i].Tag = tags[i]
		}
	}
	return words, nil
}

// Close marks the session unusable.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	return nil
}
