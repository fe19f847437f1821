package inference

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Pool hands out decoding sessions to sentence workers. Every session
// shares the same stage, so the pool size bounds how many sentences of a
// text are decoded at once.
type Pool struct {
	idle   chan *Session
	size   int
	mu     sync.Mutex
	closed bool
}

// NewPool creates size sessions over stage. A size below 1 is treated as 1.
func NewPool(stage Stage, size int) (*Pool, error) {
	if size <= 0 {
		size = 1
	}

	p := &Pool{
		idle: make(chan *Session, size),
		size: size,
	}
	for i := range size {
		s, err := NewSession(stage)
		if err != nil {
			_ = p.Close()
			return nil, fmt.Errorf("creating session %d: %w", i, err)
		}
		p.idle <- s
	}
	return p, nil
}

// Acquire waits for an idle session. It fails with ErrPoolClosed once the
// pool is closed and with the context error when ctx ends first.
func (p *Pool) Acquire(ctx context.Context) (*Session, error) {
	select {
	case s, ok := <-p.idle:
		if !ok {
			return nil, ErrPoolClosed
		}
		return s, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Release puts s back among the idle sessions. A session released after
// Close is closed instead.
func (p *Pool) Release(s *Session) {
	if s == nil {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		_ = s.Close()
		return
	}
	select {
	case p.idle <- s:
	default:
		// Not one of ours; the idle channel only has room for size sessions.
		_ = s.Close()
	}
}

// Close closes the idle sessions and stops further Acquire calls. Sessions
// held by workers are closed on Release.
func (p *Pool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.idle)
	p.mu.Unlock()

	var errs []error
	for s := range p.idle {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Size returns the number of sessions, which is the decode parallelism.
func (p *Pool) Size() int {
	return p.size
}
