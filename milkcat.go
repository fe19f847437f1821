package milkcat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync/atomic"
	"time"
	"unicode/utf8"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/errgroup"

	"github.com/jamesainslie/go-milkcat/inference"
	"github.com/jamesainslie/go-milkcat/tokenizer"
)

// Processor segments and tags text with the pipeline of one ProcessorType.
//
// Analyze is safe for concurrent use. Process and the cursor methods (Next,
// Token, Word, Tag, Tokens) share one result buffer and need external
// serialization.
type Processor struct {
	typ          ProcessorType
	model        *Model
	pool         *inference.Pool
	cache        *lru.Cache[string, []Token]
	logger       *slog.Logger
	maxInputSize int
	closed       atomic.Bool

	tokens []Token
	cursor int
}

// New opens the bundle at modelPath and creates a Processor of type typ.
func New(typ ProcessorType, modelPath string, opts ...Option) (*Processor, error) {
	if !typ.valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownProcessorType, int(typ))
	}
	m, err := OpenModel(modelPath, opts...)
	if err != nil {
		return nil, err
	}
	return NewWithModel(m, typ, opts...)
}

// NewWithModel creates a Processor of type typ sharing the tables of m.
// WithUserDictionary has no effect here; pass it to OpenModel.
func NewWithModel(m *Model, typ ProcessorType, opts ...Option) (*Processor, error) {
	if !typ.valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownProcessorType, int(typ))
	}
	cfg := newConfig(opts)

	start := time.Now()
	stage, err := m.stage(typ, cfg)
	if err != nil {
		return nil, err
	}

	pool, err := inference.NewPool(stage, cfg.poolSize)
	if err != nil {
		return nil, fmt.Errorf("creating session pool: %w", err)
	}

	var cache *lru.Cache[string, []Token]
	if cfg.cacheSize > 0 {
		cache, err = lru.New[string, []Token](cfg.cacheSize)
		if err != nil {
			_ = pool.Close()
			return nil, fmt.Errorf("creating sentence cache: %w", err)
		}
	}

	cfg.logger.Debug("processor ready",
		"type", typ,
		"model", m.Dir(),
		"pool", pool.Size(),
		"cache", cfg.cacheSize,
		"elapsed", time.Since(start))

	return &Processor{
		typ:          typ,
		model:        m,
		pool:         pool,
		cache:        cache,
		logger:       cfg.logger,
		maxInputSize: cfg.maxInputSize,
		cursor:       -1,
	}, nil
}

// Type returns the processor type.
func (p *Processor) Type() ProcessorType { return p.typ }

// Model returns the model the processor reads.
func (p *Processor) Model() *Model { return p.model }

// Analyze segments and tags text and returns its tokens in source order. The
// tokens tile text: whitespace is kept as Space tokens. The result buffer is
// not touched.
func (p *Processor) Analyze(ctx context.Context, text string) ([]Token, error) {
	if p.closed.Load() {
		return nil, ErrClosed
	}
	if len(text) > p.maxInputSize {
		return nil, fmt.Errorf("%w: %w: %d bytes, limit %d", ErrProcessing, ErrInputTooLarge, len(text), p.maxInputSize)
	}
	if !utf8.ValidString(text) {
		return nil, fmt.Errorf("%w: %w", ErrProcessing, ErrInvalidEncoding)
	}

	start := time.Now()
	sents := tokenizer.Split(text)
	results := make([][]Token, len(sents))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.pool.Size())
	for i, s := range sents {
		g.Go(func() error {
			toks, err := p.decode(gctx, s)
			if err != nil {
				return err
			}
			results[i] = toks
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if errors.Is(err, inference.ErrPoolClosed) || errors.Is(err, inference.ErrSessionClosed) {
			return nil, ErrClosed
		}
		return nil, err
	}

	n := 0
	for _, r := range results {
		n += len(r)
	}
	tokens := make([]Token, 0, n)
	for _, r := range results {
		tokens = append(tokens, r...)
	}

	p.logger.Debug("text processed",
		"type", p.typ,
		"bytes", len(text),
		"sentences", len(sents),
		"tokens", len(tokens),
		"elapsed", time.Since(start))
	return tokens, nil
}

// decode returns the tokens of one sentence with offsets into the full text.
// The cache holds tokens relative to the sentence start.
func (p *Processor) decode(ctx context.Context, s tokenizer.Sentence) ([]Token, error) {
	if p.cache != nil {
		if cached, ok := p.cache.Get(s.Text); ok {
			return shift(cached, s.Start), nil
		}
	}

	session, err := p.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	words, err := session.Decode(ctx, s)
	p.pool.Release(session)
	if err != nil {
		return nil, err
	}

	toks := make([]Token, len(words))
	for i, w := range words {
		toks[i] = Token{
			Word:  w.Text,
			Tag:   w.Tag,
			Type:  wordType(w.Kind),
			Start: w.Start - s.Start,
			End:   w.End - s.Start,
		}
	}
	if p.cache != nil {
		p.cache.Add(s.Text, toks)
	}
	return shift(toks, s.Start), nil
}

func shift(toks []Token, offset int) []Token {
	out := make([]Token, len(toks))
	for i, t := range toks {
		t.Start += offset
		t.End += offset
		out[i] = t
	}
	return out
}

// Process analyzes text into the result buffer and rewinds the cursor to
// before the first token. On error the buffer is left empty.
func (p *Processor) Process(ctx context.Context, text string) error {
	p.tokens = nil
	p.cursor = -1

	tokens, err := p.Analyze(ctx, text)
	if err != nil {
		return err
	}
	p.tokens = tokens
	return nil
}

// Next advances the cursor and reports whether a token is current. Once it
// returns false it keeps returning false until the next Process.
func (p *Processor) Next() bool {
	if p.cursor < len(p.tokens) {
		p.cursor++
	}
	return p.cursor < len(p.tokens)
}

// Token returns the current token. It fails with ErrState before the first
// Next and after Next returned false.
func (p *Processor) Token() (Token, error) {
	if p.closed.Load() {
		return Token{}, ErrClosed
	}
	if p.cursor < 0 || p.cursor >= len(p.tokens) {
		return Token{}, ErrState
	}
	return p.tokens[p.cursor], nil
}

// Word returns the text of the current token.
func (p *Processor) Word() (string, error) {
	t, err := p.Token()
	if err != nil {
		return "", err
	}
	return t.Word, nil
}

// Tag returns the POS tag of the current token. ok is false for
// CRFSegmentOnly processors.
func (p *Processor) Tag() (tag string, ok bool, err error) {
	t, err := p.Token()
	if err != nil {
		return "", false, err
	}
	return t.Tag, t.HasTag(), nil
}

// Tokens returns a copy of the result buffer.
func (p *Processor) Tokens() []Token {
	return slices.Clone(p.tokens)
}

// Close releases the session pool. Further calls fail with ErrClosed.
func (p *Processor) Close() error {
	if p.closed.Swap(true) {
		return nil
	}
	p.tokens = nil
	p.cursor = -1
	if p.cache != nil {
		p.cache.Purge()
	}
	return p.pool.Close()
}
