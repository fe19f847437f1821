package milkcat

import (
	"log/slog"
	"runtime"

	"github.com/jamesainslie/go-milkcat/segment"
)

// DefaultMaxInputSize is the default Process input limit in bytes.
const DefaultMaxInputSize = 8 << 20

// Option configures a Processor or a Model.
type Option func(*config)

type config struct {
	logger       *slog.Logger
	userDict     string
	poolSize     int
	beamSize     int
	oovCost      float64
	maxInputSize int
	cacheSize    int
}

func defaultConfig() config {
	return config{
		logger:       slog.Default(),
		poolSize:     runtime.NumCPU(),
		beamSize:     segment.DefaultBeamSize,
		oovCost:      segment.DefaultOOVCost,
		maxInputSize: DefaultMaxInputSize,
	}
}

func newConfig(opts []Option) config {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithLogger sets the logger (default: slog.Default()).
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithUserDictionary merges a "word [cost]" file into the dictionary when
// the model is opened.
func WithUserDictionary(path string) Option {
	return func(c *config) {
		c.userDict = path
	}
}

// WithPoolSize sets the number of sentences decoded in parallel
// (default: runtime.NumCPU()).
func WithPoolSize(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.poolSize = n
		}
	}
}

// WithBeamSize sets the beam of the dictionary lattice (default: 3). A beam
// of 1 decodes by unigram cost alone.
func WithBeamSize(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.beamSize = n
		}
	}
}

// WithOOVCost sets the lattice cost of an unknown single token (default: 20).
func WithOOVCost(cost float64) Option {
	return func(c *config) {
		if cost > 0 {
			c.oovCost = cost
		}
	}
}

// WithMaxInputSize sets the Process input limit in bytes (default: 8 MiB).
func WithMaxInputSize(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxInputSize = n
		}
	}
}

// WithCacheSize enables a cache of decoded sentences holding up to n
// entries (default: disabled).
func WithCacheSize(n int) Option {
	return func(c *config) {
		if n >= 0 {
			c.cacheSize = n
		}
	}
}
