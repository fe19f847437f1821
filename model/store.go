// Package model loads model bundles: a directory holding a VERSION marker
// and one file per table.
//
// Tables are read on first use and memoized, so a Store only pays for the
// tables its callers ask for. A Store is safe for concurrent use; the tables
// it returns are immutable.
package model

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/DataDog/zstd"

	"github.com/jamesainslie/go-milkcat/crf"
	"github.com/jamesainslie/go-milkcat/hmm"
	"github.com/jamesainslie/go-milkcat/lexicon"
	"github.com/jamesainslie/go-milkcat/postag"
)

// Version is the bundle format this package reads and writes.
const Version = "milkcat-model/1"

// VersionFile names the version marker inside a bundle.
const VersionFile = "VERSION"

// Option configures a Store.
type Option func(*options)

type options struct {
	logger   *slog.Logger
	userDict string
}

// WithLogger sets the logger for table loads.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithUserDictionary merges the "word [cost]" file at path into the
// dictionary.
func WithUserDictionary(path string) Option {
	return func(o *options) {
		o.userDict = path
	}
}

type lazy[T any] struct {
	mu   sync.Mutex
	done bool
	v    T
	err  error
}

// Store is an opened model bundle.
type Store struct {
	dir      string
	userDict string
	logger   *slog.Logger

	lexicon  lazy[*lexicon.Lexicon]
	bigrams  lazy[*lexicon.Bigrams]
	crfSeg   lazy[*crf.Model]
	crfPOS   lazy[*crf.Model]
	hmmSeg   lazy[*hmm.Model]
	hmmPOS   lazy[*hmm.Model]
	props    lazy[*lexicon.Properties]
	defaults lazy[postag.DefaultTags]
}

// Open checks that dir is a bundle of the supported version.
func Open(dir string, opts ...Option) (*Store, error) {
	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	info, err := os.Stat(dir)
	if err != nil {
		return nil, unreadable(dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrMissingFile, dir)
	}

	if err := checkVersion(dir); err != nil {
		return nil, err
	}

	return &Store{
		dir:      dir,
		userDict: o.userDict,
		logger:   o.logger,
	}, nil
}

func checkVersion(dir string) error {
	path := filepath.Join(dir, VersionFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return unreadable(path, err)
	}
	if v := strings.TrimSpace(string(data)); v != Version {
		return fmt.Errorf("%w: %s: got %q, want %q", ErrVersionMismatch, path, v, Version)
	}
	return nil
}

// Dir returns the bundle directory.
func (s *Store) Dir() string { return s.dir }

// Has reports whether the bundle holds table stem in any encoding.
func (s *Store) Has(stem string) bool {
	_, err := locate(s.dir, stem)
	return err == nil
}

func load[T any](s *Store, l *lazy[T], table string, fn func() (T, error)) (T, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.done {
		start := time.Now()
		l.v, l.err = fn()
		l.done = true
		if l.err != nil {
			s.logger.Debug("model table failed", "table", table, "dir", s.dir, "error", l.err)
		} else {
			s.logger.Debug("model table loaded", "table", table, "dir", s.dir, "elapsed", time.Since(start))
		}
	}
	return l.v, l.err
}

// Lexicon returns the dictionary, merged with the user dictionary when one
// was configured.
func (s *Store) Lexicon() (*lexicon.Lexicon, error) {
	return load(s, &s.lexicon, StemDict, func() (*lexicon.Lexicon, error) {
		t, err := readTable(s.dir, StemDict, dictCodec)
		if err != nil {
			return nil, err
		}
		lex, err := lexicon.New(t.entries)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrCorruptFormat, StemDict, err)
		}
		if s.userDict == "" {
			return lex, nil
		}

		data, err := os.ReadFile(s.userDict)
		if err != nil {
			return nil, unreadable(s.userDict, err)
		}
		user, err := ParseUserDictionary(data, s.userDict)
		if err != nil {
			return nil, err
		}
		merged, err := lex.Merge(user)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrCorruptFormat, s.userDict, err)
		}
		s.logger.Debug("user dictionary merged", "path", s.userDict, "words", len(user))
		return merged, nil
	})
}

// Bigrams returns the bigram table, or nil when the bundle has none.
func (s *Store) Bigrams() (*lexicon.Bigrams, error) {
	return load(s, &s.bigrams, StemBigram, func() (*lexicon.Bigrams, error) {
		if !s.Has(StemBigram) {
			return nil, nil
		}
		lex, err := s.Lexicon()
		if err != nil {
			return nil, err
		}
		t, err := readTable(s.dir, StemBigram, bigramCodec)
		if err != nil {
			return nil, err
		}
		b, err := lexicon.NewBigrams(lex, t.pairs)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrCorruptFormat, StemBigram, err)
		}
		return b, nil
	})
}

// CRFSegment returns the character segmentation CRF.
func (s *Store) CRFSegment() (*crf.Model, error) {
	return load(s, &s.crfSeg, StemCRFSegment, func() (*crf.Model, error) {
		t, err := readTable(s.dir, StemCRFSegment, crfCodec(StemCRFSegment))
		if err != nil {
			return nil, err
		}
		return t.build()
	})
}

// CRFPartOfSpeech returns the POS tagging CRF.
func (s *Store) CRFPartOfSpeech() (*crf.Model, error) {
	return load(s, &s.crfPOS, StemCRFPOS, func() (*crf.Model, error) {
		t, err := readTable(s.dir, StemCRFPOS, crfCodec(StemCRFPOS))
		if err != nil {
			return nil, err
		}
		return t.build()
	})
}

// HMMSegment returns the character segmentation HMM.
func (s *Store) HMMSegment() (*hmm.Model, error) {
	return load(s, &s.hmmSeg, StemHMMSegment, func() (*hmm.Model, error) {
		t, err := readTable(s.dir, StemHMMSegment, hmmCodec(StemHMMSegment))
		if err != nil {
			return nil, err
		}
		return t.build()
	})
}

// HMMPartOfSpeech returns the POS transition HMM.
func (s *Store) HMMPartOfSpeech() (*hmm.Model, error) {
	return load(s, &s.hmmPOS, StemHMMPOS, func() (*hmm.Model, error) {
		t, err := readTable(s.dir, StemHMMPOS, hmmCodec(StemHMMPOS))
		if err != nil {
			return nil, err
		}
		return t.build()
	})
}

// OOVProperties returns the character property table, or nil when the
// bundle has none.
func (s *Store) OOVProperties() (*lexicon.Properties, error) {
	return load(s, &s.props, StemOOVProperty, func() (*lexicon.Properties, error) {
		if !s.Has(StemOOVProperty) {
			return nil, nil
		}
		t, err := readTable(s.dir, StemOOVProperty, propertyCodec)
		if err != nil {
			return nil, err
		}
		return lexicon.NewProperties(t.props), nil
	})
}

// DefaultTags returns the default tags, falling back to
// postag.StandardDefaultTags when the bundle has no default_tag table.
func (s *Store) DefaultTags() (postag.DefaultTags, error) {
	return load(s, &s.defaults, StemDefaultTag, func() (postag.DefaultTags, error) {
		if !s.Has(StemDefaultTag) {
			return postag.StandardDefaultTags(), nil
		}
		t, err := readTable(s.dir, StemDefaultTag, defaultTagCodec)
		if err != nil {
			return postag.DefaultTags{}, err
		}
		return t.build()
	})
}

// codec reads one table kind from either encoding.
type codec[T any] struct {
	text   func(data []byte, name string) (T, error)
	binary func(data []byte, name string) (T, error)
	encode func(T) []byte
}

var (
	dictCodec = codec[*dictTable]{
		text:   parseDictText,
		binary: decodeDict,
		encode: encodeDict,
	}
	bigramCodec = codec[*bigramTable]{
		text:   parseBigramText,
		binary: decodeBigram,
		encode: encodeBigram,
	}
	propertyCodec = codec[*propertyTable]{
		text:   parsePropertyText,
		binary: decodeProperty,
		encode: encodeProperty,
	}
	defaultTagCodec = codec[*defaultTagTable]{
		text:   parseDefaultTagText,
		binary: decodeDefaultTag,
		encode: encodeDefaultTag,
	}
)

func crfCodec(stem string) codec[*crfTable] {
	return codec[*crfTable]{
		text:   parseCRFText,
		binary: func(data []byte, name string) (*crfTable, error) { return decodeCRF(data, name, stem) },
		encode: func(t *crfTable) []byte { return encodeCRF(stem, t) },
	}
}

func hmmCodec(stem string) codec[*hmmTable] {
	return codec[*hmmTable]{
		text:   parseHMMText,
		binary: func(data []byte, name string) (*hmmTable, error) { return decodeHMM(data, name, stem) },
		encode: func(t *hmmTable) []byte { return encodeHMM(stem, t) },
	}
}

// source is one on-disk encoding of a table.
type source struct {
	path   string
	binary bool
	zstd   bool
}

var extensions = []struct {
	ext    string
	binary bool
	zstd   bool
}{
	{".bin", true, false},
	{".bin.zst", true, true},
	{".txt", false, false},
	{".txt.zst", false, true},
}

// locate finds the first encoding of stem present in dir.
func locate(dir, stem string) (source, error) {
	for _, e := range extensions {
		path := filepath.Join(dir, stem+e.ext)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return source{path: path, binary: e.binary, zstd: e.zstd}, nil
		}
	}
	return source{}, fmt.Errorf("%w: %s", ErrMissingFile, filepath.Join(dir, stem+".{bin,txt}[.zst]"))
}

func readTable[T any](dir, stem string, c codec[T]) (T, error) {
	var zero T
	src, err := locate(dir, stem)
	if err != nil {
		return zero, err
	}

	data, err := os.ReadFile(src.path)
	if err != nil {
		return zero, unreadable(src.path, err)
	}
	if src.zstd {
		data, err = zstd.Decompress(nil, data)
		if err != nil {
			return zero, fmt.Errorf("%w: %s: %w", ErrCorruptFormat, src.path, err)
		}
	}

	if src.binary {
		return c.binary(data, src.path)
	}
	return c.text(data, src.path)
}
