// Package postag assigns part-of-speech tags to segmented words.
//
// HMM decodes dictionary emissions against a tag transition model, CRF
// decodes word features with a linear-chain CRF, and Mixed uses the HMM and
// falls back to the CRF for Chinese words the dictionary does not know.
// Taggers are immutable and safe for concurrent use.
package postag

import (
	"errors"
	"fmt"

	"github.com/jamesainslie/go-milkcat/segment"
	"github.com/jamesainslie/go-milkcat/tokenizer"
)

// ErrUnknownTag indicates a dictionary or default tag missing from the
// tagger's tag set.
var ErrUnknownTag = errors.New("postag: unknown tag")

// Tagger assigns one tag to every term.
type Tagger interface {
	Tag(terms []segment.Term) []string
}

// DefaultTags are the tags of words without dictionary emissions, by kind.
type DefaultTags struct {
	Chinese     string
	English     string
	Number      string
	Punctuation string
	Symbol      string
	Space       string
	Other       string
}

// StandardDefaultTags returns the defaults used when a model has no
// default_tag table.
func StandardDefaultTags() DefaultTags {
	return DefaultTags{
		Chinese:     "NN",
		English:     "NN",
		Number:      "CD",
		Punctuation: "PU",
		Symbol:      "PU",
		Space:       "PU",
		Other:       "PU",
	}
}

// For returns the default tag of kind.
func (d DefaultTags) For(kind tokenizer.Kind) string {
	switch kind {
	case tokenizer.Chinese:
		return d.Chinese
	case tokenizer.English:
		return d.English
	case tokenizer.Number:
		return d.Number
	case tokenizer.Punctuation, tokenizer.Period:
		return d.Punctuation
	case tokenizer.Symbol:
		return d.Symbol
	case tokenizer.Space, tokenizer.Newline:
		return d.Space
	default:
		return d.Other
	}
}

// Set assigns the default for a default_tag key such as "number".
func (d *DefaultTags) Set(key, tag string) error {
	switch key {
	case "chinese":
		d.Chinese = tag
	case "english":
		d.English = tag
	case "number":
		d.Number = tag
	case "punctuation":
		d.Punctuation = tag
	case "symbol":
		d.Symbol = tag
	case "space":
		d.Space = tag
	case "other":
		d.Other = tag
	default:
		return fmt.Errorf("postag: unknown default tag key %q", key)
	}
	return nil
}

// All returns every default tag.
func (d DefaultTags) All() []string {
	return []string{d.Chinese, d.English, d.Number, d.Punctuation, d.Symbol, d.Space, d.Other}
}
