package model

import (
	"fmt"
	"math"
	"sort"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/jamesainslie/go-milkcat/lexicon"
)

// Binary tables are protobuf wire messages. Field 1 holds the bundle
// version and field 2 the table stem; table fields start at 3.
const (
	fieldVersion protowire.Number = 1
	fieldKind    protowire.Number = 2
)

type field struct {
	num    protowire.Number
	typ    protowire.Type
	bytes  []byte
	scalar uint64
}

func (f field) str() string { return string(f.bytes) }

func (f field) float() float64 { return math.Float64frombits(f.scalar) }

func (f field) is(t protowire.Type) bool { return f.typ == t }

// walk calls fn for every field of a message.
func walk(b []byte, fn func(f field) error) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]

		f := field{num: num, typ: typ}
		switch typ {
		case protowire.BytesType:
			f.bytes, n = protowire.ConsumeBytes(b)
		case protowire.VarintType:
			f.scalar, n = protowire.ConsumeVarint(b)
		case protowire.Fixed64Type:
			f.scalar, n = protowire.ConsumeFixed64(b)
		default:
			n = protowire.ConsumeFieldValue(num, typ, b)
		}
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]

		if err := fn(f); err != nil {
			return err
		}
	}
	return nil
}

func badField(f field) error {
	return fmt.Errorf("unexpected field %d of wire type %d", f.num, f.typ)
}

// decodeBinary checks the header of a binary table and passes every table
// field to fn.
func decodeBinary(data []byte, name, kind string, fn func(f field) error) error {
	seen := 0
	err := walk(data, func(f field) error {
		switch {
		case seen == 0:
			seen++
			if f.num != fieldVersion || !f.is(protowire.BytesType) {
				return fmt.Errorf("%w: %s: missing version header", ErrCorruptFormat, name)
			}
			if v := f.str(); v != Version {
				return fmt.Errorf("%w: %s: got %q, want %q", ErrVersionMismatch, name, v, Version)
			}
			return nil
		case seen == 1:
			seen++
			if f.num != fieldKind || !f.is(protowire.BytesType) {
				return fmt.Errorf("%w: %s: missing table kind", ErrCorruptFormat, name)
			}
			if k := f.str(); k != kind {
				return fmt.Errorf("%w: %s: holds a %q table, want %q", ErrCorruptFormat, name, k, kind)
			}
			return nil
		}
		if err := fn(f); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrCorruptFormat, name, err)
		}
		return nil
	})
	if err != nil {
		return wrapCorrupt(name, err)
	}
	if seen < 2 {
		return fmt.Errorf("%w: %s: truncated header", ErrCorruptFormat, name)
	}
	return nil
}

// wrapCorrupt marks wire parse errors as corrupt format, leaving already
// classified errors alone.
func wrapCorrupt(name string, err error) error {
	if isClassified(err) {
		return err
	}
	return fmt.Errorf("%w: %s: %w", ErrCorruptFormat, name, err)
}

func appendHeader(b []byte, kind string) []byte {
	b = appendString(b, fieldVersion, Version)
	return appendString(b, fieldKind, kind)
}

func appendString(b []byte, num protowire.Number, s string) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, s)
}

func appendFloat(b []byte, num protowire.Number, v float64) []byte {
	b = protowire.AppendTag(b, num, protowire.Fixed64Type)
	return protowire.AppendFixed64(b, math.Float64bits(v))
}

func appendVarint(b []byte, num protowire.Number, v uint64) []byte {
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

func appendMessage(b []byte, num protowire.Number, msg []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, msg)
}

func appendPackedFloats(b []byte, num protowire.Number, vs []float64) []byte {
	packed := make([]byte, 0, 8*len(vs))
	for _, v := range vs {
		packed = protowire.AppendFixed64(packed, math.Float64bits(v))
	}
	return appendMessage(b, num, packed)
}

func consumePackedFloats(b []byte) ([]float64, error) {
	out := make([]float64, 0, len(b)/8)
	for len(b) > 0 {
		v, n := protowire.ConsumeFixed64(b)
		if n < 0 {
			return nil, protowire.ParseError(n)
		}
		out = append(out, math.Float64frombits(v))
		b = b[n:]
	}
	return out, nil
}

// dict: 3 entry {1 word, 2 cost, 3 tag {1 tag, 2 cost}}

func encodeDict(t *dictTable) []byte {
	b := appendHeader(nil, StemDict)
	for _, e := range t.entries {
		var m []byte
		m = appendString(m, 1, e.Word)
		m = appendFloat(m, 2, e.Cost)
		for _, tc := range e.Tags {
			var tm []byte
			tm = appendString(tm, 1, tc.Tag)
			tm = appendFloat(tm, 2, tc.Cost)
			m = appendMessage(m, 3, tm)
		}
		b = appendMessage(b, 3, m)
	}
	return b
}

func decodeDict(data []byte, name string) (*dictTable, error) {
	t := &dictTable{}
	err := decodeBinary(data, name, StemDict, func(f field) error {
		if f.num != 3 || !f.is(protowire.BytesType) {
			return badField(f)
		}
		var e lexicon.Entry
		err := walk(f.bytes, func(f field) error {
			switch {
			case f.num == 1 && f.is(protowire.BytesType):
				e.Word = f.str()
			case f.num == 2 && f.is(protowire.Fixed64Type):
				e.Cost = f.float()
			case f.num == 3 && f.is(protowire.BytesType):
				var tc lexicon.TagCost
				err := walk(f.bytes, func(f field) error {
					switch {
					case f.num == 1 && f.is(protowire.BytesType):
						tc.Tag = f.str()
					case f.num == 2 && f.is(protowire.Fixed64Type):
						tc.Cost = f.float()
					default:
						return badField(f)
					}
					return nil
				})
				if err != nil {
					return err
				}
				e.Tags = append(e.Tags, tc)
			default:
				return badField(f)
			}
			return nil
		})
		if err != nil {
			return err
		}
		t.entries = append(t.entries, e)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// bigram: 3 pair {1 left, 2 right, 3 cost}

func encodeBigram(t *bigramTable) []byte {
	b := appendHeader(nil, StemBigram)
	for _, p := range t.pairs {
		var m []byte
		m = appendString(m, 1, p.Left)
		m = appendString(m, 2, p.Right)
		m = appendFloat(m, 3, p.Cost)
		b = appendMessage(b, 3, m)
	}
	return b
}

func decodeBigram(data []byte, name string) (*bigramTable, error) {
	t := &bigramTable{}
	err := decodeBinary(data, name, StemBigram, func(f field) error {
		if f.num != 3 || !f.is(protowire.BytesType) {
			return badField(f)
		}
		var p lexicon.Bigram
		err := walk(f.bytes, func(f field) error {
			switch {
			case f.num == 1 && f.is(protowire.BytesType):
				p.Left = f.str()
			case f.num == 2 && f.is(protowire.BytesType):
				p.Right = f.str()
			case f.num == 3 && f.is(protowire.Fixed64Type):
				p.Cost = f.float()
			default:
				return badField(f)
			}
			return nil
		})
		if err != nil {
			return err
		}
		t.pairs = append(t.pairs, p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// crf: 3 columns, 4 label, 5 template, 6 transition {1 from, 2 to, 3 weight},
// 7 feature {1 key, 2 packed weights}

func encodeCRF(kind string, t *crfTable) []byte {
	b := appendHeader(nil, kind)
	b = appendVarint(b, 3, uint64(t.columns))
	for _, l := range t.labels {
		b = appendString(b, 4, l)
	}
	for _, tmpl := range t.templates {
		b = appendString(b, 5, tmpl)
	}
	for _, tr := range t.transitions {
		var m []byte
		m = appendString(m, 1, tr.from)
		m = appendString(m, 2, tr.to)
		m = appendFloat(m, 3, tr.weight)
		b = appendMessage(b, 6, m)
	}

	keys := make([]string, 0, len(t.features))
	for k := range t.features {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		var m []byte
		m = appendString(m, 1, k)
		m = appendPackedFloats(m, 2, t.features[k])
		b = appendMessage(b, 7, m)
	}
	return b
}

func decodeCRF(data []byte, name, kind string) (*crfTable, error) {
	t := &crfTable{features: make(map[string][]float64)}
	err := decodeBinary(data, name, kind, func(f field) error {
		switch {
		case f.num == 3 && f.is(protowire.VarintType):
			t.columns = int(f.scalar)
		case f.num == 4 && f.is(protowire.BytesType):
			t.labels = append(t.labels, f.str())
		case f.num == 5 && f.is(protowire.BytesType):
			t.templates = append(t.templates, f.str())
		case f.num == 6 && f.is(protowire.BytesType):
			var tr crfTransition
			err := walk(f.bytes, func(f field) error {
				switch {
				case f.num == 1 && f.is(protowire.BytesType):
					tr.from = f.str()
				case f.num == 2 && f.is(protowire.BytesType):
					tr.to = f.str()
				case f.num == 3 && f.is(protowire.Fixed64Type):
					tr.weight = f.float()
				default:
					return badField(f)
				}
				return nil
			})
			if err != nil {
				return err
			}
			t.transitions = append(t.transitions, tr)
		case f.num == 7 && f.is(protowire.BytesType):
			var key string
			var weights []float64
			err := walk(f.bytes, func(f field) error {
				switch {
				case f.num == 1 && f.is(protowire.BytesType):
					key = f.str()
				case f.num == 2 && f.is(protowire.BytesType):
					var err error
					weights, err = consumePackedFloats(f.bytes)
					return err
				default:
					return badField(f)
				}
				return nil
			})
			if err != nil {
				return err
			}
			t.features[key] = weights
		default:
			return badField(f)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// hmm: 3 state, 4 start {1 state, 2 cost}, 5 trans {1 from, 2 to, 3 cost},
// 6 emit {1 state, 2 obs, 3 cost}, 7 unknown, 8 missing

func encodeHMM(kind string, t *hmmTable) []byte {
	b := appendHeader(nil, kind)
	for _, s := range t.states {
		b = appendString(b, 3, s)
	}
	for _, kc := range t.sortedStarts() {
		var m []byte
		m = appendString(m, 1, kc.key)
		m = appendFloat(m, 2, kc.cost)
		b = appendMessage(b, 4, m)
	}
	for _, a := range t.trans {
		var m []byte
		m = appendString(m, 1, a.from)
		m = appendString(m, 2, a.to)
		m = appendFloat(m, 3, a.cost)
		b = appendMessage(b, 5, m)
	}
	for _, e := range t.emit {
		var m []byte
		m = appendString(m, 1, e.state)
		m = appendString(m, 2, e.obs)
		m = appendFloat(m, 3, e.cost)
		b = appendMessage(b, 6, m)
	}
	b = appendFloat(b, 7, t.unknown)
	return appendFloat(b, 8, t.missing)
}

func decodeHMM(data []byte, name, kind string) (*hmmTable, error) {
	t := &hmmTable{start: make(map[string]float64)}
	err := decodeBinary(data, name, kind, func(f field) error {
		switch {
		case f.num == 3 && f.is(protowire.BytesType):
			t.states = append(t.states, f.str())
		case f.num == 4 && f.is(protowire.BytesType):
			var state string
			var cost float64
			err := walk(f.bytes, func(f field) error {
				switch {
				case f.num == 1 && f.is(protowire.BytesType):
					state = f.str()
				case f.num == 2 && f.is(protowire.Fixed64Type):
					cost = f.float()
				default:
					return badField(f)
				}
				return nil
			})
			if err != nil {
				return err
			}
			t.start[state] = cost
		case f.num == 5 && f.is(protowire.BytesType):
			var a hmmArc
			err := walk(f.bytes, func(f field) error {
				switch {
				case f.num == 1 && f.is(protowire.BytesType):
					a.from = f.str()
				case f.num == 2 && f.is(protowire.BytesType):
					a.to = f.str()
				case f.num == 3 && f.is(protowire.Fixed64Type):
					a.cost = f.float()
				default:
					return badField(f)
				}
				return nil
			})
			if err != nil {
				return err
			}
			t.trans = append(t.trans, a)
		case f.num == 6 && f.is(protowire.BytesType):
			var e hmmEmission
			err := walk(f.bytes, func(f field) error {
				switch {
				case f.num == 1 && f.is(protowire.BytesType):
					e.state = f.str()
				case f.num == 2 && f.is(protowire.BytesType):
					e.obs = f.str()
				case f.num == 3 && f.is(protowire.Fixed64Type):
					e.cost = f.float()
				default:
					return badField(f)
				}
				return nil
			})
			if err != nil {
				return err
			}
			t.emit = append(t.emit, e)
		case f.num == 7 && f.is(protowire.Fixed64Type):
			t.unknown = f.float()
		case f.num == 8 && f.is(protowire.Fixed64Type):
			t.missing = f.float()
		default:
			return badField(f)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// oov_property: 3 entry {1 char, 2 property}

func encodeProperty(t *propertyTable) []byte {
	b := appendHeader(nil, StemOOVProperty)
	keys := make([]string, 0, len(t.props))
	for k := range t.props {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		var m []byte
		m = appendString(m, 1, k)
		m = appendVarint(m, 2, uint64(t.props[k]))
		b = appendMessage(b, 3, m)
	}
	return b
}

func decodeProperty(data []byte, name string) (*propertyTable, error) {
	t := &propertyTable{props: make(map[string]lexicon.Property)}
	err := decodeBinary(data, name, StemOOVProperty, func(f field) error {
		if f.num != 3 || !f.is(protowire.BytesType) {
			return badField(f)
		}
		var char string
		var prop lexicon.Property
		err := walk(f.bytes, func(f field) error {
			switch {
			case f.num == 1 && f.is(protowire.BytesType):
				char = f.str()
			case f.num == 2 && f.is(protowire.VarintType):
				if f.scalar > uint64(lexicon.Filtered) {
					return fmt.Errorf("unknown property %d", f.scalar)
				}
				prop = lexicon.Property(f.scalar)
			default:
				return badField(f)
			}
			return nil
		})
		if err != nil {
			return err
		}
		t.props[char] = prop
		return nil
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// default_tag: 3 entry {1 key, 2 value}

func encodeDefaultTag(t *defaultTagTable) []byte {
	b := appendHeader(nil, StemDefaultTag)
	for _, kv := range t.pairs {
		var m []byte
		m = appendString(m, 1, kv.key)
		m = appendString(m, 2, kv.value)
		b = appendMessage(b, 3, m)
	}
	return b
}

func decodeDefaultTag(data []byte, name string) (*defaultTagTable, error) {
	t := &defaultTagTable{}
	err := decodeBinary(data, name, StemDefaultTag, func(f field) error {
		if f.num != 3 || !f.is(protowire.BytesType) {
			return badField(f)
		}
		var kv keyValue
		err := walk(f.bytes, func(f field) error {
			switch {
			case f.num == 1 && f.is(protowire.BytesType):
				kv.key = f.str()
			case f.num == 2 && f.is(protowire.BytesType):
				kv.value = f.str()
			default:
				return badField(f)
			}
			return nil
		})
		if err != nil {
			return err
		}
		t.pairs = append(t.pairs, kv)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}
