package model

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/jamesainslie/go-milkcat/lexicon"
)

const maxLineBytes = 16 << 20

// scanTable calls fn for every record of a text table. Blank lines and lines
// starting with # are skipped.
func scanTable(data []byte, name string, fn func(line int, text string) error) error {
	if !utf8.Valid(data) {
		return fmt.Errorf("%w: %s: invalid UTF-8", ErrCorruptFormat, name)
	}

	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 64*1024), maxLineBytes)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		if err := fn(line, text); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrCorruptFormat, name, err)
	}
	return nil
}

func parseFloat(name string, line int, s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, corrupt(name, line, "invalid number %q", s)
	}
	return v, nil
}

func wantFields(name string, line int, fields []string, n int) error {
	if len(fields) != n {
		return corrupt(name, line, "want %d fields, got %d", n, len(fields))
	}
	return nil
}

// parseDictText reads "word cost [TAG:cost ...]" lines.
func parseDictText(data []byte, name string) (*dictTable, error) {
	t := &dictTable{}
	err := scanTable(data, name, func(line int, text string) error {
		fields := strings.Fields(text)
		if len(fields) < 2 {
			return corrupt(name, line, "want word and cost")
		}
		cost, err := parseFloat(name, line, fields[1])
		if err != nil {
			return err
		}

		e := lexicon.Entry{Word: fields[0], Cost: cost}
		for _, f := range fields[2:] {
			tag, c, ok := strings.Cut(f, ":")
			if !ok || tag == "" {
				return corrupt(name, line, "want TAG:cost, got %q", f)
			}
			tc, err := parseFloat(name, line, c)
			if err != nil {
				return err
			}
			e.Tags = append(e.Tags, lexicon.TagCost{Tag: tag, Cost: tc})
		}
		t.entries = append(t.entries, e)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// parseBigramText reads "left right cost" lines.
func parseBigramText(data []byte, name string) (*bigramTable, error) {
	t := &bigramTable{}
	err := scanTable(data, name, func(line int, text string) error {
		fields := strings.Fields(text)
		if err := wantFields(name, line, fields, 3); err != nil {
			return err
		}
		cost, err := parseFloat(name, line, fields[2])
		if err != nil {
			return err
		}
		t.pairs = append(t.pairs, lexicon.Bigram{Left: fields[0], Right: fields[1], Cost: cost})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// parseCRFText reads a CRF model:
//
//	columns N
//	label B
//	unigram U00:%x[0,0]
//	trans B E 1.5
//	feature U00:北 B 0.75
//
// Labels must be declared before features that weight them.
func parseCRFText(data []byte, name string) (*crfTable, error) {
	t := &crfTable{columns: 1, features: make(map[string][]float64)}
	labelIDs := make(map[string]int)

	err := scanTable(data, name, func(line int, text string) error {
		fields := strings.Fields(text)
		switch fields[0] {
		case "columns":
			if err := wantFields(name, line, fields, 2); err != nil {
				return err
			}
			n, err := strconv.Atoi(fields[1])
			if err != nil || n <= 0 {
				return corrupt(name, line, "invalid column count %q", fields[1])
			}
			t.columns = n
		case "label":
			if err := wantFields(name, line, fields, 2); err != nil {
				return err
			}
			if len(t.features) > 0 {
				return corrupt(name, line, "label %q declared after features", fields[1])
			}
			labelIDs[fields[1]] = len(t.labels)
			t.labels = append(t.labels, fields[1])
		case "unigram":
			if err := wantFields(name, line, fields, 2); err != nil {
				return err
			}
			t.templates = append(t.templates, fields[1])
		case "trans":
			if err := wantFields(name, line, fields, 4); err != nil {
				return err
			}
			w, err := parseFloat(name, line, fields[3])
			if err != nil {
				return err
			}
			t.transitions = append(t.transitions, crfTransition{from: fields[1], to: fields[2], weight: w})
		case "feature":
			if err := wantFields(name, line, fields, 4); err != nil {
				return err
			}
			id, ok := labelIDs[fields[2]]
			if !ok {
				return corrupt(name, line, "unknown label %q", fields[2])
			}
			w, err := parseFloat(name, line, fields[3])
			if err != nil {
				return err
			}
			weights, ok := t.features[fields[1]]
			if !ok {
				weights = make([]float64, len(t.labels))
				t.features[fields[1]] = weights
			}
			weights[id] += w
		default:
			return corrupt(name, line, "unknown directive %q", fields[0])
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// parseHMMText reads an HMM:
//
//	state NN
//	start NN 1.2
//	trans NN VV 2.0
//	emit B 北 3.1
//	unknown 12
//	missing inf
//
// unknown is the emission cost of unseen observations and missing the cost
// of unlisted starts and transitions.
func parseHMMText(data []byte, name string) (*hmmTable, error) {
	t := &hmmTable{start: make(map[string]float64)}
	err := scanTable(data, name, func(line int, text string) error {
		fields := strings.Fields(text)
		switch fields[0] {
		case "state":
			if err := wantFields(name, line, fields, 2); err != nil {
				return err
			}
			t.states = append(t.states, fields[1])
		case "start":
			if err := wantFields(name, line, fields, 3); err != nil {
				return err
			}
			c, err := parseFloat(name, line, fields[2])
			if err != nil {
				return err
			}
			t.start[fields[1]] = c
		case "trans":
			if err := wantFields(name, line, fields, 4); err != nil {
				return err
			}
			c, err := parseFloat(name, line, fields[3])
			if err != nil {
				return err
			}
			t.trans = append(t.trans, hmmArc{from: fields[1], to: fields[2], cost: c})
		case "emit":
			if err := wantFields(name, line, fields, 4); err != nil {
				return err
			}
			c, err := parseFloat(name, line, fields[3])
			if err != nil {
				return err
			}
			t.emit = append(t.emit, hmmEmission{state: fields[1], obs: fields[2], cost: c})
		case "unknown":
			if err := wantFields(name, line, fields, 2); err != nil {
				return err
			}
			c, err := parseFloat(name, line, fields[1])
			if err != nil {
				return err
			}
			t.unknown = c
		case "missing":
			if err := wantFields(name, line, fields, 2); err != nil {
				return err
			}
			c, err := parseFloat(name, line, fields[1])
			if err != nil {
				return err
			}
			t.missing = c
		default:
			return corrupt(name, line, "unknown directive %q", fields[0])
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// parsePropertyText reads "char begin|filtered" lines.
func parsePropertyText(data []byte, name string) (*propertyTable, error) {
	t := &propertyTable{props: make(map[string]lexicon.Property)}
	err := scanTable(data, name, func(line int, text string) error {
		fields := strings.Fields(text)
		if err := wantFields(name, line, fields, 2); err != nil {
			return err
		}
		p, err := lexicon.ParseProperty(fields[1])
		if err != nil {
			return corrupt(name, line, "%v", err)
		}
		t.props[fields[0]] = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// parseDefaultTagText reads "key = value" lines.
func parseDefaultTagText(data []byte, name string) (*defaultTagTable, error) {
	t := &defaultTagTable{}
	err := scanTable(data, name, func(line int, text string) error {
		key, value, ok := strings.Cut(text, "=")
		key, value = strings.TrimSpace(key), strings.TrimSpace(value)
		if !ok || key == "" || value == "" {
			return corrupt(name, line, "want key = value")
		}
		t.pairs = append(t.pairs, keyValue{key: key, value: value})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// ParseUserDictionary reads "word [cost]" lines.
func ParseUserDictionary(data []byte, name string) ([]lexicon.UserEntry, error) {
	var entries []lexicon.UserEntry
	err := scanTable(data, name, func(line int, text string) error {
		fields := strings.Fields(text)
		switch len(fields) {
		case 1:
			entries = append(entries, lexicon.UserEntry{Word: fields[0]})
		case 2:
			cost, err := parseFloat(name, line, fields[1])
			if err != nil {
				return err
			}
			entries = append(entries, lexicon.UserEntry{Word: fields[0], Cost: cost, HasCost: true})
		default:
			return corrupt(name, line, "want word [cost]")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}
