package neko

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"
)

// NotName is the label a name classifier gives to words that are not
// person names.
const NotName = "F"

// ErrCorruptMaxent indicates a malformed maximum entropy model file.
var ErrCorruptMaxent = errors.New("neko: corrupt maxent model")

// Maxent is a maximum entropy classifier over string features. It is
// immutable once loaded.
type Maxent struct {
	labels  []string
	weights map[string][]float64 // feature -> weight per label
}

// LoadMaxent reads "label feature weight" lines. Blank lines and lines
// starting with # are skipped.
func LoadMaxent(r io.Reader) (*Maxent, error) {
	m := &Maxent{weights: make(map[string][]float64)}
	ids := make(map[string]int)

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) != 3 {
			return nil, fmt.Errorf("%w: line %d: want label, feature and weight", ErrCorruptMaxent, line)
		}
		w, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrCorruptMaxent, line, err)
		}

		y, ok := ids[fields[0]]
		if !ok {
			y = len(m.labels)
			ids[fields[0]] = y
			m.labels = append(m.labels, fields[0])
		}
		ws := m.weights[fields[1]]
		for len(ws) <= y {
			ws = append(ws, 0)
		}
		ws[y] = w
		m.weights[fields[1]] = ws
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading maxent model: %w", err)
	}
	if len(m.labels) == 0 {
		return nil, fmt.Errorf("%w: no labels", ErrCorruptMaxent)
	}
	return m, nil
}

// Classify returns the label with the highest summed weight over features.
// Unknown features are ignored; ties go to the label seen first.
func (m *Maxent) Classify(features []string) string {
	scores := make([]float64, len(m.labels))
	for _, f := range features {
		for y, w := range m.weights[f] {
			scores[y] += w
		}
	}

	best := 0
	for y := 1; y < len(scores); y++ {
		if scores[y] > scores[best] {
			best = y
		}
	}
	return m.labels[best]
}

// NameFeatures returns the person name features of word: its first
// character, its last character and every character in between.
func NameFeatures(word string) []string {
	if word == "" {
		return nil
	}
	chars := make([]string, 0, utf8.RuneCountInString(word))
	for _, r := range word {
		chars = append(chars, string(r))
	}

	features := []string{"B:" + chars[0], "E:" + chars[len(chars)-1]}
	for i := 1; i < len(chars)-1; i++ {
		features = append(features, "M:"+chars[i])
	}
	return features
}
