// Package bench provides benchmarking utilities for word segmentation and
// part-of-speech tagging.
package bench

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Header contains metadata parsed from a corpus file header.
type Header struct {
	Source string
	Title  string
}

// ParseHeader extracts metadata from header comments.
// Returns the header, remaining text after header, and any error.
func ParseHeader(text string) (Header, string, error) {
	var h Header
	scanner := bufio.NewScanner(strings.NewReader(text))
	bodyStart := len(text)
	var lineEnd int

	for scanner.Scan() {
		line := scanner.Text()
		lineEnd += len(line) + 1 // +1 for newline

		if !strings.HasPrefix(line, "#") {
			if strings.TrimSpace(line) == "" {
				continue
			}
			bodyStart = lineEnd - len(line) - 1
			break
		}

		line = strings.TrimPrefix(line, "# ")
		if value, ok := strings.CutPrefix(line, "Source:"); ok {
			h.Source = strings.TrimSpace(value)
		} else if value, ok := strings.CutPrefix(line, "Title:"); ok {
			h.Title = strings.TrimSpace(value)
		}
	}

	if err := scanner.Err(); err != nil {
		return Header{}, "", fmt.Errorf("scan header: %w", err)
	}

	if h.Source == "" {
		return Header{}, "", errors.New("missing Source in header")
	}

	body := strings.TrimSpace(text[bodyStart:])
	return h, body, nil
}

// Word is one gold word with byte offsets into its sentence text.
type Word struct {
	Text  string
	Tag   string
	Start int
	End   int
}

// Sentence is one gold-segmented sentence. Text is the concatenation of
// its words.
type Sentence struct {
	Text  string
	Words []Word
}

// wordTag splits "word/TAG". Tags start with a letter so that "1/2" stays
// one untagged word.
var wordTag = regexp.MustCompile(`^(.+)/([A-Za-z][A-Za-z0-9-]*)$`)

// ParseSentence parses one line of space-separated "word/TAG" items. The
// tag is optional.
func ParseSentence(line string) Sentence {
	var s Sentence
	var b strings.Builder

	for _, item := range strings.Fields(line) {
		w := Word{Text: item}
		if m := wordTag.FindStringSubmatch(item); m != nil {
			w.Text, w.Tag = m[1], m[2]
		}

		w.Start = b.Len()
		b.WriteString(w.Text)
		w.End = b.Len()
		s.Words = append(s.Words, w)
	}

	s.Text = b.String()
	return s
}

// ParseSentences parses a corpus body, one sentence per non-blank line.
func ParseSentences(body string) []Sentence {
	var sentences []Sentence
	for _, line := range strings.Split(body, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		sentences = append(sentences, ParseSentence(line))
	}
	return sentences
}

// Document represents a loaded corpus file.
type Document struct {
	ID        string // filename without extension
	Source    string
	Title     string
	Sentences []Sentence
}

// Words returns the number of gold words in the document.
func (d *Document) Words() int {
	n := 0
	for _, s := range d.Sentences {
		n += len(s.Words)
	}
	return n
}

// LoadDocument loads and parses a corpus file.
func LoadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	header, body, err := ParseHeader(string(data))
	if err != nil {
		return nil, fmt.Errorf("parse header: %w", err)
	}

	base := filepath.Base(path)
	id := strings.TrimSuffix(base, filepath.Ext(base))

	return &Document{
		ID:        id,
		Source:    header.Source,
		Title:     header.Title,
		Sentences: ParseSentences(body),
	}, nil
}

// LoadCorpus loads all .txt corpus files from a directory.
func LoadCorpus(dir string) ([]*Document, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}

	var docs []*Document
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if filepath.Ext(entry.Name()) != ".txt" {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		doc, err := LoadDocument(path)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", entry.Name(), err)
		}
		docs = append(docs, doc)
	}

	return docs, nil
}
