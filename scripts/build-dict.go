//go:build ignore

// Build dictionary and bigram tables from a gold corpus.
// Word costs are negative log frequencies; tag costs are negative log
// P(tag|word). Output files use the text model bundle format.
// Usage: go run ./scripts/build-dict.go [-corpus DIR] [-out DIR] [-min N]
package main

import (
	"bufio"
	"flag"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/jamesainslie/go-milkcat/internal/bench"
)

type counts struct {
	total   int
	words   map[string]int
	tags    map[string]map[string]int
	bigrams map[[2]string]int
}

func main() {
	corpusDir := flag.String("corpus", "testdata/corpus", "Gold corpus directory")
	outDir := flag.String("out", "testdata/model-built", "Output bundle directory")
	minCount := flag.Int("min", 1, "Drop words seen fewer times")
	flag.Parse()

	docs, err := bench.LoadCorpus(*corpusDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading corpus: %v\n", err)
		os.Exit(1)
	}
	if len(docs) == 0 {
		fmt.Println("No corpus files found. Run ./scripts/process-ud-gsd.go first.")
		os.Exit(1)
	}

	c := count(docs)
	fmt.Printf("Counted %d tokens, %d distinct words\n", c.total, len(c.words))

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating %s: %v\n", *outDir, err)
		os.Exit(1)
	}

	dictPath := filepath.Join(*outDir, "dict.txt")
	if err := writeDict(dictPath, c, *minCount); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", dictPath, err)
		os.Exit(1)
	}
	fmt.Printf("  -> %s\n", dictPath)

	bigramPath := filepath.Join(*outDir, "bigram.txt")
	if err := writeBigrams(bigramPath, c, *minCount); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", bigramPath, err)
		os.Exit(1)
	}
	fmt.Printf("  -> %s\n", bigramPath)
}

func count(docs []*bench.Document) *counts {
	c := &counts{
		words:   make(map[string]int),
		tags:    make(map[string]map[string]int),
		bigrams: make(map[[2]string]int),
	}
	for _, doc := range docs {
		for _, s := range doc.Sentences {
			for i, w := range s.Words {
				// Table lines starting with # are comments.
				if strings.ContainsAny(w.Text, " \t") || strings.HasPrefix(w.Text, "#") {
					continue
				}
				c.total++
				c.words[w.Text]++
				if w.Tag != "" {
					if c.tags[w.Text] == nil {
						c.tags[w.Text] = make(map[string]int)
					}
					c.tags[w.Text][w.Tag]++
				}
				if i > 0 {
					c.bigrams[[2]string{s.Words[i-1].Text, w.Text}]++
				}
			}
		}
	}
	return c
}

func cost(n, total int) float64 {
	return math.Round(-math.Log(float64(n)/float64(total))*100) / 100
}

func writeDict(path string, c *counts, minCount int) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	fmt.Fprintln(w, "# word cost [TAG:cost ...]")

	words := make([]string, 0, len(c.words))
	for word, n := range c.words {
		if n >= minCount {
			words = append(words, word)
		}
	}
	slices.Sort(words)

	for _, word := range words {
		n := c.words[word]
		fmt.Fprintf(w, "%s %g", word, cost(n, c.total))

		tags := make([]string, 0, len(c.tags[word]))
		for tag := range c.tags[word] {
			tags = append(tags, tag)
		}
		slices.Sort(tags)
		for _, tag := range tags {
			fmt.Fprintf(w, " %s:%g", tag, cost(c.tags[word][tag], n))
		}
		fmt.Fprintln(w)
	}

	return w.Flush()
}

func writeBigrams(path string, c *counts, minCount int) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	fmt.Fprintln(w, "# left right cost")

	pairs := make([][2]string, 0, len(c.bigrams))
	for pair, n := range c.bigrams {
		if n >= minCount && c.words[pair[0]] >= minCount && c.words[pair[1]] >= minCount {
			pairs = append(pairs, pair)
		}
	}
	slices.SortFunc(pairs, func(a, b [2]string) int {
		if d := strings.Compare(a[0], b[0]); d != 0 {
			return d
		}
		return strings.Compare(a[1], b[1])
	})

	for _, pair := range pairs {
		fmt.Fprintf(w, "%s %s %g\n", pair[0], pair[1], cost(c.bigrams[pair], c.words[pair[0]]))
	}

	return w.Flush()
}
