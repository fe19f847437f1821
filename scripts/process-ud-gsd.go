//go:build ignore

// Process UD Chinese GSD CoNLL-U files into benchmark corpus format.
// Each sentence becomes one line of space separated word/TAG pairs using
// the treebank's XPOS column.
// Usage: go run ./scripts/process-ud-gsd.go [-in DIR] [-out DIR]
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const source = "https://github.com/UniversalDependencies/UD_Chinese-GSDSimp"

// Sentence is one treebank sentence as word/TAG pairs.
type Sentence struct {
	Words []string
	Tags  []string
}

func main() {
	inDir := flag.String("in", "testdata/ud-gsd", "Directory with zh_gsdsimp-ud-*.conllu files")
	outDir := flag.String("out", "testdata/corpus", "Corpus output directory")
	flag.Parse()

	splits := []string{"train", "dev", "test"}

	for _, split := range splits {
		inFile := filepath.Join(*inDir, fmt.Sprintf("zh_gsdsimp-ud-%s.conllu", split))
		outFile := filepath.Join(*outDir, fmt.Sprintf("gsd-%s.txt", split))

		fmt.Printf("Processing %s...\n", split)
		sentences, err := processCoNLLU(inFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error processing %s: %v\n", inFile, err)
			continue
		}

		if err := writeCorpus(outFile, "UD-GSD-"+split, sentences); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", outFile, err)
			continue
		}

		fmt.Printf("  -> %s (%d sentences, %d words)\n", outFile, len(sentences), countWords(sentences))
	}

	fmt.Printf("\nDone! Corpus files created in %s/\n", *outDir)
}

func processCoNLLU(path string) ([]Sentence, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer file.Close()

	var (
		sentences []Sentence
		current   Sentence
	)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()

		if strings.HasPrefix(line, "#") {
			continue
		}

		// Blank line = end of sentence
		if line == "" {
			if len(current.Words) > 0 {
				sentences = append(sentences, current)
				current = Sentence{}
			}
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) < 5 {
			return nil, fmt.Errorf("malformed token line %q", line)
		}
		// Multiword ranges (1-2) and empty nodes (1.1) carry no surface word.
		if strings.ContainsAny(fields[0], "-.") {
			continue
		}
		current.Words = append(current.Words, fields[1])
		current.Tags = append(current.Tags, fields[4])
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning file: %w", err)
	}

	// Don't forget last sentence if no trailing blank
	if len(current.Words) > 0 {
		sentences = append(sentences, current)
	}

	return sentences, nil
}

func writeCorpus(path, title string, sentences []Sentence) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	fmt.Fprintf(w, "# Source: %s\n# Title: %s\n\n", source, title)

	for _, s := range sentences {
		pairs := make([]string, len(s.Words))
		for i, word := range s.Words {
			if s.Tags[i] == "_" {
				pairs[i] = word
				continue
			}
			pairs[i] = word + "/" + s.Tags[i]
		}
		fmt.Fprintln(w, strings.Join(pairs, " "))
	}

	return w.Flush()
}

func countWords(sentences []Sentence) int {
	n := 0
	for _, s := range sentences {
		n += len(s.Words)
	}
	return n
}
