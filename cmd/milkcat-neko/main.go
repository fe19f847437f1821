package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/joho/godotenv"

	"github.com/jamesainslie/go-milkcat/internal/neko"
)

const maxLineBytes = 8 << 20

func main() {
	_ = godotenv.Load()

	modelPath := flag.String("model", os.Getenv("MILKCAT_MODEL"), "Model bundle directory (env MILKCAT_MODEL)")
	namesPath := flag.String("names", "", "Person name maxent model; candidates it classifies as names are dropped")
	threshold := flag.Int("threshold", 0, "Minimum candidate frequency (default: derived from corpus size)")
	workers := flag.Int("workers", 0, "Lines segmented in parallel (default: number of CPUs)")
	debugDir := flag.String("debug", "", "Directory for candidate, entropy and mutual information dumps")

	flag.Parse()

	if *modelPath == "" || flag.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "Usage: milkcat-neko -model DIR [OPTIONS] CORPUS OUTPUT")
		flag.PrintDefaults()
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	lines, err := readLines(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	opts := []neko.Option{
		neko.WithLogger(logger),
		neko.WithThreshold(*threshold),
		neko.WithWorkers(*workers),
	}
	if *namesPath != "" {
		f, err := os.Open(*namesPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		names, err := neko.LoadMaxent(f)
		_ = f.Close()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading %s: %v\n", *namesPath, err)
			os.Exit(1)
		}
		opts = append(opts, neko.WithNameClassifier(names))
	}

	res, err := neko.Discover(context.Background(), *modelPath, lines, opts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *debugDir != "" {
		if err := writeDebug(*debugDir, res); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	if err := writeFile(flag.Arg(1), func(w io.Writer) error { return writeRanked(w, res.Ranked) }); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %d new words to %s\n", len(res.Ranked), flag.Arg(1))
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return lines, nil
}

func writeRanked(w io.Writer, ranked []neko.Scored) error {
	for _, s := range ranked {
		if _, err := fmt.Fprintf(w, "%s %.3f\n", s.Word, s.Score); err != nil {
			return err
		}
	}
	return nil
}

// writeScores writes "word value" lines in word order.
func writeScores(w io.Writer, scores map[string]float64, format string) error {
	for _, word := range sortedWords(scores) {
		if _, err := fmt.Fprintf(w, "%s "+format+"\n", word, scores[word]); err != nil {
			return err
		}
	}
	return nil
}

func writeDebug(dir string, res *neko.Result) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	dumps := []struct {
		name   string
		scores map[string]float64
		format string
	}{
		{"candidate_cost.txt", res.Candidates, "%.5f"},
		{"adjent.txt", res.Entropy, "%.3f"},
		{"mi.txt", res.MI, "%.3f"},
	}
	for _, d := range dumps {
		err := writeFile(filepath.Join(dir, d.name), func(w io.Writer) error {
			return writeScores(w, d.scores, d.format)
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	if err := write(w); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := w.Flush(); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}

func sortedWords(m map[string]float64) []string {
	words := make([]string, 0, len(m))
	for w := range m {
		words = append(words, w)
	}
	slices.Sort(words)
	return words
}
