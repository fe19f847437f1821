package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"

	milkcat "github.com/jamesainslie/go-milkcat"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const maxLineBytes = 8 << 20

func main() {
	// A missing .env file is fine; the environment and flags still apply.
	_ = godotenv.Load()

	modelPath := flag.String("model", os.Getenv("MILKCAT_MODEL"), "Model bundle directory (env MILKCAT_MODEL)")
	typeName := flag.String("type", envOr("MILKCAT_TYPE", "plain"), "Processor type: plain, crf-seg, crf or hmm (env MILKCAT_TYPE)")
	userDict := flag.String("userdict", "", "User dictionary file, one \"word [cost]\" per line")
	wordType := flag.Bool("word-type", false, "Print the word type after each word")
	poolSize := flag.Int("pool", 0, "Sentences decoded in parallel (default: number of CPUs)")
	verbose := flag.Bool("v", false, "Log model loading and processing at debug level")
	showVersion := flag.Bool("version", false, "Print version and exit")

	flag.Parse()

	if *showVersion {
		fmt.Printf("milkcat-cli %s (%s, %s)\n", version, commit, date)
		return
	}

	if *modelPath == "" {
		fmt.Fprintln(os.Stderr, "Usage: milkcat-cli -model DIR [-type TYPE] [OPTIONS] [FILE]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	typ, err := milkcat.ParseProcessorType(*typeName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	opts := []milkcat.Option{milkcat.WithLogger(logger), milkcat.WithPoolSize(*poolSize)}
	if *userDict != "" {
		opts = append(opts, milkcat.WithUserDictionary(*userDict))
	}

	proc, err := milkcat.New(typ, *modelPath, opts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating processor: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = proc.Close() }() // Cleanup error ignored in CLI

	in := io.Reader(os.Stdin)
	if flag.NArg() > 0 {
		f, err := os.Open(flag.Arg(0))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer func() { _ = f.Close() }()
		in = f
	}

	if err := run(context.Background(), proc, in, os.Stdout, *wordType); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run segments in line by line and writes one output line per input line.
func run(ctx context.Context, proc *milkcat.Processor, in io.Reader, out io.Writer, wordType bool) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)
	w := bufio.NewWriter(out)

	for scanner.Scan() {
		if err := proc.Process(ctx, scanner.Text()); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w, formatLine(proc, wordType)); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	return w.Flush()
}

// formatLine renders the processor's tokens as "word[_TYPE][/TAG]" separated
// by two spaces, skipping whitespace.
func formatLine(proc *milkcat.Processor, wordType bool) string {
	var parts []string
	for proc.Next() {
		tok, err := proc.Token()
		if err != nil || tok.Type == milkcat.Space {
			continue
		}

		var b strings.Builder
		b.WriteString(tok.Word)
		if wordType {
			b.WriteString("_")
			b.WriteString(tok.Type.String())
		}
		if tok.HasTag() {
			b.WriteString("/")
			b.WriteString(tok.Tag)
		}
		parts = append(parts, b.String())
	}
	return strings.Join(parts, "  ")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
