package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"

	milkcat "github.com/jamesainslie/go-milkcat"
	"github.com/jamesainslie/go-milkcat/internal/bench"
)

func main() {
	_ = godotenv.Load()

	var (
		modelPath = flag.String("model", os.Getenv("MILKCAT_MODEL"), "Model bundle directory (env MILKCAT_MODEL)")
		corpusDir = flag.String("corpus", "testdata/corpus", "Directory containing gold corpus files")
		typeName  = flag.String("type", "", "Processor type to evaluate (default: every type)")
		wp        = flag.Float64("wp", 1.0, "Precision weight")
		wr        = flag.Float64("wr", 1.0, "Recall weight")
		sweep     = flag.Bool("sweep", false, "Run beam size sweep")
		sweepMin  = flag.Int("sweep-min", 1, "Sweep minimum beam size")
		sweepMax  = flag.Int("sweep-max", 8, "Sweep maximum beam size")
		sweepStep = flag.Int("sweep-step", 1, "Sweep step size")
		models    = flag.String("models", "", "Comma-separated model directories for comparison")
	)
	flag.Parse()

	if *modelPath == "" && *models == "" {
		fmt.Fprintln(os.Stderr, "error: -model or -models required")
		flag.Usage()
		os.Exit(1)
	}

	types := []milkcat.ProcessorType{
		milkcat.PlainSegmentTag, milkcat.CRFSegmentOnly, milkcat.CRFSegmentTag, milkcat.HMMSegmentTag,
	}
	if *typeName != "" {
		typ, err := milkcat.ParseProcessorType(*typeName)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		types = []milkcat.ProcessorType{typ}
	}

	docs, err := bench.LoadCorpus(*corpusDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading corpus: %v\n", err)
		os.Exit(1)
	}
	words := 0
	for _, d := range docs {
		words += d.Words()
	}
	fmt.Printf("Loaded %d documents (%d words) from %s\n\n", len(docs), words, *corpusDir)

	cfg := bench.Config{
		PrecisionWeight: *wp,
		RecallWeight:    *wr,
	}

	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	switch {
	case *models != "":
		runModelComparison(ctx, strings.Split(*models, ","), types, docs, cfg, logger)
	case *sweep:
		sizes := bench.SweepBeamSizes(*sweepMin, *sweepMax, *sweepStep)
		for _, typ := range types {
			runSweep(ctx, *modelPath, typ, docs, cfg, sizes, logger)
		}
	default:
		runSingle(ctx, *modelPath, types, docs, cfg, logger)
	}
}

func openModel(path string, logger *slog.Logger) *milkcat.Model {
	m, err := milkcat.OpenModel(path, milkcat.WithLogger(logger))
	if err != nil {
		fmt.Fprintf(os.Stderr, "error opening model: %v\n", err)
		os.Exit(1)
	}
	return m
}

func evaluate(ctx context.Context, m *milkcat.Model, typ milkcat.ProcessorType, docs []*bench.Document, cfg bench.Config, logger *slog.Logger) (bench.Metrics, error) {
	proc, err := milkcat.NewWithModel(m, typ, milkcat.WithLogger(logger))
	if err != nil {
		return bench.Metrics{}, err
	}
	defer func() { _ = proc.Close() }()

	return bench.EvaluateCorpus(ctx, proc, docs, cfg)
}

func runSingle(ctx context.Context, modelPath string, types []milkcat.ProcessorType, docs []*bench.Document, cfg bench.Config, logger *slog.Logger) {
	m := openModel(modelPath, logger)

	fmt.Printf("%-8s %-8s %-8s %-8s %-8s %-8s\n", "Type", "Prec", "Rec", "F1", "Weighted", "TagAcc")
	fmt.Println(strings.Repeat("-", 54))
	for _, typ := range types {
		metrics, err := evaluate(ctx, m, typ, docs, cfg, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error evaluating %s: %v\n", typ, err)
			os.Exit(1)
		}
		printRow(typ.String(), metrics)
	}
}

func runSweep(ctx context.Context, modelPath string, typ milkcat.ProcessorType, docs []*bench.Document, cfg bench.Config, sizes []int, logger *slog.Logger) {
	m := openModel(modelPath, logger)

	results, err := bench.Sweep(ctx, docs, m, typ, cfg, sizes, milkcat.WithLogger(logger))
	if errors.Is(err, bench.ErrNoLattice) {
		fmt.Printf("Skipping %s: no dictionary lattice\n\n", typ)
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error during sweep: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Beam Sweep Results for %s (wp=%.1f, wr=%.1f)\n", typ, cfg.PrecisionWeight, cfg.RecallWeight)
	fmt.Println(strings.Repeat("-", 54))
	fmt.Printf("%-8s %-8s %-8s %-8s %-8s %-8s\n", "Beam", "Prec", "Rec", "F1", "Weighted", "TagAcc")

	// Print sorted by beam size for readability
	for _, size := range sizes {
		for _, r := range results {
			if r.BeamSize == size {
				printRow(fmt.Sprint(size), r.Metrics)
				break
			}
		}
	}

	fmt.Println(strings.Repeat("-", 54))
	if len(results) > 0 {
		best := results[0]
		fmt.Printf("Optimal: %d (Weighted: %.4f)\n\n", best.BeamSize, best.Metrics.WeightedScore)
	}
}

func runModelComparison(ctx context.Context, modelPaths []string, types []milkcat.ProcessorType, docs []*bench.Document, cfg bench.Config, logger *slog.Logger) {
	fmt.Printf("Model Comparison (wp=%.1f, wr=%.1f)\n", cfg.PrecisionWeight, cfg.RecallWeight)
	fmt.Println(strings.Repeat("-", 60))
	fmt.Printf("%-30s %-8s %-8s %-8s\n", "Model", "Type", "F1", "TagAcc")

	for _, modelPath := range modelPaths {
		m, err := milkcat.OpenModel(modelPath, milkcat.WithLogger(logger))
		if err != nil {
			fmt.Fprintf(os.Stderr, "error with %s: %v\n", modelPath, err)
			continue
		}
		for _, typ := range types {
			metrics, err := evaluate(ctx, m, typ, docs, cfg, logger)
			if err != nil {
				fmt.Fprintf(os.Stderr, "error with %s (%s): %v\n", modelPath, typ, err)
				continue
			}
			fmt.Printf("%-30s %-8s %-8.4f %-8.4f\n", modelPath, typ, metrics.F1, metrics.TagAccuracy)
		}
	}
}

func printRow(label string, m bench.Metrics) {
	fmt.Printf("%-8s %-8.4f %-8.4f %-8.4f %-8.4f %-8.4f\n",
		label, m.Precision, m.Recall, m.F1, m.WeightedScore, m.TagAccuracy)
}
