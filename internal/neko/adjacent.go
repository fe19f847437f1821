package neko

import (
	"context"
	"math"
	"runtime"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/jamesainslie/go-milkcat/lexicon"
	"github.com/jamesainslie/go-milkcat/model"
	"github.com/jamesainslie/go-milkcat/segment"
	"github.com/jamesainslie/go-milkcat/tokenizer"
)

// DictionarySegmenter returns a dictionary segmenter over the bundle's
// lexicon extended with the candidates at their unigram costs.
func DictionarySegmenter(store *model.Store, candidates map[string]float64) (segment.Segmenter, error) {
	lex, err := store.Lexicon()
	if err != nil {
		return nil, err
	}
	bigrams, err := store.Bigrams()
	if err != nil {
		return nil, err
	}

	words := sortedKeys(candidates)
	user := make([]lexicon.UserEntry, len(words))
	for i, w := range words {
		user[i] = lexicon.UserEntry{Word: w, Cost: candidates[w], HasCost: true}
	}
	merged, err := lex.Merge(user)
	if err != nil {
		return nil, err
	}
	return segment.NewDictionary(merged, bigrams, segment.DefaultBeamSize, segment.DefaultOOVCost), nil
}

type neighbours struct {
	left, right map[string]int
}

// AdjacentEntropy segments every line with seg and returns, for each
// candidate, the smaller of the entropies of its left and right neighbour
// distributions, along with the vocabulary of the segmentation. Lines are
// segmented by up to workers goroutines; workers below 1 means one per CPU.
func AdjacentEntropy(ctx context.Context, seg segment.Segmenter, lines []string, candidates map[string]float64, workers int) (map[string]float64, *Vocabulary, error) {
	if workers < 1 {
		workers = runtime.NumCPU()
	}

	segmented := make([][]string, len(lines))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, line := range lines {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			segmented[i] = lineWords(seg, line)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	v := newVocabulary()
	adj := make(map[string]*neighbours, len(candidates))
	for w := range candidates {
		adj[w] = &neighbours{left: make(map[string]int), right: make(map[string]int)}
	}
	for _, words := range segmented {
		for i, w := range words {
			v.add(w)
			nb, ok := adj[w]
			if !ok {
				continue
			}
			if i > 0 {
				nb.left[words[i-1]]++
			}
			if i < len(words)-1 {
				nb.right[words[i+1]]++
			}
		}
	}

	entropy := make(map[string]float64, len(adj))
	for w, nb := range adj {
		entropy[w] = math.Min(distributionEntropy(nb.left), distributionEntropy(nb.right))
	}
	return entropy, v, nil
}

// lineWords segments one line into words, folding non-Chinese words into
// NotChinese and dropping whitespace.
func lineWords(seg segment.Segmenter, line string) []string {
	var words []string
	for _, s := range tokenizer.Split(line) {
		for _, t := range seg.Segment(s) {
			switch {
			case t.Kind.IsBlank():
			case t.Kind == tokenizer.Chinese:
				words = append(words, t.Text)
			default:
				words = append(words, NotChinese)
			}
		}
	}
	return words
}

func distributionEntropy(counts map[string]int) float64 {
	total := 0
	for _, n := range counts {
		total += n
	}
	var h float64
	for _, n := range counts {
		p := float64(n) / float64(total)
		h -= p * math.Log(p)
	}
	return h
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
