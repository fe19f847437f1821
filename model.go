package milkcat

import (
	"errors"
	"fmt"

	"github.com/jamesainslie/go-milkcat/inference"
	"github.com/jamesainslie/go-milkcat/model"
	"github.com/jamesainslie/go-milkcat/postag"
	"github.com/jamesainslie/go-milkcat/segment"
)

// Model is an opened model bundle. Tables are loaded on first use by a
// processor type that needs them and shared by every Processor built on the
// Model. It is safe for concurrent use.
type Model struct {
	store *model.Store
}

// OpenModel opens the bundle directory dir. Only the version marker is
// checked here; WithUserDictionary and WithLogger apply.
func OpenModel(dir string, opts ...Option) (*Model, error) {
	cfg := newConfig(opts)

	storeOpts := []model.Option{model.WithLogger(cfg.logger)}
	if cfg.userDict != "" {
		storeOpts = append(storeOpts, model.WithUserDictionary(cfg.userDict))
	}

	store, err := model.Open(dir, storeOpts...)
	if err != nil {
		return nil, loadError(err)
	}
	return &Model{store: store}, nil
}

// Dir returns the bundle directory.
func (m *Model) Dir() string { return m.store.Dir() }

// loadError marks err as a model load failure. Errors of the store already
// carry their kind.
func loadError(err error) error {
	if errors.Is(err, ErrModelLoad) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrModelLoad, err)
}

// stage resolves the tables typ needs and builds its decoding stage.
func (m *Model) stage(typ ProcessorType, cfg config) (inference.Stage, error) {
	var (
		st  inference.Stage
		err error
	)
	switch typ {
	case PlainSegmentTag:
		st, err = m.plainStage(cfg)
	case CRFSegmentOnly:
		st, err = m.crfStage(false)
	case CRFSegmentTag:
		st, err = m.crfStage(true)
	case HMMSegmentTag:
		st, err = m.hmmStage(cfg)
	default:
		return inference.Stage{}, fmt.Errorf("%w: %d", ErrUnknownProcessorType, int(typ))
	}
	if err != nil {
		return inference.Stage{}, loadError(err)
	}
	return st, nil
}

func (m *Model) dictionary(cfg config) (*segment.Dictionary, error) {
	lex, err := m.store.Lexicon()
	if err != nil {
		return nil, err
	}
	bigrams, err := m.store.Bigrams()
	if err != nil {
		return nil, err
	}
	return segment.NewDictionary(lex, bigrams, cfg.beamSize, cfg.oovCost), nil
}

func (m *Model) hmmTagger() (*postag.HMM, error) {
	lex, err := m.store.Lexicon()
	if err != nil {
		return nil, err
	}
	trans, err := m.store.HMMPartOfSpeech()
	if err != nil {
		return nil, err
	}
	defaults, err := m.store.DefaultTags()
	if err != nil {
		return nil, err
	}
	h, err := postag.NewHMM(trans, lex, defaults)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptFormat, err)
	}
	return h, nil
}

func (m *Model) plainStage(cfg config) (inference.Stage, error) {
	dict, err := m.dictionary(cfg)
	if err != nil {
		return inference.Stage{}, err
	}
	chars, err := m.store.CRFSegment()
	if err != nil {
		return inference.Stage{}, err
	}
	props, err := m.store.OOVProperties()
	if err != nil {
		return inference.Stage{}, err
	}
	h, err := m.hmmTagger()
	if err != nil {
		return inference.Stage{}, err
	}
	pos, err := m.store.CRFPartOfSpeech()
	if err != nil {
		return inference.Stage{}, err
	}

	return inference.Stage{
		Segmenter: segment.NewRecognizer(dict, segment.CRFChars{Model: chars}, props),
		Tagger:    postag.NewMixed(h, postag.NewCRF(pos)),
	}, nil
}

func (m *Model) crfStage(tag bool) (inference.Stage, error) {
	chars, err := m.store.CRFSegment()
	if err != nil {
		return inference.Stage{}, err
	}
	st := inference.Stage{
		Segmenter: segment.NewCharSegmenter(segment.CRFChars{Model: chars}, nil),
	}
	if !tag {
		return st, nil
	}

	pos, err := m.store.CRFPartOfSpeech()
	if err != nil {
		return inference.Stage{}, err
	}
	st.Tagger = postag.NewCRF(pos)
	return st, nil
}

func (m *Model) hmmStage(cfg config) (inference.Stage, error) {
	dict, err := m.dictionary(cfg)
	if err != nil {
		return inference.Stage{}, err
	}
	chars, err := m.store.HMMSegment()
	if err != nil {
		return inference.Stage{}, err
	}
	props, err := m.store.OOVProperties()
	if err != nil {
		return inference.Stage{}, err
	}
	h, err := m.hmmTagger()
	if err != nil {
		return inference.Stage{}, err
	}

	return inference.Stage{
		Segmenter: segment.NewRecognizer(dict, segment.HMMChars{Model: chars}, props),
		Tagger:    h,
	}, nil
}
