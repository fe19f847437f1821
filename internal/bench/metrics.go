package bench

// Config holds evaluation parameters.
type Config struct {
	PrecisionWeight float64
	RecallWeight    float64
}

// DefaultConfig returns default evaluation configuration.
func DefaultConfig() Config {
	return Config{
		PrecisionWeight: 1.0,
		RecallWeight:    1.0,
	}
}

// Span is a word as a byte range with an optional tag.
type Span struct {
	Start int
	End   int
	Tag   string
}

// Metrics holds evaluation results. A predicted word is a true positive when
// a gold word covers exactly the same bytes.
type Metrics struct {
	TruePositives  int
	FalsePositives int
	FalseNegatives int
	Precision      float64
	Recall         float64
	F1             float64
	WeightedScore  float64

	// TagsCorrect counts matched words whose predicted tag equals the gold
	// tag, out of TagsTotal matched words with a gold tag.
	TagsCorrect int
	TagsTotal   int
	TagAccuracy float64
}

// Evaluate compares predicted word spans against gold spans. Both must be
// sorted by Start.
func Evaluate(predicted, truth []Span, cfg Config) Metrics {
	var m Metrics
	i, j := 0, 0
	for i < len(predicted) && j < len(truth) {
		p, t := predicted[i], truth[j]
		switch {
		case p.Start == t.Start && p.End == t.End:
			m.TruePositives++
			if t.Tag != "" {
				m.TagsTotal++
				if p.Tag == t.Tag {
					m.TagsCorrect++
				}
			}
			i++
			j++
		case p.End <= t.End:
			i++
		default:
			j++
		}
	}

	m.FalsePositives = len(predicted) - m.TruePositives
	m.FalseNegatives = len(truth) - m.TruePositives
	m.compute(cfg)
	return m
}

// Add accumulates the counts of o and recomputes the ratios.
func (m *Metrics) Add(o Metrics, cfg Config) {
	m.TruePositives += o.TruePositives
	m.FalsePositives += o.FalsePositives
	m.FalseNegatives += o.FalseNegatives
	m.TagsCorrect += o.TagsCorrect
	m.TagsTotal += o.TagsTotal
	m.compute(cfg)
}

func (m *Metrics) compute(cfg Config) {
	tp, fp, fn := m.TruePositives, m.FalsePositives, m.FalseNegatives

	m.Precision, m.Recall, m.F1, m.WeightedScore, m.TagAccuracy = 0, 0, 0, 0, 0
	if tp+fp > 0 {
		m.Precision = float64(tp) / float64(tp+fp)
	}
	if tp+fn > 0 {
		m.Recall = float64(tp) / float64(tp+fn)
	}
	if m.Precision+m.Recall > 0 {
		m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
	}

	wp := cfg.PrecisionWeight
	wr := cfg.RecallWeight
	if wp+wr > 0 {
		m.WeightedScore = (wp*m.Precision + wr*m.Recall) / (wp + wr)
	}

	if m.TagsTotal > 0 {
		m.TagAccuracy = float64(m.TagsCorrect) / float64(m.TagsTotal)
	}
}
