package lexicon

import "fmt"

// Property marks how a single character takes part in out-of-vocabulary
// word recognition.
type Property uint8

const (
	// NoProperty characters may appear anywhere in an unknown word.
	NoProperty Property = iota

	// BeginOfWord characters (surnames, for example) start an unknown word
	// that may also absorb the following dictionary word.
	BeginOfWord

	// Filtered characters are never part of an unknown word.
	Filtered
)

func (p Property) String() string {
	switch p {
	case BeginOfWord:
		return "begin"
	case Filtered:
		return "filtered"
	default:
		return "none"
	}
}

// ParseProperty parses the text form used in oov_property tables.
func ParseProperty(s string) (Property, error) {
	switch s {
	case "begin", "B":
		return BeginOfWord, nil
	case "filtered", "F":
		return Filtered, nil
	case "none":
		return NoProperty, nil
	}
	return NoProperty, fmt.Errorf("lexicon: unknown property %q", s)
}

// Properties maps characters to their OOV property.
type Properties struct {
	m map[string]Property
}

// NewProperties copies m into a property table.
func NewProperties(m map[string]Property) *Properties {
	p := &Properties{m: make(map[string]Property, len(m))}
	for k, v := range m {
		p.m[k] = v
	}
	return p
}

// Of returns the property of s. A nil table returns NoProperty.
func (p *Properties) Of(s string) Property {
	if p == nil {
		return NoProperty
	}
	return p.m[s]
}

// Len returns the number of characters with a property.
func (p *Properties) Len() int {
	if p == nil {
		return 0
	}
	return len(p.m)
}
