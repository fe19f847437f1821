// Package lexicon holds the word dictionary of a model: the trie index, the
// unigram cost and POS emissions of every word, the bigram cost table and the
// per-character out-of-vocabulary properties.
//
// All types are immutable once built and safe for concurrent use.
package lexicon

import (
	"errors"
	"fmt"
)

// TermID identifies a dictionary word. IDs start at 1; OOV marks a term that
// is not in the dictionary.
type TermID int32

// OOV is the term id of out-of-vocabulary terms.
const OOV TermID = 0

// DefaultUserCost is the unigram cost given to user dictionary words that do
// not specify one.
const DefaultUserCost = 18.0

var (
	// ErrEmptyWord indicates a dictionary entry without text.
	ErrEmptyWord = errors.New("lexicon: empty word")

	// ErrDuplicateWord indicates the same word listed twice.
	ErrDuplicateWord = errors.New("lexicon: duplicate word")

	// ErrUnknownWord indicates a bigram referring to a word missing from the dictionary.
	ErrUnknownWord = errors.New("lexicon: unknown word")
)

// TagCost is one POS emission of a word: the cost of observing the word
// given the tag.
type TagCost struct {
	Tag  string
	Cost float64
}

// Entry is one dictionary word.
type Entry struct {
	Word string
	Cost float64
	Tags []TagCost
}

// UserEntry is one line of a user dictionary.
type UserEntry struct {
	Word    string
	Cost    float64
	HasCost bool
}

// Lexicon is the dictionary index.
type Lexicon struct {
	trie    *trie
	entries []Entry
}

// New builds a lexicon. Entry i receives TermID i+1.
func New(entries []Entry) (*Lexicon, error) {
	l := &Lexicon{
		trie:    newTrie(),
		entries: make([]Entry, len(entries)),
	}
	copy(l.entries, entries)

	for i, e := range l.entries {
		if e.Word == "" {
			return nil, fmt.Errorf("%w at entry %d", ErrEmptyWord, i+1)
		}
		if l.trie.lookup(e.Word) != OOV {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateWord, e.Word)
		}
		l.trie.insert(e.Word, TermID(i+1))
	}

	return l, nil
}

// Len returns the number of words.
func (l *Lexicon) Len() int { return len(l.entries) }

// Lookup returns the id of word, or OOV.
func (l *Lexicon) Lookup(word string) TermID {
	return l.trie.lookup(word)
}

// Entry returns the entry of id. The zero Entry is returned for OOV or
// out-of-range ids.
func (l *Lexicon) Entry(id TermID) Entry {
	if id <= 0 || int(id) > len(l.entries) {
		return Entry{}
	}
	return l.entries[id-1]
}

// Cost returns the unigram cost of id.
func (l *Lexicon) Cost(id TermID) float64 {
	return l.Entry(id).Cost
}

// Tags returns the POS emissions of id. The slice must not be modified.
func (l *Lexicon) Tags(id TermID) []TagCost {
	return l.Entry(id).Tags
}

// Entries returns the dictionary in id order. The slice must not be modified.
func (l *Lexicon) Entries() []Entry { return l.entries }

// Root returns the trie root.
func (l *Lexicon) Root() Node { return 0 }

// Walk advances n along s. ok is false when no dictionary word has the
// resulting prefix; the walk cannot continue from there.
func (l *Lexicon) Walk(n Node, s string) (next Node, ok bool) {
	next = l.trie.walk(n, s)
	return next, next != deadNode
}

// TermAt returns the word ending at n, or OOV when the prefix is not a word.
func (l *Lexicon) TermAt(n Node) TermID {
	return l.trie.term(n)
}

// Merge returns a new lexicon extended with user words. Words already in l
// keep their id and tags and take the user cost only when one is given; new
// words are appended after the system words.
func (l *Lexicon) Merge(user []UserEntry) (*Lexicon, error) {
	entries := make([]Entry, len(l.entries), len(l.entries)+len(user))
	copy(entries, l.entries)

	added := make(map[string]int)
	for _, u := range user {
		if u.Word == "" {
			return nil, ErrEmptyWord
		}
		if id := l.Lookup(u.Word); id != OOV {
			if u.HasCost {
				entries[id-1].Cost = u.Cost
			}
			continue
		}

		cost := DefaultUserCost
		if u.HasCost {
			cost = u.Cost
		}
		if i, ok := added[u.Word]; ok {
			entries[i].Cost = cost
			continue
		}
		added[u.Word] = len(entries)
		entries = append(entries, Entry{Word: u.Word, Cost: cost})
	}

	return New(entries)
}
