// Package tokenizer splits raw text into sentences of typed tokens.
//
// A token is the smallest unit the segmenters work with: one Han character,
// or a run of Latin letters, digits or whitespace, or a single punctuation,
// symbol or other rune. Tokens tile the input: concatenating the Text of every
// token of every sentence reproduces the original string.
package tokenizer

import "unicode/utf8"

// MaxSentenceTokens bounds the number of tokens in one sentence. Longer runs
// without a sentence terminator are cut at this length.
const MaxSentenceTokens = 4096

// Token represents a token with its position in the original text.
type Token struct {
	Text  string
	Kind  Kind
	Start int // byte offset in original text
	End   int // byte offset in original text
}

// Sentence is a run of tokens terminated by a period, a newline, the end of
// the text or MaxSentenceTokens.
type Sentence struct {
	Text   string // text[Start:End] of the split text
	Tokens []Token
	Start  int
	End    int
}

// Len returns the number of tokens in the sentence.
func (s Sentence) Len() int { return len(s.Tokens) }

// Slice returns the surface of tokens [from, to) of the sentence.
func (s Sentence) Slice(from, to int) string {
	return s.Text[s.Tokens[from].Start-s.Start : s.Tokens[to-1].End-s.Start]
}

// Split tokenizes text and groups the tokens into sentences.
// The text must be valid UTF-8; invalid bytes are emitted as Other tokens.
func Split(text string) []Sentence {
	if text == "" {
		return nil
	}

	var sentences []Sentence
	var current []Token

	flush := func() {
		if len(current) == 0 {
			return
		}
		start, end := current[0].Start, current[len(current)-1].End
		sentences = append(sentences, Sentence{
			Text:   text[start:end],
			Tokens: current,
			Start:  start,
			End:    end,
		})
		current = nil
	}

	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		kind := classify(r)
		end := i + size

		switch kind {
		case English:
			end = scanWhile(text, end, func(r rune) bool { return classify(r) == English })
		case Number:
			end = scanNumber(text, end)
		case Space:
			end = scanWhile(text, end, func(r rune) bool { return classify(r) == Space })
		case Newline:
			if r == '\r' && end < len(text) && text[end] == '\n' {
				end++
			}
		}

		current = append(current, Token{
			Text:  text[i:end],
			Kind:  kind,
			Start: i,
			End:   end,
		})
		i = end

		if kind == Period || kind == Newline || len(current) >= MaxSentenceTokens {
			flush()
		}
	}
	flush()

	return sentences
}

func scanWhile(text string, pos int, ok func(rune) bool) int {
	for pos < len(text) {
		r, size := utf8.DecodeRuneInString(text[pos:])
		if !ok(r) {
			break
		}
		pos += size
	}
	return pos
}

// scanNumber consumes digits, allowing a single decimal point that is
// followed by another digit ("3.14", "２.５").
func scanNumber(text string, pos int) int {
	pos = scanWhile(text, pos, isDigit)
	if pos >= len(text) {
		return pos
	}
	r, size := utf8.DecodeRuneInString(text[pos:])
	if fold(r) != '.' {
		return pos
	}
	next, _ := utf8.DecodeRuneInString(text[pos+size:])
	if pos+size < len(text) && isDigit(next) {
		return scanWhile(text, pos+size, isDigit)
	}
	return pos
}
