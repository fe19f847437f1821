package crf

import (
	"fmt"
	"strconv"
	"strings"
)

// maxContext bounds how far a template macro may look left or right.
const maxContext = 8

type macro struct {
	row int
	col int
}

type templatePart struct {
	literal string
	macro   *macro
}

// template is a compiled CRF++ unigram template such as "U01:%x[-1,0]".
type template struct {
	raw   string
	parts []templatePart
}

func parseTemplate(raw string, columns int) (template, error) {
	t := template{raw: raw}
	rest := raw
	for rest != "" {
		i := strings.Index(rest, "%x[")
		if i < 0 {
			t.parts = append(t.parts, templatePart{literal: rest})
			break
		}
		if i > 0 {
			t.parts = append(t.parts, templatePart{literal: rest[:i]})
		}
		rest = rest[i+3:]

		end := strings.IndexByte(rest, ']')
		if end < 0 {
			return template{}, fmt.Errorf("template %q: missing ']'", raw)
		}
		rowStr, colStr, ok := strings.Cut(rest[:end], ",")
		if !ok {
			return template{}, fmt.Errorf("template %q: macro needs row,col", raw)
		}
		row, err := strconv.Atoi(strings.TrimSpace(rowStr))
		if err != nil {
			return template{}, fmt.Errorf("template %q: row: %w", raw, err)
		}
		col, err := strconv.Atoi(strings.TrimSpace(colStr))
		if err != nil {
			return template{}, fmt.Errorf("template %q: col: %w", raw, err)
		}
		if row < -maxContext || row > maxContext {
			return template{}, fmt.Errorf("template %q: row %d out of range", raw, row)
		}
		if col < 0 || col >= columns {
			return template{}, fmt.Errorf("template %q: column %d out of range [0,%d)", raw, col, columns)
		}

		t.parts = append(t.parts, templatePart{macro: &macro{row: row, col: col}})
		rest = rest[end+1:]
	}
	return t, nil
}

// expand applies the template at position pos of obs. Positions before the
// start read as _B-1, _B-2, ... and positions past the end as _B+1, _B+2, ...
func (t template) expand(b *strings.Builder, obs [][]string, pos int) string {
	b.Reset()
	for _, p := range t.parts {
		if p.macro == nil {
			b.WriteString(p.literal)
			continue
		}
		idx := pos + p.macro.row
		switch {
		case idx < 0:
			b.WriteString("_B-")
			b.WriteString(strconv.Itoa(-idx))
		case idx >= len(obs):
			b.WriteString("_B+")
			b.WriteString(strconv.Itoa(idx - len(obs) + 1))
		case p.macro.col < len(obs[idx]):
			b.WriteString(obs[idx][p.macro.col])
		}
	}
	return b.String()
}
