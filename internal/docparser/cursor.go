// Package docparser parses documented-argument docstrings (Args / Kwargs /
// Returns / Yields sections) into a TypeSignature with exact source spans.
//
// The grammar is indentation-sensitive: section items are siblings at the
// column of the first item (which must sit strictly deeper than the section
// header), deeper lines are folded description text, and a shallower line
// ends the section without being consumed. Blank lines are insignificant in
// all three roles. Parsing is a cursor-based recursive descent with explicit
// save/restore backtracking; a section whose body is malformed is treated as
// absent rather than failing the whole docstring.
package docparser

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/anentropic/python-waterloo/doctype"
)

// ParseError is a hard failure: the docstring is not well-formed at the top
// level. Callers skip the docstring, report, and continue with the rest of
// the file.
type ParseError struct {
	Pos     doctype.SourcePos
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("docstring parse error at %d:%d: %s", e.Pos.Row, e.Pos.Col, e.Message)
}

// cursor is a (row, col) position over the docstring's lines. Col is a byte
// offset within the line. Row == len(lines) is the end-of-input state.
type cursor struct {
	Row int
	Col int
}

type parser struct {
	lines []string
}

func newParser(text string) *parser {
	return &parser{lines: strings.Split(text, "\n")}
}

func (p *parser) eof(c cursor) bool {
	return c.Row >= len(p.lines)
}

func (p *parser) line(c cursor) string {
	return p.lines[c.Row]
}

// atEOL reports whether the cursor sits at or past the end of its line.
func (p *parser) atEOL(c cursor) bool {
	return p.eof(c) || c.Col >= len(p.lines[c.Row])
}

// hasNewline reports whether the given row is terminated by a newline in the
// original text. strings.Split guarantees a following element exists exactly
// when the line had one.
func (p *parser) hasNewline(row int) bool {
	return row < len(p.lines)-1
}

// peek returns the byte under the cursor, 0 at end of line or input.
func (p *parser) peek(c cursor) byte {
	if p.atEOL(c) {
		return 0
	}
	return p.lines[c.Row][c.Col]
}

func isHorizontal(b byte) bool {
	return b == ' ' || b == '\t'
}

// skipHorizontal consumes spaces and tabs but never a newline.
func (p *parser) skipHorizontal(c cursor) cursor {
	for !p.atEOL(c) && isHorizontal(p.lines[c.Row][c.Col]) {
		c.Col++
	}
	return c
}

// skipFree consumes whitespace including newlines and blank lines. It only
// moves past a line end when that line is newline-terminated.
func (p *parser) skipFree(c cursor) cursor {
	for {
		c = p.skipHorizontal(c)
		if p.eof(c) || !p.atEOL(c) {
			return c
		}
		if !p.hasNewline(c.Row) {
			// Unterminated final line: end of input.
			return cursor{Row: len(p.lines)}
		}
		c = cursor{Row: c.Row + 1}
	}
}

// indentOf returns the byte column of the first non-whitespace character of
// the row, and false when the line is blank.
func (p *parser) indentOf(row int) (int, bool) {
	line := p.lines[row]
	for i := 0; i < len(line); i++ {
		if !isHorizontal(line[i]) {
			return i, true
		}
	}
	return 0, false
}

// blank reports whether the row contains only whitespace.
func (p *parser) blank(row int) bool {
	_, ok := p.indentOf(row)
	return !ok
}

// Python identifier character classes. The scan is deliberately lenient (it
// over-accepts some code points); each candidate is re-validated with the
// strict predicate before being accepted.

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r) ||
		unicode.Is(unicode.Nl, r) || unicode.Is(unicode.Other_ID_Start, r)
}

func isIdentContinue(r rune) bool {
	return isIdentStart(r) ||
		unicode.Is(unicode.Mn, r) || unicode.Is(unicode.Mc, r) ||
		unicode.Is(unicode.Nd, r) || unicode.Is(unicode.Pc, r) ||
		unicode.Is(unicode.Other_ID_Continue, r)
}

// isIdentifier is the strict validity predicate applied after the lenient
// character-class scan.
func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	first := true
	for _, r := range s {
		if first {
			if !isIdentStart(r) {
				return false
			}
			first = false
			continue
		}
		if !isIdentContinue(r) {
			return false
		}
	}
	return true
}

// scanIdentifier consumes one identifier at the cursor. Returns the advanced
// cursor and the identifier text; ok is false when no valid identifier
// starts here.
func (p *parser) scanIdentifier(c cursor) (cursor, string, bool) {
	if p.atEOL(c) {
		return c, "", false
	}
	line := p.lines[c.Row]
	start := c.Col
	i := c.Col
	for i < len(line) {
		r, size := utf8.DecodeRuneInString(line[i:])
		if i == start {
			if !isIdentStart(r) {
				break
			}
		} else if !isIdentContinue(r) {
			break
		}
		i += size
	}
	if i == start {
		return c, "", false
	}
	name := line[start:i]
	if !isIdentifier(name) {
		return c, "", false
	}
	c.Col = i
	return c, name, true
}
