package docparser

import (
	"log/slog"
	"strings"

	"github.com/anentropic/python-waterloo/doctype"
	"github.com/anentropic/python-waterloo/internal/types"
)

// Section header synonyms. Matching is by exact "Name:" prefix, so the
// plural forms never shadow their singular counterparts.
var argsHeadNames = []string{
	"Keyword Arguments",
	"Keyword Args",
	"Arguments",
	"Parameters",
	"Kwargs",
	"Args",
}

var returnsHeadNames = []struct {
	name string
	kind doctype.ReturnsSection
}{
	{"Returns", doctype.SectionReturns},
	{"Return", doctype.SectionReturns},
	{"Yields", doctype.SectionYields},
	{"Yield", doctype.SectionYields},
}

// matchArgsHead reports whether the row is an args section header, and the
// column of its first character. A header must be newline-terminated and
// carry nothing but whitespace after the colon.
func (p *parser) matchArgsHead(row int) (int, bool) {
	col, rest, ok := p.headRest(row)
	if !ok {
		return 0, false
	}
	for _, name := range argsHeadNames {
		if tail, found := strings.CutPrefix(rest, name+":"); found {
			if strings.TrimRight(tail, " \t") == "" {
				return col, true
			}
		}
	}
	return 0, false
}

func (p *parser) matchReturnsHead(row int) (doctype.ReturnsSection, int, bool) {
	col, rest, ok := p.headRest(row)
	if !ok {
		return 0, 0, false
	}
	for _, h := range returnsHeadNames {
		if tail, found := strings.CutPrefix(rest, h.name+":"); found {
			if strings.TrimRight(tail, " \t") == "" {
				return h.kind, col, true
			}
		}
	}
	return 0, 0, false
}

func (p *parser) headRest(row int) (int, string, bool) {
	if !p.hasNewline(row) {
		return 0, "", false
	}
	col, ok := p.indentOf(row)
	if !ok {
		return 0, "", false
	}
	return col, p.lines[row][col:], true
}

// parseArgItem parses one args-section item starting at (row, col):
//
//	**kwargs
//	name: free description
//	name (TypeExpr): free description
//
// The description, when present, is discarded; deeper continuation lines are
// folded away by the caller. Returns the row on which the item's own content
// ended, which is past row when the type expression spans lines.
func (p *parser) parseArgItem(row, col int) (doctype.ArgEntry, int, bool) {
	c := cursor{Row: row, Col: col}
	splat := 0
	for splat < 2 && p.peek(c) == '*' {
		c.Col++
		splat++
	}
	c, name, ok := p.scanIdentifier(c)
	if !ok {
		return doctype.ArgEntry{}, 0, false
	}
	entry := doctype.ArgEntry{Name: strings.Repeat("*", splat) + name}

	after := p.skipHorizontal(c)
	if p.peek(after) == '(' {
		tc := after
		tc.Col++
		tc, def, ok := p.parseTypeDef(tc)
		if ok {
			tc = p.skipHorizontal(tc)
			if p.peek(tc) == ')' {
				tc.Col++
				if p.peek(tc) == ':' {
					tc.Col++
				}
				entry.Type = def
				return entry, tc.Row, true
			}
		}
		// Not a parenthesized type after all; fall through to the untyped
		// forms, which will reject the stray paren.
	}
	if p.atEOL(after) {
		return entry, after.Row, true
	}
	if p.peek(after) == ':' {
		return entry, after.Row, true
	}
	return doctype.ArgEntry{}, 0, false
}

// parseReturnItem parses one returns-section item: a type expression
// optionally followed by a colon and free description.
func (p *parser) parseReturnItem(row, col int) (*doctype.TypeDef, int, bool) {
	c := cursor{Row: row, Col: col}
	c, def, ok := p.parseTypeDef(c)
	if !ok {
		return nil, 0, false
	}
	after := p.skipHorizontal(c)
	if p.atEOL(after) {
		return def, after.Row, true
	}
	if p.peek(after) == ':' {
		return def, after.Row, true
	}
	return nil, 0, false
}

// sectionBody drives the indent block shared by both section kinds: the
// first item fixes the sibling column (strictly deeper than the header),
// each item is parsed by parseItem, deeper lines fold into the preceding
// item, and a line at the header's depth or shallower ends the section
// without being consumed. A dedent to a column between the header and the
// items is malformed.
func (p *parser) sectionBody(headerRow, headerCol int, parseItem func(row, col int) (int, bool)) (int, bool) {
	row := headerRow + 1
	for row < len(p.lines) && p.blank(row) {
		row++
	}
	if row >= len(p.lines) {
		return 0, false
	}
	itemCol, _ := p.indentOf(row)
	if itemCol <= headerCol {
		return 0, false
	}
	for {
		endRow, ok := parseItem(row, itemCol)
		if !ok {
			return 0, false
		}
		row = endRow + 1
		for row < len(p.lines) {
			if p.blank(row) {
				row++
				continue
			}
			col, _ := p.indentOf(row)
			if col <= itemCol {
				break
			}
			row++ // folded description line
		}
		if row >= len(p.lines) {
			return row, true
		}
		col, _ := p.indentOf(row)
		switch {
		case col == itemCol:
			continue
		case col <= headerCol:
			return row, true
		default:
			return 0, false
		}
	}
}

func (p *parser) parseArgsBody(headerRow, headerCol int) ([]doctype.ArgEntry, int, bool) {
	var entries []doctype.ArgEntry
	next, ok := p.sectionBody(headerRow, headerCol, func(row, col int) (int, bool) {
		entry, endRow, ok := p.parseArgItem(row, col)
		if !ok {
			return 0, false
		}
		entries = append(entries, entry)
		return endRow, true
	})
	if !ok {
		return nil, 0, false
	}
	return entries, next, true
}

func (p *parser) parseReturnsBody(headerRow, headerCol int) (*doctype.TypeDef, int, bool) {
	var first *doctype.TypeDef
	next, ok := p.sectionBody(headerRow, headerCol, func(row, col int) (int, bool) {
		def, endRow, ok := p.parseReturnItem(row, col)
		if !ok {
			return 0, false
		}
		if first == nil {
			first = def
		}
		return endRow, true
	})
	if !ok {
		return nil, 0, false
	}
	return first, next, true
}

// Parse extracts the type signature from a docstring. Rows and columns in
// the result are zero-based offsets into the docstring's own text, with
// columns counted in bytes.
//
// At most one args section and one returns section contribute; later
// duplicates are skipped as plain text. A section whose body is malformed is
// treated as absent and the scan resumes on the line after its header, so a
// bad section never poisons the rest of the docstring. Parse only returns an
// error for input it cannot scan at all, which well-formed text never
// triggers.
func Parse(text string, log types.Logger) (*doctype.TypeSignature, error) {
	p := newParser(text)
	sig := &doctype.TypeSignature{}

	row := 0
	for row < len(p.lines) {
		if p.blank(row) {
			row++
			continue
		}
		if col, ok := p.matchArgsHead(row); ok {
			entries, next, ok := p.parseArgsBody(row, col)
			if ok {
				sig.ArgTypes = &doctype.ArgTypes{Kind: doctype.SectionArgs, Args: entries}
				row = next
				break
			}
			log.Trace("skipping malformed args section", slog.Int("row", row))
			row++
			continue
		}
		if _, _, ok := p.matchReturnsHead(row); ok {
			break
		}
		row++
	}

	for row < len(p.lines) {
		if p.blank(row) {
			row++
			continue
		}
		if kind, col, ok := p.matchReturnsHead(row); ok {
			def, _, ok := p.parseReturnsBody(row, col)
			if ok {
				sig.ReturnType = &doctype.ReturnType{Kind: kind, TypeDef: def}
				break
			}
			log.Trace("skipping malformed returns section", slog.Int("row", row))
		}
		row++
	}

	return sig, nil
}
