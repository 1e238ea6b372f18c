package docparser

import (
	"github.com/anentropic/python-waterloo/doctype"
)

// Type expressions.
//
// An atom is a (possibly dotted) name with an optional bracketed argument
// list: "Dict[str, int]", "my.module.ClassName", "...". Inside brackets
// newlines may appear after the opening '[', after a ',', and before the
// closing ']'; everywhere else a type expression stays on one line. A bare
// bracket group with no head name parses as a raw list, which is how
// Callable argument lists are represented: "Callable[[int, str], bool]".

// parseDottedPath consumes identifier ('.' identifier)* with no whitespace
// around the dots.
func (p *parser) parseDottedPath(c cursor) (cursor, string, bool) {
	next, name, ok := p.scanIdentifier(c)
	if !ok {
		return c, "", false
	}
	path := name
	for p.peek(next) == '.' {
		after := next
		after.Col++
		after, seg, ok := p.scanIdentifier(after)
		if !ok {
			// Trailing dot is not part of the path.
			break
		}
		path += "." + seg
		next = after
	}
	return next, path, true
}

// parseTypeName consumes a dotted path or the ellipsis literal.
func (p *parser) parseTypeName(c cursor) (cursor, string, bool) {
	if next, name, ok := p.parseDottedPath(c); ok {
		return next, name, true
	}
	if !p.atEOL(c) && p.line(c)[c.Col] == '.' {
		line := p.line(c)
		if len(line)-c.Col >= 3 && line[c.Col:c.Col+3] == doctype.Ellipsis {
			c.Col += 3
			return c, doctype.Ellipsis, true
		}
	}
	return c, "", false
}

// parseTypeArg parses one element of a bracketed argument list: either a
// full atom or a bare bracket group (raw list).
func (p *parser) parseTypeArg(c cursor) (cursor, doctype.TypeArg, bool) {
	if p.peek(c) == '[' {
		next, args, ok := p.parseBracketGroup(c)
		if !ok {
			return c, nil, false
		}
		return next, doctype.RawList(args), true
	}
	next, atom, ok := p.parseAtomBody(c)
	if !ok {
		return c, nil, false
	}
	return next, atom, true
}

// parseAtomBody parses name [bracket group]. The cursor ends immediately
// after the last consumed character, so trailing whitespace never enters a
// span. "..." never takes arguments.
func (p *parser) parseAtomBody(c cursor) (cursor, *doctype.TypeAtom, bool) {
	next, name, ok := p.parseTypeName(c)
	if !ok {
		return c, nil, false
	}
	atom := &doctype.TypeAtom{Name: name}
	if name == doctype.Ellipsis {
		return next, atom, true
	}
	// Horizontal space is permitted between the name and its brackets, but
	// it is only consumed when brackets actually follow.
	probe := p.skipHorizontal(next)
	if p.peek(probe) != '[' {
		return next, atom, true
	}
	after, args, ok := p.parseBracketGroup(probe)
	if !ok {
		return c, nil, false
	}
	atom.Args = args
	return after, atom, true
}

// parseBracketGroup parses '[' args ']' with the permitted newline points.
// A trailing comma before the closing bracket is allowed.
func (p *parser) parseBracketGroup(c cursor) (cursor, []doctype.TypeArg, bool) {
	if p.peek(c) != '[' {
		return c, nil, false
	}
	c.Col++
	c = p.skipFree(c)
	if p.eof(c) {
		return c, nil, false
	}
	if p.peek(c) == ']' {
		c.Col++
		return c, nil, true
	}
	var args []doctype.TypeArg
	for {
		next, arg, ok := p.parseTypeArg(c)
		if !ok {
			return c, nil, false
		}
		args = append(args, arg)
		c = p.skipHorizontal(next)
		if p.peek(c) == ',' {
			c.Col++
			c = p.skipFree(c)
			if p.eof(c) {
				return c, nil, false
			}
			if p.peek(c) == ']' {
				c.Col++
				return c, args, true
			}
			continue
		}
		c = p.skipFree(c)
		if p.eof(c) || p.peek(c) != ']' {
			return c, nil, false
		}
		c.Col++
		return c, args, true
	}
}

// parseTypeDef parses an atom and records its source span. End is exclusive
// and falls directly after the final character of the expression.
func (p *parser) parseTypeDef(c cursor) (cursor, *doctype.TypeDef, bool) {
	start := c
	next, atom, ok := p.parseAtomBody(c)
	if !ok {
		return c, nil, false
	}
	def := &doctype.TypeDef{
		Atom:  *atom,
		Start: doctype.SourcePos{Row: start.Row, Col: start.Col},
		End:   doctype.SourcePos{Row: next.Row, Col: next.Col},
	}
	return next, def, true
}

// ParseTypeExpr parses a standalone type expression occupying the whole of
// text. Useful for configuration values and tests.
func ParseTypeExpr(text string) (*doctype.TypeDef, error) {
	p := newParser(text)
	c := p.skipFree(cursor{})
	next, def, ok := p.parseTypeDef(c)
	if !ok {
		return nil, &ParseError{
			Pos:     doctype.SourcePos{Row: c.Row, Col: c.Col},
			Message: "malformed type expression",
		}
	}
	rest := p.skipFree(next)
	if !p.eof(rest) {
		return nil, &ParseError{
			Pos:     doctype.SourcePos{Row: rest.Row, Col: rest.Col},
			Message: "trailing content after type expression",
		}
	}
	return def, nil
}
