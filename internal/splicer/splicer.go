// Package splicer removes parsed type annotations from docstring text,
// leaving the prose description intact. It edits by line using the exact
// source spans recorded by the parser, so everything outside a span
// survives byte for byte.
package splicer

import (
	"strings"

	"github.com/anentropic/python-waterloo/doctype"
)

type role int

const (
	roleArg role = iota
	roleReturn
)

// Slice returns the portion of text between start and end. End is exclusive.
// Multi-line spans keep their interior newlines.
func Slice(text string, start, end doctype.SourcePos) string {
	lines := strings.Split(text, "\n")
	if end.Row > start.Row {
		parts := make([]string, 0, end.Row-start.Row+1)
		parts = append(parts, lines[start.Row][start.Col:])
		parts = append(parts, lines[start.Row+1:end.Row]...)
		parts = append(parts, lines[end.Row][:end.Col])
		return strings.Join(parts, "\n")
	}
	return lines[start.Row][start.Col:end.Col]
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// removeTypeDef deletes one type span from lines and returns the result.
// rowOffset is the shift accumulated by earlier (higher-up) deletions.
//
// For an arg entry the span is surrounded by parentheses; the parens and the
// whitespace between the arg name and the open paren are deleted with it.
// For a return entry the bare span is deleted plus any directly following
// colon; when nothing remains of the entry (no description on its line and
// no indented description below) the section header and any blank lines
// immediately above it are deleted too.
func removeTypeDef(lines []string, def *doctype.TypeDef, rowOffset int, r role) []string {
	start := def.Start
	start.Row += rowOffset
	end := def.End
	end.Row += rowOffset

	startLine := lines[start.Row]
	endLine := lines[end.Row]

	var prefix string
	cut := end.Col
	if r == roleArg {
		prefix = strings.TrimRight(startLine[:start.Col-1], " \t")
		// Consume up to the closing paren, tolerating space before it.
		for cut < len(endLine) && (endLine[cut] == ' ' || endLine[cut] == '\t') {
			cut++
		}
		if cut < len(endLine) && endLine[cut] == ')' {
			cut++
		}
	} else {
		prefix = startLine[:start.Col]
		j := cut
		for j < len(endLine) && (endLine[j] == ' ' || endLine[j] == '\t') {
			j++
		}
		if j < len(endLine) && endLine[j] == ':' {
			cut = j + 1
		}
	}
	replaced := prefix + strings.TrimLeft(endLine[cut:], " \t")

	pre := start.Row
	post := end.Row + 1

	if r == roleReturn {
		hasDescription := !isBlank(replaced) ||
			(post < len(lines) &&
				strings.HasPrefix(lines[post], prefix) &&
				!isBlank(lines[post]))
		if !hasDescription {
			// No description at all: drop the section header and any blank
			// lines directly above it along with the entry.
			pre--
			for pre > 0 && isBlank(lines[pre-1]) {
				pre--
			}
			return spliceLines(lines, pre, post)
		}
		if isBlank(replaced) {
			return spliceLines(lines, pre, post)
		}
	}

	out := spliceLines(lines, pre, post)
	// Insert the merged line where the span began.
	out = append(out[:pre], append([]string{replaced}, out[pre:]...)...)
	return out
}

func spliceLines(lines []string, pre, post int) []string {
	out := make([]string, 0, len(lines)-(post-pre))
	out = append(out, lines[:pre]...)
	out = append(out, lines[post:]...)
	return out
}

// Strip returns docstring with every typed entry of sig removed. Edits run
// in document order; deletions of multi-line spans shift later rows, so a
// running row offset is applied to each remaining span before use. A
// signature with no typed entries leaves the text unchanged.
func Strip(docstring string, sig *doctype.TypeSignature) string {
	lines := strings.Split(docstring, "\n")
	originalCount := len(lines)
	offset := 0
	if sig.ArgTypes != nil {
		for _, entry := range sig.ArgTypes.Args {
			if entry.Type == nil {
				continue
			}
			lines = removeTypeDef(lines, entry.Type, offset, roleArg)
			offset = len(lines) - originalCount
		}
	}
	if sig.ReturnType != nil && sig.ReturnType.TypeDef != nil {
		lines = removeTypeDef(lines, sig.ReturnType.TypeDef, offset, roleReturn)
	}
	return strings.Join(lines, "\n")
}
