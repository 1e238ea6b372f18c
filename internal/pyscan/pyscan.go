// Package pyscan is a line-oriented scanner for Python source files. It
// collects the per-file facts the import-strategy resolver needs (classes,
// imports, TypeVar-style assignments) and locates each function together
// with its parameter names and docstring. It does not build a syntax tree;
// the handful of shapes it needs to recognize are all line-anchored.
package pyscan

import (
	"regexp"
	"strings"

	"github.com/anentropic/python-waterloo/doctype"
)

// Assignments of these callables define a usable type name, as in
// T = TypeVar("T") or Point = NamedTuple("Point", ...).
var assignmentTypeDefs = map[string]struct{}{
	"type":       {},
	"TypeVar":    {},
	"NamedTuple": {},
	"namedtuple": {},
	"TypedDict":  {},
}

var (
	classRe      = regexp.MustCompile(`^\s*class\s+(\w+)`)
	assignmentRe = regexp.MustCompile(`^\s*(\w+)\s*=\s*(\w+)\s*\(`)
	defRe        = regexp.MustCompile(`^(\s*)(?:async\s+)?def\s+(\w+)\s*\(`)
	importRe     = regexp.MustCompile(`^\s*import\s+(.+)$`)
	fromRe       = regexp.MustCompile(`^\s*from\s+(\.*[\w.]*)\s+import\s+(.+)$`)
)

// ScanFacts extracts the local-scope fact sheet from source text. Names
// found at any nesting level are included, mirroring a whole-file scan
// rather than true scope analysis.
func ScanFacts(src string) *doctype.LocalFacts {
	facts := doctype.EmptyLocalFacts()
	lines := strings.Split(src, "\n")
	for i := 0; i < len(lines); i++ {
		line := lines[i]
		if m := classRe.FindStringSubmatch(line); m != nil {
			facts.LocalNames[m[1]] = struct{}{}
			continue
		}
		if m := assignmentRe.FindStringSubmatch(line); m != nil {
			if _, ok := assignmentTypeDefs[m[2]]; ok {
				facts.LocalNames[m[1]] = struct{}{}
			}
			continue
		}
		if m := fromRe.FindStringSubmatch(line); m != nil {
			module := m[1]
			names := m[2]
			// A parenthesized name list may continue over several lines.
			if strings.Contains(names, "(") && !strings.Contains(names, ")") {
				for i+1 < len(lines) {
					i++
					names += " " + strings.TrimSpace(lines[i])
					if strings.Contains(lines[i], ")") {
						break
					}
				}
			}
			recordFromImport(facts, module, names)
			continue
		}
		if m := importRe.FindStringSubmatch(line); m != nil {
			for _, part := range strings.Split(m[1], ",") {
				module := strings.TrimSpace(part)
				// aliased imports bind the alias, but the import line
				// itself still names the real module path
				if idx := strings.Index(module, " as "); idx >= 0 {
					module = strings.TrimSpace(module[:idx])
				}
				if module != "" {
					facts.BareModules[module] = struct{}{}
				}
			}
		}
	}
	return facts
}

func recordFromImport(facts *doctype.LocalFacts, module, names string) {
	names = strings.Trim(names, "() ")
	if strings.TrimSpace(names) == "*" {
		facts.WildcardModules[module] = struct{}{}
		return
	}
	for _, part := range strings.Split(names, ",") {
		name := strings.TrimSpace(part)
		if name == "" {
			continue
		}
		if idx := strings.Index(name, " as "); idx >= 0 {
			name = strings.TrimSpace(name[idx+4:])
		}
		facts.NameToModule[name] = module
	}
}

// Docstring is the literal found at the top of a function body. Content is
// the raw text between the quotes, exactly as written (no dedent), so
// positions reported by the docstring parser line up with the file.
type Docstring struct {
	Content  string
	Quote    string // the triple-quote token, including any prefix letters
	StartRow int    // file row of the opening quote
	StartCol int    // byte col just after the opening quote
	EndRow   int    // file row of the closing quote
	EndCol   int    // byte col of the closing quote
}

// Function is one function definition found in a source file.
type Function struct {
	Name       string
	Params     []string // splat markers retained; self/cls excluded
	DefRow     int      // file row of the def keyword
	HeaderEnd  int      // file row of the line closing the parameter list
	BodyIndent string   // indentation of the first body line
	Doc        *Docstring
}

// ParamSet returns the parameter names as a set for comparison with the
// names documented in the docstring.
func (f *Function) ParamSet() map[string]struct{} {
	set := make(map[string]struct{}, len(f.Params))
	for _, p := range f.Params {
		set[p] = struct{}{}
	}
	return set
}

// ScanFunctions locates every function definition in the source text.
// Nested defs are reported too, in document order.
func ScanFunctions(src string) []Function {
	lines := strings.Split(src, "\n")
	var funcs []Function
	for row := 0; row < len(lines); row++ {
		m := defRe.FindStringSubmatch(lines[row])
		if m == nil {
			continue
		}
		fn, nextRow, ok := scanDef(lines, row, m[2])
		if !ok {
			continue
		}
		funcs = append(funcs, fn)
		row = nextRow
	}
	return funcs
}

// scanDef parses one def header starting at row, then looks for a docstring
// as the first statement of the body.
func scanDef(lines []string, row int, name string) (Function, int, bool) {
	open := strings.IndexByte(lines[row], '(')
	var params strings.Builder
	depth := 0
	headerEnd := -1
	col := open
scan:
	for r := row; r < len(lines); r++ {
		line := lines[r]
		for ; col < len(line); col++ {
			switch line[col] {
			case '(', '[', '{':
				depth++
			case ')', ']', '}':
				depth--
				if depth == 0 {
					headerEnd = r
					break scan
				}
			}
			if depth == 1 && line[col] != '(' {
				params.WriteByte(line[col])
			} else if depth > 1 {
				params.WriteByte(line[col])
			}
		}
		params.WriteByte(' ')
		col = 0
	}
	if headerEnd < 0 {
		return Function{}, row, false
	}

	fn := Function{
		Name:      name,
		Params:    splitParams(params.String()),
		DefRow:    row,
		HeaderEnd: headerEnd,
	}

	bodyRow := headerEnd + 1
	for bodyRow < len(lines) && strings.TrimSpace(lines[bodyRow]) == "" {
		bodyRow++
	}
	if bodyRow >= len(lines) {
		return fn, headerEnd, true
	}
	body := lines[bodyRow]
	fn.BodyIndent = body[:len(body)-len(strings.TrimLeft(body, " \t"))]
	if doc, endRow, ok := scanDocstring(lines, bodyRow); ok {
		fn.Doc = doc
		return fn, endRow, true
	}
	return fn, headerEnd, true
}

// splitParams splits the raw parameter text on top-level commas and
// normalizes each entry down to its (possibly splatted) name. Bare * and /
// markers, defaults, inline annotations, and self/cls are dropped.
func splitParams(raw string) []string {
	var parts []string
	depth := 0
	start := 0
	for i := 0; i <= len(raw); i++ {
		if i == len(raw) || (raw[i] == ',' && depth == 0) {
			parts = append(parts, raw[start:i])
			start = i + 1
			continue
		}
		switch raw[i] {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		}
	}
	var params []string
	for _, part := range parts {
		name := strings.TrimSpace(part)
		if idx := strings.IndexAny(name, "=:"); idx >= 0 {
			name = strings.TrimSpace(name[:idx])
		}
		splat := ""
		for strings.HasPrefix(name, "*") {
			splat += "*"
			name = name[1:]
		}
		if name == "" || name == "/" || name == "self" || name == "cls" {
			continue
		}
		params = append(params, splat+name)
	}
	return params
}

var docPrefixes = []string{`"""`, `'''`, `r"""`, `r'''`, `u"""`, `u'''`}

// scanDocstring recognizes a triple-quoted string starting on row as the
// docstring. Returns the row the docstring ends on.
func scanDocstring(lines []string, row int) (*Docstring, int, bool) {
	line := lines[row]
	trimmed := strings.TrimLeft(line, " \t")
	indent := len(line) - len(trimmed)

	var quote, token string
	for _, prefix := range docPrefixes {
		if strings.HasPrefix(trimmed, prefix) {
			token = prefix
			quote = prefix[len(prefix)-3:]
			break
		}
	}
	if token == "" {
		return nil, 0, false
	}

	startCol := indent + len(token)
	// closing quotes on the same line?
	if idx := strings.Index(line[startCol:], quote); idx >= 0 {
		return &Docstring{
			Content:  line[startCol : startCol+idx],
			Quote:    token,
			StartRow: row,
			StartCol: startCol,
			EndRow:   row,
			EndCol:   startCol + idx,
		}, row, true
	}

	var content strings.Builder
	content.WriteString(line[startCol:])
	for r := row + 1; r < len(lines); r++ {
		if idx := strings.Index(lines[r], quote); idx >= 0 {
			content.WriteByte('\n')
			content.WriteString(lines[r][:idx])
			return &Docstring{
				Content:  content.String(),
				Quote:    token,
				StartRow: row,
				StartCol: startCol,
				EndRow:   r,
				EndCol:   idx,
			}, r, true
		}
		content.WriteByte('\n')
		content.WriteString(lines[r])
	}
	return nil, 0, false
}
