package waterloo

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/anentropic/python-waterloo/doctype"
	"github.com/anentropic/python-waterloo/internal/docparser"
	"github.com/anentropic/python-waterloo/internal/pyscan"
	"github.com/anentropic/python-waterloo/internal/resolver"
	"github.com/anentropic/python-waterloo/internal/splicer"
	"github.com/anentropic/python-waterloo/internal/types"
)

// Per-function failures. Each aborts the one function and leaves the rest
// of the file untouched.
var (
	// ErrArgNameMismatch: documented Args names disagree with the real
	// parameter names.
	ErrArgNameMismatch = errors.New("documented args do not match function signature")

	// ErrUntypedArgs: the args section is missing types and
	// allow_untyped_args is off.
	ErrUntypedArgs = errors.New("docstring has untyped args")

	// ErrMissingReturnType: no return type documented and
	// require_return_type is on.
	ErrMissingReturnType = errors.New("docstring has no return type")
)

// FuncStatus is the outcome of visiting one function.
type FuncStatus int

const (
	// FuncAnnotated: a type comment was generated.
	FuncAnnotated FuncStatus = iota
	// FuncNoTypes: no docstring, or no recognized sections in it.
	FuncNoTypes
	// FuncFailed: the function was skipped with an error.
	FuncFailed
)

func (s FuncStatus) String() string {
	switch s {
	case FuncAnnotated:
		return "annotated"
	case FuncNoTypes:
		return "no types"
	case FuncFailed:
		return "failed"
	}
	return fmt.Sprintf("FuncStatus(%d)", int(s))
}

// FuncResult is the per-function record in a file report.
type FuncResult struct {
	Name   string
	Line   int // 1-based line of the def keyword
	Status FuncStatus
	Err    error // set when Status == FuncFailed
}

// FileReport is the outcome of annotating one file.
type FileReport struct {
	Path      string
	Functions []FuncResult
	Imports   []string // import statements added to the file
	Original  string   // the source text as read
	Content   string   // the rewritten source text
	Changed   bool
	Err       error // file-level failure (unreadable, bad encoding)
}

// Annotated counts the functions that received a type comment.
func (r *FileReport) Annotated() int {
	n := 0
	for _, f := range r.Functions {
		if f.Status == FuncAnnotated {
			n++
		}
	}
	return n
}

// Failed returns the function results that carry errors.
func (r *FileReport) Failed() []FuncResult {
	var failed []FuncResult
	for _, f := range r.Functions {
		if f.Status == FuncFailed {
			failed = append(failed, f)
		}
	}
	return failed
}

// funcEdit is the pending rewrite for one successfully annotated function.
type funcEdit struct {
	fn       pyscan.Function
	comment  string
	stripped string
}

// annotateSource runs the whole per-file pipeline over one file's text:
// scan local facts once, then visit every function top to bottom, and only
// after the last function flush the accumulated imports into the file.
// One function's failure never affects another.
func annotateSource(path, src string, settings Settings, log types.Logger) FileReport {
	report := FileReport{Path: path, Original: src, Content: src}

	collision, err := settings.CollisionPolicy()
	if err != nil {
		report.Err = err
		return report
	}
	unpathed, err := settings.UnpathedPolicy()
	if err != nil {
		report.Err = err
		return report
	}

	log.Log(slog.LevelDebug, "annotating file", slog.String("file", path))

	facts := pyscan.ScanFacts(src)
	if err := facts.Validate(); err != nil {
		log.Log(slog.LevelWarn, "inconsistent local names",
			slog.String("file", path), slog.String("detail", err.Error()))
	}
	res := resolver.New(facts, collision, unpathed, log)
	imports := resolver.NewImportMap()

	funcs := pyscan.ScanFunctions(src)
	var edits []funcEdit
	for _, fn := range funcs {
		result, edit := annotateFunc(fn, res, imports, settings, log)
		report.Functions = append(report.Functions, result)
		if edit != nil {
			edits = append(edits, *edit)
		}
	}
	if len(edits) == 0 {
		return report
	}

	lines := strings.Split(src, "\n")
	// Apply bottom-up so earlier rows stay valid while later regions grow
	// or shrink.
	for i := len(edits) - 1; i >= 0; i-- {
		lines = applyEdit(lines, edits[i])
	}
	if !imports.Empty() {
		report.Imports = imports.Lines()
		lines = insertImports(lines, report.Imports)
	}
	report.Content = strings.Join(lines, "\n")
	report.Changed = report.Content != src
	return report
}

// annotateFunc visits one function. On success it returns the pending edit
// and commits the function's import needs to the file accumulator.
func annotateFunc(fn pyscan.Function, res *resolver.Resolver, imports *resolver.ImportMap,
	settings Settings, log types.Logger) (FuncResult, *funcEdit) {

	result := FuncResult{Name: fn.Name, Line: fn.DefRow + 1}
	fail := func(err error) (FuncResult, *funcEdit) {
		result.Status = FuncFailed
		result.Err = err
		log.Log(slog.LevelWarn, "skipping function",
			slog.String("function", fn.Name),
			slog.Int("line", result.Line),
			slog.String("reason", err.Error()))
		return result, nil
	}

	if fn.Doc == nil {
		result.Status = FuncNoTypes
		return result, nil
	}
	sig, err := docparser.Parse(fn.Doc.Content, log)
	if err != nil {
		return fail(err)
	}
	if !sig.HasTypes() {
		result.Status = FuncNoTypes
		return result, nil
	}

	// a function without parameters needs no Args section to be annotatable
	if sig.ArgTypes == nil && len(fn.Params) == 0 {
		sig.ArgTypes = doctype.NoArgs()
	}

	if sig.ArgTypes != nil {
		if err := checkArgNames(sig.ArgTypes, fn.ParamSet()); err != nil {
			return fail(err)
		}
	}
	if sig.ArgTypes == nil || !sig.ArgTypes.IsFullyTyped() {
		if !settings.AllowUntypedArgs {
			return fail(fmt.Errorf("%w: %s", ErrUntypedArgs, fn.Name))
		}
		log.Trace("rendering untyped args as ellipsis", slog.String("function", fn.Name))
	}
	if sig.ReturnType == nil || sig.ReturnType.TypeDef == nil {
		if settings.RequireReturnType {
			return fail(fmt.Errorf("%w: %s", ErrMissingReturnType, fn.Name))
		}
	}

	strategies := make(map[string]doctype.ImportStrategy)
	type pendingImport struct {
		name     string
		strategy doctype.ImportStrategy
	}
	var pending []pendingImport

	names := make([]string, 0, len(sig.TypeNames()))
	for name := range sig.TypeNames() {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		strategy, ambErr := res.Resolve(name)
		if ambErr != nil {
			if ambErr.ShouldFail {
				return fail(ambErr)
			}
			// annotate without an import; the name renders bare
			if ambErr.Kind != doctype.NameHasNoModulePath || settings.UnpathedTypePolicy == "WARN" {
				log.Log(slog.LevelWarn, "no import added for ambiguous type",
					slog.String("function", fn.Name),
					slog.String("type", ambErr.Name),
					slog.String("reason", ambErr.Kind.String()))
			}
			continue
		}
		strategies[name] = strategy
		pending = append(pending, pendingImport{name: name, strategy: strategy})
	}

	// the function will be annotated: its imports are now owed by the file
	for _, p := range pending {
		imports.Add(p.name, p.strategy)
	}

	result.Status = FuncAnnotated
	return result, &funcEdit{
		fn:       fn,
		comment:  doctype.TypeComment(sig, strategies),
		stripped: splicer.Strip(fn.Doc.Content, sig),
	}
}

// checkArgNames verifies the documented names agree with the function's
// real parameters (self/cls excluded). A lone undocumented parameter is a
// mismatch too: a partial Args section must not produce a wrong-arity
// comment.
func checkArgNames(args *doctype.ArgTypes, params map[string]struct{}) error {
	documented := make(map[string]struct{}, len(args.Args))
	for _, entry := range args.Args {
		documented[entry.Name] = struct{}{}
	}
	if len(documented) != len(params) {
		return fmt.Errorf("%w: documented %s, signature has %s",
			ErrArgNameMismatch, nameList(documented), nameList(params))
	}
	for name := range documented {
		if _, ok := params[name]; !ok {
			return fmt.Errorf("%w: %q is not a parameter", ErrArgNameMismatch, name)
		}
	}
	return nil
}

func nameList(set map[string]struct{}) string {
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return "(" + strings.Join(names, ", ") + ")"
}

// applyEdit rewrites one function: the docstring region is replaced with
// the stripped text and the type comment becomes the first body line.
func applyEdit(lines []string, edit funcEdit) []string {
	doc := edit.fn.Doc
	region := lines[doc.StartRow][:doc.StartCol] + edit.stripped + lines[doc.EndRow][doc.EndCol:]
	regionLines := strings.Split(region, "\n")

	out := make([]string, 0, len(lines)+len(regionLines))
	out = append(out, lines[:doc.StartRow]...)
	out = append(out, regionLines...)
	out = append(out, lines[doc.EndRow+1:]...)

	commentRow := edit.fn.HeaderEnd + 1
	commentLine := edit.fn.BodyIndent + edit.comment
	out = append(out[:commentRow], append([]string{commentLine}, out[commentRow:]...)...)
	return out
}

// insertImports places the accumulated import lines after the last
// top-level import preceding any other statement, falling back to just
// after the module docstring (or the top of the file).
func insertImports(lines []string, importLines []string) []string {
	row := insertionRow(lines)
	out := make([]string, 0, len(lines)+len(importLines))
	out = append(out, lines[:row]...)
	out = append(out, importLines...)
	out = append(out, lines[row:]...)
	return out
}

func insertionRow(lines []string) int {
	row := 0
	// shebang and leading comments
	for row < len(lines) && strings.HasPrefix(strings.TrimSpace(lines[row]), "#") {
		row++
	}
	// module docstring
	if row < len(lines) {
		trimmed := strings.TrimSpace(lines[row])
		for _, quote := range []string{`"""`, "'''"} {
			if !strings.HasPrefix(trimmed, quote) {
				continue
			}
			rest := trimmed[len(quote):]
			for !strings.Contains(rest, quote) && row+1 < len(lines) {
				row++
				rest = lines[row]
			}
			row++
			break
		}
	}
	insert := row
	for r := row; r < len(lines); r++ {
		t := strings.TrimSpace(lines[r])
		if t == "" {
			continue
		}
		if strings.HasPrefix(t, "import ") || strings.HasPrefix(t, "from ") {
			// a parenthesized name list may span lines
			if strings.Contains(t, "(") && !strings.Contains(t, ")") {
				for r+1 < len(lines) && !strings.Contains(lines[r], ")") {
					r++
				}
			}
			insert = r + 1
			continue
		}
		break
	}
	return insert
}
