// Package resolver decides, for each type name found in a docstring, whether
// an import statement must be added to the file and how the name should be
// rendered in the annotation. Decisions are pure functions of the name, the
// file's LocalFacts and the configured policies.
package resolver

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/anentropic/python-waterloo/doctype"
	"github.com/anentropic/python-waterloo/internal/types"
)

// Resolver resolves type names against one file's local facts.
type Resolver struct {
	facts           *doctype.LocalFacts
	collisionPolicy doctype.CollisionPolicy
	unpathedPolicy  doctype.UnpathedPolicy
	log             types.Logger
}

// New returns a Resolver for the given file facts and policies.
func New(facts *doctype.LocalFacts, collision doctype.CollisionPolicy, unpathed doctype.UnpathedPolicy, log types.Logger) *Resolver {
	return &Resolver{
		facts:           facts,
		collisionPolicy: collision,
		unpathedPolicy:  unpathed,
		log:             log,
	}
}

func isDottedPath(name string) bool {
	return strings.Contains(name, ".") && name != doctype.Ellipsis
}

func splitDotted(name string) (module, bare string) {
	idx := strings.LastIndexByte(name, '.')
	return name[:idx], name[idx+1:]
}

// Resolve picks the import strategy for one type name.
//
// For a dotted name whose bare final segment is already in scope, the
// documented module path is compared against where the name actually comes
// from: an exact match reuses the existing import, a different absolute path
// gets a dotted import, and anything uncomparable (relative import, local
// definition) is a collision decided by the collision policy. For a dotted
// name whose bare segment is unknown, a from-style import is added unless
// the module itself collides with something in scope, or the module is
// already imported in which case the dotted annotation is used as-is.
//
// A bare name resolves to the existing scope (local, builtin) or to a
// typing import; an unknown bare name has no module path to import from and
// is reported per the unpathed policy.
//
// A non-nil *AmbiguityError means no import will be added; ShouldFail tells
// the caller whether to abort annotating the enclosing function.
func (r *Resolver) Resolve(name string) (doctype.ImportStrategy, *doctype.AmbiguityError) {
	strategy, err := r.resolve(name)
	if err != nil {
		r.log.Trace("ambiguous type name",
			slog.String("name", name), slog.String("kind", err.Kind.String()))
		return 0, err
	}
	r.log.Trace("resolved type name",
		slog.String("name", name), slog.String("strategy", strategy.String()))
	return strategy, nil
}

func (r *Resolver) resolve(name string) (doctype.ImportStrategy, *doctype.AmbiguityError) {
	if !isDottedPath(name) {
		switch {
		case name == doctype.Ellipsis,
			r.facts.Known(name),
			IsBuiltinType(name):
			return doctype.UseExisting, nil
		case IsTypingType(name):
			return doctype.AddFrom, nil
		}
		return 0, r.ambiguous(doctype.NameHasNoModulePath, "", name,
			r.unpathedPolicy == doctype.UnpathedFail)
	}

	module, bare := splitDotted(name)
	if localModule, known := r.facts.ModuleFor(bare); known {
		switch {
		case localModule == module:
			// Exact match: from <module> import <bare> already present.
			return doctype.UseExisting, nil
		case localModule == "":
			// The bare name is defined in this file; the dotted path may be
			// there to disambiguate from the local definition.
			if r.collisionPolicy == doctype.CollisionImport {
				return doctype.AddDotted, nil
			}
			return 0, r.ambiguous(doctype.NameMatchesLocalName, module, bare,
				r.collisionPolicy == doctype.CollisionFail)
		case strings.HasPrefix(localModule, "."):
			// Relative import: cannot tell whether it is the same module.
			if r.collisionPolicy == doctype.CollisionImport {
				return doctype.AddDotted, nil
			}
			return 0, r.ambiguous(doctype.NameMatchesRelativeImport, module, bare,
				r.collisionPolicy == doctype.CollisionFail)
		}
		// Imported from a different absolute path: the dotted form is
		// unambiguous, import the module itself.
		return doctype.AddDotted, nil
	}

	if _, ok := r.facts.WildcardModules[module]; ok {
		// The name may already be in scope via the wildcard but there is no
		// way to be sure; a specific import is safe to add.
		if r.collisionPolicy == doctype.CollisionImport {
			return doctype.AddFrom, nil
		}
		return 0, r.ambiguous(doctype.ModuleHasWildcardImport, module, bare,
			r.collisionPolicy == doctype.CollisionFail)
	}
	if _, ok := r.facts.LocalNames[module]; ok {
		// The module part shadows a name defined in this file.
		if r.collisionPolicy == doctype.CollisionImport {
			return doctype.AddFrom, nil
		}
		return 0, r.ambiguous(doctype.NameMatchesLocalName, module, name,
			r.collisionPolicy == doctype.CollisionFail)
	}
	if _, ok := r.facts.BareModules[module]; ok {
		return doctype.UseExistingDotted, nil
	}
	if _, ok := r.facts.NameToModule[module]; ok {
		// The module part is itself a from-imported name, e.g. a submodule
		// imported via "from pkg import sub" then documented as "sub.Name".
		return doctype.UseExistingDotted, nil
	}
	return doctype.AddFrom, nil
}

func (r *Resolver) ambiguous(kind doctype.AmbiguityKind, module, name string, fail bool) *doctype.AmbiguityError {
	return &doctype.AmbiguityError{
		Kind:       kind,
		Module:     module,
		Name:       name,
		ShouldFail: fail,
	}
}

// ImportMap accumulates the import statements one file needs. Names are
// added while the file's functions are visited and the statements are
// emitted once, after the last function. The two-phase protocol keeps each
// import grouped and deduplicated across all the functions that needed it.
type ImportMap struct {
	names map[doctype.ImportStrategy]map[string]struct{}
}

// NewImportMap returns an empty accumulator.
func NewImportMap() *ImportMap {
	return &ImportMap{names: make(map[doctype.ImportStrategy]map[string]struct{})}
}

// Add records that name resolved to the given strategy. Strategies that do
// not add imports are ignored.
func (m *ImportMap) Add(name string, strategy doctype.ImportStrategy) {
	if strategy != doctype.AddFrom && strategy != doctype.AddDotted {
		return
	}
	set, ok := m.names[strategy]
	if !ok {
		set = make(map[string]struct{})
		m.names[strategy] = set
	}
	set[name] = struct{}{}
}

// Empty reports whether no imports have been accumulated.
func (m *ImportMap) Empty() bool {
	return len(m.names[doctype.AddFrom]) == 0 && len(m.names[doctype.AddDotted]) == 0
}

// Lines renders the accumulated imports as source lines, grouped by module
// and sorted for deterministic output. Typing constructs all import from
// the typing module; other from-style names split on their last dot. Dotted
// imports produce a bare "import <module>" of the module part.
func (m *ImportMap) Lines() []string {
	fromModules := make(map[string][]string)
	for name := range m.names[doctype.AddFrom] {
		if IsTypingType(name) {
			fromModules["typing"] = append(fromModules["typing"], name)
			continue
		}
		module, bare := splitDotted(name)
		fromModules[module] = append(fromModules[module], bare)
	}
	bareModules := make(map[string]struct{})
	for name := range m.names[doctype.AddDotted] {
		module, _ := splitDotted(name)
		bareModules[module] = struct{}{}
	}

	lines := make([]string, 0, len(fromModules)+len(bareModules))
	for module, names := range fromModules {
		sort.Strings(names)
		lines = append(lines, fmt.Sprintf("from %s import %s",
			module, strings.Join(names, ", ")))
	}
	for module := range bareModules {
		lines = append(lines, "import "+module)
	}
	sort.Strings(lines)
	return lines
}
