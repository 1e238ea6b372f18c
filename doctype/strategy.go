package doctype

import "fmt"

// ImportStrategy is the resolver's decision on whether/how an import must be
// added for a type name found in a docstring.
type ImportStrategy int

const (
	// UseExisting adds no import; the dotted path (if any) is stripped from
	// the rendered annotation.
	UseExisting ImportStrategy = iota
	// UseExistingDotted adds no import; the annotation keeps its dotted path
	// because the module itself is already imported.
	UseExistingDotted
	// AddFrom adds "from <module> import <name>".
	AddFrom
	// AddDotted adds "import <module>" and keeps the dotted annotation.
	AddDotted
)

func (s ImportStrategy) String() string {
	switch s {
	case UseExisting:
		return "USE_EXISTING"
	case UseExistingDotted:
		return "USE_EXISTING_DOTTED"
	case AddFrom:
		return "ADD_FROM"
	case AddDotted:
		return "ADD_DOTTED"
	}
	return fmt.Sprintf("ImportStrategy(%d)", int(s))
}

// KeepsDottedPath reports whether annotations rendered under this strategy
// retain their full dotted path.
func (s ImportStrategy) KeepsDottedPath() bool {
	return s == AddDotted || s == UseExistingDotted
}

// CollisionPolicy controls behavior when a docstring type name collides with
// something already in scope (a wildcard import, a relative import, or a
// local class definition).
type CollisionPolicy int

const (
	// CollisionImport annotates and adds a specific import, no warning.
	CollisionImport CollisionPolicy = iota
	// CollisionNoImport annotates without adding an import, with a warning.
	CollisionNoImport
	// CollisionFail aborts annotation of the enclosing function.
	CollisionFail
)

func (p CollisionPolicy) String() string {
	switch p {
	case CollisionImport:
		return "IMPORT"
	case CollisionNoImport:
		return "NO_IMPORT"
	case CollisionFail:
		return "FAIL"
	}
	return fmt.Sprintf("CollisionPolicy(%d)", int(p))
}

// ParseCollisionPolicy converts a configuration string to a CollisionPolicy.
func ParseCollisionPolicy(s string) (CollisionPolicy, error) {
	switch s {
	case "IMPORT":
		return CollisionImport, nil
	case "NO_IMPORT":
		return CollisionNoImport, nil
	case "FAIL":
		return CollisionFail, nil
	}
	return 0, fmt.Errorf("invalid collision policy %q", s)
}

// UnpathedPolicy controls behavior for a bare type name that is not a
// builtin, not a typing construct, and not known locally: there is no module
// path to import it from.
type UnpathedPolicy int

const (
	// UnpathedIgnore annotates as documented, no warning.
	UnpathedIgnore UnpathedPolicy = iota
	// UnpathedWarn annotates as documented, with a warning.
	UnpathedWarn
	// UnpathedFail aborts annotation of the enclosing function.
	UnpathedFail
)

func (p UnpathedPolicy) String() string {
	switch p {
	case UnpathedIgnore:
		return "IGNORE"
	case UnpathedWarn:
		return "WARN"
	case UnpathedFail:
		return "FAIL"
	}
	return fmt.Sprintf("UnpathedPolicy(%d)", int(p))
}

// ParseUnpathedPolicy converts a configuration string to an UnpathedPolicy.
func ParseUnpathedPolicy(s string) (UnpathedPolicy, error) {
	switch s {
	case "IGNORE":
		return UnpathedIgnore, nil
	case "WARN":
		return UnpathedWarn, nil
	case "FAIL":
		return UnpathedFail, nil
	}
	return 0, fmt.Errorf("invalid unpathed type policy %q", s)
}

// AmbiguityKind identifies why a type name could not be resolved to an
// unambiguous import strategy.
type AmbiguityKind int

const (
	// ModuleHasWildcardImport: the dotted module is wildcard-imported, so the
	// bare name may already be in scope.
	ModuleHasWildcardImport AmbiguityKind = iota
	// NameMatchesRelativeImport: the name is imported via a relative path
	// which cannot be compared with the documented absolute path.
	NameMatchesRelativeImport
	// NameMatchesLocalName: the name matches a class or TypeVar defined in
	// the file itself.
	NameMatchesLocalName
	// NameHasNoModulePath: a bare unknown name with nothing to import.
	NameHasNoModulePath
)

func (k AmbiguityKind) String() string {
	switch k {
	case ModuleHasWildcardImport:
		return "module has wildcard import"
	case NameMatchesRelativeImport:
		return "name matches relative import"
	case NameMatchesLocalName:
		return "name matches local definition"
	case NameHasNoModulePath:
		return "name has no module path"
	}
	return fmt.Sprintf("AmbiguityKind(%d)", int(k))
}

// AmbiguityError reports that a type name is ambiguous under the file's
// local facts. ShouldFail reflects the configured policies: when false the
// caller annotates anyway (UseExisting, no import added) and may warn; when
// true the caller aborts annotation for the enclosing function.
type AmbiguityError struct {
	Kind       AmbiguityKind
	Module     string // empty for NameHasNoModulePath
	Name       string
	ShouldFail bool
}

func (e *AmbiguityError) Error() string {
	if e.Module == "" {
		return fmt.Sprintf("ambiguous type %q: %s", e.Name, e.Kind)
	}
	return fmt.Sprintf("ambiguous type %q (module %q): %s", e.Name, e.Module, e.Kind)
}
