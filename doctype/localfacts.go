package doctype

import (
	"fmt"
	"strings"
)

// LocalFacts is the per-file fact sheet consumed by the import-strategy
// resolver. It is produced by scanning the enclosing source file once,
// before any of the file's functions are processed.
type LocalFacts struct {
	// LocalNames holds names defined in the file itself: classes and
	// TypeVar-style assignments.
	LocalNames map[string]struct{}

	// NameToModule maps a from-imported name to its source module path.
	// Relative module paths keep their leading dots.
	NameToModule map[string]string

	// WildcardModules holds modules imported via "from M import *"
	// (relative modules keep their leading dots).
	WildcardModules map[string]struct{}

	// BareModules holds modules imported via "import M".
	BareModules map[string]struct{}
}

// EmptyLocalFacts returns a LocalFacts with no known names.
func EmptyLocalFacts() *LocalFacts {
	return &LocalFacts{
		LocalNames:      make(map[string]struct{}),
		NameToModule:    make(map[string]string),
		WildcardModules: make(map[string]struct{}),
		BareModules:     make(map[string]struct{}),
	}
}

// Known reports whether name is either defined locally or from-imported.
func (f *LocalFacts) Known(name string) bool {
	if _, ok := f.LocalNames[name]; ok {
		return true
	}
	_, ok := f.NameToModule[name]
	return ok
}

// ModuleFor returns the module a known name was imported from. For a name
// defined in the file itself the module is empty. The second result is false
// when the name is not known at all.
func (f *LocalFacts) ModuleFor(name string) (string, bool) {
	if module, ok := f.NameToModule[name]; ok {
		return module, true
	}
	if _, ok := f.LocalNames[name]; ok {
		return "", true
	}
	return "", false
}

// Validate checks the invariant that locally defined names and from-imported
// names are disjoint. An overlap would indicate a bug in the source file.
func (f *LocalFacts) Validate() error {
	var overlap []string
	for name := range f.LocalNames {
		if _, ok := f.NameToModule[name]; ok {
			overlap = append(overlap, name)
		}
	}
	if len(overlap) > 0 {
		return fmt.Errorf("names both defined locally and imported: %s",
			strings.Join(overlap, ", "))
	}
	return nil
}
