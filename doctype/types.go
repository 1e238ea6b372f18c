// Package doctype provides the value types shared by the docstring parser,
// the import-strategy resolver, the annotation renderer and the docstring
// splicer. All values are built once per docstring (or once per file for
// LocalFacts) and never mutated after construction.
package doctype

// Ellipsis is the literal type token used inside Tuple[X, ...] and as the
// placeholder annotation for untyped argument lists.
const Ellipsis = "..."

// NoneType is the annotation rendered for an absent return type.
const NoneType = "None"

// GeneratorName wraps the return annotation of a Yields section.
const GeneratorName = "Generator"

// SourcePos is a zero-based (row, column) position within one docstring's
// text viewed as a sequence of lines. Col is a byte offset within the line.
type SourcePos struct {
	Row int
	Col int
}

// Add returns the pointwise sum of two positions.
func (p SourcePos) Add(o SourcePos) SourcePos {
	return SourcePos{Row: p.Row + o.Row, Col: p.Col + o.Col}
}

// Sub returns the pointwise difference of two positions.
func (p SourcePos) Sub(o SourcePos) SourcePos {
	return SourcePos{Row: p.Row - o.Row, Col: p.Col - o.Col}
}

// Before reports whether p precedes o under (row, then col) ordering.
func (p SourcePos) Before(o SourcePos) bool {
	if p.Row != o.Row {
		return p.Row < o.Row
	}
	return p.Col < o.Col
}

// TypeArg is one argument of a generic type expression: either a nested
// *TypeAtom, or a RawList (the bracketed parameter list of a Callable).
// The interface is closed; the renderer matches both variants exhaustively.
type TypeArg interface {
	typeArg()
}

// TypeAtom is a node of a parsed type-expression tree. Name is empty only
// for the synthetic node representing a Callable's bracketed parameter list
// hoisted to the top of a TypeDef. The literal name "..." never carries args.
type TypeAtom struct {
	Name string
	Args []TypeArg
}

func (*TypeAtom) typeArg() {}

// RawList is an ordered sequence of type arguments appearing directly
// between brackets with no leading name. It occurs exactly once per Callable,
// as the parameter list.
type RawList []TypeArg

func (RawList) typeArg() {}

// NewAtom builds a TypeAtom from a name and optional args.
func NewAtom(name string, args ...TypeArg) *TypeAtom {
	return &TypeAtom{Name: name, Args: args}
}

// TypeNames returns the set of type names mentioned anywhere in the tree,
// including the Ellipsis literal when present.
func (a *TypeAtom) TypeNames() map[string]struct{} {
	names := make(map[string]struct{})
	a.collectNames(names)
	return names
}

func (a *TypeAtom) collectNames(names map[string]struct{}) {
	if a.Name != "" {
		names[a.Name] = struct{}{}
	}
	collectArgNames(a.Args, names)
}

func collectArgNames(args []TypeArg, names map[string]struct{}) {
	for _, arg := range args {
		switch v := arg.(type) {
		case *TypeAtom:
			v.collectNames(names)
		case RawList:
			collectArgNames(v, names)
		}
	}
}

// TypeDef is a TypeAtom plus the exact span it occupied in the original,
// un-dedented docstring text. End is exclusive; Start never follows End.
type TypeDef struct {
	Atom  TypeAtom
	Start SourcePos
	End   SourcePos
}

// TypeNames returns the set of type names mentioned in the definition.
func (d *TypeDef) TypeNames() map[string]struct{} {
	return d.Atom.TypeNames()
}

// ArgsSection is the normalized kind of an argument section header.
// Several header spellings (Args, Kwargs, Arguments, ...) normalize to the
// single SectionArgs value.
type ArgsSection int

// SectionArgs is the only argument section kind.
const SectionArgs ArgsSection = iota

func (ArgsSection) String() string { return "Args" }

// ReturnsSection is the normalized kind of a returns section header.
type ReturnsSection int

// Returns section kinds.
const (
	SectionReturns ReturnsSection = iota
	SectionYields
)

func (s ReturnsSection) String() string {
	if s == SectionYields {
		return "Yields"
	}
	return "Returns"
}

// ArgEntry is one documented argument: the name as written (retaining any
// leading * or ** splat markers) and its type, nil when undocumented.
type ArgEntry struct {
	Name string
	Type *TypeDef
}

// ArgTypes is the parsed content of an Args section, in documentation order.
type ArgTypes struct {
	Kind ArgsSection
	Args []ArgEntry
}

// NoArgs returns the ArgTypes for a function with no args in its real
// signature. It is trivially fully typed.
func NoArgs() *ArgTypes {
	return &ArgTypes{Kind: SectionArgs}
}

// IsFullyTyped reports whether every documented argument has a type.
func (a *ArgTypes) IsFullyTyped() bool {
	for _, entry := range a.Args {
		if entry.Type == nil {
			return false
		}
	}
	return true
}

// Lookup returns the entry for the given name, nil if not documented.
func (a *ArgTypes) Lookup(name string) *ArgEntry {
	for i := range a.Args {
		if a.Args[i].Name == name {
			return &a.Args[i]
		}
	}
	return nil
}

// TypeNames returns the set of type names mentioned by any argument.
func (a *ArgTypes) TypeNames() map[string]struct{} {
	names := make(map[string]struct{})
	for _, entry := range a.Args {
		if entry.Type != nil {
			for name := range entry.Type.TypeNames() {
				names[name] = struct{}{}
			}
		}
	}
	return names
}

// ReturnType is the parsed content of a Returns or Yields section.
// TypeDef is nil when the section documented no type.
type ReturnType struct {
	Kind    ReturnsSection
	TypeDef *TypeDef
}

// IsFullyTyped reports whether the section documented a type.
func (r *ReturnType) IsFullyTyped() bool {
	return r.TypeDef != nil
}

// TypeNames returns the set of type names mentioned by the return type.
// A Yields section adds "Generator" since its annotation is wrapped.
func (r *ReturnType) TypeNames() map[string]struct{} {
	names := make(map[string]struct{})
	if r.TypeDef != nil {
		for name := range r.TypeDef.TypeNames() {
			names[name] = struct{}{}
		}
		if r.Kind == SectionYields {
			names[GeneratorName] = struct{}{}
		}
	}
	return names
}

// TypeSignature is the full parse result for one docstring.
type TypeSignature struct {
	ArgTypes   *ArgTypes
	ReturnType *ReturnType
}

// HasTypes reports whether either section was present.
func (s *TypeSignature) HasTypes() bool {
	return s.ArgTypes != nil || s.ReturnType != nil
}

// IsFullyTyped reports whether args are present and fully typed, and the
// return section (if present) documented a type. An absent return section is
// acceptable: it can be rendered as None.
func (s *TypeSignature) IsFullyTyped() bool {
	return s.ArgTypes != nil &&
		s.ArgTypes.IsFullyTyped() &&
		(s.ReturnType == nil || s.ReturnType.IsFullyTyped())
}

// TypeNames returns the set of type names mentioned anywhere in the
// signature.
func (s *TypeSignature) TypeNames() map[string]struct{} {
	names := make(map[string]struct{})
	if s.ArgTypes != nil {
		for name := range s.ArgTypes.TypeNames() {
			names[name] = struct{}{}
		}
	}
	if s.ReturnType != nil {
		for name := range s.ReturnType.TypeNames() {
			names[name] = struct{}{}
		}
	}
	return names
}
