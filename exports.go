package waterloo

import (
	"github.com/anentropic/python-waterloo/doctype"
	"github.com/anentropic/python-waterloo/internal/docparser"
	"github.com/anentropic/python-waterloo/internal/types"
)

// LevelTrace is a log level below Debug for per-item detail (docstring
// lines, type atoms, import decisions).
const LevelTrace = types.LevelTrace

// Type aliases for public API - the value types come from the doctype
// subpackage.

// SourcePos is a zero-based (row, byte column) position within a docstring.
type SourcePos = doctype.SourcePos

// TypeAtom is a node of a parsed type-expression tree.
type TypeAtom = doctype.TypeAtom

// TypeArg is one argument of a generic type expression.
type TypeArg = doctype.TypeArg

// RawList is the bracketed parameter list of a Callable.
type RawList = doctype.RawList

// TypeDef is a type expression plus the span it occupied in the docstring.
type TypeDef = doctype.TypeDef

// ArgEntry is one documented argument name and its optional type.
type ArgEntry = doctype.ArgEntry

// ArgTypes is the parsed content of an Args section.
type ArgTypes = doctype.ArgTypes

// ReturnType is the parsed content of a Returns or Yields section.
type ReturnType = doctype.ReturnType

// TypeSignature is the full parse result for one docstring.
type TypeSignature = doctype.TypeSignature

// LocalFacts is what one file declares and imports.
type LocalFacts = doctype.LocalFacts

// ImportStrategy is the resolver's decision for one type name.
type ImportStrategy = doctype.ImportStrategy

// ImportStrategy constants.
const (
	UseExisting       = doctype.UseExisting
	UseExistingDotted = doctype.UseExistingDotted
	AddFrom           = doctype.AddFrom
	AddDotted         = doctype.AddDotted
)

// CollisionPolicy controls behavior for type names colliding with names
// already in scope.
type CollisionPolicy = doctype.CollisionPolicy

// CollisionPolicy constants.
const (
	CollisionImport   = doctype.CollisionImport
	CollisionNoImport = doctype.CollisionNoImport
	CollisionFail     = doctype.CollisionFail
)

// UnpathedPolicy controls behavior for unknown bare type names.
type UnpathedPolicy = doctype.UnpathedPolicy

// UnpathedPolicy constants.
const (
	UnpathedIgnore = doctype.UnpathedIgnore
	UnpathedWarn   = doctype.UnpathedWarn
	UnpathedFail   = doctype.UnpathedFail
)

// AmbiguityError reports a type name the resolver could not settle.
type AmbiguityError = doctype.AmbiguityError

// AmbiguityKind constants.
const (
	ModuleHasWildcardImport   = doctype.ModuleHasWildcardImport
	NameMatchesRelativeImport = doctype.NameMatchesRelativeImport
	NameMatchesLocalName      = doctype.NameMatchesLocalName
	NameHasNoModulePath       = doctype.NameHasNoModulePath
)

// Policy parsers.
var (
	ParseCollisionPolicy = doctype.ParseCollisionPolicy
	ParseUnpathedPolicy  = doctype.ParseUnpathedPolicy
)

// TypeComment renders the "# type: (...) -> R" comment for a signature.
var TypeComment = doctype.TypeComment

// ParseTypeExpr parses a standalone type expression string.
var ParseTypeExpr = docparser.ParseTypeExpr
