package doctype

import (
	"testing"

	"github.com/anentropic/python-waterloo/internal/testutil"
)

func TestSourcePosArithmetic(t *testing.T) {
	a := SourcePos{Row: 2, Col: 5}
	b := SourcePos{Row: 1, Col: 3}
	testutil.Equal(t, SourcePos{Row: 3, Col: 8}, a.Add(b))
	testutil.Equal(t, SourcePos{Row: 1, Col: 2}, a.Sub(b))
	testutil.True(t, b.Before(a))
	testutil.False(t, a.Before(b))
	testutil.True(t, SourcePos{Row: 2, Col: 4}.Before(a))
	testutil.False(t, a.Before(a))
}

func TestTypeNames(t *testing.T) {
	atom := NewAtom("Callable",
		RawList{NewAtom("my.module.Thing"), NewAtom("str")},
		NewAtom("Dict", NewAtom("int"), NewAtom("...")),
	)
	testutil.DeepEqual(t, map[string]struct{}{
		"Callable":        {},
		"my.module.Thing": {},
		"str":             {},
		"Dict":            {},
		"int":             {},
		"...":             {},
	}, atom.TypeNames())
}

func TestYieldsTypeNamesIncludeGenerator(t *testing.T) {
	ret := &ReturnType{
		Kind:    SectionYields,
		TypeDef: &TypeDef{Atom: *NewAtom("str")},
	}
	testutil.DeepEqual(t, map[string]struct{}{
		"str":       {},
		"Generator": {},
	}, ret.TypeNames())

	ret.Kind = SectionReturns
	testutil.DeepEqual(t, map[string]struct{}{"str": {}}, ret.TypeNames())
}

func TestSignatureFullyTyped(t *testing.T) {
	typedArgs := &ArgTypes{Kind: SectionArgs, Args: []ArgEntry{
		{Name: "a", Type: &TypeDef{Atom: *NewAtom("int")}},
	}}
	untypedArgs := &ArgTypes{Kind: SectionArgs, Args: []ArgEntry{
		{Name: "a", Type: &TypeDef{Atom: *NewAtom("int")}},
		{Name: "*args"},
	}}
	ret := &ReturnType{Kind: SectionReturns, TypeDef: &TypeDef{Atom: *NewAtom("bool")}}
	bareRet := &ReturnType{Kind: SectionReturns}

	testutil.True(t, (&TypeSignature{ArgTypes: typedArgs, ReturnType: ret}).IsFullyTyped())
	// absent return section is acceptable
	testutil.True(t, (&TypeSignature{ArgTypes: typedArgs}).IsFullyTyped())
	testutil.True(t, (&TypeSignature{ArgTypes: NoArgs()}).IsFullyTyped())

	testutil.False(t, (&TypeSignature{ArgTypes: untypedArgs, ReturnType: ret}).IsFullyTyped())
	testutil.False(t, (&TypeSignature{ReturnType: ret}).IsFullyTyped())
	testutil.False(t, (&TypeSignature{ArgTypes: typedArgs, ReturnType: bareRet}).IsFullyTyped())

	testutil.True(t, (&TypeSignature{ArgTypes: typedArgs}).HasTypes())
	testutil.True(t, (&TypeSignature{ReturnType: ret}).HasTypes())
	testutil.False(t, (&TypeSignature{}).HasTypes())
}

func TestArgTypesLookup(t *testing.T) {
	args := &ArgTypes{Kind: SectionArgs, Args: []ArgEntry{
		{Name: "a", Type: &TypeDef{Atom: *NewAtom("int")}},
		{Name: "*rest"},
	}}
	testutil.NotNil(t, args.Lookup("a"))
	testutil.NotNil(t, args.Lookup("*rest"))
	testutil.Nil(t, args.Lookup("missing"))
}

func TestLocalFacts(t *testing.T) {
	facts := EmptyLocalFacts()
	facts.LocalNames["Local"] = struct{}{}
	facts.NameToModule["Imported"] = "some.module"

	testutil.True(t, facts.Known("Local"))
	testutil.True(t, facts.Known("Imported"))
	testutil.False(t, facts.Known("Missing"))

	module, ok := facts.ModuleFor("Imported")
	testutil.True(t, ok)
	testutil.Equal(t, "some.module", module)

	module, ok = facts.ModuleFor("Local")
	testutil.True(t, ok)
	testutil.Equal(t, "", module)

	_, ok = facts.ModuleFor("Missing")
	testutil.False(t, ok)

	testutil.NoError(t, facts.Validate())
	facts.NameToModule["Local"] = "elsewhere"
	testutil.Error(t, facts.Validate())
}

func TestPolicyParsing(t *testing.T) {
	collision, err := ParseCollisionPolicy("IMPORT")
	testutil.NoError(t, err)
	testutil.Equal(t, CollisionImport, collision)
	collision, err = ParseCollisionPolicy("NO_IMPORT")
	testutil.NoError(t, err)
	testutil.Equal(t, CollisionNoImport, collision)
	collision, err = ParseCollisionPolicy("FAIL")
	testutil.NoError(t, err)
	testutil.Equal(t, CollisionFail, collision)
	_, err = ParseCollisionPolicy("nope")
	testutil.Error(t, err)

	unpathed, err := ParseUnpathedPolicy("IGNORE")
	testutil.NoError(t, err)
	testutil.Equal(t, UnpathedIgnore, unpathed)
	unpathed, err = ParseUnpathedPolicy("WARN")
	testutil.NoError(t, err)
	testutil.Equal(t, UnpathedWarn, unpathed)
	unpathed, err = ParseUnpathedPolicy("FAIL")
	testutil.NoError(t, err)
	testutil.Equal(t, UnpathedFail, unpathed)
	_, err = ParseUnpathedPolicy("nope")
	testutil.Error(t, err)
}

func TestImportStrategyStrings(t *testing.T) {
	testutil.Equal(t, "USE_EXISTING", UseExisting.String())
	testutil.Equal(t, "USE_EXISTING_DOTTED", UseExistingDotted.String())
	testutil.Equal(t, "ADD_FROM", AddFrom.String())
	testutil.Equal(t, "ADD_DOTTED", AddDotted.String())

	testutil.True(t, AddDotted.KeepsDottedPath())
	testutil.True(t, UseExistingDotted.KeepsDottedPath())
	testutil.False(t, AddFrom.KeepsDottedPath())
	testutil.False(t, UseExisting.KeepsDottedPath())
}
