package resolver

import (
	"testing"

	"github.com/anentropic/python-waterloo/doctype"
	"github.com/anentropic/python-waterloo/internal/testutil"
	"github.com/anentropic/python-waterloo/internal/types"
)

func testFacts() *doctype.LocalFacts {
	facts := doctype.EmptyLocalFacts()
	facts.LocalNames["LocalClass"] = struct{}{}
	facts.LocalNames["T"] = struct{}{}
	facts.NameToModule["Imported"] = "some.module"
	facts.NameToModule["Relative"] = "..sub"
	facts.NameToModule["sub"] = "pkg"
	facts.WildcardModules["serious"] = struct{}{}
	facts.BareModules["logging"] = struct{}{}
	facts.BareModules["nott.so.serious"] = struct{}{}
	return facts
}

func newResolver(collision doctype.CollisionPolicy, unpathed doctype.UnpathedPolicy) *Resolver {
	return New(testFacts(), collision, unpathed, types.Logger{})
}

func TestResolveBareNames(t *testing.T) {
	r := newResolver(doctype.CollisionFail, doctype.UnpathedFail)
	cases := []struct {
		name string
		want doctype.ImportStrategy
	}{
		{"...", doctype.UseExisting},
		{"str", doctype.UseExisting},
		{"None", doctype.UseExisting},
		{"ValueError", doctype.UseExisting},
		{"LocalClass", doctype.UseExisting},
		{"T", doctype.UseExisting},
		{"Imported", doctype.UseExisting},
		{"Relative", doctype.UseExisting},
		{"Optional", doctype.AddFrom},
		{"Generator", doctype.AddFrom},
		{"Callable", doctype.AddFrom},
	}
	for _, tc := range cases {
		strategy, err := r.Resolve(tc.name)
		testutil.Nil(t, err, "Resolve(%q)", tc.name)
		testutil.Equal(t, tc.want, strategy, "Resolve(%q)", tc.name)
	}
}

func TestResolveUnknownBareName(t *testing.T) {
	r := newResolver(doctype.CollisionImport, doctype.UnpathedWarn)
	_, err := r.Resolve("Mystery")
	testutil.NotNil(t, err)
	testutil.Equal(t, doctype.NameHasNoModulePath, err.Kind)
	testutil.Equal(t, "Mystery", err.Name)
	testutil.False(t, err.ShouldFail)

	r = newResolver(doctype.CollisionImport, doctype.UnpathedFail)
	_, err = r.Resolve("Mystery")
	testutil.NotNil(t, err)
	testutil.True(t, err.ShouldFail)
}

func TestResolveDottedNames(t *testing.T) {
	r := newResolver(doctype.CollisionFail, doctype.UnpathedFail)
	cases := []struct {
		name string
		want doctype.ImportStrategy
	}{
		// exact match with an existing from-import
		{"some.module.Imported", doctype.UseExisting},
		// imported from a different absolute path
		{"other.module.Imported", doctype.AddDotted},
		// module already imported bare
		{"logging.Logger", doctype.UseExistingDotted},
		{"nott.so.serious.Thing", doctype.UseExistingDotted},
		// module part is itself a from-imported name
		{"sub.Thing", doctype.UseExistingDotted},
		// nothing in scope: import it
		{"brand.new.Thing", doctype.AddFrom},
	}
	for _, tc := range cases {
		strategy, err := r.Resolve(tc.name)
		testutil.Nil(t, err, "Resolve(%q)", tc.name)
		testutil.Equal(t, tc.want, strategy, "Resolve(%q)", tc.name)
	}
}

func TestResolveCollisions(t *testing.T) {
	cases := []struct {
		name         string
		kind         doctype.AmbiguityKind
		importResult doctype.ImportStrategy
	}{
		// dotted path whose bare segment is a local definition
		{"somewhere.LocalClass", doctype.NameMatchesLocalName, doctype.AddDotted},
		// dotted path whose bare segment came from a relative import
		{"pkg.sub.Relative", doctype.NameMatchesRelativeImport, doctype.AddDotted},
		// module part is wildcard-imported
		{"serious.Thing", doctype.ModuleHasWildcardImport, doctype.AddFrom},
		// module part shadows a local definition
		{"LocalClass.Inner", doctype.NameMatchesLocalName, doctype.AddFrom},
	}
	for _, tc := range cases {
		r := newResolver(doctype.CollisionImport, doctype.UnpathedIgnore)
		strategy, err := r.Resolve(tc.name)
		testutil.Nil(t, err, "IMPORT Resolve(%q)", tc.name)
		testutil.Equal(t, tc.importResult, strategy, "IMPORT Resolve(%q)", tc.name)

		r = newResolver(doctype.CollisionNoImport, doctype.UnpathedIgnore)
		_, err = r.Resolve(tc.name)
		testutil.NotNil(t, err, "NO_IMPORT Resolve(%q)", tc.name)
		testutil.Equal(t, tc.kind, err.Kind, "NO_IMPORT Resolve(%q)", tc.name)
		testutil.False(t, err.ShouldFail, "NO_IMPORT Resolve(%q)", tc.name)

		r = newResolver(doctype.CollisionFail, doctype.UnpathedIgnore)
		_, err = r.Resolve(tc.name)
		testutil.NotNil(t, err, "FAIL Resolve(%q)", tc.name)
		testutil.True(t, err.ShouldFail, "FAIL Resolve(%q)", tc.name)
	}
}

func TestImportMapLines(t *testing.T) {
	m := NewImportMap()
	m.Add("Optional", doctype.AddFrom)
	m.Add("Generator", doctype.AddFrom)
	m.Add("my.module.ClassName", doctype.AddFrom)
	m.Add("my.module.OtherClass", doctype.AddFrom)
	m.Add("other.module.Imported", doctype.AddDotted)
	// strategies without imports are ignored
	m.Add("str", doctype.UseExisting)
	m.Add("logging.Logger", doctype.UseExistingDotted)
	// duplicates collapse
	m.Add("Optional", doctype.AddFrom)

	testutil.False(t, m.Empty())
	testutil.SliceEqual(t, []string{
		"from my.module import ClassName, OtherClass",
		"from typing import Generator, Optional",
		"import other.module",
	}, m.Lines())
}

func TestImportMapEmpty(t *testing.T) {
	m := NewImportMap()
	testutil.True(t, m.Empty())
	testutil.Len(t, m.Lines(), 0)

	m.Add("str", doctype.UseExisting)
	testutil.True(t, m.Empty())
}

func TestNameTables(t *testing.T) {
	testutil.True(t, IsBuiltinType("int"))
	testutil.True(t, IsBuiltinType("None"))
	testutil.False(t, IsBuiltinType("Optional"))
	testutil.False(t, IsBuiltinType("len"))

	testutil.True(t, IsTypingType("Optional"))
	testutil.True(t, IsTypingType("Generator"))
	testutil.False(t, IsTypingType("int"))
}
