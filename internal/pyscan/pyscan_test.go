package pyscan

import (
	"strings"
	"testing"

	"github.com/anentropic/python-waterloo/internal/testutil"
)

const factsFixture = `"""
Boring docstring for the module itself
"""
import logging
import nott.so.serious
from serious import *
from ..sub import Irrelevant, Nonsense as Bollocks
from other.module import Product
from some.module import (
    Imported,
    InnerImported,
)
from typing import TypeVar, Union

T = TypeVar("T")
SOME_CONST = 1


class TopLevel(object):
    class InnerClass:
        pass

    def method(self, product):
        pass

    @classmethod
    def clsmethod(cls, product):
        pass


def helper(products, getter=None):
    pass
`

func TestScanFacts(t *testing.T) {
	facts := ScanFacts(factsFixture)

	testutil.DeepEqual(t, map[string]struct{}{
		"TopLevel":   {},
		"InnerClass": {},
		"T":          {},
	}, facts.LocalNames)

	testutil.DeepEqual(t, map[string]string{
		"Irrelevant":    "..sub",
		"Bollocks":      "..sub",
		"Product":       "other.module",
		"Imported":      "some.module",
		"InnerImported": "some.module",
		"TypeVar":       "typing",
		"Union":         "typing",
	}, facts.NameToModule)

	testutil.DeepEqual(t, map[string]struct{}{
		"serious": {},
	}, facts.WildcardModules)

	testutil.DeepEqual(t, map[string]struct{}{
		"logging":         {},
		"nott.so.serious": {},
	}, facts.BareModules)
}

func TestScanFactsAssignments(t *testing.T) {
	src := strings.Join([]string{
		`T = TypeVar("T")`,
		`Point = NamedTuple("Point", [("x", int)])`,
		`Row = namedtuple("Row", "a b")`,
		`Movie = TypedDict("Movie", {"name": str})`,
		`Alias = type("Alias", (), {})`,
		`not_a_type = compute()`,
		`plain = 1`,
	}, "\n")
	facts := ScanFacts(src)
	testutil.DeepEqual(t, map[string]struct{}{
		"T":     {},
		"Point": {},
		"Row":   {},
		"Movie": {},
		"Alias": {},
	}, facts.LocalNames)
}

const funcFixture = `import logging


def first(products, getter):
    """
    Args:
        products (Iterable[Dict])
        getter (Callable[[str], Callable])

    Returns:
        Dict[int, List[Dict]]: {<product id>: <product videos>}
    """
    return {}


class Widget:
    def method(self, key, value=None):
        """single line docstring"""
        pass

    @classmethod
    def build(cls, *args, **kwargs):
        pass


def wrapped(
    product_ids,
    user_id=None,
):
    """
    Kwargs:
        product_ids (List[int])
        user_id (Optional[int]): flag
    """
    pass


def plain(a, b):
    return a + b
`

func TestScanFunctions(t *testing.T) {
	funcs := ScanFunctions(funcFixture)
	testutil.Len(t, funcs, 5)

	first := funcs[0]
	testutil.Equal(t, "first", first.Name)
	testutil.SliceEqual(t, []string{"products", "getter"}, first.Params)
	testutil.Equal(t, 3, first.DefRow)
	testutil.Equal(t, 3, first.HeaderEnd)
	testutil.Equal(t, "    ", first.BodyIndent)
	testutil.NotNil(t, first.Doc)
	testutil.Equal(t, 4, first.Doc.StartRow)
	testutil.Equal(t, 11, first.Doc.EndRow)
	testutil.Equal(t, 4, first.Doc.EndCol)
	testutil.True(t, strings.HasPrefix(first.Doc.Content, "\n    Args:"))

	method := funcs[1]
	testutil.Equal(t, "method", method.Name)
	testutil.SliceEqual(t, []string{"key", "value"}, method.Params)
	testutil.NotNil(t, method.Doc)
	testutil.Equal(t, "single line docstring", method.Doc.Content)
	testutil.Equal(t, method.Doc.StartRow, method.Doc.EndRow)

	build := funcs[2]
	testutil.Equal(t, "build", build.Name)
	testutil.SliceEqual(t, []string{"*args", "**kwargs"}, build.Params)
	testutil.Nil(t, build.Doc)

	wrapped := funcs[3]
	testutil.Equal(t, "wrapped", wrapped.Name)
	testutil.SliceEqual(t, []string{"product_ids", "user_id"}, wrapped.Params)
	testutil.True(t, wrapped.HeaderEnd > wrapped.DefRow)
	testutil.NotNil(t, wrapped.Doc)

	plain := funcs[4]
	testutil.Equal(t, "plain", plain.Name)
	testutil.SliceEqual(t, []string{"a", "b"}, plain.Params)
	testutil.Nil(t, plain.Doc)
}

func TestParamSet(t *testing.T) {
	fn := Function{Params: []string{"a", "*args", "**kwargs"}}
	testutil.DeepEqual(t, map[string]struct{}{
		"a":        {},
		"*args":    {},
		"**kwargs": {},
	}, fn.ParamSet())
}

func TestSplitParams(t *testing.T) {
	cases := []struct {
		raw  string
		want []string
	}{
		{"self, product", []string{"product"}},
		{"cls, product", []string{"product"}},
		{"a, b=1, *args, **kwargs", []string{"a", "b", "*args", "**kwargs"}},
		{"a, *, kw_only", []string{"a", "kw_only"}},
		{"a, /, b", []string{"a", "b"}},
		{"x=(1, 2), y=[3, 4]", []string{"x", "y"}},
		{"value: int = 0", []string{"value"}},
		{"", nil},
	}
	for _, tc := range cases {
		testutil.SliceEqual(t, tc.want, splitParams(tc.raw), "raw %q", tc.raw)
	}
}
