package integration

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"

	waterloo "github.com/anentropic/python-waterloo"
)

// A realistic module exercising the whole pipeline: multiple functions,
// mixed outcomes, import accumulation and docstring rewriting.
const apiModule = `"""Order handling."""
import logging

from typing import Iterable

from core.models import Order

logger = logging.getLogger(__name__)


def list_orders(user_id, statuses=None):
    """
    Fetch the orders visible to a user.

    Args:
        user_id (int): the user to query for
        statuses (Optional[Iterable[str]]): restrict to these statuses

    Returns:
        Iterable[Order]: matching orders, newest first
    """
    return []


def order_totals(orders):
    """
    Args:
        orders (Iterable[Order]): orders to sum

    Yields:
        Tuple[int, Decimal]: order id and its total
    """
    for order in orders:
        yield order.id, order.total


def log_order(order):
    """Write a line to the audit log."""
    logger.info("order %s", order)


def legacy(a, b):
    """
    Args:
        old_name (int): renamed long ago

    Returns:
        bool: never
    """
    return False
`

func TestAnnotateRealisticModule(t *testing.T) {
	report, err := waterloo.AnnotateText("api.py", apiModule)
	require.NoError(t, err)
	require.NoError(t, report.Err)
	require.True(t, report.Changed)

	require.Len(t, report.Functions, 4)
	require.Equal(t, waterloo.FuncAnnotated, report.Functions[0].Status)
	require.Equal(t, waterloo.FuncAnnotated, report.Functions[1].Status)
	require.Equal(t, waterloo.FuncNoTypes, report.Functions[2].Status)
	require.Equal(t, waterloo.FuncFailed, report.Functions[3].Status)
	require.ErrorIs(t, report.Functions[3].Err, waterloo.ErrArgNameMismatch)

	require.Contains(t, report.Content,
		"    # type: (int, Optional[Iterable[str]]) -> Iterable[Order]")
	require.Contains(t, report.Content,
		"    # type: (Iterable[Order]) -> Generator[Tuple[int, Decimal], None, None]")

	// Iterable and Order are already imported; Optional, Generator and Tuple
	// come from typing; Decimal has no module path and stays bare.
	require.Equal(t, []string{"from typing import Generator, Optional, Tuple"}, report.Imports)

	// type text is gone from the rewritten docstrings
	require.NotContains(t, report.Content, "(Optional[Iterable[str]])")
	require.Contains(t, report.Content, "statuses: restrict to these statuses")
	require.Contains(t, report.Content, "user_id: the user to query for")

	// the failed function keeps its docstring untouched
	require.Contains(t, report.Content, "old_name (int): renamed long ago")
}

func TestAnnotateDirectoryOfFiles(t *testing.T) {
	fsys := fstest.MapFS{
		"pkg/good.py": &fstest.MapFile{Data: []byte(`def ok(x):
    """
    Args:
        x (str): input

    Returns:
        str: output
    """
    return x
`)},
		"pkg/empty.py": &fstest.MapFile{Data: []byte("VERSION = 1\n")},
	}

	report, err := waterloo.Annotate(context.Background(), waterloo.FS("pkg", fsys))
	require.NoError(t, err)
	require.Len(t, report.Files, 2)
	require.Equal(t, 1, report.Annotated())
	require.Equal(t, 0, report.Failures())
	require.Equal(t, 1, report.Changed())
}
