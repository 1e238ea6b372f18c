package integration

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	waterloo "github.com/anentropic/python-waterloo"
)

var genericNames = []string{"List", "Set", "Optional", "Iterable", "Dict", "Tuple", "Union"}

var leafNames = []string{
	"int", "str", "bool", "bytes", "Decimal", "T",
	"my.module.Thing", "core.models.Order", "datetime.datetime",
}

// randomAtom builds an arbitrary well-formed type expression tree.
func randomAtom(rng *rand.Rand, depth int) *waterloo.TypeAtom {
	if depth <= 0 || rng.Intn(3) == 0 {
		return &waterloo.TypeAtom{Name: leafNames[rng.Intn(len(leafNames))]}
	}
	if rng.Intn(8) == 0 {
		// Callable[[...], R]
		params := waterloo.RawList{}
		for i := rng.Intn(3); i > 0; i-- {
			params = append(params, randomAtom(rng, depth-1))
		}
		return &waterloo.TypeAtom{
			Name: "Callable",
			Args: []waterloo.TypeArg{params, randomAtom(rng, depth-1)},
		}
	}
	name := genericNames[rng.Intn(len(genericNames))]
	n := 1 + rng.Intn(3)
	if name == "Tuple" && rng.Intn(4) == 0 {
		// Tuple[X, ...]
		return &waterloo.TypeAtom{
			Name: "Tuple",
			Args: []waterloo.TypeArg{randomAtom(rng, depth-1), &waterloo.TypeAtom{Name: "..."}},
		}
	}
	args := make([]waterloo.TypeArg, 0, n)
	for i := 0; i < n; i++ {
		args = append(args, randomAtom(rng, depth-1))
	}
	return &waterloo.TypeAtom{Name: name, Args: args}
}

// reflow inserts newline and indent at the points the grammar permits them:
// after an opening bracket, after a comma, and before a closing bracket.
func reflow(text string) string {
	var b strings.Builder
	for _, r := range text {
		switch r {
		case '[':
			b.WriteString("[\n    ")
		case ',':
			b.WriteString(",\n    ")
		case ']':
			b.WriteString("\n]")
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func TestTypeExprRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(621815))

	for i := 0; i < 500; i++ {
		atom := randomAtom(rng, 4)
		rendered := atom.Annotation(nil)

		def, err := waterloo.ParseTypeExpr(rendered)
		require.NoError(t, err, "parsing %q", rendered)
		require.Equal(t, rendered, def.Atom.Annotation(nil))
		require.Equal(t, atom.TypeNames(), def.Atom.TypeNames())
	}
}

func TestTypeExprRoundTripMultiline(t *testing.T) {
	rng := rand.New(rand.NewSource(915126))

	for i := 0; i < 200; i++ {
		atom := randomAtom(rng, 3)
		rendered := atom.Annotation(nil)
		reflowed := reflow(rendered)

		def, err := waterloo.ParseTypeExpr(reflowed)
		require.NoError(t, err, "parsing %q", reflowed)
		// whitespace layout never changes the parsed tree
		require.Equal(t, rendered, def.Atom.Annotation(nil))
	}
}

func TestTypeExprSpanCoversMultilineText(t *testing.T) {
	text := "Tuple[\n    int,\n    str\n]"
	def, err := waterloo.ParseTypeExpr(text)
	require.NoError(t, err)
	require.Equal(t, waterloo.SourcePos{Row: 0, Col: 0}, def.Start)
	require.Equal(t, waterloo.SourcePos{Row: 3, Col: 1}, def.End)
}
