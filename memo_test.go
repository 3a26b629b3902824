package pegrat_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clarete/pegrat"
	"github.com/clarete/pegrat/examples/arithmetic"
	"github.com/clarete/pegrat/examples/textual"
)

func TestPlainMemoEquivalence(t *testing.T) {
	// spec.md §8 invariant 2: a Memo rule invoked twice at the same
	// position must answer the second time from cache rather than
	// re-running the body. The second call is forced to the same
	// position by making the first alternative of an ordered_choice
	// call the rule and then fail, so OrderedChoice backtracks the
	// cursor to the start before trying the second alternative, which
	// calls the same rule again.
	calls := 0
	digits := pegrat.NewRule[string]("digits")
	digits.Define(func(c *pegrat.Cursor) (string, error) {
		calls++
		return pegrat.Regex(`[0-9]+`)(c)
	})
	digits.Memo()

	root := pegrat.NewRule[string]("root")
	root.Define(pegrat.OrderedChoice(
		func(c *pegrat.Cursor) (string, error) {
			if _, err := digits.Parser()(c); err != nil {
				return "", err
			}
			return "", &pegrat.MatchFailure{Pos: c.Location(), Message: "force backtrack"}
		},
		digits.Parser(),
	))

	v, err := parseWith(t, root, false, "123abc")
	require.NoError(t, err)
	assert.Equal(t, "123", v)
	assert.Equal(t, 1, calls, "second call at the same position must be served from the memo cache")
}

func TestPlainMemoCachesFailureToo(t *testing.T) {
	calls := 0
	digits := pegrat.NewRule[string]("digits")
	digits.Define(func(c *pegrat.Cursor) (string, error) {
		calls++
		return pegrat.Regex(`[0-9]+`)(c)
	})
	digits.Memo()

	root := pegrat.NewRule[string]("root")
	root.Define(pegrat.OrderedChoice(
		digits.Parser(),
		func(c *pegrat.Cursor) (string, error) {
			_, err := digits.Parser()(c)
			require.Error(t, err)
			return "fallback", nil
		},
	))

	v, err := parseWith(t, root, false, "abc")
	require.NoError(t, err)
	assert.Equal(t, "fallback", v)
	assert.Equal(t, 1, calls, "a cached failure must not re-run the body either")
}

func TestMemoAndMemoLeftAreIncompatible(t *testing.T) {
	// spec.md §4.5/§4.6: a rule can't be both plainly memoised and
	// left-recursively memoised.
	assert.Panics(t, func() {
		r := pegrat.NewRule[int]("r")
		r.Define(func(c *pegrat.Cursor) (int, error) { return 0, nil })
		r.Memo()
		r.MemoLeft()
	})
	assert.Panics(t, func() {
		r := pegrat.NewRule[int]("r")
		r.Define(func(c *pegrat.Cursor) (int, error) { return 0, nil })
		r.MemoLeft()
		r.Memo()
	})
}

func TestLeftRecursiveArithmeticFoldsLeftToRight(t *testing.T) {
	// spec.md §8 scenario 5 / invariant 6: expr := expr op factor |
	// factor, evaluated with no operator precedence, folds strictly
	// left to right so "1 + 2 * 3" is (1+2)*3 = 9.
	parser, _ := arithmetic.NewParser()

	v, err := pegrat.TryParse[float64](parser, "1 + 2 * 3")
	require.NoError(t, err)
	assert.Equal(t, 9.0, v)

	v, err = pegrat.TryParse[float64](parser, "1+2")
	require.NoError(t, err)
	assert.Equal(t, 3.0, v)

	v, err = pegrat.TryParse[float64](parser, "(1 + 2) * 3")
	require.NoError(t, err)
	assert.Equal(t, 9.0, v)
}

func TestLeftRecursiveArithmeticAcceptsLeadingZero(t *testing.T) {
	// The bundled arithmetic grammar's num rule is [0-9]+(\.[0-9]+)?,
	// deliberately laxer than the textual grammar's [1-9][0-9]* (which
	// is what spec.md §8 scenario 4's "12 + 01 fails" actually exercises
	// — see TestTextualExprRejectsLeadingZero).
	parser, _ := arithmetic.NewParser()
	v, err := pegrat.TryParse[float64](parser, "12 + 01")
	require.NoError(t, err)
	assert.Equal(t, 13.0, v)
}

func TestLeftRecursiveCommaList(t *testing.T) {
	g := textual.NewCommaListRoot()
	parser := textual.NewParser(g)

	v, err := pegrat.TryParse[textual.Value](parser, "1,2,3")
	require.NoError(t, err)
	assert.Equal(t, "1,2,3", v.Text())
}

func TestTextualExprRejectsLeadingZero(t *testing.T) {
	// spec.md §8 scenario 4: "12 + 01" fails because num is
	// [1-9][0-9]* — "01" can't be matched as a single num token ("0"
	// matches nothing since 0 isn't in [1-9], so op's "+" is followed
	// directly by digits the grammar can't assemble into a second
	// term).
	g := textual.New()
	parser := textual.NewParser(g)

	_, err := pegrat.TryParse[textual.Value](parser, "12 + 01")
	require.Error(t, err)
}

func TestParenthesizedExpressionReassembly(t *testing.T) {
	// spec.md §8 scenario 3: whitespace is consumed but not preserved
	// in the reassembled text, parentheses are.
	g := textual.New()
	parser := textual.NewParser(g)

	v, err := pegrat.TryParse[textual.Value](parser, "(1 + 2) - 3")
	require.NoError(t, err)
	assert.Equal(t, "(1+2)-3", v.Text())
}

func TestMaxGrowIterationsCap(t *testing.T) {
	// A rule whose every grow iteration consumes one more character
	// than the last never reaches a fixed point on its own (every
	// iteration strictly improves on the last), so it must only stop
	// because WithMaxGrowIterations caps it.
	growth := 0
	r := pegrat.NewRule[int]("growforever")
	r.Define(func(c *pegrat.Cursor) (int, error) {
		growth++
		if _, err := pegrat.Regex(strings.Repeat(".", growth))(c); err != nil {
			return 0, err
		}
		return growth, nil
	})
	r.MemoLeft()

	p := pegrat.NewParser(r, false, pegrat.WithMaxGrowIterations(5))
	v, err := pegrat.TryParse[int](p, strings.Repeat("a", 40))
	require.NoError(t, err)
	assert.Equal(t, 5, v)
	assert.Equal(t, 5, growth)
}
