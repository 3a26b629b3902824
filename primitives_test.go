package pegrat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clarete/pegrat"
)

func parseWith[T any](t *testing.T, root *pegrat.Rule[T], requireEOF bool, input string) (T, error) {
	t.Helper()
	p := pegrat.NewParser(root, requireEOF)
	return pegrat.TryParse[T](p, input)
}

func TestCharPrimitive(t *testing.T) {
	root := pegrat.NewRule[rune]("root")
	root.Define(pegrat.Char('a'))

	v, err := parseWith(t, root, false, "abc")
	require.NoError(t, err)
	assert.Equal(t, 'a', v)

	_, err = parseWith(t, root, false, "zzz")
	require.Error(t, err)
}

func TestStringPrimitive(t *testing.T) {
	root := pegrat.NewRule[string]("root")
	root.Define(pegrat.String("hello"))

	v, err := parseWith(t, root, false, "hello world")
	require.NoError(t, err)
	assert.Equal(t, "hello", v)

	_, err = parseWith(t, root, false, "goodbye")
	require.Error(t, err)
}

func TestRegexPrimitiveIsAnchored(t *testing.T) {
	root := pegrat.NewRule[string]("root")
	root.Define(pegrat.Regex(`[0-9]+`))

	// The regex must not scan forward to find digits later in the
	// input — it must fail if the cursor itself isn't sitting on one.
	_, err := parseWith(t, root, false, "abc123")
	require.Error(t, err)

	v, err := parseWith(t, root, false, "123abc")
	require.NoError(t, err)
	assert.Equal(t, "123", v)
}

func TestEndOfInput(t *testing.T) {
	root := pegrat.NewRule[struct{}]("root")
	root.Define(pegrat.EndOfInput())

	_, err := parseWith(t, root, false, "")
	require.NoError(t, err)

	_, err = parseWith(t, root, false, "x")
	require.Error(t, err)
}

func TestEmptyInputFailsWithPositionZero(t *testing.T) {
	// spec.md §8 scenario 6: a grammar whose root requires at least
	// one character must fail on "" with the expected-primitive
	// reported at position 0.
	root := pegrat.NewRule[rune]("root")
	root.Define(pegrat.Char('x'))

	_, err := parseWith(t, root, false, "")
	require.Error(t, err)
	mf, ok := err.(*pegrat.MatchFailure)
	require.True(t, ok)
	assert.Equal(t, 0, mf.Pos.Offset)
}
