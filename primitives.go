package pegrat

import (
	"fmt"
	"regexp"
	"strings"
)

// Char matches a single literal rune and returns it.
func Char(want rune) ParserFn[rune] {
	return func(c *Cursor) (rune, error) {
		got := c.Peek()
		if got == want {
			_, size := decodeRune(c.remaining())
			c.advance(size)
			return want, nil
		}
		return 0, &MatchFailure{
			Pos:     c.Location(),
			Message: fmt.Sprintf("expected %q", want),
		}
	}
}

// CharAs matches a single literal rune, transforming it into a value
// of type V with fn.
func CharAs[V any](want rune, fn func(rune) V) ParserFn[V] {
	inner := Char(want)
	return func(c *Cursor) (V, error) {
		r, err := inner(c)
		if err != nil {
			var zero V
			return zero, err
		}
		return fn(r), nil
	}
}

// String matches a literal string and returns the matched text.
func String(want string) ParserFn[string] {
	return func(c *Cursor) (string, error) {
		if strings.HasPrefix(c.remaining(), want) {
			c.advance(len(want))
			return want, nil
		}
		return "", &MatchFailure{
			Pos:     c.Location(),
			Message: fmt.Sprintf("expected %q", want),
		}
	}
}

// StringAs matches a literal string, transforming the matched text
// into a value of type V with fn.
func StringAs[V any](want string, fn func(string) V) ParserFn[V] {
	inner := String(want)
	return func(c *Cursor) (V, error) {
		s, err := inner(c)
		if err != nil {
			var zero V
			return zero, err
		}
		return fn(s), nil
	}
}

// Regex matches pattern anchored at the current cursor position — it
// never scans forward looking for a match later in the input, which
// is what distinguishes a PEG-primitive regex from a general-purpose
// one. The matched substring is returned.
func Regex(pattern string) ParserFn[string] {
	re := regexp.MustCompile(`\A(?:` + pattern + `)`)
	return func(c *Cursor) (string, error) {
		loc := re.FindStringIndex(c.remaining())
		if loc == nil {
			return "", &MatchFailure{
				Pos:     c.Location(),
				Message: fmt.Sprintf("expected /%s/", pattern),
			}
		}
		matched := c.remaining()[loc[0]:loc[1]]
		c.advance(loc[1])
		return matched, nil
	}
}

// RegexAs matches pattern anchored at the cursor, transforming the
// matched text into a value of type V with fn.
func RegexAs[V any](pattern string, fn func(string) V) ParserFn[V] {
	inner := Regex(pattern)
	return func(c *Cursor) (V, error) {
		s, err := inner(c)
		if err != nil {
			var zero V
			return zero, err
		}
		return fn(s), nil
	}
}

// EndOfInput succeeds only when the cursor has consumed the whole
// input; it consumes nothing.
func EndOfInput() ParserFn[struct{}] {
	return func(c *Cursor) (struct{}, error) {
		if c.atEOF() {
			return struct{}{}, nil
		}
		return struct{}{}, &MatchFailure{
			Pos:     c.Location(),
			Message: "expected end of input",
		}
	}
}
