package pegrat

// Sequence groups an imperative rule body — typically a closure that
// calls several primitives/sub-rules in a row using ordinary Go
// control flow — under name for diagnostic purposes. A failure whose
// innermost rule is already name passes through unchanged; anything
// else is wrapped so the sequence itself is named in the trace (spec
// §4.3). This is the same labelling rule the Rule binder applies to a
// whole rule body, exposed standalone for sequences that live inside
// a rule rather than being the rule's entire body (e.g. one
// alternative of an ordered_choice).
func Sequence[T any](name string, body ParserFn[T]) ParserFn[T] {
	return func(c *Cursor) (T, error) {
		c.save()
		v, err := body(c)
		if err == nil {
			c.drop()
			return v, nil
		}
		c.restore()
		mf := asMatchFailure(err, c)
		if mf.Rule == name {
			c.parser.diagnostics.record(mf)
			var zero T
			return zero, mf
		}
		wrapped := &MatchFailure{
			Rule:    name,
			Pos:     mf.Pos,
			Message: "error parsing sequence",
			Cause:   mf,
		}
		c.parser.diagnostics.record(wrapped)
		var zero T
		return zero, wrapped
	}
}

// defaultRecursionGuard bounds how many in-flight save/restore frames
// a parse may hold before OrderedChoice refuses to recurse any
// deeper, unless overridden by WithRecursionGuard. A real Go stack
// overflow is a fatal, unrecoverable runtime error — recover() can't
// catch it — so the only cheap, best-effort detection available is to
// watch the backtracking depth as a proxy for call stack depth and
// bail out before it gets there (spec §5's "should detect... when
// possible").
const defaultRecursionGuard = 100000

// OrderedChoice ("first") tries each alternative in order, backtracking
// between attempts, and returns the first one that succeeds. If every
// alternative fails, it raises an aggregate failure whose cause is the
// deepest (highest-ranked) of the sub-failures.
func OrderedChoice[T any](alts ...ParserFn[T]) ParserFn[T] {
	return func(c *Cursor) (T, error) {
		guard := c.parser.recursionGuard
		if guard == 0 {
			guard = defaultRecursionGuard
		}
		if depth := len(c.saves); depth >= guard {
			var zero T
			mf := &MatchFailure{
				Pos:     c.Location(),
				Message: "backtracking depth exceeded; likely non-memoised left recursion",
			}
			c.parser.diagnostics.record(mf)
			return zero, mf
		}
		var deepest *MatchFailure
		for _, alt := range alts {
			c.save()
			v, err := alt(c)
			if err == nil {
				c.drop()
				return v, nil
			}
			c.restore()
			mf := asMatchFailure(err, c)
			if deepest == nil || mf.rank() < deepest.rank() {
				deepest = mf
			}
		}
		var zero T
		if deepest == nil {
			mf := &MatchFailure{Pos: c.Location(), Message: "no alternatives to choose from"}
			c.parser.diagnostics.record(mf)
			return zero, mf
		}
		mf := &MatchFailure{
			Pos:     c.Location(),
			Message: "no alternative matched",
			Cause:   deepest,
		}
		c.parser.diagnostics.record(mf)
		return zero, mf
	}
}

// present wraps the result of Optional: present values carry Ok=true,
// an absent match reports the zero value of T with Ok=false.
type present[T any] struct {
	Value T
	Ok    bool
}

// Optional tries body once; on failure it backtracks and reports
// absence rather than propagating the failure.
func Optional[T any](body ParserFn[T]) ParserFn[present[T]] {
	return func(c *Cursor) (present[T], error) {
		c.save()
		v, err := body(c)
		if err == nil {
			c.drop()
			return present[T]{Value: v, Ok: true}, nil
		}
		c.restore()
		return present[T]{}, nil
	}
}

// ZeroOrMore repeatedly applies body, collecting successes, and stops
// (without failing) at the first failure or at the first iteration
// that succeeds without consuming input, whose value is not collected
// — repetition combinators must never loop on zero-width matches
// (spec §4.3's termination rule).
func ZeroOrMore[T any](body ParserFn[T]) ParserFn[[]T] {
	return func(c *Cursor) ([]T, error) {
		var out []T
		for {
			start := c.pos
			c.save()
			v, err := body(c)
			if err != nil {
				c.restore()
				break
			}
			c.drop()
			if c.pos == start {
				break
			}
			out = append(out, v)
		}
		return out, nil
	}
}

// OneOrMore is ZeroOrMore that requires at least one match; on an
// empty result it fails, using the first attempt's failure as cause.
func OneOrMore[T any](body ParserFn[T]) ParserFn[[]T] {
	zom := ZeroOrMore(body)
	return func(c *Cursor) ([]T, error) {
		c.save()
		head, err := body(c)
		if err != nil {
			c.restore()
			mf := asMatchFailure(err, c)
			wrapped := &MatchFailure{
				Pos:     c.Location(),
				Message: "expected at least one match",
				Cause:   mf,
			}
			c.parser.diagnostics.record(wrapped)
			return nil, wrapped
		}
		c.drop()
		rest, _ := zom(c)
		return append([]T{head}, rest...), nil
	}
}

// Separated parses zero or more body occurrences separated by sep. If
// required is true, at least one body must match or the whole
// combinator fails; otherwise an empty list is a successful parse.
func Separated[T, S any](sep ParserFn[S], required bool, body ParserFn[T]) ParserFn[[]T] {
	return func(c *Cursor) ([]T, error) {
		c.save()
		head, err := body(c)
		if err != nil {
			c.restore()
			if required {
				mf := asMatchFailure(err, c)
				wrapped := &MatchFailure{
					Pos:     c.Location(),
					Message: "expected at least one element",
					Cause:   mf,
				}
				c.parser.diagnostics.record(wrapped)
				return nil, wrapped
			}
			return nil, nil
		}
		c.drop()
		out := []T{head}

		for {
			start := c.pos
			c.save()
			if _, err := sep(c); err != nil {
				c.restore()
				break
			}
			v, err := body(c)
			if err != nil {
				c.restore()
				break
			}
			c.drop()
			out = append(out, v)
			if c.pos == start {
				break
			}
		}
		return out, nil
	}
}

// Spaced wraps body in optional leading/trailing ws, for grammars
// that want whitespace-skipping sugar without the engine mandating a
// whitespace primitive (spec §9's Open Question — resolved as a
// convenience function, not a core primitive).
func Spaced[T any, W any](ws ParserFn[W], body ParserFn[T]) ParserFn[T] {
	skip := ZeroOrMore(ws)
	return func(c *Cursor) (T, error) {
		skip(c)
		v, err := body(c)
		if err != nil {
			var zero T
			return zero, err
		}
		skip(c)
		return v, nil
	}
}
