package pegrat

// ParserFn is the signature every combinator and primitive in this
// package produces and consumes: a deferred parse of type T, run
// against a Cursor. It can't be a method on Cursor because Go doesn't
// support generic methods with a type parameter the receiver doesn't
// carry, so a closure fills in for the rule-body-as-callable the
// spec asks for.
type ParserFn[T any] func(c *Cursor) (T, error)

type memoKind int

const (
	memoNone memoKind = iota
	memoPlain
	memoLeft
)

// Rule is a named, independently addressable grammar rule. It is the
// sole point where a body is associated with a name (the "rule
// binder" in the design), and it is what memoisation and
// left-recursion support attach to.
//
// A Rule is created before its body is known so that mutually- and
// self-recursive grammars can reference each other by the Rule value
// itself rather than by name lookup: declare the Rule, hand out its
// Parser() closure to whoever needs to call it, and Define the body
// afterwards. This is the same forward-reference shape the closest
// sibling engine in the example pack exposes through its Ref/Set
// pair.
type Rule[T any] struct {
	name string
	body ParserFn[T]
	kind memoKind
}

// NewRule declares a rule by name, without a body. Use Define to
// attach the body once it's available — this indirection is what
// makes forward references and recursive grammars possible.
func NewRule[T any](name string) *Rule[T] {
	return &Rule[T]{name: name}
}

// Name returns the rule's name, used to label diagnostics. Memo
// tables are keyed by the Rule value itself, not by its name.
func (r *Rule[T]) Name() string { return r.name }

// Define attaches the rule's body. Must be called exactly once,
// before the rule is ever invoked.
func (r *Rule[T]) Define(body ParserFn[T]) *Rule[T] {
	r.body = body
	return r
}

// Memo marks the rule for plain packrat memoisation (spec §4.5).
// Must not be combined with MemoLeft on the same rule.
func (r *Rule[T]) Memo() *Rule[T] {
	if r.kind == memoLeft {
		panic("pegrat: rule " + r.name + " is already MemoLeft; memo and memoLeft are incompatible")
	}
	r.kind = memoPlain
	return r
}

// MemoLeft marks the rule for seed-and-grow left-recursive
// memoisation (spec §4.6). Must not be combined with Memo on the
// same rule.
func (r *Rule[T]) MemoLeft() *Rule[T] {
	if r.kind == memoPlain {
		panic("pegrat: rule " + r.name + " is already Memo; memo and memoLeft are incompatible")
	}
	r.kind = memoLeft
	return r
}

// Parser returns the callable form of this rule, suitable for
// composing into combinators or other rule bodies.
func (r *Rule[T]) Parser() ParserFn[T] {
	return func(c *Cursor) (T, error) { return r.invoke(c) }
}

func (r *Rule[T]) invoke(c *Cursor) (T, error) {
	switch r.kind {
	case memoPlain:
		return r.invokePlain(c)
	case memoLeft:
		return r.invokeLeft(c)
	default:
		return r.runLabeled(c)
	}
}

// runLabeled executes the rule body and, on failure, applies the
// labelling rule from spec §4.3: a failure whose innermost rule is
// already this rule's name passes through unchanged (idempotence —
// it already carries the most precise diagnostic); anything else gets
// wrapped in a new failure naming this rule, with the original as
// cause. Every freshly created or wrapped failure is recorded into the
// parser's diagnostic heap at the moment of creation (spec §7).
//
// Body execution is itself bracketed in save/restore: a rule's body
// is usually written as a straight-line sequence of sub-parses
// (spec §4.3's "sequence"), and if any step partway through fails the
// whole rule must leave the cursor exactly where it found it, not
// wherever the last successful step advanced it to (spec §3,
// invariant 1). Bracketing here means individual rule bodies don't
// each have to remember to do it themselves.
func (r *Rule[T]) runLabeled(c *Cursor) (T, error) {
	c.parser.logger.Trace("enter rule", "rule", r.name, "pos", c.pos)
	c.save()
	v, err := r.body(c)
	if err == nil {
		c.drop()
		c.parser.logger.Trace("exit rule", "rule", r.name, "pos", c.pos, "matched", true)
		return v, nil
	}
	c.restore()
	mf := asMatchFailure(err, c)
	if mf.Rule == r.name {
		c.parser.diagnostics.record(mf)
		c.parser.logger.Trace("exit rule", "rule", r.name, "pos", c.pos, "matched", false)
		var zero T
		return zero, mf
	}
	wrapped := &MatchFailure{
		Rule:    r.name,
		Pos:     mf.Pos,
		Message: "error parsing " + r.name,
		Cause:   mf,
	}
	c.parser.diagnostics.record(wrapped)
	c.parser.logger.Trace("exit rule", "rule", r.name, "pos", c.pos, "matched", false)
	var zero T
	return zero, wrapped
}

// plainMemoEntry caches one rule's outcome at one position: either a
// value and the end position it left the cursor at, or a failure
// (spec §3, "MemoEntry").
type plainMemoEntry struct {
	value   any
	failure *MatchFailure
	endPos  int
}

func (r *Rule[T]) invokePlain(c *Cursor) (T, error) {
	table := c.plainTable(r)
	if entry, ok := table[c.pos]; ok {
		c.parser.logger.Trace("memo hit", "rule", r.name, "pos", c.pos)
		return replayPlain[T](c, entry)
	}
	start := c.pos
	v, err := r.runLabeled(c)
	if err != nil {
		// Failure leaves pos unchanged by invariant, so start is the
		// right key regardless of where the error originated.
		table[start] = &plainMemoEntry{failure: err.(*MatchFailure), endPos: start}
		return v, err
	}
	table[start] = &plainMemoEntry{value: v, endPos: c.pos}
	return v, err
}

func replayPlain[T any](c *Cursor, entry *plainMemoEntry) (T, error) {
	if entry.failure != nil {
		return *new(T), entry.failure
	}
	c.pos = entry.endPos
	return entry.value.(T), nil
}

// leftMemoEntry is the seed-and-grow state for one rule at one
// position: the best result found so far, refined iteration by
// iteration (spec §4.6).
type leftMemoEntry struct {
	value   any
	failure *MatchFailure
	endPos  int
}

func (r *Rule[T]) invokeLeft(c *Cursor) (T, error) {
	table := c.leftTable(r)
	if entry, ok := table[c.pos]; ok {
		c.parser.logger.Trace("left-recursive memo hit", "rule", r.name, "pos", c.pos)
		if entry.failure != nil {
			return *new(T), entry.failure
		}
		c.pos = entry.endPos
		return entry.value.(T), nil
	}

	p := c.pos
	seedFail := &MatchFailure{Rule: r.name, Pos: c.Location(), Message: "left-recursive base case for " + r.name}
	entry := &leftMemoEntry{failure: seedFail, endPos: -1}
	table[p] = entry

	lastEnd := -1
	iterations := 0
	for {
		c.pos = p
		v, err := r.runLabeled(c)
		end := c.pos
		if err != nil {
			end = p
		}
		if end <= lastEnd {
			break
		}
		lastEnd = end
		if err != nil {
			entry.failure = err.(*MatchFailure)
			entry.value = nil
		} else {
			entry.failure = nil
			entry.value = v
		}
		entry.endPos = end

		iterations++
		c.parser.logger.Trace("left-recursive grow iteration", "rule", r.name, "iteration", iterations, "pos", p, "end", end)
		if max := c.parser.maxGrowIterations; max > 0 && iterations >= max {
			c.parser.logger.Warn("left-recursive rule hit the grow-iteration cap", "rule", r.name, "iterations", iterations)
			break
		}
	}

	c.pos = lastEnd
	if lastEnd == -1 {
		c.pos = p
	}
	if entry.failure != nil {
		return *new(T), entry.failure
	}
	return entry.value.(T), nil
}

// asMatchFailure normalises any error produced inside a rule body
// into a *MatchFailure, so user-supplied primitives and combinators
// can return plain errors and still participate in ranking/labelling.
func asMatchFailure(err error, c *Cursor) *MatchFailure {
	if mf, ok := err.(*MatchFailure); ok {
		return mf
	}
	return &MatchFailure{Message: err.Error(), Pos: c.Location()}
}
