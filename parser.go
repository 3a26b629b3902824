package pegrat

import (
	"github.com/hashicorp/go-hclog"
)

// Option configures a Parser at construction time.
type Option func(*Parser)

// WithLogger attaches a structured logger used to trace rule entry,
// memo hits, and left-recursion grow iterations. Defaults to a
// no-op logger.
func WithLogger(l hclog.Logger) Option {
	return func(p *Parser) { p.logger = l }
}

// WithMaxGrowIterations bounds the seed-and-grow loop for
// left-recursive rules. Zero (the default) means unbounded, matching
// the spec's plain semantics; grammars that satisfy the
// monotone-progress invariant never need the cap. When a rule reaches
// the cap, its grow loop stops, a warning is logged, and the rule
// returns the best result found so far; no error is raised.
func WithMaxGrowIterations(n int) Option {
	return func(p *Parser) { p.maxGrowIterations = n }
}

// WithRecursionGuard overrides how many in-flight save/restore frames
// OrderedChoice tolerates before it stops recursing and reports a
// diagnosable failure instead of risking an unrecoverable stack
// overflow. Zero (the default) uses defaultRecursionGuard.
func WithRecursionGuard(n int) Option {
	return func(p *Parser) { p.recursionGuard = n }
}

// Parser is a reusable grammar instance. Construct it once around a
// root rule, then call TryParse as many times as needed with
// different inputs — each call is an independent session: cursor,
// memo tables, and the diagnostic heap are all reset at entry (spec
// §3, "Lifecycle").
type Parser struct {
	root              anyRootRule
	logger            hclog.Logger
	maxGrowIterations int
	recursionGuard    int
	requireEOF        bool

	diagnostics *diagnosticHeap
	plainMemos  map[any]map[int]*plainMemoEntry
	leftMemos   map[any]map[int]*leftMemoEntry
}

// anyRootRule erases the root rule's result type so Parser itself
// doesn't need to be generic; TryParse[T] below recovers the type.
type anyRootRule interface {
	parseAny(c *Cursor) (any, error)
}

type rootRule[T any] struct {
	rule *Rule[T]
}

func (r rootRule[T]) parseAny(c *Cursor) (any, error) {
	return r.rule.Parser()(c)
}

// NewParser builds a parser around root. If requireEOF is true,
// TryParse additionally demands the whole input be consumed.
func NewParser[T any](root *Rule[T], requireEOF bool, opts ...Option) *Parser {
	p := &Parser{
		root:       rootRule[T]{rule: root},
		logger:     hclog.NewNullLogger(),
		requireEOF: requireEOF,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// TryParse resets all session state and runs the grammar against
// input. On success it returns the root rule's value; on failure it
// returns the deepest (highest-ranked) diagnostic seen during the
// attempt, which is not necessarily the one the root rule itself
// raised (spec §4.7).
func (p *Parser) TryParse(input string) (any, error) {
	c := newCursor(input, p)
	p.diagnostics = newDiagnosticHeap()
	p.plainMemos = nil
	p.leftMemos = nil

	v, err := p.root.parseAny(c)
	if err == nil && p.requireEOF {
		if _, eofErr := EndOfInput()(c); eofErr != nil {
			mf := eofErr.(*MatchFailure)
			p.diagnostics.record(mf)
			err = mf
		}
	}
	if err != nil {
		if best := p.diagnostics.best(); best != nil {
			return nil, best
		}
		return nil, err
	}
	if len(c.saves) != 0 {
		// Defensive: a well-behaved grammar always balances
		// save/restore/drop (spec §3 invariant 2); a mismatch here
		// means a combinator in the grammar leaked a save.
		p.logger.Warn("unbalanced backtracking stack at end of parse", "depth", len(c.saves))
	}
	return v, nil
}

func (c *Cursor) plainTable(r any) map[int]*plainMemoEntry {
	if c.parser.plainMemos == nil {
		c.parser.plainMemos = map[any]map[int]*plainMemoEntry{}
	}
	t, ok := c.parser.plainMemos[r]
	if !ok {
		t = map[int]*plainMemoEntry{}
		c.parser.plainMemos[r] = t
	}
	return t
}

func (c *Cursor) leftTable(r any) map[int]*leftMemoEntry {
	if c.parser.leftMemos == nil {
		c.parser.leftMemos = map[any]map[int]*leftMemoEntry{}
	}
	t, ok := c.parser.leftMemos[r]
	if !ok {
		t = map[int]*leftMemoEntry{}
		c.parser.leftMemos[r] = t
	}
	return t
}

// TryParse is the typed convenience wrapper over (*Parser).TryParse,
// recovering the root rule's result type for callers who built their
// Parser with NewParser[T].
func TryParse[T any](p *Parser, input string) (T, error) {
	v, err := p.TryParse(input)
	if err != nil {
		return *new(T), err
	}
	return v.(T), nil
}
