// Package pegrat is a packrat PEG combinator engine with direct
// support for left-recursive rules via seed-and-grow memoisation.
//
// A grammar is a set of Rule values composed from the primitives
// (Char, String, Regex, EndOfInput) and combinators (Sequence,
// OrderedChoice, Optional, ZeroOrMore, OneOrMore, Separated) in this
// package. Rules that need packrat memoisation call Memo; rules whose
// leftmost expansion is themselves call MemoLeft instead. A Parser
// drives a root rule against an input string and reports either a
// value or the deepest diagnostic seen during the attempt.
package pegrat
