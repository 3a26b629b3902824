package pegrat

import (
	"fmt"
	"sort"
)

// Location is a position in the input, reported in three coordinate
// systems at once: a 0-based byte Offset (what the cursor actually
// tracks), and a 1-based Line/Column pair for human-readable
// diagnostics.
type Location struct {
	Line   int
	Column int
	Offset int
}

func (l Location) String() string {
	return fmt.Sprintf("%d:%d", l.Line, l.Column)
}

// Span is a half-open range between two Locations.
type Span struct {
	Start Location
	End   Location
}

func (s Span) String() string {
	if s.Start == s.End {
		return s.Start.String()
	}
	return fmt.Sprintf("%s..%s", s.Start, s.End)
}

// lineIndex converts byte offsets into Line/Column pairs without
// rescanning the input on every lookup. It records the byte offset
// where each line begins and binary-searches it, the same strategy
// the teacher grammar's position tracker uses for its LineIndex.
type lineIndex struct {
	input     string
	lineStart []int
}

func newLineIndex(input string) *lineIndex {
	lineStart := make([]int, 1, 64)
	lineStart[0] = 0
	for i := 0; i < len(input); i++ {
		if input[i] == '\n' {
			lineStart = append(lineStart, i+1)
		}
	}
	return &lineIndex{input: input, lineStart: lineStart}
}

func (li *lineIndex) locationAt(offset int) Location {
	if offset < 0 {
		offset = 0
	}
	if offset > len(li.input) {
		offset = len(li.input)
	}

	idx := sort.Search(len(li.lineStart), func(i int) bool {
		return li.lineStart[i] > offset
	}) - 1
	if idx < 0 {
		idx = 0
	}

	lineStart := li.lineStart[idx]
	col := 1
	for i := lineStart; i < offset; {
		_, size := decodeRune(li.input[i:])
		i += size
		col++
	}

	return Location{Line: idx + 1, Column: col, Offset: offset}
}

// lineText returns the full source line containing offset, for
// diagnostic rendering.
func (li *lineIndex) lineText(offset int) string {
	loc := li.locationAt(offset)
	start := li.lineStart[loc.Line-1]
	end := len(li.input)
	for i := start; i < len(li.input); i++ {
		if li.input[i] == '\n' {
			end = i
			break
		}
	}
	return li.input[start:end]
}
