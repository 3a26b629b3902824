package pegrat

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// RenderDiagnostic formats a MatchFailure as the two-line
// input-plus-caret report described in spec §6: the source line the
// failure occurred on, a caret under the offending column, the rule
// name and 1-based line number, the message, and the cause chain
// underneath. Colorization only kicks in when stdout looks like a
// terminal, following the same isatty check fatih/color itself uses
// internally.
func RenderDiagnostic(d *MatchFailure, input string) string {
	return renderDiagnostic(d, input, isatty.IsTerminal(os.Stdout.Fd()))
}

// renderDiagnosticPlain is RenderDiagnostic without any color
// escapes, useful for tests and non-terminal output (logs, CI).
func renderDiagnosticPlain(d *MatchFailure, input string) string {
	return renderDiagnostic(d, input, false)
}

func renderDiagnostic(d *MatchFailure, input string, useColor bool) string {
	d = d.deepest()
	li := newLineIndex(input)
	line := li.lineText(d.Pos.Offset)

	var b strings.Builder

	ruleLabel := d.Rule
	if ruleLabel == "" {
		ruleLabel = "<root>"
	}

	header := fmt.Sprintf("Error in rule '%s' at line %d:%d", ruleLabel, d.Pos.Line, d.Pos.Column)
	if useColor {
		header = color.New(color.FgRed, color.Bold).Sprint(header)
	}
	fmt.Fprintln(&b, header)
	fmt.Fprintln(&b, line)

	caretCol := d.Pos.Column - 1
	if caretCol < 0 {
		caretCol = 0
	}
	caret := strings.Repeat(" ", caretCol) + "^"
	if useColor {
		caret = color.New(color.FgYellow).Sprint(caret)
	}
	fmt.Fprintln(&b, caret)

	fmt.Fprintf(&b, "Error: %s\n", d.Message)

	for cause := d.Cause; cause != nil; cause = cause.Cause {
		indentRule := cause.Rule
		if indentRule == "" {
			indentRule = "<anonymous>"
		}
		fmt.Fprintf(&b, "  caused by %s: %s @ %s\n", indentRule, cause.Message, cause.Pos)
	}

	return b.String()
}
