// Command pegcalc is a tiny demonstration front-end for the bundled
// left-recursive arithmetic grammar: it parses an expression from
// argv and prints the fold result, or a rendered diagnostic on
// failure. It intentionally does not read a grammar description file
// — the rule-declaration DSL is out of scope for this engine (spec §1)
// — it is wired directly against the combinator API in
// examples/arithmetic.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/clarete/pegrat"
	"github.com/clarete/pegrat/examples/arithmetic"
)

func main() {
	var verbose = flag.Bool("verbose", false, "trace rule entry/exit and left-recursion grow iterations")
	flag.Parse()

	expr := strings.Join(flag.Args(), " ")
	if expr == "" {
		fmt.Fprintln(os.Stderr, "usage: pegcalc [-verbose] <expression>")
		os.Exit(2)
	}

	var opts []pegrat.Option
	if *verbose {
		opts = append(opts, pegrat.WithLogger(hclog.New(&hclog.LoggerOptions{
			Name:  "pegcalc",
			Level: hclog.Trace,
		})))
	}

	parser, _ := arithmetic.NewParser(opts...)
	result, err := pegrat.TryParse[float64](parser, expr)
	if err != nil {
		if mf, ok := err.(*pegrat.MatchFailure); ok {
			fmt.Fprint(os.Stderr, pegrat.RenderDiagnostic(mf, expr))
		} else {
			fmt.Fprintln(os.Stderr, err.Error())
		}
		os.Exit(1)
	}

	fmt.Println(result)
}
