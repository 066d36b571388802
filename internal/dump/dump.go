// Package dump renders IR expressions and backend declaration tables as
// human-readable debug text: byte counts as "1.2 kB" rather than bare
// integers, large repeat/occurrence counts with thousands separators.
// It is a standalone helper: ir.Dump and backend.State.PrintDeclarations
// do not call it.
//
// Grounded on github.com/dustin/go-humanize, pulled in from
// NimbleMarkets-dbn-go where it renders download sizes and record
// counts in the CLI and TUI (humanize.Bytes, humanize.Comma) — the same
// "render a count for a human, not a machine" need this package has.
package dump

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/dessser-go/dessser/ir"
)

// Bytes renders a byte count the way a progress readout or a declaration
// table would: "512 B", "1.4 kB", "3.2 MB".
func Bytes(n uint64) string {
	return humanize.Bytes(n)
}

// Count renders an integer with thousands separators, used for unrolled
// vector lengths and loop-iteration counts in debug output.
func Count(n int64) string {
	return humanize.Comma(n)
}

// Expr renders e the way ir.Dump's generated runtime call is meant to
// surface it to a human at debug time: the s-expression form plus its
// inferred type when one can be computed, falling back to the bare
// s-expression if type inference fails (a malformed or partially-built
// expression should still be dumpable).
func Expr(e ir.Expr) string {
	var b strings.Builder
	b.WriteString(ir.Print(e))
	if t, err := ir.TypeOf(ir.NewEnv(), e); err == nil {
		b.WriteString(" : ")
		b.WriteString(t.String())
	}
	return b.String()
}

// DeclarationTable renders a backend's named-declaration listing as
// "<count> declarations (<total size>)" followed by one line per entry,
// sized by source length rather than wire length since these are Go
// source fragments, not wire-format values.
func DeclarationTable(names []string, bodies map[string]string) string {
	var b strings.Builder
	total := uint64(0)
	for _, body := range bodies {
		total += uint64(len(body))
	}
	fmt.Fprintf(&b, "%s declarations (%s)\n", Count(int64(len(names))), Bytes(total))
	for _, name := range names {
		fmt.Fprintf(&b, "  %-24s %s\n", name, Bytes(uint64(len(bodies[name]))))
	}
	return b.String()
}
