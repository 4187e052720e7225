package renderer

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/etnz/capgains"
	"github.com/etnz/capgains/journal"
)

// RunsMarkdown renders the list of runs recorded in a journal.
func RunsMarkdown(runs []journal.Run) string {
	var b strings.Builder
	fmt.Fprint(&b, "# Recorded Runs\n\n")
	if len(runs) == 0 {
		fmt.Fprint(&b, "No run recorded yet.\n")
		return b.String()
	}
	fmt.Fprintln(&b, "| Run | Created | Source | Currency | Realized | Rejected |")
	fmt.Fprintln(&b, "|:---|:---|:---|:---|---:|---:|")
	for _, r := range runs {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %d | %d |\n",
			r.ID, r.Created.UTC().Format(time.DateTime), r.Source, r.Currency, r.Realized, r.Rejected)
	}
	return b.String()
}

// RunMarkdown renders a single recorded run: its totals and its sales.
func RunMarkdown(run journal.Run, totals []capgains.SymbolGain, sales []journal.RealizationRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Run %s\n\n", run.ID)
	fmt.Fprintf(&b, "Recorded %s from %s, %s and %s.\n\n",
		run.Created.UTC().Format(time.DateTime), run.Source,
		plural(run.Realized, "sale"), plural(run.Rejected, "rejection"))

	ConditionalBlock(&b, func(w io.Writer) bool {
		fmt.Fprint(w, "## Gains per Symbol\n\n")
		fmt.Fprintln(w, "| Symbol | Realized |")
		fmt.Fprintln(w, "|:---|---:|")
		for _, g := range totals {
			fmt.Fprintf(w, "| %s | %s |\n", g.Symbol, g.Gain.SignedString())
		}
		fmt.Fprintln(w)
		return len(totals) > 0
	})

	ConditionalBlock(&b, func(w io.Writer) bool {
		fmt.Fprint(w, "## Sales\n\n")
		fmt.Fprintln(w, "| # | Date | Symbol | Quantity | Proceeds | Cost Basis | Gain | Lots |")
		fmt.Fprintln(w, "|---:|:---|:---|---:|---:|---:|---:|---:|")
		for _, s := range sales {
			fmt.Fprintf(w, "| %d | %s | %s | %s | %s | %s | %s | %d |\n",
				s.Seq, s.Date, s.Symbol, s.Quantity, s.Proceeds, s.CostBasis, s.Gain.SignedString(), s.Lots)
		}
		fmt.Fprintln(w)
		return len(sales) > 0
	})

	return b.String()
}
