package renderer

import (
	"fmt"
	"io"
	"strings"

	"github.com/etnz/capgains"
)

// GainsReport gathers the outcome of a capgains run.
type GainsReport struct {
	Source       string // Source names the transactions processed, a file name usually.
	Currency     string
	Stats        capgains.Stats
	Realizations []capgains.Realization
	Rejections   []capgains.Rejection
	Summary      []capgains.SymbolGain
	Total        capgains.Money
}

// NewGainsReport builds a report from a recorder filled during a run.
func NewGainsReport(source, currency string, p *capgains.Processor, stats capgains.Stats, rec *capgains.Recorder) *GainsReport {
	return &GainsReport{
		Source:       source,
		Currency:     currency,
		Stats:        stats,
		Realizations: rec.Realizations,
		Rejections:   rec.Rejections,
		Summary:      p.Summary(),
		Total:        p.Total(),
	}
}

// GainsMarkdown renders the realized gains per symbol, the detail of each
// sale, and the sales that were rejected.
func GainsMarkdown(r *GainsReport) string {
	var b strings.Builder

	title := "Capital Gains Report"
	if r.Source != "" {
		title += " for " + r.Source
	}
	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintf(&b, "Method: FIFO, Currency: %s\n\n", r.Currency)
	fmt.Fprintf(&b, "Processed %s: %d bought, %d sold, %d rejected.\n\n",
		plural(r.Stats.Processed, "transaction"), r.Stats.Buys, r.Stats.Sells, r.Stats.Rejected)

	fmt.Fprint(&b, "## Gains per Symbol\n\n")
	if len(r.Summary) == 0 {
		fmt.Fprint(&b, "No sale realized.\n\n")
	} else {
		fmt.Fprintln(&b, "| Symbol | Realized |")
		fmt.Fprintln(&b, "|:---|---:|")
		for _, g := range r.Summary {
			fmt.Fprintf(&b, "| %s | %s |\n", g.Symbol, g.Gain.SignedString())
		}
		fmt.Fprintf(&b, "| **%s** | **%s** |\n\n", "Total", r.Total.SignedString())
	}

	ConditionalBlock(&b, func(w io.Writer) bool {
		fmt.Fprint(w, "## Sales\n\n")
		fmt.Fprintln(w, "| Date | Symbol | Quantity | Proceeds | Cost Basis | Gain | Return | Lots |")
		fmt.Fprintln(w, "|:---|:---|---:|---:|---:|---:|---:|---:|")
		for _, s := range r.Realizations {
			fmt.Fprintf(w, "| %s | %s | %s | %s | %s | %s | %s | %d |\n",
				s.Sell.Date(),
				s.Symbol(),
				s.Quantity(),
				s.Proceeds,
				s.CostBasis,
				s.Gain.SignedString(),
				s.Return().SignedString(),
				len(s.Fills),
			)
		}
		fmt.Fprintln(w)
		return len(r.Realizations) > 0
	})

	ConditionalBlock(&b, func(w io.Writer) bool {
		fmt.Fprint(w, "## Rejected Sales\n\n")
		fmt.Fprintln(w, "| Date | Symbol | Quantity | Reason |")
		fmt.Fprintln(w, "|:---|:---|---:|:---|")
		for _, rej := range r.Rejections {
			fmt.Fprintf(w, "| %s | %s | %s | %s |\n",
				rej.Transaction.Date(),
				rej.Transaction.Symbol(),
				rej.Transaction.Quantity(),
				rej.Err,
			)
		}
		fmt.Fprintln(w)
		return len(r.Rejections) > 0
	})

	return b.String()
}
