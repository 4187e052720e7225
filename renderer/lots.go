package renderer

import (
	"fmt"
	"slices"
	"strings"

	"github.com/etnz/capgains"
)

// LotsMarkdown renders the lots still open in the ledger, oldest first for
// each symbol.
func LotsMarkdown(ledger *capgains.Ledger) string {
	var b strings.Builder
	fmt.Fprint(&b, "# Open Lots\n\n")

	symbols := slices.Collect(ledger.Symbols())
	if len(symbols) == 0 {
		fmt.Fprint(&b, "No open lot.\n")
		return b.String()
	}

	fmt.Fprintln(&b, "| Symbol | Acquired | Quantity | Price | Cost |")
	fmt.Fprintln(&b, "|:---|:---|---:|---:|---:|")
	for _, s := range symbols {
		for _, l := range ledger.Lots(s) {
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n", s, l.Date(), l.Quantity(), l.Price(), l.Cost())
		}
		fmt.Fprintf(&b, "| **%s** | | **%s** | | |\n", s, ledger.TotalAvailable(s))
	}
	return b.String()
}
