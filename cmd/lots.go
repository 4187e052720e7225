package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/etnz/capgains"
	"github.com/etnz/capgains/renderer"
	"github.com/google/subcommands"
)

type lotsCmd struct {
	inputFlags
	output string
}

func (*lotsCmd) Name() string     { return "lots" }
func (*lotsCmd) Synopsis() string { return "open lots after a transaction file" }
func (*lotsCmd) Usage() string {
	return `capgains lots [-i <file>] [-format csv|json] [-path <jsonpath>] [-sort] [-o <file>]

  Processes the transactions and shows the lots still open at the end, oldest
  first for each symbol.

  -o writes the open lots as BUY transactions, in the CSV format, so that the
  next period can start from them.
`
}

func (c *lotsCmd) SetFlags(f *flag.FlagSet) {
	c.inputFlags.SetFlags(f)
	f.StringVar(&c.output, "o", "", "Write the open lots as CSV transactions to this file, - for the standard output")
}

func (c *lotsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) (status subcommands.ExitStatus) {
	a, err := newApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return subcommands.ExitUsageError
	}
	defer a.done(ctx, &status)

	txs, err := c.read(a.cfg.Currency)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading transactions from %s: %v\n", c.source(), err)
		return subcommands.ExitFailure
	}
	p := a.processor()
	if _, err := a.run(ctx, p, txs); err != nil {
		fmt.Fprintf(os.Stderr, "Error processing transactions: %v\n", err)
		return subcommands.ExitFailure
	}

	if c.output != "" {
		if err := writeTo(c.output, func(w io.Writer) error { return capgains.EncodeTransactions(w, openLots(p.Ledger())) }); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing lots to %s: %v\n", c.output, err)
			return subcommands.ExitFailure
		}
	}
	if c.output != "-" {
		printMarkdown(renderer.LotsMarkdown(p.Ledger()))
	}
	return subcommands.ExitSuccess
}

// openLots returns the lots of the ledger as the BUY transactions that opened
// them, in chronological order.
func openLots(ledger *capgains.Ledger) []capgains.Transaction {
	var txs []capgains.Transaction
	for s := range ledger.Symbols() {
		for _, l := range ledger.Lots(s) {
			txs = append(txs, capgains.NewBuy(l.Date(), s, l.Quantity(), l.Price()))
		}
	}
	return capgains.Chronological(txs)
}
