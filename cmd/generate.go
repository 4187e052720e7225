package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"strings"

	"github.com/etnz/capgains"
	"github.com/google/subcommands"
)

type generateCmd struct {
	count   int
	seed    uint64
	symbols string
	output  string
}

func (*generateCmd) Name() string     { return "generate" }
func (*generateCmd) Synopsis() string { return "write random transactions" }
func (*generateCmd) Usage() string {
	return `capgains generate [-n <count>] [-seed <n>] [-symbols AAPL,GOOG] [-o <file>]

  Writes random BUY and SELL transactions in the CSV format, in chronological
  order, over five years from 2020-01-01. The same seed always yields the same
  transactions.
`
}

func (c *generateCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.count, "n", 100, "Number of transactions")
	f.Uint64Var(&c.seed, "seed", 0, "Seed of the random generator, 0 for a random seed")
	f.StringVar(&c.symbols, "symbols", "", "Comma separated symbols to trade, AAPL,GOOG,MSFT,AMZN by default")
	f.StringVar(&c.output, "o", "-", "File to write, - for the standard output")
}

func (c *generateCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) (status subcommands.ExitStatus) {
	if c.count < 0 {
		fmt.Fprintln(os.Stderr, "-n must not be negative")
		return subcommands.ExitUsageError
	}
	a, err := newApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return subcommands.ExitUsageError
	}
	defer a.done(ctx, &status)

	gen := capgains.DefaultGenerator()
	gen.Currency = a.cfg.Currency
	if c.symbols != "" {
		gen.Symbols = strings.Split(c.symbols, ",")
	}
	seed := c.seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	txs := gen.Generate(rand.New(rand.NewPCG(seed, seed)), c.count)

	if err := writeTo(c.output, func(w io.Writer) error { return capgains.EncodeTransactions(w, txs) }); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing transactions to %s: %v\n", c.output, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
