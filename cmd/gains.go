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
	"go.uber.org/zap"
)

// gainsCmd holds the flags for the 'gains' subcommand.
type gainsCmd struct {
	inputFlags
	output   string
	parallel bool
	workers  int
	logFile  string
}

func (*gainsCmd) Name() string     { return "gains" }
func (*gainsCmd) Synopsis() string { return "realized gains of a transaction file, FIFO" }
func (*gainsCmd) Usage() string {
	return `capgains gains [-i <file>] [-format csv|json] [-path <jsonpath>] [-sort] [-parallel] [-o <file>] [-log <file>]

  Matches every sale against the oldest lots bought and reports the realized
  gains per symbol, the detail of each sale, and the sales rejected for lack
  of shares.

  -o writes the gains per symbol as JSON lines. With -o -, they are printed
  instead of the report.
`
}

func (c *gainsCmd) SetFlags(f *flag.FlagSet) {
	c.inputFlags.SetFlags(f)
	f.StringVar(&c.output, "o", "", "Write the gains per symbol as JSON lines to this file, - for the standard output")
	f.BoolVar(&c.parallel, "parallel", false, "Process symbols concurrently")
	f.IntVar(&c.workers, "workers", 0, "Maximum number of symbols processed concurrently, 0 for one per CPU")
	f.StringVar(&c.logFile, "log", "", "Write the run log to this file")
}

func (c *gainsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) (status subcommands.ExitStatus) {
	a, err := newApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return subcommands.ExitUsageError
	}
	defer a.done(ctx, &status)
	if c.parallel {
		a.cfg.Parallel = true
	}
	if c.workers > 0 {
		a.cfg.Workers = c.workers
	}
	if c.logFile != "" {
		a.cfg.LogFile = c.logFile
	}

	txs, err := c.read(a.cfg.Currency)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading transactions from %s: %v\n", c.source(), err)
		return subcommands.ExitFailure
	}

	rec := &capgains.Recorder{}
	reporters := []capgains.Reporter{rec}
	j, err := a.openJournal(c.source())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening journal: %v\n", err)
		return subcommands.ExitFailure
	}
	if j != nil {
		reporters = append(reporters, j)
	}

	p := a.processor(reporters...)
	stats, err := a.run(ctx, p, txs)
	if err == nil {
		err = p.Finish()
	}
	if j != nil {
		if cerr := j.Close(); err == nil {
			err = cerr
		}
		a.log.Info("run recorded", zap.String("run", j.RunID()), zap.String("journal", a.cfg.Journal.Path))
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error processing transactions: %v\n", err)
		return subcommands.ExitFailure
	}

	if c.output != "" {
		if err := writeTo(c.output, func(w io.Writer) error { return capgains.EncodeSummary(w, p.Summary()) }); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing gains to %s: %v\n", c.output, err)
			return subcommands.ExitFailure
		}
	}
	if c.output != "-" {
		printMarkdown(renderer.GainsMarkdown(renderer.NewGainsReport(c.source(), a.cfg.Currency, p, stats, rec)))
	}
	return subcommands.ExitSuccess
}

// writeTo calls encode with the file at path, or the standard output if path
// is "-".
func writeTo(path string, encode func(io.Writer) error) error {
	if path == "-" {
		return encode(os.Stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := encode(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
