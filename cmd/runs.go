package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/capgains/renderer"
	"github.com/google/subcommands"
)

type runsCmd struct{}

func (*runsCmd) Name() string     { return "runs" }
func (*runsCmd) Synopsis() string { return "list the runs recorded in the journal" }
func (*runsCmd) Usage() string {
	return `capgains runs

  Lists the runs recorded in the sqlite journal, oldest first.
`
}

func (c *runsCmd) SetFlags(f *flag.FlagSet) {}

func (c *runsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) (status subcommands.ExitStatus) {
	a, err := newApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return subcommands.ExitUsageError
	}
	defer a.done(ctx, &status)

	db, err := a.openSQLite()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening journal: %v\n", err)
		return subcommands.ExitFailure
	}
	defer db.Close()

	runs, err := db.ListRuns()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error listing runs: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.RunsMarkdown(runs))
	return subcommands.ExitSuccess
}

type runCmd struct{}

func (*runCmd) Name() string     { return "run" }
func (*runCmd) Synopsis() string { return "show a run recorded in the journal" }
func (*runCmd) Usage() string {
	return `capgains run <id>

  Shows the gains per symbol and the sales of a run recorded in the sqlite
  journal. See 'capgains runs' for the IDs.
`
}

func (c *runCmd) SetFlags(f *flag.FlagSet) {}

func (c *runCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) (status subcommands.ExitStatus) {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "run requires exactly one run ID")
		return subcommands.ExitUsageError
	}
	id := f.Arg(0)

	a, err := newApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return subcommands.ExitUsageError
	}
	defer a.done(ctx, &status)

	db, err := a.openSQLite()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening journal: %v\n", err)
		return subcommands.ExitFailure
	}
	defer db.Close()

	run, err := db.GetRun(id)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	totals, err := db.RunTotals(id)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading totals of run %s: %v\n", id, err)
		return subcommands.ExitFailure
	}
	sales, err := db.Realizations(id)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading sales of run %s: %v\n", id, err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.RunMarkdown(run, totals, sales))
	return subcommands.ExitSuccess
}
