// Package cmd implements the capgains command line.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/capgains"
	"github.com/etnz/capgains/config"
	"github.com/etnz/capgains/journal"
	"github.com/etnz/capgains/logging"
	"github.com/etnz/capgains/trace"
	"github.com/google/subcommands"
)

// Group is a set of related commands, listed together in the help.
type Group struct {
	Name     string
	Commands []subcommands.Command
}

// Groups lists every capgains command.
var Groups = []Group{
	{"gains", []subcommands.Command{&gainsCmd{}, &lotsCmd{}}},
	{"transactions", []subcommands.Command{&generateCmd{}}},
	{"journal", []subcommands.Command{&runsCmd{}, &runCmd{}}},
	{"help", []subcommands.Command{&topicCmd{}}},
}

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	for _, g := range Groups {
		for _, cmd := range g.Commands {
			c.Register(cmd, g.Name)
		}
	}
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var configFile = flag.String("config", "", "Path to a YAML configuration file")
var envFile = flag.String("env", ".env", "Path to a dotenv file setting CAPGAINS_* variables, ignored if missing")

// app holds what every command needs once the configuration is loaded.
type app struct {
	cfg      *config.Config
	log      *logging.Log
	shutdown func(context.Context) error
}

// newApp loads the configuration and sets up logging and tracing.
func newApp() (*app, error) {
	cfg, err := config.Load(*configFile, *envFile)
	if err != nil {
		return nil, err
	}
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	a := &app{
		cfg:      cfg,
		log:      logging.New(level),
		shutdown: func(context.Context) error { return nil },
	}
	if cfg.Trace {
		if a.shutdown, err = trace.Init(os.Stderr); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// close flushes the spans and exports the log if a log file is configured.
func (a *app) close(ctx context.Context) error {
	err := a.shutdown(ctx)
	if a.cfg.LogFile != "" {
		err = errors.Join(err, a.log.Export(a.cfg.LogFile))
	}
	return err
}

// done closes the app when a command returns. A log file that cannot be
// written or spans that cannot be flushed turn status into a failure.
func (a *app) done(ctx context.Context, status *subcommands.ExitStatus) {
	if err := a.close(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error closing: %v\n", err)
		*status = subcommands.ExitFailure
	}
}

// processor returns a Processor logging to the app log.
func (a *app) processor(reporters ...capgains.Reporter) *capgains.Processor {
	return capgains.NewProcessor(
		capgains.WithLogger(a.log.Logger),
		capgains.WithCurrency(a.cfg.Currency),
		capgains.WithReporter(capgains.MultiReporter(reporters...)),
	)
}

// run processes txs sequentially, or in parallel if configured so.
func (a *app) run(ctx context.Context, p *capgains.Processor, txs []capgains.Transaction) (capgains.Stats, error) {
	if a.cfg.Parallel {
		return p.ProcessParallel(ctx, txs, a.cfg.Workers)
	}
	return p.ProcessAll(ctx, slices.Values(txs))
}

// openJournal opens the configured journal, nil if there is none.
func (a *app) openJournal(source string) (journal.Journal, error) {
	switch a.cfg.Journal.Type {
	case "csv":
		j, err := journal.NewCSV(a.cfg.Journal.Path)
		if err != nil {
			return nil, err
		}
		return j, nil
	case "sqlite":
		j, err := journal.NewSQLite(a.cfg.Journal.Path)
		if err != nil {
			return nil, err
		}
		if err := j.Begin(source, a.cfg.Currency); err != nil {
			j.Close()
			return nil, err
		}
		return j, nil
	}
	return nil, nil
}

// openSQLite opens the sqlite journal to query it.
func (a *app) openSQLite() (*journal.SQLite, error) {
	if a.cfg.Journal.Type != "sqlite" {
		return nil, fmt.Errorf("no sqlite journal configured, set journal.type to sqlite")
	}
	return journal.NewSQLite(a.cfg.Journal.Path)
}

// inputFlags are the flags of the commands reading transactions.
type inputFlags struct {
	input  string
	format string
	path   string
	sort   bool
}

func (in *inputFlags) SetFlags(f *flag.FlagSet) {
	f.StringVar(&in.input, "i", "-", "Transaction file to read, - for the standard input")
	f.StringVar(&in.format, "format", "csv", "Format of the transaction file (csv, json)")
	f.StringVar(&in.path, "path", "$", "JSONPath selecting the transactions in a json file")
	f.BoolVar(&in.sort, "sort", false, "Sort the transactions by date before processing them")
}

// source names the input in reports.
func (in *inputFlags) source() string {
	if in.input == "-" {
		return "stdin"
	}
	return in.input
}

// read decodes the transactions of the input file.
func (in *inputFlags) read(currency string) ([]capgains.Transaction, error) {
	var r io.Reader = os.Stdin
	if in.input != "-" {
		f, err := os.Open(in.input)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	var txs []capgains.Transaction
	var err error
	switch in.format {
	case "csv":
		txs, err = capgains.DecodeTransactions(r, currency)
	case "json":
		txs, err = capgains.DecodeJSONTransactions(r, in.path, currency)
	default:
		return nil, fmt.Errorf("unknown format %q, want csv or json", in.format)
	}
	if err != nil {
		return nil, err
	}
	if in.sort {
		txs = capgains.Chronological(txs)
	}
	return txs, nil
}

// printMarkdown renders md for the terminal, or prints it as is if it cannot.
func printMarkdown(md string) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(120),
	)
	if err == nil {
		var out string
		if out, err = r.Render(md); err == nil {
			fmt.Print(out)
			return
		}
	}
	fmt.Print(md)
}
