package capgains

import (
	"context"
	"errors"
	"fmt"
	"iter"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// tracerName is the instrumentation scope of the spans created by the processor.
const tracerName = "github.com/etnz/capgains"

// Processor applies a chronological stream of transactions to a ledger of
// open lots and accumulates the realized gains per symbol.
//
// A Processor is not safe for concurrent use, see ProcessParallel to spread
// the work across goroutines.
type Processor struct {
	ledger   *Ledger
	gains    *Gains
	reporter Reporter
	log      *zap.Logger
	tracer   trace.Tracer
	currency string
}

// Option configures a Processor.
type Option func(*Processor)

// WithLogger sets the logger receiving one event per processed transaction.
func WithLogger(log *zap.Logger) Option {
	return func(p *Processor) { p.log = log }
}

// WithReporter sets the sink of realizations, rejections and totals.
func WithReporter(r Reporter) Option {
	return func(p *Processor) { p.reporter = r }
}

// WithTracer sets the tracer used to create one span per transaction.
func WithTracer(t trace.Tracer) Option {
	return func(p *Processor) { p.tracer = t }
}

// WithCurrency restricts the processor to transactions priced in currency.
// Without it, the currency of the first priced transaction is the one of the
// run.
func WithCurrency(currency string) Option {
	return func(p *Processor) { p.currency = currency }
}

// NewProcessor returns a Processor with an empty ledger and no gains.
func NewProcessor(opts ...Option) *Processor {
	p := &Processor{
		ledger:   NewLedger(),
		gains:    NewGains(),
		reporter: NopReporter{},
		log:      zap.NewNop(),
		tracer:   otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Stats counts the transactions handled during a run.
type Stats struct {
	Processed int // every transaction, rejected ones included
	Buys      int
	Sells     int // realized sales only
	Rejected  int // sales refused for insufficient shares
}

// add counts tx given the error returned by Process. It returns err back if
// it must stop the run.
func (s *Stats) add(tx Transaction, err error) error {
	var insufficient *InsufficientSharesError
	switch {
	case errors.As(err, &insufficient):
		s.Rejected++
	case err != nil:
		return err
	case tx.kind == Buy:
		s.Buys++
	default:
		s.Sells++
	}
	s.Processed++
	return nil
}

// Process applies a single transaction.
//
// A BUY opens a lot. A SELL is matched against the open lots, its gain is
// recorded and reported. A SELL for more shares than held is reported as
// rejected and returned as an *InsufficientSharesError, the ledger and the
// gains are left unchanged. Any other error is fatal for the run.
func (p *Processor) Process(ctx context.Context, tx Transaction) (err error) {
	_, span := p.tracer.Start(ctx, "capgains.Process", trace.WithAttributes(
		attribute.String("capgains.symbol", tx.symbol),
		attribute.String("capgains.kind", tx.kind.String()),
		attribute.String("capgains.quantity", tx.quantity.String()),
		attribute.String("capgains.date", tx.date.String()),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if err := p.checkCurrency(tx); err != nil {
		p.log.Error("currency mismatch",
			zap.Stringer("transaction", tx),
			zap.String("currency", tx.price.Currency()),
			zap.String("expected", p.currency),
		)
		return err
	}

	switch tx.kind {
	case Buy:
		p.ledger.AddLot(tx.symbol, NewLot(tx))
		p.log.Debug("lot opened",
			zap.Stringer("date", tx.date),
			zap.String("symbol", tx.symbol),
			zap.Stringer("quantity", tx.quantity),
			zap.Stringer("price", tx.price),
		)
		return nil

	case Sell:
		return p.sell(tx)

	default:
		p.log.Error("unknown transaction type", zap.Stringer("transaction", tx))
		return fmt.Errorf("%s: unknown transaction type %q", tx, tx.kind)
	}
}

// checkCurrency fails if tx is not priced in the currency of the run, which
// becomes the one of tx if none is set yet.
func (p *Processor) checkCurrency(tx Transaction) error {
	switch c := tx.price.Currency(); {
	case c == "" || c == p.currency:
		return nil
	case p.currency == "":
		p.currency = c
		return nil
	default:
		return fmt.Errorf("%s: price in %s, expected %s: %w", tx, c, p.currency, ErrCurrencyMismatch)
	}
}

func (p *Processor) sell(tx Transaction) error {
	r, err := Match(p.ledger, tx)
	var insufficient *InsufficientSharesError
	switch {
	case errors.As(err, &insufficient):
		p.log.Warn("sale rejected",
			zap.Stringer("date", tx.date),
			zap.String("symbol", tx.symbol),
			zap.Stringer("requested", insufficient.Requested),
			zap.Stringer("available", insufficient.Available),
		)
		if rerr := p.reporter.Rejected(tx, err); rerr != nil {
			return fmt.Errorf("cannot report rejected sale %s: %w", tx, rerr)
		}
		return err

	case IsInternalFault(err):
		p.log.Error("ledger inconsistency", zap.Stringer("transaction", tx), zap.Error(err))
		return fmt.Errorf("cannot process %s: %w", tx, err)

	case err != nil:
		p.log.Error("sale failed", zap.Stringer("transaction", tx), zap.Error(err))
		return fmt.Errorf("cannot process %s: %w", tx, err)
	}

	p.gains.Record(tx.symbol, r.Gain)
	p.log.Info("sale realized",
		zap.Stringer("date", tx.date),
		zap.String("symbol", tx.symbol),
		zap.Stringer("quantity", tx.quantity),
		zap.Stringer("proceeds", r.Proceeds),
		zap.Stringer("cost", r.CostBasis),
		zap.Stringer("gain", r.Gain),
		zap.Int("lots", len(r.Fills)),
	)
	if err := p.reporter.Realized(r); err != nil {
		return fmt.Errorf("cannot report sale %s: %w", tx, err)
	}
	return nil
}

// ProcessAll applies every transaction in order. Rejected sales are counted
// and skipped, any other error stops the run and is returned along with the
// stats so far.
func (p *Processor) ProcessAll(ctx context.Context, txs iter.Seq[Transaction]) (Stats, error) {
	var stats Stats
	for tx := range txs {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		if err := stats.add(tx, p.Process(ctx, tx)); err != nil {
			return stats, err
		}
	}
	p.log.Info("transactions processed",
		zap.Int("processed", stats.Processed),
		zap.Int("buys", stats.Buys),
		zap.Int("sells", stats.Sells),
		zap.Int("rejected", stats.Rejected),
	)
	return stats, nil
}

// Summary returns the realized gain of every symbol sold so far, in the
// order of their first sale.
func (p *Processor) Summary() []SymbolGain { return p.gains.Snapshot() }

// Total returns the realized gain of all the symbols.
func (p *Processor) Total() Money { return p.gains.Total() }

// Ledger returns the open lots.
func (p *Processor) Ledger() *Ledger { return p.ledger }

// Finish hands the summary to the reporter. It is meant to be called once,
// at the end of the run.
func (p *Processor) Finish() error {
	if err := p.reporter.Totals(p.Summary()); err != nil {
		return fmt.Errorf("cannot report totals: %w", err)
	}
	return nil
}
