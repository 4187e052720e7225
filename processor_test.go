package capgains

import (
	"context"
	"errors"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestProcessor_Scenarios(t *testing.T) {
	tests := []struct {
		name     string
		txs      []Transaction
		stats    Stats
		summary  []SymbolGain
		lots     map[string][]Lot
		rejected int
	}{
		{
			name: "partial lot gain",
			txs: []Transaction{
				buy("2023-01-01", "AAPL", 100, 150),
				buy("2023-02-01", "AAPL", 50, 155),
				sell("2023-03-01", "AAPL", 120, 160),
			},
			stats:   Stats{Processed: 3, Buys: 2, Sells: 1},
			summary: []SymbolGain{{Symbol: "AAPL", Gain: USD(1100)}},
			lots:    map[string][]Lot{"AAPL": {lot("2023-02-01", 30, 155)}},
		},
		{
			name:     "sell on an empty ledger",
			txs:      []Transaction{sell("2023-03-01", "AAPL", 10, 160)},
			stats:    Stats{Processed: 1, Rejected: 1},
			summary:  []SymbolGain{},
			lots:     map[string][]Lot{},
			rejected: 1,
		},
		{
			name: "full lot loss",
			txs: []Transaction{
				buy("2023-01-01", "MSFT", 10, 300),
				sell("2023-02-01", "MSFT", 10, 290),
			},
			stats:   Stats{Processed: 2, Buys: 1, Sells: 1},
			summary: []SymbolGain{{Symbol: "MSFT", Gain: USD(-100)}},
			lots:    map[string][]Lot{},
		},
		{
			name: "rejection does not stop the run",
			txs: []Transaction{
				buy("2023-01-01", "GOOG", 5, 100),
				sell("2023-01-02", "GOOG", 6, 110),
				sell("2023-01-03", "GOOG", 5, 110),
			},
			stats:    Stats{Processed: 3, Buys: 1, Sells: 1, Rejected: 1},
			summary:  []SymbolGain{{Symbol: "GOOG", Gain: USD(50)}},
			lots:     map[string][]Lot{},
			rejected: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &Recorder{}
			p := NewProcessor(WithReporter(rec))
			stats, err := p.ProcessAll(context.Background(), slices.Values(tt.txs))
			if err != nil {
				t.Fatalf("ProcessAll() error = %v", err)
			}
			if stats != tt.stats {
				t.Errorf("ProcessAll() stats = %+v, want %+v", stats, tt.stats)
			}
			if diff := cmp.Diff(tt.summary, p.Summary()); diff != "" {
				t.Errorf("Summary() mismatch (-want +got):\n%s", diff)
			}
			for _, s := range slices.Collect(p.Ledger().Symbols()) {
				if got, want := p.Ledger().Lots(s), tt.lots[s]; !slices.EqualFunc(got, want, Lot.Equal) {
					t.Errorf("Lots(%s) = %v, want %v", s, got, want)
				}
			}
			for s, want := range tt.lots {
				if got := p.Ledger().Lots(s); !slices.EqualFunc(got, want, Lot.Equal) {
					t.Errorf("Lots(%s) = %v, want %v", s, got, want)
				}
			}
			if len(rec.Rejections) != tt.rejected {
				t.Errorf("got %d rejections reported, want %d", len(rec.Rejections), tt.rejected)
			}
			if len(rec.Realizations) != tt.stats.Sells {
				t.Errorf("got %d realizations reported, want %d", len(rec.Realizations), tt.stats.Sells)
			}
		})
	}
}

func TestProcessor_ProcessReturnsRejection(t *testing.T) {
	p := NewProcessor()
	ctx := context.Background()
	if err := p.Process(ctx, buy("2023-01-01", "AAPL", 10, 100)); err != nil {
		t.Fatalf("Process(BUY) error = %v", err)
	}
	before := p.Ledger().Clone()

	err := p.Process(ctx, sell("2023-01-02", "AAPL", 11, 100))
	var insufficient *InsufficientSharesError
	if !errors.As(err, &insufficient) {
		t.Fatalf("Process(SELL) error = %v, want an InsufficientSharesError", err)
	}
	if !p.Ledger().Equal(before) {
		t.Errorf("rejected sale modified the ledger")
	}
	if got := p.Summary(); len(got) != 0 {
		t.Errorf("rejected sale recorded a gain: %v", got)
	}
}

func TestProcessor_Finish(t *testing.T) {
	rec := &Recorder{}
	p := NewProcessor(WithReporter(rec))
	txs := []Transaction{
		buy("2023-01-01", "AAPL", 10, 100),
		buy("2023-01-01", "MSFT", 10, 100),
		sell("2023-01-02", "MSFT", 5, 90),
		sell("2023-01-03", "AAPL", 5, 120),
	}
	if _, err := p.ProcessAll(context.Background(), slices.Values(txs)); err != nil {
		t.Fatal(err)
	}
	if err := p.Finish(); err != nil {
		t.Fatalf("Finish() error = %v", err)
	}
	want := []SymbolGain{
		{Symbol: "MSFT", Gain: USD(-50)},
		{Symbol: "AAPL", Gain: USD(100)},
	}
	if diff := cmp.Diff(want, rec.Summary); diff != "" {
		t.Errorf("Totals() mismatch (-want +got):\n%s", diff)
	}
	if got := p.Total(); !got.Equal(USD(50)) {
		t.Errorf("Total() = %v, want 50", got.Decimal())
	}
}

// TestProcessor_Deterministic processes the same run twice and expects the
// exact same summary.
func TestProcessor_Deterministic(t *testing.T) {
	txs := DefaultGenerator().Generate(rand.New(rand.NewPCG(3, 4)), 1000)

	run := func() []SymbolGain {
		p := NewProcessor()
		if _, err := p.ProcessAll(context.Background(), slices.Values(txs)); err != nil {
			t.Fatal(err)
		}
		return p.Summary()
	}
	if diff := cmp.Diff(run(), run()); diff != "" {
		t.Errorf("two runs differ (-first +second):\n%s", diff)
	}
}

func TestProcessor_Currency(t *testing.T) {
	p := NewProcessor(WithCurrency("EUR"))
	if _, err := p.ProcessAll(context.Background(), slices.Values([]Transaction{buy("2023-01-01", "AAPL", 1, 1)})); err == nil {
		t.Errorf("ProcessAll() accepted a USD transaction in EUR")
	}
}

func TestProcessor_MixedCurrencies(t *testing.T) {
	tests := []struct {
		name    string
		txs     []Transaction
		stats   Stats
		summary []SymbolGain
		total   Money
		lots    []Lot
	}{
		{
			name: "lots of one symbol",
			txs: []Transaction{
				buy("2023-01-01", "AAPL", 10, 100),
				priced(Buy, "2023-01-02", "AAPL", 10, 100, "EUR"),
				sell("2023-01-03", "AAPL", 15, 110),
			},
			stats:   Stats{Processed: 1, Buys: 1},
			summary: []SymbolGain{},
			lots:    []Lot{lot("2023-01-01", 10, 100)},
		},
		{
			name: "gains of two symbols",
			txs: []Transaction{
				buy("2023-01-01", "AAPL", 10, 100),
				sell("2023-01-02", "AAPL", 5, 110),
				priced(Buy, "2023-01-03", "MSFT", 10, 100, "EUR"),
				priced(Sell, "2023-01-04", "MSFT", 5, 110, "EUR"),
			},
			stats:   Stats{Processed: 2, Buys: 1, Sells: 1},
			summary: []SymbolGain{{Symbol: "AAPL", Gain: USD(50)}},
			total:   USD(50),
			lots:    []Lot{lot("2023-01-01", 5, 100)},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.DebugLevel)
			p := NewProcessor(WithLogger(zap.New(core)))
			stats, err := p.ProcessAll(context.Background(), slices.Values(tt.txs))
			if !errors.Is(err, ErrCurrencyMismatch) {
				t.Fatalf("ProcessAll() error = %v, want ErrCurrencyMismatch", err)
			}
			if stats != tt.stats {
				t.Errorf("ProcessAll() stats = %+v, want %+v", stats, tt.stats)
			}
			if diff := cmp.Diff(tt.summary, p.Summary()); diff != "" {
				t.Errorf("Summary() mismatch (-want +got):\n%s", diff)
			}
			if got := p.Total(); !got.Equal(tt.total) {
				t.Errorf("Total() = %v, want %v", got.Decimal(), tt.total.Decimal())
			}
			if got := p.Ledger().Lots("AAPL"); !slices.EqualFunc(got, tt.lots, Lot.Equal) {
				t.Errorf("AAPL lots = %v, want %v", got, tt.lots)
			}
			if n := logs.FilterMessage("currency mismatch").FilterLevelExact(zapcore.ErrorLevel).Len(); n != 1 {
				t.Errorf("got %d currency mismatch errors logged, want 1", n)
			}
		})
	}
}

func TestProcessor_UnknownKind(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	p := NewProcessor(WithLogger(zap.New(core)))
	err := p.Process(context.Background(), priced(Kind("SPLIT"), "2023-01-01", "AAPL", 1, 1, "USD"))
	if err == nil {
		t.Fatalf("Process() accepted an unknown transaction type")
	}
	if n := logs.FilterMessage("unknown transaction type").FilterLevelExact(zapcore.ErrorLevel).Len(); n != 1 {
		t.Errorf("got %d unknown transaction type errors logged, want 1", n)
	}
}

func TestProcessor_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := NewProcessor()
	_, err := p.ProcessAll(ctx, slices.Values([]Transaction{buy("2023-01-01", "AAPL", 1, 1)}))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("ProcessAll() error = %v, want context.Canceled", err)
	}
}

type failingReporter struct{ NopReporter }

func (failingReporter) Realized(Realization) error { return errors.New("disk full") }

func TestProcessor_ReporterFailureStopsTheRun(t *testing.T) {
	p := NewProcessor(WithReporter(failingReporter{}))
	txs := []Transaction{
		buy("2023-01-01", "AAPL", 10, 100),
		sell("2023-01-02", "AAPL", 5, 100),
		buy("2023-01-03", "AAPL", 10, 100),
	}
	stats, err := p.ProcessAll(context.Background(), slices.Values(txs))
	if err == nil {
		t.Fatalf("ProcessAll() succeeded despite a failing reporter")
	}
	if stats.Processed != 1 {
		t.Errorf("Processed = %d, want 1", stats.Processed)
	}
}

func TestProcessor_Logging(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	p := NewProcessor(WithLogger(zap.New(core)))
	txs := []Transaction{
		buy("2023-01-01", "AAPL", 100, 150),
		buy("2023-02-01", "AAPL", 50, 155),
		sell("2023-03-01", "AAPL", 120, 160),
		sell("2023-03-02", "GOOG", 1, 160),
	}
	if _, err := p.ProcessAll(context.Background(), slices.Values(txs)); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		message string
		level   zapcore.Level
		count   int
	}{
		{"lot opened", zapcore.DebugLevel, 2},
		{"sale realized", zapcore.InfoLevel, 1},
		{"sale rejected", zapcore.WarnLevel, 1},
		{"transactions processed", zapcore.InfoLevel, 1},
	}
	for _, tt := range tests {
		entries := logs.FilterMessage(tt.message).All()
		if len(entries) != tt.count {
			t.Errorf("got %d %q events, want %d", len(entries), tt.message, tt.count)
			continue
		}
		if entries[0].Level != tt.level {
			t.Errorf("%q logged at %v, want %v", tt.message, entries[0].Level, tt.level)
		}
	}

	realized := logs.FilterMessage("sale realized").All()[0].ContextMap()
	if realized["symbol"] != "AAPL" {
		t.Errorf("sale realized symbol = %v, want AAPL", realized["symbol"])
	}
}

func TestProcessor_Tracing(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	p := NewProcessor(WithTracer(tp.Tracer("test")))
	txs := []Transaction{
		buy("2023-01-01", "AAPL", 1, 150),
		sell("2023-03-02", "AAPL", 2, 160),
	}
	if _, err := p.ProcessAll(context.Background(), slices.Values(txs)); err != nil {
		t.Fatal(err)
	}

	spans := sr.Ended()
	if len(spans) != 2 {
		t.Fatalf("got %d spans, want 2", len(spans))
	}
	for _, s := range spans {
		if s.Name() != "capgains.Process" {
			t.Errorf("span name = %q, want capgains.Process", s.Name())
		}
	}
	if got := spans[0].Status().Code; got != codes.Unset {
		t.Errorf("BUY span status = %v, want Unset", got)
	}
	if got := spans[1].Status().Code; got != codes.Error {
		t.Errorf("rejected SELL span status = %v, want Error", got)
	}
}
