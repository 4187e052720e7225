package journal

import (
	"context"
	"slices"
	"testing"

	"github.com/etnz/capgains"
	"github.com/etnz/capgains/date"
	"github.com/stretchr/testify/require"
)

var (
	_ Journal = (*CSVJournal)(nil)
	_ Journal = (*SQLite)(nil)
)

// run processes a small run reporting to j: one partial sale of AAPL with a
// gain of 1100, one rejected sale of GOOG and a loss of 100 on MSFT.
func run(t *testing.T, j capgains.Reporter) *capgains.Processor {
	t.Helper()
	usd := func(v float64) capgains.Money { return capgains.M(v, "USD") }
	on := date.MustParse
	txs := []capgains.Transaction{
		capgains.NewBuy(on("2023-01-01"), "AAPL", capgains.Q(100), usd(150)),
		capgains.NewBuy(on("2023-02-01"), "AAPL", capgains.Q(50), usd(155)),
		capgains.NewSell(on("2023-03-01"), "AAPL", capgains.Q(120), usd(160)),
		capgains.NewSell(on("2023-03-02"), "GOOG", capgains.Q(10), usd(100)),
		capgains.NewBuy(on("2023-04-01"), "MSFT", capgains.Q(10), usd(300)),
		capgains.NewSell(on("2023-05-01"), "MSFT", capgains.Q(10), usd(290)),
	}
	p := capgains.NewProcessor(capgains.WithReporter(j))
	_, err := p.ProcessAll(context.Background(), slices.Values(txs))
	require.NoError(t, err)
	require.NoError(t, p.Finish())
	return p
}
