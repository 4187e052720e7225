package capgains

import (
	"math/rand/v2"
	"slices"

	"github.com/etnz/capgains/date"
	"github.com/shopspring/decimal"
)

// Generator produces random transactions, for demos and load tests.
type Generator struct {
	Symbols  []string
	Start    date.Date
	Years    int
	MaxQty   int // quantities are in [1, MaxQty]
	MinPrice int // prices are in [MinPrice, MaxPrice] with cents
	MaxPrice int
	Currency string
}

// DefaultGenerator returns the generator used by the generate command.
func DefaultGenerator() Generator {
	return Generator{
		Symbols:  []string{"AAPL", "GOOG", "MSFT", "AMZN"},
		Start:    date.New(2020, 1, 1),
		Years:    5,
		MaxQty:   200,
		MinPrice: 10,
		MaxPrice: 500,
		Currency: DefaultCurrency,
	}
}

// Generate returns n random transactions in chronological order.
//
// Sales are drawn independently of purchases, so some of them will be
// rejected for insufficient shares.
func (g Generator) Generate(rng *rand.Rand, n int) []Transaction {
	days := g.Start.DaysUntil(g.Start.AddYears(g.Years))
	minCents, maxCents := g.MinPrice*100, g.MaxPrice*100

	txs := make([]Transaction, 0, n)
	for range n {
		kind := Buy
		if rng.IntN(2) == 1 {
			kind = Sell
		}
		cents := minCents + rng.IntN(maxCents-minCents+1)
		txs = append(txs, NewTransaction(
			g.Start.Add(rng.IntN(days)),
			kind,
			g.Symbols[rng.IntN(len(g.Symbols))],
			Q(1+rng.IntN(g.MaxQty)),
			M(decimal.New(int64(cents), -2), g.Currency),
		))
	}
	return Chronological(txs)
}

// Chronological sorts txs by date, keeping the order of same day
// transactions, and returns it.
func Chronological(txs []Transaction) []Transaction {
	slices.SortStableFunc(txs, func(a, b Transaction) int {
		switch {
		case a.date.Before(b.date):
			return -1
		case a.date.After(b.date):
			return 1
		default:
			return 0
		}
	})
	return txs
}
