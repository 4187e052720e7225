package capgains

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// SymbolGain holds the realized gain accumulated for a single symbol.
type SymbolGain struct {
	Symbol string
	Gain   Money
}

// MarshalJSON implements the json.Marshaler interface.
func (g SymbolGain) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("symbol", g.Symbol)
	w.Append("gain", g.Gain.Decimal())
	w.Optional("currency", g.Gain.Currency())
	return w.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (g *SymbolGain) UnmarshalJSON(data []byte) error {
	var temp struct {
		Symbol   string          `json:"symbol"`
		Gain     decimal.Decimal `json:"gain"`
		Currency string          `json:"currency"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	*g = SymbolGain{Symbol: temp.Symbol, Gain: M(temp.Gain, temp.Currency)}
	return nil
}

// Gains accumulates realized gains per symbol. Symbols are kept in the order
// of their first recorded gain. All the amounts must share one currency, as
// they do when recorded by a Processor.
type Gains struct {
	totals  map[string]Money
	symbols []string
}

// NewGains creates an empty aggregator.
func NewGains() *Gains {
	return &Gains{totals: make(map[string]Money)}
}

// Record adds amount to the running total of symbol.
func (g *Gains) Record(symbol string, amount Money) {
	total, exists := g.totals[symbol]
	if !exists {
		g.symbols = append(g.symbols, symbol)
		total = M(0, amount.Currency())
	}
	g.totals[symbol] = total.Add(amount)
}

// Get returns the running total of symbol.
func (g *Gains) Get(symbol string) (Money, bool) {
	total, ok := g.totals[symbol]
	return total, ok
}

// Total returns the sum of all the running totals.
func (g *Gains) Total() Money {
	var total Money
	for _, s := range g.symbols {
		total = total.Add(g.totals[s])
	}
	return total
}

// Snapshot returns a copy of the running totals.
func (g *Gains) Snapshot() []SymbolGain {
	snapshot := make([]SymbolGain, 0, len(g.symbols))
	for _, s := range g.symbols {
		snapshot = append(snapshot, SymbolGain{Symbol: s, Gain: g.totals[s]})
	}
	return snapshot
}
