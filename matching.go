package capgains

import (
	"fmt"
)

// Fill is the part of an open lot consumed by a sale.
type Fill struct {
	Lot      Lot      // Lot is the lot as it was before the sale.
	Quantity Quantity // Quantity is the number of shares taken from the lot.
	Cost     Money    // Cost is Quantity times the lot price.
}

// Realization is the outcome of matching a sale against the open lots.
type Realization struct {
	Sell      Transaction
	Fills     []Fill // oldest lot first
	Proceeds  Money  // Sell quantity times sell price.
	CostBasis Money  // Sum of the fill costs.
	Gain      Money  // Proceeds minus CostBasis, negative for a loss.
}

// Symbol returns the symbol sold.
func (r Realization) Symbol() string { return r.Sell.symbol }

// Quantity returns the number of shares sold.
func (r Realization) Quantity() Quantity { return r.Sell.quantity }

// Return returns the gain as a percentage of the cost basis.
func (r Realization) Return() Percent { return ReturnOn(r.Gain, r.CostBasis) }

// Match realizes a SELL transaction against the ledger using FIFO: the
// oldest lots of the symbol are consumed first and the last one consumed is
// split if the sale does not need all of it.
//
// If the ledger does not hold enough shares, Match returns an
// *InsufficientSharesError and the ledger is not modified. The same goes for
// lots priced in another currency than the sale, reported with
// ErrCurrencyMismatch. Errors wrapping ErrLedgerExhausted or ErrEmptyLedger
// denote a corrupted ledger.
//
// Match only mutates the ledger, recording the gain is up to the caller.
func Match(ledger *Ledger, sell Transaction) (Realization, error) {
	if sell.kind != Sell {
		return Realization{}, fmt.Errorf("cannot match a %s transaction", sell.kind)
	}
	symbol, requested := sell.symbol, sell.quantity

	if available := ledger.TotalAvailable(symbol); available.LessThan(requested) {
		return Realization{}, &InsufficientSharesError{Symbol: symbol, Available: available, Requested: requested}
	}

	if err := checkLots(ledger.queues[symbol], sell); err != nil {
		return Realization{}, err
	}

	r := Realization{
		Sell:      sell,
		CostBasis: M(0, sell.price.Currency()),
	}
	remaining := requested
	for remaining.IsPositive() {
		front, ok := ledger.PeekOldest(symbol)
		if !ok {
			return Realization{}, fmt.Errorf("selling %s of %s, %s still unmatched: %w", requested, symbol, remaining, ErrLedgerExhausted)
		}

		if front.quantity.LessThanOrEqual(remaining) {
			// Full consumption. An exact match is never split.
			fill := Fill{Lot: front, Quantity: front.quantity, Cost: front.Cost()}
			if _, err := ledger.RemoveOldest(symbol); err != nil {
				return Realization{}, err
			}
			r.Fills = append(r.Fills, fill)
			r.CostBasis = r.CostBasis.Add(fill.Cost)
			remaining = remaining.Sub(front.quantity)
			continue
		}

		// Partial consumption: the remainder keeps its place at the front.
		fill := Fill{Lot: front, Quantity: remaining, Cost: front.price.Mul(remaining)}
		if err := ledger.ReplaceFront(symbol, front.reduce(remaining)); err != nil {
			return Realization{}, err
		}
		r.Fills = append(r.Fills, fill)
		r.CostBasis = r.CostBasis.Add(fill.Cost)
		remaining = Q(0)
	}

	r.Proceeds = sell.Amount()
	r.Gain = r.Proceeds.Sub(r.CostBasis)
	return r, nil
}

// checkLots walks the lots a sale is going to consume, oldest first, and
// fails if any of them cannot be consumed.
func checkLots(lots []Lot, sell Transaction) error {
	currency := sell.price.Currency()
	remaining := sell.quantity
	for _, lot := range lots {
		if !remaining.IsPositive() {
			return nil
		}
		if !lot.quantity.IsPositive() {
			return fmt.Errorf("selling %s of %s, found a lot of %s: %w", sell.quantity, sell.symbol, lot.quantity, ErrLedgerExhausted)
		}
		switch c := lot.price.Currency(); {
		case c == "":
		case currency == "":
			currency = c
		case c != currency:
			return fmt.Errorf("%s: lot of %s priced in %s, expected %s: %w", sell, lot.date, c, currency, ErrCurrencyMismatch)
		}
		remaining = remaining.Sub(lot.quantity)
	}
	if remaining.IsPositive() {
		return fmt.Errorf("selling %s of %s, %s still unmatched: %w", sell.quantity, sell.symbol, remaining, ErrLedgerExhausted)
	}
	return nil
}
