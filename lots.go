package capgains

import (
	"fmt"
	"iter"
	"slices"

	"github.com/etnz/capgains/date"
)

// Lot represents shares acquired by a single purchase that are still held.
type Lot struct {
	date     date.Date
	quantity Quantity
	price    Money
}

// NewLot returns the lot opened by a BUY transaction.
func NewLot(tx Transaction) Lot {
	return Lot{date: tx.date, quantity: tx.quantity, price: tx.price}
}

func (l Lot) Date() date.Date    { return l.date }
func (l Lot) Quantity() Quantity { return l.quantity }
func (l Lot) Price() Money       { return l.price }

// Cost is the total acquisition cost of the lot.
func (l Lot) Cost() Money { return l.price.Mul(l.quantity) }

// Equal reports whether both lots hold the same values.
func (l Lot) Equal(o Lot) bool {
	return l.date == o.date && l.quantity.Equal(o.quantity) && l.price.Equal(o.price)
}

func (l Lot) String() string {
	return fmt.Sprintf("%s %s@%s", l.date, l.quantity, l.price.Decimal())
}

// reduce returns a new lot with n fewer shares, same date and price.
func (l Lot) reduce(n Quantity) Lot {
	return Lot{date: l.date, quantity: l.quantity.Sub(n), price: l.price}
}

// Ledger holds the open lots of every symbol in FIFO order: the oldest lot
// of a symbol is at the front of its queue.
//
// The sum of the lot quantities of a symbol is always the number of shares
// bought minus the number of shares sold, and no lot is ever empty.
type Ledger struct {
	queues  map[string][]Lot
	symbols []string // in first insertion order
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{queues: make(map[string][]Lot)}
}

// AddLot appends a lot at the back of the symbol queue.
func (l *Ledger) AddLot(symbol string, lot Lot) {
	q, exists := l.queues[symbol]
	if !exists {
		l.symbols = append(l.symbols, symbol)
	}
	l.queues[symbol] = append(q, lot)
}

// PeekOldest returns the front lot of the symbol queue, or false if there is none.
func (l *Ledger) PeekOldest(symbol string) (Lot, bool) {
	q := l.queues[symbol]
	if len(q) == 0 {
		return Lot{}, false
	}
	return q[0], true
}

// RemoveOldest removes and returns the front lot of the symbol queue.
func (l *Ledger) RemoveOldest(symbol string) (Lot, error) {
	q := l.queues[symbol]
	if len(q) == 0 {
		return Lot{}, fmt.Errorf("cannot remove a lot of %s: %w", symbol, ErrEmptyLedger)
	}
	front := q[0]
	q[0] = Lot{} // release the slot
	l.queues[symbol] = q[1:]
	return front, nil
}

// ReplaceFront replaces the front lot of the symbol queue with lot. The new
// lot keeps the priority of the one it replaces over any later lot.
func (l *Ledger) ReplaceFront(symbol string, lot Lot) error {
	q := l.queues[symbol]
	if len(q) == 0 {
		return fmt.Errorf("cannot replace the oldest lot of %s: %w", symbol, ErrEmptyLedger)
	}
	q[0] = lot
	return nil
}

// TotalAvailable returns the number of shares held for symbol.
func (l *Ledger) TotalAvailable(symbol string) Quantity {
	var total Quantity
	for _, lot := range l.queues[symbol] {
		total = total.Add(lot.quantity)
	}
	return total
}

// Lots returns a copy of the open lots of symbol, oldest first.
func (l *Ledger) Lots(symbol string) []Lot {
	return slices.Clone(l.queues[symbol])
}

// Symbols returns the symbols that have open lots, in the order they were
// first added to the ledger.
func (l *Ledger) Symbols() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, s := range l.symbols {
			if len(l.queues[s]) == 0 {
				continue
			}
			if !yield(s) {
				return
			}
		}
	}
}

// Clone returns a deep copy of the ledger.
func (l *Ledger) Clone() *Ledger {
	c := &Ledger{
		queues:  make(map[string][]Lot, len(l.queues)),
		symbols: slices.Clone(l.symbols),
	}
	for s, q := range l.queues {
		c.queues[s] = slices.Clone(q)
	}
	return c
}

// Equal reports whether both ledgers hold the same open lots in the same order.
func (l *Ledger) Equal(o *Ledger) bool {
	a, b := slices.Collect(l.Symbols()), slices.Collect(o.Symbols())
	if !slices.Equal(a, b) {
		return false
	}
	for _, s := range a {
		if !slices.EqualFunc(l.queues[s], o.queues[s], Lot.Equal) {
			return false
		}
	}
	return true
}

// restore sets the open lots of symbol, registering it if needed.
func (l *Ledger) restore(symbol string, lots []Lot) {
	if _, exists := l.queues[symbol]; !exists {
		l.symbols = append(l.symbols, symbol)
	}
	l.queues[symbol] = lots
}
