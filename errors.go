package capgains

import (
	"errors"
	"fmt"
)

// Internal consistency faults. They can only happen if the ledger bookkeeping
// is broken and must never be swallowed.
var (
	// ErrEmptyLedger is returned when a lot is removed or replaced in an empty queue.
	ErrEmptyLedger = errors.New("empty ledger")
	// ErrLedgerExhausted is returned when the lots of a symbol cannot cover a
	// sale that passed its availability check, which only happens with a lot
	// holding no share or less than none.
	ErrLedgerExhausted = errors.New("ledger exhausted")
)

// ErrCurrencyMismatch is returned for a transaction priced in a currency
// other than the one of the run. Nothing is changed when it is returned.
var ErrCurrencyMismatch = errors.New("currency mismatch")

// InsufficientSharesError is returned when a sale requests more shares than
// the ledger holds for that symbol. The ledger is left unchanged.
type InsufficientSharesError struct {
	Symbol    string
	Available Quantity
	Requested Quantity
}

func (e *InsufficientSharesError) Error() string {
	return fmt.Sprintf("insufficient shares of %s: %s available, %s requested", e.Symbol, e.Available, e.Requested)
}

// IsInternalFault reports whether err is a bookkeeping fault rather than a
// problem with the input data.
func IsInternalFault(err error) bool {
	return errors.Is(err, ErrEmptyLedger) || errors.Is(err, ErrLedgerExhausted)
}
