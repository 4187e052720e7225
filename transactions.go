package capgains

import (
	"errors"
	"fmt"
	"strings"

	"github.com/etnz/capgains/date"
)

// Kind identifies the side of a transaction.
type Kind string

// Transaction kinds.
const (
	Buy  Kind = "BUY"
	Sell Kind = "SELL"
)

// ParseKind parses a transaction kind, ignoring case and surrounding spaces.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToUpper(strings.TrimSpace(s))); k {
	case Buy, Sell:
		return k, nil
	default:
		return "", fmt.Errorf("unknown transaction type %q", s)
	}
}

func (k Kind) String() string { return string(k) }

// Transaction is one trade event: a quantity of a symbol bought or sold at a
// price per share on a given date.
//
// A Transaction is immutable, every accessor returns a copy.
type Transaction struct {
	date     date.Date
	kind     Kind
	symbol   string
	quantity Quantity
	price    Money
}

// NewTransaction creates a new Transaction.
func NewTransaction(on date.Date, kind Kind, symbol string, quantity Quantity, price Money) Transaction {
	return Transaction{date: on, kind: kind, symbol: symbol, quantity: quantity, price: price}
}

// NewBuy creates a new BUY Transaction.
func NewBuy(on date.Date, symbol string, quantity Quantity, price Money) Transaction {
	return NewTransaction(on, Buy, symbol, quantity, price)
}

// NewSell creates a new SELL Transaction.
func NewSell(on date.Date, symbol string, quantity Quantity, price Money) Transaction {
	return NewTransaction(on, Sell, symbol, quantity, price)
}

func (t Transaction) Date() date.Date    { return t.date }
func (t Transaction) Kind() Kind         { return t.kind }
func (t Transaction) Symbol() string     { return t.symbol }
func (t Transaction) Quantity() Quantity { return t.quantity }
func (t Transaction) Price() Money       { return t.price }

// Amount is the total value of the transaction (quantity * price).
func (t Transaction) Amount() Money { return t.price.Mul(t.quantity) }

// Equal reports whether both transactions hold the same values.
func (t Transaction) Equal(o Transaction) bool {
	return t.date == o.date && t.kind == o.kind && t.symbol == o.symbol &&
		t.quantity.Equal(o.quantity) && t.price.Equal(o.price)
}

// Validate checks that the transaction is well formed: a known kind, a
// symbol, a positive whole number of shares and a non-negative price.
func (t Transaction) Validate() error {
	var errs error
	if t.kind != Buy && t.kind != Sell {
		errs = errors.Join(errs, fmt.Errorf("unknown transaction type %q", t.kind))
	}
	if t.symbol == "" {
		errs = errors.Join(errs, errors.New("symbol is missing"))
	}
	if !t.quantity.IsPositive() || !t.quantity.IsInteger() {
		errs = errors.Join(errs, fmt.Errorf("quantity must be a positive whole number, got %s", t.quantity))
	}
	if t.price.IsNegative() {
		errs = errors.Join(errs, fmt.Errorf("price must not be negative, got %s", t.price.Decimal()))
	}
	return errs
}

func (t Transaction) String() string {
	return fmt.Sprintf("%s %s %s %s@%s", t.date, t.kind, t.symbol, t.quantity, t.price.Decimal())
}

// MarshalJSON writes the transaction with the same field names as the CSV schema.
func (t Transaction) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("date", t.date)
	w.Append("transactionType", t.kind)
	w.Append("symbol", t.symbol)
	w.Append("quantity", t.quantity)
	w.Append("price", t.price.Decimal())
	w.Optional("currency", t.price.Currency())
	return w.MarshalJSON()
}
