package capgains

import (
	"github.com/etnz/capgains/date"
)

// USD is a helper for test to create usd money from const
func USD(v float64) Money { return M(v, "USD") }

// buy is a helper for test to create a BUY priced in USD.
func buy(on, symbol string, quantity int, price float64) Transaction {
	return NewBuy(date.MustParse(on), symbol, Q(quantity), USD(price))
}

// sell is a helper for test to create a SELL priced in USD.
func sell(on, symbol string, quantity int, price float64) Transaction {
	return NewSell(date.MustParse(on), symbol, Q(quantity), USD(price))
}

// lot is a helper for test to create a lot priced in USD.
func lot(on string, quantity int, price float64) Lot {
	return Lot{date: date.MustParse(on), quantity: Q(quantity), price: USD(price)}
}

// priced is a helper for test to create a transaction priced in currency.
func priced(kind Kind, on, symbol string, quantity int, price float64, currency string) Transaction {
	return NewTransaction(date.MustParse(on), kind, symbol, Q(quantity), M(price, currency))
}
