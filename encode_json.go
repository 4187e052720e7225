package capgains

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/PaesslerAG/jsonpath"
)

// DecodeJSONTransactions reads transactions from any JSON document, typically
// a broker export. path is a JSONPath expression selecting the transaction
// objects ("$" if empty, for a document that is itself an array).
//
// Objects use the CSV column names: date, transactionType (or type), symbol,
// quantity and price. Numbers may be JSON numbers or strings. Prices are in
// currency.
func DecodeJSONTransactions(r io.Reader, path, currency string) ([]Transaction, error) {
	if path == "" {
		path = "$"
	}
	dec := json.NewDecoder(r)
	dec.UseNumber() // keep decimals exact
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("cannot decode JSON transactions: %w", err)
	}

	selected, err := jsonpath.Get(path, doc)
	if err != nil {
		return nil, fmt.Errorf("cannot select %q: %w", path, err)
	}
	// a path can select a single object, or a list of them.
	items, ok := selected.([]any)
	if !ok {
		items = []any{selected}
	}

	txs := make([]Transaction, 0, len(items))
	for i, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("item %d: expected an object, got %T", i+1, item)
		}
		row := csvRow{
			Date:     jsonCell(obj, "date"),
			Kind:     jsonCell(obj, "transactionType", "type"),
			Symbol:   jsonCell(obj, "symbol"),
			Quantity: jsonCell(obj, "quantity"),
			Price:    jsonCell(obj, "price"),
		}
		tx, err := row.transaction(currency)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i+1, err)
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

// jsonCell returns the first of keys present in obj as a string.
func jsonCell(obj map[string]any, keys ...string) string {
	for _, key := range keys {
		switch v := obj[key].(type) {
		case nil:
			continue
		case string:
			return v
		case json.Number:
			return v.String()
		default:
			return fmt.Sprint(v)
		}
	}
	return ""
}
