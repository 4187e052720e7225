package capgains

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/etnz/capgains/date"
	"github.com/gocarina/gocsv"
)

// csvHeader is the header of a transaction CSV file.
const csvHeader = "date,transactionType,symbol,quantity,price"

// csvRow is a CSV line as read from a file. Cells are kept as strings so that
// errors can name the faulty row.
type csvRow struct {
	Date     string `csv:"date"`
	Kind     string `csv:"transactionType"`
	Symbol   string `csv:"symbol"`
	Quantity string `csv:"quantity"`
	Price    string `csv:"price"`
}

// csvRecord is a CSV line as written to a file.
type csvRecord struct {
	Date     date.Date `csv:"date"`
	Kind     string    `csv:"transactionType"`
	Symbol   string    `csv:"symbol"`
	Quantity string    `csv:"quantity"`
	Price    string    `csv:"price"`
}

// DecodeTransactions reads transactions from CSV data with the columns
// date,transactionType,symbol,quantity,price. The header line is optional.
// Prices are in currency.
//
// Every row is validated, the first invalid one fails the whole decoding.
// Transactions are returned in file order.
func DecodeTransactions(r io.Reader, currency string) ([]Transaction, error) {
	br := bufio.NewReader(r)
	first, err := br.Peek(64)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return nil, fmt.Errorf("cannot read transactions: %w", err)
	}
	if len(strings.TrimSpace(string(first))) == 0 {
		return nil, nil
	}
	var in io.Reader = br
	if !strings.Contains(strings.ToLower(firstLine(first)), "date") {
		in = io.MultiReader(strings.NewReader(csvHeader+"\n"), br)
	}

	var rows []csvRow
	if err := gocsv.Unmarshal(in, &rows); err != nil {
		return nil, fmt.Errorf("cannot decode transactions: %w", err)
	}

	txs := make([]Transaction, 0, len(rows))
	for i, row := range rows {
		tx, err := row.transaction(currency)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

func firstLine(b []byte) string {
	line, _, _ := strings.Cut(string(b), "\n")
	return line
}

func (row csvRow) transaction(currency string) (Transaction, error) {
	on, err := date.Parse(row.Date)
	if err != nil {
		return Transaction{}, err
	}
	kind, err := ParseKind(row.Kind)
	if err != nil {
		return Transaction{}, err
	}
	quantity, err := ParseQuantity(strings.TrimSpace(row.Quantity))
	if err != nil {
		return Transaction{}, err
	}
	price, err := ParseMoney(strings.TrimSpace(row.Price), currency)
	if err != nil {
		return Transaction{}, err
	}
	tx := NewTransaction(on, kind, strings.TrimSpace(row.Symbol), quantity, price)
	return tx, tx.Validate()
}

// EncodeTransactions writes transactions as CSV, header included, in the
// format read by DecodeTransactions.
func EncodeTransactions(w io.Writer, txs []Transaction) error {
	records := make([]csvRecord, 0, len(txs))
	for _, tx := range txs {
		records = append(records, csvRecord{
			Date:     tx.date,
			Kind:     tx.kind.String(),
			Symbol:   tx.symbol,
			Quantity: tx.quantity.String(),
			Price:    tx.price.Decimal().String(),
		})
	}
	if len(records) == 0 {
		_, err := io.WriteString(w, csvHeader+"\n")
		return err
	}
	return gocsv.Marshal(records, w)
}
