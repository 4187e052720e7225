package capgains

import (
	"bytes"
	"strings"
	"testing"
)

func TestDecodeTransactions(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Transaction
	}{
		{
			name: "with header",
			input: `date,transactionType,symbol,quantity,price
2023-01-01,BUY,AAPL,100,150.00
2023-02-01,BUY,AAPL,50,155.00
2023-03-01,SELL,AAPL,120,160.00
`,
			want: []Transaction{
				buy("2023-01-01", "AAPL", 100, 150),
				buy("2023-02-01", "AAPL", 50, 155),
				sell("2023-03-01", "AAPL", 120, 160),
			},
		},
		{
			name: "without header, lenient cells",
			input: `2023-1-5,buy, MSFT ,10,300
2023-01-06,Sell,MSFT,10,290.5
`,
			want: []Transaction{
				buy("2023-01-05", "MSFT", 10, 300),
				sell("2023-01-06", "MSFT", 10, 290.5),
			},
		},
		{
			name:  "empty",
			input: "\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeTransactions(strings.NewReader(tt.input), "USD")
			if err != nil {
				t.Fatalf("DecodeTransactions() error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("DecodeTransactions() got %d transactions, want %d: %v", len(got), len(tt.want), got)
			}
			for i := range got {
				if !got[i].Equal(tt.want[i]) {
					t.Errorf("transaction %d = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestDecodeTransactions_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string // part of the error message
	}{
		{"bad kind", "date,transactionType,symbol,quantity,price\n2023-01-01,BUY,AAPL,1,1\n2023-01-02,HOLD,AAPL,1,1\n", "row 2"},
		{"bad date", "date,transactionType,symbol,quantity,price\n01/02/2023,BUY,AAPL,1,1\n", "row 1"},
		{"fractional quantity", "date,transactionType,symbol,quantity,price\n2023-01-01,BUY,AAPL,1.5,1\n", "positive whole number"},
		{"negative price", "date,transactionType,symbol,quantity,price\n2023-01-01,BUY,AAPL,1,-1\n", "price must not be negative"},
		{"missing symbol", "date,transactionType,symbol,quantity,price\n2023-01-01,BUY,,1,1\n", "symbol is missing"},
		{"bad number", "date,transactionType,symbol,quantity,price\n2023-01-01,BUY,AAPL,ten,1\n", "invalid quantity"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeTransactions(strings.NewReader(tt.input), "USD")
			if err == nil {
				t.Fatalf("DecodeTransactions() succeeded, want an error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("DecodeTransactions() error = %q, want it to contain %q", err, tt.want)
			}
		})
	}
}

func TestEncodeTransactions(t *testing.T) {
	txs := []Transaction{
		buy("2023-01-01", "AAPL", 100, 150.25),
		sell("2023-03-01", "AAPL", 120, 160),
	}
	var buf bytes.Buffer
	if err := EncodeTransactions(&buf, txs); err != nil {
		t.Fatalf("EncodeTransactions() error = %v", err)
	}
	want := `date,transactionType,symbol,quantity,price
2023-01-01,BUY,AAPL,100,150.25
2023-03-01,SELL,AAPL,120,160
`
	if got := buf.String(); got != want {
		t.Errorf("EncodeTransactions() =\n%s\nwant\n%s", got, want)
	}

	decoded, err := DecodeTransactions(&buf, "USD")
	if err != nil {
		t.Fatalf("DecodeTransactions() error = %v", err)
	}
	for i := range txs {
		if !decoded[i].Equal(txs[i]) {
			t.Errorf("transaction %d = %v, want %v", i, decoded[i], txs[i])
		}
	}
}
