// Package journal records the outcome of capgains runs, as CSV files or in a
// SQLite database that can be queried afterwards.
package journal

import (
	"time"

	"github.com/etnz/capgains"
	"github.com/etnz/capgains/date"
	"github.com/oklog/ulid/v2"
)

// RealizationRecord is a realized sale as stored in a journal.
type RealizationRecord struct {
	Seq       int // position of the event in its run
	Date      date.Date
	Symbol    string
	Quantity  capgains.Quantity
	Proceeds  capgains.Money
	CostBasis capgains.Money
	Gain      capgains.Money
	Lots      int // number of lots consumed
}

func newRealizationRecord(seq int, r capgains.Realization) RealizationRecord {
	return RealizationRecord{
		Seq:       seq,
		Date:      r.Sell.Date(),
		Symbol:    r.Symbol(),
		Quantity:  r.Quantity(),
		Proceeds:  r.Proceeds,
		CostBasis: r.CostBasis,
		Gain:      r.Gain,
		Lots:      len(r.Fills),
	}
}

// Run describes a run recorded in a journal.
type Run struct {
	ID       string
	Created  time.Time
	Source   string // the transaction file processed
	Currency string
	Realized int
	Rejected int
}

// Journal is a capgains.Reporter writing to durable storage.
type Journal interface {
	capgains.Reporter
	// RunID identifies the run being recorded.
	RunID() string
	Close() error
}

// newRunID returns a new run identifier, sortable by creation time.
func newRunID() string { return ulid.Make().String() }
