package journal

import (
	"encoding/csv"
	"os"
	"strconv"

	"github.com/etnz/capgains"
)

// CSV event kinds.
const (
	EventRealized = "REALIZED"
	EventRejected = "REJECTED"
	EventTotal    = "TOTAL"
)

// CSVHeader is the first line of a CSV journal.
var CSVHeader = []string{"run_id", "seq", "event", "date", "symbol", "quantity", "proceeds", "cost_basis", "gain", "detail"}

// CSVJournal appends the events of a run to a CSV file, one row per event.
type CSVJournal struct {
	w     *csv.Writer
	f     *os.File
	runID string
	seq   int
}

// NewCSV creates (or truncates) the CSV journal at path.
func NewCSV(path string) (*CSVJournal, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	w := csv.NewWriter(f)
	if err := w.Write(CSVHeader); err != nil {
		f.Close()
		return nil, err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return nil, err
	}
	return &CSVJournal{w: w, f: f, runID: newRunID()}, nil
}

func (j *CSVJournal) RunID() string { return j.runID }

func (j *CSVJournal) write(row ...string) error {
	j.seq++
	if err := j.w.Write(append([]string{j.runID, strconv.Itoa(j.seq)}, row...)); err != nil {
		return err
	}
	j.w.Flush()
	return j.w.Error()
}

func (j *CSVJournal) Realized(r capgains.Realization) error {
	rec := newRealizationRecord(j.seq+1, r)
	return j.write(EventRealized,
		rec.Date.String(),
		rec.Symbol,
		rec.Quantity.String(),
		rec.Proceeds.Decimal().String(),
		rec.CostBasis.Decimal().String(),
		rec.Gain.Decimal().String(),
		strconv.Itoa(rec.Lots),
	)
}

func (j *CSVJournal) Rejected(tx capgains.Transaction, err error) error {
	return j.write(EventRejected,
		tx.Date().String(),
		tx.Symbol(),
		tx.Quantity().String(),
		"", "", "",
		err.Error(),
	)
}

func (j *CSVJournal) Totals(gains []capgains.SymbolGain) error {
	for _, g := range gains {
		if err := j.write(EventTotal, "", g.Symbol, "", "", "", g.Gain.Decimal().String(), g.Gain.Currency()); err != nil {
			return err
		}
	}
	return nil
}

func (j *CSVJournal) Close() error {
	j.w.Flush()
	if err := j.w.Error(); err != nil {
		j.f.Close()
		return err
	}
	return j.f.Close()
}
