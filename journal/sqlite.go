package journal

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/etnz/capgains"
	_ "github.com/mattn/go-sqlite3"
)

// ErrNoRun is returned when events are recorded before Begin.
var ErrNoRun = errors.New("no run started")

// SQLite records runs in a SQLite database. A single database holds any
// number of runs.
type SQLite struct {
	db    *sql.DB
	runID string
	seq   int
}

// NewSQLite opens the database at path, creating it and its tables if needed.
func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("cannot create journal schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

// Begin starts a new run, subsequent events are recorded under its ID.
func (j *SQLite) Begin(source, currency string) error {
	id := newRunID()
	_, err := j.db.Exec(`
		INSERT INTO runs (run_id, created, source, currency)
		VALUES (?, ?, ?, ?)`,
		id, time.Now().UTC(), source, currency,
	)
	if err != nil {
		return fmt.Errorf("cannot begin run: %w", err)
	}
	j.runID, j.seq = id, 0
	return nil
}

func (j *SQLite) RunID() string { return j.runID }

func (j *SQLite) next() (int, error) {
	if j.runID == "" {
		return 0, ErrNoRun
	}
	j.seq++
	return j.seq, nil
}

func (j *SQLite) Realized(r capgains.Realization) error {
	seq, err := j.next()
	if err != nil {
		return err
	}
	rec := newRealizationRecord(seq, r)
	_, err = j.db.Exec(`
		INSERT INTO realizations
		(run_id, seq, date, symbol, quantity, proceeds, cost_basis, gain, lots)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		j.runID, rec.Seq, rec.Date, rec.Symbol, rec.Quantity.String(),
		rec.Proceeds.Decimal().String(), rec.CostBasis.Decimal().String(), rec.Gain.Decimal().String(), rec.Lots,
	)
	return err
}

func (j *SQLite) Rejected(tx capgains.Transaction, reason error) error {
	seq, err := j.next()
	if err != nil {
		return err
	}
	_, err = j.db.Exec(`
		INSERT INTO rejections
		(run_id, seq, date, symbol, quantity, reason)
		VALUES (?, ?, ?, ?, ?, ?)`,
		j.runID, seq, tx.Date(), tx.Symbol(), tx.Quantity().String(), reason.Error(),
	)
	return err
}

func (j *SQLite) Totals(gains []capgains.SymbolGain) error {
	if j.runID == "" {
		return ErrNoRun
	}
	tx, err := j.db.Begin()
	if err != nil {
		return err
	}
	for i, g := range gains {
		_, err := tx.Exec(`
			INSERT INTO totals (run_id, position, symbol, gain)
			VALUES (?, ?, ?, ?)`,
			j.runID, i, g.Symbol, g.Gain.Decimal().String(),
		)
		if err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
