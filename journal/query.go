package journal

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/etnz/capgains"
)

// GetRun returns a single run by ID.
func (j *SQLite) GetRun(runID string) (Run, error) {
	row := j.db.QueryRow(runQuery+` WHERE r.run_id = ?`, runID)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("run %q not found", runID)
	}
	return run, err
}

// ListRuns returns every recorded run, oldest first.
func (j *SQLite) ListRuns() ([]Run, error) {
	rows, err := j.db.Query(runQuery + ` ORDER BY r.created ASC, r.run_id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

const runQuery = `
	SELECT r.run_id, r.created, r.source, r.currency,
		(SELECT COUNT(*) FROM realizations WHERE run_id = r.run_id),
		(SELECT COUNT(*) FROM rejections WHERE run_id = r.run_id)
	FROM runs r`

func scanRun(row interface{ Scan(...any) error }) (Run, error) {
	var run Run
	err := row.Scan(&run.ID, &run.Created, &run.Source, &run.Currency, &run.Realized, &run.Rejected)
	return run, err
}

// RunTotals returns the per symbol gains of a run, in the order they were
// reported.
func (j *SQLite) RunTotals(runID string) ([]capgains.SymbolGain, error) {
	run, err := j.GetRun(runID)
	if err != nil {
		return nil, err
	}
	rows, err := j.db.Query(`
		SELECT symbol, gain
		FROM totals
		WHERE run_id = ?
		ORDER BY position ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []capgains.SymbolGain
	for rows.Next() {
		var symbol, gain string
		if err := rows.Scan(&symbol, &gain); err != nil {
			return nil, err
		}
		amount, err := capgains.ParseMoney(gain, run.Currency)
		if err != nil {
			return nil, err
		}
		out = append(out, capgains.SymbolGain{Symbol: symbol, Gain: amount})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Realizations returns the realized sales of a run, in processing order.
func (j *SQLite) Realizations(runID string) ([]RealizationRecord, error) {
	run, err := j.GetRun(runID)
	if err != nil {
		return nil, err
	}
	rows, err := j.db.Query(`
		SELECT seq, date, symbol, quantity, proceeds, cost_basis, gain, lots
		FROM realizations
		WHERE run_id = ?
		ORDER BY seq ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RealizationRecord
	for rows.Next() {
		var rec RealizationRecord
		var quantity, proceeds, cost, gain string
		if err := rows.Scan(&rec.Seq, &rec.Date, &rec.Symbol, &quantity, &proceeds, &cost, &gain, &rec.Lots); err != nil {
			return nil, err
		}
		if rec.Quantity, err = capgains.ParseQuantity(quantity); err != nil {
			return nil, err
		}
		if rec.Proceeds, err = capgains.ParseMoney(proceeds, run.Currency); err != nil {
			return nil, err
		}
		if rec.CostBasis, err = capgains.ParseMoney(cost, run.Currency); err != nil {
			return nil, err
		}
		if rec.Gain, err = capgains.ParseMoney(gain, run.Currency); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
