package capgains

import (
	"errors"
	"sync"
)

// Reporter receives the outcome of every sale, and the per-symbol totals at
// the end of a run.
type Reporter interface {
	// Realized is called for each sale matched against the ledger.
	Realized(Realization) error
	// Rejected is called for each sale refused because of insufficient shares.
	Rejected(tx Transaction, err error) error
	// Totals is called once, at the end of the run.
	Totals([]SymbolGain) error
}

// NopReporter discards everything.
type NopReporter struct{}

func (NopReporter) Realized(Realization) error        { return nil }
func (NopReporter) Rejected(Transaction, error) error { return nil }
func (NopReporter) Totals([]SymbolGain) error         { return nil }

// Rejection is a sale refused by the processor.
type Rejection struct {
	Transaction Transaction
	Err         error
}

// Recorder keeps every event in memory.
type Recorder struct {
	Realizations []Realization
	Rejections   []Rejection
	Summary      []SymbolGain
}

func (r *Recorder) Realized(real Realization) error {
	r.Realizations = append(r.Realizations, real)
	return nil
}

func (r *Recorder) Rejected(tx Transaction, err error) error {
	r.Rejections = append(r.Rejections, Rejection{Transaction: tx, Err: err})
	return nil
}

func (r *Recorder) Totals(gains []SymbolGain) error {
	r.Summary = gains
	return nil
}

// MultiReporter returns a Reporter that forwards every event to all reporters.
func MultiReporter(reporters ...Reporter) Reporter {
	return multiReporter(reporters)
}

type multiReporter []Reporter

func (m multiReporter) Realized(r Realization) error {
	var errs error
	for _, rep := range m {
		errs = errors.Join(errs, rep.Realized(r))
	}
	return errs
}

func (m multiReporter) Rejected(tx Transaction, err error) error {
	var errs error
	for _, rep := range m {
		errs = errors.Join(errs, rep.Rejected(tx, err))
	}
	return errs
}

func (m multiReporter) Totals(gains []SymbolGain) error {
	var errs error
	for _, rep := range m {
		errs = errors.Join(errs, rep.Totals(gains))
	}
	return errs
}

// syncReporter serializes calls to a Reporter shared by several goroutines.
type syncReporter struct {
	mu sync.Mutex
	r  Reporter
}

func (s *syncReporter) Realized(r Realization) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.Realized(r)
}

func (s *syncReporter) Rejected(tx Transaction, err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.Rejected(tx, err)
}

func (s *syncReporter) Totals(gains []SymbolGain) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.Totals(gains)
}
