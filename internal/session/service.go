// Package session holds one person's working state (profile, latest tax
// result and expense ledger) and runs every user-facing operation on it.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"taxcalc/internal/core"
	"taxcalc/internal/ledger"
	"taxcalc/internal/log"
	"taxcalc/internal/report"
	"taxcalc/internal/statefile"
	"taxcalc/internal/store"
	"taxcalc/internal/tax"
)

var (
	ErrNoStore       = errors.New("no state store configured")
	ErrNothingToSave = errors.New("no data to save")
)

// Service orchestrates tax computation, ledger edits, reports and state
// persistence. It is safe for concurrent use.
type Service struct {
	mu       sync.RWMutex
	store    store.Backend
	logger   *log.Logger
	profile  tax.Profile
	result   tax.Result
	computed bool
	ledger   *ledger.Ledger
}

// NewService returns an empty session. backend and logger may be nil.
func NewService(backend store.Backend, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.Discard()
	}
	return &Service{
		store:  backend,
		logger: logger.WithComponent(log.ComponentSession),
		ledger: ledger.New(),
	}
}

func (s *Service) Profile() tax.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile
}

func (s *Service) Result() tax.Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.result
}

// HasSalary reports whether a non-zero salary has been computed or restored.
func (s *Service) HasSalary() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.computed
}

// Ledger returns a copy of the expense ledger.
func (s *Service) Ledger() *ledger.Ledger {
	s.mu.RLock()
	defer s.mu.RUnlock()
	slots := s.ledger.Slots()
	return ledger.FromSlots(slots[:])
}

// hasSalary is the one rule for whether a result counts as a computed
// salary, applied both after a computation and after a restore.
func hasSalary(r tax.Result) bool {
	return r.GrossYearlySalary > 0
}

// Recompute replaces the profile and result. The USC table always starts
// from the standard one; profile modifiers are applied on top.
func (s *Service) Recompute(ctx context.Context, p tax.Profile, now time.Time) (tax.Result, error) {
	r, err := tax.Compute(p, tax.DefaultUSC(), now)
	if err != nil {
		s.logger.WarnContext(ctx, "Tax computation rejected",
			log.NewFields().WithOperation(log.OpCompute).WithError(err).WithErrorType(log.ErrorTypeValidation).ToSlice()...)
		return tax.Result{}, err
	}

	s.mu.Lock()
	s.profile = p
	s.result = r
	s.computed = hasSalary(r)
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "Tax computed",
		log.NewFields().WithOperation(log.OpCompute).WithResult(r.GrossYearlySalary, r.NetSalary).ToSlice()...)
	return r, nil
}

// AddExpense stores an expense in the first blank slot and returns its
// 1-based index.
func (s *Service) AddExpense(ctx context.Context, label string, amount float64, freq core.Frequency) (int, error) {
	s.mu.Lock()
	index, err := s.ledger.Add(label, amount, freq)
	s.mu.Unlock()
	if err != nil {
		s.logger.WarnContext(ctx, "Expense not added",
			log.NewFields().WithOperation(log.OpAdd).WithError(err).ToSlice()...)
		return 0, err
	}

	s.logger.InfoContext(ctx, "Expense added",
		log.NewFields().WithOperation(log.OpAdd).WithSlot(index, label).ToSlice()...)
	return index, nil
}

func (s *Service) EditExpense(ctx context.Context, index int, label string, amount float64, freq core.Frequency) error {
	s.mu.Lock()
	err := s.ledger.Edit(index, label, amount, freq)
	s.mu.Unlock()
	if err != nil {
		s.logger.WarnContext(ctx, "Expense not edited",
			log.NewFields().WithOperation(log.OpEdit).With(log.FieldIndex, index).WithError(err).ToSlice()...)
		return err
	}

	s.logger.InfoContext(ctx, "Expense edited",
		log.NewFields().WithOperation(log.OpEdit).WithSlot(index, label).ToSlice()...)
	return nil
}

// DeleteExpense removes the expense at index and returns it.
func (s *Service) DeleteExpense(ctx context.Context, index int) (ledger.Record, error) {
	s.mu.Lock()
	rec, err := s.ledger.Get(index)
	if err == nil {
		err = s.ledger.Delete(index)
	}
	s.mu.Unlock()
	if err != nil {
		s.logger.WarnContext(ctx, "Expense not deleted",
			log.NewFields().WithOperation(log.OpDelete).With(log.FieldIndex, index).WithError(err).ToSlice()...)
		return ledger.Record{}, err
	}

	s.logger.InfoContext(ctx, "Expense deleted",
		log.NewFields().WithOperation(log.OpDelete).WithSlot(index, rec.Label).ToSlice()...)
	return rec, nil
}

// WipeExpenses clears the ledger and returns how many expenses it held.
func (s *Service) WipeExpenses(ctx context.Context) int {
	s.mu.Lock()
	n := s.ledger.Count()
	s.ledger.Wipe()
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "Expenses wiped", log.FieldOperation, log.OpWipe, log.FieldCount, n)
	return n
}

// ImportExpenses loads "label,yearlyValue" lines into the ledger.
func (s *Service) ImportExpenses(ctx context.Context, lines []string, mode ledger.ImportMode) (int, error) {
	s.mu.Lock()
	n, err := s.ledger.Import(lines, mode)
	s.mu.Unlock()
	if err != nil {
		s.logger.WarnContext(ctx, "Expense import failed",
			log.NewFields().WithOperation(log.OpImport).With(log.FieldMode, string(mode)).WithError(err).ToSlice()...)
		return 0, err
	}

	s.logger.InfoContext(ctx, "Expenses imported",
		log.FieldOperation, log.OpImport, log.FieldMode, string(mode), log.FieldCount, n)
	return n, nil
}

// Readiness reports what is still missing before a report can be made.
func (s *Service) Readiness() report.Readiness {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return report.CheckReadiness(s.computed, s.ledger.Count())
}

// Report composes a report of the current state, or fails with
// report.ErrNotReady.
func (s *Service) Report(ctx context.Context, now time.Time) (report.View, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := report.CheckReadiness(s.computed, s.ledger.Count()).Err(); err != nil {
		return report.View{}, err
	}

	v := report.Compose(s.result, s.ledger, s.profile.GrossYearlySalary, now)
	s.logger.DebugContext(ctx, "Report composed",
		log.FieldOperation, log.OpCompose, log.FieldReportID, v.ID)
	return v, nil
}

// Snapshot returns the full state, stamped with savedAt.
func (s *Service) Snapshot(savedAt time.Time) statefile.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return statefile.Snapshot{
		Profile: s.profile,
		Result:  s.result,
		Slots:   s.ledger.Slots(),
		SavedAt: savedAt,
	}
}

// Restore replaces the whole state with snap. The stored result is taken as
// is, not recomputed.
func (s *Service) Restore(snap statefile.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profile = snap.Profile
	s.result = snap.Result
	s.computed = hasSalary(snap.Result)
	s.ledger = ledger.FromSlots(snap.Slots[:])
}

// SaveState writes the current state to the store. An empty state is not
// written.
func (s *Service) SaveState(ctx context.Context, now time.Time) error {
	if s.store == nil {
		return ErrNoStore
	}
	snap := s.Snapshot(now)
	if snap.Empty() {
		return ErrNothingToSave
	}
	return s.save(ctx, snap)
}

// SyncState writes the current state even when it is empty, so a wiped
// ledger replaces what was stored before.
func (s *Service) SyncState(ctx context.Context, now time.Time) error {
	if s.store == nil {
		return ErrNoStore
	}
	return s.save(ctx, s.Snapshot(now))
}

func (s *Service) save(ctx context.Context, snap statefile.Snapshot) error {
	start := time.Now()
	if err := s.store.Save(ctx, snap); err != nil {
		s.logger.ErrorContext(ctx, "Failed to save state",
			log.NewFields().WithOperation(log.OpSave).WithError(err).ToSlice()...)
		return fmt.Errorf("save state: %w", err)
	}

	s.logger.InfoContext(ctx, "State saved",
		log.FieldOperation, log.OpSave, log.FieldDuration, time.Since(start).Milliseconds())
	return nil
}

// LoadState replaces the current state with the stored one. On any error
// the current state is left untouched.
func (s *Service) LoadState(ctx context.Context) error {
	if s.store == nil {
		return ErrNoStore
	}
	snap, err := s.store.Load(ctx)
	if err != nil {
		errorType := log.ErrorTypeDatabase
		switch {
		case errors.Is(err, core.ErrFileNotFound):
			errorType = log.ErrorTypeNotFound
		case errors.Is(err, core.ErrConfigParse):
			errorType = log.ErrorTypeParse
		}
		s.logger.WarnContext(ctx, "State not loaded",
			log.NewFields().WithOperation(log.OpLoad).WithError(err).WithErrorType(errorType).ToSlice()...)
		return fmt.Errorf("load state: %w", err)
	}

	s.Restore(snap)
	s.logger.InfoContext(ctx, "State loaded",
		log.NewFields().WithOperation(log.OpLoad).WithResult(snap.Result.GrossYearlySalary, snap.Result.NetSalary).ToSlice()...)
	return nil
}
