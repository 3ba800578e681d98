package store

import (
	"context"
	"fmt"

	"taxcalc/internal/ledger"
	"taxcalc/internal/statefile"
	"taxcalc/internal/storage"
)

// Summary reports the saved state of the opened backend.
func (o *Opened) Summary(ctx context.Context) (storage.Summary, error) {
	s, ok := o.Backend.(Summarizer)
	if !ok {
		return storage.Summary{}, fmt.Errorf("backend %T cannot summarize its state", o.Backend)
	}
	return s.Summary(ctx)
}

// summarize derives the headline figures of a snapshot. version is 0 for
// backends that keep no save counter.
func summarize(s statefile.Snapshot, version int64) storage.Summary {
	l := ledger.FromSlots(s.Slots[:])
	return storage.Summary{
		GrossSalary:  s.Result.GrossYearlySalary,
		NetSalary:    s.Result.NetSalary,
		ExpenseTotal: l.Total(),
		ExpenseCount: l.Count(),
		SavedAt:      s.SavedAt,
		Version:      version,
	}
}
