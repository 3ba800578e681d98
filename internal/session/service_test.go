package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taxcalc/internal/core"
	"taxcalc/internal/ledger"
	"taxcalc/internal/report"
	"taxcalc/internal/statefile"
	"taxcalc/internal/store"
	"taxcalc/internal/tax"
)

const moneyDelta = 0.005

var now = time.Date(2026, time.September, 1, 9, 0, 0, 0, time.UTC)

type failingStore struct{ err error }

func (f failingStore) Load(context.Context) (statefile.Snapshot, error) {
	return statefile.Snapshot{}, f.err
}

func (f failingStore) Save(context.Context, statefile.Snapshot) error { return f.err }

func single(salary float64) tax.Profile {
	return tax.Profile{GrossYearlySalary: salary, Age: 30}
}

func TestRecompute(t *testing.T) {
	ctx := context.Background()
	s := NewService(nil, nil)
	assert.False(t, s.HasSalary())

	r, err := s.Recompute(ctx, single(50000), now)
	require.NoError(t, err)
	assert.InDelta(t, 35667.18, r.NetSalary, moneyDelta)
	assert.True(t, s.HasSalary())
	assert.Equal(t, single(50000), s.Profile())
	assert.Equal(t, r, s.Result())

	_, err = s.Recompute(ctx, tax.Profile{GrossYearlySalary: 1, Age: 200}, now)
	assert.ErrorIs(t, err, core.ErrInvalidArgument)
	assert.Equal(t, r, s.Result(), "failed recompute keeps the previous result")
}

func TestRecompute_StartsFromStandardUSC(t *testing.T) {
	ctx := context.Background()
	s := NewService(nil, nil)

	_, err := s.Recompute(ctx, tax.Profile{GrossYearlySalary: 40000, Age: 75}, now)
	require.NoError(t, err)
	assert.Equal(t, tax.ReducedUSCRate, s.Result().USC.Rates[2])

	r, err := s.Recompute(ctx, single(40000), now)
	require.NoError(t, err)
	assert.Equal(t, tax.DefaultUSC(), r.USC)
}

func TestExpenses(t *testing.T) {
	ctx := context.Background()
	s := NewService(nil, nil)

	i, err := s.AddExpense(ctx, "Rent", 1000, core.Monthly)
	require.NoError(t, err)
	assert.Equal(t, 1, i)
	i, err = s.AddExpense(ctx, "Gym", 10, core.Weekly)
	require.NoError(t, err)
	assert.Equal(t, 2, i)

	require.NoError(t, s.EditExpense(ctx, 2, "Gym", 20, core.Weekly))
	assert.InDelta(t, 12000+1040, s.Ledger().Total(), moneyDelta)

	rec, err := s.DeleteExpense(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Rent", rec.Label)
	assert.Equal(t, 1, s.Ledger().Count())

	_, err = s.DeleteExpense(ctx, 5)
	assert.ErrorIs(t, err, core.ErrIndexOutOfRange)
	assert.ErrorIs(t, s.EditExpense(ctx, 0, "x", 1, core.Yearly), core.ErrIndexOutOfRange)

	assert.Equal(t, 1, s.WipeExpenses(ctx))
	assert.Equal(t, 0, s.Ledger().Count())
}

func TestLedgerIsACopy(t *testing.T) {
	ctx := context.Background()
	s := NewService(nil, nil)
	_, err := s.AddExpense(ctx, "Rent", 100, core.Yearly)
	require.NoError(t, err)

	l := s.Ledger()
	l.Wipe()
	assert.Equal(t, 1, s.Ledger().Count())
}

func TestImportExpenses(t *testing.T) {
	ctx := context.Background()
	s := NewService(nil, nil)

	n, err := s.ImportExpenses(ctx, []string{"Rent,12000", "Rent", "Food,3000"}, ledger.Overwrite)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = s.ImportExpenses(ctx, []string{"Bins,200"}, ledger.Append)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 3, s.Ledger().Count())

	_, err = s.ImportExpenses(ctx, nil, ledger.ImportMode("merge"))
	assert.ErrorIs(t, err, core.ErrInvalidArgument)
}

func TestReport(t *testing.T) {
	ctx := context.Background()
	s := NewService(nil, nil)

	_, err := s.Report(ctx, now)
	assert.ErrorIs(t, err, report.ErrNotReady)
	assert.False(t, s.Readiness().Ready())

	_, err = s.Recompute(ctx, single(50000), now)
	require.NoError(t, err)
	_, err = s.Report(ctx, now)
	assert.ErrorIs(t, err, report.ErrNotReady)

	_, err = s.AddExpense(ctx, "Rent", 1200, core.Monthly)
	require.NoError(t, err)
	assert.True(t, s.Readiness().Ready())

	v, err := s.Report(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, now, v.GeneratedAt)
	assert.InDelta(t, 35667.18-14400, v.OverallBalance, moneyDelta)
}

func TestSaveLoadState(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryStore()
	s := NewService(mem, nil)

	assert.ErrorIs(t, s.SaveState(ctx, now), ErrNothingToSave)
	assert.ErrorIs(t, s.LoadState(ctx), core.ErrFileNotFound)

	_, err := s.Recompute(ctx, tax.Profile{GrossYearlySalary: 65000, IsMarried: true, PartnerYearlyIncome: 50000, Age: 44}, now)
	require.NoError(t, err)
	_, err = s.AddExpense(ctx, "Mortgage", 1600, core.Monthly)
	require.NoError(t, err)
	require.NoError(t, s.SaveState(ctx, now))
	sum, err := mem.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), sum.Version)

	restored := NewService(mem, nil)
	require.NoError(t, restored.LoadState(ctx))
	assert.Equal(t, s.Profile(), restored.Profile())
	assert.True(t, restored.HasSalary())
	assert.Equal(t, s.Ledger().Slots(), restored.Ledger().Slots())
	assert.Equal(t, s.Result().NetSalary, restored.Result().NetSalary)
	assert.Equal(t, s.Result().TotalTax, restored.Result().TotalTax)
	assert.Equal(t, s.Result().USC, restored.Result().USC)
}

func TestLoadState_FailureLeavesStateAlone(t *testing.T) {
	ctx := context.Background()
	s := NewService(failingStore{err: core.ErrConfigParse}, nil)
	_, err := s.Recompute(ctx, single(30000), now)
	require.NoError(t, err)

	err = s.LoadState(ctx)
	assert.ErrorIs(t, err, core.ErrConfigParse)
	assert.Equal(t, 30000.0, s.Profile().GrossYearlySalary)
}

func TestSaveState_Errors(t *testing.T) {
	ctx := context.Background()

	s := NewService(nil, nil)
	assert.ErrorIs(t, s.SaveState(ctx, now), ErrNoStore)
	assert.ErrorIs(t, s.LoadState(ctx), ErrNoStore)

	boom := errors.New("disk full")
	s = NewService(failingStore{err: boom}, nil)
	_, err := s.Recompute(ctx, single(30000), now)
	require.NoError(t, err)
	assert.ErrorIs(t, s.SaveState(ctx, now), boom)
}

func TestRestore(t *testing.T) {
	var snap statefile.Snapshot
	snap.Slots[2] = ledger.Record{Label: "late", YearlyValue: 5}

	s := NewService(nil, nil)
	s.Restore(snap)
	assert.False(t, s.HasSalary())
	r, err := s.Ledger().Get(1)
	require.NoError(t, err)
	assert.Equal(t, "late", r.Label)
}

func TestSyncState_WritesEmptyState(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryStore()
	s := NewService(mem, nil)

	_, err := s.AddExpense(ctx, "Rent", 100, core.Yearly)
	require.NoError(t, err)
	require.NoError(t, s.SyncState(ctx, now))

	s.WipeExpenses(ctx)
	assert.ErrorIs(t, s.SaveState(ctx, now), ErrNothingToSave)
	require.NoError(t, s.SyncState(ctx, now))

	restored := NewService(mem, nil)
	require.NoError(t, restored.LoadState(ctx))
	assert.Equal(t, 0, restored.Ledger().Count())
	sum, err := mem.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), sum.Version)
}

func TestHasSalary_SameRuleAfterReload(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryStore()
	s := NewService(mem, nil)

	_, err := s.Recompute(ctx, single(0), now)
	require.NoError(t, err)
	assert.False(t, s.HasSalary(), "a zero salary is not a computed salary")
	_, err = s.AddExpense(ctx, "Rent", 100, core.Yearly)
	require.NoError(t, err)
	require.NoError(t, s.SyncState(ctx, now))

	restored := NewService(mem, nil)
	require.NoError(t, restored.LoadState(ctx))
	assert.Equal(t, s.HasSalary(), restored.HasSalary())
	assert.Equal(t, s.Readiness(), restored.Readiness())
}
