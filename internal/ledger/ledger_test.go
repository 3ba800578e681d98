package ledger

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taxcalc/internal/core"
)

func fill(t *testing.T, l *Ledger, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		_, err := l.Add(fmt.Sprintf("item %d", i+1), float64(100*(i+1)), core.Yearly)
		require.NoError(t, err)
	}
}

func assertNoGaps(t *testing.T, l *Ledger) {
	t.Helper()
	seenBlank := false
	for i, r := range l.Slots() {
		if r.IsBlank() {
			seenBlank = true
			continue
		}
		assert.False(t, seenBlank, "slot %d is occupied after a blank slot", i+1)
	}
}

func TestRecordIsBlank(t *testing.T) {
	assert.True(t, Record{}.IsBlank())
	assert.True(t, Record{Label: "   "}.IsBlank())
	assert.False(t, Record{Label: "Rent"}.IsBlank())
	assert.False(t, Record{YearlyValue: 1}.IsBlank())
	assert.False(t, Record{Label: " ", YearlyValue: 0.01}.IsBlank())
}

func TestAdd(t *testing.T) {
	l := New()
	slot, err := l.Add("Rent", 1500, core.Monthly)
	require.NoError(t, err)
	assert.Equal(t, 1, slot)

	slot, err = l.Add("Gym", 10, core.Weekly)
	require.NoError(t, err)
	assert.Equal(t, 2, slot)

	slot, err = l.Add("", 260, core.BiWeekly)
	require.NoError(t, err)
	assert.Equal(t, 3, slot)

	assert.Equal(t, 3, l.Count())
	assert.Equal(t, []Record{
		{Label: "Rent", YearlyValue: 18000},
		{Label: "Gym", YearlyValue: 520},
		{Label: "", YearlyValue: 6760},
	}, l.Entries())
	assert.Equal(t, 18000.0+520+6760, l.Total())
}

func TestAdd_Rejects(t *testing.T) {
	l := New()
	_, err := l.Add("Rent", -1, core.Yearly)
	assert.ErrorIs(t, err, core.ErrInvalidArgument)

	_, err = l.Add("  ", 0, core.Yearly)
	assert.ErrorIs(t, err, core.ErrInvalidArgument)

	_, err = l.Add("Rent", 10, core.Frequency("daily"))
	assert.ErrorIs(t, err, core.ErrInvalidArgument)

	// Finite inputs that overflow or pass the cap once made yearly.
	_, err = l.Add("Huge", 1e308, core.Weekly)
	assert.ErrorIs(t, err, core.ErrInvalidArgument)
	_, err = l.Add("Big", core.MaxAmount/10, core.Monthly)
	assert.ErrorIs(t, err, core.ErrInvalidArgument)
	_, err = l.Add("Big", 1e308, core.Yearly)
	assert.ErrorIs(t, err, core.ErrInvalidArgument)

	assert.Equal(t, 0, l.Count())
}

func TestTotal_FullLedgerAtCapStaysFinite(t *testing.T) {
	l := New()
	for i := 0; i < Capacity; i++ {
		_, err := l.Add("Max", core.MaxAmount, core.Yearly)
		require.NoError(t, err)
	}
	assert.Equal(t, Capacity*core.MaxAmount, l.Total())

	err := l.Edit(1, "Max", 1e308, core.Weekly)
	assert.ErrorIs(t, err, core.ErrInvalidArgument)
	rec, err := l.Get(1)
	require.NoError(t, err)
	assert.Equal(t, core.MaxAmount, rec.YearlyValue)
}

func TestAdd_FullLedger(t *testing.T) {
	l := New()
	fill(t, l, Capacity)
	before := l.Slots()

	_, err := l.Add("one too many", 1, core.Yearly)
	assert.ErrorIs(t, err, core.ErrLedgerFull)
	assert.Equal(t, before, l.Slots())
	assert.Equal(t, Capacity, l.Count())
}

func TestEdit(t *testing.T) {
	l := New()
	fill(t, l, 3)

	require.NoError(t, l.Edit(2, "Car", 50, core.Monthly))
	r, err := l.Get(2)
	require.NoError(t, err)
	assert.Equal(t, Record{Label: "Car", YearlyValue: 600}, r)
	assert.Equal(t, 3, l.Count())

	for _, idx := range []int{0, 4, -1} {
		err := l.Edit(idx, "x", 1, core.Yearly)
		assert.ErrorIs(t, err, core.ErrIndexOutOfRange, "index %d", idx)
	}

	err = l.Edit(1, "", 0, core.Yearly)
	assert.ErrorIs(t, err, core.ErrInvalidArgument)
	r, _ = l.Get(1)
	assert.Equal(t, "item 1", r.Label)
}

func TestEdit_UsesDisplayOrder(t *testing.T) {
	l := FromSlots([]Record{
		{Label: "a", YearlyValue: 1},
		{},
		{Label: "b", YearlyValue: 2},
	})
	require.NoError(t, l.Edit(2, "B", 20, core.Yearly))
	assert.Equal(t, []Record{{Label: "a", YearlyValue: 1}, {Label: "B", YearlyValue: 20}}, l.Entries())
}

func TestDelete(t *testing.T) {
	l := New()
	fill(t, l, 5)

	require.NoError(t, l.Delete(2))
	assert.Equal(t, 4, l.Count())
	assertNoGaps(t, l)

	labels := []string{}
	for _, r := range l.Entries() {
		labels = append(labels, r.Label)
	}
	assert.Equal(t, []string{"item 1", "item 3", "item 4", "item 5"}, labels)

	assert.ErrorIs(t, l.Delete(5), core.ErrIndexOutOfRange)
	assert.ErrorIs(t, l.Delete(0), core.ErrIndexOutOfRange)
	assert.Equal(t, 4, l.Count())
}

func TestDelete_EveryPosition(t *testing.T) {
	for i := 1; i <= Capacity; i++ {
		l := New()
		fill(t, l, Capacity)
		require.NoError(t, l.Delete(i))
		assert.Equal(t, Capacity-1, l.Count())
		assertNoGaps(t, l)

		_, err := l.Add("refill", 1, core.Yearly)
		require.NoError(t, err)
		last, err := l.Get(Capacity)
		require.NoError(t, err)
		assert.Equal(t, "refill", last.Label)
	}
}

func TestWipe(t *testing.T) {
	l := New()
	fill(t, l, 7)
	l.Wipe()
	assert.Equal(t, 0, l.Count())
	assert.Equal(t, 0.0, l.Total())
	assert.Equal(t, [Capacity]Record{}, l.Slots())
}

func TestCompact(t *testing.T) {
	l := &Ledger{}
	l.slots[1] = Record{Label: "a", YearlyValue: 1}
	l.slots[4] = Record{Label: "", YearlyValue: 5}
	l.slots[9] = Record{Label: "c"}
	l.slots[15] = Record{Label: "d", YearlyValue: 4}

	l.Compact()
	assertNoGaps(t, l)
	assert.Equal(t, []Record{
		{Label: "a", YearlyValue: 1},
		{Label: "", YearlyValue: 5},
		{Label: "c"},
		{Label: "d", YearlyValue: 4},
	}, l.Entries())
	assert.Equal(t, Record{}, l.Slots()[4])
}

func TestFromSlots_TruncatesToCapacity(t *testing.T) {
	records := make([]Record, Capacity+4)
	for i := range records {
		records[i] = Record{Label: fmt.Sprintf("r%d", i), YearlyValue: 1}
	}
	l := FromSlots(records)
	assert.Equal(t, Capacity, l.Count())
	last, err := l.Get(Capacity)
	require.NoError(t, err)
	assert.Equal(t, "r15", last.Label)
}

func TestShare(t *testing.T) {
	l := New()
	_, err := l.Add("Rent", 750, core.Yearly)
	require.NoError(t, err)
	_, err = l.Add("Food", 250, core.Yearly)
	require.NoError(t, err)

	share, err := l.Share(1)
	require.NoError(t, err)
	assert.Equal(t, 0.75, share)

	zero := FromSlots([]Record{{Label: "free"}})
	share, err = zero.Share(1)
	require.NoError(t, err)
	assert.Equal(t, 0.0, share)

	_, err = l.Share(3)
	assert.ErrorIs(t, err, core.ErrIndexOutOfRange)
}
