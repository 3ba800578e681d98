// Package ledger keeps a fixed-capacity, ordered table of recurring expenses.
//
// The table has Capacity slots. A slot whose label is blank and whose value
// is zero is unoccupied. After every removal the table is compacted so that
// occupied slots come first, in insertion order, and blank slots trail.
// Index-based operations (Get, Edit, Delete) use 1-based positions in that
// compacted order.
package ledger

import (
	"fmt"
	"strings"

	"taxcalc/internal/core"
)

// Capacity is the number of slots in a ledger.
const Capacity = 16

// Record is one expense. YearlyValue is always a yearly amount.
type Record struct {
	Label       string  `json:"label"`
	YearlyValue float64 `json:"yearly_value"`
}

// IsBlank reports whether r marks an unoccupied slot.
func (r Record) IsBlank() bool {
	return strings.TrimSpace(r.Label) == "" && r.YearlyValue == 0
}

type Ledger struct {
	slots [Capacity]Record
}

func New() *Ledger {
	return &Ledger{}
}

// FromSlots builds a ledger from persisted slots. Records past Capacity are
// ignored and the result is compacted.
func FromSlots(records []Record) *Ledger {
	l := New()
	copy(l.slots[:], records)
	l.Compact()
	return l
}

// Slots returns a copy of every slot, blank ones included.
func (l *Ledger) Slots() [Capacity]Record {
	return l.slots
}

// Entries returns the occupied records in display order.
func (l *Ledger) Entries() []Record {
	out := make([]Record, 0, Capacity)
	for _, r := range l.slots {
		if !r.IsBlank() {
			out = append(out, r)
		}
	}
	return out
}

// Count is the number of occupied slots.
func (l *Ledger) Count() int {
	n := 0
	for _, r := range l.slots {
		if !r.IsBlank() {
			n++
		}
	}
	return n
}

// Total sums the yearly value of every slot.
func (l *Ledger) Total() float64 {
	var total float64
	for _, r := range l.slots {
		total += r.YearlyValue
	}
	return total
}

// Share returns the index-th entry's fraction of the ledger total.
func (l *Ledger) Share(index int) (float64, error) {
	r, err := l.Get(index)
	if err != nil {
		return 0, err
	}
	return core.SafeDiv(r.YearlyValue, l.Total()), nil
}

// Get returns the index-th occupied record.
func (l *Ledger) Get(index int) (Record, error) {
	slot, err := l.slotOf(index)
	if err != nil {
		return Record{}, err
	}
	return l.slots[slot], nil
}

// Add stores a new record in the first blank slot and returns that slot's
// 1-based position. amount is expressed in freq and converted to yearly.
func (l *Ledger) Add(label string, amount float64, freq core.Frequency) (int, error) {
	r, err := newRecord(label, amount, freq)
	if err != nil {
		return 0, err
	}
	for i := range l.slots {
		if l.slots[i].IsBlank() {
			l.slots[i] = r
			return i + 1, nil
		}
	}
	return 0, fmt.Errorf("%w: all %d slots are in use", core.ErrLedgerFull, Capacity)
}

// Edit replaces the label and value of the index-th occupied record.
func (l *Ledger) Edit(index int, label string, amount float64, freq core.Frequency) error {
	slot, err := l.slotOf(index)
	if err != nil {
		return err
	}
	r, err := newRecord(label, amount, freq)
	if err != nil {
		return err
	}
	l.slots[slot] = r
	return nil
}

// Delete blanks the index-th occupied record and compacts the table.
func (l *Ledger) Delete(index int) error {
	slot, err := l.slotOf(index)
	if err != nil {
		return err
	}
	l.slots[slot] = Record{}
	l.Compact()
	return nil
}

// Wipe blanks every slot.
func (l *Ledger) Wipe() {
	l.slots = [Capacity]Record{}
	l.Compact()
}

// Compact moves occupied records to the front, keeping their relative
// order, and zero-fills the rest.
func (l *Ledger) Compact() {
	var packed [Capacity]Record
	n := 0
	for _, r := range l.slots {
		if r.IsBlank() {
			continue
		}
		packed[n] = r
		n++
	}
	l.slots = packed
}

func (l *Ledger) slotOf(index int) (int, error) {
	count := l.Count()
	if index < 1 || index > count {
		return 0, fmt.Errorf("%w: index %d not in 1..%d", core.ErrIndexOutOfRange, index, count)
	}
	seen := 0
	for i, r := range l.slots {
		if r.IsBlank() {
			continue
		}
		seen++
		if seen == index {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: index %d", core.ErrIndexOutOfRange, index)
}

func newRecord(label string, amount float64, freq core.Frequency) (Record, error) {
	if err := core.ValidateAmount("expense value", amount); err != nil {
		return Record{}, err
	}
	yearly, err := freq.ToYearly(amount)
	if err != nil {
		return Record{}, fmt.Errorf("%w: %v", core.ErrInvalidArgument, err)
	}
	if err := core.ValidateAmount("yearly expense value", yearly); err != nil {
		return Record{}, err
	}
	r := Record{Label: strings.TrimSpace(label), YearlyValue: yearly}
	if r.IsBlank() {
		return Record{}, fmt.Errorf("%w: an expense needs a label or a value", core.ErrInvalidArgument)
	}
	return r, nil
}
