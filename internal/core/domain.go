package core

import (
	"errors"
	"fmt"
	"strings"
)

const (
	Yearly   Frequency = "yearly"
	Monthly  Frequency = "monthly"
	BiWeekly Frequency = "bi-weekly"
	Weekly   Frequency = "weekly"
)

type (
	// Frequency is the period an input amount is expressed in. Amounts are
	// converted to yearly values once, at write time.
	Frequency string
)

var (
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrIndexOutOfRange  = errors.New("index out of range")
	ErrLedgerFull       = errors.New("ledger full")
	ErrConfigParse      = errors.New("config parse error")
	ErrFileNotFound     = errors.New("file not found")
	ErrInvalidFrequency = errors.New("invalid frequency")
)

// PerYear returns how many periods of f fit in one year.
func (f Frequency) PerYear() int {
	switch f {
	case Yearly:
		return 1
	case Monthly:
		return 12
	case BiWeekly:
		return 26
	case Weekly:
		return 52
	default:
		return 0
	}
}

func (f Frequency) Validate() error {
	if f.PerYear() == 0 {
		return fmt.Errorf("%w: %q", ErrInvalidFrequency, string(f))
	}
	return nil
}

// ToYearly converts an amount expressed in f into a yearly amount.
func (f Frequency) ToYearly(amount float64) (float64, error) {
	if err := f.Validate(); err != nil {
		return 0, err
	}
	return amount * float64(f.PerYear()), nil
}

// ParseFrequency accepts the long names and the single-letter menu keys
// (y, m, b, w). An empty string means yearly.
func ParseFrequency(s string) (Frequency, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "y", "yearly", "year":
		return Yearly, nil
	case "m", "monthly", "month":
		return Monthly, nil
	case "b", "bi-weekly", "biweekly", "fortnightly":
		return BiWeekly, nil
	case "w", "weekly", "week":
		return Weekly, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidFrequency, s)
	}
}

// Frequencies lists the supported frequencies in menu order.
func Frequencies() []Frequency {
	return []Frequency{Yearly, Monthly, BiWeekly, Weekly}
}
