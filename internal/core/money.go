// Package core provides the primitives shared by the tax, ledger and report
// packages: the error taxonomy, input frequencies and amount helpers.
//
// Amounts are yearly euro values held as float64. Stored values are written
// with the shortest representation that parses back to the same float, so a
// persisted state round-trips exactly.
package core

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// MaxAmount is the largest amount accepted as input. Sums of up to a full
// ledger of such amounts stay well inside float64 precision for cents.
const MaxAmount = 1e12

// ParseAmount converts a decimal string to a non-negative amount.
//
// Surrounding whitespace is ignored. Empty input, non-numeric text, NaN,
// infinities, negative values and values above MaxAmount are rejected with
// ErrInvalidArgument.
//
// Examples:
//
//	ParseAmount("1200")     -> 1200, nil
//	ParseAmount(" 99.95 ")  -> 99.95, nil
//	ParseAmount("-1")       -> 0, ErrInvalidArgument
func ParseAmount(s string) (float64, error) {
	v, err := ParseNumber(s)
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, fmt.Errorf("%w: amount %q is negative", ErrInvalidArgument, strings.TrimSpace(s))
	}
	if v > MaxAmount {
		return 0, fmt.Errorf("%w: amount %q is above %s", ErrInvalidArgument, strings.TrimSpace(s), FormatAmount(MaxAmount))
	}
	return v, nil
}

// ParseNumber converts a decimal string to any finite number, negative ones
// included. Derived figures such as balances are read back with it.
func ParseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty amount", ErrInvalidArgument)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: amount %q is not a number", ErrInvalidArgument, s)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: amount %q is not finite", ErrInvalidArgument, s)
	}
	return v, nil
}

// FormatAmount renders v with the fewest digits that parse back to v.
func FormatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// SafeDiv returns n/d, or 0 when d is zero.
func SafeDiv(n, d float64) float64 {
	if d == 0 {
		return 0
	}
	return n / d
}

// ValidateAmount rejects negative, NaN and infinite amounts and amounts
// above MaxAmount.
func ValidateAmount(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: %s must be finite", ErrInvalidArgument, name)
	}
	if v < 0 {
		return fmt.Errorf("%w: %s must not be negative, got %s", ErrInvalidArgument, name, FormatAmount(v))
	}
	if v > MaxAmount {
		return fmt.Errorf("%w: %s must not exceed %s, got %s", ErrInvalidArgument, name, FormatAmount(MaxAmount), FormatAmount(v))
	}
	return nil
}
