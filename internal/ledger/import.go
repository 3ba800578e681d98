package ledger

import (
	"fmt"
	"strings"

	"taxcalc/internal/core"
)

// ImportMode selects how Import treats existing records.
type ImportMode string

const (
	// Overwrite clears the table and maps line i to slot i.
	Overwrite ImportMode = "overwrite"
	// Append fills blank slots in order, after existing records.
	Append ImportMode = "append"
)

func ParseImportMode(s string) (ImportMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "o", "overwrite":
		return Overwrite, nil
	case "a", "append":
		return Append, nil
	default:
		return "", fmt.Errorf("%w: import mode %q", core.ErrInvalidArgument, s)
	}
}

// Import loads "label,value" lines holding yearly values. A line that does
// not parse is skipped: under Overwrite its slot stays blank, under Append it
// is dropped. Lines beyond the table's capacity are ignored. The table is
// compacted afterwards. It returns how many records were stored.
func (l *Ledger) Import(lines []string, mode ImportMode) (int, error) {
	imported := 0
	switch mode {
	case Overwrite:
		l.slots = [Capacity]Record{}
		for i := 0; i < Capacity && i < len(lines); i++ {
			r, ok := ParseLine(lines[i])
			if !ok {
				continue
			}
			l.slots[i] = r
			imported++
		}
	case Append:
		next := 0
		for _, line := range lines {
			r, ok := ParseLine(line)
			if !ok {
				continue
			}
			for next < Capacity && !l.slots[next].IsBlank() {
				next++
			}
			if next == Capacity {
				break
			}
			l.slots[next] = r
			imported++
		}
	default:
		return 0, fmt.Errorf("%w: import mode %q", core.ErrInvalidArgument, string(mode))
	}
	l.Compact()
	return imported, nil
}

// ParseLine parses one "label,value" line. It reports false unless the line
// has exactly two fields, the value is a non-negative number, and the
// resulting record is not blank.
func ParseLine(line string) (Record, bool) {
	fields := strings.Split(line, ",")
	if len(fields) != 2 {
		return Record{}, false
	}
	v, err := core.ParseAmount(fields[1])
	if err != nil {
		return Record{}, false
	}
	r := Record{Label: strings.TrimSpace(fields[0]), YearlyValue: v}
	if r.IsBlank() {
		return Record{}, false
	}
	return r, true
}
