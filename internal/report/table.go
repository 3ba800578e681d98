package report

import (
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"taxcalc/internal/core"
)

const (
	TableTitle = "FINANCIAL REPORT"
	// TimestampLayout renders as "18 Oct @ 14:05".
	TimestampLayout = "2 Jan @ 15:04"

	labelWidth  = 35
	amountWidth = 17
	shareWidth  = 11
	subPrefix   = "¦ "
)

var tableHeaders = []string{"Item", "Yearly", "Monthly", "Weekly", "Pctge"}

// Table renders the view as a box-drawn table headed by the
// report title and generation time. Columns keep a standard width and only
// grow for values that would not fit. Header lines are upper-cased and item
// lines are indented with a marker.
func Table(v View) string {
	rows := make([][]string, 0, len(v.Lines))
	for _, l := range v.Lines {
		rows = append(rows, []string{
			tableLabel(l),
			core.FormatCurrency(l.Yearly),
			core.FormatCurrency(l.Monthly),
			core.FormatCurrency(l.Weekly),
			core.FormatPercent(l.Fraction),
		})
	}

	widths := columnWidths(rows)
	t := table.New().
		Border(lipgloss.DoubleBorder()).
		BorderRow(false).
		Headers(tableHeaders...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			s := lipgloss.NewStyle().Padding(0, 1).Width(widths[col])
			if col == 0 {
				return s
			}
			if row == table.HeaderRow {
				return s.Align(lipgloss.Center)
			}
			return s.Align(lipgloss.Right)
		})

	body := t.Render()
	width := lipgloss.Width(strings.SplitN(body, "\n", 2)[0])
	stamp := v.GeneratedAt.Format(TimestampLayout)
	title := lipgloss.NewStyle().Width(max(width-utf8.RuneCountInString(stamp), len(TableTitle))).Render(TableTitle) + stamp

	return title + "\n" + body + "\n"
}

// columnWidths returns each column's cell width: the standard width, or
// wider when a rendered value would not fit beside the cell padding.
func columnWidths(rows [][]string) []int {
	widths := []int{labelWidth, amountWidth, amountWidth, amountWidth, shareWidth}
	for _, row := range rows {
		for col := 1; col < len(widths); col++ {
			widths[col] = max(widths[col], lipgloss.Width(row[col])+2)
		}
	}
	return widths
}

func tableLabel(l Line) string {
	name := l.Name
	if l.Kind == KindHeader {
		name = strings.ToUpper(name)
	}
	if l.Kind == KindItem {
		name = subPrefix + name
	}
	return truncate(name, labelWidth-2)
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-1]) + "…"
}
