package core

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// FormatCurrency renders v as a euro amount with two decimals and thousands
// grouping, e.g. "€35,667.18" or "-€1,200.00".
func FormatCurrency(v float64) string {
	return formatEuro(v, 2)
}

// FormatCurrency0 renders v as a whole-euro amount, e.g. "€44,000".
func FormatCurrency0(v float64) string {
	return formatEuro(v, 0)
}

// FormatPercent renders a fraction with one decimal, e.g. 0.28665 -> "28.7%".
func FormatPercent(fraction float64) string {
	pct := roundTo(fraction*100, 1)
	if pct == 0 {
		pct = 0
	}
	return printer.Sprintf("%.1f%%", pct)
}

func formatEuro(v float64, decimals int) string {
	r := roundTo(v, decimals)
	if r == 0 {
		r = 0 // drops the sign of -0
	}
	sign := ""
	if r < 0 {
		sign = "-"
		r = -r
	}
	switch decimals {
	case 0:
		return sign + "€" + printer.Sprintf("%.0f", r)
	default:
		return sign + "€" + printer.Sprintf("%.2f", r)
	}
}

func roundTo(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}
