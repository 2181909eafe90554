// Package money formats amounts the way the product lab shows them: Swedish
// locale, Swedish kronor, whole units.
package money

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const (
	// NotAvailable is shown for amounts that are not finite.
	NotAvailable = "\u2013"

	currencySuffix = "\u00a0kr"
	minusSign      = "\u2212"
)

var swedish = language.MustParse("sv-SE")

// FormatSEK renders v as whole Swedish kronor, e.g. 1234567.5 -> "1 234 568 kr"
// with no-break spaces. Halves round away from zero; a negative value that
// rounds to zero keeps its sign.
func FormatSEK(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return NotAvailable
	}

	rounded := math.Round(v)
	p := message.NewPrinter(swedish)
	s := p.Sprint(number.Decimal(math.Abs(rounded), number.MaxFractionDigits(0)))
	if math.Signbit(rounded) {
		s = minusSign + s
	}
	return s + currencySuffix
}
