// Package money formats amounts for display on the dashboard.
//
// All amounts are rendered as whole rupiah with Indonesian digit grouping
// ("Rp 1.234.567"). There is no locale negotiation.
package money

import (
	"math"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const Symbol = "Rp"

var locale = language.Indonesian

// Round rounds amount to the nearest integer, halves away from zero.
// NaN and infinities round to zero.
func Round(amount float64) int64 {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0
	}
	return decimal.NewFromFloat(amount).Round(0).IntPart()
}

// Average returns round(total / count), or zero when count is zero.
func Average(total float64, count int) int64 {
	if count == 0 || math.IsNaN(total) || math.IsInf(total, 0) {
		return 0
	}
	return decimal.NewFromFloat(total).
		Div(decimal.NewFromInt(int64(count))).
		Round(0).
		IntPart()
}

// FormatCurrency renders amount as "Rp " followed by the grouped, rounded
// integer value. FormatCurrency(0) is "Rp 0".
func FormatCurrency(amount float64) string {
	return Symbol + " " + FormatInt(Round(amount))
}

// FormatInt groups the digits of n using the dashboard locale.
func FormatInt(n int64) string {
	return message.NewPrinter(locale).Sprintf("%d", n)
}

func FormatNumber(n int) string {
	return FormatInt(int64(n))
}
