package types

import (
	money "github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// RoundCents rounds to two decimal places. Internal arithmetic keeps full
// precision; this is the single rounding step at the presentation boundary.
func RoundCents(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// FormatUSD renders an amount as a display string, e.g. "$1,500.00".
func FormatUSD(d decimal.Decimal) string {
	cents := RoundCents(d).Mul(decimal.NewFromInt(100)).IntPart()
	return money.New(cents, money.USD).Display()
}
