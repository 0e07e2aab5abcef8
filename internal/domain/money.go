package domain

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// MoneyScale is the number of fractional digits money is stored with.
const MoneyScale = 2

var moneyPrinter = message.NewPrinter(language.English)

// Money builds a decimal from a string literal such as "150.25".
// It panics on malformed input and is intended for constants and tests.
func Money(s string) decimal.Decimal {
	return decimal.RequireFromString(s).Round(MoneyScale)
}

// ParseMoney parses a user-supplied amount and rejects more than two fractional digits.
func ParseMoney(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidInput
	}
	if !d.Equal(d.Round(MoneyScale)) {
		return decimal.Zero, ErrInvalidInput
	}
	return d, nil
}

// TruncateCents drops fractions of a cent, always towards zero.
func TruncateCents(d decimal.Decimal) decimal.Decimal {
	return d.Truncate(MoneyScale)
}

// FormatMoney renders an amount for players, e.g. "$1,250.00".
func FormatMoney(d decimal.Decimal) string {
	f, _ := d.Round(MoneyScale).Float64()
	return moneyPrinter.Sprintf("$%v", number.Decimal(f, number.MinFractionDigits(MoneyScale), number.MaxFractionDigits(MoneyScale)))
}
