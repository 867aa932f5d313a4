package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// MaskedBalance replaces the balance when the user hides it.
const MaskedBalance = "••••••"

// FormatFixed renders amount with exactly two fraction digits and a dot
// separator ("500.00"), the format used in confirmation texts.
func FormatFixed(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}

// FormatBRL renders amount in the pt-BR convention with two fraction
// digits: "25.000,00".
func FormatBRL(amount decimal.Decimal) string {
	rounded := amount.Round(2)
	intPart, frac, _ := strings.Cut(rounded.Abs().StringFixed(2), ".")

	var groups []string
	for len(intPart) > 3 {
		groups = append([]string{intPart[len(intPart)-3:]}, groups...)
		intPart = intPart[:len(intPart)-3]
	}
	groups = append([]string{intPart}, groups...)

	out := strings.Join(groups, ".") + "," + frac
	if rounded.IsNegative() {
		out = "-" + out
	}
	return out
}
