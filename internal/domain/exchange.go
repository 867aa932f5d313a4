package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ============================================================
// Exchange rates
// ============================================================

// ExchangeSnapshot is one successful fetch of BRL-based rates: each rate is
// the value of 1 BRL in that currency. A snapshot is replaced as a whole and
// never mutated after creation.
type ExchangeSnapshot struct {
	Base      string                     `json:"base"`
	Rates     map[string]decimal.Decimal `json:"rates"`
	FetchedAt time.Time                  `json:"fetchedAt"`
}

// Convert returns amount expressed in code. ok is false when the snapshot
// has no rate for code.
func (s *ExchangeSnapshot) Convert(amount decimal.Decimal, code string) (decimal.Decimal, bool) {
	if s == nil {
		return decimal.Zero, false
	}
	rate, ok := s.Rates[code]
	if !ok {
		return decimal.Zero, false
	}
	return amount.Mul(rate), true
}

// ExchangeRatesPayload is the body of the rate provider's latest/BRL endpoint.
type ExchangeRatesPayload struct {
	Result          string                     `json:"result"`
	BaseCode        string                     `json:"base_code"`
	ConversionRates map[string]decimal.Decimal `json:"conversion_rates"`
	ErrorType       string                     `json:"error-type,omitempty"`
}

// CurrencyDisplay describes how a converted balance is shown.
type CurrencyDisplay struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

// HomeCurrencies are shown on the Home conversion panel, in order.
var HomeCurrencies = []CurrencyDisplay{
	{Code: "USD", Name: "Dólar Americano", Symbol: "$"},
	{Code: "EUR", Name: "Euro", Symbol: "€"},
	{Code: "GBP", Name: "Libra Esterlina", Symbol: "£"},
	{Code: "JPY", Name: "Iene Japonês", Symbol: "¥"},
	{Code: "CAD", Name: "Dólar Canadense", Symbol: "C$"},
	{Code: "AUD", Name: "Dólar Australiano", Symbol: "A$"},
	{Code: "CHF", Name: "Franco Suíço", Symbol: "Fr."},
}

// Conversion is the balance expressed in one foreign currency.
type Conversion struct {
	CurrencyDisplay
	Amount    decimal.Decimal `json:"amount"`
	Formatted string          `json:"formatted"` // "$4500.00"
}

// ConversionsView is returned by the conversion panel endpoint.
// Ready=false with no conversions is a valid, displayable state.
type ConversionsView struct {
	Ready       bool         `json:"ready"`
	Conversions []Conversion `json:"conversions"`
	FetchedAt   *time.Time   `json:"fetchedAt,omitempty"`
}
