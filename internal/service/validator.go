package service

import (
	"fmt"
	"strings"

	"github.com/braiatenebras/trabalhomobile-bryan/internal/domain"

	"github.com/shopspring/decimal"
)

// MinPhoneDigits is the shortest phone number a recharge accepts (DDD + 9 digits).
const MinPhoneDigits = 11

// ============================================================
// Transaction validation pipeline
// ============================================================
//
// Every operation goes through the same three checks, in order:
//  1. required fields     → ErrValidation        (MissingOrInvalidField)
//  2. amount parses       → ErrInvalidAmount     (InvalidAmount)
//  3. amount <= balance   → ErrInsufficientFunds (InsufficientFunds)
// The first failing check wins. Validation never mutates anything.

// Validate runs the full pipeline for req against balance and returns the
// parsed amount when every check passes.
func Validate(req domain.TransactionRequest, balance decimal.Decimal) (decimal.Decimal, error) {
	if err := ValidateFields(req); err != nil {
		return decimal.Zero, err
	}

	amount, err := ParseAmount(req.RawAmount())
	if err != nil {
		return decimal.Zero, err
	}

	if amount.GreaterThan(balance) {
		return decimal.Zero, &domain.ErrInsufficientFunds{Available: balance, Required: amount}
	}
	return amount, nil
}

// ValidateFields checks the operation-specific required fields.
func ValidateFields(req domain.TransactionRequest) error {
	switch r := req.(type) {
	case domain.PixTransfer:
		if strings.TrimSpace(r.Key) == "" || !r.KeyType.Valid() {
			return &domain.ErrValidation{Field: "key", Message: "Por favor, insira uma chave Pix válida"}
		}
	case domain.Recharge:
		if !r.Carrier.Valid() {
			return &domain.ErrValidation{Field: "carrier", Message: "Por favor, escolha uma operadora válida"}
		}
		if countDigits(r.PhoneNumber) < MinPhoneDigits {
			return &domain.ErrValidation{Field: "phoneNumber", Message: "Por favor, insira um número válido (11 dígitos)"}
		}
	case domain.BillPayment:
		if strings.TrimSpace(r.Code) == "" {
			return &domain.ErrValidation{Field: "code", Message: "Por favor, insira um código válido"}
		}
	case domain.PeerTransfer:
		if strings.TrimSpace(r.Recipient) == "" {
			return &domain.ErrValidation{Field: "recipient", Message: "Por favor, insira um destinatário válido"}
		}
	default:
		return &domain.ErrValidation{Field: "kind", Message: fmt.Sprintf("operação desconhecida: %T", req)}
	}
	return nil
}

// ParseAmount parses typed money. "500", "500.5", "1234,56" are accepted;
// a lone comma is read as the decimal separator. The result must be
// positive with no significant digit past the second decimal place.
func ParseAmount(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}

	invalid := &domain.ErrInvalidAmount{Input: raw}
	if s == "" || strings.ContainsAny(s, "eE") {
		return decimal.Zero, invalid
	}

	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, invalid
	}
	if !amount.IsPositive() || !amount.Equal(amount.Round(2)) {
		return decimal.Zero, invalid
	}
	return amount, nil
}

// ConfirmationMessage is the success text for a committed operation.
func ConfirmationMessage(req domain.TransactionRequest, amount decimal.Decimal) string {
	value := domain.FormatFixed(amount)
	switch r := req.(type) {
	case domain.PixTransfer:
		return fmt.Sprintf("Transferência Pix de R$ %s realizada com sucesso!", value)
	case domain.Recharge:
		return fmt.Sprintf("Recarga de R$ %s (%s) realizada!", value, r.Carrier)
	case domain.BillPayment:
		return fmt.Sprintf("Pagamento de R$ %s realizado!", value)
	case domain.PeerTransfer:
		return fmt.Sprintf("Transferência de R$ %s realizada!", value)
	}
	return fmt.Sprintf("Operação de R$ %s realizada!", value)
}

// normalize fills pickers the user left untouched with their defaults.
func normalize(req domain.TransactionRequest) domain.TransactionRequest {
	switch r := req.(type) {
	case domain.PixTransfer:
		if r.KeyType == "" {
			r.KeyType = domain.PixKeyCPF
		}
		return r
	case domain.Recharge:
		if r.Carrier == "" {
			r.Carrier = domain.CarrierClaro
		}
		return r
	}
	return req
}

func countDigits(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}
