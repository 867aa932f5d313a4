package service_test

import (
	"testing"

	"github.com/braiatenebras/trabalhomobile-bryan/internal/domain"
	"github.com/braiatenebras/trabalhomobile-bryan/internal/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestParseAmount(t *testing.T) {
	valid := map[string]string{
		"500":      "500",
		" 500 ":    "500",
		"500.5":    "500.5",
		"500.50":   "500.5",
		"1234,56":  "1234.56",
		"0.01":     "0.01",
		"25000.00": "25000",
		"10.500":   "10.5",
	}
	for in, want := range valid {
		t.Run("valid "+in, func(t *testing.T) {
			got, err := service.ParseAmount(in)
			require.NoError(t, err)
			assert.True(t, dec(want).Equal(got), "got %s", got)
		})
	}

	invalid := []string{"", "   ", "abc", "0", "-10", "1e3", "10.005", "1.234,56", "1,2,3", "R$ 10", "NaN", "Infinity"}
	for _, in := range invalid {
		t.Run("invalid "+in, func(t *testing.T) {
			_, err := service.ParseAmount(in)
			var amountErr *domain.ErrInvalidAmount
			require.ErrorAs(t, err, &amountErr)
			assert.Equal(t, in, amountErr.Input)
			assert.Equal(t, domain.KindInvalidAmount, domain.KindOf(err))
		})
	}
}

func TestValidateFields(t *testing.T) {
	cases := []struct {
		name    string
		req     domain.TransactionRequest
		field   string
		message string
	}{
		{"pix empty key", domain.PixTransfer{KeyType: domain.PixKeyEmail, Key: "  ", Amount: "1"}, "key", "Por favor, insira uma chave Pix válida"},
		{"pix bad key type", domain.PixTransfer{KeyType: "cnpj", Key: "x", Amount: "1"}, "key", "Por favor, insira uma chave Pix válida"},
		{"recharge short phone", domain.Recharge{Carrier: domain.CarrierVivo, PhoneNumber: "119876543", Amount: "1"}, "phoneNumber", "Por favor, insira um número válido (11 dígitos)"},
		{"recharge formatted short phone", domain.Recharge{Carrier: domain.CarrierVivo, PhoneNumber: "(11) 9876-543", Amount: "1"}, "phoneNumber", "Por favor, insira um número válido (11 dígitos)"},
		{"recharge bad carrier", domain.Recharge{Carrier: "Oi", PhoneNumber: "11987654321", Amount: "1"}, "carrier", "Por favor, escolha uma operadora válida"},
		{"bill empty code", domain.BillPayment{Amount: "1"}, "code", "Por favor, insira um código válido"},
		{"transfer empty recipient", domain.PeerTransfer{Amount: "1"}, "recipient", "Por favor, insira um destinatário válido"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := service.ValidateFields(tc.req)

			var verr *domain.ErrValidation
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tc.field, verr.Field)
			assert.Equal(t, tc.message, verr.Error())
		})
	}

	ok := []domain.TransactionRequest{
		domain.PixTransfer{KeyType: domain.PixKeyRandom, Key: "abc"},
		domain.Recharge{Carrier: domain.CarrierTim, PhoneNumber: "(11) 98765-4321"},
		domain.BillPayment{Code: "34191.79001"},
		domain.PeerTransfer{Recipient: "Giovane"},
	}
	for _, req := range ok {
		assert.NoError(t, service.ValidateFields(req), "%T", req)
	}
}

func TestValidate_OrderOfChecks(t *testing.T) {
	balance := dec("100")

	// field error wins even with a bad amount
	_, err := service.Validate(domain.BillPayment{Code: "", Amount: "abc"}, balance)
	assert.Equal(t, domain.KindMissingOrInvalidField, domain.KindOf(err))

	// amount error wins over insufficient funds
	_, err = service.Validate(domain.BillPayment{Code: "123", Amount: "9999x"}, balance)
	assert.Equal(t, domain.KindInvalidAmount, domain.KindOf(err))

	_, err = service.Validate(domain.BillPayment{Code: "123", Amount: "100.01"}, balance)
	var insufficient *domain.ErrInsufficientFunds
	require.ErrorAs(t, err, &insufficient)
	assert.True(t, insufficient.Available.Equal(balance))
	assert.True(t, insufficient.Required.Equal(dec("100.01")))

	amount, err := service.Validate(domain.BillPayment{Code: "123", Amount: "100"}, balance)
	require.NoError(t, err)
	assert.True(t, amount.Equal(balance))
}

func TestConfirmationMessage(t *testing.T) {
	amount := dec("500")

	assert.Equal(t, "Transferência Pix de R$ 500.00 realizada com sucesso!",
		service.ConfirmationMessage(domain.PixTransfer{}, amount))
	assert.Equal(t, "Recarga de R$ 500.00 (Vivo) realizada!",
		service.ConfirmationMessage(domain.Recharge{Carrier: domain.CarrierVivo}, amount))
	assert.Equal(t, "Pagamento de R$ 500.00 realizado!",
		service.ConfirmationMessage(domain.BillPayment{}, amount))
	assert.Equal(t, "Transferência de R$ 500.00 realizada!",
		service.ConfirmationMessage(domain.PeerTransfer{}, amount))
}
