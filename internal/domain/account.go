package domain

import (
	"github.com/shopspring/decimal"
)

// ============================================================
// Account (ledger)
// ============================================================

// Account is the single BRL balance of an app session.
// The balance is unexported: Debit is the only way to change it, so every
// caller goes through the same sufficient-funds check. Nothing credits it.
// Account is not safe for concurrent use; the session loop owns it.
type Account struct {
	balance decimal.Decimal
}

// NewAccount creates an account seeded with the given balance.
// A negative seed is clamped to zero.
func NewAccount(seed decimal.Decimal) *Account {
	if seed.IsNegative() {
		seed = decimal.Zero
	}
	return &Account{balance: seed}
}

// Balance returns the current balance.
func (a *Account) Balance() decimal.Decimal {
	return a.balance
}

// Debit removes amount from the balance if funds are sufficient.
// On failure the balance is left untouched.
func (a *Account) Debit(amount decimal.Decimal) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return a.balance, &ErrInvalidAmount{Input: amount.String()}
	}
	if amount.GreaterThan(a.balance) {
		return a.balance, &ErrInsufficientFunds{Available: a.balance, Required: amount}
	}
	a.balance = a.balance.Sub(amount)
	return a.balance, nil
}
