package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Error types for consistent error handling across the app.

// ErrorKind is the user-facing taxonomy of operation failures.
type ErrorKind string

const (
	KindMissingOrInvalidField ErrorKind = "MissingOrInvalidField"
	KindInvalidAmount         ErrorKind = "InvalidAmount"
	KindInsufficientFunds     ErrorKind = "InsufficientFunds"
)

// KindOf classifies err into the operation error taxonomy.
// It returns "" for errors that are not operation failures.
func KindOf(err error) ErrorKind {
	var validation *ErrValidation
	var invalidAmount *ErrInvalidAmount
	var insufficient *ErrInsufficientFunds

	switch {
	case errors.As(err, &validation):
		return KindMissingOrInvalidField
	case errors.As(err, &invalidAmount):
		return KindInvalidAmount
	case errors.As(err, &insufficient):
		return KindInsufficientFunds
	default:
		return ""
	}
}

// ErrNotFound indicates a resource was not found.
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrExternalService indicates a failure in an external service call.
type ErrExternalService struct {
	Service string
	Err     error
}

func (e *ErrExternalService) Error() string {
	return fmt.Sprintf("external service error [%s]: %v", e.Service, e.Err)
}

func (e *ErrExternalService) Unwrap() error {
	return e.Err
}

// ErrCircuitOpen indicates the circuit breaker is open.
type ErrCircuitOpen struct {
	Service string
}

func (e *ErrCircuitOpen) Error() string {
	return fmt.Sprintf("circuit breaker open for service: %s", e.Service)
}

// ErrValidation indicates an empty or malformed required field.
// Message is the text shown to the user.
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return e.Message
}

// ErrInvalidAmount indicates an amount that is not a positive decimal with
// at most two fraction digits.
type ErrInvalidAmount struct {
	Input string
}

func (e *ErrInvalidAmount) Error() string {
	return "Por favor, insira um valor válido"
}

// ErrInsufficientFunds indicates not enough balance for the operation.
type ErrInsufficientFunds struct {
	Available decimal.Decimal
	Required  decimal.Decimal
}

func (e *ErrInsufficientFunds) Error() string {
	return "Saldo insuficiente"
}
