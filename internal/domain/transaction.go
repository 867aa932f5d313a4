package domain

import (
	"github.com/shopspring/decimal"
)

// ============================================================
// Transaction requests (four simulated money movements)
// ============================================================

// TransactionKind identifies one of the four operations.
type TransactionKind string

const (
	KindPix          TransactionKind = "pix"
	KindRecharge     TransactionKind = "recharge"
	KindBillPayment  TransactionKind = "bill_payment"
	KindPeerTransfer TransactionKind = "peer_transfer"
)

// TransactionRequest is built from the current form values at submit time
// and consumed immediately by the validator. Amount is the raw typed text.
type TransactionRequest interface {
	Kind() TransactionKind
	RawAmount() string
}

// PixKeyType is the kind of key identifying a Pix recipient.
type PixKeyType string

const (
	PixKeyCPF    PixKeyType = "cpf"
	PixKeyEmail  PixKeyType = "email"
	PixKeyRandom PixKeyType = "random"
	PixKeyPhone  PixKeyType = "phone"
)

// Valid reports whether t is one of the supported key types.
func (t PixKeyType) Valid() bool {
	switch t {
	case PixKeyCPF, PixKeyEmail, PixKeyRandom, PixKeyPhone:
		return true
	}
	return false
}

// Carrier is a mobile operator for phone recharges.
type Carrier string

const (
	CarrierClaro Carrier = "Claro"
	CarrierVivo  Carrier = "Vivo"
	CarrierTim   Carrier = "Tim"
)

// Valid reports whether c is a supported operator.
func (c Carrier) Valid() bool {
	switch c {
	case CarrierClaro, CarrierVivo, CarrierTim:
		return true
	}
	return false
}

// PixTransfer sends money to a Pix key.
type PixTransfer struct {
	KeyType PixKeyType `json:"keyType"`
	Key     string     `json:"key"`
	Amount  string     `json:"amount"`
}

func (PixTransfer) Kind() TransactionKind { return KindPix }
func (r PixTransfer) RawAmount() string  { return r.Amount }

// Recharge tops up a prepaid phone line.
type Recharge struct {
	Carrier     Carrier `json:"carrier"`
	PhoneNumber string  `json:"phoneNumber"`
	Amount      string  `json:"amount"`
}

func (Recharge) Kind() TransactionKind { return KindRecharge }
func (r Recharge) RawAmount() string  { return r.Amount }

// BillPayment pays a bill identified by its barcode or QR code.
type BillPayment struct {
	Code   string `json:"code"`
	Amount string `json:"amount"`
}

func (BillPayment) Kind() TransactionKind { return KindBillPayment }
func (r BillPayment) RawAmount() string  { return r.Amount }

// PeerTransfer sends money to an account number, CPF or contact.
type PeerTransfer struct {
	Recipient string `json:"recipient"`
	Amount    string `json:"amount"`
}

func (PeerTransfer) Kind() TransactionKind { return KindPeerTransfer }
func (r PeerTransfer) RawAmount() string  { return r.Amount }

// Confirmation is the outcome of a committed operation.
type Confirmation struct {
	Kind       TransactionKind `json:"kind"`
	Amount     decimal.Decimal `json:"amount"`
	NewBalance decimal.Decimal `json:"newBalance"`
	Message    string          `json:"message"`
	Screen     Screen          `json:"screen"`
}

// ScreenFor returns the screen that hosts the form of kind.
func ScreenFor(kind TransactionKind) Screen {
	switch kind {
	case KindPix:
		return ScreenPix
	case KindRecharge:
		return ScreenRecharge
	case KindBillPayment:
		return ScreenPay
	case KindPeerTransfer:
		return ScreenTransfer
	}
	return ScreenHome
}
