package domain

// ============================================================
// Form drafts
// ============================================================

// Forms keeps the last typed values of every operation screen.
// Failed submissions leave them as typed; a commit clears the typed text
// but keeps pickers (key type, carrier) where the user left them.
type Forms struct {
	Pix      PixTransfer  `json:"pix"`
	Recharge Recharge     `json:"recharge"`
	Bill     BillPayment  `json:"bill"`
	Transfer PeerTransfer `json:"transfer"`
}

// NewForms returns empty drafts with the default picker selections.
func NewForms() Forms {
	return Forms{
		Pix:      PixTransfer{KeyType: PixKeyCPF},
		Recharge: Recharge{Carrier: CarrierClaro},
	}
}

// Store overwrites the draft of req's kind with req.
func (f *Forms) Store(req TransactionRequest) {
	switch r := req.(type) {
	case PixTransfer:
		f.Pix = r
	case Recharge:
		f.Recharge = r
	case BillPayment:
		f.Bill = r
	case PeerTransfer:
		f.Transfer = r
	}
}

// Clear empties the typed fields of kind.
func (f *Forms) Clear(kind TransactionKind) {
	switch kind {
	case KindPix:
		f.Pix.Key, f.Pix.Amount = "", ""
	case KindRecharge:
		f.Recharge.PhoneNumber, f.Recharge.Amount = "", ""
	case KindBillPayment:
		f.Bill = BillPayment{}
	case KindPeerTransfer:
		f.Transfer = PeerTransfer{}
	}
}
