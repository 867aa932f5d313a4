package domain

import "time"

// SessionState is the read model of one app session.
type SessionState struct {
	SessionID      string    `json:"sessionId"`
	Screen         Screen    `json:"screen"`
	Balance        string    `json:"balance"` // "R$ 25.000,00" or masked
	BalanceVisible bool      `json:"balanceVisible"`
	Typing         bool      `json:"typing"`
	Forms          Forms     `json:"forms"`
	ExchangeReady  bool      `json:"exchangeReady"`
	CreatedAt      time.Time `json:"createdAt"`
}
