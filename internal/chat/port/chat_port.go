// Package port: chat_port.go define as interfaces que o chat usa para ler
// o estado do app sem depender do serviço concreto.
//
// Seguindo a arquitetura hexagonal, o IntentResolver depende dessas
// interfaces e NÃO da sessão. Isso facilita testes com fakes.
package port

import (
	"time"

	"github.com/braiatenebras/trabalhomobile-bryan/internal/domain"

	"github.com/shopspring/decimal"
)

// RatesReader expõe o snapshot de câmbio atual (nil enquanto não carregou).
type RatesReader interface {
	Snapshot() *domain.ExchangeSnapshot
}

// Facts é o que uma regra pode consultar além do texto: o saldo no momento
// do envio e o snapshot de câmbio (nil se ainda não chegou).
type Facts struct {
	Balance  decimal.Decimal
	Snapshot *domain.ExchangeSnapshot
}

// Scheduler agenda uma continuação para depois de d. A continuação deve ser
// executada pelo dono do estado (o loop da sessão), nunca em paralelo.
type Scheduler interface {
	Now() time.Time
	Schedule(d time.Duration, fn func())
}
