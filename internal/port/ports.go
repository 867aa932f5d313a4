// Package port defines the interfaces (ports) for external dependencies.
// Following hexagonal architecture, these ports decouple the domain/service
// layer from concrete implementations.
package port

import (
	"context"

	"github.com/braiatenebras/trabalhomobile-bryan/internal/domain"
)

// RateFetcher retrieves a complete exchange-rate snapshot.
type RateFetcher interface {
	FetchRates(ctx context.Context) (*domain.ExchangeSnapshot, error)
}

// SessionStore holds live values by id with an idle TTL.
type SessionStore[T any] interface {
	Set(key string, value T)
	Touch(key string) (T, bool)
	Delete(key string)
	Len() int
	Close()
}
