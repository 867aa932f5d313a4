package service

import (
	"context"
	"time"

	chatport "github.com/braiatenebras/trabalhomobile-bryan/internal/chat/port"
	chatservice "github.com/braiatenebras/trabalhomobile-bryan/internal/chat/service"
	"github.com/braiatenebras/trabalhomobile-bryan/internal/domain"
	"github.com/braiatenebras/trabalhomobile-bryan/internal/infra/cache"
	"github.com/braiatenebras/trabalhomobile-bryan/internal/infra/observability"
	"github.com/braiatenebras/trabalhomobile-bryan/internal/port"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// SessionConfig holds the per-session settings.
type SessionConfig struct {
	TTL            time.Duration
	InitialBalance decimal.Decimal
	ReplyLatency   time.Duration
}

// SessionManager creates, finds and expires app sessions. Sessions live in
// memory only; an expired or deleted session is gone for good.
type SessionManager struct {
	store port.SessionStore[*Session]
	seed  decimal.Decimal
	deps  sessionDeps

	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewSessionManager wires the session store and shared dependencies.
func NewSessionManager(
	cfg SessionConfig,
	resolver *chatservice.IntentResolver,
	rates chatport.RatesReader,
	catalog *Catalog,
	clock clockwork.Clock,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *SessionManager {
	m := &SessionManager{
		seed: cfg.InitialBalance,
		deps: sessionDeps{
			resolver:     resolver,
			rates:        rates,
			catalog:      catalog,
			clock:        clock,
			replyLatency: cfg.ReplyLatency,
			metrics:      metrics,
			logger:       logger,
		},
		metrics: metrics,
		logger:  logger,
	}

	m.store = cache.New[*Session](cfg.TTL,
		cache.WithClock[*Session](clock),
		cache.WithOnEvict(func(id string, s *Session) {
			s.close()
			m.metrics.SetActiveSessions(m.store.Len())
			m.logger.Info("session closed", zap.String("session_id", id))
		}),
	)
	return m
}

// Create starts a new session on Home with the seed balance and the
// assistant greeting.
func (m *SessionManager) Create(ctx context.Context) (*Session, error) {
	_, span := sessionTracer.Start(ctx, "SessionManager.Create")
	defer span.End()

	id := uuid.NewString()
	s := newSession(id, m.seed, m.deps)
	m.store.Set(id, s)
	m.metrics.SetActiveSessions(m.store.Len())

	span.SetAttributes(attribute.String("session.id", id))
	m.logger.Info("session created",
		zap.String("session_id", id),
		zap.String("balance", domain.FormatFixed(m.seed)),
	)
	return s, nil
}

// Get returns a live session and restarts its idle TTL.
func (m *SessionManager) Get(ctx context.Context, id string) (*Session, error) {
	_, span := sessionTracer.Start(ctx, "SessionManager.Get")
	defer span.End()
	span.SetAttributes(attribute.String("session.id", id))

	s, ok := m.store.Touch(id)
	if !ok {
		return nil, &domain.ErrNotFound{Resource: "session", ID: id}
	}
	return s, nil
}

// Delete ends a session now.
func (m *SessionManager) Delete(ctx context.Context, id string) error {
	if _, err := m.Get(ctx, id); err != nil {
		return err
	}
	m.store.Delete(id)
	return nil
}

// Len returns the number of sessions held.
func (m *SessionManager) Len() int {
	return m.store.Len()
}

// Close ends every session and stops the expiry goroutine.
func (m *SessionManager) Close() {
	m.store.Close()
}
