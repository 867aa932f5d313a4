package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/braiatenebras/trabalhomobile-bryan/internal/domain"
	"github.com/braiatenebras/trabalhomobile-bryan/internal/infra/observability"
	"github.com/braiatenebras/trabalhomobile-bryan/internal/port"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var exchangeTracer = otel.Tracer("service/exchange")

// ExchangeService holds the process-wide exchange-rate snapshot.
// The snapshot is replaced as a whole on a successful fetch and never
// expires; a failed fetch leaves the previous value (or none) in place.
type ExchangeService struct {
	fetcher port.RateFetcher
	metrics *observability.Metrics
	logger  *zap.Logger

	snapshot  atomic.Pointer[domain.ExchangeSnapshot]
	lastError atomic.Pointer[string]
	checkedAt atomic.Pointer[time.Time]
	startOnce sync.Once
}

// NewExchangeService creates the service with no snapshot.
func NewExchangeService(fetcher port.RateFetcher, metrics *observability.Metrics, logger *zap.Logger) *ExchangeService {
	return &ExchangeService{
		fetcher: fetcher,
		metrics: metrics,
		logger:  logger,
	}
}

// Start fires the single startup fetch in the background. Later calls are
// no-ops. The returned channel closes when the fetch has finished, whatever
// its outcome.
func (s *ExchangeService) Start(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	started := false
	s.startOnce.Do(func() {
		started = true
		go func() {
			defer close(done)
			_ = s.Refresh(ctx)
		}()
	})
	if !started {
		close(done)
	}
	return done
}

// Refresh performs one fetch and swaps the snapshot on success.
// Failures are logged and counted, never surfaced to users.
func (s *ExchangeService) Refresh(ctx context.Context) error {
	ctx, span := exchangeTracer.Start(ctx, "ExchangeService.Refresh")
	defer span.End()

	start := time.Now()
	snap, err := s.fetcher.FetchRates(ctx)
	s.metrics.RecordRequestDuration("exchange_fetch", time.Since(start))

	now := time.Now().UTC()
	s.checkedAt.Store(&now)

	if err != nil {
		msg := err.Error()
		s.lastError.Store(&msg)
		s.metrics.IncrExchangeFetch("failure")
		s.metrics.IncrExternalError("exchange-rate")
		span.RecordError(err)
		s.logger.Warn("exchange rate fetch failed, conversions stay unavailable", zap.Error(err))
		return err
	}

	s.snapshot.Store(snap)
	s.lastError.Store(nil)
	s.metrics.IncrExchangeFetch("success")
	span.SetAttributes(attribute.Int("exchange.rates", len(snap.Rates)))
	s.logger.Info("exchange rate snapshot loaded",
		zap.String("base", snap.Base),
		zap.Int("rates", len(snap.Rates)),
	)
	return nil
}

// Snapshot returns the current snapshot, nil until the first success.
func (s *ExchangeService) Snapshot() *domain.ExchangeSnapshot {
	return s.snapshot.Load()
}

// Ready reports whether a snapshot is available.
func (s *ExchangeService) Ready() bool {
	return s.snapshot.Load() != nil
}

// Conversions expresses balance in every Home panel currency.
func (s *ExchangeService) Conversions(balance decimal.Decimal) *domain.ConversionsView {
	return BuildConversions(s.Snapshot(), balance)
}

// Health reports "healthy" once rates are loaded, "degraded" before.
func (s *ExchangeService) Health() domain.ServiceHealth {
	h := domain.ServiceHealth{Name: "exchange-rate", Status: "healthy"}
	if at := s.checkedAt.Load(); at != nil {
		h.LastChecked = at.Format(time.RFC3339)
	}
	if s.Ready() {
		return h
	}

	h.Status = "degraded"
	h.Detail = "rates not loaded"
	if msg := s.lastError.Load(); msg != nil {
		h.Detail = *msg
	}
	return h
}

// BuildConversions lists balance in each of domain.HomeCurrencies.
// Without a snapshot the view is not ready and has no figures.
// Currencies missing from the snapshot are skipped.
func BuildConversions(snap *domain.ExchangeSnapshot, balance decimal.Decimal) *domain.ConversionsView {
	view := &domain.ConversionsView{Conversions: []domain.Conversion{}}
	if snap == nil {
		return view
	}

	view.Ready = true
	fetchedAt := snap.FetchedAt
	view.FetchedAt = &fetchedAt

	for _, c := range domain.HomeCurrencies {
		amount, ok := snap.Convert(balance, c.Code)
		if !ok {
			continue
		}
		amount = amount.Round(2)
		view.Conversions = append(view.Conversions, domain.Conversion{
			CurrencyDisplay: c,
			Amount:          amount,
			Formatted:       c.Symbol + domain.FormatFixed(amount),
		})
	}
	return view
}
