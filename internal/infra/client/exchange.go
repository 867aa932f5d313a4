package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/braiatenebras/trabalhomobile-bryan/internal/domain"
	"github.com/braiatenebras/trabalhomobile-bryan/internal/infra/resilience"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("client")

// exchangeService is the service label used in errors and metrics.
const exchangeService = "exchange-rate"

// ExchangeRateClient fetches BRL-based conversion rates from the rate provider.
type ExchangeRateClient struct {
	httpClient *http.Client
	urlPattern string // fmt pattern with one %s for the API key
	apiKey     string
	cb         *gobreaker.CircuitBreaker
	cfg        resilience.Config
}

// NewExchangeRateClient creates a new ExchangeRateClient.
// urlPattern may contain a single %s, replaced by apiKey.
func NewExchangeRateClient(httpClient *http.Client, urlPattern, apiKey string, cb *gobreaker.CircuitBreaker, cfg resilience.Config) *ExchangeRateClient {
	return &ExchangeRateClient{
		httpClient: httpClient,
		urlPattern: urlPattern,
		apiKey:     apiKey,
		cb:         cb,
		cfg:        cfg,
	}
}

// FetchRates performs the GET with retry, circuit breaker, and tracing.
// A snapshot is only returned when the whole payload is usable.
func (c *ExchangeRateClient) FetchRates(ctx context.Context) (*domain.ExchangeSnapshot, error) {
	ctx, span := tracer.Start(ctx, "ExchangeRateClient.FetchRates")
	defer span.End()

	var payload domain.ExchangeRatesPayload

	result, err := c.cb.Execute(func() (any, error) {
		innerErr := resilience.RetryWithBackoff(ctx, c.cfg, func() error {
			payload = domain.ExchangeRatesPayload{}

			req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url(), nil)
			if err != nil {
				return err
			}

			resp, err := c.httpClient.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("exchange API returned status %d", resp.StatusCode)
			}

			if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
				return fmt.Errorf("decoding exchange payload: %w", err)
			}
			return validatePayload(&payload)
		})
		if innerErr != nil {
			return nil, innerErr
		}
		return snapshotFrom(&payload), nil
	})

	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, &domain.ErrCircuitOpen{Service: exchangeService}
		}
		return nil, &domain.ErrExternalService{Service: exchangeService, Err: err}
	}

	snap := result.(*domain.ExchangeSnapshot)
	span.SetAttributes(
		attribute.String("exchange.base", snap.Base),
		attribute.Int("exchange.rates", len(snap.Rates)),
	)
	return snap, nil
}

func (c *ExchangeRateClient) url() string {
	if !strings.Contains(c.urlPattern, "%s") {
		return c.urlPattern
	}
	return fmt.Sprintf(c.urlPattern, c.apiKey)
}

// validatePayload rejects anything that must not replace a snapshot.
func validatePayload(p *domain.ExchangeRatesPayload) error {
	if p.Result != "success" {
		if p.ErrorType != "" {
			return fmt.Errorf("exchange API result %q: %s", p.Result, p.ErrorType)
		}
		return fmt.Errorf("exchange API result %q", p.Result)
	}
	if len(p.ConversionRates) == 0 {
		return errors.New("exchange API returned no rates")
	}
	for code, rate := range p.ConversionRates {
		if !rate.IsPositive() {
			return fmt.Errorf("exchange API returned non-positive rate for %s", code)
		}
	}
	return nil
}

func snapshotFrom(p *domain.ExchangeRatesPayload) *domain.ExchangeSnapshot {
	base := p.BaseCode
	if base == "" {
		base = "BRL"
	}
	return &domain.ExchangeSnapshot{
		Base:      base,
		Rates:     p.ConversionRates,
		FetchedAt: time.Now().UTC(),
	}
}
