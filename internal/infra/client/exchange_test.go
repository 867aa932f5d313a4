package client_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/braiatenebras/trabalhomobile-bryan/internal/domain"
	"github.com/braiatenebras/trabalhomobile-bryan/internal/infra/client"
	"github.com/braiatenebras/trabalhomobile-bryan/internal/infra/resilience"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newClient(t *testing.T, handler http.HandlerFunc, cfg resilience.Config) *client.ExchangeRateClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return client.NewExchangeRateClient(
		srv.Client(),
		srv.URL+"/v6/%s/latest/BRL",
		"test-key",
		resilience.NewCircuitBreaker("exchange-test", zap.NewNop()),
		cfg,
	)
}

func TestFetchRates_Success(t *testing.T) {
	var gotPath string
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"result":"success","base_code":"BRL","conversion_rates":{"BRL":1,"USD":0.18,"EUR":0.17}}`))
	}, resilience.Config{})

	snap, err := c.FetchRates(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "/v6/test-key/latest/BRL", gotPath)
	assert.Equal(t, "BRL", snap.Base)
	assert.True(t, snap.Rates["USD"].Equal(decimal.RequireFromString("0.18")))
	assert.WithinDuration(t, time.Now(), snap.FetchedAt, time.Minute)
}

func TestFetchRates_Failures(t *testing.T) {
	cases := map[string]struct {
		status int
		body   string
	}{
		"server error":      {http.StatusInternalServerError, `{}`},
		"malformed body":    {http.StatusOK, `{"result":`},
		"error result":      {http.StatusOK, `{"result":"error","error-type":"invalid-key"}`},
		"empty rates":       {http.StatusOK, `{"result":"success","conversion_rates":{}}`},
		"non-positive rate": {http.StatusOK, `{"result":"success","conversion_rates":{"USD":0.18,"EUR":0}}`},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			c := newClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}, resilience.Config{})

			snap, err := c.FetchRates(context.Background())

			assert.Nil(t, snap)
			var ext *domain.ErrExternalService
			require.ErrorAs(t, err, &ext)
			assert.Equal(t, "exchange-rate", ext.Service)
		})
	}
}

func TestFetchRates_NoRetryByDefault(t *testing.T) {
	var calls atomic.Int32
	c := newClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}, resilience.Config{MaxRetries: 0})

	_, err := c.FetchRates(context.Background())

	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestFetchRates_RetriesWhenConfigured(t *testing.T) {
	var calls atomic.Int32
	c := newClient(t, func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"result":"success","base_code":"BRL","conversion_rates":{"USD":0.2}}`))
	}, resilience.Config{MaxRetries: 2, InitialBackoff: time.Millisecond})

	snap, err := c.FetchRates(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
	assert.Len(t, snap.Rates, 1)
}

func TestFetchRates_CircuitOpen(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}, resilience.Config{})

	for i := 0; i < 5; i++ {
		_, _ = c.FetchRates(context.Background())
	}

	_, err := c.FetchRates(context.Background())

	var open *domain.ErrCircuitOpen
	assert.ErrorAs(t, err, &open)
}
