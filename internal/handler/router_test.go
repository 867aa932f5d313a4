package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	chatservice "github.com/braiatenebras/trabalhomobile-bryan/internal/chat/service"
	"github.com/braiatenebras/trabalhomobile-bryan/internal/domain"
	"github.com/braiatenebras/trabalhomobile-bryan/internal/handler"
	"github.com/braiatenebras/trabalhomobile-bryan/internal/infra/observability"
	"github.com/braiatenebras/trabalhomobile-bryan/internal/infra/resilience"
	"github.com/braiatenebras/trabalhomobile-bryan/internal/port"
	"github.com/braiatenebras/trabalhomobile-bryan/internal/service"

	"github.com/jonboulle/clockwork"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// --- Test harness ---

type stubFetcher struct {
	snap *domain.ExchangeSnapshot
	err  error
}

func (s stubFetcher) FetchRates(_ context.Context) (*domain.ExchangeSnapshot, error) {
	return s.snap, s.err
}

type harness struct {
	router   http.Handler
	clock    clockwork.FakeClock
	metrics  *observability.Metrics
	exchange *service.ExchangeService
	sessions *service.SessionManager
}

const replyLatency = 800 * time.Millisecond

func newHarness(t *testing.T, fetcher port.RateFetcher, bulkhead *resilience.Bulkhead) *harness {
	t.Helper()
	logger := zap.NewNop()
	h := &harness{
		clock:   clockwork.NewFakeClock(),
		metrics: observability.NewMetrics(),
	}
	h.exchange = service.NewExchangeService(fetcher, h.metrics, logger)
	catalog := service.NewCatalog()
	h.sessions = service.NewSessionManager(
		service.SessionConfig{
			TTL:            30 * time.Minute,
			InitialBalance: decimal.RequireFromString("25000.00"),
			ReplyLatency:   replyLatency,
		},
		chatservice.NewIntentResolver(),
		h.exchange,
		catalog,
		h.clock,
		h.metrics,
		logger,
	)
	t.Cleanup(h.sessions.Close)
	h.router = handler.NewRouter(h.sessions, h.exchange, catalog, h.metrics, bulkhead, logger)
	return h
}

func (h *harness) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)
	return rec
}

func (h *harness) createSession(t *testing.T) domain.SessionState {
	t.Helper()
	rec := h.do(t, http.MethodPost, "/v1/sessions", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	var st domain.SessionState
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &st))
	return st
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) (msg, kind string) {
	t.Helper()
	var body struct {
		Error string `json:"error"`
		Kind  string `json:"kind"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error, body.Kind
}

func noRates() port.RateFetcher {
	return stubFetcher{err: errors.New("offline")}
}

// --- Operational endpoints ---

func TestHealthz_DegradedUntilRatesLoad(t *testing.T) {
	h := newHarness(t, noRates(), nil)

	rec := h.do(t, http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var health domain.HealthStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	assert.Equal(t, "degraded", health.Status)
	require.Len(t, health.Services, 2)
	assert.Equal(t, "exchange-rate", health.Services[1].Name)
}

func TestHealthz_HealthyWithRates(t *testing.T) {
	h := newHarness(t, stubFetcher{snap: testSnapshot()}, nil)
	<-h.exchange.Start(context.Background())

	var health domain.HealthStatus
	rec := h.do(t, http.MethodGet, "/healthz", nil)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	assert.Equal(t, "healthy", health.Status)
}

func TestReadyz(t *testing.T) {
	h := newHarness(t, noRates(), nil)
	rec := h.do(t, http.MethodGet, "/readyz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPing(t *testing.T) {
	h := newHarness(t, noRates(), nil)
	rec := h.do(t, http.MethodGet, "/ping", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMetrics(t *testing.T) {
	h := newHarness(t, noRates(), nil)
	h.createSession(t)

	rec := h.do(t, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "bankapp_active_sessions 1")
}

func TestAppMetrics(t *testing.T) {
	h := newHarness(t, noRates(), nil)
	st := h.createSession(t)
	h.do(t, http.MethodPost, "/v1/sessions/"+st.SessionID+"/bills/pay", map[string]string{"code": "123", "amount": "10"})
	h.do(t, http.MethodPost, "/v1/sessions/"+st.SessionID+"/bills/pay", map[string]string{"code": "", "amount": "10"})

	rec := h.do(t, http.MethodGet, "/v1/metrics/app", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var snap domain.AppMetrics
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.Equal(t, int64(1), snap.TransactionsCommitted)
	assert.Equal(t, int64(1), snap.TransactionsRejected)
}

// --- Sessions ---

func TestSessions_CreateGetDelete(t *testing.T) {
	h := newHarness(t, noRates(), nil)

	st := h.createSession(t)
	assert.NotEmpty(t, st.SessionID)
	assert.Equal(t, domain.ScreenHome, st.Screen)
	assert.Equal(t, "R$ 25.000,00", st.Balance)
	assert.False(t, st.ExchangeReady)

	path := "/v1/sessions/" + st.SessionID
	assert.Equal(t, http.StatusOK, h.do(t, http.MethodGet, path, nil).Code)
	assert.Equal(t, http.StatusNoContent, h.do(t, http.MethodDelete, path, nil).Code)
	assert.Equal(t, http.StatusNotFound, h.do(t, http.MethodGet, path, nil).Code)
	assert.Equal(t, http.StatusNotFound, h.do(t, http.MethodDelete, path, nil).Code)
}

func TestSessions_UnknownID(t *testing.T) {
	h := newHarness(t, noRates(), nil)
	rec := h.do(t, http.MethodPost, "/v1/sessions/nope/navigation/back", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestNavigation(t *testing.T) {
	h := newHarness(t, noRates(), nil)
	base := "/v1/sessions/" + h.createSession(t).SessionID

	rec := h.do(t, http.MethodPost, base+"/navigation", map[string]string{"target": "Pix"})
	require.Equal(t, http.StatusOK, rec.Code)
	var st domain.SessionState
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &st))
	assert.Equal(t, domain.ScreenPix, st.Screen)

	rec = h.do(t, http.MethodPost, base+"/navigation/back", nil)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &st))
	assert.Equal(t, domain.ScreenHome, st.Screen)

	rec = h.do(t, http.MethodPost, base+"/navigation", map[string]string{"target": "Nowhere"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	_, kind := decodeError(t, rec)
	assert.Equal(t, string(domain.KindMissingOrInvalidField), kind)
}

func TestBalanceVisibility(t *testing.T) {
	h := newHarness(t, noRates(), nil)
	base := "/v1/sessions/" + h.createSession(t).SessionID

	var st domain.SessionState
	rec := h.do(t, http.MethodPost, base+"/balance/visibility", nil)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &st))
	assert.False(t, st.BalanceVisible)
	assert.Equal(t, domain.MaskedBalance, st.Balance)
}

// --- Operations ---

func TestPix_CommitsAndReturnsHome(t *testing.T) {
	h := newHarness(t, noRates(), nil)
	base := "/v1/sessions/" + h.createSession(t).SessionID
	h.do(t, http.MethodPost, base+"/navigation", map[string]string{"target": "Pix"})

	rec := h.do(t, http.MethodPost, base+"/pix", map[string]string{
		"keyType": "email", "key": "joao@x.com", "amount": "500.00",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var conf struct {
		Message string        `json:"message"`
		Screen  domain.Screen `json:"screen"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &conf))
	assert.Equal(t, "Transferência Pix de R$ 500.00 realizada com sucesso!", conf.Message)
	assert.Equal(t, domain.ScreenHome, conf.Screen)

	var st domain.SessionState
	require.NoError(t, json.Unmarshal(h.do(t, http.MethodGet, base, nil).Body.Bytes(), &st))
	assert.Equal(t, "R$ 24.500,00", st.Balance)
	assert.Empty(t, st.Forms.Pix.Amount)
}

func TestOperations_ErrorMapping(t *testing.T) {
	h := newHarness(t, noRates(), nil)
	base := "/v1/sessions/" + h.createSession(t).SessionID

	tests := []struct {
		name     string
		path     string
		body     map[string]string
		wantCode int
		wantKind domain.ErrorKind
		wantMsg  string
	}{
		{"short phone", "/recharge", map[string]string{"carrier": "Vivo", "phoneNumber": "119999", "amount": "20"},
			http.StatusBadRequest, domain.KindMissingOrInvalidField, "Por favor, insira um número válido (11 dígitos)"},
		{"blank code", "/bills/pay", map[string]string{"code": " ", "amount": "20"},
			http.StatusBadRequest, domain.KindMissingOrInvalidField, "Por favor, insira um código válido"},
		{"bad amount", "/transfers", map[string]string{"recipient": "Maidel", "amount": "abc"},
			http.StatusBadRequest, domain.KindInvalidAmount, "Por favor, insira um valor válido"},
		{"too much", "/transfers", map[string]string{"recipient": "Maidel", "amount": "25000.01"},
			http.StatusUnprocessableEntity, domain.KindInsufficientFunds, "Saldo insuficiente"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := h.do(t, http.MethodPost, base+tt.path, tt.body)
			assert.Equal(t, tt.wantCode, rec.Code)
			msg, kind := decodeError(t, rec)
			assert.Equal(t, string(tt.wantKind), kind)
			assert.Equal(t, tt.wantMsg, msg)
		})
	}

	var st domain.SessionState
	require.NoError(t, json.Unmarshal(h.do(t, http.MethodGet, base, nil).Body.Bytes(), &st))
	assert.Equal(t, "R$ 25.000,00", st.Balance)
}

func TestOperations_MalformedBody(t *testing.T) {
	h := newHarness(t, noRates(), nil)
	base := "/v1/sessions/" + h.createSession(t).SessionID

	req := httptest.NewRequest(http.MethodPost, base+"/pix", bytes.NewBufferString("{"))
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestContacts(t *testing.T) {
	h := newHarness(t, noRates(), nil)
	base := "/v1/sessions/" + h.createSession(t).SessionID

	rec := h.do(t, http.MethodGet, base+"/transfers/contacts", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Contacts []domain.Contact `json:"contacts"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list.Contacts, 3)

	rec = h.do(t, http.MethodPost, base+"/transfers/contacts/Jiane/select", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var sel domain.ContactSelection
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sel))
	assert.Equal(t, "Jiane selecionado", sel.Title)

	var st domain.SessionState
	require.NoError(t, json.Unmarshal(h.do(t, http.MethodGet, base, nil).Body.Bytes(), &st))
	assert.Equal(t, "Jiane", st.Forms.Transfer.Recipient)

	rec = h.do(t, http.MethodPost, base+"/transfers/contacts/Ninguem/select", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// --- Exchange & static screens ---

func TestConversions_NotReady(t *testing.T) {
	h := newHarness(t, noRates(), nil)
	base := "/v1/sessions/" + h.createSession(t).SessionID

	rec := h.do(t, http.MethodGet, base+"/exchange/conversions", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var view domain.ConversionsView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.False(t, view.Ready)
	assert.Empty(t, view.Conversions)
}

func TestCardsAndProfile(t *testing.T) {
	h := newHarness(t, noRates(), nil)

	rec := h.do(t, http.MethodGet, "/v1/cards", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var cards domain.CardsView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cards))
	assert.Equal(t, "1234", cards.Primary.LastFourDigits)
	assert.Len(t, cards.Saved, 2)

	rec = h.do(t, http.MethodGet, "/v1/profile", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var profile domain.Profile
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &profile))
	assert.Equal(t, "Bryan Kauan Fagundes", profile.Name)
}

// --- Bulkhead ---

func TestBulkhead_RejectsWhenFull(t *testing.T) {
	bulkhead := resilience.NewBulkhead(1)
	h := newHarness(t, noRates(), bulkhead)
	require.True(t, bulkhead.TryAcquire())

	rec := h.do(t, http.MethodGet, "/v1/cards", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))

	// operational endpoints are outside the bulkhead
	assert.Equal(t, http.StatusOK, h.do(t, http.MethodGet, "/readyz", nil).Code)

	bulkhead.Release()
	assert.Equal(t, http.StatusOK, h.do(t, http.MethodGet, "/v1/cards", nil).Code)
	assert.Equal(t, 0, bulkhead.InUse())
}

func testSnapshot() *domain.ExchangeSnapshot {
	return &domain.ExchangeSnapshot{
		Base: "BRL",
		Rates: map[string]decimal.Decimal{
			"USD": decimal.RequireFromString("0.18"),
			"EUR": decimal.RequireFromString("0.17"),
			"GBP": decimal.RequireFromString("0.15"),
		},
		FetchedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}
