package observability

import (
	"time"

	"github.com/braiatenebras/trabalhomobile-bryan/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// Transaction statuses used as label values.
const (
	StatusCommitted = "committed"
	StatusRejected  = "rejected"
)

// Metrics holds all Prometheus metrics for the app backend.
type Metrics struct {
	// Registry is the Prometheus registry that owns these metrics.
	// Exposed so the /metrics endpoint can use it.
	Registry *prometheus.Registry

	requestDuration  *prometheus.HistogramVec
	externalErrors   *prometheus.CounterVec
	transactions     *prometheus.CounterVec
	debitedAmount    *prometheus.CounterVec
	intents          *prometheus.CounterVec
	navigations      *prometheus.CounterVec
	exchangeFetches  *prometheus.CounterVec
	repliesDelivered prometheus.Counter
	activeSessions   prometheus.Gauge
}

// NewMetrics creates a dedicated Prometheus registry and registers all
// application metrics in it. Using a private registry avoids "duplicate
// collector" panics when NewMetrics is called more than once (e.g. in tests).
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bankapp_request_duration_seconds",
				Help:    "Duration of requests by operation.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		externalErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bankapp_external_errors_total",
				Help: "Total errors from external services.",
			},
			[]string{"service"},
		),
		transactions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bankapp_transactions_total",
				Help: "Money-movement submissions by kind and outcome.",
			},
			[]string{"kind", "status"},
		),
		debitedAmount: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bankapp_debited_brl_total",
				Help: "Total BRL debited by committed operations.",
			},
			[]string{"kind"},
		),
		intents: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bankapp_chat_intents_total",
				Help: "Chat messages by resolved category.",
			},
			[]string{"category"},
		),
		navigations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bankapp_navigation_transitions_total",
				Help: "Screen transitions.",
			},
			[]string{"from", "to"},
		),
		exchangeFetches: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bankapp_exchange_fetches_total",
				Help: "Exchange-rate snapshot fetches by outcome.",
			},
			[]string{"status"},
		),
		repliesDelivered: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "bankapp_chat_replies_delivered_total",
				Help: "Assistant replies appended after the typing delay.",
			},
		),
		activeSessions: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "bankapp_active_sessions",
				Help: "App sessions currently held in memory.",
			},
		),
	}
}

// RecordRequestDuration records the duration of an operation.
func (m *Metrics) RecordRequestDuration(operation string, d time.Duration) {
	m.requestDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// IncrExternalError increments the external error counter.
func (m *Metrics) IncrExternalError(service string) {
	m.externalErrors.WithLabelValues(service).Inc()
}

// IncrTransaction counts a submission with status committed or rejected.
func (m *Metrics) IncrTransaction(kind, status string) {
	m.transactions.WithLabelValues(kind, status).Inc()
}

// AddDebited adds a committed amount in BRL.
func (m *Metrics) AddDebited(kind string, amount float64) {
	m.debitedAmount.WithLabelValues(kind).Add(amount)
}

// IncrIntent counts a resolved chat message.
func (m *Metrics) IncrIntent(category string) {
	m.intents.WithLabelValues(category).Inc()
}

// IncrNavigation counts a screen transition.
func (m *Metrics) IncrNavigation(from, to string) {
	m.navigations.WithLabelValues(from, to).Inc()
}

// IncrExchangeFetch counts a snapshot fetch with status success or failure.
func (m *Metrics) IncrExchangeFetch(status string) {
	m.exchangeFetches.WithLabelValues(status).Inc()
}

// IncrReplyDelivered counts an assistant reply landing in a transcript.
func (m *Metrics) IncrReplyDelivered() {
	m.repliesDelivered.Inc()
}

// SetActiveSessions sets the live session gauge.
func (m *Metrics) SetActiveSessions(n int) {
	m.activeSessions.Set(float64(n))
}

// GetAppSnapshot returns a snapshot of app metrics suitable for the
// GET /v1/metrics/app endpoint.
func (m *Metrics) GetAppSnapshot() *domain.AppMetrics {
	var committed, rejected float64
	for _, kind := range []domain.TransactionKind{
		domain.KindPix, domain.KindRecharge, domain.KindBillPayment, domain.KindPeerTransfer,
	} {
		committed += getCounterValue(m.transactions, string(kind), StatusCommitted)
		rejected += getCounterValue(m.transactions, string(kind), StatusRejected)
	}

	var intents, fallbacks float64
	for _, category := range IntentCategories {
		v := getCounterValue(m.intents, category)
		intents += v
		if category == "fallback" {
			fallbacks = v
		}
	}

	rejectionRate := float64(0)
	if committed+rejected > 0 {
		rejectionRate = rejected / (committed + rejected)
	}
	fallbackRate := float64(0)
	if intents > 0 {
		fallbackRate = fallbacks / intents
	}

	return &domain.AppMetrics{
		TransactionsCommitted: int64(committed),
		TransactionsRejected:  int64(rejected),
		RejectionRate:         rejectionRate,
		IntentsResolved:       int64(intents),
		FallbackRate:          fallbackRate,
		RepliesDelivered:      int64(readCounter(m.repliesDelivered)),
		ExchangeFetchFailures: int64(getCounterValue(m.exchangeFetches, "failure")),
		Period:                "all_time",
	}
}

// IntentCategories are the label values GetAppSnapshot sums over.
var IntentCategories = []string{
	"exit", "credits", "greeting", "balance", "pix", "cards", "payment",
	"recharge", "currency", "currency_unavailable", "help", "thanks", "fallback",
}

// getCounterValue extracts the current float64 value from a CounterVec for the given labels.
func getCounterValue(cv *prometheus.CounterVec, labels ...string) float64 {
	return readCounter(cv.WithLabelValues(labels...))
}

func readCounter(c prometheus.Counter) float64 {
	m := &dto.Metric{}
	if err := c.Write(m); err != nil {
		return 0
	}
	if m.Counter != nil && m.Counter.Value != nil {
		return *m.Counter.Value
	}
	return 0
}
