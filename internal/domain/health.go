package domain

// ============================================================
// Health & Metrics API Responses
// ============================================================

// HealthStatus is returned by GET /healthz.
type HealthStatus struct {
	Status   string          `json:"status"` // healthy, degraded, unhealthy
	Services []ServiceHealth `json:"services"`
}

// ServiceHealth represents the health of an individual component.
type ServiceHealth struct {
	Name        string `json:"name"`
	Status      string `json:"status"`
	Detail      string `json:"detail,omitempty"`
	LastChecked string `json:"lastChecked"`
}

// AppMetrics is returned by GET /v1/metrics/app.
type AppMetrics struct {
	TransactionsCommitted int64   `json:"transactionsCommitted"`
	TransactionsRejected  int64   `json:"transactionsRejected"`
	RejectionRate         float64 `json:"rejectionRate"`
	IntentsResolved       int64   `json:"intentsResolved"`
	FallbackRate          float64 `json:"fallbackRate"`
	RepliesDelivered      int64   `json:"repliesDelivered"`
	ExchangeFetchFailures int64   `json:"exchangeFetchFailures"`
	Period                string  `json:"period"`
}
