package handler

import (
	"fmt"
	"net/http"
	"time"

	chathandler "github.com/braiatenebras/trabalhomobile-bryan/internal/chat/handler"
	"github.com/braiatenebras/trabalhomobile-bryan/internal/domain"
	"github.com/braiatenebras/trabalhomobile-bryan/internal/infra/observability"
	"github.com/braiatenebras/trabalhomobile-bryan/internal/infra/resilience"
	"github.com/braiatenebras/trabalhomobile-bryan/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("handler")

// NewRouter creates the HTTP router with all routes and middleware.
// bulkhead may be nil, in which case API concurrency is not capped.
func NewRouter(
	sessions *service.SessionManager,
	exchange *service.ExchangeService,
	catalog *service.Catalog,
	metrics *observability.Metrics,
	bulkhead *resilience.Bulkhead,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// --- Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.ZapLoggerMiddleware(logger))
	r.Use(observability.TracingMiddleware)
	r.Use(observability.RecoverMiddleware(logger))
	r.Use(middleware.Heartbeat("/ping"))

	// --- Operational endpoints ---
	r.Get("/healthz", healthzHandler(exchange, sessions))
	r.Get("/readyz", readyzHandler())
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	// --- API v1 ---
	r.Route("/v1", func(r chi.Router) {
		if bulkhead != nil {
			r.Use(BulkheadMiddleware(bulkhead, logger))
		}

		// =============================================
		// 1. 📱 Sessões (uma instância do app)
		// =============================================
		r.Post("/sessions", createSessionHandler(sessions, logger))

		r.Route("/sessions/{sessionId}", func(r chi.Router) {
			r.Get("/", getSessionHandler(sessions, logger))
			r.Delete("/", deleteSessionHandler(sessions, logger))

			// =============================================
			// 2. 🧭 Navegação & preferências
			// =============================================
			r.Post("/navigation", navigateHandler(sessions, logger))
			r.Post("/navigation/back", backHandler(sessions, logger))
			r.Post("/balance/visibility", toggleBalanceHandler(sessions, logger))

			// =============================================
			// 3. 💸 Operações (Pix, Recarga, Boleto, Transferência)
			// =============================================
			r.Post("/pix", submitHandler[domain.PixTransfer](sessions, "POST /v1/sessions/{sessionId}/pix", logger))
			r.Post("/recharge", submitHandler[domain.Recharge](sessions, "POST /v1/sessions/{sessionId}/recharge", logger))
			r.Post("/bills/pay", submitHandler[domain.BillPayment](sessions, "POST /v1/sessions/{sessionId}/bills/pay", logger))
			r.Post("/transfers", submitHandler[domain.PeerTransfer](sessions, "POST /v1/sessions/{sessionId}/transfers", logger))
			r.Get("/transfers/contacts", listContactsHandler(sessions, catalog, logger))
			r.Post("/transfers/contacts/{name}/select", selectContactHandler(sessions, logger))

			// =============================================
			// 4. 💱 Cotações
			// =============================================
			r.Get("/exchange/conversions", conversionsHandler(sessions, logger))

			// =============================================
			// 5. 💬 Assistente virtual
			// =============================================
			r.Post("/chat", chathandler.SendHandler(sessions, logger))
			r.Get("/chat/messages", chathandler.MessagesHandler(sessions, logger))
			r.Post("/chat/messages/{index}/return-home", chathandler.ReturnHomeHandler(sessions, logger))
		})

		// =============================================
		// 6. 💳 Telas estáticas
		// =============================================
		r.Get("/cards", cardsHandler(catalog))
		r.Get("/profile", profileHandler(catalog))

		// =============================================
		// 7. 📊 Métricas
		// =============================================
		r.Get("/metrics/app", appMetricsHandler(metrics))
	})

	return r
}

// ============================================================
// Health & Metrics
// ============================================================

func healthzHandler(exchange *service.ExchangeService, sessions *service.SessionManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		now := time.Now().UTC().Format(time.RFC3339)

		services := []domain.ServiceHealth{
			{Name: "bankapp-api", Status: "healthy", LastChecked: now},
		}
		if sessions != nil {
			services[0].Detail = sessionsDetail(sessions.Len())
		}
		if exchange != nil {
			services = append(services, exchange.Health())
		}

		overallStatus := "healthy"
		for _, s := range services {
			if s.Status == "unhealthy" {
				overallStatus = "unhealthy"
				break
			}
			if s.Status == "degraded" {
				overallStatus = "degraded"
			}
		}

		writeJSON(w, http.StatusOK, domain.HealthStatus{
			Status:   overallStatus,
			Services: services,
		})
	}
}

func sessionsDetail(n int) string {
	return fmt.Sprintf("%d active sessions", n)
}

func appMetricsHandler(metrics *observability.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, metrics.GetAppSnapshot())
	}
}

// ============================================================
// Probes
// ============================================================

func readyzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}
