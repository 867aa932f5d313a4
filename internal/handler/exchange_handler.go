package handler

import (
	"net/http"

	"github.com/braiatenebras/trabalhomobile-bryan/internal/service"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ============================================================
// 4. Cotações: GET /v1/sessions/{sessionId}/exchange/conversions
// ============================================================

// conversionsHandler returns the Home conversion panel. Before the first
// successful rate fetch it answers 200 with ready=false and no entries.
func conversionsHandler(sessions *service.SessionManager, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/sessions/{sessionId}/exchange/conversions")
		defer span.End()

		sess, ok := loadSession(w, r, sessions, logger)
		if !ok {
			return
		}

		view, err := sess.Conversions(ctx)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		span.SetAttributes(attribute.Int("exchange.conversions", len(view.Conversions)))
		writeJSON(w, http.StatusOK, view)
	}
}

// ============================================================
// 6. Telas estáticas: cartões e perfil
// ============================================================

func cardsHandler(catalog *service.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, catalog.Cards())
	}
}

func profileHandler(catalog *service.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, catalog.Profile())
	}
}
