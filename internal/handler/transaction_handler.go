package handler

import (
	"net/http"

	"github.com/braiatenebras/trabalhomobile-bryan/internal/domain"
	"github.com/braiatenebras/trabalhomobile-bryan/internal/service"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ============================================================
// 3. Operações: Pix, Recarga, Boleto, Transferência
// ============================================================

// submitHandler decodes the form of one operation kind and submits it to
// the session. Amounts travel as the raw typed string.
func submitHandler[T domain.TransactionRequest](sessions *service.SessionManager, route string, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), route)
		defer span.End()

		var req T
		if !decodeBody(w, r, &req) {
			return
		}
		span.SetAttributes(attribute.String("transaction.kind", string(req.Kind())))

		sess, ok := loadSession(w, r, sessions, logger)
		if !ok {
			return
		}

		conf, err := sess.Submit(ctx, req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, conf)
	}
}

func listContactsHandler(sessions *service.SessionManager, catalog *service.Catalog, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := tracer.Start(r.Context(), "GET /v1/sessions/{sessionId}/transfers/contacts")
		defer span.End()

		if _, ok := loadSession(w, r, sessions, logger); !ok {
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"contacts": catalog.Contacts()})
	}
}

func selectContactHandler(sessions *service.SessionManager, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/sessions/{sessionId}/transfers/contacts/{name}/select")
		defer span.End()

		name := chi.URLParam(r, "name")
		span.SetAttributes(attribute.String("contact.name", name))

		sess, ok := loadSession(w, r, sessions, logger)
		if !ok {
			return
		}

		selection, err := sess.SelectContact(ctx, name)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, selection)
	}
}
