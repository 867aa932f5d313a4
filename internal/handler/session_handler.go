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
// 1. Sessões
// ============================================================

// loadSession resolves {sessionId}. On failure the error response is
// already written.
func loadSession(w http.ResponseWriter, r *http.Request, sessions *service.SessionManager, logger *zap.Logger) (*service.Session, bool) {
	sessionID := chi.URLParam(r, "sessionId")
	if sessionID == "" {
		writeError(w, http.StatusBadRequest, "sessionId is required")
		return nil, false
	}

	sess, err := sessions.Get(r.Context(), sessionID)
	if err != nil {
		handleServiceError(w, err, logger)
		return nil, false
	}
	return sess, true
}

func createSessionHandler(sessions *service.SessionManager, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/sessions")
		defer span.End()

		sess, err := sessions.Create(ctx)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		span.SetAttributes(attribute.String("session.id", sess.ID))

		state, err := sess.State(ctx)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		w.Header().Set("Location", "/v1/sessions/"+sess.ID)
		writeJSON(w, http.StatusCreated, state)
	}
}

func getSessionHandler(sessions *service.SessionManager, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/sessions/{sessionId}")
		defer span.End()

		sess, ok := loadSession(w, r, sessions, logger)
		if !ok {
			return
		}

		state, err := sess.State(ctx)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, state)
	}
}

func deleteSessionHandler(sessions *service.SessionManager, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /v1/sessions/{sessionId}")
		defer span.End()

		if err := sessions.Delete(ctx, chi.URLParam(r, "sessionId")); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// ============================================================
// 2. Navegação & preferências
// ============================================================

func navigateHandler(sessions *service.SessionManager, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/sessions/{sessionId}/navigation")
		defer span.End()

		var req struct {
			Target string `json:"target"`
		}
		if !decodeBody(w, r, &req) {
			return
		}

		target, err := domain.ParseScreen(req.Target)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		sess, ok := loadSession(w, r, sessions, logger)
		if !ok {
			return
		}

		state, err := sess.Navigate(ctx, target)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, state)
	}
}

func backHandler(sessions *service.SessionManager, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/sessions/{sessionId}/navigation/back")
		defer span.End()

		sess, ok := loadSession(w, r, sessions, logger)
		if !ok {
			return
		}

		state, err := sess.Back(ctx)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, state)
	}
}

func toggleBalanceHandler(sessions *service.SessionManager, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/sessions/{sessionId}/balance/visibility")
		defer span.End()

		sess, ok := loadSession(w, r, sessions, logger)
		if !ok {
			return
		}

		state, err := sess.ToggleBalance(ctx)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, state)
	}
}
