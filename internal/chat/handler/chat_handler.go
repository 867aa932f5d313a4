// Package handler: chat_handler.go implementa as rotas do assistente virtual
// de uma sessão do app.
//
// ============================================================
// ROTAS DO CHAT
// ============================================================
//
// POST /v1/sessions/{sessionId}/chat                             → envia mensagem (202)
// GET  /v1/sessions/{sessionId}/chat/messages                    → histórico + "Digitando..."
// POST /v1/sessions/{sessionId}/chat/messages/{index}/return-home → botão "Voltar à Tela Inicial"
//
// O envio devolve 202 porque a resposta do assistente só entra no histórico
// depois da latência simulada. O app faz polling em /chat/messages enquanto
// typing=true.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/braiatenebras/trabalhomobile-bryan/internal/chat/domain"
	maindomain "github.com/braiatenebras/trabalhomobile-bryan/internal/domain"
	"github.com/braiatenebras/trabalhomobile-bryan/internal/service"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// tracer é o tracer OpenTelemetry para o módulo chat/handler.
var tracer = otel.Tracer("chat/handler")

// ============================================================
// SendHandler: POST /v1/sessions/{sessionId}/chat
// ============================================================

// SendHandler recebe {"query": "..."}, grava a mensagem do usuário e agenda
// a resposta.
//
// Response (202 Accepted):
//
//	{"message": {"role": "user", "content": "qual meu saldo", ...}, "typing": true}
//
// O handler é fino: toda a lógica (intent, fila de respostas) fica na sessão.
func SendHandler(sessions *service.SessionManager, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/sessions/{sessionId}/chat")
		defer span.End()

		sessionID := chi.URLParam(r, "sessionId")
		span.SetAttributes(attribute.String("session.id", sessionID))

		// Decodifica o body: esperamos {"query": "..."}
		var req domain.ChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body: expected {\"query\": \"your message\"}", "")
			return
		}

		sess, err := sessions.Get(ctx, sessionID)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		accepted, err := sess.SendChat(ctx, req.Query)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusAccepted, accepted)
	}
}

// ============================================================
// MessagesHandler: GET /v1/sessions/{sessionId}/chat/messages
// ============================================================

// MessagesHandler devolve o histórico completo, em ordem, e o indicador
// de digitação.
func MessagesHandler(sessions *service.SessionManager, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/sessions/{sessionId}/chat/messages")
		defer span.End()

		sess, err := sessions.Get(ctx, chi.URLParam(r, "sessionId"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		transcript, err := sess.Transcript(ctx)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, transcript)
	}
}

// ============================================================
// ReturnHomeHandler: POST .../chat/messages/{index}/return-home
// ============================================================

// ReturnHomeHandler aciona o botão embutido numa resposta do assistente.
// Só funciona para mensagens com offerReturnToHome=true.
func ReturnHomeHandler(sessions *service.SessionManager, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/sessions/{sessionId}/chat/messages/{index}/return-home")
		defer span.End()

		index, err := strconv.Atoi(chi.URLParam(r, "index"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "index must be an integer", "")
			return
		}

		sess, err := sessions.Get(ctx, chi.URLParam(r, "sessionId"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		state, err := sess.ReturnHome(ctx, index)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, state)
	}
}

// ============================================================
// Helpers: funções utilitárias do chat handler
// ============================================================

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// writeJSON serializa data como JSON e escreve na response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError escreve uma resposta de erro padronizada.
func writeError(w http.ResponseWriter, status int, msg string, kind maindomain.ErrorKind) {
	writeJSON(w, status, errorResponse{Error: msg, Kind: string(kind)})
}

// handleServiceError mapeia erros de domínio para HTTP status codes.
func handleServiceError(w http.ResponseWriter, err error, logger *zap.Logger) {
	var notFound *maindomain.ErrNotFound
	var validation *maindomain.ErrValidation

	switch {
	case errors.As(err, &notFound):
		writeError(w, http.StatusNotFound, err.Error(), "")
	case errors.As(err, &validation):
		writeError(w, http.StatusBadRequest, err.Error(), maindomain.KindMissingOrInvalidField)
	default:
		logger.Error("unexpected error in chat handler", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error", "")
	}
}
