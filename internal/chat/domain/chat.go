// Package domain: chat.go define os tipos do assistente virtual do app.
//
// O assistente não usa IA: cada mensagem do usuário é classificada por um
// conjunto fixo e ordenado de regras de palavras-chave (a primeira que casa
// vence) e recebe uma resposta pronta.
//
// O fluxo completo:
//  1. Usuário manda {"query": "..."} → mensagem entra no histórico na hora
//  2. IntentResolver classifica o texto e monta a resposta
//  3. A resposta fica pendente durante a latência simulada ("Digitando...")
//  4. Quando o timer dispara, a resposta entra no histórico na ordem dos envios
package domain

import "time"

// ============================================================
// Mensagens
// ============================================================

// Role identifica quem escreveu a mensagem.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message é uma entrada do histórico. Nunca é alterada nem removida:
// ordem de inserção = ordem de exibição = ordem cronológica.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`

	// OfferReturnToHome indica que a resposta traz o botão
	// "Voltar à Tela Inicial".
	OfferReturnToHome bool `json:"offerReturnToHome"`

	Timestamp time.Time `json:"timestamp"`
}

// Greeting é a primeira mensagem de toda conversa.
const Greeting = "Olá! Sou seu assistente bancário virtual. Como posso ajudar?"

// ============================================================
// Chat: Request/Response entre o app e o BFA
// ============================================================

// ChatRequest é o body do POST /v1/sessions/{sessionId}/chat.
type ChatRequest struct {
	Query string `json:"query"`
}

// ChatAccepted é devolvido no 202: a mensagem do usuário já está no
// histórico e a resposta está a caminho.
type ChatAccepted struct {
	Message Message `json:"message"`
	Typing  bool    `json:"typing"`
}

// Transcript é o histórico completo mais o indicador "Digitando...".
type Transcript struct {
	Messages []Message `json:"messages"`
	Typing   bool      `json:"typing"`
}

// ============================================================
// Intents
// ============================================================

// Category é o assunto detectado numa mensagem.
type Category string

const (
	CategoryExit                Category = "exit"
	CategoryCredits             Category = "credits"
	CategoryGreeting            Category = "greeting"
	CategoryBalance             Category = "balance"
	CategoryPix                 Category = "pix"
	CategoryCards               Category = "cards"
	CategoryPayment             Category = "payment"
	CategoryRecharge            Category = "recharge"
	CategoryCurrency            Category = "currency"
	CategoryCurrencyUnavailable Category = "currency_unavailable"
	CategoryHelp                Category = "help"
	CategoryThanks              Category = "thanks"
	CategoryFallback            Category = "fallback"
)

// Reply é o resultado do IntentResolver para um texto.
type Reply struct {
	Category          Category `json:"category"`
	Response          string   `json:"response"`
	OfferReturnToHome bool     `json:"offerReturnToHome"`
}
