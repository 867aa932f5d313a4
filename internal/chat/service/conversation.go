// Package service: conversation.go implementa a ConversationSession.
//
// ============================================================
// ENTREGA ATRASADA: fila FIFO com horário de entrega
// ============================================================
//
// Enviar uma mensagem é uma operação em duas fases:
//  1. A mensagem do usuário entra no histórico na hora
//  2. A resposta é resolvida no momento do envio (saldo e câmbio daquele
//     instante) e fica pendente até due = agora + latência
//
// Como todas as respostas têm a mesma latência, a fila de pendentes já está
// ordenada por due. Cada timer só chama DeliverDue, que entrega TODAS as
// pendentes vencidas, da mais antiga para a mais nova. Assim a ordem no
// histórico nunca depende da ordem em que as goroutines dos timers acordam:
//
//	envia A, envia B (antes da resposta de A) → [A, B, resposta-A, resposta-B]
//
// A Conversation não é thread-safe: o loop da sessão é o único dono.
package service

import (
	"strconv"
	"strings"
	"time"

	"github.com/braiatenebras/trabalhomobile-bryan/internal/chat/domain"
	"github.com/braiatenebras/trabalhomobile-bryan/internal/chat/port"
	maindomain "github.com/braiatenebras/trabalhomobile-bryan/internal/domain"
)

// pendingReply é uma resposta já resolvida aguardando a latência.
type pendingReply struct {
	due   time.Time
	reply domain.Reply
}

// Conversation é o histórico append-only de uma sessão de chat.
type Conversation struct {
	resolver  *IntentResolver
	scheduler port.Scheduler
	latency   time.Duration

	messages []domain.Message
	pending  []pendingReply

	// onDeliver é chamado a cada resposta que entra no histórico (métricas).
	onDeliver func(domain.Reply)
}

// NewConversation cria o histórico já com a saudação do assistente.
// onDeliver pode ser nil.
func NewConversation(
	resolver *IntentResolver,
	scheduler port.Scheduler,
	latency time.Duration,
	onDeliver func(domain.Reply),
) *Conversation {
	if latency < 0 {
		latency = 0
	}
	c := &Conversation{
		resolver:  resolver,
		scheduler: scheduler,
		latency:   latency,
		onDeliver: onDeliver,
	}
	c.messages = append(c.messages, domain.Message{
		Role:      domain.RoleAssistant,
		Content:   domain.Greeting,
		Timestamp: scheduler.Now(),
	})
	return c
}

// Send registra a mensagem do usuário e agenda a resposta.
// Texto em branco é rejeitado sem alterar o histórico.
func (c *Conversation) Send(text string, facts port.Facts) (domain.Message, domain.Reply, error) {
	if strings.TrimSpace(text) == "" {
		return domain.Message{}, domain.Reply{}, &maindomain.ErrValidation{
			Field:   "query",
			Message: "Digite uma mensagem",
		}
	}

	now := c.scheduler.Now()
	msg := domain.Message{
		Role:      domain.RoleUser,
		Content:   text,
		Timestamp: now,
	}
	c.messages = append(c.messages, msg)

	reply := c.resolver.Resolve(text, facts)
	c.pending = append(c.pending, pendingReply{
		due:   now.Add(c.latency),
		reply: reply,
	})
	c.scheduler.Schedule(c.latency, func() {
		c.DeliverDue(c.scheduler.Now())
	})

	return msg, reply, nil
}

// DeliverDue move para o histórico todas as respostas com due <= now,
// na ordem dos envios. Devolve quantas foram entregues.
func (c *Conversation) DeliverDue(now time.Time) int {
	delivered := 0
	for len(c.pending) > 0 && !c.pending[0].due.After(now) {
		p := c.pending[0]
		c.pending = c.pending[1:]

		c.messages = append(c.messages, domain.Message{
			Role:              domain.RoleAssistant,
			Content:           p.reply.Response,
			OfferReturnToHome: p.reply.OfferReturnToHome,
			Timestamp:         now,
		})
		delivered++

		if c.onDeliver != nil {
			c.onDeliver(p.reply)
		}
	}
	return delivered
}

// Typing é o indicador "Digitando...": true enquanto houver resposta pendente.
func (c *Conversation) Typing() bool {
	return len(c.pending) > 0
}

// Pending devolve quantas respostas ainda não chegaram.
func (c *Conversation) Pending() int {
	return len(c.pending)
}

// Messages devolve uma cópia do histórico completo.
func (c *Conversation) Messages() []domain.Message {
	out := make([]domain.Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// Transcript devolve o histórico mais o indicador de digitação.
func (c *Conversation) Transcript() domain.Transcript {
	return domain.Transcript{
		Messages: c.Messages(),
		Typing:   c.Typing(),
	}
}

// Message devolve a mensagem na posição index.
func (c *Conversation) Message(index int) (domain.Message, error) {
	if index < 0 || index >= len(c.messages) {
		return domain.Message{}, &maindomain.ErrNotFound{
			Resource: "message",
			ID:       strconv.Itoa(index),
		}
	}
	return c.messages[index], nil
}
