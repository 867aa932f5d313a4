package service_test

import (
	"testing"
	"time"

	"github.com/braiatenebras/trabalhomobile-bryan/internal/chat/domain"
	"github.com/braiatenebras/trabalhomobile-bryan/internal/chat/service"
	maindomain "github.com/braiatenebras/trabalhomobile-bryan/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Fake scheduler ---

// manualScheduler records scheduled jobs; tests move time and run them.
type manualScheduler struct {
	now  time.Time
	jobs []scheduledJob
}

type scheduledJob struct {
	at time.Time
	fn func()
}

func newManualScheduler() *manualScheduler {
	return &manualScheduler{now: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)}
}

func (s *manualScheduler) Now() time.Time { return s.now }

func (s *manualScheduler) Schedule(d time.Duration, fn func()) {
	s.jobs = append(s.jobs, scheduledJob{at: s.now.Add(d), fn: fn})
}

// advance moves time and runs due jobs in the given order.
func (s *manualScheduler) advance(d time.Duration, reverse bool) {
	s.now = s.now.Add(d)

	var due, rest []scheduledJob
	for _, j := range s.jobs {
		if !j.at.After(s.now) {
			due = append(due, j)
		} else {
			rest = append(rest, j)
		}
	}
	s.jobs = rest

	if reverse {
		for i := len(due) - 1; i >= 0; i-- {
			due[i].fn()
		}
		return
	}
	for _, j := range due {
		j.fn()
	}
}

func contents(msgs []domain.Message) []string {
	out := make([]string, len(msgs))
	for i, m := range msgs {
		out[i] = m.Content
	}
	return out
}

// --- Tests ---

func TestConversation_StartsWithGreeting(t *testing.T) {
	c := service.NewConversation(service.NewIntentResolver(), newManualScheduler(), time.Second, nil)

	msgs := c.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, domain.RoleAssistant, msgs[0].Role)
	assert.Equal(t, domain.Greeting, msgs[0].Content)
	assert.False(t, c.Typing())
}

func TestConversation_TwoPhaseSend(t *testing.T) {
	sched := newManualScheduler()
	c := service.NewConversation(service.NewIntentResolver(), sched, 800*time.Millisecond, nil)

	msg, reply, err := c.Send("qual meu saldo", facts("25000.00", nil))
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, msg.Role)
	assert.Equal(t, domain.CategoryBalance, reply.Category)

	// user message is visible immediately, reply is pending
	assert.Len(t, c.Messages(), 2)
	assert.True(t, c.Typing())

	sched.advance(799*time.Millisecond, false)
	assert.Len(t, c.Messages(), 2)
	assert.True(t, c.Typing())

	sched.advance(time.Millisecond, false)
	msgs := c.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, "Seu saldo atual é R$ 25.000,00.", msgs[2].Content)
	assert.False(t, c.Typing())
}

func TestConversation_FIFOUnderOverlappingSends(t *testing.T) {
	sched := newManualScheduler()
	c := service.NewConversation(service.NewIntentResolver(), sched, time.Second, nil)

	_, _, err := c.Send("oi", facts("25000.00", nil))
	require.NoError(t, err)
	sched.advance(300*time.Millisecond, false)
	_, _, err = c.Send("ajuda", facts("25000.00", nil))
	require.NoError(t, err)
	assert.Equal(t, 2, c.Pending())

	// timers wake up in the wrong order; delivery order must not change
	sched.advance(2*time.Second, true)

	got := contents(c.Messages())
	require.Len(t, got, 5)
	assert.Equal(t, "oi", got[1])
	assert.Equal(t, "ajuda", got[2])
	assert.Contains(t, got[3], "Sou seu assistente bancário")
	assert.Contains(t, got[4], "Posso ajudar com:")
	assert.False(t, c.Typing())
}

func TestConversation_FirstReplyLandsBeforeSecond(t *testing.T) {
	sched := newManualScheduler()
	c := service.NewConversation(service.NewIntentResolver(), sched, time.Second, nil)

	_, _, _ = c.Send("oi", facts("1", nil))
	sched.advance(500*time.Millisecond, false)
	_, _, _ = c.Send("valeu", facts("1", nil))

	sched.advance(500*time.Millisecond, false)
	assert.Equal(t, 1, c.Pending())
	assert.True(t, c.Typing())

	sched.advance(500*time.Millisecond, false)
	got := contents(c.Messages())
	require.Len(t, got, 5)
	assert.Equal(t, []string{"oi", "valeu"}, []string{got[1], got[2]})
	assert.Contains(t, got[4], "Por nada!")
}

func TestConversation_ReplyResolvedAtSendTime(t *testing.T) {
	sched := newManualScheduler()
	c := service.NewConversation(service.NewIntentResolver(), sched, time.Second, nil)

	_, _, _ = c.Send("saldo", facts("25000.00", nil))
	// balance changes while the reply is in flight
	_, _, _ = c.Send("saldo", facts("24500.00", nil))
	sched.advance(time.Second, false)

	got := contents(c.Messages())
	assert.Equal(t, "Seu saldo atual é R$ 25.000,00.", got[3])
	assert.Equal(t, "Seu saldo atual é R$ 24.500,00.", got[4])
}

func TestConversation_BlankTextRejected(t *testing.T) {
	c := service.NewConversation(service.NewIntentResolver(), newManualScheduler(), time.Second, nil)

	_, _, err := c.Send("   ", facts("1", nil))

	var verr *maindomain.ErrValidation
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, maindomain.KindMissingOrInvalidField, maindomain.KindOf(err))
	assert.Len(t, c.Messages(), 1)
	assert.False(t, c.Typing())
}

func TestConversation_OnDeliverHook(t *testing.T) {
	sched := newManualScheduler()
	var delivered []domain.Category
	c := service.NewConversation(service.NewIntentResolver(), sched, 0, func(r domain.Reply) {
		delivered = append(delivered, r.Category)
	})

	_, _, _ = c.Send("quero voltar", facts("1", nil))
	sched.advance(0, false)

	assert.Equal(t, []domain.Category{domain.CategoryExit}, delivered)

	msg, err := c.Message(2)
	require.NoError(t, err)
	assert.True(t, msg.OfferReturnToHome)
}

func TestConversation_MessageOutOfRange(t *testing.T) {
	c := service.NewConversation(service.NewIntentResolver(), newManualScheduler(), time.Second, nil)

	_, err := c.Message(7)

	var nf *maindomain.ErrNotFound
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "message", nf.Resource)
}

func TestConversation_MessagesIsACopy(t *testing.T) {
	c := service.NewConversation(service.NewIntentResolver(), newManualScheduler(), time.Second, nil)

	msgs := c.Messages()
	msgs[0].Content = "changed"

	assert.Equal(t, domain.Greeting, c.Messages()[0].Content)
}
