package service

import (
	"context"
	"errors"
	"time"

	chatdomain "github.com/braiatenebras/trabalhomobile-bryan/internal/chat/domain"
	chatport "github.com/braiatenebras/trabalhomobile-bryan/internal/chat/port"
	chatservice "github.com/braiatenebras/trabalhomobile-bryan/internal/chat/service"
	"github.com/braiatenebras/trabalhomobile-bryan/internal/domain"
	"github.com/braiatenebras/trabalhomobile-bryan/internal/infra/observability"

	"github.com/jonboulle/clockwork"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var sessionTracer = otel.Tracer("service/session")

// Session is one running instance of the app: its balance, active screen,
// chat transcript, form drafts and display preferences. All of it is owned
// by the session loop; exported methods submit work to the loop and wait.
type Session struct {
	ID        string
	CreatedAt time.Time

	loop *Loop

	// owned by loop
	account        *domain.Account
	nav            *NavigationController
	conv           *chatservice.Conversation
	forms          domain.Forms
	balanceVisible bool

	rates   chatport.RatesReader
	catalog *Catalog
	metrics *observability.Metrics
	logger  *zap.Logger
}

// sessionDeps are shared by every session of a manager.
type sessionDeps struct {
	resolver     *chatservice.IntentResolver
	rates        chatport.RatesReader
	catalog      *Catalog
	clock        clockwork.Clock
	replyLatency time.Duration
	metrics      *observability.Metrics
	logger       *zap.Logger
}

func newSession(id string, seed decimal.Decimal, deps sessionDeps) *Session {
	logger := deps.logger.With(zap.String("session_id", id))
	loop := NewLoop(logger)

	s := &Session{
		ID:             id,
		CreatedAt:      deps.clock.Now().UTC(),
		loop:           loop,
		account:        domain.NewAccount(seed),
		forms:          domain.NewForms(),
		balanceVisible: true,
		rates:          deps.rates,
		catalog:        deps.catalog,
		metrics:        deps.metrics,
		logger:         logger,
	}

	s.nav = NewNavigationController(func(from, to domain.Screen, ev domain.NavEvent) {
		s.metrics.IncrNavigation(string(from), string(to))
		s.logger.Debug("navigation",
			zap.String("from", string(from)),
			zap.String("to", string(to)),
			zap.String("event", string(ev.Type)),
		)
	})

	s.conv = chatservice.NewConversation(
		deps.resolver,
		loopScheduler{clock: deps.clock, loop: loop},
		deps.replyLatency,
		func(chatdomain.Reply) { s.metrics.IncrReplyDelivered() },
	)
	return s
}

// do runs fn on the loop, mapping a closed loop to a missing session.
func (s *Session) do(ctx context.Context, fn func()) error {
	err := s.loop.Do(ctx, fn)
	if errors.Is(err, ErrLoopClosed) {
		return &domain.ErrNotFound{Resource: "session", ID: s.ID}
	}
	return err
}

func (s *Session) close() {
	s.loop.Close()
}

// ============================================================
// State & navigation
// ============================================================

// State returns the current read model.
func (s *Session) State(ctx context.Context) (*domain.SessionState, error) {
	ctx, span := sessionTracer.Start(ctx, "Session.State")
	defer span.End()

	var st *domain.SessionState
	if err := s.do(ctx, func() { st = s.state() }); err != nil {
		return nil, err
	}
	return st, nil
}

// Navigate handles a tap that opens target.
func (s *Session) Navigate(ctx context.Context, target domain.Screen) (*domain.SessionState, error) {
	ctx, span := sessionTracer.Start(ctx, "Session.Navigate")
	defer span.End()
	span.SetAttributes(attribute.String("screen.target", string(target)))

	return s.applyNav(ctx, domain.Tap(target))
}

// Back handles the "Voltar" action.
func (s *Session) Back(ctx context.Context) (*domain.SessionState, error) {
	ctx, span := sessionTracer.Start(ctx, "Session.Back")
	defer span.End()

	return s.applyNav(ctx, domain.NavEvent{Type: domain.NavBack})
}

func (s *Session) applyNav(ctx context.Context, ev domain.NavEvent) (*domain.SessionState, error) {
	var st *domain.SessionState
	err := s.do(ctx, func() {
		s.nav.Apply(ev)
		st = s.state()
	})
	if err != nil {
		return nil, err
	}
	return st, nil
}

// ToggleBalance flips balance visibility.
func (s *Session) ToggleBalance(ctx context.Context) (*domain.SessionState, error) {
	ctx, span := sessionTracer.Start(ctx, "Session.ToggleBalance")
	defer span.End()

	var st *domain.SessionState
	err := s.do(ctx, func() {
		s.balanceVisible = !s.balanceVisible
		st = s.state()
	})
	if err != nil {
		return nil, err
	}
	return st, nil
}

// state builds the read model. Must run on the loop.
func (s *Session) state() *domain.SessionState {
	balance := domain.MaskedBalance
	if s.balanceVisible {
		balance = "R$ " + domain.FormatBRL(s.account.Balance())
	}
	return &domain.SessionState{
		SessionID:      s.ID,
		Screen:         s.nav.Current(),
		Balance:        balance,
		BalanceVisible: s.balanceVisible,
		Typing:         s.conv.Typing(),
		Forms:          s.forms,
		ExchangeReady:  s.rates.Snapshot() != nil,
		CreatedAt:      s.CreatedAt,
	}
}

// ============================================================
// Money movement
// ============================================================

// Submit validates req against the current balance and, when every check
// passes, debits the account, clears the form and returns to Home in the
// same loop turn. Any failure leaves balance, screen and draft untouched.
func (s *Session) Submit(ctx context.Context, req domain.TransactionRequest) (*domain.Confirmation, error) {
	ctx, span := sessionTracer.Start(ctx, "Session.Submit")
	defer span.End()
	span.SetAttributes(attribute.String("transaction.kind", string(req.Kind())))

	start := time.Now()
	defer func() {
		s.metrics.RecordRequestDuration("submit_"+string(req.Kind()), time.Since(start))
	}()

	req = normalize(req)

	var conf *domain.Confirmation
	var opErr error
	err := s.do(ctx, func() {
		conf, opErr = s.commit(req)
	})
	if err != nil {
		return nil, err
	}
	if opErr != nil {
		span.SetAttributes(attribute.String("transaction.error_kind", string(domain.KindOf(opErr))))
		return nil, opErr
	}
	return conf, nil
}

// commit is the validate-then-debit step. Must run on the loop.
func (s *Session) commit(req domain.TransactionRequest) (*domain.Confirmation, error) {
	kind := req.Kind()
	s.forms.Store(req)

	amount, err := Validate(req, s.account.Balance())
	if err != nil {
		s.metrics.IncrTransaction(string(kind), observability.StatusRejected)
		s.logger.Info("transaction rejected",
			zap.String("kind", string(kind)),
			zap.String("error_kind", string(domain.KindOf(err))),
			zap.String("reason", err.Error()),
		)
		return nil, err
	}

	newBalance, err := s.account.Debit(amount)
	if err != nil {
		s.metrics.IncrTransaction(string(kind), observability.StatusRejected)
		return nil, err
	}

	s.forms.Clear(kind)
	screen := s.nav.Apply(domain.NavEvent{Type: domain.NavCommitted})

	s.metrics.IncrTransaction(string(kind), observability.StatusCommitted)
	s.metrics.AddDebited(string(kind), amount.InexactFloat64())
	s.logger.Info("transaction committed",
		zap.String("kind", string(kind)),
		zap.String("amount", domain.FormatFixed(amount)),
		zap.String("new_balance", domain.FormatFixed(newBalance)),
	)

	return &domain.Confirmation{
		Kind:       kind,
		Amount:     amount,
		NewBalance: newBalance,
		Message:    ConfirmationMessage(req, amount),
		Screen:     screen,
	}, nil
}

// SelectContact fills the transfer recipient with a recent contact.
func (s *Session) SelectContact(ctx context.Context, name string) (*domain.ContactSelection, error) {
	ctx, span := sessionTracer.Start(ctx, "Session.SelectContact")
	defer span.End()

	ct, err := s.catalog.Contact(name)
	if err != nil {
		return nil, err
	}

	err = s.do(ctx, func() {
		s.forms.Transfer.Recipient = ct.Name
	})
	if err != nil {
		return nil, err
	}
	return contactSelection(ct), nil
}

// Conversions expresses the current balance in the Home panel currencies.
func (s *Session) Conversions(ctx context.Context) (*domain.ConversionsView, error) {
	ctx, span := sessionTracer.Start(ctx, "Session.Conversions")
	defer span.End()

	var balance decimal.Decimal
	if err := s.do(ctx, func() { balance = s.account.Balance() }); err != nil {
		return nil, err
	}
	view := BuildConversions(s.rates.Snapshot(), balance)
	span.SetAttributes(attribute.Bool("exchange.ready", view.Ready))
	return view, nil
}

// ============================================================
// Chat
// ============================================================

// SendChat appends the user message now and schedules the reply.
func (s *Session) SendChat(ctx context.Context, text string) (*chatdomain.ChatAccepted, error) {
	ctx, span := sessionTracer.Start(ctx, "Session.SendChat")
	defer span.End()

	var accepted *chatdomain.ChatAccepted
	var sendErr error
	err := s.do(ctx, func() {
		facts := chatport.Facts{
			Balance:  s.account.Balance(),
			Snapshot: s.rates.Snapshot(),
		}
		msg, reply, err := s.conv.Send(text, facts)
		if err != nil {
			sendErr = err
			return
		}
		s.metrics.IncrIntent(string(reply.Category))
		s.logger.Info("chat message received",
			zap.String("intent", string(reply.Category)),
			zap.Int("query_length", len(text)),
		)
		accepted = &chatdomain.ChatAccepted{Message: msg, Typing: s.conv.Typing()}
	})
	if err != nil {
		return nil, err
	}
	if sendErr != nil {
		return nil, sendErr
	}
	return accepted, nil
}

// Transcript returns every message so far plus the typing indicator.
func (s *Session) Transcript(ctx context.Context) (*chatdomain.Transcript, error) {
	ctx, span := sessionTracer.Start(ctx, "Session.Transcript")
	defer span.End()

	var tr chatdomain.Transcript
	if err := s.do(ctx, func() { tr = s.conv.Transcript() }); err != nil {
		return nil, err
	}
	return &tr, nil
}

// ReturnHome is the button embedded in an assistant reply. Only messages
// that offered it can trigger it.
func (s *Session) ReturnHome(ctx context.Context, index int) (*domain.SessionState, error) {
	ctx, span := sessionTracer.Start(ctx, "Session.ReturnHome")
	defer span.End()
	span.SetAttributes(attribute.Int("chat.message_index", index))

	var st *domain.SessionState
	var opErr error
	err := s.do(ctx, func() {
		msg, err := s.conv.Message(index)
		if err != nil {
			opErr = err
			return
		}
		if !msg.OfferReturnToHome {
			opErr = &domain.ErrValidation{
				Field:   "index",
				Message: "Esta mensagem não oferece retorno à tela inicial",
			}
			return
		}
		s.nav.Apply(domain.NavEvent{Type: domain.NavChatReturnHome})
		st = s.state()
	})
	if err != nil {
		return nil, err
	}
	if opErr != nil {
		return nil, opErr
	}
	return st, nil
}
