package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

// ErrLoopClosed is returned by Do once the loop has been closed.
var ErrLoopClosed = errors.New("session loop closed")

// Loop is the single owner of one session's mutable state. Every job runs
// to completion on the loop goroutine before the next one starts, so the
// state it touches needs no locking.
type Loop struct {
	jobs      chan func()
	done      chan struct{}
	closeOnce sync.Once
	logger    *zap.Logger
}

// NewLoop starts a loop goroutine.
func NewLoop(logger *zap.Logger) *Loop {
	l := &Loop{
		jobs:   make(chan func()),
		done:   make(chan struct{}),
		logger: logger,
	}
	go l.run()
	return l
}

func (l *Loop) run() {
	for {
		select {
		case <-l.done:
			return
		case job := <-l.jobs:
			job()
		}
	}
}

// Do runs fn on the loop and waits for it. Once fn has been handed to the
// loop it always runs to completion, even if ctx is cancelled meanwhile.
func (l *Loop) Do(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	var panicked any
	var dropped bool

	job := func() {
		defer close(finished)
		if l.Closed() {
			dropped = true
			return
		}
		defer func() {
			if rec := recover(); rec != nil {
				panicked = rec
				l.logger.Error("session job panicked", zap.Any("panic", rec))
			}
		}()
		fn()
	}

	select {
	case l.jobs <- job:
	case <-l.done:
		return ErrLoopClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	// the loop goroutine is running job now and nothing interrupts it
	<-finished

	if dropped {
		return ErrLoopClosed
	}
	if panicked != nil {
		return fmt.Errorf("session job panicked: %v", panicked)
	}
	return nil
}

// Post schedules fn on the loop without waiting. Jobs posted after Close
// are dropped. Safe to call from any goroutine, including the loop itself.
func (l *Loop) Post(fn func()) {
	go func() {
		job := func() {
			if l.Closed() {
				return
			}
			defer func() {
				if rec := recover(); rec != nil {
					l.logger.Error("posted session job panicked", zap.Any("panic", rec))
				}
			}()
			fn()
		}

		select {
		case l.jobs <- job:
		case <-l.done:
		}
	}()
}

// Close stops the loop. Pending and future jobs are dropped.
func (l *Loop) Close() {
	l.closeOnce.Do(func() { close(l.done) })
}

// Closed reports whether Close was called.
func (l *Loop) Closed() bool {
	select {
	case <-l.done:
		return true
	default:
		return false
	}
}

// loopScheduler fires continuations on a loop after a delay measured on clock.
type loopScheduler struct {
	clock clockwork.Clock
	loop  *Loop
}

func (s loopScheduler) Now() time.Time {
	return s.clock.Now()
}

func (s loopScheduler) Schedule(d time.Duration, fn func()) {
	s.clock.AfterFunc(d, func() { s.loop.Post(fn) })
}
