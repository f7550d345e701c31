// Package reminder implements the periodic deadline-reminder sweep.
package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/todo-api/internal/platform/mail"
	"github.com/phrazzld/todo-api/internal/store"
)

// Sweeper periodically selects incomplete todos due within the next
// interval and emails each subscribed owner one message listing their due
// titles.
//
// There is no "already notified" marker: a todo that stays inside the
// window across two sweeps is reported twice. At-least-once per window is
// the accepted behavior.
type Sweeper struct {
	todos    store.TodoStore
	mailer   mail.Mailer
	sender   string
	interval time.Duration
	timeFunc func() time.Time // Injectable for testing
	logger   *slog.Logger
}

// NewSweeper creates a Sweeper. interval is both the sweep period and the
// look-ahead window.
func NewSweeper(
	todos store.TodoStore,
	mailer mail.Mailer,
	sender string,
	interval time.Duration,
	logger *slog.Logger,
) *Sweeper {
	if logger == nil {
		logger = slog.Default()
	}

	return &Sweeper{
		todos:    todos,
		mailer:   mailer,
		sender:   sender,
		interval: interval,
		timeFunc: time.Now,
		logger:   logger.With(slog.String("component", "reminder_sweeper")),
	}
}

// Run executes sweeps on a fixed ticker until ctx is cancelled.
// A failed sweep is logged and swallowed; the schedule continues at the
// next tick. Intended to be started on its own goroutine.
func (s *Sweeper) Run(ctx context.Context) {
	s.logger.Info("reminder sweeper started",
		slog.Duration("interval", s.interval))

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("reminder sweeper stopped")
			return
		case <-ticker.C:
			if err := s.SweepOnce(ctx); err != nil {
				s.logger.Error("reminder sweep failed",
					slog.String("error", err.Error()))
			}
		}
	}
}

// SweepOnce performs a single sweep: select due todos, group them by
// owner and send one email per owner. Send failures for one owner do not
// stop delivery to the others.
func (s *Sweeper) SweepOnce(ctx context.Context) error {
	now := s.timeFunc().UTC()

	due, err := s.todos.ListDueBetween(ctx, now, now.Add(s.interval))
	if err != nil {
		return fmt.Errorf("failed to select due todos: %w", err)
	}

	if len(due) == 0 {
		s.logger.Debug("no due todos in window")
		return nil
	}

	// Group by owner, preserving the store's owner ordering.
	type ownerBatch struct {
		name   string
		email  string
		titles []string
	}
	order := []string{}
	batches := map[string]*ownerBatch{}
	for _, d := range due {
		key := d.Todo.UserID.String()
		batch, ok := batches[key]
		if !ok {
			batch = &ownerBatch{name: d.OwnerName, email: d.OwnerEmail}
			batches[key] = batch
			order = append(order, key)
		}
		batch.titles = append(batch.titles, d.Todo.Title)
	}

	var failed int
	for _, key := range order {
		batch := batches[key]
		body := mail.ReminderBody(batch.name, batch.titles)
		if err := s.mailer.Send(ctx, s.sender, batch.email, mail.ReminderSubject, body); err != nil {
			failed++
			s.logger.Error("failed to send reminder email",
				slog.String("error", err.Error()),
				slog.String("user_id", key))
		}
	}

	s.logger.Info("reminder sweep completed",
		slog.Int("due_todos", len(due)),
		slog.Int("owners", len(order)),
		slog.Int("failed_sends", failed))

	if failed > 0 {
		return fmt.Errorf("failed to send %d of %d reminder emails", failed, len(order))
	}
	return nil
}
