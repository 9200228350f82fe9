// Package reminder schedules card reminder delivery. Every card has at
// most one pending timer, keyed by card id: scheduling again replaces
// the previous timer, and clearing the reminder or deleting the card
// cancels it. Times already in the past fire on the next tick.
package reminder

import (
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

const reminderTitle = "Task reminder"

// Notifier delivers a fired reminder. Implementations must be safe for
// concurrent use; delivery runs on the timer's goroutine.
type Notifier interface {
	Notify(cardID, title, body string)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(cardID, title, body string)

func (f NotifierFunc) Notify(cardID, title, body string) { f(cardID, title, body) }

// NewLogNotifier returns a Notifier that records deliveries on the given
// logger. Used when no native notification channel is wired in.
func NewLogNotifier(logger *log.Logger) Notifier {
	return NotifierFunc(func(cardID, title, body string) {
		logger.WithField("card_id", cardID).Infof("%s: %s", title, body)
	})
}

type pendingTimer struct {
	timer *time.Timer
	gen   uint64
}

// Scheduler owns the pending reminder timers. A stale timer that loses
// the race against a replacement or a cancel never reaches the Notifier:
// each schedule carries a generation number and a fire only delivers if
// its generation is still the current one for that card.
type Scheduler struct {
	notifier Notifier
	logger   *log.Logger

	mu      sync.Mutex
	pending map[string]pendingTimer
	nextGen uint64
	stopped bool
}

// NewScheduler returns a Scheduler delivering through notifier.
func NewScheduler(notifier Notifier, logger *log.Logger) *Scheduler {
	return &Scheduler{
		notifier: notifier,
		logger:   logger,
		pending:  make(map[string]pendingTimer),
	}
}

// Schedule arranges delivery for the card at the given RFC 3339 time,
// replacing any timer already pending for that card. A time in the past
// schedules an immediate fire.
func (s *Scheduler) Schedule(cardID, remindAt string) error {
	when, err := time.Parse(time.RFC3339, remindAt)
	if err != nil {
		return fmt.Errorf("parsing reminder time %q: %w", remindAt, err)
	}

	delay := time.Until(when)
	if delay < 0 {
		delay = 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return nil
	}
	if prev, ok := s.pending[cardID]; ok {
		prev.timer.Stop()
	}
	s.nextGen++
	gen := s.nextGen
	s.pending[cardID] = pendingTimer{
		timer: time.AfterFunc(delay, func() { s.fire(cardID, gen) }),
		gen:   gen,
	}
	s.logger.WithField("card_id", cardID).Debugf("reminder scheduled in %s", delay.Round(time.Millisecond))
	return nil
}

// Sync reconciles the card's timer with its stored reminder: a non-empty
// remindAt schedules, nil or empty cancels.
func (s *Scheduler) Sync(cardID string, remindAt *string) error {
	if remindAt == nil || *remindAt == "" {
		s.Cancel(cardID)
		return nil
	}
	return s.Schedule(cardID, *remindAt)
}

// Cancel drops the pending reminder for the card, if any.
func (s *Scheduler) Cancel(cardID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if prev, ok := s.pending[cardID]; ok {
		prev.timer.Stop()
		delete(s.pending, cardID)
		s.logger.WithField("card_id", cardID).Debug("reminder cancelled")
	}
}

// Pending reports how many reminders are waiting to fire.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Stop cancels every pending reminder. The scheduler accepts no new
// schedules afterwards.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	for id, p := range s.pending {
		p.timer.Stop()
		delete(s.pending, id)
	}
}

func (s *Scheduler) fire(cardID string, gen uint64) {
	s.mu.Lock()
	current, ok := s.pending[cardID]
	if !ok || current.gen != gen || s.stopped {
		s.mu.Unlock()
		return
	}
	delete(s.pending, cardID)
	s.mu.Unlock()

	s.logger.WithField("card_id", cardID).Info("reminder fired")
	s.notifier.Notify(cardID, reminderTitle, "You asked to be reminded about card "+cardID)
}
