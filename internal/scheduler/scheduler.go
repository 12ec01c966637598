package scheduler

import (
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// Sender delivers a formatted update into a chat. Implemented by the telegram layer.
type Sender interface {
	Send(chatID int64, text string) error
}

// UpdateFunc produces the text of one price update. An error means the update
// could not be built (usually a fetch failure) and the tick is skipped.
type UpdateFunc func() (string, error)

// Store persists schedules across restarts, best effort. A nil Store disables persistence.
type Store interface {
	SaveSchedule(chatID int64, interval time.Duration, active bool) error
	DeleteSchedule(chatID int64) error
}

// ChatSchedule is the per-chat scheduling state. The cancel channel belongs to
// exactly one timer goroutine, so tearing it down closes exactly one timer.
type ChatSchedule struct {
	ChatID   int64
	Interval time.Duration
	Active   bool
	cancel   chan struct{}
}

// Config configuration of the scheduler
type Config struct {
	Sender          Sender
	Update          UpdateFunc
	Store           Store
	DefaultInterval time.Duration

	// Optional hooks for metrics, keyed off tick outcome.
	OnTickSent  func(chatID int64)
	OnTickError func(chatID int64)
}

// Scheduler owns the schedule table and all per-chat timer goroutines.
type Scheduler struct {
	mu        sync.Mutex
	schedules map[int64]*ChatSchedule
	config    Config
}

// New creates a scheduler. DefaultInterval must be positive.
func New(c Config) *Scheduler {
	if c.DefaultInterval <= 0 {
		c.DefaultInterval = time.Minute
	}
	return &Scheduler{
		schedules: make(map[int64]*ChatSchedule),
		config:    c,
	}
}

// Start begins (or restarts) recurring updates for a chat at its stored
// interval, falling back to the default. Calling it on a running chat replaces
// the existing timer, it never stacks a second one.
func (s *Scheduler) Start(chatID int64) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	cs, ok := s.schedules[chatID]
	if !ok {
		cs = &ChatSchedule{ChatID: chatID, Interval: s.config.DefaultInterval}
		s.schedules[chatID] = cs
	}

	s.cancelLocked(cs)

	cs.Active = true
	cs.cancel = make(chan struct{})
	go s.run(chatID, cs.Interval, cs.cancel)

	s.persistLocked(cs)
	log.Debugf("started updates for chat %d every %s", chatID, cs.Interval)
	return cs.Interval
}

// Stop cancels the recurring updates for a chat. Reports whether it was running.
func (s *Scheduler) Stop(chatID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	cs, ok := s.schedules[chatID]
	if !ok || !cs.Active {
		return false
	}

	s.cancelLocked(cs)
	cs.Active = false
	s.persistLocked(cs)
	log.Debugf("stopped updates for chat %d", chatID)
	return true
}

// SetInterval changes the interval for a chat. If the chat is running, the
// current timer is cancelled and replaced with one at the new interval. If it
// is stopped, only the stored interval changes and nothing starts.
func (s *Scheduler) SetInterval(chatID int64, interval time.Duration) error {
	if err := ValidateInterval(interval); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cs, ok := s.schedules[chatID]
	if !ok {
		cs = &ChatSchedule{ChatID: chatID}
		s.schedules[chatID] = cs
	}

	cs.Interval = interval
	if cs.Active {
		s.cancelLocked(cs)
		cs.cancel = make(chan struct{})
		go s.run(chatID, interval, cs.cancel)
	}

	s.persistLocked(cs)
	log.Debugf("interval for chat %d set to %s (active=%v)", chatID, interval, cs.Active)
	return nil
}

// Status reports the schedule for a chat without side effects. A chat that has
// never started reports inactive at the default interval.
func (s *Scheduler) Status(chatID int64) (active bool, interval time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cs, ok := s.schedules[chatID]
	if !ok {
		return false, s.config.DefaultInterval
	}
	return cs.Active, cs.Interval
}

// Restore reinstates a schedule loaded from the store. Active schedules start
// ticking immediately at their saved interval.
func (s *Scheduler) Restore(chatID int64, interval time.Duration, active bool) {
	if ValidateInterval(interval) != nil {
		interval = s.config.DefaultInterval
	}

	s.mu.Lock()
	cs := &ChatSchedule{ChatID: chatID, Interval: interval}
	s.schedules[chatID] = cs
	s.mu.Unlock()

	if active {
		s.Start(chatID)
	}
}

// Shutdown cancels every running timer.
func (s *Scheduler) Shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, cs := range s.schedules {
		s.cancelLocked(cs)
		cs.Active = false
	}
}

// run is the timer loop for one chat. The timer is re-armed only after the
// tick's work finished, so a slow fetch delays the next tick instead of
// overlapping it.
func (s *Scheduler) run(chatID int64, interval time.Duration, cancel chan struct{}) {
	timer := time.NewTimer(interval)
	defer timer.Stop()

	for {
		select {
		case <-cancel:
			return
		case <-timer.C:
			s.tick(chatID)
			timer.Reset(interval)
		}
	}
}

// tick builds and sends one update. Failures are logged and the schedule keeps
// running, the next tick fires at the configured interval.
func (s *Scheduler) tick(chatID int64) {
	text, err := s.config.Update()
	if err != nil {
		log.Warnf("skipping update for chat %d: %v", chatID, err)
		if s.config.OnTickError != nil {
			s.config.OnTickError(chatID)
		}
		return
	}

	if err := s.config.Sender.Send(chatID, text); err != nil {
		log.Errorf("failed to send update to chat %d: %v", chatID, err)
		if s.config.OnTickError != nil {
			s.config.OnTickError(chatID)
		}
		return
	}

	if s.config.OnTickSent != nil {
		s.config.OnTickSent(chatID)
	}
}

// cancelLocked closes the outstanding timer channel, if any. Caller holds s.mu.
func (s *Scheduler) cancelLocked(cs *ChatSchedule) {
	if cs.cancel != nil {
		close(cs.cancel)
		cs.cancel = nil
	}
}

// persistLocked writes the schedule through to the store, if one is configured.
// Caller holds s.mu.
func (s *Scheduler) persistLocked(cs *ChatSchedule) {
	if s.config.Store == nil {
		return
	}
	if err := s.config.Store.SaveSchedule(cs.ChatID, cs.Interval, cs.Active); err != nil {
		log.Errorf("failed to persist schedule for chat %d: %v", cs.ChatID, err)
	}
}
