package reminder

import (
	"context"
	"fmt"
	"time"

	"github.com/julianstephens/meetmate/internal/constants"
	"github.com/julianstephens/meetmate/internal/logger"
	"github.com/julianstephens/meetmate/internal/metrics"
	"github.com/julianstephens/meetmate/internal/storage"
	"github.com/julianstephens/meetmate/internal/utils"
)

// Clock provides the wall-clock time the daemon compares slots against.
// This interface allows time to be mocked in tests.
type Clock interface {
	Now() time.Time
}

// RealClock provides actual system time.
type RealClock struct{}

func (RealClock) Now() time.Time {
	return time.Now()
}

// TestClock provides fixed time for testing.
type TestClock struct {
	CurrentTime time.Time
}

func (t *TestClock) Now() time.Time {
	return t.CurrentTime
}

// Source looks up who occupies a slot
type Source interface {
	Occupant(label string) (string, bool)
}

// StoreSource reads the calendar from a store on every lookup so writes made by other
// processes are seen.
type StoreSource struct {
	Store storage.Provider
}

func (s StoreSource) Occupant(label string) (string, bool) {
	cal, err := s.Store.Load()
	if err != nil {
		logger.Warn("Reminder lookup could not load calendar", "error", err)
	}
	occupant, ok := cal[label]
	return occupant, ok
}

// Notifier delivers a reminder for the meeting in label
type Notifier interface {
	Remind(ctx context.Context, occupant, label string) error
}

// NotifierFunc adapts a function to Notifier
type NotifierFunc func(ctx context.Context, occupant, label string) error

func (f NotifierFunc) Remind(ctx context.Context, occupant, label string) error {
	return f(ctx, occupant, label)
}

// UserNotifier shows a titled message to the person at the keyboard
type UserNotifier interface {
	NotifyUser(title, message string)
}

// WithUserNotice sends each reminder through next and also shows it to user under the
// "Meeting Reminder" title. The notice is shown even when next fails.
func WithUserNotice(next Notifier, user UserNotifier) Notifier {
	if user == nil {
		return next
	}
	return NotifierFunc(func(ctx context.Context, occupant, label string) error {
		err := next.Remind(ctx, occupant, label)
		user.NotifyUser(NoticeTitle, Text(occupant, label))
		return err
	})
}

// NoticeTitle titles reminders shown to the user
const NoticeTitle = "Meeting Reminder"

// Text renders the reminder announcement for a meeting
func Text(occupant, label string) string {
	return fmt.Sprintf("Reminder: Meeting %s at %s", occupant, label)
}

// Config holds the daemon's timing
type Config struct {
	// Poll is the interval between occupancy checks
	Poll time.Duration
	// Dedupe is the pause after a reminder before polling resumes
	Dedupe time.Duration
}

// Daemon polls the current hour's slot and reminds the user when it is occupied
type Daemon struct {
	source   Source
	notifier Notifier
	clock    Clock
	cfg      Config
}

func NewDaemon(source Source, notifier Notifier, clock Clock, cfg Config) *Daemon {
	if cfg.Poll <= 0 {
		cfg.Poll = constants.DefaultReminderPoll
	}
	if cfg.Dedupe <= 0 {
		cfg.Dedupe = constants.DefaultReminderDedupe
	}
	if clock == nil {
		clock = RealClock{}
	}
	return &Daemon{source: source, notifier: notifier, clock: clock, cfg: cfg}
}

// Run checks the current slot immediately, then polls until ctx is cancelled
func (d *Daemon) Run(ctx context.Context) error {
	logger.Info("Reminder daemon started", "poll", d.cfg.Poll, "dedupe", d.cfg.Dedupe)
	defer logger.Info("Reminder daemon stopped")

	for ctx.Err() == nil {
		wait := d.cfg.Poll
		if d.Check(ctx) {
			wait = d.cfg.Dedupe
		}
		if !sleep(ctx, wait) {
			break
		}
	}
	return ctx.Err()
}

// Check looks up the current hour's slot once and sends a reminder if it is occupied.
// It reports whether a reminder was attempted.
func (d *Daemon) Check(ctx context.Context) bool {
	label := utils.SlotLabel(d.clock.Now())
	occupant, ok := d.source.Occupant(label)
	if !ok {
		return false
	}

	logger.Debug("Sending reminder", "label", label, "occupant", occupant)
	if err := d.notifier.Remind(ctx, occupant, label); err != nil {
		logger.Error("Failed to deliver reminder", "label", label, "error", err)
		metrics.NotificationFailures.WithLabelValues("reminder").Inc()
		return true
	}
	metrics.RemindersSent.Inc()
	return true
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
