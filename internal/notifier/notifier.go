package notifier

import (
	"context"
	"sync"
	"time"

	"github.com/julianstephens/meetmate/internal/logger"
	"github.com/julianstephens/meetmate/internal/metrics"
)

// Speaker announces text to the user without blocking the caller
type Speaker interface {
	Speak(text string)
}

// UserNotifier shows a message in the presentation layer and returns once it is shown
type UserNotifier interface {
	NotifyUser(title, message string)
}

// EmailSender delivers one message to every recipient
type EmailSender interface {
	Send(ctx context.Context, recipients []string, subject, body string) error
}

// MessageSender delivers an instant message to one phone number (digits only)
type MessageSender interface {
	SendInstant(ctx context.Context, phoneDigits, body string) error
}

// LogSpeaker writes announcements to the log
type LogSpeaker struct{}

func (LogSpeaker) Speak(text string) {
	logger.Info("Announcement", "text", text)
}

// TraySpeaker forwards announcements to the tray app and falls back to the log
// when the tray app cannot be reached. Short-lived commands call Flush before exiting
// so pending announcements are not lost.
type TraySpeaker struct {
	notify  func(text string) error
	pending sync.WaitGroup
}

func NewTraySpeaker() *TraySpeaker {
	return &TraySpeaker{notify: New().Notify}
}

func (s *TraySpeaker) Speak(text string) {
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		if err := s.notify(text); err != nil {
			logger.Debug("Tray notification unavailable", "error", err)
			metrics.NotificationFailures.WithLabelValues("tray").Inc()
			LogSpeaker{}.Speak(text)
		}
	}()
}

// Flush waits up to timeout for pending announcements and reports whether all finished
func (s *TraySpeaker) Flush(timeout time.Duration) bool {
	done := make(chan struct{})
	go func() {
		s.pending.Wait()
		close(done)
	}()

	t := time.NewTimer(timeout)
	defer t.Stop()
	select {
	case <-done:
		return true
	case <-t.C:
		logger.Warn("Announcements still pending at exit", "timeout", timeout)
		return false
	}
}
