package notifier

import (
	"errors"
	"sync"
	"testing"
	"time"
)

func TestTraySpeakerFlushWaitsForDelivery(t *testing.T) {
	var mu sync.Mutex
	var delivered []string
	s := &TraySpeaker{notify: func(text string) error {
		time.Sleep(20 * time.Millisecond)
		mu.Lock()
		delivered = append(delivered, text)
		mu.Unlock()
		return nil
	}}

	s.Speak("Welcome")
	s.Speak("Booked Standup at 9:00 AM")
	if !s.Flush(2 * time.Second) {
		t.Fatal("Flush() timed out")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(delivered) != 2 {
		t.Errorf("delivered %v, want both announcements", delivered)
	}
}

func TestTraySpeakerFlushAfterFallback(t *testing.T) {
	s := &TraySpeaker{notify: func(string) error { return errors.New("tray app not running") }}

	s.Speak("Welcome")
	if !s.Flush(2 * time.Second) {
		t.Error("Flush() should return once the log fallback has run")
	}
}

func TestTraySpeakerFlushTimeout(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	s := &TraySpeaker{notify: func(string) error {
		<-release
		return nil
	}}

	s.Speak("Welcome")
	if s.Flush(10 * time.Millisecond) {
		t.Error("Flush() reported done while an announcement was still pending")
	}
}

func TestTraySpeakerFlushIdle(t *testing.T) {
	if !NewTraySpeaker().Flush(time.Millisecond) {
		t.Error("Flush() with nothing pending should return true")
	}
}
