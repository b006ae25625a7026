package scheduler

import (
	"errors"
	"strings"
	"sync"

	apperrors "github.com/julianstephens/meetmate/internal/errors"
	"github.com/julianstephens/meetmate/internal/logger"
	"github.com/julianstephens/meetmate/internal/models"
	"github.com/julianstephens/meetmate/internal/storage"
)

// Scheduler applies the booking rules to a store's calendar. Every mutation and the save
// that follows it run under one lock, and a mutation is kept only if the save succeeds.
// Mutations re-read the store first, so bookings written by other processes sharing the
// calendar are checked against and never overwritten.
type Scheduler struct {
	mu    sync.RWMutex
	store storage.Provider
	cal   models.Calendar
}

// New loads the current calendar from store. A load failure is logged and the
// scheduler starts from an empty calendar.
func New(store storage.Provider) *Scheduler {
	s := &Scheduler{store: store}
	s.Reload()
	return s
}

// Reload replaces the in-memory calendar with the store's current state
func (s *Scheduler) Reload() {
	cal, err := s.store.Load()
	if err != nil {
		logger.Warn("Failed to load calendar, starting empty", "path", s.store.GetConfigPath(), "error", err)
	}
	if cal == nil {
		cal = models.Calendar{}
	}

	s.mu.Lock()
	s.cal = cal
	s.mu.Unlock()
}

// Hours returns the working-hour slot sequence
func (s *Scheduler) Hours() models.WorkingHours {
	return s.store.Hours()
}

// Book assigns occupant to label
func (s *Scheduler) Book(label, occupant string) error {
	label = strings.TrimSpace(label)
	occupant = strings.TrimSpace(occupant)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.refresh(); err != nil {
		return err
	}
	if _, busy := s.cal[label]; busy {
		return apperrors.NewSlotError("book", label, apperrors.ErrSlotConflict)
	}
	if !s.store.IsValidLabel(label) {
		return apperrors.NewSlotError("book", label, apperrors.ErrInvalidSlot)
	}
	if occupant == "" {
		return apperrors.NewSlotError("book", label, apperrors.ErrEmptyOccupant)
	}

	next := s.cal.Clone()
	next[label] = occupant
	if err := s.commit(next); err != nil {
		return err
	}

	logger.Info("Booked slot", "label", label, "occupant", occupant)
	return nil
}

// Delete frees label and returns the occupant that was removed
func (s *Scheduler) Delete(label string) (string, error) {
	label = strings.TrimSpace(label)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.refresh(); err != nil {
		return "", err
	}
	occupant, busy := s.cal[label]
	if !busy {
		return "", apperrors.NewSlotError("delete", label, apperrors.ErrSlotEmpty)
	}

	next := s.cal.Clone()
	delete(next, label)
	if err := s.commit(next); err != nil {
		return "", err
	}

	logger.Info("Deleted slot", "label", label, "occupant", occupant)
	return occupant, nil
}

// Reschedule moves the occupant of oldLabel to newLabel. Nothing changes unless the
// whole move succeeds.
func (s *Scheduler) Reschedule(oldLabel, newLabel string) (string, error) {
	oldLabel = strings.TrimSpace(oldLabel)
	newLabel = strings.TrimSpace(newLabel)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.refresh(); err != nil {
		return "", err
	}
	occupant, busy := s.cal[oldLabel]
	if !busy {
		return "", apperrors.NewSlotError("reschedule", oldLabel, apperrors.ErrSlotEmpty)
	}
	if _, taken := s.cal[newLabel]; taken {
		return "", apperrors.NewSlotError("reschedule", newLabel, apperrors.ErrSlotConflict)
	}
	if !s.store.IsValidLabel(newLabel) {
		return "", apperrors.NewSlotError("reschedule", newLabel, apperrors.ErrInvalidSlot)
	}

	next := s.cal.Clone()
	delete(next, oldLabel)
	next[newLabel] = occupant
	if err := s.commit(next); err != nil {
		return "", err
	}

	logger.Info("Rescheduled slot", "from", oldLabel, "to", newLabel, "occupant", occupant)
	return occupant, nil
}

// refresh installs the store's current calendar before a mutation. Unparseable content
// counts as an empty calendar; any other load failure aborts the mutation so a calendar
// that could not be read is never saved over. Callers hold mu.
func (s *Scheduler) refresh() error {
	cal, err := s.store.Load()
	if err != nil {
		if !errors.Is(err, apperrors.ErrMalformedCalendar) {
			logger.Error("Failed to reload calendar before change", "path", s.store.GetConfigPath(), "error", err)
			return err
		}
		logger.Warn("Calendar is malformed, treating as empty", "path", s.store.GetConfigPath(), "error", err)
	}
	if cal == nil {
		cal = models.Calendar{}
	}
	s.cal = cal
	return nil
}

// commit persists next and installs it as the current calendar. Callers hold mu.
func (s *Scheduler) commit(next models.Calendar) error {
	if err := s.store.Save(next); err != nil {
		logger.Error("Failed to save calendar", "error", err)
		return err
	}
	s.cal = next
	return nil
}

// FirstFree returns the earliest working-hour label with no occupant
func (s *Scheduler) FirstFree() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, label := range s.store.Hours() {
		if s.cal.IsFree(label) {
			return label, true
		}
	}
	return "", false
}

// Occupant returns the meeting booked at label, if any
func (s *Scheduler) Occupant(label string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	occupant, ok := s.cal[label]
	return occupant, ok
}

// Snapshot returns a copy of the current calendar
func (s *Scheduler) Snapshot() models.Calendar {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cal.Clone()
}
