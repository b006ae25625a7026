package storage

import "github.com/julianstephens/meetmate/internal/models"

// Provider persists the day's calendar. It is pure data access: conflict rules live in
// the scheduler, and Provider implementations never decide whether a booking is allowed.
type Provider interface {
	// Lifecycle
	Init() error
	Close() error

	// Load returns the persisted calendar. The returned calendar is always usable: a
	// missing or unreadable backing store yields an empty calendar, and any non-nil
	// error wraps ErrPersistenceUnavailable. Content that exists but cannot be parsed
	// also wraps ErrMalformedCalendar.
	Load() (models.Calendar, error)
	// Save replaces the persisted calendar with cal in a single atomic write.
	Save(cal models.Calendar) error

	// Slot grid
	IsValidLabel(label string) bool
	Hours() models.WorkingHours

	// Utils
	GetConfigPath() string
}
