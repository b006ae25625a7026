package errors

import (
	"errors"
	"fmt"
	"os"

	"github.com/julianstephens/meetmate/internal/logger"
)

var (
	// ErrInvalidSlot is returned for a label outside the working-hour sequence
	ErrInvalidSlot = errors.New("invalid slot")
	// ErrSlotConflict is returned when booking a label that is already occupied
	ErrSlotConflict = errors.New("slot already booked")
	// ErrSlotEmpty is returned when deleting or moving a label that has no occupant
	ErrSlotEmpty = errors.New("no meeting in slot")
	// ErrEmptyOccupant is returned when a booking has no meeting name
	ErrEmptyOccupant = errors.New("meeting name is required")
	// ErrNoAvailableSlot is returned when a brief names no usable time and every slot is taken
	ErrNoAvailableSlot = errors.New("no free slots today")
	// ErrEmptyBrief is returned when a brief has no text
	ErrEmptyBrief = errors.New("brief is empty")
	// ErrPersistenceUnavailable wraps calendar load/save I/O failures
	ErrPersistenceUnavailable = errors.New("calendar storage unavailable")
	// ErrMalformedCalendar marks persisted content that could not be parsed. It is always
	// wrapped together with ErrPersistenceUnavailable.
	ErrMalformedCalendar = errors.New("calendar file is malformed")
	// ErrDeliveryFailure wraps email and message dispatch failures
	ErrDeliveryFailure = errors.New("notification delivery failed")
	// ErrLoginLockout is returned once every login attempt has been used
	ErrLoginLockout = errors.New("maximum login attempts reached")
)

// SlotError records a rejected calendar operation and the label it targeted
type SlotError struct {
	Op    string
	Label string
	Err   error
}

func (e *SlotError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Op, e.Label, e.Err)
}

func (e *SlotError) Unwrap() error { return e.Err }

// NewSlotError builds a SlotError for op on label
func NewSlotError(op, label string, err error) error {
	return &SlotError{Op: op, Label: label, Err: err}
}

// IsBusinessRule reports whether err is a rejected calendar rule rather than an I/O failure
func IsBusinessRule(err error) bool {
	return errors.Is(err, ErrInvalidSlot) ||
		errors.Is(err, ErrSlotConflict) ||
		errors.Is(err, ErrSlotEmpty) ||
		errors.Is(err, ErrEmptyOccupant) ||
		errors.Is(err, ErrNoAvailableSlot) ||
		errors.Is(err, ErrEmptyBrief)
}

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}

// Fatalf logs and formats an error message, then exits the program with exit code 1
func Fatalf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logger.Error("Command execution failed", "error", msg)
	fmt.Fprintf(os.Stderr, "%s\n", Formatf(format, args...))
	os.Exit(1)
}
