package errors

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"testing"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{name: "nil error", err: nil, expected: ""},
		{name: "simple error", err: errors.New("something went wrong"), expected: "Error: something went wrong"},
		{
			name:     "slot error",
			err:      NewSlotError("book", "9:00 AM", ErrSlotConflict),
			expected: `Error: book "9:00 AM": slot already booked`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Format(tt.err)
			if result != tt.expected {
				t.Errorf("Format(%v) = %q, want %q", tt.err, result, tt.expected)
			}
		})
	}
}

func TestFormatf(t *testing.T) {
	got := Formatf("no meeting at %s", "10:00 AM")
	if got != "Error: no meeting at 10:00 AM" {
		t.Errorf("Formatf() = %q", got)
	}
}

func TestSlotErrorUnwrap(t *testing.T) {
	err := fmt.Errorf("scheduling: %w", NewSlotError("reschedule", "11:00 AM", ErrSlotConflict))

	if !errors.Is(err, ErrSlotConflict) {
		t.Error("expected errors.Is to find ErrSlotConflict")
	}

	var slotErr *SlotError
	if !errors.As(err, &slotErr) {
		t.Fatal("expected errors.As to find *SlotError")
	}
	if slotErr.Label != "11:00 AM" || slotErr.Op != "reschedule" {
		t.Errorf("unexpected slot error fields: %+v", slotErr)
	}
}

func TestIsBusinessRule(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{NewSlotError("book", "9:00 AM", ErrSlotConflict), true},
		{NewSlotError("delete", "9:00 AM", ErrSlotEmpty), true},
		{NewSlotError("book", "8:00 PM", ErrInvalidSlot), true},
		{ErrNoAvailableSlot, true},
		{fmt.Errorf("%w: disk full", ErrPersistenceUnavailable), false},
		{ErrDeliveryFailure, false},
		{nil, false},
	}

	for _, tt := range tests {
		if got := IsBusinessRule(tt.err); got != tt.want {
			t.Errorf("IsBusinessRule(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

// TestFatal tests the Fatal function using exec helper process
func TestFatal(t *testing.T) {
	if os.Getenv("GO_TEST_FATAL") == "1" {
		Fatal(ErrLoginLockout)
		return
	}

	cmd := exec.Command(os.Args[0], "-test.run=TestFatal$")
	cmd.Env = append(os.Environ(), "GO_TEST_FATAL=1")
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	if e, ok := err.(*exec.ExitError); ok && !e.Success() {
		if e.ExitCode() != 1 {
			t.Errorf("Fatal() exit code = %d, want 1", e.ExitCode())
		}
		if !strings.Contains(stderr.String(), "Error: maximum login attempts reached") {
			t.Errorf("Fatal() stderr = %q", stderr.String())
		}
	} else {
		t.Errorf("Fatal() did not exit with error: %v", err)
	}
}

// TestFatal_NilError tests that Fatal does nothing when passed a nil error
func TestFatal_NilError(t *testing.T) {
	if os.Getenv("GO_TEST_FATAL_NIL") == "1" {
		Fatal(nil)
		os.Exit(0)
	}

	cmd := exec.Command(os.Args[0], "-test.run=TestFatal_NilError")
	cmd.Env = append(os.Environ(), "GO_TEST_FATAL_NIL=1")

	if err := cmd.Run(); err != nil {
		t.Errorf("Fatal(nil) should not exit, but got error: %v", err)
	}
}
