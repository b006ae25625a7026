package utils

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestSlotLabel(t *testing.T) {
	tests := []struct {
		name string
		time time.Time
		want string
	}{
		{"morning on the hour", time.Date(2026, 10, 14, 9, 0, 0, 0, time.Local), "9:00 AM"},
		{"minutes are truncated", time.Date(2026, 10, 14, 15, 59, 30, 0, time.Local), "3:00 PM"},
		{"noon", time.Date(2026, 10, 14, 12, 10, 0, 0, time.Local), "12:00 PM"},
		{"midnight", time.Date(2026, 10, 14, 0, 5, 0, 0, time.Local), "12:00 AM"},
		{"evening", time.Date(2026, 10, 14, 20, 0, 0, 0, time.Local), "8:00 PM"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SlotLabel(tt.time); got != tt.want {
				t.Errorf("SlotLabel() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNormalizeLabel(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"9:00 AM", "9:00 AM"},
		{"  9:00 am ", "9:00 AM"},
		{"09:00 AM", "9:00 AM"},
		{"9am", "9:00 AM"},
		{"3 pm", "3:00 PM"},
		{"15:00", "3:00 PM"},
		{"9:30 AM", "9:30 AM"},
		{"lunch", "lunch"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := NormalizeLabel(tt.input); got != tt.want {
			t.Errorf("NormalizeLabel(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	got, err := ExpandPath("~/.config/meetmate/calendar.json")
	if err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(home, ".config/meetmate/calendar.json")
	if got != want {
		t.Errorf("ExpandPath() = %q, want %q", got, want)
	}

	if got, _ := ExpandPath("/tmp/calendar.json"); got != "/tmp/calendar.json" {
		t.Errorf("absolute path should be unchanged, got %q", got)
	}
}
