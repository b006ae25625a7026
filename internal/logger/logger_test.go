package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInit(t *testing.T) {
	configDir := filepath.Join(t.TempDir(), "config")

	if err := Init(Config{Debug: false, ConfigDir: configDir}); err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}

	logDir := filepath.Join(configDir, "logs")
	if _, err := os.Stat(logDir); os.IsNotExist(err) {
		t.Errorf("Log directory was not created: %s", logDir)
	}
	if Logger == nil {
		t.Fatal("Logger is nil after initialization")
	}

	Info("slot booked", "label", "9:00 AM", "occupant", "Standup")
	Warn("delivery failed", "error", "smtp timeout")

	data, err := os.ReadFile(filepath.Join(logDir, "meetmate.log"))
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if !strings.Contains(string(data), "slot booked") {
		t.Errorf("log file missing info entry: %q", string(data))
	}
}

func TestDebugFilteredInNormalMode(t *testing.T) {
	configDir := t.TempDir()
	if err := Init(Config{ConfigDir: configDir}); err != nil {
		t.Fatal(err)
	}

	Debug("hidden debug entry")

	data, _ := os.ReadFile(filepath.Join(configDir, "logs", "meetmate.log"))
	if strings.Contains(string(data), "hidden debug entry") {
		t.Error("debug entry should not be written outside debug mode")
	}
}

func TestWith(t *testing.T) {
	Logger = nil
	// must not panic before Init
	With("op", "book").Info("discarded")

	if err := Init(Config{ConfigDir: t.TempDir()}); err != nil {
		t.Fatal(err)
	}
	if With("op", "book") == nil {
		t.Error("With() should return a child logger after Init")
	}
}

func TestLogFunctionsWithoutInit(t *testing.T) {
	Logger = nil

	// These should not panic when Logger is nil
	Debug("Test debug message")
	Info("Test info message")
	Warn("Test warning message")
	Error("Test error message")
}
