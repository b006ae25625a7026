package storage

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/julianstephens/meetmate/internal/constants"
	apperrors "github.com/julianstephens/meetmate/internal/errors"
	"github.com/julianstephens/meetmate/internal/models"
)

func setupJSONStore(t *testing.T) (*JSONStore, string) {
	path := filepath.Join(t.TempDir(), "calendar.json")
	return NewJSONStore(path, constants.DefaultWorkingHours), path
}

func TestJSONStore_LoadMissingFile(t *testing.T) {
	store, _ := setupJSONStore(t)

	cal, err := store.Load()
	if err != nil {
		t.Fatalf("Load() on missing file should not fail, got %v", err)
	}
	if len(cal) != 0 {
		t.Errorf("expected empty calendar, got %v", cal)
	}
}

func TestJSONStore_LoadMalformedFile(t *testing.T) {
	store, path := setupJSONStore(t)
	if err := os.WriteFile(path, []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}

	cal, err := store.Load()
	if cal == nil || len(cal) != 0 {
		t.Errorf("expected usable empty calendar, got %v", cal)
	}
	if !errors.Is(err, apperrors.ErrPersistenceUnavailable) {
		t.Errorf("expected ErrPersistenceUnavailable, got %v", err)
	}
	if !errors.Is(err, apperrors.ErrMalformedCalendar) {
		t.Errorf("expected ErrMalformedCalendar, got %v", err)
	}
}

func TestJSONStore_LoadDropsUnknownLabels(t *testing.T) {
	store, path := setupJSONStore(t)
	content := `{"9:00 AM": "Standup", "8:00 PM": "Late call", "10:00 AM": ""}`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cal, err := store.Load()
	if err != nil {
		t.Fatal(err)
	}
	want := models.Calendar{"9:00 AM": "Standup"}
	if !reflect.DeepEqual(cal, want) {
		t.Errorf("Load() = %v, want %v", cal, want)
	}
}

func TestJSONStore_RoundTrip(t *testing.T) {
	store, path := setupJSONStore(t)
	cal := models.Calendar{
		"9:00 AM":  "Standup",
		"11:00 AM": "Design review",
		"5:00 PM":  "Retro",
	}

	if err := store.Save(cal); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(loaded, cal) {
		t.Errorf("Load(Save(C)) = %v, want %v", loaded, cal)
	}

	first, _ := os.ReadFile(path)
	if err := store.Save(loaded); err != nil {
		t.Fatal(err)
	}
	second, _ := os.ReadFile(path)
	if string(first) != string(second) {
		t.Errorf("Save(Load()) changed the file:\n%s\n---\n%s", first, second)
	}

	var onDisk map[string]string
	if err := json.Unmarshal(second, &onDisk); err != nil {
		t.Fatalf("persisted file is not a JSON object: %v", err)
	}
}

func TestJSONStore_SaveEmptyWritesObject(t *testing.T) {
	store, path := setupJSONStore(t)
	if err := store.Save(nil); err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "{}" {
		t.Errorf("expected {}, got %q", data)
	}
}

func TestJSONStore_SaveRejectsInvalidLabel(t *testing.T) {
	store, path := setupJSONStore(t)
	if err := store.Save(models.Calendar{"8:00 PM": "Late call"}); err == nil {
		t.Fatal("expected Save() to reject a label outside working hours")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("rejected save should not create the file")
	}
}

func TestJSONStore_SaveLeavesNoTempFiles(t *testing.T) {
	store, path := setupJSONStore(t)
	for i := 0; i < 3; i++ {
		if err := store.Save(models.Calendar{"9:00 AM": "Standup"}); err != nil {
			t.Fatal(err)
		}
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		var names []string
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("expected only the calendar file, found %v", names)
	}
}

func TestJSONStore_Init(t *testing.T) {
	store, path := setupJSONStore(t)
	if err := store.Init(); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("Init() did not create %s", path)
	}
	if err := store.Init(); err == nil {
		t.Error("second Init() should fail")
	}
}

func TestJSONStore_IsValidLabel(t *testing.T) {
	store, _ := setupJSONStore(t)
	if !store.IsValidLabel("12:00 PM") {
		t.Error("12:00 PM should be valid")
	}
	if store.IsValidLabel("8:00 AM") {
		t.Error("8:00 AM should be invalid")
	}
}

func TestOpen(t *testing.T) {
	hours := models.WorkingHours(constants.DefaultWorkingHours)
	tests := []struct {
		target string
		want   string
	}{
		{"/tmp/calendar.json", "*storage.JSONStore"},
		{"/tmp/calendar", "*storage.JSONStore"},
		{"/tmp/meetmate.db", "*sqlite.Store"},
		{"postgres://meetmate@localhost:5432/meetmate", "*postgres.Store"},
	}

	for _, tt := range tests {
		got := reflect.TypeOf(Open(tt.target, hours)).String()
		if got != tt.want {
			t.Errorf("Open(%q) = %s, want %s", tt.target, got, tt.want)
		}
	}
}
