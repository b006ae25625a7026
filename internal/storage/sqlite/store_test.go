package sqlite

import (
	"path/filepath"
	"reflect"
	"testing"

	"github.com/julianstephens/meetmate/internal/constants"
	"github.com/julianstephens/meetmate/internal/models"
)

func setupTestStore(t *testing.T) *Store {
	store := NewStore(filepath.Join(t.TempDir(), "meetmate.db"), constants.DefaultWorkingHours)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize test store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore_LoadEmpty(t *testing.T) {
	store := setupTestStore(t)

	cal, err := store.Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(cal) != 0 {
		t.Errorf("expected empty calendar, got %v", cal)
	}
}

func TestStore_RoundTrip(t *testing.T) {
	store := setupTestStore(t)
	cal := models.Calendar{"9:00 AM": "Standup", "3:00 PM": "Project demo"}

	if err := store.Save(cal); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}
	loaded, err := store.Load()
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(loaded, cal) {
		t.Errorf("Load() = %v, want %v", loaded, cal)
	}

	// Save replaces, it does not merge
	if err := store.Save(models.Calendar{"10:00 AM": "1:1"}); err != nil {
		t.Fatal(err)
	}
	loaded, _ = store.Load()
	if !reflect.DeepEqual(loaded, models.Calendar{"10:00 AM": "1:1"}) {
		t.Errorf("Load() after replace = %v", loaded)
	}
}

func TestStore_ReopenPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "meetmate.db")
	first := NewStore(path, constants.DefaultWorkingHours)
	if err := first.Save(models.Calendar{"4:00 PM": "Retro"}); err != nil {
		t.Fatal(err)
	}
	first.Close()

	second := NewStore(path, constants.DefaultWorkingHours)
	defer second.Close()
	cal, err := second.Load()
	if err != nil {
		t.Fatal(err)
	}
	if cal["4:00 PM"] != "Retro" {
		t.Errorf("expected persisted booking, got %v", cal)
	}
}

func TestStore_SaveRejectsInvalidLabel(t *testing.T) {
	store := setupTestStore(t)
	if err := store.Save(models.Calendar{"7:00 AM": "Gym"}); err == nil {
		t.Error("expected Save() to reject label outside working hours")
	}
}
