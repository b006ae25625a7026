package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	apperrors "github.com/julianstephens/meetmate/internal/errors"
	"github.com/julianstephens/meetmate/internal/logger"
	"github.com/julianstephens/meetmate/internal/models"
)

// JSONStore keeps the calendar as a single JSON object of label -> occupant
type JSONStore struct {
	path  string
	hours models.WorkingHours
	mu    sync.Mutex
}

func NewJSONStore(path string, hours models.WorkingHours) *JSONStore {
	return &JSONStore{
		path:  path,
		hours: hours,
	}
}

func (s *JSONStore) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(s.path); err == nil {
		return fmt.Errorf("storage already initialized at %s", s.path)
	}

	return s.Save(models.Calendar{})
}

func (s *JSONStore) Close() error {
	return nil
}

func (s *JSONStore) Load() (models.Calendar, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return models.Calendar{}, nil
		}
		return models.Calendar{}, fmt.Errorf("%w: failed to read %s: %v", apperrors.ErrPersistenceUnavailable, s.path, err)
	}

	var raw models.Calendar
	if err := json.Unmarshal(data, &raw); err != nil {
		return models.Calendar{}, fmt.Errorf("%w: %w: %s: %v", apperrors.ErrPersistenceUnavailable, apperrors.ErrMalformedCalendar, s.path, err)
	}

	cal, dropped := raw.Sanitize(s.hours)
	if len(dropped) > 0 {
		logger.Warn("Ignoring invalid calendar entries", "path", s.path, "labels", dropped)
	}
	return cal, nil
}

// Save writes to a temporary file in the same directory and renames it over the
// calendar, so readers never observe a partially written file.
func (s *JSONStore) Save(cal models.Calendar) error {
	if cal == nil {
		cal = models.Calendar{}
	}
	if err := cal.Validate(s.hours); err != nil {
		return fmt.Errorf("refusing to save calendar: %w", err)
	}

	data, err := json.MarshalIndent(cal, "", "    ")
	if err != nil {
		return fmt.Errorf("%w: failed to serialize calendar: %v", apperrors.ErrPersistenceUnavailable, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("%w: failed to create config directory: %v", apperrors.ErrPersistenceUnavailable, err)
	}

	tmp, err := os.CreateTemp(dir, ".calendar-*.tmp")
	if err != nil {
		return fmt.Errorf("%w: failed to create temp file: %v", apperrors.ErrPersistenceUnavailable, err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: failed to write calendar: %v", apperrors.ErrPersistenceUnavailable, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: failed to sync calendar: %v", apperrors.ErrPersistenceUnavailable, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: failed to close calendar: %v", apperrors.ErrPersistenceUnavailable, err)
	}
	if err := os.Chmod(tmpPath, 0600); err != nil {
		return fmt.Errorf("%w: failed to set permissions: %v", apperrors.ErrPersistenceUnavailable, err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("%w: failed to replace calendar: %v", apperrors.ErrPersistenceUnavailable, err)
	}

	return nil
}

func (s *JSONStore) IsValidLabel(label string) bool {
	return s.hours.Contains(label)
}

func (s *JSONStore) Hours() models.WorkingHours {
	return s.hours
}

func (s *JSONStore) GetConfigPath() string {
	return s.path
}
