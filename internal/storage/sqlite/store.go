package sqlite

import (
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"

	apperrors "github.com/julianstephens/meetmate/internal/errors"
	"github.com/julianstephens/meetmate/internal/logger"
	"github.com/julianstephens/meetmate/internal/migration"
	"github.com/julianstephens/meetmate/internal/models"
	"github.com/julianstephens/meetmate/migrations"
)

type Store struct {
	path  string
	hours models.WorkingHours
	mu    sync.Mutex
	db    *sql.DB
}

func NewStore(path string, hours models.WorkingHours) *Store {
	return &Store{
		path:  path,
		hours: hours,
	}
}

func (s *Store) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open()
}

// open creates the database file and applies migrations if needed. Callers hold mu.
func (s *Store) open() error {
	if s.db != nil {
		return nil
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	// One writer at a time keeps SQLite from returning SQLITE_BUSY inside this process
	db.SetMaxOpenConns(1)

	if err := runMigrations(db); err != nil {
		db.Close()
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	s.db = db
	return nil
}

func runMigrations(db *sql.DB) error {
	subFS, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		return fmt.Errorf("failed to access sqlite migrations: %w", err)
	}

	runner := migration.NewRunner(db, subFS, migration.SQLite)
	_, err = runner.ApplyMigrations(func(msg string) {
		logger.Info(msg, "store", "sqlite")
	})
	return err
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db != nil {
		err := s.db.Close()
		s.db = nil
		return err
	}
	return nil
}

func (s *Store) Load() (models.Calendar, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.open(); err != nil {
		return models.Calendar{}, fmt.Errorf("%w: %v", apperrors.ErrPersistenceUnavailable, err)
	}

	rows, err := s.db.Query("SELECT label, occupant FROM slots")
	if err != nil {
		return models.Calendar{}, fmt.Errorf("%w: failed to query slots: %v", apperrors.ErrPersistenceUnavailable, err)
	}
	defer rows.Close()

	raw := models.Calendar{}
	for rows.Next() {
		var label, occupant string
		if err := rows.Scan(&label, &occupant); err != nil {
			return models.Calendar{}, fmt.Errorf("%w: failed to scan slot: %v", apperrors.ErrPersistenceUnavailable, err)
		}
		raw[label] = occupant
	}
	if err := rows.Err(); err != nil {
		return models.Calendar{}, fmt.Errorf("%w: %v", apperrors.ErrPersistenceUnavailable, err)
	}

	cal, dropped := raw.Sanitize(s.hours)
	if len(dropped) > 0 {
		logger.Warn("Ignoring invalid calendar entries", "path", s.path, "labels", dropped)
	}
	return cal, nil
}

// Save replaces every slot row inside one transaction
func (s *Store) Save(cal models.Calendar) error {
	if err := cal.Validate(s.hours); err != nil {
		return fmt.Errorf("refusing to save calendar: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.open(); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrPersistenceUnavailable, err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("%w: failed to begin transaction: %v", apperrors.ErrPersistenceUnavailable, err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM slots"); err != nil {
		return fmt.Errorf("%w: failed to clear slots: %v", apperrors.ErrPersistenceUnavailable, err)
	}

	stmt, err := tx.Prepare("INSERT INTO slots (label, occupant) VALUES (?, ?)")
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrPersistenceUnavailable, err)
	}
	defer stmt.Close()

	for _, label := range cal.Labels(s.hours) {
		if _, err := stmt.Exec(label, cal[label]); err != nil {
			return fmt.Errorf("%w: failed to insert slot %s: %v", apperrors.ErrPersistenceUnavailable, label, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: failed to commit: %v", apperrors.ErrPersistenceUnavailable, err)
	}
	return nil
}

func (s *Store) IsValidLabel(label string) bool {
	return s.hours.Contains(label)
}

func (s *Store) Hours() models.WorkingHours {
	return s.hours
}

func (s *Store) GetConfigPath() string {
	return s.path
}
