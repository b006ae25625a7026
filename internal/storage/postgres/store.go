package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"sync"
	"time"

	pq "github.com/lib/pq"

	"github.com/julianstephens/meetmate/internal/constants"
	apperrors "github.com/julianstephens/meetmate/internal/errors"
	"github.com/julianstephens/meetmate/internal/logger"
	"github.com/julianstephens/meetmate/internal/migration"
	"github.com/julianstephens/meetmate/internal/models"
	"github.com/julianstephens/meetmate/migrations"
)

type Store struct {
	connStr string
	hours   models.WorkingHours
	mu      sync.Mutex
	db      *sql.DB
}

var (
	ErrInvalidConnectionString = errors.New("invalid PostgreSQL connection string")
	ErrEmbeddedCredentials     = errors.New("connection string must not contain a password")
)

func New(connStr string, hours models.WorkingHours) *Store {
	return &Store{
		connStr: withSearchPath(connStr),
		hours:   hours,
	}
}

// withSearchPath pins the connection to the application schema unless the caller set one
func withSearchPath(connStr string) string {
	if strings.HasPrefix(connStr, "postgres://") || strings.HasPrefix(connStr, "postgresql://") {
		u, err := url.Parse(connStr)
		if err != nil {
			logger.Warn("Failed to parse Postgres connection string", "error", err)
			return connStr
		}
		q := u.Query()
		if q.Get("search_path") == "" {
			q.Set("search_path", constants.AppName)
			u.RawQuery = q.Encode()
		}
		return u.String()
	}

	for _, part := range strings.Fields(connStr) {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) == 2 && strings.EqualFold(kv[0], "search_path") {
			return connStr
		}
	}
	return strings.TrimSpace(connStr) + " search_path=" + constants.AppName
}

// IsConnString reports whether target names a PostgreSQL database rather than a file
func IsConnString(target string) bool {
	return strings.HasPrefix(target, "postgres://") || strings.HasPrefix(target, "postgresql://")
}

var dsnKeys = map[string]bool{
	"host": true, "hostaddr": true, "port": true, "dbname": true, "user": true,
	"password": true, "sslmode": true, "sslcert": true, "sslkey": true, "sslrootcert": true,
	"connect_timeout": true, "application_name": true, "search_path": true,
}

// IsDSN reports whether target names a PostgreSQL database, either as a URL or as a
// libpq key=value string such as "host=localhost dbname=meetmate".
func IsDSN(target string) bool {
	if IsConnString(target) {
		return true
	}
	fields := strings.Fields(target)
	if len(fields) == 0 {
		return false
	}
	for _, pair := range fields {
		key, _, ok := strings.Cut(pair, "=")
		if !ok || !dsnKeys[strings.ToLower(key)] {
			return false
		}
	}
	return true
}

// ValidateConnString checks that connStr is a parseable PostgreSQL connection string that
// carries no password. Passwords belong in the OS keyring, the environment or .pgpass.
func ValidateConnString(connStr string) (bool, error) {
	if strings.TrimSpace(connStr) == "" {
		return false, fmt.Errorf("%w: connection string cannot be empty", ErrInvalidConnectionString)
	}

	if _, err := pq.NewConnector(connStr); err != nil {
		return false, fmt.Errorf("%w: invalid connection string format: %v", ErrInvalidConnectionString, err)
	}

	if IsConnString(connStr) {
		parsedURL, err := url.Parse(connStr)
		if err != nil {
			return false, fmt.Errorf("%w: failed to parse connection URL: %v", ErrInvalidConnectionString, err)
		}
		if _, isSet := parsedURL.User.Password(); isSet {
			return false, ErrEmbeddedCredentials
		}
		return true, nil
	}

	for _, pair := range strings.Fields(connStr) {
		parts := strings.SplitN(pair, "=", 2)
		if len(parts) == 2 && strings.EqualFold(strings.TrimSpace(parts[0]), "password") {
			return false, ErrEmbeddedCredentials
		}
	}
	return true, nil
}

func (s *Store) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open()
}

// open connects, creates the schema and applies migrations. Callers hold mu.
func (s *Store) open() error {
	if s.db != nil {
		return nil
	}

	db, err := sql.Open("postgres", s.connStr)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if _, err := db.Exec("CREATE SCHEMA IF NOT EXISTS " + pq.QuoteIdentifier(constants.AppName)); err != nil {
		db.Close()
		return fmt.Errorf("failed to create schema: %w", err)
	}

	subFS, err := fs.Sub(migrations.FS, "postgres")
	if err != nil {
		db.Close()
		return fmt.Errorf("failed to access postgres migrations: %w", err)
	}
	runner := migration.NewRunner(db, subFS, migration.Postgres)
	if _, err := runner.ApplyMigrations(func(msg string) {
		logger.Info(msg, "store", "postgres")
	}); err != nil {
		db.Close()
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	s.db = db
	return nil
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
		logger.Warn("Ignoring invalid calendar entries", "store", "postgres", "labels", dropped)
	}
	return cal, nil
}

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
	for _, label := range cal.Labels(s.hours) {
		if _, err := tx.Exec("INSERT INTO slots (label, occupant) VALUES ($1, $2)", label, cal[label]); err != nil {
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
	// Non-sensitive identifier instead of the connection string
	return "postgresql"
}
