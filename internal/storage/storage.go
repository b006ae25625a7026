package storage

import (
	"path/filepath"
	"strings"

	"github.com/julianstephens/meetmate/internal/models"
	"github.com/julianstephens/meetmate/internal/storage/postgres"
	"github.com/julianstephens/meetmate/internal/storage/sqlite"
)

// Open picks a backend from target: a postgres:// URL or key=value DSN selects PostgreSQL, a .db or
// .sqlite file selects SQLite, anything else is treated as a JSON calendar file.
func Open(target string, hours models.WorkingHours) Provider {
	if postgres.IsDSN(target) {
		return postgres.New(target, hours)
	}

	switch strings.ToLower(filepath.Ext(target)) {
	case ".db", ".sqlite", ".sqlite3":
		return sqlite.NewStore(target, hours)
	default:
		return NewJSONStore(target, hours)
	}
}
