package migration

import (
	"database/sql"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"
)

func setupTestDB(t *testing.T) *sql.DB {
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestApplyMigrations(t *testing.T) {
	db := setupTestDB(t)
	fsys := fstest.MapFS{
		"001_slots.sql": {Data: []byte("CREATE TABLE slots (label TEXT PRIMARY KEY, occupant TEXT NOT NULL);")},
		"002_index.sql": {Data: []byte("CREATE INDEX idx_slots_occupant ON slots(occupant);")},
		"README.md":     {Data: []byte("ignored")},
	}

	runner := NewRunner(db, fsys, SQLite)

	applied, err := runner.ApplyMigrations(nil)
	if err != nil {
		t.Fatalf("ApplyMigrations failed: %v", err)
	}
	if applied != 2 {
		t.Errorf("applied = %d, want 2", applied)
	}

	version, err := runner.GetCurrentVersion()
	if err != nil {
		t.Fatal(err)
	}
	if version != 2 {
		t.Errorf("version = %d, want 2", version)
	}

	// Second run is a no-op
	applied, err = runner.ApplyMigrations(nil)
	if err != nil {
		t.Fatal(err)
	}
	if applied != 0 {
		t.Errorf("second run applied %d migrations, want 0", applied)
	}
}

func TestApplyMigrationsFailureRollsBack(t *testing.T) {
	db := setupTestDB(t)
	fsys := fstest.MapFS{
		"001_slots.sql": {Data: []byte("CREATE TABLE slots (label TEXT PRIMARY KEY);")},
		"002_bad.sql":   {Data: []byte("CREATE TABLEZ nope;")},
	}

	runner := NewRunner(db, fsys, SQLite)
	applied, err := runner.ApplyMigrations(nil)
	if err == nil {
		t.Fatal("expected error for invalid migration")
	}
	if applied != 1 {
		t.Errorf("applied = %d, want 1", applied)
	}

	version, _ := runner.GetCurrentVersion()
	if version != 1 {
		t.Errorf("version = %d, want 1 after failed migration", version)
	}
}

func TestReadMigrationFilesValidation(t *testing.T) {
	tests := []struct {
		name    string
		fsys    fstest.MapFS
		wantErr string
	}{
		{
			name:    "missing underscore",
			fsys:    fstest.MapFS{"001.sql": {Data: []byte("")}},
			wantErr: "invalid migration filename",
		},
		{
			name:    "non-numeric version",
			fsys:    fstest.MapFS{"abc_init.sql": {Data: []byte("")}},
			wantErr: "invalid version number",
		},
		{
			name: "duplicate version",
			fsys: fstest.MapFS{
				"001_a.sql": {Data: []byte("")},
				"1_b.sql":   {Data: []byte("")},
			},
			wantErr: "duplicate migration version",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRunner(nil, tt.fsys, SQLite).ReadMigrationFiles()
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("ReadMigrationFiles() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}
