package storage

import (
	"path/filepath"
	"testing"

	"github.com/julianstephens/meetmate/internal/constants"
	"github.com/julianstephens/meetmate/internal/storage/postgres"
	"github.com/julianstephens/meetmate/internal/storage/sqlite"
)

func TestOpenSelectsBackend(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name   string
		target string
		check  func(Provider) bool
	}{
		{"postgres url", "postgres://meetmate@localhost/meetmate", func(p Provider) bool { _, ok := p.(*postgres.Store); return ok }},
		{"postgres key=value", "host=localhost dbname=meetmate", func(p Provider) bool { _, ok := p.(*postgres.Store); return ok }},
		{"sqlite", filepath.Join(dir, "calendar.db"), func(p Provider) bool { _, ok := p.(*sqlite.Store); return ok }},
		{"json", filepath.Join(dir, "calendar.json"), func(p Provider) bool { _, ok := p.(*JSONStore); return ok }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if p := Open(tt.target, constants.DefaultWorkingHours); !tt.check(p) {
				t.Errorf("Open(%q) returned %T", tt.target, p)
			}
		})
	}
}
