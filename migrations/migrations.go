// Package migrations embeds the schema files for the SQL slot stores.
package migrations

import "embed"

// FS holds one subdirectory of NNN_name.sql files per database dialect
//
//go:embed sqlite/*.sql postgres/*.sql
var FS embed.FS
