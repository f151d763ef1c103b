// Package migrations embeds the SQLite schema migrations.
// Files are named NNN_name.up.sql and applied in version order.
package migrations

import "embed"

// FS contains all SQL migration files embedded at compile time.
//
//go:embed *.sql
var FS embed.FS
