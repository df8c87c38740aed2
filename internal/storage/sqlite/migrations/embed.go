package migrations

import "embed"

// FS contains embedded SQLite migrations for worldline storage.
//
//go:embed *.sql
var FS embed.FS
