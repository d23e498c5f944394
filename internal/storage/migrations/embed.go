package migrations

import "embed"

// FS holds the numbered schema files for the local state database.
//
//go:embed *.sql
var FS embed.FS
