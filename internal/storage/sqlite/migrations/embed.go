package migrations

import "embed"

// FS holds the profile and checkpoint schema.
//
//go:embed *.sql
var FS embed.FS
