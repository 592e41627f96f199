package postgres

import "embed"

// MigrationsFS embeds the goose migration files so the server migrates from
// the binary itself rather than a checkout on disk.
//
//go:embed migrations/*.sql
var MigrationsFS embed.FS
