// Package migrations embeds SQL migration files.
package migrations

import "embed"

// FS contains the postgres schema migrations for the user/permission store.
//
//go:embed *.sql
var FS embed.FS
