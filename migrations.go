// Package caseflow embeds the SQL migrations so the server binary can
// bootstrap its own schema.
package caseflow

import "embed"

//go:embed migrations/*.up.sql
var migrationsFS embed.FS

// Migrations exposes the embedded migration files.
var Migrations = migrationsFS
