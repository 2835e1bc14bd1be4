// Package migrations contains embedded SQL migrations for the SQLite store.
package migrations

import "embed"

//go:embed compliance/*.sql
var ComplianceFS embed.FS
