// Package migrations holds the versioned PostgreSQL schema. Files follow the
// golang-migrate naming scheme: NNNNNN_name.up.sql / NNNNNN_name.down.sql.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
