// Package db embeds the SQL migrations so binaries and tests share one schema.
package db

import "embed"

//go:embed migrations/*.sql
var Migrations embed.FS
