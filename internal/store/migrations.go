package store

import (
	"embed"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// initMigrations points goose at the embedded migrations.
func initMigrations() {
	goose.SetBaseFS(migrationFS)
}
