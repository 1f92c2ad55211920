package store

import (
	"database/sql"

	"github.com/acidburn0zzz/treesync/internal/logger"
	"github.com/acidburn0zzz/treesync/migrations"
)

// DB wraps the raw database handle together with its driver name, so the
// share can pick the right placeholder format and migration dialect.
type DB struct {
	*sql.DB
	driver string
	logger *logger.Logger
}

func (db *DB) Migrate() error {
	return migrations.Migrate(db.DB, db.driver)
}
