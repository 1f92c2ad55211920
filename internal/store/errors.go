package store

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
)

var (
	// ErrNotFound is a sentinel error used when a queried node does not
	// exist in the store.
	ErrNotFound = errors.New("node is not found")
	// ErrTransactionClosed indicates use of a transaction after Close.
	ErrTransactionClosed = errors.New("transaction is closed")
	// ErrNodeNotInitialized indicates a mutation on a node handle whose
	// lookup or creation did not succeed.
	ErrNodeNotInitialized = errors.New("node is not initialized")
	// ErrUnsupportedDriver indicates a driver other than sqlite3 or pgx.
	ErrUnsupportedDriver = errors.New("unsupported database driver")
)

// isUniqueViolation reports whether err is a unique-constraint violation
// from either supported driver. Used as the backstop classification behind
// the explicit existence check in InitUniqueByCreation.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgerrcode.UniqueViolation
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}

	return false
}

// isNoRows reports whether err is the driver-independent empty-result error.
func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
