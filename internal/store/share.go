// SPDX-License-Identifier: Apache-2.0

package store

import (
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/acidburn0zzz/treesync/internal/crypto"
	"github.com/acidburn0zzz/treesync/internal/logger"
	"github.com/acidburn0zzz/treesync/models"
)

// Share is the SQL-backed implementation of [UserShare]. One Share is owned
// by the application; the change pipeline holds it as a non-owning
// reference and only ever touches the tree through scoped transactions.
type Share struct {
	db     *DB
	sb     sq.StatementBuilderType
	crypto crypto.Cryptographer
	logger *logger.Logger
}

// NewShare wires a database handle and a cryptographer into a [UserShare].
// The squirrel placeholder format follows the driver the connection was
// opened with.
func NewShare(db *DB, cryptographer crypto.Cryptographer, log *logger.Logger) (*Share, error) {
	var sb sq.StatementBuilderType
	switch db.driver {
	case "sqlite3":
		sb = sq.StatementBuilder.PlaceholderFormat(sq.Question)
	case "pgx":
		sb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDriver, db.driver)
	}

	return &Share{
		db:     db,
		sb:     sb,
		crypto: cryptographer,
		logger: log,
	}, nil
}

// ReadTransaction implements [UserShare].
func (s *Share) ReadTransaction() (ReadTransaction, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("open read transaction: %w", err)
	}
	return &sqlTransaction{share: s, tx: tx}, nil
}

// WriteTransaction implements [UserShare].
func (s *Share) WriteTransaction() (WriteTransaction, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("open write transaction: %w", err)
	}
	return &sqlTransaction{share: s, tx: tx, writable: true}, nil
}

// Cryptographer returns the share's cryptographer. The pipeline never calls
// this directly; it goes through a transaction handle.
func (s *Share) Cryptographer() crypto.Cryptographer {
	return s.crypto
}

// EnsureTypeRoots creates the per-type root anchor nodes that are missing.
// Safe to call repeatedly; existing roots are left alone.
func (s *Share) EnsureTypeRoots(types ...models.ModelType) error {
	txn, err := s.WriteTransaction()
	if err != nil {
		return err
	}
	defer txn.Close()

	impl := txn.(*sqlTransaction)
	for _, t := range types {
		rootTag := t.RootTag()
		if rootTag == "" {
			return fmt.Errorf("type %s has no root tag", t)
		}

		node := txn.NewReadNode()
		if node.InitByTagLookup(rootTag) == InitOK {
			continue
		}

		id, err := impl.nextNodeID()
		if err != nil {
			return fmt.Errorf("allocate root id for %s: %w", t, err)
		}

		query := s.sb.Insert("nodes").
			Columns("id", "model_type", "root_tag", "position", "title", "specifics", "is_del", "server_guid").
			Values(id, int(t), rootTag, 0, t.String(), "{}", 0, uuid.NewString())
		sqlStr, args, err := query.ToSql()
		if err != nil {
			return fmt.Errorf("build root insert for %s: %w", t, err)
		}
		if _, err := impl.tx.Exec(sqlStr, args...); err != nil {
			return fmt.Errorf("create root node for %s: %w", t, err)
		}

		s.logger.Debug().Str("type", t.String()).Msg("created type root node")
	}

	return nil
}

// SetTypeEncrypted adds or removes t from the persisted nigori
// encrypted-type set and refreshes the cryptographer's view.
func (s *Share) SetTypeEncrypted(t models.ModelType, encrypted bool) error {
	txn, err := s.WriteTransaction()
	if err != nil {
		return err
	}
	defer txn.Close()

	impl := txn.(*sqlTransaction)

	var query sq.Sqlizer
	if encrypted {
		query = s.sb.Insert("nigori_types").Columns("model_type").Values(int(t))
	} else {
		query = s.sb.Delete("nigori_types").Where(sq.Eq{"model_type": int(t)})
	}
	sqlStr, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("build nigori mutation: %w", err)
	}
	if _, err := impl.tx.Exec(sqlStr, args...); err != nil {
		if encrypted && isUniqueViolation(err) {
			return nil // already marked
		}
		return fmt.Errorf("update nigori set for %s: %w", t, err)
	}

	set, err := txn.EncryptedTypes()
	if err != nil {
		return err
	}
	s.crypto.SetEncryptedTypes(set)
	return nil
}

// LoadEncryptedTypes reads the persisted nigori set into the cryptographer.
// Called once at startup, before the pipeline runs.
func (s *Share) LoadEncryptedTypes() error {
	txn, err := s.ReadTransaction()
	if err != nil {
		return err
	}
	defer txn.Close()

	set, err := txn.EncryptedTypes()
	if err != nil {
		return err
	}
	s.crypto.SetEncryptedTypes(set)
	return nil
}
