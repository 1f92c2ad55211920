// SPDX-License-Identifier: Apache-2.0

package store

import (
	"database/sql"
	"fmt"

	"github.com/acidburn0zzz/treesync/internal/crypto"
	"github.com/acidburn0zzz/treesync/models"
)

// sqlTransaction implements [ReadTransaction] and [WriteTransaction] over a
// database/sql transaction. Close commits writable transactions and rolls
// back read-only ones; there is no partial rollback within a batch.
type sqlTransaction struct {
	share    *Share
	tx       *sql.Tx
	writable bool
	closed   bool
}

// Cryptographer implements [BaseTransaction].
func (t *sqlTransaction) Cryptographer() crypto.Cryptographer {
	return t.share.crypto
}

// EncryptedTypes implements [BaseTransaction]. The set is read from the
// nigori table under this transaction, so it reflects the same snapshot the
// node lookups see.
func (t *sqlTransaction) EncryptedTypes() (models.ModelTypeSet, error) {
	if t.closed {
		return nil, ErrTransactionClosed
	}

	sqlStr, args, err := t.share.sb.Select("model_type").From("nigori_types").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build nigori query: %w", err)
	}

	rows, err := t.tx.Query(sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("query nigori set: %w", err)
	}
	defer rows.Close()

	set := models.NewModelTypeSet()
	for rows.Next() {
		var raw int
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan nigori row: %w", err)
		}
		set.Put(models.ModelType(raw))
	}
	return set, rows.Err()
}

// Close implements [BaseTransaction].
func (t *sqlTransaction) Close() error {
	if t.closed {
		return nil
	}
	t.closed = true

	if t.writable {
		return t.tx.Commit()
	}
	return t.tx.Rollback()
}

// NewReadNode implements [ReadTransaction].
func (t *sqlTransaction) NewReadNode() ReadNode {
	return &sqlNode{txn: t}
}

// NewWriteNode implements [WriteTransaction].
func (t *sqlTransaction) NewWriteNode() WriteNode {
	return &sqlNode{txn: t}
}

// nextNodeID allocates the next node id under this transaction.
func (t *sqlTransaction) nextNodeID() (int64, error) {
	var next int64
	err := t.tx.QueryRow(`SELECT COALESCE(MAX(id), 0) + 1 FROM nodes`).Scan(&next)
	if err != nil {
		return KInvalidID, fmt.Errorf("allocate node id: %w", err)
	}
	return next, nil
}
