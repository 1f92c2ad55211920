// SPDX-License-Identifier: Apache-2.0

package store

import (
	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/acidburn0zzz/treesync/models"
)

// sqlNode implements [ReadNode] and [WriteNode] over a row of the nodes
// table. A handle is bound to one transaction and must not outlive it.
//
// found is set as soon as a lookup physically located a row, even when
// initialization then fails; this keeps EntrySpecifics usable for the
// encryption diagnostic. inited is set only on InitOK / InitSuccess.
type sqlNode struct {
	txn *sqlTransaction

	row    nodeRow
	found  bool
	inited bool

	// decrypted holds the plaintext specifics when the stored payload was
	// encrypted and the keybag could open it.
	decrypted *models.EntitySpecifics
}

// InitByIDLookup implements [BaseNode].
func (n *sqlNode) InitByIDLookup(id int64) InitByLookupResult {
	if id == KInvalidID {
		return InitFailedPrecondition
	}
	return n.lookup(sq.Eq{"id": id})
}

// InitByClientTagLookup implements [BaseNode]. An empty tag is a
// precondition failure, not a missing entry.
func (n *sqlNode) InitByClientTagLookup(t models.ModelType, tag string) InitByLookupResult {
	if t == models.Unspecified || tag == "" {
		return InitFailedPrecondition
	}
	return n.lookup(sq.Eq{"model_type": int(t), "client_tag": tag})
}

// InitByTagLookup implements [BaseNode]; it locates a per-type root anchor.
func (n *sqlNode) InitByTagLookup(rootTag string) InitByLookupResult {
	if rootTag == "" {
		return InitFailedPrecondition
	}
	return n.lookup(sq.Eq{"root_tag": rootTag})
}

func (n *sqlNode) lookup(pred sq.Sqlizer) InitByLookupResult {
	if n.txn.closed {
		return InitFailedPrecondition
	}

	row, err := n.txn.selectNode(pred)
	if isNoRows(err) {
		return InitFailedEntryNotGood
	}
	if err != nil {
		n.txn.share.logger.Err(err).Msg("node lookup failed")
		return InitFailedEntryNotGood
	}

	n.row = row
	n.found = true

	if row.isDel {
		return InitFailedEntryIsDel
	}

	if row.specifics.HasEncrypted() {
		plaintext, err := n.txn.share.crypto.Decrypt(*row.specifics.Encrypted)
		if err != nil {
			return InitFailedDecryptIfNecessary
		}
		n.decrypted = &models.EntitySpecifics{
			Type: row.specifics.Type,
			Data: plaintext,
		}
	}

	n.inited = true
	return InitOK
}

// ID implements [BaseNode].
func (n *sqlNode) ID() int64 {
	if !n.found {
		return KInvalidID
	}
	return n.row.id
}

// Title implements [BaseNode].
func (n *sqlNode) Title() string { return n.row.title }

// EntitySpecifics implements [BaseNode]: the decrypted view.
func (n *sqlNode) EntitySpecifics() models.EntitySpecifics {
	if n.decrypted != nil {
		return *n.decrypted
	}
	return n.row.specifics
}

// EntrySpecifics implements [BaseNode]: the raw stored view, encrypted
// marker included. Valid whenever found.
func (n *sqlNode) EntrySpecifics() models.EntitySpecifics {
	return n.row.specifics
}

// FirstChildID implements [BaseNode].
func (n *sqlNode) FirstChildID() (int64, error) {
	if !n.inited {
		return KInvalidID, ErrNodeNotInitialized
	}
	return n.txn.selectChildID(n.row.id, nil)
}

// SuccessorID implements [BaseNode]. KInvalidID terminates the chain.
func (n *sqlNode) SuccessorID() (int64, error) {
	if !n.inited {
		return KInvalidID, ErrNodeNotInitialized
	}

	var parent any
	if n.row.parentID.Valid {
		parent = n.row.parentID.Int64
	}
	return n.txn.selectChildID(parent, &n.row.position)
}

// HasChildren implements [BaseNode].
func (n *sqlNode) HasChildren() (bool, error) {
	if !n.inited {
		return false, ErrNodeNotInitialized
	}

	id, err := n.txn.selectChildID(n.row.id, nil)
	if err != nil {
		return false, err
	}
	return id != KInvalidID, nil
}

// InitUniqueByCreation implements [WriteNode]. The new node becomes the last
// child of root; (type, tag) is unique among live nodes.
func (n *sqlNode) InitUniqueByCreation(t models.ModelType, root ReadNode, tag string) InitUniqueByCreationResult {
	if tag == "" {
		return InitFailedEmptyTag
	}
	if t == models.Unspecified || root == nil || root.ID() == KInvalidID || n.txn.closed {
		return InitFailedCouldNotCreateEntry
	}

	// Explicit existence check first; the partial unique index is the
	// backstop against races. A tombstoned entry does not block creation.
	probe := &sqlNode{txn: n.txn}
	switch probe.InitByClientTagLookup(t, tag) {
	case InitOK, InitFailedDecryptIfNecessary:
		return InitFailedEntryAlreadyExists
	}

	var position int64
	posQuery := n.txn.share.sb.Select("COALESCE(MAX(position), 0) + 1").
		From("nodes").Where(sq.Eq{"parent_id": root.ID()})
	sqlStr, args, err := posQuery.ToSql()
	if err != nil {
		return InitFailedSetPredecessor
	}
	if err := n.txn.tx.QueryRow(sqlStr, args...).Scan(&position); err != nil {
		return InitFailedSetPredecessor
	}

	id, err := n.txn.nextNodeID()
	if err != nil {
		return InitFailedCouldNotCreateEntry
	}

	insert := n.txn.share.sb.Insert("nodes").
		Columns("id", "model_type", "client_tag", "parent_id", "position", "title", "specifics", "is_del", "server_guid").
		Values(id, int(t), tag, root.ID(), position, "", "{}", 0, uuid.NewString())
	sqlStr, args, err = insert.ToSql()
	if err != nil {
		return InitFailedCouldNotCreateEntry
	}
	if _, err := n.txn.tx.Exec(sqlStr, args...); err != nil {
		if isUniqueViolation(err) {
			return InitFailedEntryAlreadyExists
		}
		n.txn.share.logger.Err(err).Msg("node creation failed")
		return InitFailedCouldNotCreateEntry
	}

	n.row = nodeRow{
		id:        id,
		modelType: t,
		position:  position,
	}
	n.row.clientTag.Valid = true
	n.row.clientTag.String = tag
	n.row.parentID.Valid = true
	n.row.parentID.Int64 = root.ID()
	n.found = true
	n.inited = true
	return InitSuccess
}

// SetTitle implements [WriteNode].
func (n *sqlNode) SetTitle(title string) error {
	if !n.inited {
		return ErrNodeNotInitialized
	}

	sqlStr, args, err := n.txn.share.sb.Update("nodes").
		Set("title", title).
		Where(sq.Eq{"id": n.row.id}).ToSql()
	if err != nil {
		return err
	}
	if _, err := n.txn.tx.Exec(sqlStr, args...); err != nil {
		return err
	}

	n.row.title = title
	return nil
}

// SetEntitySpecifics implements [WriteNode].
func (n *sqlNode) SetEntitySpecifics(specifics models.EntitySpecifics) error {
	if !n.inited {
		return ErrNodeNotInitialized
	}

	encoded, err := encodeSpecifics(specifics)
	if err != nil {
		return err
	}

	sqlStr, args, err := n.txn.share.sb.Update("nodes").
		Set("specifics", encoded).
		Where(sq.Eq{"id": n.row.id}).ToSql()
	if err != nil {
		return err
	}
	if _, err := n.txn.tx.Exec(sqlStr, args...); err != nil {
		return err
	}

	n.row.specifics = specifics
	n.decrypted = nil
	return nil
}

// Remove implements [WriteNode]: tombstones the node. The partial unique
// index frees the (type, tag) pair for reuse.
func (n *sqlNode) Remove() error {
	if !n.inited {
		return ErrNodeNotInitialized
	}

	sqlStr, args, err := n.txn.share.sb.Update("nodes").
		Set("is_del", 1).
		Where(sq.Eq{"id": n.row.id}).ToSql()
	if err != nil {
		return err
	}
	if _, err := n.txn.tx.Exec(sqlStr, args...); err != nil {
		return err
	}

	n.row.isDel = true
	n.inited = false
	return nil
}
