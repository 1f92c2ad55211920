package store

import (
	"github.com/acidburn0zzz/treesync/internal/crypto"
	"github.com/acidburn0zzz/treesync/models"
)

// KInvalidID marks the end of a sibling chain and is never a real node id.
const KInvalidID int64 = 0

// InitByLookupResult is the outcome of a node lookup constructor.
type InitByLookupResult int

const (
	InitOK InitByLookupResult = iota
	// InitFailedEntryNotGood — no entry matched the lookup criteria.
	InitFailedEntryNotGood
	// InitFailedEntryIsDel — the entry exists but is tombstoned.
	InitFailedEntryIsDel
	// InitFailedDecryptIfNecessary — the entry's specifics are encrypted
	// and could not be decrypted with the current keybag.
	InitFailedDecryptIfNecessary
	// InitFailedPrecondition — a precondition for the lookup was not met
	// (e.g. an empty client tag).
	InitFailedPrecondition
)

// InitUniqueByCreationResult is the outcome of creating a uniquely-tagged
// node under a type root.
type InitUniqueByCreationResult int

const (
	InitSuccess InitUniqueByCreationResult = iota
	InitFailedEmptyTag
	InitFailedEntryAlreadyExists
	InitFailedCouldNotCreateEntry
	InitFailedSetPredecessor
)

// UserShare is the process-wide handle to the sync tree store. The change
// pipeline holds a non-owning reference and opens scoped transactions
// through it.
type UserShare interface {
	// ReadTransaction opens a read-scoped transaction. The caller must
	// Close it on every exit path.
	ReadTransaction() (ReadTransaction, error)

	// WriteTransaction opens a write-scoped transaction. Close commits
	// whatever was mutated; there is no partial rollback.
	WriteTransaction() (WriteTransaction, error)
}

// BaseTransaction is the capability set shared by read and write
// transactions. Cryptographer access always happens through a transaction.
type BaseTransaction interface {
	// Cryptographer returns the store's cryptographer. Valid only while
	// the transaction is open.
	Cryptographer() crypto.Cryptographer

	// EncryptedTypes returns the nigori encrypted-type set as persisted in
	// the store, observed under this transaction.
	EncryptedTypes() (models.ModelTypeSet, error)

	// Close releases the transaction. Idempotent.
	Close() error
}

// ReadTransaction scopes read-only node access.
type ReadTransaction interface {
	BaseTransaction

	// NewReadNode returns an uninitialized read handle bound to this
	// transaction; initialize it with one of the InitBy* constructors.
	NewReadNode() ReadNode
}

// WriteTransaction scopes node mutation. A single write transaction covers
// an entire outbound batch.
type WriteTransaction interface {
	BaseTransaction

	NewReadNode() ReadNode

	// NewWriteNode returns an uninitialized write handle bound to this
	// transaction.
	NewWriteNode() WriteNode
}

// BaseNode is the read capability of a tree-store entry. A node handle is
// unusable until one of the InitBy* constructors returns InitOK, with one
// exception: EntrySpecifics is valid whenever a lookup physically located a
// row, even if initialization then failed (used by the encryption
// diagnostic).
type BaseNode interface {
	InitByIDLookup(id int64) InitByLookupResult
	InitByClientTagLookup(t models.ModelType, tag string) InitByLookupResult
	InitByTagLookup(rootTag string) InitByLookupResult

	ID() int64
	Title() string

	// EntitySpecifics returns the specifics with any encrypted payload
	// already decrypted.
	EntitySpecifics() models.EntitySpecifics

	// EntrySpecifics is the raw entry view: specifics exactly as stored,
	// including the encrypted marker. Only used to diagnose encryption
	// mismatches.
	EntrySpecifics() models.EntitySpecifics

	FirstChildID() (int64, error)
	SuccessorID() (int64, error)
	HasChildren() (bool, error)
}

// ReadNode is a read-only node handle.
type ReadNode interface {
	BaseNode
}

// WriteNode is a mutable node handle.
type WriteNode interface {
	BaseNode

	// InitUniqueByCreation creates a node tagged tag as the last child of
	// root. The (type, tag) pair is unique among live nodes.
	InitUniqueByCreation(t models.ModelType, root ReadNode, tag string) InitUniqueByCreationResult

	SetTitle(title string) error
	SetEntitySpecifics(specifics models.EntitySpecifics) error

	// Remove tombstones the node.
	Remove() error
}
