// SPDX-License-Identifier: Apache-2.0

package processor

import (
	"github.com/acidburn0zzz/treesync/internal/store"
	"github.com/acidburn0zzz/treesync/models"
)

// ProcessSyncChanges applies an ordered batch of local changes to the tree
// store under one write transaction. Processing stops at the first failing
// change; mutations already applied stay applied, since closing the write
// transaction commits them.
//
// Every failure path reports through the error handler and returns a set
// error whose emit site identifies the exact precondition that broke.
func (p *GenericChangeProcessor) ProcessSyncChanges(_ models.Location, changes models.SyncChangeList) models.SyncError {
	p.mu.Lock()
	defer p.mu.Unlock()

	txn, err := p.shareHandle.WriteTransaction()
	if err != nil {
		return p.reportTransactionFailure(err)
	}
	// Close is idempotent; the deferred call covers the error returns below,
	// the explicit one at the end surfaces the commit result.
	defer txn.Close()

	for _, change := range changes {
		data := change.SyncData()
		t := data.DataType()
		if t == models.Unspecified {
			return p.reportUnspecifiedType()
		}
		typeStr := t.String()

		switch change.ChangeType() {
		case models.ActionDelete:
			node := txn.NewWriteNode()
			if syncErr := p.attemptDelete(change, t, typeStr, node); syncErr.IsSet() {
				return syncErr
			}

		case models.ActionAdd:
			root := txn.NewReadNode()
			if root.InitByTagLookup(t.RootTag()) != store.InitOK {
				return p.reportRootMissing(t, typeStr)
			}

			node := txn.NewWriteNode()
			switch node.InitUniqueByCreation(t, root, data.Tag()) {
			case store.InitSuccess:
			case store.InitFailedEmptyTag:
				return p.reportCreateEmptyTag(t, typeStr)
			case store.InitFailedEntryAlreadyExists:
				return p.reportCreateAlreadyExists(t, typeStr)
			case store.InitFailedCouldNotCreateEntry:
				return p.reportCreateCouldNotCreate(t, typeStr)
			case store.InitFailedSetPredecessor:
				return p.reportCreateSetPredecessor(t, typeStr)
			default:
				return p.reportCreateUnknown(t, typeStr)
			}

			if err := node.SetTitle(data.Title()); err != nil {
				return p.reportCreateUnknown(t, typeStr)
			}
			if err := node.SetEntitySpecifics(data.Specifics()); err != nil {
				return p.reportCreateUnknown(t, typeStr)
			}

		case models.ActionUpdate:
			node := txn.NewWriteNode()
			switch result := node.InitByClientTagLookup(t, data.Tag()); result {
			case store.InitOK:
			case store.InitFailedPrecondition:
				return p.reportUpdateEmptyTag(t, typeStr)
			case store.InitFailedEntryNotGood:
				return p.reportUpdateBadEntry(t, typeStr)
			case store.InitFailedEntryIsDel:
				return p.reportUpdateDeletedEntry(t, typeStr)
			default:
				return p.diagnoseEncryptionFailure(txn, node, t, typeStr)
			}

			if err := node.SetTitle(data.Title()); err != nil {
				return p.reportUpdateWriteFailure(t, typeStr)
			}
			if err := node.SetEntitySpecifics(data.Specifics()); err != nil {
				return p.reportUpdateWriteFailure(t, typeStr)
			}

		default:
			return p.reportUnsetChange(t, typeStr)
		}
	}

	if err := txn.Close(); err != nil {
		return p.reportCommitFailure(err)
	}
	return models.SyncError{}
}

// attemptDelete removes the node addressed by change. Local deletes address
// by client tag, remote ones by node id; the resulting error messages keep
// the "Local data" / "Non-local data" distinction so the two paths stay
// tellable apart in crash reports.
func (p *GenericChangeProcessor) attemptDelete(change models.SyncChange, t models.ModelType, typeStr string, node store.WriteNode) models.SyncError {
	data := change.SyncData()

	if data.IsLocal() {
		tag := data.Tag()
		if tag == "" {
			return p.reportDeleteLocalEmptyTag(t, typeStr)
		}
		if result := node.InitByClientTagLookup(t, tag); result != store.InitOK {
			return p.logLookupFailure(result, "Failed to delete "+typeStr+" node. Local data, ", t)
		}
	} else {
		if result := node.InitByIDLookup(data.RemoteID()); result != store.InitOK {
			return p.logLookupFailure(result, "Failed to delete "+typeStr+" node. Non-local data, ", t)
		}
	}

	if err := node.Remove(); err != nil {
		return p.reportDeleteUnknown("Failed to delete "+typeStr+" node. ", t)
	}
	return models.SyncError{}
}

// logLookupFailure maps a failed delete-path lookup to its taxonomy kind.
// Each branch goes through its own emission helper so every kind keeps a
// distinct emit site.
func (p *GenericChangeProcessor) logLookupFailure(result store.InitByLookupResult, errorPrefix string, t models.ModelType) models.SyncError {
	switch result {
	case store.InitFailedEntryNotGood:
		return p.reportDeleteBadEntry(errorPrefix, t)
	case store.InitFailedEntryIsDel:
		return p.reportDeleteAlreadyDeleted(errorPrefix, t)
	case store.InitFailedDecryptIfNecessary:
		return p.reportDeleteUndecryptable(errorPrefix, t)
	case store.InitFailedPrecondition:
		return p.reportDeletePrecondition(errorPrefix, t)
	default:
		return p.reportDeleteUnknown(errorPrefix, t)
	}
}

// diagnoseEncryptionFailure classifies an update lookup that failed for
// neither of the mapped reasons. The entry was physically located, so its
// raw specifics must carry the encrypted marker; it then cross-checks
// whether the keybag can open the blob against whether the persisted nigori
// set claims the type is encrypted, yielding one of four distinct states.
func (p *GenericChangeProcessor) diagnoseEncryptionFailure(txn store.WriteTransaction, node store.WriteNode, t models.ModelType, typeStr string) models.SyncError {
	crypto := txn.Cryptographer()
	encryptedTypes, err := txn.EncryptedTypes()
	if err != nil {
		p.logger.Err(err).Msg("failed to read encrypted types under transaction")
		encryptedTypes = models.NewModelTypeSet()
	}

	specifics := node.EntrySpecifics()
	if !specifics.HasEncrypted() {
		panic("update failed on an entry without encrypted data")
	}

	canDecrypt := crypto.CanDecrypt(*specifics.Encrypted)
	agreement := encryptedTypes.Has(t)

	switch {
	case !agreement && !canDecrypt:
		return p.reportEncrMissingKeyNigoriMismatch(t, typeStr)
	case agreement && canDecrypt:
		return p.reportEncrHaveKeyNigoriMatches(t, typeStr)
	case agreement:
		return p.reportEncrMissingKeyNigoriMatches(t, typeStr)
	default:
		return p.reportEncrHaveKeyNigoriMismatch(t, typeStr)
	}
}
