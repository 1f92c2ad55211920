// SPDX-License-Identifier: Apache-2.0

package processor

import (
	"github.com/acidburn0zzz/treesync/internal/store"
	"github.com/acidburn0zzz/treesync/models"
)

// GetSyncDataForType enumerates every live node under the type root of t, in
// sibling order, as remote sync data. Bookmarks are hierarchical and cannot
// be flattened by a sibling walk.
func (p *GenericChangeProcessor) GetSyncDataForType(t models.ModelType) ([]models.SyncData, models.SyncError) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if t == models.Bookmarks {
		panic("bookmarks require full tree traversal")
	}
	typeStr := t.String()

	txn, err := p.shareHandle.ReadTransaction()
	if err != nil {
		return nil, models.NewSyncError(models.FromHere(), models.KindLookupFailed,
			"Failed to open read transaction: "+err.Error(), t)
	}
	defer txn.Close()

	root := txn.NewReadNode()
	if root.InitByTagLookup(t.RootTag()) != store.InitOK {
		return nil, models.NewSyncError(models.FromHere(), models.KindRootMissing,
			"Server did not create the top-level "+typeStr+" node. We might be running against an out-of-date server.", t)
	}

	var current []models.SyncData

	childID, err := root.FirstChildID()
	if err != nil {
		return nil, models.NewSyncError(models.FromHere(), models.KindLookupFailed,
			"Failed to fetch child node for type "+typeStr+".", t)
	}
	for childID != store.KInvalidID {
		child := txn.NewReadNode()
		if child.InitByIDLookup(childID) != store.InitOK {
			return nil, models.NewSyncError(models.FromHere(), models.KindLookupFailed,
				"Failed to fetch child node for type "+typeStr+".", t)
		}
		current = append(current, models.CreateRemoteData(child.ID(), child.EntitySpecifics()))

		childID, err = child.SuccessorID()
		if err != nil {
			return nil, models.NewSyncError(models.FromHere(), models.KindLookupFailed,
				"Failed to fetch successor node for type "+typeStr+".", t)
		}
	}

	return current, models.SyncError{}
}

// SyncModelHasUserCreatedNodes reports whether the type root of t has any
// children. ok is false when the root could not be located.
func (p *GenericChangeProcessor) SyncModelHasUserCreatedNodes(t models.ModelType) (hasNodes bool, ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	txn, err := p.shareHandle.ReadTransaction()
	if err != nil {
		p.logger.Err(err).Msg("failed to open read transaction")
		return false, false
	}
	defer txn.Close()

	root := txn.NewReadNode()
	if root.InitByTagLookup(t.RootTag()) != store.InitOK {
		p.logger.Error().Str("type", t.String()).Msg("could not find root node")
		return false, false
	}

	hasNodes, err = root.HasChildren()
	if err != nil {
		p.logger.Err(err).Msg("failed to probe root children")
		return false, false
	}
	return hasNodes, true
}

// CryptoReadyIfNecessary reports whether encryption state permits syncing t:
// either the type is not in the persisted encrypted set, or the
// cryptographer holds usable keys.
func (p *GenericChangeProcessor) CryptoReadyIfNecessary(t models.ModelType) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	txn, err := p.shareHandle.ReadTransaction()
	if err != nil {
		p.logger.Err(err).Msg("failed to open read transaction")
		return false
	}
	defer txn.Close()

	encryptedTypes, err := txn.EncryptedTypes()
	if err != nil {
		p.logger.Err(err).Msg("failed to read encrypted types")
		return false
	}

	return !encryptedTypes.Has(t) || txn.Cryptographer().IsReady()
}
