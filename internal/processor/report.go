// SPDX-License-Identifier: Apache-2.0

package processor

import "github.com/acidburn0zzz/treesync/models"

// One emission helper per error kind. Each captures its own source location
// when building the record, so crash tooling can tell apart kinds whose
// messages read alike. Do not merge these into a table.

func (p *GenericChangeProcessor) report(err models.SyncError, logMsg string) models.SyncError {
	p.errorHandler.OnSingleDatatypeUnrecoverableError(err.Location(), err.Message())
	p.logger.Error().Str("type", err.DataType().String()).Str("message", err.Message()).Msg(logMsg)
	return err
}

func (p *GenericChangeProcessor) reportTransactionFailure(cause error) models.SyncError {
	err := models.NewSyncError(models.FromHere(), models.KindLookupFailed,
		"Failed to open write transaction: "+cause.Error(), models.Unspecified)
	return p.report(err, "Process: transaction failure.")
}

func (p *GenericChangeProcessor) reportCommitFailure(cause error) models.SyncError {
	err := models.NewSyncError(models.FromHere(), models.KindLookupFailed,
		"Failed to commit write transaction: "+cause.Error(), models.Unspecified)
	return p.report(err, "Process: commit failure.")
}

func (p *GenericChangeProcessor) reportUnspecifiedType() models.SyncError {
	err := models.NewSyncError(models.FromHere(), models.KindUnspecifiedType,
		"Received change with unspecified datatype.", models.Unspecified)
	return p.report(err, "Process: unspecified type.")
}

func (p *GenericChangeProcessor) reportUnsetChange(t models.ModelType, typeStr string) models.SyncError {
	err := models.NewSyncError(models.FromHere(), models.KindUnsetChange,
		"Received unset change for "+typeStr+".", t)
	return p.report(err, "Process: unset change.")
}

func (p *GenericChangeProcessor) reportRootMissing(t models.ModelType, typeStr string) models.SyncError {
	err := models.NewSyncError(models.FromHere(), models.KindRootMissing,
		"Failed to look up root node for type "+typeStr+".", t)
	return p.report(err, "Create: Root missing.")
}

func (p *GenericChangeProcessor) reportCreateEmptyTag(t models.ModelType, typeStr string) models.SyncError {
	err := models.NewSyncError(models.FromHere(), models.KindEmptyTag,
		"Failed to create "+typeStr+" node: client tag was empty.", t)
	return p.report(err, "Create: Empty tag.")
}

func (p *GenericChangeProcessor) reportCreateAlreadyExists(t models.ModelType, typeStr string) models.SyncError {
	err := models.NewSyncError(models.FromHere(), models.KindEntryAlreadyExists,
		"Failed to create "+typeStr+" node: node already exists.", t)
	return p.report(err, "Create: Entry already exists.")
}

func (p *GenericChangeProcessor) reportCreateCouldNotCreate(t models.ModelType, typeStr string) models.SyncError {
	err := models.NewSyncError(models.FromHere(), models.KindCouldNotCreate,
		"Failed to create "+typeStr+" node: could not create entry.", t)
	return p.report(err, "Create: Could not create entry.")
}

func (p *GenericChangeProcessor) reportCreateSetPredecessor(t models.ModelType, typeStr string) models.SyncError {
	err := models.NewSyncError(models.FromHere(), models.KindSetPredecessorFailed,
		"Failed to create "+typeStr+" node: failed to set predecessor.", t)
	return p.report(err, "Create: Failed to set predecessor.")
}

func (p *GenericChangeProcessor) reportCreateUnknown(t models.ModelType, typeStr string) models.SyncError {
	err := models.NewSyncError(models.FromHere(), models.KindCreateUnknown,
		"Failed to create "+typeStr+" node: unknown error.", t)
	return p.report(err, "Create: Unknown error.")
}

func (p *GenericChangeProcessor) reportUpdateEmptyTag(t models.ModelType, typeStr string) models.SyncError {
	err := models.NewSyncError(models.FromHere(), models.KindUpdateEmptyTag,
		"Failed to load entry w/empty tag for "+typeStr+".", t)
	return p.report(err, "Update: Empty tag.")
}

func (p *GenericChangeProcessor) reportUpdateBadEntry(t models.ModelType, typeStr string) models.SyncError {
	err := models.NewSyncError(models.FromHere(), models.KindUpdateBadEntry,
		"Failed to load entry for "+typeStr+".", t)
	return p.report(err, "Update: Bad entry.")
}

func (p *GenericChangeProcessor) reportUpdateDeletedEntry(t models.ModelType, typeStr string) models.SyncError {
	err := models.NewSyncError(models.FromHere(), models.KindUpdateDeletedEntry,
		"Failed to load deleted entry for "+typeStr+".", t)
	return p.report(err, "Update: Deleted entry.")
}

func (p *GenericChangeProcessor) reportUpdateWriteFailure(t models.ModelType, typeStr string) models.SyncError {
	err := models.NewSyncError(models.FromHere(), models.KindUpdateBadEntry,
		"Failed to write entry for "+typeStr+".", t)
	return p.report(err, "Update: Write failure.")
}

func (p *GenericChangeProcessor) reportEncrMissingKeyNigoriMismatch(t models.ModelType, typeStr string) models.SyncError {
	err := models.NewSyncError(models.FromHere(), models.KindEncrMissingKeyNigoriMismatch,
		"Failed to load encrypted entry, missing key and nigori mismatch for "+typeStr+".", t)
	return p.report(err, "Update: encr case 1.")
}

func (p *GenericChangeProcessor) reportEncrHaveKeyNigoriMatches(t models.ModelType, typeStr string) models.SyncError {
	err := models.NewSyncError(models.FromHere(), models.KindEncrHaveKeyNigoriMatches,
		"Failed to load encrypted entry, we have the key and the nigori matches (?!) for "+typeStr+".", t)
	return p.report(err, "Update: encr case 2.")
}

func (p *GenericChangeProcessor) reportEncrMissingKeyNigoriMatches(t models.ModelType, typeStr string) models.SyncError {
	err := models.NewSyncError(models.FromHere(), models.KindEncrMissingKeyNigoriMatches,
		"Failed to load encrypted entry, missing key and nigori match for "+typeStr+".", t)
	return p.report(err, "Update: encr case 3.")
}

func (p *GenericChangeProcessor) reportEncrHaveKeyNigoriMismatch(t models.ModelType, typeStr string) models.SyncError {
	err := models.NewSyncError(models.FromHere(), models.KindEncrHaveKeyNigoriMismatch,
		"Failed to load encrypted entry, we have the key(?!) and nigori mismatch for "+typeStr+".", t)
	return p.report(err, "Update: encr case 4.")
}

func (p *GenericChangeProcessor) reportDeleteLocalEmptyTag(t models.ModelType, typeStr string) models.SyncError {
	err := models.NewSyncError(models.FromHere(), models.KindDeleteLocalEmptyTag,
		"Failed to delete "+typeStr+" node. Local data, empty tag.", t)
	return p.report(err, "Delete: Empty tag.")
}

func (p *GenericChangeProcessor) reportDeleteBadEntry(errorPrefix string, t models.ModelType) models.SyncError {
	err := models.NewSyncError(models.FromHere(), models.KindDeleteBadEntry,
		errorPrefix+"could not find entry.", t)
	return p.report(err, "Delete: Bad entry.")
}

func (p *GenericChangeProcessor) reportDeleteAlreadyDeleted(errorPrefix string, t models.ModelType) models.SyncError {
	err := models.NewSyncError(models.FromHere(), models.KindDeleteAlreadyDeleted,
		errorPrefix+"entry is already deleted.", t)
	return p.report(err, "Delete: Deleted entry.")
}

func (p *GenericChangeProcessor) reportDeleteUndecryptable(errorPrefix string, t models.ModelType) models.SyncError {
	err := models.NewSyncError(models.FromHere(), models.KindDeleteUndecryptable,
		errorPrefix+"failed to decrypt.", t)
	return p.report(err, "Delete: Undecryptable entry.")
}

func (p *GenericChangeProcessor) reportDeletePrecondition(errorPrefix string, t models.ModelType) models.SyncError {
	err := models.NewSyncError(models.FromHere(), models.KindDeletePrecondition,
		errorPrefix+"a precondition was not met for calling init.", t)
	return p.report(err, "Delete: Failed precondition.")
}

func (p *GenericChangeProcessor) reportDeleteUnknown(errorPrefix string, t models.ModelType) models.SyncError {
	err := models.NewSyncError(models.FromHere(), models.KindDeleteUnknown,
		errorPrefix+"unknown error.", t)
	return p.report(err, "Delete: Unknown error.")
}
