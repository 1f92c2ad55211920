package service

//go:generate mockgen -source=interfaces.go -destination=../mock/syncable_service_mock.go -package=mock

import "github.com/acidburn0zzz/treesync/models"

// SyncableService is the per-datatype local service the change pipeline
// delivers inbound changes to. Implementations own the local model for one
// datatype (preferences, passwords, ...).
//
// All methods are invoked synchronously on the pipeline's control goroutine.
type SyncableService interface {
	// ProcessSyncChanges applies an ordered batch of changes to the local
	// model. A set returned error is unrecoverable at datatype scope.
	ProcessSyncChanges(location models.Location, changes models.SyncChangeList) models.SyncError

	// OnChangesApplied is a post-commit notification.
	OnChangesApplied()

	// OnSyncStopped tells the service that sync has shut down for its type.
	OnSyncStopped()
}

// ErrorHandler receives unrecoverable single-datatype failures from the
// pipeline.
type ErrorHandler interface {
	OnSingleDatatypeUnrecoverableError(location models.Location, message string)
}
