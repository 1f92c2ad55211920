// SPDX-License-Identifier: Apache-2.0

// Package processor implements the generic sync change pipeline: it mediates
// between a per-datatype local service and the sync tree store, translating
// remote change records into local-service deliveries and local change lists
// into node mutations.
package processor

import (
	"strconv"
	"sync"

	"github.com/acidburn0zzz/treesync/internal/logger"
	"github.com/acidburn0zzz/treesync/internal/service"
	"github.com/acidburn0zzz/treesync/internal/store"
	"github.com/acidburn0zzz/treesync/models"
)

// GenericChangeProcessor is the bidirectional change pipeline for one
// datatype family. It stages inbound remote changes under a read
// transaction and delivers them to the local service on commit, and applies
// outbound local changes to the tree under a single write transaction.
//
// Entry points serialize on an internal mutex: the change path runs on the
// control goroutine, while read-only probes (status surfaces, the fallback
// timer's start) may arrive from others.
type GenericChangeProcessor struct {
	errorHandler service.ErrorHandler
	localService *service.Handle
	shareHandle  store.UserShare
	logger       *logger.Logger

	mu sync.Mutex

	running bool

	// syncerChanges is the inbound staging buffer: filled by
	// ApplyChangesFromSyncModel, drained by CommitChangesFromSyncModel.
	syncerChanges models.SyncChangeList
}

// NewGenericChangeProcessor wires a pipeline to its collaborators. The local
// service is held weakly: if it is released before commit, the pipeline
// raises an unrecoverable error instead of dereferencing it.
func NewGenericChangeProcessor(
	errorHandler service.ErrorHandler,
	localService *service.Handle,
	shareHandle store.UserShare,
	log *logger.Logger,
) *GenericChangeProcessor {
	return &GenericChangeProcessor{
		errorHandler: errorHandler,
		localService: localService,
		shareHandle:  shareHandle,
		logger:       log,
	}
}

// StartProcessing marks the pipeline running. Before this, apply and commit
// are no-ops.
func (p *GenericChangeProcessor) StartProcessing() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.running = true
}

// StopProcessing halts the pipeline, discards any staged changes, and
// notifies the local service that sync stopped for its type.
func (p *GenericChangeProcessor) StopProcessing() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.running = false
	p.syncerChanges = nil

	if svc, ok := p.localService.Get(); ok {
		svc.OnSyncStopped()
	}
}

// Running reports whether the pipeline accepts changes.
func (p *GenericChangeProcessor) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.running
}

// ApplyChangesFromSyncModel stages an inbound batch of remote change
// records. Deletes carry their specifics inline; for adds and updates the
// current specifics are read from the node under txn, so delivered entries
// reflect the state observed here, not a later one.
//
// On a failed node lookup the staged prefix is discarded and an
// unrecoverable error is reported; the batch is abandoned.
func (p *GenericChangeProcessor) ApplyChangesFromSyncModel(txn store.ReadTransaction, records models.ChangeRecordList) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		p.logger.Error().Msg("apply called on a stopped pipeline")
		return
	}
	if len(p.syncerChanges) != 0 {
		p.logger.Error().Msg("apply called with a non-empty staging buffer")
		return
	}

	for _, record := range records {
		if record.Action == models.RecordActionDelete {
			p.syncerChanges = append(p.syncerChanges, models.NewSyncChange(
				models.ActionDelete,
				models.CreateRemoteData(record.ID, record.Specifics)))
			continue
		}

		action := models.ActionUpdate
		if record.Action == models.RecordActionAdd {
			action = models.ActionAdd
		}

		// Need to load specifics from node.
		node := txn.NewReadNode()
		if node.InitByIDLookup(record.ID) != store.InitOK {
			p.reportInboundLookupFailure(record.ID)
			p.syncerChanges = nil
			return
		}

		p.syncerChanges = append(p.syncerChanges, models.NewSyncChange(
			action,
			models.CreateRemoteData(record.ID, node.EntitySpecifics())))
	}
}

// CommitChangesFromSyncModel drains the staging buffer into the local
// service. No-op when the pipeline is stopped or nothing is staged. When the
// local service has been torn down the buffer is dropped and an
// unrecoverable error is raised, scoped to the datatype of the first staged
// change.
func (p *GenericChangeProcessor) CommitChangesFromSyncModel() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		return
	}
	if len(p.syncerChanges) == 0 {
		return
	}

	svc, alive := p.localService.Get()
	if !alive {
		p.reportLocalServiceDestroyed(p.syncerChanges[0].SyncData().DataType())
		p.syncerChanges = nil
		return
	}

	err := svc.ProcessSyncChanges(models.FromHere(), p.syncerChanges)
	p.syncerChanges = nil
	if err.IsSet() {
		p.errorHandler.OnSingleDatatypeUnrecoverableError(err.Location(), err.Message())
		return
	}

	svc.OnChangesApplied()
}

// StagedChangeCount reports how many inbound changes await commit.
func (p *GenericChangeProcessor) StagedChangeCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return len(p.syncerChanges)
}

func (p *GenericChangeProcessor) reportInboundLookupFailure(id int64) {
	loc := models.FromHere()
	message := "Failed to look up data for received change with id " +
		strconv.FormatInt(id, 10)
	p.errorHandler.OnSingleDatatypeUnrecoverableError(loc, message)
	p.logger.Error().Int64("id", id).Msg("Apply: lookup failed.")
}

func (p *GenericChangeProcessor) reportLocalServiceDestroyed(t models.ModelType) {
	err := models.NewSyncError(models.FromHere(), models.KindLocalServiceDestroyed,
		"Local service destroyed.", t)
	p.errorHandler.OnSingleDatatypeUnrecoverableError(err.Location(), err.Message())
	p.logger.Error().Str("type", t.String()).Msg("Commit: local service destroyed.")
}
