// SPDX-License-Identifier: Apache-2.0

package service

import (
	"fmt"
	"sync"

	"github.com/acidburn0zzz/treesync/internal/logger"
	"github.com/acidburn0zzz/treesync/models"
)

// PreferenceService is an in-memory [SyncableService] for the Preferences
// datatype. It is the reference local service: the daemon registers it with
// the pipeline, and the end-to-end tests drive the pipeline through it.
type PreferenceService struct {
	logger *logger.Logger

	mu    sync.RWMutex
	prefs map[string]preferenceEntry

	applied int
	stopped bool
}

type preferenceEntry struct {
	title     string
	specifics models.EntitySpecifics
}

func NewPreferenceService(log *logger.Logger) *PreferenceService {
	return &PreferenceService{
		logger: log,
		prefs:  make(map[string]preferenceEntry),
	}
}

// ProcessSyncChanges implements [SyncableService]. Inbound remote changes
// overwrite the local preference map; order within the batch is respected.
func (s *PreferenceService) ProcessSyncChanges(location models.Location, changes models.SyncChangeList) models.SyncError {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return models.NewSyncError(models.FromHere(), models.KindLocalServiceDestroyed,
			"preference service already stopped", models.Preferences)
	}

	for _, change := range changes {
		data := change.SyncData()
		if data.DataType() != models.Preferences {
			return models.NewSyncError(models.FromHere(), models.KindUnspecifiedType,
				fmt.Sprintf("preference service received %s change", data.DataType()),
				data.DataType())
		}

		key := remoteKey(data)
		switch change.ChangeType() {
		case models.ActionDelete:
			delete(s.prefs, key)
		case models.ActionAdd, models.ActionUpdate:
			s.prefs[key] = preferenceEntry{
				title:     data.Title(),
				specifics: data.Specifics(),
			}
		default:
			return models.NewSyncError(models.FromHere(), models.KindUnsetChange,
				"preference service received unset change", models.Preferences)
		}
	}

	s.logger.Debug().Int("changes", len(changes)).Msg("preferences updated from sync")
	return models.SyncError{}
}

// OnChangesApplied implements [SyncableService].
func (s *PreferenceService) OnChangesApplied() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.applied++
}

// OnSyncStopped implements [SyncableService].
func (s *PreferenceService) OnSyncStopped() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopped = true
}

// LocalChange builds the outbound change describing a local preference edit.
// The returned list is what the daemon feeds to ProcessSyncChanges on the
// pipeline side.
func (s *PreferenceService) LocalChange(action models.ChangeType, tag, title string, payload []byte) models.SyncChangeList {
	specifics := models.EntitySpecifics{
		Type: models.Preferences,
		Data: payload,
	}
	return models.SyncChangeList{
		models.NewSyncChange(action, models.CreateLocalData(tag, title, specifics)),
	}
}

// Len reports how many preferences the service currently holds.
func (s *PreferenceService) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.prefs)
}

// AppliedBatches reports how many OnChangesApplied notifications arrived.
func (s *PreferenceService) AppliedBatches() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.applied
}

func remoteKey(data models.SyncData) string {
	return fmt.Sprintf("remote/%d", data.RemoteID())
}
