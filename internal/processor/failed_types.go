// SPDX-License-Identifier: Apache-2.0

package processor

import (
	"sort"
	"sync"

	"github.com/acidburn0zzz/treesync/internal/logger"
	"github.com/acidburn0zzz/treesync/models"
)

// FailedTypesRegistry tracks datatypes knocked out by unrecoverable errors.
// Once a type is registered it stays failed until the registry is reset,
// typically on the next sync restart.
type FailedTypesRegistry struct {
	mu       sync.RWMutex
	failures map[models.ModelType]string
}

func NewFailedTypesRegistry() *FailedTypesRegistry {
	return &FailedTypesRegistry{failures: make(map[models.ModelType]string)}
}

// MarkFailed records t as failed with the triggering message. The first
// message wins; later failures of an already-failed type are dropped.
func (r *FailedTypesRegistry) MarkFailed(t models.ModelType, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.failures[t]; exists {
		return
	}
	r.failures[t] = message
}

// HasFailedTypes reports whether any type is currently failed.
func (r *FailedTypesRegistry) HasFailedTypes() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.failures) > 0
}

// FailedTypes returns the failed types in stable order.
func (r *FailedTypesRegistry) FailedTypes() []models.ModelType {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]models.ModelType, 0, len(r.failures))
	for t := range r.failures {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

// Message returns the recorded failure message for t, if any.
func (r *FailedTypesRegistry) Message(t models.ModelType) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	message, ok := r.failures[t]
	return message, ok
}

// Reset forgets all recorded failures.
func (r *FailedTypesRegistry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.failures = make(map[models.ModelType]string)
}

// DataTypeErrorHandler routes a pipeline's unrecoverable errors for one
// datatype into the shared registry.
type DataTypeErrorHandler struct {
	dataType models.ModelType
	registry *FailedTypesRegistry
	logger   *logger.Logger
}

func NewDataTypeErrorHandler(t models.ModelType, registry *FailedTypesRegistry, log *logger.Logger) *DataTypeErrorHandler {
	return &DataTypeErrorHandler{dataType: t, registry: registry, logger: log}
}

// OnSingleDatatypeUnrecoverableError implements service.ErrorHandler.
func (h *DataTypeErrorHandler) OnSingleDatatypeUnrecoverableError(location models.Location, message string) {
	h.registry.MarkFailed(h.dataType, message)
	h.logger.Error().
		Str("type", h.dataType.String()).
		Str("location", location.String()).
		Str("message", message).
		Msg("datatype disabled by unrecoverable error")
}
