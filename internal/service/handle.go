// SPDX-License-Identifier: Apache-2.0

package service

import "sync"

// Handle is a weak reference to a [SyncableService]. The pipeline holds a
// Handle rather than the service itself; once the owning side calls Release,
// Get reports the target gone and the pipeline converts that into an
// unrecoverable error instead of dereferencing a dead service.
type Handle struct {
	mu     sync.RWMutex
	target SyncableService
}

// NewHandle wraps target in a weak handle.
func NewHandle(target SyncableService) *Handle {
	return &Handle{target: target}
}

// Get returns the target service and whether it is still alive.
func (h *Handle) Get() (SyncableService, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return h.target, h.target != nil
}

// Release drops the target. Subsequent Get calls report it gone.
func (h *Handle) Release() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.target = nil
}
