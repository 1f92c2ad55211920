// SPDX-License-Identifier: Apache-2.0

package startup

import "sync"

// Prefs is the in-memory [SyncPrefs] implementation used by the daemon.
// Zero value: not managed, not suppressed, setup not completed.
type Prefs struct {
	mu sync.RWMutex

	managed        bool
	suppressed     bool
	setupCompleted bool
}

func NewPrefs() *Prefs { return &Prefs{} }

func (p *Prefs) IsManaged() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.managed
}

func (p *Prefs) IsStartSuppressed() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.suppressed
}

func (p *Prefs) HasSyncSetupCompleted() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.setupCompleted
}

func (p *Prefs) SetManaged(managed bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.managed = managed
}

func (p *Prefs) SetStartSuppressed(suppressed bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.suppressed = suppressed
}

func (p *Prefs) SetSyncSetupCompleted(completed bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.setupCompleted = completed
}
