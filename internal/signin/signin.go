// SPDX-License-Identifier: Apache-2.0

// Package signin tracks the signed-in identity the sync stack acts for.
package signin

import "sync"

// Manager holds the current signed-in account. Username empty means signed
// out; the startup controller refuses to start in that state.
type Manager struct {
	mu        sync.RWMutex
	username  string
	accountID string
}

func NewManager() *Manager { return &Manager{} }

// SignIn records the identity.
func (m *Manager) SignIn(username, accountID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.username = username
	m.accountID = accountID
}

// SignOut clears the identity.
func (m *Manager) SignOut() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.username = ""
	m.accountID = ""
}

// EffectiveUsername returns the signed-in username, empty when signed out.
func (m *Manager) EffectiveUsername() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.username
}

// AccountIDToUse returns the account id credentials are keyed by. Falls back
// to the username when no separate account id was recorded.
func (m *Manager) AccountIDToUse() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.accountID != "" {
		return m.accountID
	}
	return m.username
}
