// SPDX-License-Identifier: Apache-2.0

package config

import "time"

const (
	defaultRole            = "syncd"
	defaultDriver          = "sqlite3"
	defaultDSN             = "treesync.db"
	defaultHTTPAddress     = "localhost:8080"
	defaultFallbackTimeout = 10 * time.Second
)

// applyDefaults fills zero-valued fields with their documented defaults.
// Runs after all sources are merged, so any explicitly supplied value wins.
func (cfg *StructuredConfig) applyDefaults() {
	if cfg.App.Role == "" {
		cfg.App.Role = defaultRole
	}
	if cfg.Storage.DB.Driver == "" {
		cfg.Storage.DB.Driver = defaultDriver
	}
	if cfg.Storage.DB.DSN == "" && cfg.Storage.DB.Driver == defaultDriver {
		cfg.Storage.DB.DSN = defaultDSN
	}
	if cfg.Server.HTTPAddress == "" {
		cfg.Server.HTTPAddress = defaultHTTPAddress
	}
	if cfg.Sync.FallbackTimeout == 0 {
		cfg.Sync.FallbackTimeout = defaultFallbackTimeout
	}
}

// validate checks that the final merged [StructuredConfig] satisfies all
// daemon invariants before it is used at startup.
//
// Returns nil if the configuration is valid, or a descriptive error otherwise.
func (cfg *StructuredConfig) validate() error {
	if cfg.Storage.DB.Driver != "sqlite3" && cfg.Storage.DB.Driver != "pgx" {
		return ErrInvalidStorageConfigs
	}
	if cfg.Storage.DB.DSN == "" {
		return ErrInvalidStorageConfigs
	}
	if cfg.Sync.FallbackTimeout < 0 {
		return ErrInvalidSyncConfigs
	}
	return nil
}
