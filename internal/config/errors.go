package config

import "errors"

// Validation errors returned by [StructuredConfig.validate] when required
// configuration groups are incomplete or invalid.
var (
	// ErrInvalidStorageConfigs indicates invalid tree-store settings
	// (for example, an unsupported driver or an empty DSN).
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidSyncConfigs indicates invalid startup-controller settings
	// (for example, a negative fallback timeout).
	ErrInvalidSyncConfigs = errors.New("invalid sync configuration")
)
