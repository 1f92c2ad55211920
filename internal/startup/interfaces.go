package startup

// SigninManager exposes the identity of the signed-in user.
type SigninManager interface {
	// EffectiveUsername returns the signed-in username, empty when nobody
	// is signed in.
	EffectiveUsername() string

	// AccountIDToUse returns the account id credentials are keyed by.
	AccountIDToUse() string
}

// TokenService answers whether usable credentials exist for an account.
type TokenService interface {
	RefreshTokenIsAvailable(accountID string) bool
}

// SyncPrefs is the persisted sync preference surface the controller gates on.
type SyncPrefs interface {
	// IsManaged reports whether sync is disabled by policy.
	IsManaged() bool

	// IsStartSuppressed reports whether the user has chosen to keep sync
	// off.
	IsStartSuppressed() bool

	// HasSyncSetupCompleted reports whether first-time setup finished.
	HasSyncSetupCompleted() bool
}
