package crypto

import "errors"

var (
	// ErrNotReady indicates that no default key is installed yet.
	ErrNotReady = errors.New("cryptographer is not ready")
	// ErrMissingKey indicates that the ciphertext names a key absent from
	// the keybag.
	ErrMissingKey = errors.New("no key for ciphertext")
	// ErrMalformedCiphertext indicates a blob shorter than the GCM nonce.
	ErrMalformedCiphertext = errors.New("malformed ciphertext")
	// ErrDecryptFailed indicates GCM authentication failure (wrong key or
	// corrupted blob).
	ErrDecryptFailed = errors.New("decryption failed")
	// ErrInvalidKeyParams indicates an empty key name or passphrase.
	ErrInvalidKeyParams = errors.New("invalid key parameters")
)
