package crypto

import "github.com/acidburn0zzz/treesync/models"

// Cryptographer owns the keybag for encrypted sync datatypes. It knows which
// datatypes are encrypted (the nigori set) and whether a given ciphertext is
// decryptable with the keys currently installed.
//
// The change pipeline only ever touches a Cryptographer while holding a
// tree-store transaction; the store hands out the same instance through its
// transaction handles.
type Cryptographer interface {
	// IsReady reports whether the default encryption key is installed, i.e.
	// whether the cryptographer can service encrypted types at all.
	IsReady() bool

	// CanDecrypt reports whether the ciphertext can be opened with an
	// installed key. False when the named key is absent or authentication
	// fails.
	CanDecrypt(encrypted models.EncryptedData) bool

	// Encrypt seals plaintext with the default key. Returns an error when
	// the cryptographer is not ready.
	Encrypt(plaintext []byte) (models.EncryptedData, error)

	// Decrypt opens ciphertext produced by Encrypt (or by a peer sharing
	// the keybag).
	Decrypt(encrypted models.EncryptedData) ([]byte, error)

	// EncryptedTypes returns a copy of the nigori encrypted-type set.
	EncryptedTypes() models.ModelTypeSet

	// SetEncryptedTypes replaces the nigori encrypted-type set, typically
	// after loading it from the tree store.
	SetEncryptedTypes(types models.ModelTypeSet)

	// InstallKeyFromPassphrase derives a key from the passphrase and salt
	// and installs it under name. The first installed key becomes the
	// default key.
	InstallKeyFromPassphrase(name, passphrase string, salt []byte) error
}
