// SPDX-License-Identifier: Apache-2.0

package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"io"
	"sync"

	"golang.org/x/crypto/argon2"

	"github.com/acidburn0zzz/treesync/models"
)

// cryptographer is the private implementation of [Cryptographer].
type cryptographer struct {
	// Argon2id tuning parameters. Stored in the struct so they can be
	// adjusted per deployment target (e.g. mobile vs. desktop).
	argonTime    uint32
	argonMemory  uint32
	argonThreads uint8
	argonKeyLen  uint32

	mu             sync.RWMutex
	keybag         map[string][]byte
	defaultKeyName string
	encryptedTypes models.ModelTypeSet
}

// NewCryptographer constructs a [Cryptographer] with an empty keybag and the
// Argon2id parameters recommended by OWASP (2024):
//   - time cost:   1 iteration
//   - memory cost: 64 MiB
//   - parallelism: 4 threads
//   - key length:  32 bytes (256 bits)
func NewCryptographer() Cryptographer {
	return &cryptographer{
		argonTime:    1,
		argonMemory:  64 * 1024, // 64 MiB
		argonThreads: 4,
		argonKeyLen:  32, // 256 bits
		keybag:       make(map[string][]byte),
	}
}

// InstallKeyFromPassphrase implements [Cryptographer]. The derived key is
// kept only in memory; the first installed key becomes the default key used
// by Encrypt.
func (c *cryptographer) InstallKeyFromPassphrase(name, passphrase string, salt []byte) error {
	if name == "" || passphrase == "" {
		return ErrInvalidKeyParams
	}

	key := argon2.IDKey(
		[]byte(passphrase),
		salt,
		c.argonTime,
		c.argonMemory,
		c.argonThreads,
		c.argonKeyLen,
	)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.keybag[name] = key
	if c.defaultKeyName == "" {
		c.defaultKeyName = name
	}
	return nil
}

// IsReady implements [Cryptographer].
func (c *cryptographer) IsReady() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.defaultKeyName != ""
}

// CanDecrypt implements [Cryptographer]. It performs a full GCM open so a
// wrong (renamed) key does not pass as decryptable.
func (c *cryptographer) CanDecrypt(encrypted models.EncryptedData) bool {
	_, err := c.Decrypt(encrypted)
	return err == nil
}

// Encrypt implements [Cryptographer]. It seals plaintext with the default
// key using AES-256-GCM. A random 12-byte nonce is prepended to the
// ciphertext so that the decryption side can locate it:
// blob = nonce ‖ ciphertext.
func (c *cryptographer) Encrypt(plaintext []byte) (models.EncryptedData, error) {
	c.mu.RLock()
	name := c.defaultKeyName
	key := c.keybag[name]
	c.mu.RUnlock()

	if name == "" {
		return models.EncryptedData{}, ErrNotReady
	}

	gcm, err := newGCM(key)
	if err != nil {
		return models.EncryptedData{}, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return models.EncryptedData{}, err
	}

	blob := gcm.Seal(nil, nonce, plaintext, nil)
	return models.EncryptedData{
		KeyName: name,
		Blob:    append(nonce, blob...),
	}, nil
}

// Decrypt implements [Cryptographer]. It unwraps a blob produced by Encrypt
// using the key named in the ciphertext. The blob must be at least as long
// as the GCM nonce (12 bytes).
func (c *cryptographer) Decrypt(encrypted models.EncryptedData) ([]byte, error) {
	c.mu.RLock()
	key, ok := c.keybag[encrypted.KeyName]
	c.mu.RUnlock()

	if !ok {
		return nil, ErrMissingKey
	}

	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	if len(encrypted.Blob) < gcm.NonceSize() {
		return nil, ErrMalformedCiphertext
	}

	nonce := encrypted.Blob[:gcm.NonceSize()]
	ciphertext := encrypted.Blob[gcm.NonceSize():]

	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrDecryptFailed
	}
	return plaintext, nil
}

// EncryptedTypes implements [Cryptographer].
func (c *cryptographer) EncryptedTypes() models.ModelTypeSet {
	c.mu.RLock()
	defer c.mu.RUnlock()

	copied := make(models.ModelTypeSet, len(c.encryptedTypes))
	for t := range c.encryptedTypes {
		copied.Put(t)
	}
	return copied
}

// SetEncryptedTypes implements [Cryptographer].
func (c *cryptographer) SetEncryptedTypes(types models.ModelTypeSet) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.encryptedTypes = types
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
