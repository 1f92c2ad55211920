// SPDX-License-Identifier: Apache-2.0

package models

// EncryptedData is the ciphertext marker carried by specifics whose payload
// is encrypted. KeyName identifies the keybag entry that produced Blob.
type EncryptedData struct {
	// KeyName is the name of the key the ciphertext was sealed with.
	KeyName string `json:"key_name"`

	// Blob is nonce-prefixed AES-GCM ciphertext of the plaintext payload.
	Blob []byte `json:"blob"`
}

// EntitySpecifics is the opaque, datatype-dependent payload carried on every
// node. The pipeline never interprets Data; only the Encrypted marker is
// inspected, and only during the update-path encryption diagnostic.
type EntitySpecifics struct {
	// Type tags which datatype's schema Data conforms to.
	Type ModelType `json:"type"`

	// Data is the plaintext payload. Empty when the payload is encrypted.
	Data []byte `json:"data,omitempty"`

	// Encrypted is set when the payload is encrypted; it replaces Data.
	Encrypted *EncryptedData `json:"encrypted,omitempty"`
}

// HasEncrypted reports whether the specifics carry an encrypted payload.
func (s EntitySpecifics) HasEncrypted() bool {
	return s.Encrypted != nil
}
