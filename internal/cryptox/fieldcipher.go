// Package cryptox provides symmetric encryption for sensitive column
// values. Each field is encrypted independently so a partial update
// never requires re-encrypting the whole row.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
)

// KeySize is the AES-256 key length in bytes.
const KeySize = 32

var errCiphertextTooShort = errors.New("ciphertext too short")

// FieldCipher encrypts and decrypts individual field values with
// AES-GCM under a single process-wide key. The key is read-only after
// construction, so a FieldCipher is safe for concurrent use.
type FieldCipher struct {
	aead cipher.AEAD
}

// NewFieldCipher builds a cipher from a 32-byte key.
func NewFieldCipher(key []byte) (*FieldCipher, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("field cipher: key must be %d bytes, got %d", KeySize, len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("field cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("field cipher: %w", err)
	}
	return &FieldCipher{aead: aead}, nil
}

// NewRandomKey returns a fresh 32-byte key from the system's
// cryptographic random source.
func NewRandomKey() ([]byte, error) {
	key := make([]byte, KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generate key: %w", err)
	}
	return key, nil
}

// EncryptField seals a plaintext value and returns
// base64(nonce || ciphertext). A fresh nonce is drawn per call, so
// equal plaintexts yield distinct ciphertexts.
func (f *FieldCipher) EncryptField(plaintext string) (string, error) {
	nonce := make([]byte, f.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("encrypt field: %w", err)
	}
	sealed := f.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// DecryptField reverses EncryptField. Any truncation or bit flip in
// the stored value fails authentication and returns an error.
func (f *FieldCipher) DecryptField(encoded string) (string, error) {
	sealed, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("decrypt field: %w", err)
	}
	ns := f.aead.NonceSize()
	if len(sealed) < ns {
		return "", fmt.Errorf("decrypt field: %w", errCiphertextTooShort)
	}
	plaintext, err := f.aead.Open(nil, sealed[:ns], sealed[ns:], nil)
	if err != nil {
		return "", fmt.Errorf("decrypt field: %w", err)
	}
	return string(plaintext), nil
}
