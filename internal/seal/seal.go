// Package seal provides stateless authenticated encryption for the
// persisted history file using XChaCha20-Poly1305.
//
// Each Encrypt call draws a fresh random 24-byte nonce and prepends it to
// the ciphertext, so decryption is self-contained given only the key.
// Re-encrypting the same plaintext therefore produces different output.
package seal

import (
	"crypto/rand"
	"errors"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
)

// KeySize is the required symmetric key length in bytes.
const KeySize = chacha20poly1305.KeySize

// ErrAuthenticationFailed reports that a ciphertext was tampered with,
// truncated, or sealed under a different key. No plaintext is ever returned
// alongside it.
var ErrAuthenticationFailed = errors.New("seal: ciphertext authentication failed")

// Encrypt seals plaintext under the given 256-bit key. The returned bytes
// are nonce || ciphertext || tag. Safe for concurrent use with the same key.
func Encrypt(plaintext, key []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("creating cipher: %w", err)
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("generating nonce: %w", err)
	}

	return aead.Seal(nonce, nonce, plaintext, nil), nil
}

// Decrypt opens sealed bytes produced by Encrypt. Any tampering, truncation,
// or wrong key yields ErrAuthenticationFailed.
func Decrypt(sealed, key []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("creating cipher: %w", err)
	}

	if len(sealed) < aead.NonceSize()+aead.Overhead() {
		return nil, ErrAuthenticationFailed
	}

	nonce, ciphertext := sealed[:aead.NonceSize()], sealed[aead.NonceSize():]
	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrAuthenticationFailed
	}
	return plaintext, nil
}
