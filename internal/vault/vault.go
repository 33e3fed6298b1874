// Package vault owns the lifecycle of the single symmetric encryption key,
// backed by the operating system's secure credential store.
//
// The key is stored under a fixed service/account pair, scoped to this
// installation and this device only. It is created lazily on first run,
// never rotated automatically, and losing it makes every snapshot ever
// written under it permanently unrecoverable. That trade is accepted.
package vault

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"sync"

	"github.com/clipvault/clipvault/internal/seal"
)

const (
	// Service is the credential store service identifier shared by all
	// clipvault secrets.
	Service = "dev.clipvault"

	// Account is the credential store account name for the history key.
	Account = "history-key"
)

// ErrKeyUnavailable reports that no key has ever been created, or that the
// secure store cannot be read.
var ErrKeyUnavailable = errors.New("vault: encryption key unavailable")

// ErrNotFound is returned by Backend implementations when no secret exists
// under the requested service/account pair.
var ErrNotFound = errors.New("vault: secret not found")

// Backend abstracts the platform credential store so tests can substitute
// an in-memory fake.
type Backend interface {
	// Get returns the stored secret, or ErrNotFound.
	Get(service, account string) (string, error)

	// Set stores or replaces the secret.
	Set(service, account, secret string) error

	// Delete removes the secret. Deleting an absent secret returns
	// ErrNotFound.
	Delete(service, account string) error
}

// KeyVault manages one 256-bit symmetric key. The decoded key is cached in
// memory after first access; the cache is read-mostly and guarded so an
// in-flight encrypt always sees a stable value.
type KeyVault struct {
	backend Backend

	mu     sync.RWMutex
	cached []byte
}

// New creates a KeyVault over the given credential store backend.
func New(backend Backend) *KeyVault {
	return &KeyVault{backend: backend}
}

// EnsureKey creates and stores a fresh cryptographically random key if none
// exists. Calling it when a key is already present is a no-op success.
func (v *KeyVault) EnsureKey() error {
	_, err := v.backend.Get(Service, Account)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("reading credential store: %w", err)
	}

	key := make([]byte, seal.KeySize)
	if _, err := rand.Read(key); err != nil {
		return fmt.Errorf("generating key: %w", err)
	}

	if err := v.backend.Set(Service, Account, base64.StdEncoding.EncodeToString(key)); err != nil {
		return fmt.Errorf("storing key: %w", err)
	}

	v.mu.Lock()
	v.cached = key
	v.mu.Unlock()
	return nil
}

// EncryptionKey returns the current key, loading it from the credential
// store on first access per process lifetime. It fails with
// ErrKeyUnavailable if no key was ever created or the store is unreadable.
func (v *KeyVault) EncryptionKey() ([]byte, error) {
	v.mu.RLock()
	if v.cached != nil {
		key := v.cached
		v.mu.RUnlock()
		return key, nil
	}
	v.mu.RUnlock()

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.cached != nil {
		return v.cached, nil
	}

	encoded, err := v.backend.Get(Service, Account)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeyUnavailable, err)
	}

	key, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil || len(key) != seal.KeySize {
		return nil, fmt.Errorf("%w: stored key is malformed", ErrKeyUnavailable)
	}

	v.cached = key
	return key, nil
}

// DeleteKey removes the stored key and invalidates the in-memory cache.
// Absence is success, not an error.
func (v *KeyVault) DeleteKey() error {
	v.mu.Lock()
	v.cached = nil
	v.mu.Unlock()

	if err := v.backend.Delete(Service, Account); err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("deleting key: %w", err)
	}
	return nil
}
