package vault

import (
	"bytes"
	"errors"
	"testing"

	"github.com/clipvault/clipvault/internal/seal"
)

// memBackend is an in-memory credential store for tests.
type memBackend struct {
	secrets map[string]string
	getErr  error
}

func newMemBackend() *memBackend {
	return &memBackend{secrets: make(map[string]string)}
}

func (m *memBackend) Get(service, account string) (string, error) {
	if m.getErr != nil {
		return "", m.getErr
	}
	secret, ok := m.secrets[service+"/"+account]
	if !ok {
		return "", ErrNotFound
	}
	return secret, nil
}

func (m *memBackend) Set(service, account, secret string) error {
	m.secrets[service+"/"+account] = secret
	return nil
}

func (m *memBackend) Delete(service, account string) error {
	key := service + "/" + account
	if _, ok := m.secrets[key]; !ok {
		return ErrNotFound
	}
	delete(m.secrets, key)
	return nil
}

// TestEnsureKey_CreatesOnce tests lazy creation and idempotence.
func TestEnsureKey_CreatesOnce(t *testing.T) {
	backend := newMemBackend()
	v := New(backend)

	if err := v.EnsureKey(); err != nil {
		t.Fatalf("EnsureKey() error: %v", err)
	}

	first, err := v.EncryptionKey()
	if err != nil {
		t.Fatalf("EncryptionKey() error: %v", err)
	}
	if len(first) != seal.KeySize {
		t.Fatalf("key length = %d, want %d", len(first), seal.KeySize)
	}

	// Second call must not replace the key.
	if err := v.EnsureKey(); err != nil {
		t.Fatalf("second EnsureKey() error: %v", err)
	}
	second, err := v.EncryptionKey()
	if err != nil {
		t.Fatalf("EncryptionKey() error: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Error("EnsureKey() replaced an existing key")
	}
}

// TestEncryptionKey_Unavailable tests the missing-key failure mode.
func TestEncryptionKey_Unavailable(t *testing.T) {
	v := New(newMemBackend())

	if _, err := v.EncryptionKey(); !errors.Is(err, ErrKeyUnavailable) {
		t.Errorf("error = %v, want ErrKeyUnavailable", err)
	}
}

// TestEncryptionKey_UnreadableStore tests that store failures surface as
// ErrKeyUnavailable.
func TestEncryptionKey_UnreadableStore(t *testing.T) {
	backend := newMemBackend()
	backend.getErr = errors.New("store locked")
	v := New(backend)

	if _, err := v.EncryptionKey(); !errors.Is(err, ErrKeyUnavailable) {
		t.Errorf("error = %v, want ErrKeyUnavailable", err)
	}
}

// TestEncryptionKey_MalformedSecret tests rejection of a corrupted stored key.
func TestEncryptionKey_MalformedSecret(t *testing.T) {
	backend := newMemBackend()
	backend.Set(Service, Account, "not base64!!!")
	v := New(backend)

	if _, err := v.EncryptionKey(); !errors.Is(err, ErrKeyUnavailable) {
		t.Errorf("error = %v, want ErrKeyUnavailable", err)
	}
}

// TestDeleteKey tests idempotent deletion and cache invalidation.
func TestDeleteKey(t *testing.T) {
	backend := newMemBackend()
	v := New(backend)

	if err := v.EnsureKey(); err != nil {
		t.Fatalf("EnsureKey() error: %v", err)
	}
	if _, err := v.EncryptionKey(); err != nil {
		t.Fatalf("EncryptionKey() error: %v", err)
	}

	if err := v.DeleteKey(); err != nil {
		t.Fatalf("DeleteKey() error: %v", err)
	}

	// Cache must be gone along with the stored secret.
	if _, err := v.EncryptionKey(); !errors.Is(err, ErrKeyUnavailable) {
		t.Errorf("error after delete = %v, want ErrKeyUnavailable", err)
	}

	// Deleting an absent key is success.
	if err := v.DeleteKey(); err != nil {
		t.Errorf("second DeleteKey() error: %v", err)
	}
}

// TestEncryptionKey_ExternalDeletion tests that a key removed behind the
// cache's back is still served from cache until invalidated.
func TestEncryptionKey_ExternalDeletion(t *testing.T) {
	backend := newMemBackend()
	v := New(backend)

	if err := v.EnsureKey(); err != nil {
		t.Fatalf("EnsureKey() error: %v", err)
	}
	key, err := v.EncryptionKey()
	if err != nil {
		t.Fatalf("EncryptionKey() error: %v", err)
	}

	backend.Delete(Service, Account)

	cached, err := v.EncryptionKey()
	if err != nil {
		t.Fatalf("EncryptionKey() after external delete: %v", err)
	}
	if !bytes.Equal(key, cached) {
		t.Error("cached key changed after external deletion")
	}
}
