package vault

import (
	"errors"

	"github.com/zalando/go-keyring"
)

// KeyringBackend stores secrets in the operating system keychain
// (macOS Keychain, Windows Credential Manager, or the freedesktop Secret
// Service over D-Bus). Entries live under the host account and never enter
// a cross-device sync channel.
type KeyringBackend struct{}

// NewKeyringBackend creates the system keychain backend.
func NewKeyringBackend() *KeyringBackend {
	return &KeyringBackend{}
}

// Get implements Backend.
func (*KeyringBackend) Get(service, account string) (string, error) {
	secret, err := keyring.Get(service, account)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return secret, nil
}

// Set implements Backend.
func (*KeyringBackend) Set(service, account, secret string) error {
	return keyring.Set(service, account, secret)
}

// Delete implements Backend.
func (*KeyringBackend) Delete(service, account string) error {
	err := keyring.Delete(service, account)
	if errors.Is(err, keyring.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
