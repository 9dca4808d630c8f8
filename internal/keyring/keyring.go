// Package keyring stores the Envault API token in the operating system's
// credential store (Keychain on macOS, Secret Service on Linux, Credential
// Manager on Windows).
package keyring

import (
	"errors"

	"github.com/zalando/go-keyring"
)

const (
	service = "envault"
	account = "api-token"
)

// ErrNotFound is returned when no token has been stored yet.
var ErrNotFound = errors.New("no token stored in keyring")

// Store saves the API token, replacing any previous one.
func Store(token string) error {
	return keyring.Set(service, account, token)
}

// Load returns the stored API token.
func Load() (string, error) {
	token, err := keyring.Get(service, account)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}
	return token, nil
}

// Clear removes the stored token. Clearing an empty keyring is not an
// error.
func Clear() error {
	err := keyring.Delete(service, account)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return err
	}
	return nil
}
