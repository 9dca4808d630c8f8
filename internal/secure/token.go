// Package secure holds the API token in protected memory between
// resolution (flag, environment or keyring) and client construction.
// Tokens are encrypted at rest via a memguard enclave and the memory is
// mlocked where the platform allows it.
package secure

import (
	"sync"

	"github.com/awnumar/memguard"
)

// Token is a protected API token. The plaintext only exists while Reveal
// copies it out; the backing enclave stays encrypted.
type Token struct {
	enclave *memguard.Enclave
	mu      sync.RWMutex
	// destroyed allows idempotent Destroy calls and blocks use-after-destroy
	destroyed bool
}

// NewToken copies the token string into a protected enclave. The caller
// should drop its own copy as soon as possible.
func NewToken(token string) *Token {
	return &Token{
		enclave: memguard.NewEnclave([]byte(token)),
	}
}

// Reveal decrypts the token and returns it as a string. The enclave itself
// stays intact for later calls.
func (t *Token) Reveal() (string, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.destroyed || t.enclave == nil {
		return "", nil
	}

	locked, err := t.enclave.Open()
	if err != nil {
		return "", err
	}
	defer locked.Destroy()

	return locked.String(), nil
}

// Destroy marks the token as destroyed and prevents further use. It is
// idempotent. For full cleanup of all protected memory at process exit,
// call memguard.Purge in main.
func (t *Token) Destroy() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.destroyed {
		return
	}
	t.enclave = nil
	t.destroyed = true
}
