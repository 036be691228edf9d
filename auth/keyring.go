// Package auth resolves the bearer credential used by the playback pipeline.
//
// The credential is owned by the authentication collaborator. This package only reads it
// from durable client-side storage; it never talks to the network.
package auth

import (
	"errors"
	"fmt"
	"sync"

	"github.com/aurora-stream/aurora/log"
	"github.com/aurora-stream/aurora/store"
	"github.com/samber/mo"
	"github.com/zalando/go-keyring"
)

const (
	service = "aurora"
	user    = "aurora-token"
)

// ErrEmptyToken is returned when storing an empty credential.
var ErrEmptyToken = errors.New("token cannot be empty")

// Accessor exposes the current bearer credential. Absence means anonymous access.
type Accessor interface {
	Get() mo.Option[string]
	Set(token string) error
	Clear() error
}

// Keyring reads the token from the system keyring and falls back to the persisted store.
type Keyring struct{}

// NewKeyring returns the system keyring accessor.
func NewKeyring() *Keyring {
	return &Keyring{}
}

// Get returns the keyring token, then the store's API token, then None.
func (Keyring) Get() mo.Option[string] {
	token, err := keyring.Get(service, user)
	if err == nil && token != "" {
		return mo.Some(token)
	}
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		log.Debugf("keyring unavailable, using stored api token: %v", err)
	}
	return store.APIToken()
}

// Set persists the token to the system keyring.
func (Keyring) Set(token string) error {
	if token == "" {
		return ErrEmptyToken
	}
	if err := keyring.Set(service, user, token); err != nil {
		return fmt.Errorf("save token to keyring: %w", err)
	}
	return nil
}

// Clear removes the token from the keyring and the store. Clearing twice is not an error.
func (Keyring) Clear() error {
	if err := keyring.Delete(service, user); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("delete token from keyring: %w", err)
	}
	return store.SetAPIToken("")
}

// Memory holds the credential in process memory.
type Memory struct {
	mu    sync.RWMutex
	token string
}

// NewMemory returns an accessor preloaded with token. An empty token means anonymous.
func NewMemory(token string) *Memory {
	return &Memory{token: token}
}

func (m *Memory) Get() mo.Option[string] {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.token == "" {
		return mo.None[string]()
	}
	return mo.Some(m.token)
}

func (m *Memory) Set(token string) error {
	if token == "" {
		return ErrEmptyToken
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	return nil
}

func (m *Memory) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	return nil
}

// Masked shortens a token for diagnostics.
func Masked(token mo.Option[string]) string {
	t, ok := token.Get()
	if !ok {
		return "<none>"
	}
	if len(t) <= 8 {
		return "***"
	}
	return t[:8] + "..."
}
