// Package filesystem provides a virtualized abstraction layer for all filesystem operations.
//
// Every disk access in aurora (configuration, logs, the persisted store and materialized
// stream blobs) goes through API, so tests can swap the backend for an in-memory one.
package filesystem

import (
	"sync"

	"github.com/spf13/afero"
)

var (
	mu      sync.RWMutex
	backend = afero.Afero{Fs: afero.NewOsFs()}
)

// API returns the active afero.Afero instance for filesystem interaction.
func API() afero.Afero {
	mu.RLock()
	defer mu.RUnlock()
	return backend
}

// Use replaces the backend with fs.
func Use(fs afero.Fs) {
	mu.Lock()
	defer mu.Unlock()
	backend = afero.Afero{Fs: fs}
}

// SetOsFs restores the filesystem backend to the native operating system implementation.
func SetOsFs() {
	Use(afero.NewOsFs())
}

// SetMemMapFs initializes a volatile in-memory filesystem backend for unit testing.
func SetMemMapFs() {
	Use(afero.NewMemMapFs())
}

// IsOs reports whether the backend writes to the real filesystem.
// External processes such as mpv can only open paths on such a backend.
func IsOs() bool {
	_, ok := API().Fs.(*afero.OsFs)
	return ok
}
