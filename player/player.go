// Package player provides media.Element implementations backed by external playback engines.
// The primary backend is mpv, driven through its JSON-IPC interface.
package player

import (
	"context"
	"fmt"
	"os/exec"

	"github.com/aurora-stream/aurora/media"
	"github.com/samber/lo"
)

// Backend is a media element living in another process.
type Backend interface {
	media.Element

	// Start launches the engine. Element methods fail until it returns.
	Start(ctx context.Context) error

	// Close terminates the engine and releases its resources.
	Close() error

	// Wait returns a channel that is closed when the engine exits, e.g. because
	// the user closed its window.
	Wait() <-chan struct{}
}

// Options configures a backend.
type Options struct {
	// Binary overrides the executable name.
	Binary string
	// Resolve maps blob URLs to files the engine can open.
	Resolve func(url string) (string, bool)
}

var backends = map[string]func(Options) Backend{
	"mpv": func(opts Options) Backend { return NewMPV(opts) },
}

// Available lists the backend names accepted by New.
func Available() []string {
	return lo.Keys(backends)
}

// New returns the backend registered under name.
func New(name string, opts Options) (Backend, error) {
	build, ok := backends[name]
	if !ok {
		return nil, fmt.Errorf("unknown player %q, expected one of %v", name, Available())
	}
	return build(opts), nil
}

// LookPath checks that the executable for name is installed.
func LookPath(name string, opts Options) (string, error) {
	binary := lo.Ternary(opts.Binary != "", opts.Binary, name)
	path, err := exec.LookPath(binary)
	if err != nil {
		return "", fmt.Errorf("%s is required but was not found in PATH: %w", binary, err)
	}
	return path, nil
}
