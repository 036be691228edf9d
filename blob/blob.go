// Package blob materializes fetched response bodies as locally addressable objects.
//
// A blob URL has the form "blob:aurora/<uuid>" and stays valid until it is revoked.
// Bodies are written to a directory on the filesystem backend so that an external
// player process can open them by path.
package blob

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"github.com/aurora-stream/aurora/constant"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/spf13/afero"
)

// Scheme prefixes every URL produced by a Registry.
const Scheme = "blob:" + constant.Aurora + "/"

// ErrUnknown is returned for URLs that were never created or were already revoked.
var ErrUnknown = errors.New("unknown blob")

type object struct {
	path        string
	contentType string
	size        int64
}

// Registry tracks live blobs.
type Registry struct {
	fs  afero.Afero
	dir string

	mu      sync.Mutex
	objects map[string]object
}

// NewRegistry stores blobs under dir on fs.
func NewRegistry(fs afero.Fs, dir string) *Registry {
	return &Registry{
		fs:      afero.Afero{Fs: fs},
		dir:     dir,
		objects: make(map[string]object),
	}
}

// Create copies r into a new blob and returns its URL.
func (r *Registry) Create(body io.Reader, contentType string) (string, error) {
	if err := r.fs.MkdirAll(r.dir, 0o755); err != nil {
		return "", fmt.Errorf("create blob dir: %w", err)
	}

	id := uuid.NewString()
	path := filepath.Join(r.dir, id)

	f, err := r.fs.Create(path)
	if err != nil {
		return "", fmt.Errorf("create blob: %w", err)
	}
	size, err := io.Copy(f, body)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = r.fs.Remove(path)
		return "", fmt.Errorf("write blob: %w", err)
	}

	url := Scheme + id
	r.mu.Lock()
	r.objects[url] = object{path: path, contentType: contentType, size: size}
	r.mu.Unlock()
	return url, nil
}

// IsBlob reports whether url was produced by a Registry.
func IsBlob(url string) bool {
	return strings.HasPrefix(url, Scheme)
}

// Path returns the backing file of a live blob.
func (r *Registry) Path(url string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	obj, ok := r.objects[url]
	return obj.path, ok
}

// Open returns a reader over a live blob.
func (r *Registry) Open(url string) (afero.File, error) {
	path, ok := r.Path(url)
	if !ok {
		return nil, ErrUnknown
	}
	return r.fs.Open(path)
}

// ContentType returns the media type recorded at creation.
func (r *Registry) ContentType(url string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.objects[url].contentType
}

// Size returns the number of bytes stored for url.
func (r *Registry) Size(url string) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.objects[url].size
}

// Revoke releases url and deletes its backing file.
func (r *Registry) Revoke(url string) error {
	r.mu.Lock()
	obj, ok := r.objects[url]
	delete(r.objects, url)
	r.mu.Unlock()

	if !ok {
		return ErrUnknown
	}
	if err := r.fs.Remove(obj.path); err != nil {
		return fmt.Errorf("remove blob: %w", err)
	}
	return nil
}

// RevokeAll releases every live blob.
func (r *Registry) RevokeAll() {
	r.mu.Lock()
	urls := lo.Keys(r.objects)
	r.mu.Unlock()

	for _, url := range urls {
		_ = r.Revoke(url)
	}
}

// Len returns the number of live blobs.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.objects)
}
