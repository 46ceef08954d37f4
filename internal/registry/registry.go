// Package registry manages the tagging backends the accessor delegates to.
package registry

import (
	"slices"
	"sync"

	"github.com/simonhull/coverart/internal/types"
)

// Backend reads and rewrites the ID3 tag of an MP3 file through a
// third-party tagging library.
type Backend interface {
	// Name is the identifier used by WithBackend and the config file.
	Name() string

	// Read extracts title, artist and cover. Missing frames are absent
	// fields in the snapshot, not errors.
	Read(path string) (types.Snapshot, error)

	// Write merges edit into the tag of the file at path, in place.
	// An unreadable tag is replaced by a fresh one.
	Write(path string, edit types.Edit) error
}

// DefaultBackend is used when no backend is named.
const DefaultBackend = "id3v2"

var (
	mu       sync.RWMutex
	backends = make(map[string]Backend)
)

// Register registers a backend under its name.
// This is called by backend packages during initialization (init functions).
func Register(b Backend) {
	mu.Lock()
	defer mu.Unlock()
	backends[b.Name()] = b
}

// Get returns the backend registered under name.
// An empty name selects DefaultBackend.
func Get(name string) (Backend, error) {
	if name == "" {
		name = DefaultBackend
	}

	mu.RLock()
	defer mu.RUnlock()

	b, ok := backends[name]
	if !ok {
		return nil, &types.UnknownBackendError{Name: name}
	}
	return b, nil
}

// Names returns the sorted names of all registered backends.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()

	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// unregister removes a backend. Used by tests.
func unregister(name string) {
	mu.Lock()
	defer mu.Unlock()
	delete(backends, name)
}
