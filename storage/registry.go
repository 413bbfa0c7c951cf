// Package storage provides the storage capability a Tree operates on.
// Backends are go-billy filesystems registered under a short key.
package storage

import (
	"fmt"
	"sync"

	billy "github.com/go-git/go-billy/v5"
)

// Factory builds a new storage backend instance
type Factory func() (billy.Filesystem, error)

// Registry maps backend keys to factories
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

func NewRegistry() *Registry {
	return &Registry{factories: map[string]Factory{}}
}

// Register ties a factory to a backend key. The first registration for a
// key wins; later ones are ignored.
func (r *Registry) Register(kind string, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.factories[kind]; exists {
		return
	}
	r.factories[kind] = f
}

// Open builds a backend for kind. All expected kinds should be registered
// with [Registry.Register] before calling this.
func (r *Registry) Open(kind string) (billy.Filesystem, error) {
	r.mu.RLock()
	f, ok := r.factories[kind]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("no storage backend for %q", kind)
	}
	return f()
}

// Kinds returns the registered backend keys
func (r *Registry) Kinds() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	kinds := make([]string, 0, len(r.factories))
	for k := range r.factories {
		kinds = append(kinds, k)
	}
	return kinds
}

var defaultRegistry = NewRegistry()

// Register adds a factory to the default registry
func Register(kind string, f Factory) {
	defaultRegistry.Register(kind, f)
}

// Open builds a backend from the default registry
func Open(kind string) (billy.Filesystem, error) {
	return defaultRegistry.Open(kind)
}
