// Package state persists the tree's root path between runs.
package state

import (
	"context"
	"fmt"

	"github.com/brettbedarf/fstree/config"
)

// Store reads and writes the single persisted root path value
type Store interface {
	// Load returns the persisted root and whether one was stored
	Load(ctx context.Context) (string, bool, error)
	Save(ctx context.Context, rootPath string) error
	Close() error
}

// Open returns the store for backend at path
func Open(backend, path string) (Store, error) {
	switch backend {
	case config.YAMLState:
		return NewYAMLStore(path), nil
	case config.SQLiteState:
		return NewSQLiteStore(path)
	case config.NoState, "":
		return NopStore{}, nil
	default:
		return nil, fmt.Errorf("unknown state backend: %s", backend)
	}
}

// NopStore persists nothing
type NopStore struct{}

func (NopStore) Load(context.Context) (string, bool, error) { return "", false, nil }
func (NopStore) Save(context.Context, string) error         { return nil }
func (NopStore) Close() error                               { return nil }
