package storage

import (
	"path/filepath"

	"github.com/brettbedarf/fstree/config"
	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"
)

// RegisterBuiltins registers all built-in backends by default
// or only the specific ones if keys are provided
func RegisterBuiltins(kinds ...string) {
	if len(kinds) == 0 {
		kinds = append(kinds, config.OSStorage, config.MemStorage)
	}

	for _, key := range kinds {
		switch key {
		case config.OSStorage:
			Register(config.OSStorage, NewOS)
		case config.MemStorage:
			Register(config.MemStorage, NewMem)
		}
	}
}

// NewOS returns the host filesystem addressed by absolute paths
func NewOS() (billy.Filesystem, error) {
	return osfs.New(string(filepath.Separator)), nil
}

// NewMem returns an empty in-memory filesystem
func NewMem() (billy.Filesystem, error) {
	return memfs.New(), nil
}
