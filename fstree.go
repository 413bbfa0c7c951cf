// Package fstree is a hierarchical file-tree manager: a lazily listed view over
// a storage subtree with create, rename, delete and move mutations that keep
// the view consistent with storage.
package fstree

import (
	"github.com/brettbedarf/fstree/config"
	"github.com/brettbedarf/fstree/server"
)

// New creates an FsTree instance given your config.
func New(cfg *config.Config) (*server.FsTree, error) {
	return server.New(cfg)
}
