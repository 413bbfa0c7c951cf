package server

import (
	"context"
	"fmt"

	"github.com/brettbedarf/fstree/config"
	"github.com/brettbedarf/fstree/filesystem"
	"github.com/brettbedarf/fstree/internal/util"
	"github.com/brettbedarf/fstree/state"
	"github.com/brettbedarf/fstree/storage"
)

// FsTree wires the tree to its storage backend and root path persistence
type FsTree struct {
	*filesystem.Tree
	cfg   *config.Config
	state state.Store
}

// New creates an FsTree given your config. The persisted root, if any, takes
// precedence over cfg.RootPath.
func New(cfg *config.Config) (*FsTree, error) {
	st, err := state.Open(cfg.StateBackend, cfg.StatePath)
	if err != nil {
		return nil, err
	}
	return NewWithStore(context.Background(), cfg, st)
}

// NewWithStore is [New] with an already opened state store
func NewWithStore(ctx context.Context, cfg *config.Config, st state.Store) (*FsTree, error) {
	logger := util.GetLogger("FsTree.New")

	storage.RegisterBuiltins()
	backend, err := storage.Open(cfg.Storage)
	if err != nil {
		st.Close() // nolint:errcheck
		return nil, err
	}

	root, ok, err := st.Load(ctx)
	if err != nil {
		st.Close() // nolint:errcheck
		return nil, fmt.Errorf("failed to load root path: %w", err)
	}
	// restored root must not be written back, so the tree gets it through cfg
	treeCfg := *cfg
	if ok {
		treeCfg.RootPath = root
		logger.Debug().Str("root", root).Msg("Restored root path")
	}
	treeCfg.RootPath = config.ResolveRootPath(treeCfg.RootPath)

	return &FsTree{
		Tree:  filesystem.NewTree(&treeCfg, backend, st),
		cfg:   cfg,
		state: st,
	}, nil
}

// Config returns the configuration the tree was built from
func (fs *FsTree) Config() *config.Config {
	return fs.cfg
}

// Close releases the state store
func (fs *FsTree) Close() error {
	if fs.state == nil {
		return nil
	}
	return fs.state.Close()
}
