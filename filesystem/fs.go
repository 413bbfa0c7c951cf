package filesystem

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/brettbedarf/fstree/config"
	"github.com/brettbedarf/fstree/internal/util"
	billy "github.com/go-git/go-billy/v5"
	billyutil "github.com/go-git/go-billy/v5/util"
	"github.com/google/uuid"
	"golang.org/x/text/language"
)

// Operation names used in events, errors and logs
const (
	OpCreateFile   = "create_file"
	OpCreateFolder = "create_folder"
	OpRename       = "rename"
	OpDelete       = "delete"
	OpMove         = "move"
	OpSetRoot      = "set_root"
	OpRefresh      = "refresh"
)

var errNilNode = errors.New("nil node")

// RootSaver persists the configured root path whenever it changes
type RootSaver interface {
	Save(ctx context.Context, rootPath string) error
}

// Tree is a lazily listed view over a storage subtree plus the structural
// mutations on it. Every successful mutation emits an [Event] naming the
// part of the view that must be re-listed.
//
// Tree holds no per-node state. Concurrent mutations are not serialized; the
// storage primitive decides the outcome of racing calls.
type Tree struct {
	cfg     *config.Config
	storage billy.Filesystem
	saver   RootSaver
	root    atomic.Pointer[string] // nil until first configured
	locale  language.Tag
	events  *broadcaster
}

// NewTree creates a Tree over storage. cfg.RootPath, when set, is used as the
// initial root without being persisted. A relative cfg.RootPath is ignored and
// the tree starts without a root. saver may be nil.
func NewTree(cfg *config.Config, storage billy.Filesystem, saver RootSaver) *Tree {
	t := &Tree{
		cfg:     cfg,
		storage: storage,
		saver:   saver,
		locale:  parseLocale(cfg.Locale),
		events:  newBroadcaster(),
	}
	switch {
	case cfg.RootPath == "":
	case !filepath.IsAbs(cfg.RootPath):
		util.GetLogger("NewTree").Warn().Str("root", cfg.RootPath).Msg("Ignoring relative root path")
	default:
		root := filepath.Clean(cfg.RootPath)
		t.root.Store(&root)
	}
	return t
}

// Storage returns the underlying storage capability
func (t *Tree) Storage() billy.Filesystem {
	return t.storage
}

// Subscribe registers fn for every future Event and returns its id
func (t *Tree) Subscribe(fn Handler) uuid.UUID {
	return t.events.subscribe(fn)
}

// Unsubscribe removes a handler; returns false if id was not subscribed
func (t *Tree) Unsubscribe(id uuid.UUID) bool {
	return t.events.unsubscribe(id)
}

// RootPath returns the configured root and whether one is set
func (t *Tree) RootPath() (string, bool) {
	p := t.root.Load()
	if p == nil {
		return "", false
	}
	return *p, true
}

// SetRootPath replaces the root, persists it and invalidates the whole tree.
// rootPath must be absolute; callers resolve relative input first. The new
// root is applied even if persisting fails; that error is returned.
func (t *Tree) SetRootPath(ctx context.Context, rootPath string) error {
	logger := util.GetLogger("Tree.SetRootPath")
	if strings.TrimSpace(rootPath) == "" {
		return newError(OpSetRoot, rootPath, ErrNoTargetDirectory, errors.New("empty root path"))
	}
	if !filepath.IsAbs(rootPath) {
		return newError(OpSetRoot, rootPath, ErrNoTargetDirectory, errors.New("root path is not absolute"))
	}
	root := filepath.Clean(rootPath)
	t.root.Store(&root)
	logger.Info().Str("root", root).Msg("Root path set")
	t.events.emit(Event{Scope: ScopeAll, Op: OpSetRoot})

	if t.saver == nil {
		return nil
	}
	if err := t.saver.Save(ctx, root); err != nil {
		logger.Error().Err(err).Str("root", root).Msg("Failed to persist root path")
		return newError(OpSetRoot, root, ErrIOFailure, err)
	}
	return nil
}

// Refresh asks subscribers to re-list node, or the root when node is nil
func (t *Tree) Refresh(node *Node) {
	if node != nil && !node.isDir {
		node = node.parent
	}
	t.events.emit(scopeOf(OpRefresh, node, false))
}

// Children lists node's immediate entries, or the root's when node is nil or
// not a directory. Directories sort before files, then by name.
//
// Listing fails soft: an unset root or any storage error yields an empty
// result so one unreadable subtree does not break the rest of the view.
func (t *Tree) Children(ctx context.Context, node *Node) []*Node {
	logger := util.GetLogger("Tree.Children")

	var dir string
	var parent *Node
	if node != nil && node.isDir {
		dir, parent = node.path, node
	} else {
		root, ok := t.RootPath()
		if !ok {
			logger.Trace().Msg("No root configured")
			return []*Node{}
		}
		dir = root
	}

	entries, err := t.storage.ReadDir(dir)
	if err != nil {
		logger.Warn().Err(err).Str("path", dir).Msg("Failed to list directory")
		return []*Node{}
	}

	nodes := make([]*Node, 0, len(entries))
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			logger.Warn().Err(err).Str("path", dir).Msg("Listing cancelled")
			return []*Node{}
		}
		child, err := NewNode(t.storage, filepath.Join(dir, entry.Name()), parent)
		if err != nil {
			logger.Warn().Err(err).Str("path", dir).Str("entry", entry.Name()).Msg("Failed to stat entry")
			return []*Node{}
		}
		nodes = append(nodes, child)
	}
	sortNodes(nodes, t.locale)
	logger.Trace().Str("path", dir).Int("count", len(nodes)).Msg("Listed directory")
	return nodes
}

// resolveTargetDir returns the directory an operation applies to and the node
// to scope its invalidation to (nil for the root).
//
// A nil at resolves to the root, a directory to itself and a file to the
// directory containing it.
func (t *Tree) resolveTargetDir(op string, at *Node) (string, *Node, error) {
	switch {
	case at == nil:
		root, ok := t.RootPath()
		if !ok {
			return "", nil, newError(op, "", ErrNoTargetDirectory, errors.New("no root configured and no node given"))
		}
		return root, nil, nil
	case at.isDir:
		return at.path, at, nil
	default:
		return at.Dir(), at.parent, nil
	}
}

// CreateFile creates an empty file called name in the directory resolved from
// at. An existing entry is never overwritten.
func (t *Tree) CreateFile(ctx context.Context, name string, at *Node) error {
	return t.create(ctx, OpCreateFile, name, at)
}

// CreateFolder creates a directory called name in the directory resolved from
// at. See [Tree.CreateFile].
func (t *Tree) CreateFolder(ctx context.Context, name string, at *Node) error {
	return t.create(ctx, OpCreateFolder, name, at)
}

func (t *Tree) create(ctx context.Context, op, name string, at *Node) error {
	logger := util.GetLogger("Tree.Create").With().Str("op", op).Logger()

	if err := ValidateName(name); err != nil {
		return newError(op, name, ErrInvalidName, err)
	}
	dir, dirNode, err := t.resolveTargetDir(op, at)
	if err != nil {
		logger.Warn().Err(err).Str("name", name).Msg("No target directory")
		return err
	}
	target := filepath.Join(dir, name)
	if err := ctx.Err(); err != nil {
		return newError(op, target, ErrIOFailure, err)
	}
	if err := t.requireDir(op, dir); err != nil {
		logger.Warn().Err(err).Str("path", target).Msg("Target directory unavailable")
		return err
	}

	if op == OpCreateFile {
		err = t.writeEmptyFile(target)
	} else {
		err = t.makeDir(target)
	}
	if err != nil {
		err = storageError(op, target, err)
		logger.Warn().Err(err).Str("path", target).Msg("Create failed")
		return err
	}

	logger.Debug().Str("path", target).Msg("Created")
	t.events.emit(scopeOf(op, dirNode, true))
	return nil
}

func (t *Tree) writeEmptyFile(path string) error {
	f, err := t.storage.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, t.cfg.FilePerm)
	if err != nil {
		return err
	}
	return f.Close()
}

// makeDir creates a single directory. billy only exposes MkdirAll so the
// existence check happens first.
func (t *Tree) makeDir(path string) error {
	if _, err := t.storage.Lstat(path); err == nil {
		return &os.PathError{Op: "mkdir", Path: path, Err: os.ErrExist}
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return t.storage.MkdirAll(path, t.cfg.DirPerm)
}

// requireDir fails unless path exists and is a directory
func (t *Tree) requireDir(op, path string) error {
	info, err := t.storage.Stat(path)
	if err != nil {
		return storageError(op, path, err)
	}
	if !info.IsDir() {
		return newError(op, path, ErrNoTargetDirectory, errors.New("not a directory"))
	}
	return nil
}

// Rename gives node newName within its current directory.
//
// Renaming to the current name succeeds and still emits an invalidation.
func (t *Tree) Rename(ctx context.Context, node *Node, newName string) error {
	logger := util.GetLogger("Tree.Rename")

	if node == nil {
		return newError(OpRename, "", ErrNotFound, errNilNode)
	}
	if err := ValidateName(newName); err != nil {
		return newError(OpRename, newName, ErrInvalidName, err)
	}
	dest := filepath.Join(node.Dir(), newName)
	if err := ctx.Err(); err != nil {
		return newError(OpRename, node.path, ErrIOFailure, err)
	}
	if err := t.relocate(OpRename, node.path, dest); err != nil {
		logger.Warn().Err(err).Str("path", node.path).Str("dest", dest).Msg("Rename failed")
		return err
	}

	logger.Debug().Str("path", node.path).Str("dest", dest).Msg("Renamed")
	if node.parent == nil {
		t.events.emit(Event{Scope: ScopeAll, Op: OpRename})
	} else {
		t.events.emit(scopeOf(OpRename, node.parent, false))
	}
	return nil
}

// relocate moves src to dest at the storage layer. An occupied dest fails
// with ErrAlreadyExists rather than being overwritten.
func (t *Tree) relocate(op, src, dest string) error {
	if _, err := t.storage.Lstat(src); err != nil {
		return storageError(op, src, err)
	}
	if src == dest {
		// the storage rename would be an identity
		return nil
	}
	if within(dest, src) {
		return newError(op, src, ErrIOFailure, fmt.Errorf("cannot move into itself: %s", dest))
	}
	if _, err := t.storage.Lstat(dest); err == nil {
		return newError(op, dest, ErrAlreadyExists, nil)
	} else if !errors.Is(err, os.ErrNotExist) {
		return storageError(op, dest, err)
	}
	if err := t.storage.Rename(src, dest); err != nil {
		return storageError(op, src, err)
	}
	return nil
}

// Delete removes node from storage, recursively for directories. There is no
// trash; confirmation is the caller's concern.
func (t *Tree) Delete(ctx context.Context, node *Node) error {
	logger := util.GetLogger("Tree.Delete")

	if node == nil {
		return newError(OpDelete, "", ErrNotFound, errNilNode)
	}
	if err := ctx.Err(); err != nil {
		return newError(OpDelete, node.path, ErrIOFailure, err)
	}
	if _, err := t.storage.Lstat(node.path); err != nil {
		err = storageError(OpDelete, node.path, err)
		logger.Warn().Err(err).Str("path", node.path).Msg("Delete failed")
		return err
	}

	var err error
	if node.isDir {
		err = billyutil.RemoveAll(t.storage, node.path)
	} else {
		err = t.storage.Remove(node.path)
	}
	if err != nil {
		// whatever storage refused is reported as an io failure
		err = newError(OpDelete, node.path, ErrIOFailure, err)
		logger.Warn().Err(err).Str("path", node.path).Msg("Delete failed")
		return err
	}

	logger.Debug().Str("path", node.path).Bool("dir", node.isDir).Msg("Deleted")
	t.events.emit(scopeOf(OpDelete, node.parent, false))
	return nil
}

// Move relocates every source into the directory resolved from target, as
// for [Tree.CreateFile]. Sources already in that directory are skipped.
//
// The batch is best-effort: each source is moved independently and a
// failure does not stop the others. Failures are returned together as a
// *MoveError. A full-tree invalidation is emitted once the batch completes.
func (t *Tree) Move(ctx context.Context, sources []*Node, target *Node) error {
	logger := util.GetLogger("Tree.Move")

	destDir, _, err := t.resolveTargetDir(OpMove, target)
	if err != nil {
		logger.Warn().Err(err).Msg("No move destination")
		return err
	}

	var failures []MoveFailure
	moved := 0
	for _, src := range sources {
		if src == nil {
			failures = append(failures, MoveFailure{Err: newError(OpMove, "", ErrNotFound, errNilNode)})
			continue
		}
		dest := filepath.Join(destDir, src.Name())
		if dest == src.path {
			logger.Trace().Str("path", src.path).Msg("Skipping drop onto own directory")
			continue
		}
		if err := ctx.Err(); err != nil {
			failures = append(failures, MoveFailure{Source: src.path, Err: newError(OpMove, src.path, ErrIOFailure, err)})
			continue
		}
		if err := t.relocate(OpMove, src.path, dest); err != nil {
			logger.Warn().Err(err).Str("path", src.path).Str("dest", dest).Msg("Move failed")
			failures = append(failures, MoveFailure{Source: src.path, Err: err})
			continue
		}
		moved++
	}

	logger.Debug().Str("dest", destDir).Int("moved", moved).Int("failed", len(failures)).Msg("Move batch done")
	t.events.emit(Event{Scope: ScopeAll, Op: OpMove})
	if len(failures) > 0 {
		return &MoveError{Failures: failures}
	}
	return nil
}

// within reports whether path is dir or lies below it
func within(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// ValidateName checks that name is a single non-empty path segment
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errors.New("empty name")
	}
	if name == "." || name == ".." {
		return fmt.Errorf("reserved name: %q", name)
	}
	if strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("name must not contain path separators: %q", name)
	}
	return nil
}
