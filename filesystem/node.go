package filesystem

import (
	"fmt"
	"os"
	"path/filepath"
)

// NodeType valid types are FileNodeType "file", DirNodeType "directory"
type NodeType string

const (
	FileNodeType NodeType = "file"
	DirNodeType  NodeType = "directory"
)

// Activation is what a host should do when the user activates a node
type Activation int

const (
	// ActivateExpand lists the node's children
	ActivateExpand Activation = iota
	// ActivateOpen opens the file for editing
	ActivateOpen
)

// Statter is the part of the storage capability needed to construct a Node.
// billy.Filesystem satisfies it.
type Statter interface {
	Stat(filename string) (os.FileInfo, error)
}

// Node describes one storage entry at the time it was listed.
//
// Nodes are immutable and never hold their children; a fresh Node is built on
// every listing so two Nodes for the same path are equal but not identical.
// parent is a non-owning back-reference to the directory Node whose listing
// produced this one, nil for entries directly under the root.
type Node struct {
	path   string
	isDir  bool
	parent *Node
}

// NewNode stats path to resolve its type and returns a new Node.
// Fails with [ErrNotFound] if the entry does not exist.
//
// NOTE: parent, if given, must be the directory Node containing path
func NewNode(storage Statter, path string, parent *Node) (*Node, error) {
	path = filepath.Clean(path)
	if parent != nil {
		if !parent.isDir || filepath.Dir(path) != parent.path {
			return nil, newError("node", path, ErrInvalidName,
				fmt.Errorf("parent %s does not contain it", parent.path))
		}
	}
	info, err := storage.Stat(path)
	if err != nil {
		return nil, storageError("node", path, err)
	}
	return &Node{path: path, isDir: info.IsDir(), parent: parent}, nil
}

// Path returns the absolute storage path of the node
func (n *Node) Path() string {
	return n.path
}

// Name returns the last path segment
func (n *Node) Name() string {
	return filepath.Base(n.path)
}

// IsDir reports the entry type resolved when the node was constructed
func (n *Node) IsDir() bool {
	return n.isDir
}

func (n *Node) Type() NodeType {
	if n.isDir {
		return DirNodeType
	}
	return FileNodeType
}

// Parent returns the directory node this node was listed under; nil at the root
func (n *Node) Parent() *Node {
	return n.parent
}

// Dir returns the path of the directory containing the node
func (n *Node) Dir() string {
	return filepath.Dir(n.path)
}

// Expandable reports whether a host may list this node's children
func (n *Node) Expandable() bool {
	return n.isDir
}

func (n *Node) Activation() Activation {
	if n.isDir {
		return ActivateExpand
	}
	return ActivateOpen
}

// Equal reports structural equivalence: same path and type
func (n *Node) Equal(other *Node) bool {
	if n == nil || other == nil {
		return n == other
	}
	return n.path == other.path && n.isDir == other.isDir
}

func (n *Node) String() string {
	return fmt.Sprintf("%s(%s)", n.Name(), n.Type())
}
