package filesystem

import (
	"errors"
	"path/filepath"
)

// Lookup builds the Node for p with its parent chain up to the root, the same
// Node a chain of listings from the root would have produced.
//
// Relative paths are taken from the root. The root itself and "" resolve to a
// nil Node, which every operation treats as the root. Paths outside the root
// get no parent.
func (t *Tree) Lookup(p string) (*Node, error) {
	if p == "" {
		return nil, nil
	}
	root, hasRoot := t.RootPath()
	if !filepath.IsAbs(p) {
		if !hasRoot {
			return nil, newError("lookup", p, ErrNoTargetDirectory, errors.New("relative path without a root"))
		}
		p = filepath.Join(root, p)
	}
	p = filepath.Clean(p)
	if hasRoot && p == root {
		return nil, nil
	}

	var parent *Node
	if dir := filepath.Dir(p); hasRoot && within(p, root) && dir != root {
		var err error
		if parent, err = t.Lookup(dir); err != nil {
			return nil, err
		}
	}
	return NewNode(t.storage, p, parent)
}
