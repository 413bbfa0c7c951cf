package filesystem

import (
	"github.com/google/uuid"
	"github.com/puzpuzpuz/xsync/v4"
)

// Scope is the part of the tree a host must re-query after an Event
type Scope int

const (
	// ScopeNode re-lists the children of Event.Node
	ScopeNode Scope = iota
	// ScopeRoot re-lists the top level under the root
	ScopeRoot
	// ScopeAll redraws the whole tree
	ScopeAll
)

func (s Scope) String() string {
	switch s {
	case ScopeNode:
		return "node"
	case ScopeRoot:
		return "root"
	case ScopeAll:
		return "all"
	default:
		return "unknown"
	}
}

// Event is an invalidation emitted after a successful mutation or
// reconfiguration
type Event struct {
	Scope Scope
	Node  *Node  // set only for ScopeNode
	Op    string // operation that caused the invalidation
	// Expand asks the host to show the invalidated directory expanded
	Expand bool
}

// Handler receives events synchronously on the goroutine that performed the
// mutation
type Handler func(Event)

// broadcaster fans events out to subscribed handlers
type broadcaster struct {
	subs *xsync.Map[uuid.UUID, Handler]
}

func newBroadcaster() *broadcaster {
	return &broadcaster{subs: xsync.NewMap[uuid.UUID, Handler]()}
}

func (b *broadcaster) subscribe(fn Handler) uuid.UUID {
	id := uuid.New()
	b.subs.Store(id, fn)
	return id
}

func (b *broadcaster) unsubscribe(id uuid.UUID) bool {
	_, ok := b.subs.LoadAndDelete(id)
	return ok
}

func (b *broadcaster) emit(ev Event) {
	b.subs.Range(func(_ uuid.UUID, fn Handler) bool {
		fn(ev)
		return true
	})
}

// scopeOf returns the event scope for re-listing dir; nil means the root
func scopeOf(op string, dir *Node, expand bool) Event {
	if dir == nil {
		return Event{Scope: ScopeRoot, Op: op, Expand: expand}
	}
	return Event{Scope: ScopeNode, Node: dir, Op: op, Expand: expand}
}
