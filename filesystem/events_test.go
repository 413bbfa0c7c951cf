package filesystem

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScope_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "node", ScopeNode.String())
	assert.Equal(t, "root", ScopeRoot.String())
	assert.Equal(t, "all", ScopeAll.String())
	assert.Equal(t, "unknown", Scope(42).String())
}

func TestScopeOf(t *testing.T) {
	t.Parallel()

	storage := memfs.New()
	require.NoError(t, storage.MkdirAll("/r/d", 0o755))
	dir, err := NewNode(storage, "/r/d", nil)
	require.NoError(t, err)

	assert.Equal(t, Event{Scope: ScopeRoot, Op: OpDelete}, scopeOf(OpDelete, nil, false))

	ev := scopeOf(OpCreateFile, dir, true)
	assert.Equal(t, ScopeNode, ev.Scope)
	assert.Same(t, dir, ev.Node)
	assert.True(t, ev.Expand)
}

func TestBroadcaster(t *testing.T) {
	t.Parallel()

	b := newBroadcaster()
	var a, c atomic.Int32
	idA := b.subscribe(func(Event) { a.Add(1) })
	b.subscribe(func(Event) { c.Add(1) })

	b.emit(Event{Scope: ScopeAll})
	assert.True(t, b.unsubscribe(idA))
	b.emit(Event{Scope: ScopeAll})

	assert.Equal(t, int32(1), a.Load())
	assert.Equal(t, int32(2), c.Load())
}

func TestBroadcaster_ConcurrentSubscribe(t *testing.T) {
	t.Parallel()

	b := newBroadcaster()
	var got atomic.Int32
	var wg sync.WaitGroup
	for range 8 {
		wg.Go(func() {
			id := b.subscribe(func(Event) { got.Add(1) })
			b.emit(Event{Scope: ScopeRoot})
			b.unsubscribe(id)
		})
	}
	wg.Wait()

	assert.GreaterOrEqual(t, got.Load(), int32(8), "every handler saw at least its own emit")
}
