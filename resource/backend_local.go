package resource

import (
	"maps"
	"sync"

	"github.com/wippyai/pari-runtime/errors"
)

// ErrClosed is returned by Create after Close.
var ErrClosed = errors.Closed(errors.PhaseCall, "resource backend")

// LocalBackend is an in-memory backend with generation-checked handles.
// It keeps live counts up to date on every change, so Len and Counts do not
// scan the slots.
type LocalBackend struct {
	entries  []entry
	freeList []int
	kinds    map[string]int
	live     int
	mu       sync.RWMutex
	closed   bool
}

type entry struct {
	value any
	kind  string
	gen   uint32
	valid bool
}

// NewLocalBackend creates a new in-memory backend.
func NewLocalBackend() *LocalBackend {
	return &LocalBackend{
		entries:  make([]entry, 0, 64),
		freeList: make([]int, 0, 16),
		kinds:    make(map[string]int),
	}
}

// Create stores a value and returns a handle. Freed slots are reused with
// their generation already bumped by Drop.
func (b *LocalBackend) Create(kind string, value any) (Handle, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return 0, ErrClosed
	}
	b.live++
	b.kinds[kind]++

	if n := len(b.freeList); n > 0 {
		slot := b.freeList[n-1]
		b.freeList = b.freeList[:n-1]
		e := &b.entries[slot]
		e.value, e.kind, e.valid = value, kind, true
		return makeHandle(slot, e.gen), nil
	}

	b.entries = append(b.entries, entry{value: value, kind: kind, gen: 1, valid: true})
	return makeHandle(len(b.entries)-1, 1), nil
}

// lookup returns the live entry for handle. Caller holds mu.
func (b *LocalBackend) lookup(handle Handle) *entry {
	if handle == 0 {
		return nil
	}
	slot := handle.slot()
	if slot < 0 || slot >= len(b.entries) {
		return nil
	}
	e := &b.entries[slot]
	if !e.valid || e.gen != handle.generation() {
		return nil
	}
	return e
}

// Get retrieves a value by handle.
func (b *LocalBackend) Get(handle Handle) (any, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if e := b.lookup(handle); e != nil {
		return e.value, true
	}
	return nil, false
}

// Kind returns the kind a value was stored with.
func (b *LocalBackend) Kind(handle Handle) (string, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if e := b.lookup(handle); e != nil {
		return e.kind, true
	}
	return "", false
}

// Drop removes a value and bumps the slot generation.
func (b *LocalBackend) Drop(handle Handle) (any, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	e := b.lookup(handle)
	if e == nil {
		return nil, false
	}

	value := e.value
	if b.kinds[e.kind]--; b.kinds[e.kind] == 0 {
		delete(b.kinds, e.kind)
	}
	b.live--

	e.valid = false
	e.value = nil
	e.kind = ""
	if e.gen++; e.gen == 0 {
		e.gen = 1
	}
	b.freeList = append(b.freeList, handle.slot())
	return value, true
}

// Close invalidates every handle. Slots are released, so handles never
// resolve again even though Create is refused from now on.
func (b *LocalBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true
	b.entries = nil
	b.freeList = nil
	b.kinds = make(map[string]int)
	b.live = 0
	return nil
}

// Len returns the number of live values.
func (b *LocalBackend) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.live
}

// Counts returns a copy of the live counts per kind.
func (b *LocalBackend) Counts() map[string]int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return maps.Clone(b.kinds)
}
