package resource

import (
	"slices"
	"sync"
)

// Table maps handles to values through a Backend and tells observers about
// every insert and remove.
type Table struct {
	backend   Backend
	mu        sync.RWMutex // guards observers and closed
	observers []Observer
	closed    bool
}

// NewTable creates a table backed by a LocalBackend.
func NewTable() *Table {
	return NewTableWithBackend(NewLocalBackend())
}

// NewTableWithBackend creates a table over an existing backend.
func NewTableWithBackend(b Backend) *Table {
	return &Table{backend: b}
}

// Insert adds a value and returns its handle, or 0 once the table is closed.
func (t *Table) Insert(kind string, value any) Handle {
	if t.Closed() {
		return 0
	}
	handle, err := t.backend.Create(kind, value)
	if err != nil {
		return 0
	}
	t.notify(Event{Type: EventCreated, Handle: handle, Kind: kind, Value: value})
	return handle
}

// Get retrieves a value by handle.
func (t *Table) Get(handle Handle) (any, bool) {
	return t.backend.Get(handle)
}

// Kind returns the kind a value was stored with.
func (t *Table) Kind(handle Handle) (string, bool) {
	return t.backend.Kind(handle)
}

// Remove drops a value and returns (value, true) if the handle was live.
// Dead handles are ignored and produce no event.
func (t *Table) Remove(handle Handle) (any, bool) {
	kind, _ := t.backend.Kind(handle)
	value, ok := t.backend.Drop(handle)
	if !ok {
		return nil, false
	}
	t.notify(Event{Type: EventDropped, Handle: handle, Kind: kind, Value: value})
	return value, true
}

// RemoveAll drops every live handle in hs and returns how many were live.
func (t *Table) RemoveAll(hs []Handle) int {
	n := 0
	for _, h := range hs {
		if _, ok := t.Remove(h); ok {
			n++
		}
	}
	return n
}

// Subscribe adds an observer for lifecycle events.
func (t *Table) Subscribe(o Observer) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.observers = append(t.observers, o)
}

// Unsubscribe removes an observer.
func (t *Table) Unsubscribe(o Observer) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if i := slices.Index(t.observers, o); i >= 0 {
		t.observers = slices.Delete(t.observers, i, i+1)
	}
}

// Len returns the number of live values.
func (t *Table) Len() int {
	return t.backend.Len()
}

// Counts returns the number of live values per kind, e.g. {"t_INT": 3}.
func (t *Table) Counts() map[string]int {
	return t.backend.Counts()
}

// Close invalidates every handle and refuses further inserts. Observers
// are not notified.
func (t *Table) Close() error {
	t.mu.Lock()
	t.closed = true
	t.mu.Unlock()
	return t.backend.Close()
}

// Closed reports whether Close has been called.
func (t *Table) Closed() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.closed
}

func (t *Table) notify(e Event) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, o := range t.observers {
		o.OnResourceEvent(e)
	}
}
