package resource

// Handle is an opaque reference to a value in a table.
// The low 32 bits select a slot, the high 32 bits carry the slot's
// generation, so a handle to a dropped value never matches the value that
// later reuses its slot. Handle 0 is reserved and always invalid.
type Handle uint64

func makeHandle(slot int, gen uint32) Handle {
	return Handle(uint64(gen)<<32 | uint64(slot+1))
}

func (h Handle) slot() int {
	return int(uint32(h)) - 1
}

func (h Handle) generation() uint32 {
	return uint32(h >> 32)
}

// EventType distinguishes table events.
type EventType uint8

const (
	EventCreated EventType = iota
	EventDropped
)

func (t EventType) String() string {
	switch t {
	case EventCreated:
		return "created"
	case EventDropped:
		return "dropped"
	default:
		return "unknown"
	}
}

// Event is sent to observers on Insert and Remove.
type Event struct {
	Value  any
	Kind   string
	Handle Handle
	Type   EventType
}

// Observer receives table events. Observers are compared with == on
// Unsubscribe, so they must be comparable.
type Observer interface {
	OnResourceEvent(Event)
}

// Backend stores the values behind a Table.
type Backend interface {
	// Create stores a value of the given kind and returns a handle.
	Create(kind string, value any) (Handle, error)

	// Get retrieves a value by handle.
	Get(handle Handle) (any, bool)

	// Kind returns the kind a value was stored with.
	Kind(handle Handle) (string, bool)

	// Drop removes a value and returns (value, true) if the handle was live.
	Drop(handle Handle) (any, bool)

	// Len returns the number of live values.
	Len() int

	// Counts returns the number of live values per kind.
	Counts() map[string]int

	// Close invalidates every handle.
	Close() error
}
