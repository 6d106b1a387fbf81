package resource

// Handle is an opaque reference to a value in a table.
// Handle 0 is reserved and always invalid.
//
// The low 24 bits hold the slot index plus one; the high 8 bits hold the
// slot generation, so a handle to a removed value stays invalid after its
// slot is reused.
type Handle uint32

const (
	indexBits  = 24
	indexMask  = 1<<indexBits - 1
	maxEntries = indexMask
)

func makeHandle(idx int, gen uint8) Handle {
	return Handle(uint32(gen)<<indexBits | uint32(idx+1))
}

func (h Handle) index() int {
	return int(uint32(h)&indexMask) - 1
}

func (h Handle) generation() uint8 {
	return uint8(uint32(h) >> indexBits)
}

// EventType identifies a lifecycle notification.
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
	}
	return "unknown"
}

// Event represents a lifecycle event for a table entry.
type Event[T any] struct {
	Value  T
	Handle Handle
	Type   EventType
}

// Observer receives notifications about lifecycle events.
type Observer[T any] interface {
	OnResourceEvent(Event[T])
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc[T any] func(Event[T])

// OnResourceEvent calls f(e).
func (f ObserverFunc[T]) OnResourceEvent(e Event[T]) { f(e) }

// Dropper is optionally implemented by values that need cleanup on removal.
type Dropper interface {
	Drop()
}
