package resource

import (
	"errors"
	"sync"
)

var (
	ErrClosed = errors.New("resource table closed")
	ErrFull   = errors.New("resource table full")
)

// Table maps handles to values of type T.
// It is safe for concurrent use.
type Table[T any] struct {
	entries   []entry[T]
	freeList  []int
	observers []Observer[T]
	mu        sync.RWMutex
	obsMu     sync.RWMutex
	live      int
	closed    bool
}

type entry[T any] struct {
	value T
	gen   uint8
	valid bool
}

// NewTable creates an empty table.
func NewTable[T any]() *Table[T] {
	return &Table[T]{
		entries:  make([]entry[T], 0, 64),
		freeList: make([]int, 0, 16),
	}
}

// Insert stores a value and returns its handle.
func (t *Table[T]) Insert(value T) (Handle, error) {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return 0, ErrClosed
	}

	var idx int
	if n := len(t.freeList); n > 0 {
		idx = t.freeList[n-1]
		t.freeList = t.freeList[:n-1]
	} else {
		if len(t.entries) >= maxEntries {
			t.mu.Unlock()
			return 0, ErrFull
		}
		t.entries = append(t.entries, entry[T]{})
		idx = len(t.entries) - 1
	}

	e := &t.entries[idx]
	e.value = value
	e.valid = true
	t.live++
	h := makeHandle(idx, e.gen)
	t.mu.Unlock()

	t.notify(Event[T]{Type: EventCreated, Handle: h, Value: value})
	return h, nil
}

// lookup returns the entry for h. Callers hold t.mu.
func (t *Table[T]) lookup(h Handle) (*entry[T], bool) {
	if h == 0 {
		return nil, false
	}
	idx := h.index()
	if idx < 0 || idx >= len(t.entries) {
		return nil, false
	}
	e := &t.entries[idx]
	if !e.valid || e.gen != h.generation() {
		return nil, false
	}
	return e, true
}

// Get retrieves a value by handle.
func (t *Table[T]) Get(h Handle) (T, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	e, ok := t.lookup(h)
	if !ok {
		var zero T
		return zero, false
	}
	return e.value, true
}

// Remove drops a value and returns (value, true) if the handle was live.
// Values implementing Dropper are dropped.
func (t *Table[T]) Remove(h Handle) (T, bool) {
	var zero T

	t.mu.Lock()
	e, ok := t.lookup(h)
	if !ok {
		t.mu.Unlock()
		return zero, false
	}
	value := e.value
	e.value = zero
	e.valid = false
	e.gen++
	t.live--
	t.freeList = append(t.freeList, h.index())
	t.mu.Unlock()

	if d, ok := any(value).(Dropper); ok {
		d.Drop()
	}
	t.notify(Event[T]{Type: EventDropped, Handle: h, Value: value})
	return value, true
}

// Len returns the number of live values.
func (t *Table[T]) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.live
}

// Each calls fn for every live value until fn returns false.
// fn must not modify the table.
func (t *Table[T]) Each(fn func(Handle, T) bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	for i, e := range t.entries {
		if e.valid {
			if !fn(makeHandle(i, e.gen), e.value) {
				break
			}
		}
	}
}

// Clear removes every live value.
func (t *Table[T]) Clear() {
	// Collect handles first to avoid holding lock during Remove
	var handles []Handle
	t.Each(func(h Handle, _ T) bool {
		handles = append(handles, h)
		return true
	})
	for _, h := range handles {
		t.Remove(h)
	}
}

// Close removes every live value and rejects further inserts.
func (t *Table[T]) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	t.mu.Unlock()

	t.Clear()
	return nil
}

// Subscribe adds an observer for lifecycle events.
func (t *Table[T]) Subscribe(o Observer[T]) {
	t.obsMu.Lock()
	defer t.obsMu.Unlock()
	t.observers = append(t.observers, o)
}

func (t *Table[T]) notify(e Event[T]) {
	t.obsMu.RLock()
	defer t.obsMu.RUnlock()
	for _, o := range t.observers {
		o.OnResourceEvent(e)
	}
}
