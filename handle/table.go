package handle

import (
	"errors"
	"sync"
)

var (
	ErrClosed   = errors.New("handle table closed")
	ErrCapacity = errors.New("handle table at capacity")
)

// Table is an arena-indexed handle table. Handle n addresses slot n-1.
// Retired slots are reused, so a handle used after free may address a newer
// entity; callers must not use a handle after freeing it.
type Table struct {
	entries   []entry
	freeList  []Handle
	observers []Observer
	limit     int
	live      int
	mu        sync.RWMutex
	obsMu     sync.RWMutex
	closed    bool
}

type entry struct {
	value  any
	typeID TypeID
	valid  bool
}

// NewTable creates a table with no capacity limit.
func NewTable() *Table {
	return NewTableWithLimit(0)
}

// NewTableWithLimit creates a table that holds at most limit live handles.
// A limit of 0 means unbounded.
func NewTableWithLimit(limit int) *Table {
	return &Table{
		entries:  make([]entry, 0, 64),
		freeList: make([]Handle, 0, 16),
		limit:    limit,
	}
}

// Insert stores a value and returns its handle.
func (t *Table) Insert(typeID TypeID, value any) (Handle, error) {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return 0, ErrClosed
	}
	if t.limit > 0 && t.live >= t.limit {
		t.mu.Unlock()
		return 0, ErrCapacity
	}

	e := entry{
		typeID: typeID,
		value:  value,
		valid:  true,
	}

	var h Handle
	if len(t.freeList) > 0 {
		h = t.freeList[len(t.freeList)-1]
		t.freeList = t.freeList[:len(t.freeList)-1]
		t.entries[h-1] = e
	} else {
		t.entries = append(t.entries, e)
		h = Handle(len(t.entries))
	}
	t.live++
	t.mu.Unlock()

	t.notify(Event{
		Type:   EventCreated,
		Handle: h,
		TypeID: typeID,
		Value:  value,
	})

	return h, nil
}

// Get retrieves a value by handle.
func (t *Table) Get(h Handle) (any, bool) {
	if h == 0 {
		return nil, false
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	idx := h - 1
	if int(idx) >= len(t.entries) {
		return nil, false
	}

	e := t.entries[idx]
	if !e.valid {
		return nil, false
	}
	return e.value, true
}

// GetTyped retrieves a value only if it was inserted with typeID.
func (t *Table) GetTyped(h Handle, typeID TypeID) (any, bool) {
	if h == 0 {
		return nil, false
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	idx := h - 1
	if int(idx) >= len(t.entries) {
		return nil, false
	}

	e := t.entries[idx]
	if !e.valid || e.typeID != typeID {
		return nil, false
	}
	return e.value, true
}

// Remove retires a handle of the given type and returns its value.
// Values implementing Dropper are dropped before Remove returns.
func (t *Table) Remove(h Handle, typeID TypeID) (any, bool) {
	if h == 0 {
		return nil, false
	}

	t.mu.Lock()
	idx := h - 1
	if int(idx) >= len(t.entries) {
		t.mu.Unlock()
		return nil, false
	}

	e := &t.entries[idx]
	if !e.valid || e.typeID != typeID {
		t.mu.Unlock()
		return nil, false
	}

	value := e.value
	e.valid = false
	e.value = nil
	t.freeList = append(t.freeList, h)
	t.live--
	t.mu.Unlock()

	if d, ok := value.(Dropper); ok {
		d.Drop()
	}

	t.notify(Event{
		Type:   EventFreed,
		Handle: h,
		TypeID: typeID,
		Value:  value,
	})

	return value, true
}

// Subscribe adds an observer for lifecycle events.
func (t *Table) Subscribe(o Observer) {
	t.obsMu.Lock()
	defer t.obsMu.Unlock()
	t.observers = append(t.observers, o)
}

// Unsubscribe removes an observer.
func (t *Table) Unsubscribe(o Observer) {
	t.obsMu.Lock()
	defer t.obsMu.Unlock()
	for i, obs := range t.observers {
		if obs == o {
			t.observers = append(t.observers[:i], t.observers[i+1:]...)
			return
		}
	}
}

// Len returns the number of live handles.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.live
}

// Limit returns the configured capacity, 0 when unbounded.
func (t *Table) Limit() int {
	return t.limit
}

// Each iterates over all live handles.
func (t *Table) Each(fn func(Handle, TypeID, any) bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	for i, e := range t.entries {
		if e.valid {
			if !fn(Handle(i+1), e.typeID, e.value) {
				break
			}
		}
	}
}

// Close drops every live value and stops accepting inserts.
func (t *Table) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true

	type live struct {
		h      Handle
		typeID TypeID
		value  any
	}
	var dropped []live
	for i := range t.entries {
		if t.entries[i].valid {
			dropped = append(dropped, live{Handle(i + 1), t.entries[i].typeID, t.entries[i].value})
			t.entries[i].valid = false
			t.entries[i].value = nil
		}
	}
	t.entries = nil
	t.freeList = nil
	t.live = 0
	t.mu.Unlock()

	for _, l := range dropped {
		if d, ok := l.value.(Dropper); ok {
			d.Drop()
		}
		t.notify(Event{Type: EventFreed, Handle: l.h, TypeID: l.typeID, Value: l.value})
	}
	return nil
}

func (t *Table) notify(e Event) {
	t.obsMu.RLock()
	defer t.obsMu.RUnlock()
	for _, o := range t.observers {
		o.OnHandleEvent(e)
	}
}
