package handle

import "sync"

// Tracker is an Observer that counts live handles per type.
type Tracker struct {
	live    map[TypeID]int
	created map[TypeID]int
	mu      sync.Mutex
}

// NewTracker creates a tracker and subscribes it to t.
func NewTracker(t *Table) *Tracker {
	tr := &Tracker{
		live:    make(map[TypeID]int),
		created: make(map[TypeID]int),
	}
	t.Subscribe(tr)
	return tr
}

// OnHandleEvent implements Observer.
func (tr *Tracker) OnHandleEvent(e Event) {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	switch e.Type {
	case EventCreated:
		tr.live[e.TypeID]++
		tr.created[e.TypeID]++
	case EventFreed:
		tr.live[e.TypeID]--
	}
}

// Live returns the number of live handles of a type.
func (tr *Tracker) Live(typeID TypeID) int {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	return tr.live[typeID]
}

// Created returns the number of handles ever created for a type.
func (tr *Tracker) Created(typeID TypeID) int {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	return tr.created[typeID]
}

// Total returns the number of live handles across all types.
func (tr *Tracker) Total() int {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	n := 0
	for _, c := range tr.live {
		n += c
	}
	return n
}
