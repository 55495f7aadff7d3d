package handle

// Handle is an opaque reference to an entity in a table.
// Handle 0 is the null handle and is always invalid.
type Handle uint32

// TypeID identifies the entity type stored behind a handle.
type TypeID uint32

// Event types for handle lifecycle notifications.
type EventType uint8

const (
	EventCreated EventType = iota
	EventFreed
)

func (e EventType) String() string {
	switch e {
	case EventCreated:
		return "created"
	case EventFreed:
		return "freed"
	default:
		return "unknown"
	}
}

// Event represents a handle lifecycle event.
type Event struct {
	Value  any
	Handle Handle
	TypeID TypeID
	Type   EventType
}

// Observer receives notifications about handle lifecycle events.
type Observer interface {
	OnHandleEvent(Event)
}

// Dropper is optionally implemented by values that own sub-values which
// must be released when their handle is freed.
type Dropper interface {
	Drop()
}
