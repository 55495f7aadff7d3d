package protocol

import (
	"github.com/wippyai/crops/handle"
)

// Entity is a host value that lives behind an opaque handle.
type Entity interface {
	// Drop releases every owned sub-value. The table calls it on free.
	handle.Dropper

	// CloneEntity returns a deep copy whose owned sub-values are
	// allocated independently of the receiver.
	CloneEntity() Entity

	// String renders the current field values for the debug family.
	String() string
}

// Type names an entity type on the boundary.
type Type struct {
	Name string
	ID   handle.TypeID
}
