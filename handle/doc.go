// Package handle provides the arena-indexed table behind opaque boundary handles.
//
// A caller never sees an entity's layout, only a Handle: a 1-based index into
// the table. Handle 0 is null.
//
//	table := handle.NewTable()
//
//	// Insert a value, get a handle
//	h, err := table.Insert(brushTypeID, b)
//
//	// Type-checked retrieval
//	v, ok := table.GetTyped(h, brushTypeID) // ok
//	v, ok := table.GetTyped(h, colorTypeID) // !ok
//
//	// Retire the handle; Dropper values release what they own
//	v, ok := table.Remove(h, brushTypeID)
//
// # Retirement
//
// Removed slots go on a free list and are reused by later inserts. A handle
// used after Remove is therefore undefined: it may be rejected or it may
// address a newer entity. The table does not track provenance.
//
// # Observers
//
// Observers receive EventCreated and EventFreed. Tracker is an Observer that
// counts live handles per type, which is how leaks are detected in tests.
//
// # Thread Safety
//
// Table is safe for concurrent use. The values stored in it are not guarded.
package handle
