// Package host exposes the boundary to WebAssembly guests as the wazero host
// module "crops".
//
// Every export works on the host's single handle table. A call is bound to
// the guest instance that made it: pointers refer to that instance's exported
// memory, and raw string transfers are allocated through its cabi_realloc
// export and tracked in a per-instance heap.
//
// Handles are not synchronized. Options.Serialize runs every export under one
// mutex for callers that share handles between goroutines.
//
// Shim builds a minimal guest that re-exports the whole boundary, which lets
// Go code act as an unmanaged caller.
package host
