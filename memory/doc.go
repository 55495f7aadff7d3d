// Package memory provides caller memories for the boundary.
//
// Linear is an in-process byte arena with a first-fit allocator, used when
// Go code drives the boundary directly (tests, the CLI console). Offset 0 is
// never handed out so it stays the null pointer.
//
// Wrap and WrapAllocator adapt a wazero guest: its exported memory and its
// cabi_realloc function become the crops.Memory and crops.Allocator the
// protocol writes results into.
package memory
