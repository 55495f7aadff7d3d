// Package transfer moves variable-length strings across the boundary.
//
// Inputs are NUL-terminated UTF-8 strings in caller memory. The host copies
// them; the caller keeps its buffer.
//
// Outputs use one of two strategies, fixed per field:
//
//   - Buffer descriptor: the caller pre-allocates Descriptor{Ptr, Len}. The
//     host writes the value and a NUL terminator. A buffer shorter than
//     len+1 fails with KindBufferTooSmall and is left untouched. The caller
//     owns the buffer before, during and after the call.
//
//   - Raw transfer: the host allocates len+1 bytes through the caller's
//     Allocator and hands the pointer over. The caller owns the bytes and
//     must return them through Heap.Release (crops_string_free), never
//     through an entity's free call.
package transfer
