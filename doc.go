// Package crops is the runtime contract behind a generated foreign-function
// boundary: heap-allocated, ownership-tracked entities and tagged-union values
// owned by Go and driven by callers that manage memory by hand.
//
// # Architecture Overview
//
//	crops/            Root package with the caller Memory and Allocator interfaces
//	├── errors/       Structured errors and the boundary status codes
//	├── handle/       Arena-indexed handle table
//	├── memory/       In-process linear memory and wazero adapters
//	├── transfer/     String transfer strategies
//	├── protocol/     Lifecycle, field accessor and variant protocol families
//	├── model/        Boundary entities (brush, color)
//	├── schema/       WIT and C descriptions of the boundary
//	├── host/         wazero host module exporting the boundary
//	├── guest/        Synthetic guest shims for driving the boundary
//	└── config/       TOML configuration
//
// # Call Discipline
//
// A caller obtains a handle from a default, from_<variant> or clone call,
// performs accessor and variant calls on it, and releases it exactly once
// with the matching free call:
//
//	b := brush.Default(env)
//	brush.WithWeight(env, b, 7)   // 0
//	brush.GetWeight(env, b, out)  // 0, *out == 7
//	brush.Free(env, b)
//
// Every fallible call returns an errors.Status; 0 is success. Calls after
// free, and double free, are undefined: the table reuses retired slots.
//
// # Pointers
//
// Caller pointers are offsets into a Memory. Offset 0 is null and is always
// rejected with StatusNullArgument before any memory access.
//
// # Thread Safety
//
// The handle table is safe for concurrent use. Entities are not: calls on the
// same handle from several goroutines must be serialized by the caller.
package crops
