// Package errors provides structured error types and the status-code
// vocabulary shared by every boundary function family.
//
// Errors are categorized by Phase (which protocol family) and Kind (error
// category). Use the Builder for structured construction:
//
//	err := errors.New(errors.PhaseAccess, errors.KindNullArgument).
//		Entity("Brush").
//		Field("weight").
//		Detail("null out pointer").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.VariantMismatch("Color", "other", "red")
//	err := errors.BufferTooSmall("Brush", "name", 6, 4)
//
// Errors never cross the boundary. StatusOf maps them to a Status:
//
//	0  ok
//	1  null or invalid argument (null/unknown handle, null pointer, out-of-bounds pointer)
//	2  variant mismatch
//	3  buffer too small
//	4  exhausted (allocation failure, handle table full)
//	5  invalid value (invalid UTF-8)
//	6  index out of range
//	7  option empty
//	8  other failure
package errors
