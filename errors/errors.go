package errors

import (
	"fmt"
	"strings"
)

// Phase indicates which protocol family produced the error
type Phase string

const (
	PhaseLifecycle Phase = "lifecycle" // default, clone, debug, free
	PhaseAccess    Phase = "access"    // get/with field accessors
	PhaseVariant   Phase = "variant"   // from/as re-tagging and payload access
	PhaseTransfer  Phase = "transfer"  // string transfer across the boundary
	PhaseHost      Phase = "host"      // host module registration
	PhaseConfig    Phase = "config"    // configuration loading
)

// Kind categorizes the error
type Kind string

const (
	KindNullArgument    Kind = "null_argument"
	KindInvalidHandle   Kind = "invalid_handle"
	KindOutOfBounds     Kind = "out_of_bounds"
	KindVariantMismatch Kind = "variant_mismatch"
	KindBufferTooSmall  Kind = "buffer_too_small"
	KindAllocation      Kind = "allocation"
	KindCapacity        Kind = "capacity"
	KindInvalidUTF8     Kind = "invalid_utf8"
	KindIndexRange      Kind = "index_range"
	KindEmpty           Kind = "empty"
	KindRegistration    Kind = "registration"
	KindInstantiation   Kind = "instantiation"
	KindInvalidInput    Kind = "invalid_input"
	KindPanic           Kind = "panic"
)

// Error is the structured error type used throughout the boundary
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Entity string
	Field  string
	Detail string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Entity != "" {
		b.WriteString(" at ")
		b.WriteString(e.Entity)
		if e.Field != "" {
			b.WriteByte('.')
			b.WriteString(e.Field)
		}
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Status returns the boundary status code for this error
func (e *Error) Status() Status {
	return statusOfKind(e.Kind)
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Entity sets the entity type name
func (b *Builder) Entity(name string) *Builder {
	b.err.Entity = name
	return b
}

// Field sets the field or variant name
func (b *Builder) Field(name string) *Builder {
	b.err.Field = name
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// NullArgument reports a null handle or pointer argument
func NullArgument(phase Phase, entity, arg string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNullArgument,
		Entity: entity,
		Detail: fmt.Sprintf("null %s", arg),
	}
}

// InvalidHandle reports a handle that is not live or belongs to another entity type
func InvalidHandle(phase Phase, entity string, handle uint32) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidHandle,
		Entity: entity,
		Detail: fmt.Sprintf("handle %d is not a live %s", handle, entity),
		Value:  handle,
	}
}

// OutOfBounds reports a caller pointer outside caller memory
func OutOfBounds(phase Phase, ptr, length uint32, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Detail: fmt.Sprintf("pointer %#x (length %d) outside caller memory", ptr, length),
		Value:  ptr,
		Cause:  cause,
	}
}

// VariantMismatch reports a payload accessor on a variant holding another tag
func VariantMismatch(entity, want, have string) *Error {
	return &Error{
		Phase:  PhaseVariant,
		Kind:   KindVariantMismatch,
		Entity: entity,
		Field:  want,
		Detail: fmt.Sprintf("variant is %s, not %s", have, want),
	}
}

// BufferTooSmall reports a caller buffer descriptor that cannot hold the value
func BufferTooSmall(entity, field string, need, have uint32) *Error {
	return &Error{
		Phase:  PhaseTransfer,
		Kind:   KindBufferTooSmall,
		Entity: entity,
		Field:  field,
		Detail: fmt.Sprintf("need %d bytes, buffer holds %d", need, have),
		Value:  need,
	}
}

// AllocationFailed creates an allocation failure error
func AllocationFailed(phase Phase, size, align uint32, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindAllocation,
		Detail: fmt.Sprintf("failed to allocate %d bytes (align %d)", size, align),
		Cause:  cause,
	}
}

// CapacityExceeded reports a full handle table
func CapacityExceeded(limit int) *Error {
	return &Error{
		Phase:  PhaseLifecycle,
		Kind:   KindCapacity,
		Detail: fmt.Sprintf("handle table holds %d live handles", limit),
		Value:  limit,
	}
}

// InvalidUTF8 creates an invalid UTF-8 error
func InvalidUTF8(phase Phase, entity, field string, data []byte) *Error {
	preview := data
	if len(preview) > 32 {
		preview = preview[:32]
	}
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidUTF8,
		Entity: entity,
		Field:  field,
		Detail: fmt.Sprintf("invalid UTF-8 sequence: %x", preview),
	}
}

// IndexOutOfRange reports an element index past the end of a Vec field
func IndexOutOfRange(entity, field string, index, length int) *Error {
	return &Error{
		Phase:  PhaseAccess,
		Kind:   KindIndexRange,
		Entity: entity,
		Field:  field,
		Detail: fmt.Sprintf("index %d out of range (length %d)", index, length),
		Value:  index,
	}
}

// Empty reports an Option field holding no value
func Empty(entity, field string) *Error {
	return &Error{
		Phase:  PhaseAccess,
		Kind:   KindEmpty,
		Entity: entity,
		Field:  field,
		Detail: "option empty",
	}
}

// Panic wraps a recovered panic from inside a boundary call
func Panic(entity, op string, v any) *Error {
	return &Error{
		Phase:  PhaseHost,
		Kind:   KindPanic,
		Entity: entity,
		Field:  op,
		Detail: fmt.Sprintf("recovered: %v", v),
		Value:  v,
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// Registration creates a host function registration error
func Registration(module, name string, cause error) *Error {
	return &Error{
		Phase:  PhaseHost,
		Kind:   KindRegistration,
		Detail: fmt.Sprintf("register %s#%s", module, name),
		Cause:  cause,
	}
}

// Instantiation creates an instantiation error
func Instantiation(module string, cause error) *Error {
	return &Error{
		Phase:  PhaseHost,
		Kind:   KindInstantiation,
		Detail: fmt.Sprintf("instantiate %s", module),
		Cause:  cause,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}
