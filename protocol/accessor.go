package protocol

import (
	"github.com/wippyai/crops"
	"github.com/wippyai/crops/errors"
	"github.com/wippyai/crops/handle"
	"github.com/wippyai/crops/transfer"
)

// Put writes a fixed-size value into caller storage.
type Put[V any] func(mem crops.Memory, ptr uint32, v V) error

// PutU8 writes a u8 out parameter.
func PutU8(mem crops.Memory, ptr uint32, v uint8) error {
	if err := mem.WriteU8(ptr, v); err != nil {
		return errors.OutOfBounds(errors.PhaseAccess, ptr, 1, err)
	}
	return nil
}

// PutU32 writes a little-endian u32 out parameter.
func PutU32(mem crops.Memory, ptr uint32, v uint32) error {
	if err := mem.WriteU32(ptr, v); err != nil {
		return errors.OutOfBounds(errors.PhaseAccess, ptr, 4, err)
	}
	return nil
}

// Get copies a fixed-size field of the entity behind h into caller storage
// at out. The handle is validated before out, and neither touches memory.
func Get[E Entity, V any](env *Env, t Type, field string, h handle.Handle, out uint32, read func(E) V, put Put[V]) errors.Status {
	return Call(t, "get_"+field, func() error {
		e, err := Resolve[E](env, t, errors.PhaseAccess, h)
		if err != nil {
			return withField(err, field)
		}
		if out == 0 {
			return withField(errors.NullArgument(errors.PhaseAccess, t.Name, "out pointer"), field)
		}
		return withField(put(env.Mem, out, read(e)), field)
	})
}

// With replaces a fixed-size field with value.
func With[E Entity, V any](env *Env, t Type, field string, h handle.Handle, value V, assign func(E, V)) errors.Status {
	return Call(t, "with_"+field, func() error {
		e, err := Resolve[E](env, t, errors.PhaseAccess, h)
		if err != nil {
			return withField(err, field)
		}
		assign(e, value)
		return nil
	})
}

// WithString replaces a string field with a copy of the NUL-terminated
// string at ptr. The string is read and validated before the entity is
// touched, so a failed call leaves the field unchanged.
func WithString[E Entity](env *Env, t Type, field string, h handle.Handle, ptr uint32, assign func(E, string)) errors.Status {
	return Call(t, "with_"+field, func() error {
		e, err := Resolve[E](env, t, errors.PhaseAccess, h)
		if err != nil {
			return withField(err, field)
		}
		s, err := transfer.ReadCString(env.Mem, ptr)
		if err != nil {
			return withField(err, field)
		}
		assign(e, s)
		return nil
	})
}

// GetString copies a string field into the caller's buffer descriptor.
// The caller owns the buffer; it must hold len+1 bytes or the call fails
// with StatusBufferTooSmall and the buffer is left untouched.
func GetString[E Entity](env *Env, t Type, field string, h handle.Handle, d transfer.Descriptor, read func(E) string) errors.Status {
	return Call(t, "get_"+field, func() error {
		e, err := Resolve[E](env, t, errors.PhaseAccess, h)
		if err != nil {
			return withField(err, field)
		}
		return withField(transfer.WriteDescriptor(env.Mem, d, read(e)), field)
	})
}

// Update runs fn against the entity behind h under the status wrapper.
// It serves accessor families without a dedicated helper (Vec, Option).
func Update[E Entity](env *Env, t Type, op, field string, h handle.Handle, fn func(E) error) errors.Status {
	return Call(t, op, func() error {
		e, err := Resolve[E](env, t, errors.PhaseAccess, h)
		if err != nil {
			return withField(err, field)
		}
		return withField(fn(e), field)
	})
}
