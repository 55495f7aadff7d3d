package protocol

import (
	"github.com/wippyai/crops/errors"
	"github.com/wippyai/crops/handle"
	"github.com/wippyai/crops/transfer"
)

// Tag is a variant discriminant.
type Tag uint32

// Variant is a closed tag plus the payload slot of its single extension
// variant. Only the extension tag ever owns a payload; every re-tag releases
// the previous payload before installing the new state.
type Variant struct {
	ledger  *Ledger
	payload Owned
	tag     Tag
	ext     Tag
}

// NewVariant creates a variant in the unit state initial. ext is the tag
// that carries a payload.
func NewVariant(l *Ledger, ext, initial Tag) Variant {
	return Variant{ledger: l, ext: ext, tag: initial}
}

// Tag returns the active discriminant.
func (v *Variant) Tag() Tag {
	return v.tag
}

// Extension returns the payload-carrying tag.
func (v *Variant) Extension() Tag {
	return v.ext
}

// SetUnit moves to a payload-free tag, releasing any payload first.
func (v *Variant) SetUnit(tag Tag) {
	v.payload.Release()
	v.tag = tag
}

// SetPayload moves to the extension tag owning a copy of s. A payload
// already held is released first, even when the variant is already on the
// extension tag.
func (v *Variant) SetPayload(s string) {
	v.payload.Replace(v.ledger, s)
	v.tag = v.ext
}

// Payload returns the extension payload when the extension tag is active.
func (v *Variant) Payload() (string, bool) {
	if v.tag != v.ext || !v.payload.Held() {
		return "", false
	}
	return v.payload.String(), true
}

// Clone copies the tag and deep-copies the payload.
func (v *Variant) Clone() Variant {
	return Variant{
		ledger:  v.ledger,
		payload: v.payload.Clone(),
		tag:     v.tag,
		ext:     v.ext,
	}
}

// Assign makes v a deep copy of src, releasing v's payload first.
func (v *Variant) Assign(src *Variant) {
	v.payload.Release()
	v.payload = src.payload.Clone()
	v.ledger = src.ledger
	v.tag = src.tag
	v.ext = src.ext
}

// Release frees the payload, if any.
func (v *Variant) Release() {
	v.payload.Release()
}

// VariantEntity is an Entity backed by a Variant.
type VariantEntity interface {
	Entity
	Variant() *Variant
}

// AsUnit re-tags the entity behind h to a payload-free variant.
func AsUnit[E VariantEntity](env *Env, t Type, name string, h handle.Handle, tag Tag) errors.Status {
	return Call(t, "as_"+name, func() error {
		e, err := Resolve[E](env, t, errors.PhaseVariant, h)
		if err != nil {
			return withField(err, name)
		}
		e.Variant().SetUnit(tag)
		return nil
	})
}

// AsPayload re-tags the entity behind h to the extension variant owning a
// copy of the NUL-terminated string at ptr. A null ptr fails with
// StatusNullArgument and the entity keeps its previous state.
func AsPayload[E VariantEntity](env *Env, t Type, name string, h handle.Handle, ptr uint32) errors.Status {
	return Call(t, "as_"+name, func() error {
		e, err := Resolve[E](env, t, errors.PhaseVariant, h)
		if err != nil {
			return withField(err, name)
		}
		if ptr == 0 {
			return withField(errors.NullArgument(errors.PhaseVariant, t.Name, "payload pointer"), name)
		}
		s, err := transfer.ReadCString(env.Mem, ptr)
		if err != nil {
			return withField(err, name)
		}
		e.Variant().SetPayload(s)
		return nil
	})
}

// GetTag writes the active discriminant of the entity behind h to out.
func GetTag[E VariantEntity](env *Env, t Type, h handle.Handle, out uint32) errors.Status {
	return Get(env, t, "tag", h, out, func(e E) uint32 { return uint32(e.Variant().Tag()) }, PutU32)
}

// TakePayload hands the extension payload to the caller as a raw transfer
// and stores the pointer at out. The caller must release it through the
// transfer heap. A variant on another tag fails with StatusVariantMismatch
// and nothing is allocated.
func TakePayload[E VariantEntity](env *Env, t Type, name string, h handle.Handle, out uint32, tagName func(Tag) string) errors.Status {
	return Call(t, "get_"+name, func() error {
		e, err := Resolve[E](env, t, errors.PhaseVariant, h)
		if err != nil {
			return withField(err, name)
		}
		if out == 0 {
			return withField(errors.NullArgument(errors.PhaseVariant, t.Name, "out pointer"), name)
		}
		v := e.Variant()
		payload, ok := v.Payload()
		if !ok {
			return errors.VariantMismatch(t.Name, name, tagName(v.Tag()))
		}
		ptr, err := env.Heap.Transfer(env.Mem, env.Alloc, payload)
		if err != nil {
			return withField(err, name)
		}
		if err := PutU32(env.Mem, out, ptr); err != nil {
			_ = env.Heap.Release(env.Alloc, ptr)
			return withField(err, name)
		}
		return nil
	})
}

// ReleaseString returns a raw transfer issued by TakePayload.
func ReleaseString(env *Env, ptr uint32) errors.Status {
	return Call(Type{Name: "string"}, "free", func() error {
		return env.Heap.Release(env.Alloc, ptr)
	})
}
