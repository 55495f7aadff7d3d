package brush

import (
	"github.com/wippyai/crops/errors"
	"github.com/wippyai/crops/handle"
	"github.com/wippyai/crops/model/color"
	"github.com/wippyai/crops/protocol"
	"github.com/wippyai/crops/transfer"
)

// GetWeight writes the weight to the u8 at out.
func GetWeight(env *protocol.Env, h handle.Handle, out uint32) errors.Status {
	return protocol.Get(env, Type, "weight", h, out, (*Brush).Weight, protocol.PutU8)
}

// WithWeight sets the weight.
func WithWeight(env *protocol.Env, h handle.Handle, v uint8) errors.Status {
	return protocol.With(env, Type, "weight", h, v, func(b *Brush, v uint8) { b.weight = v })
}

// GetColor deep-copies the brush color into the caller-owned Color handle c.
func GetColor(env *protocol.Env, h, c handle.Handle) errors.Status {
	return protocol.Update(env, Type, "get_color", "color", h, func(b *Brush) error {
		dst, err := lookupColor(env, c)
		if err != nil {
			return err
		}
		dst.CopyFrom(b.color)
		return nil
	})
}

// WithColor replaces the brush color with a deep copy of the Color behind c.
// The caller keeps ownership of c.
func WithColor(env *protocol.Env, h, c handle.Handle) errors.Status {
	return protocol.Update(env, Type, "with_color", "color", h, func(b *Brush) error {
		src, err := lookupColor(env, c)
		if err != nil {
			return err
		}
		b.color.CopyFrom(src)
		return nil
	})
}

func lookupColor(env *protocol.Env, c handle.Handle) (*color.Color, error) {
	if c == 0 {
		return nil, errors.NullArgument(errors.PhaseAccess, Type.Name, "color handle")
	}
	return color.Lookup(env, errors.PhaseAccess, c)
}

// GetName copies the name into the caller's buffer descriptor. The buffer
// must hold the name plus a NUL terminator.
func GetName(env *protocol.Env, h handle.Handle, d transfer.Descriptor) errors.Status {
	return protocol.GetString(env, Type, "name", h, d, (*Brush).Name)
}

// WithName replaces the name with a copy of the NUL-terminated string at ptr.
func WithName(env *protocol.Env, h handle.Handle, ptr uint32) errors.Status {
	return protocol.WithString(env, Type, "name", h, ptr, func(b *Brush, s string) {
		b.name.Replace(b.ledger, s)
	})
}

// NameLen writes the name length in bytes, without terminator, to the u32
// at out.
func NameLen(env *protocol.Env, h handle.Handle, out uint32) errors.Status {
	return protocol.Get(env, Type, "name_len", h, out, func(b *Brush) uint32 {
		return uint32(len(b.name.String()))
	}, protocol.PutU32)
}

// PushTags appends a copy of the NUL-terminated string at ptr to tags.
func PushTags(env *protocol.Env, h handle.Handle, ptr uint32) errors.Status {
	return protocol.Update(env, Type, "push_tags", "tags", h, func(b *Brush) error {
		s, err := transfer.ReadCString(env.Mem, ptr)
		if err != nil {
			return err
		}
		b.tags = append(b.tags, b.ledger.Own(s))
		return nil
	})
}

// GetTags copies the tag at index into the caller's buffer descriptor.
func GetTags(env *protocol.Env, h handle.Handle, index uint32, d transfer.Descriptor) errors.Status {
	return protocol.Update(env, Type, "get_tags", "tags", h, func(b *Brush) error {
		if err := b.checkTag(index); err != nil {
			return err
		}
		return transfer.WriteDescriptor(env.Mem, d, b.tags[index].String())
	})
}

// RemoveTags removes the tag at index and copies it into the caller's
// buffer descriptor. A null descriptor pointer discards the value. The tag
// is only removed once the copy succeeded.
func RemoveTags(env *protocol.Env, h handle.Handle, index uint32, d transfer.Descriptor) errors.Status {
	return protocol.Update(env, Type, "remove_tags", "tags", h, func(b *Brush) error {
		if err := b.checkTag(index); err != nil {
			return err
		}
		if d.Ptr != 0 {
			if err := transfer.WriteDescriptor(env.Mem, d, b.tags[index].String()); err != nil {
				return err
			}
		}
		b.tags[index].Release()
		b.tags = append(b.tags[:index], b.tags[index+1:]...)
		return nil
	})
}

// TagsLen writes the number of tags to the u32 at out.
func TagsLen(env *protocol.Env, h handle.Handle, out uint32) errors.Status {
	return protocol.Get(env, Type, "tags_len", h, out, func(b *Brush) uint32 {
		return uint32(len(b.tags))
	}, protocol.PutU32)
}

func (b *Brush) checkTag(index uint32) error {
	if uint64(index) >= uint64(len(b.tags)) {
		return errors.IndexOutOfRange(Type.Name, "tags", int(index), len(b.tags))
	}
	return nil
}

// ReplaceSize sets size to v.
func ReplaceSize(env *protocol.Env, h handle.Handle, v uint32) errors.Status {
	return protocol.With(env, Type, "size", h, v, func(b *Brush, v uint32) {
		b.size = v
		b.sized = true
	})
}

// TakeSize writes size to the u32 at out and clears it. An unset size
// fails with StatusEmpty.
func TakeSize(env *protocol.Env, h handle.Handle, out uint32) errors.Status {
	return protocol.Update(env, Type, "take_size", "size", h, func(b *Brush) error {
		if err := b.putSize(env, out); err != nil {
			return err
		}
		b.size = 0
		b.sized = false
		return nil
	})
}

// GetSize writes size to the u32 at out. An unset size fails with
// StatusEmpty and out is left untouched.
func GetSize(env *protocol.Env, h handle.Handle, out uint32) errors.Status {
	return protocol.Update(env, Type, "get_size", "size", h, func(b *Brush) error {
		return b.putSize(env, out)
	})
}

func (b *Brush) putSize(env *protocol.Env, out uint32) error {
	if out == 0 {
		return errors.NullArgument(errors.PhaseAccess, Type.Name, "out pointer")
	}
	if !b.sized {
		return errors.Empty(Type.Name, "size")
	}
	return protocol.PutU32(env.Mem, out, b.size)
}
