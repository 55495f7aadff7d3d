package brush

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/wippyai/crops/handle"
	"github.com/wippyai/crops/model/color"
	"github.com/wippyai/crops/protocol"
	"github.com/wippyai/crops/transfer"
)

// Type identifies Brush handles in the table.
var Type = protocol.Type{Name: "Brush", ID: 1}

// Brush is a struct entity with one field of each accessor family.
type Brush struct {
	ledger *protocol.Ledger
	color  *color.Color
	name   protocol.Owned
	tags   []protocol.Owned
	size   uint32
	sized  bool
	weight uint8
}

// New returns a Brush with every field at its default: weight 0, color Red,
// empty name, no tags, no size.
func New(l *protocol.Ledger) *Brush {
	return &Brush{ledger: l, color: color.New(l, color.Red)}
}

// Weight returns the weight field.
func (b *Brush) Weight() uint8 { return b.weight }

// Name returns the name field.
func (b *Brush) Name() string { return b.name.String() }

// Tags returns a copy of the tags field.
func (b *Brush) Tags() []string {
	out := make([]string, len(b.tags))
	for i, t := range b.tags {
		out[i] = t.String()
	}
	return out
}

// Size returns the size field and whether it is set.
func (b *Brush) Size() (uint32, bool) { return b.size, b.sized }

// Drop releases the name, every tag and the color payload.
func (b *Brush) Drop() {
	b.name.Release()
	for i := range b.tags {
		b.tags[i].Release()
	}
	b.tags = nil
	b.color.Drop()
}

// CloneEntity deep-copies the brush.
func (b *Brush) CloneEntity() protocol.Entity {
	c := &Brush{
		ledger: b.ledger,
		color:  b.color.CloneEntity().(*color.Color),
		name:   b.name.Clone(),
		size:   b.size,
		sized:  b.sized,
		weight: b.weight,
	}
	if len(b.tags) > 0 {
		c.tags = make([]protocol.Owned, len(b.tags))
		for i, t := range b.tags {
			c.tags[i] = t.Clone()
		}
	}
	return c
}

func (b *Brush) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Brush{weight: %d, color: %s, name: %s, tags: [", b.weight, b.color, strconv.Quote(b.name.String()))
	for i, t := range b.tags {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(strconv.Quote(t.String()))
	}
	sb.WriteString("], size: ")
	if b.sized {
		sb.WriteString(strconv.FormatUint(uint64(b.size), 10))
	} else {
		sb.WriteString("none")
	}
	sb.WriteString("}")
	return sb.String()
}

// Default allocates a Brush with default field values.
func Default(env *protocol.Env) handle.Handle {
	return protocol.Adopt(env, Type, New(env.Ledger))
}

// FromWeightName allocates a Brush with the given weight and a copy of the
// NUL-terminated name at ptr. A null or invalid name, or a full handle table,
// yields the null handle.
func FromWeightName(env *protocol.Env, weight uint8, ptr uint32) handle.Handle {
	var name string
	status := protocol.Call(Type, "from_weight_name", func() error {
		s, err := transfer.ReadCString(env.Mem, ptr)
		name = s
		return err
	})
	if !status.OK() {
		return 0
	}
	b := New(env.Ledger)
	b.weight = weight
	b.name = env.Ledger.Own(name)
	return protocol.Adopt(env, Type, b)
}

// Clone deep-copies the brush behind h.
func Clone(env *protocol.Env, h handle.Handle) handle.Handle {
	return protocol.Clone[*Brush](env, Type, h)
}

// Debug writes the brush behind h to the debug writer.
func Debug(env *protocol.Env, h handle.Handle) {
	protocol.Debug[*Brush](env, Type, h)
}

// Free retires h and releases everything the brush owns.
func Free(env *protocol.Env, h handle.Handle) {
	protocol.Free(env, Type, h)
}
