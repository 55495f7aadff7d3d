package color

import (
	"github.com/wippyai/crops/errors"
	"github.com/wippyai/crops/handle"
	"github.com/wippyai/crops/protocol"
)

// Tags of the Color variant. Other carries a string payload.
const (
	Red protocol.Tag = iota
	Blue
	Green
	Other
)

// Type identifies Color handles in the table.
var Type = protocol.Type{Name: "Color", ID: 2}

// TagName returns the variant name of tag.
func TagName(tag protocol.Tag) string {
	switch tag {
	case Red:
		return "Red"
	case Blue:
		return "Blue"
	case Green:
		return "Green"
	case Other:
		return "Other"
	default:
		return "Unknown"
	}
}

// Color is Red | Blue | Green | Other(string).
type Color struct {
	v protocol.Variant
}

// New returns a Color in the unit state tag.
func New(l *protocol.Ledger, tag protocol.Tag) *Color {
	return &Color{v: protocol.NewVariant(l, Other, tag)}
}

// Variant exposes the underlying variant core.
func (c *Color) Variant() *protocol.Variant { return &c.v }

// Drop releases the Other payload.
func (c *Color) Drop() { c.v.Release() }

// CloneEntity deep-copies the color.
func (c *Color) CloneEntity() protocol.Entity {
	return &Color{v: c.v.Clone()}
}

// CopyFrom makes c a deep copy of src.
func (c *Color) CopyFrom(src *Color) {
	c.v.Assign(&src.v)
}

func (c *Color) String() string {
	if p, ok := c.v.Payload(); ok {
		return "Other(" + quote(p) + ")"
	}
	return TagName(c.v.Tag())
}

func quote(s string) string {
	return `"` + s + `"`
}

// Default allocates a Color in its default state, Red.
func Default(env *protocol.Env) handle.Handle {
	return FromRed(env)
}

// FromRed allocates a Red color.
func FromRed(env *protocol.Env) handle.Handle {
	return protocol.Adopt(env, Type, New(env.Ledger, Red))
}

// FromBlue allocates a Blue color.
func FromBlue(env *protocol.Env) handle.Handle {
	return protocol.Adopt(env, Type, New(env.Ledger, Blue))
}

// FromGreen allocates a Green color.
func FromGreen(env *protocol.Env) handle.Handle {
	return protocol.Adopt(env, Type, New(env.Ledger, Green))
}

// Clone deep-copies the color behind h.
func Clone(env *protocol.Env, h handle.Handle) handle.Handle {
	return protocol.Clone[*Color](env, Type, h)
}

// Debug writes the color behind h to the debug writer.
func Debug(env *protocol.Env, h handle.Handle) {
	protocol.Debug[*Color](env, Type, h)
}

// Free retires h.
func Free(env *protocol.Env, h handle.Handle) {
	protocol.Free(env, Type, h)
}

// AsRed re-tags h to Red, releasing any Other payload.
func AsRed(env *protocol.Env, h handle.Handle) errors.Status {
	return protocol.AsUnit[*Color](env, Type, "red", h, Red)
}

// AsBlue re-tags h to Blue, releasing any Other payload.
func AsBlue(env *protocol.Env, h handle.Handle) errors.Status {
	return protocol.AsUnit[*Color](env, Type, "blue", h, Blue)
}

// AsGreen re-tags h to Green, releasing any Other payload.
func AsGreen(env *protocol.Env, h handle.Handle) errors.Status {
	return protocol.AsUnit[*Color](env, Type, "green", h, Green)
}

// AsOther re-tags h to Other holding a copy of the string at ptr.
func AsOther(env *protocol.Env, h handle.Handle, ptr uint32) errors.Status {
	return protocol.AsPayload[*Color](env, Type, "other", h, ptr)
}

// GetTag writes the discriminant of h to out as a u32.
func GetTag(env *protocol.Env, h handle.Handle, out uint32) errors.Status {
	return protocol.GetTag[*Color](env, Type, h, out)
}

// GetOther hands the Other payload to the caller as a raw NUL-terminated
// transfer and stores its pointer at out. The caller owns the bytes and
// must return them with StringFree.
func GetOther(env *protocol.Env, h handle.Handle, out uint32) errors.Status {
	return protocol.TakePayload[*Color](env, Type, "other", h, out, TagName)
}

// StringFree releases a string obtained from GetOther.
func StringFree(env *protocol.Env, ptr uint32) errors.Status {
	return protocol.ReleaseString(env, ptr)
}

// Lookup returns the live color behind h.
func Lookup(env *protocol.Env, phase errors.Phase, h handle.Handle) (*Color, error) {
	return protocol.Resolve[*Color](env, Type, phase, h)
}
