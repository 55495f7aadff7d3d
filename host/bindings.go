package host

import (
	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/crops/errors"
	"github.com/wippyai/crops/handle"
	"github.com/wippyai/crops/model/brush"
	"github.com/wippyai/crops/model/color"
	"github.com/wippyai/crops/protocol"
	"github.com/wippyai/crops/transfer"
)

// binding is one exported boundary function. Every parameter is an i32;
// handles, pointers and integers all cross as 32-bit values.
type binding struct {
	fn     func(env *protocol.Env, args []uint32) uint32
	name   string
	params int
	result bool
	status bool
}

func (b binding) paramTypes() []api.ValueType {
	out := make([]api.ValueType, b.params)
	for i := range out {
		out[i] = api.ValueTypeI32
	}
	return out
}

func (b binding) resultTypes() []api.ValueType {
	if !b.result {
		return nil
	}
	return []api.ValueType{api.ValueTypeI32}
}

type (
	ctorFunc  func(*protocol.Env) handle.Handle
	cloneFunc func(*protocol.Env, handle.Handle) handle.Handle
	voidFunc  func(*protocol.Env, handle.Handle)
)

func ctor(name string, fn ctorFunc) binding {
	return binding{name: name, result: true, fn: func(env *protocol.Env, _ []uint32) uint32 {
		return uint32(fn(env))
	}}
}

func clone(name string, fn cloneFunc) binding {
	return binding{name: name, params: 1, result: true, fn: func(env *protocol.Env, a []uint32) uint32 {
		return uint32(fn(env, handle.Handle(a[0])))
	}}
}

func void(name string, fn voidFunc) binding {
	return binding{name: name, params: 1, fn: func(env *protocol.Env, a []uint32) uint32 {
		fn(env, handle.Handle(a[0]))
		return 0
	}}
}

func status(name string, params int, fn func(*protocol.Env, []uint32) errors.Status) binding {
	return binding{name: name, params: params, result: true, status: true, fn: func(env *protocol.Env, a []uint32) uint32 {
		return uint32(fn(env, a))
	}}
}

func hd(v uint32) handle.Handle { return handle.Handle(v) }

func desc(ptr, size uint32) transfer.Descriptor {
	return transfer.Descriptor{Ptr: ptr, Len: size}
}

func bindings() []binding {
	return []binding{
		ctor("brush_default", brush.Default),
		clone("brush_clone", brush.Clone),
		void("brush_debug", brush.Debug),
		void("brush_free", brush.Free),
		{name: "brush_from_weight_name", params: 2, result: true, fn: func(env *protocol.Env, a []uint32) uint32 {
			return uint32(brush.FromWeightName(env, uint8(a[0]), a[1]))
		}},
		status("brush_get_weight", 2, func(env *protocol.Env, a []uint32) errors.Status {
			return brush.GetWeight(env, hd(a[0]), a[1])
		}),
		status("brush_with_weight", 2, func(env *protocol.Env, a []uint32) errors.Status {
			return brush.WithWeight(env, hd(a[0]), uint8(a[1]))
		}),
		status("brush_get_color", 2, func(env *protocol.Env, a []uint32) errors.Status {
			return brush.GetColor(env, hd(a[0]), hd(a[1]))
		}),
		status("brush_with_color", 2, func(env *protocol.Env, a []uint32) errors.Status {
			return brush.WithColor(env, hd(a[0]), hd(a[1]))
		}),
		status("brush_get_name", 3, func(env *protocol.Env, a []uint32) errors.Status {
			return brush.GetName(env, hd(a[0]), desc(a[1], a[2]))
		}),
		status("brush_with_name", 2, func(env *protocol.Env, a []uint32) errors.Status {
			return brush.WithName(env, hd(a[0]), a[1])
		}),
		status("brush_name_len", 2, func(env *protocol.Env, a []uint32) errors.Status {
			return brush.NameLen(env, hd(a[0]), a[1])
		}),
		status("brush_push_tags", 2, func(env *protocol.Env, a []uint32) errors.Status {
			return brush.PushTags(env, hd(a[0]), a[1])
		}),
		status("brush_get_tags", 4, func(env *protocol.Env, a []uint32) errors.Status {
			return brush.GetTags(env, hd(a[0]), a[1], desc(a[2], a[3]))
		}),
		status("brush_remove_tags", 4, func(env *protocol.Env, a []uint32) errors.Status {
			return brush.RemoveTags(env, hd(a[0]), a[1], desc(a[2], a[3]))
		}),
		status("brush_tags_len", 2, func(env *protocol.Env, a []uint32) errors.Status {
			return brush.TagsLen(env, hd(a[0]), a[1])
		}),
		status("brush_replace_size", 2, func(env *protocol.Env, a []uint32) errors.Status {
			return brush.ReplaceSize(env, hd(a[0]), a[1])
		}),
		status("brush_take_size", 2, func(env *protocol.Env, a []uint32) errors.Status {
			return brush.TakeSize(env, hd(a[0]), a[1])
		}),
		status("brush_get_size", 2, func(env *protocol.Env, a []uint32) errors.Status {
			return brush.GetSize(env, hd(a[0]), a[1])
		}),

		ctor("color_default", color.Default),
		clone("color_clone", color.Clone),
		void("color_debug", color.Debug),
		void("color_free", color.Free),
		ctor("color_from_red", color.FromRed),
		ctor("color_from_blue", color.FromBlue),
		ctor("color_from_green", color.FromGreen),
		status("color_as_red", 1, func(env *protocol.Env, a []uint32) errors.Status {
			return color.AsRed(env, hd(a[0]))
		}),
		status("color_as_blue", 1, func(env *protocol.Env, a []uint32) errors.Status {
			return color.AsBlue(env, hd(a[0]))
		}),
		status("color_as_green", 1, func(env *protocol.Env, a []uint32) errors.Status {
			return color.AsGreen(env, hd(a[0]))
		}),
		status("color_as_other", 2, func(env *protocol.Env, a []uint32) errors.Status {
			return color.AsOther(env, hd(a[0]), a[1])
		}),
		status("color_tag", 2, func(env *protocol.Env, a []uint32) errors.Status {
			return color.GetTag(env, hd(a[0]), a[1])
		}),
		status("color_get_other", 2, func(env *protocol.Env, a []uint32) errors.Status {
			return color.GetOther(env, hd(a[0]), a[1])
		}),
		status("crops_string_free", 1, func(env *protocol.Env, a []uint32) errors.Status {
			return color.StringFree(env, a[0])
		}),
	}
}
