package brush

import (
	"bytes"
	"testing"

	"github.com/wippyai/crops/errors"
	"github.com/wippyai/crops/handle"
	"github.com/wippyai/crops/memory"
	"github.com/wippyai/crops/model/color"
	"github.com/wippyai/crops/protocol"
	"github.com/wippyai/crops/transfer"
)

type fixture struct {
	env *protocol.Env
	mem *memory.Linear
	dbg *bytes.Buffer
}

func setup(t *testing.T) *fixture {
	t.Helper()
	mem := memory.NewLinear(8192)
	env := protocol.NewEnv(handle.NewTable(), mem, mem)
	dbg := &bytes.Buffer{}
	env.Debug = dbg
	return &fixture{env: env, mem: mem, dbg: dbg}
}

func (f *fixture) cstr(t *testing.T, s string) uint32 {
	t.Helper()
	ptr, err := f.mem.Alloc(transfer.Need(s), 1)
	if err != nil {
		t.Fatalf("alloc: %v", err)
	}
	if err := transfer.WriteCString(f.mem, ptr, s); err != nil {
		t.Fatalf("write: %v", err)
	}
	return ptr
}

func (f *fixture) buf(t *testing.T, n uint32) transfer.Descriptor {
	t.Helper()
	ptr, err := f.mem.Alloc(n, 1)
	if err != nil {
		t.Fatalf("alloc: %v", err)
	}
	return transfer.Descriptor{Ptr: ptr, Len: n}
}

func (f *fixture) u32(t *testing.T) uint32 {
	t.Helper()
	ptr, err := f.mem.Alloc(4, 4)
	if err != nil {
		t.Fatalf("alloc: %v", err)
	}
	return ptr
}

func (f *fixture) read(t *testing.T, d transfer.Descriptor) string {
	t.Helper()
	s, err := transfer.ReadCString(f.mem, d.Ptr)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	return s
}

func (f *fixture) assertNoLeaks(t *testing.T) {
	t.Helper()
	if n, b := f.env.Ledger.Live(); n != 0 || b != 0 {
		t.Errorf("ledger leaked %d buffers (%d bytes)", n, b)
	}
	if f.env.Table.Len() != 0 {
		t.Errorf("%d handles still live", f.env.Table.Len())
	}
}

func TestScenarioDefaultWeight(t *testing.T) {
	f := setup(t)

	b := Default(f.env)
	if b == 0 {
		t.Fatal("Default returned null")
	}
	if s := WithWeight(f.env, b, 7); s != errors.StatusOK {
		t.Fatalf("WithWeight = %v", s)
	}
	out := f.u32(t)
	if s := GetWeight(f.env, b, out); s != errors.StatusOK {
		t.Fatalf("GetWeight = %v", s)
	}
	if w, _ := f.mem.ReadU8(out); w != 7 {
		t.Errorf("weight = %d, want 7", w)
	}
	Free(f.env, b)
	f.assertNoLeaks(t)
}

func TestDebug(t *testing.T) {
	f := setup(t)
	b := FromWeightName(f.env, 7, f.cstr(t, "x"))
	defer Free(f.env, b)

	Debug(f.env, b)
	if got, want := f.dbg.String(), "Brush{weight: 7, color: Red, name: \"x\", tags: [], size: none}\n"; got != want {
		t.Errorf("debug = %q\nwant %q", got, want)
	}

	f.dbg.Reset()
	PushTags(f.env, b, f.cstr(t, "soft"))
	PushTags(f.env, b, f.cstr(t, "wide"))
	ReplaceSize(f.env, b, 12)
	c := color.FromGreen(f.env)
	WithColor(f.env, b, c)
	color.Free(f.env, c)

	out := f.u32(t)
	Debug(f.env, b)
	if s := GetWeight(f.env, b, out); s != errors.StatusOK {
		t.Fatal(s)
	}
	if w, _ := f.mem.ReadU8(out); w != 7 {
		t.Error("debug mutated weight")
	}
	if got, want := f.dbg.String(), "Brush{weight: 7, color: Green, name: \"x\", tags: [\"soft\", \"wide\"], size: 12}\n"; got != want {
		t.Errorf("debug = %q\nwant %q", got, want)
	}
}

func TestRoundTrips(t *testing.T) {
	f := setup(t)
	b := Default(f.env)

	t.Run("weight", func(t *testing.T) {
		out := f.u32(t)
		for _, v := range []uint8{0, 1, 200, 255} {
			if s := WithWeight(f.env, b, v); s != errors.StatusOK {
				t.Fatal(s)
			}
			if s := GetWeight(f.env, b, out); s != errors.StatusOK {
				t.Fatal(s)
			}
			if got, _ := f.mem.ReadU8(out); got != v {
				t.Errorf("weight = %d, want %d", got, v)
			}
		}
	})

	t.Run("name", func(t *testing.T) {
		for _, v := range []string{"", "flat", "héllo wörld"} {
			if s := WithName(f.env, b, f.cstr(t, v)); s != errors.StatusOK {
				t.Fatal(s)
			}
			d := f.buf(t, 32)
			if s := GetName(f.env, b, d); s != errors.StatusOK {
				t.Fatal(s)
			}
			if got := f.read(t, d); got != v {
				t.Errorf("name = %q, want %q", got, v)
			}
			out := f.u32(t)
			NameLen(f.env, b, out)
			if n, _ := f.mem.ReadU32(out); n != uint32(len(v)) {
				t.Errorf("name_len = %d, want %d", n, len(v))
			}
		}
	})

	t.Run("color", func(t *testing.T) {
		src := color.FromRed(f.env)
		color.AsOther(f.env, src, f.cstr(t, "teal"))
		if s := WithColor(f.env, b, src); s != errors.StatusOK {
			t.Fatal(s)
		}
		color.Free(f.env, src)

		dst := color.FromBlue(f.env)
		if s := GetColor(f.env, b, dst); s != errors.StatusOK {
			t.Fatal(s)
		}
		out := f.u32(t)
		if s := color.GetOther(f.env, dst, out); s != errors.StatusOK {
			t.Fatalf("GetOther = %v", s)
		}
		ptr, _ := f.mem.ReadU32(out)
		if got, _ := transfer.ReadCString(f.mem, ptr); got != "teal" {
			t.Errorf("color payload = %q", got)
		}
		color.StringFree(f.env, ptr)
		color.Free(f.env, dst)
	})

	t.Run("size", func(t *testing.T) {
		if s := ReplaceSize(f.env, b, 42); s != errors.StatusOK {
			t.Fatal(s)
		}
		out := f.u32(t)
		if s := GetSize(f.env, b, out); s != errors.StatusOK {
			t.Fatal(s)
		}
		if v, _ := f.mem.ReadU32(out); v != 42 {
			t.Errorf("size = %d", v)
		}
	})

	Free(f.env, b)
	f.assertNoLeaks(t)
}

func TestNameBufferTooSmall(t *testing.T) {
	f := setup(t)
	b := FromWeightName(f.env, 1, f.cstr(t, "teal"))
	defer Free(f.env, b)

	d := f.buf(t, 4)
	_ = f.mem.Write(d.Ptr, []byte("abcd"))
	if s := GetName(f.env, b, d); s != errors.StatusBufferTooSmall {
		t.Fatalf("GetName = %v, want buffer too small", s)
	}
	if got, _ := f.mem.Read(d.Ptr, 4); string(got) != "abcd" {
		t.Errorf("buffer modified: %q", got)
	}
	if s := GetName(f.env, b, transfer.Descriptor{}); s != errors.StatusNullArgument {
		t.Errorf("null descriptor = %v", s)
	}
}

func TestWithNameFailureKeepsValue(t *testing.T) {
	f := setup(t)
	b := FromWeightName(f.env, 1, f.cstr(t, "keep"))
	defer Free(f.env, b)

	bad, _ := f.mem.Alloc(3, 1)
	_ = f.mem.Write(bad, []byte{'a', 0x80, 0})
	if s := WithName(f.env, b, bad); s != errors.StatusInvalidValue {
		t.Errorf("invalid utf-8 = %v", s)
	}
	if s := WithName(f.env, b, 0); s != errors.StatusNullArgument {
		t.Errorf("null name = %v", s)
	}
	d := f.buf(t, 8)
	GetName(f.env, b, d)
	if got := f.read(t, d); got != "keep" {
		t.Errorf("name = %q", got)
	}
	if n, _ := f.env.Ledger.Live(); n != 1 {
		t.Errorf("live buffers = %d, want 1", n)
	}
}

func TestTags(t *testing.T) {
	f := setup(t)
	b := Default(f.env)
	lenOut := f.u32(t)
	tagsLen := func() uint32 {
		if s := TagsLen(f.env, b, lenOut); s != errors.StatusOK {
			t.Fatal(s)
		}
		n, _ := f.mem.ReadU32(lenOut)
		return n
	}

	for _, tag := range []string{"a", "bb", "ccc"} {
		if s := PushTags(f.env, b, f.cstr(t, tag)); s != errors.StatusOK {
			t.Fatal(s)
		}
	}
	if n := tagsLen(); n != 3 {
		t.Fatalf("tags_len = %d", n)
	}

	d := f.buf(t, 8)
	if s := GetTags(f.env, b, 1, d); s != errors.StatusOK {
		t.Fatal(s)
	}
	if got := f.read(t, d); got != "bb" {
		t.Errorf("tags[1] = %q", got)
	}
	if s := GetTags(f.env, b, 3, d); s != errors.StatusOutOfRange {
		t.Errorf("tags[3] = %v", s)
	}

	small := f.buf(t, 2)
	if s := RemoveTags(f.env, b, 2, small); s != errors.StatusBufferTooSmall {
		t.Errorf("remove into small buffer = %v", s)
	}
	if n := tagsLen(); n != 3 {
		t.Error("failed remove dropped the tag")
	}

	if s := RemoveTags(f.env, b, 0, d); s != errors.StatusOK {
		t.Fatal(s)
	}
	if got := f.read(t, d); got != "a" {
		t.Errorf("removed = %q", got)
	}
	if s := RemoveTags(f.env, b, 0, transfer.Descriptor{}); s != errors.StatusOK {
		t.Fatal(s)
	}
	if n := tagsLen(); n != 1 {
		t.Errorf("tags_len = %d", n)
	}
	GetTags(f.env, b, 0, d)
	if got := f.read(t, d); got != "ccc" {
		t.Errorf("tags[0] = %q", got)
	}
	if s := RemoveTags(f.env, b, 5, d); s != errors.StatusOutOfRange {
		t.Errorf("remove out of range = %v", s)
	}

	Free(f.env, b)
	f.assertNoLeaks(t)
}

func TestSizeOption(t *testing.T) {
	f := setup(t)
	b := Default(f.env)
	defer Free(f.env, b)
	out := f.u32(t)
	_ = f.mem.WriteU32(out, 0xdeadbeef)

	if s := GetSize(f.env, b, out); s != errors.StatusEmpty {
		t.Errorf("get on none = %v", s)
	}
	if v, _ := f.mem.ReadU32(out); v != 0xdeadbeef {
		t.Error("get on none wrote to out")
	}
	if s := TakeSize(f.env, b, out); s != errors.StatusEmpty {
		t.Errorf("take on none = %v", s)
	}

	ReplaceSize(f.env, b, 9)
	if s := TakeSize(f.env, b, 0); s != errors.StatusNullArgument {
		t.Errorf("take with null out = %v", s)
	}
	if s := TakeSize(f.env, b, out); s != errors.StatusOK {
		t.Fatal(s)
	}
	if v, _ := f.mem.ReadU32(out); v != 9 {
		t.Errorf("taken = %d", v)
	}
	if s := GetSize(f.env, b, out); s != errors.StatusEmpty {
		t.Errorf("get after take = %v", s)
	}
}

func TestCloneIndependence(t *testing.T) {
	f := setup(t)
	b := FromWeightName(f.env, 3, f.cstr(t, "orig"))
	PushTags(f.env, b, f.cstr(t, "t1"))
	c := color.FromRed(f.env)
	color.AsOther(f.env, c, f.cstr(t, "ink"))
	WithColor(f.env, b, c)
	color.Free(f.env, c)

	dup := Clone(f.env, b)
	if dup == 0 {
		t.Fatal("Clone returned null")
	}
	if n, _ := f.env.Ledger.Live(); n != 6 {
		t.Errorf("live buffers = %d, want 6", n)
	}

	Free(f.env, dup)

	d := f.buf(t, 16)
	if s := GetName(f.env, b, d); s != errors.StatusOK || f.read(t, d) != "orig" {
		t.Errorf("original name lost after freeing clone: %v", s)
	}
	if s := GetTags(f.env, b, 0, d); s != errors.StatusOK || f.read(t, d) != "t1" {
		t.Errorf("original tag lost after freeing clone: %v", s)
	}

	Free(f.env, b)
	f.assertNoLeaks(t)
}

func TestFromWeightName(t *testing.T) {
	f := setup(t)
	if h := FromWeightName(f.env, 1, 0); h != 0 {
		t.Errorf("null name returned handle %d", h)
	}
	f.assertNoLeaks(t)
}

func TestInvalidHandles(t *testing.T) {
	f := setup(t)
	out := f.u32(t)
	d := f.buf(t, 8)
	namePtr := f.cstr(t, "n")
	c := color.Default(f.env)
	defer color.Free(f.env, c)

	calls := map[string]func(handle.Handle) errors.Status{
		"get_weight":   func(h handle.Handle) errors.Status { return GetWeight(f.env, h, out) },
		"with_weight":  func(h handle.Handle) errors.Status { return WithWeight(f.env, h, 1) },
		"get_color":    func(h handle.Handle) errors.Status { return GetColor(f.env, h, c) },
		"with_color":   func(h handle.Handle) errors.Status { return WithColor(f.env, h, c) },
		"get_name":     func(h handle.Handle) errors.Status { return GetName(f.env, h, d) },
		"with_name":    func(h handle.Handle) errors.Status { return WithName(f.env, h, namePtr) },
		"name_len":     func(h handle.Handle) errors.Status { return NameLen(f.env, h, out) },
		"push_tags":    func(h handle.Handle) errors.Status { return PushTags(f.env, h, namePtr) },
		"get_tags":     func(h handle.Handle) errors.Status { return GetTags(f.env, h, 0, d) },
		"remove_tags":  func(h handle.Handle) errors.Status { return RemoveTags(f.env, h, 0, d) },
		"tags_len":     func(h handle.Handle) errors.Status { return TagsLen(f.env, h, out) },
		"replace_size": func(h handle.Handle) errors.Status { return ReplaceSize(f.env, h, 1) },
		"take_size":    func(h handle.Handle) errors.Status { return TakeSize(f.env, h, out) },
		"get_size":     func(h handle.Handle) errors.Status { return GetSize(f.env, h, out) },
	}

	for name, call := range calls {
		t.Run(name, func(t *testing.T) {
			if s := call(0); s != errors.StatusNullArgument {
				t.Errorf("null handle = %v", s)
			}
			if s := call(c); s != errors.StatusNullArgument {
				t.Errorf("color handle as brush = %v", s)
			}
		})
	}

	b := Default(f.env)
	defer Free(f.env, b)
	if s := WithColor(f.env, b, 0); s != errors.StatusNullArgument {
		t.Errorf("with_color(null) = %v", s)
	}
	if s := GetColor(f.env, b, b); s != errors.StatusNullArgument {
		t.Errorf("get_color into brush handle = %v", s)
	}
}

func TestCapacity(t *testing.T) {
	mem := memory.NewLinear(1024)
	env := protocol.NewEnv(handle.NewTableWithLimit(1), mem, mem)

	b := Default(env)
	if b == 0 {
		t.Fatal("first Default failed")
	}
	if h := Clone(env, b); h != 0 {
		t.Errorf("Clone past capacity = %d", h)
	}
	if h := Default(env); h != 0 {
		t.Errorf("Default past capacity = %d", h)
	}
	Free(env, b)
	if n, _ := env.Ledger.Live(); n != 0 {
		t.Errorf("live = %d", n)
	}
}
