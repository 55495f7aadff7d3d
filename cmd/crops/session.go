package main

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/tetratelabs/wazero"

	"github.com/wippyai/crops/config"
	"github.com/wippyai/crops/errors"
	"github.com/wippyai/crops/guest"
	"github.com/wippyai/crops/host"
	"github.com/wippyai/crops/schema"
)

// session is one host plus one guest shim, driven by text arguments.
type session struct {
	rt      wazero.Runtime
	host    *host.Host
	g       *guest.Guest
	debug   *bytes.Buffer
	exports map[string]schema.Export

	// last is the raw result of the most recent call.
	last uint32
}

func newSession(ctx context.Context, cfg config.Config) (*session, error) {
	rt := host.NewRuntime(ctx, cfg.Runtime.MemoryLimitPages)

	debug := &bytes.Buffer{}
	opts := cfg.HostOptions()
	opts.Debug = debug
	h := host.New(opts)
	if _, err := h.Instantiate(ctx, rt); err != nil {
		rt.Close(ctx)
		return nil, err
	}

	shim := host.Shim()
	shim.SetMemoryPages(cfg.Guest.MemoryPages, 0)
	shim.SetHeapBase(cfg.Guest.HeapBase)
	g, err := guest.Instantiate(ctx, rt, "console", shim.Build())
	if err != nil {
		rt.Close(ctx)
		return nil, err
	}

	exports := make(map[string]schema.Export)
	for _, e := range schema.Exports() {
		exports[e.Name] = e
	}
	return &session{rt: rt, host: h, g: g, debug: debug, exports: exports}, nil
}

func (s *session) close(ctx context.Context) {
	s.host.Forget(s.g.Module().Name())
	_ = s.host.Close()
	_ = s.rt.Close(ctx)
}

// outParam is an out pointer allocated by the session for one call.
type outParam struct {
	kind string
	ptr  uint32
	size uint32
}

// invoke calls an export with textual arguments and describes the outcome.
//
// Handles and integers are decimal. const char* arguments are copied into
// guest memory. Out pointers and caller buffers are allocated by the session:
// for a buf/cap pair the user supplies only the capacity.
func (s *session) invoke(ctx context.Context, name string, args []string) (string, error) {
	e, ok := s.exports[name]
	if !ok {
		return "", fmt.Errorf("unknown function %q", name)
	}

	inputs := inputParams(e)
	if len(args) != len(inputs) {
		return "", fmt.Errorf("%s takes %d arguments (%s), got %d", name, len(inputs), strings.Join(inputs, ", "), len(args))
	}

	vals := make([]uint32, len(e.Params))
	var outs []outParam
	next := 0
	for i, p := range e.Params {
		switch {
		case p.Name == "buf":
			continue
		case p.Name == "cap":
			n, err := parseU32(args[next])
			if err != nil {
				return "", fmt.Errorf("%s: %w", p.Name, err)
			}
			next++
			vals[i] = n
			if n == 0 {
				continue
			}
			ptr, err := s.g.Alloc(n, 1)
			if err != nil {
				return "", err
			}
			vals[i-1] = ptr
			outs = append(outs, outParam{kind: "char*", ptr: ptr, size: n})
		case isOut(p):
			size := uint32(4)
			ptr, err := s.g.Alloc(size, 4)
			if err != nil {
				return "", err
			}
			vals[i] = ptr
			outs = append(outs, outParam{kind: p.C, ptr: ptr, size: size})
		case p.C == "const char*":
			ptr, err := s.g.CString(args[next])
			if err != nil {
				return "", err
			}
			next++
			vals[i] = ptr
		default:
			n, err := parseU32(args[next])
			if err != nil {
				return "", fmt.Errorf("%s: %w", p.Name, err)
			}
			next++
			vals[i] = n
		}
	}

	s.debug.Reset()
	r, err := s.g.Call(ctx, name, vals...)
	if err != nil {
		return "", err
	}
	s.last = r

	var b strings.Builder
	switch {
	case e.Result == "int32_t":
		st := errors.Status(int32(r))
		fmt.Fprintf(&b, "status %s (%d)", st, int32(st))
		if st.OK() {
			for _, o := range outs {
				b.WriteString("; ")
				b.WriteString(s.describeOut(o))
			}
		}
	case e.HasResult():
		fmt.Fprintf(&b, "handle %d", r)
		if r == 0 {
			b.WriteString(" (null)")
		}
	default:
		b.WriteString("done")
	}
	if s.debug.Len() > 0 {
		b.WriteString("\n")
		b.WriteString(strings.TrimRight(s.debug.String(), "\n"))
	}
	return b.String(), nil
}

func (s *session) describeOut(o outParam) string {
	mem := s.g.Memory()
	switch o.kind {
	case "uint8_t*":
		v, _ := mem.ReadU8(o.ptr)
		return fmt.Sprintf("out = %d", v)
	case "uint32_t*":
		v, _ := mem.ReadU32(o.ptr)
		return fmt.Sprintf("out = %d", v)
	case "char**":
		ptr, _ := mem.ReadU32(o.ptr)
		str, err := s.g.ReadCString(ptr)
		if err != nil {
			return fmt.Sprintf("out = %#x (%v)", ptr, err)
		}
		return fmt.Sprintf("out = %#x %q (release with crops_string_free %d)", ptr, str, ptr)
	default:
		str, err := s.g.ReadCString(o.ptr)
		if err != nil {
			return fmt.Sprintf("buf = %v", err)
		}
		return fmt.Sprintf("buf = %q", str)
	}
}

// inputParams lists the parameters a user supplies for e.
func inputParams(e schema.Export) []string {
	var out []string
	for _, p := range e.Params {
		if p.Name == "buf" || isOut(p) {
			continue
		}
		out = append(out, p.Name+": "+p.C)
	}
	return out
}

func isOut(p schema.Param) bool {
	if p.Name != "out" {
		return false
	}
	switch p.C {
	case "uint8_t*", "uint32_t*", "char**":
		return true
	}
	return false
}

func parseU32(s string) (uint32, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 0, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	return uint32(v), nil
}
