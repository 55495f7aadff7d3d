package guest

import (
	"context"
	"fmt"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/crops"
	"github.com/wippyai/crops/errors"
	"github.com/wippyai/crops/memory"
	"github.com/wippyai/crops/transfer"
)

// Guest drives an instantiated shim from Go, the way an unmanaged caller
// would: it places strings in its own memory and calls boundary exports.
type Guest struct {
	mod   api.Module
	mem   crops.Memory
	alloc crops.Allocator
}

// Instantiate compiles and instantiates a shim under name. The host module
// it imports from must already be instantiated in rt.
func Instantiate(ctx context.Context, rt wazero.Runtime, name string, bin []byte) (*Guest, error) {
	mod, err := rt.InstantiateWithConfig(ctx, bin, wazero.NewModuleConfig().WithName(name))
	if err != nil {
		return nil, errors.Instantiation(name, err)
	}
	realloc := mod.ExportedFunction(ReallocName)
	if realloc == nil {
		_ = mod.Close(ctx)
		return nil, errors.Instantiation(name, fmt.Errorf("missing %s export", ReallocName))
	}
	return &Guest{
		mod:   mod,
		mem:   memory.Wrap(mod.Memory()),
		alloc: memory.WrapAllocator(ctx, realloc),
	}, nil
}

// Module returns the underlying instance.
func (g *Guest) Module() api.Module { return g.mod }

// Memory returns the shim's linear memory.
func (g *Guest) Memory() crops.Memory { return g.mem }

// Call invokes an exported boundary function and returns its first result,
// or 0 for functions without one.
func (g *Guest) Call(ctx context.Context, name string, args ...uint32) (uint32, error) {
	fn := g.mod.ExportedFunction(name)
	if fn == nil {
		return 0, fmt.Errorf("guest %s has no export %q", g.mod.Name(), name)
	}
	params := make([]uint64, len(args))
	for i, a := range args {
		params[i] = uint64(a)
	}
	results, err := fn.Call(ctx, params...)
	if err != nil {
		return 0, fmt.Errorf("call %s: %w", name, err)
	}
	if len(results) == 0 {
		return 0, nil
	}
	return api.DecodeU32(results[0]), nil
}

// Status invokes a status-returning export.
func (g *Guest) Status(ctx context.Context, name string, args ...uint32) (errors.Status, error) {
	r, err := g.Call(ctx, name, args...)
	return errors.Status(int32(r)), err
}

// Alloc reserves size bytes through the shim's own allocator.
func (g *Guest) Alloc(size, align uint32) (uint32, error) {
	return g.alloc.Alloc(size, align)
}

// CString places s plus a NUL terminator in guest memory.
func (g *Guest) CString(s string) (uint32, error) {
	ptr, err := g.alloc.Alloc(transfer.Need(s), 1)
	if err != nil {
		return 0, err
	}
	if err := transfer.WriteCString(g.mem, ptr, s); err != nil {
		return 0, err
	}
	return ptr, nil
}

// ReadCString reads a NUL-terminated string from guest memory.
func (g *Guest) ReadCString(ptr uint32) (string, error) {
	return transfer.ReadCString(g.mem, ptr)
}

// Close releases the instance.
func (g *Guest) Close(ctx context.Context) error {
	return g.mod.Close(ctx)
}
