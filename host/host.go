package host

import (
	"context"
	"io"
	"os"
	"sync"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wippyai/crops/errors"
	"github.com/wippyai/crops/guest"
	"github.com/wippyai/crops/handle"
	"github.com/wippyai/crops/memory"
	"github.com/wippyai/crops/protocol"
	"github.com/wippyai/crops/transfer"
)

// ModuleName is the import module guests link the boundary from.
const ModuleName = "crops"

// Options configures the host module.
type Options struct {
	// Debug receives the output of every *_debug call. Nil means os.Stdout.
	Debug io.Writer

	// MaxHandles caps live handles across all entity types. 0 is unlimited.
	MaxHandles int

	// Serialize runs every export under one mutex. Handles are not
	// synchronized otherwise; enable this when several goroutines drive
	// guests that share handles.
	Serialize bool
}

// DefaultOptions returns default host configuration.
func DefaultOptions() Options {
	return Options{Debug: os.Stdout}
}

// Host owns the handle table behind the boundary and adapts the protocol to
// wazero host functions. Each call is bound to the calling guest's memory and
// cabi_realloc. Thread-safe.
type Host struct {
	base    *protocol.Env
	tracker *handle.Tracker
	heaps   map[string]*transfer.Heap
	options Options
	heapMu  sync.Mutex
	callMu  sync.Mutex
}

// New creates a host with an empty handle table.
func New(opts Options) *Host {
	var table *handle.Table
	if opts.MaxHandles > 0 {
		table = handle.NewTableWithLimit(opts.MaxHandles)
	} else {
		table = handle.NewTable()
	}
	base := protocol.NewEnv(table, nil, nil)
	if opts.Debug != nil {
		base.Debug = opts.Debug
	}
	return &Host{
		base:    base,
		tracker: handle.NewTracker(table),
		heaps:   make(map[string]*transfer.Heap),
		options: opts,
	}
}

// Table returns the handle table.
func (h *Host) Table() *handle.Table { return h.base.Table }

// Ledger returns the owned sub-value ledger.
func (h *Host) Ledger() *protocol.Ledger { return h.base.Ledger }

// Tracker returns the live handle tracker.
func (h *Host) Tracker() *handle.Tracker { return h.tracker }

// Options returns the configuration.
func (h *Host) Options() Options { return h.options }

// Heap returns the raw transfer heap of the guest instance named module.
func (h *Host) Heap(module string) *transfer.Heap {
	h.heapMu.Lock()
	defer h.heapMu.Unlock()
	heap, ok := h.heaps[module]
	if !ok {
		heap = transfer.NewHeap()
		h.heaps[module] = heap
	}
	return heap
}

// Forget drops the transfer heap of a closed guest instance and returns how
// many raw transfers it never released.
func (h *Host) Forget(module string) int {
	h.heapMu.Lock()
	heap, ok := h.heaps[module]
	delete(h.heaps, module)
	h.heapMu.Unlock()
	if !ok {
		return 0
	}
	n := heap.Outstanding()
	if n > 0 {
		Logger().Warn("guest closed with unreleased strings",
			zap.String("module", module),
			zap.Int("outstanding", n),
		)
	}
	return n
}

// Close frees every live handle.
func (h *Host) Close() error {
	return h.base.Table.Close()
}

// env binds the shared state to the calling guest instance.
func (h *Host) env(ctx context.Context, mod api.Module) *protocol.Env {
	env := h.base.With(memory.Wrap(mod.Memory()), memory.WrapAllocator(ctx, mod.ExportedFunction(guest.ReallocName)))
	env.Heap = h.Heap(mod.Name())
	return env
}

func (h *Host) handler(b binding) api.GoModuleFunc {
	return func(ctx context.Context, mod api.Module, stack []uint64) {
		if h.options.Serialize {
			h.callMu.Lock()
			defer h.callMu.Unlock()
		}

		args := make([]uint32, b.params)
		for i := range args {
			args[i] = api.DecodeU32(stack[i])
		}

		var result uint32
		func() {
			defer func() {
				if r := recover(); r != nil {
					Logger().Error("host function panicked",
						zap.String("function", b.name),
						zap.Any("panic", r),
					)
					result = 0
					if b.status {
						result = uint32(errors.StatusFailure)
					}
				}
			}()
			result = b.fn(h.env(ctx, mod), args)
		}()

		if b.result {
			stack[0] = api.EncodeU32(result)
		}
	}
}

// Instantiate registers the boundary as host module ModuleName in rt.
func (h *Host) Instantiate(ctx context.Context, rt wazero.Runtime) (api.Module, error) {
	builder := rt.NewHostModuleBuilder(ModuleName)

	seen := make(map[string]bool)
	for _, b := range bindings() {
		if seen[b.name] {
			return nil, errors.Registration(ModuleName, b.name, errors.InvalidInput(errors.PhaseHost, "duplicate export"))
		}
		seen[b.name] = true
		builder.NewFunctionBuilder().
			WithGoModuleFunction(h.handler(b), b.paramTypes(), b.resultTypes()).
			WithName(b.name).
			Export(b.name)
	}

	mod, err := builder.Instantiate(ctx)
	if err != nil {
		return nil, errors.Instantiation(ModuleName, err)
	}
	Logger().Debug("host module instantiated",
		zap.String("module", ModuleName),
		zap.Int("functions", len(seen)),
	)
	return mod, nil
}

// Shim returns a guest builder that imports and re-exports every boundary
// function.
func Shim() *guest.Builder {
	b := guest.NewBuilder(ModuleName)
	for _, fn := range bindings() {
		b.AddFunc(fn.name, fn.paramTypes(), fn.resultTypes())
	}
	return b
}

// NewRuntime creates a wazero runtime. memoryLimitPages caps each guest
// memory; 0 keeps the wazero default.
func NewRuntime(ctx context.Context, memoryLimitPages uint32) wazero.Runtime {
	cfg := wazero.NewRuntimeConfig()
	if memoryLimitPages > 0 {
		cfg = cfg.WithMemoryLimitPages(memoryLimitPages)
	}
	return wazero.NewRuntimeWithConfig(ctx, cfg)
}
