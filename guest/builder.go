package guest

import (
	"github.com/tetratelabs/wazero/api"
)

const (
	// ReallocName is the allocator export the host calls for raw transfers.
	ReallocName = "cabi_realloc"
	// MemoryName is the memory export.
	MemoryName = "memory"

	defaultHeapBase = 1024
)

// Builder builds a guest shim: a module that imports boundary functions from
// a host module and re-exports each one through a trampoline, next to its own
// linear memory and a bump allocator exported as cabi_realloc.
//
// The shim stands in for an unmanaged caller. Its allocator never frees.
type Builder struct {
	hostModule string
	funcs      []shimFunc
	minPages   uint32
	maxPages   uint32
	heapBase   uint32
}

type shimFunc struct {
	name    string
	params  []api.ValueType
	results []api.ValueType
}

// NewBuilder creates a builder importing from hostModule.
func NewBuilder(hostModule string) *Builder {
	return &Builder{
		hostModule: hostModule,
		minPages:   1,
		heapBase:   defaultHeapBase,
	}
}

// AddFunc adds a host function to import and re-export under the same name.
func (b *Builder) AddFunc(name string, params, results []api.ValueType) {
	b.funcs = append(b.funcs, shimFunc{name: name, params: params, results: results})
}

// SetMemoryPages sets the initial and maximum memory size in 64KiB pages.
// A zero max leaves the memory unbounded.
func (b *Builder) SetMemoryPages(minPages, maxPages uint32) {
	b.minPages = minPages
	b.maxPages = maxPages
}

// SetHeapBase sets the first address handed out by cabi_realloc. Addresses
// below it are free for the caller's own use.
func (b *Builder) SetHeapBase(base uint32) {
	b.heapBase = base
}

// Build generates the module bytes.
func (b *Builder) Build() []byte {
	var wasm []byte

	// Magic and version
	wasm = append(wasm, 0x00, 0x61, 0x73, 0x6d)
	wasm = append(wasm, 0x01, 0x00, 0x00, 0x00)

	wasm = append(wasm, section(0x01, b.buildTypeSection())...)
	if len(b.funcs) > 0 {
		wasm = append(wasm, section(0x02, b.buildImportSection())...)
	}
	wasm = append(wasm, section(0x03, b.buildFuncSection())...)
	wasm = append(wasm, section(0x05, b.buildMemorySection())...)
	wasm = append(wasm, section(0x06, b.buildGlobalSection())...)
	wasm = append(wasm, section(0x07, b.buildExportSection())...)
	wasm = append(wasm, section(0x0a, b.buildCodeSection())...)

	return wasm
}

// reallocType is the type index of cabi_realloc: (i32 i32 i32 i32) -> i32.
func (b *Builder) reallocType() uint32 {
	return uint32(len(b.funcs))
}

func (b *Builder) buildTypeSection() []byte {
	var s []byte
	s = append(s, EncodeULEB128(uint32(len(b.funcs)+1))...)

	for _, f := range b.funcs {
		s = append(s, 0x60)
		s = append(s, EncodeULEB128(uint32(len(f.params)))...)
		for _, t := range f.params {
			s = append(s, ValTypeToWasm(t))
		}
		s = append(s, EncodeULEB128(uint32(len(f.results)))...)
		for _, t := range f.results {
			s = append(s, ValTypeToWasm(t))
		}
	}

	s = append(s, 0x60, 0x04, 0x7f, 0x7f, 0x7f, 0x7f, 0x01, 0x7f)
	return s
}

func (b *Builder) buildImportSection() []byte {
	var s []byte
	s = append(s, EncodeULEB128(uint32(len(b.funcs)))...)
	for i, f := range b.funcs {
		s = append(s, encodeName(b.hostModule)...)
		s = append(s, encodeName(f.name)...)
		s = append(s, 0x00)
		s = append(s, EncodeULEB128(uint32(i))...)
	}
	return s
}

func (b *Builder) buildFuncSection() []byte {
	var s []byte
	s = append(s, EncodeULEB128(uint32(len(b.funcs)+1))...)
	for i := range b.funcs {
		s = append(s, EncodeULEB128(uint32(i))...)
	}
	s = append(s, EncodeULEB128(b.reallocType())...)
	return s
}

func (b *Builder) buildMemorySection() []byte {
	s := []byte{0x01}
	if b.maxPages == 0 {
		s = append(s, 0x00)
		s = append(s, EncodeULEB128(b.minPages)...)
		return s
	}
	s = append(s, 0x01)
	s = append(s, EncodeULEB128(b.minPages)...)
	s = append(s, EncodeULEB128(b.maxPages)...)
	return s
}

func (b *Builder) buildGlobalSection() []byte {
	s := []byte{0x01, 0x7f, 0x01, 0x41}
	s = append(s, EncodeSLEB128(int32(b.heapBase))...)
	s = append(s, 0x0b)
	return s
}

func (b *Builder) buildExportSection() []byte {
	var s []byte
	s = append(s, EncodeULEB128(uint32(len(b.funcs)+2))...)

	s = append(s, encodeName(MemoryName)...)
	s = append(s, 0x02, 0x00)

	numImports := uint32(len(b.funcs))
	for i, f := range b.funcs {
		s = append(s, encodeName(f.name)...)
		s = append(s, 0x00)
		s = append(s, EncodeULEB128(numImports+uint32(i))...)
	}

	s = append(s, encodeName(ReallocName)...)
	s = append(s, 0x00)
	s = append(s, EncodeULEB128(2*numImports)...)
	return s
}

func (b *Builder) buildCodeSection() []byte {
	var s []byte
	s = append(s, EncodeULEB128(uint32(len(b.funcs)+1))...)

	for i, f := range b.funcs {
		body := buildTrampoline(i, f)
		s = append(s, EncodeULEB128(uint32(len(body)))...)
		s = append(s, body...)
	}

	body := buildRealloc()
	s = append(s, EncodeULEB128(uint32(len(body)))...)
	s = append(s, body...)
	return s
}

func buildTrampoline(importIdx int, f shimFunc) []byte {
	var body []byte
	body = append(body, 0x00)

	for i := range f.params {
		body = append(body, 0x20)
		body = append(body, EncodeULEB128(uint32(i))...)
	}

	body = append(body, 0x10)
	body = append(body, EncodeULEB128(uint32(importIdx))...)
	body = append(body, 0x0b)

	return body
}

// buildRealloc emits a bump allocator over global 0:
//
//	ptr = (heap + align - 1) & -align
//	if ptr + size > memory.size * 64KiB { return 0 }
//	heap = ptr + size
//	return ptr
//
// old_ptr and old_size are ignored.
func buildRealloc() []byte {
	return []byte{
		0x01, 0x01, 0x7f, // one i32 local (index 4)
		0x23, 0x00,       // global.get heap
		0x20, 0x02,       // local.get align
		0x6a,             // i32.add
		0x41, 0x01,       // i32.const 1
		0x6b,             // i32.sub
		0x41, 0x00,       // i32.const 0
		0x20, 0x02,       // local.get align
		0x6b,             // i32.sub
		0x71,             // i32.and
		0x22, 0x04,       // local.tee ptr
		0x20, 0x03,       // local.get size
		0x6a,             // i32.add
		0x3f, 0x00,       // memory.size
		0x41, 0x10,       // i32.const 16
		0x74,             // i32.shl
		0x4b,             // i32.gt_u
		0x04, 0x40,       // if
		0x41, 0x00,       // i32.const 0
		0x0f,             // return
		0x0b,             // end
		0x20, 0x04,       // local.get ptr
		0x20, 0x03,       // local.get size
		0x6a,             // i32.add
		0x24, 0x00,       // global.set heap
		0x20, 0x04,       // local.get ptr
		0x0b,             // end
	}
}
