package memory

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrOutOfMemory is returned when no free block can satisfy an allocation.
var ErrOutOfMemory = errors.New("linear memory exhausted")

// reserved keeps offset 0 unallocatable so it can serve as the null pointer.
const reserved = 8

// Linear is an in-process caller memory with a first-fit allocator.
// It stands in for a guest's linear memory when the boundary is driven from Go.
type Linear struct {
	buf  []byte
	free []block
	used map[uint32]uint32
	mu   sync.Mutex
}

type block struct {
	ptr  uint32
	size uint32
}

// NewLinear creates a memory of size bytes.
func NewLinear(size uint32) *Linear {
	if size < reserved {
		size = reserved
	}
	return &Linear{
		buf:  make([]byte, size),
		free: []block{{ptr: reserved, size: size - reserved}},
		used: make(map[uint32]uint32),
	}
}

// Size returns the memory size in bytes.
func (m *Linear) Size() uint32 {
	return uint32(len(m.buf))
}

func (m *Linear) check(offset, length uint32) error {
	end := uint64(offset) + uint64(length)
	if end > uint64(len(m.buf)) {
		return fmt.Errorf("memory access out of bounds: offset=%d, length=%d", offset, length)
	}
	return nil
}

// Read returns a copy of length bytes at offset.
func (m *Linear) Read(offset uint32, length uint32) ([]byte, error) {
	if err := m.check(offset, length); err != nil {
		return nil, err
	}
	out := make([]byte, length)
	copy(out, m.buf[offset:offset+length])
	return out, nil
}

// Write copies data to offset.
func (m *Linear) Write(offset uint32, data []byte) error {
	if err := m.check(offset, uint32(len(data))); err != nil {
		return err
	}
	copy(m.buf[offset:], data)
	return nil
}

// ReadU8 reads an unsigned 8-bit value.
func (m *Linear) ReadU8(offset uint32) (uint8, error) {
	if err := m.check(offset, 1); err != nil {
		return 0, err
	}
	return m.buf[offset], nil
}

// ReadU32 reads an unsigned 32-bit little-endian value.
func (m *Linear) ReadU32(offset uint32) (uint32, error) {
	if err := m.check(offset, 4); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(m.buf[offset:]), nil
}

// WriteU8 writes an unsigned 8-bit value.
func (m *Linear) WriteU8(offset uint32, value uint8) error {
	if err := m.check(offset, 1); err != nil {
		return err
	}
	m.buf[offset] = value
	return nil
}

// WriteU32 writes an unsigned 32-bit little-endian value.
func (m *Linear) WriteU32(offset uint32, value uint32) error {
	if err := m.check(offset, 4); err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(m.buf[offset:], value)
	return nil
}

// Alloc reserves size bytes aligned to align. It never returns offset 0.
func (m *Linear) Alloc(size, align uint32) (uint32, error) {
	if size == 0 {
		size = 1
	}
	if align == 0 {
		align = 1
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for i, b := range m.free {
		start := alignUp(b.ptr, align)
		end := uint64(start) + uint64(size)
		if end > uint64(b.ptr)+uint64(b.size) {
			continue
		}

		rest := make([]block, 0, 2)
		if start > b.ptr {
			rest = append(rest, block{ptr: b.ptr, size: start - b.ptr})
		}
		if tail := b.ptr + b.size - uint32(end); tail > 0 {
			rest = append(rest, block{ptr: uint32(end), size: tail})
		}
		m.free = append(m.free[:i], append(rest, m.free[i+1:]...)...)
		m.used[start] = size
		return start, nil
	}
	return 0, ErrOutOfMemory
}

// Free releases a block returned by Alloc. Unknown pointers are ignored.
func (m *Linear) Free(ptr, _, _ uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()

	size, ok := m.used[ptr]
	if !ok {
		return
	}
	delete(m.used, ptr)

	m.free = append(m.free, block{ptr: ptr, size: size})
	sort.Slice(m.free, func(i, j int) bool { return m.free[i].ptr < m.free[j].ptr })

	merged := m.free[:1]
	for _, b := range m.free[1:] {
		last := &merged[len(merged)-1]
		if last.ptr+last.size == b.ptr {
			last.size += b.size
			continue
		}
		merged = append(merged, b)
	}
	m.free = merged
}

// Outstanding returns the number of live allocations and their total size.
func (m *Linear) Outstanding() (blocks int, bytes uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, size := range m.used {
		blocks++
		bytes += size
	}
	return blocks, bytes
}

func alignUp(v, align uint32) uint32 {
	return (v + align - 1) &^ (align - 1)
}
