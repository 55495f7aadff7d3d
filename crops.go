package crops

// Memory is the caller's linear memory. Offsets are caller pointers and
// offset 0 is the null pointer.
type Memory interface {
	Read(offset uint32, length uint32) ([]byte, error)
	Write(offset uint32, data []byte) error
	ReadU8(offset uint32) (uint8, error)
	ReadU32(offset uint32) (uint32, error)
	WriteU8(offset uint32, value uint8) error
	WriteU32(offset uint32, value uint32) error
}

// MemorySizer provides the current size of caller memory in bytes.
type MemorySizer interface {
	Size() uint32
}

// Allocator allocates memory owned by the caller. Raw string transfers are
// allocated here so the caller can release them with its own discipline.
type Allocator interface {
	Alloc(size, align uint32) (uint32, error)
	Free(ptr, size, align uint32)
}
