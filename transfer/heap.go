package transfer

import (
	"sync"

	"github.com/wippyai/crops"
	"github.com/wippyai/crops/errors"
)

// Heap tracks raw string transfers: buffers the host allocated in caller
// memory and handed over to the caller. Each must come back exactly once
// through Release.
type Heap struct {
	issued map[uint32]uint32
	mu     sync.Mutex
}

// NewHeap creates an empty transfer heap.
func NewHeap() *Heap {
	return &Heap{issued: make(map[uint32]uint32)}
}

// Transfer allocates len(s)+1 bytes through alloc, writes s and a NUL
// terminator, and returns the pointer. Ownership of the bytes passes to the
// caller. On failure nothing stays allocated.
func (h *Heap) Transfer(mem crops.Memory, alloc crops.Allocator, s string) (uint32, error) {
	if alloc == nil {
		return 0, errors.AllocationFailed(errors.PhaseTransfer, Need(s), 1, nil)
	}
	size := Need(s)
	ptr, err := alloc.Alloc(size, 1)
	if err != nil {
		return 0, errors.AllocationFailed(errors.PhaseTransfer, size, 1, err)
	}
	if ptr == 0 {
		return 0, errors.AllocationFailed(errors.PhaseTransfer, size, 1, nil)
	}
	if err := WriteCString(mem, ptr, s); err != nil {
		alloc.Free(ptr, size, 1)
		return 0, err
	}

	h.mu.Lock()
	h.issued[ptr] = size
	h.mu.Unlock()
	return ptr, nil
}

// Release returns a raw transfer to alloc. Null pointers and pointers that
// were not issued by this heap (including ones already released) are
// rejected with KindNullArgument / KindInvalidHandle.
func (h *Heap) Release(alloc crops.Allocator, ptr uint32) error {
	if ptr == 0 {
		return errors.NullArgument(errors.PhaseTransfer, "", "string pointer")
	}

	h.mu.Lock()
	size, ok := h.issued[ptr]
	if ok {
		delete(h.issued, ptr)
	}
	h.mu.Unlock()

	if !ok {
		return errors.New(errors.PhaseTransfer, errors.KindInvalidHandle).
			Detail("pointer %#x was not issued by a raw transfer or was already released", ptr).
			Value(ptr).
			Build()
	}
	if alloc != nil {
		alloc.Free(ptr, size, 1)
	}
	return nil
}

// Outstanding returns the number of transfers not yet released.
func (h *Heap) Outstanding() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.issued)
}
