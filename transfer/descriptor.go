package transfer

import (
	"github.com/wippyai/crops"
	"github.com/wippyai/crops/errors"
)

// Descriptor is a caller-owned buffer: Len bytes at Ptr, allocated by the
// caller before the call. The host only writes into it; ownership never moves.
type Descriptor struct {
	Ptr uint32
	Len uint32
}

// Need returns the descriptor length required to hold s and its terminator.
func Need(s string) uint32 {
	return uint32(len(s)) + 1
}

// WriteDescriptor copies s plus a NUL terminator into d. When d cannot hold
// len(s)+1 bytes it fails with KindBufferTooSmall and the buffer is untouched.
func WriteDescriptor(mem crops.Memory, d Descriptor, s string) error {
	if d.Ptr == 0 {
		return errors.NullArgument(errors.PhaseTransfer, "", "buffer pointer")
	}
	need := Need(s)
	if d.Len < need {
		return errors.BufferTooSmall("", "", need, d.Len)
	}
	return WriteCString(mem, d.Ptr, s)
}
