package transfer

import (
	"bytes"
	"unicode/utf8"

	"github.com/wippyai/crops"
	"github.com/wippyai/crops/errors"
)

// MaxCString bounds how far ReadCString scans for the terminating NUL.
const MaxCString = 1 << 20

// chunk is the read window used when scanning for the terminator.
const chunk = 256

// ReadCString copies a NUL-terminated UTF-8 string out of caller memory.
// The caller keeps ownership of the bytes at ptr.
func ReadCString(mem crops.Memory, ptr uint32) (string, error) {
	if ptr == 0 {
		return "", errors.NullArgument(errors.PhaseTransfer, "", "string pointer")
	}

	var out []byte
	offset := ptr
	for len(out) < MaxCString {
		n := uint32(chunk)
		if s, ok := mem.(crops.MemorySizer); ok {
			size := s.Size()
			if offset >= size {
				return "", errors.OutOfBounds(errors.PhaseTransfer, ptr, uint32(len(out))+1, nil)
			}
			if size-offset < n {
				n = size - offset
			}
		} else {
			n = 1
		}

		data, err := mem.Read(offset, n)
		if err != nil {
			return "", errors.OutOfBounds(errors.PhaseTransfer, ptr, uint32(len(out))+n, err)
		}
		if i := bytes.IndexByte(data, 0); i >= 0 {
			out = append(out, data[:i]...)
			if !utf8.Valid(out) {
				return "", errors.InvalidUTF8(errors.PhaseTransfer, "", "", out)
			}
			return string(out), nil
		}
		out = append(out, data...)
		offset += n
	}

	return "", errors.New(errors.PhaseTransfer, errors.KindInvalidInput).
		Detail("string at %#x not terminated within %d bytes", ptr, MaxCString).
		Value(ptr).
		Build()
}

// WriteCString writes s and a NUL terminator at ptr without any size check.
// Callers are responsible for having reserved len(s)+1 bytes.
func WriteCString(mem crops.Memory, ptr uint32, s string) error {
	buf := make([]byte, len(s)+1)
	copy(buf, s)
	if err := mem.Write(ptr, buf); err != nil {
		return errors.OutOfBounds(errors.PhaseTransfer, ptr, uint32(len(buf)), err)
	}
	return nil
}
