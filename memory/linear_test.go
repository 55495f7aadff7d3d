package memory

import (
	"bytes"
	"errors"
	"testing"

	"github.com/wippyai/crops"
)

var (
	_ crops.Memory      = (*Linear)(nil)
	_ crops.Allocator   = (*Linear)(nil)
	_ crops.MemorySizer = (*Linear)(nil)
	_ crops.MemorySizer = (*Wrapper)(nil)
)

func TestLinear_ReadWrite(t *testing.T) {
	m := NewLinear(64)

	if err := m.Write(8, []byte("abc")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	data, err := m.Read(8, 3)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !bytes.Equal(data, []byte("abc")) {
		t.Fatalf("Read = %q", data)
	}

	if err := m.WriteU32(16, 0xdeadbeef); err != nil {
		t.Fatal(err)
	}
	v, err := m.ReadU32(16)
	if err != nil || v != 0xdeadbeef {
		t.Fatalf("ReadU32 = %#x, %v", v, err)
	}

	if err := m.WriteU8(20, 7); err != nil {
		t.Fatal(err)
	}
	b, err := m.ReadU8(20)
	if err != nil || b != 7 {
		t.Fatalf("ReadU8 = %d, %v", b, err)
	}
}

func TestLinear_Bounds(t *testing.T) {
	m := NewLinear(32)

	if _, err := m.Read(30, 4); err == nil {
		t.Error("Read past end should fail")
	}
	if err := m.WriteU32(30, 1); err == nil {
		t.Error("WriteU32 past end should fail")
	}
	if _, err := m.ReadU8(32); err == nil {
		t.Error("ReadU8 at size should fail")
	}
	if _, err := m.Read(0xffffffff, 2); err == nil {
		t.Error("overflowing offset should fail")
	}
}

func TestLinear_AllocNeverNull(t *testing.T) {
	m := NewLinear(64)

	ptr, err := m.Alloc(4, 1)
	if err != nil {
		t.Fatal(err)
	}
	if ptr == 0 {
		t.Fatal("Alloc returned the null pointer")
	}
}

func TestLinear_AllocAlignment(t *testing.T) {
	m := NewLinear(128)

	m.Alloc(3, 1)
	ptr, err := m.Alloc(8, 8)
	if err != nil {
		t.Fatal(err)
	}
	if ptr%8 != 0 {
		t.Fatalf("ptr %d not 8-aligned", ptr)
	}
}

func TestLinear_FreeCoalesces(t *testing.T) {
	m := NewLinear(40)

	a, _ := m.Alloc(16, 1)
	b, _ := m.Alloc(16, 1)
	if _, err := m.Alloc(16, 1); !errors.Is(err, ErrOutOfMemory) {
		t.Fatalf("expected ErrOutOfMemory, got %v", err)
	}

	m.Free(a, 16, 1)
	m.Free(b, 16, 1)

	if blocks, _ := m.Outstanding(); blocks != 0 {
		t.Fatalf("Outstanding blocks = %d", blocks)
	}
	if _, err := m.Alloc(32, 1); err != nil {
		t.Fatalf("coalesced block should satisfy 32 bytes: %v", err)
	}
}

func TestLinear_FreeUnknownIgnored(t *testing.T) {
	m := NewLinear(64)
	p, _ := m.Alloc(4, 1)

	m.Free(p+1, 4, 1)
	m.Free(p, 4, 1)
	m.Free(p, 4, 1)

	if blocks, bytes := m.Outstanding(); blocks != 0 || bytes != 0 {
		t.Fatalf("Outstanding = %d blocks, %d bytes", blocks, bytes)
	}
}
