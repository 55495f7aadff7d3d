package protocol

import (
	"io"
	"os"

	"github.com/wippyai/crops"
	"github.com/wippyai/crops/handle"
	"github.com/wippyai/crops/transfer"
)

// Env is everything a boundary call needs: the host's handle table and
// ledger, and the caller's memory and allocator.
type Env struct {
	Table  *handle.Table
	Mem    crops.Memory
	Alloc  crops.Allocator
	Heap   *transfer.Heap
	Ledger *Ledger

	// Debug receives the output of the debug family. Defaults to os.Stdout.
	Debug io.Writer
}

// NewEnv creates an Env with a fresh ledger and transfer heap.
func NewEnv(table *handle.Table, mem crops.Memory, alloc crops.Allocator) *Env {
	return &Env{
		Table:  table,
		Mem:    mem,
		Alloc:  alloc,
		Heap:   transfer.NewHeap(),
		Ledger: NewLedger(),
		Debug:  os.Stdout,
	}
}

// With returns a copy of env bound to another caller memory and allocator.
// The table, ledger and heap stay shared.
func (e *Env) With(mem crops.Memory, alloc crops.Allocator) *Env {
	c := *e
	c.Mem = mem
	c.Alloc = alloc
	return &c
}

func (e *Env) debugWriter() io.Writer {
	if e.Debug == nil {
		return os.Stdout
	}
	return e.Debug
}
