// Package wazmem adapts a WebAssembly guest's own allocator to the
// cmem.Allocator interface: Alloc calls the guest's exported malloc and maps
// the returned linear-memory offset to a host pointer into the instance's
// memory; Free reverses the mapping and calls the guest's exported free.
//
// Wrappers built over a Guest therefore manage memory the guest also sees,
// which is the semi-owned provenance box.Semi models: the guest runtime
// tracks the allocation, and the host-side wrapper guarantees the free.
//
// Host pointers returned by a Guest stay valid only while the guest does
// not grow its memory: WASM linear memory may be remapped on growth. Keep
// guest-backed wrappers short-lived, or ensure the guest cannot grow while
// they are held.
package wazmem

import (
	"context"
	"math"
	"sync"
	"unsafe"

	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/cmem"
	"github.com/wippyai/cmem/errors"
)

// Fn is the call surface of a guest-exported function.
type Fn interface {
	Call(ctx context.Context, params ...uint64) ([]uint64, error)
}

// Mem is read access to guest linear memory. Read returns a slice sharing
// the underlying memory, which is what makes host pointers possible.
type Mem interface {
	Read(offset, byteCount uint32) ([]byte, bool)
}

var (
	_ Fn  = (api.Function)(nil)
	_ Mem = (api.Memory)(nil)
)

// Guest presents a guest module's malloc/free as a cmem.Allocator. Safe
// for concurrent use, though the underlying wazero module may not be; the
// usual arrangement is one Guest per single-goroutine instance.
type Guest struct {
	ctx     context.Context
	malloc  Fn
	free    Fn
	mem     Mem
	mu      sync.Mutex
	offsets map[unsafe.Pointer]uint32
}

var _ cmem.Allocator = (*Guest)(nil)

// New adapts an instantiated module. The module must export functions named
// "malloc" and "free" with the conventional C signatures and have a memory.
func New(ctx context.Context, mod api.Module) (*Guest, error) {
	malloc := mod.ExportedFunction("malloc")
	if malloc == nil {
		return nil, errors.MissingExport("malloc")
	}
	free := mod.ExportedFunction("free")
	if free == nil {
		return nil, errors.MissingExport("free")
	}
	mem := mod.Memory()
	if mem == nil {
		return nil, errors.MissingExport("memory")
	}
	return NewWithExports(ctx, malloc, free, mem), nil
}

// NewWithExports builds a Guest from the individual exports. Useful when
// the guest names its allocator differently, and for tests.
func NewWithExports(ctx context.Context, malloc, free Fn, mem Mem) *Guest {
	return &Guest{
		ctx:     ctx,
		malloc:  malloc,
		free:    free,
		mem:     mem,
		offsets: make(map[unsafe.Pointer]uint32),
	}
}

// Alloc calls guest malloc and returns a host pointer into linear memory.
// A guest returning offset 0 is treated as allocation failure, per C
// convention. Sizes outside the guest's 32-bit address range fail without
// calling into the guest: truncating would hand back a smaller buffer than
// the Allocator contract promises.
func (g *Guest) Alloc(size int) (unsafe.Pointer, error) {
	if size < 0 || int64(size) > math.MaxUint32 {
		return nil, errors.AllocationFailed(size, nil)
	}

	res, err := g.malloc.Call(g.ctx, uint64(size))
	if err != nil {
		return nil, errors.AllocationFailed(size, err)
	}
	if len(res) == 0 || uint32(res[0]) == 0 {
		return nil, errors.AllocationFailed(size, nil)
	}
	off := uint32(res[0])

	buf, ok := g.mem.Read(off, uint32(size))
	if !ok {
		return nil, errors.OutOfBounds(off, size)
	}
	p := unsafe.Pointer(unsafe.SliceData(buf))

	g.mu.Lock()
	g.offsets[p] = off
	g.mu.Unlock()
	return p, nil
}

// Free maps the host pointer back to its guest offset and calls guest free.
// Pointers this Guest did not allocate are ignored: there is no offset to
// hand back, and guessing one would corrupt the guest heap.
func (g *Guest) Free(ptr unsafe.Pointer) {
	if ptr == nil {
		return
	}

	g.mu.Lock()
	off, ok := g.offsets[ptr]
	delete(g.offsets, ptr)
	g.mu.Unlock()

	if !ok {
		return
	}
	// Guest free traps only on heap corruption; at this interface teardown
	// is infallible, so the error has nowhere to go.
	g.free.Call(g.ctx, uint64(off)) //nolint:errcheck
}

// Offset returns the guest linear-memory offset backing a live host
// pointer, for handing the allocation to guest code.
func (g *Guest) Offset(ptr unsafe.Pointer) (uint32, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	off, ok := g.offsets[ptr]
	return off, ok
}

// Live returns the number of allocations this Guest is currently mapping.
func (g *Guest) Live() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.offsets)
}
