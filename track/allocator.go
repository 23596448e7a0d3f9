package track

import (
	"unsafe"

	"github.com/wippyai/cmem"
)

// Allocator decorates an inner cmem.Allocator with registry bookkeeping.
// Tests use it to assert exactly-once disposal; the demo uses it to show a
// live allocation table.
type Allocator struct {
	inner  cmem.Allocator
	reg    *Registry
	origin string
}

var _ cmem.Allocator = (*Allocator)(nil)

// Wrap decorates inner so every Alloc/Free is recorded in reg, tagged with
// origin.
func Wrap(inner cmem.Allocator, reg *Registry, origin string) *Allocator {
	return &Allocator{inner: inner, reg: reg, origin: origin}
}

// Registry returns the registry this allocator records into.
func (a *Allocator) Registry() *Registry {
	return a.reg
}

// Alloc allocates through the inner allocator and records the result.
func (a *Allocator) Alloc(size int) (unsafe.Pointer, error) {
	p, err := a.inner.Alloc(size)
	if err != nil {
		return nil, err
	}
	a.reg.Add(p, size, a.origin)
	return p, nil
}

// Free removes the record and releases through the inner allocator.
// Untracked pointers are still passed through, so a tracked allocator can
// free memory handed over from an untracked path.
func (a *Allocator) Free(ptr unsafe.Pointer) {
	if ptr == nil {
		return
	}
	a.reg.Remove(ptr)
	a.inner.Free(ptr)
}
