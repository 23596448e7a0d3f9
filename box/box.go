package box

import (
	"fmt"
	"unsafe"

	"github.com/wippyai/cmem"
	"github.com/wippyai/cmem/errors"
)

// Owned wraps a foreign pointer this wrapper fully owns: unless Extract
// transfers ownership out first, Close releases the pointer through the Rep
// capability exactly once.
//
// The zero value is a consumed wrapper. Owned is a single-goroutine value.
type Owned[T any] struct {
	ptr unsafe.Pointer
	rep cmem.Rep[T]
}

// Wrap takes ownership of an already-allocated foreign pointer. Provenance
// is not validated: the caller attests ptr was produced by the allocator
// family rep disposes through and has not been wrapped or freed elsewhere.
//
// Wrapping nil yields an inert wrapper: Close and Extract are no-ops and
// Value panics, mirroring free(NULL).
func Wrap[T any](ptr unsafe.Pointer, rep cmem.Rep[T]) *Owned[T] {
	return &Owned[T]{ptr: ptr, rep: rep}
}

// Value is transparent access: it resolves to a view of the foreign memory
// through the Rep capability, without copying. It panics on a consumed or
// nil-backed wrapper.
func (b *Owned[T]) Value() T {
	if b.ptr == nil {
		panic(errors.Consumed("box.Owned.Value"))
	}
	return b.rep.View(b.ptr)
}

// Raw returns the held pointer without consuming the wrapper. The returned
// pointer must not outlive the wrapper and must not be freed by the caller.
func (b *Owned[T]) Raw() unsafe.Pointer {
	return b.ptr
}

// Extract consumes the wrapper and returns the raw pointer, disarming
// teardown. The foreign lifetime is the caller's responsibility again:
// either free it through the same allocator family or hand it to a consumer
// that promises to.
func (b *Owned[T]) Extract() unsafe.Pointer {
	p := b.ptr
	b.ptr = nil
	return p
}

// Close disposes the held pointer through the Rep capability. It runs at
// most once: calling Close after Extract, or a second time, is a no-op.
// The returned error is always nil; it exists to satisfy io.Closer so
// wrappers compose with defer and cleanup helpers.
func (b *Owned[T]) Close() error {
	p := b.ptr
	if p == nil {
		return nil
	}
	b.ptr = nil
	b.rep.Dispose(p)
	return nil
}

// String renders the viewed value. Consumed wrappers render as a
// placeholder instead of panicking, so logging a wrapper is always safe.
func (b *Owned[T]) String() string {
	if b.ptr == nil {
		return "<consumed>"
	}
	return fmt.Sprint(b.rep.View(b.ptr))
}

// Equal reports whether two wrappers view equal values. It compares the
// dereferenced values, not the addresses: two independent allocations with
// the same contents compare equal. Like Value, it panics if either wrapper
// has been consumed.
func Equal[T comparable](a, b *Owned[T]) bool {
	return a.Value() == b.Value()
}
