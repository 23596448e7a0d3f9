package cmem

import "unsafe"

// Allocator is a C-style allocator: Alloc returns memory the Go runtime does
// not manage, and every successful Alloc must be balanced by exactly one Free
// of the same pointer. Mixing pointers between allocator families is a
// contract violation with undefined consequences.
type Allocator interface {
	// Alloc returns at least size bytes of foreign memory. The pointer is
	// non-nil whenever the error is nil.
	Alloc(size int) (unsafe.Pointer, error)

	// Free releases a pointer previously returned by Alloc. Free(nil) is a
	// no-op. The pointer must never be dereferenced afterward.
	Free(ptr unsafe.Pointer)
}

// Rep binds a Go view type T to a foreign memory representation. It is the
// single extension point the wrapper types in package box delegate to: View
// is transparent access, Dispose is teardown.
type Rep[T any] interface {
	// View reinterprets the memory at ptr as T without copying. ptr must be
	// a live allocation in this representation's layout.
	View(ptr unsafe.Pointer) T

	// Dispose releases the memory at ptr. It is called at most once per
	// wrapped pointer and never with nil.
	Dispose(ptr unsafe.Pointer)
}

// PlainRep is the default capability for foreign structs whose layout
// matches the Go type T: the view is a typed pointer cast and teardown is
// the paired allocator's plain Free. Representations with their own
// destructor function must supply a custom Rep instead, so the destructor
// runs before (or instead of) the release.
type PlainRep[T any] struct {
	Mem Allocator
}

// View returns a typed pointer into the foreign memory. Mutation through
// the returned pointer writes the foreign buffer directly.
func (r PlainRep[T]) View(ptr unsafe.Pointer) *T {
	return (*T)(ptr)
}

// Dispose releases the memory through the paired allocator.
func (r PlainRep[T]) Dispose(ptr unsafe.Pointer) {
	r.Mem.Free(ptr)
}

var _ Rep[*int] = PlainRep[int]{}
