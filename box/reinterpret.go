package box

import "unsafe"

// Owned and Semi differ only in the ownership obligation they declare, not
// in memory shape. That makes viewing one as the other a pointer cast. This
// file is the only place that layout equivalence is load-bearing: both
// structs must keep the exact same fields in the same order, and the guards
// below fail the build if their sizes ever diverge.

// AsSemi reinterprets a fully-owned wrapper as a partially-owned view of the
// same pointer. No allocation or copy; the receiver and the result are the
// same storage, so consuming one consumes the other.
func (b *Owned[T]) AsSemi() *Semi[T] {
	return (*Semi[T])(unsafe.Pointer(b))
}

// AsOwned reinterprets a partially-owned wrapper as fully owned. Same
// storage, same caveats as AsSemi.
func (s *Semi[T]) AsOwned() *Owned[T] {
	return (*Owned[T])(unsafe.Pointer(s))
}

var (
	_ [unsafe.Sizeof(Owned[int]{}) - unsafe.Sizeof(Semi[int]{})]struct{}
	_ [unsafe.Sizeof(Semi[int]{}) - unsafe.Sizeof(Owned[int]{})]struct{}
)
