package box

import (
	"fmt"
	"unsafe"

	"github.com/wippyai/cmem"
	"github.com/wippyai/cmem/errors"
)

// Semi wraps a foreign pointer this wrapper only partially owns: the pointer
// may have been produced and handed over by other machinery (a runtime that
// also tracks it, a callback argument), but when this wrapper closes, it
// disposes. Same teardown guarantee as Owned, different provenance.
//
// Semi and Owned are layout-identical and reinterpretable either way; see
// reinterpret.go.
type Semi[T any] struct {
	ptr unsafe.Pointer
	rep cmem.Rep[T]
}

// Adopt wraps a pointer that originated elsewhere. The caller attests that
// disposing through rep when this wrapper closes is correct for that
// pointer's provenance.
func Adopt[T any](ptr unsafe.Pointer, rep cmem.Rep[T]) *Semi[T] {
	return &Semi[T]{ptr: ptr, rep: rep}
}

// Value is a borrow-view: read access to the wrapped value without
// consuming the wrapper. Panics on a consumed or nil-backed wrapper.
func (s *Semi[T]) Value() T {
	if s.ptr == nil {
		panic(errors.Consumed("box.Semi.Value"))
	}
	return s.rep.View(s.ptr)
}

// Raw returns the held pointer without consuming the wrapper.
func (s *Semi[T]) Raw() unsafe.Pointer {
	return s.ptr
}

// Extract consumes the wrapper, returns the raw pointer, and disarms
// teardown.
func (s *Semi[T]) Extract() unsafe.Pointer {
	p := s.ptr
	s.ptr = nil
	return p
}

// Close disposes the held pointer at most once; no-op after Extract or a
// prior Close.
func (s *Semi[T]) Close() error {
	p := s.ptr
	if p == nil {
		return nil
	}
	s.ptr = nil
	s.rep.Dispose(p)
	return nil
}

// String renders the viewed value, or a placeholder once consumed.
func (s *Semi[T]) String() string {
	if s.ptr == nil {
		return "<consumed>"
	}
	return fmt.Sprint(s.rep.View(s.ptr))
}
