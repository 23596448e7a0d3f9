package box

import (
	"unsafe"

	"github.com/wippyai/cmem"
	"github.com/wippyai/cmem/errors"
)

// Scope bounds the validity of wrappers attached to it. Closing the scope
// disposes every attached wrapper that is still armed, in reverse attach
// order, so a single deferred Close covers normal returns, early errors,
// and panic unwinds for everything allocated inside the scope.
//
// A Scope is a single-goroutine value, like the wrappers it holds.
type Scope struct {
	armed  []interface{ Close() error }
	closed bool
}

// NewScope creates an empty scope. The caller owns the paired Close,
// typically via defer.
func NewScope() *Scope {
	return &Scope{}
}

// Close disposes all still-armed wrappers in reverse attach order and marks
// the scope closed. Idempotent; always returns nil (teardown is
// infallible by contract).
func (s *Scope) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	for i := len(s.armed) - 1; i >= 0; i-- {
		s.armed[i].Close()
	}
	s.armed = nil
	return nil
}

// Len returns the number of wrappers attached to the scope, including ones
// already extracted or closed early. It reports zero once the scope itself
// has closed.
func (s *Scope) Len() int {
	return len(s.armed)
}

func (s *Scope) attach(c interface{ Close() error }) {
	if s.closed {
		panic(errors.Closed("box.Scope"))
	}
	s.armed = append(s.armed, c)
}

// Scoped is an Owned wrapper bound to a Scope: identical ownership and
// teardown behavior, plus the static promise that the wrapper (and any view
// obtained through it) is not used past the scope's Close. Use it for
// foreign values that internally reference caller-owned data and must not
// outlive it.
type Scoped[T any] struct {
	box   Owned[T]
	scope *Scope
}

// WrapIn wraps an already-allocated foreign pointer and attaches it to the
// scope. Provenance is unchecked, as with Wrap. Panics if the scope is
// already closed.
func WrapIn[T any](s *Scope, ptr unsafe.Pointer, rep cmem.Rep[T]) *Scoped[T] {
	sc := &Scoped[T]{
		box:   Owned[T]{ptr: ptr, rep: rep},
		scope: s,
	}
	s.attach(&sc.box)
	return sc
}

// Value is transparent access; panics once the wrapper is consumed,
// including after the scope has closed.
func (s *Scoped[T]) Value() T {
	return s.box.Value()
}

// Raw returns the held pointer without consuming the wrapper.
func (s *Scoped[T]) Raw() unsafe.Pointer {
	return s.box.Raw()
}

// Extract consumes the wrapper and disarms teardown: the scope's Close will
// skip it, and the pointer's lifetime is the caller's responsibility. The
// extracted pointer is no longer bound by the scope.
func (s *Scoped[T]) Extract() unsafe.Pointer {
	return s.box.Extract()
}

// Close disposes early, before the scope does. The scope's later Close
// skips the wrapper.
func (s *Scoped[T]) Close() error {
	return s.box.Close()
}

// String renders the viewed value, or a placeholder once consumed.
func (s *Scoped[T]) String() string {
	return s.box.String()
}
