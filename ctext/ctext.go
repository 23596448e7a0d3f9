package ctext

import (
	"strings"
	"unsafe"

	"github.com/wippyai/cmem"
	"github.com/wippyai/cmem/box"
	"github.com/wippyai/cmem/errors"
)

// Rep is the cmem.Rep capability for NUL-terminated foreign text. View
// scans for the terminator and returns a zero-copy string over the buffer;
// Dispose is the paired allocator's plain Free.
type Rep struct {
	Mem cmem.Allocator
}

var _ cmem.Rep[string] = Rep{}

// View returns a string sharing the foreign buffer, with the terminator
// excluded. The string is valid only while the buffer is.
func (r Rep) View(ptr unsafe.Pointer) string {
	n := strlen(ptr)
	if n == 0 {
		return ""
	}
	return unsafe.String((*byte)(ptr), n)
}

// Dispose releases the buffer through the paired allocator.
func (r Rep) Dispose(ptr unsafe.Pointer) {
	r.Mem.Free(ptr)
}

// New copies s into foreign memory sized len(s)+1, appends the terminator,
// and returns a fully-owned wrapper over the result. Inputs containing an
// interior NUL are rejected with errors.KindEmbeddedNUL.
func New(mem cmem.Allocator, s string) (*box.Owned[string], error) {
	ptr, err := copyIn(mem, s)
	if err != nil {
		return nil, err
	}
	return box.Wrap[string](ptr, Rep{Mem: mem}), nil
}

// NewIn is New with the wrapper attached to a scope: the scope's Close
// releases the buffer if ownership was not extracted first.
func NewIn(scope *box.Scope, mem cmem.Allocator, s string) (*box.Scoped[string], error) {
	ptr, err := copyIn(mem, s)
	if err != nil {
		return nil, err
	}
	return box.WrapIn[string](scope, ptr, Rep{Mem: mem}), nil
}

// Adopt wraps an existing foreign text buffer without copying. The caller
// attests that freeing through mem when the wrapper closes is correct for
// the buffer's provenance.
func Adopt(mem cmem.Allocator, ptr unsafe.Pointer) *box.Semi[string] {
	return box.Adopt[string](ptr, Rep{Mem: mem})
}

// Clone copies the wrapped text into a fresh allocation: equal contents,
// fully independent storage. Mutating either buffer leaves the other
// intact, and both dispose independently.
func Clone(mem cmem.Allocator, b *box.Owned[string]) (*box.Owned[string], error) {
	return New(mem, b.Value())
}

// View reads a NUL-terminated buffer that is not (or not yet) wrapped, such
// as a pointer just received from foreign code. Zero-copy; the caller
// guarantees the buffer outlives the returned string.
func View(ptr unsafe.Pointer) string {
	return Rep{}.View(ptr)
}

// Bytes returns a mutable view of the wrapped text, terminator excluded.
// Writes go directly to the foreign buffer. Writing a NUL shortens the
// logical text, consistent with the representation.
func Bytes(b *box.Owned[string]) []byte {
	ptr := b.Raw()
	if ptr == nil {
		panic(errors.NullPointer("ctext.Bytes"))
	}
	n := strlen(ptr)
	if n == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(ptr), n)
}

// Equal reports whether two wrappers hold equal text, regardless of which
// foreign addresses back them.
func Equal(a, b *box.Owned[string]) bool {
	return a.Value() == b.Value()
}

func copyIn(mem cmem.Allocator, s string) (unsafe.Pointer, error) {
	if i := strings.IndexByte(s, 0); i >= 0 {
		return nil, errors.EmbeddedNUL(i)
	}

	ptr, err := mem.Alloc(len(s) + 1)
	if err != nil {
		return nil, err
	}

	buf := unsafe.Slice((*byte)(ptr), len(s)+1)
	copy(buf, s)
	buf[len(s)] = 0
	return ptr, nil
}

func strlen(ptr unsafe.Pointer) int {
	n := 0
	for *(*byte)(unsafe.Add(ptr, n)) != 0 {
		n++
	}
	return n
}
