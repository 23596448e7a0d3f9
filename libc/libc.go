// Package libc provides the default foreign allocator: a malloc/free pair
// backed by modernc.org/memory, which carves allocations out of mmapped
// regions the Go garbage collector never scans or moves. Pointers it
// returns behave like C malloc results: stable addresses, explicit release,
// no GC involvement.
package libc

import (
	"sync"
	"unsafe"

	"go.uber.org/zap"
	"modernc.org/memory"

	"github.com/wippyai/cmem"
	"github.com/wippyai/cmem/errors"
)

// Allocator is a process-wide C-style allocator. Safe for concurrent use.
// Close releases every region it has mapped, live allocations included, so
// it belongs at the end of the process or test that owns it.
type Allocator struct {
	mu  sync.Mutex
	al  memory.Allocator
	log *zap.Logger
}

var _ cmem.Allocator = (*Allocator)(nil)

// New creates an allocator with logging disabled.
func New() *Allocator {
	return &Allocator{log: zap.NewNop()}
}

// NewWithLogger creates an allocator that logs release failures.
func NewWithLogger(log *zap.Logger) *Allocator {
	return &Allocator{log: log}
}

// Default is the allocator used by callers that do not carry their own.
var Default = New()

// Alloc returns size bytes of foreign memory. A zero or negative size is
// treated as one byte so every successful call returns a distinct,
// freeable pointer, as malloc implementations conventionally do.
func (a *Allocator) Alloc(size int) (unsafe.Pointer, error) {
	if size < 1 {
		size = 1
	}

	a.mu.Lock()
	p, err := a.al.UintptrMalloc(size)
	a.mu.Unlock()

	if err != nil || p == 0 {
		return nil, errors.AllocationFailed(size, err)
	}
	// The uintptr comes from mmapped memory outside the Go heap, so the
	// address is stable and the conversion does not race the GC.
	return unsafe.Pointer(p), nil
}

// Free releases a pointer previously returned by Alloc. Free(nil) is a
// no-op. Teardown is infallible at this interface: an internal release
// failure indicates a provenance violation and is logged, not returned.
func (a *Allocator) Free(ptr unsafe.Pointer) {
	if ptr == nil {
		return
	}

	a.mu.Lock()
	err := a.al.UintptrFree(uintptr(ptr))
	a.mu.Unlock()

	if err != nil {
		a.log.Warn("foreign free failed",
			zap.Uintptr("ptr", uintptr(ptr)),
			zap.Error(err))
	}
}

// Close unmaps all regions held by the allocator. Every pointer it ever
// returned is invalid afterward.
func (a *Allocator) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.al.Close()
}
