package track

import (
	"sort"
	"sync"
	"unsafe"

	"go.uber.org/zap"
)

// Registry is live-allocation bookkeeping for foreign memory: every Alloc
// recorded must be balanced by a Remove, and whatever is left is a leak.
// Safe for concurrent use.
type Registry struct {
	live      map[uintptr]Allocation
	observers []Observer
	mu        sync.RWMutex
	obsMu     sync.RWMutex
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		live: make(map[uintptr]Allocation),
	}
}

// Add records a new live allocation.
func (r *Registry) Add(ptr unsafe.Pointer, size int, origin string) {
	a := Allocation{Ptr: uintptr(ptr), Size: size, Origin: origin}

	r.mu.Lock()
	r.live[a.Ptr] = a
	r.mu.Unlock()

	r.notify(Event{Type: EventAlloc, Ptr: a.Ptr, Size: size, Origin: origin})
}

// Remove records the release of an allocation. Returns false if the
// pointer was not being tracked.
func (r *Registry) Remove(ptr unsafe.Pointer) bool {
	r.mu.Lock()
	a, ok := r.live[uintptr(ptr)]
	if ok {
		delete(r.live, uintptr(ptr))
	}
	r.mu.Unlock()

	if !ok {
		return false
	}
	r.notify(Event{Type: EventFree, Ptr: a.Ptr, Size: a.Size, Origin: a.Origin})
	return true
}

// Handoff marks a live allocation as transferred to an external consumer.
// The entry stays live (the consumer still owes a free through the same
// allocator), but observers see the ownership change.
func (r *Registry) Handoff(ptr unsafe.Pointer, consumer string) bool {
	r.mu.Lock()
	a, ok := r.live[uintptr(ptr)]
	if ok {
		a.Origin = consumer
		r.live[uintptr(ptr)] = a
	}
	r.mu.Unlock()

	if !ok {
		return false
	}
	r.notify(Event{Type: EventHandoff, Ptr: a.Ptr, Size: a.Size, Origin: consumer})
	return true
}

// Len returns the number of live allocations.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.live)
}

// Each iterates over live allocations in address order.
func (r *Registry) Each(fn func(Allocation) bool) {
	for _, a := range r.Leaks() {
		if !fn(a) {
			return
		}
	}
}

// Leaks returns a snapshot of live allocations, sorted by address. After
// all owners have closed, a non-empty result is a leak report.
func (r *Registry) Leaks() []Allocation {
	r.mu.RLock()
	out := make([]Allocation, 0, len(r.live))
	for _, a := range r.live {
		out = append(out, a)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Ptr < out[j].Ptr })
	return out
}

// LogLeaks writes one entry per live allocation and returns the count.
func (r *Registry) LogLeaks(log *zap.Logger) int {
	leaks := r.Leaks()
	for _, a := range leaks {
		log.Warn("leaked foreign allocation",
			zap.Uintptr("ptr", a.Ptr),
			zap.Int("size", a.Size),
			zap.String("origin", a.Origin))
	}
	return len(leaks)
}

// Subscribe adds an observer for lifecycle events.
func (r *Registry) Subscribe(o Observer) {
	r.obsMu.Lock()
	defer r.obsMu.Unlock()
	r.observers = append(r.observers, o)
}

// Unsubscribe removes an observer.
func (r *Registry) Unsubscribe(o Observer) {
	r.obsMu.Lock()
	defer r.obsMu.Unlock()
	for i, obs := range r.observers {
		if obs == o {
			r.observers = append(r.observers[:i], r.observers[i+1:]...)
			return
		}
	}
}

func (r *Registry) notify(e Event) {
	r.obsMu.RLock()
	defer r.obsMu.RUnlock()
	for _, o := range r.observers {
		o.OnAllocEvent(e)
	}
}
