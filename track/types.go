package track

// EventType identifies an allocation lifecycle event.
type EventType uint8

const (
	EventAlloc   EventType = iota // foreign memory allocated
	EventFree                     // foreign memory released
	EventHandoff                  // ownership transferred to an external consumer
)

// Event describes one allocation lifecycle transition.
type Event struct {
	Origin string
	Ptr    uintptr
	Size   int
	Type   EventType
}

// Observer receives notifications about allocation lifecycle events.
type Observer interface {
	OnAllocEvent(Event)
}

// Allocation is one live foreign allocation as seen by the registry.
type Allocation struct {
	Origin string
	Ptr    uintptr
	Size   int
}
