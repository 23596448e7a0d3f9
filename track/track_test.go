package track

import (
	"testing"
	"unsafe"

	"go.uber.org/zap"

	"github.com/wippyai/cmem/ctext"
	"github.com/wippyai/cmem/libc"
)

type testObserver struct {
	events []Event
}

func (o *testObserver) OnAllocEvent(e Event) {
	o.events = append(o.events, e)
}

func TestRegistry_AddRemove(t *testing.T) {
	reg := NewRegistry()
	p := unsafe.Pointer(new(byte))

	reg.Add(p, 16, "test")
	if reg.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", reg.Len())
	}

	if !reg.Remove(p) {
		t.Fatal("Remove of tracked pointer should return true")
	}
	if reg.Len() != 0 {
		t.Fatalf("Len() = %d after Remove, want 0", reg.Len())
	}
	if reg.Remove(p) {
		t.Fatal("Remove of untracked pointer should return false")
	}
}

func TestRegistry_Observer(t *testing.T) {
	reg := NewRegistry()
	obs := &testObserver{}
	reg.Subscribe(obs)

	p := unsafe.Pointer(new(byte))
	reg.Add(p, 8, "conv")
	reg.Handoff(p, "consumer")
	reg.Remove(p)

	if len(obs.events) != 3 {
		t.Fatalf("got %d events, want 3", len(obs.events))
	}
	want := []EventType{EventAlloc, EventHandoff, EventFree}
	for i, e := range obs.events {
		if e.Type != want[i] {
			t.Fatalf("event[%d].Type = %d, want %d", i, e.Type, want[i])
		}
	}
	if obs.events[1].Origin != "consumer" {
		t.Fatalf("handoff origin = %q, want %q", obs.events[1].Origin, "consumer")
	}

	reg.Unsubscribe(obs)
	reg.Add(p, 8, "conv")
	if len(obs.events) != 3 {
		t.Fatal("should not receive events after Unsubscribe")
	}
}

func TestRegistry_Leaks(t *testing.T) {
	reg := NewRegistry()
	p1 := unsafe.Pointer(new(byte))
	p2 := unsafe.Pointer(new(byte))

	reg.Add(p1, 4, "a")
	reg.Add(p2, 8, "b")
	reg.Remove(p1)

	leaks := reg.Leaks()
	if len(leaks) != 1 {
		t.Fatalf("got %d leaks, want 1", len(leaks))
	}
	if leaks[0].Ptr != uintptr(p2) || leaks[0].Size != 8 {
		t.Fatalf("leak = %+v, want ptr %#x size 8", leaks[0], uintptr(p2))
	}

	if n := reg.LogLeaks(zap.NewNop()); n != 1 {
		t.Fatalf("LogLeaks = %d, want 1", n)
	}
}

func TestAllocator_TracksLifecycle(t *testing.T) {
	mem := libc.New()
	defer mem.Close()

	reg := NewRegistry()
	tracked := Wrap(mem, reg, "test")

	text, err := ctext.New(tracked, "tracked")
	if err != nil {
		t.Fatal(err)
	}
	if reg.Len() != 1 {
		t.Fatalf("Len() = %d after wrap, want 1", reg.Len())
	}

	text.Close()
	if reg.Len() != 0 {
		t.Fatalf("Len() = %d after close, want 0", reg.Len())
	}
}

func TestAllocator_ExtractThenManualFree(t *testing.T) {
	mem := libc.New()
	defer mem.Close()

	reg := NewRegistry()
	tracked := Wrap(mem, reg, "test")

	text, err := ctext.New(tracked, "handed off")
	if err != nil {
		t.Fatal(err)
	}

	ptr := text.Extract()
	reg.Handoff(ptr, "consumer")
	if reg.Len() != 1 {
		t.Fatal("extracted allocation is still live until the consumer frees it")
	}

	// Close after extract must not free or untrack anything.
	text.Close()
	if reg.Len() != 1 {
		t.Fatal("Close after Extract must not release the allocation")
	}

	tracked.Free(ptr)
	if reg.Len() != 0 {
		t.Fatalf("Len() = %d after consumer free, want 0", reg.Len())
	}
}
