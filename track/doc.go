// Package track provides live-allocation bookkeeping for foreign memory.
//
// A Registry records every outstanding allocation; the Allocator decorator
// feeds it automatically from any cmem.Allocator. Observers receive
// lifecycle events (alloc, free, ownership hand-off), and Leaks/LogLeaks
// report whatever is still live; after all owners have closed, that set
// should be empty.
//
//	reg := track.NewRegistry()
//	mem := track.Wrap(libc.New(), reg, "parser")
//
//	text, _ := ctext.New(mem, "hello")
//	text.Close()
//
//	if n := reg.LogLeaks(logger); n > 0 {
//	    // double-check every Extract was balanced by a free
//	}
//
// Tracking is bookkeeping only: it never changes when or whether memory is
// released, and untracked pointers pass through Free untouched.
package track
