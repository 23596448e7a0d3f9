// Package cmem provides ownership-tagging wrappers for pointers that come
// from a foreign, C-style allocator and must coexist with Go-managed memory.
//
// A foreign pointer has no Go-level owner: nothing tracks who may still read
// it and nothing frees it when the last reference disappears. Exposing it as
// a bare unsafe.Pointer invites double-frees, use-after-free, and leaks on
// early-return paths. This library wraps such pointers in small typed
// envelopes that guarantee the paired release function runs exactly once, on
// every exit path, unless ownership is explicitly handed off first.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct
// responsibilities:
//
//	cmem/          Root package with the Allocator and Rep interfaces
//	├── box/       Owned, Scoped, and Semi wrapper types
//	├── ctext/     NUL-terminated foreign text representation
//	├── libc/      Default malloc/free allocator outside the Go heap
//	├── wazmem/    Allocator adapter over a WASM guest's malloc/free
//	├── track/     Live-allocation registry for leak detection
//	└── errors/    Structured error types
//
// # Ownership Shapes
//
// Three wrapper types cover the ways a foreign pointer can be held:
//
//	box.Owned[T]   Fully owned, unbound. Disposes on Close unless Extract
//	               transferred ownership out first.
//	box.Scoped[T]  Fully owned, attached to a box.Scope. The scope's Close
//	               disposes everything still armed, so one deferred call
//	               covers normal returns, early errors, and panics.
//	box.Semi[T]    Partially owned: will dispose on Close but did not
//	               necessarily create the pointer. Reinterpretable to and
//	               from Owned[T] at zero cost.
//
// # Quick Start
//
// Copy a Go string into foreign memory, use it, and hand it off:
//
//	mem := libc.New()
//	defer mem.Close()
//
//	text, err := ctext.New(mem, "Hello, world!")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(text.Value()) // zero-copy view of the foreign buffer
//
//	// Transfer ownership to a consumer that frees the buffer itself.
//	consume(text.Extract())
//
// If Extract is never called, a deferred text.Close() releases the buffer.
//
// # The Rep Capability
//
// Each wrapped type binds its foreign representation through a Rep[T]: how
// to view raw memory as T without copying, and how to release it. PlainRep
// covers representations whose layout matches a Go struct and whose teardown
// is a plain Free; types with their own destructor supply a custom Rep.
//
// # Safety Model
//
// Wrapping is unchecked: the caller attests the pointer came from the
// allocator family the Rep disposes through. That provenance contract is the
// one class of undefined behavior this library accepts in exchange for
// zero-overhead wrapping. Everything downstream is checked or structural:
// Extract disarms teardown, Close is idempotent, and access to a consumed
// wrapper panics rather than dereferencing stale memory.
//
// # Thread Safety
//
// Wrapper values and Scope are single-goroutine values. Allocators and the
// track.Registry are safe for concurrent use.
package cmem
