// Package box provides the ownership wrapper types for foreign pointers.
//
// # Wrapper Types
//
// Three wrappers share the same lifecycle machinery and differ only in the
// ownership discipline they declare:
//
//	Owned[T]   Fully owned, unbound. Created by Wrap around a pointer the
//	           caller allocated (or by a conversion such as ctext.New).
//	Scoped[T]  Fully owned, attached to a Scope. One deferred Scope.Close
//	           disposes every wrapper still armed, covering early returns
//	           and panics.
//	Semi[T]    Partially owned: created by Adopt around a pointer some other
//	           machinery produced, with the promise that this wrapper's
//	           Close is the correct way to release it.
//
// # Lifecycle
//
// A wrapper holds its pointer from creation until exactly one of:
//
//	Extract()  Ownership transfers out. The raw pointer is returned, the
//	           wrapper is consumed, and teardown is disarmed: Close becomes
//	           a no-op and the caller now owes the release.
//	Close()    The Rep capability's Dispose runs once and the wrapper is
//	           consumed. Further Close calls are no-ops.
//
// Transparent access (Value) on a consumed wrapper panics: the alternative
// is dereferencing memory that may already be freed.
//
// # Reinterpretation
//
// Owned[T] and Semi[T] are deliberately laid out identically, and
// AsSemi/AsOwned convert between them by pointer cast without allocation or
// copy. The layout assumption is confined to reinterpret.go and guarded by
// compile-time assertions there.
package box
