package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in the pointer lifecycle the error occurred
type Phase string

const (
	PhaseAlloc   Phase = "alloc"   // foreign allocation
	PhaseConvert Phase = "convert" // copying Go values into foreign memory
	PhaseAccess  Phase = "access"  // transparent access through a wrapper
	PhaseHandoff Phase = "handoff" // ownership transfer out of a wrapper
)

// Kind categorizes the error
type Kind string

const (
	KindAllocation    Kind = "allocation"
	KindEmbeddedNUL   Kind = "embedded_nul"
	KindConsumed      Kind = "consumed"
	KindNullPointer   Kind = "null_pointer"
	KindMissingExport Kind = "missing_export"
	KindOutOfBounds   Kind = "out_of_bounds"
	KindClosed        Kind = "closed"
)

// Error is the structured error type used throughout the library
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Detail string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Convenience constructors for common error patterns

// AllocationFailed creates an allocation failure error
func AllocationFailed(size int, cause error) *Error {
	return &Error{
		Phase:  PhaseAlloc,
		Kind:   KindAllocation,
		Detail: fmt.Sprintf("failed to allocate %d bytes", size),
		Cause:  cause,
		Value:  size,
	}
}

// EmbeddedNUL creates an error for text containing an interior terminator byte
func EmbeddedNUL(pos int) *Error {
	return &Error{
		Phase:  PhaseConvert,
		Kind:   KindEmbeddedNUL,
		Detail: fmt.Sprintf("input contains NUL byte at offset %d", pos),
		Value:  pos,
	}
}

// Consumed creates an error for operations on a wrapper whose ownership has
// already been extracted or disposed
func Consumed(op string) *Error {
	return &Error{
		Phase:  PhaseAccess,
		Kind:   KindConsumed,
		Detail: fmt.Sprintf("%s on consumed wrapper", op),
	}
}

// NullPointer creates an error for access through a nil-backed wrapper
func NullPointer(op string) *Error {
	return &Error{
		Phase:  PhaseAccess,
		Kind:   KindNullPointer,
		Detail: fmt.Sprintf("%s on nil pointer", op),
	}
}

// MissingExport creates an error for a guest module lacking a required export
func MissingExport(name string) *Error {
	return &Error{
		Phase:  PhaseAlloc,
		Kind:   KindMissingExport,
		Detail: fmt.Sprintf("guest does not export %q", name),
	}
}

// OutOfBounds creates an error for a guest allocation outside linear memory
func OutOfBounds(offset uint32, size int) *Error {
	return &Error{
		Phase:  PhaseAlloc,
		Kind:   KindOutOfBounds,
		Detail: fmt.Sprintf("guest allocation [%#x, +%d) outside linear memory", offset, size),
		Value:  offset,
	}
}

// Closed creates an error for operations on a closed scope or allocator
func Closed(what string) *Error {
	return &Error{
		Phase:  PhaseAlloc,
		Kind:   KindClosed,
		Detail: fmt.Sprintf("%s is closed", what),
	}
}
