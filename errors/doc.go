// Package errors provides structured error types for the cmem library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error
// category). The Error type carries a human-readable detail, the offending
// value when useful, and a cause chain.
//
// Use the convenience constructors for the common cases:
//
//	err := errors.AllocationFailed(size, cause)
//	err := errors.EmbeddedNUL(pos)
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
