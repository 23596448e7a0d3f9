// Package ctext implements the NUL-terminated foreign text representation:
// a contiguous byte buffer followed by exactly one zero byte that is not
// counted in the logical length.
//
// Conversions into this representation copy the bytes into freshly
// allocated foreign memory and append the terminator; conversions out are
// zero-copy views that stay valid only while the wrapper owning the buffer
// is live. Text is treated as an opaque byte sequence: the only rule
// enforced is that inputs must not contain an interior NUL, which is
// rejected with a recoverable error rather than silently truncated.
package ctext
