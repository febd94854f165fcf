// Package mhd implements the masked Hamming distance kernel, the Sample
// type, and the MHD Memory: a deduplicated, content-addressable store of
// scored bit vectors used to steer branch-and-bound search.
package mhd

import "github.com/gomlx/exceptions"

// These are the kernel/memory invariant violations from the design: they
// indicate a programming error (mismatched widths, a non-deterministic
// scoring function) rather than a recoverable runtime condition, so they are
// raised as panics via exceptions.Panicf and only ever recovered at an outer
// boundary with exceptions.TryCatch.

// ArgumentMismatch panics when the buffers passed to a kernel operation
// (distance, truncated distance) don't share the same octet length.
// NewMhdMemoryFromParams also raises it for an unknown policy name.
func argumentMismatch(format string, args ...any) {
	exceptions.Panicf("mhd: ArgumentMismatch: "+format, args...)
}

// WidthMismatch panics when a Sample's width disagrees with the memory it is
// being written into or read against.
func widthMismatch(format string, args ...any) {
	exceptions.Panicf("mhd: WidthMismatch: "+format, args...)
}

// InconsistentScore panics when a sample's bytes are already present in a
// memory under a different score: re-insertion must be idempotent, so this
// can only happen if the caller's scoring function is not a pure function of
// the bit vector.
func inconsistentScore(format string, args ...any) {
	exceptions.Panicf("mhd: InconsistentScore: "+format, args...)
}
