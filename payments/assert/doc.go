// Package assert checks runtime invariants without panicking.
//
// A failed check is logged, counted and recorded on the active span, and
// returned as an *AssertionError wrapping ErrAssertionFailed.
package assert
