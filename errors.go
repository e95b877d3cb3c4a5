package jot

import "errors"

// Sentinel errors surfaced by constructors and conversions. Most lookup
// misses are reported as absent booleans rather than errors; these cover
// the cases where a caller needs to distinguish why a value was refused.
var (
	// ErrNonFinite is returned when a number is constructed from NaN or
	// an infinity.
	ErrNonFinite = errors.New("jot: non-finite number")

	// ErrTypeMismatch is returned by the error-shaped accessors when a
	// handle holds a different kind than the operation expects. The As*
	// and Into* forms report the same condition as an absent boolean.
	ErrTypeMismatch = errors.New("jot: type mismatch")

	// ErrSharedMutation is returned when a mutable borrow is requested on
	// a composite with more than one live handle. Mutating methods never
	// fail this way; they copy on write instead.
	ErrSharedMutation = errors.New("jot: mutation of shared composite")
)
