package assemble

import "errors"

var (
	// ErrInvalidChain is returned when a chain breaks the overlap invariant
	// where a valid one is required.
	ErrInvalidChain = errors.New("chain is not valid")

	// ErrBadOverlap is returned for an overlap length below one.
	ErrBadOverlap = errors.New("overlap length must be at least 1")
)
