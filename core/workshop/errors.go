package workshop

import "errors"

var (
	// ErrNotFound means the requested item does not exist upstream.
	ErrNotFound = errors.New("workshop item not found")

	// ErrUnreachable means upstream could not be reached or answered with a
	// server-side failure. Distinguished from ErrNotFound so callers can
	// retry later.
	ErrUnreachable = errors.New("workshop unreachable")

	// ErrDepthExceeded is returned alongside a still-valid partial graph
	// when dependency edges existed beyond the requested depth. It is
	// informational; the graph it accompanies is usable.
	ErrDepthExceeded = errors.New("dependency depth limit reached")

	// ErrBadIdentifier means the given value is not a syntactically valid
	// workshop identifier.
	ErrBadIdentifier = errors.New("invalid workshop identifier")

	// ErrDepthOutOfRange means the requested max depth is below 1 or above
	// MaxDepthCeiling.
	ErrDepthOutOfRange = errors.New("max depth out of range")
)
