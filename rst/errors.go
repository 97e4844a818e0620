package rst

import "errors"

// Sentinel errors for the RST pipeline (spec.md §7). dag.ErrCycleDetected,
// dag.ErrDisconnected and dag.ErrLengthMissing are the loader's share of
// this taxonomy and are returned directly from dag.Load.
var (
	// ErrUnresolvedTopology indicates the builder hit a multi-way
	// attachment relation it cannot deterministically resolve (e.g. a
	// deletion-site repair with no unique non-last predecessor).
	ErrUnresolvedTopology = errors.New("rst: unresolved graph topology")

	// ErrInvalidResolution indicates Wrap was called with min_res <= 0.
	ErrInvalidResolution = errors.New("rst: min_resolution must be > 0")

	// ErrWrappingIncomplete indicates some regions/segments still had an
	// empty level_range after the wrapping pass completed.
	ErrWrappingIncomplete = errors.New("rst: wrapping left regions without a level_range")

	// ErrLengthOverflow indicates a child's length exceeded its parent's
	// coordinate window during root-to-leaf coordinate assignment.
	ErrLengthOverflow = errors.New("rst: child length exceeds parent window")

	// ErrInternalInvariant indicates a structural invariant was violated
	// during property filling; this should never happen on a Graph that
	// passed dag.Load's validation.
	ErrInternalInvariant = errors.New("rst: internal invariant violated")
)
