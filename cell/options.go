package cell

// DefaultCapacity is how many patches each log can hold before its
// backing array grows, when no hint is given.
const DefaultCapacity = 16

// Options holds the configuration for a cell.
type Options struct {
	// CapacityHint pre-sizes the staged and committed patch logs.
	// Zero means DefaultCapacity.
	CapacityHint int

	// VerifyReplay enables the debug invariant check: after every
	// replay, the replayed buffer is compared against the writer's
	// local copy and the writer panics on mismatch. A mismatch means a
	// non-deterministic patch; without this check the two buffers
	// silently diverge. Costs one deep comparison per push.
	VerifyReplay bool
}

// DefaultOptions returns the default configuration.
func DefaultOptions() Options {
	return Options{
		CapacityHint: DefaultCapacity,
		VerifyReplay: false,
	}
}
