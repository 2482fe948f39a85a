package engine

// Config controls how a query is spread across segments.
type Config struct {
	// Sampling enables per-segment sampling limits. When disabled every
	// segment is asked for the full k.
	Sampling bool

	// Rerun re-searches, with the full k, sampled segments whose whole
	// sample made it into the merged top-k.
	Rerun bool

	// DefaultEfLimit is used for segments that do not report their own
	// search breadth. 0 = treat such segments as plain (never sampled).
	DefaultEfLimit int

	// MaxConcurrency caps parallel segment searches per query.
	// 0 = GOMAXPROCS.
	MaxConcurrency int
}

// DefaultConfig returns sampling with reruns enabled.
func DefaultConfig() Config {
	return Config{
		Sampling:       true,
		Rerun:          true,
		DefaultEfLimit: 0,
		MaxConcurrency: 0,
	}
}
