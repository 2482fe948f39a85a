package sampling

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrEmptyTable is returned by Validate for a table without entries.
	ErrEmptyTable = errors.New("sampling table is empty")

	// ErrMissingSentinel is returned by Validate when the last entry is not the unbounded sentinel.
	ErrMissingSentinel = errors.New("sampling table is not sentinel-terminated")

	// ErrUnsorted is returned by Validate when lambdas are not ascending.
	ErrUnsorted = errors.New("sampling table lambdas are not ascending")

	// ErrNonMonotonic is returned by Validate when a sample size decreases as lambda grows.
	ErrNonMonotonic = errors.New("sampling table sizes are not monotonic")

	// ErrInvalidEntry is returned by Validate for NaN lambdas or non-positive sizes.
	ErrInvalidEntry = errors.New("invalid sampling table entry")
)

// Entry maps an expected hit count (the Poisson lambda) to the number of
// points a segment has to sample locally.
type Entry struct {
	Lambda     float64
	SampleSize int
}

// SentinelEntry terminates every table. It matches any finite lambda that is
// larger than all generated ones and means "sample without an upper bound".
var SentinelEntry = Entry{Lambda: math.MaxFloat64, SampleSize: math.MaxInt}

// IsSentinel reports whether e is the unbounded sentinel.
func (e Entry) IsSentinel() bool {
	return e == SentinelEntry
}

func (e Entry) String() string {
	if e.IsSentinel() {
		return "(+inf -> unbounded)"
	}
	return fmt.Sprintf("(%g -> %d)", e.Lambda, e.SampleSize)
}

// Unbounded reports whether size is the sentinel sample size, i.e. the caller
// should not cap the number of candidates examined in the segment.
func Unbounded(size int) bool {
	return size == SentinelEntry.SampleSize
}

// Len returns the number of table entries, sentinel included.
func Len() int {
	return len(poissonSearchSampling)
}

// At returns the i-th entry in ascending lambda order.
// Panics if i is out of range.
func At(i int) Entry {
	return poissonSearchSampling[i]
}

// Table returns a copy of the full table, sentinel included.
func Table() []Entry {
	out := make([]Entry, len(poissonSearchSampling))
	copy(out, poissonSearchSampling[:])
	return out
}

// Sentinel returns the last table entry.
func Sentinel() Entry {
	return poissonSearchSampling[len(poissonSearchSampling)-1]
}

// MaxFiniteLambda returns the largest lambda that still maps to a bounded
// sample size.
func MaxFiniteLambda() float64 {
	if len(poissonSearchSampling) < 2 {
		return 0
	}
	return poissonSearchSampling[len(poissonSearchSampling)-2].Lambda
}

// Validate checks the table invariants: non-empty, no NaN lambdas, positive
// sizes, lambdas ascending (duplicates allowed), sizes non-decreasing and a
// trailing sentinel.
func Validate(entries []Entry) error {
	if len(entries) == 0 {
		return ErrEmptyTable
	}

	for i, e := range entries {
		if math.IsNaN(e.Lambda) || e.SampleSize <= 0 {
			return fmt.Errorf("%w: index %d %v", ErrInvalidEntry, i, e)
		}
		if i == 0 {
			continue
		}
		prev := entries[i-1]
		if e.Lambda < prev.Lambda {
			return fmt.Errorf("%w: index %d (%g < %g)", ErrUnsorted, i, e.Lambda, prev.Lambda)
		}
		if e.SampleSize < prev.SampleSize {
			return fmt.Errorf("%w: index %d (%d < %d)", ErrNonMonotonic, i, e.SampleSize, prev.SampleSize)
		}
	}

	if !entries[len(entries)-1].IsSentinel() {
		return ErrMissingSentinel
	}
	return nil
}
