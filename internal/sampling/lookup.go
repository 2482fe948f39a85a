package sampling

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"slices"
)

// ErrNaNLambda is the panic value (wrapped) raised when the expected hit
// count cannot be ordered against the table.
var ErrNaNLambda = errors.New("sampling: lambda is NaN")

// FindSearchSamplingOverPointDistribution returns the number of points a
// segment should sample when n results are requested globally and a point
// lives in the segment with probability p.
//
// The expected hit count lambda = p*n is resolved to the first table entry
// whose lambda is >= the target, so sizes round up. Among equal lambdas the
// leftmost entry wins. Targets past the last finite lambda (including +Inf)
// resolve to the sentinel, see Unbounded. Inputs are not validated: negative
// targets resolve to the smallest entry.
//
// Panics if p*n is NaN.
func FindSearchSamplingOverPointDistribution(n, p float64) int {
	return lookup(poissonSearchSampling[:], p*n).SampleSize
}

// Find resolves an already computed expected hit count against the table.
// Same rounding and panics as FindSearchSamplingOverPointDistribution.
func Find(lambda float64) Entry {
	return lookup(poissonSearchSampling[:], lambda)
}

func lookup(entries []Entry, target float64) Entry {
	if math.IsNaN(target) {
		panic(fmt.Errorf("%w: cannot order against sampling table", ErrNaNLambda))
	}

	// BinarySearchFunc yields the leftmost index with Lambda >= target.
	i, _ := slices.BinarySearchFunc(entries, target, func(e Entry, t float64) int {
		return cmp.Compare(e.Lambda, t)
	})
	if i == len(entries) {
		// Only +Inf sorts after the MaxFloat64 sentinel.
		i = len(entries) - 1
	}
	return entries[i]
}
