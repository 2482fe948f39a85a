package testutil

import (
	"math/rand"
	"slices"
	"sync"

	"github.com/hupe1980/segsample/distance"
	"github.com/hupe1980/segsample/model"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float32 returns, as a float32, a pseudo-random number in [0.0,1.0).
func (r *RNG) Float32() float32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float32()
}

// Float64 returns, as a float64, a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// FillUniform fills dst with random values in range [0, 1).
// Locks only once per call (preferred over calling Float32 in a loop).
func (r *RNG) FillUniform(dst []float32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range dst {
		dst[i] = r.rand.Float32()
	}
}

// UniformVectors generates random vectors with values in range [0, 1).
// Uses a single backing array for efficiency.
func (r *RNG) UniformVectors(num int, dimensions int) [][]float32 {
	r.mu.Lock()
	defer r.mu.Unlock()

	data := make([]float32, num*dimensions)
	vectors := make([][]float32, num)

	for i := range num {
		vec := data[i*dimensions : (i+1)*dimensions]
		for j := range vec {
			vec[j] = r.rand.Float32()
		}
		vectors[i] = vec
	}

	return vectors
}

// Partition splits vectors into numSegments contiguous chunks of random,
// non-empty sizes. Useful for simulating unevenly sized segments.
func (r *RNG) Partition(vectors [][]float32, numSegments int) [][][]float32 {
	if numSegments <= 1 || len(vectors) <= numSegments {
		return [][][]float32{vectors}
	}

	r.mu.Lock()
	cuts := make([]int, 0, numSegments-1)
	seen := make(map[int]struct{}, numSegments)
	for len(cuts) < numSegments-1 {
		c := 1 + r.rand.Intn(len(vectors)-1)
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		cuts = append(cuts, c)
	}
	r.mu.Unlock()

	slices.Sort(cuts)
	out := make([][][]float32, 0, numSegments)
	prev := 0
	for _, c := range cuts {
		out = append(out, vectors[prev:c])
		prev = c
	}
	return append(out, vectors[prev:])
}

// BruteForceSearch performs exact squared-L2 search over segments for ground
// truth. Segment i gets SegmentID i, rows are numbered by position.
func BruteForceSearch(segments [][][]float32, query []float32, k int) []model.Candidate {
	var all []model.Candidate
	for s, vectors := range segments {
		for i, v := range vectors {
			all = append(all, model.Candidate{
				Loc:   model.Location{SegmentID: model.SegmentID(s), RowID: model.RowID(i)},
				Score: distance.SquaredL2(query, v),
			})
		}
	}

	slices.SortFunc(all, func(a, b model.Candidate) int {
		switch {
		case model.Better(a, b, false):
			return -1
		case model.Better(b, a, false):
			return 1
		}
		return 0
	})

	if len(all) > k {
		all = all[:k]
	}
	return all
}

// ComputeRecall computes recall@k by comparing approximate results against ground truth.
func ComputeRecall(groundTruth, approximate []model.Candidate) float64 {
	if len(groundTruth) == 0 || len(approximate) == 0 {
		if len(groundTruth) == 0 && len(approximate) == 0 {
			return 1.0
		}
		return 0.0
	}

	k := min(len(approximate), len(groundTruth))

	truthSet := make(map[model.Location]struct{}, k)
	for i := range k {
		truthSet[groundTruth[i].Loc] = struct{}{}
	}

	hits := 0
	for _, r := range approximate {
		if _, ok := truthSet[r.Loc]; ok {
			hits++
		}
	}

	return float64(hits) / float64(k)
}
