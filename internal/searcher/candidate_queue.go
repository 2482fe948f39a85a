package searcher

import (
	"slices"

	"github.com/hupe1980/segsample/model"
)

const heapArity = 4

// maxPrealloc bounds the capacity reserved up front by NewTopK.
const maxPrealloc = 4096

// CandidateHeap is a heap of model.Candidate kept "worst first", so the root
// is the eviction candidate when collecting top-k results.
type CandidateHeap struct {
	Candidates []model.Candidate
	descending bool // true if we want largest scores (Dot/Cosine), false for smallest (L2)
}

// worse reports whether a is worse than b under the metric direction.
// Tie-breaker is (SegmentID, RowID) descending so larger locations are evicted first.
func worse(a, b model.Candidate, descending bool) bool {
	return model.Better(b, a, descending)
}

// NewCandidateHeap creates a new CandidateHeap.
func NewCandidateHeap(capacity int, descending bool) *CandidateHeap {
	return &CandidateHeap{
		Candidates: make([]model.Candidate, 0, capacity),
		descending: descending,
	}
}

// Reset clears the heap for reuse.
func (h *CandidateHeap) Reset(descending bool) {
	h.Candidates = h.Candidates[:0]
	h.descending = descending
}

// Descending returns true if the heap is configured for descending scores (Dot/Cosine).
func (h *CandidateHeap) Descending() bool {
	return h.descending
}

func (h *CandidateHeap) Len() int { return len(h.Candidates) }

func (h *CandidateHeap) Push(x model.Candidate) {
	h.Candidates = append(h.Candidates, x)
	h.up(h.Len() - 1)
}

func (h *CandidateHeap) Pop() model.Candidate {
	n := h.Len() - 1
	h.Candidates[0], h.Candidates[n] = h.Candidates[n], h.Candidates[0]
	h.down(0, n)
	x := h.Candidates[n]
	h.Candidates = h.Candidates[:n]
	return x
}

// Peek returns the worst element without removing it.
// Panics if the heap is empty - caller should check Len() > 0.
func (h *CandidateHeap) Peek() model.Candidate {
	return h.Candidates[0]
}

// ReplaceTop replaces the top element and restores heap invariant.
// Panics if the heap is empty - caller should check Len() > 0.
func (h *CandidateHeap) ReplaceTop(x model.Candidate) {
	h.Candidates[0] = x
	h.down(0, h.Len())
}

// 4-ary heap: parent = (j-1)/4.
func (h *CandidateHeap) up(j int) {
	item := h.Candidates[j]
	for j > 0 {
		i := (j - 1) / heapArity
		if !worse(item, h.Candidates[i], h.descending) {
			break
		}
		h.Candidates[j] = h.Candidates[i]
		j = i
	}
	h.Candidates[j] = item
}

// 4-ary heap: first child = 4*i+1, up to 4 children to compare.
func (h *CandidateHeap) down(i0, n int) {
	i := i0
	item := h.Candidates[i]
	for {
		firstChild := heapArity*i + 1
		if firstChild >= n {
			break
		}

		best := firstChild
		lastChild := min(firstChild+heapArity, n)
		for c := firstChild + 1; c < lastChild; c++ {
			if worse(h.Candidates[c], h.Candidates[best], h.descending) {
				best = c
			}
		}

		if !worse(h.Candidates[best], item, h.descending) {
			break
		}
		h.Candidates[i] = h.Candidates[best]
		i = best
	}
	h.Candidates[i] = item
}

// TopK collects the k best candidates offered to it.
type TopK struct {
	k    int
	heap *CandidateHeap
}

// NewTopK returns a collector for the k best candidates.
func NewTopK(k int, descending bool) *TopK {
	return &TopK{
		k:    k,
		heap: NewCandidateHeap(max(min(k, maxPrealloc), 0), descending),
	}
}

// Offer adds c if it belongs to the current top-k.
// Reports whether c was kept.
func (t *TopK) Offer(c model.Candidate) bool {
	if t.k <= 0 {
		return false
	}
	if t.heap.Len() < t.k {
		t.heap.Push(c)
		return true
	}
	if model.Better(c, t.heap.Peek(), t.heap.descending) {
		t.heap.ReplaceTop(c)
		return true
	}
	return false
}

// Len returns the number of collected candidates.
func (t *TopK) Len() int { return t.heap.Len() }

// Full reports whether k candidates have been collected.
func (t *TopK) Full() bool { return t.heap.Len() >= t.k }

// Worst returns the k-th best candidate collected so far.
// The second result is false until the collector is full.
func (t *TopK) Worst() (model.Candidate, bool) {
	if !t.Full() || t.heap.Len() == 0 {
		return model.Candidate{}, false
	}
	return t.heap.Peek(), true
}

// Sorted returns the collected candidates best first.
func (t *TopK) Sorted() []model.Candidate {
	out := slices.Clone(t.heap.Candidates)
	desc := t.heap.descending
	slices.SortFunc(out, func(a, b model.Candidate) int {
		switch {
		case model.Better(a, b, desc):
			return -1
		case model.Better(b, a, desc):
			return 1
		}
		return 0
	})
	return out
}
