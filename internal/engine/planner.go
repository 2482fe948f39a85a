package engine

import (
	"github.com/hupe1980/segsample/internal/sampling"
	"github.com/hupe1980/segsample/internal/segment"
)

// SamplingLimit returns how many candidates to request from a segment that
// holds segmentPoints of the collection's totalPoints live points when limit
// results are wanted overall.
//
//   - empty segments are not searched (0)
//   - plain segments (efLimit <= 0) get the full limit
//   - indexed segments get max(efLimit, poisson sample), capped at limit
//
// The unbounded table sentinel therefore collapses to limit.
func SamplingLimit(limit, efLimit, segmentPoints, totalPoints int) int {
	if segmentPoints <= 0 || limit <= 0 {
		return 0
	}
	if efLimit <= 0 || totalPoints <= 0 {
		return limit
	}

	p := float64(segmentPoints) / float64(totalPoints)
	poisson := sampling.FindSearchSamplingOverPointDistribution(float64(limit), p)

	return min(limit, max(efLimit, poisson))
}

// SegmentPlan is the search assignment for one segment.
type SegmentPlan struct {
	Segment segment.Segment

	// Points is the live point count seen while planning.
	Points int

	// Probability is Points / total points (0 when sampling is off).
	Probability float64

	// Limit is the number of candidates to request. 0 = skip.
	Limit int

	// Sampled is true when Limit is below the query's k.
	Sampled bool
}

// Plan assigns limits to every segment of a query.
type Plan struct {
	K           int
	TotalPoints int
	Sampling    bool
	Segments    []SegmentPlan
}

// SampledCount returns the number of segments searched with a reduced limit.
func (p Plan) SampledCount() int {
	var n int
	for _, sp := range p.Segments {
		if sp.Sampled {
			n++
		}
	}
	return n
}

// NewPlan computes per-segment limits for a top-k query. Sampling applies
// only if enabled, more than one segment exists and the collection holds at
// least one live point.
func NewPlan(k int, segments []segment.Segment, cfg Config) Plan {
	plan := Plan{
		K:        k,
		Segments: make([]SegmentPlan, len(segments)),
	}

	for i, seg := range segments {
		n := seg.Len()
		plan.Segments[i] = SegmentPlan{Segment: seg, Points: n}
		plan.TotalPoints += n
	}

	plan.Sampling = cfg.Sampling && len(segments) > 1 && plan.TotalPoints > 0

	for i := range plan.Segments {
		sp := &plan.Segments[i]
		if !plan.Sampling {
			if sp.Points > 0 {
				sp.Limit = k
			}
			continue
		}

		ef := segment.EfLimit(sp.Segment)
		if ef == 0 {
			ef = cfg.DefaultEfLimit
		}
		sp.Probability = float64(sp.Points) / float64(plan.TotalPoints)
		sp.Limit = SamplingLimit(k, ef, sp.Points, plan.TotalPoints)
		sp.Sampled = sp.Limit > 0 && sp.Limit < k
	}

	return plan
}
