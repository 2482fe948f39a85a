package engine

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/segsample/internal/searcher"
	"github.com/hupe1980/segsample/model"
)

// SearchStats describes how a query was spread across segments.
type SearchStats struct {
	// Segments is the number of registered segments.
	Segments int
	// Searched is the number of segments queried in the first round.
	Searched int
	// Sampled is the number of segments queried with a limit below k.
	Sampled int
	// Reruns is the number of sampled segments queried again with k.
	Reruns int
	// TotalPoints is the live point count across segments at planning time.
	TotalPoints int
}

// Search returns the k best candidates across all segments, best first.
func (e *Engine) Search(ctx context.Context, q []float32, k int) ([]model.Candidate, error) {
	res, _, err := e.SearchWithStats(ctx, q, k)
	return res, err
}

// SearchWithStats is Search that also reports the sampling decisions taken.
func (e *Engine) SearchWithStats(ctx context.Context, q []float32, k int) (res []model.Candidate, stats SearchStats, err error) {
	start := time.Now()
	defer func() {
		e.metrics.OnSearch(time.Since(start), k, len(res), err)
	}()

	if e.closed.Load() {
		return nil, stats, ErrClosed
	}
	if k <= 0 {
		return nil, stats, fmt.Errorf("%w: k must be positive, got %d", ErrInvalidArgument, k)
	}

	plan := e.Plan(k)
	stats.Segments = len(plan.Segments)
	stats.TotalPoints = plan.TotalPoints
	stats.Sampled = plan.SampledCount()

	for _, sp := range plan.Segments {
		if sp.Limit > 0 {
			stats.Searched++
		}
		e.logger.DebugContext(ctx, "segment sampling",
			"segment", sp.Segment.ID(),
			"points", sp.Points,
			"probability", sp.Probability,
			"limit", sp.Limit,
			"sampled", sp.Sampled,
		)
	}

	limits := make([]int, len(plan.Segments))
	for i, sp := range plan.Segments {
		limits[i] = sp.Limit
	}

	results, err := e.fanOut(ctx, plan, q, limits)
	if err != nil {
		return nil, stats, err
	}

	top := e.merge(k, results)

	if e.cfg.Rerun {
		reruns := e.undersampled(plan, results, top)
		if len(reruns) > 0 {
			stats.Reruns = len(reruns)

			rerunLimits := make([]int, len(plan.Segments))
			for _, i := range reruns {
				sp := plan.Segments[i]
				rerunLimits[i] = k
				e.metrics.OnRerun(sp.Segment.ID(), sp.Limit, k)
				e.logger.DebugContext(ctx, "segment rerun",
					"segment", sp.Segment.ID(),
					"sampled_limit", sp.Limit,
					"limit", k,
				)
			}

			rerun, err := e.fanOut(ctx, plan, q, rerunLimits)
			if err != nil {
				return nil, stats, err
			}
			for _, i := range reruns {
				results[i] = rerun[i]
			}
			top = e.merge(k, results)
		}
	}

	return top.Sorted(), stats, nil
}

// fanOut searches every segment with a positive limit in parallel.
// results[i] belongs to plan.Segments[i].
func (e *Engine) fanOut(ctx context.Context, plan Plan, q []float32, limits []int) ([][]model.Candidate, error) {
	results := make([][]model.Candidate, len(plan.Segments))

	concurrency := e.cfg.MaxConcurrency
	if concurrency <= 0 {
		concurrency = runtime.GOMAXPROCS(0)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, sp := range plan.Segments {
		limit := limits[i]
		if limit <= 0 {
			continue
		}
		sampled := limit < plan.K

		g.Go(func() error {
			if err := e.resourceController.AcquireSearch(gctx); err != nil {
				return err
			}
			defer e.resourceController.ReleaseSearch()

			if err := e.resourceController.AcquireScan(gctx, limit); err != nil {
				return err
			}

			id := sp.Segment.ID()
			segStart := time.Now()
			res, err := sp.Segment.Search(gctx, q, limit)
			e.metrics.OnSegmentSearch(id, limit, sampled, time.Since(segStart), err)
			if err != nil {
				e.logger.ErrorContext(gctx, "segment search failed", "segment", id, "limit", limit, "error", err)
				return fmt.Errorf("segment %d: %w", id, err)
			}

			if len(res) > limit {
				res = res[:limit]
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (e *Engine) merge(k int, results [][]model.Candidate) *searcher.TopK {
	top := searcher.NewTopK(k, e.metric.Descending())
	for _, res := range results {
		for _, c := range res {
			top.Offer(c)
		}
	}
	return top
}

// undersampled returns the plan indexes of sampled segments that returned
// their full sample while their worst candidate still ranks within the
// merged top-k. Such a segment may hold more relevant points than it was
// asked for.
func (e *Engine) undersampled(plan Plan, results [][]model.Candidate, top *searcher.TopK) []int {
	desc := e.metric.Descending()
	worst, full := top.Worst()

	var idx []int
	for i, sp := range plan.Segments {
		if !sp.Sampled || len(results[i]) < sp.Limit {
			continue
		}
		segWorst := results[i][len(results[i])-1]
		if full && model.Better(worst, segWorst, desc) {
			continue
		}
		idx = append(idx, i)
	}
	return idx
}
