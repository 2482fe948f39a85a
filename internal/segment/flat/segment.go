package flat

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/segsample/distance"
	"github.com/hupe1980/segsample/internal/searcher"
	"github.com/hupe1980/segsample/internal/segment"
	"github.com/hupe1980/segsample/model"
)

// cancelCheckInterval is how many rows are scanned between context checks.
const cancelCheckInterval = 1024

// Option configures a Segment.
type Option func(*Segment)

// WithEfLimit marks the segment as indexed with the given search breadth.
func WithEfLimit(ef int) Option {
	return func(s *Segment) {
		s.efLimit = ef
	}
}

// Segment is an in-memory segment searched by brute force.
type Segment struct {
	id     model.SegmentID
	dim    int
	metric distance.Metric
	dist   distance.Func

	efLimit int

	mu      sync.RWMutex
	vectors [][]float32
	deleted *roaring.Bitmap
}

var (
	_ segment.Segment = (*Segment)(nil)
	_ segment.Indexed = (*Segment)(nil)
)

// New creates an empty segment.
func New(id model.SegmentID, dim int, metric distance.Metric, opts ...Option) (*Segment, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("invalid dimension: %d", dim)
	}
	dist, err := distance.Provider(metric)
	if err != nil {
		return nil, err
	}

	s := &Segment{
		id:      id,
		dim:     dim,
		metric:  metric,
		dist:    dist,
		deleted: roaring.New(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

// ID implements segment.Segment.
func (s *Segment) ID() model.SegmentID { return s.id }

// Dimension returns the vector dimensionality.
func (s *Segment) Dimension() int { return s.dim }

// Metric returns the distance metric.
func (s *Segment) Metric() distance.Metric { return s.metric }

// EfLimit implements segment.Indexed.
func (s *Segment) EfLimit() int { return s.efLimit }

// Len implements segment.Segment. Deleted rows are not counted.
func (s *Segment) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.vectors) - int(s.deleted.GetCardinality())
}

// RowCount returns the number of rows ever added, deleted ones included.
func (s *Segment) RowCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.vectors)
}

// Add appends a vector and returns its row.
// The vector is copied; Cosine segments store it normalized.
func (s *Segment) Add(vec []float32) (model.RowID, error) {
	if len(vec) != s.dim {
		return 0, &segment.ErrDimensionMismatch{Expected: s.dim, Actual: len(vec)}
	}

	v := slices.Clone(vec)
	if s.metric == distance.MetricCosine {
		distance.NormalizeL2InPlace(v)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.vectors = append(s.vectors, v)
	return model.RowID(len(s.vectors) - 1), nil
}

// Delete marks row as deleted.
func (s *Segment) Delete(row model.RowID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if int(row) >= len(s.vectors) || s.deleted.Contains(uint32(row)) {
		return fmt.Errorf("%w: %v", segment.ErrRowNotFound, model.Location{SegmentID: s.id, RowID: row})
	}
	s.deleted.Add(uint32(row))
	return nil
}

// Search implements segment.Segment with an exact scan.
func (s *Segment) Search(ctx context.Context, query []float32, limit int) ([]model.Candidate, error) {
	if limit < 0 {
		return nil, segment.ErrInvalidLimit
	}
	if len(query) != s.dim {
		return nil, &segment.ErrDimensionMismatch{Expected: s.dim, Actual: len(query)}
	}
	if limit == 0 {
		return nil, nil
	}

	q := query
	if s.metric == distance.MetricCosine {
		q, _ = distance.NormalizeL2Copy(query)
		if q == nil {
			q = query
		}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	top := searcher.NewTopK(min(limit, len(s.vectors)), s.metric.Descending())
	for i, v := range s.vectors {
		if i%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if s.deleted.Contains(uint32(i)) {
			continue
		}
		top.Offer(model.Candidate{
			Loc:   model.Location{SegmentID: s.id, RowID: model.RowID(i)},
			Score: s.dist(q, v),
		})
	}

	return top.Sorted(), nil
}
