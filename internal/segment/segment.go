package segment

import (
	"context"
	"errors"
	"fmt"

	"github.com/hupe1980/segsample/model"
)

var (
	// ErrInvalidLimit is returned when a search limit is negative.
	ErrInvalidLimit = errors.New("limit must not be negative")

	// ErrRowNotFound is returned when a row does not exist or is already deleted.
	ErrRowNotFound = errors.New("row not found")
)

// ErrDimensionMismatch is returned when a vector has the wrong dimensionality.
type ErrDimensionMismatch struct {
	Expected int
	Actual   int
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

// Segment is a searchable partition of the collection.
//
// Implementations must be safe for concurrent use.
type Segment interface {
	// ID returns the segment identifier.
	ID() model.SegmentID

	// Len returns the number of live (searchable) points.
	Len() int

	// Search returns up to limit candidates, best first.
	Search(ctx context.Context, query []float32, limit int) ([]model.Candidate, error)
}

// Indexed is implemented by segments backed by an approximate index.
//
// EfLimit is the index's own search breadth. Segments that do not implement
// Indexed, or report 0, are treated as plain (exhaustive) segments.
type Indexed interface {
	EfLimit() int
}

// EfLimit returns the index search breadth of seg, or 0 for plain segments.
func EfLimit(seg Segment) int {
	if ix, ok := seg.(Indexed); ok {
		return max(ix.EfLimit(), 0)
	}
	return 0
}
