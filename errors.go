package segsample

import (
	"errors"
	"fmt"

	"github.com/hupe1980/segsample/internal/engine"
	"github.com/hupe1980/segsample/internal/sampling"
	"github.com/hupe1980/segsample/internal/segment"
)

var (
	// ErrInvalidK is returned when k is not positive.
	ErrInvalidK = errors.New("k must be positive")

	// ErrClosed is returned when the collection is used after Close.
	ErrClosed = errors.New("collection closed")

	// ErrDuplicateSegment is returned when a segment ID is registered twice.
	ErrDuplicateSegment = errors.New("duplicate segment")

	// ErrSegmentNotFound is returned when a segment ID is unknown.
	ErrSegmentNotFound = errors.New("segment not found")

	// ErrNaNLambda is the panic value (wrapped) of a sampling lookup whose
	// expected count is NaN.
	ErrNaNLambda = sampling.ErrNaNLambda
)

// ErrDimensionMismatch indicates a vector/query dimensionality mismatch.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrDimensionMismatch struct {
	Expected int
	Actual   int
	cause    error
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

func (e *ErrDimensionMismatch) Unwrap() error { return e.cause }

func translateError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, engine.ErrClosed) {
		return fmt.Errorf("%w: %w", ErrClosed, err)
	}
	if errors.Is(err, engine.ErrDuplicateSegment) {
		return fmt.Errorf("%w: %w", ErrDuplicateSegment, err)
	}
	if errors.Is(err, engine.ErrSegmentNotFound) {
		return fmt.Errorf("%w: %w", ErrSegmentNotFound, err)
	}

	var dm *segment.ErrDimensionMismatch
	if errors.As(err, &dm) {
		return &ErrDimensionMismatch{Expected: dm.Expected, Actual: dm.Actual, cause: err}
	}

	return err
}
