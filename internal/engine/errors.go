package engine

import "errors"

var (
	// ErrClosed is returned when an operation is attempted on a closed engine.
	ErrClosed = errors.New("engine closed")

	// ErrInvalidArgument is returned when an argument is invalid (e.g. k <= 0, nil segment).
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrDuplicateSegment is returned when a segment ID is registered twice.
	ErrDuplicateSegment = errors.New("duplicate segment")

	// ErrSegmentNotFound is returned when a segment ID is unknown.
	ErrSegmentNotFound = errors.New("segment not found")
)
