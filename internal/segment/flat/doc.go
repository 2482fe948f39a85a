// Package flat implements an in-memory segment with exact search.
//
// Rows are append-only; deletes are recorded in a roaring bitmap and skipped
// during scans. Len reports live rows only, which is what the engine uses to
// estimate how likely a point is to live in this segment.
//
// A segment may be configured with an ef limit (WithEfLimit) to act as an
// indexed segment for the engine's sampling policy.
//
// # Thread Safety
//
// Segments are safe for concurrent use. Search supports context
// cancellation for long scans.
package flat
