// Package segment defines the interface the engine searches through.
//
// A segment is an independently searchable partition of the collection.
// Results from all segments are merged by the engine.
//
// # Segment Types
//
//   - flat: In-memory segment with exact search and roaring tombstones
package segment
