// Package model defines the core types shared by the search engine.
//
// # Identity Types
//
//   - SegmentID: Unique identifier for a segment (uint64)
//   - RowID: Segment-local record identifier (uint32)
//   - Location: Physical address (SegmentID, RowID)
//
// # Data Types
//
//   - Candidate: Search result with location and score
package model
