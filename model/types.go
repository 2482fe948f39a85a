package model

import (
	"fmt"
)

// SegmentID is the unique identifier for a segment within a collection.
type SegmentID uint64

// RowID is a dense, segment-local identifier for a record.
type RowID uint32

// Location identifies a record within the collection.
type Location struct {
	SegmentID SegmentID
	RowID     RowID
}

// String returns a string representation of the Location.
func (l Location) String() string {
	return fmt.Sprintf("Loc(%d:%d)", l.SegmentID, l.RowID)
}

// Candidate represents a potential match found during search.
type Candidate struct {
	// Loc is the internal location of the match.
	Loc Location
	// Score is the distance/similarity score (metric-dependent).
	Score float32
}

// Better reports whether a ranks before b. Lower scores win unless
// descending is set (Dot/Cosine). Ties break on (SegmentID, RowID) ascending.
func Better(a, b Candidate, descending bool) bool {
	if a.Score != b.Score {
		if descending {
			return a.Score > b.Score
		}
		return a.Score < b.Score
	}
	if a.Loc.SegmentID != b.Loc.SegmentID {
		return a.Loc.SegmentID < b.Loc.SegmentID
	}
	return a.Loc.RowID < b.Loc.RowID
}
