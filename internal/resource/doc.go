// Package resource limits how hard a query may hit the segments.
//
// The Controller manages two resource types:
//
//   - Concurrency: Cap on segment searches running at the same time
//   - Scan rate: Token bucket over the number of candidates requested from
//     segments
//
// # Architecture
//
//	┌───────────────────────────────────────────┐
//	│                Controller                 │
//	├─────────────────────┬─────────────────────┤
//	│  Segment searches   │  Scan rate limiter  │
//	│  (weighted sem)     │  (token bucket)     │
//	├─────────────────────┼─────────────────────┤
//	│  AcquireSearch      │  AcquireScan        │
//	│  TryAcquireSearch   │  TryAcquireScan     │
//	│  ReleaseSearch      │                     │
//	└─────────────────────┴─────────────────────┘
//
// # Usage
//
//	rc := resource.NewController(resource.Config{
//	    MaxConcurrentSearches: 8,
//	    ScanLimitPerSec:       1_000_000,
//	})
//
//	if err := rc.AcquireSearch(ctx); err != nil {
//	    return err
//	}
//	defer rc.ReleaseSearch()
//
//	if err := rc.AcquireScan(ctx, limit); err != nil {
//	    return err
//	}
//
// # Nil Safety
//
// All methods handle nil Controller gracefully - they become no-ops.
// This allows optional resource limiting without nil checks everywhere.
package resource
