// Package searcher provides the bounded top-k heap used to merge per-segment
// search results.
package searcher
