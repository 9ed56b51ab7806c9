// Package pipeline provides concurrent batch canonicalization of URL lists.
//
// The batch processor fans a list of raw URLs out over a bounded number of
// goroutines, canonicalizes each one, and returns results in input order
// with each URL classified as canonical, unsupported, or malformed.
//
// Design decision: We use errgroup with SetLimit instead of a hand-rolled
// worker pool because:
// 1. It is simpler and errgroup handles the concurrency correctly
// 2. Context cancellation propagates to in-flight work for free
// 3. Results are written to a pre-allocated slice by index, so input
//    order is preserved without extra bookkeeping
package pipeline
