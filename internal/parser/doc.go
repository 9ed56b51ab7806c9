// Package parser discovers URLs embedded in fetched resources.
//
// # Architecture
//
// The package is designed around a chain of Parser implementations tried
// in registration order for every fetched resource. Each parser first
// answers an eligibility question (CanParse) and, if eligible, extracts
// URLs from the body and reports them to registered listeners. A parser
// that fully understands a resource claims it ("completely parsed"), which
// later parsers in the chain see as alreadyClaimed; first claim wins, but
// non-claiming parsers may still run afterwards.
//
// Two parsers ship with the package:
//
//   - HTMLParser: structural parser for text/html bodies, built on
//     golang.org/x/net/html. It claims the resources it parses.
//   - TextParser: single-pass, delimiter-aware scan over any other text
//     body for absolute http(s) URLs. It never claims a resource, so the
//     chain remains free to try further parsers on the same body.
//
// # Listeners
//
// Discovered URLs are delivered synchronously, in discovery order, on the
// calling goroutine, once per occurrence, to every registered listener.
// The package makes no concurrency guarantee beyond that; listeners
// shared across goroutines must synchronize themselves.
//
// Found URLs are raw discoveries, not frontier keys: callers pass them
// through the canonical package before deduplication or enqueueing.
package parser
