// Package canonical normalizes URLs into the canonical form used as the
// deduplication key for the crawl frontier.
//
// # Architecture
//
// The package is designed around the Canonicalizer type, which turns a raw
// URL string (optionally relative to a base) into a canonical absolute
// string, or reports that the URL is not a crawlable target.
//
// Canonicalization applies, in order:
//  1. Relative reference resolution against an optional base URL
//  2. Scheme and host lowercasing
//  3. Default port removal (80 for http, 443 for https)
//  4. Path segment normalization (empty, "." and ".." segments)
//  5. Query parameter filtering under the configured handling mode
//  6. Query parameter sorting by (name, value)
//  7. Fragment removal
//
// Design decision: Query strings are handled as raw bytes rather than
// through url.Values because:
//  1. Percent-encoded octets must pass through byte-for-byte; decoding and
//     re-encoding would merge distinct URLs (%26 versus &) into one key
//  2. Duplicate parameter names must survive as separate entries
//  3. Parameter order is significant until the final sort step
//
// # Outcomes
//
// A URL canonicalizes to exactly one of three outcomes:
//   - a canonical string, used as the frontier key
//   - ErrUnsupportedURL: no authority component (mailto:, javascript:);
//     not an error condition, simply "do not enqueue"
//   - ErrMalformedURL: not parsable as a URI at all
//
// Callers must distinguish the two error outcomes with errors.Is; an
// orchestrator typically skips unsupported URLs silently but counts
// malformed ones as a signal of a misbehaving target.
//
// # Statelessness
//
// All operations are pure functions of their inputs. The Canonicalizer
// holds only immutable configuration and is safe for concurrent use.
package canonical
