package canonical

import "errors"

// Canonicalization errors.
//
// Design decision: We use package-level sentinel errors rather than
// returning an empty string with a boolean or (worse) conflating both
// failure kinds into a single nil-like outcome. Callers use errors.Is()
// to tell "deliberately not crawlable" apart from "parse failure", because
// an orchestrator may want different handling for each (e.g. counting
// malformed URLs as a signal of a misbehaving target).
var (
	// ErrUnsupportedURL is returned for URLs without an authority component,
	// such as mailto: and javascript: references. These are valid URIs that
	// simply do not resolve to a network-fetchable target.
	ErrUnsupportedURL = errors.New("unsupported url: no authority component")

	// ErrMalformedURL is returned for input that cannot be parsed as a URI.
	// The returned error wraps this sentinel and carries the parse
	// diagnostic.
	ErrMalformedURL = errors.New("malformed url")

	// ErrUnknownMode is returned by ParseMode for an unrecognized parameter
	// handling mode name.
	ErrUnknownMode = errors.New("unknown parameter handling mode")
)
