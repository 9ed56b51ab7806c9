package canonical

import (
	"regexp"
	"strings"
)

// structuredSegment matches a "record call" path segment of the form
// Name(args): an OData-style entity reference such as Book(1) or
// Book(title='x',year=2012). The args may be empty, a single unnamed
// literal, or a comma-separated key=value list.
var structuredSegment = regexp.MustCompile(`^(.+)\((.*)\)$`)

// cleanStructuredSegments applies the handling mode to every structured
// path segment of an escaped path. Segments that do not look like
// Name(args) pass through unchanged, as does the whole path under UseAll.
func cleanStructuredSegments(escapedPath string, mode Mode) string {
	if mode == UseAll || !strings.Contains(escapedPath, "(") {
		return escapedPath
	}

	segments := strings.Split(escapedPath, "/")
	for i, segment := range segments {
		m := structuredSegment.FindStringSubmatch(segment)
		if m == nil {
			continue
		}
		segments[i] = m[1] + "(" + cleanStructuredArgs(m[2], mode) + ")"
	}
	return strings.Join(segments, "/")
}

// cleanStructuredArgs normalizes the argument list of a structured segment.
//
//   - IgnoreCompletely drops the arguments entirely.
//   - IgnoreValue keeps only the keys of a key=value list, preserving their
//     original order; a single unnamed literal behaves like
//     IgnoreCompletely because there is no key to keep.
//
// A comma-separated list without any '=' is already keys-only (the output
// of a previous IgnoreValue pass) and is left unchanged, which keeps
// canonicalization idempotent.
func cleanStructuredArgs(args string, mode Mode) string {
	if args == "" {
		return ""
	}
	if mode == IgnoreCompletely {
		return ""
	}

	if !strings.Contains(args, "=") {
		if strings.Contains(args, ",") {
			return args
		}
		return ""
	}

	parts := strings.Split(args, ",")
	keys := make([]string, len(parts))
	for i, part := range parts {
		key, _, _ := strings.Cut(part, "=")
		keys[i] = key
	}
	return strings.Join(keys, ",")
}
