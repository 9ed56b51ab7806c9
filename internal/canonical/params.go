package canonical

import (
	"net/url"
	"sort"
	"strings"
)

// ExcludedParams is a case-insensitive set of query parameter names that
// are removed from a URL during canonicalization under every handling
// mode. It is typically the union of the session-token registry and any
// call-scoped exclusions.
//
// Design decision: The set is passed explicitly to the canonicalization
// entry points instead of being read from a process-wide registry. This
// removes hidden coupling on global state and makes the engine trivially
// testable in isolation.
type ExcludedParams map[string]struct{}

// NewExcludedParams builds an exclusion set from parameter names.
// Names are matched case-insensitively.
func NewExcludedParams(names ...string) ExcludedParams {
	set := make(ExcludedParams, len(names))
	for _, name := range names {
		set[strings.ToLower(name)] = struct{}{}
	}
	return set
}

// Contains reports whether name is excluded.
func (e ExcludedParams) Contains(name string) bool {
	if len(e) == 0 {
		return false
	}
	_, ok := e[strings.ToLower(name)]
	return ok
}

// queryParam is a single (name, value) pair as it appears on the wire.
// Both fields hold raw, still-percent-encoded bytes.
type queryParam struct {
	name  string
	value string

	// hasValue distinguishes "name=" (empty value) from a bare "name".
	hasValue bool
}

// encode reconstructs the pair exactly as it appeared in the query string.
func (p queryParam) encode() string {
	if p.hasValue {
		return p.name + "=" + p.value
	}
	return p.name
}

// parseQuery splits a raw query string into its (name, value) pairs.
//
// Splitting happens only on the literal '&' and '=' characters, never on
// their percent-encoded forms (%26, %3D), so an encoded ampersand or
// equals sign inside a name or value is preserved as part of that name or
// value. Nothing is decoded. Empty pairs produced by runs of '&' are
// dropped.
func parseQuery(rawQuery string) []queryParam {
	if rawQuery == "" {
		return nil
	}

	params := make([]queryParam, 0, strings.Count(rawQuery, "&")+1)
	for _, pair := range strings.Split(rawQuery, "&") {
		if pair == "" {
			continue
		}
		name, value, found := strings.Cut(pair, "=")
		if name == "" {
			// "=value" carries no name to key on; it cannot influence
			// the canonical form.
			continue
		}
		params = append(params, queryParam{name: name, value: value, hasValue: found})
	}
	return params
}

// filterParams removes excluded parameters and applies the handling mode.
// Under UseAll the relative order of surviving parameters is preserved.
// Under IgnoreValue duplicate names collapse to one bare occurrence and the
// surviving names come out sorted; the original spider deduplicated into an
// ordered set, and the sorted order is part of the visited-key contract.
// Under IgnoreCompletely, nothing survives.
func filterParams(params []queryParam, mode Mode, excluded ExcludedParams) []queryParam {
	if mode == IgnoreCompletely {
		return nil
	}

	kept := make([]queryParam, 0, len(params))
	seen := make(map[string]struct{}, len(params))
	for _, p := range params {
		if excluded.Contains(p.name) {
			continue
		}
		switch mode {
		case IgnoreValue:
			if _, dup := seen[p.name]; dup {
				continue
			}
			seen[p.name] = struct{}{}
			kept = append(kept, queryParam{name: p.name})
		default: // UseAll
			kept = append(kept, p)
		}
	}
	if mode == IgnoreValue {
		sortParams(kept)
	}
	return kept
}

// encodeParams joins pairs back into a query string.
func encodeParams(params []queryParam) string {
	if len(params) == 0 {
		return ""
	}
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = p.encode()
	}
	return strings.Join(parts, "&")
}

// sortParams orders pairs by (name, value) using byte-wise lexicographic
// comparison. Duplicate (name, value) pairs are preserved as distinct
// entries in sorted position.
func sortParams(params []queryParam) {
	sort.SliceStable(params, func(i, j int) bool {
		if params[i].name != params[j].name {
			return params[i].name < params[j].name
		}
		return params[i].value < params[j].value
	})
}

// CleanParameters applies the exclusion set and handling mode to the query
// string of u and, when handleODataParams is set, to OData-style structured
// path segments. It returns the URI representation used by callers that
// need the policy-filtered but otherwise untouched form: parameters are
// not sorted, default ports are not stripped, and no relative resolution
// takes place.
//
// This is intentionally a separate entry point from Canonicalize: the
// higher-level canonicalization additionally sorts parameters, while some
// callers need the unsorted filtered representation verbatim.
func CleanParameters(u *url.URL, mode Mode, handleODataParams bool, excluded ExcludedParams) string {
	path := u.EscapedPath()
	if handleODataParams {
		path = cleanStructuredSegments(path, mode)
	}

	query := encodeParams(filterParams(parseQuery(u.RawQuery), mode, excluded))

	var b strings.Builder
	b.WriteString(u.Scheme)
	b.WriteString("://")
	if u.User != nil {
		b.WriteString(u.User.String())
		b.WriteByte('@')
	}
	b.WriteString(u.Host)
	b.WriteString(path)
	if query != "" {
		b.WriteByte('?')
		b.WriteString(query)
	}
	return b.String()
}
