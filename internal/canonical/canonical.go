package canonical

import (
	"fmt"
	"net/url"
	"strings"
)

// Canonicalizer turns raw URL strings into canonical absolute strings.
// The zero-value configuration (UseAll, no OData handling) reproduces the
// classic spider behavior; both knobs come from the crawl configuration.
type Canonicalizer struct {
	// mode is the active parameter handling mode.
	mode Mode

	// handleODataParams enables normalization of OData-style structured
	// path segments such as Book(title='x',year=2012).
	handleODataParams bool
}

// Option configures a Canonicalizer.
type Option func(*Canonicalizer)

// WithMode sets the parameter handling mode. Default is UseAll.
func WithMode(m Mode) Option {
	return func(c *Canonicalizer) {
		c.mode = m
	}
}

// WithODataParams enables or disables structured path segment handling.
// Default is disabled.
func WithODataParams(enabled bool) Option {
	return func(c *Canonicalizer) {
		c.handleODataParams = enabled
	}
}

// New creates a Canonicalizer.
func New(opts ...Option) *Canonicalizer {
	c := &Canonicalizer{mode: UseAll}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// defaultCanonicalizer backs the package-level convenience functions.
var defaultCanonicalizer = New()

// Canonicalize canonicalizes an absolute URL with the default engine:
// UseAll mode, no structured segment handling, no exclusions.
func Canonicalize(raw string) (string, error) {
	return defaultCanonicalizer.Canonicalize(raw)
}

// CanonicalizeWith resolves raw against base (when raw is relative) and
// canonicalizes the result with the default engine, removing the excluded
// parameters.
func CanonicalizeWith(raw, base string, excluded ExcludedParams) (string, error) {
	return defaultCanonicalizer.CanonicalizeWith(raw, base, excluded)
}

// Canonicalize canonicalizes an absolute URL with no exclusions.
func (c *Canonicalizer) Canonicalize(raw string) (string, error) {
	return c.CanonicalizeWith(raw, "", nil)
}

// CanonicalizeWith canonicalizes raw, resolving it against base first when
// raw is a relative reference. An empty raw resolves to the base stripped
// of its final path component (the "directory" of the base). The excluded
// parameter names are removed from the query under every handling mode.
//
// The outcome is exactly one of: a canonical string, ErrUnsupportedURL
// (no authority component, not a crawlable target), or ErrMalformedURL
// (not parsable as a URI; the error carries the parse diagnostic).
func (c *Canonicalizer) CanonicalizeWith(raw, base string, excluded ExcludedParams) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedURL, err)
	}

	if base != "" && !u.IsAbs() {
		baseURL, err := url.Parse(base)
		if err != nil {
			return "", fmt.Errorf("%w: invalid base: %v", ErrMalformedURL, err)
		}
		u = resolveReference(baseURL, u, raw == "")
	}

	return c.canonicalize(u, excluded)
}

// resolveReference resolves ref against base per RFC 3986. The empty
// reference is special-cased to the base's directory: the classic spider
// treats an empty link as "the directory this page lives in", not as a
// same-document reference.
func resolveReference(base, ref *url.URL, emptyRef bool) *url.URL {
	if emptyRef {
		dir := *base
		dir.RawQuery = ""
		dir.Fragment = ""
		path := dir.EscapedPath()
		if i := strings.LastIndex(path, "/"); i >= 0 {
			setEscapedPath(&dir, path[:i+1])
		}
		return &dir
	}
	return base.ResolveReference(ref)
}

// canonicalize performs the absolute-URL canonicalization steps.
func (c *Canonicalizer) canonicalize(u *url.URL, excluded ExcludedParams) (string, error) {
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedURL, u.String())
	}

	scheme := strings.ToLower(u.Scheme)
	host := strings.ToLower(u.Host)

	// Default ports are dropped only for the schemes that define them;
	// every other port, including 443 on http and 80 on https, is a
	// distinct crawl target and is kept verbatim.
	switch {
	case scheme == "http" && strings.HasSuffix(host, ":80"):
		host = strings.TrimSuffix(host, ":80")
	case scheme == "https" && strings.HasSuffix(host, ":443"):
		host = strings.TrimSuffix(host, ":443")
	}

	path := normalizePath(u.EscapedPath())
	if c.handleODataParams {
		path = cleanStructuredSegments(path, c.mode)
	}
	if path == "" {
		path = "/"
	}

	params := filterParams(parseQuery(u.RawQuery), c.mode, excluded)
	sortParams(params)
	query := encodeParams(params)

	var b strings.Builder
	b.WriteString(scheme)
	b.WriteString("://")
	if u.User != nil {
		b.WriteString(u.User.String())
		b.WriteByte('@')
	}
	b.WriteString(host)
	b.WriteString(path)
	if query != "" {
		b.WriteByte('?')
		b.WriteString(query)
	}
	return b.String(), nil
}

// normalizePath collapses empty segments, resolves "." and ".." segments,
// and preserves a trailing slash. Operates on the escaped path so that
// percent-encoded octets pass through untouched.
//
// A ".." that cannot pop a preceding segment is dropped when further
// segments follow ("/../../x" becomes "/x") but kept literally when it
// terminates the path ("/.." stays "/.."). The latter mirrors the original
// spider, which treats an at-root ".." as page content rather than an
// error.
func normalizePath(p string) string {
	if p == "" || p == "/" {
		return p
	}

	trailingSlash := strings.HasSuffix(p, "/")
	segments := strings.Split(p, "/")

	last := -1
	for i, s := range segments {
		if s != "" {
			last = i
		}
	}

	out := make([]string, 0, len(segments))
	for i, s := range segments {
		switch s {
		case "":
			// Collapse runs of slashes.
		case ".":
			if i == last {
				trailingSlash = true
			}
		case "..":
			if len(out) > 0 {
				out = out[:len(out)-1]
				if i == last {
					trailingSlash = true
				}
			} else if i == last && !trailingSlash {
				out = append(out, "..")
			}
		default:
			out = append(out, s)
		}
	}

	if len(out) == 0 {
		return "/"
	}
	normalized := "/" + strings.Join(out, "/")
	if trailingSlash && out[len(out)-1] != ".." {
		normalized += "/"
	}
	return normalized
}

// setEscapedPath stores an already-escaped path on u, keeping RawPath
// consistent so that u.EscapedPath() returns it byte-for-byte.
func setEscapedPath(u *url.URL, escaped string) {
	if decoded, err := url.PathUnescape(escaped); err == nil {
		u.Path = decoded
		u.RawPath = escaped
		if decoded == escaped {
			u.RawPath = ""
		}
		return
	}
	u.Path = escaped
	u.RawPath = escaped
}
