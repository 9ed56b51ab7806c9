package model

import (
	"crypto/sha256"
	"encoding/hex"
	"mime"
	"strings"

	"golang.org/x/text/encoding/htmlindex"
)

// Resource is a fetched crawl resource handed to the parser chain.
// The body is fully materialized before construction; fetching, streaming
// and size capping belong to the fetch layer, not to this package.
//
// Design decision: Resource carries the declared content type already
// split into primary type and subtype because every parser's eligibility
// gate keys on those two fields. Parsing the header once at construction
// keeps the per-parser checks allocation free.
type Resource struct {
	// URL is the absolute URL the resource was fetched from. Parsers use
	// it as the base for resolving relative references.
	URL string

	// ContentType is the declared media type from the Content-Type header.
	ContentType ContentType

	// Headers contains the response headers, canonicalized keys mapping to
	// value slices.
	Headers map[string][]string

	// Body is the raw response body.
	Body []byte
}

// NewResource creates a Resource from a URL, a Content-Type header value
// and a materialized body.
func NewResource(rawURL, contentType string, body []byte) *Resource {
	return &Resource{
		URL:         rawURL,
		ContentType: ParseContentType(contentType),
		Body:        body,
	}
}

// Hash returns the SHA-256 hex digest of the body, used for content
// deduplication and change detection.
func (r *Resource) Hash() string {
	sum := sha256.Sum256(r.Body)
	return hex.EncodeToString(sum[:])
}

// Text returns the body decoded to UTF-8 according to the declared
// charset. A missing or UTF-8 charset is a zero-copy passthrough; an
// unknown charset falls back to the raw bytes rather than failing, since
// a scan over mojibake still finds ASCII URLs.
func (r *Resource) Text() string {
	charset := r.ContentType.Charset()
	if charset == "" || charset == "utf-8" {
		return string(r.Body)
	}

	enc, err := htmlindex.Get(charset)
	if err != nil {
		return string(r.Body)
	}
	decoded, err := enc.NewDecoder().Bytes(r.Body)
	if err != nil {
		return string(r.Body)
	}
	return string(decoded)
}

// ContentType is a parsed media type: primary type, subtype and the
// optional parameters (charset, boundary, ...).
type ContentType struct {
	// Primary is the primary type, e.g. "text" in "text/html".
	Primary string

	// Subtype is the subtype, e.g. "html" in "text/html".
	Subtype string

	// Params holds the media type parameters with lowercased keys.
	Params map[string]string
}

// ParseContentType parses a Content-Type header value. Parsing is lenient:
// a malformed header degrades to a best-effort split on '/' and ';' rather
// than an error, because upstream servers routinely send junk and a crawl
// must keep going.
func ParseContentType(header string) ContentType {
	mediaType, params, err := mime.ParseMediaType(header)
	if err != nil {
		mediaType, _, _ = strings.Cut(header, ";")
		mediaType = strings.TrimSpace(strings.ToLower(mediaType))
		params = nil
	}

	primary, subtype, _ := strings.Cut(mediaType, "/")
	return ContentType{Primary: primary, Subtype: subtype, Params: params}
}

// IsText reports whether the primary type is "text".
func (ct ContentType) IsText() bool {
	return ct.Primary == "text"
}

// IsHTML reports whether the media type is exactly text/html.
func (ct ContentType) IsHTML() bool {
	return ct.Primary == "text" && ct.Subtype == "html"
}

// Charset returns the lowercased charset parameter, or "" when absent.
func (ct ContentType) Charset() string {
	return strings.ToLower(ct.Params["charset"])
}

// String reconstructs the media type without parameters.
func (ct ContentType) String() string {
	if ct.Primary == "" {
		return ""
	}
	return ct.Primary + "/" + ct.Subtype
}
