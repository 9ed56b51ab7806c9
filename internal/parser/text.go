package parser

import (
	"strings"

	"github.com/AleksandrPea/spiderkit/internal/model"
)

// closingDelimiter maps an opening delimiter found immediately before a
// URL anchor to the closing delimiter that additionally terminates the
// occurrence. A URL written as "(http://example.com/a)" must not swallow
// the closing parenthesis.
var closingDelimiter = map[byte]byte{
	'\'': '\'',
	'"':  '"',
	'<':  '>',
	'(':  ')',
	'[':  ']',
	'{':  '}',
}

// TextParser scans non-markup text bodies for absolute http(s) URLs.
// It is a last-resort parser: comments, scripts, robots files, stack
// traces and other plain-text responses routinely leak endpoints that a
// structural parser never sees, and missed endpoints are missed attack
// surface.
//
// The scan is a single left-to-right pass without a structured parser;
// worst case it reports zero occurrences, it never fails on adversarial
// content.
type TextParser struct {
	notifier
}

// NewTextParser creates a TextParser with no listeners.
func NewTextParser() *TextParser {
	return &TextParser{}
}

// CanParse reports whether the resource is eligible for a text scan:
// any text/* resource except text/html, not yet claimed by another parser.
// Markup goes to the structural parser instead. The path hint is accepted
// for interface symmetry but plays no part in the decision.
func (p *TextParser) CanParse(res *model.Resource, _ string, alreadyClaimed bool) (bool, error) {
	if res == nil {
		return false, ErrNilResource
	}
	if alreadyClaimed {
		return false, nil
	}
	ct := res.ContentType
	if !ct.IsText() || ct.IsHTML() {
		return false, nil
	}
	return true, nil
}

// Parse scans body for case-insensitive "http://" and "https://" anchors
// and reports every occurrence to the registered listeners in discovery
// order. Each occurrence is the maximal run of characters from the anchor
// that are neither whitespace nor the closing delimiter paired with the
// character immediately preceding the anchor (if any). Fragments are
// stripped, scheme and host are folded to lower case, path and query
// bytes are reported exactly as found.
//
// Parse always returns false: a text scan never claims exclusive
// ownership of a body, so the dispatch chain is free to keep trying
// other parsers.
func (p *TextParser) Parse(res *model.Resource, body string, depth int) (bool, error) {
	if res == nil {
		return false, ErrNilResource
	}

	for i := 0; i < len(body); {
		offset, anchor := nextAnchor(body[i:])
		if offset < 0 {
			break
		}
		start := i + offset

		// An opening delimiter immediately before the anchor adds its
		// closing counterpart as a terminator for this occurrence only.
		var closer byte
		if start > 0 {
			closer = closingDelimiter[body[start-1]]
		}

		end := start + anchor
		for end < len(body) && !isTerminator(body[end], closer) {
			end++
		}

		match := body[start:end]
		if hash := strings.IndexByte(match, '#'); hash >= 0 {
			match = match[:hash]
		}

		if found := foldSchemeHost(match); found != "" {
			p.notify(FoundURL{URL: found, Source: res.URL, Depth: depth})
		}
		i = end
	}
	return false, nil
}

// nextAnchor returns the offset and length of the next case-insensitive
// "http://" or "https://" anchor in s, or (-1, 0) when there is none.
// Scheme-relative ("//host") and other schemes ("ftp://") never match.
func nextAnchor(s string) (int, int) {
	for i := 0; i+7 <= len(s); i++ {
		if s[i] != 'h' && s[i] != 'H' {
			continue
		}
		if len(s[i:]) >= 8 && strings.EqualFold(s[i:i+8], "https://") {
			return i, 8
		}
		if strings.EqualFold(s[i:i+7], "http://") {
			return i, 7
		}
	}
	return -1, 0
}

// isTerminator reports whether ch ends the current occurrence. Whitespace
// and the paired closing delimiter are the only confirmed terminators;
// the set is deliberately minimal.
func isTerminator(ch, closer byte) bool {
	switch ch {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return closer != 0 && ch == closer
}

// foldSchemeHost lowercases the scheme and host of a matched URL, leaving
// everything after the authority untouched. A match whose authority is
// followed by neither path nor query gains an explicit "/"; a match with
// an empty authority is discarded.
func foldSchemeHost(match string) string {
	schemeEnd := strings.Index(match, "://") + len("://")
	rest := match[schemeEnd:]

	hostEnd := strings.IndexAny(rest, "/?")
	if hostEnd < 0 {
		if rest == "" {
			return ""
		}
		return strings.ToLower(match) + "/"
	}
	if hostEnd == 0 {
		return ""
	}
	return strings.ToLower(match[:schemeEnd+hostEnd]) + rest[hostEnd:]
}
