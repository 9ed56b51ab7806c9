package parser

import (
	"net/url"
	"strings"

	"golang.org/x/net/html"

	"github.com/AleksandrPea/spiderkit/internal/model"
)

// linkAttributes maps HTML element names to the attribute that carries a
// URL reference worth crawling.
var linkAttributes = map[string]string{
	"a":      "href",
	"area":   "href",
	"link":   "href",
	"base":   "href",
	"script": "src",
	"img":    "src",
	"iframe": "src",
	"frame":  "src",
	"form":   "action",
}

// HTMLParser is the structural parser for text/html resources.
// It walks the document tree, resolves every link-bearing attribute
// against the resource URL and reports the results to its listeners.
//
// Design decision: We use golang.org/x/net/html rather than regex because
// it correctly handles the malformed HTML common on the web and keeps the
// extraction logic maintainable.
type HTMLParser struct {
	notifier
}

// NewHTMLParser creates an HTMLParser with no listeners.
func NewHTMLParser() *HTMLParser {
	return &HTMLParser{}
}

// CanParse reports whether the resource is an unclaimed text/html
// document. The path hint plays no part in the decision.
func (p *HTMLParser) CanParse(res *model.Resource, _ string, alreadyClaimed bool) (bool, error) {
	if res == nil {
		return false, ErrNilResource
	}
	if alreadyClaimed {
		return false, nil
	}
	return res.ContentType.IsHTML(), nil
}

// Parse extracts and resolves every link in the document and reports each
// to the registered listeners. It returns true: the structural parser
// fully understands markup and claims the resource, so later parsers in
// the chain see it as already handled.
func (p *HTMLParser) Parse(res *model.Resource, body string, depth int) (bool, error) {
	if res == nil {
		return false, ErrNilResource
	}

	base, err := url.Parse(res.URL)
	if err != nil {
		// An unparsable resource URL leaves nothing to resolve against;
		// the resource is still claimed as markup.
		return true, nil
	}

	doc, err := html.Parse(strings.NewReader(body))
	if err != nil {
		return true, nil
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if attr, ok := linkAttributes[n.Data]; ok {
				if ref := getAttr(n, attr); ref != "" {
					if resolved := resolveRef(base, ref); resolved != "" {
						p.notify(FoundURL{URL: resolved, Source: res.URL, Depth: depth})
					}
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return true, nil
}

// resolveRef resolves a reference against the page base, skipping
// non-crawlable pseudo-references.
func resolveRef(base *url.URL, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" || ref == "#" ||
		strings.HasPrefix(ref, "javascript:") ||
		strings.HasPrefix(ref, "mailto:") ||
		strings.HasPrefix(ref, "tel:") ||
		strings.HasPrefix(ref, "data:") {
		return ""
	}

	u, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	return base.ResolveReference(u).String()
}

// getAttr retrieves an attribute value from an HTML node.
func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}
