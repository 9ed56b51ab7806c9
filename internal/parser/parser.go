package parser

import (
	"errors"
	"log/slog"

	"github.com/AleksandrPea/spiderkit/internal/model"
)

// ErrNilResource is returned when a parser is handed a nil resource.
// This is a programming contract violation at the call site, not a
// recoverable runtime condition: the dispatch chain never produces a nil
// resource, so there is nothing sensible to retry.
var ErrNilResource = errors.New("invalid argument: resource is nil")

// FoundURL is a single URL occurrence discovered in a resource body.
type FoundURL struct {
	// URL is the discovered URL with scheme and host lowercased and the
	// fragment removed. Path and query bytes are exactly as found.
	URL string

	// Source is the URL of the resource the occurrence was found in.
	Source string

	// Depth is the crawl depth of the source resource.
	Depth int
}

// Listener receives each FoundURL as it is discovered.
//
// Design decision: A listener is a plain function rather than an interface
// hierarchy. The only contract is "accept one occurrence at a time", and a
// function type lets callers pass closures, channels send wrappers, or
// method values without adapter boilerplate.
type Listener func(FoundURL)

// Parser extracts URLs from one kind of resource.
type Parser interface {
	// CanParse reports whether this parser wants the resource.
	// alreadyClaimed is true when an earlier parser in the chain completely
	// parsed the resource. pathHint is the resource path when the caller
	// knows it; parsers must tolerate an empty hint.
	CanParse(res *model.Resource, pathHint string, alreadyClaimed bool) (bool, error)

	// Parse extracts URLs from body and reports them to the parser's
	// listeners. It returns true when the resource was completely parsed,
	// claiming it so that later parsers see alreadyClaimed.
	Parse(res *model.Resource, body string, depth int) (bool, error)
}

// notifier implements listener registration and fan-out, shared by the
// parser implementations.
type notifier struct {
	listeners []Listener
}

// AddListener registers a listener. Every registered listener receives
// every discovered occurrence; there is no deduplication or back-pressure,
// delivery is synchronous because bodies are already fully materialized.
func (n *notifier) AddListener(l Listener) {
	n.listeners = append(n.listeners, l)
}

// notify delivers one occurrence to all listeners in registration order.
func (n *notifier) notify(found FoundURL) {
	for _, l := range n.listeners {
		l(found)
	}
}

// Chain runs parsers in registration order over a resource.
type Chain struct {
	parsers []Parser
	logger  *slog.Logger
}

// ChainOption configures a Chain.
type ChainOption func(*Chain)

// WithChainLogger sets a custom logger for the chain.
func WithChainLogger(logger *slog.Logger) ChainOption {
	return func(c *Chain) {
		c.logger = logger
	}
}

// NewChain creates a Chain over the given parsers.
func NewChain(parsers []Parser, opts ...ChainOption) *Chain {
	c := &Chain{parsers: parsers}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// Process offers the resource to every parser in order. The first parser
// that reports "completely parsed" claims the resource; subsequent parsers
// are told via their alreadyClaimed argument and typically decline, but
// parsers that scan regardless (and never claim) still get their turn.
// It returns whether any parser claimed the resource.
func (c *Chain) Process(res *model.Resource, pathHint string, depth int) (bool, error) {
	if res == nil {
		return false, ErrNilResource
	}

	body := res.Text()
	claimed := false
	for _, p := range c.parsers {
		eligible, err := p.CanParse(res, pathHint, claimed)
		if err != nil {
			return claimed, err
		}
		if !eligible {
			continue
		}

		complete, err := p.Parse(res, body, depth)
		if err != nil {
			return claimed, err
		}
		if complete && !claimed {
			claimed = true
			c.logger.Debug("resource claimed by parser",
				"url", res.URL,
				"content_type", res.ContentType.String())
		}
	}
	return claimed, nil
}
