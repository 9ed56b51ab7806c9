package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/AleksandrPea/spiderkit/internal/canonical"
)

// Outcome classifies a single canonicalization result.
type Outcome string

// The three possible outcomes of canonicalizing a URL.
const (
	// OutcomeCanonical means the URL was reduced to its canonical form.
	OutcomeCanonical Outcome = "canonical"

	// OutcomeUnsupported means the URL is well-formed but outside crawl
	// scope, such as a mailto: or javascript: reference.
	OutcomeUnsupported Outcome = "unsupported"

	// OutcomeMalformed means the URL could not be parsed at all.
	OutcomeMalformed Outcome = "malformed"
)

// Result is the outcome of canonicalizing one input URL.
type Result struct {
	// Input is the raw URL as given.
	Input string `json:"input"`

	// Canonical is the canonical form. Empty unless Outcome is
	// OutcomeCanonical.
	Canonical string `json:"canonical,omitempty"`

	// Outcome classifies the result.
	Outcome Outcome `json:"outcome"`

	// Reason is the human-readable rejection reason, kept as a string so
	// the result serializes cleanly.
	Reason string `json:"reason,omitempty"`

	// Err holds the rejection reason for unsupported and malformed inputs.
	Err error `json:"-"`
}

// BatchCanonicalizer canonicalizes lists of URLs concurrently.
//
// Design decision: We keep batching separate from the Canonicalizer itself
// because:
// 1. The engine stays a pure function over single URLs
// 2. Batching policy (concurrency, logging) can vary per caller
// 3. Callers that process one URL at a time pay nothing for it
type BatchCanonicalizer struct {
	// engine performs the per-URL work.
	engine *canonical.Canonicalizer

	// excluded is the parameter exclusion set applied to every URL.
	excluded canonical.ExcludedParams

	// concurrency is the maximum number of concurrent canonicalizations.
	concurrency int

	// logger is used for batch-level logging.
	logger *slog.Logger
}

// BatchOption configures a BatchCanonicalizer.
type BatchOption func(*BatchCanonicalizer)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchCanonicalizer) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent canonicalizations.
// Default is 8 if not specified.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchCanonicalizer) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// WithExcludedParams sets the parameter exclusion set applied to every URL.
func WithExcludedParams(excluded canonical.ExcludedParams) BatchOption {
	return func(b *BatchCanonicalizer) {
		b.excluded = excluded
	}
}

// NewBatchCanonicalizer creates a BatchCanonicalizer around an engine.
func NewBatchCanonicalizer(engine *canonical.Canonicalizer, opts ...BatchOption) *BatchCanonicalizer {
	b := &BatchCanonicalizer{
		engine:      engine,
		concurrency: 8,
	}

	for _, opt := range opts {
		opt(b)
	}

	if b.logger == nil {
		b.logger = slog.Default()
	}

	return b
}

// Process canonicalizes all URLs concurrently, resolving relative inputs
// against base when base is non-empty. Results come back in input order.
//
// Rejected URLs do not abort the batch: an unsupported or malformed input
// is recorded in its Result and the remaining URLs are still processed.
// The error return is non-nil only when the context is cancelled.
func (b *BatchCanonicalizer) Process(ctx context.Context, base string, urls []string) ([]Result, error) {
	b.logger.Debug("starting batch canonicalization",
		"total_urls", len(urls),
		"concurrency", b.concurrency,
	)

	startTime := time.Now()

	// Pre-allocated and written by index: each goroutine owns exactly one
	// slot, so no mutex is needed and input order is preserved.
	results := make([]Result, len(urls))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(b.concurrency)

	for i, raw := range urls {
		i, raw := i, raw
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			results[i] = b.canonicalizeOne(base, raw)
			return nil
		})
	}

	err := g.Wait()

	b.logger.Debug("batch canonicalization complete",
		"total_urls", len(urls),
		"elapsed", time.Since(startTime),
	)

	return results, err
}

// canonicalizeOne runs the engine on a single URL and classifies the result.
func (b *BatchCanonicalizer) canonicalizeOne(base, raw string) Result {
	cu, err := b.engine.CanonicalizeWith(raw, base, b.excluded)
	switch {
	case err == nil:
		return Result{Input: raw, Canonical: cu, Outcome: OutcomeCanonical}
	case errors.Is(err, canonical.ErrUnsupportedURL):
		return Result{Input: raw, Outcome: OutcomeUnsupported, Reason: err.Error(), Err: err}
	default:
		return Result{Input: raw, Outcome: OutcomeMalformed, Reason: err.Error(), Err: err}
	}
}
