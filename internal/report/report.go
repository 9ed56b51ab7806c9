package report

import (
	"time"

	"github.com/AleksandrPea/spiderkit/internal/pipeline"
)

// Discovery is a URL found while scanning a resource body.
type Discovery struct {
	// URL is the extracted URL, with its fragment removed and scheme and
	// host lowercased.
	URL string `json:"url"`

	// Source is the URL of the resource the discovery came from.
	Source string `json:"source,omitempty"`

	// Depth is the crawl depth of the source resource.
	Depth int `json:"depth"`
}

// Report holds the results of one canonicalization or scan run.
type Report struct {
	// GeneratedAt is when the run finished.
	GeneratedAt time.Time `json:"generated_at"`

	// Mode is the query parameter handling mode used for the run.
	Mode string `json:"mode"`

	// Base is the base URL relative inputs were resolved against, if any.
	Base string `json:"base,omitempty"`

	// Results holds one entry per input URL, in input order.
	Results []pipeline.Result `json:"results,omitempty"`

	// Discoveries holds URLs found by the text and markup scanners.
	Discoveries []Discovery `json:"discoveries,omitempty"`

	// NewCount is the number of canonical URLs not previously in the
	// frontier. Zero when the run did not touch the frontier.
	NewCount int `json:"new_count,omitempty"`

	// DuplicateCount is the number of canonical URLs the frontier had
	// already seen.
	DuplicateCount int `json:"duplicate_count,omitempty"`
}

// NewReport creates a Report stamped with the current time.
func NewReport(mode, base string) *Report {
	return &Report{
		GeneratedAt: time.Now(),
		Mode:        mode,
		Base:        base,
	}
}

// CountByOutcome returns the number of results with the given outcome.
func (r *Report) CountByOutcome(o pipeline.Outcome) int {
	count := 0
	for _, res := range r.Results {
		if res.Outcome == o {
			count++
		}
	}
	return count
}

// TotalInputs returns the number of input URLs processed.
func (r *Report) TotalInputs() int {
	return len(r.Results)
}

// HasRejections reports whether any input was unsupported or malformed.
func (r *Report) HasRejections() bool {
	return r.CountByOutcome(pipeline.OutcomeUnsupported) > 0 ||
		r.CountByOutcome(pipeline.OutcomeMalformed) > 0
}
