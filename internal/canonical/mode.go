package canonical

import "fmt"

// Mode controls how query parameters (and, when enabled, OData-style path
// parameters) contribute to the canonical form of a URL.
//
// Design decision: Mode is a string type rather than an int enum so that
// it round-trips through YAML configuration files and CLI flags without a
// translation table.
type Mode string

const (
	// UseAll keeps every parameter name and value unchanged. Two URLs that
	// differ in any parameter value are distinct crawl targets.
	UseAll Mode = "use_all"

	// IgnoreValue keeps only parameter names, collapsing duplicate names to
	// a single occurrence. URLs that differ only in parameter values map to
	// the same crawl target.
	IgnoreValue Mode = "ignore_value"

	// IgnoreCompletely drops the query string entirely. URLs that differ
	// only in their query map to the same crawl target.
	IgnoreCompletely Mode = "ignore_completely"
)

// ParseMode converts a mode name into a Mode.
// It returns ErrUnknownMode for unrecognized names.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case UseAll, IgnoreValue, IgnoreCompletely:
		return Mode(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// String returns the mode name as used in configuration files and flags.
func (m Mode) String() string {
	return string(m)
}
