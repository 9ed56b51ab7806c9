// Package session tracks the query parameter names that carry session
// tokens. Session tokens change on every visit without changing the page,
// so they must never contribute to a URL's canonical form: a frontier that
// keys on them re-crawls the same page forever.
//
// Design decision: The registry is plain injected state, not a process
// singleton. The canonical engine receives the merged exclusion set as an
// argument, which keeps it pure and testable; the registry only exists so
// that configuration and CLI layers have one place to manage token names.
package session

import (
	"sort"
	"strings"

	"github.com/AleksandrPea/spiderkit/internal/canonical"
)

// defaultTokens are the session token names recognized out of the box.
// They cover the common server stacks (Java servlet containers, PHP,
// classic and modern ASP, ColdFusion, Zen Cart, SiteServer).
var defaultTokens = []string{
	"asp.net_sessionid",
	"aspsessionid",
	"cfid",
	"cftoken",
	"jsessionid",
	"phpsessid",
	"sessid",
	"sid",
	"siteserver",
	"viewstate",
	"zenid",
}

// Registry is a case-insensitive set of session token parameter names.
// The zero value is unusable; use NewRegistry.
type Registry struct {
	tokens map[string]struct{}
}

// NewRegistry creates a registry holding the default token names plus any
// extras. Names are matched case-insensitively.
func NewRegistry(extra ...string) *Registry {
	r := &Registry{tokens: make(map[string]struct{}, len(defaultTokens)+len(extra))}
	for _, name := range defaultTokens {
		r.tokens[name] = struct{}{}
	}
	for _, name := range extra {
		r.Add(name)
	}
	return r
}

// NewEmptyRegistry creates a registry without the default token names,
// for configurations that replace the list entirely.
func NewEmptyRegistry(names ...string) *Registry {
	r := &Registry{tokens: make(map[string]struct{}, len(names))}
	for _, name := range names {
		r.Add(name)
	}
	return r
}

// Add registers a token name.
func (r *Registry) Add(name string) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return
	}
	r.tokens[name] = struct{}{}
}

// Remove unregisters a token name.
func (r *Registry) Remove(name string) {
	delete(r.tokens, strings.ToLower(name))
}

// Contains reports whether name is a registered session token.
func (r *Registry) Contains(name string) bool {
	_, ok := r.tokens[strings.ToLower(name)]
	return ok
}

// Names returns the registered token names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.tokens))
	for name := range r.tokens {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Union builds the Excluded Parameter Set handed to the canonical engine:
// every registered session token plus the given call-scoped names.
func (r *Registry) Union(extra ...string) canonical.ExcludedParams {
	set := make(canonical.ExcludedParams, len(r.tokens)+len(extra))
	for name := range r.tokens {
		set[name] = struct{}{}
	}
	for _, name := range extra {
		set[strings.ToLower(name)] = struct{}{}
	}
	return set
}
