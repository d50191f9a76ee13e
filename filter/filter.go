// Package filter parses and evaluates tag and metadata filters.
//
// A Filter maps an attribute key to the set of values that are acceptable
// for it. An object matches when every key of the filter is present on the
// object with one of the allowed values. Filters are flat conjunctions: there
// is no OR between keys and no wildcard matching.
package filter

import (
	"sort"
	"strings"
)

// Set is a set of acceptable attribute values.
type Set map[string]struct{}

// NewSet returns a Set holding values.
func NewSet(values ...string) Set {
	s := make(Set, len(values))
	for _, v := range values {
		s[v] = struct{}{}
	}
	return s
}

// Contains reports whether v is in the set.
func (s Set) Contains(v string) bool {
	_, ok := s[v]
	return ok
}

// Values returns the members of the set in sorted order.
func (s Set) Values() []string {
	out := make([]string, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// Filter maps attribute keys to their allowed value sets.
type Filter map[string]Set

// Parse builds a Filter from tokens of the form "key=v1,v2,...".
//
// Tokens without "=" are skipped. Keys and values are trimmed of surrounding
// whitespace. When a key appears in more than one token the last token wins;
// value sets are not merged across tokens.
func Parse(tokens []string) Filter {
	f := make(Filter)
	for _, token := range tokens {
		key, raw, ok := strings.Cut(token, "=")
		if !ok {
			continue
		}

		parts := strings.Split(raw, ",")
		values := make([]string, 0, len(parts))
		for _, p := range parts {
			values = append(values, strings.TrimSpace(p))
		}

		f[strings.TrimSpace(key)] = NewSet(values...)
	}
	return f
}

// Matches reports whether attrs satisfies every key of the filter.
// An empty filter matches anything, including a nil attrs map.
func (f Filter) Matches(attrs map[string]string) bool {
	for key, allowed := range f {
		v, ok := attrs[key]
		if !ok || !allowed.Contains(v) {
			return false
		}
	}
	return true
}

// Empty reports whether the filter has no keys.
func (f Filter) Empty() bool {
	return len(f) == 0
}

// Keys returns the filter keys in sorted order.
func (f Filter) Keys() []string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// String renders the filter in its parse form, keys and values sorted.
func (f Filter) String() string {
	parts := make([]string, 0, len(f))
	for _, k := range f.Keys() {
		parts = append(parts, k+"="+strings.Join(f[k].Values(), ","))
	}
	return strings.Join(parts, " ")
}

// MatchesAll reports whether an object with the given tags and metadata
// satisfies both filters.
func MatchesAll(tags, metadata map[string]string, tagFilter, metadataFilter Filter) bool {
	return tagFilter.Matches(tags) && metadataFilter.Matches(metadata)
}
