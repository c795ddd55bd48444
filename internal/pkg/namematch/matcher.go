// Package namematch resolves a claimed name against a candidate set with a fixed,
// deterministic policy of three widening passes.
//
// Pass order, first non-empty pass wins:
//
//	PassExact            byte-exact equality on every field
//	PassCaseInsensitive  equality after lower-casing both sides
//	PassSubstring        every record field contains the claimed value, case-insensitively
//
// Within a pass the first candidate in input order wins. Callers pass candidates in the
// store's default order (ascending id), so ambiguous names resolve to the oldest record.
package namematch

import "strings"

// Pass identifies which rule produced a match
type Pass int

const (
	PassNone Pass = iota
	PassExact
	PassCaseInsensitive
	PassSubstring
)

func (p Pass) String() string {
	switch p {
	case PassExact:
		return "exact"
	case PassCaseInsensitive:
		return "case_insensitive"
	case PassSubstring:
		return "substring"
	}
	return "none"
}

// Fields extracts the comparable name fields of a record, in the same order as the claim
type Fields[T any] func(record T) []string

type rule func(field, claimed string) bool

var passes = []struct {
	pass  Pass
	match rule
}{
	{PassExact, func(field, claimed string) bool { return field == claimed }},
	{PassCaseInsensitive, func(field, claimed string) bool { return strings.ToLower(field) == strings.ToLower(claimed) }},
	{PassSubstring, func(field, claimed string) bool {
		return strings.Contains(strings.ToLower(field), strings.ToLower(claimed))
	}},
}

// Match returns the first candidate matched by the earliest successful pass.
// A claim with an empty value never matches, which keeps the substring pass from
// degenerating into "match anything".
func Match[T any](candidates []T, fields Fields[T], claimed ...string) (T, Pass) {
	var zero T
	if len(claimed) == 0 {
		return zero, PassNone
	}
	for _, c := range claimed {
		if strings.TrimSpace(c) == "" {
			return zero, PassNone
		}
	}

	for _, p := range passes {
		for _, candidate := range candidates {
			values := fields(candidate)
			if len(values) != len(claimed) {
				continue
			}
			if matchAll(p.match, values, claimed) {
				return candidate, p.pass
			}
		}
	}
	return zero, PassNone
}

// MatchName is Match for the common (first name, last name) claim
func MatchName[T any](candidates []T, fields func(T) (first, last string), first, last string) (T, Pass) {
	return Match(candidates, func(r T) []string {
		f, l := fields(r)
		return []string{f, l}
	}, first, last)
}

func matchAll(match rule, values, claimed []string) bool {
	for i := range claimed {
		if !match(values[i], claimed[i]) {
			return false
		}
	}
	return true
}
