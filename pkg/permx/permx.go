// Package permx evaluates group-derived permissions. A user's Cognito group
// memberships map onto a fixed numeric hierarchy; named groups outside the
// hierarchy act as flat custom permissions matched by exact name only.
package permx

import "strings"

// Permission is a ranked permission name.
type Permission string

const (
	Admin  Permission = "admin"
	Editor Permission = "editor"
	Viewer Permission = "viewer"
	User   Permission = "user"
)

// levels ranks the built-in permissions. Higher outranks lower; names absent
// from this table have no rank and never substitute for one another.
var levels = map[Permission]int{
	Admin:  100,
	Editor: 50,
	Viewer: 10,
	User:   1,
}

// Level returns the numeric rank of name and whether it is a ranked
// permission at all. Matching is case-insensitive.
func Level(name string) (int, bool) {
	l, ok := levels[Permission(strings.ToLower(name))]
	return l, ok
}

// MaxLevel returns the highest rank among the user's groups, 0 when no group
// is ranked.
func MaxLevel(groups []string) int {
	max := 0
	for _, g := range groups {
		if l, ok := Level(g); ok && l > max {
			max = l
		}
	}
	return max
}

// HasGroup reports exact (case-insensitive) membership in name.
func HasGroup(groups []string, name string) bool {
	name = strings.ToLower(name)
	for _, g := range groups {
		if strings.ToLower(g) == name {
			return true
		}
	}
	return false
}

// HasLevel reports whether the user holds required or anything that outranks
// it. Direct membership always satisfies; otherwise the user's best rank must
// meet the required rank.
func HasLevel(groups []string, required Permission) bool {
	if HasGroup(groups, string(required)) {
		return true
	}
	need, ok := Level(string(required))
	if !ok {
		return false
	}
	return MaxLevel(groups) >= need
}

// HasGroupOrHigher reports membership in name, or, when name is a ranked
// permission, possession of an equal or higher rank. Unranked custom names
// get no hierarchy inference: exact membership is the only way in.
func HasGroupOrHigher(groups []string, name string) bool {
	if HasGroup(groups, name) {
		return true
	}
	need, ok := Level(name)
	if !ok {
		return false
	}
	return MaxLevel(groups) >= need
}

// HasAnyOf reports whether any of names is satisfied per HasGroupOrHigher.
// An empty list matches nothing.
func HasAnyOf(groups []string, names []string) bool {
	for _, n := range names {
		if HasGroupOrHigher(groups, n) {
			return true
		}
	}
	return false
}

// HasAllOf reports whether every name is satisfied per HasGroupOrHigher.
// A non-empty higher permission short-circuits the whole check when the user
// holds it. An empty names list is vacuously true.
func HasAllOf(groups []string, names []string, higher Permission) bool {
	if higher != "" && HasLevel(groups, higher) {
		return true
	}
	for _, n := range names {
		if !HasGroupOrHigher(groups, n) {
			return false
		}
	}
	return true
}

// Kind selects which check a Requirement performs.
type Kind int

const (
	// KindLevel requires the ranked permission Level or anything above it.
	KindLevel Kind = iota
	// KindGroup requires the named group, with hierarchy substitution when
	// the name is ranked.
	KindGroup
	// KindAnyOf requires at least one of Names.
	KindAnyOf
	// KindAllOf requires every one of Names, unless Higher escapes it.
	KindAllOf
)

// Requirement is a structured access requirement evaluated against a user's
// group list.
type Requirement struct {
	Kind   Kind
	Level  Permission
	Group  string
	Names  []string
	Higher Permission
}

// Allows evaluates the requirement against a group list.
func (r Requirement) Allows(groups []string) bool {
	switch r.Kind {
	case KindLevel:
		return HasLevel(groups, r.Level)
	case KindGroup:
		return HasGroupOrHigher(groups, r.Group)
	case KindAnyOf:
		return HasAnyOf(groups, r.Names)
	case KindAllOf:
		return HasAllOf(groups, r.Names, r.Higher)
	default:
		return false
	}
}

// RequireLevel requires the ranked permission p or higher.
func RequireLevel(p Permission) Requirement {
	return Requirement{Kind: KindLevel, Level: p}
}

// RequireGroup requires the named group (with hierarchy for ranked names).
func RequireGroup(name string) Requirement {
	return Requirement{Kind: KindGroup, Group: name}
}

// RequireAnyOf requires at least one of names.
func RequireAnyOf(names ...string) Requirement {
	return Requirement{Kind: KindAnyOf, Names: names}
}

// RequireAllOf requires every name; holders of higher pass outright.
func RequireAllOf(higher Permission, names ...string) Requirement {
	return Requirement{Kind: KindAllOf, Names: names, Higher: higher}
}
