package swarm

import (
	"sort"

	"github.com/matzehuels/swarmcheck/pkg/intern"
)

// RoleSet is a set of interned roles. The zero value (nil) reads as an
// empty set for Contains, Len and Sorted, but Add and Union panic on it;
// create a writable set with NewRoleSet or RoleSet{}. RoleSet is a plain
// map wrapper, not a tree — order is never
// significant to the algorithm (set union is commutative), only to
// rendering, which sorts by role text explicitly via Sorted.
type RoleSet map[intern.Handle]struct{}

// NewRoleSet creates a RoleSet containing the given roles.
func NewRoleSet(roles ...intern.Handle) RoleSet {
	s := make(RoleSet, len(roles))
	for _, r := range roles {
		s[r] = struct{}{}
	}
	return s
}

// Contains reports whether r is a member of the set.
func (s RoleSet) Contains(r intern.Handle) bool {
	_, ok := s[r]
	return ok
}

// Add inserts r into the set and reports whether the set grew.
func (s RoleSet) Add(r intern.Handle) bool {
	if _, ok := s[r]; ok {
		return false
	}
	s[r] = struct{}{}
	return true
}

// Union adds every member of other into s and reports whether s grew.
func (s RoleSet) Union(other RoleSet) bool {
	grew := false
	for r := range other {
		if s.Add(r) {
			grew = true
		}
	}
	return grew
}

// Len returns the number of roles in the set.
func (s RoleSet) Len() int { return len(s) }

// Clone returns a shallow copy of s.
func (s RoleSet) Clone() RoleSet {
	out := make(RoleSet, len(s))
	for r := range s {
		out[r] = struct{}{}
	}
	return out
}

// Sorted returns the set's members sorted lexicographically by role name,
// for deterministic rendering.
func (s RoleSet) Sorted() []intern.Handle {
	out := make([]intern.Handle, 0, len(s))
	for r := range s {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}
