// Package intern provides a content-addressed store for the four
// string-valued semantic types used throughout a swarm protocol: state
// names, roles, commands, and event types.
//
// Equal strings share storage, so equality and ordering between handles of
// the same kind become pointer-level operations instead of string
// comparisons. Handles of different kinds never compare equal even when
// their underlying text is identical — a Role named "P" and an EventType
// named "P" are distinct values.
package intern

import (
	"sort"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// Kind distinguishes the four disjoint semantic types that share the
// interning machinery but never share storage with each other.
type Kind uint8

const (
	// KindState interns protocol state names.
	KindState Kind = iota
	// KindRole interns role names.
	KindRole
	// KindCommand interns command names.
	KindCommand
	// KindEventType interns event type names.
	KindEventType
)

// entry is the interned representation of one string: a stable handle
// carrying both the text and a rank assigned the first time the string was
// interned. Rank gives handles of the same kind a total order that is
// stable within a run without re-comparing the underlying strings.
type entry struct {
	text string
	rank uint32
}

// table is a hash-keyed dedup store for one Kind. Lookups are guarded by a
// mutex since the interner must be safe for concurrent interning (see
// spec.md §5) even though a single analysis itself is synchronous.
type table struct {
	mu      sync.RWMutex
	byHash  map[uint64][]*entry
	nextRnk uint32
}

func newTable() *table {
	return &table{byHash: make(map[uint64][]*entry)}
}

func (t *table) intern(s string) *entry {
	h := xxhash.Sum64String(s)

	t.mu.RLock()
	for _, e := range t.byHash[h] {
		if e.text == s {
			t.mu.RUnlock()
			return e
		}
	}
	t.mu.RUnlock()

	t.mu.Lock()
	defer t.mu.Unlock()
	for _, e := range t.byHash[h] {
		if e.text == s {
			return e
		}
	}
	e := &entry{text: s, rank: t.nextRnk}
	t.nextRnk++
	t.byHash[h] = append(t.byHash[h], e)
	return e
}

var tables = [4]*table{newTable(), newTable(), newTable(), newTable()}

// Handle is an interned string of a given Kind. The zero Handle is not a
// valid interned value; use State, Role, Command, or EventType to create
// one.
type Handle struct {
	kind Kind
	e    *entry
}

// Of interns s under the given kind and returns its handle.
func Of(kind Kind, s string) Handle {
	return Handle{kind: kind, e: tables[kind].intern(s)}
}

// State interns a state name.
func State(s string) Handle { return Of(KindState, s) }

// Role interns a role name.
func Role(s string) Handle { return Of(KindRole, s) }

// Command interns a command name.
func Command(s string) Handle { return Of(KindCommand, s) }

// EventType interns an event type name.
func EventType(s string) Handle { return Of(KindEventType, s) }

// Kind reports the handle's semantic type.
func (h Handle) Kind() Kind { return h.kind }

// String returns the underlying text.
func (h Handle) String() string {
	if h.e == nil {
		return ""
	}
	return h.e.text
}

// IsZero reports whether h is the zero Handle (never produced by Of).
func (h Handle) IsZero() bool { return h.e == nil }

// Equal reports whether h and other denote the same interned string of the
// same kind. Handles of different kinds are never equal regardless of text.
func (h Handle) Equal(other Handle) bool {
	return h.kind == other.kind && h.e == other.e
}

// Less defines a total order over handles of the same kind, stable across
// a run (first-interned sorts first). Comparing handles of different kinds
// panics — callers must not mix kinds in one ordered collection.
func (h Handle) Less(other Handle) bool {
	if h.kind != other.kind {
		panic("intern: Less called on handles of different kinds")
	}
	return h.e.rank < other.e.rank
}

// SortHandles sorts handles of a single kind into their total order,
// in place.
func SortHandles(hs []Handle) {
	sort.Slice(hs, func(i, j int) bool { return hs[i].Less(hs[j]) })
}
