package intern

import "testing"

func TestOfDedupesEqualStrings(t *testing.T) {
	a := State("s0")
	b := State("s0")
	if !a.Equal(b) {
		t.Fatalf("expected two interns of the same text to be equal")
	}
	if a.String() != "s0" {
		t.Fatalf("got text %q, want %q", a.String(), "s0")
	}
}

func TestDifferentKindsNeverEqual(t *testing.T) {
	role := Role("P")
	event := EventType("P")
	if role.Equal(event) {
		t.Fatalf("handles of different kinds with identical text must not compare equal")
	}
	if role.Kind() == event.Kind() {
		t.Fatalf("expected distinct kinds")
	}
}

func TestLessIsStableFirstInternedOrder(t *testing.T) {
	first := Command("close")
	second := Command("open")
	if !first.Less(second) {
		t.Fatalf("expected first-interned command to sort before a later one")
	}
	if second.Less(first) {
		t.Fatalf("Less must be antisymmetric")
	}
	// Re-interning an already-seen string must not change its rank.
	again := Command("close")
	if !again.Less(second) {
		t.Fatalf("re-interning must preserve original rank")
	}
}

func TestLessPanicsAcrossKinds(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected Less to panic when comparing across kinds")
		}
	}()
	Role("x").Less(EventType("x"))
}

func TestIsZero(t *testing.T) {
	var h Handle
	if !h.IsZero() {
		t.Fatalf("zero Handle should report IsZero")
	}
	if State("anything").IsZero() {
		t.Fatalf("an interned handle must not report IsZero")
	}
}

func TestSortHandles(t *testing.T) {
	c := Command("c")
	a := Command("a")
	b := Command("b")
	hs := []Handle{c, a, b}
	SortHandles(hs)
	if !hs[0].Equal(c) || !hs[1].Equal(a) || !hs[2].Equal(b) {
		t.Fatalf("SortHandles must preserve first-interned order, got %v %v %v", hs[0], hs[1], hs[2])
	}
}
