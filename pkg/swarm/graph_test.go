package swarm

import (
	"reflect"
	"testing"
)

func buildLineGraph() (*Graph[string, int], NodeID, NodeID, NodeID) {
	g := New[string, int]()
	a := g.AddNode("a")
	b := g.AddNode("b")
	c := g.AddNode("c")
	g.AddEdge(a, b, 1)
	g.AddEdge(b, c, 2)
	return g, a, b, c
}

func TestAddNodeAndAddEdge(t *testing.T) {
	g, a, b, c := buildLineGraph()
	if g.NodeCount() != 3 {
		t.Fatalf("got %d nodes, want 3", g.NodeCount())
	}
	if g.EdgeCount() != 2 {
		t.Fatalf("got %d edges, want 2", g.EdgeCount())
	}
	if *g.Node(a) != "a" || *g.Node(b) != "b" || *g.Node(c) != "c" {
		t.Fatalf("node payloads not preserved")
	}
}

func TestMultipleEdgesBetweenSameEndpointsStayAddressable(t *testing.T) {
	g := New[string, int]()
	a := g.AddNode("a")
	b := g.AddNode("b")
	e1 := g.AddEdge(a, b, 1)
	e2 := g.AddEdge(a, b, 2)
	if e1 == e2 {
		t.Fatalf("two edges between the same endpoints must get distinct ids")
	}
	if g.Label(e1) == g.Label(e2) {
		t.Fatalf("labels must stay independently addressable")
	}
	out := g.Out(a)
	if len(out) != 2 || out[0] != e1 || out[1] != e2 {
		t.Fatalf("Out must preserve insertion order, got %v", out)
	}
}

func TestEndpointsAndInOut(t *testing.T) {
	g, a, b, c := buildLineGraph()
	eAB := g.Out(a)[0]
	from, to := g.Endpoints(eAB)
	if from != a || to != b {
		t.Fatalf("Endpoints got (%v,%v), want (%v,%v)", from, to, a, b)
	}
	if len(g.In(c)) != 1 {
		t.Fatalf("expected one incoming edge at c")
	}
	if len(g.In(a)) != 0 {
		t.Fatalf("expected no incoming edges at a")
	}
}

func TestNodeIDsInsertionOrder(t *testing.T) {
	g, a, b, c := buildLineGraph()
	got := g.NodeIDs()
	want := []NodeID{a, b, c}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestDFSPostOrderVisitsChildrenBeforeParent(t *testing.T) {
	g, a, _, _ := buildLineGraph()
	var order []NodeID
	DFSPostOrder(g, a, AcceptAll[int], func(n NodeID) { order = append(order, n) })
	if len(order) != 3 {
		t.Fatalf("got %d visits, want 3", len(order))
	}
	// c (the leaf) must be visited before b, and b before a.
	pos := map[NodeID]int{}
	for i, n := range order {
		pos[n] = i
	}
	if pos[g.NodeIDs()[2]] >= pos[g.NodeIDs()[1]] || pos[g.NodeIDs()[1]] >= pos[g.NodeIDs()[0]] {
		t.Fatalf("post-order must visit children before parents, got %v", order)
	}
}

func TestDFSPreOrderVisitsParentBeforeChildren(t *testing.T) {
	g, a, b, c := buildLineGraph()
	var order []NodeID
	DFSPreOrder(g, a, AcceptAll[int], func(n NodeID) { order = append(order, n) })
	want := []NodeID{a, b, c}
	if !reflect.DeepEqual(order, want) {
		t.Fatalf("got %v, want %v", order, want)
	}
}

func TestDFSFilterSkipsEdges(t *testing.T) {
	g, a, _, c := buildLineGraph()
	var order []NodeID
	onlyOdd := func(_ EdgeID, label int) bool { return label%2 == 1 }
	DFSPreOrder(g, a, onlyOdd, func(n NodeID) { order = append(order, n) })
	// Only the a->b edge (label 1) is followed; c is unreachable through b->c (label 2).
	for _, n := range order {
		if n == c {
			t.Fatalf("filtered traversal should not have reached c, got order %v", order)
		}
	}
}

func TestDFSHandlesCyclesWithoutInfiniteLoop(t *testing.T) {
	g := New[string, int]()
	a := g.AddNode("a")
	b := g.AddNode("b")
	g.AddEdge(a, b, 1)
	g.AddEdge(b, a, 1)

	var order []NodeID
	DFSPreOrder(g, a, AcceptAll[int], func(n NodeID) { order = append(order, n) })
	if len(order) != 2 {
		t.Fatalf("cyclic graph must still visit each node exactly once, got %v", order)
	}
}
