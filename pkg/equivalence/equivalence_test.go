package equivalence_test

import (
	"testing"

	"github.com/matzehuels/swarmcheck/pkg/equivalence"
	"github.com/matzehuels/swarmcheck/pkg/intern"
	"github.com/matzehuels/swarmcheck/pkg/swarm"
)

func namedNode(g *swarm.MachineGraph, name string) swarm.NodeID {
	return g.AddNode(swarm.MachineNode{Name: intern.State(name), HasName: true})
}

// Two machines with identical shape must compare as fully equivalent.
func TestCompareIdenticalMachines(t *testing.T) {
	build := func() (*swarm.MachineGraph, swarm.NodeID) {
		g := swarm.New[swarm.MachineNode, swarm.MachineLabel]()
		s0 := namedNode(g, "S0")
		s1 := namedNode(g, "S1")
		g.AddEdge(s0, s0, swarm.Execute(intern.Command("a"), []intern.Handle{intern.EventType("E1")}))
		g.AddEdge(s0, s1, swarm.Input(intern.EventType("E1")))
		return g, s0
	}

	ref, refInit := build()
	spec, specInit := build()

	got := equivalence.Compare(ref, spec, refInit, specInit)
	if len(got) != 0 {
		t.Fatalf("expected no diagnostics for identical machines, got: %v", got)
	}
}

// A specimen missing a transition the reference has must be reported.
func TestCompareMissingTransition(t *testing.T) {
	ref := swarm.New[swarm.MachineNode, swarm.MachineLabel]()
	r0 := namedNode(ref, "S0")
	r1 := namedNode(ref, "S1")
	ref.AddEdge(r0, r1, swarm.Input(intern.EventType("E1")))

	spec := swarm.New[swarm.MachineNode, swarm.MachineLabel]()
	s0 := namedNode(spec, "S0")

	got := equivalence.Compare(ref, spec, r0, s0)
	if len(got) != 1 {
		t.Fatalf("expected exactly one diagnostic, got: %v", got)
	}
	want := "missing transition E1? from state S0 (from reference state S0)"
	if got[0] != want {
		t.Fatalf("diagnostic = %q, want %q", got[0], want)
	}
}

// A specimen with an extra transition the reference doesn't have is
// reported as extraneous, not missing.
func TestCompareExtraneousTransition(t *testing.T) {
	ref := swarm.New[swarm.MachineNode, swarm.MachineLabel]()
	r0 := namedNode(ref, "S0")

	spec := swarm.New[swarm.MachineNode, swarm.MachineLabel]()
	s0 := namedNode(spec, "S0")
	s1 := namedNode(spec, "S1")
	spec.AddEdge(s0, s1, swarm.Input(intern.EventType("E9")))

	got := equivalence.Compare(ref, spec, r0, s0)
	if len(got) != 1 {
		t.Fatalf("expected exactly one diagnostic, got: %v", got)
	}
	want := "extraneous transition E9? from state S0"
	if got[0] != want {
		t.Fatalf("diagnostic = %q, want %q", got[0], want)
	}
}
