package loader

import (
	"testing"

	"github.com/matzehuels/swarmcheck/pkg/swarm"
)

func TestLoadBuildsGraphAndResolvesInitial(t *testing.T) {
	proto := swarm.RawProtocol{
		Initial: "s0",
		Transitions: []swarm.RawTransition{
			{Source: "s0", Target: "s1", Label: swarm.RawSwarmLabel{Cmd: "request", Role: "Buyer", LogType: []string{"requested"}}},
			{Source: "s1", Target: "s2", Label: swarm.RawSwarmLabel{Cmd: "accept", Role: "Seller", LogType: []string{"accepted"}}},
		},
	}
	subs := map[string][]string{"Buyer": {"requested"}}

	res, loadedSubs, errs := Load(proto, subs)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if !res.HasInitial {
		t.Fatalf("expected initial state to resolve")
	}
	if res.Graph.NodeCount() != 3 {
		t.Fatalf("got %d nodes, want 3", res.Graph.NodeCount())
	}
	if res.Graph.EdgeCount() != 2 {
		t.Fatalf("got %d edges, want 2", res.Graph.EdgeCount())
	}
	if !loadedSubs.Subscribes("Buyer", "requested") {
		t.Fatalf("expected Buyer to subscribe to requested")
	}
	if len(res.EmptyLog) != 0 {
		t.Fatalf("expected no empty-log edges")
	}
}

func TestLoadFlagsUnresolvedInitialState(t *testing.T) {
	proto := swarm.RawProtocol{
		Initial: "nowhere",
		Transitions: []swarm.RawTransition{
			{Source: "s0", Target: "s1", Label: swarm.RawSwarmLabel{Cmd: "c", Role: "R", LogType: []string{"e"}}},
		},
	}
	res, _, errs := Load(proto, nil)
	if res.HasInitial {
		t.Fatalf("unresolved initial state must not report HasInitial")
	}
	found := false
	for _, e := range errs {
		if e == "initial swarm protocol state has no transitions" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected unresolved-initial diagnostic, got %v", errs)
	}
}

func TestLoadFlagsEmptyLog(t *testing.T) {
	proto := swarm.RawProtocol{
		Initial: "s0",
		Transitions: []swarm.RawTransition{
			{Source: "s0", Target: "s1", Label: swarm.RawSwarmLabel{Cmd: "c", Role: "R", LogType: nil}},
		},
	}
	res, _, errs := Load(proto, nil)
	if len(errs) != 1 {
		t.Fatalf("expected exactly one diagnostic, got %v", errs)
	}
	eid := res.Graph.Out(res.Graph.NodeIDs()[0])[0]
	if !res.EmptyLog[eid] {
		t.Fatalf("expected the empty-log edge to be flagged")
	}
}

func TestLoadDedupesRepeatedStateNames(t *testing.T) {
	proto := swarm.RawProtocol{
		Initial: "s0",
		Transitions: []swarm.RawTransition{
			{Source: "s0", Target: "s1", Label: swarm.RawSwarmLabel{Cmd: "a", Role: "R", LogType: []string{"e1"}}},
			{Source: "s0", Target: "s2", Label: swarm.RawSwarmLabel{Cmd: "b", Role: "R", LogType: []string{"e2"}}},
		},
	}
	res, _, errs := Load(proto, nil)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if res.Graph.NodeCount() != 3 {
		t.Fatalf("state s0 must be allocated once despite appearing in two transitions, got %d nodes", res.Graph.NodeCount())
	}
}

func TestLoadMachineSelfLoopExecute(t *testing.T) {
	proto := swarm.RawMachine{
		Initial: "s0",
		Transitions: []swarm.RawMachineTransition{
			{Source: "s0", Target: "s0", Label: swarm.RawMachineLabel{Tag: swarm.TagExecute, Cmd: "request", LogType: []string{"requested"}}},
			{Source: "s0", Target: "s1", Label: swarm.RawMachineLabel{Tag: swarm.TagInput, Event: "accepted"}},
		},
	}
	res, errs := LoadMachine(proto)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if res.Graph.NodeCount() != 2 {
		t.Fatalf("got %d nodes, want 2", res.Graph.NodeCount())
	}
	if !res.HasInitial {
		t.Fatalf("expected initial state to resolve")
	}
}

func TestLoadMachineRejectsNonSelfLoopExecute(t *testing.T) {
	proto := swarm.RawMachine{
		Initial: "s0",
		Transitions: []swarm.RawMachineTransition{
			{Source: "s0", Target: "s1", Label: swarm.RawMachineLabel{Tag: swarm.TagExecute, Cmd: "request", LogType: []string{"requested"}}},
		},
	}
	_, errs := LoadMachine(proto)
	if len(errs) != 1 {
		t.Fatalf("expected exactly one diagnostic, got %v", errs)
	}
	want := "command request is not a self-loop in state s0"
	if errs[0] != want {
		t.Fatalf("got %q, want %q", errs[0], want)
	}
}
