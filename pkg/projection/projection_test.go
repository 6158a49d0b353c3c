package projection_test

import (
	"testing"

	"github.com/matzehuels/swarmcheck/pkg/intern"
	"github.com/matzehuels/swarmcheck/pkg/loader"
	"github.com/matzehuels/swarmcheck/pkg/projection"
	"github.com/matzehuels/swarmcheck/pkg/swarm"
)

// S6-style check: projecting for a role that subscribes to only some of a
// transition's log must produce one Input edge per subscribed event, in
// original log order, threading k subscribed events through k-1 synthetic
// intermediate nodes (elided events get no node of their own) — and an
// Execute self-loop for every command that
// role issues, carrying the transition's full (unfiltered) log.
func TestProjectPartialSubscription(t *testing.T) {
	proto := swarm.RawProtocol{
		Initial: "S0",
		Transitions: []swarm.RawTransition{
			{Source: "S0", Target: "S1", Label: swarm.RawSwarmLabel{Cmd: "a", Role: "P", LogType: []string{"E1", "E2", "E3"}}},
			{Source: "S1", Target: "S2", Label: swarm.RawSwarmLabel{Cmd: "b", Role: "Q", LogType: []string{"E4"}}},
		},
	}
	subs := map[string][]string{"P": {"E1", "E3"}}

	res, loadedSubs, errs := loader.Load(proto, subs)
	if len(errs) != 0 {
		t.Fatalf("unexpected load errors: %v", errs)
	}

	machine, initial := projection.Project(res.Graph, res.Initial, loadedSubs, "P")

	if got := swarm.MachineStateName(machine, initial); got != "S0" {
		t.Fatalf("initial machine node name = %q, want S0", got)
	}
	if got, want := machine.NodeCount(), 3; got != want {
		t.Fatalf("node count = %d, want %d (S0, S1, one intermediate)", got, want)
	}
	if got, want := machine.EdgeCount(), 3; got != want {
		t.Fatalf("edge count = %d, want %d (1 self-loop + 2 input hops)", got, want)
	}

	var selfLoops, inputs []swarm.EdgeID
	for i := 0; i < machine.EdgeCount(); i++ {
		eid := swarm.EdgeID(i)
		from, to := machine.Endpoints(eid)
		if from == to {
			selfLoops = append(selfLoops, eid)
		} else {
			inputs = append(inputs, eid)
		}
	}

	if len(selfLoops) != 1 {
		t.Fatalf("expected exactly one self-loop, got %d", len(selfLoops))
	}
	loop := machine.Label(selfLoops[0])
	if loop.Tag != swarm.TagExecute || loop.Cmd.String() != "a" {
		t.Fatalf("self-loop label = %+v, want Execute{cmd:a}", loop)
	}
	if got := renderEvents(loop.Log); got != "E1,E2,E3" {
		t.Fatalf("self-loop log = %s, want full unfiltered log E1,E2,E3", got)
	}
	loopFrom, _ := machine.Endpoints(selfLoops[0])
	if loopFrom != initial {
		t.Fatalf("self-loop is not on the initial machine node")
	}

	if len(inputs) != 2 {
		t.Fatalf("expected exactly two input hops, got %d", len(inputs))
	}
	first, second := inputs[0], inputs[1]
	if from, _ := machine.Endpoints(first); from != initial {
		first, second = second, first
	}
	if from, _ := machine.Endpoints(first); from != initial {
		t.Fatalf("no input hop starts at the initial machine node")
	}
	if got := machine.Label(first).Event.String(); got != "E1" {
		t.Fatalf("first hop event = %s, want E1", got)
	}
	_, mid := machine.Endpoints(first)
	if machine.Node(mid).HasName {
		t.Fatalf("intermediate node unexpectedly has a name")
	}
	secondFrom, secondTo := machine.Endpoints(second)
	if secondFrom != mid {
		t.Fatalf("second hop does not continue from the intermediate node")
	}
	if got := machine.Label(second).Event.String(); got != "E3" {
		t.Fatalf("second hop event = %s, want E3", got)
	}
	if got := swarm.MachineStateName(machine, secondTo); got != "S1" {
		t.Fatalf("second hop target name = %s, want S1", got)
	}
}

func renderEvents(log []intern.Handle) string {
	out := ""
	for i, ev := range log {
		if i > 0 {
			out += ","
		}
		out += ev.String()
	}
	return out
}
