// Package loader translates an externally parsed Protocol<SwarmLabel> and
// Subscriptions map into a swarm.ProtocolGraph, ready for analysis.
//
// Grounded on original_source/machine-check/src/swarm.rs's prepare_graph:
// fold transitions left-to-right, allocating a node the first time a state
// name is seen, then resolve the initial state name against the nodes
// that were actually created.
package loader

import (
	"fmt"
	"sort"

	"github.com/matzehuels/swarmcheck/pkg/intern"
	"github.com/matzehuels/swarmcheck/pkg/swarm"
)

// Result is the outcome of loading a protocol.
type Result struct {
	Graph      *swarm.ProtocolGraph
	Initial    swarm.NodeID
	HasInitial bool

	// EmptyLog marks edges whose log was empty at load time. The analysis
	// engine excludes these from every per-edge well-formedness check
	// beyond the LogTypeEmpty diagnostic already recorded for them.
	EmptyLog map[swarm.EdgeID]bool
}

// Load builds a ProtocolGraph from proto and resolves subs into a
// swarm.Subscriptions. It returns the partially-or-fully built graph
// together with any loader diagnostics, already rendered as the exact
// strings the public surface returns. Diagnostics are accumulated, never
// fatal to each other: an empty log on one transition does not stop the
// rest of the protocol from loading.
func Load(proto swarm.RawProtocol, rawSubs map[string][]string) (*Result, swarm.Subscriptions, []string) {
	g := swarm.New[swarm.SwarmNode, swarm.SwarmLabel]()
	nodes := make(map[string]swarm.NodeID)
	emptyLog := make(map[swarm.EdgeID]bool)
	var errs []string

	nodeFor := func(name string) swarm.NodeID {
		if id, ok := nodes[name]; ok {
			return id
		}
		id := g.AddNode(swarm.SwarmNode{
			Name: intern.State(name),
			Analysis: swarm.NodeAnalysis{
				Active:   swarm.RoleSet{},
				Involved: swarm.RoleSet{},
			},
		})
		nodes[name] = id
		return id
	}

	for _, t := range proto.Transitions {
		from := nodeFor(t.Source)
		to := nodeFor(t.Target)

		log := make([]intern.Handle, len(t.Label.LogType))
		for i, ev := range t.Label.LogType {
			log[i] = intern.EventType(ev)
		}
		label := swarm.SwarmLabel{
			Cmd:  intern.Command(t.Label.Cmd),
			Role: intern.Role(t.Label.Role),
			Log:  log,
		}
		eid := g.AddEdge(from, to, label)
		if len(t.Label.LogType) == 0 {
			emptyLog[eid] = true
			errs = append(errs, fmt.Sprintf("log type must not be empty %s", swarm.RenderSwarmTransition(g, eid)))
		}
	}

	result := &Result{Graph: g, EmptyLog: emptyLog}
	if id, ok := nodes[proto.Initial]; ok {
		result.Initial = id
		result.HasInitial = true
	} else {
		errs = append(errs, "initial swarm protocol state has no transitions")
	}

	subs := make(swarm.Subscriptions, len(rawSubs))
	for role, evs := range rawSubs {
		set := make(map[string]bool, len(evs))
		for _, ev := range evs {
			set[ev] = true
		}
		subs[role] = set
	}

	sort.Strings(errs)
	return result, subs, errs
}
