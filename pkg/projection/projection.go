// Package projection derives a per-role local machine from a swarm
// protocol graph by filtering on the role's subscription.
//
// Grounded on original_source/machine-check/src/machine.rs's project():
// an edge filter plus two DFS passes over the filtered graph, the first
// creating corresponding machine nodes and Execute self-loops, the
// second materializing Input chains for incoming edges. This port
// follows spec.md §4.5 rather than machine.rs on one point: the number
// of synthetic intermediate nodes per materialized edge is the count of
// *subscribed* events in the log (k), not the full log length — see
// DESIGN.md for the resolved divergence.
package projection

import (
	"github.com/matzehuels/swarmcheck/pkg/intern"
	"github.com/matzehuels/swarmcheck/pkg/swarm"
)

// Project filters g by role's subscription, starting from initial, and
// returns the resulting machine graph together with the machine node
// corresponding to initial.
func Project(g *swarm.ProtocolGraph, initial swarm.NodeID, subs swarm.Subscriptions, role string) (*swarm.MachineGraph, swarm.NodeID) {
	roleHandle := intern.Role(role)
	interesting := func(log []intern.Handle) bool {
		for _, ev := range log {
			if subs.Subscribes(role, ev.String()) {
				return true
			}
		}
		return false
	}
	filter := func(_ swarm.EdgeID, label swarm.SwarmLabel) bool { return interesting(label.Log) }

	machine := swarm.New[swarm.MachineNode, swarm.MachineLabel]()
	mapped := make([]bool, g.NodeCount())
	mNodes := make([]swarm.NodeID, g.NodeCount())

	// First pass: one machine node per reached swarm node, plus an Execute
	// self-loop for every interesting outgoing edge this role issues.
	swarm.DFSPreOrder(g, initial, filter, func(n swarm.NodeID) {
		id := machine.AddNode(swarm.MachineNode{Name: g.Node(n).Name, HasName: true})
		mNodes[n] = id
		mapped[n] = true

		for _, eid := range g.Out(n) {
			label := g.Label(eid)
			if !interesting(label.Log) || !label.Role.Equal(roleHandle) {
				continue
			}
			machine.AddEdge(id, id, swarm.Execute(label.Cmd, label.Log))
		}
	})

	// Second pass: materialize every interesting incoming edge as a chain
	// of Input transitions, one per subscribed event in log order.
	swarm.DFSPreOrder(g, initial, filter, func(n swarm.NodeID) {
		target := mNodes[n]

		for _, eid := range g.In(n) {
			label := g.Label(eid)
			if !interesting(label.Log) {
				continue
			}
			from, _ := g.Endpoints(eid)
			if !mapped[from] {
				// Source was never reached going forward from initial under
				// this role's filter; the edge is out of the projected scope.
				continue
			}

			subscribed := subscribedEvents(label.Log, subs, role)
			cur := mNodes[from]
			for i, ev := range subscribed {
				next := target
				if i < len(subscribed)-1 {
					next = machine.AddNode(swarm.MachineNode{HasName: false})
				}
				machine.AddEdge(cur, next, swarm.Input(ev))
				cur = next
			}
		}
	})

	return machine, mNodes[initial]
}

// subscribedEvents returns the events of log that role subscribes to,
// in their original order, including duplicates (each occurrence in the
// log produces its own Input edge).
func subscribedEvents(log []intern.Handle, subs swarm.Subscriptions, role string) []intern.Handle {
	var out []intern.Handle
	for _, ev := range log {
		if subs.Subscribes(role, ev.String()) {
			out = append(out, ev)
		}
	}
	return out
}
