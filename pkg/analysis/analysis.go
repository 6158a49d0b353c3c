// Package analysis computes, for every reachable state of a swarm
// protocol, the active and involved role sets (Phase A + Phase B, a
// fixed point over cycles) and then runs the per-edge well-formedness
// checks plus guard invariance (Phase C).
//
// Grounded on original_source/machine-check/src/swarm.rs, the only place
// in the pack that implements this exact algorithm: a post-order DFS that
// computes a first approximation of involved(), followed by a work-list
// fixed point that extends loop-end nodes from their successors and
// propagates growth backward until nothing changes.
package analysis

import (
	"sort"

	"github.com/matzehuels/swarmcheck/pkg/intern"
	"github.com/matzehuels/swarmcheck/pkg/swarm"
)

// Run performs Phase A, B and C over g starting at initial, and returns
// the rendered, sorted list of well-formedness diagnostics. emptyLog
// marks edges the loader already flagged as having an empty log; those
// are excluded from every check that depends on log content (spec.md
// S3: an empty log produces only the loader's own diagnostic), but they
// still participate in active-role computation and command-determinism
// checks, which do not depend on the log.
//
// g's node payloads are mutated in place: Analysis.Active/Involved are
// filled in for every node reachable from initial.
func Run(g *swarm.ProtocolGraph, initial swarm.NodeID, subs swarm.Subscriptions, emptyLog map[swarm.EdgeID]bool) []string {
	roles := internRoles(subs)

	loopEnds := phaseA(g, initial, subs, roles)
	phaseB(g, loopEnds)

	var out []string
	out = append(out, phaseC(g, initial, subs, emptyLog)...)
	out = append(out, nodeChecks(g, initial, emptyLog)...)
	out = append(out, guardInvariance(g, initial, emptyLog)...)

	sort.Strings(out)
	return out
}

// internRoles interns every role named in subs once, so Phase A never
// re-interns the same string per edge.
func internRoles(subs swarm.Subscriptions) []intern.Handle {
	names := subs.Roles()
	out := make([]intern.Handle, len(names))
	for i, n := range names {
		out[i] = intern.Role(n)
	}
	return out
}

// phaseA is the post-order DFS that computes Active for every reachable
// node and a first approximation of Involved, recording any node whose
// successor's Involved was still empty at visit time (a cycle back-edge,
// or a genuine sink — either way Phase B resolves it safely, since
// extending an already-empty set with more empty sets is a no-op).
func phaseA(g *swarm.ProtocolGraph, initial swarm.NodeID, subs swarm.Subscriptions, roles []intern.Handle) []swarm.NodeID {
	var loopEnds []swarm.NodeID

	swarm.DFSPostOrder(g, initial, swarm.AcceptAll[swarm.SwarmLabel], func(n swarm.NodeID) {
		node := g.Node(n)
		node.Analysis.Active = activeRoles(g, n)

		involved := swarm.RoleSet{}
		isLoopEnd := false
		for _, eid := range g.Out(n) {
			_, to := g.Endpoints(eid)
			target := g.Node(to)
			if target.Analysis.Involved.Len() == 0 {
				isLoopEnd = true
			} else {
				involved.Union(target.Analysis.Involved)
			}
			log := g.Label(eid).Log
			for _, r := range roles {
				if involved.Contains(r) {
					continue
				}
				if logIntersectsSub(log, subs, r.String()) {
					involved.Add(r)
				}
			}
		}
		node.Analysis.Involved = involved
		if isLoopEnd {
			loopEnds = append(loopEnds, n)
		}
	})

	return loopEnds
}

// phaseB repeatedly extends each loop-end node's Involved set with its
// successors' Involved sets, propagating any growth backward along
// incoming edges, until nothing changes. Involved is monotone under set
// union and bounded by the role universe, so this always terminates.
func phaseB(g *swarm.ProtocolGraph, loopEnds []swarm.NodeID) {
	for {
		modified := false
		for _, n := range loopEnds {
			node := g.Node(n)
			grew := false
			for _, eid := range g.Out(n) {
				_, to := g.Endpoints(eid)
				if node.Analysis.Involved.Union(g.Node(to).Analysis.Involved) {
					grew = true
				}
			}
			if grew {
				propagateBack(g, n)
				modified = true
			}
		}
		if !modified {
			break
		}
	}
}

// propagateBack pushes node's current Involved set backward along
// incoming edges, continuing wherever a predecessor's set actually grows.
func propagateBack(g *swarm.ProtocolGraph, node swarm.NodeID) {
	queue := []swarm.NodeID{node}
	for len(queue) > 0 {
		n := queue[len(queue)-1]
		queue = queue[:len(queue)-1]
		target := g.Node(n).Analysis.Involved
		for _, eid := range g.In(n) {
			from, _ := g.Endpoints(eid)
			src := g.Node(from)
			if src.Analysis.Involved.Union(target) {
				queue = append(queue, from)
			}
		}
	}
}

func activeRoles(g *swarm.ProtocolGraph, n swarm.NodeID) swarm.RoleSet {
	active := swarm.RoleSet{}
	for _, eid := range g.Out(n) {
		active.Add(g.Label(eid).Role)
	}
	return active
}

// logIntersectsSub reports whether role (by name) subscribes to at least
// one event type in log.
func logIntersectsSub(log []intern.Handle, subs swarm.Subscriptions, role string) bool {
	for _, ev := range log {
		if subs.Subscribes(role, ev.String()) {
			return true
		}
	}
	return false
}

// reachableNodes returns every node reachable from initial, in discovery
// (pre-)order.
func reachableNodes(g *swarm.ProtocolGraph, initial swarm.NodeID) []swarm.NodeID {
	var nodes []swarm.NodeID
	swarm.DFSPreOrder(g, initial, swarm.AcceptAll[swarm.SwarmLabel], func(n swarm.NodeID) {
		nodes = append(nodes, n)
	})
	return nodes
}
