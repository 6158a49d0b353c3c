// Package equivalence compares a reference machine (typically a
// projection) against a specimen machine (user-supplied) for
// deterministic bisimilarity.
//
// Grounded directly on spec.md §4.6 — no file in original_source goes
// beyond projection, so there is no Rust implementation to port here —
// using pkg/dag/perm's sorted-key merge-walk idiom for the deterministic
// pairwise comparison of two label sequences.
package equivalence

import (
	"fmt"
	"sort"

	"github.com/matzehuels/swarmcheck/pkg/intern"
	"github.com/matzehuels/swarmcheck/pkg/swarm"
)

// Compare walks reference (rooted at refInitial) and specimen (rooted at
// specInitial) in lockstep and returns every divergence found, rendered
// and in discovery order (the caller sorts for the public surface).
func Compare(reference, specimen *swarm.MachineGraph, refInitial, specInitial swarm.NodeID) []string {
	c := &comparer{reference: reference, specimen: specimen}
	c.walk(refInitial, specInitial)
	return c.diagnostics
}

type comparer struct {
	reference, specimen *swarm.MachineGraph
	l2r                 map[swarm.NodeID]swarm.NodeID
	r2l                 map[swarm.NodeID]swarm.NodeID
	diagnostics         []string
}

func (c *comparer) walk(l, r swarm.NodeID) {
	if c.l2r == nil {
		c.l2r = map[swarm.NodeID]swarm.NodeID{}
		c.r2l = map[swarm.NodeID]swarm.NodeID{}
	}

	_, lSeen := c.l2r[l]
	_, rSeen := c.r2l[r]
	if lSeen && rSeen {
		return
	}
	if !lSeen {
		c.l2r[l] = r
	}
	if !rSeen {
		c.r2l[r] = l
	}

	lEdges := groupByKey(c.reference, l)
	rEdges := groupByKey(c.specimen, r)

	discrepancy := false

	for _, key := range sortedEdgeKeys(lEdges) {
		if len(lEdges[key]) > 1 {
			c.diagnostics = append(c.diagnostics, fmt.Sprintf(
				"non-deterministic reference transition for key %s in state %s",
				key, swarm.MachineStateName(c.reference, l),
			))
			discrepancy = true
		}
	}
	for _, key := range sortedEdgeKeys(rEdges) {
		if len(rEdges[key]) > 1 {
			c.diagnostics = append(c.diagnostics, fmt.Sprintf(
				"non-deterministic specimen transition for key %s in state %s",
				key, swarm.MachineStateName(c.specimen, r),
			))
			discrepancy = true
		}
	}

	lKeys := sortedEdgeKeys(lEdges)
	rKeys := sortedEdgeKeys(rEdges)

	var recursions [][2]swarm.NodeID
	i, j := 0, 0
	for i < len(lKeys) && j < len(rKeys) {
		switch {
		case keyLess(lKeys[i], rKeys[j]):
			c.diagnostics = append(c.diagnostics, c.missingFromSpecimen(l, lEdges[lKeys[i]][0]))
			discrepancy = true
			i++
		case keyLess(rKeys[j], lKeys[i]):
			c.diagnostics = append(c.diagnostics, c.extraneousInSpecimen(r, rEdges[rKeys[j]][0]))
			discrepancy = true
			j++
		default:
			_, lt := c.reference.Endpoints(lEdges[lKeys[i]][0])
			_, rt := c.specimen.Endpoints(rEdges[rKeys[j]][0])
			recursions = append(recursions, [2]swarm.NodeID{lt, rt})
			i++
			j++
		}
	}
	for ; i < len(lKeys); i++ {
		c.diagnostics = append(c.diagnostics, c.missingFromSpecimen(l, lEdges[lKeys[i]][0]))
		discrepancy = true
	}
	for ; j < len(rKeys); j++ {
		c.diagnostics = append(c.diagnostics, c.extraneousInSpecimen(r, rEdges[rKeys[j]][0]))
		discrepancy = true
	}

	if discrepancy {
		return
	}
	for _, pair := range recursions {
		c.walk(pair[0], pair[1])
	}
}

func (c *comparer) missingFromSpecimen(l swarm.NodeID, edge swarm.EdgeID) string {
	return fmt.Sprintf(
		"missing transition %s from state %s (from reference state %s)",
		c.reference.Label(edge), specimenStateFallback(c, l), swarm.MachineStateName(c.reference, l),
	)
}

func (c *comparer) extraneousInSpecimen(r swarm.NodeID, edge swarm.EdgeID) string {
	return fmt.Sprintf(
		"extraneous transition %s from state %s",
		c.specimen.Label(edge), swarm.MachineStateName(c.specimen, r),
	)
}

// specimenStateFallback names the specimen node paired with reference
// node l, if any pairing has been recorded yet; this renders "missing
// transition" diagnostics against the specimen state a user can look at,
// falling back to the reference name when no specimen node was ever
// paired with l (l was reached only via this very check).
func specimenStateFallback(c *comparer, l swarm.NodeID) string {
	if r, ok := c.l2r[l]; ok {
		return swarm.MachineStateName(c.specimen, r)
	}
	return swarm.MachineStateName(c.reference, l)
}

// groupByKey buckets node's outgoing edges by their deterministic
// comparison key (MachineLabel.Key()).
func groupByKey(g *swarm.MachineGraph, node swarm.NodeID) map[intern.Handle][]swarm.EdgeID {
	out := map[intern.Handle][]swarm.EdgeID{}
	for _, eid := range g.Out(node) {
		key := g.Label(eid).Key()
		out[key] = append(out[key], eid)
	}
	return out
}

// sortedEdgeKeys orders keys for the merge-walk. A node's outgoing labels
// can mix Execute keys (commands) and Input keys (event types) — two
// different intern.Handle kinds — and Handle.Less panics when kinds
// differ, so keys are ordered by kind first and only compared by rank
// within a kind. Both sides of a comparison use this same ordering, so
// the merge-walk stays consistent even though the ordering itself is
// otherwise arbitrary between kinds.
func sortedEdgeKeys(m map[intern.Handle][]swarm.EdgeID) []intern.Handle {
	out := make([]intern.Handle, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return keyLess(out[i], out[j]) })
	return out
}

// keyLess orders two comparison keys that may belong to different
// intern.Handle kinds (Execute keys are commands, Input keys are event
// types); see sortedEdgeKeys for why Handle.Less alone is unsafe here.
func keyLess(a, b intern.Handle) bool {
	if a.Kind() != b.Kind() {
		return a.Kind() < b.Kind()
	}
	return a.Less(b)
}
