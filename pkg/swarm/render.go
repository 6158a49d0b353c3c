package swarm

import "fmt"

// SwarmStateName returns the display name of a protocol-graph node. Every
// node in a ProtocolGraph carries a real name (it was created from a
// transition endpoint), so no fallback is needed.
func SwarmStateName(g *ProtocolGraph, id NodeID) string {
	return g.Node(id).Name.String()
}

// MachineStateName returns the display name of a machine-graph node.
// Named nodes (those corresponding to a swarm state) render as-is.
// Synthetic intermediate nodes created during projection have no name;
// their display name is resolved by walking back along the single
// incoming edge until a named ancestor is found, appending "(+d)" for the
// number of steps walked. This assumes intermediates form a linear chain
// with exactly one predecessor each, which holds because projection only
// ever creates them that way (see pkg/projection).
func MachineStateName(g *MachineGraph, id NodeID) string {
	steps := 0
	cur := id
	for {
		n := g.Node(cur)
		if n.HasName {
			if steps == 0 {
				return n.Name.String()
			}
			return fmt.Sprintf("%s(+%d)", n.Name, steps)
		}
		in := g.In(cur)
		if len(in) == 0 {
			// Defensive: an unnamed node with no predecessor should not
			// occur (projection never creates one), but render something
			// sensible rather than panicking.
			return fmt.Sprintf("<unnamed+%d>", steps)
		}
		from, _ := g.Endpoints(in[0])
		cur = from
		steps++
	}
}

// RenderSwarmTransition renders an edge of a ProtocolGraph as
// "(source)--[label]-->(target)", the uniform display format every
// well-formedness diagnostic uses.
func RenderSwarmTransition(g *ProtocolGraph, id EdgeID) string {
	from, to := g.Endpoints(id)
	return fmt.Sprintf("(%s)--[%s]-->(%s)", SwarmStateName(g, from), g.Label(id), SwarmStateName(g, to))
}

// RenderMachineTransition renders an edge of a MachineGraph the same way,
// resolving synthetic node names along the way.
func RenderMachineTransition(g *MachineGraph, id EdgeID) string {
	from, to := g.Endpoints(id)
	return fmt.Sprintf("(%s)--[%s]-->(%s)", MachineStateName(g, from), g.Label(id), MachineStateName(g, to))
}
