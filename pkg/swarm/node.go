package swarm

import "github.com/matzehuels/swarmcheck/pkg/intern"

// NodeAnalysis is the per-state derived record computed by the analysis
// engine: which roles are active at this state, and which roles are
// involved in any continuation reachable from it. The loader initialises
// both to empty sets; they are only meaningful once analysis has visited
// the node.
type NodeAnalysis struct {
	Active   RoleSet
	Involved RoleSet
}

// SwarmNode is the node payload of a protocol graph: the interned state
// name plus the slot the analysis engine fills in.
type SwarmNode struct {
	Name     intern.Handle // KindState
	Analysis NodeAnalysis
}

// MachineNode is the node payload of a projected machine graph. Named
// nodes correspond to a swarm state; unnamed (synthetic) nodes are the
// intermediate steps of a multi-event input chain and have HasName false.
type MachineNode struct {
	Name    intern.Handle
	HasName bool
}
