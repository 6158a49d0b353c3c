package loader

import (
	"fmt"
	"sort"

	"github.com/matzehuels/swarmcheck/pkg/intern"
	"github.com/matzehuels/swarmcheck/pkg/swarm"
)

// MachineResult is the outcome of loading a user-supplied specimen
// machine.
type MachineResult struct {
	Graph      *swarm.MachineGraph
	Initial    swarm.NodeID
	HasInitial bool
}

// LoadMachine builds a MachineGraph from a parsed Protocol<MachineLabel>,
// folding transitions left-to-right the same way Load folds swarm
// transitions. Unlike Load, the only loader-level diagnostic is the
// "Execute must be a self-loop" check: check_projection §6 rejects a
// non-self-loop Execute transition in the specimen with a message naming
// both the command and the source state.
func LoadMachine(proto swarm.RawMachine) (*MachineResult, []string) {
	g := swarm.New[swarm.MachineNode, swarm.MachineLabel]()
	nodes := make(map[string]swarm.NodeID)
	var errs []string

	nodeFor := func(name string) swarm.NodeID {
		if id, ok := nodes[name]; ok {
			return id
		}
		id := g.AddNode(swarm.MachineNode{Name: intern.State(name), HasName: true})
		nodes[name] = id
		return id
	}

	for _, t := range proto.Transitions {
		from := nodeFor(t.Source)
		to := nodeFor(t.Target)

		switch t.Label.Tag {
		case swarm.TagExecute:
			if from != to {
				errs = append(errs, fmt.Sprintf("command %s is not a self-loop in state %s", t.Label.Cmd, t.Source))
				continue
			}
			log := make([]intern.Handle, len(t.Label.LogType))
			for i, ev := range t.Label.LogType {
				log[i] = intern.EventType(ev)
			}
			g.AddEdge(from, to, swarm.Execute(intern.Command(t.Label.Cmd), log))
		case swarm.TagInput:
			g.AddEdge(from, to, swarm.Input(intern.EventType(t.Label.Event)))
		}
	}

	result := &MachineResult{Graph: g}
	if id, ok := nodes[proto.Initial]; ok {
		result.Initial = id
		result.HasInitial = true
	}

	sort.Strings(errs)
	return result, errs
}
