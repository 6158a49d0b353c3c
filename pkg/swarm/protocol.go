package swarm

// ProtocolGraph is the global choreography graph: states carry SwarmNode
// payloads (name + analysis slot), transitions carry SwarmLabel.
type ProtocolGraph = Graph[SwarmNode, SwarmLabel]

// MachineGraph is a per-role local machine: states carry MachineNode
// payloads (name, possibly synthetic), transitions carry MachineLabel.
type MachineGraph = Graph[MachineNode, MachineLabel]

// RawTransition is one transition as parsed from JSON, with plain string
// fields — interning happens in the loader, which is the first place that
// needs a stable identity for these strings.
type RawTransition struct {
	Source string
	Target string
	Label  RawSwarmLabel
}

// RawSwarmLabel mirrors SwarmLabel before interning.
type RawSwarmLabel struct {
	Cmd     string
	Role    string
	LogType []string
}

// RawProtocol is a parsed Protocol<SwarmLabel> before loading.
type RawProtocol struct {
	Initial     string
	Transitions []RawTransition
}

// RawMachineLabel mirrors MachineLabel before interning: exactly one of
// the two variants is populated, selected by Tag.
type RawMachineLabel struct {
	Tag     MachineLabelTag
	Cmd     string   // Execute
	LogType []string // Execute
	Event   string   // Input
}

// RawMachineTransition is one machine transition as parsed from JSON.
type RawMachineTransition struct {
	Source string
	Target string
	Label  RawMachineLabel
}

// RawMachine is a parsed Protocol<MachineLabel> before loading (the
// specimen machine supplied to check_projection).
type RawMachine struct {
	Initial     string
	Transitions []RawMachineTransition
}
