// Package swarmapi exposes the two JSON-in/JSON-out entry points a
// foreign caller uses: CheckSwarm and CheckProjection. This is the
// boundary the core algorithm sits behind — everything above this layer
// (CLI, HTTP server, TUI) talks JSON strings, never graphs or handles.
//
// Grounded on original_source/machine-check/src/lib.rs's check_swarm
// wasm-bindgen function for the parse/dispatch/encode shape. That file
// stops at check_swarm; check_projection is assembled directly from
// spec.md §6, wiring together pkg/loader, pkg/analysis, pkg/projection
// and pkg/equivalence, since no original_source file goes that far.
package swarmapi

import (
	"encoding/json"
	"sort"

	"github.com/matzehuels/swarmcheck/pkg/analysis"
	"github.com/matzehuels/swarmcheck/pkg/equivalence"
	"github.com/matzehuels/swarmcheck/pkg/loader"
	"github.com/matzehuels/swarmcheck/pkg/projection"
	"github.com/matzehuels/swarmcheck/pkg/swarm"
)

// wireProtocol mirrors Protocol<SwarmLabel> as transmitted over JSON.
type wireProtocol struct {
	Initial     string           `json:"initial"`
	Transitions []wireTransition `json:"transitions"`
}

type wireTransition struct {
	Source string         `json:"source"`
	Target string         `json:"target"`
	Label  wireSwarmLabel `json:"label"`
}

type wireSwarmLabel struct {
	Cmd     string   `json:"cmd"`
	LogType []string `json:"logType"`
	Role    string   `json:"role"`
}

// wireSubscriptions mirrors Subscriptions: role name to a set of event
// type names, transmitted as a JSON array rather than a set.
type wireSubscriptions map[string][]string

// wireMachine mirrors Protocol<MachineLabel>, the specimen machine
// supplied to check_projection.
type wireMachine struct {
	Initial     string                  `json:"initial"`
	Transitions []wireMachineTransition `json:"transitions"`
}

type wireMachineTransition struct {
	Source string           `json:"source"`
	Target string           `json:"target"`
	Label  wireMachineLabel `json:"label"`
}

type wireMachineLabel struct {
	Tag       string   `json:"tag"`
	Cmd       string   `json:"cmd,omitempty"`
	LogType   []string `json:"logType,omitempty"`
	EventType string   `json:"eventType,omitempty"`
}

// result is the discriminated {type:"OK"} / {type:"ERROR", errors:[...]}
// output shape, with OK carrying no errors field at all on the wire.
type result struct {
	Type   string   `json:"type"`
	Errors []string `json:"errors,omitempty"`
}

func ok() string {
	b, _ := json.Marshal(result{Type: "OK"})
	return string(b)
}

func errs(messages []string) string {
	b, _ := json.Marshal(result{Type: "ERROR", Errors: messages})
	return string(b)
}

func parseError(err error) string {
	return errs([]string{err.Error()})
}

// CheckSwarm parses a protocol and subscription map, loads and analyzes
// the protocol, and returns a JSON result: OK if well-formed, or ERROR
// with every collected diagnostic otherwise. Malformed JSON on either
// input short-circuits to an ERROR carrying the parser's own message.
func CheckSwarm(protocolJSON, subscriptionsJSON string) string {
	proto, subs, err := decodeSwarmInputs(protocolJSON, subscriptionsJSON)
	if err != nil {
		return parseError(err)
	}

	diags := runSwarmCheck(proto, subs)
	if len(diags) > 0 {
		return errs(diags)
	}
	return ok()
}

// CheckProjection runs the swarm check (any diagnostic short-circuits to
// ERROR), projects the protocol for role, loads the user-supplied
// specimen machine, and compares the two for deterministic bisimilarity.
// A specimen Execute transition that is not a self-loop is rejected
// before equivalence runs, with the exact message spec.md §6 specifies.
func CheckProjection(protocolJSON, subscriptionsJSON, role, machineJSON string) string {
	proto, subs, err := decodeSwarmInputs(protocolJSON, subscriptionsJSON)
	if err != nil {
		return parseError(err)
	}

	var wireSpecimen wireMachine
	if err := json.Unmarshal([]byte(machineJSON), &wireSpecimen); err != nil {
		return parseError(err)
	}

	diags := runSwarmCheck(proto, subs)
	if len(diags) > 0 {
		return errs(diags)
	}

	res, loadedSubs, _ := loader.Load(proto, subs)
	reference, refInitial := projection.Project(res.Graph, res.Initial, loadedSubs, role)

	specimenProto := toRawMachine(wireSpecimen)
	specimenRes, machineErrs := loader.LoadMachine(specimenProto)
	if len(machineErrs) > 0 {
		return errs(machineErrs)
	}
	if !specimenRes.HasInitial {
		return errs([]string{"initial machine state has no transitions"})
	}

	divergences := equivalence.Compare(reference, specimenRes.Graph, refInitial, specimenRes.Initial)
	if len(divergences) > 0 {
		return errs(sorted(divergences))
	}
	return ok()
}

// decodeSwarmInputs parses both JSON inputs CheckSwarm and CheckProjection
// share, returning the first parser error encountered (protocol before
// subscriptions, matching check_swarm's own ordering).
func decodeSwarmInputs(protocolJSON, subscriptionsJSON string) (swarm.RawProtocol, map[string][]string, error) {
	var wireProto wireProtocol
	if err := json.Unmarshal([]byte(protocolJSON), &wireProto); err != nil {
		return swarm.RawProtocol{}, nil, err
	}
	var wireSubs wireSubscriptions
	if err := json.Unmarshal([]byte(subscriptionsJSON), &wireSubs); err != nil {
		return swarm.RawProtocol{}, nil, err
	}
	return toRawProtocol(wireProto), map[string][]string(wireSubs), nil
}

// runSwarmCheck loads proto and runs the full analysis, combining loader
// diagnostics (e.g. empty logs, disconnected initial state) with
// well-formedness diagnostics into one sorted list.
func runSwarmCheck(proto swarm.RawProtocol, subs map[string][]string) []string {
	res, loadedSubs, loadErrs := loader.Load(proto, subs)
	if !res.HasInitial {
		return sorted(loadErrs)
	}
	diags := analysis.Run(res.Graph, res.Initial, loadedSubs, res.EmptyLog)
	return sorted(append(append([]string{}, loadErrs...), diags...))
}

func toRawProtocol(w wireProtocol) swarm.RawProtocol {
	out := swarm.RawProtocol{Initial: w.Initial, Transitions: make([]swarm.RawTransition, len(w.Transitions))}
	for i, t := range w.Transitions {
		out.Transitions[i] = swarm.RawTransition{
			Source: t.Source,
			Target: t.Target,
			Label: swarm.RawSwarmLabel{
				Cmd:     t.Label.Cmd,
				Role:    t.Label.Role,
				LogType: t.Label.LogType,
			},
		}
	}
	return out
}

func toRawMachine(w wireMachine) swarm.RawMachine {
	out := swarm.RawMachine{Initial: w.Initial, Transitions: make([]swarm.RawMachineTransition, len(w.Transitions))}
	for i, t := range w.Transitions {
		label := swarm.RawMachineLabel{}
		switch t.Label.Tag {
		case "Execute":
			label.Tag = swarm.TagExecute
			label.Cmd = t.Label.Cmd
			label.LogType = t.Label.LogType
		case "Input":
			label.Tag = swarm.TagInput
			label.Event = t.Label.EventType
		}
		out.Transitions[i] = swarm.RawMachineTransition{Source: t.Source, Target: t.Target, Label: label}
	}
	return out
}

func sorted(ss []string) []string {
	if ss == nil {
		return []string{}
	}
	out := append([]string(nil), ss...)
	sort.Strings(out)
	return out
}
