// Package swarm holds the data model for swarm protocols: interned
// labels, the protocol description as parsed from JSON, and the directed
// multigraph the loader builds from it.
package swarm

import (
	"fmt"
	"strings"

	"github.com/matzehuels/swarmcheck/pkg/intern"
)

// SwarmLabel is the triple (command, role, log) carried by a transition of
// the global protocol. The first element of Log is the guard; the rest are
// emitted in order after it. The loader keeps a transition with an empty
// log in the graph and flags its edge in Result.EmptyLog; Guard panics on
// such a label, so the analysis engine skips flagged edges wherever it
// reads the log.
type SwarmLabel struct {
	Cmd  intern.Handle   // KindCommand
	Role intern.Handle   // KindRole
	Log  []intern.Handle // KindEventType; empty only on flagged edges
}

// Guard returns the first event of the log, the label's guard event.
func (l SwarmLabel) Guard() intern.Handle { return l.Log[0] }

// String renders the label as "cmd@role<ev1,ev2,...>".
func (l SwarmLabel) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s@%s<", l.Cmd, l.Role)
	writeLog(&b, l.Log)
	b.WriteByte('>')
	return b.String()
}

func writeLog(b *strings.Builder, log []intern.Handle) {
	for i, ev := range log {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(ev.String())
	}
}

// MachineLabelTag distinguishes the two MachineLabel variants.
type MachineLabelTag uint8

const (
	// TagExecute marks a command a role may issue; always a self-loop.
	TagExecute MachineLabelTag = iota
	// TagInput marks consumption of one externally observed event.
	TagInput
)

// MachineLabel is a sum type: Execute{cmd, log} or Input{eventType}. Only
// the fields relevant to Tag are meaningful.
type MachineLabel struct {
	Tag MachineLabelTag

	// Execute fields.
	Cmd intern.Handle
	Log []intern.Handle

	// Input field.
	Event intern.Handle
}

// Execute builds an Execute machine label.
func Execute(cmd intern.Handle, log []intern.Handle) MachineLabel {
	return MachineLabel{Tag: TagExecute, Cmd: cmd, Log: log}
}

// Input builds an Input machine label.
func Input(event intern.Handle) MachineLabel {
	return MachineLabel{Tag: TagInput, Event: event}
}

// Key is the deterministic comparison key used when sorting and pairing
// outgoing edges during machine equivalence: the command for Execute,
// the event type for Input.
func (l MachineLabel) Key() intern.Handle {
	if l.Tag == TagExecute {
		return l.Cmd
	}
	return l.Event
}

// String renders "cmd/ev1,ev2" for Execute or "ev?" for Input.
func (l MachineLabel) String() string {
	if l.Tag == TagExecute {
		var b strings.Builder
		fmt.Fprintf(&b, "%s/", l.Cmd)
		writeLog(&b, l.Log)
		return b.String()
	}
	return l.Event.String() + "?"
}

// Subscriptions maps a role to the set of event types it observes. A role
// absent from the map is treated as subscribing to the empty set.
type Subscriptions map[string]map[string]bool

// Subscribes reports whether role subscribes to event type ev (both given
// as plain strings, as subscriptions are looked up directly from decoded
// JSON before interning is relevant).
func (s Subscriptions) Subscribes(role, ev string) bool {
	return s[role][ev]
}

// Roles returns every role named in the subscription map, regardless of
// whether it is active anywhere in the protocol. The analysis engine must
// range over this set, not just roles observed on a transition — a role
// can become involved purely by subscribing to a reachable event
// (see DESIGN.md, grounded on original_source/machine-check/src/swarm.rs).
func (s Subscriptions) Roles() []string {
	roles := make([]string, 0, len(s))
	for r := range s {
		roles = append(roles, r)
	}
	return roles
}
