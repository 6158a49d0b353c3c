package analysis

import (
	"fmt"
	"strings"

	"github.com/matzehuels/swarmcheck/pkg/intern"
	"github.com/matzehuels/swarmcheck/pkg/swarm"
)

// phaseC runs the four log-dependent per-edge checks over every edge
// reachable from initial, skipping edges the loader already flagged as
// having an empty log.
func phaseC(g *swarm.ProtocolGraph, initial swarm.NodeID, subs swarm.Subscriptions, emptyLog map[swarm.EdgeID]bool) []string {
	var out []string
	for _, n := range reachableNodes(g, initial) {
		for _, eid := range g.Out(n) {
			if emptyLog[eid] {
				continue
			}
			_, to := g.Endpoints(eid)
			label := g.Label(eid)
			target := g.Node(to)

			out = append(out, checkActiveRoleSubscribed(g, eid, label, subs)...)
			out = append(out, checkLaterActiveSubscribed(g, eid, label, target.Analysis.Active, subs)...)
			out = append(out, checkLaterInvolvedMoreSubscribed(g, eid, label, target.Analysis.Active, target.Analysis.Involved, subs)...)
			out = append(out, checkLaterInvolvedGuarded(g, eid, label, target.Analysis.Involved, subs)...)
		}
	}
	return out
}

// checkActiveRoleSubscribed: the active role must subscribe to at least
// one event it emits.
func checkActiveRoleSubscribed(g *swarm.ProtocolGraph, eid swarm.EdgeID, label swarm.SwarmLabel, subs swarm.Subscriptions) []string {
	if logIntersectsSub(label.Log, subs, label.Role.String()) {
		return nil
	}
	return []string{fmt.Sprintf(
		"active role does not subscribe to any of its emitted event types in transition %s",
		swarm.RenderSwarmTransition(g, eid),
	)}
}

// checkLaterActiveSubscribed: every role active at the target state must
// subscribe to at least one event in this edge's log.
func checkLaterActiveSubscribed(g *swarm.ProtocolGraph, eid swarm.EdgeID, label swarm.SwarmLabel, laterActive swarm.RoleSet, subs swarm.Subscriptions) []string {
	var out []string
	for _, r := range laterActive.Sorted() {
		if logIntersectsSub(label.Log, subs, r.String()) {
			continue
		}
		out = append(out, fmt.Sprintf(
			"subsequently active role %s does not subscribe to events in transition %s",
			r, swarm.RenderSwarmTransition(g, eid),
		))
	}
	return out
}

// checkLaterInvolvedMoreSubscribed: no role involved afterwards may learn
// strictly more about this transition than a role active afterwards.
func checkLaterInvolvedMoreSubscribed(g *swarm.ProtocolGraph, eid swarm.EdgeID, label swarm.SwarmLabel, laterActive, laterInvolved swarm.RoleSet, subs swarm.Subscriptions) []string {
	var out []string
	for _, rActive := range laterActive.Sorted() {
		activeSeen := filterSubscribed(label.Log, subs, rActive.String())
		for _, rLater := range laterInvolved.Sorted() {
			if rLater.Equal(rActive) {
				continue
			}
			laterSeen := filterSubscribed(label.Log, subs, rLater.String())
			extra := subtractHandles(laterSeen, activeSeen)
			if len(extra) == 0 {
				continue
			}
			out = append(out, fmt.Sprintf(
				"subsequently involved role %s subscribes to more events than active role %s in transition %s, namely (%s)",
				rLater, rActive, swarm.RenderSwarmTransition(g, eid), joinHandles(extra),
			))
		}
	}
	return out
}

// checkLaterInvolvedGuarded: every role involved afterwards must
// subscribe to this edge's guard (the first log element).
func checkLaterInvolvedGuarded(g *swarm.ProtocolGraph, eid swarm.EdgeID, label swarm.SwarmLabel, laterInvolved swarm.RoleSet, subs swarm.Subscriptions) []string {
	guard := label.Guard()
	var out []string
	for _, r := range laterInvolved.Sorted() {
		if subs.Subscribes(r.String(), guard.String()) {
			continue
		}
		out = append(out, fmt.Sprintf(
			"subsequently involved role %s does not subscribe to guard in transition %s",
			r, swarm.RenderSwarmTransition(g, eid),
		))
	}
	return out
}

// nodeChecks runs the two determinism checks, one pass per reachable
// node: every outgoing guard must be unique, and every outgoing
// (role, command) pair must be unique. Each violated key is reported
// once per node regardless of how many edges share it.
func nodeChecks(g *swarm.ProtocolGraph, initial swarm.NodeID, emptyLog map[swarm.EdgeID]bool) []string {
	var out []string
	for _, n := range reachableNodes(g, initial) {
		guards := map[intern.Handle]int{}
		commands := map[[2]intern.Handle]int{}

		for _, eid := range g.Out(n) {
			label := g.Label(eid)
			if !emptyLog[eid] {
				guards[label.Guard()]++
			}
			commands[[2]intern.Handle{label.Role, label.Cmd}]++
		}

		for _, guard := range sortedKeys(guards) {
			if guards[guard] > 1 {
				out = append(out, fmt.Sprintf(
					"non-deterministic event guard type %s in state %s",
					guard, swarm.SwarmStateName(g, n),
				))
			}
		}
		for _, key := range sortedPairKeys(commands) {
			if commands[key] > 1 {
				out = append(out, fmt.Sprintf(
					"non-deterministic command %s for role %s in state %s",
					key[1], key[0], swarm.SwarmStateName(g, n),
				))
			}
		}
	}
	return out
}

// guardInvariance builds, for every event type that appears anywhere in
// any reachable non-empty log, the set of distinct source states of
// transitions whose log contains it. Any event type that also serves as
// a guard somewhere and has more than one such source state is reported.
func guardInvariance(g *swarm.ProtocolGraph, initial swarm.NodeID, emptyLog map[swarm.EdgeID]bool) []string {
	sources := map[intern.Handle]map[swarm.NodeID]bool{}
	guards := map[intern.Handle]bool{}

	for _, n := range reachableNodes(g, initial) {
		for _, eid := range g.Out(n) {
			if emptyLog[eid] {
				continue
			}
			label := g.Label(eid)
			guards[label.Guard()] = true
			for _, ev := range label.Log {
				set, ok := sources[ev]
				if !ok {
					set = map[swarm.NodeID]bool{}
					sources[ev] = set
				}
				set[n] = true
			}
		}
	}

	var out []string
	for ev := range guards {
		if len(sources[ev]) > 1 {
			out = append(out, fmt.Sprintf("guard event type %s appears in transitions from multiple states", ev))
		}
	}
	return out
}

func filterSubscribed(log []intern.Handle, subs swarm.Subscriptions, role string) []intern.Handle {
	seen := map[intern.Handle]bool{}
	var out []intern.Handle
	for _, ev := range log {
		if seen[ev] {
			continue
		}
		if subs.Subscribes(role, ev.String()) {
			seen[ev] = true
			out = append(out, ev)
		}
	}
	return out
}

func subtractHandles(a, b []intern.Handle) []intern.Handle {
	exclude := make(map[intern.Handle]bool, len(b))
	for _, h := range b {
		exclude[h] = true
	}
	var out []intern.Handle
	for _, h := range a {
		if !exclude[h] {
			out = append(out, h)
		}
	}
	return out
}

func joinHandles(hs []intern.Handle) string {
	parts := make([]string, len(hs))
	for i, h := range hs {
		parts[i] = h.String()
	}
	return strings.Join(parts, ", ")
}

func sortedKeys(m map[intern.Handle]int) []intern.Handle {
	out := make([]intern.Handle, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	intern.SortHandles(out)
	return out
}

func sortedPairKeys(m map[[2]intern.Handle]int) [][2]intern.Handle {
	out := make([][2]intern.Handle, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && pairLess(out[j], out[j-1]); j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

func pairLess(a, b [2]intern.Handle) bool {
	if !a[0].Equal(b[0]) {
		return a[0].Less(b[0])
	}
	return a[1].Less(b[1])
}
