// Package swarmviz renders protocol and machine graphs as Graphviz
// diagrams: a swarm protocol as its global choreography graph, a
// projected machine as its local-state graph. Edges are labelled with the
// label strings pkg/swarm defines ("cmd@role<ev,...>" for a protocol,
// "cmd/ev,..." or "ev?" for a machine).
//
// Grounded on pkg/render/nodelink/dot.go's ToDOT/RenderSVG pair, wiring
// github.com/goccy/go-graphviz. The teacher's crossing-minimization half
// (pkg/dag/perm's PQ-tree layout optimizer) has no referent here — a
// swarm or machine graph is rendered directly, with no intermediate
// permutation search — and is dropped.
package swarmviz

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/swarmcheck/pkg/swarm"
)

// ProtocolDOT renders a swarm protocol graph to Graphviz DOT. The node
// whose id equals initial is drawn with a bold double border.
func ProtocolDOT(g *swarm.ProtocolGraph, initial swarm.NodeID) string {
	var buf bytes.Buffer
	buf.WriteString("digraph swarm {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fontsize=14];\n\n")

	for _, id := range g.NodeIDs() {
		name := swarm.SwarmStateName(g, id)
		attrs := fmt.Sprintf("label=%q", name)
		if id == initial {
			attrs += ", peripheries=2, style=\"filled,bold\""
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", nodeKey("s", id), attrs)
	}

	buf.WriteString("\n")
	for i := 0; i < g.EdgeCount(); i++ {
		eid := swarm.EdgeID(i)
		from, to := g.Endpoints(eid)
		label := g.Label(eid).String()
		fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", nodeKey("s", from), nodeKey("s", to), label)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// MachineDOT renders a projected per-role machine graph to Graphviz DOT.
// Synthetic intermediate states created during projection (no swarm
// state of their own) are drawn as small filled dots, matching
// pkg/swarm.MachineStateName's "(+d)" suffix convention for their label.
func MachineDOT(g *swarm.MachineGraph, initial swarm.NodeID) string {
	var buf bytes.Buffer
	buf.WriteString("digraph machine {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fontsize=14];\n\n")

	for _, id := range g.NodeIDs() {
		name := swarm.MachineStateName(g, id)
		attrs := fmt.Sprintf("label=%q", name)
		if !g.Node(id).HasName {
			attrs = fmt.Sprintf("label=%q, shape=point, width=0.08", name)
		}
		if id == initial {
			attrs += ", peripheries=2, style=\"filled,bold\""
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", nodeKey("m", id), attrs)
	}

	buf.WriteString("\n")
	for i := 0; i < g.EdgeCount(); i++ {
		eid := swarm.EdgeID(i)
		from, to := g.Endpoints(eid)
		label := g.Label(eid).String()
		fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", nodeKey("m", from), nodeKey("m", to), label)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeKey(prefix string, id swarm.NodeID) string {
	return fmt.Sprintf("%s%d", prefix, id)
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSVG := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSVG))
}
