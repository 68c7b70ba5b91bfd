// Package render turns lattices and decoded detection graphs into
// Graphviz diagrams.
//
// DOT generation and rasterization are separate steps: [LatticeDOT] and
// [GraphDOT] emit plain DOT strings, and [RenderSVG]/[RenderPNG] run them
// through Graphviz. The split keeps the DOT output testable and lets
// callers feed the strings to external tooling unchanged.
package render

import (
	"bytes"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/hetenyib/qiskit-qec/pkg/graph"
	"github.com/hetenyib/qiskit-qec/pkg/surface"
)

// Options configures diagram generation.
type Options struct {
	// Detailed includes qubit supports in node labels. When false, only
	// indices are shown.
	Detailed bool
}

// LatticeDOT draws the physical layout of a lattice: code qubits on their
// grid positions, one ancilla box per plaquette, and an edge from each
// ancilla to every qubit in its support. The output uses pinned positions
// and is meant for the neato engine.
func LatticeDOT(l *surface.Lattice, opts Options) string {
	d := l.Distance()

	var buf bytes.Buffer
	buf.WriteString("graph lattice {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fontsize=12];\n")
	buf.WriteString("\n")

	// Code qubits sit on the integer grid, y counting downward.
	for q := 0; q < l.NumQubits(); q++ {
		x, y := q%d, q/d
		fmt.Fprintf(&buf, "  q%d [label=\"%d\", pos=\"%d,%d!\"];\n", q, q, x, d-1-y)
	}

	buf.WriteString("\n")
	for _, b := range []surface.Basis{surface.BasisZ, surface.BasisX} {
		fill := "lightblue"
		if b == surface.BasisX {
			fill = "lightpink"
		}
		for i, p := range l.Plaquettes(b) {
			name := fmt.Sprintf("%s%d", b, i)
			label := fmt.Sprintf("%s%d", strings.ToUpper(b.String()), i)
			if opts.Detailed {
				label += fmt.Sprintf("\\n%v", p.Support())
			}
			cx, cy := plaquetteCenter(l, p)
			fmt.Fprintf(&buf, "  %s [label=\"%s\", shape=box, fillcolor=%s, pos=\"%.2f,%.2f!\"];\n",
				name, label, fill, cx, float64(d-1)-cy)
			for _, q := range p.Support() {
				fmt.Fprintf(&buf, "  %s -- q%d;\n", name, q)
			}
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// plaquetteCenter averages the grid positions of a plaquette's support,
// which places boundary ancillas on the lattice edge and bulk ancillas in
// the middle of their 2x2 block.
func plaquetteCenter(l *surface.Lattice, p surface.Plaquette) (float64, float64) {
	d := l.Distance()
	var sx, sy float64
	qs := p.Support()
	for _, q := range qs {
		sx += float64(int(q) % d)
		sy += float64(int(q) / d)
	}
	n := float64(len(qs))
	return sx / n, sy / n
}

// GraphDOT draws a decoded detection graph: one node per detection event,
// ranked by syndrome round, with boundary nodes dashed. Bulk nodes of the
// same stabilizer in consecutive rounds are linked, which makes measurement
// errors visually obvious as vertical pairs.
func GraphDOT(g graph.Graph, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph detection {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	fmt.Fprintf(&buf, "  label=\"d=%d T=%d basis=%s logical=%s\";\n", g.Distance, g.Rounds, g.Basis, g.Logical)
	buf.WriteString("\n")

	byTime := make(map[int][]string)
	index := make(map[nodeKey]string)
	for _, n := range g.Nodes {
		name := nodeName(n)
		index[nodeKey{n.Time, n.IsBoundary, n.Element}] = name
		byTime[n.Time] = append(byTime[n.Time], name)

		attrs := []string{fmt.Sprintf("label=%q", nodeLabel(n, opts.Detailed))}
		if n.IsBoundary {
			attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey")
		}
		fmt.Fprintf(&buf, "  %s [%s];\n", name, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, t := range slices.Sorted(maps.Keys(byTime)) {
		if names := byTime[t]; len(names) > 1 {
			fmt.Fprintf(&buf, "  { rank=same; %s }\n", strings.Join(names, "; "))
		}
	}

	// Same-stabilizer events one round apart usually share a cause.
	for _, n := range g.Nodes {
		if n.IsBoundary {
			continue
		}
		if next, ok := index[nodeKey{n.Time + 1, false, n.Element}]; ok {
			fmt.Fprintf(&buf, "  %s -> %s;\n", nodeName(n), next)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

type nodeKey struct {
	time     int
	boundary bool
	element  int
}

func nodeName(n surface.Node) string {
	if n.IsBoundary {
		return fmt.Sprintf("b%d", n.Element)
	}
	return fmt.Sprintf("t%d_s%d", n.Time, n.Element)
}

func nodeLabel(n surface.Node, detailed bool) string {
	var label string
	if n.IsBoundary {
		label = fmt.Sprintf("boundary %d", n.Element)
	} else {
		label = fmt.Sprintf("t=%d s=%d", n.Time, n.Element)
	}
	if detailed {
		label += fmt.Sprintf("\nqubits %v", n.Qubits)
	}
	return label
}
