package render

import (
	"strings"
	"testing"

	"github.com/hetenyib/qiskit-qec/pkg/graph"
	"github.com/hetenyib/qiskit-qec/pkg/surface"
)

func TestLatticeDOT(t *testing.T) {
	l, err := surface.NewLattice(3)
	if err != nil {
		t.Fatal(err)
	}
	dot := LatticeDOT(l, Options{})

	if !strings.HasPrefix(dot, "graph lattice {") {
		t.Fatalf("unexpected header:\n%s", dot)
	}
	for _, want := range []string{
		`q0 [label="0", pos="0,2!"];`,
		`q8 [label="8", pos="2,0!"];`,
		"z0 [label=\"Z0\"",
		"x3 [label=\"X3\"",
		"z1 -- q1;",
		"z1 -- q5;",
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q", want)
		}
	}

	// One edge per present plaquette slot: d^2-1 stabilizers with total
	// support 24 at d=3.
	if got := strings.Count(dot, " -- "); got != 24 {
		t.Errorf("%d edges, want 24", got)
	}
}

func TestLatticeDOTDetailed(t *testing.T) {
	l, err := surface.NewLattice(2)
	if err != nil {
		t.Fatal(err)
	}
	dot := LatticeDOT(l, Options{Detailed: true})
	if !strings.Contains(dot, `X0\n[0 1 2 3]`) {
		t.Errorf("detailed label missing support:\n%s", dot)
	}
}

func TestGraphDOT(t *testing.T) {
	cfg := surface.Config{Distance: 3, Rounds: 3, Basis: surface.BasisZ, Resets: true}
	g := graph.New(cfg, "0", []surface.Node{
		{Time: 1, Qubits: []surface.Qubit{1, 4, 2, 5}, Element: 1},
		{Time: 2, Qubits: []surface.Qubit{1, 4, 2, 5}, Element: 1},
		{Time: 2, Qubits: []surface.Qubit{3, 6, 4, 7}, Element: 2},
		{Time: 0, Qubits: []surface.Qubit{0, 1, 2}, IsBoundary: true, Element: 1},
	})

	dot := GraphDOT(g, Options{})
	for _, want := range []string{
		`label="d=3 T=3 basis=z logical=0";`,
		`t1_s1 [label="t=1 s=1"`,
		`b1 [label="boundary 1", style="rounded,filled,dashed", fillcolor=lightgrey];`,
		"{ rank=same; t2_s1; t2_s2 }",
		"t1_s1 -> t2_s1;",
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
	if strings.Contains(dot, "t2_s2 ->") {
		t.Error("unexpected edge out of isolated node")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	svg := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg">content</svg>`)
	got := string(normalizeViewBox(svg))
	if !strings.Contains(got, `viewBox="0 0 100.00 50.00"`) {
		t.Errorf("view box not normalized: %s", got)
	}
	if !strings.Contains(got, `width="100" height="50"`) {
		t.Errorf("dimensions not rewritten: %s", got)
	}

	plain := []byte("<svg>no viewbox</svg>")
	if string(normalizeViewBox(plain)) != string(plain) {
		t.Error("SVG without view box should be untouched")
	}
}
