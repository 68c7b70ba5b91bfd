// Package graph provides the serialization format for decoded detection
// graphs.
//
// A Graph bundles the code parameters a shot was decoded under with the
// flat node list the decoder produced. It is the canonical wire format for
// JSON files, API responses, caching, and batch storage, and is designed
// for round-trip fidelity: write → read produces an identical value.
//
// The JSON layout is deliberately flat:
//
//	{
//	  "distance": 3,
//	  "rounds": 2,
//	  "basis": "z",
//	  "resets": true,
//	  "logical": "0",
//	  "nodes": [{"time": 1, "qubits": [1, 4, 2, 5], "element": 1}]
//	}
package graph

import (
	"bytes"
	"encoding/json"
	"io"
	"os"

	qecerrors "github.com/hetenyib/qiskit-qec/pkg/errors"
	"github.com/hetenyib/qiskit-qec/pkg/surface"
)

// Graph is the canonical serialization of one decoded shot: the code
// parameters and the detection nodes extracted from the measurement
// record.
type Graph struct {
	Distance int           `json:"distance" bson:"distance"`
	Rounds   int           `json:"rounds" bson:"rounds"`
	Basis    surface.Basis `json:"basis" bson:"basis"`
	Resets   bool          `json:"resets" bson:"resets"`

	// Logical is the prepared logical value the nodes were computed
	// against.
	Logical string `json:"logical" bson:"logical"`

	Nodes []surface.Node `json:"nodes" bson:"nodes"`
}

// New assembles a Graph from a code configuration and a decoded node list.
func New(cfg surface.Config, logical string, nodes []surface.Node) Graph {
	return Graph{
		Distance: cfg.Distance,
		Rounds:   cfg.Rounds,
		Basis:    cfg.Basis,
		Resets:   cfg.Resets,
		Logical:  logical,
		Nodes:    nodes,
	}
}

// Config reconstructs the code configuration the graph was decoded under.
func (g Graph) Config() surface.Config {
	return surface.Config{
		Distance: g.Distance,
		Rounds:   g.Rounds,
		Basis:    g.Basis,
		Resets:   g.Resets,
	}
}

// Validate checks the structural invariants of a deserialized graph: legal
// code parameters, a legal logical label, and node fields consistent with
// the lattice dimensions.
func (g Graph) Validate() error {
	if err := g.Config().Validate(); err != nil {
		return err
	}
	if err := qecerrors.ValidateLogical(g.Logical); err != nil {
		return err
	}
	lattice, err := surface.NewLattice(g.Distance)
	if err != nil {
		return err
	}
	for i, n := range g.Nodes {
		if n.Time < 0 || n.Time > g.Rounds {
			return qecerrors.New(qecerrors.ErrCodeMalformedResult,
				"node %d: time %d outside [0, %d]", i, n.Time, g.Rounds)
		}
		limit := 2
		if !n.IsBoundary {
			limit = lattice.NumStabilizers(g.Basis)
		}
		if n.Element < 0 || n.Element >= limit {
			return qecerrors.New(qecerrors.ErrCodeMalformedResult,
				"node %d: element %d outside [0, %d)", i, n.Element, limit)
		}
		for _, q := range n.Qubits {
			if q < 0 || int(q) >= lattice.NumQubits() {
				return qecerrors.New(qecerrors.ErrCodeMalformedResult,
					"node %d: qubit %d outside lattice", i, q)
			}
		}
	}
	return nil
}

// Marshal converts the graph to indented JSON bytes.
func Marshal(g Graph) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(g, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write writes the graph as indented JSON to an io.Writer.
func Write(g Graph, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(g); err != nil {
		return qecerrors.Wrap(qecerrors.ErrCodeInternal, err, "encode graph")
	}
	return nil
}

// WriteFile writes the graph to a JSON file created with 0644 permissions.
func WriteFile(g Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return qecerrors.Wrap(qecerrors.ErrCodeStorage, err, "create %s", path)
	}
	defer f.Close()
	return Write(g, f)
}

// Read decodes and validates a JSON graph from an io.Reader.
func Read(r io.Reader) (Graph, error) {
	var g Graph
	if err := json.NewDecoder(r).Decode(&g); err != nil {
		return Graph{}, qecerrors.Wrap(qecerrors.ErrCodeMalformedResult, err, "decode graph")
	}
	if err := g.Validate(); err != nil {
		return Graph{}, err
	}
	return g, nil
}

// ReadFile reads and validates a graph from a JSON file.
func ReadFile(path string) (Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return Graph{}, qecerrors.Wrap(qecerrors.ErrCodeStorage, err, "open %s", path)
	}
	defer f.Close()
	return Read(f)
}
