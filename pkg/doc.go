// Package pkg provides the core libraries for the qec surface-code toolkit.
//
// # Overview
//
// qec builds, simulates, and decodes rotated surface codes: it emits the
// syndrome-measurement circuits for a distance-d code, samples them with a
// stabilizer simulator, and converts measurement shots into the detection
// graphs consumed by matching decoders. The pkg directory is organized into
// four main areas:
//
//  1. Domain logic: [surface], [circuit], [sim]
//  2. Serialization: [graph], [render]
//  3. Infrastructure: [cache], [store], [observability], [errors]
//  4. Orchestration: [pipeline], [api]
//
// # Architecture
//
// The typical data flow:
//
//	code parameters (d, T, basis, resets)
//	         ↓
//	    [surface] package (lattice + circuit emission)
//	         ↓
//	    [sim] package (stabilizer simulation → shot strings)
//	         ↓
//	    [surface] decoder (shots → detection events)
//	         ↓
//	    [graph] / [render] output (JSON, DOT, SVG, PNG)
//
// # Quick Start
//
// Run the full pipeline and inspect the decoded graphs:
//
//	import (
//	    "context"
//	    "github.com/hetenyib/qiskit-qec/pkg/pipeline"
//	)
//
//	runner := pipeline.NewRunner(nil, nil, nil)
//	result, err := runner.Execute(context.Background(), pipeline.Options{
//	    Distance: 3,
//	    Rounds:   2,
//	    Basis:    "z",
//	    Resets:   true,
//	    Logical:  "0",
//	    Shots:    64,
//	})
//
// # Main Packages
//
// [surface] - The rotated surface code itself: lattice generation with
// plaquette collections and logical supports, syndrome-measurement circuit
// emission, and shot-string decoding into detection events.
//
// [circuit] - A minimal quantum circuit representation with registers,
// gates, and OpenQASM 2.0 emission.
//
// [sim] - A CHP-style stabilizer simulator able to sample the circuits
// emitted by [surface].
//
// [graph] - JSON serialization of detection graphs, the interchange format
// between decode runs, rendering, and the HTTP API.
//
// [render] - DOT generation and graphviz rendering for lattices and
// detection graphs.
//
// [pipeline] - Orchestration of build, simulate, and decode with caching
// and structured logging, shared by the CLI and the HTTP API.
//
// [api] - The HTTP decode service.
//
// [cache], [store] - Result caching (file, null, Redis) and batch
// persistence (memory, MongoDB).
package pkg
