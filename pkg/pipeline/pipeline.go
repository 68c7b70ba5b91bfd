// Package pipeline runs the complete encode → simulate → decode pipeline.
//
// The CLI, the HTTP API, and tests all drive the same [Runner], so caching
// and instrumentation behave identically across entry points.
//
// # Stages
//
//  1. Build: emit the circuit pair for the requested code parameters
//  2. Simulate: run the selected logical variant for N noiseless shots
//  3. Decode: convert each shot into a detection graph
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{Distance: 3, Rounds: 2, Basis: "z", Resets: true}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	graphs := result.Graphs
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	qecerrors "github.com/hetenyib/qiskit-qec/pkg/errors"
	"github.com/hetenyib/qiskit-qec/pkg/graph"
	"github.com/hetenyib/qiskit-qec/pkg/surface"
)

// Default values shared by the CLI and the API.
const (
	// DefaultDistance is the code distance used when none is given.
	DefaultDistance = 3

	// DefaultRounds is the syndrome-round count used when none is given.
	DefaultRounds = 2

	// DefaultBasis is the preparation basis used when none is given.
	DefaultBasis = "z"

	// DefaultLogical is the logical state simulated when none is given.
	DefaultLogical = "0"

	// DefaultShots is the shot count used when none is given.
	DefaultShots = 64

	// DefaultSeed seeds the simulator for reproducible runs.
	DefaultSeed = int64(1)
)

// Options contains all configuration for the pipeline.
// The struct supports JSON serialization for API requests.
type Options struct {
	// Code parameters.
	Distance int    `json:"distance,omitempty"`
	Rounds   int    `json:"rounds,omitempty"`
	Basis    string `json:"basis,omitempty"`
	Resets   bool   `json:"resets,omitempty"`

	// Simulation parameters.
	Logical string `json:"logical,omitempty"`
	Shots   int    `json:"shots,omitempty"`
	Seed    int64  `json:"seed,omitempty"`

	// AllLogicals emits boundary nodes unconditionally during decoding.
	AllLogicals bool `json:"all_logicals,omitempty"`

	// Refresh bypasses cache reads (results are still written back).
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized).
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// ValidateAndSetDefaults checks fields and applies defaults.
// The method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Distance == 0 {
		o.Distance = DefaultDistance
	}
	if o.Rounds == 0 {
		o.Rounds = DefaultRounds
	}
	if o.Basis == "" {
		o.Basis = DefaultBasis
	}
	if o.Logical == "" {
		o.Logical = DefaultLogical
	}
	if o.Shots == 0 {
		o.Shots = DefaultShots
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	if err := qecerrors.ValidateBasisName(o.Basis); err != nil {
		return err
	}
	if err := qecerrors.ValidateLogical(o.Logical); err != nil {
		return err
	}
	if o.Shots < 1 {
		return qecerrors.New(qecerrors.ErrCodeInvalidInput, "shots must be >= 1, got %d", o.Shots)
	}
	cfg, err := o.Config()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// Config converts the options into a surface-code configuration.
func (o *Options) Config() (surface.Config, error) {
	basis, err := surface.ParseBasis(o.Basis)
	if err != nil {
		return surface.Config{}, err
	}
	return surface.Config{
		Distance: o.Distance,
		Rounds:   o.Rounds,
		Basis:    basis,
		Resets:   o.Resets,
	}, nil
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Code is the emitted circuit pair.
	Code *surface.Code

	// Shots are the simulated measurement strings, one per shot.
	Shots []string

	// Graphs are the decoded detection graphs, aligned with Shots.
	Graphs []graph.Graph

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// NodeCount returns the total number of detection nodes across all graphs.
func (r *Result) NodeCount() int {
	n := 0
	for _, g := range r.Graphs {
		n += len(g.Nodes)
	}
	return n
}

// Stats contains pipeline execution statistics.
type Stats struct {
	BuildTime    time.Duration
	SimulateTime time.Duration
	DecodeTime   time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	ShotsHit  bool // Whether the shot batch came from cache
	DecodeHit bool // Whether the decoded graphs came from cache
}
