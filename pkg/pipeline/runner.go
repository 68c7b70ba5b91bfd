package pipeline

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/hetenyib/qiskit-qec/pkg/cache"
	qecerrors "github.com/hetenyib/qiskit-qec/pkg/errors"
	"github.com/hetenyib/qiskit-qec/pkg/graph"
	"github.com/hetenyib/qiskit-qec/pkg/observability"
	"github.com/hetenyib/qiskit-qec/pkg/sim"
	"github.com/hetenyib/qiskit-qec/pkg/surface"
)

// Runner executes the pipeline with caching. It is stateless apart from
// the cache and logger, so one Runner can serve concurrent requests with
// different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner. A nil keyer falls back to the default
// keyer; a nil cache disables caching; a nil logger uses the package
// default.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Execute runs the complete build → simulate → decode pipeline.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	result := &Result{}

	buildStart := time.Now()
	code, err := r.Build(ctx, opts)
	if err != nil {
		return nil, err
	}
	result.Code = code
	result.Stats.BuildTime = time.Since(buildStart)

	r.Logger.Info("built circuits",
		"distance", opts.Distance,
		"rounds", opts.Rounds,
		"basis", opts.Basis,
		"duration", result.Stats.BuildTime)

	simStart := time.Now()
	shots, shotsHit, err := r.SimulateWithCacheInfo(ctx, code, opts)
	if err != nil {
		return nil, err
	}
	result.Shots = shots
	result.Stats.SimulateTime = time.Since(simStart)
	result.CacheInfo.ShotsHit = shotsHit

	r.Logger.Info("simulated shots",
		"logical", opts.Logical,
		"shots", len(shots),
		"cached", shotsHit,
		"duration", result.Stats.SimulateTime)

	decodeStart := time.Now()
	graphs, decodeHit, err := r.DecodeWithCacheInfo(ctx, code, shots, opts)
	if err != nil {
		return nil, err
	}
	result.Graphs = graphs
	result.Stats.DecodeTime = time.Since(decodeStart)
	result.CacheInfo.DecodeHit = decodeHit

	r.Logger.Info("decoded shots",
		"graphs", len(graphs),
		"nodes", result.NodeCount(),
		"cached", decodeHit,
		"duration", result.Stats.DecodeTime)

	return result, nil
}

// Build emits the circuit pair for the configured code parameters.
// Circuit emission is deterministic and fast, so this stage is not cached.
func (r *Runner) Build(ctx context.Context, opts Options) (*surface.Code, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	start := time.Now()
	observability.Pipeline().OnBuildStart(ctx, opts.Distance, opts.Rounds)

	cfg, err := opts.Config()
	if err != nil {
		observability.Pipeline().OnBuildComplete(ctx, opts.Distance, opts.Rounds, time.Since(start), err)
		return nil, err
	}
	code, err := surface.New(cfg)
	observability.Pipeline().OnBuildComplete(ctx, opts.Distance, opts.Rounds, time.Since(start), err)
	return code, err
}

// SimulateWithCacheInfo runs the configured logical variant for the
// configured number of shots and reports whether the batch came from
// cache.
func (r *Runner) SimulateWithCacheInfo(ctx context.Context, code *surface.Code, opts Options) ([]string, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	key := r.Keyer.ShotsKey(r.circuitKey(opts), opts.Shots, opts.Seed)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			var shots []string
			if err := json.Unmarshal(data, &shots); err == nil && len(shots) == opts.Shots {
				observability.Cache().OnCacheHit(ctx, "shots")
				return shots, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "shots")
	}

	start := time.Now()
	observability.Pipeline().OnSimulateStart(ctx, opts.Logical, opts.Shots)

	circuit := code.Circuit(opts.Logical)
	if circuit == nil {
		err := qecerrors.New(qecerrors.ErrCodeInvalidLogical, "code has no circuit for logical %q", opts.Logical)
		observability.Pipeline().OnSimulateComplete(ctx, opts.Logical, opts.Shots, time.Since(start), err)
		return nil, false, err
	}
	shots, err := sim.Shots(circuit, opts.Shots, opts.Seed)
	observability.Pipeline().OnSimulateComplete(ctx, opts.Logical, opts.Shots, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	if data, err := json.Marshal(shots); err == nil {
		if err := r.Cache.Set(ctx, key, data, cache.TTLShots); err == nil {
			observability.Cache().OnCacheSet(ctx, "shots", len(data))
		}
	}
	return shots, false, nil
}

// Simulate runs the shot batch and discards the cache hit info.
func (r *Runner) Simulate(ctx context.Context, code *surface.Code, opts Options) ([]string, error) {
	shots, _, err := r.SimulateWithCacheInfo(ctx, code, opts)
	return shots, err
}

// DecodeWithCacheInfo converts shots into detection graphs and reports
// whether the batch came from cache.
func (r *Runner) DecodeWithCacheInfo(ctx context.Context, code *surface.Code, shots []string, opts Options) ([]graph.Graph, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	batchID := cache.Hash([]byte(strings.Join(shots, "\n")))
	key := r.Keyer.GraphKey(r.circuitKey(opts), batchID)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			var graphs []graph.Graph
			if err := json.Unmarshal(data, &graphs); err == nil && len(graphs) == len(shots) {
				observability.Cache().OnCacheHit(ctx, "graph")
				return graphs, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "graph")
	}

	start := time.Now()
	observability.Pipeline().OnDecodeStart(ctx, len(shots))

	cfg := code.Config()
	decoder := code.Decoder()
	graphs := make([]graph.Graph, 0, len(shots))
	nodes := 0
	for _, shot := range shots {
		ns, err := decoder.Nodes(shot, opts.Logical, opts.AllLogicals)
		if err != nil {
			observability.Pipeline().OnDecodeComplete(ctx, len(shots), nodes, time.Since(start), err)
			return nil, false, err
		}
		nodes += len(ns)
		graphs = append(graphs, graph.New(cfg, opts.Logical, ns))
	}
	observability.Pipeline().OnDecodeComplete(ctx, len(shots), nodes, time.Since(start), nil)

	if data, err := json.Marshal(graphs); err == nil {
		if err := r.Cache.Set(ctx, key, data, cache.TTLGraph); err == nil {
			observability.Cache().OnCacheSet(ctx, "graph", len(data))
		}
	}
	return graphs, false, nil
}

// Decode converts shots into detection graphs and discards the cache hit
// info.
func (r *Runner) Decode(ctx context.Context, code *surface.Code, shots []string, opts Options) ([]graph.Graph, error) {
	graphs, _, err := r.DecodeWithCacheInfo(ctx, code, shots, opts)
	return graphs, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// circuitKey identifies the circuit variant the current options select.
func (r *Runner) circuitKey(opts Options) string {
	return r.Keyer.CircuitKey(opts.Distance, opts.Rounds, opts.Basis, opts.Resets, opts.Logical)
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
