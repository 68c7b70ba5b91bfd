package pipeline

import (
	"context"
	"io"
	"reflect"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/hetenyib/qiskit-qec/pkg/cache"
	qecerrors "github.com/hetenyib/qiskit-qec/pkg/errors"
)

func quietRunner(t *testing.T, c cache.Cache) *Runner {
	t.Helper()
	return NewRunner(c, nil, log.NewWithOptions(io.Discard, log.Options{}))
}

func TestOptionsDefaults(t *testing.T) {
	var opts Options
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if opts.Distance != DefaultDistance || opts.Rounds != DefaultRounds {
		t.Errorf("code defaults not applied: %+v", opts)
	}
	if opts.Basis != DefaultBasis || opts.Logical != DefaultLogical {
		t.Errorf("variant defaults not applied: %+v", opts)
	}
	if opts.Shots != DefaultShots || opts.Seed != DefaultSeed {
		t.Errorf("simulation defaults not applied: %+v", opts)
	}
}

func TestOptionsValidation(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code qecerrors.Code
	}{
		{"bad basis", Options{Basis: "y"}, qecerrors.ErrCodeInvalidBasis},
		{"bad logical", Options{Logical: "2"}, qecerrors.ErrCodeInvalidLogical},
		{"bad shots", Options{Shots: -1}, qecerrors.ErrCodeInvalidInput},
		{"bad distance", Options{Distance: 500}, qecerrors.ErrCodeInvalidDistance},
		{"bad rounds", Options{Rounds: -2}, qecerrors.ErrCodeInvalidRounds},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.opts.ValidateAndSetDefaults(); !qecerrors.Is(err, tt.code) {
				t.Errorf("expected %s, got %v", tt.code, err)
			}
		})
	}
}

func TestExecute(t *testing.T) {
	r := quietRunner(t, nil)
	defer r.Close()

	opts := Options{Distance: 3, Rounds: 1, Basis: "z", Resets: true, Shots: 5, Seed: 3}
	result, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}

	if len(result.Shots) != 5 {
		t.Errorf("%d shots, want 5", len(result.Shots))
	}
	if len(result.Graphs) != 5 {
		t.Errorf("%d graphs, want 5", len(result.Graphs))
	}
	// Noiseless shots decoded against the prepared logical carry no nodes.
	if n := result.NodeCount(); n != 0 {
		t.Errorf("%d nodes, want 0", n)
	}
	if result.CacheInfo.ShotsHit || result.CacheInfo.DecodeHit {
		t.Error("unexpected cache hits with null cache")
	}
	for _, g := range result.Graphs {
		if g.Distance != 3 || g.Logical != "0" {
			t.Errorf("graph parameters wrong: %+v", g)
		}
	}
}

func TestExecuteAllLogicals(t *testing.T) {
	r := quietRunner(t, nil)
	defer r.Close()

	opts := Options{Distance: 3, Rounds: 1, Basis: "z", Resets: true, Shots: 2, Seed: 3, AllLogicals: true}
	result, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	for i, g := range result.Graphs {
		if len(g.Nodes) != 2 {
			t.Errorf("graph %d: %d nodes, want 2 forced boundary nodes", i, len(g.Nodes))
		}
	}
}

func TestExecuteCaching(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := quietRunner(t, fc)
	defer r.Close()

	ctx := context.Background()
	opts := Options{Distance: 3, Rounds: 1, Basis: "z", Resets: true, Shots: 4, Seed: 9}

	first, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if first.CacheInfo.ShotsHit || first.CacheInfo.DecodeHit {
		t.Error("first run should miss")
	}

	second, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheInfo.ShotsHit || !second.CacheInfo.DecodeHit {
		t.Errorf("second run should hit: %+v", second.CacheInfo)
	}
	if !reflect.DeepEqual(first.Shots, second.Shots) {
		t.Error("cached shots differ from computed shots")
	}
	if !reflect.DeepEqual(first.Graphs, second.Graphs) {
		t.Error("cached graphs differ from computed graphs")
	}

	// Refresh bypasses reads but recomputes identically.
	opts.Refresh = true
	third, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if third.CacheInfo.ShotsHit || third.CacheInfo.DecodeHit {
		t.Error("refresh run should not read the cache")
	}
	if !reflect.DeepEqual(first.Shots, third.Shots) {
		t.Error("refreshed shots differ from original shots")
	}
}

func TestSeedChangesShots(t *testing.T) {
	r := quietRunner(t, nil)
	defer r.Close()
	ctx := context.Background()

	a, err := r.Execute(ctx, Options{Distance: 3, Rounds: 1, Basis: "x", Shots: 3, Seed: 1})
	if err != nil {
		t.Fatal(err)
	}
	b, err := r.Execute(ctx, Options{Distance: 3, Rounds: 1, Basis: "x", Shots: 3, Seed: 2})
	if err != nil {
		t.Fatal(err)
	}
	if reflect.DeepEqual(a.Shots, b.Shots) {
		t.Error("different seeds should produce different ancilla noise")
	}
}

func TestStagesIndividually(t *testing.T) {
	r := quietRunner(t, nil)
	defer r.Close()
	ctx := context.Background()

	opts := Options{Distance: 3, Rounds: 2, Basis: "z", Resets: true, Shots: 3, Seed: 5, Logical: "1"}
	code, err := r.Build(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if code.Rounds() != 2 {
		t.Errorf("built code has %d rounds, want 2", code.Rounds())
	}

	shots, err := r.Simulate(ctx, code, opts)
	if err != nil {
		t.Fatal(err)
	}
	if len(shots) != 3 {
		t.Fatalf("%d shots, want 3", len(shots))
	}

	graphs, err := r.Decode(ctx, code, shots, opts)
	if err != nil {
		t.Fatal(err)
	}
	if len(graphs) != 3 {
		t.Fatalf("%d graphs, want 3", len(graphs))
	}
	for _, g := range graphs {
		if g.Logical != "1" {
			t.Errorf("graph logical = %q, want 1", g.Logical)
		}
		if len(g.Nodes) != 0 {
			t.Errorf("noiseless graph has %d nodes", len(g.Nodes))
		}
	}
}
