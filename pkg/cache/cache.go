// Package cache provides content-addressed caching for the expensive
// stages of the encode-simulate-decode pipeline.
//
// Three backends implement the same [Cache] interface: a file cache for
// CLI usage, a Redis cache for the HTTP server, and a null cache that
// disables caching entirely. Keys are produced by a [Keyer], which hashes
// the full parameter set of each pipeline stage so that any change in
// configuration misses cleanly.
package cache

import (
	"context"
	"time"
)

// Default TTLs per pipeline stage. Simulation and decode results are
// deterministic in their keys, so expiry only bounds cache size.
const (
	TTLShots  = 24 * time.Hour
	TTLGraph  = 24 * time.Hour
	TTLRender = 7 * 24 * time.Hour
)

// Cache stores opaque byte values under string keys with optional
// expiration.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key
	// was present; an absent key is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A non-positive ttl stores it without
	// expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Keyer derives cache keys for the pipeline stages. Implementations must
// be deterministic: equal inputs yield equal keys across processes.
type Keyer interface {
	// CircuitKey identifies an emitted circuit: code parameters plus the
	// logical state label.
	CircuitKey(distance, rounds int, basis string, resets bool, logical string) string

	// ShotsKey identifies a simulated shot batch: the circuit identity
	// plus shot count and seed.
	ShotsKey(circuitKey string, shots int, seed int64) string

	// GraphKey identifies a decoded detection graph: the circuit
	// identity plus the shot string it was decoded from.
	GraphKey(circuitKey, shot string) string

	// RenderKey identifies a rendered artifact: the DOT content hash
	// plus the output format.
	RenderKey(dotHash, format string) string
}

// DefaultKeyer hashes each parameter set with SHA-256 under a per-stage
// prefix.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// CircuitKey generates a key for an emitted circuit.
func (k *DefaultKeyer) CircuitKey(distance, rounds int, basis string, resets bool, logical string) string {
	return hashKey("circuit", distance, rounds, basis, resets, logical)
}

// ShotsKey generates a key for a simulated shot batch.
func (k *DefaultKeyer) ShotsKey(circuitKey string, shots int, seed int64) string {
	return hashKey("shots", circuitKey, shots, seed)
}

// GraphKey generates a key for a decoded detection graph.
func (k *DefaultKeyer) GraphKey(circuitKey, shot string) string {
	return hashKey("graph", circuitKey, shot)
}

// RenderKey generates a key for a rendered artifact.
func (k *DefaultKeyer) RenderKey(dotHash, format string) string {
	return hashKey("render", dotHash, format)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = (*DefaultKeyer)(nil)
