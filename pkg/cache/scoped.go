package cache

// ScopedKeyer prefixes every key produced by an inner Keyer. Scoping
// keeps independent deployments (or tests sharing one Redis instance)
// from colliding.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer whose keys all carry the given prefix.
// A nil inner keyer defaults to [NewDefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// CircuitKey generates a prefixed circuit key.
func (k *ScopedKeyer) CircuitKey(distance, rounds int, basis string, resets bool, logical string) string {
	return k.prefix + k.inner.CircuitKey(distance, rounds, basis, resets, logical)
}

// ShotsKey generates a prefixed shot-batch key.
func (k *ScopedKeyer) ShotsKey(circuitKey string, shots int, seed int64) string {
	return k.prefix + k.inner.ShotsKey(circuitKey, shots, seed)
}

// GraphKey generates a prefixed detection-graph key.
func (k *ScopedKeyer) GraphKey(circuitKey, shot string) string {
	return k.prefix + k.inner.GraphKey(circuitKey, shot)
}

// RenderKey generates a prefixed render-artifact key.
func (k *ScopedKeyer) RenderKey(dotHash, format string) string {
	return k.prefix + k.inner.RenderKey(dotHash, format)
}

// Ensure ScopedKeyer implements Keyer.
var _ Keyer = (*ScopedKeyer)(nil)
