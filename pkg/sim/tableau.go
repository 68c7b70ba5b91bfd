// Package sim provides a stabilizer-circuit simulator for the Clifford
// instruction sequences emitted by pkg/surface.
//
// The simulator tracks an Aaronson-Gottesman tableau of destabilizer and
// stabilizer generators, so circuits of H, S, X, Z, CX, measurement, and
// reset run in polynomial time regardless of qubit count. Measurement
// outcomes that quantum mechanics leaves random are resolved by a
// caller-supplied RNG, which makes shots reproducible under a fixed seed;
// outcomes that are determined by the state are exact.
//
// Run executes a pkg/circuit sequence and formats the resulting classical
// register values in the wire format pkg/surface decodes: space-separated
// fields in reverse register-addition order, bit order within each field
// reversed with respect to the bit index.
package sim

import (
	"math/rand"
)

// Tableau is the stabilizer representation of an n-qubit state. Rows
// 0..n-1 hold destabilizer generators, rows n..2n-1 stabilizer generators,
// and one scratch row is kept for deterministic measurement outcomes.
//
// A Tableau is not safe for concurrent use.
type Tableau struct {
	n int
	x [][]uint8 // x[i][j]: row i has an X factor on qubit j
	z [][]uint8 // z[i][j]: row i has a Z factor on qubit j
	r []uint8   // phase bit per row (1 means -1 sign)
}

// NewTableau creates the tableau of the all-zeros state |0...0>.
func NewTableau(n int) *Tableau {
	rows := 2*n + 1
	t := &Tableau{
		n: n,
		x: make([][]uint8, rows),
		z: make([][]uint8, rows),
		r: make([]uint8, rows),
	}
	for i := 0; i < rows; i++ {
		t.x[i] = make([]uint8, n)
		t.z[i] = make([]uint8, n)
	}
	for i := 0; i < n; i++ {
		t.x[i][i] = 1     // destabilizer X_i
		t.z[n+i][i] = 1   // stabilizer Z_i
	}
	return t
}

// NumQubits returns the number of qubits the tableau tracks.
func (t *Tableau) NumQubits() int { return t.n }

// H applies a Hadamard gate to qubit a.
func (t *Tableau) H(a int) {
	for i := 0; i < 2*t.n; i++ {
		t.r[i] ^= t.x[i][a] & t.z[i][a]
		t.x[i][a], t.z[i][a] = t.z[i][a], t.x[i][a]
	}
}

// S applies a phase gate to qubit a.
func (t *Tableau) S(a int) {
	for i := 0; i < 2*t.n; i++ {
		t.r[i] ^= t.x[i][a] & t.z[i][a]
		t.z[i][a] ^= t.x[i][a]
	}
}

// X applies a Pauli-X gate to qubit a.
func (t *Tableau) X(a int) {
	for i := 0; i < 2*t.n; i++ {
		t.r[i] ^= t.z[i][a]
	}
}

// Z applies a Pauli-Z gate to qubit a.
func (t *Tableau) Z(a int) {
	for i := 0; i < 2*t.n; i++ {
		t.r[i] ^= t.x[i][a]
	}
}

// CX applies a controlled-X gate with control a and target b.
func (t *Tableau) CX(a, b int) {
	for i := 0; i < 2*t.n; i++ {
		t.r[i] ^= t.x[i][a] & t.z[i][b] & (t.x[i][b] ^ t.z[i][a] ^ 1)
		t.x[i][b] ^= t.x[i][a]
		t.z[i][a] ^= t.z[i][b]
	}
}

// Measure measures qubit a in the computational basis and returns the
// outcome bit. When the outcome is undetermined the rng decides it and the
// state is projected accordingly; determined outcomes leave the state
// unchanged.
func (t *Tableau) Measure(a int, rng *rand.Rand) int {
	n := t.n

	// A stabilizer with an X factor on a means the outcome is random.
	p := -1
	for i := n; i < 2*n; i++ {
		if t.x[i][a] == 1 {
			p = i
			break
		}
	}

	if p >= 0 {
		for i := 0; i < 2*n; i++ {
			if i != p && t.x[i][a] == 1 {
				t.rowsum(i, p)
			}
		}
		copy(t.x[p-n], t.x[p])
		copy(t.z[p-n], t.z[p])
		t.r[p-n] = t.r[p]

		for j := 0; j < n; j++ {
			t.x[p][j] = 0
			t.z[p][j] = 0
		}
		t.z[p][a] = 1
		t.r[p] = uint8(rng.Intn(2))
		return int(t.r[p])
	}

	// Deterministic outcome: accumulate the relevant stabilizers into the
	// scratch row and read off its phase.
	scratch := 2 * n
	for j := 0; j < n; j++ {
		t.x[scratch][j] = 0
		t.z[scratch][j] = 0
	}
	t.r[scratch] = 0
	for i := 0; i < n; i++ {
		if t.x[i][a] == 1 {
			t.rowsum(scratch, i+n)
		}
	}
	return int(t.r[scratch])
}

// Reset projects qubit a to |0> by measuring it and flipping on a 1
// outcome.
func (t *Tableau) Reset(a int, rng *rand.Rand) {
	if t.Measure(a, rng) == 1 {
		t.X(a)
	}
}

// rowsum left-multiplies row h by row i, tracking the overall sign of the
// Pauli product.
func (t *Tableau) rowsum(h, i int) {
	sum := 2*int(t.r[h]) + 2*int(t.r[i])
	for j := 0; j < t.n; j++ {
		sum += phaseExp(t.x[i][j], t.z[i][j], t.x[h][j], t.z[h][j])
	}
	if ((sum%4)+4)%4 == 2 {
		t.r[h] = 1
	} else {
		t.r[h] = 0
	}
	for j := 0; j < t.n; j++ {
		t.x[h][j] ^= t.x[i][j]
		t.z[h][j] ^= t.z[i][j]
	}
}

// phaseExp returns the exponent of i contributed by multiplying the
// single-qubit Paulis (x1,z1) and (x2,z2), in {-1, 0, 1}.
func phaseExp(x1, z1, x2, z2 uint8) int {
	switch {
	case x1 == 0 && z1 == 0:
		return 0
	case x1 == 1 && z1 == 1: // Y
		return int(z2) - int(x2)
	case x1 == 1: // X
		return int(z2) * (2*int(x2) - 1)
	default: // Z
		return int(x2) * (1 - 2*int(z2))
	}
}
