package surface

import (
	qecerrors "github.com/hetenyib/qiskit-qec/pkg/errors"
)

// Qubit is a code-qubit index on the rotated lattice, row-major:
// index = x + d*y for coordinates (x, y) in [0, d-1]^2.
type Qubit int

// NoQubit marks an absent plaquette slot at a truncated boundary corner.
const NoQubit Qubit = -1

// StabilizerID indexes a plaquette inside its basis collection. The index
// is assigned in lattice-generation order and is the stabilizer's identity:
// circuit emission and decoding rely on the same ordering.
type StabilizerID int

// RoundID indexes a syndrome-measurement round. Rounds are numbered in
// emission order starting at 0; decoding assumes round index equals
// emission order.
type RoundID int

// Plaquette is one stabilizer generator's support: four slots in canonical
// gate-application order (the slot order fixes the entangling-gate schedule
// and with it the sign conventions consumed downstream). Boundary-truncated
// plaquettes mark missing corners with NoQubit.
type Plaquette [4]Qubit

// Support returns the present qubits in slot order.
func (p Plaquette) Support() []Qubit {
	qs := make([]Qubit, 0, 4)
	for _, q := range p {
		if q != NoQubit {
			qs = append(qs, q)
		}
	}
	return qs
}

// Weight returns the number of present qubits (2 at boundaries, 4 in the
// bulk).
func (p Plaquette) Weight() int {
	n := 0
	for _, q := range p {
		if q != NoQubit {
			n++
		}
	}
	return n
}

// Lattice is the combinatorial layout of a distance-d rotated surface code:
// the ordered Z- and X-plaquette collections plus the two boundary logical
// supports per basis. A Lattice is immutable after construction and safe
// for concurrent use.
type Lattice struct {
	d      int
	zplaqs []Plaquette
	xplaqs []Plaquette

	// logicals[basis][element]: element 0 is the left column (X) or top
	// row (Z), element 1 the right column or bottom row. The bottom row is
	// stored in descending qubit order, matching the readout convention.
	logicals [2][2][]Qubit
}

// NewLattice builds the plaquette layout for a distance-d rotated surface
// code. Construction is deterministic: two lattices built with the same d
// are identical, collection order included.
func NewLattice(d int) (*Lattice, error) {
	if err := qecerrors.ValidateDistance(d); err != nil {
		return nil, err
	}

	l := &Lattice{d: d}
	l.zplaqs, l.xplaqs = plaquettes(d)

	// X logicals run along the left and right columns.
	left := make([]Qubit, d)
	right := make([]Qubit, d)
	for j := 0; j < d; j++ {
		left[j] = Qubit(j * d)
		right[j] = Qubit((j+1)*d - 1)
	}
	l.logicals[BasisX] = [2][]Qubit{left, right}

	// Z logicals run along the top and bottom rows; the bottom row counts
	// down from the last qubit.
	top := make([]Qubit, d)
	bottom := make([]Qubit, d)
	for j := 0; j < d; j++ {
		top[j] = Qubit(j)
		bottom[j] = Qubit(d*d - 1 - j)
	}
	l.logicals[BasisZ] = [2][]Qubit{top, bottom}

	return l, nil
}

// plaquettes enumerates the stabilizer supports of the rotated lattice.
// Coordinates (x, y) over [-1, d-1]^2 seed a plaquette when they lie in the
// bulk or on a designated boundary extension; the checkerboard parity of
// x+y classifies the type, and each type gets its fixed corner permutation.
func plaquettes(d int) (zplaqs, xplaqs []Plaquette) {
	inLattice := func(v int) bool { return v >= 0 && v < d }
	inBulkAxis := func(v int) bool { return v >= 0 && v < d-1 }
	odd := func(v int) bool { return v%2 != 0 }

	for y := -1; y < d; y++ {
		for x := -1; x < d; x++ {
			bulk := inBulkAxis(x) && inBulkAxis(y)
			ztab := (x == -1 && !odd(y)) || (x == d-1 && odd(y))
			xtab := (y == -1 && odd(x)) || (y == d-1 && !odd(x))

			if !(inBulkAxis(x) || inBulkAxis(y)) || !(bulk || ztab || xtab) {
				continue
			}

			// 2x2 block in dy-major order; corners outside the lattice
			// extent are absent.
			var corners [4]Qubit
			i := 0
			for dy := 0; dy < 2; dy++ {
				for dx := 0; dx < 2; dx++ {
					if inLattice(x+dx) && inLattice(y+dy) {
						corners[i] = Qubit(x + dx + d*(y+dy))
					} else {
						corners[i] = NoQubit
					}
					i++
				}
			}

			// The corner permutation fixes the entangling-gate order:
			// X-plaquettes sweep rows first, Z-plaquettes columns first.
			if (x+y)%2 == 0 {
				xplaqs = append(xplaqs, Plaquette{corners[0], corners[1], corners[2], corners[3]})
			} else {
				zplaqs = append(zplaqs, Plaquette{corners[0], corners[2], corners[1], corners[3]})
			}
		}
	}

	return zplaqs, xplaqs
}

// Distance returns the code distance d.
func (l *Lattice) Distance() int { return l.d }

// NumQubits returns the number of code qubits, d^2.
func (l *Lattice) NumQubits() int { return l.d * l.d }

// Plaquettes returns the ordered plaquette collection of the given basis.
// The returned slice is shared; callers must not modify it.
func (l *Lattice) Plaquettes(b Basis) []Plaquette {
	if b == BasisX {
		return l.xplaqs
	}
	return l.zplaqs
}

// NumStabilizers returns the size of the given basis's plaquette
// collection.
func (l *Lattice) NumStabilizers(b Basis) int {
	return len(l.Plaquettes(b))
}

// Logical returns the boundary logical-operator support for the given basis
// and element (0 or 1). Each support has exactly d qubits. The returned
// slice is shared; callers must not modify it.
func (l *Lattice) Logical(b Basis, element int) []Qubit {
	return l.logicals[b][element]
}

// StabilizerSupport returns the present-qubit support of stabilizer id in
// the given basis.
func (l *Lattice) StabilizerSupport(b Basis, id StabilizerID) []Qubit {
	return l.Plaquettes(b)[id].Support()
}
