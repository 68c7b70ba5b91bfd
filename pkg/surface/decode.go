package surface

import (
	"fmt"
	"strings"

	qecerrors "github.com/hetenyib/qiskit-qec/pkg/errors"
)

// Decoder converts single measurement-shot strings into raw logical
// values, detection records, and fault-graph nodes. It is a pure function
// of the lattice layout, preparation basis, reset policy, and round count;
// a Decoder holds no per-shot state and is safe for concurrent use.
type Decoder struct {
	lattice *Lattice
	basis   Basis
	resets  bool
	rounds  int
}

// NewDecoder creates a decoder for shots produced by a code with the given
// layout, preparation basis, reset policy, and number of syndrome rounds.
func NewDecoder(lattice *Lattice, basis Basis, resets bool, rounds int) *Decoder {
	return &Decoder{lattice: lattice, basis: basis, resets: resets, rounds: rounds}
}

// splitShot validates the structural contract of a shot string and returns
// its space-separated fields: the final code readout followed by the X and
// Z ancilla fields of each round, most recent round first.
func (d *Decoder) splitShot(shot string) ([]string, error) {
	fields := strings.Split(shot, " ")
	if err := qecerrors.ValidateShotFields(fields); err != nil {
		return nil, err
	}
	if want := 1 + 2*d.rounds; len(fields) != want {
		return nil, qecerrors.New(qecerrors.ErrCodeMalformedResult,
			"shot has %d fields, want %d for %d rounds", len(fields), want, d.rounds)
	}
	if len(fields[0]) != d.lattice.NumQubits() {
		return nil, qecerrors.New(qecerrors.ErrCodeMalformedResult,
			"final readout has %d bits, want %d", len(fields[0]), d.lattice.NumQubits())
	}
	for i := 1; i < len(fields); i++ {
		basis := BasisZ
		if i%2 == 1 {
			basis = BasisX
		}
		if want := d.lattice.NumStabilizers(basis); len(fields[i]) != want {
			return nil, qecerrors.New(qecerrors.ErrCodeMalformedResult,
				"field %d has %d bits, want %d %s-ancilla bits", i, len(fields[i]), want, basis)
		}
	}
	return fields, nil
}

// RawLogicals extracts the two redundant raw logical values from a shot's
// final transversal readout: the parity along each boundary logical support
// of the preparation basis (rows for Z, columns for X). The result is
// formatted "v0 v1".
func (d *Decoder) RawLogicals(shot string) (string, error) {
	fields, err := d.splitShot(shot)
	if err != nil {
		return "", err
	}

	// Bit order within a field is the reverse of the qubit index.
	final := reverseString(fields[0])
	dd := d.lattice.Distance()

	var v [2]int
	for j := 0; j < dd; j++ {
		if d.basis == BasisZ {
			// Evaluated along the top and bottom rows.
			v[0] = (v[0] + bit(final[j])) % 2
			v[1] = (v[1] + bit(final[dd*dd-1-j])) % 2
		} else {
			// Evaluated along the left and right columns.
			v[0] = (v[0] + bit(final[j*dd])) % 2
			v[1] = (v[1] + bit(final[(j+1)*dd-1])) % 2
		}
	}
	return fmt.Sprintf("%d %d", v[0], v[1]), nil
}

// DetectionRecord computes, for the plaquettes of the measured basis, one
// binary round-string per round marking where the instantaneous syndrome
// changed. The record includes a synthetic round derived from the final
// transversal readout; when the measured basis differs from the
// preparation basis the first and last rounds are trimmed, since the
// initial and final states are not stabilized by the opposite-basis
// operators.
//
// Within a round-string, stabilizer j sits at the reversed position
// width-1-j, matching the ancilla-field bit order.
func (d *Decoder) DetectionRecord(shot string, measured Basis) ([]string, error) {
	fields, err := d.splitShot(shot)
	if err != nil {
		return nil, err
	}

	// Final syndrome for the measured basis, deduced from the code-qubit
	// readout.
	final := reverseString(fields[0])
	plaqs := d.lattice.Plaquettes(measured)
	width := len(plaqs)
	virtual := make([]byte, width)
	for j, plaq := range plaqs {
		parity := 0
		for _, q := range plaq {
			if q != NoQubit {
				parity += bit(final[q])
			}
		}
		virtual[width-1-j] = '0' + byte(parity%2)
	}

	// The measured basis's ancilla fields follow, most recent round first.
	syndromes := make([]string, 0, d.rounds+1)
	syndromes = append(syndromes, string(virtual))
	start := 2
	if measured == BasisX {
		start = 1
	}
	for i := start; i < len(fields); i += 2 {
		syndromes = append(syndromes, fields[i])
	}

	height := len(syndromes)
	// last(k) is the k-th syndrome counted from the end, except that
	// last(0) is the first entry. The differencing windows below are
	// defined in terms of this indexing; any off-by-one here silently
	// corrupts decoder input, so changes need differential tests across
	// (d, T, resets) combinations.
	last := func(k int) string {
		if k == 0 {
			return syndromes[0]
		}
		return syndromes[height-k]
	}

	record := make([]string, 0, height)
	for t := 0; t < height; t++ {
		row := make([]byte, width)
		for j := 0; j < width; j++ {
			var change bool
			if d.resets {
				// Reset ancillas carry no history: plain round-to-round
				// difference, with round 0 compared to the ground state.
				if t == 0 {
					change = last(1)[j] != '0'
				} else {
					change = last(t)[j] != last(t+1)[j]
				}
			} else {
				// Un-reset ancillas accumulate parity since their last
				// reset, so the general difference spans two rounds and
				// the sequence boundaries need their own windows.
				switch {
				case t <= 1 && t != d.rounds:
					change = last(t+1)[j] != '0'
				case t <= 1:
					change = last(t+1)[j] != last(t)[j]
				case t == d.rounds:
					ones := 0
					for dt := 0; dt < 3; dt++ {
						if last(t+1-dt)[j] == '1' {
							ones++
						}
					}
					change = ones%2 == 1
				default:
					change = last(t+1)[j] != last(t-1)[j]
				}
			}
			if change {
				row[j] = '1'
			} else {
				row[j] = '0'
			}
		}
		record = append(record, string(row))
	}

	if measured != d.basis {
		if len(record) <= 2 {
			return []string{}, nil
		}
		record = record[1 : len(record)-1]
	}
	return record, nil
}

// Nodes converts a shot string into the flat node list a matching decoder
// consumes. Boundary nodes are emitted for each boundary logical support
// whose raw value disagrees with the expected logical value (or
// unconditionally when allLogicals is set); bulk nodes are emitted for
// every set bit of the detection record.
func (d *Decoder) Nodes(shot string, logical string, allLogicals bool) ([]Node, error) {
	if err := qecerrors.ValidateLogical(logical); err != nil {
		return nil, err
	}

	raw, err := d.RawLogicals(shot)
	if err != nil {
		return nil, err
	}
	record, err := d.DetectionRecord(shot, d.basis)
	if err != nil {
		return nil, err
	}

	var nodes []Node

	// Boundary nodes: element k reads the opposite end of the raw-logical
	// pair, so element 0 carries logical support 1 and vice versa.
	boundary := strings.Split(raw, " ")
	for k := 0; k < len(boundary); k++ {
		value := boundary[len(boundary)-1-k]
		if allLogicals || value != logical {
			support := d.lattice.Logical(d.basis, len(boundary)-1-k)
			nodes = append(nodes, Node{
				Time:       0,
				Qubits:     append([]Qubit(nil), support...),
				IsBoundary: true,
				Element:    k,
			})
		}
	}

	// Bulk nodes: one per set detection bit, carrying the stabilizer's
	// present-qubit support.
	plaqs := d.lattice.Plaquettes(d.basis)
	for t, row := range record {
		for j := 0; j < len(row); j++ {
			if row[len(row)-1-j] != '1' {
				continue
			}
			nodes = append(nodes, Node{
				Time:       t,
				Qubits:     plaqs[j].Support(),
				IsBoundary: false,
				Element:    j,
			})
		}
	}

	return nodes, nil
}

// reverseString returns s with its bytes in reverse order. Shot fields are
// ASCII, so byte reversal is safe.
func reverseString(s string) string {
	b := []byte(s)
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return string(b)
}

// bit converts an ASCII '0'/'1' byte to its integer value.
func bit(c byte) int {
	if c == '1' {
		return 1
	}
	return 0
}
