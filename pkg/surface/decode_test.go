package surface

import (
	"reflect"
	"strings"
	"testing"

	qecerrors "github.com/hetenyib/qiskit-qec/pkg/errors"
	"github.com/hetenyib/qiskit-qec/pkg/sim"
)

// zeroShot builds an all-zero shot string for a distance-d code with the
// given number of rounds.
func zeroShot(t *testing.T, d, rounds int) string {
	t.Helper()
	l, err := NewLattice(d)
	if err != nil {
		t.Fatal(err)
	}
	fields := []string{strings.Repeat("0", d*d)}
	for r := 0; r < rounds; r++ {
		fields = append(fields,
			strings.Repeat("0", l.NumStabilizers(BasisX)),
			strings.Repeat("0", l.NumStabilizers(BasisZ)))
	}
	return strings.Join(fields, " ")
}

func mustLattice(t *testing.T, d int) *Lattice {
	t.Helper()
	l, err := NewLattice(d)
	if err != nil {
		t.Fatal(err)
	}
	return l
}

func TestRawLogicals(t *testing.T) {
	tests := []struct {
		name  string
		basis Basis
		final string
		want  string
	}{
		{"ground state", BasisZ, "000000000", "0 0"},
		{"interior flip", BasisZ, "000010000", "0 0"},
		{"all ones z", BasisZ, "111111111", "1 1"},
		{"all ones x", BasisX, "111111111", "1 1"},
		// Qubits 0..2 set: the top row flips, the bottom row does not.
		{"top row z", BasisZ, "000000111", "1 0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dec := NewDecoder(mustLattice(t, 3), tt.basis, true, 1)
			shot := tt.final + " 0000 0000"
			got, err := dec.RawLogicals(shot)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("RawLogicals(%q) = %q, want %q", shot, got, tt.want)
			}
		})
	}
}

func TestDetectionRecord(t *testing.T) {
	tests := []struct {
		name     string
		rounds   int
		resets   bool
		measured Basis
		shot     string
		want     []string
	}{
		{
			name:     "single ancilla flip with resets",
			rounds:   3,
			resets:   true,
			measured: BasisZ,
			shot:     "000000000 0000 0000 0000 0010 0000 0000",
			want:     []string{"0000", "0010", "0010", "0000"},
		},
		{
			name:     "single ancilla flip without resets",
			rounds:   3,
			resets:   false,
			measured: BasisZ,
			shot:     "000000000 0000 0000 0000 0010 0000 0000",
			want:     []string{"0000", "0010", "0000", "0010"},
		},
		{
			name:     "readout flip with resets",
			rounds:   3,
			resets:   true,
			measured: BasisZ,
			shot:     "000010000 0000 0000 0000 0000 0000 0000",
			want:     []string{"0000", "0000", "0000", "0110"},
		},
		{
			name:     "readout flip without resets",
			rounds:   3,
			resets:   false,
			measured: BasisZ,
			shot:     "000010000 0000 0000 0000 0000 0000 0000",
			want:     []string{"0000", "0000", "0000", "0110"},
		},
		{
			name:     "opposite basis trims first and last rounds",
			rounds:   3,
			resets:   true,
			measured: BasisX,
			shot:     "000000000 0100 0000 0100 0000 0000 0000",
			want:     []string{"0100", "0000"},
		},
		{
			name:     "opposite basis without resets",
			rounds:   3,
			resets:   false,
			measured: BasisX,
			shot:     "000000000 0100 0000 0100 0000 0000 0000",
			want:     []string{"0100", "0100"},
		},
		{
			name:     "single round without resets",
			rounds:   1,
			resets:   false,
			measured: BasisZ,
			shot:     "000000000 0000 0100",
			want:     []string{"0100", "0100"},
		},
		{
			name:     "persistent flip without resets",
			rounds:   2,
			resets:   false,
			measured: BasisZ,
			shot:     "000000000 0000 0010 0000 0010",
			want:     []string{"0010", "0010", "0000"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dec := NewDecoder(mustLattice(t, 3), BasisZ, tt.resets, tt.rounds)
			got, err := dec.DetectionRecord(tt.shot, tt.measured)
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("DetectionRecord = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDetectionRecordZeroRounds(t *testing.T) {
	dec := NewDecoder(mustLattice(t, 3), BasisZ, true, 0)

	got, err := dec.DetectionRecord("000000000", BasisZ)
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"0000"}; !reflect.DeepEqual(got, want) {
		t.Errorf("matching basis record = %v, want %v", got, want)
	}

	// With no measured rounds the opposite-basis record has nothing left
	// after trimming.
	got, err = dec.DetectionRecord("000000000", BasisX)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("opposite basis record = %v, want empty", got)
	}
}

func TestSplitShotErrors(t *testing.T) {
	dec := NewDecoder(mustLattice(t, 3), BasisZ, true, 1)
	tests := []struct {
		name string
		shot string
	}{
		{"empty", ""},
		{"missing fields", "000000000"},
		{"extra fields", "000000000 0000 0000 0000"},
		{"short readout", "00000000 0000 0000"},
		{"short ancilla field", "000000000 000 0000"},
		{"non-binary", "000000000 0000 002x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := dec.RawLogicals(tt.shot); !qecerrors.Is(err, qecerrors.ErrCodeMalformedResult) {
				t.Errorf("expected MALFORMED_RESULT, got %v", err)
			}
			if _, err := dec.DetectionRecord(tt.shot, BasisZ); !qecerrors.Is(err, qecerrors.ErrCodeMalformedResult) {
				t.Errorf("expected MALFORMED_RESULT, got %v", err)
			}
		})
	}
}

func TestNodesRejectsBadLogical(t *testing.T) {
	dec := NewDecoder(mustLattice(t, 3), BasisZ, true, 0)
	if _, err := dec.Nodes("000000000", "2", false); !qecerrors.Is(err, qecerrors.ErrCodeInvalidLogical) {
		t.Fatalf("expected INVALID_LOGICAL, got %v", err)
	}
}

func TestNodesBulk(t *testing.T) {
	dec := NewDecoder(mustLattice(t, 3), BasisZ, true, 3)
	shot := "000010000 0000 0000 0000 0000 0000 0000"

	nodes, err := dec.Nodes(shot, Logical0, false)
	if err != nil {
		t.Fatal(err)
	}
	want := []Node{
		{Time: 3, Qubits: []Qubit{1, 4, 2, 5}, IsBoundary: false, Element: 1},
		{Time: 3, Qubits: []Qubit{3, 6, 4, 7}, IsBoundary: false, Element: 2},
	}
	if !reflect.DeepEqual(nodes, want) {
		t.Errorf("Nodes = %v, want %v", nodes, want)
	}
}

func TestNodesBoundary(t *testing.T) {
	dec := NewDecoder(mustLattice(t, 3), BasisZ, true, 1)
	shot := zeroShot(t, 3, 1)

	// The all-zero shot matches logical "0": no nodes at all.
	nodes, err := dec.Nodes(shot, Logical0, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(nodes) != 0 {
		t.Fatalf("matching logical: %d nodes, want 0", len(nodes))
	}

	// Against logical "1" both boundary supports disagree.
	nodes, err = dec.Nodes(shot, Logical1, false)
	if err != nil {
		t.Fatal(err)
	}
	want := []Node{
		{Time: 0, Qubits: []Qubit{8, 7, 6}, IsBoundary: true, Element: 0},
		{Time: 0, Qubits: []Qubit{0, 1, 2}, IsBoundary: true, Element: 1},
	}
	if !reflect.DeepEqual(nodes, want) {
		t.Errorf("mismatched logical: Nodes = %v, want %v", nodes, want)
	}

	// allLogicals forces boundary nodes regardless of agreement.
	nodes, err = dec.Nodes(shot, Logical0, true)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(nodes, want) {
		t.Errorf("allLogicals: Nodes = %v, want %v", nodes, want)
	}
}

// Both raw logicals reproduce the prepared value only at odd distance,
// where the full stabilizer product of each basis covers exactly the two
// boundary supports. Even distances leave one support entangled with a
// plaquette and are not exercised here.
func TestNoiselessRoundTrip(t *testing.T) {
	for _, d := range []int{3, 5} {
		for _, basis := range []Basis{BasisZ, BasisX} {
			for _, resets := range []bool{true, false} {
				cfg := Config{Distance: d, Rounds: 2, Basis: basis, Resets: resets}
				c, err := New(cfg)
				if err != nil {
					t.Fatal(err)
				}
				dec := c.Decoder()

				for _, logical := range Logicals {
					shot, err := sim.Shot(c.Circuit(logical), 7)
					if err != nil {
						t.Fatal(err)
					}

					raw, err := dec.RawLogicals(shot)
					if err != nil {
						t.Fatal(err)
					}
					if want := logical + " " + logical; raw != want {
						t.Errorf("%v logical %q: raw = %q, want %q", cfg, logical, raw, want)
					}

					record, err := dec.DetectionRecord(shot, basis)
					if err != nil {
						t.Fatal(err)
					}
					if len(record) != cfg.Rounds+1 {
						t.Errorf("%v logical %q: record has %d rounds, want %d", cfg, logical, len(record), cfg.Rounds+1)
					}
					for _, row := range record {
						if strings.ContainsRune(row, '1') {
							t.Errorf("%v logical %q: noiseless record %v is not clean", cfg, logical, record)
							break
						}
					}

					nodes, err := dec.Nodes(shot, logical, false)
					if err != nil {
						t.Fatal(err)
					}
					if len(nodes) != 0 {
						t.Errorf("%v logical %q: %d nodes, want 0", cfg, logical, len(nodes))
					}
				}
			}
		}
	}
}

// Flipping any single matching-basis ancilla bit must produce exactly two
// detection events when ancillas are reset: the flipped round and the one
// after it.
func TestSingleFlipNodes(t *testing.T) {
	cfg := Config{Distance: 3, Rounds: 3, Basis: BasisZ, Resets: true}
	c, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	dec := c.Decoder()

	shot, err := sim.Shot(c.Circuit(Logical0), 11)
	if err != nil {
		t.Fatal(err)
	}
	fields := strings.Split(shot, " ")

	// Z-ancilla fields sit at even indices >= 2.
	for i := 2; i < len(fields); i += 2 {
		for j := 0; j < len(fields[i]); j++ {
			mutated := make([]string, len(fields))
			copy(mutated, fields)
			row := []byte(mutated[i])
			row[j] ^= 1
			mutated[i] = string(row)

			nodes, err := dec.Nodes(strings.Join(mutated, " "), Logical0, false)
			if err != nil {
				t.Fatal(err)
			}
			if len(nodes) != 2 {
				t.Errorf("flip field %d bit %d: %d nodes, want 2", i, j, len(nodes))
				continue
			}
			for _, n := range nodes {
				if n.IsBoundary {
					t.Errorf("flip field %d bit %d: unexpected boundary node %v", i, j, n)
				}
			}
		}
	}
}
