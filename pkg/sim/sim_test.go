package sim

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/hetenyib/qiskit-qec/pkg/circuit"
)

func TestDeterministicOutcomes(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	t.Run("ground state measures zero", func(t *testing.T) {
		tab := NewTableau(1)
		if got := tab.Measure(0, rng); got != 0 {
			t.Errorf("Measure(|0>) = %d, want 0", got)
		}
	})

	t.Run("X flips the outcome", func(t *testing.T) {
		tab := NewTableau(1)
		tab.X(0)
		if got := tab.Measure(0, rng); got != 1 {
			t.Errorf("Measure(X|0>) = %d, want 1", got)
		}
	})

	t.Run("double Hadamard is identity", func(t *testing.T) {
		tab := NewTableau(1)
		tab.H(0)
		tab.H(0)
		if got := tab.Measure(0, rng); got != 0 {
			t.Errorf("Measure(HH|0>) = %d, want 0", got)
		}
	})

	t.Run("Z commutes with computational measurement", func(t *testing.T) {
		tab := NewTableau(1)
		tab.X(0)
		tab.Z(0)
		if got := tab.Measure(0, rng); got != 1 {
			t.Errorf("Measure(ZX|0>) = %d, want 1", got)
		}
	})

	t.Run("repeated measurement is stable", func(t *testing.T) {
		tab := NewTableau(1)
		tab.H(0)
		first := tab.Measure(0, rng)
		for i := 0; i < 5; i++ {
			if got := tab.Measure(0, rng); got != first {
				t.Fatalf("repeat measurement %d = %d, want %d", i, got, first)
			}
		}
	})
}

func TestBellPairCorrelation(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 50; i++ {
		tab := NewTableau(2)
		tab.H(0)
		tab.CX(0, 1)
		a := tab.Measure(0, rng)
		b := tab.Measure(1, rng)
		if a != b {
			t.Fatalf("Bell pair outcomes disagree: %d vs %d", a, b)
		}
	}
}

func TestReset(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 20; i++ {
		tab := NewTableau(1)
		tab.H(0)
		tab.Reset(0, rng)
		if got := tab.Measure(0, rng); got != 0 {
			t.Fatalf("Measure after Reset = %d, want 0", got)
		}
	}
}

func TestPhaseGate(t *testing.T) {
	// S^2 = Z: HSSH|0> = HZH|0> = X|0> = |1>.
	rng := rand.New(rand.NewSource(5))
	tab := NewTableau(1)
	tab.H(0)
	tab.S(0)
	tab.S(0)
	tab.H(0)
	if got := tab.Measure(0, rng); got != 1 {
		t.Errorf("Measure(HSSH|0>) = %d, want 1", got)
	}
}

func TestRunWireFormat(t *testing.T) {
	q := circuit.NewQReg("q", 3)
	c := circuit.New("test", q)

	first := circuit.NewCReg("first", 2)
	second := circuit.NewCReg("second", 3)
	c.AddCReg(first)
	c.AddCReg(second)

	// Deterministic pattern: q0 = 1, q1 = 0, q2 = 1.
	c.X(q.Qubit(0))
	c.X(q.Qubit(2))
	c.Measure(q.Qubit(0), first.Clbit(0))
	c.Measure(q.Qubit(1), first.Clbit(1))
	c.Measure(q.Qubit(0), second.Clbit(0))
	c.Measure(q.Qubit(1), second.Clbit(1))
	c.Measure(q.Qubit(2), second.Clbit(2))

	shot, err := Shot(c, 42)
	if err != nil {
		t.Fatalf("Shot() error: %v", err)
	}

	// Most recently added register first; bit i printed at position
	// size-1-i.
	want := "101 01"
	if shot != want {
		t.Errorf("Shot() = %q, want %q", shot, want)
	}
}

func TestRunRejectsUnknownGate(t *testing.T) {
	q := circuit.NewQReg("q", 1)
	c := circuit.New("test", q)
	c.Apply("t", q.Qubit(0))

	if _, err := Run(c, rand.New(rand.NewSource(1))); err == nil {
		t.Error("Run() with non-Clifford gate should fail")
	}
}

func TestShotsReproducible(t *testing.T) {
	q := circuit.NewQReg("q", 2)
	c := circuit.New("test", q)
	bits := circuit.NewCReg("c", 2)
	c.AddCReg(bits)
	c.H(q.Qubit(0))
	c.CX(q.Qubit(0), q.Qubit(1))
	c.Measure(q.Qubit(0), bits.Clbit(0))
	c.Measure(q.Qubit(1), bits.Clbit(1))

	a, err := Shots(c, 10, 99)
	if err != nil {
		t.Fatalf("Shots() error: %v", err)
	}
	b, err := Shots(c, 10, 99)
	if err != nil {
		t.Fatalf("Shots() error: %v", err)
	}
	if strings.Join(a, ",") != strings.Join(b, ",") {
		t.Error("Shots() with the same seed should be reproducible")
	}

	// Bell-pair bits agree within every shot.
	for _, shot := range a {
		if shot != "00" && shot != "11" {
			t.Errorf("Bell shot = %q, want 00 or 11", shot)
		}
	}
}
