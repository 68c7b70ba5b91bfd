package circuit

import (
	"strings"
	"testing"
)

func TestRegisterIndexing(t *testing.T) {
	code := NewQReg("code", 4)
	anc := NewQReg("anc", 2)
	c := New("test", code, anc)

	tests := []struct {
		name  string
		qubit Qubit
		want  int
	}{
		{"first register start", code.Qubit(0), 0},
		{"first register end", code.Qubit(3), 3},
		{"second register start", anc.Qubit(0), 4},
		{"second register end", anc.Qubit(1), 5},
		{"out of range", code.Qubit(4), -1},
		{"negative index", anc.Qubit(-1), -1},
		{"unregistered register", NewQReg("other", 3).Qubit(0), -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.QubitIndex(tt.qubit); got != tt.want {
				t.Errorf("QubitIndex() = %d, want %d", got, tt.want)
			}
		})
	}

	if got := c.NumQubits(); got != 6 {
		t.Errorf("NumQubits() = %d, want 6", got)
	}
}

func TestClbitIndexingFollowsAdditionOrder(t *testing.T) {
	q := NewQReg("q", 2)
	c := New("test", q)

	r0 := NewCReg("round_0", 2)
	r1 := NewCReg("round_1", 2)
	c.AddCReg(r0)
	c.AddCReg(r1)

	if got := c.ClbitIndex(r0.Clbit(1)); got != 1 {
		t.Errorf("ClbitIndex(r0[1]) = %d, want 1", got)
	}
	if got := c.ClbitIndex(r1.Clbit(0)); got != 2 {
		t.Errorf("ClbitIndex(r1[0]) = %d, want 2", got)
	}
	if got := c.NumClbits(); got != 4 {
		t.Errorf("NumClbits() = %d, want 4", got)
	}

	cregs := c.CRegs()
	if len(cregs) != 2 || cregs[0] != r0 || cregs[1] != r1 {
		t.Errorf("CRegs() order = %v, want [r0 r1]", cregs)
	}
}

func TestSharedRegistersAcrossVariants(t *testing.T) {
	code := NewQReg("code", 3)
	c0 := New("0", code)
	c1 := New("1", code)

	c0.H(code.Qubit(0))
	c1.X(code.Qubit(0))

	// Same register handle resolves to the same global index in both.
	if c0.QubitIndex(code.Qubit(2)) != c1.QubitIndex(code.Qubit(2)) {
		t.Error("shared register resolves differently across circuit variants")
	}
}

func TestInstructionOrder(t *testing.T) {
	q := NewQReg("q", 2)
	bits := NewCReg("c", 2)
	c := New("test", q)
	c.AddCReg(bits)

	c.H(q.Qubit(0))
	c.CX(q.Qubit(0), q.Qubit(1))
	c.Barrier()
	c.Measure(q.Qubit(1), bits.Clbit(1))
	c.Reset(q.Qubit(1))

	want := []string{GateH, GateCX, OpBarrier, OpMeasure, OpReset}
	ops := c.Instructions()
	if len(ops) != len(want) {
		t.Fatalf("len(Instructions()) = %d, want %d", len(ops), len(want))
	}
	for i, name := range want {
		if ops[i].Name != name {
			t.Errorf("ops[%d].Name = %q, want %q", i, ops[i].Name, name)
		}
	}

	if ops[1].Qubits[0] != q.Qubit(0) || ops[1].Qubits[1] != q.Qubit(1) {
		t.Error("CX control/target order not preserved")
	}
	if ops[3].Clbits[0] != bits.Clbit(1) {
		t.Error("measurement target bit not preserved")
	}
}

func TestQASM(t *testing.T) {
	q := NewQReg("code", 2)
	anc := NewQReg("anc", 1)
	bits := NewCReg("out", 2)
	c := New("bell", q, anc)
	c.AddCReg(bits)

	c.H(q.Qubit(0))
	c.CX(q.Qubit(0), q.Qubit(1))
	c.Measure(q.Qubit(0), bits.Clbit(0))
	c.Reset(anc.Qubit(0))
	c.Barrier()

	qasm := c.QASM()

	wantLines := []string{
		"OPENQASM 2.0;",
		`include "qelib1.inc";`,
		"qreg code[2];",
		"qreg anc[1];",
		"creg out[2];",
		"h code[0];",
		"cx code[0], code[1];",
		"measure code[0] -> out[0];",
		"reset anc[0];",
		"barrier code, anc;",
	}
	for _, line := range wantLines {
		if !strings.Contains(qasm, line) {
			t.Errorf("QASM() missing line %q\ngot:\n%s", line, qasm)
		}
	}

	// Gates must appear in emission order.
	if strings.Index(qasm, "h code[0];") > strings.Index(qasm, "cx code[0]") {
		t.Error("QASM gate order does not match emission order")
	}
}
