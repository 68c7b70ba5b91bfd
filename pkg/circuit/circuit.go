// Package circuit provides a minimal instruction-sequence builder for
// quantum circuits.
//
// A Circuit is an append-only list of named gate, measurement, reset, and
// barrier instructions over registers of qubits and classical bits. The
// builder knows nothing about gate semantics - it records instructions in
// order and can serialize them as OpenQASM 2.0. Execution is someone else's
// concern (see pkg/sim for a stabilizer interpreter).
//
// Registers are shared by reference: two circuits constructed from the same
// *QReg values describe operations on the same qubits, which is how the "0"
// and "1" logical variants of an encoding circuit stay aligned. Classical
// registers may be added after construction with AddCReg, so circuits can
// grow one measurement register per syndrome round.
package circuit

import (
	"fmt"
	"strings"
)

// Gate names understood by the toolkit. Apply accepts any name; these
// constants cover the gates the surface-code emitter uses.
const (
	GateH       = "h"
	GateX       = "x"
	GateZ       = "z"
	GateCX      = "cx"
	OpMeasure   = "measure"
	OpReset     = "reset"
	OpBarrier   = "barrier"
)

// QReg is a named register of qubits.
type QReg struct {
	Name string
	Size int
}

// NewQReg creates a quantum register with the given name and size.
func NewQReg(name string, size int) *QReg {
	return &QReg{Name: name, Size: size}
}

// Qubit returns a handle to the i-th qubit of the register.
func (r *QReg) Qubit(i int) Qubit {
	return Qubit{Reg: r, Index: i}
}

// CReg is a named register of classical bits.
type CReg struct {
	Name string
	Size int
}

// NewCReg creates a classical register with the given name and size.
func NewCReg(name string, size int) *CReg {
	return &CReg{Name: name, Size: size}
}

// Clbit returns a handle to the i-th bit of the register.
func (r *CReg) Clbit(i int) Clbit {
	return Clbit{Reg: r, Index: i}
}

// Qubit identifies one qubit inside a register.
type Qubit struct {
	Reg   *QReg
	Index int
}

// Clbit identifies one classical bit inside a register.
type Clbit struct {
	Reg   *CReg
	Index int
}

// Instruction is a single appended operation. Gates carry only Qubits;
// measurements carry one Qubit and one Clbit; barriers carry neither.
type Instruction struct {
	Name   string
	Qubits []Qubit
	Clbits []Clbit
}

// Circuit is an ordered instruction sequence over a set of registers.
// The zero value is not usable - create circuits with New.
//
// Circuit is not safe for concurrent use.
type Circuit struct {
	Name  string
	qregs []*QReg
	cregs []*CReg
	ops   []Instruction
}

// New creates a named circuit over the given quantum registers.
// Classical registers are added later with AddCReg.
func New(name string, qregs ...*QReg) *Circuit {
	return &Circuit{Name: name, qregs: qregs}
}

// AddCReg appends a classical register to the circuit. Registration order
// is significant: measurement-shot strings list register fields in reverse
// order of addition (most recently added first).
func (c *Circuit) AddCReg(r *CReg) {
	c.cregs = append(c.cregs, r)
}

// QRegs returns the circuit's quantum registers in registration order.
func (c *Circuit) QRegs() []*QReg { return c.qregs }

// CRegs returns the circuit's classical registers in registration order.
func (c *Circuit) CRegs() []*CReg { return c.cregs }

// Instructions returns the appended instructions in order.
func (c *Circuit) Instructions() []Instruction { return c.ops }

// NumQubits returns the total number of qubits across all registers.
func (c *Circuit) NumQubits() int {
	n := 0
	for _, r := range c.qregs {
		n += r.Size
	}
	return n
}

// NumClbits returns the total number of classical bits across all registers.
func (c *Circuit) NumClbits() int {
	n := 0
	for _, r := range c.cregs {
		n += r.Size
	}
	return n
}

// QubitIndex resolves a qubit handle to its global index in the circuit's
// flattened qubit space. Returns -1 if the register is not part of the
// circuit or the index is out of range.
func (c *Circuit) QubitIndex(q Qubit) int {
	offset := 0
	for _, r := range c.qregs {
		if r == q.Reg {
			if q.Index < 0 || q.Index >= r.Size {
				return -1
			}
			return offset + q.Index
		}
		offset += r.Size
	}
	return -1
}

// ClbitIndex resolves a classical-bit handle to its global index.
// Returns -1 if the register is not part of the circuit or the index is out
// of range.
func (c *Circuit) ClbitIndex(b Clbit) int {
	offset := 0
	for _, r := range c.cregs {
		if r == b.Reg {
			if b.Index < 0 || b.Index >= r.Size {
				return -1
			}
			return offset + b.Index
		}
		offset += r.Size
	}
	return -1
}

// Apply appends a named gate acting on the given qubits.
func (c *Circuit) Apply(name string, qubits ...Qubit) {
	c.ops = append(c.ops, Instruction{Name: name, Qubits: qubits})
}

// H appends a Hadamard gate.
func (c *Circuit) H(q Qubit) { c.Apply(GateH, q) }

// X appends a Pauli-X gate.
func (c *Circuit) X(q Qubit) { c.Apply(GateX, q) }

// Z appends a Pauli-Z gate.
func (c *Circuit) Z(q Qubit) { c.Apply(GateZ, q) }

// CX appends a controlled-X gate with the given control and target.
func (c *Circuit) CX(control, target Qubit) { c.Apply(GateCX, control, target) }

// Measure appends a measurement of q into classical bit b.
func (c *Circuit) Measure(q Qubit, b Clbit) {
	c.ops = append(c.ops, Instruction{Name: OpMeasure, Qubits: []Qubit{q}, Clbits: []Clbit{b}})
}

// Reset appends a reset of q to |0>.
func (c *Circuit) Reset(q Qubit) {
	c.ops = append(c.ops, Instruction{Name: OpReset, Qubits: []Qubit{q}})
}

// Barrier appends a scheduling barrier across all qubits.
func (c *Circuit) Barrier() {
	c.ops = append(c.ops, Instruction{Name: OpBarrier})
}

// QASM serializes the circuit as OpenQASM 2.0.
func (c *Circuit) QASM() string {
	var sb strings.Builder
	sb.WriteString("OPENQASM 2.0;\n")
	sb.WriteString("include \"qelib1.inc\";\n\n")

	for _, r := range c.qregs {
		fmt.Fprintf(&sb, "qreg %s[%d];\n", r.Name, r.Size)
	}
	for _, r := range c.cregs {
		fmt.Fprintf(&sb, "creg %s[%d];\n", r.Name, r.Size)
	}
	sb.WriteString("\n")

	for _, op := range c.ops {
		switch op.Name {
		case OpMeasure:
			q, b := op.Qubits[0], op.Clbits[0]
			fmt.Fprintf(&sb, "measure %s[%d] -> %s[%d];\n", q.Reg.Name, q.Index, b.Reg.Name, b.Index)
		case OpReset:
			q := op.Qubits[0]
			fmt.Fprintf(&sb, "reset %s[%d];\n", q.Reg.Name, q.Index)
		case OpBarrier:
			sb.WriteString("barrier")
			sep := " "
			for _, r := range c.qregs {
				fmt.Fprintf(&sb, "%s%s", sep, r.Name)
				sep = ", "
			}
			sb.WriteString(";\n")
		default:
			args := make([]string, len(op.Qubits))
			for i, q := range op.Qubits {
				args[i] = fmt.Sprintf("%s[%d]", q.Reg.Name, q.Index)
			}
			fmt.Fprintf(&sb, "%s %s;\n", op.Name, strings.Join(args, ", "))
		}
	}

	return sb.String()
}
