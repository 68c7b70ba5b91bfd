package sim

import (
	"math/rand"
	"strings"

	"github.com/hetenyib/qiskit-qec/pkg/circuit"
	qecerrors "github.com/hetenyib/qiskit-qec/pkg/errors"
)

// Result holds the classical register values produced by one simulated
// shot.
type Result struct {
	cregs  []*circuit.CReg
	values map[*circuit.CReg][]uint8
}

// Bits returns the value of one classical register, index-aligned with the
// register's bits. Unmeasured bits are 0.
func (r *Result) Bits(reg *circuit.CReg) []uint8 {
	return r.values[reg]
}

// String formats the shot in the decoding wire format: one field per
// classical register, fields in reverse register-addition order, and bit i
// of a register printed at position size-1-i of its field.
func (r *Result) String() string {
	fields := make([]string, 0, len(r.cregs))
	for i := len(r.cregs) - 1; i >= 0; i-- {
		reg := r.cregs[i]
		bits := r.values[reg]
		field := make([]byte, reg.Size)
		for j := 0; j < reg.Size; j++ {
			field[reg.Size-1-j] = '0' + bits[j]
		}
		fields = append(fields, string(field))
	}
	return strings.Join(fields, " ")
}

// Run executes one shot of the circuit on a fresh all-zeros state, using
// rng to resolve undetermined measurement outcomes.
func Run(c *circuit.Circuit, rng *rand.Rand) (*Result, error) {
	t := NewTableau(c.NumQubits())

	res := &Result{
		cregs:  c.CRegs(),
		values: make(map[*circuit.CReg][]uint8, len(c.CRegs())),
	}
	for _, reg := range res.cregs {
		res.values[reg] = make([]uint8, reg.Size)
	}

	for _, op := range c.Instructions() {
		switch op.Name {
		case circuit.GateH:
			t.H(c.QubitIndex(op.Qubits[0]))
		case circuit.GateX:
			t.X(c.QubitIndex(op.Qubits[0]))
		case circuit.GateZ:
			t.Z(c.QubitIndex(op.Qubits[0]))
		case "s":
			t.S(c.QubitIndex(op.Qubits[0]))
		case circuit.GateCX:
			t.CX(c.QubitIndex(op.Qubits[0]), c.QubitIndex(op.Qubits[1]))
		case circuit.OpMeasure:
			outcome := t.Measure(c.QubitIndex(op.Qubits[0]), rng)
			b := op.Clbits[0]
			res.values[b.Reg][b.Index] = uint8(outcome)
		case circuit.OpReset:
			t.Reset(c.QubitIndex(op.Qubits[0]), rng)
		case circuit.OpBarrier:
			// Scheduling only; no effect on the state.
		default:
			return nil, qecerrors.New(qecerrors.ErrCodeUnsupported,
				"gate %q is not a stabilizer operation", op.Name)
		}
	}

	return res, nil
}

// Shot runs one shot with a seeded RNG and returns the wire-format string.
func Shot(c *circuit.Circuit, seed int64) (string, error) {
	res, err := Run(c, rand.New(rand.NewSource(seed)))
	if err != nil {
		return "", err
	}
	return res.String(), nil
}

// Shots runs n independent shots with a seeded RNG and returns their
// wire-format strings.
func Shots(c *circuit.Circuit, n int, seed int64) ([]string, error) {
	rng := rand.New(rand.NewSource(seed))
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		res, err := Run(c, rng)
		if err != nil {
			return nil, err
		}
		out = append(out, res.String())
	}
	return out, nil
}
