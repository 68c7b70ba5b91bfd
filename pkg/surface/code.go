package surface

import (
	"fmt"

	"github.com/hetenyib/qiskit-qec/pkg/circuit"
	qecerrors "github.com/hetenyib/qiskit-qec/pkg/errors"
)

// Logical-state labels for the two encoded basis states.
const (
	Logical0 = "0"
	Logical1 = "1"
)

// Logicals lists the two logical-state labels in canonical order.
var Logicals = []string{Logical0, Logical1}

// Config is the construction-time configuration of a surface-code circuit
// pair.
type Config struct {
	// Distance is the code distance d; the code uses d^2 physical qubits.
	Distance int `json:"distance" toml:"distance" bson:"distance"`

	// Rounds is the number T of ancilla-assisted syndrome-measurement
	// rounds. With Rounds = 0 no measurements are emitted at all.
	Rounds int `json:"rounds" toml:"rounds" bson:"rounds"`

	// Basis selects the logical preparation basis.
	Basis Basis `json:"basis" toml:"basis" bson:"basis"`

	// Resets controls whether ancillas are reset after mid-circuit
	// measurements. Disabling resets changes the differencing windows the
	// decoder applies.
	Resets bool `json:"resets" toml:"resets" bson:"resets"`
}

// Validate checks the configuration, failing fast before any circuit is
// built.
func (c Config) Validate() error {
	if err := qecerrors.ValidateDistance(c.Distance); err != nil {
		return err
	}
	if err := qecerrors.ValidateRounds(c.Rounds); err != nil {
		return err
	}
	if c.Basis != BasisZ && c.Basis != BasisX {
		return qecerrors.New(qecerrors.ErrCodeInvalidBasis, "unknown basis %d", int(c.Basis))
	}
	return nil
}

// Code emits the encoding circuits of a distance-d rotated surface code
// over T syndrome-measurement rounds. Both logical variants "0" and "1" are
// built side by side from the same registers, so a single construction pass
// yields both reference circuits.
//
// Code is append-only state: each syndrome round allocates one fresh
// classical register pair (X ancillas, Z ancillas) that remains registered
// for the lifetime of the Code. It is not safe for concurrent use.
type Code struct {
	cfg     Config
	lattice *Lattice

	// T counts emitted syndrome rounds.
	T int

	codeQubits *circuit.QReg
	zAncillas  *circuit.QReg
	xAncillas  *circuit.QReg

	codeBits   *circuit.CReg
	zRoundBits []*circuit.CReg
	xRoundBits []*circuit.CReg

	circuits map[string]*circuit.Circuit

	readoutDone bool
}

// New builds the circuit pair for the given configuration: preparation,
// Rounds-1 plain syndrome rounds, one final round, and the final transversal
// readout. With Rounds = 0 only the preparation is emitted.
func New(cfg Config) (*Code, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	lattice, err := NewLattice(cfg.Distance)
	if err != nil {
		return nil, err
	}

	d := cfg.Distance
	c := &Code{
		cfg:        cfg,
		lattice:    lattice,
		codeQubits: circuit.NewQReg("code_qubit", d*d),
		zAncillas:  circuit.NewQReg("zplaq_qubit", lattice.NumStabilizers(BasisZ)),
		xAncillas:  circuit.NewQReg("xplaq_qubit", lattice.NumStabilizers(BasisX)),
		codeBits:   circuit.NewCReg("code_bit", d*d),
		circuits:   make(map[string]*circuit.Circuit, 2),
	}

	for _, logical := range Logicals {
		c.circuits[logical] = circuit.New(logical, c.codeQubits, c.zAncillas, c.xAncillas)
	}

	c.prepare()

	for i := 0; i < cfg.Rounds-1; i++ {
		c.SyndromeRound(false)
	}
	if cfg.Rounds != 0 {
		c.SyndromeRound(true)
		if err := c.Readout(); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// Config returns the construction configuration.
func (c *Code) Config() Config { return c.cfg }

// Lattice returns the plaquette layout the code was built on.
func (c *Code) Lattice() *Lattice { return c.lattice }

// Rounds returns the number of syndrome rounds emitted so far.
func (c *Code) Rounds() int { return c.T }

// Circuit returns the circuit encoding the given logical state ("0" or
// "1"), or nil for any other label.
func (c *Code) Circuit(logical string) *circuit.Circuit {
	return c.circuits[logical]
}

// Circuits returns both circuits in logical-label order ("0", "1").
func (c *Code) Circuits() []*circuit.Circuit {
	out := make([]*circuit.Circuit, len(Logicals))
	for i, logical := range Logicals {
		out[i] = c.circuits[logical]
	}
	return out
}

// Decoder returns a decoder for shot strings produced by this code's
// circuits.
func (c *Code) Decoder() *Decoder {
	return NewDecoder(c.lattice, c.cfg.Basis, c.cfg.Resets, c.T)
}

// prepare applies the initial transversal rotation and the logical flip
// that distinguishes the "1" variant from the bare stabilizer ground state.
func (c *Code) prepare() {
	if c.cfg.Basis == BasisZ {
		c.ApplyLogicalX(Logical1)
		return
	}
	for _, logical := range Logicals {
		cc := c.circuits[logical]
		for i := 0; i < c.codeQubits.Size; i++ {
			cc.H(c.codeQubits.Qubit(i))
		}
	}
	c.ApplyLogicalZ(Logical1)
}

// ApplyLogicalX applies a logical X (left-column Pauli-X chain) to the
// circuits of the given logical variants. With no arguments both variants
// are flipped.
func (c *Code) ApplyLogicalX(logicals ...string) {
	if len(logicals) == 0 {
		logicals = Logicals
	}
	d := c.cfg.Distance
	for _, logical := range logicals {
		cc := c.circuits[logical]
		for j := 0; j < d; j++ {
			cc.X(c.codeQubits.Qubit(j * d))
		}
	}
}

// ApplyLogicalZ applies a logical Z (top-row Pauli-Z chain) to the circuits
// of the given logical variants. With no arguments both variants are
// flipped.
func (c *Code) ApplyLogicalZ(logicals ...string) {
	if len(logicals) == 0 {
		logicals = Logicals
	}
	d := c.cfg.Distance
	for _, logical := range logicals {
		cc := c.circuits[logical]
		for j := 0; j < d; j++ {
			cc.Z(c.codeQubits.Qubit(j))
		}
	}
}

// SyndromeRound emits one ancilla-assisted syndrome-measurement round into
// both circuits and increments the round counter. A final round skips the
// ancilla resets regardless of the reset policy, since the ancillas are not
// used again.
//
// The entangling-gate schedule follows the plaquette slot order: for each
// of the four slots, every Z-plaquette couples code qubit to ancilla, then
// every X-plaquette couples ancilla to code qubit.
func (c *Code) SyndromeRound(final bool) {
	zplaqs := c.lattice.Plaquettes(BasisZ)
	xplaqs := c.lattice.Plaquettes(BasisX)

	zbits := circuit.NewCReg(fmt.Sprintf("round_%d_zplaq_bit", c.T), len(zplaqs))
	xbits := circuit.NewCReg(fmt.Sprintf("round_%d_xplaq_bit", c.T), len(xplaqs))
	c.zRoundBits = append(c.zRoundBits, zbits)
	c.xRoundBits = append(c.xRoundBits, xbits)

	for _, logical := range Logicals {
		cc := c.circuits[logical]

		cc.AddCReg(zbits)
		cc.AddCReg(xbits)

		for i := 0; i < c.xAncillas.Size; i++ {
			cc.H(c.xAncillas.Qubit(i))
		}

		for slot := 0; slot < 4; slot++ {
			for p, plaq := range zplaqs {
				if q := plaq[slot]; q != NoQubit {
					cc.CX(c.codeQubits.Qubit(int(q)), c.zAncillas.Qubit(p))
				}
			}
			for p, plaq := range xplaqs {
				if q := plaq[slot]; q != NoQubit {
					cc.CX(c.xAncillas.Qubit(p), c.codeQubits.Qubit(int(q)))
				}
			}
		}

		for i := 0; i < c.xAncillas.Size; i++ {
			cc.H(c.xAncillas.Qubit(i))
		}

		for i := 0; i < c.xAncillas.Size; i++ {
			cc.Measure(c.xAncillas.Qubit(i), xbits.Clbit(i))
		}
		for i := 0; i < c.zAncillas.Size; i++ {
			cc.Measure(c.zAncillas.Qubit(i), zbits.Clbit(i))
		}

		if c.cfg.Resets && !final {
			for i := 0; i < c.xAncillas.Size; i++ {
				cc.Reset(c.xAncillas.Qubit(i))
			}
			for i := 0; i < c.zAncillas.Size; i++ {
				cc.Reset(c.zAncillas.Qubit(i))
			}
		}
	}

	c.T++
}

// Readout measures all code qubits transversally, which is both the logical
// measurement and a final inferred syndrome round. It may be called at most
// once, after all syndrome rounds.
func (c *Code) Readout() error {
	if c.readoutDone {
		return qecerrors.New(qecerrors.ErrCodeUnsupported, "readout already emitted")
	}
	c.readoutDone = true

	for _, logical := range Logicals {
		cc := c.circuits[logical]
		if c.cfg.Basis == BasisX {
			for i := 0; i < c.codeQubits.Size; i++ {
				cc.H(c.codeQubits.Qubit(i))
			}
		}
		cc.AddCReg(c.codeBits)
		for i := 0; i < c.codeQubits.Size; i++ {
			cc.Measure(c.codeQubits.Qubit(i), c.codeBits.Clbit(i))
		}
	}
	return nil
}
