package surface

import (
	"encoding/json"

	qecerrors "github.com/hetenyib/qiskit-qec/pkg/errors"
)

// Basis identifies one of the two stabilizer bases of a CSS code.
// The preparation basis selects which logical operator the final transversal
// readout measures, and which plaquette collection detects errors.
type Basis int

const (
	// BasisZ prepares computational-basis logical states; Z-plaquettes
	// carry the detecting syndrome.
	BasisZ Basis = iota
	// BasisX prepares conjugate-basis logical states; X-plaquettes carry
	// the detecting syndrome.
	BasisX
)

// ParseBasis converts the textual basis name ("z" or "x") into a Basis.
func ParseBasis(name string) (Basis, error) {
	switch name {
	case "z":
		return BasisZ, nil
	case "x":
		return BasisX, nil
	default:
		return BasisZ, qecerrors.New(qecerrors.ErrCodeInvalidBasis, "basis must be %q or %q, got %q", "x", "z", name)
	}
}

// String returns the lowercase basis name.
func (b Basis) String() string {
	if b == BasisX {
		return "x"
	}
	return "z"
}

// Opposite returns the other basis.
func (b Basis) Opposite() Basis {
	if b == BasisX {
		return BasisZ
	}
	return BasisX
}

// MarshalJSON encodes the basis as its textual name.
func (b Basis) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.String())
}

// UnmarshalJSON decodes a textual basis name.
func (b *Basis) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	parsed, err := ParseBasis(name)
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}

// MarshalText encodes the basis name for TOML and similar formats.
func (b Basis) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// UnmarshalText decodes a textual basis name.
func (b *Basis) UnmarshalText(text []byte) error {
	parsed, err := ParseBasis(string(text))
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}
