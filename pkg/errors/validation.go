package errors

// MaxDistance caps the accepted code distance. The lattice construction
// itself is total over d >= 1, but d^2 code qubits plus d^2-1 ancillas
// (and per-round classical registers) are allocated up front, so larger
// distances are refused as a resource guard rather than as geometrically
// invalid.
const MaxDistance = 101

// ValidateDistance validates a surface-code lattice distance: d >= 1, up
// to the MaxDistance resource limit.
func ValidateDistance(d int) error {
	if d < 1 {
		return New(ErrCodeInvalidDistance, "distance must be >= 1, got %d", d)
	}
	if d > MaxDistance {
		return New(ErrCodeInvalidDistance, "distance %d exceeds the resource limit of %d", d, MaxDistance)
	}
	return nil
}

// ValidateRounds validates a syndrome-measurement round count.
// T = 0 is legal: no rounds and no final readout are emitted.
func ValidateRounds(rounds int) error {
	if rounds < 0 {
		return New(ErrCodeInvalidRounds, "rounds must be >= 0, got %d", rounds)
	}
	return nil
}

// ValidateBasisName validates the textual form of a preparation basis.
// Only "x" and "z" are recognized.
func ValidateBasisName(name string) error {
	if name != "x" && name != "z" {
		return New(ErrCodeInvalidBasis, "basis must be %q or %q, got %q", "x", "z", name)
	}
	return nil
}

// ValidateLogical validates a logical-value label. The two encoded states
// are labelled "0" and "1" throughout the toolkit.
func ValidateLogical(logical string) error {
	if logical != "0" && logical != "1" {
		return New(ErrCodeInvalidLogical, "logical value must be %q or %q, got %q", "0", "1", logical)
	}
	return nil
}

// ValidateShotFields performs the cheap structural checks shared by all
// decode entry points: non-empty, space-separated, binary-only fields.
// Width checks against the lattice are done by the decoder itself.
func ValidateShotFields(fields []string) error {
	if len(fields) == 0 || (len(fields) == 1 && fields[0] == "") {
		return New(ErrCodeMalformedResult, "shot string is empty")
	}
	for i, f := range fields {
		if f == "" {
			return New(ErrCodeMalformedResult, "shot field %d is empty", i)
		}
		for _, c := range f {
			if c != '0' && c != '1' {
				return New(ErrCodeMalformedResult, "shot field %d contains non-binary character %q", i, c)
			}
		}
	}
	return nil
}
