package x86

import "fmt"

// DisplacementKind discriminates the Displacement union.
type DisplacementKind uint8

// Displacement kinds.
const (
	// DisplacementZero means no displacement was encoded, or the encoded
	// value happened to be zero; both collapse to the same variant so
	// rendering never has to special-case a zero byte/word form.
	DisplacementZero DisplacementKind = iota
	DisplacementByte
	DisplacementWord
)

// Displacement is the signed constant added to a register-based effective
// address. A numerically zero byte or word displacement is normalised to
// DisplacementZero at construction time; see NewByteDisplacement and
// NewWordDisplacement.
type Displacement struct {
	Kind  DisplacementKind
	Value int16
}

// Zero is the displacement carried by ModR/M forms that encode no
// displacement byte at all.
var Zero = Displacement{Kind: DisplacementZero}

// NewByteDisplacement builds a Displacement from a decoded signed byte,
// collapsing a zero value to Zero.
func NewByteDisplacement(v int8) Displacement {
	if v == 0 {
		return Zero
	}
	return Displacement{Kind: DisplacementByte, Value: int16(v)}
}

// NewWordDisplacement builds a Displacement from a decoded signed word,
// collapsing a zero value to Zero.
func NewWordDisplacement(v int16) Displacement {
	if v == 0 {
		return Zero
	}
	return Displacement{Kind: DisplacementWord, Value: v}
}

// IsZero reports whether the displacement contributes nothing to the
// effective address.
func (d Displacement) IsZero() bool {
	return d.Kind == DisplacementZero
}

// Signed returns the displacement's value for use in effective-address
// arithmetic.
func (d Displacement) Signed() int16 {
	return d.Value
}

// String renders the displacement the way it appears inside "[reg+disp]":
// empty for Zero, otherwise a sign character followed by the unsigned
// magnitude in hex, with no leading zero padding.
func (d Displacement) String() string {
	switch d.Kind {
	case DisplacementZero:
		return ""
	default:
		if d.Value < 0 {
			return fmt.Sprintf("-%x", -int32(d.Value))
		}
		return fmt.Sprintf("+%x", d.Value)
	}
}
