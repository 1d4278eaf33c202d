package x86

// WordRegister identifies one of the eight 16-bit general purpose registers,
// selected by the 3-bit ModR/M register code 000-111.
type WordRegister uint8

// Word register codes, in ModR/M encoding order.
const (
	AX WordRegister = iota
	CX
	DX
	BX
	SP
	BP
	SI
	DI
)

var wordRegisterNames = [8]string{"ax", "cx", "dx", "bx", "sp", "bp", "si", "di"}

// String returns the lowercase assembly name of the register.
func (r WordRegister) String() string {
	if int(r) < len(wordRegisterNames) {
		return wordRegisterNames[r]
	}
	return "?"
}

// DecodeWordRegister maps a 3-bit ModR/M code to a WordRegister.
func DecodeWordRegister(code uint8) WordRegister {
	return WordRegister(code & 0x07)
}

// ByteRegister identifies one of the eight 8-bit registers: the low and high
// halves of AX, CX, DX, BX, selected by the 3-bit ModR/M register code.
// Codes 000-011 name the low halves, 100-111 the high halves.
type ByteRegister uint8

// Byte register codes, in ModR/M encoding order.
const (
	AL ByteRegister = iota
	CL
	DL
	BL
	AH
	CH
	DH
	BH
)

var byteRegisterNames = [8]string{"al", "cl", "dl", "bl", "ah", "ch", "dh", "bh"}

// String returns the lowercase assembly name of the register.
func (r ByteRegister) String() string {
	if int(r) < len(byteRegisterNames) {
		return byteRegisterNames[r]
	}
	return "?"
}

// DecodeByteRegister maps a 3-bit ModR/M code to a ByteRegister.
func DecodeByteRegister(code uint8) ByteRegister {
	return ByteRegister(code & 0x07)
}

// WordRegister returns the word register whose low half is this byte
// register's low half (AL/AH -> AX, and so on).
func (r ByteRegister) WordRegister() WordRegister {
	return WordRegister(r & 0x03)
}

// IsHigh reports whether r names a high half (AH/CH/DH/BH).
func (r ByteRegister) IsHigh() bool {
	return r >= AH
}

// SegmentRegister identifies one of the four segment registers, selected by
// a 2-bit ModR/M code.
type SegmentRegister uint8

// Segment register codes, in ModR/M encoding order.
const (
	ES SegmentRegister = iota
	CS
	SS
	DS
)

var segmentRegisterNames = [4]string{"es", "cs", "ss", "ds"}

// String returns the lowercase assembly name of the register.
func (r SegmentRegister) String() string {
	if int(r) < len(segmentRegisterNames) {
		return segmentRegisterNames[r]
	}
	return "?"
}

// DecodeSegmentRegister maps a 2-bit ModR/M code to a SegmentRegister.
func DecodeSegmentRegister(code uint8) SegmentRegister {
	return SegmentRegister(code & 0x03)
}

// Register is a tagged union over the three disjoint register classes. Only
// one of the three fields is meaningful; which one is determined by Kind.
type Register struct {
	Kind RegisterKind
	Word WordRegister
	Byte ByteRegister
	Seg  SegmentRegister
}

// RegisterKind discriminates the Register union.
type RegisterKind uint8

// Register kinds.
const (
	WordKind RegisterKind = iota
	ByteKind
	SegmentKind
)

// NewWordRegister wraps a WordRegister as a Register.
func NewWordRegister(r WordRegister) Register { return Register{Kind: WordKind, Word: r} }

// NewByteRegister wraps a ByteRegister as a Register.
func NewByteRegister(r ByteRegister) Register { return Register{Kind: ByteKind, Byte: r} }

// NewSegmentRegister wraps a SegmentRegister as a Register.
func NewSegmentRegister(r SegmentRegister) Register { return Register{Kind: SegmentKind, Seg: r} }

// String renders the register the way a disassembler would.
func (r Register) String() string {
	switch r.Kind {
	case ByteKind:
		return r.Byte.String()
	case SegmentKind:
		return r.Seg.String()
	default:
		return r.Word.String()
	}
}

// Size returns the register's width in bytes (1 for byte registers, 2 for
// word and segment registers).
func (r Register) Size() int {
	if r.Kind == ByteKind {
		return 1
	}
	return 2
}
