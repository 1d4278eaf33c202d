package x86

import "fmt"

// AddressingKind discriminates the Addressing union.
type AddressingKind uint8

// Addressing kinds.
const (
	AddrRegister AddressingKind = iota
	AddrDirect
	AddrDirectIntersegment
	AddrBased
	AddrIndexed
	AddrBasedIndexed
)

// Addressing is the tagged union of 8086 operand locations: a register, a
// direct memory address, an intersegment far pointer, or one of the three
// register-relative memory forms the ModR/M byte can express.
type Addressing struct {
	Kind AddressingKind

	Reg Register // AddrRegister

	Direct16 uint16 // AddrDirect: [disp16]

	Offset16  uint16 // AddrDirectIntersegment
	Segment16 uint16

	Base  WordRegister // AddrBased, AddrBasedIndexed: BX or BP
	Index WordRegister // AddrIndexed, AddrBasedIndexed: SI or DI
	Disp  Displacement

	// Width is the operand size in bytes (1 or 2) for memory-kind
	// addressing; it comes from the instruction's w bit since a memory
	// operand, unlike a register, carries no size of its own. Ignored for
	// AddrRegister, whose width is Reg.Size().
	Width int
}

// OperandWidth returns the operand's size in bytes: the register's own
// size for AddrRegister, otherwise the width the decoder recorded from the
// instruction's w bit.
func (a Addressing) OperandWidth() int {
	if a.Kind == AddrRegister {
		return a.Reg.Size()
	}
	if a.Width == 0 {
		return 2
	}
	return a.Width
}

// NewRegisterAddressing wraps a Register as an operand that IS a register.
func NewRegisterAddressing(r Register) Addressing {
	return Addressing{Kind: AddrRegister, Reg: r}
}

// NewDirectAddressing builds the `[disp16]` addressing mode.
func NewDirectAddressing(addr uint16) Addressing {
	return Addressing{Kind: AddrDirect, Direct16: addr}
}

// NewDirectIntersegmentAddressing builds a literal seg:off pair, as used by
// far CALL/JMP.
func NewDirectIntersegmentAddressing(offset, segment uint16) Addressing {
	return Addressing{Kind: AddrDirectIntersegment, Offset16: offset, Segment16: segment}
}

// NewBasedAddressing builds `[base{+disp}]` with base ∈ {BX, BP}.
func NewBasedAddressing(base WordRegister, disp Displacement) Addressing {
	return Addressing{Kind: AddrBased, Base: base, Disp: disp}
}

// NewIndexedAddressing builds `[index{+disp}]` with index ∈ {SI, DI}.
func NewIndexedAddressing(index WordRegister, disp Displacement) Addressing {
	return Addressing{Kind: AddrIndexed, Index: index, Disp: disp}
}

// NewBasedIndexedAddressing builds `[base+index{+disp}]`.
func NewBasedIndexedAddressing(base, index WordRegister, disp Displacement) Addressing {
	return Addressing{Kind: AddrBasedIndexed, Base: base, Index: index, Disp: disp}
}

// String renders the operand the way a disassembler would.
func (a Addressing) String() string {
	switch a.Kind {
	case AddrRegister:
		return a.Reg.String()
	case AddrDirect:
		return fmt.Sprintf("[%04x]", a.Direct16)
	case AddrDirectIntersegment:
		return fmt.Sprintf("%04x:%04x", a.Offset16, a.Segment16)
	case AddrBased:
		return fmt.Sprintf("[%s%s]", a.Base, a.Disp)
	case AddrIndexed:
		return fmt.Sprintf("[%s%s]", a.Index, a.Disp)
	case AddrBasedIndexed:
		return fmt.Sprintf("[%s+%s%s]", a.Base, a.Index, a.Disp)
	default:
		return "?"
	}
}

// ModRM is the decoded `mod:2 | reg:3 | rm:3` byte found after many 8086
// opcodes.
type ModRM struct {
	Mod uint8
	Reg uint8
	RM  uint8
}

// DecodeModRMByte splits a raw ModR/M byte into its three fields.
func DecodeModRMByte(b uint8) ModRM {
	return ModRM{
		Mod: (b >> 6) & 0x03,
		Reg: (b >> 3) & 0x07,
		RM:  b & 0x07,
	}
}

// ModRMMask selects which of the ModR/M byte's sub-fields participate in a
// given instruction's decode, per the three shapes the 8086 encoding uses.
type ModRMMask uint8

const (
	// MaskGeneralRegRM: reg side is a general register sized by w, r/m
	// side is a full effective address. Used by most two-operand ops.
	MaskGeneralRegRM ModRMMask = iota

	// MaskSegmentRegRM: reg side is a segment register, r/m side is a
	// full effective address. Used by MOV sreg<->r/m.
	MaskSegmentRegRM

	// MaskRMOnly: reg side is unused (its bits instead select among a
	// family of single-operand mnemonics), r/m side is a full effective
	// address. Used by PUSH, POP, NEG, and the unary/shift/group opcodes.
	MaskRMOnly
)

// ModRMOperands is the result of decoding a ModR/M byte and any
// displacement bytes that follow it: a reg-side operand (absent when the
// mask doesn't supply one) and an r/m-side operand, plus how many
// displacement bytes were consumed after the ModR/M byte itself.
type ModRMOperands struct {
	RegSide    Addressing
	HasRegSide bool
	RMSide     Addressing
	ExtraBytes int
}

// DecodeModRM decodes the reg and r/m sides of a ModR/M byte. rest is the
// byte stream immediately following the ModR/M byte itself (candidate
// displacement bytes). ok is false when rest is too short for the
// displacement the mod/rm combination requires; callers treat that as a
// truncated instruction.
func DecodeModRM(w uint8, modrm uint8, mask ModRMMask, rest []byte) (ModRMOperands, bool) {
	fields := DecodeModRMByte(modrm)

	rmSide, extra, ok := decodeEffectiveAddress(fields.Mod, fields.RM, w, rest)
	if !ok {
		return ModRMOperands{}, false
	}

	result := ModRMOperands{RMSide: rmSide, ExtraBytes: extra}
	switch mask {
	case MaskGeneralRegRM:
		result.RegSide = generalRegisterAddressing(fields.Reg, w)
		result.HasRegSide = true
	case MaskSegmentRegRM:
		result.RegSide = NewRegisterAddressing(NewSegmentRegister(DecodeSegmentRegister(fields.Reg)))
		result.HasRegSide = true
	case MaskRMOnly:
		result.HasRegSide = false
	}
	return result, true
}

func generalRegisterAddressing(code uint8, w uint8) Addressing {
	if w == 1 {
		return NewRegisterAddressing(NewWordRegister(DecodeWordRegister(code)))
	}
	return NewRegisterAddressing(NewByteRegister(DecodeByteRegister(code)))
}

// decodeEffectiveAddress implements §4.1's mod/rm effective-address table,
// including the mod==00,rm==110 direct-address exception.
func decodeEffectiveAddress(mod, rm, w uint8, rest []byte) (Addressing, int, bool) {
	if mod == 0x03 {
		return generalRegisterAddressing(rm, w), 0, true
	}

	if mod == 0x00 && rm == 0x06 {
		if len(rest) < 2 {
			return Addressing{}, 0, false
		}
		addr := uint16(rest[0]) | uint16(rest[1])<<8
		a := NewDirectAddressing(addr)
		a.Width = operandWidth(w)
		return a, 2, true
	}

	var dispLen int
	switch mod {
	case 0x00:
		dispLen = 0
	case 0x01:
		dispLen = 1
	case 0x02:
		dispLen = 2
	}
	if len(rest) < dispLen {
		return Addressing{}, 0, false
	}

	disp := Zero
	switch dispLen {
	case 1:
		disp = NewByteDisplacement(int8(rest[0]))
	case 2:
		disp = NewWordDisplacement(int16(uint16(rest[0]) | uint16(rest[1])<<8))
	}

	width := operandWidth(w)
	var a Addressing
	switch rm {
	case 0x00:
		a = NewBasedIndexedAddressing(BX, SI, disp)
	case 0x01:
		a = NewBasedIndexedAddressing(BX, DI, disp)
	case 0x02:
		a = NewBasedIndexedAddressing(BP, SI, disp)
	case 0x03:
		a = NewBasedIndexedAddressing(BP, DI, disp)
	case 0x04:
		a = NewIndexedAddressing(SI, disp)
	case 0x05:
		a = NewIndexedAddressing(DI, disp)
	case 0x06:
		a = NewBasedAddressing(BP, disp)
	default: // 0x07
		a = NewBasedAddressing(BX, disp)
	}
	a.Width = width
	return a, dispLen, true
}

func operandWidth(w uint8) int {
	if w == 1 {
		return 2
	}
	return 1
}
