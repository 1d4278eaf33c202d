package x86

import "fmt"

// Direction controls operand order when an AddressToAddress instruction is
// rendered: which side is the source and which is the destination.
type Direction uint8

// Directions.
const (
	// FromReg means the ModR/M reg field is the source: "<mnemonic> <r/m>, <reg>".
	FromReg Direction = iota
	// ToReg means the ModR/M reg field is the destination: "<mnemonic> <reg>, <r/m>".
	ToReg
)

// InstructionKind discriminates the Instruction union.
type InstructionKind uint8

// Instruction kinds.
const (
	Standalone InstructionKind = iota
	WithInstruction
	WithAddress
	AddressToAddress
	WithImmediate
	ImmediateToAddress
)

// Instruction is the tagged union every decoded opcode collapses into.
// Exactly one of the payload fields is meaningful, selected by Kind.
type Instruction struct {
	Kind Mnemonic
	Form InstructionKind

	// WithInstruction: Sub names the string primitive a REP/REPNE prefix
	// wraps (Movsb, Cmpsw, ...).
	Sub Mnemonic

	// WithAddress, ImmediateToAddress: the sole memory/register operand.
	Addr Addressing
	Dir  Direction

	// AddressToAddress: RM is the ModR/M r/m-side operand, Reg is the
	// ModR/M reg-side operand. Dir controls which prints first.
	RM  Addressing
	Reg Addressing

	// WithImmediate, ImmediateToAddress.
	Imm Immediate

	// WithAddress shift/rotate instructions only: true when the count is
	// the runtime value of CL, false when it is fixed at 1.
	ShiftByCL bool
}

// NewStandalone builds a zero-operand instruction (CLD, RET, MOVSB, ...).
func NewStandalone(m Mnemonic) Instruction {
	return Instruction{Kind: m, Form: Standalone}
}

// NewWithInstruction builds a REP/REPNE-style prefix binding a string
// primitive.
func NewWithInstruction(prefix, sub Mnemonic) Instruction {
	return Instruction{Kind: prefix, Form: WithInstruction, Sub: sub}
}

// NewWithAddress builds a single-operand instruction (PUSH r/m, INC,
// indirect JMP).
func NewWithAddress(m Mnemonic, a Addressing) Instruction {
	return Instruction{Kind: m, Form: WithAddress, Addr: a}
}

// NewShift builds a shift/rotate instruction, recording whether its count
// comes from CL at runtime or is fixed at 1.
func NewShift(m Mnemonic, a Addressing, byCL bool) Instruction {
	return Instruction{Kind: m, Form: WithAddress, Addr: a, ShiftByCL: byCL}
}

// NewAddressToAddress builds a two-operand binary op. rm is the ModR/M
// r/m-side operand, reg is the ModR/M reg-side operand; dir controls which
// one prints first.
func NewAddressToAddress(m Mnemonic, dir Direction, rm, reg Addressing) Instruction {
	return Instruction{Kind: m, Form: AddressToAddress, Dir: dir, RM: rm, Reg: reg}
}

// NewWithImmediate builds a single-immediate-operand instruction (near
// CALL/JMP targets, INT n).
func NewWithImmediate(m Mnemonic, imm Immediate) Instruction {
	return Instruction{Kind: m, Form: WithImmediate, Imm: imm}
}

// NewImmediateToAddress builds a binary op with an immediate right-hand
// side.
func NewImmediateToAddress(m Mnemonic, a Addressing, imm Immediate) Instruction {
	return Instruction{Kind: m, Form: ImmediateToAddress, Addr: a, Imm: imm}
}

// NewUndefined builds the placeholder the decoder returns for an
// unrecognised opcode byte.
func NewUndefined() Instruction {
	return Instruction{Kind: Undefined, Form: Standalone}
}

// IsUndefined reports whether i is the decoder's unrecognised-byte marker.
func (i Instruction) IsUndefined() bool {
	return i.Kind == Undefined
}

// String renders the instruction using the rules of the pretty-printer:
// Standalone -> mnemonic alone; WithInstruction -> "<prefix> <sub>";
// WithAddress -> "<mnemonic> <operand>"; AddressToAddress honors Dir;
// WithImmediate -> "<mnemonic> <imm>"; ImmediateToAddress -> "<mnemonic>
// <target>, <imm>".
func (i Instruction) String() string {
	switch i.Form {
	case Standalone:
		return i.Kind.String()
	case WithInstruction:
		return fmt.Sprintf("%s %s", i.Kind, i.Sub)
	case WithAddress:
		return fmt.Sprintf("%s %s", i.Kind, i.Addr)
	case AddressToAddress:
		if i.Dir == ToReg {
			return fmt.Sprintf("%s %s, %s", i.Kind, i.Reg, i.RM)
		}
		return fmt.Sprintf("%s %s, %s", i.Kind, i.RM, i.Reg)
	case WithImmediate:
		return fmt.Sprintf("%s %s", i.Kind, i.Imm)
	case ImmediateToAddress:
		return fmt.Sprintf("%s %s, %s", i.Kind, i.Addr, i.Imm)
	default:
		return i.Kind.String()
	}
}
