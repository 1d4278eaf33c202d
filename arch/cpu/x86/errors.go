package x86

import "errors"

// Sentinel errors for the fatal conditions the interpreter can encounter.
// Decode itself never returns an error: an unrecognised byte becomes an
// Undefined instruction of length 1 so disassembly can keep going.
var (
	// ErrTruncatedInput names the condition where fewer bytes remain than a
	// partially started instruction needs. Nothing in this package returns
	// it: Decode turns a truncated instruction into Undefined.
	ErrTruncatedInput = errors.New("x86: truncated instruction stream")

	// ErrUndefinedOpcode is returned by the interpreter (never the decoder)
	// when it is asked to execute an Undefined instruction.
	ErrUndefinedOpcode = errors.New("x86: undefined opcode")

	// ErrIllegalOperand covers operand combinations the hardware cannot
	// encode, such as a word immediate targeted at a byte register, and
	// the DIV/IDIV conditions (divide by zero, quotient overflow) that
	// would raise INT 0 on real hardware.
	ErrIllegalOperand = errors.New("x86: illegal operand combination")

	// ErrStackUnderflow is returned by the interpreter when a pop finds the
	// stack empty (the pop itself reports this as ok=false).
	ErrStackUnderflow = errors.New("x86: pop from empty stack")

	// ErrSystemCall is returned when an INT 0x20 ordinal has no defined
	// host behavior.
	ErrSystemCall = errors.New("x86: unimplemented system call")
)
