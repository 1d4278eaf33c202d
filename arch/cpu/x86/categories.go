package x86

import "github.com/retrotools/a8086/set"

// ArithmeticMnemonics names the family whose execution flows through
// addWithFlags/subWithFlags at a caller-resolved operand width.
var ArithmeticMnemonics = set.NewFromSlice([]Mnemonic{
	Add, Adc, Sub, Sbb, Cmp, CmpByte, Inc, Dec, Neg,
})

// LogicalMnemonics names the bitwise family. AND/OR/XOR/TEST clear CF/OF and
// set SF/ZF/PF from the result; NOT changes no flags.
var LogicalMnemonics = set.NewFromSlice([]Mnemonic{
	And, Or, Xor, Test, TestByte, Not,
})

// ShiftMnemonics names the shift/rotate family shiftRotate implements.
var ShiftMnemonics = set.NewFromSlice([]Mnemonic{
	Shl, Shr, Sar, Rol, Ror, Rcl, Rcr,
})

// StringMnemonics names the MOVS/CMPS/SCAS/LODS/STOS primitives that
// REP/REPNE can wrap.
var StringMnemonics = set.NewFromSlice([]Mnemonic{
	Movsb, Movsw, Cmpsb, Cmpsw, Scasb, Scasw, Lodsb, Lodsw, Stosb, Stosw,
})

// ConditionalJumpMnemonics names the 16 flag-predicate branches, for callers
// that need to recognise one without enumerating the conditionHolds switch.
var ConditionalJumpMnemonics = set.NewFromSlice(conditionTable)

// FlagControlMnemonics names the family that writes a single named flag bit
// and otherwise touches no CPU state.
var FlagControlMnemonics = set.NewFromSlice([]Mnemonic{
	Clc, Stc, Cmc, Cld, Std, Cli, Sti,
})

// ControlTransferMnemonics names every mnemonic capable of overwriting IP
// outside of straight-line execution.
var ControlTransferMnemonics = set.NewFromSlice([]Mnemonic{
	Call, Jmp, JmpShort, Ret, Retf, Loop, Loopz, Loopnz, Jcxz, Iret,
	Je, Jne, Jl, Jle, Jnl, Jnle, Jb, Jbe, Jnb, Jnbe, Jp, Jnp, Jo, Jno, Js, Jns,
})
