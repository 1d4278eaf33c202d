package x86

// Mnemonic is the closed enumeration of 8086 operation names the decoder can
// produce. Some mnemonics carry a byte-flavoured twin (MovByte, CmpByte,
// TestByte) emitted only when a memory destination would otherwise leave the
// operand size ambiguous in the printed form.
type Mnemonic uint8

// Mnemonics, grouped by family.
const (
	Undefined Mnemonic = iota

	// Data movement.
	Mov
	MovByte
	Push
	Pop
	Xchg
	In
	Out
	Xlat
	Lea
	Lds
	Les
	Lahf
	Sahf
	Pushf
	Popf

	// Arithmetic.
	Add
	Adc
	Sub
	Sbb
	Cmp
	CmpByte
	Inc
	Dec
	Neg
	Aaa
	Aas
	Aam
	Aad
	Daa
	Das
	Mul
	Imul
	Div
	Idiv
	Cbw
	Cwd

	// Logical.
	Not
	And
	Or
	Xor
	Test
	TestByte

	// Shift/rotate.
	Shl
	Shr
	Sar
	Rol
	Ror
	Rcl
	Rcr

	// String.
	Rep
	Repne
	Movsb
	Movsw
	Cmpsb
	Cmpsw
	Scasb
	Scasw
	Lodsb
	Lodsw
	Stosb
	Stosw

	// Control transfer.
	Call
	Jmp
	JmpShort
	Ret
	Retf
	Je
	Jne
	Jl
	Jle
	Jnl
	Jnle
	Jb
	Jbe
	Jnb
	Jnbe
	Jp
	Jnp
	Jo
	Jno
	Js
	Jns
	Loop
	Loopz
	Loopnz
	Jcxz
	Int
	Into
	Iret

	// Flag/CPU control.
	Clc
	Cmc
	Stc
	Cld
	Std
	Cli
	Sti
	Hlt
	Wait
	Lock
	Esc

	// Nop stands in for the segment override prefixes (0x26/0x2E/0x36/0x3E):
	// no default-segment override behavior is modelled, so they decode to a
	// zero-effect, zero-operand instruction rather than Undefined.
	Nop
)

var mnemonicNames = map[Mnemonic]string{
	Undefined: "(undefined)",

	Mov: "mov", MovByte: "mov byte", Push: "push", Pop: "pop", Xchg: "xchg",
	In: "in", Out: "out", Xlat: "xlat", Lea: "lea", Lds: "lds", Les: "les",
	Lahf: "lahf", Sahf: "sahf", Pushf: "pushf", Popf: "popf",

	Add: "add", Adc: "adc", Sub: "sub", Sbb: "sbb", Cmp: "cmp", CmpByte: "cmp byte",
	Inc: "inc", Dec: "dec", Neg: "neg",
	Aaa: "aaa", Aas: "aas", Aam: "aam", Aad: "aad", Daa: "daa", Das: "das",
	Mul: "mul", Imul: "imul", Div: "div", Idiv: "idiv", Cbw: "cbw", Cwd: "cwd",

	Not: "not", And: "and", Or: "or", Xor: "xor", Test: "test", TestByte: "test byte",

	Shl: "shl", Shr: "shr", Sar: "sar", Rol: "rol", Ror: "ror", Rcl: "rcl", Rcr: "rcr",

	Rep: "rep", Repne: "repne",
	Movsb: "movsb", Movsw: "movsw", Cmpsb: "cmpsb", Cmpsw: "cmpsw",
	Scasb: "scasb", Scasw: "scasw", Lodsb: "lodsb", Lodsw: "lodsw",
	Stosb: "stosb", Stosw: "stosw",

	Call: "call", Jmp: "jmp", JmpShort: "jmp short", Ret: "ret", Retf: "retf",
	Je: "je", Jne: "jne", Jl: "jl", Jle: "jle", Jnl: "jnl", Jnle: "jnle",
	Jb: "jb", Jbe: "jbe", Jnb: "jnb", Jnbe: "jnbe",
	Jp: "jp", Jnp: "jnp", Jo: "jo", Jno: "jno", Js: "js", Jns: "jns",
	Loop: "loop", Loopz: "loopz", Loopnz: "loopnz", Jcxz: "jcxz",
	Int: "int", Into: "into", Iret: "iret",

	Clc: "clc", Cmc: "cmc", Stc: "stc", Cld: "cld", Std: "std", Cli: "cli", Sti: "sti",
	Hlt: "hlt", Wait: "wait", Lock: "lock", Esc: "esc", Nop: "nop",
}

// String returns the lowercase text a disassembler prints for m.
func (m Mnemonic) String() string {
	if name, ok := mnemonicNames[m]; ok {
		return name
	}
	return "?"
}

// conditionTable holds the 16 flag-predicate conditional jump mnemonics, for
// the benefit of code that needs to enumerate them. LOOP, LOOPZ, LOOPNZ and
// JCXZ, which test CX, are not in it.
var conditionTable = []Mnemonic{
	Je, Jne, Jl, Jle, Jnl, Jnle, Jb, Jbe, Jnb, Jnbe, Jp, Jnp, Jo, Jno, Js, Jns,
}
