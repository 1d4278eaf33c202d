package x86

import "fmt"

// maxInstructionWindow bounds how many bytes Interpreter.Step reads ahead of
// IP before handing them to Decode. No 8086 instruction this decoder
// recognises exceeds 6 bytes; the extra margin costs nothing since reads
// past the real instruction are simply never consumed.
const maxInstructionWindow = 8

// Interpreter drives a CPU through the fetch-decode-execute-trace loop.
// Syscalls, when non-nil, receives MINIX write() output; every executed
// instruction is handed to Syscalls' sibling, the caller-supplied Trace
// hook, if set.
type Interpreter struct {
	CPU      *CPU
	Syscalls SyscallWriter
	Trace    func(TraceEvent)
}

// NewInterpreter wraps a CPU for execution.
func NewInterpreter(cpu *CPU) *Interpreter {
	return &Interpreter{CPU: cpu}
}

// fetchWindow copies up to maxInstructionWindow bytes starting at CS:IP out
// of memory, for Decode to consume. Reading past the end of a loaded image
// returns zero bytes, which at worst decodes to an early Undefined.
func (c *CPU) fetchWindow() []byte {
	b := make([]byte, maxInstructionWindow)
	for i := range b {
		b[i] = c.memory.ReadByte(PhysicalAddress(c.CS, c.IP+uint16(i)))
	}
	return b
}

// Step executes exactly one instruction: fetch, decode, execute, trace. It
// returns the trace event produced, or an error for any of the class 2-5
// fatal conditions in the error handling design (undefined opcode, illegal
// operand, stack underflow, unimplemented system call) or an *ExitError when
// the program calls MINIX exit(). Callers loop on Step until it returns a
// non-nil error or i.CPU.Halted().
func (i *Interpreter) Step() (TraceEvent, error) {
	c := i.CPU
	oldIP := c.IP
	window := c.fetchWindow()
	length, inst := Decode(oldIP, window)
	raw := window[:length]
	c.IP = oldIP + uint16(length)

	if inst.IsUndefined() {
		return TraceEvent{}, fmt.Errorf("%w at %04x", ErrUndefinedOpcode, oldIP)
	}

	if err := i.execute(inst); err != nil {
		return TraceEvent{}, err
	}

	event := TraceEvent{IP: oldIP, Raw: raw, Text: inst.String(), Post: snapshotOf(c)}
	if i.Trace != nil {
		i.Trace(event)
	}
	return event, nil
}

// Run steps the interpreter until it halts or faults. err is nil only when
// the program reaches HLT; a MINIX exit() surfaces as *ExitError, any other
// fault as the sentinel errors from errors.go.
func (i *Interpreter) Run() error {
	for !i.CPU.Halted() {
		if _, err := i.Step(); err != nil {
			return err
		}
	}
	return nil
}

// normalizeMnemonic collapses a byte-flavour rendering twin (MovByte,
// CmpByte, TestByte) back to the mnemonic that selects its execution
// semantics; the twins exist only to disambiguate printed operand width.
func normalizeMnemonic(m Mnemonic) Mnemonic {
	switch m {
	case MovByte:
		return Mov
	case CmpByte:
		return Cmp
	case TestByte:
		return Test
	default:
		return m
	}
}

func (i *Interpreter) execute(inst Instruction) error {
	c := i.CPU
	kind := normalizeMnemonic(inst.Kind)

	switch kind {
	case Nop, Wait, Lock, Esc:
		return nil

	case Hlt:
		c.Halt()
		return nil

	case Mov:
		return i.execMov(inst)
	case Xchg:
		return i.execXchg(inst)
	case Lea:
		return i.execLea(inst)
	case Lds, Les:
		return i.execLdsLes(kind, inst)
	case Push:
		return i.execPush(inst)
	case Pop:
		return i.execPop(inst)
	case Pushf:
		c.Push(uint16(c.Flags))
		return nil
	case Popf:
		v, ok := c.Pop()
		if !ok {
			return ErrStackUnderflow
		}
		c.Flags = Flags(v)
		return nil
	case Lahf:
		c.WriteByte(AH, uint8(c.Flags))
		return nil
	case Sahf:
		al := c.ReadByte(AH)
		c.Flags = Flags(uint16(c.Flags)&0xFF00 | uint16(al))
		return nil
	case Xlat:
		addr := PhysicalAddress(c.DS, c.BX+uint16(c.ReadByte(AL)))
		c.WriteByte(AL, c.memory.ReadByte(addr))
		return nil
	case In:
		return i.execIn(inst)
	case Out:
		return nil // no I/O port space is modelled; OUT is accepted and discarded

	case Add, Adc, Sub, Sbb, Cmp, And, Or, Xor, Test:
		return i.execBinaryAlu(kind, inst)
	case Not:
		return i.execUnary(kind, inst)
	case Neg:
		return i.execUnary(kind, inst)
	case Inc, Dec:
		return i.execIncDec(kind, inst)
	case Mul, Imul, Div, Idiv:
		return i.execMulDiv(kind, inst)
	case Cbw:
		al := c.ReadByte(AL)
		if al&0x80 != 0 {
			c.AX = 0xFF00 | uint16(al)
		} else {
			c.AX = uint16(al)
		}
		return nil
	case Cwd:
		if c.AX&0x8000 != 0 {
			c.DX = 0xFFFF
		} else {
			c.DX = 0
		}
		return nil
	case Aaa, Aas, Aam, Aad, Daa, Das:
		return i.execBcd(kind)

	case Shl, Shr, Sar, Rol, Ror, Rcl, Rcr:
		return i.execShift(kind, inst)

	case Movsb, Movsw, Cmpsb, Cmpsw, Scasb, Scasw, Lodsb, Lodsw, Stosb, Stosw:
		i.execStringPrimitive(kind)
		return nil
	case Rep, Repne:
		return i.execRepPrefix(kind, inst)

	case Call:
		return i.execCall(inst)
	case Jmp:
		return i.execJmp(inst)
	case JmpShort:
		c.IP = uint16(inst.Imm.Unsigned16())
		return nil
	case Ret:
		return i.execRet(inst, false)
	case Retf:
		return i.execRet(inst, true)

	case Je, Jne, Jl, Jle, Jnl, Jnle, Jb, Jbe, Jnb, Jnbe, Jp, Jnp, Jo, Jno, Js, Jns:
		if conditionHolds(kind, c.Flags) {
			c.IP = uint16(inst.Imm.Unsigned16())
		}
		return nil
	case Loop, Loopz, Loopnz:
		c.CX--
		take := c.CX != 0
		if kind == Loopz {
			take = take && c.Flags.Zero()
		} else if kind == Loopnz {
			take = take && !c.Flags.Zero()
		}
		if take {
			c.IP = uint16(inst.Imm.Unsigned16())
		}
		return nil
	case Jcxz:
		if c.CX == 0 {
			c.IP = uint16(inst.Imm.Unsigned16())
		}
		return nil

	case Int:
		return i.execInt(inst)
	case Into:
		// No vector table is modelled and the overflow trap carries no
		// defined ordinal in the syscall bridge, so INTO is a no-op here
		// regardless of OF.
		return nil
	case Iret:
		return i.execIret()

	case Clc:
		c.Flags = c.Flags.WithCarry(false)
		return nil
	case Stc:
		c.Flags = c.Flags.WithCarry(true)
		return nil
	case Cmc:
		c.Flags = c.Flags.WithCarry(!c.Flags.Carry())
		return nil
	case Cld:
		c.Flags = c.Flags.WithDirection(false)
		return nil
	case Std:
		c.Flags = c.Flags.WithDirection(true)
		return nil
	case Cli:
		c.Flags = c.Flags.WithInterrupt(false)
		return nil
	case Sti:
		c.Flags = c.Flags.WithInterrupt(true)
		return nil

	default:
		return fmt.Errorf("%w: %s", ErrUndefinedOpcode, kind)
	}
}
