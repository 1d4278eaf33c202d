package x86

import "fmt"

// This file holds the per-family execution helpers Interpreter.execute
// dispatches to; interpreter.go keeps only the top-level switch.

func operandWidthOf(a Addressing) int {
	return a.OperandWidth()
}

func (i *Interpreter) readOperand(a Addressing) uint16 {
	if operandWidthOf(a) == 1 {
		return uint16(i.CPU.ReadByteOperand(a))
	}
	return i.CPU.ReadWordOperand(a)
}

func (i *Interpreter) writeOperand(a Addressing, v uint16) {
	if operandWidthOf(a) == 1 {
		i.CPU.WriteByteOperand(a, uint8(v))
		return
	}
	i.CPU.WriteWordOperand(a, v)
}

// binarySides resolves the (destination, source) pair for an
// AddressToAddress or ImmediateToAddress instruction, per Direction /
// operand shape.
func (i *Interpreter) binarySides(inst Instruction) (dst Addressing, srcVal uint16, width int) {
	if inst.Form == ImmediateToAddress {
		width = operandWidthOf(inst.Addr)
		if inst.Imm.IsSigned() {
			return inst.Addr, uint16(inst.Imm.SignExtended()), width
		}
		return inst.Addr, inst.Imm.Unsigned16(), width
	}
	// AddressToAddress: Dir=ToReg means Reg is the destination, RM the
	// source; Dir=FromReg means RM is the destination, Reg the source.
	if inst.Dir == ToReg {
		width = operandWidthOf(inst.Reg)
		return inst.Reg, i.readOperand(inst.RM), width
	}
	width = operandWidthOf(inst.RM)
	return inst.RM, i.readOperand(inst.Reg), width
}

func (i *Interpreter) execMov(inst Instruction) error {
	dst, src, _ := i.binarySides(inst)
	i.writeOperand(dst, src)
	return nil
}

func (i *Interpreter) execXchg(inst Instruction) error {
	if inst.Form != AddressToAddress {
		return fmt.Errorf("%w: xchg without two operands", ErrIllegalOperand)
	}
	a, b := inst.RM, inst.Reg
	va, vb := i.readOperand(a), i.readOperand(b)
	i.writeOperand(a, vb)
	i.writeOperand(b, va)
	return nil
}

func (i *Interpreter) execLea(inst Instruction) error {
	if inst.RM.Kind == AddrRegister {
		return fmt.Errorf("%w: lea source must be memory", ErrIllegalOperand)
	}
	addr := i.CPU.EffectiveAddress(inst.RM)
	i.writeOperand(inst.Reg, uint16(addr))
	return nil
}

func (i *Interpreter) execLdsLes(m Mnemonic, inst Instruction) error {
	if inst.RM.Kind == AddrRegister {
		return fmt.Errorf("%w: %s source must be memory", ErrIllegalOperand, m)
	}
	addr := i.CPU.EffectiveAddress(inst.RM)
	offset := i.CPU.Memory().ReadWord(addr)
	segment := i.CPU.Memory().ReadWord(addr + 2)
	i.writeOperand(inst.Reg, offset)
	if m == Lds {
		i.CPU.DS = segment
	} else {
		i.CPU.ES = segment
	}
	return nil
}

func (i *Interpreter) execPush(inst Instruction) error {
	i.CPU.Push(i.readOperand(inst.Addr))
	return nil
}

func (i *Interpreter) execPop(inst Instruction) error {
	v, ok := i.CPU.Pop()
	if !ok {
		return ErrStackUnderflow
	}
	i.writeOperand(inst.Addr, v)
	return nil
}

func (i *Interpreter) execIn(inst Instruction) error {
	// No I/O port space is modelled; IN always reads zero.
	dst := inst.Addr
	if inst.Form == AddressToAddress {
		dst = inst.Reg
	}
	i.writeOperand(dst, 0)
	return nil
}

// execBinaryAlu handles ADD/ADC/SUB/SBB/AND/OR/XOR/CMP/TEST for both their
// AddressToAddress and ImmediateToAddress encodings.
func (i *Interpreter) execBinaryAlu(m Mnemonic, inst Instruction) error {
	c := i.CPU
	dst, src, width := i.binarySides(inst)
	a := i.readOperand(dst)

	switch m {
	case Add:
		r := addWithFlags(a, src, false, width)
		c.Flags = applyArithFlags(c.Flags, r, width)
		i.writeOperand(dst, r.value)
	case Adc:
		r := addWithFlags(a, src, c.Flags.Carry(), width)
		c.Flags = applyArithFlags(c.Flags, r, width)
		i.writeOperand(dst, r.value)
	case Sub:
		r := subWithFlags(a, src, false, width)
		c.Flags = applyArithFlags(c.Flags, r, width)
		i.writeOperand(dst, r.value)
	case Sbb:
		r := subWithFlags(a, src, c.Flags.Carry(), width)
		c.Flags = applyArithFlags(c.Flags, r, width)
		i.writeOperand(dst, r.value)
	case Cmp:
		r := subWithFlags(a, src, false, width)
		c.Flags = applyArithFlags(c.Flags, r, width)
	case And:
		r := truncate(uint32(a&src), width)
		c.Flags = applyLogicFlags(c.Flags, r, width)
		i.writeOperand(dst, r)
	case Or:
		r := truncate(uint32(a|src), width)
		c.Flags = applyLogicFlags(c.Flags, r, width)
		i.writeOperand(dst, r)
	case Xor:
		r := truncate(uint32(a^src), width)
		c.Flags = applyLogicFlags(c.Flags, r, width)
		i.writeOperand(dst, r)
	case Test:
		r := truncate(uint32(a&src), width)
		c.Flags = applyLogicFlags(c.Flags, r, width)
	}
	return nil
}

func (i *Interpreter) execUnary(m Mnemonic, inst Instruction) error {
	c := i.CPU
	width := operandWidthOf(inst.Addr)
	v := i.readOperand(inst.Addr)

	switch m {
	case Not:
		i.writeOperand(inst.Addr, truncate(uint32(^v), width))
	case Neg:
		r := subWithFlags(0, v, false, width)
		r.carry = v != 0 // NEG sets CF unless the operand was zero
		c.Flags = applyArithFlags(c.Flags, r, width)
		i.writeOperand(inst.Addr, r.value)
	}
	return nil
}

func (i *Interpreter) execIncDec(m Mnemonic, inst Instruction) error {
	c := i.CPU
	width := operandWidthOf(inst.Addr)
	v := i.readOperand(inst.Addr)

	var r aluResult
	if m == Inc {
		r = addWithFlags(v, 1, false, width)
	} else {
		r = subWithFlags(v, 1, false, width)
	}
	c.Flags = applyIncDecFlags(c.Flags, r, width)
	i.writeOperand(inst.Addr, r.value)
	return nil
}

func (i *Interpreter) execMulDiv(m Mnemonic, inst Instruction) error {
	c := i.CPU
	width := operandWidthOf(inst.Addr)
	v := i.readOperand(inst.Addr)

	switch m {
	case Mul:
		if width == 1 {
			product := uint16(c.ReadByte(AL)) * uint16(uint8(v))
			c.AX = product
			overflow := product&0xFF00 != 0
			c.Flags = c.Flags.WithCarry(overflow).WithOverflow(overflow)
		} else {
			product := uint32(c.AX) * uint32(v)
			c.AX = uint16(product)
			c.DX = uint16(product >> 16)
			overflow := c.DX != 0
			c.Flags = c.Flags.WithCarry(overflow).WithOverflow(overflow)
		}
		return nil
	case Imul:
		if width == 1 {
			product := int16(int8(c.ReadByte(AL))) * int16(int8(uint8(v)))
			c.AX = uint16(product)
			overflow := product != int16(int8(uint8(product)))
			c.Flags = c.Flags.WithCarry(overflow).WithOverflow(overflow)
		} else {
			product := int32(int16(c.AX)) * int32(int16(v))
			c.AX = uint16(product)
			c.DX = uint16(product >> 16)
			overflow := product != int32(int16(uint16(product)))
			c.Flags = c.Flags.WithCarry(overflow).WithOverflow(overflow)
		}
		return nil
	case Div:
		if v == 0 {
			return fmt.Errorf("%w: divide by zero", ErrIllegalOperand)
		}
		if width == 1 {
			dividend := c.AX
			q, r := dividend/uint16(uint8(v)), dividend%uint16(uint8(v))
			if q > 0xFF {
				return fmt.Errorf("%w: divide overflow", ErrIllegalOperand)
			}
			c.WriteByte(AL, uint8(q))
			c.WriteByte(AH, uint8(r))
		} else {
			dividend := uint32(c.DX)<<16 | uint32(c.AX)
			divisor := uint32(v)
			q, r := dividend/divisor, dividend%divisor
			if q > 0xFFFF {
				return fmt.Errorf("%w: divide overflow", ErrIllegalOperand)
			}
			c.AX = uint16(q)
			c.DX = uint16(r)
		}
		return nil
	default: // Idiv
		if v == 0 {
			return fmt.Errorf("%w: divide by zero", ErrIllegalOperand)
		}
		if width == 1 {
			dividend := int16(c.AX)
			divisor := int16(int8(uint8(v)))
			q, r := dividend/divisor, dividend%divisor
			if q > 127 || q < -128 {
				return fmt.Errorf("%w: divide overflow", ErrIllegalOperand)
			}
			c.WriteByte(AL, uint8(int8(q)))
			c.WriteByte(AH, uint8(int8(r)))
		} else {
			dividend := int32(c.DX)<<16 | int32(c.AX)
			divisor := int32(int16(v))
			q, r := dividend/divisor, dividend%divisor
			if q > 32767 || q < -32768 {
				return fmt.Errorf("%w: divide overflow", ErrIllegalOperand)
			}
			c.AX = uint16(int16(q))
			c.DX = uint16(int16(r))
		}
		return nil
	}
}

// execBcd handles the BCD adjustment family. Only the accumulator-affecting
// flags the corpus exercises are modelled: AF and CF for AAA/AAS, AF, CF and
// ZF/SF/PF for DAA/DAS, ZF/SF/PF for AAM/AAD's byte result.
func (i *Interpreter) execBcd(m Mnemonic) error {
	c := i.CPU
	al := c.ReadByte(AL)
	ah := c.ReadByte(AH)

	switch m {
	case Aaa:
		if al&0x0F > 9 || c.Flags.AuxCarry() {
			al += 6
			ah++
			c.Flags = c.Flags.WithAuxCarry(true).WithCarry(true)
		} else {
			c.Flags = c.Flags.WithAuxCarry(false).WithCarry(false)
		}
		al &= 0x0F
		c.WriteByte(AL, al)
		c.WriteByte(AH, ah)
	case Aas:
		if al&0x0F > 9 || c.Flags.AuxCarry() {
			al -= 6
			ah--
			c.Flags = c.Flags.WithAuxCarry(true).WithCarry(true)
		} else {
			c.Flags = c.Flags.WithAuxCarry(false).WithCarry(false)
		}
		al &= 0x0F
		c.WriteByte(AL, al)
		c.WriteByte(AH, ah)
	case Aam:
		newAH, newAL := al/10, al%10
		c.WriteByte(AH, newAH)
		c.WriteByte(AL, newAL)
		c.Flags = c.Flags.WithZero(newAL == 0).WithSign(newAL&0x80 != 0).WithParity(parityOf(uint16(newAL)))
	case Aad:
		combined := ah*10 + al
		c.WriteByte(AL, combined)
		c.WriteByte(AH, 0)
		c.Flags = c.Flags.WithZero(combined == 0).WithSign(combined&0x80 != 0).WithParity(parityOf(uint16(combined)))
	case Daa:
		carry := c.Flags.Carry()
		auxCarry := c.Flags.AuxCarry()
		if al&0x0F > 9 || auxCarry {
			al += 6
			auxCarry = true
		}
		if al > 0x9F || carry {
			al += 0x60
			carry = true
		}
		c.Flags = c.Flags.WithCarry(carry).WithAuxCarry(auxCarry).
			WithZero(al == 0).WithSign(al&0x80 != 0).WithParity(parityOf(uint16(al)))
		c.WriteByte(AL, al)
	case Das:
		carry := c.Flags.Carry()
		auxCarry := c.Flags.AuxCarry()
		if al&0x0F > 9 || auxCarry {
			al -= 6
			auxCarry = true
		}
		if al > 0x9F || carry {
			al -= 0x60
			carry = true
		}
		c.Flags = c.Flags.WithCarry(carry).WithAuxCarry(auxCarry).
			WithZero(al == 0).WithSign(al&0x80 != 0).WithParity(parityOf(uint16(al)))
		c.WriteByte(AL, al)
	}
	return nil
}

func (i *Interpreter) execShift(m Mnemonic, inst Instruction) error {
	c := i.CPU
	width := operandWidthOf(inst.Addr)
	count := shiftCount(!inst.ShiftByCL, c.ReadByte(CL))
	v := i.readOperand(inst.Addr)

	result, flags := shiftRotate(m, v, count, width, c.Flags)
	c.Flags = flags
	i.writeOperand(inst.Addr, result)
	return nil
}

func (i *Interpreter) execStringPrimitive(m Mnemonic) {
	switch m {
	case Movsb:
		execMovs(i.CPU, 1)
	case Movsw:
		execMovs(i.CPU, 2)
	case Cmpsb:
		execCmps(i.CPU, 1)
	case Cmpsw:
		execCmps(i.CPU, 2)
	case Scasb:
		execScas(i.CPU, 1)
	case Scasw:
		execScas(i.CPU, 2)
	case Lodsb:
		execLods(i.CPU, 1)
	case Lodsw:
		execLods(i.CPU, 2)
	case Stosb:
		execStos(i.CPU, 1)
	case Stosw:
		execStos(i.CPU, 2)
	}
}

func (i *Interpreter) execRepPrefix(prefix Mnemonic, inst Instruction) error {
	step := stringPrimitiveStep(inst.Sub)
	if step == nil {
		return fmt.Errorf("%w: %s wraps a non-string primitive", ErrIllegalOperand, prefix)
	}

	kind := repAlways
	switch inst.Sub {
	case Cmpsb, Cmpsw, Scasb, Scasw:
		if prefix == Rep {
			kind = repWhileZero
		} else {
			kind = repWhileNotZero
		}
	}
	runRepeated(i.CPU, kind, step)
	return nil
}

// stringPrimitiveStep resolves the width-bound step function for a string
// primitive named as a REP/REPNE sub-instruction.
func stringPrimitiveStep(sub Mnemonic) func(c *CPU) {
	switch sub {
	case Movsb:
		return func(c *CPU) { execMovs(c, 1) }
	case Movsw:
		return func(c *CPU) { execMovs(c, 2) }
	case Cmpsb:
		return func(c *CPU) { execCmps(c, 1) }
	case Cmpsw:
		return func(c *CPU) { execCmps(c, 2) }
	case Scasb:
		return func(c *CPU) { execScas(c, 1) }
	case Scasw:
		return func(c *CPU) { execScas(c, 2) }
	case Lodsb:
		return func(c *CPU) { execLods(c, 1) }
	case Lodsw:
		return func(c *CPU) { execLods(c, 2) }
	case Stosb:
		return func(c *CPU) { execStos(c, 1) }
	case Stosw:
		return func(c *CPU) { execStos(c, 2) }
	default:
		return nil
	}
}

func (i *Interpreter) execCall(inst Instruction) error {
	c := i.CPU
	if inst.Addr.Kind == AddrDirectIntersegment {
		c.Push(c.CS)
		c.Push(c.IP)
		c.CS = inst.Addr.Segment16
		c.IP = inst.Addr.Offset16
		return nil
	}
	c.Push(c.IP)
	if inst.Form == WithImmediate {
		c.IP = uint16(inst.Imm.Unsigned16())
		return nil
	}
	c.IP = i.readOperand(inst.Addr)
	return nil
}

func (i *Interpreter) execJmp(inst Instruction) error {
	c := i.CPU
	if inst.Addr.Kind == AddrDirectIntersegment {
		c.CS = inst.Addr.Segment16
		c.IP = inst.Addr.Offset16
		return nil
	}
	if inst.Form == WithImmediate {
		c.IP = uint16(inst.Imm.Unsigned16())
		return nil
	}
	c.IP = i.readOperand(inst.Addr)
	return nil
}

func (i *Interpreter) execRet(inst Instruction, far bool) error {
	c := i.CPU
	ip, ok := c.Pop()
	if !ok {
		return ErrStackUnderflow
	}
	c.IP = ip
	if far {
		cs, ok := c.Pop()
		if !ok {
			return ErrStackUnderflow
		}
		c.CS = cs
	}
	if inst.Form == WithImmediate {
		c.SP += inst.Imm.Unsigned16()
	}
	return nil
}

func (i *Interpreter) execInt(inst Instruction) error {
	c := i.CPU
	vector := inst.Imm.Unsigned16()
	if vector != 0x20 {
		return fmt.Errorf("%w: int 0x%02x has no vector table entry", ErrSystemCall, vector)
	}
	c.Push(uint16(c.Flags))
	c.Flags = c.Flags.WithInterrupt(false).WithTrap(false)
	return c.handleSyscall(i.Syscalls)
}

func (i *Interpreter) execIret() error {
	c := i.CPU
	ip, ok := c.Pop()
	if !ok {
		return ErrStackUnderflow
	}
	cs, ok := c.Pop()
	if !ok {
		return ErrStackUnderflow
	}
	flags, ok := c.Pop()
	if !ok {
		return ErrStackUnderflow
	}
	c.IP = ip
	c.CS = cs
	c.Flags = Flags(flags)
	return nil
}

// conditionHolds evaluates the closed truth table for the 16 conditional
// jumps.
func conditionHolds(m Mnemonic, f Flags) bool {
	switch m {
	case Je:
		return f.Zero()
	case Jne:
		return !f.Zero()
	case Jl:
		return f.Sign() != f.Overflow()
	case Jle:
		return f.Zero() || (f.Sign() != f.Overflow())
	case Jnl:
		return f.Sign() == f.Overflow()
	case Jnle:
		return !f.Zero() && (f.Sign() == f.Overflow())
	case Jb:
		return f.Carry()
	case Jbe:
		return f.Carry() || f.Zero()
	case Jnb:
		return !f.Carry()
	case Jnbe:
		return !f.Carry() && !f.Zero()
	case Jp:
		return f.Parity()
	case Jnp:
		return !f.Parity()
	case Jo:
		return f.Overflow()
	case Jno:
		return !f.Overflow()
	case Js:
		return f.Sign()
	case Jns:
		return !f.Sign()
	default:
		return false
	}
}
