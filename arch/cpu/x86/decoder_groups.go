package x86

// This file holds the decoders for opcodes whose mnemonic or operand shape
// is selected by a secondary field (the ModR/M reg bits, or the low bits of
// the opcode byte itself) rather than by the primary opcode alone.

// decodeArithRegRM handles the reg/rm forms shared by ADD, OR, ADC, SBB,
// AND, SUB, XOR, CMP, XCHG and MOV: four consecutive opcodes encoding
// "000000dw" where d selects which side is the destination and w selects
// operand width.
func decodeArithRegRM(op, base uint8, m Mnemonic, c *cursor) (Instruction, bool) {
	offset := op - base
	w := offset & 0x01
	d := (offset >> 1) & 0x01

	modrmByte, ok := c.u8()
	if !ok {
		return Instruction{}, false
	}
	ops, ok := DecodeModRM(w, modrmByte, MaskGeneralRegRM, c.rest())
	if !ok {
		return Instruction{}, false
	}
	c.skip(ops.ExtraBytes)

	dir := FromReg
	if d == 1 {
		dir = ToReg
	}
	return NewAddressToAddress(m, dir, ops.RMSide, ops.RegSide), true
}

// decodeArithImmAcc handles the "<op> AL/AX, imm" forms at base+0 (byte)
// and base+1 (word).
func decodeArithImmAcc(op, base uint8, m Mnemonic, c *cursor) (Instruction, bool) {
	w := op - base
	acc := NewRegisterAddressing(NewWordRegister(AX))
	if w == 0 {
		acc = NewRegisterAddressing(NewByteRegister(AL))
		v, ok := c.u8()
		if !ok {
			return Instruction{}, false
		}
		return NewImmediateToAddress(m, acc, NewUnsignedByte(v)), true
	}
	v, ok := c.u16()
	if !ok {
		return Instruction{}, false
	}
	return NewImmediateToAddress(m, acc, NewUnsignedWord(v)), true
}

// decodeAluImmGroup handles opcodes 0x80-0x83: ADD/ADC/SUB/SBB/AND/OR/XOR
// imm->r/m, with the family selected by the ModR/M reg field.
func decodeAluImmGroup(op uint8, c *cursor) (Instruction, bool) {
	var families = [8]Mnemonic{Add, Or, Adc, Sbb, And, Sub, Xor, Cmp}

	modrmByte, ok := c.u8()
	if !ok {
		return Instruction{}, false
	}
	fields := DecodeModRMByte(modrmByte)

	w := uint8(0)
	if op == 0x81 || op == 0x83 {
		w = 1
	}

	ops, ok := DecodeModRM(w, modrmByte, MaskRMOnly, c.rest())
	if !ok {
		return Instruction{}, false
	}
	c.skip(ops.ExtraBytes)

	mnemonic := families[fields.Reg]
	if mnemonic == Cmp && w == 0 && ops.RMSide.Kind != AddrRegister {
		mnemonic = CmpByte
	}

	switch op {
	case 0x80, 0x82:
		v, ok := c.u8()
		if !ok {
			return Instruction{}, false
		}
		return NewImmediateToAddress(mnemonic, ops.RMSide, NewUnsignedByte(v)), true
	case 0x81:
		v, ok := c.u16()
		if !ok {
			return Instruction{}, false
		}
		return NewImmediateToAddress(mnemonic, ops.RMSide, NewUnsignedWord(v)), true
	default: // 0x83: sign-extend a signed byte to a word
		v, ok := c.u8()
		if !ok {
			return Instruction{}, false
		}
		return NewImmediateToAddress(mnemonic, ops.RMSide, NewSignedByte(int8(v))), true
	}
}

// decodeTestRegRM handles TEST r/m, reg (0x84/0x85).
func decodeTestRegRM(op uint8, c *cursor) (Instruction, bool) {
	return decodeArithRegRM(op, 0x84, Test, c)
}

// decodeTestAcc handles TEST AL/AX, imm (0xA8/0xA9).
func decodeTestAcc(op uint8, c *cursor) (Instruction, bool) {
	return decodeArithImmAcc(op, 0xA8, Test, c)
}

// decodeMovSegRM handles MOV sreg<->r/m (0x8C moves r/m<-sreg, 0x8E moves
// sreg<-r/m); dir records which side is the destination for rendering.
func decodeMovSegRM(c *cursor, dir Direction) (Instruction, bool) {
	modrmByte, ok := c.u8()
	if !ok {
		return Instruction{}, false
	}
	ops, ok := DecodeModRM(1, modrmByte, MaskSegmentRegRM, c.rest())
	if !ok {
		return Instruction{}, false
	}
	c.skip(ops.ExtraBytes)
	return NewAddressToAddress(Mov, dir, ops.RMSide, ops.RegSide), true
}

// decodeLea handles LEA reg, m (0x8D): the effective address of the memory
// operand is written into reg without dereferencing.
func decodeLea(c *cursor) (Instruction, bool) {
	modrmByte, ok := c.u8()
	if !ok {
		return Instruction{}, false
	}
	ops, ok := DecodeModRM(1, modrmByte, MaskGeneralRegRM, c.rest())
	if !ok {
		return Instruction{}, false
	}
	c.skip(ops.ExtraBytes)
	return NewAddressToAddress(Lea, ToReg, ops.RMSide, ops.RegSide), true
}

// decodeLdsLes handles LDS/LES reg, m16:16 (0xC5/0xC4).
func decodeLdsLes(m Mnemonic, c *cursor) (Instruction, bool) {
	modrmByte, ok := c.u8()
	if !ok {
		return Instruction{}, false
	}
	ops, ok := DecodeModRM(1, modrmByte, MaskGeneralRegRM, c.rest())
	if !ok {
		return Instruction{}, false
	}
	c.skip(ops.ExtraBytes)
	return NewAddressToAddress(m, ToReg, ops.RMSide, ops.RegSide), true
}

// decodeGroupPopRM handles POP r/m (0x8F, reg field must be 0).
func decodeGroupPopRM(c *cursor) (Instruction, bool) {
	modrmByte, ok := c.u8()
	if !ok {
		return Instruction{}, false
	}
	ops, ok := DecodeModRM(1, modrmByte, MaskRMOnly, c.rest())
	if !ok {
		return Instruction{}, false
	}
	c.skip(ops.ExtraBytes)
	return NewWithAddress(Pop, ops.RMSide), true
}

// decodeMovImmRM handles MOV imm->r/m (0xC6/0xC7, reg field must be 0).
func decodeMovImmRM(op uint8, c *cursor) (Instruction, bool) {
	w := op - 0xC6
	modrmByte, ok := c.u8()
	if !ok {
		return Instruction{}, false
	}
	ops, ok := DecodeModRM(w, modrmByte, MaskRMOnly, c.rest())
	if !ok {
		return Instruction{}, false
	}
	c.skip(ops.ExtraBytes)

	mnemonic := Mov
	if w == 0 && ops.RMSide.Kind != AddrRegister {
		mnemonic = MovByte
	}

	if w == 0 {
		v, ok := c.u8()
		if !ok {
			return Instruction{}, false
		}
		return NewImmediateToAddress(mnemonic, ops.RMSide, NewUnsignedByte(v)), true
	}
	v, ok := c.u16()
	if !ok {
		return Instruction{}, false
	}
	return NewImmediateToAddress(mnemonic, ops.RMSide, NewUnsignedWord(v)), true
}

// decodeMovImmReg handles MOV imm->reg, short form (0xB0-0xBF): 0xB0-0xB7
// target byte registers with an imm8, 0xB8-0xBF target word registers with
// an imm16.
func decodeMovImmReg(op uint8, c *cursor) (Instruction, bool) {
	offset := op - 0xB0
	if offset < 8 {
		v, ok := c.u8()
		if !ok {
			return Instruction{}, false
		}
		addr := NewRegisterAddressing(NewByteRegister(DecodeByteRegister(offset)))
		return NewImmediateToAddress(Mov, addr, NewUnsignedByte(v)), true
	}
	v, ok := c.u16()
	if !ok {
		return Instruction{}, false
	}
	addr := NewRegisterAddressing(NewWordRegister(DecodeWordRegister(offset - 8)))
	return NewImmediateToAddress(Mov, addr, NewUnsignedWord(v)), true
}

// decodeMovAccMem handles MOV mem<->accumulator (0xA0-0xA3).
func decodeMovAccMem(op uint8, c *cursor) (Instruction, bool) {
	addr16, ok := c.u16()
	if !ok {
		return Instruction{}, false
	}
	direct := NewDirectAddressing(addr16)

	switch op {
	case 0xA0:
		direct.Width = 1
		return NewAddressToAddress(Mov, ToReg, direct, NewRegisterAddressing(NewByteRegister(AL))), true
	case 0xA1:
		direct.Width = 2
		return NewAddressToAddress(Mov, ToReg, direct, NewRegisterAddressing(NewWordRegister(AX))), true
	case 0xA2:
		direct.Width = 1
		return NewAddressToAddress(Mov, FromReg, direct, NewRegisterAddressing(NewByteRegister(AL))), true
	default: // 0xA3
		direct.Width = 2
		return NewAddressToAddress(Mov, FromReg, direct, NewRegisterAddressing(NewWordRegister(AX))), true
	}
}

// decodeRetImm handles RET/RETF with a stack-adjust immediate (0xC2/0xCA).
func decodeRetImm(m Mnemonic, c *cursor) (Instruction, bool) {
	v, ok := c.u16()
	if !ok {
		return Instruction{}, false
	}
	return NewWithImmediate(m, NewUnsignedWord(v)), true
}

// decodeIntImm handles INT imm8 (0xCD).
func decodeIntImm(c *cursor) (Instruction, bool) {
	v, ok := c.u8()
	if !ok {
		return Instruction{}, false
	}
	return NewWithImmediate(Int, NewUnsignedByte(v)), true
}

// decodeFarPointerOperand handles far CALL/JMP (0x9A/0xEA): a literal
// offset:segment pair follows the opcode.
func decodeFarPointerOperand(m Mnemonic, c *cursor) (Instruction, bool) {
	offset, ok := c.u16()
	if !ok {
		return Instruction{}, false
	}
	segment, ok := c.u16()
	if !ok {
		return Instruction{}, false
	}
	return NewWithAddress(m, NewDirectIntersegmentAddressing(offset, segment)), true
}

// decodeShiftGroup handles SHL/SHR/SAR/ROL/ROR/RCL/RCR (0xD0-0xD3): the
// ModR/M reg field selects the rotate/shift family, and the opcode's low
// bits select operand width and count source.
func decodeShiftGroup(op uint8, c *cursor) (Instruction, bool) {
	var families = [8]Mnemonic{Rol, Ror, Rcl, Rcr, Shl, Shr, Shl, Sar}

	w := (op - 0xD0) & 0x01
	byCL := (op-0xD0)>>1&0x01 == 1

	modrmByte, ok := c.u8()
	if !ok {
		return Instruction{}, false
	}
	fields := DecodeModRMByte(modrmByte)
	ops, ok := DecodeModRM(w, modrmByte, MaskRMOnly, c.rest())
	if !ok {
		return Instruction{}, false
	}
	c.skip(ops.ExtraBytes)

	return NewShift(families[fields.Reg], ops.RMSide, byCL), true
}

// decodeUnaryGroup handles TEST/NOT/NEG/MUL/IMUL/DIV/IDIV (0xF6/0xF7): the
// ModR/M reg field selects among them, with TEST additionally carrying an
// immediate.
func decodeUnaryGroup(op uint8, c *cursor) (Instruction, bool) {
	w := op - 0xF6

	modrmByte, ok := c.u8()
	if !ok {
		return Instruction{}, false
	}
	fields := DecodeModRMByte(modrmByte)
	ops, ok := DecodeModRM(w, modrmByte, MaskRMOnly, c.rest())
	if !ok {
		return Instruction{}, false
	}
	c.skip(ops.ExtraBytes)

	switch fields.Reg {
	case 0, 1:
		mnemonic := Test
		if w == 0 && ops.RMSide.Kind != AddrRegister {
			mnemonic = TestByte
		}
		if w == 0 {
			v, ok := c.u8()
			if !ok {
				return Instruction{}, false
			}
			return NewImmediateToAddress(mnemonic, ops.RMSide, NewUnsignedByte(v)), true
		}
		v, ok := c.u16()
		if !ok {
			return Instruction{}, false
		}
		return NewImmediateToAddress(mnemonic, ops.RMSide, NewUnsignedWord(v)), true
	case 2:
		return NewWithAddress(Not, ops.RMSide), true
	case 3:
		return NewWithAddress(Neg, ops.RMSide), true
	case 4:
		return NewWithAddress(Mul, ops.RMSide), true
	case 5:
		return NewWithAddress(Imul, ops.RMSide), true
	case 6:
		return NewWithAddress(Div, ops.RMSide), true
	default: // 7
		return NewWithAddress(Idiv, ops.RMSide), true
	}
}

// decodeIncDecCallJmpPushGroup handles 0xFE (INC/DEC r/m8) and 0xFF
// (INC/DEC r/m16, indirect CALL/JMP, PUSH r/m16), dispatched by the ModR/M
// reg field.
func decodeIncDecCallJmpPushGroup(op uint8, c *cursor) (Instruction, bool) {
	w := uint8(0)
	if op == 0xFF {
		w = 1
	}

	modrmByte, ok := c.u8()
	if !ok {
		return Instruction{}, false
	}
	fields := DecodeModRMByte(modrmByte)
	ops, ok := DecodeModRM(w, modrmByte, MaskRMOnly, c.rest())
	if !ok {
		return Instruction{}, false
	}
	c.skip(ops.ExtraBytes)

	if op == 0xFE {
		switch fields.Reg {
		case 0:
			return NewWithAddress(Inc, ops.RMSide), true
		case 1:
			return NewWithAddress(Dec, ops.RMSide), true
		default:
			return Instruction{}, false
		}
	}

	switch fields.Reg {
	case 0:
		return NewWithAddress(Inc, ops.RMSide), true
	case 1:
		return NewWithAddress(Dec, ops.RMSide), true
	case 2, 3:
		return NewWithAddress(Call, ops.RMSide), true
	case 4, 5:
		return NewWithAddress(Jmp, ops.RMSide), true
	case 6:
		return NewWithAddress(Push, ops.RMSide), true
	default:
		return Instruction{}, false
	}
}

// decodeRelativeBranch handles near CALL/JMP (0xE8/0xE9, 16-bit signed
// displacement) and short JMP (0xEB, 8-bit signed displacement), resolving
// the branch target to an absolute offset per §4.2.1.
func decodeRelativeBranch(pc uint16, m Mnemonic, dispWidth int, c *cursor) (Instruction, bool) {
	var disp int16
	if dispWidth == 1 {
		v, ok := c.u8()
		if !ok {
			return Instruction{}, false
		}
		disp = int16(int8(v))
	} else {
		v, ok := c.u16()
		if !ok {
			return Instruction{}, false
		}
		disp = int16(v)
	}
	target := branchTarget(pc, 1+dispWidth, disp)
	return NewWithImmediate(m, NewUnsignedWord(target)), true
}

// decodeConditionalJump handles the 16 short conditional jumps (0x70-0x7F),
// each an 8-bit signed displacement resolved to an absolute target.
func decodeConditionalJump(pc uint16, op uint8, c *cursor) (Instruction, bool) {
	mnemonics := [16]Mnemonic{
		Jo, Jno, Jb, Jnb, Je, Jne, Jbe, Jnbe,
		Js, Jns, Jp, Jnp, Jl, Jnl, Jle, Jnle,
	}
	v, ok := c.u8()
	if !ok {
		return Instruction{}, false
	}
	disp := int16(int8(v))
	target := branchTarget(pc, 2, disp)
	return NewWithImmediate(mnemonics[op-0x70], NewUnsignedWord(target)), true
}

// decodeLoop handles LOOP/LOOPZ/LOOPNZ/JCXZ (0xE0-0xE3), each an 8-bit
// signed displacement resolved to an absolute target.
func decodeLoop(pc uint16, m Mnemonic, c *cursor) (Instruction, bool) {
	v, ok := c.u8()
	if !ok {
		return Instruction{}, false
	}
	disp := int16(int8(v))
	target := branchTarget(pc, 2, disp)
	return NewWithImmediate(m, NewUnsignedWord(target)), true
}

// decodeRepPrefix handles REP/REPNE (0xF2/0xF3): the following byte is
// decoded as a string primitive and bound as the sub-instruction.
func decodeRepPrefix(prefix Mnemonic, c *cursor) (Instruction, bool) {
	sub, ok := c.u8()
	if !ok {
		return Instruction{}, false
	}
	inner, ok := decodeOpcode(0, sub, c)
	if !ok || inner.Form != Standalone {
		return Instruction{}, false
	}
	return NewWithInstruction(prefix, inner.Kind), true
}

// decodeInFixed handles IN AL/AX, imm8 (0xE4/0xE5).
func decodeInFixed(op uint8, c *cursor) (Instruction, bool) {
	port, ok := c.u8()
	if !ok {
		return Instruction{}, false
	}
	acc := NewRegisterAddressing(NewByteRegister(AL))
	if op == 0xE5 {
		acc = NewRegisterAddressing(NewWordRegister(AX))
	}
	return NewImmediateToAddress(In, acc, NewUnsignedByte(port)), true
}

// decodeOutFixed handles OUT imm8, AL/AX (0xE6/0xE7).
func decodeOutFixed(op uint8, c *cursor) (Instruction, bool) {
	port, ok := c.u8()
	if !ok {
		return Instruction{}, false
	}
	acc := NewRegisterAddressing(NewByteRegister(AL))
	if op == 0xE7 {
		acc = NewRegisterAddressing(NewWordRegister(AX))
	}
	return NewImmediateToAddress(Out, acc, NewUnsignedByte(port)), true
}

// decodeInVariable handles IN AL/AX, DX (0xEC/0xED).
func decodeInVariable(op uint8) Instruction {
	acc := NewRegisterAddressing(NewByteRegister(AL))
	if op == 0xED {
		acc = NewRegisterAddressing(NewWordRegister(AX))
	}
	return NewAddressToAddress(In, ToReg, NewRegisterAddressing(NewWordRegister(DX)), acc)
}

// decodeOutVariable handles OUT DX, AL/AX (0xEE/0xEF).
func decodeOutVariable(op uint8) Instruction {
	acc := NewRegisterAddressing(NewByteRegister(AL))
	if op == 0xEF {
		acc = NewRegisterAddressing(NewWordRegister(AX))
	}
	return NewAddressToAddress(Out, FromReg, NewRegisterAddressing(NewWordRegister(DX)), acc)
}

// decodeEsc handles the x87 escape opcodes (0xD8-0xDF): they are not
// modelled, so only their length is tracked and they execute as a no-op.
func decodeEsc(c *cursor) (Instruction, bool) {
	modrmByte, ok := c.u8()
	if !ok {
		return Instruction{}, false
	}
	fields := DecodeModRMByte(modrmByte)
	_, extra, ok := decodeEffectiveAddress(fields.Mod, fields.RM, 1, c.rest())
	if !ok {
		return Instruction{}, false
	}
	c.skip(extra)
	return NewStandalone(Esc), true
}
