package x86

// cursor walks a byte slice one opcode at a time. It carries no state
// beyond the slice and a position, and a fresh one is built for every call
// to Decode, keeping the decoder itself stateless.
type cursor struct {
	b   []byte
	pos int
}

func (c *cursor) u8() (uint8, bool) {
	if c.pos >= len(c.b) {
		return 0, false
	}
	v := c.b[c.pos]
	c.pos++
	return v, true
}

func (c *cursor) u16() (uint16, bool) {
	if c.pos+1 >= len(c.b) {
		return 0, false
	}
	v := uint16(c.b[c.pos]) | uint16(c.b[c.pos+1])<<8
	c.pos += 2
	return v, true
}

func (c *cursor) rest() []byte {
	return c.b[c.pos:]
}

func (c *cursor) skip(n int) {
	c.pos += n
}

// branchTarget resolves a relative branch per §4.2.1: 16-bit two's
// complement arithmetic on pc + instruction length + signed displacement,
// wrapping on overflow.
func branchTarget(pc uint16, length int, disp int16) uint16 {
	return pc + uint16(length) + uint16(disp)
}

// Decode consumes one instruction from the start of b and returns how many
// bytes it used and the decoded Instruction. It never panics and never
// returns an error: an unrecognised or truncated encoding becomes Undefined
// of length 1 (or 0 if b itself is empty) so a caller iterating a text
// segment can always make progress.
func Decode(pc uint16, b []byte) (int, Instruction) {
	if len(b) == 0 {
		return 0, NewUndefined()
	}

	c := &cursor{b: b}
	op, _ := c.u8()

	inst, ok := decodeOpcode(pc, op, c)
	if !ok {
		return 1, NewUndefined()
	}
	return c.pos, inst
}

func decodeOpcode(pc uint16, op uint8, c *cursor) (Instruction, bool) {
	switch {
	case inRange(op, 0x00, 0x03):
		return decodeArithRegRM(op, 0x00, Add, c)
	case op == 0x04 || op == 0x05:
		return decodeArithImmAcc(op, 0x04, Add, c)
	case op == 0x06:
		return NewWithAddress(Push, NewRegisterAddressing(NewSegmentRegister(ES))), true
	case op == 0x07:
		return NewWithAddress(Pop, NewRegisterAddressing(NewSegmentRegister(ES))), true
	case inRange(op, 0x08, 0x0B):
		return decodeArithRegRM(op, 0x08, Or, c)
	case op == 0x0C || op == 0x0D:
		return decodeArithImmAcc(op, 0x0C, Or, c)
	case op == 0x0E:
		return NewWithAddress(Push, NewRegisterAddressing(NewSegmentRegister(CS))), true
	case inRange(op, 0x10, 0x13):
		return decodeArithRegRM(op, 0x10, Adc, c)
	case op == 0x14 || op == 0x15:
		return decodeArithImmAcc(op, 0x14, Adc, c)
	case op == 0x16:
		return NewWithAddress(Push, NewRegisterAddressing(NewSegmentRegister(SS))), true
	case op == 0x17:
		return NewWithAddress(Pop, NewRegisterAddressing(NewSegmentRegister(SS))), true
	case inRange(op, 0x18, 0x1B):
		return decodeArithRegRM(op, 0x18, Sbb, c)
	case op == 0x1C || op == 0x1D:
		return decodeArithImmAcc(op, 0x1C, Sbb, c)
	case op == 0x1E:
		return NewWithAddress(Push, NewRegisterAddressing(NewSegmentRegister(DS))), true
	case op == 0x1F:
		return NewWithAddress(Pop, NewRegisterAddressing(NewSegmentRegister(DS))), true
	case inRange(op, 0x20, 0x23):
		return decodeArithRegRM(op, 0x20, And, c)
	case op == 0x24 || op == 0x25:
		return decodeArithImmAcc(op, 0x24, And, c)
	case op == 0x26, op == 0x2E, op == 0x36, op == 0x3E:
		return NewStandalone(Nop), true
	case inRange(op, 0x28, 0x2B):
		return decodeArithRegRM(op, 0x28, Sub, c)
	case op == 0x2C || op == 0x2D:
		return decodeArithImmAcc(op, 0x2C, Sub, c)
	case op == 0x27:
		return NewStandalone(Daa), true
	case op == 0x2F:
		return NewStandalone(Das), true
	case inRange(op, 0x30, 0x33):
		return decodeArithRegRM(op, 0x30, Xor, c)
	case op == 0x34 || op == 0x35:
		return decodeArithImmAcc(op, 0x34, Xor, c)
	case op == 0x37:
		return NewStandalone(Aaa), true
	case inRange(op, 0x38, 0x3B):
		return decodeArithRegRM(op, 0x38, Cmp, c)
	case op == 0x3C || op == 0x3D:
		return decodeArithImmAcc(op, 0x3C, Cmp, c)
	case op == 0x3F:
		return NewStandalone(Aas), true

	case inRange(op, 0x40, 0x47):
		return NewWithAddress(Inc, NewRegisterAddressing(NewWordRegister(DecodeWordRegister(op-0x40)))), true
	case inRange(op, 0x48, 0x4F):
		return NewWithAddress(Dec, NewRegisterAddressing(NewWordRegister(DecodeWordRegister(op-0x48)))), true
	case inRange(op, 0x50, 0x57):
		return NewWithAddress(Push, NewRegisterAddressing(NewWordRegister(DecodeWordRegister(op-0x50)))), true
	case inRange(op, 0x58, 0x5F):
		return NewWithAddress(Pop, NewRegisterAddressing(NewWordRegister(DecodeWordRegister(op-0x58)))), true

	case inRange(op, 0x70, 0x7F):
		return decodeConditionalJump(pc, op, c)

	case inRange(op, 0x80, 0x83):
		return decodeAluImmGroup(op, c)
	case op == 0x84 || op == 0x85:
		return decodeTestRegRM(op, c)
	case op == 0x86 || op == 0x87:
		return decodeArithRegRM(op, 0x86, Xchg, c)
	case op == 0x88 || op == 0x89 || op == 0x8A || op == 0x8B:
		return decodeArithRegRM(op, 0x88, Mov, c)
	case op == 0x8C:
		return decodeMovSegRM(c, FromReg)
	case op == 0x8D:
		return decodeLea(c)
	case op == 0x8E:
		return decodeMovSegRM(c, ToReg)
	case op == 0x8F:
		return decodeGroupPopRM(c)

	case inRange(op, 0x90, 0x97):
		return NewAddressToAddress(Xchg, FromReg,
			NewRegisterAddressing(NewWordRegister(DecodeWordRegister(op-0x90))),
			NewRegisterAddressing(NewWordRegister(AX))), true
	case op == 0x98:
		return NewStandalone(Cbw), true
	case op == 0x99:
		return NewStandalone(Cwd), true
	case op == 0x9A:
		return decodeFarPointerOperand(Call, c)
	case op == 0x9B:
		return NewStandalone(Wait), true
	case op == 0x9C:
		return NewStandalone(Pushf), true
	case op == 0x9D:
		return NewStandalone(Popf), true
	case op == 0x9E:
		return NewStandalone(Sahf), true
	case op == 0x9F:
		return NewStandalone(Lahf), true

	case inRange(op, 0xA0, 0xA3):
		return decodeMovAccMem(op, c)
	case op == 0xA4:
		return NewStandalone(Movsb), true
	case op == 0xA5:
		return NewStandalone(Movsw), true
	case op == 0xA6:
		return NewStandalone(Cmpsb), true
	case op == 0xA7:
		return NewStandalone(Cmpsw), true
	case op == 0xA8 || op == 0xA9:
		return decodeTestAcc(op, c)
	case op == 0xAA:
		return NewStandalone(Stosb), true
	case op == 0xAB:
		return NewStandalone(Stosw), true
	case op == 0xAC:
		return NewStandalone(Lodsb), true
	case op == 0xAD:
		return NewStandalone(Lodsw), true
	case op == 0xAE:
		return NewStandalone(Scasb), true
	case op == 0xAF:
		return NewStandalone(Scasw), true

	case inRange(op, 0xB0, 0xBF):
		return decodeMovImmReg(op, c)

	case op == 0xC2:
		return decodeRetImm(Ret, c)
	case op == 0xC3:
		return NewStandalone(Ret), true
	case op == 0xC4:
		return decodeLdsLes(Les, c)
	case op == 0xC5:
		return decodeLdsLes(Lds, c)
	case op == 0xC6 || op == 0xC7:
		return decodeMovImmRM(op, c)
	case op == 0xCA:
		return decodeRetImm(Retf, c)
	case op == 0xCB:
		return NewStandalone(Retf), true
	case op == 0xCC:
		return NewWithImmediate(Int, NewUnsignedByte(3)), true
	case op == 0xCD:
		return decodeIntImm(c)
	case op == 0xCE:
		return NewStandalone(Into), true
	case op == 0xCF:
		return NewStandalone(Iret), true

	case inRange(op, 0xD0, 0xD3):
		return decodeShiftGroup(op, c)
	case op == 0xD4:
		c.skip(1)
		return NewStandalone(Aam), true
	case op == 0xD5:
		c.skip(1)
		return NewStandalone(Aad), true
	case op == 0xD7:
		return NewStandalone(Xlat), true
	case inRange(op, 0xD8, 0xDF):
		return decodeEsc(c)

	case op == 0xE0:
		return decodeLoop(pc, Loopnz, c)
	case op == 0xE1:
		return decodeLoop(pc, Loopz, c)
	case op == 0xE2:
		return decodeLoop(pc, Loop, c)
	case op == 0xE3:
		return decodeLoop(pc, Jcxz, c)
	case op == 0xE4 || op == 0xE5:
		return decodeInFixed(op, c)
	case op == 0xE6 || op == 0xE7:
		return decodeOutFixed(op, c)
	case op == 0xE8:
		return decodeRelativeBranch(pc, Call, 2, c)
	case op == 0xE9:
		return decodeRelativeBranch(pc, Jmp, 2, c)
	case op == 0xEA:
		return decodeFarPointerOperand(Jmp, c)
	case op == 0xEB:
		return decodeRelativeBranch(pc, JmpShort, 1, c)
	case op == 0xEC || op == 0xED:
		return decodeInVariable(op), true
	case op == 0xEE || op == 0xEF:
		return decodeOutVariable(op), true

	case op == 0xF0:
		return NewStandalone(Lock), true
	case op == 0xF2:
		return decodeRepPrefix(Repne, c)
	case op == 0xF3:
		return decodeRepPrefix(Rep, c)
	case op == 0xF4:
		return NewStandalone(Hlt), true
	case op == 0xF5:
		return NewStandalone(Cmc), true
	case op == 0xF6 || op == 0xF7:
		return decodeUnaryGroup(op, c)
	case op == 0xF8:
		return NewStandalone(Clc), true
	case op == 0xF9:
		return NewStandalone(Stc), true
	case op == 0xFA:
		return NewStandalone(Cli), true
	case op == 0xFB:
		return NewStandalone(Sti), true
	case op == 0xFC:
		return NewStandalone(Cld), true
	case op == 0xFD:
		return NewStandalone(Std), true
	case op == 0xFE:
		return decodeIncDecCallJmpPushGroup(op, c)
	case op == 0xFF:
		return decodeIncDecCallJmpPushGroup(op, c)

	default:
		return Instruction{}, false
	}
}

func inRange(v, lo, hi uint8) bool {
	return v >= lo && v <= hi
}
