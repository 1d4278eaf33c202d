package x86

// CPU holds the 8086 register file, flag word, stack, and memory that the
// interpreter mutates one instruction at a time. The decoder never touches
// a CPU: it is handed raw bytes and a program counter and returns values.
type CPU struct {
	AX, BX, CX, DX uint16
	SI, DI, BP, SP uint16
	IP             uint16

	CS, DS, ES, SS uint16

	Flags Flags

	memory *Memory
	stack  *Stack

	// stackTop is SP's value at program start, the stack's empty floor;
	// popping at or past it is ErrStackUnderflow.
	stackTop uint16

	// syscallCount increments once per INT 0x20, selecting the MINIX
	// host behavior dispatched in syscall.go.
	syscallCount int

	halted bool
}

// New creates a CPU with its segment registers, SP and IP set from opts,
// over the given memory.
func New(memory *Memory, options ...Option) *CPU {
	opts := NewOptions(options...)
	return &CPU{
		IP: opts.initialIP,
		SP: opts.initialSP,
		CS: opts.initialCS,
		DS: opts.initialDS,
		ES: opts.initialES,
		SS: opts.initialSS,

		memory:   memory,
		stack:    NewStack(memory),
		stackTop: opts.initialSP,
	}
}

// Memory returns the CPU's memory.
func (c *CPU) Memory() *Memory {
	return c.memory
}

// Halted reports whether the interpreter loop should stop: HLT executed or
// a host-exit system call reached.
func (c *CPU) Halted() bool {
	return c.halted
}

// Halt marks the CPU as stopped.
func (c *CPU) Halt() {
	c.halted = true
}

// ReadWord returns the value of a WordRegister.
func (c *CPU) ReadWord(r WordRegister) uint16 {
	switch r {
	case AX:
		return c.AX
	case CX:
		return c.CX
	case DX:
		return c.DX
	case BX:
		return c.BX
	case SP:
		return c.SP
	case BP:
		return c.BP
	case SI:
		return c.SI
	case DI:
		return c.DI
	default:
		return 0
	}
}

// WriteWord stores v into a WordRegister.
func (c *CPU) WriteWord(r WordRegister, v uint16) {
	switch r {
	case AX:
		c.AX = v
	case CX:
		c.CX = v
	case DX:
		c.DX = v
	case BX:
		c.BX = v
	case SP:
		c.SP = v
	case BP:
		c.BP = v
	case SI:
		c.SI = v
	case DI:
		c.DI = v
	}
}

// ReadByte returns the value of a ByteRegister, reading the low or high
// half of its parent word register.
func (c *CPU) ReadByte(r ByteRegister) uint8 {
	word := c.ReadWord(r.WordRegister())
	if r.IsHigh() {
		return uint8(word >> 8)
	}
	return uint8(word)
}

// WriteByte stores v into a ByteRegister, preserving the other half of its
// parent word register.
func (c *CPU) WriteByte(r ByteRegister, v uint8) {
	word := c.ReadWord(r.WordRegister())
	if r.IsHigh() {
		word = (word & 0x00FF) | uint16(v)<<8
	} else {
		word = (word & 0xFF00) | uint16(v)
	}
	c.WriteWord(r.WordRegister(), word)
}

// ReadSegment returns the value of a SegmentRegister.
func (c *CPU) ReadSegment(r SegmentRegister) uint16 {
	switch r {
	case ES:
		return c.ES
	case CS:
		return c.CS
	case SS:
		return c.SS
	default: // DS
		return c.DS
	}
}

// WriteSegment stores v into a SegmentRegister.
func (c *CPU) WriteSegment(r SegmentRegister, v uint16) {
	switch r {
	case ES:
		c.ES = v
	case CS:
		c.CS = v
	case SS:
		c.SS = v
	default: // DS
		c.DS = v
	}
}

// EffectiveAddress resolves a memory Addressing to a 20-bit physical
// address, per §4.3: all register/displacement arithmetic is 16-bit
// two's-complement on the offset, segment addition then keeps the low 20
// bits. Calling this on an AddrRegister operand is a programmer error, as
// the spec notes it has no address.
func (c *CPU) EffectiveAddress(a Addressing) uint32 {
	switch a.Kind {
	case AddrDirect:
		return PhysicalAddress(c.DS, a.Direct16)
	case AddrDirectIntersegment:
		return PhysicalAddress(a.Segment16, a.Offset16)
	case AddrBased:
		offset := c.ReadWord(a.Base) + uint16(a.Disp.Signed())
		return PhysicalAddress(c.DS, offset)
	case AddrIndexed:
		offset := c.ReadWord(a.Index) + uint16(a.Disp.Signed())
		return PhysicalAddress(c.DS, offset)
	case AddrBasedIndexed:
		offset := c.ReadWord(a.Base) + c.ReadWord(a.Index) + uint16(a.Disp.Signed())
		return PhysicalAddress(c.DS, offset)
	default:
		panic("x86: EffectiveAddress called on a register operand")
	}
}

// ReadWordOperand reads the value an Addressing names, as a word. Byte-sized
// register operands are read through ReadByte and widened with a zero high
// byte; callers that need the narrower width use ReadByteOperand instead.
func (c *CPU) ReadWordOperand(a Addressing) uint16 {
	if a.Kind == AddrRegister {
		return c.readRegisterWord(a.Reg)
	}
	return c.memory.ReadWord(c.EffectiveAddress(a))
}

// WriteWordOperand writes v to the location an Addressing names.
func (c *CPU) WriteWordOperand(a Addressing, v uint16) {
	if a.Kind == AddrRegister {
		c.writeRegisterWord(a.Reg, v)
		return
	}
	c.memory.WriteWord(c.EffectiveAddress(a), v)
}

// ReadByteOperand reads the value an Addressing names, as a byte.
func (c *CPU) ReadByteOperand(a Addressing) uint8 {
	if a.Kind == AddrRegister {
		return c.readRegisterByte(a.Reg)
	}
	return c.memory.ReadByte(c.EffectiveAddress(a))
}

// WriteByteOperand writes v to the location an Addressing names.
func (c *CPU) WriteByteOperand(a Addressing, v uint8) {
	if a.Kind == AddrRegister {
		c.writeRegisterByte(a.Reg, v)
		return
	}
	c.memory.WriteByte(c.EffectiveAddress(a), v)
}

func (c *CPU) readRegisterWord(r Register) uint16 {
	switch r.Kind {
	case ByteKind:
		return uint16(c.ReadByte(r.Byte))
	case SegmentKind:
		return c.ReadSegment(r.Seg)
	default:
		return c.ReadWord(r.Word)
	}
}

func (c *CPU) writeRegisterWord(r Register, v uint16) {
	switch r.Kind {
	case ByteKind:
		c.WriteByte(r.Byte, uint8(v))
	case SegmentKind:
		c.WriteSegment(r.Seg, v)
	default:
		c.WriteWord(r.Word, v)
	}
}

func (c *CPU) readRegisterByte(r Register) uint8 {
	if r.Kind == ByteKind {
		return c.ReadByte(r.Byte)
	}
	return uint8(c.readRegisterWord(r))
}

func (c *CPU) writeRegisterByte(r Register, v uint8) {
	if r.Kind == ByteKind {
		c.WriteByte(r.Byte, v)
		return
	}
	c.writeRegisterWord(r, uint16(v))
}

// Push pushes a word onto the stack addressed through SS:SP.
func (c *CPU) Push(v uint16) {
	c.SP = c.stack.Push16(c.SS, c.SP, v)
}

// Pop pops a word from the stack addressed through SS:SP. ok is false on
// stack underflow.
func (c *CPU) Pop() (uint16, bool) {
	value, newSP, ok := c.stack.Pop16(c.SS, c.SP, c.stackTop)
	if !ok {
		return 0, false
	}
	c.SP = newSP
	return value, true
}
