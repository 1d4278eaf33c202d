package x86

// stringStep advances SI and/or DI by the element width, in the direction
// DF selects: +1/+2 when DF is clear, -1/-2 when set.
func stringStep(width int, df bool) uint16 {
	step := uint16(width)
	if df {
		return ^step + 1 // two's-complement negation
	}
	return step
}

// execMovs copies one element from DS:SI to ES:DI.
func execMovs(c *CPU, width int) {
	step := stringStep(width, c.Flags.Direction())
	src := PhysicalAddress(c.DS, c.SI)
	dst := PhysicalAddress(c.ES, c.DI)
	if width == 1 {
		c.memory.WriteByte(dst, c.memory.ReadByte(src))
	} else {
		c.memory.WriteWord(dst, c.memory.ReadWord(src))
	}
	c.SI += step
	c.DI += step
}

// execCmps compares one element at DS:SI against ES:DI, sets flags as CMP
// would, then advances SI and DI.
func execCmps(c *CPU, width int) {
	step := stringStep(width, c.Flags.Direction())
	src := PhysicalAddress(c.DS, c.SI)
	dst := PhysicalAddress(c.ES, c.DI)
	if width == 1 {
		a, b := c.memory.ReadByte(src), c.memory.ReadByte(dst)
		r := subWithFlags(uint16(a), uint16(b), false, 1)
		c.Flags = applyArithFlags(c.Flags, r, 1)
	} else {
		a, b := c.memory.ReadWord(src), c.memory.ReadWord(dst)
		r := subWithFlags(a, b, false, 2)
		c.Flags = applyArithFlags(c.Flags, r, 2)
	}
	c.SI += step
	c.DI += step
}

// execScas compares AL/AX against the element at ES:DI, sets flags as CMP
// would, then advances DI.
func execScas(c *CPU, width int) {
	step := stringStep(width, c.Flags.Direction())
	dst := PhysicalAddress(c.ES, c.DI)
	if width == 1 {
		r := subWithFlags(uint16(c.ReadByte(AL)), uint16(c.memory.ReadByte(dst)), false, 1)
		c.Flags = applyArithFlags(c.Flags, r, 1)
	} else {
		r := subWithFlags(c.AX, c.memory.ReadWord(dst), false, 2)
		c.Flags = applyArithFlags(c.Flags, r, 2)
	}
	c.DI += step
}

// execLods loads the element at DS:SI into AL/AX, then advances SI.
func execLods(c *CPU, width int) {
	step := stringStep(width, c.Flags.Direction())
	src := PhysicalAddress(c.DS, c.SI)
	if width == 1 {
		c.WriteByte(AL, c.memory.ReadByte(src))
	} else {
		c.AX = c.memory.ReadWord(src)
	}
	c.SI += step
}

// execStos stores AL/AX at ES:DI, then advances DI.
func execStos(c *CPU, width int) {
	step := stringStep(width, c.Flags.Direction())
	dst := PhysicalAddress(c.ES, c.DI)
	if width == 1 {
		c.memory.WriteByte(dst, c.ReadByte(AL))
	} else {
		c.memory.WriteWord(dst, c.AX)
	}
	c.DI += step
}

// repKind distinguishes REP from REPNE, since the extra exit condition for
// CMPS/SCAS differs between them.
type repKind uint8

const (
	repAlways repKind = iota // plain REP over MOVS/LODS/STOS
	repWhileZero
	repWhileNotZero
)

// runRepeated wraps a string primitive in the REP/REPNE loop: decrement CX
// until zero, and for CMPS/SCAS also stop when the extra zero-flag
// condition fails.
func runRepeated(c *CPU, kind repKind, step func(c *CPU)) {
	for {
		if c.CX == 0 {
			return
		}
		step(c)
		c.CX--
		if c.CX == 0 {
			return
		}
		switch kind {
		case repWhileZero:
			if !c.Flags.Zero() {
				return
			}
		case repWhileNotZero:
			if c.Flags.Zero() {
				return
			}
		}
	}
}
