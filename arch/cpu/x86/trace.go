package x86

import (
	"encoding/hex"
	"fmt"
)

// TraceEvent is emitted once per decoded (disassembly mode) or executed
// (interpreter mode) instruction: the program counter it was fetched from,
// the raw bytes it decoded from, its rendered text, and — in interpreter
// mode only — the register/flag snapshot taken after the instruction ran.
type TraceEvent struct {
	IP      uint16
	Raw     []byte
	Text    string
	Post    *RegisterSnapshot // nil in disassembly mode
}

// RegisterSnapshot is the register/flag state printed ahead of the
// instruction tail in interpreter mode.
type RegisterSnapshot struct {
	AX, BX, CX, DX uint16
	SP, BP, SI, DI uint16
	IP             uint16
	Flags          Flags
}

// snapshotOf captures a CPU's current register/flag state.
func snapshotOf(c *CPU) *RegisterSnapshot {
	return &RegisterSnapshot{
		AX: c.AX, BX: c.BX, CX: c.CX, DX: c.DX,
		SP: c.SP, BP: c.BP, SI: c.SI, DI: c.DI,
		IP: c.IP, Flags: c.Flags,
	}
}

// String renders the disassembly-mode trace line: "%04x: %s\t%s" — program
// counter, raw byte hex dump with no separators, rendered instruction.
func (e TraceEvent) String() string {
	return fmt.Sprintf("%04x: %s\t%s", e.IP, hex.EncodeToString(e.Raw), e.Text)
}

// InterpreterString renders the interpreter-mode trace line: the
// register/flag snapshot ("AX BX CX DX SP BP SI DI ZSOC IP:") followed by
// the same tail String uses.
func (e TraceEvent) InterpreterString() string {
	if e.Post == nil {
		return e.String()
	}
	p := e.Post
	return fmt.Sprintf("%04x %04x %04x %04x %04x %04x %04x %04x %s %04x: %s\t%s",
		p.AX, p.BX, p.CX, p.DX, p.SP, p.BP, p.SI, p.DI,
		p.Flags.snapshot(), p.IP,
		hex.EncodeToString(e.Raw), e.Text)
}
