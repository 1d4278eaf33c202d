package x86

// Disassembler walks a byte slice (typically an a.out text segment),
// decoding one instruction at a time and producing the same TraceEvent
// shape the interpreter emits, minus the register snapshot.
type Disassembler struct {
	text []byte
	pos  int
}

// NewDisassembler wraps a text segment for sequential disassembly starting
// at offset 0.
func NewDisassembler(text []byte) *Disassembler {
	return &Disassembler{text: text}
}

// Done reports whether the entire text segment has been consumed.
func (d *Disassembler) Done() bool {
	return d.pos >= len(d.text)
}

// Next decodes the instruction at the current position and advances past
// it, returning the TraceEvent a caller formats with TraceEvent.String().
// If the remaining bytes would overshoot the end of text, the final
// instruction is recorded as Undefined of length 1, matching the total
// consumption invariant over a text segment.
func (d *Disassembler) Next() TraceEvent {
	pc := uint16(d.pos)
	length, inst := Decode(pc, d.text[d.pos:])
	if length == 0 || d.pos+length > len(d.text) {
		length = 1
		inst = NewUndefined()
	}
	raw := d.text[d.pos : d.pos+length]
	d.pos += length
	return TraceEvent{IP: pc, Raw: raw, Text: inst.String()}
}
