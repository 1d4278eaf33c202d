package x86

import (
	"testing"

	"github.com/retrotools/a8086/assert"
)

func TestDisassemblerWalksWholeSegment(t *testing.T) {
	// mov ax, 0x1234; inc ax; hlt
	d := NewDisassembler([]byte{0xb8, 0x34, 0x12, 0x40, 0xf4})

	first := d.Next()
	assert.Equal(t, uint16(0), first.IP)
	assert.Equal(t, "mov ax, 1234", first.Text)

	second := d.Next()
	assert.Equal(t, uint16(3), second.IP)
	assert.Equal(t, "inc ax", second.Text)

	third := d.Next()
	assert.Equal(t, "hlt", third.Text)

	assert.True(t, d.Done())
}

func TestDisassemblerTruncatedTailBecomesUndefined(t *testing.T) {
	// 0x8b (mov r, r/m) with its ModR/M byte missing from the segment.
	d := NewDisassembler([]byte{0x8b})
	event := d.Next()
	assert.Equal(t, "(undefined)", event.Text)
	assert.True(t, d.Done())
}

func TestDisassemblerEmptySegmentIsImmediatelyDone(t *testing.T) {
	d := NewDisassembler(nil)
	assert.True(t, d.Done())
}
