package x86

import (
	"testing"

	"github.com/retrotools/a8086/assert"
)

func TestNewByteDisplacementCollapsesZero(t *testing.T) {
	assert.Equal(t, Zero, NewByteDisplacement(0))
}

func TestNewWordDisplacementCollapsesZero(t *testing.T) {
	assert.Equal(t, Zero, NewWordDisplacement(0))
}

func TestDisplacementIsZero(t *testing.T) {
	assert.True(t, Zero.IsZero())
	assert.False(t, NewByteDisplacement(5).IsZero())
}

func TestDisplacementSigned(t *testing.T) {
	assert.Equal(t, int16(-5), NewByteDisplacement(-5).Signed())
	assert.Equal(t, int16(300), NewWordDisplacement(300).Signed())
}

func TestDisplacementStringZero(t *testing.T) {
	assert.Equal(t, "", Zero.String())
}

func TestDisplacementStringPositive(t *testing.T) {
	assert.Equal(t, "+5", NewByteDisplacement(5).String())
	assert.Equal(t, "+1234", NewWordDisplacement(0x1234).String())
}

func TestDisplacementStringNegative(t *testing.T) {
	assert.Equal(t, "-1", NewByteDisplacement(-1).String())
	assert.Equal(t, "-80", NewWordDisplacement(-128).String())
}
