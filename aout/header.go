// Package aout parses the 32-byte MINIX a.out header that precedes the text
// and data segments of the executables this system loads and runs.
package aout

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// HeaderSize is the fixed length of a MINIX a.out header.
const HeaderSize = 32

// ExpectedMagic is the two-byte magic number every MINIX a.out image starts
// with.
var ExpectedMagic = [2]byte{0x01, 0x03}

// ErrTruncatedHeader is returned when fewer than HeaderSize bytes are
// available to parse.
var ErrTruncatedHeader = errors.New("aout: truncated header")

// ErrBadMagic is returned when the first two bytes don't match ExpectedMagic.
var ErrBadMagic = errors.New("aout: unrecognised magic number")

// Header is the fixed 32-byte MINIX a.out header.
type Header struct {
	Magic      [2]byte
	Flags      uint8
	CPU        uint8
	HeaderLen  uint8
	Unused     uint8
	Version    uint16
	TextSize   uint32
	DataSize   uint32
	BSSSize    uint32
	Entry      uint32
	TotalSize  uint32
	SymSize    uint32
}

// Parse reads a Header from the front of b. b must contain at least
// HeaderSize bytes.
func Parse(b []byte) (Header, error) {
	if len(b) < HeaderSize {
		return Header{}, ErrTruncatedHeader
	}

	h := Header{
		Flags:     b[2],
		CPU:       b[3],
		HeaderLen: b[4],
		Unused:    b[5],
		Version:   binary.LittleEndian.Uint16(b[6:8]),
		TextSize:  binary.LittleEndian.Uint32(b[8:12]),
		DataSize:  binary.LittleEndian.Uint32(b[12:16]),
		BSSSize:   binary.LittleEndian.Uint32(b[16:20]),
		Entry:     binary.LittleEndian.Uint32(b[20:24]),
		TotalSize: binary.LittleEndian.Uint32(b[24:28]),
		SymSize:   binary.LittleEndian.Uint32(b[28:32]),
	}
	copy(h.Magic[:], b[0:2])

	if h.Magic != ExpectedMagic {
		return Header{}, fmt.Errorf("%w: got %02x%02x", ErrBadMagic, h.Magic[0], h.Magic[1])
	}
	return h, nil
}

// TextOffset returns the file offset the text segment begins at: the
// header's own declared length, not the fixed HeaderSize, since a.out
// headers are permitted to grow.
func (h Header) TextOffset() int {
	return int(h.HeaderLen)
}

// DataOffset returns the file offset the data segment begins at: the text
// segment immediately following the header.
func (h Header) DataOffset() int {
	return h.TextOffset() + int(h.TextSize)
}

// Text extracts the text segment from the full file image, per TextOffset
// and TextSize. ok is false if image is too short.
func (h Header) Text(image []byte) ([]byte, bool) {
	start, end := h.TextOffset(), h.TextOffset()+int(h.TextSize)
	if end > len(image) {
		return nil, false
	}
	return image[start:end], true
}

// Data extracts the data segment from the full file image, per DataOffset
// and DataSize. ok is false if image is too short.
func (h Header) Data(image []byte) ([]byte, bool) {
	start, end := h.DataOffset(), h.DataOffset()+int(h.DataSize)
	if end > len(image) {
		return nil, false
	}
	return image[start:end], true
}
