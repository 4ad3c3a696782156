package cr3

import (
	"encoding/binary"
	"fmt"

	"github.com/tetsuo/cr3/bmff"
)

// CrawHeaderSize is the size of the header at the start of a CRAW payload.
const CrawHeaderSize = 28

// CrawHeader is the image header stored at the start of a CRAW payload.
//
// Layout (big-endian):
//
//	width(4) height(4) bit_depth(1) components(1) component_bit_depth(1) reserved(17)
type CrawHeader struct {
	Width             uint32
	Height            uint32
	BitDepth          uint8
	Components        uint8
	ComponentBitDepth uint8
	// Reserved is kept verbatim and never interpreted.
	Reserved [17]byte
}

// BytesPerPixel returns the storage size of one sample, ceil(BitDepth/8).
func (h CrawHeader) BytesPerPixel() int {
	return (int(h.BitDepth) + 7) / 8
}

// Pixels returns Width*Height.
func (h CrawHeader) Pixels() uint64 {
	return uint64(h.Width) * uint64(h.Height)
}

// ParseCrawHeader reads and validates a CRAW header at the cursor. On
// success the cursor is left at the first sample byte.
func ParseCrawHeader(r *bmff.Reader) (CrawHeader, error) {
	start := r.Pos()
	p, err := r.Read(CrawHeaderSize)
	if err != nil {
		return CrawHeader{}, fmt.Errorf("%w: CRAW header at offset %d", bmff.ErrTruncatedHeader, start)
	}

	h := CrawHeader{
		Width:             binary.BigEndian.Uint32(p[0:4]),
		Height:            binary.BigEndian.Uint32(p[4:8]),
		BitDepth:          p[8],
		Components:        p[9],
		ComponentBitDepth: p[10],
	}
	copy(h.Reserved[:], p[11:])

	if err := h.validate(); err != nil {
		return CrawHeader{}, err
	}
	return h, nil
}

func (h CrawHeader) validate() error {
	switch {
	case h.Width == 0 || h.Height == 0:
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, h.Width, h.Height)
	case h.BitDepth == 0 || h.BitDepth > 32:
		return fmt.Errorf("%w: %d", ErrInvalidBitDepth, h.BitDepth)
	case h.Components == 0:
		return ErrInvalidComponentCount
	}
	return nil
}

// AppendBinary appends the 28-byte encoding of h to b.
func (h CrawHeader) AppendBinary(b []byte) ([]byte, error) {
	b = binary.BigEndian.AppendUint32(b, h.Width)
	b = binary.BigEndian.AppendUint32(b, h.Height)
	b = append(b, h.BitDepth, h.Components, h.ComponentBitDepth)
	return append(b, h.Reserved[:]...), nil
}
