package cr3

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/tetsuo/cr3/bmff"
)

// maxPixelBuffer caps allocPixels regardless of the caller's limit.
const maxPixelBuffer = math.MaxInt / 2

// allocPixels returns a zeroed buffer for a width*height image.
func allocPixels(h CrawHeader, limit uint64) ([]uint16, error) {
	if limit == 0 || limit > maxPixelBuffer {
		limit = maxPixelBuffer
	}
	n := h.Pixels()
	if n > limit {
		return nil, fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrImageTooLarge, h.Width, h.Height, limit)
	}
	return make([]uint16, n), nil
}

// ReadSamples reads h.Height rows of h.Width samples at the cursor into a
// row-major buffer. Samples are one byte, or two bytes little-endian.
//
// With dummy set nothing is read and a zeroed buffer of the right size is
// returned. Images larger than DefaultMaxPixels fail with ErrImageTooLarge.
func ReadSamples(r *bmff.Reader, h CrawHeader, dummy bool) ([]uint16, error) {
	return readSamples(r, h, dummy, DefaultMaxPixels)
}

func readSamples(r *bmff.Reader, h CrawHeader, dummy bool, limit uint64) ([]uint16, error) {
	if dummy {
		return allocPixels(h, limit)
	}

	bpp := h.BytesPerPixel()
	if bpp != 1 && bpp != 2 {
		return nil, fmt.Errorf("%w: %d bits (%d bytes per sample)", ErrUnsupportedBitDepth, h.BitDepth, bpp)
	}

	// Fail before allocating when the rows cannot all be present.
	if rs := uint64(h.Width) * uint64(bpp); rs > 0 && uint64(r.Remaining())/rs < uint64(h.Height) {
		rowSize := int(min(rs, math.MaxInt))
		row := r.Remaining() / rowSize
		return nil, fmt.Errorf("%w: row %d at offset %d: need %d bytes, have %d",
			ErrTruncatedPixelData, row, r.Pos()+row*rowSize, rowSize, r.Remaining()-row*rowSize)
	}

	pix, err := allocPixels(h, limit)
	if err != nil {
		return nil, err
	}
	width := int(h.Width)
	rowSize := width * bpp
	for y := range int(h.Height) {
		off := r.Pos()
		p, err := r.Read(rowSize)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d at offset %d", ErrTruncatedPixelData, y, off)
		}
		row := pix[y*width : (y+1)*width]
		if bpp == 1 {
			for x, v := range p {
				row[x] = uint16(v)
			}
			continue
		}
		for x := range row {
			row[x] = binary.LittleEndian.Uint16(p[2*x:])
		}
	}
	return pix, nil
}
