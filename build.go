package cr3

import (
	"fmt"

	"github.com/tetsuo/cr3/bmff"
)

// CanonUUID identifies the uuid box that holds the CNCV and CMT boxes in
// Canon files.
var CanonUUID = [16]byte{
	0x85, 0xc0, 0xb6, 0x87, 0x82, 0x0f, 0x11, 0xe0,
	0x81, 0x11, 0xf4, 0xce, 0x46, 0x2b, 0x6a, 0x48,
}

// Container describes a synthetic CR3 file for BuildContainer.
type Container struct {
	Header CrawHeader
	// Pixels are written row-major after the header using the header's
	// sample width. Missing samples are written as zero.
	Pixels []uint16
	// TIFF, if set, is stored as CMT1 inside the Canon uuid box.
	TIFF []byte
	// Exif, if set, is stored as CMT2.
	Exif []byte
}

// BuildContainer encodes c as
//
//	ftyp | moov { uuid { CNCV CMT1 CMT2 } trak { mdia { minf { stbl { CRAW } } } } }
//
// The uuid box is omitted when there is no metadata.
func BuildContainer(c Container) ([]byte, error) {
	if err := c.Header.validate(); err != nil {
		return nil, err
	}
	bpp := c.Header.BytesPerPixel()
	if bpp != 1 && bpp != 2 {
		return nil, fmt.Errorf("%w: %d bits", ErrUnsupportedBitDepth, c.Header.BitDepth)
	}
	n := c.Header.Pixels()
	size := uint64(CrawHeaderSize) + n*uint64(bpp)
	if size > 1<<31 {
		return nil, fmt.Errorf("%w: %d byte CRAW payload", ErrImageTooLarge, size)
	}

	w := bmff.NewWriter(make([]byte, 0, int(size)+512))
	w.WriteFtyp(bmff.BrandCrx, 1, []bmff.BoxType{bmff.BrandCrx, bmff.BrandIso2})

	w.StartBox(bmff.TypeMoov)
	if c.TIFF != nil || c.Exif != nil {
		w.StartUUIDBox(CanonUUID)
		w.WriteBox(bmff.TypeCNCV, []byte("CanonCR3_001/00.09.00/00.00.00"))
		if c.TIFF != nil {
			w.WriteBox(bmff.TypeCMT1, c.TIFF)
		}
		if c.Exif != nil {
			w.WriteBox(bmff.TypeCMT2, c.Exif)
		}
		w.EndBox()
	}
	for _, t := range []bmff.BoxType{bmff.TypeTrak, bmff.TypeMdia, bmff.TypeMinf, bmff.TypeStbl} {
		w.StartBox(t)
	}

	w.StartBox(bmff.TypeCRAW)
	hdr, _ := c.Header.AppendBinary(nil)
	w.Write(hdr)
	for i := range n {
		var v uint16
		if i < uint64(len(c.Pixels)) {
			v = c.Pixels[i]
		}
		if bpp == 1 {
			w.PutUint8(byte(v))
		} else {
			w.PutUint8(byte(v))
			w.PutUint8(byte(v >> 8))
		}
	}
	w.EndBox()

	for range 4 {
		w.EndBox() // stbl minf mdia trak
	}
	w.EndBox() // moov
	return w.Bytes(), nil
}
