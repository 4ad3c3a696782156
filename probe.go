package cr3

import (
	"fmt"

	"github.com/tetsuo/cr3/bmff"
)

// A CR3 file lists "crx " or "crx2" as its major or a compatible brand.
var cr3Brands = []bmff.BoxType{bmff.BrandCrx, bmff.BrandCrx2}

// CompatibleBrand reports whether buf starts with an ftyp box declaring
// brand as its major or a compatible brand. Any malformation yields false.
func CompatibleBrand(buf []byte, brand string) bool {
	return bmff.CompatibleBrand(buf, brand)
}

// Brands returns the major brand followed by the compatible brands of the
// ftyp box at the start of buf. A truncated compatible list yields the
// brands read so far.
func Brands(buf []byte) (bmff.BrandList, error) {
	return bmff.Brands(buf)
}

// Probe identifies buf as a CR3 file. It returns bmff.ErrNotBMFF when buf
// does not start with an ftyp box and ErrNotCR3 when the box lists no CR3
// brand; IsFormatMismatch is true for both.
func Probe(buf []byte) (bmff.BrandList, error) {
	brands, err := bmff.Brands(buf)
	if err != nil {
		return nil, err
	}
	for _, b := range cr3Brands {
		if brands.Contains(b) {
			return brands, nil
		}
	}
	return brands, fmt.Errorf("%w: brands %s", ErrNotCR3, brands)
}
