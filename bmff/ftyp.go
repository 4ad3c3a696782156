package bmff

import (
	"fmt"
	"strings"
)

// maxCompatibleBrands caps the compatible-brand list. An ftyp box
// advertising more is treated as malformed.
const maxCompatibleBrands = 100

// ftypHeaderSize is size(4) + type(4) + major_brand(4) + minor_version(4).
const ftypHeaderSize = 16

// BrandList is the ordered brand table of an ftyp box. The first element
// is the major brand, the rest are the compatible brands in file order.
type BrandList []BoxType

// Major returns the major brand.
func (l BrandList) Major() BoxType {
	if len(l) == 0 {
		return BoxType{}
	}
	return l[0]
}

// Contains reports whether brand appears anywhere in the list.
func (l BrandList) Contains(brand BoxType) bool {
	for _, b := range l {
		if b == brand {
			return true
		}
	}
	return false
}

func (l BrandList) String() string {
	s := make([]string, len(l))
	for i, b := range l {
		s[i] = b.String()
	}
	return strings.Join(s, ",")
}

// ParseBrand converts a 4-character brand string to a BoxType.
func ParseBrand(s string) (BoxType, error) {
	var t BoxType
	if len(s) != 4 {
		return t, fmt.Errorf("%w: %q", ErrMalformedBrandTag, s)
	}
	copy(t[:], s)
	return t, nil
}

// CompatibleBrand reports whether buf starts with an ftyp box whose major
// brand or one of whose compatible brands equals brand. It fails closed:
// any malformation yields false.
func CompatibleBrand(buf []byte, brand string) bool {
	want, err := ParseBrand(brand)
	if err != nil {
		return false
	}

	r := NewReader(buf)
	hdr, err := r.Read(12)
	if err != nil {
		return false
	}
	size := be.Uint32(hdr[0:4])
	if BoxType(hdr[4:8]) != TypeFtyp {
		return false
	}
	if BoxType(hdr[8:12]) == want {
		return true
	}

	// minor version
	if _, err := r.Read(4); err != nil {
		return false
	}
	if size < ftypHeaderSize {
		return false
	}
	n := (size - ftypHeaderSize) / 4
	if n > maxCompatibleBrands {
		return false
	}
	for i := uint32(0); i < n; i++ {
		p, err := r.Read(4)
		if err != nil {
			return false
		}
		if BoxType(p) == want {
			return true
		}
	}
	return false
}

// Brands returns the brand table of the ftyp box at the start of buf.
//
// It fails only if the 12-byte ftyp header is unreadable or the box is not
// an ftyp box. A truncated minor version or compatible-brand region yields
// the brands gathered so far.
func Brands(buf []byte) (BrandList, error) {
	r := NewReader(buf)
	hdr, err := r.Read(12)
	if err != nil {
		return nil, fmt.Errorf("%w: ftyp needs 12 bytes, have %d", ErrTruncatedHeader, len(buf))
	}
	size := be.Uint32(hdr[0:4])
	if t := BoxType(hdr[4:8]); t != TypeFtyp {
		return nil, fmt.Errorf("%w: first box is %q", ErrNotBMFF, t.String())
	}

	brands := BrandList{BoxType(hdr[8:12])}
	if _, err := r.Read(4); err != nil {
		return brands, nil
	}
	if size < ftypHeaderSize {
		return brands, nil
	}
	n := (size - ftypHeaderSize) / 4
	if n > maxCompatibleBrands {
		return brands, nil
	}
	for i := uint32(0); i < n; i++ {
		p, err := r.Read(4)
		if err != nil {
			break
		}
		brands = append(brands, BoxType(p))
	}
	return brands, nil
}
