// Package bmff reads the ISO Base Media File Format (ISOBMFF) structure of
// Canon CR3 files: the ftyp brand table, box headers, and a bounded walk
// over nested container boxes.
package bmff

import (
	"encoding/binary"
	"fmt"
)

var be = binary.BigEndian

// BoxType is a 4-byte box type identifier.
type BoxType [4]byte

func (t BoxType) String() string {
	return string(t[:])
}

// Known box types.
var (
	TypeFtyp = BoxType{'f', 't', 'y', 'p'}
	TypeMoov = BoxType{'m', 'o', 'o', 'v'}
	TypeTrak = BoxType{'t', 'r', 'a', 'k'}
	TypeMdia = BoxType{'m', 'd', 'i', 'a'}
	TypeMinf = BoxType{'m', 'i', 'n', 'f'}
	TypeStbl = BoxType{'s', 't', 'b', 'l'}
	TypeUUID = BoxType{'u', 'u', 'i', 'd'}
	TypeMdat = BoxType{'m', 'd', 'a', 't'}
	TypeFree = BoxType{'f', 'r', 'e', 'e'}
	TypeSkip = BoxType{'s', 'k', 'i', 'p'}
	// Canon boxes
	TypeCRAW = BoxType{'C', 'R', 'A', 'W'} // Raw image header and samples
	TypeCNCV = BoxType{'C', 'N', 'C', 'V'} // Canon compressor version
	TypeCMT1 = BoxType{'C', 'M', 'T', '1'} // TIFF IFD0
	TypeCMT2 = BoxType{'C', 'M', 'T', '2'} // Exif IFD
	TypeCMT3 = BoxType{'C', 'M', 'T', '3'} // Canon makernote IFD
	TypeCMT4 = BoxType{'C', 'M', 'T', '4'} // GPS IFD
	TypeTHMB = BoxType{'T', 'H', 'M', 'B'} // Thumbnail
)

// Brands used by CR3 files.
var (
	BrandCrx  = BoxType{'c', 'r', 'x', ' '}
	BrandCrx2 = BoxType{'c', 'r', 'x', '2'}
	BrandIso2 = BoxType{'i', 's', 'o', '2'}
)

// IsContainerBox returns true if the walker descends into boxes of type t.
// Only the chain leading to Canon's track data and the uuid extension
// boxes are treated as containers.
func IsContainerBox(t BoxType) bool {
	switch t {
	case TypeMoov, TypeTrak, TypeMdia,
		TypeMinf, TypeStbl, TypeUUID:
		return true
	}
	return false
}

// Box is a parsed box header.
type Box struct {
	Type       BoxType
	Size       uint64 // total box size including header
	Offset     int    // byte offset of the box start in the buffer
	DataOffset int    // byte offset where the payload begins
	UUID       [16]byte
}

// End returns the offset of the first byte past the box.
func (b Box) End() int {
	return b.Offset + int(b.Size)
}

// HeaderSize returns the size of the box header (8, or 24 for uuid boxes).
func (b Box) HeaderSize() int {
	return b.DataOffset - b.Offset
}

// DataSize returns the size of the payload (excluding the header).
func (b Box) DataSize() int {
	return int(b.Size) - b.HeaderSize()
}

func (b Box) String() string {
	if b.Type == TypeUUID {
		return fmt.Sprintf("%s(%x) @%d size=%d", b.Type, b.UUID, b.Offset, b.Size)
	}
	return fmt.Sprintf("%s @%d size=%d", b.Type, b.Offset, b.Size)
}
