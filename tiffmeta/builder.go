package tiffmeta

import (
	"encoding/binary"
	"sort"
)

// TIFF field types written by Builder.
const (
	typeASCII = 2
	typeLong  = 4
)

type field struct {
	tag   Tag
	typ   uint16
	count uint32
	val   []byte
}

// Builder encodes a small little-endian TIFF block with an IFD0 and an
// optional Exif sub-IFD. It is used to produce the CMT1 box of synthetic
// CR3 files.
type Builder struct {
	ifd0 []field
	exif []field
}

// ASCII adds a NUL-terminated string entry to IFD0.
func (b *Builder) ASCII(t Tag, s string) *Builder {
	b.ifd0 = append(b.ifd0, asciiField(t, s))
	return b
}

// Long adds a single uint32 entry to IFD0.
func (b *Builder) Long(t Tag, v uint32) *Builder {
	b.ifd0 = append(b.ifd0, longField(t, v))
	return b
}

// ExifASCII adds a string entry to the Exif sub-IFD.
func (b *Builder) ExifASCII(t Tag, s string) *Builder {
	b.exif = append(b.exif, asciiField(t, s))
	return b
}

func asciiField(t Tag, s string) field {
	val := append([]byte(s), 0)
	return field{tag: t, typ: typeASCII, count: uint32(len(val)), val: val}
}

func longField(t Tag, v uint32) field {
	return field{tag: t, typ: typeLong, count: 1, val: binary.LittleEndian.AppendUint32(nil, v)}
}

// Bytes returns the encoded TIFF block.
//
// Layout: header(8) | IFD0 | Exif IFD | value area.
func (b *Builder) Bytes() []byte {
	le := binary.LittleEndian

	ifd0 := append([]field(nil), b.ifd0...)
	exif := append([]field(nil), b.exif...)

	ifdSize := func(n int) int { return 2 + 12*n + 4 }

	n0 := len(ifd0)
	if len(exif) > 0 {
		n0++
	}
	exifOff := 8 + ifdSize(n0)
	dataOff := exifOff
	if len(exif) > 0 {
		dataOff += ifdSize(len(exif))
		ifd0 = append(ifd0, longField(ExifIFDPointer, uint32(exifOff)))
	}
	sort.Slice(ifd0, func(i, j int) bool { return ifd0[i].tag < ifd0[j].tag })
	sort.Slice(exif, func(i, j int) bool { return exif[i].tag < exif[j].tag })

	out := []byte{'I', 'I', 42, 0}
	out = le.AppendUint32(out, 8)

	var data []byte
	writeIFD := func(fields []field) {
		out = le.AppendUint16(out, uint16(len(fields)))
		for _, f := range fields {
			out = le.AppendUint16(out, uint16(f.tag))
			out = le.AppendUint16(out, f.typ)
			out = le.AppendUint32(out, f.count)
			if len(f.val) <= 4 {
				var inline [4]byte
				copy(inline[:], f.val)
				out = append(out, inline[:]...)
				continue
			}
			out = le.AppendUint32(out, uint32(dataOff+len(data)))
			data = append(data, f.val...)
			if len(data)%2 == 1 {
				data = append(data, 0) // word alignment
			}
		}
		out = le.AppendUint32(out, 0) // next IFD
	}

	writeIFD(ifd0)
	if len(exif) > 0 {
		writeIFD(exif)
	}
	return append(out, data...)
}
