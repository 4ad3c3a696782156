// Package tiffmeta gives tag-level access to the TIFF metadata embedded in
// CR3 files. Decoding is done by github.com/rwcarlsen/goexif/tiff; this
// package adds directory lookup by tag, Exif sub-IFD resolution, and
// discovery of the CMT1/CMT2 boxes inside the container.
package tiffmeta

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/rwcarlsen/goexif/tiff"

	"github.com/tetsuo/cr3/bmff"
)

// Tag is a TIFF tag identifier.
type Tag uint16

// Tags used by the decoder.
const (
	ImageWidth     Tag = 0x0100
	ImageLength    Tag = 0x0101
	Make           Tag = 0x010f
	Model          Tag = 0x0110
	ExifIFDPointer Tag = 0x8769
	MakerNote      Tag = 0x927c
)

var tagNames = map[Tag]string{
	ImageWidth:     "ImageWidth",
	ImageLength:    "ImageLength",
	Make:           "Make",
	Model:          "Model",
	ExifIFDPointer: "ExifIFDPointer",
	MakerNote:      "MakerNote",
}

func (t Tag) String() string {
	if s, ok := tagNames[t]; ok {
		return s
	}
	return fmt.Sprintf("Tag(0x%04x)", uint16(t))
}

// ErrNoMetadata is returned by FromContainer when the file carries no CMT1 box.
var ErrNoMetadata = errors.New("tiffmeta: no CMT1 box")

// Dir is one decoded image file directory. Sub-directories share the raw
// TIFF bytes of their parent so that value offsets resolve correctly.
type Dir struct {
	dir   *tiff.Dir
	raw   []byte
	order binary.ByteOrder

	// exif is an Exif IFD stored outside this TIFF block (CMT2).
	exif *Dir
}

// Parse decodes a TIFF block (byte order mark, magic, IFD chain) and
// returns its first directory.
func Parse(raw []byte) (*Dir, error) {
	t, err := tiff.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("tiffmeta: %w", err)
	}
	if len(t.Dirs) == 0 {
		return nil, errors.New("tiffmeta: TIFF has no IFD")
	}
	return &Dir{dir: t.Dirs[0], raw: raw, order: t.Order}, nil
}

// FromContainer locates the CMT1 (IFD0) box of a CR3 container and
// decodes it. When a CMT2 box is present it is decoded as well and
// answers FindFirstIFD(ExifIFDPointer).
func FromContainer(buf []byte, logger *slog.Logger) (*Dir, error) {
	w := bmff.Walker{Logger: logger}

	r := bmff.NewReader(buf)
	b, ok, err := w.Find(&r, bmff.TypeCMT1)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNoMetadata
	}
	d, err := Parse(r.Payload(b))
	if err != nil {
		return nil, fmt.Errorf("CMT1 at offset %d: %w", b.Offset, err)
	}

	r.Seek(0)
	b, ok, err = w.Find(&r, bmff.TypeCMT2)
	if err != nil {
		return nil, err
	}
	if ok {
		exif, err := Parse(r.Payload(b))
		if err != nil {
			return nil, fmt.Errorf("CMT2 at offset %d: %w", b.Offset, err)
		}
		d.exif = exif
	}
	return d, nil
}

// Len returns the number of entries in the directory.
func (d *Dir) Len() int {
	return len(d.dir.Tags)
}

// Entries calls fn for each entry in directory order.
func (d *Dir) Entries(fn func(t Tag, e *Entry)) {
	for _, tg := range d.dir.Tags {
		fn(Tag(tg.Id), &Entry{tag: tg})
	}
}

// FindEntry returns the entry for tag t.
func (d *Dir) FindEntry(t Tag) (*Entry, bool) {
	for _, tg := range d.dir.Tags {
		if Tag(tg.Id) == t {
			return &Entry{tag: tg}, true
		}
	}
	return nil, false
}

// FindFirstIFD follows the pointer tag t to a sub-directory. An Exif IFD
// carried in a separate CMT2 box is returned for ExifIFDPointer when this
// directory has no usable pointer.
func (d *Dir) FindFirstIFD(t Tag) (*Dir, bool) {
	if e, ok := d.FindEntry(t); ok {
		if off, ok := e.Uint(0); ok {
			if sub, err := d.decodeAt(off); err == nil {
				return sub, true
			}
		}
	}
	if t == ExifIFDPointer && d.exif != nil {
		return d.exif, true
	}
	return nil, false
}

func (d *Dir) decodeAt(off int) (*Dir, error) {
	if off <= 0 || off >= len(d.raw) {
		return nil, fmt.Errorf("tiffmeta: IFD offset %d outside %d-byte block", off, len(d.raw))
	}
	r := bytes.NewReader(d.raw)
	if _, err := r.Seek(int64(off), io.SeekStart); err != nil {
		return nil, err
	}
	sub, _, err := tiff.DecodeDir(r, d.order)
	if err != nil {
		return nil, err
	}
	return &Dir{dir: sub, raw: d.raw, order: d.order}, nil
}

// Entry is a single IFD entry.
type Entry struct {
	tag *tiff.Tag
}

// Count returns the number of values in the entry.
func (e *Entry) Count() int {
	return int(e.tag.Count)
}

// String returns the entry's ASCII value without its NUL terminator. Non
// ASCII entries are rendered as their size.
func (e *Entry) String() string {
	if e.tag.Type == tiff.DTAscii {
		s, err := e.tag.StringVal()
		if err == nil {
			return s
		}
	}
	return fmt.Sprintf("<%d bytes>", len(e.tag.Val))
}

// Uint returns the i'th value of an integer entry. It reports false when i
// is outside the entry's value count.
func (e *Entry) Uint(i int) (int, bool) {
	if i < 0 || i >= e.Count() {
		return 0, false
	}
	v, err := e.tag.Int(i)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}
