package tiffmeta

import (
	"errors"
	"testing"

	"github.com/tetsuo/cr3/bmff"
)

func sampleTIFF() []byte {
	var b Builder
	b.ASCII(Make, "Canon").
		ASCII(Model, "Canon EOS R5").
		Long(ImageWidth, 8192).
		Long(ImageLength, 5464).
		ExifASCII(MakerNote, "canon-notes")
	return b.Bytes()
}

func TestParseAndFindEntry(t *testing.T) {
	d, err := Parse(sampleTIFF())
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		tag  Tag
		want string
	}{
		{Make, "Canon"},
		{Model, "Canon EOS R5"},
	}
	for _, tt := range tests {
		t.Run(tt.tag.String(), func(t *testing.T) {
			e, ok := d.FindEntry(tt.tag)
			if !ok {
				t.Fatalf("%v not found", tt.tag)
			}
			if got := e.String(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}

	e, ok := d.FindEntry(ImageWidth)
	if !ok {
		t.Fatal("ImageWidth not found")
	}
	if w, ok := e.Uint(0); !ok || w != 8192 {
		t.Errorf("ImageWidth = %d, %v", w, ok)
	}
	if _, ok := e.Uint(1); ok {
		t.Error("Uint(1) on a single-value entry succeeded")
	}
	if got := e.String(); got != "<4 bytes>" {
		t.Errorf("String() of LONG entry = %q", got)
	}

	if _, ok := d.FindEntry(MakerNote); ok {
		t.Error("MakerNote must live in the Exif IFD, not IFD0")
	}
	// 4 entries plus the Exif pointer
	if d.Len() != 5 {
		t.Errorf("Len() = %d, want 5", d.Len())
	}
}

func TestEntryUintOutOfRange(t *testing.T) {
	d, err := Parse(sampleTIFF())
	if err != nil {
		t.Fatal(err)
	}
	e, ok := d.FindEntry(ImageLength)
	if !ok {
		t.Fatal("ImageLength not found")
	}
	if e.Count() != 1 {
		t.Fatalf("Count() = %d, want 1", e.Count())
	}
	for _, i := range []int{-1, e.Count(), e.Count() + 100} {
		if v, ok := e.Uint(i); ok || v != 0 {
			t.Errorf("Uint(%d) = %d, %v", i, v, ok)
		}
	}
	// ASCII values are not integers.
	m, _ := d.FindEntry(Make)
	if _, ok := m.Uint(0); ok {
		t.Error("Uint(0) on an ASCII entry succeeded")
	}
}

func TestEntries(t *testing.T) {
	d, err := Parse(sampleTIFF())
	if err != nil {
		t.Fatal(err)
	}
	var tags []Tag
	d.Entries(func(tg Tag, e *Entry) {
		if e.Count() < 1 {
			t.Errorf("%v has Count() %d", tg, e.Count())
		}
		tags = append(tags, tg)
	})
	if len(tags) != d.Len() {
		t.Fatalf("Entries visited %d of %d entries", len(tags), d.Len())
	}
	for i := 1; i < len(tags); i++ {
		if tags[i] <= tags[i-1] {
			t.Errorf("entries not in directory order: %v", tags)
		}
	}
}

func TestFindFirstIFD(t *testing.T) {
	d, err := Parse(sampleTIFF())
	if err != nil {
		t.Fatal(err)
	}
	exif, ok := d.FindFirstIFD(ExifIFDPointer)
	if !ok {
		t.Fatal("Exif IFD not found")
	}
	e, ok := exif.FindEntry(MakerNote)
	if !ok {
		t.Fatal("MakerNote not found")
	}
	if e.String() != "canon-notes" {
		t.Errorf("MakerNote = %q", e.String())
	}

	if _, ok := d.FindFirstIFD(Model); ok {
		t.Error("ASCII tag followed as an IFD pointer")
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	if _, err := Parse([]byte("not a tiff")); err == nil {
		t.Error("expected error")
	}
}

func TestFromContainer(t *testing.T) {
	var ifd0 Builder
	ifd0.ASCII(Make, "Canon").ASCII(Model, "Canon EOS R6")
	var exif Builder
	exif.ASCII(MakerNote, "from-cmt2")

	w := bmff.NewWriter(nil)
	w.WriteFtyp(bmff.BrandCrx, 1, []bmff.BoxType{bmff.BrandCrx, bmff.BrandIso2})
	w.StartBox(bmff.TypeMoov)
	w.StartUUIDBox([16]byte{0x85, 0xc0, 0xb6, 0x87})
	w.WriteBox(bmff.TypeCMT1, ifd0.Bytes())
	w.WriteBox(bmff.TypeCMT2, exif.Bytes())
	w.EndBox()
	w.EndBox()

	d, err := FromContainer(w.Bytes(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if e, ok := d.FindEntry(Model); !ok || e.String() != "Canon EOS R6" {
		t.Errorf("Model lookup failed")
	}
	sub, ok := d.FindFirstIFD(ExifIFDPointer)
	if !ok {
		t.Fatal("CMT2 not attached as Exif IFD")
	}
	if e, ok := sub.FindEntry(MakerNote); !ok || e.String() != "from-cmt2" {
		t.Error("MakerNote from CMT2 not found")
	}
}

func TestFromContainerNoMetadata(t *testing.T) {
	w := bmff.NewWriter(nil)
	w.WriteFtyp(bmff.BrandCrx, 1, nil)
	w.WriteBox(bmff.TypeFree, nil)

	if _, err := FromContainer(w.Bytes(), nil); !errors.Is(err, ErrNoMetadata) {
		t.Errorf("got %v, want ErrNoMetadata", err)
	}
}

func TestFromContainerBadCMT1(t *testing.T) {
	w := bmff.NewWriter(nil)
	w.WriteBox(bmff.TypeCMT1, []byte("XX*\x00garbage"))

	if _, err := FromContainer(w.Bytes(), nil); err == nil {
		t.Error("expected CMT1 decode error")
	}
}
