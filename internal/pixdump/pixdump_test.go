package pixdump

import (
	"bytes"
	"errors"
	"slices"
	"testing"
)

func gradient(w, h int) Image {
	img := Image{Width: w, Height: h, Pixels: make([]uint16, w*h)}
	for i := range img.Pixels {
		img.Pixels[i] = uint16(i % 64)
	}
	return img
}

func TestRoundTrip(t *testing.T) {
	img := gradient(64, 32)
	for _, tag := range []CompressionTag{CompressionNone, CompressionLZ4, CompressionZstd} {
		t.Run(tag.String(), func(t *testing.T) {
			var buf bytes.Buffer
			used, err := Write(&buf, img, tag)
			if err != nil {
				t.Fatal(err)
			}
			if used != tag {
				t.Errorf("stored as %v, want %v", used, tag)
			}
			if tag != CompressionNone && buf.Len() >= headerSize+2*len(img.Pixels) {
				t.Errorf("%v did not shrink a gradient: %d bytes", tag, buf.Len())
			}

			got, err := Read(&buf)
			if err != nil {
				t.Fatal(err)
			}
			if got.Width != img.Width || got.Height != img.Height || !slices.Equal(got.Pixels, img.Pixels) {
				t.Error("round trip changed the image")
			}
		})
	}
}

func TestLZ4Incompressible(t *testing.T) {
	img := Image{Width: 2, Height: 1, Pixels: []uint16{0x1234, 0xabcd}}
	var buf bytes.Buffer
	used, err := Write(&buf, img, CompressionLZ4)
	if err != nil {
		t.Fatal(err)
	}
	if used != CompressionNone {
		t.Errorf("stored as %v, want none", used)
	}
	got, err := Read(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(got.Pixels, img.Pixels) {
		t.Errorf("pixels = %v", got.Pixels)
	}
}

func TestReadErrors(t *testing.T) {
	var good bytes.Buffer
	if _, err := Write(&good, gradient(2, 2), CompressionNone); err != nil {
		t.Fatal(err)
	}
	b := good.Bytes()

	badMagic := slices.Clone(b)
	badMagic[0] = 'X'
	badSize := slices.Clone(b)
	badSize[16]++

	tests := []struct {
		name string
		in   []byte
	}{
		{"empty", nil},
		{"short header", b[:10]},
		{"magic", badMagic},
		{"size mismatch", badSize},
		{"short payload", b[:len(b)-1]},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Read(bytes.NewReader(tt.in)); err == nil {
				t.Error("expected error")
			}
		})
	}

	if _, err := Read(bytes.NewReader(badMagic)); !errors.Is(err, ErrBadDump) {
		t.Errorf("bad magic: %v", err)
	}
}

func TestWriteRejectsWrongLength(t *testing.T) {
	var buf bytes.Buffer
	if _, err := Write(&buf, Image{Width: 2, Height: 2, Pixels: []uint16{1}}, CompressionNone); err == nil {
		t.Error("expected error")
	}
}

func TestParseCompressionTag(t *testing.T) {
	for _, tag := range []CompressionTag{CompressionNone, CompressionLZ4, CompressionZstd} {
		got, err := ParseCompressionTag(tag.String())
		if err != nil || got != tag {
			t.Errorf("ParseCompressionTag(%q) = %v, %v", tag.String(), got, err)
		}
	}
	if _, err := ParseCompressionTag("gzip"); err == nil {
		t.Error("accepted gzip")
	}
}
