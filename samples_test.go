package cr3

import (
	"errors"
	"testing"

	"github.com/tetsuo/cr3/bmff"
)

func TestReadSamplesDummy(t *testing.T) {
	buf := crawBytes(4000, 3000, 16, 3)
	r := bmff.NewReader(buf)
	h, err := ParseCrawHeader(&r)
	if err != nil {
		t.Fatal(err)
	}

	pix, err := ReadSamples(&r, h, true)
	if err != nil {
		t.Fatal(err)
	}
	if len(pix) != 12_000_000 {
		t.Errorf("len = %d, want 12000000", len(pix))
	}
	if r.Pos() != CrawHeaderSize {
		t.Errorf("cursor at %d, want %d", r.Pos(), CrawHeaderSize)
	}
}

func TestReadSamples(t *testing.T) {
	tests := []struct {
		name string
		hdr  CrawHeader
		data []byte
		want []uint16
	}{
		{
			name: "8 bit",
			hdr:  CrawHeader{Width: 3, Height: 1, BitDepth: 8, Components: 1},
			data: []byte{0x00, 0x7f, 0xff},
			want: []uint16{0, 127, 255},
		},
		{
			name: "16 bit little endian",
			hdr:  CrawHeader{Width: 1, Height: 1, BitDepth: 16, Components: 1},
			data: []byte{0x34, 0x12},
			want: []uint16{0x1234},
		},
		{
			name: "14 bit uses two bytes",
			hdr:  CrawHeader{Width: 2, Height: 2, BitDepth: 14, Components: 3},
			data: []byte{0x01, 0x00, 0xff, 0x3f, 0x00, 0x01, 0x02, 0x00},
			want: []uint16{1, 0x3fff, 0x100, 2},
		},
		{
			name: "4 bit uses one byte",
			hdr:  CrawHeader{Width: 2, Height: 1, BitDepth: 4, Components: 1},
			data: []byte{0x0f, 0x03},
			want: []uint16{15, 3},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := bmff.NewReader(tt.data)
			pix, err := ReadSamples(&r, tt.hdr, false)
			if err != nil {
				t.Fatal(err)
			}
			if len(pix) != len(tt.want) {
				t.Fatalf("len = %d, want %d", len(pix), len(tt.want))
			}
			for i := range pix {
				if pix[i] != tt.want[i] {
					t.Errorf("pix[%d] = %#x, want %#x", i, pix[i], tt.want[i])
				}
			}
			if r.Remaining() != 0 {
				t.Errorf("%d bytes left unread", r.Remaining())
			}
		})
	}
}

func TestReadSamplesErrors(t *testing.T) {
	tests := []struct {
		name string
		hdr  CrawHeader
		data []byte
		want error
	}{
		{"24 bit", CrawHeader{Width: 1, Height: 1, BitDepth: 24, Components: 1}, make([]byte, 3), ErrUnsupportedBitDepth},
		{"32 bit", CrawHeader{Width: 1, Height: 1, BitDepth: 32, Components: 1}, make([]byte, 4), ErrUnsupportedBitDepth},
		{"short first row", CrawHeader{Width: 4, Height: 1, BitDepth: 8, Components: 1}, make([]byte, 3), ErrTruncatedPixelData},
		{"short last row", CrawHeader{Width: 2, Height: 3, BitDepth: 16, Components: 1}, make([]byte, 10), ErrTruncatedPixelData},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := bmff.NewReader(tt.data)
			if _, err := ReadSamples(&r, tt.hdr, false); !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestReadSamplesTruncatedReportsRow(t *testing.T) {
	hdr := CrawHeader{Width: 2, Height: 3, BitDepth: 16, Components: 1}
	r := bmff.NewReader(make([]byte, 10))
	_, err := ReadSamples(&r, hdr, false)
	want := "cr3: truncated pixel data: row 2 at offset 8: need 4 bytes, have 2"
	if err == nil || err.Error() != want {
		t.Errorf("got %v, want %q", err, want)
	}
}

func TestReadSamplesLimit(t *testing.T) {
	hdr := CrawHeader{Width: 100, Height: 100, BitDepth: 8, Components: 1}
	r := bmff.NewReader(nil)
	if _, err := readSamples(&r, hdr, true, 9999); !errors.Is(err, ErrImageTooLarge) {
		t.Errorf("got %v, want ErrImageTooLarge", err)
	}
}

func TestReadSamplesHugeHeader(t *testing.T) {
	hdr := CrawHeader{Width: 0xffffffff, Height: 0xffffffff, BitDepth: 16, Components: 3}

	r := bmff.NewReader(nil)
	if _, err := ReadSamples(&r, hdr, true); !errors.Is(err, ErrImageTooLarge) {
		t.Errorf("dummy: got %v, want ErrImageTooLarge", err)
	}
	if _, err := readSamples(&r, hdr, true, 0); !errors.Is(err, ErrImageTooLarge) {
		t.Errorf("no limit: got %v, want ErrImageTooLarge", err)
	}
	if _, err := ReadSamples(&r, hdr, false); !errors.Is(err, ErrTruncatedPixelData) {
		t.Errorf("full: got %v, want ErrTruncatedPixelData", err)
	}
}
