package bmff

import (
	"errors"
	"testing"
)

func TestReadBox(t *testing.T) {
	w := NewWriter(nil)
	w.WriteBox(TypeFree, []byte{1, 2, 3, 4})
	w.WriteBox(TypeSkip, nil)

	r := NewReader(w.Bytes())
	b, err := ReadBox(&r)
	if err != nil {
		t.Fatal(err)
	}
	if b.Type != TypeFree || b.Size != 12 || b.Offset != 0 || b.DataOffset != 8 {
		t.Errorf("first box = %+v", b)
	}
	if r.Pos() != b.DataOffset {
		t.Errorf("cursor at %d, want payload start %d", r.Pos(), b.DataOffset)
	}
	if got := r.Payload(b); len(got) != 4 || got[3] != 4 {
		t.Errorf("payload = %v", got)
	}

	r.Seek(b.End())
	b, err = ReadBox(&r)
	if err != nil {
		t.Fatal(err)
	}
	if b.Type != TypeSkip || b.Offset != 12 || b.DataSize() != 0 {
		t.Errorf("second box = %+v", b)
	}
}

func TestReadBoxUUID(t *testing.T) {
	id := [16]byte{0x85, 0xc0, 0xb6, 0x87, 0x82, 0x0f, 0x11, 0xe0, 0x81, 0x11, 0xf4, 0xce, 0x46, 0x2b, 0x6a, 0x48}
	w := NewWriter(nil)
	w.StartUUIDBox(id)
	w.PutUint32(0xdeadbeef)
	w.EndBox()

	r := NewReader(w.Bytes())
	b, err := ReadBox(&r)
	if err != nil {
		t.Fatal(err)
	}
	if b.UUID != id {
		t.Errorf("uuid = %x", b.UUID)
	}
	if b.DataOffset != 24 || b.HeaderSize() != 24 || b.DataSize() != 4 {
		t.Errorf("uuid box = %+v", b)
	}
}

func TestReadBoxErrors(t *testing.T) {
	tests := []struct {
		name string
		buf  []byte
		want error
	}{
		{"short header", []byte{0, 0, 0, 8, 'f', 'r'}, ErrTruncatedHeader},
		{"large box", []byte{0, 0, 0, 1, 'm', 'd', 'a', 't', 0, 0, 0, 0, 0, 0, 0, 16}, ErrUnsupportedLargeBox},
		{"size zero", []byte{0, 0, 0, 0, 'f', 'r', 'e', 'e'}, ErrInvalidBoxSize},
		{"size seven", []byte{0, 0, 0, 7, 'f', 'r', 'e', 'e'}, ErrInvalidBoxSize},
		{"beyond buffer", []byte{0, 0, 0, 64, 'f', 'r', 'e', 'e', 0, 0}, ErrBoxOutOfBounds},
		{"short uuid", []byte{0, 0, 0, 24, 'u', 'u', 'i', 'd', 1, 2, 3}, ErrTruncatedHeader},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewReader(tt.buf)
			_, err := ReadBox(&r)
			if !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestReadBoxSmallSizeNeverParses(t *testing.T) {
	for size := byte(0); size < 8; size++ {
		if size == 1 {
			continue
		}
		r := NewReader([]byte{0, 0, 0, size, 's', 'k', 'i', 'p', 0, 0, 0, 0})
		if _, err := ReadBox(&r); !errors.Is(err, ErrInvalidBoxSize) {
			t.Errorf("size %d: got %v, want ErrInvalidBoxSize", size, err)
		}
	}
}

func TestReaderShortRead(t *testing.T) {
	r := NewReader([]byte{1, 2, 3})
	if _, err := r.Uint32(); err == nil {
		t.Fatal("expected short read error")
	}
	if r.Pos() != 0 {
		t.Errorf("short read moved cursor to %d", r.Pos())
	}
	v, err := r.Uint8()
	if err != nil || v != 1 {
		t.Errorf("Uint8() = %d, %v", v, err)
	}
	r.Seek(10)
	if r.Remaining() != 0 {
		t.Errorf("Remaining() past end = %d", r.Remaining())
	}
}
