package bmff

import (
	"bytes"
	"errors"
	"testing"
)

func TestScanner(t *testing.T) {
	w := NewWriter(nil)
	w.Write(nestedFixture([]byte{1, 2, 3}))
	w.StartUUIDBox([16]byte{9})
	w.PutZeros(4)
	w.EndBox()

	sc := NewScanner(bytes.NewReader(w.Bytes()))
	var got []Box
	for sc.Next() {
		got = append(got, sc.Box())
	}
	if err := sc.Err(); err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Fatalf("scanned %d top-level boxes, want 3", len(got))
	}
	if got[0].Type != TypeFtyp || got[1].Type != TypeMoov || got[2].Type != TypeUUID {
		t.Errorf("types = %s %s %s", got[0].Type, got[1].Type, got[2].Type)
	}
	if got[2].UUID[0] != 9 || got[2].HeaderSize() != 24 {
		t.Errorf("uuid box = %+v", got[2])
	}
	if got[1].End() != got[2].Offset {
		t.Errorf("moov ends at %d, uuid starts at %d", got[1].End(), got[2].Offset)
	}
}

func TestScannerReadBody(t *testing.T) {
	w := NewWriter(nil)
	w.WriteBox(TypeFree, []byte("abc"))
	w.WriteBox(TypeSkip, []byte("de"))

	sc := NewScanner(bytes.NewReader(w.Bytes()))
	if !sc.Next() {
		t.Fatal(sc.Err())
	}
	body := make([]byte, sc.Box().DataSize())
	if err := sc.ReadBody(body); err != nil {
		t.Fatal(err)
	}
	if string(body) != "abc" {
		t.Errorf("body = %q", body)
	}
	if !sc.Next() || sc.Box().Type != TypeSkip {
		t.Errorf("ReadBody disturbed iteration: %v", sc.Err())
	}
}

func TestScannerErrors(t *testing.T) {
	tests := []struct {
		name string
		buf  []byte
		want error
	}{
		{"large box", []byte{0, 0, 0, 1, 'm', 'd', 'a', 't', 0, 0, 0, 0, 0, 0, 0, 16}, ErrUnsupportedLargeBox},
		{"small size", []byte{0, 0, 0, 4, 'f', 'r', 'e', 'e'}, ErrInvalidBoxSize},
		{"past end", []byte{0, 0, 0, 99, 'f', 'r', 'e', 'e'}, ErrBoxOutOfBounds},
		{"partial header", []byte{0, 0, 0, 8, 'f'}, ErrTruncatedHeader},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := NewScanner(bytes.NewReader(tt.buf))
			if sc.Next() {
				t.Fatal("Next() = true")
			}
			if !errors.Is(sc.Err(), tt.want) {
				t.Errorf("Err() = %v, want %v", sc.Err(), tt.want)
			}
		})
	}
}
