package bmff

import (
	"fmt"
	"io"
)

// Reader is a cursor over an immutable buffer. It never copies or
// modifies the buffer; slices it returns point into it.
type Reader struct {
	buf []byte
	pos int // next position to read from
}

// NewReader creates a Reader positioned at the start of buf.
func NewReader(buf []byte) Reader {
	return Reader{buf: buf}
}

// Pos returns the current cursor position.
func (r *Reader) Pos() int { return r.pos }

// Len returns the length of the underlying buffer.
func (r *Reader) Len() int { return len(r.buf) }

// Remaining returns the number of bytes between the cursor and the end
// of the buffer.
func (r *Reader) Remaining() int {
	if r.pos >= len(r.buf) {
		return 0
	}
	return len(r.buf) - r.pos
}

// Seek moves the cursor to an absolute offset. Seeking past the end is
// allowed; subsequent reads fail.
func (r *Reader) Seek(pos int) {
	if pos < 0 {
		pos = 0
	}
	r.pos = pos
}

// Read returns the next n bytes and advances the cursor. On a short read
// the cursor does not move and io.ErrUnexpectedEOF is returned.
func (r *Reader) Read(n int) ([]byte, error) {
	if n < 0 || r.Remaining() < n {
		return nil, io.ErrUnexpectedEOF
	}
	p := r.buf[r.pos : r.pos+n]
	r.pos += n
	return p, nil
}

// Uint32 reads a big-endian uint32.
func (r *Reader) Uint32() (uint32, error) {
	p, err := r.Read(4)
	if err != nil {
		return 0, err
	}
	return be.Uint32(p), nil
}

// Uint8 reads a single byte.
func (r *Reader) Uint8() (uint8, error) {
	p, err := r.Read(1)
	if err != nil {
		return 0, err
	}
	return p[0], nil
}

// ReadBox reads one box header at the cursor and leaves the cursor at the
// start of the box payload.
//
// Header layout: size(4) + type(4) [+ uuid(16) if type is "uuid"].
// The 64-bit size escape (size == 1) is rejected, as are sizes smaller
// than the 8-byte header and boxes that extend past the buffer.
func ReadBox(r *Reader) (Box, error) {
	start := r.pos
	hdr, err := r.Read(8)
	if err != nil {
		return Box{}, fmt.Errorf("%w: box header at offset %d", ErrTruncatedHeader, start)
	}

	b := Box{
		Size:   uint64(be.Uint32(hdr[0:4])),
		Offset: start,
	}
	copy(b.Type[:], hdr[4:8])

	if b.Size == 1 {
		return Box{}, fmt.Errorf("%w: %s at offset %d", ErrUnsupportedLargeBox, b.Type, start)
	}

	if b.Type == TypeUUID {
		id, err := r.Read(16)
		if err != nil {
			return Box{}, fmt.Errorf("%w: uuid at offset %d", ErrTruncatedHeader, start)
		}
		copy(b.UUID[:], id)
	}
	b.DataOffset = r.pos

	if b.Size < 8 {
		return Box{}, fmt.Errorf("%w: %s at offset %d declares %d bytes", ErrInvalidBoxSize, b.Type, start, b.Size)
	}
	if uint64(start)+b.Size > uint64(len(r.buf)) {
		return Box{}, fmt.Errorf("%w: %s at offset %d size %d, buffer is %d bytes",
			ErrBoxOutOfBounds, b.Type, start, b.Size, len(r.buf))
	}
	return b, nil
}

// Payload returns the payload bytes of b. The returned slice points into
// the reader's buffer. b must have been read from r.
func (r *Reader) Payload(b Box) []byte {
	if b.DataOffset >= b.End() {
		return nil
	}
	return r.buf[b.DataOffset:b.End()]
}
