package bmff

import (
	"fmt"
	"io"
)

// Scanner reads top-level box headers from an io.ReadSeeker without
// loading box contents into memory. It applies the same header rules as
// ReadBox.
//
// Typical usage:
//
//	f, _ := os.Open("IMG_0001.CR3")
//	sc := bmff.NewScanner(f)
//	for sc.Next() {
//	    b := sc.Box()
//	    ...
//	}
//	if err := sc.Err(); err != nil { ... }
type Scanner struct {
	rs   io.ReadSeeker
	hdr  [24]byte // reusable header buffer
	box  Box
	err  error
	pos  int64 // current position in stream
	size int64 // stream length, -1 until known
}

// NewScanner creates a Scanner that reads box headers from rs, starting
// at its current position.
func NewScanner(rs io.ReadSeeker) Scanner {
	return Scanner{rs: rs, size: -1}
}

// Next advances to the next top-level box. Returns false when there
// are no more boxes or an error occurs. Check Err() after the loop.
func (s *Scanner) Next() bool {
	if s.err != nil {
		return false
	}
	if s.size < 0 {
		if err := s.measure(); err != nil {
			s.err = err
			return false
		}
	}

	_, err := io.ReadFull(s.rs, s.hdr[:8])
	if err != nil {
		if err == io.ErrUnexpectedEOF {
			s.err = fmt.Errorf("%w: box header at offset %d", ErrTruncatedHeader, s.pos)
		} else if err != io.EOF {
			s.err = err
		}
		return false
	}

	boxStart := s.pos
	b := Box{
		Size:   uint64(be.Uint32(s.hdr[:4])),
		Offset: int(boxStart),
	}
	copy(b.Type[:], s.hdr[4:8])
	headerSize := 8

	if b.Size == 1 {
		s.err = fmt.Errorf("%w: %s at offset %d", ErrUnsupportedLargeBox, b.Type, boxStart)
		return false
	}
	if b.Type == TypeUUID {
		if _, err := io.ReadFull(s.rs, s.hdr[8:24]); err != nil {
			s.err = fmt.Errorf("%w: uuid at offset %d", ErrTruncatedHeader, boxStart)
			return false
		}
		copy(b.UUID[:], s.hdr[8:24])
		headerSize = 24
	}
	b.DataOffset = int(boxStart) + headerSize

	if b.Size < 8 {
		s.err = fmt.Errorf("%w: %s at offset %d declares %d bytes", ErrInvalidBoxSize, b.Type, boxStart, b.Size)
		return false
	}
	if boxStart+int64(b.Size) > s.size {
		s.err = fmt.Errorf("%w: %s at offset %d size %d, stream is %d bytes",
			ErrBoxOutOfBounds, b.Type, boxStart, b.Size, s.size)
		return false
	}

	s.box = b
	// Skip past this box's data to position for the next call
	s.pos = boxStart + int64(b.Size)
	if _, err := s.rs.Seek(s.pos, io.SeekStart); err != nil {
		s.err = err
		return false
	}
	return true
}

// measure records the stream length and restores the read position.
func (s *Scanner) measure() error {
	cur, err := s.rs.Seek(0, io.SeekCurrent)
	if err != nil {
		return err
	}
	end, err := s.rs.Seek(0, io.SeekEnd)
	if err != nil {
		return err
	}
	if _, err := s.rs.Seek(cur, io.SeekStart); err != nil {
		return err
	}
	s.pos = cur
	s.size = end
	return nil
}

// Box returns the current box header. Only valid after Next returns true.
func (s *Scanner) Box() Box {
	return s.box
}

// Err returns the first non-EOF error encountered by the Scanner.
func (s *Scanner) Err() error {
	return s.err
}

// ReadBody reads the current box's payload (excluding header) into buf.
// buf must be exactly DataSize() bytes. The scanner seeks to the payload,
// reads, then seeks back so that subsequent Next calls work correctly.
func (s *Scanner) ReadBody(buf []byte) error {
	saved := s.pos

	if _, err := s.rs.Seek(int64(s.box.DataOffset), io.SeekStart); err != nil {
		return err
	}
	if _, err := io.ReadFull(s.rs, buf); err != nil {
		return err
	}

	if _, err := s.rs.Seek(saved, io.SeekStart); err != nil {
		return err
	}
	return nil
}
