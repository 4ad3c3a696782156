package bmff

import "errors"

var (
	// ErrMalformedBrandTag is returned when a brand is not exactly 4 bytes.
	ErrMalformedBrandTag = errors.New("bmff: brand must be 4 bytes")

	// ErrNotBMFF is returned when the buffer does not start with an ftyp box.
	ErrNotBMFF = errors.New("bmff: missing ftyp box")

	// ErrTruncatedHeader is returned on a short read inside a header.
	ErrTruncatedHeader = errors.New("bmff: truncated header")

	// ErrUnsupportedLargeBox is returned for boxes using the 64-bit size escape.
	ErrUnsupportedLargeBox = errors.New("bmff: unsupported large box")

	// ErrInvalidBoxSize is returned for declared sizes below the 8-byte header.
	ErrInvalidBoxSize = errors.New("bmff: invalid box size")

	// ErrBoxOutOfBounds is returned when a box extends past the buffer.
	ErrBoxOutOfBounds = errors.New("bmff: box extends beyond buffer")
)
