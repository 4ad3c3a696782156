package cr3

import (
	"errors"
	"fmt"

	"github.com/tetsuo/cr3/bmff"
)

var (
	// ErrNotCR3 is returned for BMFF files that declare no CR3 brand.
	ErrNotCR3 = errors.New("cr3: not a CR3 file")

	// ErrCrawNotFound is returned when the container holds no CRAW box.
	ErrCrawNotFound = errors.New("cr3: no CRAW box")

	// ErrInvalidCrawHeader is the parent of every CRAW header validation error.
	ErrInvalidCrawHeader = errors.New("cr3: invalid CRAW header")

	// ErrInvalidDimensions is returned when width or height is zero.
	ErrInvalidDimensions = fmt.Errorf("%w: invalid dimensions", ErrInvalidCrawHeader)

	// ErrInvalidBitDepth is returned when the bit depth is outside 1..32.
	ErrInvalidBitDepth = fmt.Errorf("%w: invalid bit depth", ErrInvalidCrawHeader)

	// ErrInvalidComponentCount is returned when the component count is zero.
	ErrInvalidComponentCount = fmt.Errorf("%w: invalid component count", ErrInvalidCrawHeader)

	// ErrUnsupportedBitDepth is returned for samples that are not 1 or 2 bytes wide.
	ErrUnsupportedBitDepth = errors.New("cr3: unsupported bit depth")

	// ErrTruncatedPixelData is returned when a sample row is cut short.
	ErrTruncatedPixelData = errors.New("cr3: truncated pixel data")

	// ErrImageTooLarge is returned when the header declares more pixels
	// than the decoder is configured to allocate.
	ErrImageTooLarge = errors.New("cr3: image too large")
)

// IsFormatMismatch reports whether err means the input is not a CR3 file
// at all, as opposed to a CR3 file that is damaged. A dispatch layer can
// try another decoder on a mismatch.
func IsFormatMismatch(err error) bool {
	return errors.Is(err, bmff.ErrNotBMFF) || errors.Is(err, ErrNotCR3)
}

// Stage is a step of the decode state machine.
type Stage int

const (
	StageInit Stage = iota
	StageCameraResolved
	StageBoxSearch
	StageHeaderParsed
	StagePixelsDecoded
	StageDone
)

var stageNames = [...]string{
	StageInit:           "init",
	StageCameraResolved: "camera-resolved",
	StageBoxSearch:      "box-search",
	StageHeaderParsed:   "header-parsed",
	StagePixelsDecoded:  "pixels-decoded",
	StageDone:           "done",
}

func (s Stage) String() string {
	if s >= 0 && int(s) < len(stageNames) {
		return stageNames[s]
	}
	return fmt.Sprintf("Stage(%d)", int(s))
}

// DecodeError records the stage a decode failed in. Stage is the last
// stage that completed; the failure happened while leaving it.
type DecodeError struct {
	Stage Stage
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("cr3: decode failed after %s: %v", e.Stage, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
