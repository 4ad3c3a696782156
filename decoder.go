package cr3

import (
	"context"
	"log/slog"

	"github.com/tetsuo/cr3/bmff"
	"github.com/tetsuo/cr3/camera"
	"github.com/tetsuo/cr3/tiffmeta"
)

// DefaultMaxPixels is the allocation limit used when Decoder.MaxPixels is zero.
const DefaultMaxPixels = 1 << 30

// Decoder holds decode configuration. The zero value is ready to use and
// a Decoder is safe for concurrent use.
type Decoder struct {
	// Logger receives debug records for stage transitions and box visits.
	// Nil disables logging.
	Logger *slog.Logger

	// Cameras resolves Make/Model when TIFF metadata is supplied. Nil
	// means camera.Default().
	Cameras *camera.Database

	// MaxPixels bounds Width*Height. Zero means DefaultMaxPixels.
	MaxPixels uint64
}

// Decode decodes buf with a zero Decoder.
//
// ifd is the file's IFD0; pass nil when the file carries no TIFF
// metadata, in which case the camera is reported as Canon "EOS CR3".
func Decode(buf []byte, ifd *tiffmeta.Dir, dummy bool) (*RawImage, error) {
	var d Decoder
	return d.Decode(buf, ifd, dummy)
}

// Decode decodes buf. See the package function Decode.
func (d *Decoder) Decode(buf []byte, ifd *tiffmeta.Dir, dummy bool) (*RawImage, error) {
	return d.DecodeContext(context.Background(), buf, ifd, dummy)
}

// DecodeContext is Decode with cancellation checked between stages.
func (d *Decoder) DecodeContext(ctx context.Context, buf []byte, ifd *tiffmeta.Dir, dummy bool) (*RawImage, error) {
	st := decodeState{d: d, ctx: ctx, buf: buf, ifd: ifd, dummy: dummy}
	img, err := st.run()
	if err != nil {
		d.debug("decode failed", "stage", st.stage.String(), "error", err)
		return nil, &DecodeError{Stage: st.stage, Err: err}
	}
	return img, nil
}

type decodeState struct {
	d     *Decoder
	ctx   context.Context
	buf   []byte
	ifd   *tiffmeta.Dir
	dummy bool

	stage  Stage
	cam    camera.Camera
	r      bmff.Reader
	header CrawHeader
	pixels []uint16
}

func (s *decodeState) run() (*RawImage, error) {
	steps := []func() error{
		s.resolveCamera,
		s.findCraw,
		s.parseHeader,
		s.readPixels,
	}
	for _, step := range steps {
		if err := s.ctx.Err(); err != nil {
			return nil, err
		}
		if err := step(); err != nil {
			return nil, err
		}
		s.stage++
		s.d.debug("stage", "stage", s.stage.String())
	}
	s.stage = StageDone
	return &RawImage{
		Width:    int(s.header.Width),
		Height:   int(s.header.Height),
		Pixels:   s.pixels,
		Camera:   s.cam,
		WBCoeffs: neutralWB(),
		Header:   s.header,
		Dummy:    s.dummy,
	}, nil
}

func (s *decodeState) resolveCamera() error {
	if s.ifd == nil {
		s.cam = camera.Fallback()
		return nil
	}
	db := s.d.Cameras
	if db == nil {
		db = camera.Default()
	}
	cam, err := db.CheckSupported(s.ifd)
	if err != nil {
		return err
	}
	applyMetadata(&cam, s.ifd)
	s.cam = cam
	return nil
}

func (s *decodeState) findCraw() error {
	w := bmff.Walker{Logger: s.d.Logger}
	r := bmff.NewReader(s.buf)
	b, ok, err := w.Find(&r, bmff.TypeCRAW)
	if err != nil {
		return err
	}
	if !ok {
		return ErrCrawNotFound
	}
	s.d.debug("found CRAW", "offset", b.Offset, "size", b.Size)
	// Header and samples are read only from within the CRAW box.
	s.r = bmff.NewReader(s.buf[:b.End()])
	s.r.Seek(b.DataOffset)
	return nil
}

func (s *decodeState) parseHeader() error {
	h, err := ParseCrawHeader(&s.r)
	if err != nil {
		return err
	}
	s.header = h
	if s.ifd != nil {
		checkDimensions(&s.cam, s.ifd, h)
	}
	return nil
}

func (s *decodeState) readPixels() error {
	limit := s.d.MaxPixels
	if limit == 0 {
		limit = DefaultMaxPixels
	}
	pix, err := readSamples(&s.r, s.header, s.dummy, limit)
	if err != nil {
		return err
	}
	s.pixels = pix
	return nil
}

func (d *Decoder) debug(msg string, args ...any) {
	if d.Logger != nil {
		d.Logger.Debug(msg, args...)
	}
}
