// Package pixdump stores decoded raw samples in a small self-describing
// file, optionally compressed.
//
// Layout (big-endian):
//
//	magic "CRPX"(4) compression(1) width(4) height(4) raw_size(4) payload
//
// The payload is the samples as little-endian uint16, row-major, encoded
// with the named compression.
package pixdump

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

const headerSize = 17

var magic = [4]byte{'C', 'R', 'P', 'X'}

// ErrBadDump is returned for input that is not a pixel dump.
var ErrBadDump = errors.New("pixdump: not a pixel dump")

// CompressionTag identifies the payload compression. Tags are stored in
// the file header.
type CompressionTag uint8

const (
	CompressionNone CompressionTag = 0
	// CompressionLZ4 is LZ4 block compression.
	CompressionLZ4 CompressionTag = 1
	// CompressionZstd is zstd at the default level.
	CompressionZstd CompressionTag = 2
)

func (tag CompressionTag) String() string {
	switch tag {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZstd:
		return "zstd"
	default:
		return fmt.Sprintf("unknown(%d)", tag)
	}
}

// ParseCompressionTag parses a compression name.
func ParseCompressionTag(name string) (CompressionTag, error) {
	switch name {
	case "none":
		return CompressionNone, nil
	case "lz4":
		return CompressionLZ4, nil
	case "zstd":
		return CompressionZstd, nil
	default:
		return 0, fmt.Errorf("unknown compression tag: %q", name)
	}
}

// zstd.Encoder and zstd.Decoder are safe for concurrent use.
var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error
	zstdEncoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		panic("pixdump: zstd encoder initialization failed: " + err.Error())
	}
	zstdDecoder, err = zstd.NewReader(nil)
	if err != nil {
		panic("pixdump: zstd decoder initialization failed: " + err.Error())
	}
}

// Image is the content of a dump.
type Image struct {
	Width  int
	Height int
	Pixels []uint16
}

// Write encodes img to w. When LZ4 cannot shrink the data the payload is
// stored uncompressed; the tag actually used is returned.
func Write(w io.Writer, img Image, tag CompressionTag) (CompressionTag, error) {
	if len(img.Pixels) != img.Width*img.Height {
		return 0, fmt.Errorf("pixdump: %d samples for a %dx%d image", len(img.Pixels), img.Width, img.Height)
	}
	raw := make([]byte, 2*len(img.Pixels))
	for i, v := range img.Pixels {
		binary.LittleEndian.PutUint16(raw[2*i:], v)
	}
	if uint64(len(raw)) > math.MaxUint32 {
		return 0, fmt.Errorf("pixdump: %d byte payload too large", len(raw))
	}

	payload, tag, err := compress(raw, tag)
	if err != nil {
		return 0, err
	}

	hdr := make([]byte, 0, headerSize)
	hdr = append(hdr, magic[:]...)
	hdr = append(hdr, byte(tag))
	hdr = binary.BigEndian.AppendUint32(hdr, uint32(img.Width))
	hdr = binary.BigEndian.AppendUint32(hdr, uint32(img.Height))
	hdr = binary.BigEndian.AppendUint32(hdr, uint32(len(raw)))
	if _, err := w.Write(hdr); err != nil {
		return 0, err
	}
	if _, err := w.Write(payload); err != nil {
		return 0, err
	}
	return tag, nil
}

// Read decodes a dump written by Write.
func Read(r io.Reader) (Image, error) {
	var hdr [headerSize]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return Image{}, fmt.Errorf("%w: %v", ErrBadDump, err)
	}
	if [4]byte(hdr[0:4]) != magic {
		return Image{}, ErrBadDump
	}
	tag := CompressionTag(hdr[4])
	img := Image{
		Width:  int(binary.BigEndian.Uint32(hdr[5:9])),
		Height: int(binary.BigEndian.Uint32(hdr[9:13])),
	}
	rawSize := int(binary.BigEndian.Uint32(hdr[13:17]))
	if rawSize != 2*img.Width*img.Height {
		return Image{}, fmt.Errorf("%w: %d payload bytes for %dx%d", ErrBadDump, rawSize, img.Width, img.Height)
	}

	payload, err := io.ReadAll(r)
	if err != nil {
		return Image{}, err
	}
	raw, err := decompress(payload, tag, rawSize)
	if err != nil {
		return Image{}, err
	}
	img.Pixels = make([]uint16, img.Width*img.Height)
	for i := range img.Pixels {
		img.Pixels[i] = binary.LittleEndian.Uint16(raw[2*i:])
	}
	return img, nil
}

func compress(data []byte, tag CompressionTag) ([]byte, CompressionTag, error) {
	switch tag {
	case CompressionNone:
		return data, CompressionNone, nil
	case CompressionZstd:
		return zstdEncoder.EncodeAll(data, nil), CompressionZstd, nil
	case CompressionLZ4:
		dst := make([]byte, lz4.CompressBlockBound(len(data)))
		n, err := lz4.CompressBlock(data, dst, nil)
		if err != nil {
			return nil, 0, fmt.Errorf("lz4 compress: %w", err)
		}
		// 0 means incompressible.
		if n == 0 || n >= len(data) {
			return data, CompressionNone, nil
		}
		return dst[:n], CompressionLZ4, nil
	default:
		return nil, 0, fmt.Errorf("unsupported compression tag: %d", tag)
	}
}

func decompress(data []byte, tag CompressionTag, size int) ([]byte, error) {
	switch tag {
	case CompressionNone:
		if len(data) != size {
			return nil, fmt.Errorf("uncompressed payload: size %d does not match expected %d", len(data), size)
		}
		return data, nil
	case CompressionZstd:
		out, err := zstdDecoder.DecodeAll(data, make([]byte, 0, size))
		if err != nil {
			return nil, fmt.Errorf("zstd decompress: %w", err)
		}
		if len(out) != size {
			return nil, fmt.Errorf("zstd decompress: got %d bytes, expected %d", len(out), size)
		}
		return out, nil
	case CompressionLZ4:
		out := make([]byte, size)
		n, err := lz4.UncompressBlock(data, out)
		if err != nil {
			return nil, fmt.Errorf("lz4 decompress: %w", err)
		}
		if n != size {
			return nil, fmt.Errorf("lz4 decompress: got %d bytes, expected %d", n, size)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported compression tag: %d", tag)
	}
}
