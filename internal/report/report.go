// Package report renders decode results for the cr3probe CLI.
package report

import (
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fxamacker/cbor/v2"
	"github.com/zeebo/blake3"
	"gopkg.in/yaml.v3"

	"github.com/tetsuo/cr3"
	"github.com/tetsuo/cr3/bmff"
	"github.com/tetsuo/cr3/tiffmeta"
)

// Format selects the encoding of a Summary.
type Format uint8

const (
	FormatText Format = iota
	FormatYAML
	FormatJSON
	FormatCBOR
)

func (f Format) String() string {
	switch f {
	case FormatText:
		return "text"
	case FormatYAML:
		return "yaml"
	case FormatJSON:
		return "json"
	case FormatCBOR:
		return "cbor"
	default:
		return fmt.Sprintf("unknown(%d)", f)
	}
}

// ParseFormat parses a format name.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "text":
		return FormatText, nil
	case "yaml":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	case "cbor":
		return FormatCBOR, nil
	default:
		return 0, fmt.Errorf("unknown format: %q (supported: text, yaml, json, cbor)", name)
	}
}

// Binary reports whether the format produces non-text output.
func (f Format) Binary() bool { return f == FormatCBOR }

// encMode encodes with Core Deterministic Encoding so equal summaries
// produce identical bytes.
var encMode cbor.EncMode

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("report: CBOR encoder initialization failed: " + err.Error())
	}
}

// Summary describes one decoded file.
type Summary struct {
	Path         string    `yaml:"path" json:"path" cbor:"path"`
	Size         int64     `yaml:"size" json:"size" cbor:"size"`
	Brands       []string  `yaml:"brands" json:"brands" cbor:"brands"`
	Make         string    `yaml:"make" json:"make" cbor:"make"`
	Model        string    `yaml:"model" json:"model" cbor:"model"`
	CleanMake    string    `yaml:"clean_make" json:"clean_make" cbor:"clean_make"`
	CleanModel   string    `yaml:"clean_model" json:"clean_model" cbor:"clean_model"`
	Mode         string    `yaml:"mode,omitempty" json:"mode,omitempty" cbor:"mode,omitempty"`
	Width        int       `yaml:"width" json:"width" cbor:"width"`
	Height       int       `yaml:"height" json:"height" cbor:"height"`
	BitDepth     uint8     `yaml:"bit_depth" json:"bit_depth" cbor:"bit_depth"`
	Components   uint8     `yaml:"components" json:"components" cbor:"components"`
	WhiteBalance []float32 `yaml:"white_balance" json:"white_balance" cbor:"white_balance"`
	Hints        []string  `yaml:"hints,omitempty" json:"hints,omitempty" cbor:"hints,omitempty"`
	// PixelDigest is empty when pixels were not decoded.
	PixelDigest string     `yaml:"pixel_digest,omitempty" json:"pixel_digest,omitempty" cbor:"pixel_digest,omitempty"`
	Tags        []TagValue `yaml:"tags,omitempty" json:"tags,omitempty" cbor:"tags,omitempty"`
}

// TagValue is one TIFF directory entry.
type TagValue struct {
	IFD   string `yaml:"ifd" json:"ifd" cbor:"ifd"`
	Tag   string `yaml:"tag" json:"tag" cbor:"tag"`
	Count int    `yaml:"count" json:"count" cbor:"count"`
	Value string `yaml:"value" json:"value" cbor:"value"`
}

// maxListedValues caps how many integers of one entry are rendered.
const maxListedValues = 8

// TagValues lists the entries of ifd followed by those of its Exif
// sub-directory. A nil ifd yields nil.
func TagValues(ifd *tiffmeta.Dir) []TagValue {
	if ifd == nil {
		return nil
	}
	var out []TagValue
	list := func(name string, d *tiffmeta.Dir) {
		d.Entries(func(t tiffmeta.Tag, e *tiffmeta.Entry) {
			out = append(out, TagValue{IFD: name, Tag: t.String(), Count: e.Count(), Value: entryValue(e)})
		})
	}
	list("IFD0", ifd)
	if exif, ok := ifd.FindFirstIFD(tiffmeta.ExifIFDPointer); ok {
		list("Exif", exif)
	}
	return out
}

// entryValue renders integer entries as their values and everything else
// through Entry.String.
func entryValue(e *tiffmeta.Entry) string {
	if _, ok := e.Uint(0); !ok {
		return e.String()
	}
	n := min(e.Count(), maxListedValues)
	vals := make([]string, 0, n)
	for i := range n {
		v, ok := e.Uint(i)
		if !ok {
			return e.String()
		}
		vals = append(vals, strconv.Itoa(v))
	}
	s := strings.Join(vals, " ")
	if e.Count() > n {
		s += " ..."
	}
	return s
}

// NewSummary builds a Summary for a decoded image.
func NewSummary(path string, size int64, brands bmff.BrandList, img *cr3.RawImage) Summary {
	s := Summary{
		Path:       path,
		Size:       size,
		Make:       img.Camera.Make,
		Model:      img.Camera.Model,
		CleanMake:  img.Camera.CleanMake,
		CleanModel: img.Camera.CleanModel,
		Mode:       img.Camera.Mode,
		Width:      img.Width,
		Height:     img.Height,
		BitDepth:   img.Header.BitDepth,
		Components: img.Header.Components,
		Hints:      img.Camera.Hints,
	}
	for _, b := range brands {
		s.Brands = append(s.Brands, b.String())
	}
	// NaN marks an absent channel and is not representable in JSON.
	for _, c := range img.WBCoeffs {
		if !math.IsNaN(float64(c)) {
			s.WhiteBalance = append(s.WhiteBalance, c)
		}
	}
	if !img.Dummy {
		s.PixelDigest = PixelDigest(img.Pixels)
	}
	return s
}

// PixelDigest returns the hex BLAKE3 digest of pix encoded as
// little-endian uint16 samples.
func PixelDigest(pix []uint16) string {
	h := blake3.New()
	var buf [4096]byte
	for len(pix) > 0 {
		n := min(len(pix), len(buf)/2)
		for i, v := range pix[:n] {
			binary.LittleEndian.PutUint16(buf[2*i:], v)
		}
		h.Write(buf[:2*n])
		pix = pix[n:]
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Write encodes summaries to w in format f. Text, YAML and JSON write
// one document per summary; CBOR writes one array.
func Write(w io.Writer, f Format, summaries []Summary) error {
	switch f {
	case FormatText:
		for i, s := range summaries {
			if i > 0 {
				fmt.Fprintln(w)
			}
			if err := writeText(w, s); err != nil {
				return err
			}
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		for _, s := range summaries {
			if err := enc.Encode(s); err != nil {
				return fmt.Errorf("encoding yaml: %w", err)
			}
		}
		return enc.Close()
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		for _, s := range summaries {
			if err := enc.Encode(s); err != nil {
				return fmt.Errorf("encoding json: %w", err)
			}
		}
		return nil
	case FormatCBOR:
		data, err := encMode.Marshal(summaries)
		if err != nil {
			return fmt.Errorf("encoding cbor: %w", err)
		}
		_, err = w.Write(data)
		return err
	default:
		return fmt.Errorf("unsupported format: %v", f)
	}
}

func writeText(w io.Writer, s Summary) error {
	lines := []struct{ k, v string }{
		{"file", s.Path},
		{"size", humanize.IBytes(uint64(s.Size))},
		{"brands", strings.Join(s.Brands, ",")},
		{"camera", strings.TrimSpace(s.CleanMake + " " + s.CleanModel)},
		{"dimensions", fmt.Sprintf("%dx%d", s.Width, s.Height)},
		{"bit depth", fmt.Sprintf("%d (%d components)", s.BitDepth, s.Components)},
		{"white bal", fmt.Sprint(s.WhiteBalance)},
	}
	if s.Mode != "" {
		lines = append(lines, struct{ k, v string }{"mode", s.Mode})
	}
	if s.PixelDigest != "" {
		lines = append(lines, struct{ k, v string }{"blake3", s.PixelDigest})
	}
	for _, h := range s.Hints {
		lines = append(lines, struct{ k, v string }{"hint", h})
	}
	for _, t := range s.Tags {
		lines = append(lines, struct{ k, v string }{"tag", fmt.Sprintf("%s %s [%d] %s", t.IFD, t.Tag, t.Count, t.Value)})
	}
	for _, l := range lines {
		if _, err := fmt.Fprintf(w, "%-11s %s\n", l.k+":", l.v); err != nil {
			return err
		}
	}
	return nil
}
