package cr3

import (
	"fmt"

	"github.com/tetsuo/cr3/camera"
	"github.com/tetsuo/cr3/tiffmeta"
)

// applyMetadata copies Make and Model from ifd into cam and records the
// Exif maker note as a hint. Every tag is optional.
func applyMetadata(cam *camera.Camera, ifd *tiffmeta.Dir) {
	if e, ok := ifd.FindEntry(tiffmeta.Make); ok {
		cam.Make = e.String()
		cam.CleanMake = e.String()
	}
	if e, ok := ifd.FindEntry(tiffmeta.Model); ok {
		cam.Model = e.String()
		cam.CleanModel = e.String()
	}
	if exif, ok := ifd.FindFirstIFD(tiffmeta.ExifIFDPointer); ok {
		if e, ok := exif.FindEntry(tiffmeta.MakerNote); ok {
			cam.Hints = append(cam.Hints, "EXIF: "+e.String())
		}
	}
}

// checkDimensions appends a hint when the IFD0 image size disagrees with
// the CRAW header. The header always wins.
func checkDimensions(cam *camera.Camera, ifd *tiffmeta.Dir, h CrawHeader) {
	w, okW := uintTag(ifd, tiffmeta.ImageWidth)
	l, okL := uintTag(ifd, tiffmeta.ImageLength)
	if !okW || !okL {
		return
	}
	if uint32(w) != h.Width || uint32(l) != h.Height {
		cam.Hints = append(cam.Hints,
			fmt.Sprintf("TIFF: ImageWidth/ImageLength %dx%d differ from CRAW %dx%d", w, l, h.Width, h.Height))
	}
}

func uintTag(ifd *tiffmeta.Dir, t tiffmeta.Tag) (int, bool) {
	e, ok := ifd.FindEntry(t)
	if !ok {
		return 0, false
	}
	return e.Uint(0)
}
