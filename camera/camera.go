// Package camera resolves camera identity for decoded CR3 files. A
// Database maps the Make/Model strings found in TIFF metadata to a
// Camera record; the built-in database lists the Canon bodies that write
// CR3 files and can be extended with user overlay files.
package camera

import "errors"

// ErrUnsupportedCamera is returned when make/model are missing or unknown.
var ErrUnsupportedCamera = errors.New("camera: unsupported camera")

// Camera identifies the body that produced a file.
type Camera struct {
	Make       string
	CleanMake  string
	Model      string
	CleanModel string
	// Mode distinguishes raw variants written by the same body
	// (for example "craw" for compact raw).
	Mode string
	// Hints carries diagnostic strings gathered while decoding.
	Hints []string
}

// Fallback is the record used when a file carries no TIFF metadata.
func Fallback() Camera {
	return Camera{
		Make:       "Canon",
		CleanMake:  "Canon",
		Model:      "EOS CR3",
		CleanModel: "EOS CR3",
	}
}
