package cr3

import (
	"math"

	"github.com/tetsuo/cr3/camera"
)

// RawImage is the result of a decode.
type RawImage struct {
	Width  int
	Height int
	// Pixels holds Width*Height samples, row-major. All zero in dummy mode.
	Pixels []uint16
	Camera camera.Camera
	// WBCoeffs are white balance multipliers for R, G, B and the second
	// green. NaN in the last slot means there is no second green channel.
	WBCoeffs [4]float32
	Header   CrawHeader
	Dummy    bool
}

// neutralWB is emitted for every image; white balance is not read from
// metadata.
func neutralWB() [4]float32 {
	return [4]float32{1, 1, 1, float32(math.NaN())}
}
