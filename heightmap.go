package roads2dem

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/pkg/errors"
)

// Heightmap is a dense grid of terrain elevations in meters. World coordinates
// map onto the grid through the meters-per-pixel scale with the origin at
// pixel (0,0).
type Heightmap struct {
	Width          int
	Height         int
	MetersPerPixel float64
	data           []float64
}

// NewHeightmap builds a zero-filled heightmap
func NewHeightmap(width, height int, metersPerPixel float64) (*Heightmap, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.Errorf("Bad heightmap dimensions: %dx%d", width, height)
	}
	if metersPerPixel <= 0 {
		return nil, errors.Errorf("Bad meters per pixel scale: %f", metersPerPixel)
	}
	return &Heightmap{
		Width:          width,
		Height:         height,
		MetersPerPixel: metersPerPixel,
		data:           make([]float64, width*height),
	}, nil
}

// NewHeightmapFromData wraps an existing elevation buffer (row-major, width*height)
func NewHeightmapFromData(data []float64, width, height int, metersPerPixel float64) (*Heightmap, error) {
	if len(data) != width*height {
		return nil, errors.Errorf("Elevation buffer length %d does not match %dx%d", len(data), width, height)
	}
	hm, err := NewHeightmap(width, height, metersPerPixel)
	if err != nil {
		return nil, err
	}
	copy(hm.data, data)
	return hm, nil
}

// At returns elevation at pixel (x,y)
func (hm *Heightmap) At(x, y int) float64 {
	return hm.data[y*hm.Width+x]
}

// Set overwrites elevation at pixel (x,y)
func (hm *Heightmap) Set(x, y int, elevation float64) {
	hm.data[y*hm.Width+x] = elevation
}

// InBounds reports whether pixel (x,y) lies inside the grid
func (hm *Heightmap) InBounds(x, y int) bool {
	return x >= 0 && x < hm.Width && y >= 0 && y < hm.Height
}

// Data exposes the underlying row-major elevation buffer
func (hm *Heightmap) Data() []float64 {
	return hm.data
}

// Clone returns a deep copy
func (hm *Heightmap) Clone() *Heightmap {
	clone := &Heightmap{
		Width:          hm.Width,
		Height:         hm.Height,
		MetersPerPixel: hm.MetersPerPixel,
		data:           make([]float64, len(hm.data)),
	}
	copy(clone.data, hm.data)
	return clone
}

// WorldToPixel maps a world point to the nearest pixel. The pixel may lie
// outside the grid; callers check with InBounds.
func (hm *Heightmap) WorldToPixel(pt orb.Point) (int, int) {
	return int(math.Round(pt[0] / hm.MetersPerPixel)), int(math.Round(pt[1] / hm.MetersPerPixel))
}

// PixelToWorld maps a pixel to its world position
func (hm *Heightmap) PixelToWorld(x, y int) orb.Point {
	return orb.Point{float64(x) * hm.MetersPerPixel, float64(y) * hm.MetersPerPixel}
}

// ElevationAtPoint samples elevation at the pixel nearest to a world point.
// Out-of-bounds points return 0 and false.
func (hm *Heightmap) ElevationAtPoint(pt orb.Point) (float64, bool) {
	x, y := hm.WorldToPixel(pt)
	if !hm.InBounds(x, y) {
		return 0.0, false
	}
	return hm.At(x, y), true
}
