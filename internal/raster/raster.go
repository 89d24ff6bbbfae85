package raster

import (
	"errors"
	"fmt"
)

var (
	// ErrIO means the source file is missing, corrupt or unreadable.
	ErrIO = errors.New("raster io error")
	// ErrFormat means the file opened but does not carry a usable single band.
	ErrFormat = errors.New("unexpected raster format")
	// ErrNoOverlap means two rasters share no geographic extent.
	ErrNoOverlap = errors.New("no overlapping extent between rasters")
)

// Georef carries everything needed to place a pixel grid on the ground:
// the CRS as WKT, the six-coefficient affine geotransform and the grid
// dimensions. NoData is the source sentinel, nil when the source
// declares none.
type Georef struct {
	Projection string
	Transform  [6]float64
	Width      int
	Height     int
	NoData     *float64
}

// Band is a single-band raster held fully in memory, row-major,
// Height*Width samples. Nodata pixels are NaN, never the raw sentinel.
type Band struct {
	Data []float32
	Georef
}

// Window is an integer pixel sub-rectangle of a parent grid.
type Window struct {
	ColOff int
	RowOff int
	Width  int
	Height int
}

func (w Window) Size() int {
	return w.Width * w.Height
}

func (w Window) String() string {
	return fmt.Sprintf("window(col=%d,row=%d,%dx%d)", w.ColOff, w.RowOff, w.Width, w.Height)
}

// PixelToGeo maps a fractional pixel coordinate (col,row) to geographic
// (x,y) through the geotransform.
func (g Georef) PixelToGeo(col, row float64) (float64, float64) {
	gt := g.Transform
	x := gt[0] + gt[1]*col + gt[2]*row
	y := gt[3] + gt[4]*col + gt[5]*row
	return x, y
}

// GeoToPixel is the inverse mapping, geographic (x,y) to fractional
// (col,row). Fails when the transform is singular (zero pixel area).
func (g Georef) GeoToPixel(x, y float64) (float64, float64, error) {
	gt := g.Transform
	det := gt[1]*gt[5] - gt[2]*gt[4]
	if det == 0 {
		return 0, 0, fmt.Errorf("%w: singular geotransform %v", ErrFormat, gt)
	}
	dx := x - gt[0]
	dy := y - gt[3]
	col := (dx*gt[5] - dy*gt[2]) / det
	row := (dy*gt[1] - dx*gt[4]) / det
	return col, row, nil
}

// WindowTransform re-anchors the geotransform at the window's offset,
// keeping pixel size and rotation terms. This is the georeference of
// the sub-grid the window selects.
func (g Georef) WindowTransform(win Window) [6]float64 {
	gt := g.Transform
	x0, y0 := g.PixelToGeo(float64(win.ColOff), float64(win.RowOff))
	return [6]float64{x0, gt[1], gt[2], y0, gt[4], gt[5]}
}
