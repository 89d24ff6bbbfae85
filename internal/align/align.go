// Package align computes matching pixel windows over the geographic
// overlap of two rasters. Only bounding rectangles are ever
// reprojected, never pixel values: the output of an alignment is a pair
// of integer windows plus the georeference of the common grid, and the
// caller reads each raster through its own window at its own
// resolution.
package align

import (
	"fmt"
	"math"

	"github.com/Yasaswini-ch/reykjanes-sar-analysis/internal/raster"
)

// DefaultDensify is the number of points per rectangle edge used when
// reprojecting bounds. Too few points cut corners under non-linear
// projections and shrink the rectangle.
const DefaultDensify = 21

// GeoBounds is a rectangle in some CRS, (left,bottom) the min corner
// and (right,top) the max corner.
type GeoBounds struct {
	Left   float64
	Bottom float64
	Right  float64
	Top    float64
}

func (b GeoBounds) String() string {
	return fmt.Sprintf("(%g,%g)-(%g,%g)", b.Left, b.Bottom, b.Right, b.Top)
}

// Bounds returns the axis-aligned geographic bounds of a grid, taking
// all four corners through the geotransform so rotated grids still get
// a correct envelope.
func Bounds(ref raster.Georef) GeoBounds {
	w, h := float64(ref.Width), float64(ref.Height)
	xs := make([]float64, 0, 4)
	ys := make([]float64, 0, 4)
	for _, c := range [][2]float64{{0, 0}, {w, 0}, {0, h}, {w, h}} {
		x, y := ref.PixelToGeo(c[0], c[1])
		xs = append(xs, x)
		ys = append(ys, y)
	}
	return GeoBounds{
		Left:   minOf(xs),
		Bottom: minOf(ys),
		Right:  maxOf(xs),
		Top:    maxOf(ys),
	}
}

// Align computes the geographic intersection of two rasters and derives
// one integer window into each, harmonized to the same pixel size. The
// returned georeference is raster A's grid re-anchored at winA's
// offset: A's grid is the canonical output grid. Returns
// raster.ErrNoOverlap when the rasters share no ground, including the
// degenerate case where rounding empties the windows.
func Align(a, b raster.Georef) (winA, winB raster.Window, out raster.Georef, err error) {
	boundsA := Bounds(a)
	boundsB := Bounds(b)

	same, err := sameCRS(a.Projection, b.Projection)
	if err != nil {
		return winA, winB, out, err
	}

	boundsBInA := boundsB
	if !same {
		boundsBInA, err = ReprojectBounds(boundsB, b.Projection, a.Projection, DefaultDensify)
		if err != nil {
			return winA, winB, out, err
		}
	}

	inter := GeoBounds{
		Left:   math.Max(boundsA.Left, boundsBInA.Left),
		Bottom: math.Max(boundsA.Bottom, boundsBInA.Bottom),
		Right:  math.Min(boundsA.Right, boundsBInA.Right),
		Top:    math.Min(boundsA.Top, boundsBInA.Top),
	}
	if inter.Left >= inter.Right || inter.Bottom >= inter.Top {
		return winA, winB, out, fmt.Errorf("%w: %s vs %s", raster.ErrNoOverlap, boundsA, boundsBInA)
	}

	winA, err = windowFromBounds(inter, a)
	if err != nil {
		return winA, winB, out, err
	}

	interInB := inter
	if !same {
		interInB, err = ReprojectBounds(inter, a.Projection, b.Projection, DefaultDensify)
		if err != nil {
			return winA, winB, out, err
		}
	}
	winB, err = windowFromBounds(interInB, b)
	if err != nil {
		return winA, winB, out, err
	}

	// Harmonize: both windows get the min size so the extracted arrays
	// match shape even when resolutions or rounding differ slightly.
	w := min(winA.Width, winB.Width)
	h := min(winA.Height, winB.Height)
	if w <= 0 || h <= 0 {
		return winA, winB, out, fmt.Errorf("%w: overlap %s collapses to an empty window", raster.ErrNoOverlap, inter)
	}
	winA.Width, winA.Height = w, h
	winB.Width, winB.Height = w, h

	out = raster.Georef{
		Projection: a.Projection,
		Transform:  a.WindowTransform(winA),
		Width:      w,
		Height:     h,
		NoData:     a.NoData,
	}
	return winA, winB, out, nil
}

// windowFromBounds converts a bounds rectangle into an integer pixel
// window against a grid's geotransform. Offsets and sizes are rounded
// down, never up: a window may under-cover the rectangle by up to one
// pixel but never reads outside the grid. After rounding the window is
// clamped into the grid, since reprojection round-trips can land a hair
// outside it.
func windowFromBounds(b GeoBounds, ref raster.Georef) (raster.Window, error) {
	c0, r0, err := ref.GeoToPixel(b.Left, b.Top)
	if err != nil {
		return raster.Window{}, err
	}
	c1, r1, err := ref.GeoToPixel(b.Right, b.Bottom)
	if err != nil {
		return raster.Window{}, err
	}

	colOff := int(math.Floor(math.Min(c0, c1)))
	rowOff := int(math.Floor(math.Min(r0, r1)))
	width := int(math.Floor(math.Abs(c1 - c0)))
	height := int(math.Floor(math.Abs(r1 - r0)))

	if colOff < 0 {
		width += colOff
		colOff = 0
	}
	if rowOff < 0 {
		height += rowOff
		rowOff = 0
	}
	if colOff+width > ref.Width {
		width = ref.Width - colOff
	}
	if rowOff+height > ref.Height {
		height = ref.Height - rowOff
	}
	if width <= 0 || height <= 0 {
		return raster.Window{}, fmt.Errorf("%w: bounds %s fall outside the %dx%d grid", raster.ErrNoOverlap, b, ref.Width, ref.Height)
	}
	return raster.Window{ColOff: colOff, RowOff: rowOff, Width: width, Height: height}, nil
}

func minOf(vs []float64) float64 {
	m := vs[0]
	for _, v := range vs[1:] {
		m = math.Min(m, v)
	}
	return m
}

func maxOf(vs []float64) float64 {
	m := vs[0]
	for _, v := range vs[1:] {
		m = math.Max(m, v)
	}
	return m
}
