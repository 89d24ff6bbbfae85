// Package output renders raster products to PNG quicklooks so a run
// can be eyeballed without GIS tooling. Rendering is display-only and
// never feeds back into the analysis.
package output

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/fogleman/gg"
)

// Ramp is a piecewise-linear color ramp over [0,1].
type Ramp []struct {
	Pos     float64
	R, G, B float64
}

// RampRdYlGn approximates the red-yellow-green ramp used for VH/VV
// ratio maps: low ratios (smooth surfaces, fresh lava) red, high
// ratios (vegetated, rough) green.
var RampRdYlGn = Ramp{
	{0.0, 0.65, 0.00, 0.15},
	{0.25, 0.96, 0.43, 0.26},
	{0.5, 1.00, 1.00, 0.75},
	{0.75, 0.40, 0.74, 0.39},
	{1.0, 0.00, 0.41, 0.22},
}

// RampRdBu approximates the diverging blue-white-red ramp for delta
// maps: decreases blue, no change white, increases red.
var RampRdBu = Ramp{
	{0.0, 0.02, 0.19, 0.38},
	{0.25, 0.42, 0.68, 0.84},
	{0.5, 0.97, 0.97, 0.97},
	{0.75, 0.84, 0.38, 0.30},
	{1.0, 0.40, 0.00, 0.12},
}

// At interpolates the ramp color at t in [0,1]; out-of-range values
// take the end colors.
func (r Ramp) At(t float64) (float64, float64, float64) {
	if t <= r[0].Pos {
		return r[0].R, r[0].G, r[0].B
	}
	last := r[len(r)-1]
	if t >= last.Pos {
		return last.R, last.G, last.B
	}
	for i := 1; i < len(r); i++ {
		if t <= r[i].Pos {
			a, b := r[i-1], r[i]
			f := (t - a.Pos) / (b.Pos - a.Pos)
			return a.R + (b.R-a.R)*f, a.G + (b.G-a.G)*f, a.B + (b.B-a.B)*f
		}
	}
	return last.R, last.G, last.B
}

// Panel is one raster to render: its pixels, ramp and display range.
type Panel struct {
	Title string
	Data  []float32
	Ramp  Ramp
	Min   float64
	Max   float64
}

const nanGray = 0.82

// RenderQuicklook writes one raster as a PNG. NaN pixels render light
// gray.
func RenderQuicklook(path string, p Panel, width, height int) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create quicklook directory: %v", err)
	}

	dc := gg.NewContext(width, height)
	drawPanel(dc, p, 0, 0, width, height)
	if err := dc.SavePNG(path); err != nil {
		return fmt.Errorf("failed to save quicklook %s: %v", path, err)
	}
	return nil
}

// RenderComparison writes the pre/post/delta panels side by side with
// titles, the PNG counterpart of the comparison figure.
func RenderComparison(path string, panels []Panel, width, height int) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create quicklook directory: %v", err)
	}

	const gap, titleBar = 8, 20
	totalW := len(panels)*width + (len(panels)+1)*gap
	totalH := height + titleBar + 2*gap

	dc := gg.NewContext(totalW, totalH)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	for i, p := range panels {
		x0 := gap + i*(width+gap)
		dc.SetRGB(0, 0, 0)
		dc.DrawString(p.Title, float64(x0), float64(gap+12))
		drawPanel(dc, p, x0, titleBar+gap, width, height)
	}

	if err := dc.SavePNG(path); err != nil {
		return fmt.Errorf("failed to save comparison figure %s: %v", path, err)
	}
	return nil
}

func drawPanel(dc *gg.Context, p Panel, x0, y0, width, height int) {
	span := p.Max - p.Min
	if span == 0 {
		span = 1
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := float64(p.Data[y*width+x])
			if math.IsNaN(v) || math.IsInf(v, 0) {
				dc.SetRGB(nanGray, nanGray, nanGray)
			} else {
				dc.SetRGB(p.Ramp.At((v - p.Min) / span))
			}
			dc.SetPixel(x0+x, y0+y)
		}
	}
}
