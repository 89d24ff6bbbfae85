package output

import (
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRampAtEndpoints(t *testing.T) {
	r, g, b := RampRdBu.At(0)
	assert.Equal(t, 0.02, r)
	assert.Equal(t, 0.19, g)
	assert.Equal(t, 0.38, b)

	r, g, b = RampRdBu.At(1)
	assert.Equal(t, 0.40, r)
	assert.Equal(t, 0.00, g)
	assert.Equal(t, 0.12, b)
}

func TestRampAtClampsOutOfRange(t *testing.T) {
	lr, lg, lb := RampRdYlGn.At(0)
	r, g, b := RampRdYlGn.At(-3)
	assert.Equal(t, [3]float64{lr, lg, lb}, [3]float64{r, g, b})

	hr, hg, hb := RampRdYlGn.At(1)
	r, g, b = RampRdYlGn.At(7)
	assert.Equal(t, [3]float64{hr, hg, hb}, [3]float64{r, g, b})
}

func TestRampAtInterpolatesMidSegment(t *testing.T) {
	// halfway between the 0.25 and 0.5 stops
	r, g, b := RampRdBu.At(0.375)
	assert.InDelta(t, (0.42+0.97)/2, r, 1e-9)
	assert.InDelta(t, (0.68+0.97)/2, g, 1e-9)
	assert.InDelta(t, (0.84+0.97)/2, b, 1e-9)
}

func TestRenderQuicklookWritesPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ql", "delta.png")
	nan := float32(math.NaN())
	p := Panel{
		Title: "delta",
		Data:  []float32{-10, -5, 0, nan, 5, 10},
		Ramp:  RampRdBu,
		Min:   -10,
		Max:   10,
	}

	require.NoError(t, RenderQuicklook(path, p, 3, 2))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 3, img.Bounds().Dx())
	assert.Equal(t, 2, img.Bounds().Dy())
}

func TestRenderComparisonDimensions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "compare.png")
	data := make([]float32, 4)
	panels := []Panel{
		{Title: "pre", Data: data, Ramp: RampRdYlGn, Min: -25, Max: -5},
		{Title: "post", Data: data, Ramp: RampRdYlGn, Min: -25, Max: -5},
		{Title: "delta", Data: data, Ramp: RampRdBu, Min: -10, Max: 10},
	}

	require.NoError(t, RenderComparison(path, panels, 2, 2))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	// three panels plus gaps and title bar
	assert.Equal(t, 3*2+4*8, img.Bounds().Dx())
	assert.Equal(t, 2+20+2*8, img.Bounds().Dy())
}
