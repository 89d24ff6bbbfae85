package change

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// RasterStats is the global summary of a single raster's finite pixels.
type RasterStats struct {
	Min  float64
	Max  float64
	Mean float64
	Std  float64
	P5   float64
	P50  float64
	P95  float64
}

func (s RasterStats) Defined() bool {
	return !math.IsNaN(s.Mean)
}

// Summarize computes global statistics over the finite pixels of a
// raster. All NaN when the raster has no finite pixel.
func Summarize(data []float32) RasterStats {
	vals := finiteValues(data)
	if len(vals) == 0 {
		nan := math.NaN()
		return RasterStats{Min: nan, Max: nan, Mean: nan, Std: nan, P5: nan, P50: nan, P95: nan}
	}
	sort.Float64s(vals)
	return RasterStats{
		Min:  vals[0],
		Max:  vals[len(vals)-1],
		Mean: stat.Mean(vals, nil),
		Std:  stat.PopStdDev(vals, nil),
		P5:   stat.Quantile(0.05, stat.LinInterp, vals, nil),
		P50:  stat.Quantile(0.50, stat.LinInterp, vals, nil),
		P95:  stat.Quantile(0.95, stat.LinInterp, vals, nil),
	}
}

// ComparePeriods computes the mean and std of post-pre over the pixels
// finite in both rasters, without clamping. This is the lightweight
// comparison used by the statistics menu, not the delta product.
func ComparePeriods(pre, post []float32) (deltaMean, deltaStd float64) {
	n := len(pre)
	if len(post) < n {
		n = len(post)
	}
	vals := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		a, b := float64(pre[i]), float64(post[i])
		if math.IsNaN(a) || math.IsInf(a, 0) || math.IsNaN(b) || math.IsInf(b, 0) {
			continue
		}
		vals = append(vals, b-a)
	}
	if len(vals) == 0 {
		return math.NaN(), math.NaN()
	}
	return stat.Mean(vals, nil), stat.PopStdDev(vals, nil)
}
