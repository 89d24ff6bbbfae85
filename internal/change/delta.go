package change

import (
	"fmt"
	"math"
	"sort"

	"github.com/Yasaswini-ch/reykjanes-sar-analysis/internal/raster"
	"gonum.org/v1/gonum/stat"
)

// DefaultClampDB bounds the delta product. Raw post-pre differences
// beyond ±10 dB come from partial misalignment or corrupted input, not
// from surface change.
const DefaultClampDB = 10.0

// DeltaStats summarizes the finite pixels of a delta product. When no
// finite pixel exists all fields are NaN; callers must branch on
// Defined before interpreting the numbers.
type DeltaStats struct {
	Mean float64
	Std  float64
	P5   float64
	P95  float64
}

// Defined reports whether the statistics were computed from at least
// one finite pixel.
func (s DeltaStats) Defined() bool {
	return !math.IsNaN(s.Mean)
}

// Delta computes post-pre clamped to ±clampDB and its summary
// statistics. NaN pixels propagate through untouched and are excluded
// from the statistics. clampDB <= 0 falls back to DefaultClampDB.
func Delta(pre, post []float32, clampDB float64) ([]float32, DeltaStats, error) {
	if len(pre) != len(post) {
		return nil, DeltaStats{}, fmt.Errorf("%w: ratio shapes differ (%d vs %d samples)", raster.ErrFormat, len(pre), len(post))
	}
	if clampDB <= 0 {
		clampDB = DefaultClampDB
	}

	out := make([]float32, len(pre))
	lo, hi := float32(-clampDB), float32(clampDB)
	for i := range pre {
		d := post[i] - pre[i]
		if d < lo {
			d = lo
		} else if d > hi {
			d = hi
		}
		out[i] = d
	}
	return out, summarize(out), nil
}

func summarize(delta []float32) DeltaStats {
	vals := finiteValues(delta)
	if len(vals) == 0 {
		nan := math.NaN()
		return DeltaStats{Mean: nan, Std: nan, P5: nan, P95: nan}
	}
	sort.Float64s(vals)
	return DeltaStats{
		Mean: stat.Mean(vals, nil),
		Std:  stat.PopStdDev(vals, nil),
		P5:   stat.Quantile(0.05, stat.LinInterp, vals, nil),
		P95:  stat.Quantile(0.95, stat.LinInterp, vals, nil),
	}
}

func finiteValues(data []float32) []float64 {
	vals := make([]float64, 0, len(data))
	for _, v := range data {
		f := float64(v)
		if !math.IsNaN(f) && !math.IsInf(f, 0) {
			vals = append(vals, f)
		}
	}
	return vals
}
