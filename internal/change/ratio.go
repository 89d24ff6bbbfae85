// Package change holds the pixel math of the pipeline: the stabilized
// VH/VV decibel ratio, the clamped temporal delta and the summary
// statistics over finite pixels. All functions are pure: same inputs,
// same outputs, no shared state.
package change

import (
	"fmt"
	"math"

	"github.com/Yasaswini-ch/reykjanes-sar-analysis/internal/raster"
)

// DefaultEpsilon stabilizes the ratio against zero backscatter. It is
// small enough not to bias the physically meaningful range (VH/VV
// ratios sit far from zero).
const DefaultEpsilon = 1e-6

// RatioDB computes 10*log10((vh+eps)/(vv+eps)) elementwise. A NaN in
// either input stays NaN in the output; the ratio itself is never
// clamped. eps <= 0 falls back to DefaultEpsilon.
func RatioDB(vh, vv []float32, eps float64) ([]float32, error) {
	if len(vh) != len(vv) {
		return nil, fmt.Errorf("%w: band shapes differ (%d vs %d samples)", raster.ErrFormat, len(vh), len(vv))
	}
	if eps <= 0 {
		eps = DefaultEpsilon
	}

	out := make([]float32, len(vh))
	for i := range vh {
		num := float64(vh[i]) + eps
		den := float64(vv[i]) + eps
		out[i] = float32(10 * math.Log10(num/den))
	}
	return out, nil
}
