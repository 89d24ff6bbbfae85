package align

import (
	"fmt"

	"github.com/airbusgeo/godal"
)

// sameCRS reports whether two projection strings describe the same CRS.
// Identical WKT short-circuits; otherwise GDAL decides, so the same CRS
// written as two different WKT variants still compares equal.
func sameCRS(projA, projB string) (bool, error) {
	if projA == projB {
		return true, nil
	}
	if projA == "" || projB == "" {
		return false, nil
	}

	srA, err := godal.NewSpatialRefFromWKT(projA)
	if err != nil {
		return false, fmt.Errorf("failed to parse CRS %q: %w", projA, err)
	}
	defer srA.Close()
	srB, err := godal.NewSpatialRefFromWKT(projB)
	if err != nil {
		return false, fmt.Errorf("failed to parse CRS %q: %w", projB, err)
	}
	defer srB.Close()

	return srA.IsSame(srB), nil
}

// ReprojectBounds maps a bounds rectangle from one CRS to another. A
// rectangle in CRS X is generally not a rectangle in CRS Y, so each
// edge is densified with densify points before transforming and the
// result is the envelope of all transformed points. densify values
// below DefaultDensify are raised to it.
func ReprojectBounds(b GeoBounds, fromWKT, toWKT string, densify int) (GeoBounds, error) {
	if densify < DefaultDensify {
		densify = DefaultDensify
	}

	from, err := godal.NewSpatialRefFromWKT(fromWKT)
	if err != nil {
		return GeoBounds{}, fmt.Errorf("failed to parse source CRS: %w", err)
	}
	defer from.Close()
	to, err := godal.NewSpatialRefFromWKT(toWKT)
	if err != nil {
		return GeoBounds{}, fmt.Errorf("failed to parse target CRS: %w", err)
	}
	defer to.Close()

	tr, err := godal.NewTransform(from, to)
	if err != nil {
		return GeoBounds{}, fmt.Errorf("failed to create CRS transform: %w", err)
	}
	defer tr.Close()

	xs, ys := densifyEdges(b, densify)
	if err := tr.TransformEx(xs, ys, nil, nil); err != nil {
		return GeoBounds{}, fmt.Errorf("bounds transform failed for %s: %w", b, err)
	}

	return GeoBounds{
		Left:   minOf(xs),
		Bottom: minOf(ys),
		Right:  maxOf(xs),
		Top:    maxOf(ys),
	}, nil
}

// densifyEdges walks the rectangle boundary placing n points along each
// of the four edges.
func densifyEdges(b GeoBounds, n int) ([]float64, []float64) {
	xs := make([]float64, 0, 4*n)
	ys := make([]float64, 0, 4*n)
	step := func(a, b float64, t float64) float64 { return a + (b-a)*t }
	for i := 0; i < n; i++ {
		t := float64(i) / float64(n-1)
		// bottom, top, left, right
		xs = append(xs, step(b.Left, b.Right, t), step(b.Left, b.Right, t), b.Left, b.Right)
		ys = append(ys, b.Bottom, b.Top, step(b.Bottom, b.Top, t), step(b.Bottom, b.Top, t))
	}
	return xs, ys
}
