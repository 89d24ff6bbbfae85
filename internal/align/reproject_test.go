package align

import (
	"testing"

	"github.com/Yasaswini-ch/reykjanes-sar-analysis/internal/raster"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	wgs84WKT = `GEOGCS["WGS 84",DATUM["WGS_1984",SPHEROID["WGS 84",6378137,298.257223563]],PRIMEM["Greenwich",0],UNIT["degree",0.0174532925199433],AUTHORITY["EPSG","4326"]]`
	// same datum and units, no authority tag and different names
	wgs84AltWKT = `GEOGCS["WGS84 geographic",DATUM["WGS_1984",SPHEROID["WGS84",6378137,298.257223563]],PRIMEM["Greenwich",0],UNIT["degree",0.0174532925199433]]`
	utmWKT      = `PROJCS["WGS 84 / UTM zone 27N",GEOGCS["WGS 84",DATUM["WGS_1984",SPHEROID["WGS 84",6378137,298.257223563]],PRIMEM["Greenwich",0],UNIT["degree",0.0174532925199433]],PROJECTION["Transverse_Mercator"],PARAMETER["latitude_of_origin",0],PARAMETER["central_meridian",-21],PARAMETER["scale_factor",0.9996],PARAMETER["false_easting",500000],PARAMETER["false_northing",0],UNIT["metre",1],AUTHORITY["EPSG","32627"]]`
)

func TestSameCRSAcceptsWKTVariants(t *testing.T) {
	same, err := sameCRS(wgs84WKT, wgs84AltWKT)
	require.NoError(t, err)
	assert.True(t, same)
}

func TestSameCRSDistinguishesProjections(t *testing.T) {
	same, err := sameCRS(wgs84WKT, utmWKT)
	require.NoError(t, err)
	assert.False(t, same)
}

func TestSameCRSRejectsGarbage(t *testing.T) {
	_, err := sameCRS(wgs84WKT, "not a CRS")
	assert.Error(t, err)
}

func TestReprojectBoundsRoundTrip(t *testing.T) {
	// a box over the Reykjanes peninsula
	box := GeoBounds{Left: -22.8, Bottom: 63.8, Right: -22.0, Top: 64.0}

	utm, err := ReprojectBounds(box, wgs84WKT, utmWKT, DefaultDensify)
	require.NoError(t, err)
	assert.Less(t, utm.Left, utm.Right)
	assert.Less(t, utm.Bottom, utm.Top)
	// west of the central meridian, so left of the 500km false easting
	assert.Less(t, utm.Right, 500000.0)

	back, err := ReprojectBounds(utm, utmWKT, wgs84WKT, DefaultDensify)
	require.NoError(t, err)
	// envelopes only grow through reprojection, and not by much here
	assert.LessOrEqual(t, back.Left, box.Left+1e-6)
	assert.GreaterOrEqual(t, back.Right, box.Right-1e-6)
	assert.LessOrEqual(t, back.Bottom, box.Bottom+1e-6)
	assert.GreaterOrEqual(t, back.Top, box.Top-1e-6)
	assert.InDelta(t, box.Left, back.Left, 0.05)
	assert.InDelta(t, box.Top, back.Top, 0.05)
}

func TestAlignAcrossCRS(t *testing.T) {
	// 100m UTM grid fully inside a coarse geographic grid
	a := raster.Georef{
		Projection: utmWKT,
		Transform:  [6]float64{420000, 100, 0, 7100000, 0, -100},
		Width:      300,
		Height:     200,
	}
	b := raster.Georef{
		Projection: wgs84WKT,
		Transform:  [6]float64{-23.0, 0.01, 0, 64.3, 0, -0.01},
		Width:      150,
		Height:     80,
	}

	winA, winB, out, err := Align(a, b)
	require.NoError(t, err)

	// the geographic grid covers all of A, so A's window starts at origin
	assert.Equal(t, 0, winA.ColOff)
	assert.Equal(t, 0, winA.RowOff)

	assert.Equal(t, winA.Width, winB.Width)
	assert.Equal(t, winA.Height, winB.Height)
	assert.Greater(t, winB.Width, 0)
	assert.Greater(t, winB.Height, 0)
	assert.LessOrEqual(t, winB.ColOff+winB.Width, b.Width)
	assert.LessOrEqual(t, winB.RowOff+winB.Height, b.Height)

	// output stays on A's grid in A's CRS
	assert.Equal(t, a.Projection, out.Projection)
	assert.Equal(t, a.Transform[1], out.Transform[1])
	assert.Equal(t, a.Transform[5], out.Transform[5])
	assert.Equal(t, winA.Width, out.Width)
}

func TestAlignAcrossCRSDisjoint(t *testing.T) {
	a := raster.Georef{
		Projection: utmWKT,
		Transform:  [6]float64{420000, 100, 0, 7100000, 0, -100},
		Width:      300,
		Height:     200,
	}
	// southern hemisphere box, nowhere near the UTM grid
	b := raster.Georef{
		Projection: wgs84WKT,
		Transform:  [6]float64{-23.0, 0.01, 0, -30.0, 0, -0.01},
		Width:      100,
		Height:     100,
	}

	_, _, _, err := Align(a, b)
	require.Error(t, err)
	assert.ErrorIs(t, err, raster.ErrNoOverlap)
}
