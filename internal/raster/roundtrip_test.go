package raster

import (
	"math"
	"path/filepath"
	"sync"
	"testing"

	"github.com/airbusgeo/godal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var registerOnce sync.Once

func initGDAL() {
	registerOnce.Do(godal.RegisterAll)
}

const utm27WKT = `PROJCS["WGS 84 / UTM zone 27N",GEOGCS["WGS 84",DATUM["WGS_1984",SPHEROID["WGS 84",6378137,298.257223563]],PRIMEM["Greenwich",0],UNIT["degree",0.0174532925199433]],PROJECTION["Transverse_Mercator"],PARAMETER["latitude_of_origin",0],PARAMETER["central_meridian",-21],PARAMETER["scale_factor",0.9996],PARAMETER["false_easting",500000],PARAMETER["false_northing",0],UNIT["metre",1],AUTHORITY["EPSG","32627"]]`

func sameProjection(t *testing.T, wantWKT, gotWKT string) bool {
	t.Helper()
	want, err := godal.NewSpatialRefFromWKT(wantWKT)
	require.NoError(t, err)
	defer want.Close()
	got, err := godal.NewSpatialRefFromWKT(gotWKT)
	require.NoError(t, err)
	defer got.Close()
	return want.IsSame(got)
}

func TestWriteReadRoundTrip(t *testing.T) {
	initGDAL()

	nodata := -9999.0
	ref := Georef{
		Projection: utm27WKT,
		Transform:  [6]float64{430000, 30, 0, 7095000, 0, -30},
		Width:      4,
		Height:     3,
		NoData:     &nodata,
	}
	data := []float32{
		-15.25, -9999, 0.5, 2.0,
		-9999, -12.125, 3.75, -0.0625,
		1.5, -1.5, -9999, 10,
	}

	path := filepath.Join(t.TempDir(), "products", "delta.tif")
	require.NoError(t, Write(path, data, ref))

	band, err := ReadBand(path)
	require.NoError(t, err)

	// six affine coefficients come back bit-identical
	assert.Equal(t, ref.Transform, band.Transform)
	assert.Equal(t, ref.Width, band.Width)
	assert.Equal(t, ref.Height, band.Height)
	assert.True(t, sameProjection(t, ref.Projection, band.Projection))
	require.NotNil(t, band.NoData)
	assert.Equal(t, nodata, *band.NoData)

	// nodata pixels come back as NaN, the rest to storage precision
	for i, want := range data {
		if want == float32(nodata) {
			assert.True(t, math.IsNaN(float64(band.Data[i])), "pixel %d", i)
		} else {
			assert.Equal(t, want, band.Data[i], "pixel %d", i)
		}
	}
}

func TestWriteOverwritesExisting(t *testing.T) {
	initGDAL()

	ref := Georef{
		Projection: utm27WKT,
		Transform:  [6]float64{430000, 30, 0, 7095000, 0, -30},
		Width:      2,
		Height:     2,
	}
	path := filepath.Join(t.TempDir(), "out.tif")
	require.NoError(t, Write(path, []float32{1, 2, 3, 4}, ref))
	require.NoError(t, Write(path, []float32{5, 6, 7, 8}, ref))

	band, err := ReadBand(path)
	require.NoError(t, err)
	assert.Equal(t, []float32{5, 6, 7, 8}, band.Data)
}

func TestReadBandWindowSubset(t *testing.T) {
	initGDAL()

	ref := Georef{
		Projection: utm27WKT,
		Transform:  [6]float64{430000, 30, 0, 7095000, 0, -30},
		Width:      4,
		Height:     4,
	}
	data := make([]float32, 16)
	for i := range data {
		data[i] = float32(i)
	}
	path := filepath.Join(t.TempDir(), "grid.tif")
	require.NoError(t, Write(path, data, ref))

	win := Window{ColOff: 1, RowOff: 2, Width: 2, Height: 2}
	band, err := ReadBandWindow(path, win)
	require.NoError(t, err)

	assert.Equal(t, []float32{9, 10, 13, 14}, band.Data)
	assert.Equal(t, 2, band.Width)
	assert.Equal(t, 2, band.Height)
	// georeference re-anchored at the window offset
	assert.Equal(t, 430000+1*30.0, band.Transform[0])
	assert.Equal(t, 7095000-2*30.0, band.Transform[3])
}

func TestReadBandWindowOutsideGrid(t *testing.T) {
	initGDAL()

	ref := Georef{
		Projection: utm27WKT,
		Transform:  [6]float64{430000, 30, 0, 7095000, 0, -30},
		Width:      2,
		Height:     2,
	}
	path := filepath.Join(t.TempDir(), "grid.tif")
	require.NoError(t, Write(path, []float32{1, 2, 3, 4}, ref))

	_, err := ReadBandWindow(path, Window{ColOff: 1, RowOff: 1, Width: 2, Height: 2})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFormat)
}

func TestReadBandMissingFile(t *testing.T) {
	initGDAL()

	_, err := ReadBand(filepath.Join(t.TempDir(), "missing.tif"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrIO)
}

func TestWriteRejectsShapeMismatch(t *testing.T) {
	ref := Georef{Transform: [6]float64{0, 1, 0, 0, 0, -1}, Width: 3, Height: 3}
	err := Write(filepath.Join(t.TempDir(), "bad.tif"), []float32{1, 2}, ref)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFormat)
}
