package raster

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/airbusgeo/godal"
)

// Write persists a float32 array with its georeferencing as a
// deflate-compressed single-band GeoTIFF. Parent directories are
// created as needed and an existing file is overwritten. The six
// geotransform coefficients and the projection WKT round-trip exactly.
func Write(path string, data []float32, ref Georef) error {
	if len(data) != ref.Width*ref.Height {
		return fmt.Errorf("%w: array has %d samples, georef declares %dx%d", ErrFormat, len(data), ref.Width, ref.Height)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("%w: failed to create output directory %s: %v", ErrIO, dir, err)
		}
	}

	ds, err := godal.Create(godal.GTiff, path, 1, godal.Float32, ref.Width, ref.Height,
		godal.CreationOption("COMPRESS=DEFLATE"))
	if err != nil {
		return fmt.Errorf("%w: failed to create %s: %v", ErrIO, path, err)
	}
	defer ds.Close()

	if err := ds.SetGeoTransform(ref.Transform); err != nil {
		return fmt.Errorf("%w: failed to set geotransform on %s: %v", ErrIO, path, err)
	}
	if ref.Projection != "" {
		if err := ds.SetProjection(ref.Projection); err != nil {
			return fmt.Errorf("%w: failed to set projection on %s: %v", ErrIO, path, err)
		}
	}

	band := ds.Bands()[0]
	if ref.NoData != nil {
		if err := band.SetNoData(*ref.NoData); err != nil {
			return fmt.Errorf("%w: failed to set nodata on %s: %v", ErrIO, path, err)
		}
	}
	if err := band.Write(0, 0, data, ref.Width, ref.Height); err != nil {
		return fmt.Errorf("%w: failed to write band to %s: %v", ErrIO, path, err)
	}
	return nil
}
