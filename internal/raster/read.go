package raster

import (
	"fmt"
	"math"

	"github.com/airbusgeo/godal"
)

func openDataset(path string) (*godal.Dataset, error) {
	ds, err := godal.Open(path, godal.ErrLogger(func(ec godal.ErrorCategory, code int, msg string) error {
		if ec == godal.CE_Warning {
			return nil
		}
		return fmt.Errorf("gdal: %s", msg)
	}))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open %s: %v", ErrIO, path, err)
	}
	return ds, nil
}

func georefOf(ds *godal.Dataset, path string) (Georef, error) {
	gt, err := ds.GeoTransform()
	if err != nil {
		return Georef{}, fmt.Errorf("%w: %s has no geotransform: %v", ErrFormat, path, err)
	}
	ref := Georef{
		Projection: ds.Projection(),
		Transform:  gt,
		Width:      ds.Structure().SizeX,
		Height:     ds.Structure().SizeY,
	}
	if nd, ok := ds.Bands()[0].NoData(); ok {
		ref.NoData = &nd
	}
	return ref, nil
}

// ReadGeoref reads only the georeferencing of a raster, without pulling
// pixel data into memory. The window aligner works off these.
func ReadGeoref(path string) (Georef, error) {
	ds, err := openDataset(path)
	if err != nil {
		return Georef{}, err
	}
	defer ds.Close()

	if ds.Structure().NBands < 1 {
		return Georef{}, fmt.Errorf("%w: %s has no raster bands", ErrFormat, path)
	}
	return georefOf(ds, path)
}

// ReadBand reads band 1 of a single-band raster as float32. Extra bands
// are ignored on purpose: RTC products ship one polarization per file,
// and band 1 is the measurement. Pixels equal to the declared nodata
// value come back as NaN so downstream math never sees the sentinel.
func ReadBand(path string) (*Band, error) {
	return readBand(path, nil)
}

// ReadBandWindow reads only the given pixel window of band 1, with the
// same nodata substitution as ReadBand. The returned georeference is
// re-anchored at the window's offset.
func ReadBandWindow(path string, win Window) (*Band, error) {
	return readBand(path, &win)
}

func readBand(path string, win *Window) (*Band, error) {
	ds, err := openDataset(path)
	if err != nil {
		return nil, err
	}
	defer ds.Close()

	if ds.Structure().NBands < 1 {
		return nil, fmt.Errorf("%w: %s has no raster bands", ErrFormat, path)
	}

	ref, err := georefOf(ds, path)
	if err != nil {
		return nil, err
	}

	band := ds.Bands()[0]
	read := Window{ColOff: 0, RowOff: 0, Width: ref.Width, Height: ref.Height}
	if win != nil {
		read = *win
		if read.ColOff < 0 || read.RowOff < 0 ||
			read.ColOff+read.Width > ref.Width || read.RowOff+read.Height > ref.Height {
			return nil, fmt.Errorf("%w: %s for %dx%d raster %s", ErrFormat, read, ref.Width, ref.Height, path)
		}
	}
	if read.Width <= 0 || read.Height <= 0 {
		return nil, fmt.Errorf("%w: empty %s for %s", ErrFormat, read, path)
	}

	data := make([]float32, read.Size())
	if err := band.Read(read.ColOff, read.RowOff, data, read.Width, read.Height); err != nil {
		return nil, fmt.Errorf("%w: failed to read band 1 of %s: %v", ErrIO, path, err)
	}

	if ref.NoData != nil {
		nd := float32(*ref.NoData)
		nan := float32(math.NaN())
		for i, v := range data {
			if v == nd {
				data[i] = nan
			}
		}
	}

	out := &Band{Data: data, Georef: ref}
	if win != nil {
		out.Transform = ref.WindowTransform(read)
		out.Width = read.Width
		out.Height = read.Height
	}
	return out, nil
}
