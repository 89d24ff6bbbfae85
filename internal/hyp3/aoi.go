package hyp3

import (
	"errors"
	"fmt"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
)

// LoadAOI reads the area of interest from a GeoJSON file. A
// FeatureCollection contributes its first feature's geometry, matching
// how the AOI files are exported from the mapping tools.
func LoadAOI(path string) (orb.Geometry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read AOI file %s: %w", path, err)
	}

	if fc, err := geojson.UnmarshalFeatureCollection(data); err == nil {
		if len(fc.Features) == 0 {
			return nil, fmt.Errorf("AOI file %s has no features", path)
		}
		return fc.Features[0].Geometry, nil
	}
	if f, err := geojson.UnmarshalFeature(data); err == nil {
		return f.Geometry, nil
	}
	if g, err := geojson.UnmarshalGeometry(data); err == nil {
		return g.Geometry(), nil
	}
	return nil, fmt.Errorf("AOI file %s is not valid GeoJSON", path)
}

// AOIWkt renders the AOI geometry as WKT for the granule search API.
func AOIWkt(g orb.Geometry) string {
	return wkt.MarshalString(g)
}

// AOICenter returns the (lat, lon) centroid of the AOI, used as the
// default map center in summaries.
func AOICenter(g orb.Geometry) (float64, float64, error) {
	centroid, area := planar.CentroidArea(g)
	if area <= 0 {
		return 0, 0, errors.New("error getting AOI centroid")
	}
	return centroid.Y(), centroid.X(), nil
}
