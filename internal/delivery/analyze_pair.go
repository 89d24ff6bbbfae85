// Package delivery wires the pipeline together: resolve band pairs
// from the manifest, align the grids, run the ratio and delta math,
// persist products and statistics. Configuration is explicit, so two
// runs with different configs can coexist in one process.
package delivery

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/Yasaswini-ch/reykjanes-sar-analysis/internal/align"
	"github.com/Yasaswini-ch/reykjanes-sar-analysis/internal/change"
	"github.com/Yasaswini-ch/reykjanes-sar-analysis/internal/manifest"
	"github.com/Yasaswini-ch/reykjanes-sar-analysis/internal/raster"
	"github.com/Yasaswini-ch/reykjanes-sar-analysis/output"
)

// Config controls one analysis run.
type Config struct {
	OutputDir string
	Epsilon   float64 // ratio stabilizer, change.DefaultEpsilon when zero
	ClampDB   float64 // delta clamp, change.DefaultClampDB when zero
	Quicklook bool    // render PNG quicklooks next to the tifs
}

// StatsRow is one line of the flat statistics CSV, one row per
// comparison. Appending rows is the caller's job via AppendStats.
type StatsRow struct {
	Pre  string  `csv:"pre"`
	Post string  `csv:"post"`
	Mean float64 `csv:"mean"`
	Std  float64 `csv:"std"`
	P5   float64 `csv:"p5"`
	P95  float64 `csv:"p95"`
}

// PairResult names the products of one pre/post comparison.
type PairResult struct {
	RatioPrePath  string
	RatioPostPath string
	DeltaPath     string
	Stats         change.DeltaStats
}

// AnalyzePair runs the full comparison of two acquisitions: windows are
// aligned on the VV pair and applied to both polarizations, ratio and
// delta products land in cfg.OutputDir. Labels distinguish output names
// (typically period or date).
func AnalyzePair(pre, post manifest.BandPair, preLabel, postLabel string, cfg Config) (*PairResult, error) {
	if !pre.Complete() || !post.Complete() {
		return nil, fmt.Errorf("%w: both acquisitions need VV and VH files", raster.ErrFormat)
	}

	preRef, err := raster.ReadGeoref(pre.VV)
	if err != nil {
		return nil, err
	}
	postRef, err := raster.ReadGeoref(post.VV)
	if err != nil {
		return nil, err
	}

	winPre, winPost, outRef, err := align.Align(preRef, postRef)
	if err != nil {
		return nil, fmt.Errorf("alignment of %s and %s failed: %w", pre.VV, post.VV, err)
	}

	preVV, err := raster.ReadBandWindow(pre.VV, winPre)
	if err != nil {
		return nil, err
	}
	preVH, err := raster.ReadBandWindow(pre.VH, winPre)
	if err != nil {
		return nil, err
	}
	postVV, err := raster.ReadBandWindow(post.VV, winPost)
	if err != nil {
		return nil, err
	}
	postVH, err := raster.ReadBandWindow(post.VH, winPost)
	if err != nil {
		return nil, err
	}

	ratioPre, err := change.RatioDB(preVH.Data, preVV.Data, cfg.Epsilon)
	if err != nil {
		return nil, err
	}
	ratioPost, err := change.RatioDB(postVH.Data, postVV.Data, cfg.Epsilon)
	if err != nil {
		return nil, err
	}

	delta, stats, err := change.Delta(ratioPre, ratioPost, cfg.ClampDB)
	if err != nil {
		return nil, err
	}

	result := &PairResult{
		RatioPrePath:  filepath.Join(cfg.OutputDir, fmt.Sprintf("ratio_%s.tif", preLabel)),
		RatioPostPath: filepath.Join(cfg.OutputDir, fmt.Sprintf("ratio_%s.tif", postLabel)),
		DeltaPath:     filepath.Join(cfg.OutputDir, fmt.Sprintf("ratio_delta_%s_to_%s.tif", preLabel, postLabel)),
		Stats:         stats,
	}

	// Products are written only after every array is fully computed, so
	// a failed pair never leaves a truncated file behind.
	if err := raster.Write(result.RatioPrePath, ratioPre, outRef); err != nil {
		return nil, err
	}
	if err := raster.Write(result.RatioPostPath, ratioPost, outRef); err != nil {
		return nil, err
	}
	if err := raster.Write(result.DeltaPath, delta, outRef); err != nil {
		return nil, err
	}

	if cfg.Quicklook {
		if err := renderQuicklooks(result, ratioPre, ratioPost, delta, outRef, cfg); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func renderQuicklooks(result *PairResult, ratioPre, ratioPost, delta []float32, ref raster.Georef, cfg Config) error {
	clamp := cfg.ClampDB
	if clamp <= 0 {
		clamp = change.DefaultClampDB
	}
	panels := []output.Panel{
		{Title: "VH/VV (pre) [dB]", Data: ratioPre, Ramp: output.RampRdYlGn, Min: -25, Max: -5},
		{Title: "VH/VV (post) [dB]", Data: ratioPost, Ramp: output.RampRdYlGn, Min: -25, Max: -5},
		{Title: "Delta VH/VV [dB]", Data: delta, Ramp: output.RampRdBu, Min: -clamp, Max: clamp},
	}
	for i, p := range panels {
		paths := []string{result.RatioPrePath, result.RatioPostPath, result.DeltaPath}
		png := paths[i][:len(paths[i])-len(".tif")] + ".png"
		if err := output.RenderQuicklook(png, p, ref.Width, ref.Height); err != nil {
			return err
		}
	}
	comparePNG := result.DeltaPath[:len(result.DeltaPath)-len(".tif")] + "_compare.png"
	return output.RenderComparison(comparePNG, panels, ref.Width, ref.Height)
}

// IsNoOverlap reports whether an analysis failed because the two
// rasters share no ground; callers skip the pair instead of aborting
// the batch.
func IsNoOverlap(err error) bool {
	return errors.Is(err, raster.ErrNoOverlap)
}
