package delivery

import (
	"fmt"

	"github.com/Yasaswini-ch/reykjanes-sar-analysis/internal/manifest"
)

// AnalyzePeriods resolves the first complete VV/VH pair of each named
// period from the manifest and compares them. Mirrors the default mode
// of the analysis CLI: --pre and --post name periods, not files.
func AnalyzePeriods(manifestPath, prePeriod, postPeriod string, cfg Config) (*PairResult, error) {
	entries, err := manifest.Load(manifestPath)
	if err != nil {
		return nil, err
	}
	pairs := manifest.PairsByPeriod(entries)

	preDate, prePair, ok := manifest.FindPeriodPair(pairs, prePeriod)
	if !ok {
		return nil, fmt.Errorf("no complete VV/VH pair for period %q in %s", prePeriod, manifestPath)
	}
	postDate, postPair, ok := manifest.FindPeriodPair(pairs, postPeriod)
	if !ok {
		return nil, fmt.Errorf("no complete VV/VH pair for period %q in %s", postPeriod, manifestPath)
	}

	preLabel := fmt.Sprintf("%s_%s", prePeriod, preDate)
	postLabel := fmt.Sprintf("%s_%s", postPeriod, postDate)
	result, err := AnalyzePair(prePair, postPair, preLabel, postLabel, cfg)
	if err != nil {
		return nil, err
	}
	return result, recordStats(result, prePair, postPair, cfg)
}

// AnalyzeLatest ignores period labels and compares the two most recent
// dates that have both polarizations: the older acquisition is the pre.
func AnalyzeLatest(manifestPath string, cfg Config) (*PairResult, error) {
	entries, err := manifest.Load(manifestPath)
	if err != nil {
		return nil, err
	}
	preDate, postDate, prePair, postPair, ok := manifest.FindLatestPairs(manifest.PairAllDates(entries))
	if !ok {
		return nil, fmt.Errorf("could not find two dates with complete VV/VH pairs in %s", manifestPath)
	}

	result, err := AnalyzePair(prePair, postPair, preDate, postDate, cfg)
	if err != nil {
		return nil, err
	}
	return result, recordStats(result, prePair, postPair, cfg)
}

func recordStats(result *PairResult, pre, post manifest.BandPair, cfg Config) error {
	return AppendStats(statsPath(cfg), StatsRow{
		Pre:  pre.VV,
		Post: post.VV,
		Mean: result.Stats.Mean,
		Std:  result.Stats.Std,
		P5:   result.Stats.P5,
		P95:  result.Stats.P95,
	})
}

func statsPath(cfg Config) string {
	return cfg.OutputDir + "/stats.csv"
}
