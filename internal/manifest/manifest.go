// Package manifest reads and builds the manifest.csv that indexes
// downloaded RTC products: one row per file with its acquisition date,
// polarization and period label. The analysis core never sees the
// manifest, only the file paths resolved from it.
package manifest

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/gocarina/gocsv"
)

type Entry struct {
	Filename     string `csv:"filename"`
	Date         string `csv:"date"`
	Polarization string `csv:"polarization"`
	Period       string `csv:"period"`
}

// BandPair is the two polarization files of one acquisition.
type BandPair struct {
	VV string
	VH string
}

func (p BandPair) Complete() bool {
	return p.VV != "" && p.VH != ""
}

var (
	isoDateRe     = regexp.MustCompile(`(20\d{2}-\d{2}-\d{2})`)
	compactDateRe = regexp.MustCompile(`(20\d{2})(\d{2})(\d{2})`)
)

// Load reads manifest rows from a CSV file.
func Load(path string) ([]Entry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open manifest %s: %w", path, err)
	}
	defer file.Close()

	var rows []Entry
	if err := gocsv.UnmarshalFile(file, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", path, err)
	}
	return rows, nil
}

// PolarizationOf resolves an entry's polarization, falling back to the
// filename when the CSV column is empty or unrecognized.
func PolarizationOf(e Entry) string {
	pol := strings.ToUpper(strings.TrimSpace(e.Polarization))
	if pol == "VV" || pol == "VH" {
		return pol
	}
	return parsePolFromName(e.Filename)
}

// DateOf resolves an entry's acquisition date as YYYY-MM-DD, falling
// back to the filename when the CSV column is empty.
func DateOf(e Entry) string {
	if d := strings.TrimSpace(e.Date); d != "" {
		return d
	}
	return parseDateFromName(e.Filename)
}

func parsePolFromName(path string) string {
	stem := strings.ToUpper(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
	switch {
	case strings.HasSuffix(stem, "_VV") || strings.Contains(stem, "_VV_"):
		return "VV"
	case strings.HasSuffix(stem, "_VH") || strings.Contains(stem, "_VH_"):
		return "VH"
	}
	return ""
}

func parseDateFromName(path string) string {
	if m := isoDateRe.FindString(filepath.ToSlash(path)); m != "" {
		return m
	}
	if m := compactDateRe.FindStringSubmatch(filepath.Base(path)); m != nil {
		return fmt.Sprintf("%s-%s-%s", m[1], m[2], m[3])
	}
	return ""
}

// PairsByPeriod groups entries into period -> date -> band pair. Rows
// without a resolvable polarization or date are skipped.
func PairsByPeriod(entries []Entry) map[string]map[string]BandPair {
	pairs := make(map[string]map[string]BandPair)
	for _, e := range entries {
		pol, date := PolarizationOf(e), DateOf(e)
		if pol == "" || date == "" {
			continue
		}
		period := e.Period
		if period == "" {
			period = "unknown"
		}
		if pairs[period] == nil {
			pairs[period] = make(map[string]BandPair)
		}
		p := pairs[period][date]
		if pol == "VV" {
			p.VV = e.Filename
		} else {
			p.VH = e.Filename
		}
		pairs[period][date] = p
	}
	return pairs
}

// PairAllDates groups entries into date -> band pair across all
// periods.
func PairAllDates(entries []Entry) map[string]BandPair {
	pairs := make(map[string]BandPair)
	for _, e := range entries {
		pol, date := PolarizationOf(e), DateOf(e)
		if pol == "" || date == "" {
			continue
		}
		p := pairs[date]
		if pol == "VV" {
			p.VV = e.Filename
		} else {
			p.VH = e.Filename
		}
		pairs[date] = p
	}
	return pairs
}

// FindPeriodPair picks the earliest date of a period that has both
// polarizations.
func FindPeriodPair(pairs map[string]map[string]BandPair, period string) (string, BandPair, bool) {
	dates := make([]string, 0, len(pairs[period]))
	for d := range pairs[period] {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	for _, d := range dates {
		if p := pairs[period][d]; p.Complete() {
			return d, p, true
		}
	}
	return "", BandPair{}, false
}

// FindLatestPairs picks the two most recent dates with complete pairs,
// ignoring periods: the older one is the pre acquisition, the newer the
// post.
func FindLatestPairs(pairs map[string]BandPair) (preDate, postDate string, pre, post BandPair, ok bool) {
	dates := make([]string, 0, len(pairs))
	for d := range pairs {
		if pairs[d].Complete() {
			dates = append(dates, d)
		}
	}
	if len(dates) < 2 {
		return "", "", BandPair{}, BandPair{}, false
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))
	postDate, preDate = dates[0], dates[1]
	return preDate, postDate, pairs[preDate], pairs[postDate], true
}

// Build walks an RTC directory tree and rewrites the manifest from the
// tif files it finds, guessing date and polarization from names and the
// period from the parent directory.
func Build(rtcDir, manifestPath string) error {
	var rows []Entry
	err := filepath.WalkDir(rtcDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".tif") {
			return nil
		}
		period := filepath.Base(filepath.Dir(path))
		switch period {
		case "pre", "during", "recent":
		default:
			period = "unknown"
		}
		rows = append(rows, Entry{
			Filename:     path,
			Date:         parseDateFromName(path),
			Polarization: parsePolFromName(path),
			Period:       period,
		})
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to walk %s: %w", rtcDir, err)
	}

	file, err := os.Create(manifestPath)
	if err != nil {
		return fmt.Errorf("failed to create manifest %s: %w", manifestPath, err)
	}
	defer file.Close()

	if err := gocsv.MarshalFile(&rows, file); err != nil {
		return fmt.Errorf("failed to write manifest %s: %w", manifestPath, err)
	}
	return nil
}
