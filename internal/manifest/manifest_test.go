package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPolarizationFallsBackToFilename(t *testing.T) {
	assert.Equal(t, "VV", PolarizationOf(Entry{Polarization: "vv"}))
	assert.Equal(t, "VH", PolarizationOf(Entry{Filename: "S1A_IW_20240512T190012_DVP_RTC30_G_gpuned_ABCD_VH.tif"}))
	assert.Equal(t, "VV", PolarizationOf(Entry{Filename: "scene_VV_clip.tif"}))
	assert.Equal(t, "", PolarizationOf(Entry{Filename: "scene_HH.tif"}))
}

func TestDateFallsBackToFilename(t *testing.T) {
	assert.Equal(t, "2024-05-12", DateOf(Entry{Date: "2024-05-12"}))
	assert.Equal(t, "2024-05-12", DateOf(Entry{Filename: "S1A_IW_20240512T190012_VV.tif"}))
	assert.Equal(t, "2025-10-04", DateOf(Entry{Filename: filepath.Join("recent", "ratio_2025-10-04.tif")}))
	assert.Equal(t, "", DateOf(Entry{Filename: "nodate_VV.tif"}))
}

func testEntries() []Entry {
	return []Entry{
		{Filename: "pre/a_20240512T190012_VV.tif", Period: "pre"},
		{Filename: "pre/a_20240512T190012_VH.tif", Period: "pre"},
		{Filename: "pre/b_20240524T190013_VV.tif", Period: "pre"}, // VH missing
		{Filename: "recent/c_20250928T190017_VV.tif", Period: "recent"},
		{Filename: "recent/c_20250928T190017_VH.tif", Period: "recent"},
		{Filename: "recent/d_20251004T190017_VV.tif", Period: "recent"},
		{Filename: "recent/d_20251004T190017_VH.tif", Period: "recent"},
	}
}

func TestPairsByPeriod(t *testing.T) {
	pairs := PairsByPeriod(testEntries())

	require.Contains(t, pairs, "pre")
	require.Contains(t, pairs, "recent")
	assert.Len(t, pairs["pre"], 2)
	assert.True(t, pairs["pre"]["2024-05-12"].Complete())
	assert.False(t, pairs["pre"]["2024-05-24"].Complete())
}

func TestFindPeriodPairPicksEarliestComplete(t *testing.T) {
	pairs := PairsByPeriod(testEntries())

	date, pair, ok := FindPeriodPair(pairs, "pre")
	require.True(t, ok)
	assert.Equal(t, "2024-05-12", date)
	assert.Equal(t, "pre/a_20240512T190012_VV.tif", pair.VV)
	assert.Equal(t, "pre/a_20240512T190012_VH.tif", pair.VH)

	_, _, ok = FindPeriodPair(pairs, "during")
	assert.False(t, ok)
}

func TestFindLatestPairs(t *testing.T) {
	pairs := PairAllDates(testEntries())

	preDate, postDate, pre, post, ok := FindLatestPairs(pairs)
	require.True(t, ok)
	assert.Equal(t, "2025-09-28", preDate)
	assert.Equal(t, "2025-10-04", postDate)
	assert.True(t, pre.Complete())
	assert.True(t, post.Complete())
}

func TestFindLatestPairsNeedsTwoDates(t *testing.T) {
	pairs := PairAllDates(testEntries()[:3])
	_, _, _, _, ok := FindLatestPairs(pairs)
	assert.False(t, ok)
}

func TestLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "manifest.csv")
	csv := "filename,date,polarization,period\n" +
		"a_VV.tif,2024-05-12,VV,pre\n" +
		"a_VH.tif,2024-05-12,VH,pre\n"
	require.NoError(t, os.WriteFile(path, []byte(csv), 0644))

	rows, err := Load(path)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "a_VV.tif", rows[0].Filename)
	assert.Equal(t, "pre", rows[0].Period)
	assert.Equal(t, "VH", rows[1].Polarization)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}

func TestBuildWalksPeriodsAndFiles(t *testing.T) {
	root := t.TempDir()
	for _, rel := range []string{
		"pre/s1_20240512T190012_VV.tif",
		"pre/s1_20240512T190012_VH.tif",
		"recent/s2_20251004T190017_VV.tif",
		"misc/junk_20240101_VV.tif",
		"pre/readme.txt",
	} {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
	}

	manifestPath := filepath.Join(root, "manifest.csv")
	require.NoError(t, Build(root, manifestPath))

	rows, err := Load(manifestPath)
	require.NoError(t, err)
	require.Len(t, rows, 4) // txt files are skipped

	byName := make(map[string]Entry)
	for _, r := range rows {
		byName[filepath.Base(r.Filename)] = r
	}
	assert.Equal(t, "pre", byName["s1_20240512T190012_VV.tif"].Period)
	assert.Equal(t, "2024-05-12", byName["s1_20240512T190012_VV.tif"].Date)
	assert.Equal(t, "VH", byName["s1_20240512T190012_VH.tif"].Polarization)
	assert.Equal(t, "recent", byName["s2_20251004T190017_VV.tif"].Period)
	assert.Equal(t, "unknown", byName["junk_20240101_VV.tif"].Period)
}
