package cache

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestFileCacheRoundTrip(t *testing.T) {
	fc := NewFileCache[record](t.TempDir())

	_, ok := fc.Get("jobs")
	assert.False(t, ok)

	require.NoError(t, fc.Set("jobs", record{Name: "reykjanes", Count: 6}))

	got, ok := fc.Get("jobs")
	require.True(t, ok)
	assert.Equal(t, record{Name: "reykjanes", Count: 6}, got)
}

func TestFileCacheOverwrite(t *testing.T) {
	fc := NewFileCache[record](t.TempDir())
	require.NoError(t, fc.Set("jobs", record{Count: 1}))
	require.NoError(t, fc.Set("jobs", record{Count: 2}))

	got, ok := fc.Get("jobs")
	require.True(t, ok)
	assert.Equal(t, 2, got.Count)
}

func TestFileCacheChecksumMismatchIsMiss(t *testing.T) {
	dir := t.TempDir()
	fc := NewFileCache[record](dir)
	require.NoError(t, fc.Set("jobs", record{Name: "reykjanes", Count: 6}))

	// tamper with the stored data without updating the checksum
	path := filepath.Join(dir, "jobs.json")
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	tampered := strings.Replace(string(raw), `"count":6`, `"count":7`, 1)
	require.NotEqual(t, string(raw), tampered)
	require.NoError(t, os.WriteFile(path, []byte(tampered), 0644))

	_, ok := fc.Get("jobs")
	assert.False(t, ok)
}

func TestFileCacheCorruptJSONIsMiss(t *testing.T) {
	dir := t.TempDir()
	fc := NewFileCache[record](dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "jobs.json"), []byte("{trunc"), 0644))

	_, ok := fc.Get("jobs")
	assert.False(t, ok)
}

func TestFileCacheLeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	fc := NewFileCache[record](dir)
	require.NoError(t, fc.Set("jobs", record{Count: 1}))

	leftovers, err := filepath.Glob(filepath.Join(dir, "*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}
