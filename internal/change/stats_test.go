package change

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	nan := float32(math.NaN())
	data := []float32{-20, -15, nan, -10, -5, nan, 0}

	stats := Summarize(data)
	require.True(t, stats.Defined())
	assert.Equal(t, -20.0, stats.Min)
	assert.Equal(t, 0.0, stats.Max)
	assert.InDelta(t, -10.0, stats.Mean, 1e-9)
	assert.Greater(t, stats.Std, 0.0)
	assert.LessOrEqual(t, stats.P5, stats.P50)
	assert.LessOrEqual(t, stats.P50, stats.P95)
}

func TestSummarizeEmptyAndAllMissing(t *testing.T) {
	for name, data := range map[string][]float32{
		"empty":   {},
		"all nan": {float32(math.NaN()), float32(math.NaN())},
		"all inf": {float32(math.Inf(1)), float32(math.Inf(-1))},
	} {
		stats := Summarize(data)
		assert.False(t, stats.Defined(), name)
		assert.True(t, math.IsNaN(stats.Min), name)
		assert.True(t, math.IsNaN(stats.P50), name)
	}
}

func TestComparePeriods(t *testing.T) {
	nan := float32(math.NaN())
	pre := []float32{-10, -10, nan, -10}
	post := []float32{-7, -7, -7, nan}

	mean, std := ComparePeriods(pre, post)
	assert.InDelta(t, 3.0, mean, 1e-9)
	assert.InDelta(t, 0.0, std, 1e-9)
}

func TestComparePeriodsNoCommonPixels(t *testing.T) {
	nan := float32(math.NaN())
	mean, std := ComparePeriods([]float32{nan, -10}, []float32{-7, nan})
	assert.True(t, math.IsNaN(mean))
	assert.True(t, math.IsNaN(std))
}
