package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pantagon/internal/domain"
)

func weightSeries(values ...float64) []domain.WeightEntry {
	start := time.Date(2025, time.January, 1, 7, 0, 0, 0, time.UTC)
	out := make([]domain.WeightEntry, len(values))
	for i, v := range values {
		out[i] = domain.WeightEntry{ID: int64(i + 1), WeightKg: v, RecordedAt: start.AddDate(0, 0, i)}
	}
	return out
}

func TestWeightStatsOfEmpty(t *testing.T) {
	got := WeightStatsOf(nil)

	assert.Equal(t, 0.0, got.Min)
	assert.Equal(t, 0.0, got.Max)
	assert.Equal(t, 0.0, got.Avg)
	assert.Nil(t, got.TotalChange)
	assert.Nil(t, got.LatestRecordedAt)
	assert.Equal(t, 0, got.TotalEntries)
}

func TestWeightStatsOfSingleEntry(t *testing.T) {
	got := WeightStatsOf(weightSeries(83))

	assert.Equal(t, 83.0, got.Min)
	assert.Equal(t, 83.0, got.Max)
	assert.Equal(t, 83.0, got.Avg)
	assert.Nil(t, got.TotalChange)
	require.NotNil(t, got.LatestRecordedAt)
}

func TestWeightStatsOfSeries(t *testing.T) {
	entries := weightSeries(30, 10, 20)

	got := WeightStatsOf(entries)

	assert.Equal(t, 10.0, got.Min)
	assert.Equal(t, 30.0, got.Max)
	assert.InDelta(t, 20.0, got.Avg, 1e-9)
	require.NotNil(t, got.TotalChange)
	assert.Equal(t, -10.0, *got.TotalChange)
	assert.Equal(t, 3, got.TotalEntries)
	require.NotNil(t, got.LatestRecordedAt)
	assert.Equal(t, entries[2].RecordedAt, *got.LatestRecordedAt)
}

func TestWeightStatsOfKeepsInputOrder(t *testing.T) {
	got := WeightStatsOf(weightSeries(80.5, 82, 79))

	require.NotNil(t, got.TotalChange)
	assert.InDelta(t, -1.5, *got.TotalChange, 1e-9)
}
