package metrics

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"pantagon/internal/domain"
)

// WeightStatsOf summarizes entries in the order given, which callers keep
// chronological. An empty series yields zeros.
func WeightStatsOf(entries []domain.WeightEntry) domain.WeightStats {
	stats := domain.WeightStats{TotalEntries: len(entries)}
	if len(entries) == 0 {
		return stats
	}

	series := make([]float64, len(entries))
	for i, entry := range entries {
		series[i] = entry.WeightKg
	}
	stats.Min = floats.Min(series)
	stats.Max = floats.Max(series)
	stats.Avg = stat.Mean(series, nil)

	latest := entries[len(entries)-1].RecordedAt
	stats.LatestRecordedAt = &latest

	if len(entries) >= 2 {
		change := series[len(series)-1] - series[0]
		stats.TotalChange = &change
	}
	return stats
}
