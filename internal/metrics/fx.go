package metrics

import "pantagon/internal/domain"

// FXStatsOf aggregates the whole ledger. Totals add every entry as a positive
// amount whatever its status; Out entries are not netted off.
func FXStatsOf(entries []domain.FXEntry) domain.FXStats {
	var (
		stats       domain.FXStats
		usdForRate  float64
		weightedSum float64
	)

	for _, entry := range entries {
		stats.TotalUSD += entry.USD
		if entry.THB != nil {
			stats.TotalTHB += *entry.THB
		}

		// Unrated entries, pure THB deposits among them, stay out of the average.
		if entry.Rate != nil && *entry.Rate != 0 && entry.USD != 0 {
			usdForRate += entry.USD
			weightedSum += entry.USD * *entry.Rate
		}

		if entry.Status == domain.FXIn || entry.Status == domain.FXInterest {
			stats.ActiveEntries++
		}
	}
	stats.TotalEntries = len(entries)

	if usdForRate > 0 {
		stats.WeightedAvgRate = weightedSum / usdForRate
	}
	stats.TotalValueTHB = stats.TotalTHB + stats.TotalUSD*stats.WeightedAvgRate
	stats.TotalValueUSD = stats.TotalUSD
	if stats.WeightedAvgRate > 0 {
		stats.TotalValueUSD += stats.TotalTHB / stats.WeightedAvgRate
	}
	return stats
}

// TotalInterest sums the USD and THB amounts of Interest entries into one
// figure, the way the ledger dashboard shows earned interest.
func TotalInterest(entries []domain.FXEntry) float64 {
	total := 0.0
	for _, entry := range entries {
		if entry.Status != domain.FXInterest {
			continue
		}
		total += entry.USD
		if entry.THB != nil {
			total += *entry.THB
		}
	}
	return total
}
