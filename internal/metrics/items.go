// Package metrics derives ownership, ledger and weight figures from stored
// records. Every function is pure: callers pass the records and, where the
// result depends on the current day, an explicit as-of instant.
package metrics

import (
	"fmt"
	"strings"
	"time"

	"pantagon/internal/domain"
)

const (
	noGroupLabel       = "No Group"
	uncategorizedLabel = "Uncategorized"
	hoursPerDay        = 24
)

// BurnFilter selects which items count toward the aggregate daily burn rate.
type BurnFilter string

const (
	// BurnNotSold counts every item whose status is not sold.
	BurnNotSold BurnFilter = "not_sold"
	// BurnOptedIn additionally drops items flagged daily_burn=false.
	BurnOptedIn BurnFilter = "opted_in"
)

func ParseBurnFilter(raw string) (BurnFilter, error) {
	switch BurnFilter(strings.ToLower(strings.TrimSpace(raw))) {
	case "", BurnNotSold:
		return BurnNotSold, nil
	case BurnOptedIn:
		return BurnOptedIn, nil
	}
	return "", fmt.Errorf("invalid burn rate filter %q: expected %s or %s", raw, BurnNotSold, BurnOptedIn)
}

func (f BurnFilter) Includes(item domain.Item) bool {
	if item.Status == domain.ItemSold {
		return false
	}
	if f == BurnOptedIn {
		return item.DailyBurn
	}
	return true
}

// DaysHeld counts whole days from buy to sell, or to asOf while the item is
// still held. Same-day and negative spans count as one day.
func DaysHeld(buy domain.Date, sell *domain.Date, asOf time.Time) int {
	end := wallClockUTC(asOf)
	if sell != nil && !sell.IsZero() {
		end = sell.Time
	}
	days := int(end.Sub(buy.Time).Hours() / hoursPerDay)
	if days <= 0 {
		return 1
	}
	return days
}

func RealCost(buyPrice, extraCost float64) float64 {
	return buyPrice + extraCost
}

func CostPerDay(realCost float64, daysHeld int) float64 {
	return realCost / float64(daysHeld)
}

// AvgCostPerDaySold is CostPerDay for the holding period of a sold item.
func AvgCostPerDaySold(realCost float64, daysHeld int) float64 {
	return realCost / float64(daysHeld)
}

// Profit is the resale margin. Extra cost is not deducted; see NetProfit.
func Profit(sellPrice, buyPrice float64) float64 {
	return sellPrice - buyPrice
}

func NetProfit(sellPrice, realCost float64) float64 {
	return sellPrice - realCost
}

func Enrich(item domain.Item, asOf time.Time) domain.ItemWithMetrics {
	daysHeld := DaysHeld(item.BuyDate, item.SellDate, asOf)
	realCost := RealCost(item.BuyPrice, item.ExtraCost)

	enriched := domain.ItemWithMetrics{
		Item: item,
		ItemMetrics: domain.ItemMetrics{
			DaysHeld: daysHeld,
			RealCost: realCost,
		},
	}

	switch {
	case item.Status == domain.ItemOwned:
		enriched.CostPerDay = ptr(CostPerDay(realCost, daysHeld))
	case item.Status == domain.ItemSold && item.SellPrice != nil:
		sellPrice := *item.SellPrice
		enriched.AvgCostPerDaySold = ptr(AvgCostPerDaySold(realCost, daysHeld))
		enriched.Profit = ptr(Profit(sellPrice, item.BuyPrice))
		enriched.NetProfit = ptr(NetProfit(sellPrice, realCost))
	}
	return enriched
}

func EnrichAll(items []domain.Item, asOf time.Time) []domain.ItemWithMetrics {
	out := make([]domain.ItemWithMetrics, 0, len(items))
	for _, item := range items {
		out = append(out, Enrich(item, asOf))
	}
	return out
}

func DailyBurnRate(items []domain.Item, filter BurnFilter, asOf time.Time) float64 {
	total := 0.0
	for _, item := range items {
		if !filter.Includes(item) {
			continue
		}
		total += burnRate(item, asOf)
	}
	return total
}

func TotalProfit(items []domain.Item) float64 {
	total := 0.0
	for _, item := range items {
		if item.Status != domain.ItemSold || item.SellPrice == nil {
			continue
		}
		total += Profit(*item.SellPrice, item.BuyPrice)
	}
	return total
}

func Dashboard(items []domain.Item, filter BurnFilter, asOf time.Time) domain.ItemDashboard {
	dashboard := domain.ItemDashboard{
		TotalItems:    len(items),
		DailyBurnRate: DailyBurnRate(items, filter, asOf),
		TotalProfit:   TotalProfit(items),
		BurnFilter:    string(filter),
	}
	for _, item := range items {
		switch item.Status {
		case domain.ItemOwned:
			dashboard.OwnedItems++
		case domain.ItemSold:
			dashboard.SoldItems++
		}
	}
	return dashboard
}

// GroupBurnRates averages the burn rate of every item, sold ones included,
// per group. Groups keep the order in which they first appear.
func GroupBurnRates(items []domain.Item, asOf time.Time) []domain.GroupBurnRate {
	type acc struct {
		total float64
		count int
	}
	order := make([]string, 0)
	groups := make(map[string]*acc)
	for _, item := range items {
		name := labelOr(item.GroupName, noGroupLabel)
		g, ok := groups[name]
		if !ok {
			g = &acc{}
			groups[name] = g
			order = append(order, name)
		}
		g.total += burnRate(item, asOf)
		g.count++
	}

	out := make([]domain.GroupBurnRate, 0, len(order))
	for _, name := range order {
		g := groups[name]
		out = append(out, domain.GroupBurnRate{
			GroupName:   name,
			AvgBurnRate: g.total / float64(g.count),
			ItemCount:   g.count,
		})
	}
	return out
}

func CategoryDistribution(items []domain.Item) []domain.CategoryShare {
	order := make([]string, 0)
	counts := make(map[string]int)
	for _, item := range items {
		name := labelOr(item.Category, uncategorizedLabel)
		if _, ok := counts[name]; !ok {
			order = append(order, name)
		}
		counts[name]++
	}

	out := make([]domain.CategoryShare, 0, len(order))
	for _, name := range order {
		out = append(out, domain.CategoryShare{
			Category:   name,
			Count:      counts[name],
			Percentage: float64(counts[name]) / float64(len(items)) * 100,
		})
	}
	return out
}

func burnRate(item domain.Item, asOf time.Time) float64 {
	daysHeld := DaysHeld(item.BuyDate, item.SellDate, asOf)
	return CostPerDay(RealCost(item.BuyPrice, item.ExtraCost), daysHeld)
}

// wallClockUTC reinterprets t's wall clock as UTC so it can be compared with
// midnight-UTC dates.
func wallClockUTC(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}

func labelOr(value *string, fallback string) string {
	if value == nil {
		return fallback
	}
	if trimmed := strings.TrimSpace(*value); trimmed != "" {
		return trimmed
	}
	return fallback
}

func ptr(v float64) *float64 {
	return &v
}
