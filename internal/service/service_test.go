package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pantagon/internal/domain"
	"pantagon/internal/metrics"
	"pantagon/internal/repository"
	"pantagon/internal/service/servicetest"
)

var fixedNow = time.Date(2025, time.March, 1, 9, 0, 0, 0, time.UTC)

func newTestService(store *servicetest.MemoryStore, filter metrics.BurnFilter) *Service {
	return New(store, filter, WithClock(func() time.Time { return fixedNow }))
}

func strPtr(v string) *string {
	return &v
}

func floatPtr(v float64) *float64 {
	return &v
}

func boolPtr(v bool) *bool {
	return &v
}

func datePtr(y int, m time.Month, d int) *domain.Date {
	date := domain.NewDate(y, m, d)
	return &date
}

func validItemInput() domain.ItemInput {
	return domain.ItemInput{
		Name:      "  Camera  ",
		Tags:      []string{" photo ", "", "photo", "travel"},
		Category:  strPtr("  Electronics "),
		GroupName: strPtr("   "),
		BuyDate:   domain.NewDate(2025, 2, 1),
		BuyPrice:  1400,
		ExtraCost: 0,
		Status:    domain.ItemOwned,
		SellDate:  datePtr(2025, 2, 10),
		SellPrice: floatPtr(900),
	}
}

func TestCreateItemNormalizesInput(t *testing.T) {
	store := &servicetest.MemoryStore{}
	svc := newTestService(store, metrics.BurnNotSold)

	item, err := svc.CreateItem(context.Background(), validItemInput())
	require.NoError(t, err)

	assert.Equal(t, "Camera", item.Name)
	assert.Equal(t, []string{"photo", "travel"}, item.Tags)
	require.NotNil(t, item.Category)
	assert.Equal(t, "Electronics", *item.Category)
	assert.Nil(t, item.GroupName)
	assert.True(t, item.DailyBurn)
	assert.Nil(t, item.SellDate, "owned items drop sell fields")
	assert.Nil(t, item.SellPrice)
	assert.Len(t, store.Items, 1)
}

func TestCreateItemRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*domain.ItemInput)
		want   string
	}{
		{"blank name", func(in *domain.ItemInput) { in.Name = "  " }, "name is required"},
		{"zero price", func(in *domain.ItemInput) { in.BuyPrice = 0 }, "buy_price must be greater than 0"},
		{"negative extra cost", func(in *domain.ItemInput) { in.ExtraCost = -1 }, "extra_cost cannot be less than 0"},
		{"unknown status", func(in *domain.ItemInput) { in.Status = "lost" }, "status must be one of"},
		{"missing buy date", func(in *domain.ItemInput) { in.BuyDate = domain.Date{} }, "buy_date is required"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store := &servicetest.MemoryStore{}
			svc := newTestService(store, metrics.BurnNotSold)
			input := validItemInput()
			tc.mutate(&input)

			_, err := svc.CreateItem(context.Background(), input)
			require.Error(t, err)
			assert.True(t, IsValidation(err))
			assert.Contains(t, err.Error(), tc.want)
			assert.Empty(t, store.Items)
		})
	}
}

func TestCreateSoldItemKeepsSaleAndAcceptsStatusCasing(t *testing.T) {
	svc := newTestService(&servicetest.MemoryStore{}, metrics.BurnNotSold)
	input := validItemInput()
	input.Status = " SOLD "
	input.DailyBurn = boolPtr(false)

	item, err := svc.CreateItem(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, domain.ItemSold, item.Status)
	assert.False(t, item.DailyBurn)
	require.NotNil(t, item.SellPrice)
	assert.Equal(t, 900.0, *item.SellPrice)
	require.NotNil(t, item.SellDate)
	assert.Equal(t, "2025-02-10", item.SellDate.String())
}

func TestUpdateItemAppliesPatchAndRevalidates(t *testing.T) {
	ctx := context.Background()
	store := &servicetest.MemoryStore{}
	svc := newTestService(store, metrics.BurnNotSold)
	created, err := svc.CreateItem(ctx, validItemInput())
	require.NoError(t, err)

	sold := domain.ItemSold
	updated, err := svc.UpdateItem(ctx, created.ID, domain.ItemPatch{
		Status:    &sold,
		SellDate:  domain.NullableOf(domain.NewDate(2025, 2, 11)),
		SellPrice: domain.NullableOf(1500.0),
		Note:      domain.NullableOf("  upgraded "),
	})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, domain.ItemSold, updated.Status)
	require.NotNil(t, updated.Note)
	assert.Equal(t, "upgraded", *updated.Note)
	assert.Equal(t, "Camera", updated.Name)

	badPrice := -5.0
	_, err = svc.UpdateItem(ctx, created.ID, domain.ItemPatch{BuyPrice: &badPrice})
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Equal(t, 1400.0, store.Items[0].BuyPrice, "rejected patch leaves the record alone")

	owned := domain.ItemOwned
	reverted, err := svc.UpdateItem(ctx, created.ID, domain.ItemPatch{Status: &owned})
	require.NoError(t, err)
	assert.Nil(t, reverted.SellPrice)
	assert.Nil(t, reverted.SellDate)
}

func TestUpdateItemNullClearsFields(t *testing.T) {
	ctx := context.Background()
	store := &servicetest.MemoryStore{}
	svc := newTestService(store, metrics.BurnNotSold)

	input := validItemInput()
	input.Status = domain.ItemSold
	input.Note = strPtr("boxed")
	created, err := svc.CreateItem(ctx, input)
	require.NoError(t, err)
	require.NotNil(t, created.Category)
	require.NotNil(t, created.SellPrice)

	updated, err := svc.UpdateItem(ctx, created.ID, domain.ItemPatch{
		Category:  domain.Null[string](),
		SellPrice: domain.Null[float64](),
	})
	require.NoError(t, err)
	assert.Nil(t, updated.Category)
	assert.Nil(t, updated.SellPrice)
	require.NotNil(t, updated.Note, "absent keys keep their value")
	assert.Equal(t, "boxed", *updated.Note)
	require.NotNil(t, updated.SellDate)
	assert.Equal(t, domain.NewDate(2025, 2, 10), *updated.SellDate)
}

func TestUpdateItemUnknownID(t *testing.T) {
	svc := newTestService(&servicetest.MemoryStore{}, metrics.BurnNotSold)
	_, err := svc.UpdateItem(context.Background(), "missing", domain.ItemPatch{})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestItemReadsUseClockOrAsOf(t *testing.T) {
	ctx := context.Background()
	store := &servicetest.MemoryStore{}
	svc := newTestService(store, metrics.BurnNotSold)
	created, err := svc.CreateItem(ctx, validItemInput())
	require.NoError(t, err)

	enriched, err := svc.GetItemWithMetrics(ctx, created.ID, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, 28, enriched.DaysHeld)
	require.NotNil(t, enriched.CostPerDay)
	assert.InDelta(t, 50.0, *enriched.CostPerDay, 1e-9)

	list, err := svc.ListItemsWithMetrics(ctx, repository.ItemListFilter{}, time.Date(2025, time.February, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 14, list[0].DaysHeld)
	assert.InDelta(t, 100.0, *list[0].CostPerDay, 1e-9)
}

func TestItemDashboardHonoursBurnFilter(t *testing.T) {
	ctx := context.Background()
	store := &servicetest.MemoryStore{}

	optedOut := validItemInput()
	optedOut.DailyBurn = boolPtr(false)
	sold := validItemInput()
	sold.Status = domain.ItemSold
	sold.SellPrice = floatPtr(1600)

	notSold := newTestService(store, metrics.BurnNotSold)
	for _, input := range []domain.ItemInput{validItemInput(), optedOut, sold} {
		_, err := notSold.CreateItem(ctx, input)
		require.NoError(t, err)
	}

	dashboard, err := notSold.ItemDashboard(ctx, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, 3, dashboard.TotalItems)
	assert.Equal(t, 2, dashboard.OwnedItems)
	assert.Equal(t, 1, dashboard.SoldItems)
	assert.InDelta(t, 100.0, dashboard.DailyBurnRate, 1e-9)
	assert.InDelta(t, 200.0, dashboard.TotalProfit, 1e-9)
	assert.Equal(t, "not_sold", dashboard.BurnFilter)

	optedIn := newTestService(store, metrics.BurnOptedIn)
	dashboard, err = optedIn.ItemDashboard(ctx, time.Time{})
	require.NoError(t, err)
	assert.InDelta(t, 50.0, dashboard.DailyBurnRate, 1e-9)
	assert.Equal(t, "opted_in", dashboard.BurnFilter)
}

func TestImportItemsIsAllOrNothing(t *testing.T) {
	store := &servicetest.MemoryStore{}
	svc := newTestService(store, metrics.BurnNotSold)
	bad := validItemInput()
	bad.BuyPrice = 0

	_, err := svc.ImportItems(context.Background(), []domain.ItemInput{validItemInput(), bad})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 2")
	assert.Empty(t, store.Items)

	count, err := svc.ImportItems(context.Background(), []domain.ItemInput{validItemInput(), validItemInput()})
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestFXEntryValidation(t *testing.T) {
	svc := newTestService(&servicetest.MemoryStore{}, metrics.BurnNotSold)
	ctx := context.Background()

	_, err := svc.CreateFXEntry(ctx, domain.FXEntryInput{Status: domain.FXIn, Date: domain.NewDate(2025, 1, 1)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "usd or thb amount is required")

	_, err = svc.CreateFXEntry(ctx, domain.FXEntryInput{Status: "Deposit", Date: domain.NewDate(2025, 1, 1), USD: 10})
	require.Error(t, err)
	assert.True(t, IsValidation(err))

	_, err = svc.CreateFXEntry(ctx, domain.FXEntryInput{Status: domain.FXIn, USD: 10})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "date is required")

	entry, err := svc.CreateFXEntry(ctx, domain.FXEntryInput{
		Status: "interest",
		Date:   domain.NewDate(2025, 1, 1),
		THB:    floatPtr(120),
		Note:   strPtr(" "),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.FXInterest, entry.Status)
	assert.Nil(t, entry.Note)
}

func TestFXSummaryAndPatch(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(&servicetest.MemoryStore{}, metrics.BurnNotSold)

	first, err := svc.CreateFXEntry(ctx, domain.FXEntryInput{Status: domain.FXIn, Date: domain.NewDate(2025, 1, 1), USD: 100, Rate: floatPtr(35)})
	require.NoError(t, err)
	_, err = svc.CreateFXEntry(ctx, domain.FXEntryInput{Status: domain.FXInterest, Date: domain.NewDate(2025, 1, 2), USD: 2, THB: floatPtr(10)})
	require.NoError(t, err)

	summary, err := svc.FXSummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.TotalEntries)
	assert.InDelta(t, 35.0, summary.WeightedAvgRate, 1e-9)
	assert.InDelta(t, 12.0, summary.TotalInterest, 1e-9)

	out := domain.FXOut
	updated, err := svc.UpdateFXEntry(ctx, first.ID, domain.FXEntryPatch{Status: &out, Rate: domain.NullableOf(36.0)})
	require.NoError(t, err)
	assert.Equal(t, domain.FXOut, updated.Status)
	assert.InDelta(t, 100.0, updated.USD, 1e-9)

	summary, err = svc.FXSummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.ActiveEntries)
	assert.InDelta(t, 36.0, summary.WeightedAvgRate, 1e-9)

	assert.ErrorIs(t, svc.DeleteFXEntry(ctx, 99), repository.ErrNotFound)
}

func TestUpdateFXEntryNullClearsFields(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(&servicetest.MemoryStore{}, metrics.BurnNotSold)

	entry, err := svc.CreateFXEntry(ctx, domain.FXEntryInput{
		Status: domain.FXIn,
		Date:   domain.NewDate(2025, 1, 1),
		USD:    100,
		THB:    floatPtr(3500),
		Rate:   floatPtr(35),
		Note:   strPtr("salary"),
	})
	require.NoError(t, err)

	updated, err := svc.UpdateFXEntry(ctx, entry.ID, domain.FXEntryPatch{
		THB:  domain.Null[float64](),
		Rate: domain.Null[float64](),
		Note: domain.Null[string](),
	})
	require.NoError(t, err)
	assert.Nil(t, updated.THB)
	assert.Nil(t, updated.Rate)
	assert.Nil(t, updated.Note)
	assert.InDelta(t, 100.0, updated.USD, 1e-9)

	_, err = svc.UpdateFXEntry(ctx, entry.ID, domain.FXEntryPatch{USD: floatPtr(0)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "usd or thb amount is required")
}

func TestWeightStatsFollowRecordedOrder(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(&servicetest.MemoryStore{}, metrics.BurnNotSold)

	_, err := svc.AddWeight(ctx, domain.WeightInput{WeightKg: 70, RecordedAt: fixedNow})
	require.NoError(t, err)
	count, err := svc.ImportWeights(ctx, []domain.WeightInput{
		{WeightKg: 75, RecordedAt: fixedNow.AddDate(0, 0, -30)},
		{WeightKg: 72, RecordedAt: fixedNow.AddDate(0, 0, -10)},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	entries, err := svc.ListWeights(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.InDelta(t, 75.0, entries[0].WeightKg, 1e-9)
	assert.InDelta(t, 70.0, entries[2].WeightKg, 1e-9)

	stats, err := svc.WeightStats(ctx)
	require.NoError(t, err)
	require.NotNil(t, stats.TotalChange)
	assert.InDelta(t, -5.0, *stats.TotalChange, 1e-9)
	require.NotNil(t, stats.LatestRecordedAt)
	assert.Equal(t, fixedNow, *stats.LatestRecordedAt)
}

func TestAddWeightDefaultsRecordedAt(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(&servicetest.MemoryStore{}, metrics.BurnNotSold)

	entry, err := svc.AddWeight(ctx, domain.WeightInput{WeightKg: 72.4})
	require.NoError(t, err)
	assert.Equal(t, fixedNow, entry.RecordedAt)

	_, err = svc.AddWeight(ctx, domain.WeightInput{WeightKg: 0})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "weight_kg must be greater than 0")

	_, err = svc.AddWeight(ctx, domain.WeightInput{WeightKg: 70.4, RecordedAt: fixedNow.Add(24 * time.Hour)})
	require.NoError(t, err)

	stats, err := svc.WeightStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalEntries)
	require.NotNil(t, stats.TotalChange)
	assert.InDelta(t, -2.0, *stats.TotalChange, 1e-9)
}

func TestValidateWithoutStore(t *testing.T) {
	svc := New(nil, metrics.BurnNotSold, WithClock(func() time.Time { return fixedNow }))

	assert.NoError(t, svc.ValidateItems([]domain.ItemInput{validItemInput()}))
	assert.NoError(t, svc.ValidateWeights([]domain.WeightInput{{WeightKg: 70}}))

	err := svc.ValidateFXEntries([]domain.FXEntryInput{
		{Status: domain.FXIn, Date: domain.NewDate(2025, 1, 1), USD: 10},
		{Status: domain.FXOut, Date: domain.NewDate(2025, 1, 2)},
	})
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Contains(t, err.Error(), "row 2: usd or thb amount is required")
}

func TestImportSheetsWritesNothingOnBadRow(t *testing.T) {
	ctx := context.Background()
	store := &servicetest.MemoryStore{}
	svc := newTestService(store, metrics.BurnNotSold)

	fx := []domain.FXEntryInput{{Status: domain.FXIn, Date: domain.NewDate(2025, 1, 1), USD: 100, Rate: floatPtr(35)}}
	_, err := svc.ImportSheets(ctx,
		[]domain.ItemInput{validItemInput()},
		fx,
		[]domain.WeightInput{{WeightKg: 70}, {WeightKg: -1}},
	)
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Contains(t, err.Error(), "weights: row 2")
	assert.Empty(t, store.Items)
	assert.Empty(t, store.FX)
	assert.Empty(t, store.Weights)

	counts, err := svc.ImportSheets(ctx, []domain.ItemInput{validItemInput()}, fx, []domain.WeightInput{{WeightKg: 70}})
	require.NoError(t, err)
	assert.Equal(t, domain.ImportCounts{Items: 1, FXEntries: 1, Weights: 1}, counts)
	assert.Len(t, store.Items, 1)
	assert.Len(t, store.FX, 1)
	assert.Len(t, store.Weights, 1)
}
