package service

import (
	"context"
	"strings"
	"time"

	"pantagon/internal/domain"
	"pantagon/internal/metrics"
	"pantagon/internal/repository"
)

func (s *Service) ListItems(ctx context.Context, filter repository.ItemListFilter) ([]domain.Item, error) {
	return s.store.ListItems(ctx, filter)
}

func (s *Service) GetItem(ctx context.Context, id string) (*domain.Item, error) {
	return s.store.GetItem(ctx, id)
}

func (s *Service) ListItemsWithMetrics(ctx context.Context, filter repository.ItemListFilter, at time.Time) ([]domain.ItemWithMetrics, error) {
	items, err := s.store.ListItems(ctx, filter)
	if err != nil {
		return nil, err
	}
	return metrics.EnrichAll(items, s.asOf(at)), nil
}

func (s *Service) GetItemWithMetrics(ctx context.Context, id string, at time.Time) (*domain.ItemWithMetrics, error) {
	item, err := s.store.GetItem(ctx, id)
	if err != nil {
		return nil, err
	}
	enriched := metrics.Enrich(*item, s.asOf(at))
	return &enriched, nil
}

func (s *Service) CreateItem(ctx context.Context, input domain.ItemInput) (domain.Item, error) {
	item, err := s.buildItem(input)
	if err != nil {
		return domain.Item{}, err
	}
	created, err := s.store.CreateItem(ctx, item)
	if err != nil {
		return domain.Item{}, err
	}
	s.log.Info().Str("item_id", created.ID).Str("status", string(created.Status)).Msg("item created")
	return created, nil
}

func (s *Service) UpdateItem(ctx context.Context, id string, patch domain.ItemPatch) (*domain.Item, error) {
	updated, err := s.store.UpdateItem(ctx, id, func(item *domain.Item) error {
		applyItemPatch(item, patch)
		next, err := s.buildItem(inputFromItem(*item))
		if err != nil {
			return err
		}
		next.ID = item.ID
		next.CreatedAt = item.CreatedAt
		next.UpdatedAt = item.UpdatedAt
		*item = next
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("item_id", id).Msg("item updated")
	return updated, nil
}

func (s *Service) DeleteItem(ctx context.Context, id string) error {
	if err := s.store.DeleteItem(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("item_id", id).Msg("item deleted")
	return nil
}

// ImportItems validates every row before writing any of them.
func (s *Service) ImportItems(ctx context.Context, inputs []domain.ItemInput) (int, error) {
	items := make([]domain.Item, 0, len(inputs))
	for i, input := range inputs {
		item, err := s.buildItem(input)
		if err != nil {
			return 0, invalid("row %d: %v", i+1, err)
		}
		items = append(items, item)
	}
	count, err := s.store.InsertItems(ctx, items)
	if err != nil {
		return 0, err
	}
	s.log.Info().Int("rows", count).Msg("items imported")
	return count, nil
}

func (s *Service) ItemDashboard(ctx context.Context, at time.Time) (domain.ItemDashboard, error) {
	items, err := s.store.ListItems(ctx, repository.ItemListFilter{})
	if err != nil {
		return domain.ItemDashboard{}, err
	}
	return metrics.Dashboard(items, s.burnFilter, s.asOf(at)), nil
}

func (s *Service) GroupBurnRates(ctx context.Context, at time.Time) ([]domain.GroupBurnRate, error) {
	items, err := s.store.ListItems(ctx, repository.ItemListFilter{})
	if err != nil {
		return nil, err
	}
	return metrics.GroupBurnRates(items, s.asOf(at)), nil
}

func (s *Service) CategoryDistribution(ctx context.Context) ([]domain.CategoryShare, error) {
	items, err := s.store.ListItems(ctx, repository.ItemListFilter{})
	if err != nil {
		return nil, err
	}
	return metrics.CategoryDistribution(items), nil
}

func (s *Service) ItemOptions(ctx context.Context) (domain.ItemOptions, error) {
	return s.store.ItemOptions(ctx)
}

// ItemReport loads everything the spreadsheet export needs in one read.
func (s *Service) ItemReport(ctx context.Context, at time.Time) ([]domain.ItemWithMetrics, domain.ItemDashboard, error) {
	items, err := s.store.ListItems(ctx, repository.ItemListFilter{})
	if err != nil {
		return nil, domain.ItemDashboard{}, err
	}
	asOf := s.asOf(at)
	return metrics.EnrichAll(items, asOf), metrics.Dashboard(items, s.burnFilter, asOf), nil
}

// ValidateItems runs the import checks without touching the store.
func (s *Service) ValidateItems(inputs []domain.ItemInput) error {
	for i, input := range inputs {
		if _, err := s.buildItem(input); err != nil {
			return invalid("row %d: %v", i+1, err)
		}
	}
	return nil
}

func (s *Service) buildItem(input domain.ItemInput) (domain.Item, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Status = domain.ItemStatus(strings.ToLower(strings.TrimSpace(string(input.Status))))
	if err := s.checkStruct(input); err != nil {
		return domain.Item{}, err
	}
	if input.BuyDate.IsZero() {
		return domain.Item{}, invalid("buy_date is required")
	}

	item := domain.Item{
		Name:               input.Name,
		Tags:               normalizeTags(input.Tags),
		Category:           normalizeNullable(input.Category),
		GroupName:          normalizeNullable(input.GroupName),
		BuyDate:            input.BuyDate,
		BuyPrice:           input.BuyPrice,
		ExtraCost:          input.ExtraCost,
		Status:             input.Status,
		DailyBurn:          true,
		PurchaseSource:     normalizeNullable(input.PurchaseSource),
		WarrantyExpireDate: nonZeroDate(input.WarrantyExpireDate),
		ReasonToSell:       normalizeNullable(input.ReasonToSell),
		Note:               normalizeNullable(input.Note),
	}
	if input.DailyBurn != nil {
		item.DailyBurn = *input.DailyBurn
	}
	if item.Status == domain.ItemSold {
		item.SellDate = nonZeroDate(input.SellDate)
		item.SellPrice = input.SellPrice
	}
	return item, nil
}

func applyItemPatch(item *domain.Item, patch domain.ItemPatch) {
	if patch.Name != nil {
		item.Name = *patch.Name
	}
	if patch.Tags != nil {
		item.Tags = *patch.Tags
	}
	patch.Category.ApplyTo(&item.Category)
	patch.GroupName.ApplyTo(&item.GroupName)
	if patch.BuyDate != nil {
		item.BuyDate = *patch.BuyDate
	}
	if patch.BuyPrice != nil {
		item.BuyPrice = *patch.BuyPrice
	}
	if patch.ExtraCost != nil {
		item.ExtraCost = *patch.ExtraCost
	}
	patch.SellDate.ApplyTo(&item.SellDate)
	patch.SellPrice.ApplyTo(&item.SellPrice)
	if patch.Status != nil {
		item.Status = *patch.Status
	}
	if patch.DailyBurn != nil {
		item.DailyBurn = *patch.DailyBurn
	}
	patch.PurchaseSource.ApplyTo(&item.PurchaseSource)
	patch.WarrantyExpireDate.ApplyTo(&item.WarrantyExpireDate)
	patch.ReasonToSell.ApplyTo(&item.ReasonToSell)
	patch.Note.ApplyTo(&item.Note)
}

func inputFromItem(item domain.Item) domain.ItemInput {
	dailyBurn := item.DailyBurn
	return domain.ItemInput{
		Name:               item.Name,
		Tags:               item.Tags,
		Category:           item.Category,
		GroupName:          item.GroupName,
		BuyDate:            item.BuyDate,
		BuyPrice:           item.BuyPrice,
		ExtraCost:          item.ExtraCost,
		SellDate:           item.SellDate,
		SellPrice:          item.SellPrice,
		Status:             item.Status,
		DailyBurn:          &dailyBurn,
		PurchaseSource:     item.PurchaseSource,
		WarrantyExpireDate: item.WarrantyExpireDate,
		ReasonToSell:       item.ReasonToSell,
		Note:               item.Note,
	}
}

func nonZeroDate(d *domain.Date) *domain.Date {
	if d == nil || d.IsZero() {
		return nil
	}
	return d
}
