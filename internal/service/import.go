package service

import (
	"context"
	"fmt"

	"pantagon/internal/domain"
)

// ImportSheets validates every row of every sheet and then writes them all
// in a single store call, so a failure leaves nothing behind.
func (s *Service) ImportSheets(ctx context.Context, items []domain.ItemInput, fx []domain.FXEntryInput, weights []domain.WeightInput) (domain.ImportCounts, error) {
	itemRecords := make([]domain.Item, 0, len(items))
	for i, input := range items {
		item, err := s.buildItem(input)
		if err != nil {
			return domain.ImportCounts{}, fmt.Errorf("items: %w", invalid("row %d: %v", i+1, err))
		}
		itemRecords = append(itemRecords, item)
	}
	fxRecords := make([]domain.FXEntry, 0, len(fx))
	for i, input := range fx {
		entry, err := s.buildFXEntry(input)
		if err != nil {
			return domain.ImportCounts{}, fmt.Errorf("fx: %w", invalid("row %d: %v", i+1, err))
		}
		fxRecords = append(fxRecords, entry)
	}
	weightRecords := make([]domain.WeightEntry, 0, len(weights))
	for i, input := range weights {
		entry, err := s.buildWeight(input)
		if err != nil {
			return domain.ImportCounts{}, fmt.Errorf("weights: %w", invalid("row %d: %v", i+1, err))
		}
		weightRecords = append(weightRecords, entry)
	}

	counts, err := s.store.ImportRecords(ctx, itemRecords, fxRecords, weightRecords)
	if err != nil {
		return domain.ImportCounts{}, err
	}
	s.log.Info().
		Int("items", counts.Items).
		Int("fx_entries", counts.FXEntries).
		Int("weights", counts.Weights).
		Msg("sheets imported")
	return counts, nil
}
