package service

import (
	"context"
	"strings"

	"pantagon/internal/domain"
	"pantagon/internal/metrics"
)

type FXSummary struct {
	domain.FXStats
	TotalInterest float64 `json:"total_interest"`
}

func (s *Service) ListFXEntries(ctx context.Context) ([]domain.FXEntry, error) {
	return s.store.ListFXEntries(ctx)
}

func (s *Service) GetFXEntry(ctx context.Context, id int64) (*domain.FXEntry, error) {
	return s.store.GetFXEntry(ctx, id)
}

func (s *Service) CreateFXEntry(ctx context.Context, input domain.FXEntryInput) (domain.FXEntry, error) {
	entry, err := s.buildFXEntry(input)
	if err != nil {
		return domain.FXEntry{}, err
	}
	created, err := s.store.CreateFXEntry(ctx, entry)
	if err != nil {
		return domain.FXEntry{}, err
	}
	s.log.Info().Int64("fx_id", created.ID).Str("status", string(created.Status)).Msg("fx entry created")
	return created, nil
}

func (s *Service) UpdateFXEntry(ctx context.Context, id int64, patch domain.FXEntryPatch) (*domain.FXEntry, error) {
	updated, err := s.store.UpdateFXEntry(ctx, id, func(entry *domain.FXEntry) error {
		input := domain.FXEntryInput{
			Status: entry.Status,
			Date:   entry.Date,
			USD:    entry.USD,
			THB:    entry.THB,
			Rate:   entry.Rate,
			Note:   entry.Note,
		}
		if patch.Status != nil {
			input.Status = *patch.Status
		}
		if patch.Date != nil {
			input.Date = *patch.Date
		}
		if patch.USD != nil {
			input.USD = *patch.USD
		}
		patch.THB.ApplyTo(&input.THB)
		patch.Rate.ApplyTo(&input.Rate)
		patch.Note.ApplyTo(&input.Note)

		next, err := s.buildFXEntry(input)
		if err != nil {
			return err
		}
		next.ID = entry.ID
		next.CreatedAt = entry.CreatedAt
		*entry = next
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info().Int64("fx_id", id).Msg("fx entry updated")
	return updated, nil
}

func (s *Service) DeleteFXEntry(ctx context.Context, id int64) error {
	if err := s.store.DeleteFXEntry(ctx, id); err != nil {
		return err
	}
	s.log.Info().Int64("fx_id", id).Msg("fx entry deleted")
	return nil
}

func (s *Service) ImportFXEntries(ctx context.Context, inputs []domain.FXEntryInput) (int, error) {
	entries := make([]domain.FXEntry, 0, len(inputs))
	for i, input := range inputs {
		entry, err := s.buildFXEntry(input)
		if err != nil {
			return 0, invalid("row %d: %v", i+1, err)
		}
		entries = append(entries, entry)
	}
	count, err := s.store.InsertFXEntries(ctx, entries)
	if err != nil {
		return 0, err
	}
	s.log.Info().Int("rows", count).Msg("fx entries imported")
	return count, nil
}

func (s *Service) FXSummary(ctx context.Context) (FXSummary, error) {
	entries, err := s.store.ListFXEntries(ctx)
	if err != nil {
		return FXSummary{}, err
	}
	return FXSummary{
		FXStats:       metrics.FXStatsOf(entries),
		TotalInterest: metrics.TotalInterest(entries),
	}, nil
}

// ValidateFXEntries runs the import checks without touching the store.
func (s *Service) ValidateFXEntries(inputs []domain.FXEntryInput) error {
	for i, input := range inputs {
		if _, err := s.buildFXEntry(input); err != nil {
			return invalid("row %d: %v", i+1, err)
		}
	}
	return nil
}

func (s *Service) buildFXEntry(input domain.FXEntryInput) (domain.FXEntry, error) {
	input.Status = canonicalFXStatus(input.Status)
	if err := s.checkStruct(input); err != nil {
		return domain.FXEntry{}, err
	}
	if input.Date.IsZero() {
		return domain.FXEntry{}, invalid("date is required")
	}
	if input.USD == 0 && (input.THB == nil || *input.THB == 0) {
		return domain.FXEntry{}, invalid("usd or thb amount is required")
	}
	return domain.FXEntry{
		Status: input.Status,
		Date:   input.Date,
		USD:    input.USD,
		THB:    input.THB,
		Rate:   input.Rate,
		Note:   normalizeNullable(input.Note),
	}, nil
}

// canonicalFXStatus accepts any casing of the three ledger statuses.
func canonicalFXStatus(status domain.FXStatus) domain.FXStatus {
	switch strings.ToLower(strings.TrimSpace(string(status))) {
	case "in":
		return domain.FXIn
	case "interest":
		return domain.FXInterest
	case "out":
		return domain.FXOut
	}
	return status
}
