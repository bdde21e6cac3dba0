package service

import (
	"context"

	"pantagon/internal/domain"
	"pantagon/internal/metrics"
)

func (s *Service) ListWeights(ctx context.Context) ([]domain.WeightEntry, error) {
	return s.store.ListWeights(ctx)
}

// AddWeight stamps entries without a recorded_at with the current time.
func (s *Service) AddWeight(ctx context.Context, input domain.WeightInput) (domain.WeightEntry, error) {
	entry, err := s.buildWeight(input)
	if err != nil {
		return domain.WeightEntry{}, err
	}
	created, err := s.store.CreateWeight(ctx, entry)
	if err != nil {
		return domain.WeightEntry{}, err
	}
	s.log.Info().Int64("weight_id", created.ID).Float64("weight_kg", created.WeightKg).Msg("weight recorded")
	return created, nil
}

func (s *Service) DeleteWeight(ctx context.Context, id int64) error {
	if err := s.store.DeleteWeight(ctx, id); err != nil {
		return err
	}
	s.log.Info().Int64("weight_id", id).Msg("weight deleted")
	return nil
}

func (s *Service) ImportWeights(ctx context.Context, inputs []domain.WeightInput) (int, error) {
	entries := make([]domain.WeightEntry, 0, len(inputs))
	for i, input := range inputs {
		entry, err := s.buildWeight(input)
		if err != nil {
			return 0, invalid("row %d: %v", i+1, err)
		}
		entries = append(entries, entry)
	}
	count, err := s.store.InsertWeights(ctx, entries)
	if err != nil {
		return 0, err
	}
	s.log.Info().Int("rows", count).Msg("weights imported")
	return count, nil
}

func (s *Service) WeightStats(ctx context.Context) (domain.WeightStats, error) {
	entries, err := s.store.ListWeights(ctx)
	if err != nil {
		return domain.WeightStats{}, err
	}
	return metrics.WeightStatsOf(entries), nil
}

// ValidateWeights runs the import checks without touching the store.
func (s *Service) ValidateWeights(inputs []domain.WeightInput) error {
	for i, input := range inputs {
		if _, err := s.buildWeight(input); err != nil {
			return invalid("row %d: %v", i+1, err)
		}
	}
	return nil
}

func (s *Service) buildWeight(input domain.WeightInput) (domain.WeightEntry, error) {
	if err := s.checkStruct(input); err != nil {
		return domain.WeightEntry{}, err
	}
	recordedAt := input.RecordedAt
	if recordedAt.IsZero() {
		recordedAt = s.now()
	}
	return domain.WeightEntry{
		WeightKg:   input.WeightKg,
		RecordedAt: recordedAt.UTC(),
	}, nil
}
