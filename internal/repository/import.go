package repository

import (
	"context"
	"fmt"

	"pantagon/internal/domain"
)

// ImportRecords writes items, fx entries and weights in one transaction.
// Nothing is committed unless every row is written.
func (r *Repository) ImportRecords(ctx context.Context, items []domain.Item, fx []domain.FXEntry, weights []domain.WeightEntry) (domain.ImportCounts, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return domain.ImportCounts{}, fmt.Errorf("begin import tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := insertItems(ctx, tx, items); err != nil {
		return domain.ImportCounts{}, err
	}
	if err := insertFXEntries(ctx, tx, fx); err != nil {
		return domain.ImportCounts{}, err
	}
	copied, err := copyWeights(ctx, tx, weights)
	if err != nil {
		return domain.ImportCounts{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.ImportCounts{}, fmt.Errorf("commit import tx: %w", err)
	}
	return domain.ImportCounts{Items: len(items), FXEntries: len(fx), Weights: copied}, nil
}
