package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"pantagon/internal/domain"
)

const weightColumns = `id, weight_kg::double precision, recorded_at, created_at`

// ListWeights returns the series oldest first; weight statistics rely on it.
func (r *Repository) ListWeights(ctx context.Context) ([]domain.WeightEntry, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+weightColumns+` FROM weight_entries ORDER BY recorded_at ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list weights: %w", err)
	}
	entries, err := pgx.CollectRows(rows, pgx.RowToStructByPos[domain.WeightEntry])
	if err != nil {
		return nil, fmt.Errorf("collect weights: %w", err)
	}
	return entries, nil
}

func (r *Repository) CreateWeight(ctx context.Context, entry domain.WeightEntry) (domain.WeightEntry, error) {
	rows, err := r.pool.Query(ctx, `
		INSERT INTO weight_entries (weight_kg, recorded_at)
		VALUES ($1, $2)
		RETURNING `+weightColumns,
		entry.WeightKg, entry.RecordedAt,
	)
	if err != nil {
		return domain.WeightEntry{}, fmt.Errorf("create weight: %w", err)
	}
	created, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByPos[domain.WeightEntry])
	if err != nil {
		return domain.WeightEntry{}, fmt.Errorf("create weight: %w", err)
	}
	return created, nil
}

func (r *Repository) InsertWeights(ctx context.Context, entries []domain.WeightEntry) (int, error) {
	if len(entries) == 0 {
		return 0, nil
	}
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin weight import tx: %w", err)
	}
	defer tx.Rollback(ctx)

	copied, err := copyWeights(ctx, tx, entries)
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit weight import tx: %w", err)
	}
	return copied, nil
}

func copyWeights(ctx context.Context, tx pgx.Tx, entries []domain.WeightEntry) (int, error) {
	if len(entries) == 0 {
		return 0, nil
	}
	rows := make([][]any, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, []any{entry.WeightKg, entry.RecordedAt})
	}
	copied, err := tx.CopyFrom(ctx,
		pgx.Identifier{"weight_entries"},
		[]string{"weight_kg", "recorded_at"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return 0, fmt.Errorf("copy weights: %w", err)
	}
	return int(copied), nil
}

func (r *Repository) DeleteWeight(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, "DELETE FROM weight_entries WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete weight %d: %w", id, err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
