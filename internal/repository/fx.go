package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"pantagon/internal/domain"
)

const fxColumns = `
	id,
	status,
	date,
	usd::double precision,
	thb::double precision,
	rate::double precision,
	note,
	created_at
`

const insertFXSQL = `
	INSERT INTO fx_entries (status, date, usd, thb, rate, note)
	VALUES ($1, $2, $3, $4, $5, $6)
`

func (r *Repository) ListFXEntries(ctx context.Context) ([]domain.FXEntry, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+fxColumns+` FROM fx_entries ORDER BY date DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list fx entries: %w", err)
	}
	defer rows.Close()

	entries := make([]domain.FXEntry, 0)
	for rows.Next() {
		entry, err := scanFXRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan fx entry: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate fx entries: %w", err)
	}
	return entries, nil
}

func (r *Repository) GetFXEntry(ctx context.Context, id int64) (*domain.FXEntry, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+fxColumns+` FROM fx_entries WHERE id = $1`, id)
	entry, err := scanFXRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get fx entry %d: %w", id, err)
	}
	return &entry, nil
}

func (r *Repository) CreateFXEntry(ctx context.Context, entry domain.FXEntry) (domain.FXEntry, error) {
	row := r.pool.QueryRow(ctx, insertFXSQL+` RETURNING `+fxColumns, fxArgs(entry)...)
	created, err := scanFXRow(row)
	if err != nil {
		return domain.FXEntry{}, fmt.Errorf("create fx entry: %w", err)
	}
	return created, nil
}

func (r *Repository) InsertFXEntries(ctx context.Context, entries []domain.FXEntry) (int, error) {
	if len(entries) == 0 {
		return 0, nil
	}
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin fx import tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := insertFXEntries(ctx, tx, entries); err != nil {
		return 0, err
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit fx import tx: %w", err)
	}
	return len(entries), nil
}

func insertFXEntries(ctx context.Context, tx pgx.Tx, entries []domain.FXEntry) error {
	for i, entry := range entries {
		if _, err := tx.Exec(ctx, insertFXSQL, fxArgs(entry)...); err != nil {
			return fmt.Errorf("insert fx row %d: %w", i+1, err)
		}
	}
	return nil
}

func (r *Repository) UpdateFXEntry(ctx context.Context, id int64, mutate func(*domain.FXEntry) error) (*domain.FXEntry, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin update fx tx: %w", err)
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `SELECT `+fxColumns+` FROM fx_entries WHERE id = $1 FOR UPDATE`, id)
	entry, err := scanFXRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load fx entry for update: %w", err)
	}

	if err := mutate(&entry); err != nil {
		return nil, err
	}

	args := append([]any{id}, fxArgs(entry)...)
	row = tx.QueryRow(ctx, `
		UPDATE fx_entries
		SET status = $2, date = $3, usd = $4, thb = $5, rate = $6, note = $7
		WHERE id = $1
		RETURNING `+fxColumns, args...)
	updated, err := scanFXRow(row)
	if err != nil {
		return nil, fmt.Errorf("update fx entry: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit update fx tx: %w", err)
	}
	return &updated, nil
}

func (r *Repository) DeleteFXEntry(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, "DELETE FROM fx_entries WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete fx entry %d: %w", id, err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func fxArgs(entry domain.FXEntry) []any {
	return []any{
		string(entry.Status),
		entry.Date.Time,
		entry.USD,
		entry.THB,
		entry.Rate,
		entry.Note,
	}
}

func scanFXRow(row pgx.Row) (domain.FXEntry, error) {
	var (
		entry  domain.FXEntry
		status string
		date   time.Time
	)
	if err := row.Scan(
		&entry.ID,
		&status,
		&date,
		&entry.USD,
		&entry.THB,
		&entry.Rate,
		&entry.Note,
		&entry.CreatedAt,
	); err != nil {
		return domain.FXEntry{}, err
	}
	entry.Status = domain.FXStatus(status)
	entry.Date = domain.DateOf(date)
	return entry, nil
}
