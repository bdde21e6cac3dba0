package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"pantagon/internal/domain"
)

type ItemListFilter struct {
	Search   string
	Status   string
	Group    string
	Category string
	Tag      string
	Limit    int
	Offset   int
}

const itemColumns = `
	id::text,
	name,
	tags,
	category,
	group_name,
	buy_date,
	buy_price::double precision,
	extra_cost::double precision,
	sell_date,
	sell_price::double precision,
	status,
	daily_burn,
	purchase_source,
	warranty_expire_date,
	reason_to_sell,
	note,
	created_at,
	updated_at
`

const insertItemSQL = `
	INSERT INTO items (
		id,
		name,
		tags,
		category,
		group_name,
		buy_date,
		buy_price,
		extra_cost,
		sell_date,
		sell_price,
		status,
		daily_burn,
		purchase_source,
		warranty_expire_date,
		reason_to_sell,
		note
	)
	VALUES ($1::uuid, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
`

// ListItems returns items newest purchase first. A zero Limit returns every
// matching row.
func (r *Repository) ListItems(ctx context.Context, filter ItemListFilter) ([]domain.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE TRUE`
	args := []any{}
	add := func(clause string, value any) {
		args = append(args, value)
		query += fmt.Sprintf(clause, len(args))
	}

	if search := strings.TrimSpace(filter.Search); search != "" {
		add(" AND name ILIKE '%%' || $%d || '%%'", search)
	}
	if status := strings.TrimSpace(filter.Status); status != "" {
		add(" AND status = $%d", status)
	}
	if group := strings.TrimSpace(filter.Group); group != "" {
		add(" AND group_name = $%d", group)
	}
	if category := strings.TrimSpace(filter.Category); category != "" {
		add(" AND category = $%d", category)
	}
	if tag := strings.TrimSpace(filter.Tag); tag != "" {
		add(" AND $%d = ANY(tags)", tag)
	}
	query += " ORDER BY buy_date DESC, created_at DESC"
	if limit := normalizeLimit(filter.Limit); limit > 0 {
		add(" LIMIT $%d", limit)
	}
	if offset := normalizeOffset(filter.Offset); offset > 0 {
		add(" OFFSET $%d", offset)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	items := make([]domain.Item, 0)
	for rows.Next() {
		item, err := scanItemRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate items: %w", err)
	}
	return items, nil
}

func (r *Repository) GetItem(ctx context.Context, id string) (*domain.Item, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+itemColumns+` FROM items WHERE id = $1::uuid`, id)
	item, err := scanItemRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get item %s: %w", id, err)
	}
	return &item, nil
}

func (r *Repository) CreateItem(ctx context.Context, item domain.Item) (domain.Item, error) {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	row := r.pool.QueryRow(ctx, insertItemSQL+` RETURNING `+itemColumns, itemArgs(item)...)
	created, err := scanItemRow(row)
	if err != nil {
		return domain.Item{}, fmt.Errorf("create item: %w", err)
	}
	return created, nil
}

// InsertItems stores items in one transaction and reports how many were written.
func (r *Repository) InsertItems(ctx context.Context, items []domain.Item) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin item import tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := insertItems(ctx, tx, items); err != nil {
		return 0, err
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit item import tx: %w", err)
	}
	return len(items), nil
}

func insertItems(ctx context.Context, tx pgx.Tx, items []domain.Item) error {
	if len(items) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, item := range items {
		if item.ID == "" {
			item.ID = uuid.NewString()
		}
		batch.Queue(insertItemSQL, itemArgs(item)...)
	}
	results := tx.SendBatch(ctx, batch)
	for i := range items {
		if _, err := results.Exec(); err != nil {
			_ = results.Close()
			return fmt.Errorf("insert item row %d: %w", i+1, err)
		}
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("close item batch: %w", err)
	}
	return nil
}

// UpdateItem locks the row, lets mutate change it and writes the result back.
// An error from mutate aborts the update and is returned unchanged.
func (r *Repository) UpdateItem(ctx context.Context, id string, mutate func(*domain.Item) error) (*domain.Item, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin update item tx: %w", err)
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `SELECT `+itemColumns+` FROM items WHERE id = $1::uuid FOR UPDATE`, id)
	item, err := scanItemRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load item for update: %w", err)
	}

	if err := mutate(&item); err != nil {
		return nil, err
	}

	row = tx.QueryRow(ctx, `
		UPDATE items
		SET
			name = $2,
			tags = $3,
			category = $4,
			group_name = $5,
			buy_date = $6,
			buy_price = $7,
			extra_cost = $8,
			sell_date = $9,
			sell_price = $10,
			status = $11,
			daily_burn = $12,
			purchase_source = $13,
			warranty_expire_date = $14,
			reason_to_sell = $15,
			note = $16,
			updated_at = NOW()
		WHERE id = $1::uuid
		RETURNING `+itemColumns, itemArgs(item)...)
	updated, err := scanItemRow(row)
	if err != nil {
		return nil, fmt.Errorf("update item: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit update item tx: %w", err)
	}
	return &updated, nil
}

func (r *Repository) DeleteItem(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, "DELETE FROM items WHERE id = $1::uuid", id)
	if err != nil {
		return fmt.Errorf("delete item %s: %w", id, err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) ItemOptions(ctx context.Context) (domain.ItemOptions, error) {
	var (
		options domain.ItemOptions
		err     error
	)
	if options.Groups, err = r.distinctItemValues(ctx, "group_name"); err != nil {
		return domain.ItemOptions{}, err
	}
	if options.Categories, err = r.distinctItemValues(ctx, "category"); err != nil {
		return domain.ItemOptions{}, err
	}
	if options.PurchaseSources, err = r.distinctItemValues(ctx, "purchase_source"); err != nil {
		return domain.ItemOptions{}, err
	}
	return options, nil
}

// distinctItemValues must only be called with trusted column names.
func (r *Repository) distinctItemValues(ctx context.Context, column string) ([]string, error) {
	rows, err := r.pool.Query(ctx, fmt.Sprintf(`
		SELECT DISTINCT %[1]s
		FROM items
		WHERE %[1]s IS NOT NULL AND BTRIM(%[1]s) <> ''
		ORDER BY %[1]s
	`, column))
	if err != nil {
		return nil, fmt.Errorf("distinct %s: %w", column, err)
	}
	values, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("collect distinct %s: %w", column, err)
	}
	return values, nil
}

func itemArgs(item domain.Item) []any {
	tags := item.Tags
	if tags == nil {
		tags = []string{}
	}
	return []any{
		item.ID,
		item.Name,
		tags,
		item.Category,
		item.GroupName,
		item.BuyDate.Time,
		item.BuyPrice,
		item.ExtraCost,
		dateArg(item.SellDate),
		item.SellPrice,
		string(item.Status),
		item.DailyBurn,
		item.PurchaseSource,
		dateArg(item.WarrantyExpireDate),
		item.ReasonToSell,
		item.Note,
	}
}

func scanItemRow(row pgx.Row) (domain.Item, error) {
	var (
		item     domain.Item
		buyDate  time.Time
		sellDate *time.Time
		warranty *time.Time
		status   string
	)
	if err := row.Scan(
		&item.ID,
		&item.Name,
		&item.Tags,
		&item.Category,
		&item.GroupName,
		&buyDate,
		&item.BuyPrice,
		&item.ExtraCost,
		&sellDate,
		&item.SellPrice,
		&status,
		&item.DailyBurn,
		&item.PurchaseSource,
		&warranty,
		&item.ReasonToSell,
		&item.Note,
		&item.CreatedAt,
		&item.UpdatedAt,
	); err != nil {
		return domain.Item{}, err
	}
	item.BuyDate = domain.DateOf(buyDate)
	item.SellDate = dateFrom(sellDate)
	item.WarrantyExpireDate = dateFrom(warranty)
	item.Status = domain.ItemStatus(status)
	if item.Tags == nil {
		item.Tags = []string{}
	}
	return item, nil
}
