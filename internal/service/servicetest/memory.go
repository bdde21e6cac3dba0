// Package servicetest provides an in-memory service.Store for tests.
package servicetest

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"pantagon/internal/domain"
	"pantagon/internal/repository"
)

// MemoryStore keeps records in slices. It is not safe for concurrent use.
type MemoryStore struct {
	Items   []domain.Item
	FX      []domain.FXEntry
	Weights []domain.WeightEntry
	nextID  int64

	// Now stamps created records.
	Now time.Time
}

func (m *MemoryStore) nextKey() int64 {
	m.nextID++
	return m.nextID
}

func (m *MemoryStore) ListItems(_ context.Context, filter repository.ItemListFilter) ([]domain.Item, error) {
	out := make([]domain.Item, 0, len(m.Items))
	for _, item := range m.Items {
		if filter.Status != "" && string(item.Status) != filter.Status {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(item.Name), strings.ToLower(filter.Search)) {
			continue
		}
		if filter.Group != "" && (item.GroupName == nil || *item.GroupName != filter.Group) {
			continue
		}
		if filter.Category != "" && (item.Category == nil || *item.Category != filter.Category) {
			continue
		}
		if filter.Tag != "" && !slices.Contains(item.Tags, filter.Tag) {
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

func (m *MemoryStore) GetItem(_ context.Context, id string) (*domain.Item, error) {
	for i := range m.Items {
		if m.Items[i].ID == id {
			item := m.Items[i]
			return &item, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MemoryStore) CreateItem(_ context.Context, item domain.Item) (domain.Item, error) {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	item.CreatedAt = m.Now
	item.UpdatedAt = m.Now
	m.Items = append(m.Items, item)
	return item, nil
}

func (m *MemoryStore) InsertItems(ctx context.Context, items []domain.Item) (int, error) {
	for _, item := range items {
		if _, err := m.CreateItem(ctx, item); err != nil {
			return 0, err
		}
	}
	return len(items), nil
}

func (m *MemoryStore) UpdateItem(_ context.Context, id string, mutate func(*domain.Item) error) (*domain.Item, error) {
	for i := range m.Items {
		if m.Items[i].ID != id {
			continue
		}
		item := m.Items[i]
		if err := mutate(&item); err != nil {
			return nil, err
		}
		m.Items[i] = item
		return &item, nil
	}
	return nil, repository.ErrNotFound
}

func (m *MemoryStore) DeleteItem(_ context.Context, id string) error {
	for i := range m.Items {
		if m.Items[i].ID == id {
			m.Items = append(m.Items[:i], m.Items[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *MemoryStore) ItemOptions(context.Context) (domain.ItemOptions, error) {
	var options domain.ItemOptions
	for _, item := range m.Items {
		if item.GroupName != nil {
			options.Groups = append(options.Groups, *item.GroupName)
		}
	}
	return options, nil
}

func (m *MemoryStore) ListFXEntries(context.Context) ([]domain.FXEntry, error) {
	return append([]domain.FXEntry(nil), m.FX...), nil
}

func (m *MemoryStore) GetFXEntry(_ context.Context, id int64) (*domain.FXEntry, error) {
	for i := range m.FX {
		if m.FX[i].ID == id {
			entry := m.FX[i]
			return &entry, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MemoryStore) CreateFXEntry(_ context.Context, entry domain.FXEntry) (domain.FXEntry, error) {
	entry.ID = m.nextKey()
	m.FX = append(m.FX, entry)
	return entry, nil
}

func (m *MemoryStore) InsertFXEntries(ctx context.Context, entries []domain.FXEntry) (int, error) {
	for _, entry := range entries {
		if _, err := m.CreateFXEntry(ctx, entry); err != nil {
			return 0, err
		}
	}
	return len(entries), nil
}

func (m *MemoryStore) UpdateFXEntry(_ context.Context, id int64, mutate func(*domain.FXEntry) error) (*domain.FXEntry, error) {
	for i := range m.FX {
		if m.FX[i].ID != id {
			continue
		}
		entry := m.FX[i]
		if err := mutate(&entry); err != nil {
			return nil, err
		}
		m.FX[i] = entry
		return &entry, nil
	}
	return nil, repository.ErrNotFound
}

func (m *MemoryStore) DeleteFXEntry(_ context.Context, id int64) error {
	for i := range m.FX {
		if m.FX[i].ID == id {
			m.FX = append(m.FX[:i], m.FX[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

// ListWeights orders by recorded_at then id, as the SQL store does.
func (m *MemoryStore) ListWeights(context.Context) ([]domain.WeightEntry, error) {
	out := append([]domain.WeightEntry(nil), m.Weights...)
	slices.SortFunc(out, func(a, b domain.WeightEntry) int {
		if c := a.RecordedAt.Compare(b.RecordedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out, nil
}

func (m *MemoryStore) CreateWeight(_ context.Context, entry domain.WeightEntry) (domain.WeightEntry, error) {
	entry.ID = m.nextKey()
	m.Weights = append(m.Weights, entry)
	return entry, nil
}

func (m *MemoryStore) InsertWeights(ctx context.Context, entries []domain.WeightEntry) (int, error) {
	for _, entry := range entries {
		if _, err := m.CreateWeight(ctx, entry); err != nil {
			return 0, err
		}
	}
	return len(entries), nil
}

func (m *MemoryStore) DeleteWeight(_ context.Context, id int64) error {
	for i := range m.Weights {
		if m.Weights[i].ID == id {
			m.Weights = append(m.Weights[:i], m.Weights[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *MemoryStore) ImportRecords(ctx context.Context, items []domain.Item, fx []domain.FXEntry, weights []domain.WeightEntry) (domain.ImportCounts, error) {
	if _, err := m.InsertItems(ctx, items); err != nil {
		return domain.ImportCounts{}, err
	}
	if _, err := m.InsertFXEntries(ctx, fx); err != nil {
		return domain.ImportCounts{}, err
	}
	if _, err := m.InsertWeights(ctx, weights); err != nil {
		return domain.ImportCounts{}, err
	}
	return domain.ImportCounts{Items: len(items), FXEntries: len(fx), Weights: len(weights)}, nil
}
