package service

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"pantagon/internal/domain"
	"pantagon/internal/metrics"
	"pantagon/internal/repository"
)

// Store is the persistence the service needs. *repository.Repository
// satisfies it.
type Store interface {
	ListItems(ctx context.Context, filter repository.ItemListFilter) ([]domain.Item, error)
	GetItem(ctx context.Context, id string) (*domain.Item, error)
	CreateItem(ctx context.Context, item domain.Item) (domain.Item, error)
	InsertItems(ctx context.Context, items []domain.Item) (int, error)
	UpdateItem(ctx context.Context, id string, mutate func(*domain.Item) error) (*domain.Item, error)
	DeleteItem(ctx context.Context, id string) error
	ItemOptions(ctx context.Context) (domain.ItemOptions, error)

	ListFXEntries(ctx context.Context) ([]domain.FXEntry, error)
	GetFXEntry(ctx context.Context, id int64) (*domain.FXEntry, error)
	CreateFXEntry(ctx context.Context, entry domain.FXEntry) (domain.FXEntry, error)
	InsertFXEntries(ctx context.Context, entries []domain.FXEntry) (int, error)
	UpdateFXEntry(ctx context.Context, id int64, mutate func(*domain.FXEntry) error) (*domain.FXEntry, error)
	DeleteFXEntry(ctx context.Context, id int64) error

	ListWeights(ctx context.Context) ([]domain.WeightEntry, error)
	CreateWeight(ctx context.Context, entry domain.WeightEntry) (domain.WeightEntry, error)
	InsertWeights(ctx context.Context, entries []domain.WeightEntry) (int, error)
	DeleteWeight(ctx context.Context, id int64) error

	ImportRecords(ctx context.Context, items []domain.Item, fx []domain.FXEntry, weights []domain.WeightEntry) (domain.ImportCounts, error)
}

var _ Store = (*repository.Repository)(nil)

// ValidationError reports input the service refused to store.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func WithLogger(log zerolog.Logger) Option {
	return func(s *Service) {
		s.log = log
	}
}

type Service struct {
	store      Store
	burnFilter metrics.BurnFilter
	now        func() time.Time
	log        zerolog.Logger
	validate   *validator.Validate
}

func New(store Store, burnFilter metrics.BurnFilter, opts ...Option) *Service {
	s := &Service{
		store:      store,
		burnFilter: burnFilter,
		now:        time.Now,
		log:        zerolog.Nop(),
		validate:   newValidator(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) BurnFilter() metrics.BurnFilter {
	return s.burnFilter
}

// asOf picks the instant metrics are computed for; zero means now.
func (s *Service) asOf(at time.Time) time.Time {
	if at.IsZero() {
		return s.now()
	}
	return at
}

func (s *Service) checkStruct(v any) error {
	err := s.validate.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate input: %w", err)
	}
	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		messages = append(messages, describeFieldError(fe))
	}
	return invalid("%s", strings.Join(messages, "; "))
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
	return v
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "gt":
		return fe.Field() + " must be greater than " + fe.Param()
	case "gte":
		return fe.Field() + " cannot be less than " + fe.Param()
	case "oneof":
		return fe.Field() + " must be one of: " + fe.Param()
	}
	return fmt.Sprintf("%s is invalid (%s)", fe.Field(), fe.Tag())
}

func normalizeNullable(value *string) *string {
	if value == nil {
		return nil
	}
	v := strings.TrimSpace(*value)
	if v == "" {
		return nil
	}
	return &v
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}
