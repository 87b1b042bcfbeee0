package catalog

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/alrazi/medstock/internal/shared"
)

// Service manages the item catalog.
type Service struct {
	repo     Repository
	validate *validator.Validate
	now      func() time.Time
}

// NewService constructs the catalog service.
func NewService(repo Repository) *Service {
	return &Service{
		repo:     repo,
		validate: shared.NewValidator(),
		now:      time.Now,
	}
}

// WithClock overrides the clock used for AddedAt. Intended for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	if now != nil {
		s.now = now
	}
	return s
}

// List returns every item ordered by code then name.
func (s *Service) List(ctx context.Context) ([]Item, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("catalog: list: %w", err)
	}
	sortItems(items)
	return items, nil
}

// Get returns a single item.
func (s *Service) Get(ctx context.Context, id string) (Item, error) {
	if strings.TrimSpace(id) == "" {
		return Item{}, shared.NewValidationError("id", "item id is required")
	}
	item, err := s.repo.Get(ctx, id)
	if err != nil {
		return Item{}, fmt.Errorf("catalog: get %s: %w", id, err)
	}
	return item, nil
}

// Search matches term against name, code and category without regard to case.
// An empty term returns the full catalog.
func (s *Service) Search(ctx context.Context, term string) ([]Item, error) {
	items, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	term = strings.TrimSpace(term)
	if term == "" {
		return items, nil
	}
	out := items[:0]
	for _, item := range items {
		if shared.ContainsFold(item.Name, term) ||
			shared.ContainsFold(item.Code, term) ||
			shared.ContainsFold(item.Category, term) {
			out = append(out, item)
		}
	}
	return out, nil
}

// Create registers a new item with its opening quantity.
func (s *Service) Create(ctx context.Context, in CreateItemInput) (Item, error) {
	if err := s.validateCreate(&in); err != nil {
		return Item{}, err
	}
	item := Item{
		ID:              uuid.NewString(),
		Code:            in.Code,
		Name:            in.Name,
		Category:        in.Category,
		Unit:            in.Unit,
		CurrentQuantity: in.InitialQuantity,
		AddedAt:         s.now().UTC(),
	}
	if err := s.repo.Save(ctx, item); err != nil {
		return Item{}, fmt.Errorf("catalog: create: %w", err)
	}
	return item, nil
}

// Update edits descriptive fields. The stored quantity is preserved.
func (s *Service) Update(ctx context.Context, id string, in UpdateItemInput) (Item, error) {
	if err := s.validateUpdate(&in); err != nil {
		return Item{}, err
	}
	item, err := s.Get(ctx, id)
	if err != nil {
		return Item{}, err
	}
	item.Code = in.Code
	item.Name = in.Name
	item.Category = in.Category
	item.Unit = in.Unit
	if err := s.repo.Save(ctx, item); err != nil {
		return Item{}, fmt.Errorf("catalog: update %s: %w", id, err)
	}
	return item, nil
}

// Delete removes an item. Transactions that reference it are kept.
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("catalog: delete %s: %w", id, err)
	}
	return nil
}

// LowStock returns items whose quantity is below threshold, scarcest first.
func (s *Service) LowStock(ctx context.Context, threshold int) ([]Item, error) {
	items, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return FilterLowStock(items, threshold), nil
}

// FilterLowStock keeps the items below threshold, ordered by quantity then code.
func FilterLowStock(items []Item, threshold int) []Item {
	low := make([]Item, 0)
	for _, item := range items {
		if item.CurrentQuantity < threshold {
			low = append(low, item)
		}
	}
	sort.SliceStable(low, func(i, j int) bool {
		if low[i].CurrentQuantity != low[j].CurrentQuantity {
			return low[i].CurrentQuantity < low[j].CurrentQuantity
		}
		return low[i].Code < low[j].Code
	})
	return low
}

func sortItems(items []Item) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Code != items[j].Code {
			return items[i].Code < items[j].Code
		}
		if items[i].Name != items[j].Name {
			return items[i].Name < items[j].Name
		}
		return items[i].ID < items[j].ID
	})
}
