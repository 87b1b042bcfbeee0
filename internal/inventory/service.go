package inventory

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/alrazi/medstock/internal/shared"
)

// Service coordinates stock movements.
type Service struct {
	repo     RepositoryPort
	ledger   *Ledger
	validate *validator.Validate
	logger   *slog.Logger
	allowNeg bool
	now      func() time.Time
}

// ServiceConfig groups optional settings.
type ServiceConfig struct {
	AllowNegativeStock bool
	StrictItemRefs     bool
	// Now overrides the clock used to timestamp movements.
	Now func() time.Time
}

// NewService builds Service.
func NewService(repo RepositoryPort, logger *slog.Logger, cfg ServiceConfig, integration IntegrationHandler) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		repo: repo,
		ledger: NewLedger(repo, logger, LedgerConfig{
			StrictItemRefs: cfg.StrictItemRefs,
			Integration:    integration,
		}),
		validate: shared.NewValidator(),
		logger:   logger,
		allowNeg: cfg.AllowNegativeStock,
		now:      now,
	}
}

// Ledger exposes the ledger the service posts through.
func (s *Service) Ledger() *Ledger {
	return s.ledger
}

// Record validates and posts a new movement.
func (s *Service) Record(ctx context.Context, input RecordInput) (Transaction, error) {
	input.ItemID = strings.TrimSpace(input.ItemID)
	if err := shared.ValidateStruct(s.validate, input); err != nil {
		return Transaction{}, err
	}
	item, err := s.repo.GetItem(ctx, input.ItemID)
	if err != nil {
		return Transaction{}, fmt.Errorf("inventory: item %s: %w", input.ItemID, err)
	}

	var guards []Guard
	if input.Direction == Outbound {
		if err := SufficientStock(item, item.CurrentQuantity-input.Quantity); err != nil {
			return Transaction{}, err
		}
		guards = append(guards, SufficientStock)
	}

	t := Transaction{
		ID:        uuid.NewString(),
		ItemID:    item.ID,
		ItemName:  item.Name,
		Direction: input.Direction,
		Quantity:  input.Quantity,
		Timestamp: s.now().UTC(),
		UserID:    input.Actor.UserID,
		Username:  input.Actor.DisplayName,
	}
	if _, _, err := s.ledger.ApplyNew(ctx, t, guards...); err != nil {
		return Transaction{}, err
	}
	s.logger.InfoContext(ctx, "movement recorded",
		slog.String("transaction_id", t.ID),
		slog.String("item_id", t.ItemID),
		slog.String("direction", string(t.Direction)),
		slog.Int("quantity", t.Quantity))
	return t, nil
}

// Revise corrects the quantity, and optionally the direction, of a stored
// movement and re-derives the item's quantity. Unless AllowNegativeStock is
// set, a revision that would leave the item below zero is rejected with a
// ValidationError; a direction flip of q therefore needs at least 2q on hand.
func (s *Service) Revise(ctx context.Context, input ReviseInput) (Transaction, error) {
	if err := shared.ValidateStruct(s.validate, input); err != nil {
		return Transaction{}, err
	}
	stored, err := s.repo.GetTransaction(ctx, input.TransactionID)
	if err != nil {
		return Transaction{}, fmt.Errorf("inventory: transaction %s: %w", input.TransactionID, err)
	}

	updated := stored
	updated.Quantity = input.Quantity
	if input.Direction != "" {
		updated.Direction = input.Direction
	}
	if updated.Quantity == stored.Quantity && updated.Direction == stored.Direction {
		return stored, nil
	}

	var guards []Guard
	if !s.allowNeg {
		guards = append(guards, SufficientStock)
	}
	if _, _, err := s.ledger.ReviseExisting(ctx, updated, stored.Quantity, stored.Direction, guards...); err != nil {
		return Transaction{}, err
	}
	s.logger.InfoContext(ctx, "movement revised",
		slog.String("transaction_id", updated.ID),
		slog.Int("previous_quantity", stored.Quantity),
		slog.Int("quantity", updated.Quantity),
		slog.String("direction", string(updated.Direction)))
	return updated, nil
}

// Get returns a stored movement.
func (s *Service) Get(ctx context.Context, id string) (Transaction, error) {
	t, err := s.repo.GetTransaction(ctx, id)
	if err != nil {
		return Transaction{}, fmt.Errorf("inventory: transaction %s: %w", id, err)
	}
	return t, nil
}

// List returns every movement, newest first.
func (s *Service) List(ctx context.Context) ([]Transaction, error) {
	txs, err := s.repo.ListTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("inventory: list: %w", err)
	}
	SortNewestFirst(txs)
	return txs, nil
}

// Search matches term against item name and username without regard to case.
func (s *Service) Search(ctx context.Context, term string) ([]Transaction, error) {
	txs, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	term = strings.TrimSpace(term)
	if term == "" {
		return txs, nil
	}
	out := txs[:0]
	for _, t := range txs {
		if shared.ContainsFold(t.ItemName, term) || shared.ContainsFold(t.Username, term) {
			out = append(out, t)
		}
	}
	return out, nil
}

// ListByItem returns the movements of one item, newest first.
func (s *Service) ListByItem(ctx context.Context, itemID string) ([]Transaction, error) {
	txs, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	out := txs[:0]
	for _, t := range txs {
		if t.ItemID == itemID {
			out = append(out, t)
		}
	}
	return out, nil
}

// SortNewestFirst orders movements by timestamp descending, ties by id.
func SortNewestFirst(txs []Transaction) {
	sort.SliceStable(txs, func(i, j int) bool {
		if !txs[i].Timestamp.Equal(txs[j].Timestamp) {
			return txs[i].Timestamp.After(txs[j].Timestamp)
		}
		return txs[i].ID > txs[j].ID
	})
}
