package inventory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/alrazi/medstock/internal/catalog"
	"github.com/alrazi/medstock/internal/shared"
)

// Guard inspects the freshly loaded item and the quantity a movement would
// leave it with. A non-nil error aborts the unit of work.
type Guard func(item catalog.Item, next int) error

// SufficientStock rejects movements that would drive an item below zero.
func SufficientStock(item catalog.Item, next int) error {
	if next < 0 {
		return shared.NewValidationError("quantity",
			fmt.Sprintf("insufficient stock: %d %s of %s available", item.CurrentQuantity, item.Unit, item.Name))
	}
	return nil
}

// LedgerConfig groups optional ledger settings.
type LedgerConfig struct {
	// StrictItemRefs refuses movements whose item is missing instead of
	// recording them without a quantity update.
	StrictItemRefs bool
	// Integration is told about every committed movement. Optional.
	Integration IntegrationHandler
}

// Ledger keeps each item's CurrentQuantity consistent with its movements.
// Quantities are a stored snapshot adjusted by deltas; they cannot be
// rebuilt from the transaction list if an item record is lost.
type Ledger struct {
	repo        RepositoryPort
	logger      *slog.Logger
	strict      bool
	integration IntegrationHandler
}

// NewLedger builds a Ledger.
func NewLedger(repo RepositoryPort, logger *slog.Logger, cfg LedgerConfig) *Ledger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ledger{repo: repo, logger: logger, strict: cfg.StrictItemRefs, integration: cfg.Integration}
}

// Effect returns the signed change a movement applies to its item.
func Effect(d Direction, qty int) int {
	if d == Outbound {
		return -qty
	}
	return qty
}

// Revision returns the net change of replacing one movement with another:
// the previous effect reversed, then the new effect applied.
func Revision(prevDir Direction, prevQty int, newDir Direction, newQty int) int {
	return Effect(newDir, newQty) - Effect(prevDir, prevQty)
}

// ApplyNew applies t to its item and stores both in one unit of work. The
// returned balance is the item's new quantity; ok is false when the item
// does not exist and only the transaction was stored.
func (l *Ledger) ApplyNew(ctx context.Context, t Transaction, guards ...Guard) (balance int, ok bool, err error) {
	delta := Effect(t.Direction, t.Quantity)
	err = l.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		balance, ok, err = l.post(ctx, tx, t, delta, guards)
		return err
	})
	if err != nil {
		return 0, false, fmt.Errorf("inventory: apply %s: %w", t.ID, err)
	}
	l.notify(ctx, t, delta, balance, ok)
	return balance, ok, nil
}

// ReviseExisting replaces the effect of a stored movement, given its
// previous quantity and direction, with the effect of updated.
func (l *Ledger) ReviseExisting(ctx context.Context, updated Transaction, prevQty int, prevDir Direction, guards ...Guard) (balance int, ok bool, err error) {
	delta := Revision(prevDir, prevQty, updated.Direction, updated.Quantity)
	err = l.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		balance, ok, err = l.post(ctx, tx, updated, delta, guards)
		return err
	})
	if err != nil {
		return 0, false, fmt.Errorf("inventory: revise %s: %w", updated.ID, err)
	}
	l.notify(ctx, updated, delta, balance, ok)
	return balance, ok, nil
}

func (l *Ledger) post(ctx context.Context, tx TxRepository, t Transaction, delta int, guards []Guard) (int, bool, error) {
	item, err := tx.GetItem(ctx, t.ItemID)
	switch {
	case errors.Is(err, shared.ErrNotFound):
		if l.strict {
			return 0, false, err
		}
		l.logger.WarnContext(ctx, "movement recorded for missing item",
			slog.String("transaction_id", t.ID),
			slog.String("item_id", t.ItemID),
			slog.Int("delta", delta))
		return 0, false, tx.SaveTransaction(ctx, t)
	case err != nil:
		return 0, false, err
	}

	next := item.CurrentQuantity + delta
	for _, guard := range guards {
		if err := guard(item, next); err != nil {
			return 0, false, err
		}
	}
	item.CurrentQuantity = next
	if err := tx.SaveItem(ctx, item); err != nil {
		return 0, false, err
	}
	if err := tx.SaveTransaction(ctx, t); err != nil {
		return 0, false, err
	}
	return next, true, nil
}

// notify runs after commit. Handler errors are logged, never returned: the
// movement is already stored.
func (l *Ledger) notify(ctx context.Context, t Transaction, delta, balance int, found bool) {
	if l.integration == nil {
		return
	}
	evt := MovementPostedEvent{
		TransactionID: t.ID,
		ItemID:        t.ItemID,
		ItemName:      t.ItemName,
		Direction:     t.Direction,
		Delta:         delta,
		Balance:       balance,
		ItemFound:     found,
		PostedAt:      t.Timestamp,
	}
	if err := l.integration.HandleMovementPosted(ctx, evt); err != nil {
		l.logger.WarnContext(ctx, "movement handler failed",
			slog.String("transaction_id", t.ID),
			slog.Any("error", err))
	}
}
