package stockitem

import (
	"context"
	"fmt"

	"posledger/internal/core/apperror"
	"posledger/internal/core/id"
	"posledger/internal/core/tx"
	"posledger/internal/domain"
)

const entityName = "stock item"

// Service provides the Stock Ledger operations.
type Service struct {
	*domain.CatalogService[*StockItem]
	repo      Repository
	txManager tx.Manager
}

// NewService creates a new stock item service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*StockItem]{
		Repo:       repo,
		TxManager:  txManager,
		EntityName: entityName,
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
		txManager:      txManager,
	}

	unique := domain.UniqueFieldsHook(entityName, repo, func(s *StockItem) []domain.UniqueField {
		return []domain.UniqueField{
			{Column: "name", Value: s.Name},
			{Column: "model", Value: s.Model},
		}
	})
	base.Hooks().OnBeforeCreate(svc.prepareForCreate)
	base.Hooks().OnBeforeCreate(unique)
	base.Hooks().OnBeforeUpdate(unique)

	return svc
}

func (s *Service) prepareForCreate(ctx context.Context, item *StockItem) error {
	if item.Quantity < 0 {
		return apperror.NewValidation("initial quantity cannot be negative").
			WithDetail("field", "quantity")
	}
	return nil
}

// Lock loads the item with a row lock. Must run inside a transaction.
func (s *Service) Lock(ctx context.Context, itemID id.ID) (*StockItem, error) {
	item, err := s.repo.GetForUpdate(ctx, itemID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound(entityName, itemID.String())
		}
		return nil, fmt.Errorf("lock stock item: %w", err)
	}
	return item, nil
}

// Adjust applies delta to the on-hand quantity without any policy check.
func (s *Service) Adjust(ctx context.Context, itemID id.ID, delta int) (int, error) {
	qty, err := s.repo.AdjustQuantity(ctx, itemID, delta)
	if err != nil {
		if apperror.IsNotFound(err) {
			return 0, apperror.NewNotFound(entityName, itemID.String())
		}
		return 0, fmt.Errorf("adjust stock quantity: %w", err)
	}
	return qty, nil
}

// Increment adds n to an active item's quantity.
func (s *Service) Increment(ctx context.Context, itemID id.ID, n int) (int, error) {
	return s.change(ctx, itemID, n, 1)
}

// Decrement subtracts n from an active item's quantity. The result is not
// clamped; callers enforce any non-negative policy.
func (s *Service) Decrement(ctx context.Context, itemID id.ID, n int) (int, error) {
	return s.change(ctx, itemID, n, -1)
}

func (s *Service) change(ctx context.Context, itemID id.ID, n, sign int) (int, error) {
	if n <= 0 {
		return 0, apperror.NewValidation("quantity must be positive").WithDetail("field", "quantity")
	}
	delta := sign * n

	var qty int
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		item, err := s.Lock(ctx, itemID)
		if err != nil {
			return err
		}
		if item.IsDeleted() {
			return apperror.NewValidation("stock item is deleted").WithDetail("id", itemID.String())
		}
		qty, err = s.Adjust(ctx, itemID, delta)
		return err
	})
	return qty, err
}

// SoftDelete marks the item deleted. It stays resolvable by id.
func (s *Service) SoftDelete(ctx context.Context, itemID id.ID) error {
	return s.Delete(ctx, itemID)
}

// ListActiveByQuantity returns active items, largest quantity first.
func (s *Service) ListActiveByQuantity(ctx context.Context) ([]*StockItem, error) {
	return s.repo.ListActiveByQuantity(ctx)
}
