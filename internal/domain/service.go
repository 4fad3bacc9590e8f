package domain

import (
	"context"
	"fmt"

	"posledger/internal/core/apperror"
	"posledger/internal/core/entity"
	"posledger/internal/core/id"
	"posledger/internal/core/tx"
	"posledger/pkg/logger"
)

// CatalogService provides business logic for registry entities.
type CatalogService[T entity.Validatable] struct {
	repo      CatalogRepository[T]
	txManager tx.Manager
	hooks     *HookRegistry[T]

	// entityName for error messages
	entityName string
}

// CatalogServiceConfig configures the catalog service.
type CatalogServiceConfig[T entity.Validatable] struct {
	Repo       CatalogRepository[T]
	TxManager  tx.Manager
	EntityName string
}

// NewCatalogService creates a new catalog service.
func NewCatalogService[T entity.Validatable](cfg CatalogServiceConfig[T]) *CatalogService[T] {
	return &CatalogService[T]{
		repo:       cfg.Repo,
		txManager:  cfg.TxManager,
		hooks:      NewHookRegistry[T](),
		entityName: cfg.EntityName,
	}
}

// Hooks returns the hook registry for external registration.
func (s *CatalogService[T]) Hooks() *HookRegistry[T] {
	return s.hooks
}

// EntityName returns the name used in errors and logs.
func (s *CatalogService[T]) EntityName() string {
	return s.entityName
}

func (s *CatalogService[T]) normalizeValidationErr(err error) error {
	if err == nil {
		return nil
	}
	if apperror.IsAppError(err) {
		return err
	}
	return apperror.NewValidation(err.Error())
}

func (s *CatalogService[T]) normalizeGetErr(err error, key any) error {
	if err == nil {
		return nil
	}
	if apperror.IsNotFound(err) {
		return apperror.NewNotFound(s.entityName, key)
	}
	if apperror.IsAppError(err) {
		return err
	}
	return apperror.NewInternal(err).WithDetail("entity", s.entityName).WithDetail("id", key)
}

// Create creates a new entity.
func (s *CatalogService[T]) Create(ctx context.Context, entity T) error {
	if err := entity.Validate(ctx); err != nil {
		return s.normalizeValidationErr(err)
	}

	if err := s.hooks.Run(ctx, BeforeCreate, entity); err != nil {
		return err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, entity); err != nil {
			return fmt.Errorf("create %s: %w", s.entityName, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := s.hooks.Run(ctx, AfterCreate, entity); err != nil {
		logger.Warn(ctx, "after-create hook failed", "entity", s.entityName, "error", err)
	}
	return nil
}

// GetByID retrieves entity by ID. Deleted entities are still returned so
// historical bills can display them.
func (s *CatalogService[T]) GetByID(ctx context.Context, entityID id.ID) (T, error) {
	e, err := s.repo.GetByID(ctx, entityID)
	if err != nil {
		return e, s.normalizeGetErr(err, entityID.String())
	}
	return e, nil
}

// GetByName retrieves entity by its unique name.
func (s *CatalogService[T]) GetByName(ctx context.Context, name string) (T, error) {
	e, err := s.repo.GetByName(ctx, name)
	if err != nil {
		return e, s.normalizeGetErr(err, name)
	}
	return e, nil
}

// Update updates an existing entity.
func (s *CatalogService[T]) Update(ctx context.Context, entity T) error {
	if err := entity.Validate(ctx); err != nil {
		return s.normalizeValidationErr(err)
	}

	if err := s.hooks.Run(ctx, BeforeUpdate, entity); err != nil {
		return err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Update(ctx, entity); err != nil {
			return fmt.Errorf("update %s: %w", s.entityName, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := s.hooks.Run(ctx, AfterUpdate, entity); err != nil {
		logger.Warn(ctx, "after-update hook failed", "entity", s.entityName, "error", err)
	}
	return nil
}

// Delete performs soft delete.
func (s *CatalogService[T]) Delete(ctx context.Context, entityID id.ID) error {
	e, err := s.repo.GetByID(ctx, entityID)
	if err != nil {
		return s.normalizeGetErr(err, entityID.String())
	}

	if err := s.hooks.Run(ctx, BeforeDelete, e); err != nil {
		return err
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.SetStatus(ctx, entityID, entity.StatusDeleted); err != nil {
			return fmt.Errorf("delete %s: %w", s.entityName, err)
		}
		return nil
	})
	if err != nil {
		return s.normalizeGetErr(err, entityID.String())
	}

	logger.Info(ctx, "record soft-deleted", "entity", s.entityName, "id", entityID.String())

	if err := s.hooks.Run(ctx, AfterDelete, e); err != nil {
		logger.Warn(ctx, "after-delete hook failed", "entity", s.entityName, "error", err)
	}
	return nil
}

// List retrieves entities with filtering.
func (s *CatalogService[T]) List(ctx context.Context, filter ListFilter) (ListResult[T], error) {
	return s.repo.List(ctx, filter.Normalize())
}
