// Package catalog_repo provides PostgreSQL implementations for registry
// repositories (stock items, suppliers, employees).
package catalog_repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"posledger/internal/core/apperror"
	"posledger/internal/core/entity"
	"posledger/internal/core/id"
	"posledger/internal/domain"
	"posledger/internal/infrastructure/storage/postgres"
)

type versioned interface {
	SetVersion(v int)
}

// BaseCatalogRepo provides common CRUD operations for registry entities.
// Embed this in specific repositories.
type BaseCatalogRepo[T any] struct {
	txManager  *postgres.TxManager
	tableName  string
	entityName string
	selectCols []string
	newFn      func() T

	// searchCols are matched by ListFilter.Search (ILIKE).
	searchCols []string

	// lookupCols may be passed to ExistsBy.
	lookupCols map[string]struct{}
}

// BaseConfig configures a BaseCatalogRepo.
type BaseConfig[T any] struct {
	TableName  string
	EntityName string
	SelectCols []string
	NewFn      func() T
	SearchCols []string
	LookupCols []string
}

// NewBaseCatalogRepo creates a new base catalog repository.
func NewBaseCatalogRepo[T any](txManager *postgres.TxManager, cfg BaseConfig[T]) *BaseCatalogRepo[T] {
	lookup := make(map[string]struct{}, len(cfg.LookupCols))
	for _, c := range cfg.LookupCols {
		lookup[c] = struct{}{}
	}
	searchCols := cfg.SearchCols
	if len(searchCols) == 0 {
		searchCols = []string{"name"}
	}
	return &BaseCatalogRepo[T]{
		txManager:  txManager,
		tableName:  cfg.TableName,
		entityName: cfg.EntityName,
		selectCols: cfg.SelectCols,
		newFn:      cfg.NewFn,
		searchCols: searchCols,
		lookupCols: lookup,
	}
}

// Builder returns a new squirrel builder with PostgreSQL placeholder format.
func (r *BaseCatalogRepo[T]) Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *BaseCatalogRepo[T]) querier(ctx context.Context) postgres.Querier {
	return r.txManager.GetQuerier(ctx)
}

// Create inserts a new entity using its "db" tags.
func (r *BaseCatalogRepo[T]) Create(ctx context.Context, e T) error {
	data := postgres.StructToMap(e)
	if len(data) == 0 {
		return fmt.Errorf("no db tags found in entity")
	}

	sql, args, err := r.Builder().
		Insert(r.tableName).
		SetMap(postgres.PickColumns(data, r.selectCols)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return postgres.MapWriteError(r.entityName, fmt.Errorf("insert %s: %w", r.tableName, err))
	}
	return nil
}

// Update modifies an existing entity with optimistic locking.
func (r *BaseCatalogRepo[T]) Update(ctx context.Context, e T) error {
	q, version, err := r.buildUpdate(e)
	if err != nil {
		return err
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapWriteError(r.entityName, fmt.Errorf("update %s: %w", r.tableName, err))
	}
	if result.RowsAffected() == 0 {
		return apperror.NewConcurrentModification(r.entityName, postgres.StructToMap(e)["id"])
	}

	if v, ok := any(e).(versioned); ok {
		v.SetVersion(version + 1)
	}
	return nil
}

func (r *BaseCatalogRepo[T]) buildUpdate(e T) (squirrel.UpdateBuilder, int, error) {
	data := postgres.StructToMap(e)
	entityID, ok := data["id"]
	if !ok {
		return squirrel.UpdateBuilder{}, 0, fmt.Errorf("entity has no 'id' field with db tag")
	}
	version, ok := data["version"].(int)
	if !ok {
		return squirrel.UpdateBuilder{}, 0, fmt.Errorf("entity has no 'version' field or it is not an int")
	}

	// id, version and created_at are never written by an update
	set := postgres.PickColumns(data, r.selectCols, "id", "version", "created_at")
	set["updated_at"] = squirrel.Expr("NOW()")

	q := r.Builder().
		Update(r.tableName).
		SetMap(set).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": entityID}).
		Where(squirrel.Eq{"version": version})
	return q, version, nil
}

func (r *BaseCatalogRepo[T]) baseSelect() squirrel.SelectBuilder {
	return r.Builder().
		Select(r.selectCols...).
		From(r.tableName)
}

// GetByID retrieves entity by ID regardless of status.
func (r *BaseCatalogRepo[T]) GetByID(ctx context.Context, entityID id.ID) (T, error) {
	return r.findOne(ctx, r.baseSelect().Where(squirrel.Eq{"id": entityID}).Limit(1), entityID.String())
}

// GetForUpdate retrieves entity by ID with row lock.
func (r *BaseCatalogRepo[T]) GetForUpdate(ctx context.Context, entityID id.ID) (T, error) {
	return r.findOne(ctx, r.baseSelect().Where(squirrel.Eq{"id": entityID}).Suffix("FOR UPDATE"), entityID.String())
}

// GetByName retrieves entity by name, preferring an active record.
func (r *BaseCatalogRepo[T]) GetByName(ctx context.Context, name string) (T, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"name": name}).
		OrderBy(fmt.Sprintf("(status = '%s') DESC", entity.StatusActive), "created_at DESC").
		Limit(1)
	return r.findOne(ctx, q, name)
}

func (r *BaseCatalogRepo[T]) findOne(ctx context.Context, q squirrel.SelectBuilder, key string) (T, error) {
	e := r.newFn()

	sql, args, err := q.ToSql()
	if err != nil {
		return e, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Get(ctx, r.querier(ctx), e, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return e, apperror.NewNotFound(r.entityName, key)
		}
		return e, fmt.Errorf("get %s: %w", r.tableName, err)
	}
	return e, nil
}

// SetStatus moves the entity between active and deleted.
func (r *BaseCatalogRepo[T]) SetStatus(ctx context.Context, entityID id.ID, status entity.Status) error {
	sql, args, err := r.Builder().
		Update(r.tableName).
		Set("status", status).
		Set("version", squirrel.Expr("version + 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": entityID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build set status: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("execute set status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(r.entityName, entityID.String())
	}
	return nil
}

// ExistsBy reports whether another record holds value in column.
func (r *BaseCatalogRepo[T]) ExistsBy(ctx context.Context, column, value string, excludeID id.ID) (bool, error) {
	if _, ok := r.lookupCols[column]; !ok {
		return false, fmt.Errorf("invalid lookup column: %s", column)
	}

	sql, args, err := r.Builder().
		Select("1").
		From(r.tableName).
		Where(squirrel.Eq{column: value}).
		Where(squirrel.NotEq{"id": excludeID}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build query: %w", err)
	}

	var one int
	err = r.querier(ctx).QueryRow(ctx, sql, args...).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("exists by %s: %w", column, err)
	}
	return true, nil
}

// listQuery applies ListFilter conditions without ordering or paging.
func (r *BaseCatalogRepo[T]) listQuery(filter domain.ListFilter) squirrel.SelectBuilder {
	q := r.baseSelect()

	if !filter.IncludeDeleted {
		q = q.Where(squirrel.Eq{"status": entity.StatusActive})
	}

	if s := strings.TrimSpace(filter.Search); s != "" {
		pattern := "%" + s + "%"
		or := make(squirrel.Or, 0, len(r.searchCols))
		for _, col := range r.searchCols {
			or = append(or, squirrel.ILike{col: pattern})
		}
		q = q.Where(or)
	}

	if len(filter.IDs) > 0 {
		q = q.Where(squirrel.Eq{"id": filter.IDs})
	}
	return q
}

// List retrieves entities with filtering and pagination.
func (r *BaseCatalogRepo[T]) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[T], error) {
	result := domain.ListResult[T]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := r.listQuery(filter)

	countSQL, countArgs, err := r.Builder().
		Select("COUNT(*)").
		FromSelect(q, "sub").
		ToSql()
	if err != nil {
		return result, fmt.Errorf("build count query: %w", err)
	}

	querier := r.querier(ctx)
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count: %w", err)
	}

	orderBy, err := r.parseOrderBy(filter.OrderBy)
	if err != nil {
		return result, err
	}
	q = q.OrderBy(orderBy)

	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}

	result.Items = make([]T, 0)
	if err := pgxscan.Select(ctx, querier, &result.Items, sql, args...); err != nil {
		return result, fmt.Errorf("list %s: %w", r.tableName, err)
	}
	return result, nil
}

// Select runs q and scans every row.
func (r *BaseCatalogRepo[T]) Select(ctx context.Context, q squirrel.SelectBuilder) ([]T, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	items := make([]T, 0)
	if err := pgxscan.Select(ctx, r.querier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("select %s: %w", r.tableName, err)
	}
	return items, nil
}

// parseOrderBy turns "name" / "-quantity" into an ORDER BY clause,
// accepting only selected columns.
func (r *BaseCatalogRepo[T]) parseOrderBy(orderBy string) (string, error) {
	if orderBy == "" {
		return "name ASC", nil
	}

	dir := "ASC"
	col := orderBy
	if strings.HasPrefix(col, "-") {
		dir = "DESC"
		col = col[1:]
	}

	for _, allowed := range r.selectCols {
		if allowed == col {
			return col + " " + dir + ", id " + dir, nil
		}
	}
	return "", apperror.NewValidation("invalid sort column").
		WithDetail("field", "orderBy").
		WithDetail("value", orderBy)
}
