package catalog_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"posledger/internal/core/apperror"
	"posledger/internal/core/entity"
	"posledger/internal/core/id"
	"posledger/internal/domain/catalogs/stockitem"
	"posledger/internal/infrastructure/storage/postgres"
)

const stockItemTable = "stock_items"

// StockItemRepo implements stockitem.Repository.
type StockItemRepo struct {
	*BaseCatalogRepo[*stockitem.StockItem]
}

var _ stockitem.Repository = (*StockItemRepo)(nil)

// NewStockItemRepo creates a new stock item repository.
func NewStockItemRepo(txManager *postgres.TxManager) *StockItemRepo {
	return &StockItemRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(txManager, BaseConfig[*stockitem.StockItem]{
			TableName:  stockItemTable,
			EntityName: "stock item",
			SelectCols: postgres.ExtractDBColumns[stockitem.StockItem](),
			NewFn:      func() *stockitem.StockItem { return &stockitem.StockItem{} },
			SearchCols: []string{"name", "model", "manufacturer"},
			LookupCols: []string{"name", "model"},
		}),
	}
}

// AdjustQuantity adds delta in a single statement so concurrent bills
// never lose an update. The version moves too, so an edit form loaded
// before the adjustment fails its optimistic check.
func (r *StockItemRepo) AdjustQuantity(ctx context.Context, itemID id.ID, delta int) (int, error) {
	sql, args, err := r.adjustQuery(itemID, delta).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build adjust: %w", err)
	}

	var qty int
	err = r.querier(ctx).QueryRow(ctx, sql, args...).Scan(&qty)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, apperror.NewNotFound("stock item", itemID.String())
	}
	if err != nil {
		return 0, fmt.Errorf("adjust quantity: %w", err)
	}
	return qty, nil
}

func (r *StockItemRepo) adjustQuery(itemID id.ID, delta int) squirrel.UpdateBuilder {
	return r.Builder().
		Update(stockItemTable).
		Set("quantity", squirrel.Expr("quantity + ?", delta)).
		Set("version", squirrel.Expr("version + 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": itemID}).
		Suffix("RETURNING quantity")
}

// ListActiveByQuantity returns active items, largest quantity first.
func (r *StockItemRepo) ListActiveByQuantity(ctx context.Context) ([]*stockitem.StockItem, error) {
	return r.Select(ctx, r.baseSelect().
		Where(squirrel.Eq{"status": entity.StatusActive}).
		OrderBy("quantity DESC", "name ASC"))
}
